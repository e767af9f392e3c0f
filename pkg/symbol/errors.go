package symbol

import (
	"fmt"

	"github.com/pkg/errors"
)

// DuplicateError is returned by Add when name is already bound to a
// non-weak symbol in the table (spec.md §7 SymbolRedefinition).
type DuplicateError struct {
	Name     string
	Existing *Symbol
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("symbol %q already defined as %s", e.Name, e.Existing.Kind)
}

// UnknownError is returned by lookups that fail to resolve a name
// (spec.md §7 UnknownSymbol). UserName carries the original spelling so a
// caller can render a diagnostic without re-deriving it.
type UnknownError struct {
	Name     string
	UserName string
}

func (e *UnknownError) Error() string {
	if e.UserName != "" && e.UserName != e.Name {
		return fmt.Sprintf("unknown symbol %q", e.UserName)
	}
	return fmt.Sprintf("unknown symbol %q", e.Name)
}

// AliasCycleError is raised when LookupChain cannot dereference a weak
// alias chain within the 32-hop budget (spec.md §4.1, §8).
type AliasCycleError struct {
	Name string
	Hops int
}

func (e *AliasCycleError) Error() string {
	return fmt.Sprintf("recursive definition: alias chain for %q exceeds %d hops", e.Name, e.Hops)
}

// TempOverflowError is fatal: the minted-temporary-name counter exceeded
// its bound (spec.md §4.1, §5 — "catastrophic resource exhaustion").
type TempOverflowError struct {
	Prefix string
	Limit  int
}

func (e *TempOverflowError) Error() string {
	return fmt.Sprintf("temporary name counter for prefix %q exceeded limit %d", e.Prefix, e.Limit)
}

// wrap is a thin helper over github.com/pkg/errors.Wrapf, matching the
// wrapping style in other_examples/.../golint-fixer-exp__cmd-bin2ll-ll.go.go.
// No code in this package calls it.
func wrap(err error, format string, args ...any) error {
	return errors.Wrapf(err, format, args...)
}
