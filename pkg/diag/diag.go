// Package diag implements the error-handling design of spec.md §7: a
// taxonomy of diagnostic kinds aggregated on a module-level counter rather
// than raised mid-traversal, plus the policy that InternalError and
// TypeError findings let later passes keep running so they can surface
// additional diagnostics instead of aborting on the first one.
//
// Grounded on the teacher's progress-reporting style in
// pkg/search/worker.go (leveled, periodic status lines) generalized to
// structured logging via github.com/sirupsen/logrus, matching
// other_examples/.../weiyilai-calico__felix-bpf-asm-asm.go.go's
// `log "github.com/sirupsen/logrus"` usage in a register-machine
// assembler.
package diag

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oisee/spinc/pkg/srcloc"
)

// Kind is the spec.md §7 diagnostic taxonomy.
type Kind int

const (
	KindSyntaxError Kind = iota
	KindSymbolRedefinition
	KindUnknownSymbol
	KindTypeError
	KindInternalError
	KindWarning
)

func (k Kind) String() string {
	switch k {
	case KindSyntaxError:
		return "syntax-error"
	case KindSymbolRedefinition:
		return "symbol-redefinition"
	case KindUnknownSymbol:
		return "unknown-symbol"
	case KindTypeError:
		return "type-error"
	case KindInternalError:
		return "internal-error"
	case KindWarning:
		return "warning"
	default:
		return "unknown-kind"
	}
}

// IsFatalToFunction reports whether this kind aborts processing of the
// enclosing function only (spec.md §7: SyntaxError "is fatal for the
// affected function, continues at the next function"); all other kinds
// never abort a traversal.
func (k Kind) IsFatalToFunction() bool { return k == KindSyntaxError }

// Diagnostic is one recorded finding.
type Diagnostic struct {
	Kind    Kind
	Message string
	Loc     srcloc.Loc
}

// Bag aggregates diagnostics for one module (spec.md §7: "diagnostics are
// aggregated on a module-level counter; passes never raise in the middle
// of a traversal").
type Bag struct {
	Diagnostics []Diagnostic
	errorCount  int
	log         *logrus.Entry
}

// NewBag creates an empty Bag. moduleName is attached as a structured
// field on every log line the Bag emits.
func NewBag(moduleName string) *Bag {
	return &Bag{log: logrus.WithField("module", moduleName)}
}

// Add records a diagnostic and logs it at the severity appropriate to its
// kind: KindWarning logs at Warn, everything else (including
// KindInternalError, which must never abort the pass) logs at Error.
func (b *Bag) Add(kind Kind, loc srcloc.Loc, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	b.Diagnostics = append(b.Diagnostics, Diagnostic{Kind: kind, Message: msg, Loc: loc})

	entry := b.log.WithField("kind", kind.String())
	if li := srcloc.GetLineInfo(loc); li.Filename != "" {
		entry = entry.WithField("file", li.Filename).WithField("line", li.Line)
	}
	if kind == KindWarning {
		entry.Warn(msg)
	} else {
		b.errorCount++
		entry.Error(msg)
	}
}

// ErrorCount returns the number of non-Warning diagnostics recorded.
// Callers inspect this at pass boundaries and may skip later optimization
// if it is non-zero (spec.md §7).
func (b *Bag) ErrorCount() int { return b.errorCount }

// HasErrors reports ErrorCount() > 0.
func (b *Bag) HasErrors() bool { return b.errorCount > 0 }
