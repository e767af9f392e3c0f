package module

import (
	"github.com/oisee/spinc/pkg/ast"
	"github.com/oisee/spinc/pkg/symbol"
)

// FunctionFlags are the orthogonal boolean attributes spec.md §3 lists on
// Function: is_static, is_public, force_static, cog_task, uses_alloca,
// local_address_taken, force_locals_to_stack, stack_local, sets_send,
// sets_recv, used_as_ptr, is_leaf, is_recursive.
type FunctionFlags uint32

const (
	FlagIsStatic FunctionFlags = 1 << iota
	FlagIsPublic
	FlagForceStatic
	FlagCogTask
	FlagUsesAlloca
	FlagLocalAddressTaken
	FlagForceLocalsToStack
	FlagStackLocal
	FlagSetsSend
	FlagSetsRecv
	FlagUsedAsPtr
	FlagIsLeaf
	FlagIsRecursive
)

func (f FunctionFlags) Has(bit FunctionFlags) bool { return f&bit != 0 }

// Function is {name, params, locals, body, overall_type, result_expr,
// language, localsyms, flags} plus the callSites counter (spec.md §3).
type Function struct {
	Name        string
	Params      []*symbol.Symbol
	Locals      []*symbol.Symbol
	Body        *ast.Node
	OverallType any
	ResultExpr  *ast.Node
	Language    Language
	LocalSyms   *symbol.Table
	Flags       FunctionFlags

	// CallSites counts distinct call sites; when zero and the
	// unused-function optimization is enabled, the function is not
	// emitted (spec.md §3).
	CallSites int

	Module *Module // back-reference, set by Module.AddFunction
}

// NewFunction creates an empty function whose LocalSyms chains to objSyms.
func NewFunction(name string, lang Language, objSyms *symbol.Table) *Function {
	return &Function{
		Name:      name,
		Language:  lang,
		LocalSyms: symbol.NewTable(objSyms, !lang.CaseSensitive()),
	}
}

// IsUnused reports whether the unused-function-elimination optimization
// would drop fn: zero call sites and not force-kept (spec.md §3).
func (fn *Function) IsUnused() bool {
	return fn.CallSites == 0 && !fn.Flags.Has(FlagIsPublic) && !fn.Flags.Has(FlagForceStatic)
}
