package compiler

import (
	"github.com/oisee/spinc/pkg/ast"
	"github.com/oisee/spinc/pkg/module"
)

// BackendFlags is the per-module, backend-facing summary spec.md §6 calls
// "bedata": a type-erased slot a backend owns for the lifetime of one
// compilation, populated by a final scan over the transformed AST
// (spec.md §9's SetCppFlags-shaped visitor, SUPPLEMENTED FEATURES #6).
// The core computes it but never interprets it; a backend decides what
// runtime helper routines or object layouts each flag implies.
type BackendFlags struct {
	NeedsMultiply bool // a surviving '*' operator needs a multiply helper/instruction
	NeedsDivide   bool // '/' or '%' needs a divide helper
	NeedsFloat    bool // any float literal or float arithmetic survived
	NeedsString   bool // any string literal operand survived
	NeedsVarArgs  bool // any va_arg node survived
	HasRecursion  bool // any function in the module is marked recursive

	// MaxCallArity is the largest argument count of any call site in the
	// module — the "tuple arity" a backend's calling-convention code
	// needs to size its argument-passing area for (_examples/
	// original_source/outasm.c's SetCppFlags walks every call the same
	// way to size its parameter-passing struct).
	MaxCallArity int
}

// AggregateBackendFlags walks every function's (already HL-transformed,
// CSE'd, loop-optimized) body and folds the result into one module-wide
// BackendFlags (spec.md §6, SUPPLEMENTED FEATURES #6; grounded on
// _examples/original_source/outasm.c's SetCppFlags, which performs the
// same kind of whole-AST scan to decide which C++ runtime helpers a
// module's generated code needs).
func AggregateBackendFlags(m *module.Module) BackendFlags {
	var f BackendFlags
	for _, fn := range m.Functions {
		if fn.Flags.Has(module.FlagIsRecursive) {
			f.HasRecursion = true
		}
		walkForFlags(fn.Body, &f)
	}
	return f
}

func walkForFlags(n *ast.Node, f *BackendFlags) {
	if n == nil {
		return
	}
	switch n.Kind {
	case ast.KindFloat:
		f.NeedsFloat = true
	case ast.KindString:
		f.NeedsString = true
	case ast.KindVaArg:
		f.NeedsVarArgs = true
	case ast.KindOperator:
		switch n.Op() {
		case ast.OpMul:
			f.NeedsMultiply = true
		case ast.OpDiv, ast.OpMod:
			f.NeedsDivide = true
		}
	case ast.KindFuncall:
		if arity := ast.ListLen(n.Right); arity > f.MaxCallArity {
			f.MaxCallArity = arity
		}
	}
	walkForFlags(n.Left, f)
	walkForFlags(n.Right, f)
}
