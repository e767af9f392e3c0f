package module

import "github.com/oisee/spinc/pkg/ast"

// WalkAST visits every node reachable from root, pre-order, including
// through right-chained lists. It is the one traversal primitive the core
// offers a backend for the "Backend → Core" contract of spec.md §6.
func WalkAST(root *ast.Node, visit func(*ast.Node)) {
	if root == nil {
		return
	}
	visit(root)
	WalkAST(root.Left, visit)
	WalkAST(root.Right, visit)
}

// BackendAggregator is implemented by a backend's "which runtime helpers
// and tuple arities does this module actually use" visitor (spec.md §6:
// "SetCppFlags in the C/C++ backend; analogous in the assembly backend").
// The core supplies the traversal; the backend supplies the observation.
type BackendAggregator interface {
	Observe(n *ast.Node)
}

// AggregateBackendFlags scans every function body plus the conblock,
// datblock and varblock of m with agg, so a backend can populate
// Module.BEData in a single pass over the final, transformed AST (spec.md
// §3 BEData, §6).
func AggregateBackendFlags(m *Module, agg BackendAggregator) {
	WalkAST(m.ConBlock, agg.Observe)
	WalkAST(m.DatBlock, agg.Observe)
	WalkAST(m.VarBlock, agg.Observe)
	for _, fn := range m.Functions {
		WalkAST(fn.Body, agg.Observe)
	}
}
