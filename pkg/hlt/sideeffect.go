package hlt

import (
	"github.com/oisee/spinc/pkg/ast"
	"github.com/oisee/spinc/pkg/module"
)

// hasSideEffects conservatively reports whether evaluating n could have an
// observable side effect: a call, an assignment of any form, or a pre/post
// increment/decrement anywhere in its subtree (spec.md §4.3
// extract_side_effects).
func hasSideEffects(n *ast.Node) bool {
	if n == nil {
		return false
	}
	switch n.Kind {
	case ast.KindFuncall, ast.KindAssign, ast.KindAssignChain, ast.KindOpAssign,
		ast.KindMultiAssign, ast.KindRangeAssign,
		ast.KindPreInc, ast.KindPreDec, ast.KindPostInc, ast.KindPostDec:
		return true
	}
	return hasSideEffects(n.Left) || hasSideEffects(n.Right)
}

// extractSideEffects hoists any side-effecting sub-expression of an array
// index or memory-reference offset into a fresh temporary, returning the
// hoisting statements (possibly nil) and a side-effect-free replacement for
// lhs (spec.md §4.3: "allocating fresh temporaries for any array index or
// memory reference whose sub-expressions have side effects").
func extractSideEffects(ctx *module.Context, lhs *ast.Node) (stmts *ast.Node, pure *ast.Node) {
	if lhs == nil {
		return nil, nil
	}
	switch lhs.Kind {
	case ast.KindArrayRef, ast.KindMemRef:
		index := lhs.Right
		if !hasSideEffects(index) {
			return nil, lhs
		}
		tempName, err := ctx.Function.LocalSyms.NewTemp("_idx")
		if err != nil {
			reportInternal(ctx, ctx.Builder.Loc(), "extract side effects: %v", err)
			return nil, lhs
		}
		b := ctx.Builder
		tempIdent := b.Ident(tempName)
		assign := b.Node(ast.KindAssign, tempIdent, index)
		stmt := ast.NewListCell(ast.KindStmtList, assign, b.Loc())
		replaced := b.Node(lhs.Kind, lhs.Left, b.Ident(tempName))
		return stmt, replaced
	default:
		return nil, lhs
	}
}
