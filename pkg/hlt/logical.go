package hlt

import (
	"github.com/oisee/spinc/pkg/ast"
	"github.com/oisee/spinc/pkg/module"
)

// rewriteLogicalOps is spec.md §4.3 step 3: AND/OR/XOR over boolean
// operands compile differently depending on whether either operand has a
// side effect. A side-effect-free pair keeps its short-circuit operator
// (OpLogAnd/OpLogOr — the IR's boolean-branch compiler skips evaluating
// the right operand when the left already decides the result). A pair
// where either side has a side effect must evaluate both sides, so it is
// normalized to plain bitwise AND/OR/XOR of each operand's "!= 0" boolean
// value — XOR has no short-circuit form in the first place and always
// takes this path. Grounded on
// _examples/original_source/hltransform.c's logic-operator rewrite.
func rewriteLogicalOps(ctx *module.Context, body *ast.Node) *ast.Node {
	return rewriteLogicalList(ctx, body)
}

func rewriteLogicalList(ctx *module.Context, list *ast.Node) *ast.Node {
	for c := list; c != nil; c = c.Right {
		c.Left = rewriteLogicalStmt(ctx, c.Left)
	}
	return list
}

func rewriteLogicalStmt(ctx *module.Context, stmt *ast.Node) *ast.Node {
	if stmt == nil {
		return nil
	}
	switch stmt.Kind {
	case ast.KindIf, ast.KindIfElse:
		stmt.Left = rewriteLogicalExpr(ctx, stmt.Left)
		if stmt.Right != nil {
			stmt.Right.Left = rewriteLogicalList(ctx, stmt.Right.Left)
			if stmt.Right.Right != nil {
				stmt.Right.Right = rewriteLogicalList(ctx, stmt.Right.Right)
			}
		}
		return stmt
	case ast.KindFor, ast.KindWhile, ast.KindRepeatCount:
		stmt.Left = rewriteLogicalExpr(ctx, stmt.Left)
		stmt.Right = rewriteLogicalList(ctx, stmt.Right)
		return stmt
	case ast.KindCase:
		stmt.Left = rewriteLogicalExpr(ctx, stmt.Left)
		stmt.Right = rewriteLogicalList(ctx, stmt.Right)
		return stmt
	case ast.KindCaseItem, ast.KindOther:
		stmt.Right = rewriteLogicalList(ctx, stmt.Right)
		return stmt
	default:
		stmt.Left = rewriteLogicalExpr(ctx, stmt.Left)
		stmt.Right = rewriteLogicalExpr(ctx, stmt.Right)
		return stmt
	}
}

func rewriteLogicalExpr(ctx *module.Context, n *ast.Node) *ast.Node {
	if n == nil {
		return nil
	}
	n.Left = rewriteLogicalExpr(ctx, n.Left)
	n.Right = rewriteLogicalExpr(ctx, n.Right)

	if n.Kind != ast.KindOperator {
		return n
	}
	switch n.Op() {
	case ast.OpLogAnd, ast.OpLogOr:
		if !hasSideEffects(n.Left) && !hasSideEffects(n.Right) {
			return n // short-circuit form is safe to keep
		}
		return toBitwiseBool(ctx, n)
	case ast.OpLogXor:
		return toBitwiseBool(ctx, n)
	default:
		return n
	}
}

// toBitwiseBool rewrites a short-circuit-shaped logical operator node to
// its non-short-circuit bitwise equivalent: each operand is normalized to
// a 0/1 boolean via `!= 0` first, so plain bitwise AND/OR/XOR produces the
// same truth value the short-circuit operator would have.
func toBitwiseBool(ctx *module.Context, n *ast.Node) *ast.Node {
	b := ctx.Builder
	left := b.Operator(ast.OpNe, n.Left, b.Int(0))
	right := b.Operator(ast.OpNe, n.Right, b.Int(0))

	var bitwise ast.OperatorCode
	switch n.Op() {
	case ast.OpLogAnd:
		bitwise = ast.OpBitwiseAndSC
	case ast.OpLogOr:
		bitwise = ast.OpBitwiseOrSC
	case ast.OpLogXor:
		bitwise = ast.OpBitXor
	}
	return b.Operator(bitwise, left, right)
}
