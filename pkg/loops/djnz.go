package loops

import (
	"github.com/oisee/spinc/pkg/ast"
	"github.com/oisee/spinc/pkg/module"
	"github.com/oisee/spinc/pkg/symbol"
)

// getRevisedLimit normalizes a loop's upper-bound test so the caller can
// compare directly against it: "<=" becomes "< limit+1", and "i <= j-1"
// folds the -1 into the limit's own offset when j isn't a plain constant
// (loops.c: GetRevisedLimit). Returns nil when op isn't one this package
// can normalize.
func getRevisedLimit(ctx *module.Context, op ast.OperatorCode, oldLimit *ast.Node) *ast.Node {
	b := ctx.Builder
	if isConstExpr(oldLimit) || isIdentifierNode(oldLimit) {
		if op == ast.OpLe || op == ast.OpLeU {
			return b.Operator(ast.OpAdd, ast.Dup(oldLimit), b.Int(1))
		}
		return ast.Dup(oldLimit)
	}
	if op != ast.OpLe && op != ast.OpLeU {
		return nil
	}
	if oldLimit.Kind == ast.KindOperator && oldLimit.Op() == ast.OpSub {
		if !isIdentifierNode(oldLimit.Left) || !isConstExpr(oldLimit.Right) {
			return nil
		}
		offset := evalConstExpr(oldLimit.Right)
		if offset == 1 {
			return ast.Dup(oldLimit.Left)
		}
		return b.Operator(ast.OpSub, ast.Dup(oldLimit.Left), b.Int(offset-1))
	}
	return nil
}

// hasBranch reports whether stmt contains a construct that could transfer
// control somewhere other than the next statement in sequence (loops.c:
// HasBranch). This AST has no goto/label kinds at the statement-list level
// pkg/loops walks, so there is nothing for it to find yet; kept so a
// future branch-carrying kind has an obvious place to be wired in.
func hasBranch(stmt *ast.Node) bool {
	return false
}

// lastBodyCell returns the final KindStmtList cell of body, the cell
// pkg/hlt's loop lowering always uses to carry a counted loop's
// per-iteration induction-variable step, so callers can read or rewrite
// that step in place.
func lastBodyCell(body *ast.Node) *ast.Node {
	if body == nil {
		return nil
	}
	cell := body
	for cell.Right != nil {
		cell = cell.Right
	}
	return cell
}

func incDecTarget(n *ast.Node) *ast.Node {
	if n.Left != nil {
		return n.Left
	}
	return n.Right
}

// checkSimpleDecrementLoop strengthens an unsigned "induction > 0" test on
// an already-descending counted loop to "induction != 0", the comparison
// form the IR's compare-fold-into-djnz pass looks for (loops.c:
// CheckSimpleDecrementLoop, the unsigned-GTU branch only — the original's
// companion FORATLEASTONCE rewrite for an already-"!= 0" loop has no
// analogue here, since this AST's KindFor is a plain pretest loop that
// already handles a zero-trip body correctly without it).
func checkSimpleDecrementLoop(ctx *module.Context, forNode *ast.Node) bool {
	cond := forNode.Left
	if cond == nil || cond.Kind != ast.KindOperator || cond.Op() != ast.OpGtU {
		return false
	}
	if !isConstExpr(cond.Right) || evalConstExpr(cond.Right) != 0 {
		return false
	}
	updateCell := lastBodyCell(forNode.Right)
	if updateCell == nil || updateCell.Left == nil {
		return false
	}
	update := updateCell.Left
	if update.Kind != ast.KindPreDec && update.Kind != ast.KindPostDec {
		return false
	}
	if !ast.Match(cond.Left, incDecTarget(update), matchOpts) {
		return false
	}
	forNode.Left = ctx.Builder.Operator(ast.OpNe, ast.Dup(cond.Left), ast.Dup(cond.Right))
	return true
}

// checkSimpleIncrementLoop flips an ascending counted loop whose induction
// variable is otherwise unused in its own body into a descending countdown
// to zero, the shape the IR's compare-fold-into-djnz pass recognizes
// (loops.c: CheckSimpleIncrementLoop). Guards the rewrite, exactly as the
// original does, with an if-test of the original bound using the original
// (unmodified) initial value, so a loop that would have run zero times
// keeps running zero times.
func checkSimpleIncrementLoop(ctx *module.Context, initCell, forNode *ast.Node) bool {
	if initCell == nil || forNode == nil {
		return false
	}
	initial := initCell.Left
	if initial == nil || initial.Kind != ast.KindAssign {
		return false
	}
	loopvar := initial.Left
	if !isIdentifierNode(loopvar) {
		return false
	}
	if !isConstExpr(initial.Right) {
		return false
	}
	sym := lookupSymbol(ctx, loopvar)
	if sym == nil {
		return false
	}
	switch sym.Kind {
	case symbol.KindParameter, symbol.KindResult, symbol.KindLocal, symbol.KindTemp:
	default:
		return false
	}
	if ctx.Function.Flags.Has(module.FlagLocalAddressTaken) {
		return false
	}

	if forNode.Kind != ast.KindFor {
		return false
	}
	cond := forNode.Left
	body := forNode.Right
	if cond == nil || cond.Kind != ast.KindOperator {
		return false
	}
	switch cond.Op() {
	case ast.OpLe, ast.OpLt, ast.OpLeU, ast.OpLtU:
	default:
		return false
	}
	if !ast.Match(cond.Left, loopvar, matchOpts) {
		return false
	}

	updateCell := lastBodyCell(body)
	if updateCell == nil || updateCell.Left == nil {
		return false
	}
	update := updateCell.Left
	if update.Kind != ast.KindPreInc && update.Kind != ast.KindPostInc {
		return false
	}
	if !ast.Match(incDecTarget(update), loopvar, matchOpts) {
		return false
	}
	if hasBranch(body) {
		return false
	}
	if bodyUsesExcept(body, update, loopvar) {
		return false
	}

	revisedLimit := getRevisedLimit(ctx, cond.Op(), cond.Right)
	if revisedLimit == nil {
		return false
	}

	b := ctx.Builder
	initVal := evalConstExpr(initial.Right)

	guardTest := b.Operator(cond.Op(), b.Int(initVal), ast.Dup(revisedLimit))

	newInitial := revisedLimit
	if initVal != 0 {
		newInitial = b.Operator(ast.OpSub, revisedLimit, b.Int(initVal))
	}

	if update.Kind == ast.KindPreInc {
		update.Kind = ast.KindPreDec
	} else {
		update.Kind = ast.KindPostDec
	}

	initCell.Left = b.Node(ast.KindAssign, ast.Dup(loopvar), newInitial)
	newCond := b.Operator(ast.OpNe, ast.Dup(loopvar), b.Int(0))
	innerFor := b.Node(ast.KindFor, newCond, body)

	thenBody := ast.NewListCell(ast.KindStmtList, innerFor, b.Loc())
	wrapper := b.Node(ast.KindListHolder, thenBody, nil)

	// forNode is the same pointer doLoopOptimizeList unwrapped past any
	// KindCommentedNode wrapper and still holds as "stmt", so this loop
	// has to be turned into an if-guarded loop by mutating forNode's
	// fields in place rather than by replacing some parent cell's content
	// — otherwise the caller's pointer would go on referring to the stale
	// for-loop node.
	forNode.Left = guardTest
	forNode.Right = wrapper
	forNode.Kind = ast.KindIf
	return true
}

// bodyUsesExcept reports whether loopvar is read or written anywhere in
// body other than in skip (the induction variable's own per-iteration
// step), which would make the loop's result depend on the ascending value
// this rewrite is about to replace.
func bodyUsesExcept(body, skip, loopvar *ast.Node) bool {
	for cell := body; cell != nil; cell = cell.Right {
		if cell.Left == skip {
			continue
		}
		if ast.Uses(cell.Left, loopvar, matchOpts) || ast.ModifiesIdentifier(cell.Left, loopvar, matchOpts) {
			return true
		}
	}
	return false
}
