package loops

import (
	"github.com/oisee/spinc/pkg/ast"
	"github.com/oisee/spinc/pkg/module"
)

// doLoopHelper analyzes one loop (initial may be nil, for a KindWhile that
// has none) and returns the statement list of hoisted loop invariants, or
// nil (loops.c: doLoopHelper). lvs accumulates the enclosing scope's
// variable values across the whole statement list being walked, so a
// later sibling loop can see what an earlier one left its induction
// variables holding.
func doLoopHelper(ctx *module.Context, lvs *loopValueSet, initial, condtest, body *ast.Node) *ast.Node {
	if initial != nil {
		findAllAssignments(ctx, lvs, nil, initial, 0)
	}
	if !lvs.valid {
		return nil
	}

	sub := newLoopValueSet()
	doLoopOptimizeList(ctx, sub, body)

	pull := doLoopStrengthReduction(ctx, lvs, body, condtest)
	findAllAssignments(ctx, lvs, nil, body, 0)
	return pull
}

// doLoopOptimizeList walks list, running loop-invariant code motion and
// the simple-loop djnz shape rewrite over every KindWhile/KindFor it finds
// and recording every other statement's assignments into lvs so a
// subsequent loop can see the values variables held coming into it
// (loops.c: doLoopOptimizeList).
func doLoopOptimizeList(ctx *module.Context, lvs *loopValueSet, list *ast.Node) {
	b := ctx.Builder
	var prevCell *ast.Node

	for cell := list; cell != nil; {
		var pull *ast.Node
		stmt := cell.Left
		for stmt != nil && stmt.Kind == ast.KindCommentedNode {
			stmt = stmt.Left
		}
		if stmt == nil {
			prevCell = cell
			cell = cell.Right
			continue
		}

		switch stmt.Kind {
		case ast.KindStmtList:
			doLoopOptimizeList(ctx, lvs, stmt)

		case ast.KindWhile:
			pull = doLoopHelper(ctx, lvs, nil, stmt.Left, stmt.Right)

		case ast.KindFor:
			// loops.c's AST_FOR carries its own initial/update children;
			// pkg/hlt's lowering instead leaves the initializer as the
			// preceding sibling statement and the per-iteration update as
			// body's own trailing statement, so both are read from there.
			// loops.c additionally sequences a pull that doesn't depend on
			// the initializer directly into it rather than splicing it in
			// as its own preceding statement; that shortcut relies on an
			// AST_SEQUENCE node wrapping a whole statement list, a shape
			// nothing else in this AST model is built to interpret, so
			// here every pull is left to the ordinary preceding-statement
			// splice below instead — always correct, just occasionally a
			// little less tightly merged.
			var initial *ast.Node
			if prevCell != nil {
				initial = prevCell.Left
			}
			pull = doLoopHelper(ctx, lvs, initial, stmt.Left, stmt.Right)

			if !checkSimpleDecrementLoop(ctx, stmt) {
				checkSimpleIncrementLoop(ctx, prevCell, stmt)
			}

		default:
			findAllAssignments(ctx, lvs, cell, stmt, 0)
		}

		next := cell.Right
		if pull != nil {
			stmtCell := ast.NewListCell(ast.KindStmtList, stmt, b.Loc())
			pull = ast.AddToList(pull, stmtCell)
			cell.Left = pull
		}
		prevCell = cell
		cell = next
	}
}
