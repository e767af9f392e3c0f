package loops

import (
	"github.com/oisee/spinc/pkg/ast"
	"github.com/oisee/spinc/pkg/module"
)

// placeAssignAfter splices assign in immediately after parent's current
// content by nesting it one level deeper, the same trick this AST's list
// walkers already use to see through a cell whose content is itself a
// sub-list (loops.c: PlaceAssignAfter).
func placeAssignAfter(ctx *module.Context, parent, assign *ast.Node) bool {
	if parent == nil {
		return false
	}
	b := ctx.Builder
	switch parent.Kind {
	case ast.KindStmtList:
		stmt := ast.NewListCell(ast.KindStmtList, assign, b.Loc())
		parent.Left = b.Node(ast.KindStmtList, parent.Left, stmt)
		return true
	case ast.KindSequence:
		stmt := b.Node(ast.KindSequence, assign, nil)
		parent.Left = b.Node(ast.KindSequence, parent.Left, stmt)
		return true
	default:
		return false
	}
}

// doLoopStrengthReduction analyzes one loop's body/condition against
// initial (the LoopValueSet of potential initial values for variables
// coming into the loop, typically the enclosing scope's assignments so
// far), pulling every single-assignment, loop-invariant variable's
// computation out into the returned statement list, and rewriting
// induction-derived (strength-reducible) assignments in place to a simple
// per-iteration step (loops.c: doLoopStrengthReduction). Returns nil if
// nothing could be hoisted, or if the loop contains a construct this
// package gives up on analyzing.
//
// loops.c scans body and its separate update-expression child as two
// passes; this AST's KindFor carries no such separate child (pkg/hlt
// always appends the per-iteration step as body's own trailing statement),
// so one pass over body already covers both.
func doLoopStrengthReduction(ctx *module.Context, initial *loopValueSet, body, condition *ast.Node) *ast.Node {
	lv := newLoopValueSet()
	findAllAssignments(ctx, lv, body, body, 0)
	findAllAssignments(ctx, lv, nil, condition, 0)
	markDependencies(ctx, lv)
	if !lv.valid {
		return nil
	}

	b := ctx.Builder
	var stmtlist *ast.Node
	for e := lv.head; e != nil; e = e.next {
		if e.hits > 1 {
			continue
		}
		parent := e.parent
		if parent == nil || parent.Kind != ast.KindStmtList {
			continue
		}

		var pullvalue *ast.Node
		if e.flags&lvVaryMask != 0 {
			if e.loopstep == nil || e.basename == nil {
				continue
			}
			if !isIdentifierNode(e.basename) {
				continue
			}
			initEntry := initial.find(e.basename)
			if initEntry == nil || initEntry.flags&lvConditional != 0 {
				continue
			}
			lastAssign := lv.find(e.basename)
			if lastAssign == nil {
				continue
			}
			if ast.Match(e.name, e.basename, matchOpts) {
				// entry depends on itself; do not strength-reduce it
				continue
			}
			if e.flags&lvLoopUsed != 0 {
				continue
			}
			if e.flags&lvConditional != 0 {
				continue
			}
			pullvalue = ast.DupWithReplace(e.value, e.basename, initEntry.value, matchOpts)

			var replace *ast.Node
			if e.loopstep.Kind == ast.KindUnaryMinus {
				replace = b.Node(ast.KindAssign, ast.Dup(e.name),
					b.Operator(ast.OpSub, ast.Dup(e.name), ast.Dup(e.loopstep.Left)))
			} else {
				replace = b.Node(ast.KindAssign, ast.Dup(e.name),
					b.Operator(ast.OpAdd, ast.Dup(e.name), ast.Dup(e.loopstep)))
			}

			// the step must run after the last update to basename, the
			// induction variable this value ultimately derives from.
			if !placeAssignAfter(ctx, lastAssign.parent, replace) {
				continue
			}
			parent.Left = nil
		} else {
			pullvalue = e.value
			parent.Left = nil
		}

		stmt := b.Node(ast.KindAssign, ast.Dup(e.name), pullvalue)
		cell := ast.NewListCell(ast.KindStmtList, stmt, b.Loc())
		stmtlist = ast.AddToList(stmtlist, cell)
	}

	mergeAndFree(initial, lv)
	return stmtlist
}
