package cse

import (
	"github.com/oisee/spinc/pkg/ast"
	"github.com/oisee/spinc/pkg/module"
)

var matchOpts = ast.MatchOptions{}

// walkStmtList is cse.c's AST_STMTLIST case of doPerformCSE: each
// statement is processed in turn, and any CSE assignments it queued are
// spliced in immediately before it rather than left pending past a
// statement boundary.
func walkStmtList(ctx *module.Context, list *ast.Node, s *set, fl flags) {
	cell := list
	for cell != nil {
		child := cell
		doPerformCSE(ctx, cell, child.Left, func(v *ast.Node) { child.Left = v }, s, fl, nil)
		cell = placePendingAssignments(ctx, cell, s)
		cell = cell.Right
	}
}

// walkExprList is cse.c's AST_EXPRLIST case: every element may be CSE'd
// independently; no statement boundary exists between them to place
// pending assignments at, so they ride along on s.assignList for the
// enclosing statement to place.
func walkExprList(ctx *module.Context, stmtCell, list *ast.Node, s *set, fl flags) flags {
	acc := fl
	for c := list; c != nil; c = c.Right {
		child := c
		acc |= doPerformCSE(ctx, stmtCell, child.Left, func(v *ast.Node) { child.Left = v }, s, fl, nil)
	}
	return acc
}

// doPerformCSE mirrors cse.c's function of the same name: node is the
// current subtree (read for dispatch), setter overwrites node's slot in
// its parent (used both to splice in a replacement and, deeper down, by
// children's own setters), stmtCell is the enclosing statement's list
// cell (for placing pending assignments at loop/conditional boundaries),
// and name is the identifier currently being assigned on this statement,
// if any (used to suppress a same-statement self-referential CSE).
func doPerformCSE(ctx *module.Context, stmtCell, node *ast.Node, setter func(*ast.Node), s *set, fl flags, name *ast.Node) flags {
	if node == nil {
		return fl
	}

	switch node.Kind {
	case ast.KindStmtList:
		walkStmtList(ctx, node, s, fl)
		return fl

	case ast.KindExprList:
		return walkExprList(ctx, stmtCell, node, s, fl)

	case ast.KindAssign:
		lhs, rhs := node.Left, node.Right
		assignName := name
		target := lhs
		if target.Kind == ast.KindLocalIdentifier {
			target = target.Left
		}
		if assignName == nil && target.Kind == ast.KindIdentifier {
			assignName = target
		}
		newfl := fl
		newfl |= doPerformCSE(ctx, stmtCell, rhs, func(v *ast.Node) { node.Right = v }, s, fl, assignName)
		newfl |= doPerformCSE(ctx, stmtCell, lhs, func(v *ast.Node) { node.Left = v }, s, fl, nil)
		target2 := lhs
		if assignName != nil {
			target2 = assignName
		}
		s.removeUsing(target2, matchOpts)
		return newfl

	case ast.KindOperator:
		return cseOperator(ctx, stmtCell, node, setter, s, fl, name)

	case ast.KindArrayRef:
		newfl := fl
		newfl |= doPerformCSE(ctx, stmtCell, node.Right, func(v *ast.Node) { node.Right = v }, s, fl, nil)
		newfl |= doPerformCSE(ctx, stmtCell, node.Left, func(v *ast.Node) { node.Left = v }, s, fl, nil)
		if !newfl.has(noReplace) {
			tryReplace(ctx, s, node, setter, newfl, nil)
		}
		return newfl

	case ast.KindMemRef:
		// Left is just the referenced type, not a value to CSE.
		return doPerformCSE(ctx, stmtCell, node.Right, func(v *ast.Node) { node.Right = v }, s, fl, nil)

	case ast.KindAddrOf:
		doPerformCSE(ctx, stmtCell, node.Left, func(v *ast.Node) { node.Left = v }, s, fl|noReplace, nil)
		if !fl.has(noReplace) {
			tryReplace(ctx, s, node, setter, fl, name)
		}
		return fl

	case ast.KindInteger, ast.KindFloat, ast.KindString,
		ast.KindIdentifier, ast.KindLocalIdentifier:
		return fl

	case ast.KindHwRegRef:
		return fl | noReplace

	case ast.KindComment, ast.KindCommentedNode, ast.KindReturn,
		ast.KindCaseItem, ast.KindOther:
		doPerformCSE(ctx, stmtCell, node.Right, func(v *ast.Node) { node.Right = v }, s, fl, nil)
		doPerformCSE(ctx, stmtCell, node.Left, func(v *ast.Node) { node.Left = v }, s, fl, nil)
		return fl

	case ast.KindTernary:
		doPerformCSE(ctx, stmtCell, node.Left, func(v *ast.Node) { node.Left = v }, s, fl, nil)
		doPerformCSE(ctx, stmtCell, node.Right, func(v *ast.Node) { node.Right = v }, s, fl|noAdd, nil)
		return fl | noReplace

	case ast.KindIf, ast.KindIfElse:
		doPerformCSE(ctx, stmtCell, node.Left, func(v *ast.Node) { node.Left = v }, s, fl|noAdd, nil)
		placePendingAssignments(ctx, stmtCell, s)
		blockCSE(ctx, stmtCell, node.Right.Left, func(v *ast.Node) { node.Right.Left = v }, s, fl)
		if node.Right != nil && node.Right.Right != nil {
			blockCSE(ctx, stmtCell, node.Right.Right, func(v *ast.Node) { node.Right.Right = v }, s, fl)
		}
		return fl

	case ast.KindCase:
		doPerformCSE(ctx, stmtCell, node.Left, func(v *ast.Node) { node.Left = v }, s, fl|noAdd, nil)
		placePendingAssignments(ctx, stmtCell, s)
		doPerformCSE(ctx, stmtCell, node.Right, func(v *ast.Node) { node.Right = v }, s, fl|noAdd, nil)
		return fl

	case ast.KindFor, ast.KindWhile, ast.KindRepeatCount:
		loopCSE(ctx, stmtCell, node, s, fl)
		return fl

	case ast.KindFuncall:
		for c := node.Right; c != nil; c = c.Right {
			child := c
			doPerformCSE(ctx, stmtCell, child.Left, func(v *ast.Node) { child.Left = v }, s, fl, nil)
		}
		s.clearMemory()
		return fl | noReplace

	case ast.KindSequence:
		newfl := fl
		newfl |= doPerformCSE(ctx, stmtCell, node.Left, func(v *ast.Node) { node.Left = v }, s, fl|noAdd, nil)
		newfl |= doPerformCSE(ctx, stmtCell, node.Right, func(v *ast.Node) { node.Right = v }, s, fl|noAdd, nil)
		return newfl

	case ast.KindPreInc, ast.KindPreDec, ast.KindPostInc, ast.KindPostDec:
		if node.Left != nil {
			doPerformCSE(ctx, stmtCell, node.Left, func(v *ast.Node) { node.Left = v }, s, fl, nil)
			s.removeUsing(node.Left, matchOpts)
		}
		return fl | noReplace

	default:
		doPerformCSE(ctx, stmtCell, node.Left, func(v *ast.Node) { node.Left = v }, s, fl|noReplace, nil)
		doPerformCSE(ctx, stmtCell, node.Right, func(v *ast.Node) { node.Right = v }, s, fl|noReplace, nil)
		s.clearMemory()
		return fl | noReplace
	}
}

// tryReplace looks up node in s, replacing it via setter on a hit, else
// adding a fresh entry for it (unless flags forbid one) with setter
// becoming the entry's first-use site.
func tryReplace(ctx *module.Context, s *set, node *ast.Node, setter func(*ast.Node), fl flags, name *ast.Node) {
	hash := astHash(node)
	if e := s.find(node, hash, matchOpts); e != nil {
		replaceUse(e, setter)
		return
	}
	if !fl.has(noAdd) {
		addEntry(ctx, s, name, node, hash, setter)
	}
}

func cseOperator(ctx *module.Context, stmtCell, node *ast.Node, setter func(*ast.Node), s *set, fl flags, name *ast.Node) flags {
	op := node.Op()
	switch op {
	case ast.OpLogAnd, ast.OpLogOr, ast.OpBitwiseAndSC, ast.OpBitwiseOrSC:
		fl |= noAdd
	default:
		if op.IsComparison() {
			fl |= noAdd
		}
	}

	newfl := fl
	newfl |= doPerformCSE(ctx, stmtCell, node.Left, func(v *ast.Node) { node.Left = v }, s, fl, nil)
	newfl |= doPerformCSE(ctx, stmtCell, node.Right, func(v *ast.Node) { node.Right = v }, s, fl, nil)
	if !newfl.has(noReplace) {
		tryReplace(ctx, s, node, setter, newfl, name)
	}
	return newfl
}

// blockCSE is cse.c's blockCSE: a conditionally executed block reuses
// existing CSE entries (without creating new ones in the outer set), and
// additionally gets its own scratch set so repeats of an expression
// purely within the block can still be found.
func blockCSE(ctx *module.Context, stmtCell, block *ast.Node, setBlock func(*ast.Node), s *set, fl flags) {
	if block == nil {
		return
	}
	doPerformCSE(ctx, stmtCell, block, setBlock, s, fl|noAdd, nil)
	if fl == 0 {
		scratch := newSet()
		doPerformCSE(ctx, nil, block, setBlock, scratch, fl, nil)
		scratch.clear()
	}
}

// loopCSE is cse.c's loopCSE, generalized over KindFor/KindWhile/
// KindRepeatCount: Right is the body. For KindFor/KindWhile, Left is the
// loop's condition; a KindRepeatCount (whose Left is its
// {var, from, to, step} list) has always been rewritten away by
// TransformCountRepeat by the time this pass runs, but the case is
// handled defensively.
func loopCSE(ctx *module.Context, stmtCell, loop *ast.Node, s *set, fl flags) {
	placePendingAssignments(ctx, stmtCell, s)

	// Invalidate anything the body modifies before reusing entries.
	doPerformCSE(ctx, stmtCell, loop.Right, func(v *ast.Node) { loop.Right = v }, s, fl|noReplace, nil)

	// Replacements still valid after invalidation; no new entries inside.
	if loop.Left != nil {
		doPerformCSE(ctx, stmtCell, loop.Left, func(v *ast.Node) { loop.Left = v }, s, fl|noAdd, nil)
	}
	doPerformCSE(ctx, stmtCell, loop.Right, func(v *ast.Node) { loop.Right = v }, s, fl|noAdd, nil)

	if fl == 0 {
		scratch := newSet()
		doPerformCSE(ctx, nil, loop.Right, func(v *ast.Node) { loop.Right = v }, scratch, fl, nil)
		scratch.clear()
	}
}
