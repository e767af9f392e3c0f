package hlt

import (
	"github.com/oisee/spinc/pkg/ast"
	"github.com/oisee/spinc/pkg/module"
)

// denseCaseThreshold is the minimum number of integer-literal case arms,
// packed within a small enough span, before lowerCase keeps the dense
// KindCase form instead of unrolling to an if/else-if chain. Grounded on
// _examples/original_source/hltransform.c's case-lowering heuristic,
// which favors a jump table only once it would actually be smaller than
// the equivalent chain of compares.
const denseCaseThreshold = 4

// lowerCase is spec.md §4.3 step 5: a CASE whose arms are all small
// integer constants clustered closely enough is left as a dense
// KindCase for the backend to emit as a jump table; anything else
// (string arms, ranges, a sparse spread of values, or too few arms to
// be worth a table) is unrolled into an explicit if/else-if chain
// comparing the selector against each arm in source order, with the
// KindOther arm (if any) as the final else.
func lowerCase(ctx *module.Context, body *ast.Node) *ast.Node {
	return walkCaseList(ctx, body)
}

func walkCaseList(ctx *module.Context, list *ast.Node) *ast.Node {
	for c := list; c != nil; c = c.Right {
		c.Left = lowerCaseStmt(ctx, c.Left)
	}
	return list
}

func lowerCaseStmt(ctx *module.Context, stmt *ast.Node) *ast.Node {
	if stmt == nil {
		return nil
	}
	switch stmt.Kind {
	case ast.KindCase:
		return lowerCaseNode(ctx, stmt)
	case ast.KindIf, ast.KindIfElse:
		if stmt.Right != nil {
			stmt.Right.Left = walkCaseList(ctx, stmt.Right.Left)
			if stmt.Right.Right != nil {
				stmt.Right.Right = walkCaseList(ctx, stmt.Right.Right)
			}
		}
		return stmt
	case ast.KindFor, ast.KindWhile:
		stmt.Right = walkCaseList(ctx, stmt.Right)
		return stmt
	default:
		return stmt
	}
}

func lowerCaseNode(ctx *module.Context, n *ast.Node) *ast.Node {
	if isDenseIntegerCase(n) {
		ast.ForEachList(n.Right, func(item *ast.Node) bool {
			if item.Kind == ast.KindCaseItem || item.Kind == ast.KindOther {
				item.Right = walkCaseList(ctx, item.Right)
			}
			return true
		})
		return n
	}
	return unrollCaseChain(ctx, n)
}

// isDenseIntegerCase reports whether every arm of n is a single integer
// literal (not a range, not a string) and the arms are clustered tightly
// enough, and there are enough of them, to be worth a table.
func isDenseIntegerCase(n *ast.Node) bool {
	var values []int64
	dense := true
	ast.ForEachList(n.Right, func(item *ast.Node) bool {
		if item.Kind != ast.KindCaseItem {
			return true // KindOther contributes no value
		}
		label := item.Left
		if label == nil || label.Kind != ast.KindInteger {
			dense = false
			return false
		}
		values = append(values, label.IntVal())
		return true
	})
	if !dense || len(values) < denseCaseThreshold {
		return false
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	span := hi - lo + 1
	return span > 0 && span <= int64(len(values))*2
}

// unrollCaseChain rewrites `case selector of item1: ... item2: ... other:
// ...` to `if selector == item1 { ... } else if selector == item2 { ... }
// else { ... }`, hoisting the selector into a temp so it is evaluated
// exactly once regardless of arm count.
func unrollCaseChain(ctx *module.Context, n *ast.Node) *ast.Node {
	b := ctx.Builder
	selName, err := ctx.Function.LocalSyms.NewTemp("_sel")
	if err != nil {
		reportInternal(ctx, b.Loc(), "case selector temp: %v", err)
		selName = "_sel_overflow"
	}
	selIdent := b.Ident(selName)
	holdSel := b.Node(ast.KindAssign, ast.Dup(selIdent), n.Left)
	holdStmt := ast.NewListCell(ast.KindStmtList, holdSel, b.Loc())

	var otherBody *ast.Node
	type arm struct {
		cond *ast.Node
		body *ast.Node
	}
	var arms []arm
	ast.ForEachList(n.Right, func(item *ast.Node) bool {
		body := walkCaseList(ctx, item.Right)
		if item.Kind == ast.KindOther {
			otherBody = body
			return true
		}
		cond := b.Operator(ast.OpEq, ast.Dup(selIdent), item.Left)
		arms = append(arms, arm{cond: cond, body: body})
		return true
	})

	var chain *ast.Node = otherBody
	for i := len(arms) - 1; i >= 0; i-- {
		a := arms[i]
		elseHolder := b.Node(ast.KindListHolder, a.body, chain)
		kind := ast.KindIf
		if chain != nil {
			kind = ast.KindIfElse
		}
		chain = b.Node(kind, a.cond, elseHolder)
		chain = ast.NewListCell(ast.KindStmtList, chain, b.Loc())
	}

	if chain == nil {
		return holdStmt
	}
	return ast.AddToList(holdStmt, chain)
}
