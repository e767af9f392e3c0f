package hlt

import (
	"github.com/oisee/spinc/pkg/ast"
	"github.com/oisee/spinc/pkg/module"
)

// transformCountRepeat is spec.md §4.3 step 4: every KindRepeatCount loop
// is rewritten to an explicit KindFor before any later pass sees it.
// Grounded on _examples/original_source/loops.c's counted-loop lowering:
// an ascending loop compares with <=, a descending one with >=; a
// non-constant step direction is resolved once into a runtime temp rather
// than re-evaluated every iteration; and a loop whose induction variable
// is never read or written in its own body and whose step is a constant
// -1/+1 is inverted into a plain down-to-zero countdown, the shape a
// later IR pass can fold into a single decrement-and-branch instruction.
func transformCountRepeat(ctx *module.Context, body *ast.Node) *ast.Node {
	return walkCountRepeatList(ctx, body)
}

func walkCountRepeatList(ctx *module.Context, list *ast.Node) *ast.Node {
	var head, tail *ast.Node
	for cell := list; cell != nil; cell = cell.Right {
		next := cell.Right
		cell.Right = nil
		expanded := rewriteCountRepeatStmt(ctx, cell.Left)
		if head == nil {
			head = expanded
		} else {
			tail.Right = expanded
		}
		tail = expanded
		for tail.Right != nil {
			tail = tail.Right
		}
		cell.Right = next
	}
	return head
}

func rewriteCountRepeatStmt(ctx *module.Context, stmt *ast.Node) *ast.Node {
	b := ctx.Builder
	if stmt == nil {
		return nil
	}
	switch stmt.Kind {
	case ast.KindRepeatCount:
		return lowerRepeatCount(ctx, stmt)

	case ast.KindIf, ast.KindIfElse:
		if stmt.Right != nil {
			stmt.Right.Left = walkCountRepeatList(ctx, stmt.Right.Left)
			if stmt.Right.Right != nil {
				stmt.Right.Right = walkCountRepeatList(ctx, stmt.Right.Right)
			}
		}
		return ast.NewListCell(ast.KindStmtList, stmt, b.Loc())

	case ast.KindFor, ast.KindWhile:
		stmt.Right = walkCountRepeatList(ctx, stmt.Right)
		return ast.NewListCell(ast.KindStmtList, stmt, b.Loc())

	case ast.KindCase:
		stmt.Right = walkCountRepeatList(ctx, stmt.Right)
		return ast.NewListCell(ast.KindStmtList, stmt, b.Loc())

	case ast.KindCaseItem, ast.KindOther:
		stmt.Right = walkCountRepeatList(ctx, stmt.Right)
		return ast.NewListCell(ast.KindStmtList, stmt, b.Loc())

	default:
		return ast.NewListCell(ast.KindStmtList, stmt, b.Loc())
	}
}

// lowerRepeatCount converts a single KindRepeatCount node to the
// KindStmtList of statements that replace it: the induction variable's
// initializer (and, for a non-constant step, its direction temp) followed
// by the explicit KindFor loop.
func lowerRepeatCount(ctx *module.Context, rc *ast.Node) *ast.Node {
	b := ctx.Builder
	spec := rc.Left
	induction := ast.Content(spec)
	from := ast.Content(ast.Next(spec))
	to := ast.Content(ast.Next(ast.Next(spec)))
	step := ast.Content(ast.Next(ast.Next(ast.Next(spec))))
	bodyList := walkCountRepeatList(ctx, rc.Right)

	if induction == nil {
		tmp, err := ctx.Function.LocalSyms.NewTemp("_rpt")
		if err != nil {
			reportInternal(ctx, b.Loc(), "repeat-count induction temp: %v", err)
			tmp = "_rpt_overflow"
		}
		induction = b.Ident(tmp)
	}

	if step == nil {
		step = b.Int(1)
	}

	if djnzEligible(induction, step, bodyList) {
		if step.IntVal() < 0 {
			from, to = to, from
		}
		return lowerDjnzCountdown(ctx, induction, from, to, bodyList)
	}

	return lowerGeneralCountedFor(ctx, induction, from, to, step, bodyList)
}

// djnzEligible reports whether a counted loop's induction variable is
// dead inside its own body (never read or written there) and its step is
// the constant 1 or -1 — the shape spec.md §4.3 calls out as a candidate
// for the down-to-zero countdown rewrite.
func djnzEligible(induction, step, bodyList *ast.Node) bool {
	if step.Kind != ast.KindInteger {
		return false
	}
	if step.IntVal() != 1 && step.IntVal() != -1 {
		return false
	}
	opts := ast.MatchOptions{}
	for c := bodyList; c != nil; c = c.Right {
		content := ast.Content(c)
		if ast.Uses(content, induction, opts) || ast.ModifiesIdentifier(content, induction, opts) {
			return false
		}
	}
	return true
}

// lowerDjnzCountdown rewrites a dead-induction-variable counted loop to:
//
//	_cnt := (to - from) + 1
//	for ; _cnt != 0; _cnt := _cnt - 1 { body }
//
// matching the shape the IR optimizer's compare-fold-into-djnz pass
// (spec.md §4.7 step 8) recognizes and turns into a single djnz
// instruction. induction is unused in bodyList by construction
// (djnzEligible already verified this) and is dropped entirely.
func lowerDjnzCountdown(ctx *module.Context, induction, from, to, bodyList *ast.Node) *ast.Node {
	b := ctx.Builder
	_ = induction
	cntName, err := ctx.Function.LocalSyms.NewTemp("_cnt")
	if err != nil {
		reportInternal(ctx, b.Loc(), "djnz countdown temp: %v", err)
		cntName = "_cnt_overflow"
	}
	cnt := b.Ident(cntName)

	span := b.Operator(ast.OpSub, to, from)
	count := b.Operator(ast.OpAdd, span, b.Int(1))
	initCnt := b.Node(ast.KindAssign, ast.Dup(cnt), count)
	initStmt := ast.NewListCell(ast.KindStmtList, initCnt, b.Loc())

	cond := b.Operator(ast.OpNe, ast.Dup(cnt), b.Int(0))
	decr := b.Node(ast.KindAssign, ast.Dup(cnt), b.Operator(ast.OpSub, ast.Dup(cnt), b.Int(1)))
	decrStmt := ast.NewListCell(ast.KindStmtList, decr, b.Loc())
	fullBody := ast.AddToList(bodyList, decrStmt)

	forNode := b.Node(ast.KindFor, cond, fullBody)
	forStmt := ast.NewListCell(ast.KindStmtList, forNode, b.Loc())
	return ast.AddToList(initStmt, forStmt)
}

// lowerGeneralCountedFor rewrites a counted loop whose induction variable
// is actually used into an explicit ascending-or-descending for: the
// comparison operator is chosen from the constant step's sign when known,
// else a runtime-computed direction temp selects it via two
// symmetric comparisons combined with the direction's sign.
func lowerGeneralCountedFor(ctx *module.Context, induction, from, to, step, bodyList *ast.Node) *ast.Node {
	b := ctx.Builder

	initVar := b.Node(ast.KindAssign, ast.Dup(induction), from)
	initStmt := ast.NewListCell(ast.KindStmtList, initVar, b.Loc())

	var cond *ast.Node
	if step.Kind == ast.KindInteger {
		if step.IntVal() < 0 {
			cond = b.Operator(ast.OpGe, ast.Dup(induction), ast.Dup(to))
		} else {
			cond = b.Operator(ast.OpLe, ast.Dup(induction), ast.Dup(to))
		}
	} else {
		// Direction is not known until runtime: materialize it once into a
		// temp rather than re-deriving it on every test of the condition.
		dirName, err := ctx.Function.LocalSyms.NewTemp("_dir")
		if err != nil {
			reportInternal(ctx, b.Loc(), "repeat-count direction temp: %v", err)
			dirName = "_dir_overflow"
		}
		dir := b.Ident(dirName)
		dirValue := b.Node(ast.KindTernary,
			b.Operator(ast.OpGe, ast.Dup(to), ast.Dup(from)),
			ast.AddToList(
				ast.NewListCell(ast.KindExprList, b.Int(1), b.Loc()),
				ast.NewListCell(ast.KindExprList, b.Int(-1), b.Loc())))
		setDir := b.Node(ast.KindAssign, ast.Dup(dir), dirValue)
		initStmt = ast.AddToList(initStmt, ast.NewListCell(ast.KindStmtList, setDir, b.Loc()))

		ascending := b.Operator(ast.OpLe, ast.Dup(induction), ast.Dup(to))
		descending := b.Operator(ast.OpGe, ast.Dup(induction), ast.Dup(to))
		isAscending := b.Operator(ast.OpGt, ast.Dup(dir), b.Int(0))
		cond = b.Node(ast.KindTernary, isAscending,
			ast.AddToList(
				ast.NewListCell(ast.KindExprList, ascending, b.Loc()),
				ast.NewListCell(ast.KindExprList, descending, b.Loc())))
		step = b.Operator(ast.OpMul, step, ast.Dup(dir))
	}

	advance := b.Node(ast.KindAssign, ast.Dup(induction), b.Operator(ast.OpAdd, ast.Dup(induction), step))
	advanceStmt := ast.NewListCell(ast.KindStmtList, advance, b.Loc())
	fullBody := ast.AddToList(bodyList, advanceStmt)

	forNode := b.Node(ast.KindFor, cond, fullBody)
	forStmt := ast.NewListCell(ast.KindStmtList, forNode, b.Loc())
	return ast.AddToList(initStmt, forStmt)
}
