package hlt

import (
	"github.com/oisee/spinc/pkg/ast"
	"github.com/oisee/spinc/pkg/module"
)

// simplifyAssignments is spec.md §4.3 step 2: every compound assignment
// form (chained, op-assign, multi-target, bit-range) is rewritten to a
// sequence of plain single-target KindAssign statements before any later
// step has to reason about them. Grounded on
// _examples/original_source/hltransform.c's simplify_assignments pass,
// which walks statement lists splicing replacement statements in place of
// the one it rewrote.
func simplifyAssignments(ctx *module.Context, body *ast.Node) *ast.Node {
	return walkStatements(ctx, body)
}

// walkStatements processes a KindStmtList, splicing each statement's
// simplification (itself zero or more statements) into the list in place
// of the original cell.
func walkStatements(ctx *module.Context, list *ast.Node) *ast.Node {
	if list == nil {
		return nil
	}
	var head *ast.Node
	var tail *ast.Node
	for cell := list; cell != nil; cell = cell.Right {
		next := cell.Right
		cell.Right = nil
		expanded := simplifyStatement(ctx, cell.Left)
		if expanded == nil {
			cell.Right = next
			continue
		}
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

// simplifyStatement rewrites a single statement into the KindStmtList of
// one or more replacement statements. stmt's own Kind decides whether it
// is an assignment form in need of lowering, a control-flow node whose
// nested statement lists must be recursed into, or an ordinary statement
// whose expression children are simplified in place.
func simplifyStatement(ctx *module.Context, stmt *ast.Node) *ast.Node {
	if stmt == nil {
		return nil
	}
	b := ctx.Builder
	switch stmt.Kind {
	case ast.KindAssignChain:
		stmts, _ := transformAssignChain(ctx, stmt, false)
		return stmts

	case ast.KindOpAssign:
		return transformOpAssign(ctx, stmt)

	case ast.KindMultiAssign:
		return transformMultiAssign(ctx, stmt)

	case ast.KindRangeAssign:
		return transformRangeAssign(ctx, stmt)

	case ast.KindAssign:
		stmt.Right = simplifyExpr(ctx, stmt.Right)
		return ast.NewListCell(ast.KindStmtList, stmt, b.Loc())

	case ast.KindIf, ast.KindIfElse:
		stmt.Left = simplifyExpr(ctx, stmt.Left) // condition
		if stmt.Right != nil {
			stmt.Right.Left = walkStatements(ctx, stmt.Right.Left)   // then-branch
			if stmt.Right.Right != nil {                             // else-branch, IfElse only
				stmt.Right.Right = walkStatements(ctx, stmt.Right.Right)
			}
		}
		return ast.NewListCell(ast.KindStmtList, stmt, b.Loc())

	case ast.KindFor, ast.KindWhile, ast.KindRepeatCount:
		stmt.Left = simplifyExpr(ctx, stmt.Left)
		stmt.Right = walkStatements(ctx, stmt.Right)
		return ast.NewListCell(ast.KindStmtList, stmt, b.Loc())

	case ast.KindCase:
		stmt.Left = simplifyExpr(ctx, stmt.Left)
		stmt.Right = walkStatements(ctx, stmt.Right)
		return ast.NewListCell(ast.KindStmtList, stmt, b.Loc())

	case ast.KindCaseItem, ast.KindOther:
		stmt.Right = walkStatements(ctx, stmt.Right)
		return ast.NewListCell(ast.KindStmtList, stmt, b.Loc())

	default:
		stmt.Left = simplifyExpr(ctx, stmt.Left)
		stmt.Right = simplifyExpr(ctx, stmt.Right)
		return ast.NewListCell(ast.KindStmtList, stmt, b.Loc())
	}
}

// simplifyExpr recurses into an expression position. An assignment form
// found here (rather than at statement position) has no statement list to
// splice into, so it is lowered to a KindSequence carrying its hoisted
// statements alongside the value it yields.
func simplifyExpr(ctx *module.Context, n *ast.Node) *ast.Node {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case ast.KindAssignChain:
		stmts, value := transformAssignChain(ctx, n, true)
		return ctx.Builder.Node(ast.KindSequence, stmts, value)

	case ast.KindTernary:
		return simplifyTernary(ctx, n)

	case ast.KindVaArg:
		return lowerVaArg(ctx, n)

	default:
		n.Left = simplifyExpr(ctx, n.Left)
		n.Right = simplifyExpr(ctx, n.Right)
		return n
	}
}

// transformAssignChain lowers `a := b := ... := expr` to a temp holding
// expr's value followed by one assignment per target, outermost last:
//
//	tmp := expr ; innermost := tmp ; ... ; outermost := tmp
//
// returnValue selects whether the caller also wants the value the chain
// yields (true when the chain appears in expression position); when
// false the second return is nil and the caller may ignore it. This
// unifies what spec.md §9's open question described as two near-duplicate
// TransformAssignChain variants into one function with a boolean flag.
func transformAssignChain(ctx *module.Context, chain *ast.Node, returnValue bool) (stmts *ast.Node, value *ast.Node) {
	b := ctx.Builder

	var targets []*ast.Node
	cur := chain
	for cur != nil && cur.Kind == ast.KindAssignChain {
		targets = append(targets, cur.Left)
		cur = cur.Right
	}
	expr := cur
	expr = simplifyExpr(ctx, expr)

	tempName, err := ctx.Function.LocalSyms.NewTemp("_asg")
	if err != nil {
		reportInternal(ctx, b.Loc(), "assignment chain temp: %v", err)
		tempName = "_asg_overflow"
	}
	tempIdent := b.Ident(tempName)
	holdTemp := b.Node(ast.KindAssign, tempIdent, expr)
	stmts = ast.NewListCell(ast.KindStmtList, holdTemp, b.Loc())

	for i := len(targets) - 1; i >= 0; i-- {
		assign := b.Node(ast.KindAssign, targets[i], b.Ident(tempName))
		stmts = ast.AddToList(stmts, ast.NewListCell(ast.KindStmtList, assign, b.Loc()))
	}

	if returnValue {
		value = b.Ident(tempName)
	}
	return stmts, value
}

// transformOpAssign lowers `lhs op= rhs` (e.g. `x += 1`) to plain
// assignment, hoisting any side-effecting index/offset sub-expression of
// lhs first so it is evaluated exactly once (spec.md §4.3
// extract_side_effects).
func transformOpAssign(ctx *module.Context, n *ast.Node) *ast.Node {
	b := ctx.Builder
	lhs, op, rhs := n.Left, ast.OperatorCode(n.IntVal()), n.Right

	hoist, pureLhs := extractSideEffects(ctx, lhs)
	rhs = simplifyExpr(ctx, rhs)

	combine := b.Operator(op, ast.Dup(pureLhs), rhs)
	assign := b.Node(ast.KindAssign, pureLhs, combine)
	assignStmt := ast.NewListCell(ast.KindStmtList, assign, b.Loc())

	if hoist == nil {
		return assignStmt
	}
	return ast.AddToList(hoist, assignStmt)
}

// transformMultiAssign rejects anything but the pure `(x, y) := expr`
// tuple form spec.md §4.3 allows; any other shape reaching this pass is a
// frontend bug and is reported as a TypeError rather than silently
// miscompiled.
func transformMultiAssign(ctx *module.Context, n *ast.Node) *ast.Node {
	b := ctx.Builder
	if n.Left == nil || n.Left.Kind != ast.KindExprList {
		reportType(ctx, b.Loc(), "multi-assignment target must be a plain identifier list")
		return ast.NewListCell(ast.KindStmtList, n, b.Loc())
	}

	expr := simplifyExpr(ctx, n.Right)
	tempName, err := ctx.Function.LocalSyms.NewTemp("_multi")
	if err != nil {
		reportInternal(ctx, b.Loc(), "multi-assignment temp: %v", err)
		tempName = "_multi_overflow"
	}
	holdTemp := b.Node(ast.KindAssign, b.Ident(tempName), expr)
	stmts := ast.NewListCell(ast.KindStmtList, holdTemp, b.Loc())

	i := 0
	ast.ForEachList(n.Left, func(target *ast.Node) bool {
		field := b.Node(ast.KindArrayRef, b.Ident(tempName), b.Int(int64(i)))
		assign := b.Node(ast.KindAssign, target, field)
		stmts = ast.AddToList(stmts, ast.NewListCell(ast.KindStmtList, assign, b.Loc()))
		i++
		return true
	})
	return stmts
}

// transformRangeAssign lowers `target[hi..lo] := value` (spec.md §3
// KindRangeAssign) to a read-modify-write: mask the target's existing
// bits outside [lo,hi], shift value into position, and OR the two
// together.
func transformRangeAssign(ctx *module.Context, n *ast.Node) *ast.Node {
	b := ctx.Builder
	rangeRef := n.Left // KindRangeRef{Left: target, Right: ExprList{hi, lo}}
	target := rangeRef.Left
	hi := ast.Content(rangeRef.Right)
	lo := ast.Content(ast.Next(rangeRef.Right))
	value := simplifyExpr(ctx, n.Right)

	width := b.Operator(ast.OpAdd, b.Operator(ast.OpSub, ast.Dup(hi), ast.Dup(lo)), b.Int(1))
	mask := b.Operator(ast.OpSub, b.Operator(ast.OpShl, b.Int(1), width), b.Int(1))
	shiftedMask := b.Operator(ast.OpShl, ast.Dup(mask), ast.Dup(lo))
	clearMask := b.Operator(ast.OpBitXor, shiftedMask, b.Int(-1)) // bitwise NOT via XOR -1

	cleared := b.Operator(ast.OpBitAnd, ast.Dup(target), clearMask)
	shiftedValue := b.Operator(ast.OpShl, b.Operator(ast.OpBitAnd, value, ast.Dup(mask)), ast.Dup(lo))
	merged := b.Operator(ast.OpBitOr, cleared, shiftedValue)

	assign := b.Node(ast.KindAssign, target, merged)
	return ast.NewListCell(ast.KindStmtList, assign, b.Loc())
}

// simplifyTernary lowers `cond ? a : b` to an if/else writing a fresh
// temporary, but only when its value cannot be represented as a single
// machine word (spec.md §4.3: "a ternary whose value exceeds one word is
// lowered ... a ternary of scalar-sized operands is left for the IR's
// own boolean-branch compilation"). requiresWordLowering approximates
// "exceeds one word" as "not a basic scalar type" since this pass runs
// before full type resolution can size a result precisely.
func simplifyTernary(ctx *module.Context, n *ast.Node) *ast.Node {
	cond := simplifyExpr(ctx, n.Left)
	thenExpr := simplifyExpr(ctx, ast.Content(n.Right))
	elseExpr := simplifyExpr(ctx, ast.Content(ast.Next(n.Right)))

	if !requiresWordLowering(thenExpr) && !requiresWordLowering(elseExpr) {
		n.Left = cond
		n.Right = ast.AddToList(ast.NewListCell(ast.KindExprList, thenExpr, ctx.Builder.Loc()),
			ast.NewListCell(ast.KindExprList, elseExpr, ctx.Builder.Loc()))
		return n
	}

	b := ctx.Builder
	tempName, err := ctx.Function.LocalSyms.NewTemp("_tern")
	if err != nil {
		reportInternal(ctx, b.Loc(), "ternary temp: %v", err)
		tempName = "_tern_overflow"
	}
	thenAssign := ast.NewListCell(ast.KindStmtList, b.Node(ast.KindAssign, b.Ident(tempName), thenExpr), b.Loc())
	elseAssign := ast.NewListCell(ast.KindStmtList, b.Node(ast.KindAssign, b.Ident(tempName), elseExpr), b.Loc())
	ifElse := b.Node(ast.KindIfElse, cond, b.Node(ast.KindListHolder, thenAssign, elseAssign))
	stmt := ast.NewListCell(ast.KindStmtList, ifElse, b.Loc())
	return b.Node(ast.KindSequence, stmt, b.Ident(tempName))
}

// requiresWordLowering reports whether e's static shape forces the
// if/else-with-temp lowering rather than letting the IR compile the
// ternary's condition straight into a boolean branch.
func requiresWordLowering(e *ast.Node) bool {
	if e == nil {
		return false
	}
	switch e.Kind {
	case ast.KindInteger, ast.KindFloat, ast.KindIdentifier, ast.KindOperator,
		ast.KindUnaryMinus, ast.KindDeref, ast.KindAddrOf:
		return false
	default:
		return true
	}
}

// lowerVaArg lowers `va_arg(list, T)` to a read of *list cast to T
// followed by advancing list past one T-sized slot (spec.md's
// supplemented variadic-call support, grounded on
// _examples/original_source's variable-argument handling in
// frontends/clang.c): (tmp := *(T*)list ; list := list + sizeof(T) ; tmp).
func lowerVaArg(ctx *module.Context, n *ast.Node) *ast.Node {
	b := ctx.Builder
	list := simplifyExpr(ctx, n.Left)
	typeNode := n.Right

	tempName, err := ctx.Function.LocalSyms.NewTemp("_va")
	if err != nil {
		reportInternal(ctx, b.Loc(), "va_arg temp: %v", err)
		tempName = "_va_overflow"
	}
	read := b.Node(ast.KindAssign, b.Ident(tempName), b.Node(ast.KindDeref, ast.Dup(list), typeNode))
	readStmt := ast.NewListCell(ast.KindStmtList, read, b.Loc())

	sizeofCall := b.Node(ast.KindFuncall, b.Ident("sizeof"), ast.NewListCell(ast.KindExprList, ast.Dup(typeNode), b.Loc()))
	advance := b.Node(ast.KindAssign, ast.Dup(list), b.Operator(ast.OpAdd, ast.Dup(list), sizeofCall))
	advanceStmt := ast.NewListCell(ast.KindStmtList, advance, b.Loc())

	stmts := ast.AddToList(readStmt, advanceStmt)
	return b.Node(ast.KindSequence, stmts, b.Ident(tempName))
}
