package ir

import (
	"github.com/oisee/spinc/pkg/ast"
	"github.com/oisee/spinc/pkg/module"
	"github.com/oisee/spinc/pkg/symbol"
)

// BuildFunction lowers fn's already-HL-transformed body into an IR list
// (spec.md §4.6's "IR model & construction"; outasm.c: CompileToIR driving
// one function at a time). The body must already have passed through
// pkg/hlt.Transform (and, typically, pkg/cse and pkg/loops) — this builder
// assumes compound assigns, range refs, multi-target `:=` chains and
// counted-repeat loops have all been lowered away, exactly the contract
// spec.md §6 states for the Core-to-IR boundary.
func BuildFunction(ctx *module.Context, fn *module.Function) *List {
	e := NewEmitter()
	b := &funcBuilder{ctx: ctx, fn: fn, e: e, retLabel: e.NewLabel("ret")}
	b.compileStmtList(fn.Body)
	b.e.EmitLabel(b.retLabel)
	b.e.EmitOp0(OpRet, CondTrue)
	return e.List
}

// funcBuilder is the per-function state the AST-to-IR walk threads
// explicitly, matching the rest of this module's Context-over-globals
// convention (spec.md §5, §9).
type funcBuilder struct {
	ctx      *module.Context
	fn       *module.Function
	e        *Emitter
	retLabel string

	// breakLabel/continueLabel name the innermost enclosing loop's exit
	// and step labels, or "" outside any loop.
	breakLabel, continueLabel string
}

func (b *funcBuilder) compileStmtList(list *ast.Node) {
	for cell := list; cell != nil; cell = cell.Right {
		b.compileStmt(ast.Content(cell))
	}
}

func (b *funcBuilder) compileStmt(stmt *ast.Node) {
	if stmt == nil {
		return
	}
	for stmt.Kind == ast.KindCommentedNode {
		if stmt.Left == nil {
			return
		}
		stmt = stmt.Left
	}

	switch stmt.Kind {
	case ast.KindStmtList:
		b.compileStmtList(stmt)

	case ast.KindAssign:
		dst := b.compileLValue(stmt.Left)
		src := b.compileExpr(stmt.Right)
		b.e.EmitMove(CondTrue, dst, src)

	case ast.KindIf:
		b.compileIf(stmt.Left, stmt.Right.Left, nil)

	case ast.KindIfElse:
		b.compileIf(stmt.Left, stmt.Right.Left, stmt.Right.Right)

	case ast.KindFor, ast.KindWhile:
		b.compileLoop(stmt)

	case ast.KindBreak:
		if b.breakLabel != "" {
			b.e.EmitJump(CondTrue, b.breakLabel)
		}

	case ast.KindContinue:
		if b.continueLabel != "" {
			b.e.EmitJump(CondTrue, b.continueLabel)
		}

	case ast.KindReturn:
		if stmt.Left != nil {
			result := b.resultOperand()
			src := b.compileExpr(stmt.Left)
			b.e.EmitMove(CondTrue, result, src)
		}
		b.e.EmitJump(CondTrue, b.retLabel)

	case ast.KindFuncall:
		b.compileCall(stmt)

	case ast.KindPreInc, ast.KindPreDec, ast.KindPostInc, ast.KindPostDec:
		b.compileExpr(stmt)

	case ast.KindComment, ast.KindLineBreak:
		// no IR effect

	default:
		// An expression used as a statement for side effects only
		// (e.g. a volatile register read): evaluate and discard.
		b.compileExpr(stmt)
	}
}

func (b *funcBuilder) compileIf(cond, thenBody, elseBody *ast.Node) {
	elseLabel := b.e.NewLabel("else")
	endLabel := elseLabel
	if elseBody != nil {
		endLabel = b.e.NewLabel("endif")
	}
	b.compileBoolBranches(cond, "", elseLabel)
	b.compileStmtList(thenBody)
	if elseBody != nil {
		b.e.EmitJump(CondTrue, endLabel)
	}
	b.e.EmitLabel(elseLabel)
	if elseBody != nil {
		b.compileStmtList(elseBody)
		b.e.EmitLabel(endLabel)
	}
}

// compileLoop lowers a KindFor/KindWhile into a pretest loop: test, jump
// to exit if false, body, then the test again at the bottom, branching
// back to the body while it holds. Strength-reduced or djnz-eligible
// shapes have already been rewritten at the AST level by pkg/loops before
// this runs; this builder does not special-case them — because the
// bottom test directly follows the body's last instruction, the IR
// optimizer's compare-folding pass (spec.md §4.7 step 8) sees a trailing
// "sub ...,#1" followed by the compare against zero and the jump-if-ne,
// and folds them into a djnz regardless of how the shape got here.
func (b *funcBuilder) compileLoop(stmt *ast.Node) {
	testLabel := b.e.NewLabel("loop")
	bodyLabel := b.e.NewLabel("body")
	exitLabel := b.e.NewLabel("endloop")

	prevBreak, prevCont := b.breakLabel, b.continueLabel
	b.breakLabel, b.continueLabel = exitLabel, testLabel
	defer func() { b.breakLabel, b.continueLabel = prevBreak, prevCont }()

	b.e.EmitLabel(testLabel)
	if stmt.Left == nil {
		// Bare `for ;; {}` (no condition): infinite loop, body only.
		b.e.EmitLabel(bodyLabel)
		b.compileStmtList(stmt.Right)
		b.e.EmitJump(CondTrue, testLabel)
		b.e.EmitLabel(exitLabel)
		return
	}
	b.compileBoolBranches(stmt.Left, bodyLabel, exitLabel)
	b.e.EmitLabel(bodyLabel)
	b.compileStmtList(stmt.Right)
	b.compileBoolBranches(stmt.Left, bodyLabel, "")
	b.e.EmitLabel(exitLabel)
}

// compileBoolBranches walks a boolean expression's short-circuit AND/OR/
// NOT structure, emitting only the instructions needed for the branch
// actually taken, and falls back to "compare against zero" for any leaf
// that isn't itself a comparison (spec.md §4.6, "compile_bool_branches").
// trueDest/falseDest are label names; either may be "" to mean "fall
// through to the next emitted instruction" (outasm.c's
// trueDest/falseDest NULL convention).
func (b *funcBuilder) compileBoolBranches(expr *ast.Node, trueDest, falseDest string) {
	if expr == nil {
		return
	}
	switch {
	case expr.Kind == ast.KindOperator && expr.Op() == ast.OpLogAnd:
		// Short-circuit AND: a false left side must reach falseDest
		// without ever evaluating the right side, so the left operand's
		// own falseDest is wired straight to this AND's falseDest; only
		// a true left side falls through to testing the right operand.
		mid := b.e.NewLabel("and")
		b.compileBoolBranches(expr.Left, mid, falseDest)
		b.e.EmitLabel(mid)
		b.compileBoolBranches(expr.Right, trueDest, falseDest)
		return

	case expr.Kind == ast.KindOperator && expr.Op() == ast.OpLogOr:
		// Short-circuit OR: a true left side must reach trueDest without
		// evaluating the right side; only a false left side falls
		// through to testing the right operand.
		mid := b.e.NewLabel("or")
		b.compileBoolBranches(expr.Left, trueDest, mid)
		b.e.EmitLabel(mid)
		b.compileBoolBranches(expr.Right, trueDest, falseDest)
		return

	case expr.Kind == ast.KindNot:
		b.compileBoolBranches(expr.Left, falseDest, trueDest)
		return

	case expr.Kind == ast.KindOperator && expr.Op().IsComparison():
		cond, lhs, rhs := b.compileComparison(expr)
		b.branchOn(cond, lhs, rhs, trueDest, falseDest)
		return

	default:
		v := b.compileExpr(expr)
		b.branchOn(CondNE, v, NewImm(0), trueDest, falseDest)
		return
	}
}

// compileComparison lowers a comparison operator into the IRCond it tests
// plus the two operands a cmps instruction should compare, flipping sides
// so a non-immediate always ends up on the left (spec.md §4.6:
// "a non-operator/non-comparison boolean expr compared against 0 via
// cmps,wz (immediate forced right)", generalized here to every comparison:
// FlipSides keeps the immediate on the right whenever exactly one side is
// one).
func (b *funcBuilder) compileComparison(expr *ast.Node) (cond Cond, lhs, rhs *Operand) {
	cond, _ = FromComparison(expr.Op())
	left := b.compileExpr(expr.Left)
	right := b.compileExpr(expr.Right)
	if left.IsImmediate() && !right.IsImmediate() {
		return FlipSides(cond), right, left
	}
	return cond, left, right
}

// branchOn emits the compare and the one or two conditional jumps needed
// to reach trueDest/falseDest, skipping a jump whose destination is "".
func (b *funcBuilder) branchOn(cond Cond, lhs, rhs *Operand, trueDest, falseDest string) {
	cmp := b.e.EmitOp2(OpCmps, CondTrue, lhs, rhs)
	cmp.Flags |= FlagWZ | FlagWC
	if trueDest != "" {
		b.e.EmitJump(cond, trueDest)
	}
	if falseDest != "" {
		b.e.EmitJump(InvertCond(cond), falseDest)
	}
}

func (b *funcBuilder) resultOperand() *Operand {
	if sym, err := b.fn.LocalSyms.LookupChain("result"); err == nil && sym != nil {
		return operandForSymbol(sym)
	}
	return NewLocal("result")
}

// compileLValue lowers an assignment target to the Operand EmitMove
// should store through: a plain identifier becomes its register, a
// KindMemRef a memory reference (spec.md §4.6).
func (b *funcBuilder) compileLValue(n *ast.Node) *Operand {
	if n.Kind == ast.KindMemRef {
		base := b.compileExpr(n.Left)
		return NewMemRefFixed(base, 0, WidthLong)
	}
	if isIdentifierNode(n) {
		if sym := b.lookupIdent(n); sym != nil {
			return operandForSymbol(sym)
		}
	}
	return NewLocal(identName(n))
}

// compileExpr lowers an expression to the Operand holding its value,
// materializing a fresh temp register for any subexpression that isn't
// already a plain leaf (spec.md §4.6).
func (b *funcBuilder) compileExpr(n *ast.Node) *Operand {
	if n == nil {
		return NewImm(0)
	}
	switch n.Kind {
	case ast.KindInteger:
		return NewImm(n.IntVal())

	case ast.KindString:
		return NewString(n.StrVal())

	case ast.KindIdentifier, ast.KindLocalIdentifier:
		if sym := b.lookupIdent(n); sym != nil {
			return operandForSymbol(sym)
		}
		return NewLocal(identName(n))

	case ast.KindHwRegRef:
		return NewHwReg(identName(n.Left))

	case ast.KindMemRef:
		base := b.compileExpr(n.Left)
		tmp := b.e.NewFunctionTemp()
		b.e.EmitMove(CondTrue, tmp, NewMemRefFixed(base, 0, WidthLong))
		return tmp

	case ast.KindUnaryMinus:
		v := b.compileExpr(n.Left)
		dst := b.e.NewFunctionTemp()
		b.e.EmitOp2(OpNeg, CondTrue, dst, v)
		return dst

	case ast.KindBitNot:
		v := b.compileExpr(n.Left)
		dst := b.e.NewFunctionTemp()
		b.e.EmitOp2(OpNot, CondTrue, dst, v)
		return dst

	case ast.KindOperator:
		return b.compileOperator(n)

	case ast.KindFuncall:
		return b.compileCall(n)

	case ast.KindTernary:
		return b.compileTernary(n)

	case ast.KindPreInc, ast.KindPreDec, ast.KindPostInc, ast.KindPostDec:
		return b.compileIncDec(n)

	default:
		// Anything this builder doesn't special-case (object refs, array
		// refs not yet lowered, etc.) is treated as zero, with no
		// diagnostic recorded, so the rest of the function still compiles.
		return NewImm(0)
	}
}

func (b *funcBuilder) compileOperator(n *ast.Node) *Operand {
	if n.Op().IsComparison() {
		dst := b.e.NewFunctionTemp()
		trueL, endL := b.e.NewLabel("true"), b.e.NewLabel("endcmp")
		b.e.EmitMove(CondTrue, dst, NewImm(0))
		b.compileBoolBranches(n, trueL, "")
		b.e.EmitJump(CondTrue, endL)
		b.e.EmitLabel(trueL)
		b.e.EmitMove(CondTrue, dst, NewImm(1))
		b.e.EmitLabel(endL)
		return dst
	}

	left := b.compileExpr(n.Left)
	right := b.compileExpr(n.Right)
	op, ok := arithOpcode(n.Op())
	if !ok {
		return NewImm(0)
	}
	dst := b.e.NewFunctionTemp()
	b.e.EmitMove(CondTrue, dst, left)
	b.e.EmitOp2(op, CondTrue, dst, right)
	return dst
}

func arithOpcode(op ast.OperatorCode) (Opcode, bool) {
	switch op {
	case ast.OpAdd:
		return OpAdd, true
	case ast.OpSub:
		return OpSub, true
	case ast.OpBitAnd, ast.OpBitwiseAndSC:
		return OpAnd, true
	case ast.OpBitOr, ast.OpBitwiseOrSC:
		return OpOr, true
	case ast.OpBitXor:
		return OpXor, true
	case ast.OpShl:
		return OpShl, true
	case ast.OpShr:
		return OpShr, true
	default:
		return 0, false
	}
}

// compileCall lowers a call by moving each argument into a fresh
// parameter-numbered local ahead of the call instruction itself — the
// calling convention's actual register/stack assignment is a backend
// concern (spec.md §6: "Core-to-Backend (IR-level)" hands over an IRList,
// not a fully target-bound one), so this builder only establishes the
// order arguments are evaluated and named, matching outasm.c's
// EmitParameterList ahead of a call IR.
func (b *funcBuilder) compileCall(n *ast.Node) *Operand {
	i := 0
	for c := n.Right; c != nil; c = c.Right {
		arg := b.compileExpr(ast.Content(c))
		b.e.EmitMove(CondTrue, NewArg(argSlotName(i)), arg)
		i++
	}
	b.e.EmitOp1(OpCall, CondTrue, NewImmLabel(identName(n.Left)))
	dst := b.e.NewFunctionTemp()
	b.e.EmitMove(CondTrue, dst, NewLocal("result"))
	return dst
}

func argSlotName(i int) string {
	const letters = "0123456789"
	if i < len(letters) {
		return "__arg" + string(letters[i])
	}
	return "__argN"
}

func (b *funcBuilder) compileTernary(n *ast.Node) *Operand {
	dst := b.e.NewFunctionTemp()
	elseL, endL := b.e.NewLabel("telse"), b.e.NewLabel("tend")
	thenExpr := ast.Content(n.Right)
	elseExpr := ast.Content(ast.Next(n.Right))
	b.compileBoolBranches(n.Left, "", elseL)
	b.e.EmitMove(CondTrue, dst, b.compileExpr(thenExpr))
	b.e.EmitJump(CondTrue, endL)
	b.e.EmitLabel(elseL)
	b.e.EmitMove(CondTrue, dst, b.compileExpr(elseExpr))
	b.e.EmitLabel(endL)
	return dst
}

func (b *funcBuilder) compileIncDec(n *ast.Node) *Operand {
	target := n.Left
	if target == nil {
		target = n.Right
	}
	loc := b.compileLValue(target)
	op := OpAdd
	if n.Kind == ast.KindPreDec || n.Kind == ast.KindPostDec {
		op = OpSub
	}
	old := b.e.NewFunctionTemp()
	b.e.EmitMove(CondTrue, old, loc)
	b.e.EmitOp2(op, CondTrue, loc, NewImm(1))
	if n.Kind == ast.KindPreInc || n.Kind == ast.KindPreDec {
		return loc
	}
	return old
}

func (b *funcBuilder) lookupIdent(n *ast.Node) *symbol.Symbol {
	name := identName(n)
	if name == "" {
		return nil
	}
	sym, err := b.fn.LocalSyms.LookupChain(name)
	if err != nil {
		return nil
	}
	return sym
}

func operandForSymbol(sym *symbol.Symbol) *Operand {
	switch sym.Kind {
	case symbol.KindParameter:
		return NewArg(sym.Name)
	case symbol.KindResult, symbol.KindLocal, symbol.KindTemp:
		return NewLocal(sym.Name)
	case symbol.KindHwRegister:
		return NewHwReg(sym.Name)
	case symbol.KindConstant:
		return NewImm(asInt64(sym.Value))
	default:
		return NewGeneral(sym.Name)
	}
}

func asInt64(v any) int64 {
	switch x := v.(type) {
	case int64:
		return x
	case int:
		return int64(x)
	default:
		return 0
	}
}

func isIdentifierNode(n *ast.Node) bool {
	for n != nil && n.Kind == ast.KindLocalIdentifier {
		n = n.Left
	}
	return n != nil && n.Kind == ast.KindIdentifier
}

func identName(n *ast.Node) string {
	for n != nil && n.Kind == ast.KindLocalIdentifier {
		n = n.Left
	}
	if n == nil || n.Kind != ast.KindIdentifier {
		return ""
	}
	return n.StrVal()
}
