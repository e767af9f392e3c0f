package loops

import (
	"testing"

	"github.com/oisee/spinc/pkg/ast"
	"github.com/oisee/spinc/pkg/module"
	"github.com/oisee/spinc/pkg/symbol"
)

// buildCountingLoop builds result=0; i=0; for(i<n){ result+=1; i++ }; return
// result, matching internal/demo's CountTo fixture: the induction variable
// is only read/written in its own increment statement.
func buildCountingLoop(fn *module.Function, b *ast.Builder, bodyStmt func(b *ast.Builder) *ast.Node) (initCell, forCell *ast.Node) {
	nSym, _ := fn.LocalSyms.Add("n", symbol.KindParameter, nil, "n")
	fn.LocalSyms.Add("i", symbol.KindLocal, nil, "i")
	fn.LocalSyms.Add("result", symbol.KindResult, nil, "result")
	fn.Params = []*symbol.Symbol{nSym}

	resultInit := b.Node(ast.KindAssign, b.Ident("result"), b.Int(0))
	resultInitCell := ast.NewListCell(ast.KindStmtList, resultInit, b.Loc())

	iInit := b.Node(ast.KindAssign, b.Ident("i"), b.Int(0))
	iInitCell := ast.NewListCell(ast.KindStmtList, iInit, b.Loc())

	cond := b.Operator(ast.OpLt, b.Ident("i"), b.Ident("n"))

	bodyCell := ast.NewListCell(ast.KindStmtList, bodyStmt(b), b.Loc())
	incStmt := b.Node(ast.KindPostInc, b.Ident("i"), nil)
	incCell := ast.NewListCell(ast.KindStmtList, incStmt, b.Loc())
	bodyList := ast.AddToList(bodyCell, incCell)

	forNode := b.Node(ast.KindFor, cond, bodyList)
	forCellLocal := ast.NewListCell(ast.KindStmtList, forNode, b.Loc())

	fn.Body = ast.AddToList(resultInitCell, ast.AddToList(iInitCell, forCellLocal))
	return iInitCell, forCellLocal
}

func newTestFunction() *module.Function {
	return module.NewFunction("F", module.LangSpin1, nil)
}

func TestCheckSimpleIncrementLoopFlipsToDescending(t *testing.T) {
	m := module.NewModule("T", "t", module.LangSpin1)
	fn := newTestFunction()
	m.AddFunction(fn)
	ctx := module.NewContext(m, module.Options{})
	b := ast.NewBuilder(nil)

	var initCell, forCell *ast.Node
	ctx.WithFunction(fn, func(ctx *module.Context) error {
		initCell, forCell = buildCountingLoop(fn, b, func(b *ast.Builder) *ast.Node {
			return b.Node(ast.KindAssign, b.Ident("result"),
				b.Operator(ast.OpAdd, b.Ident("result"), b.Int(1)))
		})
		if !checkSimpleIncrementLoop(ctx, initCell, forCell.Left) {
			t.Fatal("expected the ascending loop to be flipped to a countdown")
		}
		return nil
	})

	forNode := forCell.Left
	if forNode.Kind != ast.KindIf {
		t.Fatalf("expected the for-loop to be rewritten into an if-guarded loop, got %v", forNode.Kind)
	}
	if forNode.Left == nil || forNode.Left.Kind != ast.KindOperator {
		t.Fatal("expected a guard test on the rewritten node")
	}
}

func TestCheckSimpleIncrementLoopLeavesBodyThatReadsInductionVariableAlone(t *testing.T) {
	m := module.NewModule("T", "t", module.LangSpin1)
	fn := newTestFunction()
	m.AddFunction(fn)
	ctx := module.NewContext(m, module.Options{})
	b := ast.NewBuilder(nil)

	var initCell, forCell *ast.Node
	ctx.WithFunction(fn, func(ctx *module.Context) error {
		initCell, forCell = buildCountingLoop(fn, b, func(b *ast.Builder) *ast.Node {
			return b.Node(ast.KindAssign, b.Ident("result"),
				b.Operator(ast.OpAdd, b.Ident("result"), b.Ident("i")))
		})
		if checkSimpleIncrementLoop(ctx, initCell, forCell.Left) {
			t.Fatal("a body that reads the induction variable outside its own step must not be flipped")
		}
		return nil
	})

	if forCell.Left.Kind != ast.KindFor {
		t.Error("the loop must be left as a plain for when its body reads the induction variable")
	}
}

func TestCheckSimpleDecrementLoopStrengthensGtuToNe(t *testing.T) {
	m := module.NewModule("T", "t", module.LangSpin1)
	fn := newTestFunction()
	m.AddFunction(fn)
	ctx := module.NewContext(m, module.Options{})
	b := ast.NewBuilder(nil)

	fn.LocalSyms.Add("i", symbol.KindLocal, nil, "i")
	cond := b.Operator(ast.OpGtU, b.Ident("i"), b.Int(0))
	dec := b.Node(ast.KindPostDec, b.Ident("i"), nil)
	decCell := ast.NewListCell(ast.KindStmtList, dec, b.Loc())
	forNode := b.Node(ast.KindFor, cond, decCell)

	ctx.WithFunction(fn, func(ctx *module.Context) error {
		if !checkSimpleDecrementLoop(ctx, forNode) {
			t.Fatal("expected the unsigned > 0 test to strengthen to != 0")
		}
		return nil
	})
	if forNode.Left.Op() != ast.OpNe {
		t.Errorf("expected OpNe, got %v", forNode.Left.Op())
	}
}

func TestPerformRunsWithoutPanicOnCountingLoop(t *testing.T) {
	m := module.NewModule("T", "t", module.LangSpin1)
	fn := newTestFunction()
	m.AddFunction(fn)
	ctx := module.NewContext(m, module.Options{})
	b := ast.NewBuilder(nil)

	buildCountingLoop(fn, b, func(b *ast.Builder) *ast.Node {
		return b.Node(ast.KindAssign, b.Ident("result"),
			b.Operator(ast.OpAdd, b.Ident("result"), b.Int(1)))
	})

	Perform(ctx, fn)

	sawIf := false
	for cell := fn.Body; cell != nil; cell = cell.Right {
		if cell.Left != nil && cell.Left.Kind == ast.KindIf {
			sawIf = true
		}
	}
	if !sawIf {
		t.Error("expected Perform to rewrite the counted loop into an if-guarded countdown")
	}
}
