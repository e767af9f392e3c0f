package hlt

import (
	"testing"

	"github.com/oisee/spinc/pkg/ast"
	"github.com/oisee/spinc/pkg/module"
	"github.com/oisee/spinc/pkg/symbol"
)

func buildMaxFixture() (*module.Module, *module.Function) {
	m := module.NewModule("T", "t", module.LangSpin1)
	fn := module.NewFunction("Max", module.LangSpin1, nil)
	m.AddFunction(fn)
	b := ast.NewBuilder(nil)

	aSym, _ := fn.LocalSyms.Add("a", symbol.KindParameter, nil, "a")
	bSym, _ := fn.LocalSyms.Add("b", symbol.KindParameter, nil, "b")
	fn.LocalSyms.Add("result", symbol.KindResult, nil, "result")
	fn.Params = []*symbol.Symbol{aSym, bSym}

	cond := b.Operator(ast.OpGt, b.Ident("a"), b.Ident("b"))
	thenAssign := b.Node(ast.KindAssign, b.Ident("result"), b.Ident("a"))
	thenList := ast.NewListCell(ast.KindStmtList, thenAssign, b.Loc())
	elseAssign := b.Node(ast.KindAssign, b.Ident("result"), b.Ident("b"))
	elseList := ast.NewListCell(ast.KindStmtList, elseAssign, b.Loc())
	branches := b.Node(ast.KindListHolder, thenList, elseList)
	ifElse := b.Node(ast.KindIfElse, cond, branches)
	ifCell := ast.NewListCell(ast.KindStmtList, ifElse, b.Loc())

	ret := b.Node(ast.KindReturn, b.Ident("result"), nil)
	retCell := ast.NewListCell(ast.KindStmtList, ret, b.Loc())

	fn.Body = ast.AddToList(ifCell, retCell)
	return m, fn
}

func TestTransformRunsPipelineWithoutError(t *testing.T) {
	m, fn := buildMaxFixture()
	ctx := module.NewContext(m, module.Options{})

	if err := Transform(ctx, fn); err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if fn.Body == nil {
		t.Fatal("expected a non-nil body after Transform")
	}

	sawReturn := false
	for cell := fn.Body; cell != nil; cell = cell.Right {
		stmt := cell.Left
		for stmt != nil && stmt.Kind == ast.KindCommentedNode {
			stmt = stmt.Left
		}
		if stmt != nil && stmt.Kind == ast.KindReturn {
			sawReturn = true
		}
	}
	if !sawReturn {
		t.Error("expected the return statement to survive the high-level transform pipeline")
	}
}

func TestTransformIsIdempotentOnAlreadyLoweredBody(t *testing.T) {
	m, fn := buildMaxFixture()
	ctx := module.NewContext(m, module.Options{})

	if err := Transform(ctx, fn); err != nil {
		t.Fatalf("first Transform: %v", err)
	}
	first := ast.Dup(fn.Body)

	if err := Transform(ctx, fn); err != nil {
		t.Fatalf("second Transform: %v", err)
	}
	if fn.Body == nil {
		t.Fatal("expected a body after the second Transform")
	}
	if !ast.Match(first, fn.Body, ast.MatchOptions{}) {
		t.Error("second Transform changed an already-lowered body")
	}
}
