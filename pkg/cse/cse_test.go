package cse

import (
	"testing"

	"github.com/oisee/spinc/pkg/ast"
	"github.com/oisee/spinc/pkg/module"
	"github.com/oisee/spinc/pkg/symbol"
)

// buildRepeatedExprFixture builds t1 := a+b; t2 := a+b; return t2, the
// textbook repeated-pure-subexpression shape cse.c's doPerformCSE pulls
// into a single "_cse_N := a+b" temp.
func buildRepeatedExprFixture() (*module.Module, *module.Function) {
	m := module.NewModule("T", "t", module.LangSpin1)
	fn := module.NewFunction("F", module.LangSpin1, nil)
	m.AddFunction(fn)
	b := ast.NewBuilder(nil)

	aSym, _ := fn.LocalSyms.Add("a", symbol.KindParameter, nil, "a")
	bSym, _ := fn.LocalSyms.Add("b", symbol.KindParameter, nil, "b")
	fn.LocalSyms.Add("t1", symbol.KindLocal, nil, "t1")
	fn.LocalSyms.Add("t2", symbol.KindLocal, nil, "t2")
	fn.Params = []*symbol.Symbol{aSym, bSym}

	t1Assign := b.Node(ast.KindAssign, b.Ident("t1"), b.Operator(ast.OpAdd, b.Ident("a"), b.Ident("b")))
	t1Cell := ast.NewListCell(ast.KindStmtList, t1Assign, b.Loc())

	t2Assign := b.Node(ast.KindAssign, b.Ident("t2"), b.Operator(ast.OpAdd, b.Ident("a"), b.Ident("b")))
	t2Cell := ast.NewListCell(ast.KindStmtList, t2Assign, b.Loc())

	ret := b.Node(ast.KindReturn, b.Ident("t2"), nil)
	retCell := ast.NewListCell(ast.KindStmtList, ret, b.Loc())

	fn.Body = ast.AddToList(t1Cell, ast.AddToList(t2Cell, retCell))
	return m, fn
}

func TestPerformPullsRepeatedExpressionIntoSharedTemp(t *testing.T) {
	m, fn := buildRepeatedExprFixture()
	ctx := module.NewContext(m, module.Options{})

	Perform(ctx, fn)

	var assigns []*ast.Node
	for cell := fn.Body; cell != nil; cell = cell.Right {
		if cell.Left != nil && cell.Left.Kind == ast.KindAssign {
			assigns = append(assigns, cell.Left)
		}
	}
	if len(assigns) != 3 {
		t.Fatalf("expected 3 assignments (the hoisted temp plus t1 and t2), got %d", len(assigns))
	}

	hoisted := assigns[0]
	if hoisted.Right == nil || hoisted.Right.Kind != ast.KindOperator {
		t.Fatalf("expected the first assignment to carry the original a+b expression, got %v", hoisted.Right.Kind)
	}

	t1Rhs, t2Rhs := assigns[1].Right, assigns[2].Right
	if t1Rhs == nil || t1Rhs.Kind != ast.KindIdentifier {
		t.Fatalf("expected t1's rhs to become a temp reference, got %v", t1Rhs.Kind)
	}
	if t2Rhs == nil || t2Rhs.Kind != ast.KindIdentifier {
		t.Fatalf("expected t2's rhs to become a temp reference, got %v", t2Rhs.Kind)
	}
	if t1Rhs.StrVal() != t2Rhs.StrVal() {
		t.Errorf("expected t1 and t2 to share the same hoisted temp, got %q and %q", t1Rhs.StrVal(), t2Rhs.StrVal())
	}
	if t1Rhs.StrVal() != hoisted.Left.StrVal() {
		t.Errorf("expected the hoisted assignment's lhs to be the shared temp, got %q vs %q", hoisted.Left.StrVal(), t1Rhs.StrVal())
	}
}

func TestPerformLeavesSingleUseExpressionUnpulled(t *testing.T) {
	m := module.NewModule("T", "t", module.LangSpin1)
	fn := module.NewFunction("F", module.LangSpin1, nil)
	m.AddFunction(fn)
	b := ast.NewBuilder(nil)

	aSym, _ := fn.LocalSyms.Add("a", symbol.KindParameter, nil, "a")
	bSym, _ := fn.LocalSyms.Add("b", symbol.KindParameter, nil, "b")
	fn.LocalSyms.Add("t1", symbol.KindLocal, nil, "t1")
	fn.Params = []*symbol.Symbol{aSym, bSym}

	t1Assign := b.Node(ast.KindAssign, b.Ident("t1"), b.Operator(ast.OpAdd, b.Ident("a"), b.Ident("b")))
	t1Cell := ast.NewListCell(ast.KindStmtList, t1Assign, b.Loc())
	ret := b.Node(ast.KindReturn, b.Ident("t1"), nil)
	retCell := ast.NewListCell(ast.KindStmtList, ret, b.Loc())
	fn.Body = ast.AddToList(t1Cell, retCell)

	ctx := module.NewContext(m, module.Options{})
	Perform(ctx, fn)

	assigns := 0
	for cell := fn.Body; cell != nil; cell = cell.Right {
		if cell.Left != nil && cell.Left.Kind == ast.KindAssign {
			assigns++
		}
	}
	if assigns != 1 {
		t.Errorf("a subexpression used only once must not be hoisted into its own temp, got %d assignments", assigns)
	}
	if t1Assign.Right.Kind != ast.KindOperator {
		t.Errorf("expected t1's rhs to remain the original expression, got %v", t1Assign.Right.Kind)
	}
}
