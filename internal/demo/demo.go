// Package demo builds a small, self-contained module directly through the
// pkg/ast/pkg/module/pkg/symbol builder APIs, standing in for a real
// frontend (none of the four source languages spec.md §1 lists — Spin,
// BASIC, C, Brainfuck — has a parser in this repository; this module is
// the middle-end and IR optimizer those frontends would drive). cmd/spinc
// uses it so `compile`/`dump-ir`/`symbols`/`selftest` have something
// concrete to run the pipeline over.
package demo

import (
	"github.com/oisee/spinc/pkg/ast"
	"github.com/oisee/spinc/pkg/module"
	"github.com/oisee/spinc/pkg/symbol"
)

// Build returns a module with two functions chosen to exercise the
// pipeline's more interesting corners end to end:
//
//   - Max(a, b) result: an if/else assignment, nothing loop-related —
//     exercises pkg/hlt's assignment simplification and pkg/cse.
//   - CountTo(n) result: a simple ascending counted loop whose induction
//     variable is otherwise unused in its own body (read only by the loop
//     test and its own step) — exactly the shape pkg/loops's
//     checkSimpleIncrementLoop requires before it will flip a loop to a
//     countdown to zero, which pkg/iropt's compare-folding pass then
//     collapses into a single djnz (spec.md §8 scenario 1).
func Build() *module.Module {
	m := module.NewModule("Demo", "demo", module.LangSpin1)
	m.AddFunction(buildMax(m))
	m.AddFunction(buildCountTo(m))
	return m
}

func buildMax(m *module.Module) *module.Function {
	fn := module.NewFunction("Max", m.MainLanguage, m.ObjSyms)
	fn.Flags |= module.FlagIsPublic
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
	return fn
}

func buildCountTo(m *module.Module) *module.Function {
	fn := module.NewFunction("CountTo", m.MainLanguage, m.ObjSyms)
	fn.Flags |= module.FlagIsPublic
	b := ast.NewBuilder(nil)

	nSym, _ := fn.LocalSyms.Add("n", symbol.KindParameter, nil, "n")
	fn.LocalSyms.Add("i", symbol.KindLocal, nil, "i")
	fn.LocalSyms.Add("result", symbol.KindResult, nil, "result")
	fn.Params = []*symbol.Symbol{nSym}

	resultInit := b.Node(ast.KindAssign, b.Ident("result"), b.Int(0))
	resultInitCell := ast.NewListCell(ast.KindStmtList, resultInit, b.Loc())

	iInit := b.Node(ast.KindAssign, b.Ident("i"), b.Int(0))
	iInitCell := ast.NewListCell(ast.KindStmtList, iInit, b.Loc())

	cond := b.Operator(ast.OpLt, b.Ident("i"), b.Ident("n"))

	addStmt := b.Node(ast.KindAssign, b.Ident("result"),
		b.Operator(ast.OpAdd, b.Ident("result"), b.Int(1)))
	addCell := ast.NewListCell(ast.KindStmtList, addStmt, b.Loc())

	incStmt := b.Node(ast.KindPostInc, b.Ident("i"), nil)
	incCell := ast.NewListCell(ast.KindStmtList, incStmt, b.Loc())

	bodyList := ast.AddToList(addCell, incCell)
	forNode := b.Node(ast.KindFor, cond, bodyList)
	forCell := ast.NewListCell(ast.KindStmtList, forNode, b.Loc())

	ret := b.Node(ast.KindReturn, b.Ident("result"), nil)
	retCell := ast.NewListCell(ast.KindStmtList, ret, b.Loc())

	fn.Body = ast.AddToList(resultInitCell, ast.AddToList(iInitCell, ast.AddToList(forCell, retCell)))
	return fn
}
