package ir

import (
	"testing"

	"github.com/oisee/spinc/pkg/ast"
)

func TestInvertCondPairs(t *testing.T) {
	pairs := [][2]Cond{
		{CondTrue, CondFalse},
		{CondLT, CondGE},
		{CondEQ, CondNE},
		{CondLE, CondGT},
		{CondC, CondNC},
	}
	for _, p := range pairs {
		if InvertCond(p[0]) != p[1] || InvertCond(p[1]) != p[0] {
			t.Errorf("InvertCond(%v)=%v, InvertCond(%v)=%v; want mutual inverses",
				p[0], InvertCond(p[0]), p[1], InvertCond(p[1]))
		}
	}
}

func TestFlipSides(t *testing.T) {
	cases := map[Cond]Cond{
		CondLT: CondGT,
		CondGT: CondLT,
		CondLE: CondGE,
		CondGE: CondLE,
		CondC:  CondNC,
		CondNC: CondC,
		CondEQ: CondEQ,
		CondNE: CondNE,
	}
	for in, want := range cases {
		if got := FlipSides(in); got != want {
			t.Errorf("FlipSides(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestFromComparison(t *testing.T) {
	cond, ok := FromComparison(ast.OpLtU)
	if !ok || cond != CondLT {
		t.Errorf("OpLtU should map to CondLT, got %v ok=%v", cond, ok)
	}
	if _, ok := FromComparison(ast.OpAdd); ok {
		t.Error("a non-comparison operator should report ok=false")
	}
}
