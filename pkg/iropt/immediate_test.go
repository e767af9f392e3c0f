package iropt

import (
	"testing"

	"github.com/oisee/spinc/pkg/ir"
)

func TestShrinkImmediatesReversesOutOfFieldMove(t *testing.T) {
	list := &ir.List{}
	x := ir.NewLocal("x")
	mv := ir.NewIR(ir.OpMove)
	mv.Cond = ir.CondTrue
	mv.Dst = x
	mv.Src = ir.NewImm(-300) // outside a 9-bit signed field
	list.Append(mv)

	if !ShrinkImmediates(list) {
		t.Fatal("expected a change")
	}
	if list.Head.Op != ir.OpNeg || list.Head.Src.Val != 300 {
		t.Fatalf("expected neg x,#300, got %s %v", list.Head.Op, list.Head.Src)
	}
}

func TestShrinkImmediatesLeavesInFieldAlone(t *testing.T) {
	list := &ir.List{}
	x := ir.NewLocal("x")
	mv := ir.NewIR(ir.OpMove)
	mv.Cond = ir.CondTrue
	mv.Dst = x
	mv.Src = ir.NewImm(10)
	list.Append(mv)

	if ShrinkImmediates(list) {
		t.Fatal("an in-field immediate should not be rewritten")
	}
	if list.Head.Op != ir.OpMove {
		t.Fatalf("opcode should be unchanged, got %s", list.Head.Op)
	}
}

func TestShrinkImmediatesAddBecomesSub(t *testing.T) {
	list := &ir.List{}
	x := ir.NewLocal("x")
	add := ir.NewIR(ir.OpAdd)
	add.Cond = ir.CondTrue
	add.Dst = x
	add.Src = ir.NewImm(-500)
	list.Append(add)

	if !ShrinkImmediates(list) {
		t.Fatal("expected a change")
	}
	if list.Head.Op != ir.OpSub || list.Head.Src.Val != 500 {
		t.Fatalf("expected sub x,#500, got %s %v", list.Head.Op, list.Head.Src)
	}
}
