package iropt

import (
	"testing"

	"github.com/oisee/spinc/pkg/ir"
)

func TestOptimizeMovesDeletesSelfMove(t *testing.T) {
	list := &ir.List{}
	x := ir.NewLocal("x")
	list.Append(mkMove(x, x))

	if !OptimizeMoves(list) {
		t.Fatal("expected OptimizeMoves to report a change")
	}
	if list.Head != nil {
		t.Fatalf("move x,x should be deleted, list still has %v", list.Head)
	}
}

func TestOptimizeMovesFoldsConstantConsumer(t *testing.T) {
	list := &ir.List{}
	x := ir.NewLocal("x")
	list.Append(mkMove(x, ir.NewImm(5)))
	add := ir.NewIR(ir.OpAdd)
	add.Cond = ir.CondTrue
	add.Dst = x
	add.Src = ir.NewImm(3)
	list.Append(add)

	if !OptimizeMoves(list) {
		t.Fatal("expected a change")
	}
	if list.Head != list.Tail {
		t.Fatalf("expected the pair to fold into one instruction, got %d", countInstrs(list))
	}
	if list.Head.Op != ir.OpMove || list.Head.Src.Val != 8 {
		t.Fatalf("expected move x,#8, got %s src=%v", list.Head.Op, list.Head.Src)
	}
}

func TestOptimizeMovesBackwardRename(t *testing.T) {
	list := &ir.List{}
	tmp := ir.NewLocal("_tmp001")
	dst := ir.NewLocal("result")
	add := ir.NewIR(ir.OpAdd)
	add.Cond = ir.CondTrue
	add.Dst = tmp
	add.Src = ir.NewImm(1)
	list.Append(add)
	list.Append(mkMove(dst, tmp))
	ret := ir.NewIR(ir.OpRet)
	ret.Cond = ir.CondTrue
	list.Append(ret)

	if !OptimizeMoves(list) {
		t.Fatal("expected backward rename to fire")
	}
	if list.Head.Dst != dst {
		t.Fatalf("add's Dst should have been retargeted to result, got %v", list.Head.Dst)
	}
}

func mkMove(dst, src *ir.Operand) *ir.IR {
	instr := ir.NewIR(ir.OpMove)
	instr.Cond = ir.CondTrue
	instr.Dst = dst
	instr.Src = src
	return instr
}

func countInstrs(list *ir.List) int {
	n := 0
	for i := list.Head; i != nil; i = i.Next {
		n++
	}
	return n
}
