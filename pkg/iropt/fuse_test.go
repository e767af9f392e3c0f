package iropt

import (
	"testing"

	"github.com/oisee/spinc/pkg/ir"
)

func mkAddSub(op ir.Opcode, dst *ir.Operand, imm int64) *ir.IR {
	instr := ir.NewIR(op)
	instr.Cond = ir.CondTrue
	instr.Dst = dst
	instr.Src = ir.NewImm(imm)
	return instr
}

func TestFuseAddSubCombines(t *testing.T) {
	list := &ir.List{}
	x := ir.NewLocal("x")
	list.Append(mkAddSub(ir.OpAdd, x, 3))
	list.Append(mkAddSub(ir.OpSub, x, 1))

	if !FuseAddSub(list) {
		t.Fatal("expected a change")
	}
	if countInstrs(list) != 1 {
		t.Fatalf("expected one fused instruction, got %d", countInstrs(list))
	}
	if list.Head.Op != ir.OpAdd || list.Head.Src.Val != 2 {
		t.Fatalf("expected add x,#2, got %s %v", list.Head.Op, list.Head.Src)
	}
}

func TestFuseAddSubNetZeroDeletesBoth(t *testing.T) {
	list := &ir.List{}
	x := ir.NewLocal("x")
	list.Append(mkAddSub(ir.OpAdd, x, 4))
	list.Append(mkAddSub(ir.OpSub, x, 4))

	if !FuseAddSub(list) {
		t.Fatal("expected a change")
	}
	if !list.Empty() {
		t.Fatalf("a net-zero delta should delete both instructions, got %d left", countInstrs(list))
	}
}

func TestFuseAddSubLeavesDifferentDestsAlone(t *testing.T) {
	list := &ir.List{}
	x, y := ir.NewLocal("x"), ir.NewLocal("y")
	list.Append(mkAddSub(ir.OpAdd, x, 3))
	list.Append(mkAddSub(ir.OpSub, y, 1))

	if FuseAddSub(list) {
		t.Fatal("different destinations should not fuse")
	}
	if countInstrs(list) != 2 {
		t.Fatalf("expected both instructions to survive, got %d", countInstrs(list))
	}
}
