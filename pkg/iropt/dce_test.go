package iropt

import (
	"testing"

	"github.com/oisee/spinc/pkg/ir"
)

func TestIsDeadAfterLocalDeadAtRet(t *testing.T) {
	list := &ir.List{}
	tmp := ir.NewLocal("t")
	ret := ir.NewIR(ir.OpRet)
	ret.Cond = ir.CondTrue
	list.Append(ret)

	if !IsDeadAfter(list.Head, tmp) {
		t.Error("a local should be dead across an unconditional ret")
	}
}

func TestIsDeadAfterFalseOnRead(t *testing.T) {
	list := &ir.List{}
	x := ir.NewLocal("x")
	use := ir.NewIR(ir.OpMove)
	use.Cond = ir.CondTrue
	use.Dst = ir.NewLocal("y")
	use.Src = x
	list.Append(use)

	if IsDeadAfter(list.Head, x) {
		t.Error("a value read by a later instruction must not be reported dead")
	}
}

func TestEliminateDeadCodeDropsUnusedDefinition(t *testing.T) {
	list := &ir.List{}
	dead := ir.NewLocal("dead")
	mv := ir.NewIR(ir.OpMove)
	mv.Cond = ir.CondTrue
	mv.Dst = dead
	mv.Src = ir.NewImm(1)
	list.Append(mv)
	ret := ir.NewIR(ir.OpRet)
	ret.Cond = ir.CondTrue
	list.Append(ret)

	if !EliminateDeadCode(list) {
		t.Fatal("expected a change")
	}
	if list.Head != ret {
		t.Fatalf("the dead move should have been deleted, list starts with %v", list.Head)
	}
}

func TestEliminateDeadCodeKeepsSideEffectingWrite(t *testing.T) {
	list := &ir.List{}
	wr := ir.NewIR(ir.OpWrByte)
	wr.Cond = ir.CondTrue
	wr.Dst = ir.NewLocal("addr")
	wr.Src = ir.NewImm(1)
	list.Append(wr)
	ret := ir.NewIR(ir.OpRet)
	ret.Cond = ir.CondTrue
	list.Append(ret)

	EliminateDeadCode(list)
	if list.Head != wr {
		t.Fatal("a memory write must never be deleted as dead code")
	}
}

func TestEliminateDeadCodeDropsUnreachableAfterJump(t *testing.T) {
	list := &ir.List{}
	jmp := ir.NewIR(ir.OpJump)
	jmp.Cond = ir.CondTrue
	jmp.Dst = ir.NewImmLabel("L_end")
	list.Append(jmp)
	unreachable := ir.NewIR(ir.OpMove)
	unreachable.Cond = ir.CondTrue
	unreachable.Dst = ir.NewLocal("x")
	unreachable.Src = ir.NewImm(1)
	list.Append(unreachable)
	label := ir.NewIR(ir.OpLabel)
	label.Dst = ir.NewImmLabel("L_end")
	list.Append(label)

	if !EliminateDeadCode(list) {
		t.Fatal("expected a change")
	}
	if jmp.Next != label {
		t.Fatalf("the unreachable move between jump and label should be deleted; jmp.Next=%v", jmp.Next)
	}
}
