package iropt

import (
	"testing"

	"github.com/oisee/spinc/pkg/ir"
)

func TestOptimizeShortBranchesPredicatesSpan(t *testing.T) {
	list := &ir.List{}
	x := ir.NewLocal("x")
	jmp := ir.NewIR(ir.OpJump)
	jmp.Cond = ir.CondEQ
	jmp.Dst = ir.NewImmLabel("L_skip")
	list.Append(jmp)
	mv := ir.NewIR(ir.OpMove)
	mv.Cond = ir.CondTrue
	mv.Dst = x
	mv.Src = ir.NewImm(1)
	list.Append(mv)
	label := ir.NewIR(ir.OpLabel)
	label.Dst = ir.NewImmLabel("L_skip")
	list.Append(label)
	jmp.Aux = label

	if !OptimizeShortBranches(list) {
		t.Fatal("expected a change")
	}
	if mv.Cond != ir.InvertCond(ir.CondEQ) {
		t.Fatalf("the skipped move should be predicated on the inverted condition, got %v", mv.Cond)
	}
	if list.Head != mv {
		t.Fatal("the branch itself should be deleted")
	}
}

func TestOptimizeShortBranchesLeavesLongSpanAlone(t *testing.T) {
	list := &ir.List{}
	x := ir.NewLocal("x")
	jmp := ir.NewIR(ir.OpJump)
	jmp.Cond = ir.CondEQ
	jmp.Dst = ir.NewImmLabel("L_skip")
	list.Append(jmp)
	for i := 0; i < maxPredicatedSpan+1; i++ {
		mv := ir.NewIR(ir.OpMove)
		mv.Cond = ir.CondTrue
		mv.Dst = x
		mv.Src = ir.NewImm(int64(i))
		list.Append(mv)
	}
	label := ir.NewIR(ir.OpLabel)
	label.Dst = ir.NewImmLabel("L_skip")
	list.Append(label)
	jmp.Aux = label

	if OptimizeShortBranches(list) {
		t.Fatal("a span longer than maxPredicatedSpan must not be folded")
	}
}
