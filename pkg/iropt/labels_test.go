package iropt

import (
	"testing"

	"github.com/oisee/spinc/pkg/ir"
)

func TestLabelUseAnalysisResolvesAux(t *testing.T) {
	list := &ir.List{}
	jmp := ir.NewIR(ir.OpJump)
	jmp.Cond = ir.CondTrue
	jmp.Dst = ir.NewImmLabel("L_target")
	list.Append(jmp)
	label := ir.NewIR(ir.OpLabel)
	label.Dst = ir.NewImmLabel("L_target")
	list.Append(label)

	LabelUseAnalysis(list)
	if jmp.Aux != label {
		t.Fatalf("jump's Aux should resolve to the label instruction, got %v", jmp.Aux)
	}
	if label.Aux != jmp {
		t.Fatalf("a singly-referenced label's Aux should point back to its sole user, got %v", label.Aux)
	}
}

func TestLabelUseAnalysisDeletesUnreferencedSynthetic(t *testing.T) {
	list := &ir.List{}
	e := ir.NewEmitter()
	name := e.NewLabel("dead")
	label := ir.NewIR(ir.OpLabel)
	label.Dst = ir.NewImmLabel(name)
	list.Append(label)

	if !LabelUseAnalysis(list) {
		t.Fatal("expected a change")
	}
	if !list.Empty() {
		t.Fatalf("an unreferenced synthetic label should be deleted, got %v", list.Head)
	}
}

func TestLabelUseAnalysisKeepsUnreferencedUserLabel(t *testing.T) {
	list := &ir.List{}
	label := ir.NewIR(ir.OpLabel)
	label.Dst = ir.NewImmLabel("UserLabel")
	list.Append(label)

	if LabelUseAnalysis(list) {
		t.Fatal("a non-synthetic label must not be deleted by this pass even if unreferenced")
	}
	if list.Empty() {
		t.Fatal("UserLabel should still be present")
	}
}

func TestLabelUseAnalysisAmbiguousLeavesAuxNil(t *testing.T) {
	list := &ir.List{}
	j1 := ir.NewIR(ir.OpJump)
	j1.Cond = ir.CondTrue
	j1.Dst = ir.NewImmLabel("L_shared")
	list.Append(j1)
	j2 := ir.NewIR(ir.OpJump)
	j2.Cond = ir.CondTrue
	j2.Dst = ir.NewImmLabel("L_shared")
	list.Append(j2)
	label := ir.NewIR(ir.OpLabel)
	label.Dst = ir.NewImmLabel("L_shared")
	list.Append(label)

	LabelUseAnalysis(list)
	if label.Aux != nil {
		t.Fatalf("a label referenced by two branches should have a nil Aux, got %v", label.Aux)
	}
}
