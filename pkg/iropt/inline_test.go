package iropt

import (
	"testing"

	"github.com/oisee/spinc/pkg/ir"
)

func buildCallee() *ir.List {
	list := &ir.List{}
	a := ir.NewLocal("a")
	add := ir.NewIR(ir.OpAdd)
	add.Cond = ir.CondTrue
	add.Dst = a
	add.Src = ir.NewImm(1)
	list.Append(add)
	ret := ir.NewIR(ir.OpRet)
	ret.Cond = ir.CondTrue
	list.Append(ret)
	return list
}

func TestInlineCallsSplicesSmallCallee(t *testing.T) {
	callee := buildCallee()
	caller := &ir.List{}
	call := ir.NewIR(ir.OpCall)
	call.Cond = ir.CondTrue
	call.Dst = ir.NewImmLabel("Callee")
	caller.Append(call)

	funcs := map[string]*ir.List{"Callee": callee}
	if !InlineCalls(caller, "Caller", funcs, 3) {
		t.Fatal("expected a change")
	}
	if caller.Head.Op != ir.OpAdd {
		t.Fatalf("the call should have been replaced by the callee's body, got %v", caller.Head.Op)
	}
}

func TestInlineCallsSkipsCalleeWithLabel(t *testing.T) {
	callee := &ir.List{}
	label := ir.NewIR(ir.OpLabel)
	label.Dst = ir.NewImmLabel("L_x")
	callee.Append(label)
	ret := ir.NewIR(ir.OpRet)
	ret.Cond = ir.CondTrue
	callee.Append(ret)

	caller := &ir.List{}
	call := ir.NewIR(ir.OpCall)
	call.Cond = ir.CondTrue
	call.Dst = ir.NewImmLabel("Callee")
	caller.Append(call)

	funcs := map[string]*ir.List{"Callee": callee}
	if InlineCalls(caller, "Caller", funcs, 10) {
		t.Fatal("a callee with an internal label must never be inlined")
	}
}

func TestInlineCallsSkipsSelfRecursion(t *testing.T) {
	self := &ir.List{}
	call := ir.NewIR(ir.OpCall)
	call.Cond = ir.CondTrue
	call.Dst = ir.NewImmLabel("Self")
	self.Append(call)

	funcs := map[string]*ir.List{"Self": self}
	if InlineCalls(self, "Self", funcs, 10) {
		t.Fatal("a function must never inline a call to itself")
	}
}

func TestInlineCallsRespectsThreshold(t *testing.T) {
	callee := buildCallee() // 1 real instruction (the trailing ret is excluded)
	caller := &ir.List{}
	call := ir.NewIR(ir.OpCall)
	call.Cond = ir.CondTrue
	call.Dst = ir.NewImmLabel("Callee")
	caller.Append(call)

	funcs := map[string]*ir.List{"Callee": callee}
	if InlineCalls(caller, "Caller", funcs, 0) {
		t.Fatal("a zero threshold should never inline anything")
	}
}
