package iropt

import (
	"testing"

	"github.com/oisee/spinc/pkg/ir"
)

// TestOptimizeCollapsesCountedLoopToDjnz builds the IR a simple counted
// down-loop lowers to by hand (decrement, zero test, branch back) and
// checks Optimize's fixed point folds it down to one djnz, matching
// spec.md §8 scenario 1.
func TestOptimizeCollapsesCountedLoopToDjnz(t *testing.T) {
	e := ir.NewEmitter()
	i := ir.NewLocal("i")

	top := e.NewLabel("top")
	e.EmitLabel(top)
	e.EmitOp2(ir.OpSub, ir.CondTrue, i, ir.NewImm(1))
	cmp := e.EmitOp2(ir.OpCmp, ir.CondTrue, i, ir.NewImm(0))
	cmp.Flags = ir.FlagWZ
	e.EmitJump(ir.CondNE, top)
	e.EmitOp0(ir.OpRet, ir.CondTrue)

	funcs := map[string]*ir.List{"F": e.List}
	Optimize(e.List, "F", funcs, DefaultOptions())

	djnzCount := 0
	for instr := e.List.Head; instr != nil; instr = instr.Next {
		if instr.Op == ir.OpDjnz {
			djnzCount++
		}
		if instr.Op == ir.OpCmp {
			t.Errorf("the zero-compare should have been folded away, found one at addr %d", instr.Addr)
		}
	}
	if djnzCount != 1 {
		t.Fatalf("expected exactly one djnz, found %d", djnzCount)
	}
}

func TestOptimizeIsIdempotentAtFixedPoint(t *testing.T) {
	e := ir.NewEmitter()
	x := ir.NewLocal("x")
	e.EmitOp2(ir.OpMove, ir.CondTrue, x, ir.NewImm(1))
	e.EmitOp0(ir.OpRet, ir.CondTrue)

	funcs := map[string]*ir.List{"F": e.List}
	Optimize(e.List, "F", funcs, DefaultOptions())
	before := ir.Dump(e.List)

	Optimize(e.List, "F", funcs, DefaultOptions())
	after := ir.Dump(e.List)

	if before != after {
		t.Fatalf("a second Optimize pass over an already-fixed-point list changed it:\nbefore:\n%s\nafter:\n%s", before, after)
	}
}
