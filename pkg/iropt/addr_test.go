package iropt

import (
	"testing"

	"github.com/oisee/spinc/pkg/ir"
)

func TestAssignTempAddressesIsMonotonic(t *testing.T) {
	list := &ir.List{}
	list.Append(ir.NewIR(ir.OpAdd))
	list.Append(ir.NewIR(ir.OpSub))
	list.Append(ir.NewIR(ir.OpAnd))

	AssignTempAddresses(list)
	addr := -1
	for instr := list.Head; instr != nil; instr = instr.Next {
		if instr.Addr <= addr {
			t.Fatalf("addresses must be strictly increasing, got %d after %d", instr.Addr, addr)
		}
		addr = instr.Addr
	}
}

func TestAssignTempAddressesClearsJumpAux(t *testing.T) {
	list := &ir.List{}
	jmp := ir.NewIR(ir.OpJump)
	jmp.Cond = ir.CondTrue
	jmp.Dst = ir.NewImmLabel("L")
	jmp.Aux = ir.NewIR(ir.OpLabel) // stale from a previous round
	list.Append(jmp)

	AssignTempAddresses(list)
	if jmp.Aux != nil {
		t.Error("a jump's stale Aux should be cleared so LabelUseAnalysis recomputes it fresh")
	}
}
