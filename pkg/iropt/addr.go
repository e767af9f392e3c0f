package iropt

import "github.com/oisee/spinc/pkg/ir"

// AssignTempAddresses assigns a monotonic sequence number to every
// instruction's Addr field and clears every jump/label's Aux, so the next
// pass (LabelUseAnalysis) starts from a known-stale state every round
// (spec.md §4.7 step 1; outasm.c: AssignTemporaryAddresses). Always
// reports changed=false: it is re-run every round anyway to keep
// addresses consistent with whatever DCE/inlining did the round before,
// and the "did anything change" signal for the fixed-point loop comes
// from the later passes instead.
func AssignTempAddresses(list *ir.List) bool {
	addr := 0
	for instr := list.Head; instr != nil; instr = instr.Next {
		instr.Addr = addr
		addr++
		if instr.Op == ir.OpJump || instr.Op == ir.OpDjnz || instr.Op == ir.OpLabel {
			instr.Aux = nil
		}
	}
	return false
}
