package iropt

import "github.com/oisee/spinc/pkg/ir"

// FuseAddSub coalesces two consecutive, unconditional, flag-free add/sub
// instructions on the same destination with immediate sources into one
// (spec.md §4.7 step 6; outasm.c: add/sub fusion in OptimizeIRLocal).
// `add x,3` followed by `sub x,1` becomes `add x,2`; a net-zero delta
// deletes both outright.
func FuseAddSub(list *ir.List) bool {
	changed := false
	for instr := list.Head; instr != nil; {
		next := instr.Next
		if !isAddSubImm(instr) {
			instr = next
			continue
		}
		follow := nextReal(instr)
		if follow == nil || !isAddSubImm(follow) || !ir.SameOperand(follow.Dst, instr.Dst) {
			instr = next
			continue
		}
		delta := signedDelta(instr) + signedDelta(follow)
		if delta == 0 {
			list.Delete(follow)
			list.Delete(instr)
		} else if delta > 0 {
			instr.Op = ir.OpAdd
			instr.Src = ir.NewImm(delta)
			list.Delete(follow)
		} else {
			instr.Op = ir.OpSub
			instr.Src = ir.NewImm(-delta)
			list.Delete(follow)
		}
		changed = true
		instr = next
	}
	return changed
}

func isAddSubImm(instr *ir.IR) bool {
	if instr.Cond != ir.CondTrue || instr.Flags != 0 {
		return false
	}
	if instr.Op != ir.OpAdd && instr.Op != ir.OpSub {
		return false
	}
	return instr.Src != nil && instr.Src.Kind == ir.KindImm
}

func signedDelta(instr *ir.IR) int64 {
	if instr.Op == ir.OpSub {
		return -instr.Src.Val
	}
	return instr.Src.Val
}
