package iropt

import "github.com/oisee/spinc/pkg/ir"

// FoldCompares implements spec.md §4.7 step 8: a `cmp(s) dst,#0 wz` whose
// immediately preceding instruction already computes dst and could have
// set wz itself without changing dst's value is removed, and that prior
// instruction gains the wz flag instead (outasm.c: this is folded into
// OptimizeIRLocal's peephole pass, not a separate function there).
//
// When formDjnz is true and the folded-into instruction turns out to be
// exactly `sub dst,#1` immediately followed by a conditional jump testing
// "not equal", the pair is replaced by a single djnz — SUPPLEMENTED
// FEATURES #4's narrow precondition: this rewrite never fires for any
// other combination of setter and test, even ones that are logically
// equivalent, because djnz is a single dedicated "decrement and branch if
// nonzero" instruction with no room for a different comparison.
func FoldCompares(list *ir.List, formDjnz bool) bool {
	changed := false
	for instr := list.Head; instr != nil; {
		next := instr.Next
		if isZeroCompare(instr) {
			prior := prevReal(instr)
			if prior != nil && prior.Cond == ir.CondTrue && prior.Flags == 0 &&
				isFlagFriendly(prior.Op) && ir.SameOperand(prior.Dst, instr.Dst) {
				prior.Flags |= instr.Flags
				list.Delete(instr)
				changed = true
				if formDjnz {
					tryFormDjnz(list, prior)
				}
			}
		}
		instr = next
	}
	return changed
}

func isZeroCompare(instr *ir.IR) bool {
	if instr.Op != ir.OpCmp && instr.Op != ir.OpCmps {
		return false
	}
	if instr.Cond != ir.CondTrue || instr.Flags == 0 {
		return false
	}
	return instr.Src != nil && instr.Src.Kind == ir.KindImm && instr.Src.Val == 0
}

// isFlagFriendly is the whitelist of opcodes whose own result already
// determines zero/carry identically to a following `cmp dst,#0` — plain
// ALU ops that leave dst holding their full result, not a shift (whose
// flag semantics depend on shift amount in a way this port does not model
// closely enough to fold safely).
func isFlagFriendly(op ir.Opcode) bool {
	switch op {
	case ir.OpAdd, ir.OpSub, ir.OpAnd, ir.OpOr, ir.OpXor, ir.OpNeg, ir.OpNot, ir.OpMove:
		return true
	}
	return false
}

// tryFormDjnz rewrites `sub dst,#1 wz` / `jump,ne target` into
// `djnz dst,target`.
func tryFormDjnz(list *ir.List, sub *ir.IR) bool {
	if sub.Op != ir.OpSub || sub.Src == nil || sub.Src.Kind != ir.KindImm || sub.Src.Val != 1 {
		return false
	}
	if !sub.Flags.Has(ir.FlagWZ) {
		return false
	}
	jump := nextReal(sub)
	if jump == nil || jump.Op != ir.OpJump || jump.Cond != ir.CondNE {
		return false
	}
	djnz := ir.NewIR(ir.OpDjnz)
	djnz.Cond = ir.CondTrue
	djnz.Dst = sub.Dst
	djnz.Src = jump.Dst
	djnz.Aux = jump.Aux
	list.InsertBefore(sub, djnz)
	list.Delete(sub)
	list.Delete(jump)
	return true
}
