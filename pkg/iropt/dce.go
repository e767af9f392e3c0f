package iropt

import "github.com/oisee/spinc/pkg/ir"

// hasSideEffects reports whether instr's effect is observable beyond
// whatever value its Dst operand holds afterward: a write to a hardware
// register, a flag-setting instruction, a branch, or a memory write
// (spec.md §4.7: "side effects = HW register writes, flag-setting,
// branches, memory writes"). Dead-code elimination never deletes an
// instruction with side effects just because its Dst looks unused.
func hasSideEffects(instr *ir.IR) bool {
	if instr.Flags != 0 {
		return true
	}
	if instr.Op.IsBranch() {
		return true
	}
	switch instr.Op {
	case ir.OpWrByte, ir.OpWrWord, ir.OpWrLong, ir.OpWaitCnt, ir.OpWaitPEq, ir.OpWaitPNe, ir.OpWaitVid:
		return true
	}
	if instr.Dst != nil && instr.Dst.Kind == ir.KindHwReg {
		return true
	}
	return false
}

// readsOperand reports whether instr reads op's current value: always
// true of Src, and also true of Dst when instr's opcode reads-then-writes
// it (a binary ALU op, spec.md §3's two-operand instructions).
func readsOperand(instr *ir.IR, op *ir.Operand) bool {
	if ir.SameOperand(instr.Src, op) {
		return true
	}
	if instr.Op.IsBinary() && ir.SameOperand(instr.Dst, op) {
		return true
	}
	if instr.Dst != nil && instr.Dst.Kind == ir.KindMemRef && ir.SameOperand(instr.Dst.Base, op) {
		return true
	}
	if instr.Src != nil && instr.Src.Kind == ir.KindMemRef && ir.SameOperand(instr.Src.Base, op) {
		return true
	}
	return false
}

// IsDeadAfter reports whether op's value, as written by an instruction
// just before start, is never read again before being either
// redefined, marked dead, or the function returns (spec.md §4.7:
// "is_dead_after(ir, op) ... walks forward, true only on redefinition
// without intervening read, a dead marker, or (for locals/args) an
// unconditional ret; branches terminate conservatively"). start is the
// first instruction to examine (typically the instruction after the one
// that wrote op).
func IsDeadAfter(start *ir.IR, op *ir.Operand) bool {
	for instr := start; instr != nil; instr = instr.Next {
		if ir.IsDummy(instr) {
			if instr.Op == ir.OpDead && ir.SameOperand(instr.Dst, op) {
				return true
			}
			continue
		}
		if readsOperand(instr, op) {
			return false
		}
		if instr.Cond != ir.CondTrue {
			// A conditional instruction may or may not execute; treat
			// any read through it as already ruled out above, but a
			// conditional redefinition does not prove op dead on the
			// path where the condition is false, so keep scanning past
			// it rather than stopping here.
			if instr.Op.IsBranch() {
				return false
			}
			continue
		}
		if instr.Op.IsBranch() {
			if instr.Op == ir.OpRet {
				return op.Kind == ir.KindLocalReg || op.Kind == ir.KindArgReg
			}
			return false
		}
		if ir.SameOperand(instr.Dst, op) {
			return true
		}
	}
	// Fell off the end of the list without a ret: a local/arg is dead at
	// function exit, anything else conservatively isn't.
	return op.Kind == ir.KindLocalReg || op.Kind == ir.KindArgReg
}

// EliminateDeadCode deletes instructions whose effect can never be
// observed (spec.md §4.7 step 3; outasm.c: EliminateDeadCode):
//   - an unconditional jump whose target is the function's trailing
//     return sequence, when nothing but that sequence follows it anyway;
//   - every instruction between an unconditional jump and the next label
//     (unreachable);
//   - a jump whose target is the very next non-dummy instruction;
//   - any instruction whose Dst is dead immediately afterward and which
//     carries no side effects.
func EliminateDeadCode(list *ir.List) bool {
	changed := false

	for instr := list.Head; instr != nil; {
		next := instr.Next
		if instr.Op == ir.OpJump && instr.Cond == ir.CondTrue {
			if instr.Aux != nil && isImmediatelyFollowedBy(instr, instr.Aux) {
				list.Delete(instr)
				changed = true
				instr = next
				continue
			}
			if instr.Aux != nil && isTailReturn(instr.Aux) && nextReal(instr) == nextReal(instr.Aux) {
				list.Delete(instr)
				changed = true
				instr = next
				continue
			}
			// Delete every instruction between this unconditional jump
			// and the next label: it can only be reached by falling
			// through, which this jump just made impossible.
			for dead := next; dead != nil && dead.Op != ir.OpLabel; {
				deadNext := dead.Next
				if dead.Op != ir.OpComment {
					list.Delete(dead)
					changed = true
				}
				dead = deadNext
			}
		}
		instr = next
	}

	for instr := list.Head; instr != nil; {
		next := instr.Next
		if !ir.IsDummy(instr) && !hasSideEffects(instr) && instr.Dst != nil &&
			instr.Dst.Kind != ir.KindMemRef && IsDeadAfter(next, instr.Dst) {
			list.Delete(instr)
			changed = true
		}
		instr = next
	}

	return changed
}

// isImmediatelyFollowedBy reports whether target is the first non-dummy
// instruction strictly after instr.
func isImmediatelyFollowedBy(instr, target *ir.IR) bool {
	n := nextReal(instr)
	return n == target
}

// isTailReturn reports whether label is immediately followed (skipping
// dummies) by the function's closing ret with nothing executable after
// it — the shape ir.BuildFunction always appends, so a jump straight to
// it is exactly as good as falling off the end of the list.
func isTailReturn(label *ir.IR) bool {
	if label == nil || label.Op != ir.OpLabel {
		return false
	}
	r := nextReal(label)
	return r != nil && r.Op == ir.OpRet && nextReal(r) == nil
}
