package iropt

import "github.com/oisee/spinc/pkg/ir"

// maxPredicatedSpan is the longest run of skipped instructions short-
// branch predication will fold away (spec.md §4.7 step 7: "≤3
// instructions").
const maxPredicatedSpan = 3

// OptimizeShortBranches removes a conditional forward jump over at most
// maxPredicatedSpan already-unconditional instructions, predicating each
// skipped instruction (and the landing label, for bookkeeping) with the
// branch's inverted condition instead (spec.md §4.7 step 7; outasm.c:
// OptimizeShortBranches/ConditionalizeInstructions). This trades a taken
// branch for a handful of conditionally-executed instructions, which on
// a single-issue, branch-unfriendly pipeline is a net win as long as the
// skipped run is short.
func OptimizeShortBranches(list *ir.List) bool {
	changed := false
	for instr := list.Head; instr != nil; instr = instr.Next {
		if instr.Op != ir.OpJump || instr.Cond == ir.CondTrue || instr.Aux == nil {
			continue
		}
		span := shortForwardSpan(instr, instr.Aux)
		if span == nil {
			continue
		}
		inv := ir.InvertCond(instr.Cond)
		for _, skipped := range span {
			skipped.Cond = inv
		}
		instr.Aux.Cond = inv
		list.Delete(instr)
		changed = true
	}
	return changed
}

// shortForwardSpan returns the non-dummy instructions strictly between
// branch and target, or nil if target isn't reachable that way, the span
// exceeds maxPredicatedSpan, or any instruction in it is already
// conditional (predicating an already-conditional instruction a second
// time would silently change its meaning).
func shortForwardSpan(branch, target *ir.IR) []*ir.IR {
	var span []*ir.IR
	for instr := branch.Next; instr != target; {
		if instr == nil {
			return nil
		}
		if !ir.IsDummy(instr) {
			if instr.Cond != ir.CondTrue || instr.Op.IsBranch() {
				return nil
			}
			span = append(span, instr)
			if len(span) > maxPredicatedSpan {
				return nil
			}
		}
		instr = instr.Next
	}
	return span
}
