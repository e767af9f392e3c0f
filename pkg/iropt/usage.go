package iropt

import "github.com/oisee/spinc/pkg/ir"

// CheckUsage marks every operand that appears as any instruction's
// reader or writer as Used, and demotes any remaining label with no
// referencing branch to a dead marker (spec.md §4.7: "a global check_usage
// pass marks operands with any reader/writer as used (labels with no
// users demoted to dead)"; outasm.c: CheckUsage/CheckOpUsage). Runs once
// after the fixed-point loop settles, since earlier passes already delete
// unreferenced synthetic labels themselves — this pass also catches a
// user-visible (non-synthetic) label that ended up with no referencing
// branch.
func CheckUsage(list *ir.List) {
	refs := map[string]int{}
	for instr := list.Head; instr != nil; instr = instr.Next {
		if target := branchTarget(instr); target != nil {
			refs[target.Name]++
		}
		markOpUsage(instr.Dst)
		markOpUsage(instr.Src)
	}
	for instr := list.Head; instr != nil; instr = instr.Next {
		if instr.Op == ir.OpLabel && instr.Dst != nil && refs[instr.Dst.Name] == 0 {
			instr.Op = ir.OpDead
		}
	}
}

func markOpUsage(op *ir.Operand) {
	if op == nil {
		return
	}
	op.Used = true
	if op.Kind == ir.KindMemRef {
		markOpUsage(op.Base)
		markOpUsage(op.Offset)
	}
}
