package iropt

import "github.com/oisee/spinc/pkg/ir"

// OptimizeMoves implements spec.md §4.7 step 4 over every unconditional
// `move dst,src` in list (outasm.c: OptimizeMoves). Four sub-rules, tried
// in order for every move instruction found:
//
//  1. move x,x is a no-op: delete.
//  2. an immediate move immediately followed by a constant arithmetic
//     instruction on the same destination folds into one move of the
//     combined constant.
//  3. when src was defined by the instruction immediately before this
//     move with nothing unsafe between them, and src is never read again
//     after this move, retarget that definition straight to dst and
//     delete the move (backward copy propagation).
//  4. when dst is never redefined before src would be (a "forward-safe"
//     window with no label/branch and no write to src), every read of
//     dst in that window is rewritten to read src instead, and the move
//     is deleted (forward copy propagation).
//
// This only recognizes an unbroken run of instructions as a "window" —
// the original's window tests additionally walk across certain label
// boundaries it can prove are single-entry; this port is conservative and
// stops at any label, which only costs a few additional fixed-point
// rounds, never correctness.
func OptimizeMoves(list *ir.List) bool {
	changed := false
	for instr := list.Head; instr != nil; {
		next := instr.Next
		if instr.Op != ir.OpMove || instr.Cond != ir.CondTrue {
			instr = next
			continue
		}

		if ir.SameOperand(instr.Dst, instr.Src) {
			list.Delete(instr)
			changed = true
			instr = next
			continue
		}

		if foldConstantConsumer(list, instr) {
			changed = true
			instr = next
			continue
		}

		if backwardRename(list, instr) {
			changed = true
			instr = next
			continue
		}

		if forwardRename(list, instr) {
			changed = true
			instr = next
			continue
		}

		instr = next
	}
	return changed
}

// foldConstantConsumer handles `move dst,#k` followed by an unconditional
// flag-free arithmetic instruction on the same dst with an immediate
// source, folding both into a single move of the computed constant.
func foldConstantConsumer(list *ir.List, mv *ir.IR) bool {
	if mv.Src == nil || !mv.Src.IsImmediate() || mv.Src.Kind != ir.KindImm {
		return false
	}
	consumer := nextReal(mv)
	if consumer == nil || consumer.Cond != ir.CondTrue || consumer.Flags != 0 {
		return false
	}
	for x := mv.Next; x != consumer; x = x.Next {
		if x.Op == ir.OpLabel {
			return false
		}
	}
	if !ir.SameOperand(consumer.Dst, mv.Dst) || consumer.Src == nil || consumer.Src.Kind != ir.KindImm {
		return false
	}
	result, ok := foldImmediate(consumer.Op, mv.Src.Val, consumer.Src.Val)
	if !ok {
		return false
	}
	consumer.Op = ir.OpMove
	consumer.Src = ir.NewImm(result)
	list.Delete(mv)
	return true
}

func foldImmediate(op ir.Opcode, a, b int64) (int64, bool) {
	switch op {
	case ir.OpAdd:
		return a + b, true
	case ir.OpSub:
		return a - b, true
	case ir.OpAnd:
		return a & b, true
	case ir.OpOr:
		return a | b, true
	case ir.OpXor:
		return a ^ b, true
	case ir.OpShl:
		return a << uint(b), true
	case ir.OpShr:
		return a >> uint(b), true
	default:
		return 0, false
	}
}

// backwardRename retargets src's defining instruction to write dst
// directly when that definition is the instruction immediately before mv
// and src is dead after mv.
func backwardRename(list *ir.List, mv *ir.IR) bool {
	def := prevReal(mv)
	if def == nil || def.Cond != ir.CondTrue || ir.IsDummy(def) {
		return false
	}
	if !ir.SameOperand(def.Dst, mv.Src) || def.Dst.Kind == ir.KindMemRef {
		return false
	}
	for x := mv.Prev; x != def; x = x.Prev {
		if x.Op == ir.OpLabel {
			return false
		}
	}
	if !IsDeadAfter(mv.Next, mv.Src) {
		return false
	}
	def.Dst = mv.Dst
	list.Delete(mv)
	return true
}

// forwardRename rewrites every read of dst in the unbroken window after
// mv up to (but not including) a redefinition of dst, provided src is
// never written in that same window, then deletes mv.
func forwardRename(list *ir.List, mv *ir.IR) bool {
	if mv.Dst.Kind == ir.KindMemRef || mv.Src.Kind == ir.KindMemRef {
		return false
	}
	var window []*ir.IR
	for instr := mv.Next; instr != nil; instr = instr.Next {
		if instr.Op == ir.OpLabel {
			return false
		}
		if ir.IsDummy(instr) {
			continue
		}
		if ir.SameOperand(instr.Dst, mv.Src) {
			return false // src would change meaning mid-window
		}
		if readsOperand(instr, mv.Dst) && !ir.SameOperand(instr.Src, mv.Dst) {
			return false // dst is read through an operand this rename does not rewrite
		}
		window = append(window, instr)
		if instr.Op.IsBranch() {
			break
		}
		if ir.SameOperand(instr.Dst, mv.Dst) && !instr.Op.IsBinary() {
			break // dst redefined outright; window ends here
		}
	}
	if len(window) == 0 {
		return false
	}
	renamed := false
	for _, instr := range window {
		if ir.SameOperand(instr.Src, mv.Dst) {
			instr.Src = mv.Src
			renamed = true
		}
	}
	if !renamed {
		return false
	}
	list.Delete(mv)
	return true
}
