package iropt

import "github.com/oisee/spinc/pkg/ir"

// immediateFieldBits is the unsigned immediate width (values 0..511) this
// port assumes for
// "does it fit" checks (spec.md §4.7 step 5 names no specific width; the
// P1/P2 instruction set's 9-bit unsigned/sign-extended-small-immediate
// field is the one outasm.c's ShrinkImmediates targets, grounded on
// _examples/original_source/ir.h's register-machine shape).
const immediateFieldBits = 9

func fitsImmediateField(v int64) bool {
	return v >= 0 && v < 1<<immediateFieldBits
}

// ShrinkImmediates rewrites an out-of-field immediate via operator
// reversal when the reversed operator's immediate fits instead
// (spec.md §4.7 step 5; outasm.c: ShrinkImmediates):
//
//	move dst,-k  -> neg dst,k
//	add  dst,-k  -> sub dst,k
//	and  dst,~k  -> andn dst,k
func ShrinkImmediates(list *ir.List) bool {
	changed := false
	for instr := list.Head; instr != nil; instr = instr.Next {
		if instr.Src == nil || instr.Src.Kind != ir.KindImm {
			continue
		}
		v := instr.Src.Val
		if fitsImmediateField(v) {
			continue
		}
		switch instr.Op {
		case ir.OpMove:
			if fitsImmediateField(-v) {
				instr.Op = ir.OpNeg
				instr.Src = ir.NewImm(-v)
				changed = true
			}
		case ir.OpAdd:
			if fitsImmediateField(-v) {
				instr.Op = ir.OpSub
				instr.Src = ir.NewImm(-v)
				changed = true
			}
		case ir.OpSub:
			if fitsImmediateField(-v) {
				instr.Op = ir.OpAdd
				instr.Src = ir.NewImm(-v)
				changed = true
			}
		case ir.OpAnd:
			if fitsImmediateField(^v) {
				instr.Op = ir.OpAndN
				instr.Src = ir.NewImm(^v)
				changed = true
			}
		}
	}
	return changed
}
