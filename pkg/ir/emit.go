package ir

import "fmt"

// Emitter threads a function's IR list plus the two pieces of per-function
// mutable state construction needs: a temp-register stack discipline and a
// synthesized-label counter (spec.md §4.6; outasm.c's current-function-
// scoped temp/label counters, reset at the start of every function rather
// than carried as package globals, per spec.md §5/§9's explicit-Context
// recommendation).
type Emitter struct {
	List *List

	tempCounter  int
	labelCounter int
}

// NewEmitter starts a fresh IR list with temp/label counters reset, as at
// the start of every function (spec.md §5: "temp registers/vars are
// per-function, reset at function boundaries").
func NewEmitter() *Emitter {
	return &Emitter{List: &List{}}
}

// NewIR allocates and appends a bare instruction (outasm.c: new_ir +
// append, spec.md §4.6).
func (e *Emitter) NewIR(op Opcode) *IR {
	instr := NewIR(op)
	e.List.Append(instr)
	return instr
}

// EmitOp0 appends a no-operand instruction (e.g. ret).
func (e *Emitter) EmitOp0(op Opcode, cond Cond) *IR {
	instr := e.NewIR(op)
	instr.Cond = cond
	return instr
}

// EmitOp1 appends a single-operand instruction (dst only).
func (e *Emitter) EmitOp1(op Opcode, cond Cond, dst *Operand) *IR {
	instr := e.NewIR(op)
	instr.Cond = cond
	instr.Dst = dst
	return instr
}

// EmitOp2 appends a two-operand instruction (dst, src).
func (e *Emitter) EmitOp2(op Opcode, cond Cond, dst, src *Operand) *IR {
	instr := e.NewIR(op)
	instr.Cond = cond
	instr.Dst = dst
	instr.Src = src
	return instr
}

// EmitComment appends a comment pseudo-instruction; the optimizer treats
// it as a dummy and never deletes it for being unreferenced.
func (e *Emitter) EmitComment(text string) *IR {
	instr := e.NewIR(OpComment)
	instr.Dst = NewString(text)
	return instr
}

// EmitLabel appends a label definition. Every label operand must appear
// as the Dst of exactly one OpLabel instruction (spec.md §3 invariant).
func (e *Emitter) EmitLabel(name string) *IR {
	return e.EmitOp1(OpLabel, CondTrue, NewImmLabel(name))
}

// EmitJump appends a conditional or unconditional branch to label
// (outasm.c: EmitJump). Aux is left nil until the IR optimizer's
// label-use-analysis pass resolves it.
func (e *Emitter) EmitJump(cond Cond, label string) *IR {
	return e.EmitOp1(OpJump, cond, NewImmLabel(label))
}

// EmitMove appends a move from src to dst, lowering either side's memory
// reference through a materialized temp register and the matching
// rdbyte/rdword/rdlong or wrbyte/wrword/wrlong instruction (spec.md §4.6:
// "emit_move is the central memory-operand lowering point"). A plain
// register-to-register move with neither side a memory reference is
// emitted directly. Returns the final move (or store) instruction.
//
// Grounded on outasm.c's EmitMove: a nonzero fixed offset is folded into
// a pre-adjustment add/sub on the address register rather than carried as
// a separate addressing mode, since this instruction set has none.
func (e *Emitter) EmitMove(cond Cond, dst, src *Operand) *IR {
	if src.IsMemRef() {
		addr := e.materializeAddress(cond, src)
		rd := readOpcodeFor(src.Width)
		if dst.IsMemRef() {
			tmp := e.NewFunctionTemp()
			e.EmitOp2(rd, cond, tmp, addr)
			return e.storeTo(cond, dst, tmp)
		}
		return e.EmitOp2(rd, cond, dst, addr)
	}
	if dst.IsMemRef() {
		return e.storeTo(cond, dst, src)
	}
	return e.EmitOp2(OpMove, cond, dst, src)
}

// materializeAddress returns the address operand a read/write of ref
// should use, pre-adjusting ref's base by a nonzero fixed offset with an
// add/sub into a fresh temp first (outasm.c: EmitMove's offset handling).
// A zero or variable offset is passed straight through — variable-offset
// addressing is left to the backend, which knows the target's actual
// addressing modes; this package only guarantees Base names the operand
// to read after any fixed adjustment.
func (e *Emitter) materializeAddress(cond Cond, ref *Operand) *Operand {
	if ref.OffsetKind != OffsetFixed || ref.Offset.Val == 0 {
		return ref.Base
	}
	tmp := e.NewFunctionTemp()
	e.EmitOp2(OpMove, cond, tmp, ref.Base)
	off := ref.Offset.Val
	if off > 0 {
		e.EmitOp2(OpAdd, cond, tmp, NewImm(off))
	} else {
		e.EmitOp2(OpSub, cond, tmp, NewImm(-off))
	}
	return tmp
}

// storeTo lowers a store to a memory-reference dst: src is written via
// wrbyte/wrword/wrlong to dst's (possibly pre-adjusted) base address.
func (e *Emitter) storeTo(cond Cond, dst *Operand, src *Operand) *IR {
	wr := writeOpcodeFor(dst.Width)
	addr := e.materializeAddress(cond, dst)
	return e.EmitOp2(wr, cond, addr, src)
}

func readOpcodeFor(w Width) Opcode {
	switch w {
	case WidthByte:
		return OpRdByte
	case WidthWord:
		return OpRdWord
	default:
		return OpRdLong
	}
}

func writeOpcodeFor(w Width) Opcode {
	switch w {
	case WidthByte:
		return OpWrByte
	case WidthWord:
		return OpWrWord
	default:
		return OpWrLong
	}
}

// NewFunctionTemp allocates a fresh per-function temp register
// (spec.md §4.6: "new_function_temp increments a counter").
func (e *Emitter) NewFunctionTemp() *Operand {
	e.tempCounter++
	return NewLocal(fmt.Sprintf("_tmp%03d", e.tempCounter))
}

// TempMark returns the current temp-register high-water mark, to be
// passed back to FreeTempsTo once the caller's temps are no longer
// needed (spec.md §4.6's "per-function stack discipline").
func (e *Emitter) TempMark() int { return e.tempCounter }

// FreeTempsTo emits a dead marker for every temp register allocated since
// mark and restores the counter, so a later NewFunctionTemp call reuses
// those names (spec.md §4.6: "free_temps_to(mark) emits a dead marker for
// every temp above mark and restores counter").
func (e *Emitter) FreeTempsTo(mark int) {
	for e.tempCounter > mark {
		e.EmitOp1(OpDead, CondTrue, NewLocal(fmt.Sprintf("_tmp%03d", e.tempCounter)))
		e.tempCounter--
	}
}

// NewLabel mints a function-unique synthesized label name. Its shape
// (L_NNN_<tag>_) is the pattern the IR optimizer's label-use-analysis
// pass (spec.md §4.7 step 2) recognizes to know a label is a compiler
// artifact, safe to delete outright if it ends up with no referencing
// jump, rather than a user-visible symbol a backend might still need.
func (e *Emitter) NewLabel(tag string) string {
	e.labelCounter++
	return fmt.Sprintf("L_%03d_%s_", e.labelCounter, tag)
}

// IsSyntheticLabel reports whether name matches the NewLabel naming
// pattern (spec.md §4.7 step 2).
func IsSyntheticLabel(name string) bool {
	if len(name) < 4 || name[0:2] != "L_" {
		return false
	}
	return name[len(name)-1] == '_'
}
