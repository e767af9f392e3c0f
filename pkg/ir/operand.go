package ir

// OperandKind discriminates Operand's payload (spec.md §3: "small
// immediate, named immediate (large, emitted as labeled constant),
// immediate label, hardware register, local/argument/general register, a
// memory reference wrapping another operand at a fixed or variable
// offset, string literal"). Ported from _examples/original_source/ir.h's
// enum Regkind, split into the finer cases spec.md §9 calls for in place
// of the original's single REG_IMM/REG_HW/REG_REG/REG_LABEL.
type OperandKind int

const (
	KindImm         OperandKind = iota // fits the target's immediate field directly
	KindNamedImm                       // too large for an immediate field; emitted as a labeled constant
	KindImmLabel                       // the address of a label, used as an immediate (e.g. call target)
	KindHwReg                          // a hardware register (e.g. OUTA, DIRA, CNT)
	KindLocalReg                       // a function-local variable or temp
	KindArgReg                         // a function parameter
	KindGeneralReg                     // a module-level (general-purpose) register
	KindMemRef                         // memory reference: Base (+ fixed or variable Offset)
	KindString                         // a string literal operand (OpString's Src)
)

// OffsetKind discriminates a KindMemRef operand's Offset interpretation.
type OffsetKind int

const (
	OffsetNone     OffsetKind = iota // no offset (plain *Base)
	OffsetFixed                      // Offset.Val is a constant byte/word/long count
	OffsetVariable                   // Offset is itself an operand read at access time
)

// Width is a memory reference's access size, selecting which of
// rdbyte/rdword/rdlong (or wrbyte/wrword/wrlong) emit_move lowers it to.
type Width int

const (
	WidthLong Width = iota // default: most operands are machine-word-sized
	WidthByte
	WidthWord
)

// Operand is {kind, name, val, used} (spec.md §3), widened per spec.md §9
// into a proper discriminated union: Base/Offset/OffsetKind/Width are
// populated only for KindMemRef, and Val only for the immediate-shaped
// kinds.
type Operand struct {
	Kind OperandKind
	Name string
	Val  int64
	Used bool

	Base       *Operand
	Offset     *Operand
	OffsetKind OffsetKind
	Width      Width
}

// NewImm returns a small-immediate operand (spec.md §3).
func NewImm(val int64) *Operand {
	return &Operand{Kind: KindImm, Val: val}
}

// NewNamedImm returns a too-large-for-the-immediate-field constant that
// the backend must emit as a separate labeled datum (spec.md §3).
func NewNamedImm(name string, val int64) *Operand {
	return &Operand{Kind: KindNamedImm, Name: name, Val: val}
}

// NewImmLabel returns the address-of-label operand used as an immediate
// (e.g. a call target or a jump-table entry).
func NewImmLabel(name string) *Operand {
	return &Operand{Kind: KindImmLabel, Name: name}
}

// NewHwReg returns a hardware-register operand.
func NewHwReg(name string) *Operand {
	return &Operand{Kind: KindHwReg, Name: name}
}

// NewLocal returns a function-local variable/temp register operand.
func NewLocal(name string) *Operand {
	return &Operand{Kind: KindLocalReg, Name: name}
}

// NewArg returns a function-parameter register operand.
func NewArg(name string) *Operand {
	return &Operand{Kind: KindArgReg, Name: name}
}

// NewGeneral returns a module-level register operand.
func NewGeneral(name string) *Operand {
	return &Operand{Kind: KindGeneralReg, Name: name}
}

// NewString returns a string-literal operand.
func NewString(s string) *Operand {
	return &Operand{Kind: KindString, Name: s}
}

// NewMemRefFixed returns a memory reference to base at a constant offset,
// accessed at the given width.
func NewMemRefFixed(base *Operand, offset int64, width Width) *Operand {
	o := &Operand{Kind: KindMemRef, Base: base, OffsetKind: OffsetNone, Width: width}
	if offset != 0 {
		o.OffsetKind = OffsetFixed
		o.Offset = &Operand{Kind: KindImm, Val: offset}
	}
	return o
}

// NewMemRefVariable returns a memory reference to base at a
// runtime-computed offset operand, accessed at the given width.
func NewMemRefVariable(base, offset *Operand, width Width) *Operand {
	return &Operand{Kind: KindMemRef, Base: base, OffsetKind: OffsetVariable, Offset: offset, Width: width}
}

// IsMemRef reports whether o is a memory reference.
func (o *Operand) IsMemRef() bool { return o != nil && o.Kind == KindMemRef }

// IsImmediate reports whether o's value is known at compile time and
// never needs a register to hold it.
func (o *Operand) IsImmediate() bool {
	return o != nil && (o.Kind == KindImm || o.Kind == KindNamedImm || o.Kind == KindImmLabel)
}

// SameOperand reports whether a and b name the same storage location
// (used by the IR optimizer's move-elimination and dead-store checks).
// Two memory references are the same only if both their base and offset
// compare equal; a variable offset never compares equal to another
// (conservatively treated as potentially distinct addresses).
func SameOperand(a, b *Operand) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindImm:
		return a.Val == b.Val
	case KindNamedImm, KindImmLabel, KindHwReg, KindLocalReg, KindArgReg, KindGeneralReg, KindString:
		return a.Name == b.Name
	case KindMemRef:
		if !SameOperand(a.Base, b.Base) {
			return false
		}
		if a.OffsetKind != b.OffsetKind {
			return false
		}
		if a.OffsetKind == OffsetVariable {
			return false
		}
		if a.OffsetKind == OffsetFixed {
			return a.Offset.Val == b.Offset.Val
		}
		return true
	}
	return false
}
