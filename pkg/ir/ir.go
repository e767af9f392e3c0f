// Package ir implements the low-level instruction model spec.md §3 and
// §4.6 describe: a doubly-linked list of fixed-shape instructions carrying
// an opcode, a 4-bit condition, up to two operands, and a flags-written
// marker, plus the construction primitives (new_ir, append, delete,
// emit_op0/1/2, emit_label, emit_jump, emit_move) that lower a function's
// AST body into that list.
//
// Grounded on _examples/original_source/ir.h (the IR/IRList/Regkind shape)
// and outasm.c (NewIR, AppendIR, DeleteIR, EmitOp1/2, EmitMove's
// memory-operand lowering to rdbyte/wrbyte and friends), widened per
// spec.md §9's design note that "Operand must be widened into a proper
// discriminated union" rather than the original's duck-typed name/val
// reuse — see operand.go.
package ir

// Opcode is the instruction's operation (spec.md §3). Ported from
// _examples/original_source/ir.h's enum IROpcode, extended with the
// memory, wait and data-directive opcodes outasm.c's backend emits and
// spec.md §3 names explicitly.
type Opcode int

const (
	OpLabel Opcode = iota
	OpComment
	OpDead // marks Dst as no longer needed; a hint to later passes, not an instruction
	OpConst
	OpMove

	OpAdd
	OpSub
	OpAnd
	OpAndN
	OpOr
	OpXor
	OpNeg
	OpNot
	OpAbs
	OpShl
	OpShr
	OpSar
	OpRol
	OpRor
	OpRev

	OpCmp
	OpCmps
	OpMins
	OpMaxs

	OpRdByte
	OpRdWord
	OpRdLong
	OpWrByte
	OpWrWord
	OpWrLong

	OpWaitCnt
	OpWaitPEq
	OpWaitPNe
	OpWaitVid

	OpCall
	OpRet
	OpDjnz
	OpJump

	OpByte
	OpWord
	OpLong
	OpString
)

func (o Opcode) String() string {
	switch o {
	case OpLabel:
		return "label"
	case OpComment:
		return "comment"
	case OpDead:
		return "dead"
	case OpConst:
		return "const"
	case OpMove:
		return "move"
	case OpAdd:
		return "add"
	case OpSub:
		return "sub"
	case OpAnd:
		return "and"
	case OpAndN:
		return "andn"
	case OpOr:
		return "or"
	case OpXor:
		return "xor"
	case OpNeg:
		return "neg"
	case OpNot:
		return "not"
	case OpAbs:
		return "abs"
	case OpShl:
		return "shl"
	case OpShr:
		return "shr"
	case OpSar:
		return "sar"
	case OpRol:
		return "rol"
	case OpRor:
		return "ror"
	case OpRev:
		return "rev"
	case OpCmp:
		return "cmp"
	case OpCmps:
		return "cmps"
	case OpMins:
		return "mins"
	case OpMaxs:
		return "maxs"
	case OpRdByte:
		return "rdbyte"
	case OpRdWord:
		return "rdword"
	case OpRdLong:
		return "rdlong"
	case OpWrByte:
		return "wrbyte"
	case OpWrWord:
		return "wrword"
	case OpWrLong:
		return "wrlong"
	case OpWaitCnt:
		return "waitcnt"
	case OpWaitPEq:
		return "waitpeq"
	case OpWaitPNe:
		return "waitpne"
	case OpWaitVid:
		return "waitvid"
	case OpCall:
		return "call"
	case OpRet:
		return "ret"
	case OpDjnz:
		return "djnz"
	case OpJump:
		return "jump"
	case OpByte:
		return "byte"
	case OpWord:
		return "word"
	case OpLong:
		return "long"
	case OpString:
		return "string"
	default:
		return "opc?"
	}
}

// IsBinary reports whether this opcode reads/writes both Dst and Src
// (spec.md §3: "exactly one of dst/src set for unary ops, both for binary").
func (o Opcode) IsBinary() bool {
	switch o {
	case OpMove, OpAdd, OpSub, OpAnd, OpAndN, OpOr, OpXor,
		OpShl, OpShr, OpSar, OpRol, OpRor,
		OpCmp, OpCmps, OpMins, OpMaxs,
		OpRdByte, OpRdWord, OpRdLong, OpWrByte, OpWrWord, OpWrLong,
		OpWaitPEq, OpWaitPNe, OpWaitVid:
		return true
	}
	return false
}

// IsBranch reports whether this instruction can transfer control away
// from the next instruction in list order.
func (o Opcode) IsBranch() bool {
	switch o {
	case OpJump, OpDjnz, OpCall, OpRet:
		return true
	}
	return false
}

// IsDummy reports whether ir carries no executable effect: a label,
// comment, dead marker, const declaration, or any instruction whose
// condition is CondFalse (spec.md §4.7: "a dummy instruction"). The IR
// optimizer's passes skip dummies when scanning for real work.
func IsDummy(instr *IR) bool {
	if instr == nil {
		return true
	}
	switch instr.Op {
	case OpLabel, OpComment, OpDead, OpConst:
		return true
	}
	return instr.Cond == CondFalse
}

// FlagBits records which condition flags an instruction writes
// (spec.md §3's "flags" field: "writes zero/carry flag").
type FlagBits uint8

const (
	FlagWZ FlagBits = 1 << iota
	FlagWC
)

func (f FlagBits) Has(bit FlagBits) bool { return f&bit != 0 }

// IR is one instruction: {opc, cond, dst, src, flags, prev, next, addr,
// aux} (spec.md §3). Addr is optimizer scratch (a monotonic position
// assigned by the first IR-optimizer pass); once label-use analysis has
// run, Aux points a jump/djnz/call at the label instruction it targets,
// and points a label at the single branch that targets it, or is nil when
// more than one does (spec.md §3's "ambiguous -> aux=null").
type IR struct {
	Op    Opcode
	Cond  Cond
	Dst   *Operand
	Src   *Operand
	Flags FlagBits

	Prev, Next *IR

	Addr int
	Aux  *IR
}

// List is the doubly-linked instruction list for one function
// (spec.md §3's IRList).
type List struct {
	Head, Tail *IR
}

// NewIR allocates a bare instruction with the given opcode and an
// unconditional (CondTrue) predicate (outasm.c: NewIR).
func NewIR(op Opcode) *IR {
	return &IR{Op: op, Cond: CondTrue}
}

// Append adds instr to the end of list (outasm.c: AppendIR / AppendIRList).
func (l *List) Append(instr *IR) {
	if instr == nil {
		return
	}
	instr.Prev = l.Tail
	instr.Next = nil
	if l.Tail != nil {
		l.Tail.Next = instr
	} else {
		l.Head = instr
	}
	l.Tail = instr
}

// AppendList splices other onto the end of l, leaving other empty.
func (l *List) AppendList(other *List) {
	if other == nil || other.Head == nil {
		return
	}
	if l.Tail != nil {
		l.Tail.Next = other.Head
		other.Head.Prev = l.Tail
	} else {
		l.Head = other.Head
	}
	l.Tail = other.Tail
	other.Head, other.Tail = nil, nil
}

// InsertBefore splices instr into l immediately before mark.
func (l *List) InsertBefore(mark, instr *IR) {
	if mark == nil {
		l.Append(instr)
		return
	}
	instr.Prev = mark.Prev
	instr.Next = mark
	if mark.Prev != nil {
		mark.Prev.Next = instr
	} else {
		l.Head = instr
	}
	mark.Prev = instr
}

// Delete unlinks instr from l without clearing its Prev/Next pointers
// (spec.md §5: "delete unlinks instructions... without freeing them — a
// caller may still hold a pointer to a deleted instruction until the next
// pass boundary"). Callers iterating l must advance to a saved neighbor
// before calling Delete, never read instr.Next afterward expecting it to
// reflect l's current shape.
func (l *List) Delete(instr *IR) {
	if instr == nil {
		return
	}
	if instr.Prev != nil {
		instr.Prev.Next = instr.Next
	} else if l.Head == instr {
		l.Head = instr.Next
	}
	if instr.Next != nil {
		instr.Next.Prev = instr.Prev
	} else if l.Tail == instr {
		l.Tail = instr.Prev
	}
}

// Empty reports whether list has no instructions.
func (l *List) Empty() bool { return l.Head == nil }
