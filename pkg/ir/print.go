package ir

import (
	"fmt"
	"strings"
)

// String renders a condition the way assembly listings show it: empty for
// unconditional, otherwise a trailing ",cc" suffix.
func (c Cond) String() string {
	switch c {
	case CondTrue:
		return ""
	case CondFalse:
		return ",never"
	case CondLT:
		return ",lt"
	case CondGE:
		return ",ge"
	case CondEQ:
		return ",eq"
	case CondNE:
		return ",ne"
	case CondLE:
		return ",le"
	case CondGT:
		return ",gt"
	case CondC:
		return ",c"
	case CondNC:
		return ",nc"
	default:
		return ",?"
	}
}

// String renders an operand in a disassembly-like notation (grounded on
// the teacher's inst.Disassemble, which renders one operand at a time
// rather than building a full formatter type).
func (o *Operand) String() string {
	if o == nil {
		return "-"
	}
	switch o.Kind {
	case KindImm:
		return fmt.Sprintf("#%d", o.Val)
	case KindNamedImm:
		return fmt.Sprintf("#%s(%d)", o.Name, o.Val)
	case KindImmLabel:
		return "#" + o.Name
	case KindHwReg:
		return o.Name
	case KindLocalReg:
		return o.Name
	case KindArgReg:
		return o.Name
	case KindGeneralReg:
		return o.Name
	case KindString:
		return fmt.Sprintf("%q", o.Name)
	case KindMemRef:
		switch o.OffsetKind {
		case OffsetFixed:
			return fmt.Sprintf("%s[%s+%d]", widthTag(o.Width), o.Base, o.Offset.Val)
		case OffsetVariable:
			return fmt.Sprintf("%s[%s+%s]", widthTag(o.Width), o.Base, o.Offset)
		default:
			return fmt.Sprintf("%s[%s]", widthTag(o.Width), o.Base)
		}
	default:
		return "?"
	}
}

func widthTag(w Width) string {
	switch w {
	case WidthByte:
		return "byte"
	case WidthWord:
		return "word"
	default:
		return "long"
	}
}

// String renders one instruction as a single assembly-listing line, flags
// suffix included (e.g. "add,nc result,i wz" or "jump,ne #L_003_loop_").
func (ir *IR) String() string {
	var b strings.Builder
	switch ir.Op {
	case OpLabel:
		return ir.Dst.Name + ":"
	case OpComment:
		return "' " + ir.Dst.Name
	case OpDead:
		return "dead " + ir.Dst.String()
	}
	b.WriteString(ir.Op.String())
	b.WriteString(ir.Cond.String())
	switch {
	case ir.Dst != nil && ir.Src != nil:
		fmt.Fprintf(&b, " %s,%s", ir.Dst, ir.Src)
	case ir.Dst != nil:
		fmt.Fprintf(&b, " %s", ir.Dst)
	}
	if ir.Flags.Has(FlagWZ) {
		b.WriteString(" wz")
	}
	if ir.Flags.Has(FlagWC) {
		b.WriteString(" wc")
	}
	return b.String()
}

// Dump renders every instruction in list, one per line, in list order.
func Dump(list *List) string {
	var b strings.Builder
	for instr := list.Head; instr != nil; instr = instr.Next {
		b.WriteString(instr.String())
		b.WriteByte('\n')
	}
	return b.String()
}
