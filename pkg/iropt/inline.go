package iropt

import "github.com/oisee/spinc/pkg/ir"

// InlineCalls substitutes a fresh clone of a callee's body for any `call`
// whose target is small and straight-line (spec.md §4.7 step 9: "functions
// whose IR body, ignoring dummies, has no labels and <= threshold
// instructions marked inlinable; call f rewritten by substituting a fresh
// duplicate of f's IR list"; outasm.c: function inlining in
// OptimizeIRLocal). funcs maps every other function's name to its IR list;
// self is this function's own name, so a call never inlines itself.
func InlineCalls(list *ir.List, self string, funcs map[string]*ir.List, threshold int) bool {
	changed := false
	for instr := list.Head; instr != nil; {
		next := instr.Next
		if instr.Op == ir.OpCall && instr.Cond == ir.CondTrue && instr.Dst != nil && instr.Dst.Kind == ir.KindImmLabel {
			name := instr.Dst.Name
			if name != self {
				if callee, ok := funcs[name]; ok {
					if body := inlinableBody(callee, threshold); body != nil {
						for _, b := range body {
							list.InsertBefore(instr, cloneIR(b))
						}
						list.Delete(instr)
						changed = true
					}
				}
			}
		}
		instr = next
	}
	return changed
}

// inlinableBody returns callee's body instructions (its trailing return
// label and ret dropped, since the call site already falls through to
// whatever follows) or nil if callee has any label — a function with an
// internal branch target can't simply be spliced into another's
// straight-line instruction stream — or more than threshold instructions.
func inlinableBody(callee *ir.List, threshold int) []*ir.IR {
	var body []*ir.IR
	for instr := callee.Head; instr != nil; instr = instr.Next {
		switch instr.Op {
		case ir.OpLabel:
			return nil
		case ir.OpComment, ir.OpDead, ir.OpConst:
			continue
		case ir.OpRet:
			continue
		}
		if instr.Cond == ir.CondFalse {
			continue
		}
		body = append(body, instr)
	}
	if len(body) == 0 || len(body) > threshold {
		return nil
	}
	return body
}

func cloneIR(src *ir.IR) *ir.IR {
	c := ir.NewIR(src.Op)
	c.Cond = src.Cond
	c.Flags = src.Flags
	c.Dst = cloneOperand(src.Dst)
	c.Src = cloneOperand(src.Src)
	return c
}

func cloneOperand(o *ir.Operand) *ir.Operand {
	if o == nil {
		return nil
	}
	cp := *o
	cp.Base = cloneOperand(o.Base)
	cp.Offset = cloneOperand(o.Offset)
	return &cp
}
