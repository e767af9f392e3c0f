package iropt

import "github.com/oisee/spinc/pkg/ir"

// LabelUseAnalysis resolves every branch's Aux to the label instruction it
// targets, and deletes compiler-synthesized labels (spec.md §4.6's
// "L_NNN_..._" naming pattern) that ended up with no referencing jump at
// all (spec.md §4.7 step 2; outasm.c: this pass runs just ahead of dead-
// code elimination so DCE can rely on Aux being current).
//
// A label referenced by more than one branch leaves every referencing
// branch's Aux pointing at it (unambiguous — a label can have many
// users), but the label's own Aux, which records "the" branch to it for
// passes that care about a single-use label (short-branch predication's
// landing-label check), is left nil once more than one jump targets it —
// spec.md §3: "ambiguous -> aux=null".
func LabelUseAnalysis(list *ir.List) bool {
	defs := map[string]*ir.IR{}
	refs := map[string][]*ir.IR{}

	for instr := list.Head; instr != nil; instr = instr.Next {
		if instr.Op == ir.OpLabel && instr.Dst != nil {
			defs[instr.Dst.Name] = instr
		}
	}
	for instr := list.Head; instr != nil; instr = instr.Next {
		target := branchTarget(instr)
		if target == nil {
			continue
		}
		name := target.Name
		refs[name] = append(refs[name], instr)
		if def, ok := defs[name]; ok {
			instr.Aux = def
		}
	}
	for name, def := range defs {
		if len(refs[name]) == 1 {
			def.Aux = refs[name][0]
		} else {
			def.Aux = nil
		}
	}

	changed := false
	for instr := list.Head; instr != nil; {
		next := instr.Next
		if instr.Op == ir.OpLabel && instr.Dst != nil {
			name := instr.Dst.Name
			if len(refs[name]) == 0 && ir.IsSyntheticLabel(name) {
				list.Delete(instr)
				changed = true
			}
		}
		instr = next
	}
	return changed
}

// branchTarget returns the label operand instr branches to, or nil if it
// doesn't branch to a label at all. jump/call carry their target in Dst;
// djnz carries its counter in Dst and its target in Src (comparefold.go's
// tryFormDjnz), so this is the one place that needs to know both shapes —
// every other pass asks branchTarget instead of reading a field directly.
func branchTarget(instr *ir.IR) *ir.Operand {
	switch instr.Op {
	case ir.OpJump, ir.OpCall:
		if instr.Dst != nil && instr.Dst.Kind == ir.KindImmLabel {
			return instr.Dst
		}
	case ir.OpDjnz:
		if instr.Src != nil && instr.Src.Kind == ir.KindImmLabel {
			return instr.Src
		}
	}
	return nil
}
