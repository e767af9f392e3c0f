// Package iropt implements the IR-level optimizer (spec.md §4.7): a
// fixed-point loop of peephole passes over one function's ir.List, each
// reporting whether it changed anything, re-run until none do.
//
// Grounded on _examples/original_source/backends/ir/optimize_ir.c
// (OptimizeIRLocal's pass ordering: assign temp addresses, label-use
// analysis, dead-code elimination, move optimization, immediate
// shrinking, add/sub fusion, short-branch predication, compare folding,
// function inlining) and on the teacher's pkg/search/worker.go fixed-
// point "keep looping while something changed" shape, made single-
// threaded (this package optimizes one function's IR list at a time, not
// a worker pool of independent candidates).
package iropt

import "github.com/oisee/spinc/pkg/ir"

// pass is one peephole transformation over list, reporting whether it
// changed anything.
type pass func(list *ir.List) bool

// Options toggles optimizations spec.md §9's open questions leave
// caller-controlled.
type Options struct {
	// FormDjnz enables compare-folding's djnz-formation rewrite
	// (spec.md §4.7 step 8, SUPPLEMENTED FEATURES #4).
	FormDjnz bool
	// InlineThreshold is the maximum non-dummy instruction count a
	// called function's body may have and still be inlined
	// (spec.md §4.7 step 9). Zero disables inlining.
	InlineThreshold int
}

// DefaultOptions matches outasm.c's defaults: djnz formation and a modest
// inlining threshold both on.
func DefaultOptions() Options {
	return Options{FormDjnz: true, InlineThreshold: 3}
}

// Optimize runs every pass over list to a fixed point: passes repeat,
// in the same fixed order every round, until a full round changes
// nothing (spec.md §4.7: "outer loop reruns until stable"). funcs
// provides every function's IR list by name, for the inlining pass; pass
// this function's own name as self so inlining never substitutes a
// function into itself.
func Optimize(list *ir.List, self string, funcs map[string]*ir.List, opts Options) {
	passes := []pass{
		AssignTempAddresses,
		LabelUseAnalysis,
		EliminateDeadCode,
		OptimizeMoves,
		ShrinkImmediates,
		FuseAddSub,
		OptimizeShortBranches,
		func(l *ir.List) bool { return FoldCompares(l, opts.FormDjnz) },
	}
	if opts.InlineThreshold > 0 {
		passes = append(passes, func(l *ir.List) bool {
			return InlineCalls(l, self, funcs, opts.InlineThreshold)
		})
	}

	for {
		changed := false
		for _, p := range passes {
			if p(list) {
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	CheckUsage(list)
}

// next/prev helpers that skip dummy instructions (spec.md §4.7: "passes
// skip dummies").

func nextReal(instr *ir.IR) *ir.IR {
	for instr = instr.Next; instr != nil && ir.IsDummy(instr); instr = instr.Next {
	}
	return instr
}

func prevReal(instr *ir.IR) *ir.IR {
	for instr = instr.Prev; instr != nil && ir.IsDummy(instr); instr = instr.Prev {
	}
	return instr
}
