// Package loops implements the loop-carried optimizations of spec.md §4.4
// that sit above plain common-subexpression elimination: loop-invariant
// code motion (pulling an assignment whose value never changes across
// iterations out in front of the loop, with strength reduction for an
// induction-variable-derived value that does change predictably), and a
// shape rewrite of simple increment/decrement counted loops into the
// down-to-zero countdown form a later IR pass can fold into a single
// decrement-and-branch instruction.
//
// Grounded on _examples/original_source/loops.c in full: the
// LoopValueSet/LoopValueEntry bookkeeping (FindAllAssignments,
// MarkDependencies, IsLoopDependent, FindLoopStep), the strength-reduction
// pass itself (doLoopStrengthReduction, PlaceAssignAfter), the simple-loop
// shape checks (CheckSimpleDecrementLoop, CheckSimpleIncrementLoop), and
// the per-function driver (doLoopOptimizeList, PerformLoopOptimization).
//
// This package runs after pkg/hlt (which has already lowered every counted
// repeat to an explicit KindFor) and after pkg/cse (whose own loopCSE only
// reuses expressions already computed earlier in the same iteration; the
// hoisting done here is what actually moves a computation before the loop
// entirely).
package loops

import (
	"github.com/oisee/spinc/pkg/ast"
	"github.com/oisee/spinc/pkg/module"
)

var matchOpts = ast.MatchOptions{}

// Perform runs loop-invariant code motion and the simple-loop djnz shape
// rewrite over fn.Body in place (cse.c's companion PerformLoopOptimization,
// scoped to a single function).
func Perform(ctx *module.Context, fn *module.Function) {
	ctx.WithFunction(fn, func(ctx *module.Context) error {
		lv := newLoopValueSet()
		doLoopOptimizeList(ctx, lv, fn.Body)
		return nil
	})
}

// PerformModule runs Perform over every function of the module bound to
// ctx (cse.c's PerformLoopOptimization driver, which this package's
// Perform/PerformModule split lets a caller run per-function when only one
// function changed).
func PerformModule(ctx *module.Context) {
	for _, fn := range ctx.Module.Functions {
		Perform(ctx, fn)
	}
}
