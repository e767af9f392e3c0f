package cse

import "github.com/oisee/spinc/pkg/module"

// Perform runs common-subexpression elimination over fn.Body in place
// (spec.md §4.4, cse.c's PerformCSE for a single function).
func Perform(ctx *module.Context, fn *module.Function) {
	ctx.WithFunction(fn, func(ctx *module.Context) error {
		s := newSet()
		walkStmtList(ctx, fn.Body, s, 0)
		s.clear()
		return nil
	})
}

// PerformModule runs Perform over every function of m (cse.c's top-level
// PerformCSE, which loops over Q->functions before handing off to the
// loop optimizer).
func PerformModule(ctx *module.Context) {
	for _, fn := range ctx.Module.Functions {
		Perform(ctx, fn)
	}
}
