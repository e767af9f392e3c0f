// Package compiler wires together the middle-end's per-phase packages into
// the single pipeline spec.md §6 describes a frontend driving: build an
// AST, populate Module, then for every function run the HL transforms,
// then common-subexpression elimination, then loop optimization, across
// the whole module, then lower every function's AST to IR and run the IR
// optimizer over it (spec.md §4.6, §4.7).
//
// Grounded on _examples/original_source/hltransform.c's driver
// (RunHLTransforms iterating every function) composed with cse.c's
// PerformCSE/PerformLoopOptimization module-level drivers and outasm.c's
// CompileToIR/OptimizeIR; this package is the part of the original that
// those files' own main() (or, for this codebase, cmd/spinc) calls in
// sequence, made an explicit, callable pipeline instead of inline driver
// code.
package compiler

import (
	"fmt"

	"github.com/oisee/spinc/pkg/cse"
	"github.com/oisee/spinc/pkg/hlt"
	"github.com/oisee/spinc/pkg/ir"
	"github.com/oisee/spinc/pkg/iropt"
	"github.com/oisee/spinc/pkg/loops"
	"github.com/oisee/spinc/pkg/module"
)

// Result holds the outcome of compiling one Module all the way through IR
// optimization: the IR list produced for every (non-unused) function, by
// name, plus the aggregated backend flags spec.md §6 says a backend reads
// off Module.BEData.
type Result struct {
	Functions map[string]*ir.List
	Flags     BackendFlags
}

// Compile runs the full pipeline over every function of ctx.Module, in the
// order spec.md §6 specifies: DoHLTransforms, then PerformCSE, then loop
// optimization (spec.md §4.4's loop-carried passes, which cse.c's own
// driver always runs directly after CSE), then DoHighLevelOptimize's
// backend-flag aggregation, then IR construction and IR optimization for
// every function. Processing continues past a function whose HL
// transform reports an internal error, matching spec.md §7's "InternalError
// ... lets later passes keep running" — such a function is still lowered
// to IR and optimized like the others, and the returned error itself is
// not recorded on ctx.Diag; Compile returns an error only when every
// function's transform failed.
func Compile(ctx *module.Context, opts iropt.Options) (*Result, error) {
	if err := DoHLTransforms(ctx); err != nil {
		return nil, err
	}

	cse.PerformModule(ctx)
	loops.PerformModule(ctx)

	flags := AggregateBackendFlags(ctx.Module)
	ctx.Module.BEData = flags

	functions := make(map[string]*ir.List, len(ctx.Module.Functions))
	for _, fn := range ctx.Module.Functions {
		if fn.IsUnused() && ctx.Options.EliminateUnusedFunctions {
			continue
		}
		functions[fn.Name] = ir.BuildFunction(ctx, fn)
	}

	for name, list := range functions {
		iropt.Optimize(list, name, functions, opts)
	}

	return &Result{Functions: functions, Flags: flags}, nil
}

// DoHLTransforms runs hlt.Transform over every function in the module,
// continuing past a function-fatal error so every function gets a chance
// to report its own diagnostics (spec.md §7), and returning the first
// error only if every function failed outright.
func DoHLTransforms(ctx *module.Context) error {
	var firstErr error
	ok := false
	for _, fn := range ctx.Module.Functions {
		if err := hlt.Transform(ctx, fn); err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("function %s: %w", fn.Name, err)
			}
			continue
		}
		ok = true
	}
	if !ok && firstErr != nil {
		return firstErr
	}
	return nil
}
