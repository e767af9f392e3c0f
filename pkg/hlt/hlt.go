// Package hlt implements the language-independent high-level AST
// transforms of spec.md §4.3, run once per function ahead of any
// backend-specific pass.
//
// Grounded on _examples/original_source/hltransform.c (the ordered
// transform pipeline itself), frontends/basiclang.c and frontends/printdebug.c
// (debug/print lowering), and frontends/spin/spinlang.c (counted-repeat and
// range-reference shapes this package lowers away).
package hlt

import (
	"github.com/oisee/spinc/pkg/diag"
	"github.com/oisee/spinc/pkg/module"
	"github.com/oisee/spinc/pkg/srcloc"
)

// Transform runs the ordered pipeline of spec.md §4.3 steps 1-6 over
// fn.Body, mutating it in place. An error from reference decay
// (fixReferences, the first step) is returned at once and the remaining
// steps do not run; every other finding, internal errors included, is
// recorded on ctx.Diag and does not stop later steps (spec.md §7).
func Transform(ctx *module.Context, fn *module.Function) error {
	return ctx.WithFunction(fn, func(ctx *module.Context) error {
		body, err := fixReferences(ctx, fn.Body)
		if err != nil {
			return err
		}
		body = simplifyAssignments(ctx, body)
		body = rewriteLogicalOps(ctx, body)
		body = transformCountRepeat(ctx, body)
		body = lowerCase(ctx, body)
		body = lowerDebugPrints(ctx, body)
		fn.Body = body
		return nil
	})
}

// reportInternal records a non-fatal InternalError (spec.md §7: "must
// continue so later passes can surface additional errors rather than
// abort on the first").
func reportInternal(ctx *module.Context, loc srcloc.Loc, format string, args ...any) {
	ctx.Diag.Add(diag.KindInternalError, loc, format, args...)
}

func reportType(ctx *module.Context, loc srcloc.Loc, format string, args ...any) {
	ctx.Diag.Add(diag.KindTypeError, loc, format, args...)
}
