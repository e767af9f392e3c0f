package module

import (
	"github.com/oisee/spinc/pkg/ast"
	"github.com/oisee/spinc/pkg/diag"
)

// Options are pipeline-wide toggles threaded through Context, mirroring
// the teacher's plain-struct-of-flags configs (search.Config, stoke.Config)
// rather than a flags/env framework — this is a library-first core; only
// cmd/spinc touches cobra/flag parsing.
type Options struct {
	// EliminateUnusedFunctions drops Functions with CallSites == 0 that
	// are not public or force-static (spec.md §3).
	EliminateUnusedFunctions bool

	// FormDjnz records whether the compare-fold-into-djnz IR optimizer
	// step (spec.md §4.7 step 8) is wanted. No pass reads this field;
	// compiler.Compile takes that switch from its iropt.Options argument.
	FormDjnz bool

	// TargetIsP2 selects the successor "P2" variant over the 8-core "P1"
	// (spec.md §1). The core never branches on this directly; it exists
	// so a backend consulted via Module.BEData can.
	TargetIsP2 bool

	// CoalesceLocalsOnAddressTaken is the "_parm_" local-array switch
	// (spec.md §9). Defaults to off; only a Spin-style backend needs it.
	// No pass in this module reads it: parameters and locals are never
	// coalesced into a single backing array, whatever its value.
	CoalesceLocalsOnAddressTaken bool
}

// Context is the explicit call-stack-scoped binding spec.md §5 and §9
// recommend in place of the original's current-module/current-function/
// report-as-hint globals: every recursive transform takes a *Context
// instead of reading mutable package state.
type Context struct {
	Module   *Module
	Function *Function
	Builder  *ast.Builder
	Diag     *diag.Bag
	Options  Options
}

// NewContext creates a Context scoped to m, with a fresh diagnostic Bag.
func NewContext(m *Module, opts Options) *Context {
	return &Context{
		Module:  m,
		Builder: ast.NewBuilder(nil),
		Diag:    diag.NewBag(m.ClassName),
		Options: opts,
	}
}

// WithFunction runs body with Function and Builder scoped to fn, restoring
// the previous Function on every exit path (including a panic or an
// error return), matching spec.md §5: "public entry points save, set, and
// restore them on exit (including error paths)".
func (c *Context) WithFunction(fn *Function, body func(*Context) error) error {
	prevFn := c.Function
	prevStream := c.Builder.Stream
	c.Function = fn
	defer func() {
		c.Function = prevFn
		c.Builder.Stream = prevStream
	}()
	return body(c)
}
