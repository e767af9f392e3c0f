package compiler_test

import (
	"testing"

	"github.com/oisee/spinc/internal/demo"
	"github.com/oisee/spinc/pkg/compiler"
	"github.com/oisee/spinc/pkg/ir"
	"github.com/oisee/spinc/pkg/iropt"
	"github.com/oisee/spinc/pkg/module"
)

func TestCompileProducesEveryFunction(t *testing.T) {
	m := demo.Build()
	ctx := module.NewContext(m, module.Options{EliminateUnusedFunctions: true})

	res, err := compiler.Compile(ctx, iropt.DefaultOptions())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	for _, fn := range m.Functions {
		if _, ok := res.Functions[fn.Name]; !ok {
			t.Errorf("expected an IR list for %s", fn.Name)
		}
	}
}

func TestCompileCountToCollapsesLoopToDjnz(t *testing.T) {
	m := demo.Build()
	ctx := module.NewContext(m, module.Options{EliminateUnusedFunctions: true})

	res, err := compiler.Compile(ctx, iropt.DefaultOptions())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	list, ok := res.Functions["CountTo"]
	if !ok {
		t.Fatal("expected a CountTo function in the result")
	}
	djnz := 0
	for instr := list.Head; instr != nil; instr = instr.Next {
		if instr.Op == ir.OpDjnz {
			djnz++
		}
	}
	if djnz == 0 {
		t.Error("expected the loop optimizer + IR optimizer to produce at least one djnz for CountTo's counted loop")
	}
}

func TestCompileReturnsNoErrorForWellFormedModule(t *testing.T) {
	m := demo.Build()
	ctx := module.NewContext(m, module.Options{})
	if _, err := compiler.Compile(ctx, iropt.DefaultOptions()); err != nil {
		t.Fatalf("Compile on a well-formed demo module should not error: %v", err)
	}
	if ctx.Diag.HasErrors() {
		t.Errorf("expected no diagnostics, got %d", ctx.Diag.ErrorCount())
	}
}
