// Command spinc drives the middle-end pipeline spec.md §6 describes:
// build a module, run the HL transforms, CSE, loop optimization, then
// lower to IR and run the IR optimizer, the way the teacher's own CLI
// (cmd/z80opt) drove its search pipeline — a cobra root command with one
// subcommand per stage of work a user might want to inspect.
package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/oisee/spinc/internal/demo"
	"github.com/oisee/spinc/pkg/compiler"
	"github.com/oisee/spinc/pkg/ir"
	"github.com/oisee/spinc/pkg/iropt"
	"github.com/oisee/spinc/pkg/module"
	"github.com/oisee/spinc/pkg/symbol"
)

var log = logrus.New()

func main() {
	var verbose bool
	var inlineThreshold int
	var formDjnz bool

	rootCmd := &cobra.Command{
		Use:   "spinc",
		Short: "Parallax Propeller middle-end: AST transforms, CSE, loop analysis, IR optimizer",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")
	rootCmd.PersistentFlags().IntVar(&inlineThreshold, "inline-threshold", iropt.DefaultOptions().InlineThreshold,
		"Max callee size (instructions) eligible for inlining; 0 disables inlining")
	rootCmd.PersistentFlags().BoolVar(&formDjnz, "form-djnz", true, "Fold decrement+branch-if-nonzero into djnz")

	optsFromFlags := func() iropt.Options {
		return iropt.Options{FormDjnz: formDjnz, InlineThreshold: inlineThreshold}
	}

	compileCmd := &cobra.Command{
		Use:   "compile",
		Short: "Run the full pipeline over the built-in demo module and report per-function results",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, res, err := runPipeline(optsFromFlags())
			if err != nil {
				return err
			}
			for _, name := range sortedNames(res.Functions) {
				fmt.Printf("%s: %d instructions\n", name, countReal(res.Functions[name]))
			}
			fmt.Printf("backend flags: %+v\n", res.Flags)
			if ctx.Diag.HasErrors() {
				fmt.Printf("%d diagnostic(s) reported\n", ctx.Diag.ErrorCount())
			}
			return nil
		},
	}

	var funcName string
	dumpCmd := &cobra.Command{
		Use:   "dump-ir",
		Short: "Print the optimized IR listing for one function of the demo module (all, if --func is omitted)",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, res, err := runPipeline(optsFromFlags())
			if err != nil {
				return err
			}
			names := sortedNames(res.Functions)
			if funcName != "" {
				names = []string{funcName}
			}
			for _, name := range names {
				list, ok := res.Functions[name]
				if !ok {
					return fmt.Errorf("no such function: %s", name)
				}
				fmt.Printf("--- %s ---\n", name)
				fmt.Print(ir.Dump(list))
			}
			return nil
		},
	}
	dumpCmd.Flags().StringVar(&funcName, "func", "", "Function name to dump")

	symbolsCmd := &cobra.Command{
		Use:   "symbols",
		Short: "List every function of the demo module and its parameter/result/local symbols",
		RunE: func(cmd *cobra.Command, args []string) error {
			m := demo.Build()
			for _, fn := range m.Functions {
				fmt.Printf("%s\n", fn.Name)
				fn.LocalSyms.Iterate(func(sym *symbol.Symbol) bool {
					fmt.Printf("  %-9s %s\n", sym.Kind, sym.UserName)
					return true
				})
			}
			return nil
		},
	}

	selftestCmd := &cobra.Command{
		Use:   "selftest",
		Short: "Compile the demo module and fail if any invariant the IR optimizer relies on is violated",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, res, err := runPipeline(optsFromFlags())
			if err != nil {
				return err
			}
			if ctx.Diag.HasErrors() {
				return fmt.Errorf("selftest failed: %d diagnostic(s) reported", ctx.Diag.ErrorCount())
			}
			for _, name := range sortedNames(res.Functions) {
				if err := checkInvariants(name, res.Functions[name]); err != nil {
					return fmt.Errorf("selftest failed: %w", err)
				}
			}
			fmt.Printf("selftest passed: %d function(s) checked\n", len(res.Functions))
			return nil
		},
	}

	rootCmd.AddCommand(compileCmd, dumpCmd, symbolsCmd, selftestCmd)
	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

// runPipeline builds the demo module and runs it through pkg/compiler.Compile
// with default pipeline Options (unused-function elimination on, matching
// the teacher's release-build default) plus the djnz/inline toggles the CLI
// flags control.
func runPipeline(iropts iropt.Options) (*module.Context, *compiler.Result, error) {
	m := demo.Build()
	ctx := module.NewContext(m, module.Options{
		EliminateUnusedFunctions: true,
		FormDjnz:                 iropts.FormDjnz,
	})
	res, err := compiler.Compile(ctx, iropts)
	if err != nil {
		return ctx, nil, err
	}
	return ctx, res, nil
}

func sortedNames(m map[string]*ir.List) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func countReal(list *ir.List) int {
	n := 0
	for instr := list.Head; instr != nil; instr = instr.Next {
		if !ir.IsDummy(instr) {
			n++
		}
	}
	return n
}

// checkInvariants spot-checks a few of the properties the IR optimizer
// relies on every pass leaving true (spec.md §8): no cycle in the Next
// chain and no instruction left pointing at itself via Next.
func checkInvariants(name string, list *ir.List) error {
	seen := map[*ir.IR]bool{}
	for instr := list.Head; instr != nil; instr = instr.Next {
		if seen[instr] {
			return fmt.Errorf("%s: IR list has a cycle at %s", name, instr)
		}
		seen[instr] = true
		if instr.Next == instr {
			return fmt.Errorf("%s: instruction %s is its own successor", name, instr)
		}
	}
	return nil
}
