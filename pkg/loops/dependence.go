package loops

import (
	"github.com/oisee/spinc/pkg/ast"
	"github.com/oisee/spinc/pkg/module"
	"github.com/oisee/spinc/pkg/symbol"
)

func isIdentifierNode(n *ast.Node) bool {
	for n != nil && n.Kind == ast.KindLocalIdentifier {
		n = n.Left
	}
	return n != nil && n.Kind == ast.KindIdentifier
}

func identName(n *ast.Node) string {
	for n != nil && n.Kind == ast.KindLocalIdentifier {
		n = n.Left
	}
	if n == nil || n.Kind != ast.KindIdentifier {
		return ""
	}
	return n.StrVal()
}

func lookupSymbol(ctx *module.Context, n *ast.Node) *symbol.Symbol {
	name := identName(n)
	if name == "" {
		return nil
	}
	sym, err := ctx.Function.LocalSyms.LookupChain(name)
	if err != nil {
		return nil
	}
	return sym
}

// isConstExpr/evalConstExpr are a small constant-folder scoped to this
// package: the retrieved original_source excerpt exercises ast.c's
// IsConstExpr/EvalConstExpr pair throughout loops.c but does not include
// their definitions, so this covers the shapes loops.c itself builds and
// tests: integers, unary negation, and any operator whose operands are
// constant. evalConstExpr folds + - * / % & | ^ << >> and yields 0 for
// any other operator.
func isConstExpr(n *ast.Node) bool {
	if n == nil {
		return false
	}
	switch n.Kind {
	case ast.KindInteger:
		return true
	case ast.KindUnaryMinus:
		return isConstExpr(n.Left)
	case ast.KindOperator:
		return isConstExpr(n.Left) && isConstExpr(n.Right)
	default:
		return false
	}
}

func evalConstExpr(n *ast.Node) int64 {
	switch n.Kind {
	case ast.KindInteger:
		return n.IntVal()
	case ast.KindUnaryMinus:
		return -evalConstExpr(n.Left)
	case ast.KindOperator:
		l, r := evalConstExpr(n.Left), evalConstExpr(n.Right)
		switch n.Op() {
		case ast.OpAdd:
			return l + r
		case ast.OpSub:
			return l - r
		case ast.OpMul:
			return l * r
		case ast.OpDiv:
			if r == 0 {
				return 0
			}
			return l / r
		case ast.OpMod:
			if r == 0 {
				return 0
			}
			return l % r
		case ast.OpBitAnd:
			return l & r
		case ast.OpBitOr:
			return l | r
		case ast.OpBitXor:
			return l ^ r
		case ast.OpShl:
			return l << uint(r)
		case ast.OpShr:
			return l >> uint(r)
		}
	}
	return 0
}

// usesMemory is loops.c's AstUsesMemory: whether evaluating ast could
// observe a store made through a pointer/array access this pass cannot see
// (so loop-invariant hoisting of it would be unsound). A local/parameter/
// temp/result whose address is never taken is known not to alias memory.
func usesMemory(ctx *module.Context, n *ast.Node) bool {
	if n == nil {
		return false
	}
	switch n.Kind {
	case ast.KindMemRef, ast.KindArrayRef:
		return true
	case ast.KindFuncall:
		return true
	case ast.KindIdentifier, ast.KindLocalIdentifier:
		sym := lookupSymbol(ctx, n)
		if sym == nil {
			return true
		}
		switch sym.Kind {
		case symbol.KindTemp, symbol.KindParameter, symbol.KindResult, symbol.KindLocal:
			return ctx.Function.Flags.Has(module.FlagLocalAddressTaken)
		default:
			return true
		}
	default:
		return usesMemory(ctx, n.Left) || usesMemory(ctx, n.Right)
	}
}

// isLoopDependent conservatively reports whether expr's value may differ
// across loop iterations (loops.c: IsLoopDependent).
func isLoopDependent(ctx *module.Context, lvs *loopValueSet, expr *ast.Node) bool {
	if expr == nil {
		return false
	}
	switch expr.Kind {
	case ast.KindInteger:
		return false

	case ast.KindIdentifier, ast.KindLocalIdentifier:
		sym := lookupSymbol(ctx, expr)
		if sym == nil {
			return true
		}
		switch sym.Kind {
		case symbol.KindParameter, symbol.KindResult, symbol.KindLocal, symbol.KindTemp:
			e := lvs.find(expr)
			if e == nil || e.value == nil {
				// never assigned in the loop
				return ctx.Function.Flags.Has(module.FlagLocalAddressTaken)
			}
			if e.flags&lvVaryMask == 0 {
				if e.hits > 1 {
					return true
				}
				// temporarily assume dependence to catch circular
				// inter-variable dependencies
				save := e.flags
				e.flags |= lvLoopDepend
				r := isLoopDependent(ctx, lvs, e.value)
				e.flags = save
				return r
			}
			return true
		default:
			return true
		}

	case ast.KindPreInc, ast.KindPreDec, ast.KindPostInc, ast.KindPostDec:
		return true

	case ast.KindOperator:
		return isLoopDependent(ctx, lvs, expr.Left) || isLoopDependent(ctx, lvs, expr.Right)

	case ast.KindArrayRef:
		return isLoopDependent(ctx, lvs, expr.Left) || isLoopDependent(ctx, lvs, expr.Right)

	case ast.KindAddrOf:
		// address of a variable is loop independent even if the variable's
		// value isn't.
		inner := expr.Left
		if inner == nil {
			return false
		}
		if isIdentifierNode(inner) {
			return false
		}
		if inner.Kind == ast.KindArrayRef && inner.Left != nil {
			if isIdentifierNode(inner.Left) {
				return isLoopDependent(ctx, lvs, inner.Right)
			}
			if inner.Left.Kind == ast.KindMemRef {
				return isLoopDependent(ctx, lvs, inner.Right) || isLoopDependent(ctx, lvs, inner.Left)
			}
		}
		return isLoopDependent(ctx, lvs, inner)

	case ast.KindMemRef:
		return isLoopDependent(ctx, lvs, expr.Right)

	default:
		return true
	}
}

// markDependencies computes the fixed point of which entries are
// loop-dependent, then, for invariant-looking single-assignment entries,
// looks for a strength-reduction step (loops.c: MarkDependencies).
func markDependencies(ctx *module.Context, lvs *loopValueSet) {
	for e := lvs.head; e != nil; e = e.next {
		if e.value == nil {
			continue
		}
		if ast.Uses(e.value, e.name, matchOpts) {
			e.flags |= lvLoopDepend
		}
		if usesMemory(ctx, e.value) || usesMemory(ctx, e.name) {
			e.flags |= lvLoopDepend
		}
	}

	for changed := true; changed; {
		changed = false
		for e := lvs.head; e != nil; e = e.next {
			if e.flags&lvVaryMask == 0 {
				if isLoopDependent(ctx, lvs, e.value) {
					e.flags |= lvLoopDepend
					changed = true
				}
			}
		}
	}

	for e := lvs.head; e != nil; e = e.next {
		if e.hits == 1 && e.flags&lvVaryMask != 0 {
			e.basename = nil
			e.loopstep = findLoopStep(ctx, lvs, e.value, &e.basename)
		}
	}
}

// findLoopStep looks for a per-iteration delta expression "val" reduces to
// relative to the induction variable it ultimately derives from, writing
// that base identifier to *basename (loops.c: FindLoopStep). The original's
// additional case for `@array[index]` (scaling the step by the array's
// element size) needs a type-size oracle this middle-end does not build
// elsewhere, so it is intentionally not ported; every other shape is.
func findLoopStep(ctx *module.Context, lvs *loopValueSet, val *ast.Node, basename **ast.Node) *ast.Node {
	if val == nil {
		return nil
	}
	b := ctx.Builder
	switch val.Kind {
	case ast.KindIdentifier, ast.KindLocalIdentifier:
		newval := val
		for {
			e := lvs.find(newval)
			if e == nil {
				return nil
			}
			if e.hits != 1 {
				return nil
			}
			newval = e.value
			if newval == nil {
				return nil
			}
			if !isIdentifierNode(newval) {
				break
			}
		}
		if ast.Uses(newval, val, matchOpts) {
			var increment *ast.Node
			switch {
			case newval.Kind == ast.KindOperator && newval.Op() == ast.OpAdd &&
				ast.Match(val, newval.Left, matchOpts) && isConstExpr(newval.Right):
				increment = newval.Right
			case newval.Kind == ast.KindOperator && newval.Op() == ast.OpSub &&
				ast.Match(val, newval.Left, matchOpts) && isConstExpr(newval.Right):
				increment = b.Node(ast.KindUnaryMinus, newval.Right, nil)
			case newval.Kind == ast.KindPreInc || newval.Kind == ast.KindPostInc:
				if ast.Match(val, newval.Left, matchOpts) || ast.Match(val, newval.Right, matchOpts) {
					increment = b.Int(1)
				}
			case newval.Kind == ast.KindPreDec || newval.Kind == ast.KindPostDec:
				if ast.Match(val, newval.Left, matchOpts) || ast.Match(val, newval.Right, matchOpts) {
					increment = b.Node(ast.KindUnaryMinus, b.Int(1), nil)
				}
			}
			if increment != nil {
				if *basename == nil {
					*basename = val
				} else if !ast.Match(val, *basename, matchOpts) {
					return nil
				}
				return increment
			}
			return nil
		}
		return findLoopStep(ctx, lvs, newval, basename)

	case ast.KindOperator:
		switch val.Op() {
		case ast.OpMul:
			var constval, indexval *ast.Node
			if isConstExpr(val.Left) {
				constval, indexval = val.Left, val.Right
			} else if isConstExpr(val.Right) {
				constval, indexval = val.Right, val.Left
			} else {
				return nil
			}
			stepval := evalConstExpr(constval)
			step := findLoopStep(ctx, lvs, indexval, basename)
			if step == nil || !isConstExpr(step) || *basename == nil {
				return nil
			}
			scaled := stepval * evalConstExpr(step)
			if scaled >= 0 {
				return b.Int(scaled)
			}
			return b.Node(ast.KindUnaryMinus, b.Int(-scaled), nil)

		case ast.OpSub, ast.OpAdd:
			if isConstExpr(val.Right) {
				step := findLoopStep(ctx, lvs, val.Left, basename)
				if step == nil || !isConstExpr(step) || *basename == nil {
					return nil
				}
				return step
			}
			if isConstExpr(val.Left) {
				step := findLoopStep(ctx, lvs, val.Right, basename)
				if step == nil || !isConstExpr(step) || *basename == nil {
					return nil
				}
				if val.Op() == ast.OpAdd {
					return step
				}
				return b.Node(ast.KindUnaryMinus, step, nil)
			}
			return nil
		}
		return nil

	default:
		return nil
	}
}
