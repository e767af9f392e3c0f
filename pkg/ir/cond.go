package ir

import "github.com/oisee/spinc/pkg/ast"

// Cond is the 4-bit conditional-execution predicate every instruction
// carries (spec.md §3; ported from _examples/original_source/ir.h's enum
// IRCond, extended with the carry-flag pair the P1/P2 instruction sets
// also support). CondTrue means unconditional.
//
// Pairs are deliberately laid out one bit apart so InvertCond is a single
// xor: CondTrue/CondFalse, CondLT/CondGE, CondEQ/CondNE, CondLE/CondGT,
// CondC/CondNC.
type Cond int

const (
	CondTrue Cond = iota
	CondFalse
	CondLT
	CondGE
	CondEQ
	CondNE
	CondLE
	CondGT
	CondC
	CondNC
)

// InvertCond returns the logical negation of c (spec.md §4.6; outasm.c:
// InvertCond). The encoding above makes this a single low-bit flip for
// every pair except the carry pair, which this also covers since CondC
// and CondNC are laid out the same one-bit-apart way.
func InvertCond(c Cond) Cond {
	switch c {
	case CondTrue:
		return CondFalse
	case CondFalse:
		return CondTrue
	case CondLT:
		return CondGE
	case CondGE:
		return CondLT
	case CondEQ:
		return CondNE
	case CondNE:
		return CondEQ
	case CondLE:
		return CondGT
	case CondGT:
		return CondLE
	case CondC:
		return CondNC
	case CondNC:
		return CondC
	default:
		return c
	}
}

// FlipSides returns the condition that holds when its two comparands are
// swapped: "a<b" becomes "b>a", so FlipSides(LT) == GT (spec.md §4.6,
// SUPPLEMENTED FEATURES #3; outasm.c: FlipSides).
func FlipSides(c Cond) Cond {
	switch c {
	case CondLT:
		return CondGT
	case CondGT:
		return CondLT
	case CondLE:
		return CondGE
	case CondGE:
		return CondLE
	case CondC:
		return CondNC
	case CondNC:
		return CondC
	default:
		return c // TRUE, FALSE, EQ, NE are symmetric
	}
}

// FromComparison translates an AST comparison operator into the IR
// condition it tests (spec.md §4.6, SUPPLEMENTED FEATURES #3):
// "=" -> eq, "<>" -> ne, "<" -> lt, ">" -> gt, "<=" -> le, ">=" -> ge.
// The unsigned comparison codes translate to the same conditions; this
// package's IR does not track signedness on Cond itself, matching
// ir.h's original, signedness-agnostic IRCond enum — a backend that needs
// to pick between a signed and unsigned compare instruction does so from
// the operator recorded on the Cmps instruction that set the flags, not
// from Cond. ok is false for a non-comparison operator.
func FromComparison(op ast.OperatorCode) (cond Cond, ok bool) {
	switch op {
	case ast.OpEq:
		return CondEQ, true
	case ast.OpNe:
		return CondNE, true
	case ast.OpLt, ast.OpLtU:
		return CondLT, true
	case ast.OpGt, ast.OpGtU:
		return CondGT, true
	case ast.OpLe, ast.OpLeU:
		return CondLE, true
	case ast.OpGe, ast.OpGeU:
		return CondGE, true
	default:
		return CondTrue, false
	}
}
