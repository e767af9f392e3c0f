// Package ast implements the language-neutral AST node model and its
// structural utilities (spec.md §3, §4.2): a uniform binary-tree node
// tagged by Kind, carrying Left/Right children, a small discriminated
// payload, and a source-location index.
//
// Grounded on _examples/original_source/ast.c (NewAST, AstMatch, DupAST,
// ReplaceAst, AstUses) for the operations, and on the teacher's
// pkg/inst.Instruction (a small, trivially-copyable value carrying an
// opcode plus an immediate) for the instinct to keep Node's payload a
// tight discriminated union rather than an interface{} grab-bag — see
// Node's payload fields and payloadKind below.
package ast

import "github.com/oisee/spinc/pkg/srcloc"

// Node is {kind, left, right, payload, source-location} (spec.md §3).
// The AST is an arena-like DAG: nodes may be shared after Dup, so
// mutating code must clone before rewriting (ReplaceAst rewrites in place
// using structural-equality on child pointers — see Replace in rewrite.go).
type Node struct {
	Kind  Kind
	Left  *Node
	Right *Node
	Loc   srcloc.Loc

	payloadKind payloadKind
	intVal      int64
	strVal      string
	ptrVal      any
	singleton   bool
}

type payloadKind int

const (
	payloadNone payloadKind = iota
	payloadInt
	payloadStr
	payloadPtr
)

// IntVal returns the integer payload. Panics if the node carries a payload
// of another kind, matching spec.md §4.2's "the implementation must enforce
// that an INTEGER holds only the integer payload" invariant; a node with no
// payload at all returns 0.
func (n *Node) IntVal() int64 {
	n.requirePayload(payloadInt)
	return n.intVal
}

// StrVal returns the interned-string payload (identifiers, string literals).
func (n *Node) StrVal() string {
	n.requirePayload(payloadStr)
	return n.strVal
}

// PtrVal returns the opaque pointer payload (symbol, hw-register
// descriptor, instruction descriptor, module).
func (n *Node) PtrVal() any {
	n.requirePayload(payloadPtr)
	return n.ptrVal
}

func (n *Node) requirePayload(want payloadKind) {
	if n.payloadKind != payloadNone && n.payloadKind != want {
		panic("ast: payload kind mismatch for node kind " + kindName(n.Kind))
	}
}

func kindName(k Kind) string {
	// Minimal, dependency-free name for panic messages; a frontend that
	// wants richer names for its own kindUserBase+ values can shadow this
	// by formatting the int directly.
	names := map[Kind]string{
		KindInteger: "INTEGER", KindFloat: "FLOAT", KindString: "STRING",
		KindIdentifier: "IDENTIFIER", KindOperator: "OPERATOR",
	}
	if s, ok := names[k]; ok {
		return s
	}
	return "kind"
}

// NewInt builds a KindInteger leaf.
func NewInt(v int64, loc srcloc.Loc) *Node {
	return &Node{Kind: KindInteger, payloadKind: payloadInt, intVal: v, Loc: loc}
}

// NewFloatBits builds a KindFloat leaf; the IEEE-754 bit pattern is stored
// in the integer payload slot (spec.md §3: payload is "one of" the listed
// variants — float constants reuse the 64-bit integer slot bit-for-bit
// rather than adding a fifth payload kind).
func NewFloatBits(bits uint64, loc srcloc.Loc) *Node {
	return &Node{Kind: KindFloat, payloadKind: payloadInt, intVal: int64(bits), Loc: loc}
}

// NewString builds a KindString leaf.
func NewString(s string, loc srcloc.Loc) *Node {
	return &Node{Kind: KindString, payloadKind: payloadStr, strVal: s, Loc: loc}
}

// NewIdentifier builds a KindIdentifier leaf.
func NewIdentifier(name string, loc srcloc.Loc) *Node {
	return &Node{Kind: KindIdentifier, payloadKind: payloadStr, strVal: name, Loc: loc}
}

// NewPtr builds a leaf of the given kind carrying an opaque pointer payload
// (e.g. a KindHwRegRef wrapping a hardware-register descriptor, or a
// KindIdentifier-like node wrapping a resolved *symbol.Symbol).
func NewPtr(kind Kind, ptr any, loc srcloc.Loc) *Node {
	return &Node{Kind: kind, payloadKind: payloadPtr, ptrVal: ptr, Loc: loc}
}

// NewOperator builds a KindOperator node; the operator code is the integer
// payload, left/right are its operands (spec.md §3: "Operator nodes carry
// their operator code in the integer payload").
func NewOperator(op OperatorCode, left, right *Node, loc srcloc.Loc) *Node {
	return &Node{Kind: KindOperator, payloadKind: payloadInt, intVal: int64(op), Left: left, Right: right, Loc: loc}
}

// Op returns the operator code of a KindOperator node.
func (n *Node) Op() OperatorCode {
	if n.Kind != KindOperator {
		panic("ast: Op() called on non-operator node")
	}
	return OperatorCode(n.intVal)
}

// New builds a plain interior node with no payload.
func New(kind Kind, left, right *Node, loc srcloc.Loc) *Node {
	return &Node{Kind: kind, Left: left, Right: right, Loc: loc}
}

// HasPayload reports whether n carries any discriminated payload at all.
func (n *Node) HasPayload() bool { return n != nil && n.payloadKind != payloadNone }
