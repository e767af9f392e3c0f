package ast

// Kind tags an AST node. spec.md §3 describes ~220 variants grouped into a
// handful of families; this is a representative, language-neutral subset
// covering every construct the middle-end transforms (§4.3–§4.7) actually
// dispatch on. A frontend is free to extend Kind with source-language-
// specific tags above kindUserBase; the core only ever matches on the tags
// defined here.
//
// Grounded on _examples/original_source/ast.h-shaped node kinds referenced
// throughout ast.c, hltransform.c, cse.c, loops.c; the monolithic-enum
// shape is called out explicitly in spec.md §9 ("Dispatch by kind").
type Kind int

const (
	KindNone Kind = iota

	// --- literals ---
	KindInteger
	KindFloat
	KindString

	// --- identifiers ---
	KindIdentifier
	KindLocalIdentifier // wraps KindIdentifier with a module-unique decoration

	// --- pseudo-marker nodes ---
	KindComment
	KindCommentedNode // wraps any node to attach a trailing comment
	KindLineBreak

	// --- sequences ---
	KindStmtList  // right-spine list of statements, statement on Left
	KindExprList  // right-spine list of expressions, expression on Left
	KindListHolder
	KindSequence // singleton wrapper, equal to its sole content under Match

	// --- operators (operator code lives in the integer payload) ---
	KindOperator
	KindUnaryMinus
	KindNot       // logical not
	KindBitNot
	KindAddrOf
	KindDeref
	KindPreInc
	KindPreDec
	KindPostInc
	KindPostDec

	// --- assignment forms, before/after HL lowering ---
	KindAssign       // a := b (pure, single target)
	KindAssignChain  // a := b := c (pre-lowering); right-spine of targets, Right of the last is the value expr
	KindOpAssign     // a op= b (pre-lowering); Left=lhs, Right=rhs, integer payload is the OperatorCode
	KindMultiAssign  // (x, y) := expr (pre-lowering); Left=KindExprList of targets, Right=expr
	KindRangeAssign  // flags[a..b] := n (pre-lowering); Left=KindRangeRef, Right=value expr

	// --- references ---
	KindArrayRef
	KindMemRef  // memory reference wrapping another operand, with offset
	KindRangeRef // bit-range reference, e.g. flags[0..2]; Left=target, Right=KindExprList{hi, lo}
	KindObjRef    // object.member
	KindMethodRef // object.method(...)
	KindHwRegRef  // reference to a hardware-register descriptor

	// --- control flow ---
	// KindIf: Left=condition, Right=node whose Left is the then-body KindStmtList.
	// KindIfElse: same, plus Right.Right is the else-body KindStmtList.
	KindIf
	KindIfElse
	// KindFor/KindWhile: Left=condition (nil for a bare `for ;; {}`),
	// Right=body KindStmtList. KindRepeatCount's layout is given below.
	KindFor
	// KindRepeatCount: repeat i from F to T step K (pre-lowering counted
	// loop), before TransformCountRepeat rewrites it to KindFor.
	// Left=KindExprList{var, from, to, step}; Content(cell) for var is nil
	// when the loop has no induction variable. Right=body KindStmtList.
	KindRepeatCount
	KindWhile
	// KindCase: Left=selector expr, Right=KindStmtList of KindCaseItem/KindOther cells.
	KindCase
	KindCaseItem // Left=label expr, Right=body KindStmtList
	KindOther    // the `other` default arm of a case; Right=body KindStmtList
	KindBreak
	KindContinue
	KindReturn
	KindTernary // cond ? a : b; Left=cond, Right=KindExprList{then, else}

	// --- declarations ---
	KindFunctionDecl
	KindVarDecl
	KindParamDecl

	// --- calls ---
	KindFuncall // Left=callee identifier, Right=KindExprList of arguments (nil if none)
	KindVaArg   // va_arg(list, T); Left=list identifier, Right=type node
	// KindPrintCall: pre-lowering PRINT/printf call. Left=format KindString,
	// Right=KindExprList of argument expressions (nil if none).
	KindPrintCall

	// --- inline asm ---
	KindInlineAsm
	KindAsmInstr

	// --- type constructors ---
	// Types are themselves AST nodes (original_source/spinc.h: "AST *type"),
	// not a separate type-system package: a basic type is a leaf carrying a
	// BasicType tag in its integer payload; pointer/reference/array wrap an
	// element type on Left (array additionally carries its length on Right).
	KindTypeBasic
	KindTypePointer
	KindTypeReference
	KindTypeArray

	kindUserBase = 1000 // frontends may define Kind values >= this
)

// BasicType is the integer payload of a KindTypeBasic leaf.
type BasicType int

const (
	BasicByte BasicType = iota
	BasicWord
	BasicLong
	BasicFloat
)

// NewBasicType builds a canonical, shareable KindTypeBasic leaf.
func NewBasicType(bt BasicType) *Node {
	n := &Node{Kind: KindTypeBasic, payloadKind: payloadInt, intVal: int64(bt)}
	n.markSingleton()
	return n
}

// IsReferenceType reports whether t is a KindTypeReference node (spec.md
// §4.3 "Reference decay").
func IsReferenceType(t *Node) bool { return t != nil && t.Kind == KindTypeReference }

// ElemType returns the element type of a pointer/reference/array type node.
func ElemType(t *Node) *Node {
	if t == nil {
		return nil
	}
	return t.Left
}

// OperatorCode is the integer payload carried by a KindOperator node.
type OperatorCode int

const (
	OpAdd OperatorCode = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShl
	OpShr
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpLtU // unsigned variants, used by TransformCountRepeat (spec.md §4.3)
	OpLeU
	OpGtU
	OpGeU
	OpLogAnd // short-circuit
	OpLogOr
	OpLogXor // non-short-circuit by definition
	OpBitwiseAndSC // bitwise AND used as the non-short-circuit lowering of LogAnd
	OpBitwiseOrSC
)

// IsComparison reports whether op is one of the ten ordering/equality
// comparisons (the six signed ones plus the four unsigned orderings) the
// IR's condition translation (spec.md §4.6) recognizes.
func (op OperatorCode) IsComparison() bool {
	switch op {
	case OpEq, OpNe, OpLt, OpLe, OpGt, OpGe, OpLtU, OpLeU, OpGtU, OpGeU:
		return true
	}
	return false
}
