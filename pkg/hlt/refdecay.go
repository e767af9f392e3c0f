package hlt

import (
	"fmt"

	"github.com/oisee/spinc/pkg/ast"
	"github.com/oisee/spinc/pkg/module"
)

// BadPointerDerefError is spec.md §4.3 step 1's failure mode: `++`/`--`
// applied through an explicit dereference whose operand does not resolve
// to a reference-typed identifier.
type BadPointerDerefError struct {
	Name string
}

func (e *BadPointerDerefError) Error() string {
	return fmt.Sprintf("++/-- applied to non-reference dereference of %q", e.Name)
}

// identIsReference reports whether ident (a KindIdentifier leaf) resolves
// to a symbol whose declared type is a KindTypeReference node. Symbols
// whose Value is not a *ast.Node (e.g. constants) are never references.
func identIsReference(ctx *module.Context, ident *ast.Node) bool {
	if ident == nil || ident.Kind != ast.KindIdentifier {
		return false
	}
	sym, err := ctx.Function.LocalSyms.LookupChain(ident.StrVal())
	if err != nil || sym == nil {
		return false
	}
	t, ok := sym.Value.(*ast.Node)
	return ok && ast.IsReferenceType(t)
}

// fixReferences is spec.md §4.3 step 1 (fix_references): an identifier
// whose declared type is a reference type is rewritten to a dereference
// `*id`, except directly under address-of (`@id` becomes `id`) or a
// pre/post increment/decrement of the reference itself, which is lowered
// to pointer arithmetic with the dereference applied at the point of use.
func fixReferences(ctx *module.Context, n *ast.Node) (*ast.Node, error) {
	if n == nil {
		return nil, nil
	}

	switch n.Kind {
	case ast.KindAddrOf:
		if n.Left != nil && n.Left.Kind == ast.KindIdentifier && identIsReference(ctx, n.Left) {
			// @id of a reference is just the pointer value itself.
			return n.Left, nil
		}
		left, err := fixReferences(ctx, n.Left)
		if err != nil {
			return nil, err
		}
		n.Left = left
		return n, nil

	case ast.KindPreInc, ast.KindPreDec, ast.KindPostInc, ast.KindPostDec:
		target := n.Left
		if target != nil && target.Kind == ast.KindDeref {
			inner := target.Left
			if inner == nil || inner.Kind != ast.KindIdentifier || !identIsReference(ctx, inner) {
				name := ""
				if inner != nil && inner.Kind == ast.KindIdentifier {
					name = inner.StrVal()
				}
				return nil, &BadPointerDerefError{Name: name}
			}
			return lowerRefIncDec(ctx, n, inner), nil
		}
		if target != nil && target.Kind == ast.KindIdentifier && identIsReference(ctx, target) {
			return lowerRefIncDec(ctx, n, target), nil
		}
		left, err := fixReferences(ctx, n.Left)
		if err != nil {
			return nil, err
		}
		n.Left = left
		return n, nil

	case ast.KindIdentifier:
		if identIsReference(ctx, n) {
			return ctx.Builder.Node(ast.KindDeref, n, nil), nil
		}
		return n, nil

	default:
		left, err := fixReferences(ctx, n.Left)
		if err != nil {
			return nil, err
		}
		right, err := fixReferences(ctx, n.Right)
		if err != nil {
			return nil, err
		}
		n.Left, n.Right = left, right
		return n, nil
	}
}

// lowerRefIncDec lowers ++/-- of a reference-typed pointer to an
// arithmetic increment of the pointer plus a dereference at the use site:
//
//	pre:  (ptr := ptr + delta ; *ptr)         — yields the new referent
//	post: (tmp := *ptr ; ptr := ptr + delta ; tmp) — yields the old referent
//
// Represented as KindSequence{Left: side-effecting KindStmtList, Right:
// the value expression}, a "comma expression" shape natural to an AST
// where every statement-producing construct is itself a node.
func lowerRefIncDec(ctx *module.Context, incdec *ast.Node, ptr *ast.Node) *ast.Node {
	delta := int64(1)
	if incdec.Kind == ast.KindPreDec || incdec.Kind == ast.KindPostDec {
		delta = -1
	}

	b := ctx.Builder
	bumpPtr := b.Node(ast.KindAssign, ptr, b.Operator(ast.OpAdd, ast.Dup(ptr), b.Int(delta)))
	bumpStmt := ast.NewListCell(ast.KindStmtList, bumpPtr, b.Loc())

	switch incdec.Kind {
	case ast.KindPreInc, ast.KindPreDec:
		value := b.Node(ast.KindDeref, ast.Dup(ptr), nil)
		return b.Node(ast.KindSequence, bumpStmt, value)
	default: // post-inc/post-dec
		tempName, err := ctx.Function.LocalSyms.NewTemp("_ref")
		if err != nil {
			reportInternal(ctx, b.Loc(), "post-increment temp: %v", err)
			tempName = "_ref_overflow"
		}
		tempIdent := b.Ident(tempName)
		saveOld := b.Node(ast.KindAssign, tempIdent, b.Node(ast.KindDeref, ast.Dup(ptr), nil))
		saveStmt := ast.NewListCell(ast.KindStmtList, saveOld, b.Loc())
		stmts := ast.AddToList(saveStmt, bumpStmt)
		return b.Node(ast.KindSequence, stmts, b.Ident(tempName))
	}
}
