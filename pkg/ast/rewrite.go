package ast

// Dup deep-copies node (spec.md §4.2, §8: Match(Dup(a), a) == true for every a).
func Dup(node *Node) *Node {
	if node == nil {
		return nil
	}
	cp := *node
	cp.Left = Dup(node.Left)
	cp.Right = Dup(node.Right)
	return &cp
}

// DupWithReplace deep-copies node, substituting new for any subtree
// structurally equal (per opts) to old (spec.md §4.2, §8).
func DupWithReplace(node, old, new *Node, opts MatchOptions) *Node {
	if node == nil {
		return nil
	}
	if Match(node, old, opts) {
		return new
	}
	cp := *node
	cp.Left = DupWithReplace(node.Left, old, new, opts)
	cp.Right = DupWithReplace(node.Right, old, new, opts)
	return &cp
}

// markSingleton marks a node (typically a canonical type node) as safe to
// share rather than clone across DupTypeSafe calls.
func (n *Node) markSingleton() { n.singleton = true }

// MarkSingleton exposes markSingleton for constructors of canonical,
// immutable type nodes that every reference to a given type should share.
func MarkSingleton(n *Node) *Node {
	if n != nil {
		n.markSingleton()
	}
	return n
}

// DupTypeSafe deep-copies node but preserves sharing for nodes previously
// marked via MarkSingleton (spec.md §4.2: "deep copy that preserves sharing
// for known singleton type nodes").
func DupTypeSafe(node *Node) *Node {
	if node == nil {
		return nil
	}
	if node.singleton {
		return node
	}
	cp := *node
	cp.Left = DupTypeSafe(node.Left)
	cp.Right = DupTypeSafe(node.Right)
	return &cp
}

// Replace rewrites body in place: every child pointer (Left or Right, at
// any depth) whose target matches old is overwritten with new. body's own
// identity is never replaced, only its descendants' pointers (spec.md
// §4.2, §8).
func Replace(body, old, new *Node, opts MatchOptions) {
	if body == nil {
		return
	}
	if body.Left != nil {
		if Match(body.Left, old, opts) {
			body.Left = new
		} else {
			Replace(body.Left, old, new, opts)
		}
	}
	if body.Right != nil {
		if Match(body.Right, old, opts) {
			body.Right = new
		} else {
			Replace(body.Right, old, new, opts)
		}
	}
}

// Nullify turns node into a no-op comment in place, used by CSE to cancel
// a pulled-out assignment while leaving the AST's shape (list length,
// sibling pointers) stable (spec.md §4.2, §4.4).
func Nullify(node *Node) {
	if node == nil {
		return
	}
	node.Kind = KindComment
	node.Left = nil
	node.Right = nil
	node.payloadKind = payloadStr
	node.strVal = ""
	node.intVal = 0
	node.ptrVal = nil
	node.singleton = false
}
