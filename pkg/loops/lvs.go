package loops

import (
	"github.com/oisee/spinc/pkg/ast"
	"github.com/oisee/spinc/pkg/module"
)

// lvFlags are loops.c's LVFLAG_* bits, tracking how an assignment in a loop
// value set was made.
type lvFlags uint32

const (
	lvConditional lvFlags = 1 << iota // assignment is conditional
	lvNested                          // assignment is nested in an inner loop
	lvLoopDepend                      // assignment value is loop dependent
	lvLoopUsed                        // variable is read before being (re)assigned
)

const lvVaryMask = lvConditional | lvNested | lvLoopDepend | lvLoopUsed

// entry is one tracked variable: value/parent describe its most recent
// assignment (meaningful only when hits == 1), loopstep/basename are filled
// in by markDependencies once a strength-reduction candidate is found.
type entry struct {
	next     *entry
	name     *ast.Node
	value    *ast.Node
	parent   *ast.Node // enclosing KindStmtList cell of the last assignment
	flags    lvFlags
	hits     int
	loopstep *ast.Node
	basename *ast.Node
}

// loopValueSet is loops.c's LoopValueSet: an insertion-ordered list of
// entries plus a validity flag that, once cleared, means "give up on loop
// optimization for this loop" (an unsupported construct was seen).
type loopValueSet struct {
	head, tail *entry
	valid      bool
}

func newLoopValueSet() *loopValueSet {
	return &loopValueSet{valid: true}
}

func (lvs *loopValueSet) add(e *entry) {
	e.next = nil
	if lvs.tail == nil {
		lvs.head, lvs.tail = e, e
		return
	}
	lvs.tail.next = e
	lvs.tail = e
}

func (lvs *loopValueSet) find(name *ast.Node) *entry {
	for e := lvs.head; e != nil; e = e.next {
		if ast.Match(e.name, name, matchOpts) {
			return e
		}
	}
	return nil
}

// mergeAndFree merges src's entries into lvs, updating an existing entry's
// latest-assignment fields and accumulating hits/flags rather than
// duplicating it (loops.c: MergeAndFreeLoopValueSets).
func mergeAndFree(lvs, src *loopValueSet) {
	for e := src.head; e != nil; {
		next := e.next
		if orig := lvs.find(e.name); orig != nil {
			orig.value = e.value
			orig.parent = e.parent
			orig.flags |= e.flags
			orig.hits += e.hits
		} else {
			lvs.add(e)
		}
		e = next
	}
	src.head, src.tail = nil, nil
}

// addAssignment records "name := value" (value == nil for a bare read) in
// lvs, returning the entry touched, or nil if name's shape means the
// assignment isn't tracked at all (loops.c: AddAssignment).
func addAssignment(ctx *module.Context, lvs *loopValueSet, name, value *ast.Node, fl lvFlags, parent *ast.Node) *entry {
	switch name.Kind {
	case ast.KindExprList:
		for c := name; c != nil; c = c.Right {
			addAssignment(ctx, lvs, c.Left, hwRegMarker(ctx), lvVaryMask, nil)
		}
		return nil

	case ast.KindArrayRef, ast.KindMemRef, ast.KindHwRegRef, ast.KindRangeRef:
		return nil

	case ast.KindIdentifier, ast.KindLocalIdentifier:
		// fall through

	default:
		lvs.valid = false
		return nil
	}

	if e := lvs.find(name); e != nil {
		if value != nil {
			e.hits++
			e.value = value
			e.parent = parent
			e.flags |= fl
		}
		return e
	}
	e := &entry{name: name, value: value, parent: parent, flags: fl}
	if value != nil {
		e.hits = 1
	}
	lvs.add(e)
	return e
}

func hwRegMarker(ctx *module.Context) *ast.Node {
	return ctx.Builder.Node(ast.KindHwRegRef, nil, nil)
}

func checkOperatorForAssignment(n *ast.Node, fl lvFlags) lvFlags {
	switch n.Op() {
	case ast.OpLogAnd, ast.OpLogOr, ast.OpBitwiseAndSC, ast.OpBitwiseOrSC:
		// lhs is unconditional but we cannot distinguish that here, so be
		// conservative about everything touched from this point down.
		fl |= lvConditional
	}
	return fl
}

// findAllAssignments walks ast (loops.c: FindAllAssignments), recording
// every assignment and bare variable use it finds into lvs. parent tracks
// the nearest enclosing KindStmtList cell, for later PlaceAssignAfter use.
func findAllAssignments(ctx *module.Context, lvs *loopValueSet, parent, n *ast.Node, fl lvFlags) {
	if n == nil {
		return
	}
	switch n.Kind {
	case ast.KindAssign:
		if e := addAssignment(ctx, lvs, n.Left, n.Right, fl, parent); e != nil {
			findAllAssignments(ctx, lvs, parent, n.Right, fl)
			return
		}

	case ast.KindAddrOf:
		addAssignment(ctx, lvs, n.Left, hwRegMarker(ctx), lvVaryMask, nil)

	case ast.KindOperator:
		fl = checkOperatorForAssignment(n, fl)

	case ast.KindPreInc, ast.KindPreDec, ast.KindPostInc, ast.KindPostDec:
		name := n.Left
		if name == nil {
			name = n.Right
		}
		addAssignment(ctx, lvs, name, n, fl, parent)

	case ast.KindIf, ast.KindIfElse, ast.KindCase, ast.KindTernary:
		fl |= lvConditional

	case ast.KindFor, ast.KindWhile:
		fl |= lvNested

	case ast.KindCommentedNode:
		// don't update parent

	case ast.KindStmtList:
		parent = n

	case ast.KindIdentifier, ast.KindLocalIdentifier:
		// a use of this identifier before any (re)assignment in this walk
		addAssignment(ctx, lvs, n, nil, fl|lvLoopUsed, nil)
		return

	default:
		parent = n
	}
	findAllAssignments(ctx, lvs, parent, n.Left, fl)
	findAllAssignments(ctx, lvs, parent, n.Right, fl)
}
