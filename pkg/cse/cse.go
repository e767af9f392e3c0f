// Package cse implements common-subexpression elimination and its
// loop-carried extension (spec.md §4.4): within one function body, a
// repeated pure sub-expression is pulled into a single temporary
// assignment and every occurrence after the first is replaced with a
// reference to that temporary, with loop bodies given a second,
// scoped pass so a loop-invariant expression can additionally be
// recognized as hoistable.
//
// Grounded on _examples/original_source/cse.c (doPerformCSE, loopCSE,
// blockCSE, the CSESet hash-bucketed entry list, and its flag-propagation
// rules for conditions, loops and calls) and on the teacher's
// pkg/search/fingerprint.go for the bucketed-map-of-hash shape.
package cse

import (
	"github.com/oisee/spinc/pkg/ast"
	"github.com/oisee/spinc/pkg/module"
)

const hashBuckets = 32 // power of two, mirrors cse.c's CSE_HASH_SIZE

// flags are the propagated control bits of cse.c's doPerformCSE.
type flags uint32

const (
	noReplace flags = 1 << iota // an expression here must not be replaced by a CSE temp
	noAdd                       // existing CSE entries may be reused, but no new ones are created
)

func (f flags) has(bit flags) bool { return f&bit != 0 }

// entry is one potential replacement: expr is the subtree it stands in
// for, replace is the temp identifier standing in for it once used, and
// firstUse is the setter the first occurrence was written through, so a
// CSE that turns out never to be reused again can be undone in place.
type entry struct {
	expr      *ast.Node
	replace   *ast.Node
	exprHash  uint32
	cseAssign *ast.Node
	firstUse  func(*ast.Node)
	uses      int
}

// set is the CSESet of cse.c: a hash-bucketed list of live entries plus
// the list of pending "_cse_NNNN := expr" assignments not yet spliced
// into the statement list they belong in.
type set struct {
	buckets    [hashBuckets][]*entry
	assignList *ast.Node // KindStmtList chain, or nil
}

func newSet() *set { return &set{} }

func (s *set) clearFiltered(filter func(*ast.Node) bool) {
	for i := range s.buckets {
		kept := s.buckets[i][:0]
		for _, e := range s.buckets[i] {
			if filter(e.expr) {
				destroy(e)
			} else {
				kept = append(kept, e)
			}
		}
		s.buckets[i] = kept
	}
}

// destroy undoes a CSE that turned out to be used only once: the
// assignment that materialized the temp is nullified and the original
// expression is restored at its first use site (cse.c: DestroyCSEEntry).
func destroy(e *entry) {
	if e.uses <= 1 {
		if e.cseAssign != nil && e.firstUse != nil {
			ast.Nullify(e.cseAssign)
			e.firstUse(e.expr)
		}
	}
}

func always(*ast.Node) bool { return true }

func (s *set) clear()       { s.clearFiltered(always) }
func (s *set) clearMemory() { s.clearFiltered(usesMemory) }

// usesMemory is cse.c's UsesMemory: whether evaluating expr could touch
// memory the optimizer cannot otherwise track (array/memory references,
// or an identifier this pass conservatively assumes may alias memory).
func usesMemory(expr *ast.Node) bool {
	if expr == nil {
		return false
	}
	switch expr.Kind {
	case ast.KindOperator:
		return usesMemory(expr.Left) || usesMemory(expr.Right)
	case ast.KindArrayRef, ast.KindMemRef, ast.KindHwRegRef:
		return true
	case ast.KindIdentifier, ast.KindLocalIdentifier:
		return true // conservative: no per-symbol-kind distinction modeled here
	case ast.KindAddrOf, ast.KindInteger, ast.KindFloat:
		return false
	default:
		return true
	}
}

func astHash(n *ast.Node) uint32 {
	if n == nil {
		return 0
	}
	var h uint32
	switch n.Kind {
	case ast.KindIdentifier, ast.KindLocalIdentifier, ast.KindString:
		h = stringHash(n.StrVal())
	case ast.KindInteger, ast.KindFloat, ast.KindOperator:
		h = uint32(n.IntVal())
	}
	h += uint32(n.Kind) + (h << 2) + 131*astHash(n.Left) + 65537*astHash(n.Right)
	return h
}

func stringHash(s string) uint32 {
	var h uint32
	for i := 0; i < len(s); i++ {
		h = h*31 + uint32(s[i])
	}
	return h
}

func (s *set) find(expr *ast.Node, hash uint32, opts ast.MatchOptions) *entry {
	for _, e := range s.buckets[hash&(hashBuckets-1)] {
		if e.exprHash == hash && ast.Match(e.expr, expr, opts) {
			return e
		}
	}
	return nil
}

// removeUsing drops every entry whose expr or replace subtree reads
// modified, and blanket-clears memory or everything when modified is too
// coarse a target to reason about precisely (cse.c: RemoveCSEUsing).
func (s *set) removeUsing(modified *ast.Node, opts ast.MatchOptions) {
	target := modified
	if target.Kind == ast.KindArrayRef {
		target = target.Left
	}
	if target.Kind == ast.KindLocalIdentifier {
		target = target.Left
	}
	switch target.Kind {
	case ast.KindIdentifier:
		// fine-grained: fall through to the per-entry scan below
	case ast.KindMemRef, ast.KindHwRegRef:
		s.clearMemory()
		return
	default:
		s.clear()
		return
	}
	for i := range s.buckets {
		kept := s.buckets[i][:0]
		for _, e := range s.buckets[i] {
			if ast.Uses(e.expr, target, opts) || ast.Uses(e.replace, target, opts) {
				destroy(e)
			} else {
				kept = append(kept, e)
			}
		}
		s.buckets[i] = kept
	}
}

// placePendingAssignments splices any assignments accumulated on
// s.assignList in front of cell's own content, leaving cell as the list
// cell immediately following the last inserted assignment (cse.c:
// PlacePendingAssignments). Returns the cell now holding cell's original
// content, so a caller walking the list can resume from its Right rather
// than re-visiting the newly spliced-in (already-processed) assignments.
func placePendingAssignments(ctx *module.Context, cell *ast.Node, s *set) *ast.Node {
	if s.assignList == nil {
		return cell
	}
	oldContentCell := ast.NewListCell(ast.KindStmtList, cell.Left, ctx.Builder.Loc())
	oldContentCell.Right = cell.Right

	tail := s.assignList
	for tail.Right != nil {
		tail = tail.Right
	}
	tail.Right = oldContentCell

	cell.Left = s.assignList.Left
	cell.Right = s.assignList.Right
	s.assignList = nil
	return oldContentCell
}

// addEntry materializes a fresh temp for expr, queues its assignment on
// s.assignList, and writes the temp into the expression tree via
// firstUse. name, if non-nil, is the identifier currently being assigned
// on the enclosing statement; an expression that merely reuses name's old
// value (as in `i := i + 1`) is marked possibly-redundant so it is undone
// if never referenced again (cse.c: AddToCSESet).
func addEntry(ctx *module.Context, s *set, name, expr *ast.Node, hash uint32, firstUse func(*ast.Node)) *entry {
	tempName, err := ctx.Function.LocalSyms.NewTemp("_cse")
	if err != nil {
		return nil
	}
	b := ctx.Builder
	replace := b.Ident(tempName)
	assign := b.Node(ast.KindAssign, ast.Dup(replace), expr)

	e := &entry{expr: expr, replace: replace, exprHash: hash, cseAssign: assign, firstUse: firstUse}
	if name != nil && ast.Uses(expr, name, ast.MatchOptions{}) {
		e.uses = 0
	} else {
		e.uses = 1
	}
	idx := hash & (hashBuckets - 1)
	s.buckets[idx] = append(s.buckets[idx], e)

	assignStmt := ast.NewListCell(ast.KindStmtList, assign, b.Loc())
	s.assignList = ast.AddToList(s.assignList, assignStmt)
	firstUse(replace)
	return e
}

func replaceUse(e *entry, setter func(*ast.Node)) {
	setter(e.replace)
	e.uses++
}
