package ast

import (
	"testing"

	"github.com/oisee/spinc/pkg/srcloc"
)

func sampleExpr() *Node {
	// (a + 1) * b
	a := NewIdentifier("a", srcloc.NoLoc)
	b := NewIdentifier("b", srcloc.NoLoc)
	one := NewInt(1, srcloc.NoLoc)
	sum := NewOperator(OpAdd, a, one, srcloc.NoLoc)
	return NewOperator(OpMul, sum, b, srcloc.NoLoc)
}

func TestMatchDup(t *testing.T) {
	a := sampleExpr()
	if !Match(Dup(a), a, MatchOptions{}) {
		t.Fatal("Match(Dup(a), a) should be true")
	}
}

func TestDupWithReplaceNoOpWhenUnused(t *testing.T) {
	a := sampleExpr()
	x := NewIdentifier("zzz_not_present", srcloc.NoLoc)
	y := NewInt(99, srcloc.NoLoc)
	result := DupWithReplace(a, x, y, MatchOptions{})
	if !Match(result, a, MatchOptions{}) {
		t.Fatal("DupWithReplace should be a no-op copy when old is unused")
	}
}

func TestDupWithReplaceSubstitutes(t *testing.T) {
	a := sampleExpr() // (a + 1) * b
	bIdent := a.Right // the "b" identifier
	replacement := NewInt(7, srcloc.NoLoc)
	result := DupWithReplace(a, bIdent, replacement, MatchOptions{})
	if result.Right.Kind != KindInteger || result.Right.IntVal() != 7 {
		t.Fatalf("expected b replaced with 7, got %+v", result.Right)
	}
	if a.Right.Kind != KindIdentifier {
		t.Fatal("DupWithReplace mutated the original tree")
	}
}

func TestAddToListProperties(t *testing.T) {
	if got := AddToList(nil, nil); got != nil {
		t.Errorf("AddToList(nil, nil) should be nil, got %v", got)
	}
	e := NewListCell(KindStmtList, NewInt(1, srcloc.NoLoc), srcloc.NoLoc)
	if got := AddToList(nil, e); got != e {
		t.Error("AddToList(nil, e) should be e")
	}
	l := NewListCell(KindStmtList, NewInt(0, srcloc.NoLoc), srcloc.NoLoc)
	if got := AddToList(l, nil); got != l {
		t.Error("AddToList(l, nil) should be l")
	}
	before := ListLen(l)
	l = AddToList(l, NewListCell(KindStmtList, NewInt(2, srcloc.NoLoc), srcloc.NoLoc))
	if ListLen(l) != before+1 {
		t.Errorf("expected length %d, got %d", before+1, ListLen(l))
	}
}

func TestAddToListExMatchesAddToList(t *testing.T) {
	var tail *Node
	var list *Node
	for i := 0; i < 5; i++ {
		list = AddToListEx(list, NewListCell(KindExprList, NewInt(int64(i), srcloc.NoLoc), srcloc.NoLoc), &tail)
	}
	if ListLen(list) != 5 {
		t.Fatalf("expected 5 elements, got %d", ListLen(list))
	}
	i := int64(0)
	ForEachList(list, func(content *Node) bool {
		if content.IntVal() != i {
			t.Errorf("element %d: expected %d, got %d", i, i, content.IntVal())
		}
		i++
		return true
	})
}

func TestReplacePreservesIdentity(t *testing.T) {
	a := sampleExpr()
	identity := a
	old := a.Right // "b"
	Replace(a, old, NewInt(3, srcloc.NoLoc), MatchOptions{})
	if a != identity {
		t.Fatal("Replace must not change the identity of the root node")
	}
	if a.Right.Kind != KindInteger {
		t.Fatalf("expected Right replaced, got %+v", a.Right)
	}
}

func TestNullifyMakesComment(t *testing.T) {
	n := NewOperator(OpAdd, NewInt(1, srcloc.NoLoc), NewInt(2, srcloc.NoLoc), srcloc.NoLoc)
	Nullify(n)
	if n.Kind != KindComment {
		t.Fatalf("expected KindComment after Nullify, got %v", n.Kind)
	}
	if n.Left != nil || n.Right != nil {
		t.Fatal("Nullify should clear children")
	}
}

func TestModifiesIdentifier(t *testing.T) {
	i := NewIdentifier("i", srcloc.NoLoc)
	other := NewIdentifier("j", srcloc.NoLoc)
	assign := New(KindAssign, i, NewInt(1, srcloc.NoLoc), srcloc.NoLoc)

	if !ModifiesIdentifier(assign, i, MatchOptions{}) {
		t.Error("assignment to i should count as a modification of i")
	}
	if ModifiesIdentifier(assign, other, MatchOptions{}) {
		t.Error("assignment to i should not modify j")
	}

	inc := New(KindPreInc, i, nil, srcloc.NoLoc)
	if !ModifiesIdentifier(inc, i, MatchOptions{}) {
		t.Error("pre-increment of i should count as a modification")
	}
}
