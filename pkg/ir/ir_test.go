package ir

import "testing"

func TestAppendLinksList(t *testing.T) {
	list := &List{}
	a := NewIR(OpAdd)
	b := NewIR(OpSub)
	list.Append(a)
	list.Append(b)

	if list.Head != a || list.Tail != b {
		t.Fatalf("Head/Tail wrong: head=%v tail=%v", list.Head, list.Tail)
	}
	if a.Next != b || b.Prev != a {
		t.Fatalf("links wrong: a.Next=%v b.Prev=%v", a.Next, b.Prev)
	}
}

func TestDeleteUnlinksWithoutClearing(t *testing.T) {
	list := &List{}
	a, b, c := NewIR(OpAdd), NewIR(OpSub), NewIR(OpAnd)
	list.Append(a)
	list.Append(b)
	list.Append(c)

	list.Delete(b)
	if a.Next != c || c.Prev != a {
		t.Fatalf("b not unlinked: a.Next=%v c.Prev=%v", a.Next, c.Prev)
	}
	if b.Prev != a || b.Next != c {
		t.Errorf("Delete must not clear the deleted node's own Prev/Next: %+v", b)
	}
}

func TestInsertBeforeHead(t *testing.T) {
	list := &List{}
	mark := NewIR(OpAdd)
	list.Append(mark)
	lead := NewIR(OpMove)
	list.InsertBefore(mark, lead)

	if list.Head != lead || lead.Next != mark || mark.Prev != lead {
		t.Fatalf("InsertBefore at head wrong: head=%v", list.Head)
	}
}

func TestIsDummy(t *testing.T) {
	label := NewIR(OpLabel)
	if !IsDummy(label) {
		t.Error("label should be dummy")
	}
	add := NewIR(OpAdd)
	if IsDummy(add) {
		t.Error("unconditional add should not be dummy")
	}
	add.Cond = CondFalse
	if !IsDummy(add) {
		t.Error("an instruction with CondFalse should be dummy")
	}
}

func TestOpcodeClassification(t *testing.T) {
	if !OpMove.IsBinary() {
		t.Error("move should be binary")
	}
	if OpNeg.IsBinary() {
		t.Error("neg should not be binary")
	}
	if !OpJump.IsBranch() || !OpDjnz.IsBranch() {
		t.Error("jump/djnz should be branches")
	}
	if OpAdd.IsBranch() {
		t.Error("add should not be a branch")
	}
}
