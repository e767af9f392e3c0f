package ir

import "testing"

func TestEmitOp2AppendsInOrder(t *testing.T) {
	e := NewEmitter()
	e.EmitOp2(OpAdd, CondTrue, NewLocal("x"), NewImm(1))
	e.EmitOp2(OpSub, CondTrue, NewLocal("x"), NewImm(2))

	if e.List.Head.Op != OpAdd || e.List.Tail.Op != OpSub {
		t.Fatalf("unexpected order: head=%v tail=%v", e.List.Head.Op, e.List.Tail.Op)
	}
}

func TestEmitMovePlainRegisters(t *testing.T) {
	e := NewEmitter()
	e.EmitMove(CondTrue, NewLocal("dst"), NewLocal("src"))

	if e.List.Head != e.List.Tail || e.List.Head.Op != OpMove {
		t.Fatalf("a register-to-register move should lower to a single move, got %d instrs",
			countInstrs(e.List))
	}
}

func TestEmitMoveReadFromMemRef(t *testing.T) {
	e := NewEmitter()
	base := NewLocal("p")
	src := NewMemRefFixed(base, 0, WidthLong)
	e.EmitMove(CondTrue, NewLocal("dst"), src)

	if e.List.Head.Op != OpRdLong {
		t.Fatalf("zero-offset read should lower directly to rdlong, got %v", e.List.Head.Op)
	}
}

func TestEmitMoveReadWithFixedOffsetMaterializesAddress(t *testing.T) {
	e := NewEmitter()
	base := NewLocal("p")
	src := NewMemRefFixed(base, 4, WidthWord)
	e.EmitMove(CondTrue, NewLocal("dst"), src)

	ops := opcodeSequence(e.List)
	want := []Opcode{OpMove, OpAdd, OpRdWord}
	if !equalOpcodes(ops, want) {
		t.Fatalf("fixed-offset read sequence = %v, want %v", ops, want)
	}
}

func TestEmitMoveWriteToMemRef(t *testing.T) {
	e := NewEmitter()
	base := NewLocal("p")
	dst := NewMemRefFixed(base, 0, WidthByte)
	e.EmitMove(CondTrue, dst, NewImm(1))

	if e.List.Tail.Op != OpWrByte {
		t.Fatalf("write to a zero-offset memref should lower to wrbyte, got %v", e.List.Tail.Op)
	}
}

func TestFreeTempsToEmitsDeadMarkersAndReusesNames(t *testing.T) {
	e := NewEmitter()
	mark := e.TempMark()
	t1 := e.NewFunctionTemp()
	e.NewFunctionTemp()
	e.FreeTempsTo(mark)
	t3 := e.NewFunctionTemp()

	if t3.Name != t1.Name {
		t.Errorf("freeing back to mark should let the next temp reuse a freed name: %s vs %s", t3.Name, t1.Name)
	}
}

func TestNewLabelIsRecognizedSynthetic(t *testing.T) {
	e := NewEmitter()
	name := e.NewLabel("loop")
	if !IsSyntheticLabel(name) {
		t.Errorf("NewLabel-minted name %q should be recognized as synthetic", name)
	}
	if IsSyntheticLabel("UserVisibleLabel") {
		t.Error("an ordinary user-facing name should not be recognized as synthetic")
	}
}

func countInstrs(list *List) int {
	n := 0
	for i := list.Head; i != nil; i = i.Next {
		n++
	}
	return n
}

func opcodeSequence(list *List) []Opcode {
	var ops []Opcode
	for i := list.Head; i != nil; i = i.Next {
		ops = append(ops, i.Op)
	}
	return ops
}

func equalOpcodes(a, b []Opcode) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
