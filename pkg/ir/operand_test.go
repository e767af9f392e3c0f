package ir

import "testing"

func TestSameOperandImmediate(t *testing.T) {
	if !SameOperand(NewImm(5), NewImm(5)) {
		t.Error("equal immediates should compare equal")
	}
	if SameOperand(NewImm(5), NewImm(6)) {
		t.Error("different immediates should not compare equal")
	}
}

func TestSameOperandMemRefFixedOffset(t *testing.T) {
	base := NewLocal("p")
	a := NewMemRefFixed(base, 4, WidthLong)
	b := NewMemRefFixed(base, 4, WidthLong)
	if !SameOperand(a, b) {
		t.Error("identical fixed-offset memrefs should compare equal")
	}
	c := NewMemRefFixed(base, 8, WidthLong)
	if SameOperand(a, c) {
		t.Error("different fixed offsets should not compare equal")
	}
}

func TestSameOperandVariableOffsetNeverEqual(t *testing.T) {
	base := NewLocal("p")
	idx := NewLocal("i")
	a := NewMemRefVariable(base, idx, WidthLong)
	b := NewMemRefVariable(base, idx, WidthLong)
	if SameOperand(a, b) {
		t.Error("variable-offset memrefs must never be treated as provably equal")
	}
}

func TestIsMemRefAndIsImmediate(t *testing.T) {
	mr := NewMemRefFixed(NewLocal("p"), 0, WidthByte)
	if !mr.IsMemRef() {
		t.Error("expected IsMemRef true")
	}
	if NewLocal("x").IsMemRef() {
		t.Error("a plain local should not be a memref")
	}
	if !NewImm(1).IsImmediate() || !NewImmLabel("L").IsImmediate() {
		t.Error("imm and imm-label should both be immediate")
	}
	if NewLocal("x").IsImmediate() {
		t.Error("a local register should not be immediate")
	}
}
