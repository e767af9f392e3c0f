package symbol

import "testing"

func TestAddFind(t *testing.T) {
	tbl := NewTable(nil, false)
	if _, err := tbl.Add("x", KindConstant, int64(42), "x"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	s := tbl.Find("x")
	if s == nil {
		t.Fatal("Find returned nil")
	}
	if s.Kind != KindConstant || s.Value.(int64) != 42 {
		t.Errorf("Find returned wrong symbol: %+v", s)
	}
}

func TestAddDuplicateRejected(t *testing.T) {
	tbl := NewTable(nil, false)
	tbl.Add("x", KindConstant, int64(1), "x")
	_, err := tbl.Add("x", KindConstant, int64(2), "x")
	var dup *DuplicateError
	if err == nil {
		t.Fatal("expected DuplicateError, got nil")
	}
	if !asDuplicate(err, &dup) {
		t.Fatalf("expected *DuplicateError, got %T: %v", err, err)
	}
}

func asDuplicate(err error, out **DuplicateError) bool {
	d, ok := err.(*DuplicateError)
	if ok {
		*out = d
	}
	return ok
}

func TestWeakAliasOverridden(t *testing.T) {
	tbl := NewTable(nil, false)
	builtin, _ := tbl.Add("print", KindBuiltin, "builtin-impl", "print")
	tbl.AddWeakAlias("println", builtin)

	if s := tbl.Find("println"); s.Kind != KindWeakAlias {
		t.Fatalf("expected weak alias, got %s", s.Kind)
	}

	if _, err := tbl.Add("println", KindFunction, "user-impl", "println"); err != nil {
		t.Fatalf("overriding a weak alias should succeed: %v", err)
	}
	s := tbl.Find("println")
	if s.Kind != KindFunction || s.Value.(string) != "user-impl" {
		t.Errorf("weak alias was not overridden: %+v", s)
	}
}

func TestCaseSensitivity(t *testing.T) {
	insensitive := NewTable(nil, true)
	insensitive.Add("Foo", KindVariable, nil, "Foo")
	if insensitive.Find("foo") == nil {
		t.Error("case-insensitive table should find differently-cased name")
	}
	if insensitive.Find("foo", false) != nil {
		t.Error("forceCase=false should force sensitive lookup and miss")
	}

	sensitive := NewTable(nil, false)
	sensitive.Add("Foo", KindVariable, nil, "Foo")
	if sensitive.Find("foo") != nil {
		t.Error("case-sensitive table should not find differently-cased name")
	}
}

func TestLookupChainWalksParent(t *testing.T) {
	outer := NewTable(nil, false)
	outer.Add("g", KindVariable, 1, "g")
	inner := NewTable(outer, false)

	s, err := inner.LookupChain("g")
	if err != nil {
		t.Fatalf("LookupChain: %v", err)
	}
	if s.Value.(int) != 1 {
		t.Errorf("wrong symbol resolved: %+v", s)
	}

	if _, err := inner.LookupChain("nope"); err == nil {
		t.Error("expected UnknownError for missing name")
	}
}

func TestLookupChainAliasCycle(t *testing.T) {
	tbl := NewTable(nil, false)
	a := &Symbol{Name: "a", Kind: KindWeakAlias}
	b := &Symbol{Name: "b", Kind: KindWeakAlias, Value: a}
	a.Value = b // a -> b -> a, an infinite cycle
	tbl.buckets[symbolHash("a")&tbl.mask] = append(tbl.buckets[symbolHash("a")&tbl.mask], a)
	tbl.order = append(tbl.order, a)

	if _, err := tbl.LookupChain("a"); err == nil {
		t.Fatal("expected AliasCycleError for a 2-cycle walked past 32 hops")
	}
}

func TestFindByOffsetResultFallback(t *testing.T) {
	tbl := NewTable(nil, false)
	tbl.Add("p", KindParameter, nil, "p")
	tbl.order[0].Offset = 0

	s := tbl.FindByOffset(0, KindResult)
	if s == nil || s.Kind != KindParameter {
		t.Fatalf("expected PARAMETER fallback at offset 0, got %+v", s)
	}
}

func TestNamespaceIdempotent(t *testing.T) {
	tbl := NewTable(nil, false)
	ns1 := tbl.Namespace("Foo")
	ns2 := tbl.Namespace("Foo")
	if ns1 != ns2 {
		t.Error("Namespace should return the same nested table on repeat calls")
	}
}

func TestNewTempMintsDistinctNames(t *testing.T) {
	tbl := NewTable(nil, false)
	n1, err := tbl.NewTemp("tmp")
	if err != nil {
		t.Fatal(err)
	}
	n2, _ := tbl.NewTemp("tmp")
	if n1 == n2 {
		t.Errorf("expected distinct temp names, got %q twice", n1)
	}
}

func TestNewTempOverflows(t *testing.T) {
	tbl := NewTable(nil, false)
	tbl.tempCounters["t"] = defaultTempLimit
	if _, err := tbl.NewTemp("t"); err == nil {
		t.Fatal("expected TempOverflowError")
	}
}
