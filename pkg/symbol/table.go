package symbol

const (
	defaultBucketCount = 64 // power of two, required for cheap masking
	maxAliasHops        = 32
	defaultTempLimit    = 100_000
)

// Table is a hash of bucket lists plus an insertion-ordered list for stable
// iteration, linked to a parent/outer table (spec.md §3, §4.1).
type Table struct {
	buckets         [][]*Symbol
	mask            uint32
	order           []*Symbol
	Parent          *Table
	CaseInsensitive bool

	tempCounters map[string]int
}

// NewTable creates an empty table chained to parent (nil for a root table).
func NewTable(parent *Table, caseInsensitive bool) *Table {
	return &Table{
		buckets:         make([][]*Symbol, defaultBucketCount),
		mask:            defaultBucketCount - 1,
		Parent:          parent,
		CaseInsensitive: caseInsensitive,
		tempCounters:    make(map[string]int),
	}
}

func (t *Table) bucketFor(name string) []*Symbol {
	return t.buckets[symbolHash(name)&t.mask]
}

// Add inserts name as a new binding, or overrides an existing weak alias.
// Any other pre-existing, non-weak binding is a DuplicateError carrying the
// conflicting symbol (spec.md §4.1, §7 SymbolRedefinition).
func (t *Table) Add(name string, kind Kind, value any, userName string) (*Symbol, error) {
	idx := symbolHash(name) & t.mask
	for _, s := range t.buckets[idx] {
		if equalName(s.Name, name, t.CaseInsensitive) {
			if !s.IsWeakAlias() {
				return nil, &DuplicateError{Name: name, Existing: s}
			}
			// Override the weak alias in place so existing references to
			// *Symbol observe the new binding.
			s.Kind = kind
			s.Value = value
			if userName != "" {
				s.UserName = userName
			}
			return s, nil
		}
	}

	sym := &Symbol{Name: name, UserName: userName, Kind: kind, Value: value}
	if sym.UserName == "" {
		sym.UserName = name
	}
	t.buckets[idx] = append(t.buckets[idx], sym)
	t.order = append(t.order, sym)
	return sym, nil
}

// AddWeakAlias installs name as a weak alias of target: a later call to Add
// with a non-weak kind silently replaces it (spec.md GLOSSARY "Weak alias").
func (t *Table) AddWeakAlias(name string, target *Symbol) (*Symbol, error) {
	return t.Add(name, KindWeakAlias, target, name)
}

// Find searches this table only (bucket search). forceCase, if given,
// overrides the table's own CaseInsensitive flag for this call (spec.md
// §4.1: "case sensitivity ... may be overridden per call").
func (t *Table) Find(name string, forceCase ...bool) *Symbol {
	insensitive := t.CaseInsensitive
	if len(forceCase) > 0 {
		insensitive = forceCase[0]
	}
	for _, s := range t.bucketFor(name) {
		if equalName(s.Name, name, insensitive) {
			return s
		}
	}
	return nil
}

// LookupChain walks to outer tables until name is found, then dereferences
// up to 32 alias hops and returns the final, non-alias binding (spec.md
// §4.1, §8). More than 32 hops is reported as AliasCycleError.
func (t *Table) LookupChain(name string) (*Symbol, error) {
	var found *Symbol
	for tbl := t; tbl != nil; tbl = tbl.Parent {
		if s := tbl.Find(name); s != nil {
			found = s
			break
		}
	}
	if found == nil {
		return nil, &UnknownError{Name: name}
	}
	hops := 0
	cur := found
	for cur.IsWeakAlias() {
		hops++
		if hops > maxAliasHops {
			return nil, &AliasCycleError{Name: name, Hops: hops}
		}
		target, ok := cur.Value.(*Symbol)
		if !ok || target == nil {
			return nil, &UnknownError{Name: name, UserName: cur.UserName}
		}
		cur = target
	}
	return cur, nil
}

// FindByOffset performs a linear scan for a symbol of the given kind at the
// given offset. Looking for KindResult at offset 0 additionally probes
// KindParameter then KindLocal, emulating Spin's aliased return-value
// convention (spec.md §4.1, §8; original_source/symbol.c).
func (t *Table) FindByOffset(offset int, kind Kind) *Symbol {
	if s := t.findByOffsetExact(offset, kind); s != nil {
		return s
	}
	if kind == KindResult && offset == 0 {
		if s := t.findByOffsetExact(offset, KindParameter); s != nil {
			return s
		}
		if s := t.findByOffsetExact(offset, KindLocal); s != nil {
			return s
		}
	}
	return nil
}

func (t *Table) findByOffsetExact(offset int, kind Kind) *Symbol {
	for _, s := range t.order {
		if s.Kind == kind && s.Offset == offset {
			return s
		}
	}
	return nil
}

// Iterate performs ordered traversal via the insertion list, stopping early
// if fn returns false.
func (t *Table) Iterate(fn func(*Symbol) bool) {
	for _, s := range t.order {
		if !fn(s) {
			return
		}
	}
}

// Len returns the number of symbols directly bound in this table.
func (t *Table) Len() int { return len(t.order) }

// Namespace idempotently returns the nested table stored under a
// KindNamespace symbol; it creates one on first access (spec.md §4.1).
func (t *Table) Namespace(name string) *Table {
	if s := t.Find(name); s != nil && s.Kind == KindNamespace {
		return s.Value.(*Table)
	}
	nested := NewTable(t, t.CaseInsensitive)
	sym, err := t.Add(name, KindNamespace, nested, name)
	if err != nil {
		// A non-namespace symbol already owns this name; surface the
		// existing nested table if there somehow is one, else return a
		// fresh, unlinked table (no error is reported) so callers don't
		// panic.
		if existing, ok := err.(*DuplicateError); ok && existing.Existing.Kind == KindNamespace {
			return existing.Existing.Value.(*Table)
		}
		return nested
	}
	_ = sym
	return nested
}

// NewTemp mints a temporary name as "prefix_NNNN" using a per-prefix
// rolling counter. Compilation aborts (via TempOverflowError) once the
// counter for a prefix exceeds defaultTempLimit (spec.md §4.1, §5, §7).
func (t *Table) NewTemp(prefix string) (string, error) {
	root := t
	for root.Parent != nil {
		root = root.Parent
	}
	n := root.tempCounters[prefix]
	if n >= defaultTempLimit {
		return "", &TempOverflowError{Prefix: prefix, Limit: defaultTempLimit}
	}
	root.tempCounters[prefix] = n + 1
	return tempName(prefix, n), nil
}

func tempName(prefix string, n int) string {
	const digits = "0123456789"
	buf := make([]byte, 0, len(prefix)+6)
	buf = append(buf, prefix...)
	buf = append(buf, '_')
	// Zero-padded to 4 digits, matching spec.md's "prefix_NNNN" shape.
	d := [4]byte{}
	v := n
	for i := 3; i >= 0; i-- {
		d[i] = digits[v%10]
		v /= 10
	}
	if v > 0 {
		// Counter exceeded 4 digits; fall back to its natural width rather
		// than truncating the value.
		return prefix + "_" + itoa(n)
	}
	buf = append(buf, d[:]...)
	return string(buf)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var b [20]byte
	i := len(b)
	for n > 0 {
		i--
		b[i] = byte('0' + n%10)
		n /= 10
	}
	return string(b[i:])
}
