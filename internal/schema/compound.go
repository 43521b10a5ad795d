package schema

// Entry is one field of a Compound: its inferred value type and whether
// every observed write to it was inside a branching construct.
type Entry struct {
	Value    NbtElement
	Optional bool
}

// Compound is a structured NBT compound. Before the naming pass,
// every compound position in the tree holds a live *Compound; the naming
// pass replaces them with Named, so *Compound never appears in the final
// emitted schema tree (only in the compoundTypes registry it feeds).
type Compound struct {
	// keys preserves insertion order for deterministic JSON output;
	// byKey gives O(1) lookup during interpretation.
	keys  []string
	byKey map[string]Entry

	// Name is the pre-naming identity: the MethodCall whose body produced
	// this compound, used by the naming pass to derive a human-readable
	// name. Nil for compounds synthesized without a clear originating call
	// (e.g. AnyCompound collapse intermediate states never reach here).
	Name *MethodCall

	// UnknownKeys, if non-nil, means the compound also admits arbitrary
	// extra keys of this value type.
	UnknownKeys NbtElement

	// Flattened lists sub-compounds (or Boxed back-references) whose
	// members must be inlined into this compound by the flatten pass.
	// Members are restricted to *Compound or Boxed.
	Flattened []NbtElement
}

// NewCompound returns an empty compound with no originating call identity.
func NewCompound() *Compound {
	return &Compound{byKey: make(map[string]Entry)}
}

func (*Compound) nbtElement() {}

// Equal is used by the naming pass's structural-dedup registry: two
// compounds are equal if their entries, unknown-keys channel, and
// flattened members are all pairwise equal. Name is identity metadata,
// not structure, and is excluded.
func (c *Compound) Equal(other NbtElement) bool {
	o, ok := other.(*Compound)
	if !ok {
		return false
	}
	if len(c.keys) != len(o.keys) {
		return false
	}
	for _, k := range c.keys {
		ce, cok := c.byKey[k]
		oe, ook := o.byKey[k]
		if !cok || !ook || ce.Optional != oe.Optional || !ce.Value.Equal(oe.Value) {
			return false
		}
	}
	switch {
	case c.UnknownKeys == nil && o.UnknownKeys != nil:
		return false
	case c.UnknownKeys != nil && o.UnknownKeys == nil:
		return false
	case c.UnknownKeys != nil && !c.UnknownKeys.Equal(o.UnknownKeys):
		return false
	}
	if len(c.Flattened) != len(o.Flattened) {
		return false
	}
	for i, f := range c.Flattened {
		if !f.Equal(o.Flattened[i]) {
			return false
		}
	}
	return true
}

// Keys returns the entry keys in insertion order.
func (c *Compound) Keys() []string { return c.keys }

// Get returns the entry for key and whether it is present.
func (c *Compound) Get(key string) (Entry, bool) {
	e, ok := c.byKey[key]
	return e, ok
}

// Put records (or merges, via SameDataSet) a write to key. A first write
// is recorded as-is; a repeat write to a key already present merges the
// two entries under the SameDataSet optionality rule.
func (c *Compound) Put(key string, value NbtElement, optional bool) error {
	existing, ok := c.byKey[key]
	if !ok {
		c.keys = append(c.keys, key)
		c.byKey[key] = Entry{Value: value, Optional: optional}
		return nil
	}
	merged, err := Merge(existing.Value, value, SameDataSet)
	if err != nil {
		return err
	}
	c.byKey[key] = Entry{Value: merged, Optional: existing.Optional != optional}
	return nil
}

// SetEntry installs a fully-formed Entry, bypassing Put's merge behavior:
// used by the memoizer's applyTo when assembling a delta entry whose
// optionality has already been decided (e.g. forced to true by the
// memoizer's clone-and-force-optional rule).
func (c *Compound) SetEntry(key string, e Entry) {
	if _, ok := c.byKey[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.byKey[key] = e
}

// MergeEntry merges value/optional into key using the given strategy,
// rather than always SameDataSet like Put does; used when folding
// DifferentDataSet return-path compounds together.
func (c *Compound) MergeEntry(key string, value NbtElement, optional bool, strategy MergeStrategy) error {
	existing, ok := c.byKey[key]
	if !ok {
		c.keys = append(c.keys, key)
		c.byKey[key] = Entry{Value: value, Optional: optional}
		return nil
	}
	merged, err := Merge(existing.Value, value, strategy)
	if err != nil {
		return err
	}
	var newOptional bool
	switch strategy {
	case SameDataSet:
		newOptional = existing.Optional != optional
	case DifferentDataSet:
		newOptional = existing.Optional || optional
	}
	c.byKey[key] = Entry{Value: merged, Optional: newOptional}
	return nil
}

// Clone deep-copies the compound so the caller and callee never alias
// mutable cells.
func (c *Compound) Clone() *Compound {
	if c == nil {
		return nil
	}
	out := &Compound{
		keys:  append([]string(nil), c.keys...),
		byKey: make(map[string]Entry, len(c.byKey)),
		Name:  c.Name,
	}
	for k, e := range c.byKey {
		out.byKey[k] = Entry{Value: Clone(e.Value), Optional: e.Optional}
	}
	if c.UnknownKeys != nil {
		out.UnknownKeys = Clone(c.UnknownKeys)
	}
	for _, f := range c.Flattened {
		out.Flattened = append(out.Flattened, Clone(f))
	}
	return out
}
