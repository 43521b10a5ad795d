package schema

import "testing"

func intPrim() NbtElement { return Primitive{Kind: KindInt} }
func strPrim() NbtElement { return Primitive{Kind: KindString} }

func TestMergeAnyAbsorbs(t *testing.T) {
	got, err := Merge(Any{}, intPrim(), SameDataSet)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(intPrim()) {
		t.Errorf("Merge(Any, Int) = %v, want Int", got)
	}

	got, err = Merge(intPrim(), Any{}, SameDataSet)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(intPrim()) {
		t.Errorf("Merge(Int, Any) = %v, want Int", got)
	}
}

func TestMergeSamePrimitive(t *testing.T) {
	got, err := Merge(intPrim(), intPrim(), SameDataSet)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(intPrim()) {
		t.Errorf("Merge(Int, Int) = %v, want Int", got)
	}
}

func TestMergeIncompatiblePrimitivesFails(t *testing.T) {
	if _, err := Merge(intPrim(), strPrim(), SameDataSet); err == nil {
		t.Fatalf("expected IncompatibleMergeError, got nil")
	} else if _, ok := err.(*IncompatibleMergeError); !ok {
		t.Errorf("expected *IncompatibleMergeError, got %T", err)
	}
}

func TestMergeLists(t *testing.T) {
	l1 := List{Inner: Any{}}
	l2 := List{Inner: intPrim()}
	got, err := Merge(l1, l2, SameDataSet)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	list, ok := got.(List)
	if !ok || !list.Inner.Equal(intPrim()) {
		t.Errorf("Merge(List(Any), List(Int)) = %v, want List(Int)", got)
	}
}

func TestMergeBoxedSameName(t *testing.T) {
	got, err := Merge(Boxed{Name: "A"}, Boxed{Name: "A"}, SameDataSet)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(Boxed{Name: "A"}) {
		t.Errorf("Merge(Boxed(A), Boxed(A)) = %v, want Boxed(A)", got)
	}
}

func TestMergeBoxedDifferentNameFails(t *testing.T) {
	if _, err := Merge(Boxed{Name: "A"}, Boxed{Name: "B"}, SameDataSet); err == nil {
		t.Fatalf("expected IncompatibleMergeError, got nil")
	}
}

func TestMergeAnyCompoundWithCompoundWins(t *testing.T) {
	c := NewCompound()
	_ = c.Put("x", intPrim(), false)
	got, err := Merge(AnyCompound{ValueType: strPrim()}, c, SameDataSet)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != NbtElement(c) {
		t.Errorf("Merge(AnyCompound, Compound) should return the Compound unchanged")
	}
}

// Two branches of one if/else writing the same key with
// SameDataSet optionality cancel out via XOR.
func TestEntryMergeXORCancelsOptionality(t *testing.T) {
	c := NewCompound()
	if err := c.Put("k", intPrim(), true); err != nil {
		t.Fatalf("first put: %v", err)
	}
	if err := c.Put("k", intPrim(), true); err != nil {
		t.Fatalf("second put: %v", err)
	}
	e, ok := c.Get("k")
	if !ok {
		t.Fatalf("key k missing")
	}
	if e.Optional {
		t.Errorf("expected k to become non-optional after XOR of two optional writes, got optional=true")
	}
}

func TestEntryMergeDifferentDataSetORs(t *testing.T) {
	c := NewCompound()
	if err := c.MergeEntry("k", intPrim(), false, DifferentDataSet); err != nil {
		t.Fatalf("first merge: %v", err)
	}
	if err := c.MergeEntry("k", intPrim(), true, DifferentDataSet); err != nil {
		t.Fatalf("second merge: %v", err)
	}
	e, _ := c.Get("k")
	if !e.Optional {
		t.Errorf("expected DifferentDataSet OR to leave k optional, got false")
	}
}

func TestEncompassIdempotent(t *testing.T) {
	cases := []NbtElement{
		Any{},
		intPrim(),
		List{Inner: strPrim()},
		Uuid{},
		Boolean{},
	}
	for _, c := range cases {
		got := Encompass(c, c)
		if !got.Equal(c) {
			t.Errorf("Encompass(%v, %v) = %v, want idempotent %v", c, c, got, c)
		}
	}
}

func TestEncompassDifferentPrimitivesYieldsAny(t *testing.T) {
	got := Encompass(intPrim(), strPrim())
	if _, ok := got.(Any); !ok {
		t.Errorf("Encompass(Int, String) = %v, want Any", got)
	}
}

func TestEncompassCompoundCollapsesToAnyCompound(t *testing.T) {
	c := NewCompound()
	_ = c.Put("a", intPrim(), false)
	_ = c.Put("b", intPrim(), false)
	got := Encompass(c, strPrim())
	ac, ok := got.(AnyCompound)
	if !ok {
		t.Fatalf("Encompass(Compound, String) = %T, want AnyCompound", got)
	}
	if _, isAny := ac.ValueType.(Any); !isAny {
		t.Errorf("expected folded value type to collapse to Any given Int entries vs String, got %v", ac.ValueType)
	}
}

func TestCloneDoesNotAlias(t *testing.T) {
	c := NewCompound()
	_ = c.Put("a", intPrim(), false)
	clone := c.Clone()
	if !clone.Equal(c) {
		t.Fatalf("clone should be structurally equal to original")
	}
	_ = clone.Put("b", strPrim(), false)
	if _, ok := c.Get("b"); ok {
		t.Errorf("mutating clone mutated the original compound")
	}
}
