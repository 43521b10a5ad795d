package symval

import (
	"testing"

	"github.com/nbtschema/inferencer/internal/schema"
)

func TestStringWithValueRoundTrip(t *testing.T) {
	v := StringWithValue("hello")
	got, ok := v.StringValue()
	if !ok || got != "hello" {
		t.Errorf("StringValue() = (%q, %v), want (\"hello\", true)", got, ok)
	}
	if Erase(v) != "Ljava/lang/String;" {
		t.Errorf("Erase(StringWithValue) = %q, want the plain String descriptor", Erase(v))
	}
}

func TestStringArraySlotTracking(t *testing.T) {
	arr := StringArrayWithValues(3)
	arr = arr.WithSlotSet(1, "middle")
	known := arr.KnownStrings()
	if len(known) != 1 || known[0] != "middle" {
		t.Errorf("KnownStrings() = %v, want [\"middle\"]", known)
	}
	if len(arr.Slots()) != 3 {
		t.Errorf("Slots() length = %d, want 3", len(arr.Slots()))
	}
}

func TestEnsureTypedIsIdempotent(t *testing.T) {
	plain := Plain("Lnet/minecraft/nbt/NbtCompound;", "net/minecraft/nbt/NbtCompound")
	typed := EnsureTyped(plain, schema.NewCompound())
	again := EnsureTyped(typed, schema.NewCompound())
	tag1, _ := typed.AsTypedTag()
	tag2, _ := again.AsTypedTag()
	if tag1 != tag2 {
		t.Errorf("EnsureTyped on an already-typed cell replaced the tag instead of passing through")
	}
}

func TestForLocalsOrStackCollapsesNarrowTypes(t *testing.T) {
	for _, d := range []string{"Z", "C", "B", "S"} {
		v := Plain(d, "")
		got := ForLocalsOrStack(v)
		if got.Descriptor != "I" {
			t.Errorf("ForLocalsOrStack(%s) = %s, want I", d, got.Descriptor)
		}
	}
	wide := Plain("J", "")
	if ForLocalsOrStack(wide).Descriptor != "J" {
		t.Errorf("ForLocalsOrStack should leave wide/object descriptors untouched")
	}
}

func TestRaiseOptionalUntilOnlyIncreases(t *testing.T) {
	v := NewTypedTag("Lnet/minecraft/nbt/NbtCompound;", "net/minecraft/nbt/NbtCompound", schema.NewCompound())
	v = RaiseOptionalUntil(v, 10)
	tag, _ := v.AsTypedTag()
	if tag.OptionalUntil != 10 {
		t.Fatalf("OptionalUntil = %d, want 10", tag.OptionalUntil)
	}
	v = RaiseOptionalUntil(v, 3)
	tag, _ = v.AsTypedTag()
	if tag.OptionalUntil != 10 {
		t.Errorf("RaiseOptionalUntil should never lower the threshold, got %d", tag.OptionalUntil)
	}
}
