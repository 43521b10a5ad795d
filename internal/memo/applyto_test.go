package memo

import (
	"testing"

	"github.com/nbtschema/inferencer/internal/schema"
	"github.com/nbtschema/inferencer/internal/symval"
)

func TestApplyToAppendsCompoundDeltaToFlattened(t *testing.T) {
	delta := schema.NewCompound()
	if err := delta.Put("id", schema.Primitive{Kind: schema.KindLong}, false); err != nil {
		t.Fatalf("Put: %v", err)
	}
	res := &CallResult{ArgsNbt: []schema.NbtElement{delta}, ReturnNbt: schema.Any{}}

	live := schema.NewCompound()
	actual := symval.NewTypedTag("Lt/Compound;", "t/Compound", live)

	if err := res.ApplyTo([]symval.Value{actual}, 0); err != nil {
		t.Fatalf("ApplyTo: %v", err)
	}
	if len(live.Flattened) != 1 {
		t.Fatalf("expected one flattened delta, got %d", len(live.Flattened))
	}
	member, ok := live.Flattened[0].(*schema.Compound)
	if !ok {
		t.Fatalf("expected a *schema.Compound member, got %T", live.Flattened[0])
	}
	e, ok := member.Get("id")
	if !ok || e.Optional {
		t.Errorf("expected the delta to carry id non-optional, got %+v ok=%v", e, ok)
	}
}

// A caller still inside a branch scope receives the delta cloned with
// every entry forced optional, leaving the cached delta untouched for
// other call sites.
func TestApplyToForcesOptionalInsideBranchScope(t *testing.T) {
	delta := schema.NewCompound()
	if err := delta.Put("id", schema.Primitive{Kind: schema.KindLong}, false); err != nil {
		t.Fatalf("Put: %v", err)
	}
	res := &CallResult{ArgsNbt: []schema.NbtElement{delta}, ReturnNbt: schema.Any{}}

	live := schema.NewCompound()
	actual := symval.NewTypedTag("Lt/Compound;", "t/Compound", live)
	actual = symval.RaiseOptionalUntil(actual, 100)

	if err := res.ApplyTo([]symval.Value{actual}, 10); err != nil {
		t.Fatalf("ApplyTo: %v", err)
	}
	member := live.Flattened[0].(*schema.Compound)
	if member == delta {
		t.Fatalf("expected a clone inside a branch scope, got the cached delta itself")
	}
	e, _ := member.Get("id")
	if !e.Optional {
		t.Errorf("expected the cloned delta's entry to be forced optional")
	}
	orig, _ := delta.Get("id")
	if orig.Optional {
		t.Errorf("the cached delta must stay untouched for other call sites")
	}
}

func TestApplyToMergesListDeltaThroughSharedTag(t *testing.T) {
	res := &CallResult{
		ArgsNbt:   []schema.NbtElement{schema.List{Inner: schema.Primitive{Kind: schema.KindInt}}},
		ReturnNbt: schema.Any{},
	}

	actual := symval.NewTypedTag("Lt/List;", "t/List", schema.List{Inner: schema.Any{}})
	alias := actual // a second frame cell sharing the same tag

	if err := res.ApplyTo([]symval.Value{actual}, 0); err != nil {
		t.Fatalf("ApplyTo: %v", err)
	}
	tag, _ := alias.AsTypedTag()
	list, ok := tag.Nbt.(schema.List)
	if !ok {
		t.Fatalf("expected the shared tag to still hold a List, got %T", tag.Nbt)
	}
	if !list.Inner.Equal(schema.Primitive{Kind: schema.KindInt}) {
		t.Errorf("expected the list delta to land through the shared tag, got %v", list.Inner)
	}
}
