package postproc

import (
	"testing"

	"github.com/nbtschema/inferencer/internal/schema"
)

func TestNameRootCollapsesSingleFlattenedMember(t *testing.T) {
	root := schema.NewCompound()

	member := compound(nil)
	member.Put("x", schema.Primitive{Kind: schema.KindInt}, false)

	holder := compound(nil) // no entries, no unknownKeys, exactly one flattened member
	holder.Flattened = append(holder.Flattened, member)
	root.Put("a", holder, false)

	reg := NewRegistry()
	if err := reg.NameRoot(root, fakeBoxChecker{}); err != nil {
		t.Fatalf("NameRoot: %v", err)
	}

	entry, _ := root.Get("a")
	named, ok := entry.Value.(schema.Named)
	if !ok {
		t.Fatalf("expected the single-flattened-member holder to collapse to member's own Named form, got %T", entry.Value)
	}
	if len(reg.Rows()) != 1 {
		t.Fatalf("expected exactly one registered compound (member, not holder), got %d", len(reg.Rows()))
	}
	if reg.Rows()[0].Name != named.Name {
		t.Errorf("registered row name %q does not match the Named reference %q", reg.Rows()[0].Name, named.Name)
	}
}

func TestNameRootDedupsStructurallyIdenticalCompounds(t *testing.T) {
	root := schema.NewCompound()

	a := compound(nil)
	a.Put("x", schema.Primitive{Kind: schema.KindInt}, false)
	b := compound(nil)
	b.Put("x", schema.Primitive{Kind: schema.KindInt}, false)

	root.Put("a", a, false)
	root.Put("b", b, false)

	reg := NewRegistry()
	if err := reg.NameRoot(root, fakeBoxChecker{}); err != nil {
		t.Fatalf("NameRoot: %v", err)
	}

	ea, _ := root.Get("a")
	eb, _ := root.Get("b")
	na := ea.Value.(schema.Named)
	nb := eb.Value.(schema.Named)
	if na.Name != nb.Name {
		t.Errorf("expected structurally identical compounds to share a name, got %q and %q", na.Name, nb.Name)
	}
	if len(reg.Rows()) != 1 {
		t.Errorf("expected deduplication to a single registry row, got %d", len(reg.Rows()))
	}
}

func TestNameRootEmptyCompoundBecomesAnyCompound(t *testing.T) {
	root := schema.NewCompound()
	empty := compound(nil)
	root.Put("a", empty, false)

	reg := NewRegistry()
	if err := reg.NameRoot(root, fakeBoxChecker{}); err != nil {
		t.Fatalf("NameRoot: %v", err)
	}

	entry, _ := root.Get("a")
	if _, ok := entry.Value.(schema.AnyCompound); !ok {
		t.Errorf("expected an empty compound with no children to become AnyCompound, got %T", entry.Value)
	}
}

func TestNameRootBoxedGetsForcedName(t *testing.T) {
	call := schema.MethodCall{Pointer: schema.MethodPointer{ClassName: "t/Foo", Name: "save", Descriptor: "(Lt/Compound;)V"}}
	root := schema.NewCompound()

	recursive := compound(&call)
	recursive.Put("x", schema.Primitive{Kind: schema.KindInt}, false)
	recursive.Flattened = append(recursive.Flattened, schema.Boxed{Name: call.BaseName()})
	root.Put("a", recursive, false)

	boxed := fakeBoxChecker{call.Key(): true}
	reg := NewRegistry()
	if err := reg.NameRoot(root, boxed); err != nil {
		t.Fatalf("NameRoot: %v", err)
	}

	entry, _ := root.Get("a")
	named, ok := entry.Value.(schema.Named)
	if !ok {
		t.Fatalf("expected a to become Named, got %T", entry.Value)
	}
	if named.Name != call.BaseName() {
		t.Errorf("expected the forced name %q to match the call's BaseName, got %q", call.BaseName(), named.Name)
	}
}

func TestNameRootNeverReplacesTheRootItself(t *testing.T) {
	root := schema.NewCompound()
	root.Put("a", schema.Primitive{Kind: schema.KindInt}, false)

	reg := NewRegistry()
	if err := reg.NameRoot(root, fakeBoxChecker{}); err != nil {
		t.Fatalf("NameRoot: %v", err)
	}
	if _, ok := root.Get("a"); !ok {
		t.Fatalf("root's own entries should be untouched by NameRoot besides naming children")
	}
	if len(reg.Rows()) != 0 {
		t.Errorf("a root with only primitive entries should register nothing, got %d rows", len(reg.Rows()))
	}
}
