package postproc

import (
	"testing"

	"github.com/nbtschema/inferencer/internal/schema"
)

type fakeBoxChecker map[string]bool

func (f fakeBoxChecker) IsBoxed(call schema.MethodCall) bool { return f[call.Key()] }

func compound(name *schema.MethodCall) *schema.Compound {
	c := schema.NewCompound()
	c.Name = name
	return c
}

func TestFlattenInlinesNonRecursiveMember(t *testing.T) {
	parent := compound(nil)
	parent.Put("a", schema.Primitive{Kind: schema.KindInt}, false)

	child := compound(nil)
	child.Put("b", schema.Primitive{Kind: schema.KindString}, false)
	parent.Flattened = append(parent.Flattened, child)

	if err := Flatten(parent, fakeBoxChecker{}); err != nil {
		t.Fatalf("Flatten: %v", err)
	}

	if len(parent.Flattened) != 0 {
		t.Errorf("expected the child to be inlined and dropped, got %d flattened members", len(parent.Flattened))
	}
	entry, ok := parent.Get("b")
	if !ok {
		t.Fatalf("expected key b to be merged into parent")
	}
	if _, ok := entry.Value.(schema.Primitive); !ok {
		t.Errorf("expected b to be a primitive, got %T", entry.Value)
	}
}

func TestFlattenKeepsBoxedCriticalMember(t *testing.T) {
	call := schema.MethodCall{Pointer: schema.MethodPointer{ClassName: "t/Foo", Name: "save", Descriptor: "(Lt/Compound;)V"}}
	parent := compound(nil)
	parent.Put("a", schema.Primitive{Kind: schema.KindInt}, false)

	child := compound(&call)
	child.Put("b", schema.Primitive{Kind: schema.KindString}, false)
	parent.Flattened = append(parent.Flattened, child)

	boxed := fakeBoxChecker{call.Key(): true}
	if err := Flatten(parent, boxed); err != nil {
		t.Fatalf("Flatten: %v", err)
	}

	if len(parent.Flattened) != 1 {
		t.Fatalf("expected the recursion-critical member to survive, got %d", len(parent.Flattened))
	}
	if _, ok := parent.Get("b"); ok {
		t.Errorf("recursion-critical member's fields should not be inlined into the parent")
	}
}

func TestFlattenKeepsBoxedReferenceUntouched(t *testing.T) {
	parent := compound(nil)
	parent.Flattened = append(parent.Flattened, schema.Boxed{Name: "Foo_save"})

	if err := Flatten(parent, fakeBoxChecker{}); err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	if len(parent.Flattened) != 1 {
		t.Fatalf("expected Boxed member to survive untouched, got %d", len(parent.Flattened))
	}
	if _, ok := parent.Flattened[0].(schema.Boxed); !ok {
		t.Errorf("expected a Boxed member, got %T", parent.Flattened[0])
	}
}

func TestFlattenDescendsBeforeRewriting(t *testing.T) {
	grandchild := compound(nil)
	grandchild.Put("c", schema.Primitive{Kind: schema.KindLong}, false)

	child := compound(nil)
	child.Put("b", schema.Primitive{Kind: schema.KindString}, false)
	child.Flattened = append(child.Flattened, grandchild)

	parent := compound(nil)
	parent.Flattened = append(parent.Flattened, child)

	if err := Flatten(parent, fakeBoxChecker{}); err != nil {
		t.Fatalf("Flatten: %v", err)
	}

	if len(parent.Flattened) != 0 {
		t.Fatalf("expected full inlining through two levels, got %d flattened members", len(parent.Flattened))
	}
	if _, ok := parent.Get("b"); !ok {
		t.Errorf("expected b to be inlined")
	}
	if _, ok := parent.Get("c"); !ok {
		t.Errorf("expected grandchild's c to be inlined transitively")
	}
}
