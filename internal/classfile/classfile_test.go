package classfile

import "testing"

func TestAccessFlagsIs(t *testing.T) {
	f := AccPublic | AccStatic
	if !f.Is(AccPublic) {
		t.Errorf("expected AccPublic to be set")
	}
	if !f.Is(AccStatic) {
		t.Errorf("expected AccStatic to be set")
	}
	if f.Is(AccFinal) {
		t.Errorf("did not expect AccFinal to be set")
	}
}

func TestMethodIsStaticAndAbstract(t *testing.T) {
	cases := []struct {
		name   string
		m      Method
		static bool
		abs    bool
	}{
		{"plain", Method{AccessFlags: AccPublic}, false, false},
		{"static", Method{AccessFlags: AccPublic | AccStatic}, true, false},
		{"abstract", Method{AccessFlags: AccPublic | AccAbstract}, false, true},
	}
	for _, c := range cases {
		if got := c.m.IsStatic(); got != c.static {
			t.Errorf("%s: IsStatic() = %v, want %v", c.name, got, c.static)
		}
		if got := c.m.IsAbstract(); got != c.abs {
			t.Errorf("%s: IsAbstract() = %v, want %v", c.name, got, c.abs)
		}
	}
}

func TestFindMethodDoesNotSearchSuperclass(t *testing.T) {
	cf := &ClassFile{
		Name:      "a/B",
		SuperName: "a/A",
		Methods: []Method{
			{Name: "writeNbt", Descriptor: "(La/Compound;)La/Compound;"},
		},
	}

	if _, ok := cf.FindMethod("writeNbt", "(La/Compound;)La/Compound;"); !ok {
		t.Fatalf("expected to find the declared method")
	}
	if _, ok := cf.FindMethod("writeNbt", "(La/Compound;)V"); ok {
		t.Errorf("did not expect a descriptor mismatch to match")
	}
	if _, ok := cf.FindMethod("readNbt", "(La/Compound;)V"); ok {
		t.Errorf("did not expect an inherited/undeclared method to be found")
	}
}
