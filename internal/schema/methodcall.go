package schema

import "strings"

// MethodPointer identifies a method declaration: owning class, name, and
// JVM descriptor. It never carries argument schemas; MethodCall does.
type MethodPointer struct {
	ClassName  string
	Name       string
	Descriptor string
}

func (p MethodPointer) String() string {
	return p.ClassName + "." + p.Name + p.Descriptor
}

// MethodCall is a MethodPointer plus its erased argument schemas and the
// branch-scope override flag. Equality uses structural equality of
// all components after stripping any attached NBT information from the
// arguments; callers are responsible for erasing before constructing one,
// since this package has no notion of the bytecode value domain.
type MethodCall struct {
	Pointer          MethodPointer
	ErasedArgs       []string // already-erased descriptor strings, one per argument
	OverrideOptional bool
}

// Key returns a value suitable for use as a map key (MethodCall itself is
// not comparable when ErasedArgs is a slice).
func (c MethodCall) Key() string {
	var b strings.Builder
	b.WriteString(c.Pointer.String())
	b.WriteByte('|')
	for i, a := range c.ErasedArgs {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(a)
	}
	if c.OverrideOptional {
		b.WriteString("|override")
	}
	return b.String()
}

// BaseName derives the naming pass's seed name from the call identity:
// the simple (unqualified) class name joined with the method's own name,
// e.g. "a/b/SignBlockEntity" + "writeNbt" -> "SignBlockEntity_writeNbt".
func (c MethodCall) BaseName() string {
	cls := c.Pointer.ClassName
	if i := strings.LastIndexByte(cls, '/'); i >= 0 {
		cls = cls[i+1:]
	}
	return cls + "_" + c.Pointer.Name
}
