// Package schema implements the sum-type schema algebra: NbtElement and its
// merge/encompass/clone operations, plus the Compound container the
// interpreter mutates as it records writes. It has no knowledge of bytecode
// or the JVM; it is pure data plus the lattice operations over it.
package schema

// NbtElement is the tagged union describing an inferred NBT shape. Each
// variant is its own struct implementing the marker method, following the
// same sum-type-as-interface shape the rest of this codebase's ancestry
// uses for its own type system.
type NbtElement interface {
	nbtElement()
	// Equal reports structural equality, used by the naming pass's
	// structural-dedup registry and by merge's same-shape checks.
	Equal(other NbtElement) bool
}

// PrimitiveKind enumerates the plain primitive leaf tags.
type PrimitiveKind int

const (
	KindByte PrimitiveKind = iota
	KindShort
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindString
	KindByteArray
	KindIntArray
	KindLongArray
)

func (k PrimitiveKind) String() string {
	switch k {
	case KindByte:
		return "Byte"
	case KindShort:
		return "Short"
	case KindInt:
		return "Int"
	case KindLong:
		return "Long"
	case KindFloat:
		return "Float"
	case KindDouble:
		return "Double"
	case KindString:
		return "String"
	case KindByteArray:
		return "ByteArray"
	case KindIntArray:
		return "IntArray"
	case KindLongArray:
		return "LongArray"
	default:
		return "Unknown"
	}
}

// Any is the unknown/bottom element: merges absorb into the other side.
type Any struct{}

func (Any) nbtElement() {}
func (a Any) Equal(other NbtElement) bool {
	_, ok := other.(Any)
	return ok
}

// Primitive is one of the plain leaf tags, excluding Uuid/Boolean, which
// get their own variants since they serialize differently than they read.
type Primitive struct {
	Kind PrimitiveKind
}

func (Primitive) nbtElement() {}
func (p Primitive) Equal(other NbtElement) bool {
	o, ok := other.(Primitive)
	return ok && o.Kind == p.Kind
}

// Uuid is a primitive leaf that serializes on disk as an IntArray.
type Uuid struct{}

func (Uuid) nbtElement() {}
func (u Uuid) Equal(other NbtElement) bool {
	_, ok := other.(Uuid)
	return ok
}

// Boolean is a primitive leaf that serializes on disk as a Byte.
type Boolean struct{}

func (Boolean) nbtElement() {}
func (b Boolean) Equal(other NbtElement) bool {
	_, ok := other.(Boolean)
	return ok
}

// List is a homogeneous list; Inner merges across adds to the same list.
type List struct {
	Inner NbtElement
}

func (List) nbtElement() {}
func (l List) Equal(other NbtElement) bool {
	o, ok := other.(List)
	return ok && l.Inner.Equal(o.Inner)
}

// Either is a disjoint union produced by value-level branching. A merge
// never nests an Either directly inside another Either; merges combine
// pairwise on sides instead.
type Either struct {
	Left, Right NbtElement
}

func (Either) nbtElement() {}
func (e Either) Equal(other NbtElement) bool {
	o, ok := other.(Either)
	return ok && e.Left.Equal(o.Left) && e.Right.Equal(o.Right)
}

// AnyCompound is a compound with statically unknown keys, all sharing
// ValueType. It is strictly less informative than a Compound; merging the
// two yields the Compound.
type AnyCompound struct {
	ValueType NbtElement
}

func (AnyCompound) nbtElement() {}
func (a AnyCompound) Equal(other NbtElement) bool {
	o, ok := other.(AnyCompound)
	return ok && a.ValueType.Equal(o.ValueType)
}

// Boxed is a back-reference to an enclosing compound by registered type
// name, inserted only where the memoizer detects a recursion cycle.
type Boxed struct {
	Name string
}

func (Boxed) nbtElement() {}
func (b Boxed) Equal(other NbtElement) bool {
	o, ok := other.(Boxed)
	return ok && o.Name == b.Name
}

// NestedEntity is a pinned back-reference to the polymorphic Entity root,
// used only for the entity-as-passenger recursion.
type NestedEntity struct{}

func (NestedEntity) nbtElement() {}
func (NestedEntity) Equal(other NbtElement) bool {
	_, ok := other.(NestedEntity)
	return ok
}

// Named is the rewritten form the naming pass produces, pointing at a
// compound definition registered by name rather than inlining it.
type Named struct {
	Name string
}

func (Named) nbtElement() {}
func (n Named) Equal(other NbtElement) bool {
	o, ok := other.(Named)
	return ok && o.Name == n.Name
}
