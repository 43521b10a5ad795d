// Package symval models the frame cells of the symbolic interpreter: plain
// JVM descriptors enriched, where the interpreter has learned something
// useful, with an enriched variant (known string constants,
// known int constants, string arrays with tracked slots, lambda closures,
// and NBT-typed tags). It has no knowledge of bytecode opcodes; it is the
// value domain the interpreter's frame is built from.
package symval

import "github.com/nbtschema/inferencer/internal/schema"

// Kind selects which enrichment, if any, a Value carries. A Value always
// carries a plain Descriptor regardless of Kind, so the frame can always
// fall back to ordinary JVM type tracking.
type Kind uint8

const (
	// KindPlain is an ordinary, unenriched frame cell: an int, a long, a
	// float/double, or an object reference with no extra static info.
	KindPlain Kind = iota
	KindStringWithValue
	KindIntWithValue
	KindStringArrayWithValues
	KindStringFromArray
	KindLambdaValue
	KindTypedTag
)

// Value is a stack/local cell in the interpreter's frame: a tagged union
// following the same struct-with-discriminant shape used elsewhere in this
// codebase's value representations, sized to avoid boxing the common case.
type Value struct {
	Kind Kind

	// Descriptor is the plain JVM type descriptor this cell would carry
	// with no enrichment at all (e.g. "I", "Ljava/lang/String;",
	// "Lnet/minecraft/nbt/NbtCompound;"). Always populated.
	Descriptor string

	// ClassName is the internal class name for reference-typed cells,
	// used by virtual dispatch resolution; empty for primitives.
	ClassName string

	str    string
	ival   int64
	slots  *slotStorage // StringArrayWithValues / StringFromArray backing slots
	lambda *Lambda
	tag    *TypedTag
}

// slotStorage is shared by every Value copy that references the same JVM
// array object, so a write through one alias (e.g. after DUP) is visible
// through all of them, matching real array-reference semantics.
type slotStorage struct {
	vals []*string
}

// Plain returns an unenriched cell for the given descriptor/class name.
func Plain(descriptor, className string) Value {
	return Value{Kind: KindPlain, Descriptor: descriptor, ClassName: className}
}

// StringWithValue returns a cell remembering a concrete constant string,
// as pushed by LDC of a String constant.
func StringWithValue(v string) Value {
	return Value{Kind: KindStringWithValue, Descriptor: "Ljava/lang/String;", str: v}
}

// StringValue returns the concrete string and whether the cell carries one.
func (v Value) StringValue() (string, bool) {
	if v.Kind == KindStringWithValue {
		return v.str, true
	}
	return "", false
}

// IntWithValue returns a cell remembering a concrete constant int, as
// pushed by ICONST_* and friends; used for small-array index tracking.
func IntWithValue(v int64) Value {
	return Value{Kind: KindIntWithValue, Descriptor: "I", ival: v}
}

// IntValue returns the concrete int and whether the cell carries one.
func (v Value) IntValue() (int64, bool) {
	if v.Kind == KindIntWithValue {
		return v.ival, true
	}
	return 0, false
}

// StringArrayWithValues returns a cell describing a String[] of the given
// length, with every slot initially unknown (nil).
func StringArrayWithValues(length int) Value {
	return Value{Kind: KindStringArrayWithValues, Descriptor: "[Ljava/lang/String;", slots: &slotStorage{vals: make([]*string, length)}}
}

// Slots returns the backing slot slice for StringArrayWithValues and
// StringFromArray cells, or nil otherwise.
func (v Value) Slots() []*string {
	if v.slots == nil {
		return nil
	}
	return v.slots.vals
}

// WithSlotSet writes s into slot i of the array's shared backing storage
// and returns v unchanged (same storage pointer, so every other Value
// aliasing this array observes the write too, matching a real JVM array
// reference). Out-of-range indices are a no-op.
func (v Value) WithSlotSet(i int, s string) Value {
	if v.Kind != KindStringArrayWithValues || v.slots == nil || i < 0 || i >= len(v.slots.vals) {
		return v
	}
	sc := s
	v.slots.vals[i] = &sc
	return v
}

// StringFromArray returns a cell meaning "one of these known, possibly
// partial, string values", propagated from reading an array at an unknown
// index. array must be a StringArrayWithValues cell;
// the resulting cell shares its backing storage, so later writes through
// the array are reflected in its known strings too.
func StringFromArray(array Value) Value {
	return Value{Kind: KindStringFromArray, Descriptor: "Ljava/lang/String;", slots: array.slots}
}

// KnownStrings returns the non-nil slot values of a StringFromArray or
// StringArrayWithValues cell.
func (v Value) KnownStrings() []string {
	if v.slots == nil {
		return nil
	}
	var out []string
	for _, s := range v.slots.vals {
		if s != nil {
			out = append(out, *s)
		}
	}
	return out
}

// Lambda is the backing static synthetic method and captured arguments of
// a functional-interface value synthesized at an INVOKEDYNAMIC site.
type Lambda struct {
	Delegate  schema.MethodPointer
	BoundArgs []Value
}

// LambdaValue returns a cell wrapping a functional-interface instance
// synthesized at an INVOKEDYNAMIC site.
func LambdaValue(delegate schema.MethodPointer, boundArgs []Value) Value {
	return Value{
		Kind:       KindLambdaValue,
		Descriptor: "Ljava/lang/Object;",
		lambda:     &Lambda{Delegate: delegate, BoundArgs: boundArgs},
	}
}

// AsLambda returns the lambda payload and whether the cell carries one.
func (v Value) AsLambda() (*Lambda, bool) {
	if v.Kind == KindLambdaValue {
		return v.lambda, true
	}
	return nil, false
}

// TypedTag carries statically inferred NBT through the frame. OptionalUntil
// is a program-counter threshold below which newly recorded writes
// through this tag are forced optional.
type TypedTag struct {
	Nbt           schema.NbtElement
	OptionalUntil int
}

// AlwaysOptional is the +∞ sentinel: every pc is below it, so every write
// recorded through a tag at this threshold is forced optional.
const AlwaysOptional = int(^uint(0) >> 1) // max int

// NewTypedTag wraps nbt in a fresh cell with no outstanding branch-scope
// obligation: optionalUntil starts at 0, so no pc is below it and nothing
// is forced optional until a branch instruction or overrideOptional call
// raises the threshold.
func NewTypedTag(descriptor, className string, nbt schema.NbtElement) Value {
	return Value{
		Kind:       KindTypedTag,
		Descriptor: descriptor,
		ClassName:  className,
		tag:        &TypedTag{Nbt: nbt, OptionalUntil: 0},
	}
}

// NewOverrideOptionalTag wraps nbt in a fresh cell that is
// unconditionally optional, used when a method runner is seeded under
// overrideOptional=true: lambda bodies called through ifPresent/forEach
// may not run at all.
func NewOverrideOptionalTag(descriptor, className string, nbt schema.NbtElement) Value {
	return Value{
		Kind:       KindTypedTag,
		Descriptor: descriptor,
		ClassName:  className,
		tag:        &TypedTag{Nbt: nbt, OptionalUntil: AlwaysOptional},
	}
}

// AsTypedTag returns the tag payload and whether the cell carries one.
func (v Value) AsTypedTag() (*TypedTag, bool) {
	if v.Kind == KindTypedTag {
		return v.tag, true
	}
	return nil, false
}

// WithTag returns a copy of v with its TypedTag payload replaced; v must
// already be a TypedTag cell.
func (v Value) WithTag(tag *TypedTag) Value {
	out := v
	out.tag = tag
	return out
}

// Erase strips all enrichment, returning the clean descriptor used to
// build a memoization key. It is invariant
// under whichever enriched variant a cell carries: only the JVM-level
// shape matters for memoization equality.
func Erase(v Value) string {
	return v.Descriptor
}
