package symval

import "github.com/nbtschema/inferencer/internal/schema"

// EnsureTyped wraps a plain (or differently-enriched) cell carrying an NBT
// reference type so it becomes a TypedTag, ready to participate in a
// recorded write. Cells that already carry a TypedTag pass through
// unchanged so repeated wraps are idempotent.
func EnsureTyped(v Value, seed schema.NbtElement) Value {
	if v.Kind == KindTypedTag {
		return v
	}
	return NewTypedTag(v.Descriptor, v.ClassName, seed)
}

// ForLocalsOrStack collapses the narrow integer-family descriptors
// (boolean, char, byte, short) to "I" when placing a value into the
// frame, matching stack-based bytecode's width rules: the JVM operand
// stack and local variable slots only ever hold int-width cells for these
// types.
func ForLocalsOrStack(v Value) Value {
	switch v.Descriptor {
	case "Z", "C", "B", "S":
		out := v
		out.Descriptor = "I"
		return out
	default:
		return v
	}
}

// RaiseOptionalUntil raises a TypedTag's optionality scope boundary to at
// least target, used when a branch instruction snapshots the frame at its
// target pc. No-op for non-TypedTag cells.
func RaiseOptionalUntil(v Value, target int) Value {
	tag, ok := v.AsTypedTag()
	if !ok {
		return v
	}
	if target > tag.OptionalUntil {
		newTag := &TypedTag{Nbt: tag.Nbt, OptionalUntil: target}
		return v.WithTag(newTag)
	}
	return v
}
