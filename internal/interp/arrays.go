package interp

import "github.com/nbtschema/inferencer/internal/symval"

// execArrayLoad implements AALOAD tracking for String arrays backed by
// StringArrayWithValues; every other array-load opcode pushes a plain
// descriptor since no other element kind feeds NBT inference.
func (r *Runner) execArrayLoad(ctx *execCtx, op byte) error {
	idx := ctx.f.pop()
	arr := ctx.f.pop()
	if op != opAaload {
		ctx.f.push(symval.Plain(primitiveArrayElemDescriptor(op), ""))
		return nil
	}
	if arr.Kind == symval.KindStringArrayWithValues {
		slots := arr.Slots()
		if iv, ok := idx.IntValue(); ok && iv >= 0 && int(iv) < len(slots) {
			if slots[iv] != nil {
				ctx.f.push(symval.StringWithValue(*slots[iv]))
				return nil
			}
		}
		ctx.f.push(symval.StringFromArray(arr))
		return nil
	}
	ctx.f.push(symval.Plain("Ljava/lang/Object;", ""))
	return nil
}

// execArrayStore implements AASTORE tracking: updates the shared
// slot storage for a known (index, StringWithValue) pair; any other
// combination falls back to leaving the array untouched (the generic
// descriptor-only fallback).
func (r *Runner) execArrayStore(ctx *execCtx, op byte) error {
	if op != opAastore {
		ctx.f.popN(3)
		return nil
	}
	val := ctx.f.pop()
	idx := ctx.f.pop()
	arr := ctx.f.pop()
	if arr.Kind != symval.KindStringArrayWithValues {
		return nil
	}
	iv, okIdx := idx.IntValue()
	sv, okStr := val.StringValue()
	if okIdx && okStr {
		arr.WithSlotSet(int(iv), sv)
	}
	return nil
}

func (r *Runner) execAnewarray(ctx *execCtx, c *cursor) error {
	idx, err := c.u2()
	if err != nil {
		return err
	}
	cls := ctx.pool.ClassNameAt(idx)
	count := ctx.f.pop()
	if cls == "java/lang/String" {
		if n, ok := count.IntValue(); ok && n >= 0 {
			ctx.f.push(symval.StringArrayWithValues(int(n)))
			return nil
		}
	}
	ctx.f.push(symval.Plain("[L"+cls+";", cls))
	return nil
}

func primitiveArrayElemDescriptor(op byte) string {
	switch op {
	case opIaload:
		return "I"
	case opLaload:
		return "J"
	case opFaload:
		return "F"
	case opDaload:
		return "D"
	case opBaload:
		return "B"
	case opCaload:
		return "C"
	case opSaload:
		return "S"
	default:
		return "I"
	}
}
