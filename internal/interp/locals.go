package interp

import (
	"github.com/nbtschema/inferencer/internal/schema"
	"github.com/nbtschema/inferencer/internal/symval"
)

// localIndex resolves the local-variable-table index an xLOAD/xSTORE
// instruction addresses, whether it's an explicit-index form (reads an
// operand byte) or one of the _0.._3 shorthand opcodes.
func localIndex(op byte, lowExplicit, lowShort byte, c *cursor) (int, error) {
	if op >= lowExplicit && op < lowShort {
		b, err := c.u1()
		return int(b), err
	}
	return int((op - lowShort) % 4), nil
}

func (r *Runner) execLoad(ctx *execCtx, op byte, c *cursor) error {
	idx, err := localIndex(op, opIload, opIload0, c)
	if err != nil {
		return err
	}
	ctx.f.push(ctx.f.local(idx))
	return nil
}

// execStore ensures an NBT reference is typed before it lands in a
// local, and applies the forLocalsOrStack width collapse.
func (r *Runner) execStore(ctx *execCtx, op byte, c *cursor) error {
	idx, err := localIndex(op, opIstore, opIstore0, c)
	if err != nil {
		return err
	}
	v := ctx.f.pop()
	v = symval.ForLocalsOrStack(v)
	if r.isNbtReference(v) {
		v = symval.EnsureTyped(v, r.seedFor(v))
	}
	ctx.f.setLocal(idx, v)
	return nil
}

// isNbtReference reports whether v is (or is becoming) a reference to the
// pinned compound/list types, the gate ensureTyped uses throughout the
// runner and the memoizer's argument seeding.
func (r *Runner) isNbtReference(v symval.Value) bool {
	if v.Kind == symval.KindTypedTag {
		return true
	}
	return r.Pins.IsCompound(v.ClassName) || r.Pins.IsList(v.ClassName)
}

// seedFor picks the fresh NbtElement a newly ensureTyped cell starts from,
// based on which pinned reference type v names.
func (r *Runner) seedFor(v symval.Value) schema.NbtElement {
	if r.Pins.IsList(v.ClassName) {
		return schema.List{Inner: schema.Any{}}
	}
	return schema.NewCompound()
}
