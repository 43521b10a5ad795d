package interp

import (
	"github.com/nbtschema/inferencer/internal/memo"
	"github.com/nbtschema/inferencer/internal/symval"
)

// classNameFromDescriptor extracts the internal class name from a field
// descriptor of the form "Lpkg/Class;", or "" for primitives/arrays.
func classNameFromDescriptor(descriptor string) string {
	if len(descriptor) >= 2 && descriptor[0] == 'L' && descriptor[len(descriptor)-1] == ';' {
		return descriptor[1 : len(descriptor)-1]
	}
	return ""
}

// execGetfield handles GETFIELD. For an NBT-typed field, the pushed
// value is an ensureTyped wrapper so subsequent writes through it can be
// recorded, rather than the field's bare descriptor.
func (r *Runner) execGetfield(ctx *execCtx, c *cursor) error {
	idx, err := c.u2()
	if err != nil {
		return err
	}
	ctx.f.pop() // objectref
	_, _, descriptor := ctx.pool.RefAt(idx)
	cls := classNameFromDescriptor(descriptor)
	v := symval.Plain(descriptor, cls)
	if r.isNbtReference(v) {
		v = symval.EnsureTyped(v, r.seedFor(v))
	}
	ctx.f.push(v)
	return nil
}

// execGetstatic consults the process-wide statics map keyed "class/field":
// push the stored value if PUTSTATIC has already run for this key, else
// fall back to the default descriptor push.
func (r *Runner) execGetstatic(ctx *execCtx, c *cursor) error {
	idx, err := c.u2()
	if err != nil {
		return err
	}
	className, name, descriptor := ctx.pool.RefAt(idx)
	if v, ok := r.Memo.GetStatic(memo.StaticKey(className, name)); ok {
		ctx.f.push(v)
		return nil
	}
	ctx.f.push(symval.Plain(descriptor, classNameFromDescriptor(descriptor)))
	return nil
}

func (r *Runner) execPutstatic(ctx *execCtx, c *cursor) error {
	idx, err := c.u2()
	if err != nil {
		return err
	}
	className, name, _ := ctx.pool.RefAt(idx)
	v := ctx.f.pop()
	r.Memo.PutStatic(memo.StaticKey(className, name), v)
	return nil
}

// execCheckcast treats CHECKCAST as identity on enrichment: it
// reinterprets the live value's static type as the cast-to class
// without touching what has been inferred about it.
func (r *Runner) execCheckcast(ctx *execCtx, c *cursor) error {
	idx, err := c.u2()
	if err != nil {
		return err
	}
	cls := ctx.pool.ClassNameAt(idx)
	v := ctx.f.pop()
	v.ClassName = cls
	v.Descriptor = "L" + cls + ";"
	ctx.f.push(v)
	return nil
}

// execWide handles the wide-prefixed forms of the local-variable
// instructions with a u2 index instead of u1, plus wide iinc (a no-op
// here; only the instruction length matters for IINC).
func (r *Runner) execWide(ctx *execCtx, c *cursor) error {
	op, err := c.u1()
	if err != nil {
		return err
	}
	idx, err := c.u2()
	if err != nil {
		return err
	}
	switch {
	case isLoad(op):
		ctx.f.push(ctx.f.local(idx))
	case isStore(op):
		v := ctx.f.pop()
		v = symval.ForLocalsOrStack(v)
		if r.isNbtReference(v) {
			v = symval.EnsureTyped(v, r.seedFor(v))
		}
		ctx.f.setLocal(idx, v)
	case op == opIinc:
		c.s2()
	case op == opRet:
		// not modeled; jsr/ret is vanishingly rare in target bytecode
	}
	return nil
}
