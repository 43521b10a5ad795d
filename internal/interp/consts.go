package interp

import (
	"github.com/nbtschema/inferencer/internal/classfile"
	"github.com/nbtschema/inferencer/internal/symval"
)

// execConst implements the constant loads: LDC/LDC_W of a string
// constant pushes StringWithValue; ICONST_*/BIPUSH/SIPUSH and LDC/LDC_W of
// an integer constant push IntWithValue. Every other constant kind pushes a
// plain descriptor since
// only strings and ints feed the write-key/array-length tracking.
func (r *Runner) execConst(ctx *execCtx, op byte, c *cursor) error {
	switch {
	case op == opAconstNull:
		ctx.f.push(symval.Plain("Ljava/lang/Object;", ""))
	case op >= opIconstM1 && op <= opIconst5:
		ctx.f.push(symval.IntWithValue(int64(op) - 3))
	case op == opLconst0 || op == opLconst1:
		ctx.f.push(symval.Plain("J", ""))
	case op >= opFconst0 && op <= opFconst2:
		ctx.f.push(symval.Plain("F", ""))
	case op == opDconst0 || op == opDconst1:
		ctx.f.push(symval.Plain("D", ""))
	case op == opBipush:
		v, err := c.s1()
		if err != nil {
			return err
		}
		ctx.f.push(symval.IntWithValue(int64(v)))
	case op == opSipush:
		v, err := c.s2()
		if err != nil {
			return err
		}
		ctx.f.push(symval.IntWithValue(int64(v)))
	case op == opLdc:
		idx, err := c.u1()
		if err != nil {
			return err
		}
		r.pushLdc(ctx, int(idx))
	case op == opLdcW:
		idx, err := c.u2()
		if err != nil {
			return err
		}
		r.pushLdc(ctx, idx)
	case op == opLdc2W:
		idx, err := c.u2()
		if err != nil {
			return err
		}
		cst, _ := ctx.pool.Get(idx)
		if cst.Tag == classfile.TagDouble {
			ctx.f.push(symval.Plain("D", ""))
		} else {
			ctx.f.push(symval.Plain("J", ""))
		}
	}
	return nil
}

func (r *Runner) pushLdc(ctx *execCtx, idx int) {
	cst, ok := ctx.pool.Get(idx)
	if !ok {
		ctx.f.push(symval.Plain("Ljava/lang/Object;", ""))
		return
	}
	switch cst.Tag {
	case classfile.TagString:
		if s, ok := ctx.pool.StringAt(idx); ok {
			ctx.f.push(symval.StringWithValue(s))
			return
		}
		ctx.f.push(symval.Plain("Ljava/lang/String;", "java/lang/String"))
	case classfile.TagInteger:
		ctx.f.push(symval.IntWithValue(int64(cst.Int32)))
	case classfile.TagFloat:
		ctx.f.push(symval.Plain("F", ""))
	case classfile.TagClass:
		cls := ctx.pool.ClassNameAt(idx)
		ctx.f.push(symval.Plain("Ljava/lang/Class;", cls))
	default:
		ctx.f.push(symval.Plain("Ljava/lang/Object;", ""))
	}
}
