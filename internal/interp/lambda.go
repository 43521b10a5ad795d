package interp

import (
	"github.com/nbtschema/inferencer/internal/classfile"
	"github.com/nbtschema/inferencer/internal/schema"
	"github.com/nbtschema/inferencer/internal/symval"
)

// refKindInvokeStatic mirrors CONSTANT_MethodHandle's reference_kind for
// an invokestatic handle (JVM spec table 5.4.3.5), the only shape the
// runner recognizes for a lambda's backing implementation.
const refKindInvokeStatic = 6

// execInvokeDynamic handles INVOKEDYNAMIC: deliberately not a real
// model of invokedynamic linkage. It pops the captured
// arguments per the call site's descriptor, and if the referenced
// bootstrap method is the standard lambda metafactory shape with an
// invokestatic backing handle, pushes a LambdaValue wrapping the
// delegate and its bound arguments; otherwise it pushes a plain
// functional-interface reference (default effect only).
func (r *Runner) execInvokeDynamic(ctx *execCtx, c *cursor) error {
	idx, err := c.u2()
	if err != nil {
		return err
	}
	if _, err := c.u1(); err != nil { // reserved
		return err
	}
	if _, err := c.u1(); err != nil { // reserved
		return err
	}

	cst, ok := ctx.pool.Get(idx)
	if !ok || cst.Tag != classfile.TagInvokeDynamic {
		ctx.f.push(symval.Plain("Ljava/lang/Object;", ""))
		return nil
	}

	_, descriptor := ctx.pool.NameAndTypeAt(cst.NameAndTypeIndex)
	argDescs, retDesc, err := parseMethodDescriptor(descriptor)
	if err != nil {
		return err
	}
	captured := ctx.f.popN(len(argDescs))

	bmIdx := cst.BootstrapMethodAttrIndex
	if bmIdx < 0 || bmIdx >= len(ctx.class.BootstrapMethods) {
		ctx.f.push(symval.Plain(retDesc, classNameFromDescriptor(retDesc)))
		return nil
	}
	bm := ctx.class.BootstrapMethods[bmIdx]
	if len(bm.Arguments) < 3 {
		ctx.f.push(symval.Plain(retDesc, classNameFromDescriptor(retDesc)))
		return nil
	}

	impl := bm.Arguments[1]
	if impl.Tag != classfile.TagMethodHandle || impl.MethodHandleKind != refKindInvokeStatic {
		ctx.f.push(symval.Plain(retDesc, classNameFromDescriptor(retDesc)))
		return nil
	}

	lambdaSig := bm.Arguments[2]
	sigArgs, _, err := parseMethodDescriptor(lambdaSig.Descriptor)
	if err != nil {
		sigArgs = nil
	}

	bound := append([]symval.Value(nil), captured...)
	for _, t := range sigArgs {
		bound = append(bound, symval.Plain(t, classNameFromDescriptor(t)))
	}

	delegate := schema.MethodPointer{ClassName: impl.OwnerClass, Name: impl.MemberName, Descriptor: impl.MemberDescriptor}
	ctx.f.push(symval.LambdaValue(delegate, bound))
	return nil
}
