package interp

import (
	"github.com/nbtschema/inferencer/internal/schema"
	"github.com/nbtschema/inferencer/internal/symval"
)

// invokeKind distinguishes the four JVM invoke opcodes only insofar as
// they affect operand decoding (INVOKEINTERFACE's extra count/zero bytes)
// and receiver popping (INVOKESTATIC has none).
type invokeKind int

const (
	invokeVirtual invokeKind = iota
	invokeSpecial
	invokeStatic
	invokeInterface
)

// readInvokeIndex reads the constant-pool index operand for kind, also
// consuming INVOKEINTERFACE's trailing count and reserved zero byte.
func readInvokeIndex(kind invokeKind, c *cursor) (int, error) {
	idx, err := c.u2()
	if err != nil {
		return 0, err
	}
	if kind == invokeInterface {
		if _, err := c.u1(); err != nil { // count
			return 0, err
		}
		if _, err := c.u1(); err != nil { // reserved zero
			return 0, err
		}
	}
	return idx, nil
}

// execInvoke dispatches the target-class-dependent INVOKEVIRTUAL
// behaviors plus the shared generic path the other three invoke
// opcodes use. The two pinned entity-root cases (saveAsPassenger /
// saveWithoutId) are checked first since they are identified by the
// declared call-site class and apply regardless of invoke opcode.
func (r *Runner) execInvoke(ctx *execCtx, kind invokeKind, pc int, c *cursor) error {
	idx, err := readInvokeIndex(kind, c)
	if err != nil {
		return err
	}
	declaredClass, methodName, descriptor := ctx.pool.RefAt(idx)
	argDescs, retDesc, err := parseMethodDescriptor(descriptor)
	if err != nil {
		return err
	}

	if r.Pins.IsSaveWithoutId(declaredClass, methodName) {
		return &UnsafeReentryError{Class: declaredClass, Method: methodName}
	}
	if r.Pins.IsSaveAsPassenger(declaredClass, methodName) {
		return r.handleSaveAsPassenger(ctx)
	}

	if kind == invokeVirtual || kind == invokeInterface {
		switch {
		case r.Pins.IsCompound(declaredClass):
			return r.handleCompoundPut(ctx, methodName, len(argDescs), retDesc, pc)
		case r.Pins.IsList(declaredClass):
			return r.handleListOp(ctx, methodName, len(argDescs), retDesc)
		case r.Pins.IsOptionalIfPresent(declaredClass, methodName):
			// The primitive-map forEach pin names an interface receiver,
			// so INVOKEINTERFACE sites must land here too.
			return r.handleIfPresent(ctx, pc)
		case r.Pins.IsEitherMap(declaredClass, methodName):
			return r.handleEitherMap(ctx, retDesc, pc)
		}
	}

	return r.genericInvoke(ctx, kind, declaredClass, methodName, descriptor, argDescs, retDesc, pc)
}

// genericInvoke is the generic call path: resolve the target class, pop the
// arguments (receiver included for instance calls), call through the
// memoizer, apply the result back onto the live arguments, and push the
// converted return.
func (r *Runner) genericInvoke(ctx *execCtx, kind invokeKind, declaredClass, methodName, descriptor string, argDescs []string, retDesc string, pc int) error {
	nargs := len(argDescs)

	if kind == invokeSpecial && ctx.ignoreSuper && methodName == ctx.methodName && descriptor == ctx.methodDescriptor {
		ctx.f.popN(nargs + 1)
		pushReturnValue(ctx.f, retDesc, nil)
		return nil
	}

	args := ctx.f.popN(nargs)
	isStatic := kind == invokeStatic
	var fullArgs []symval.Value
	if isStatic {
		fullArgs = args
	} else {
		receiver := ctx.f.pop()
		fullArgs = append([]symval.Value{receiver}, args...)
	}

	// Virtual resolution: prefer the receiver's own runtime
	// class if known; the declared class and resolveDeclared's superclass
	// walk (in the memoizer) cover the "no resolution" pass-through case.
	targetClass := declaredClass
	if !isStatic && (kind == invokeVirtual || kind == invokeInterface) {
		if fullArgs[0].ClassName != "" {
			targetClass = fullArgs[0].ClassName
		}
	}

	ptr := schema.MethodPointer{ClassName: targetClass, Name: methodName, Descriptor: descriptor}
	result, err := r.Memo.Call(ptr, fullArgs, false, false)
	if err != nil {
		return err
	}
	if err := result.ApplyTo(fullArgs, pc); err != nil {
		return err
	}

	pushReturnValue(ctx.f, retDesc, result.ReturnNbt)
	return nil
}

// handleSaveAsPassenger implements the pinned entity-as-passenger
// recursion entry: both stack slots are consumed, the compound argument
// is marked NestedEntity in place (through its shared TypedTag pointer,
// so every alias observes the rewrite), and the declared int return is
// pushed without an actual nested call.
func (r *Runner) handleSaveAsPassenger(ctx *execCtx) error {
	args := ctx.f.popN(2) // [receiver, compoundArg]
	if tag, ok := args[1].AsTypedTag(); ok {
		tag.Nbt = schema.NestedEntity{}
	}
	ctx.f.push(symval.Plain("I", ""))
	return nil
}

// handleIfPresent implements the Optional.ifPresent / primitive-map
// forEach pinned case: the lambda is called through the memoizer with
// overrideOptional=true and its result applied back to its captured
// args; the call never falls through to a pushed return (void).
func (r *Runner) handleIfPresent(ctx *execCtx, pc int) error {
	lambdaVal := ctx.f.pop()
	ctx.f.pop() // receiver (Optional or the primitive map)
	lam, ok := lambdaVal.AsLambda()
	if !ok {
		return nil
	}
	result, err := r.Memo.Call(lam.Delegate, lam.BoundArgs, true, false)
	if err != nil {
		return err
	}
	return result.ApplyTo(lam.BoundArgs, pc)
}

// handleEitherMap implements the platform Either.map pinned case: both
// arms are called independently through the memoizer and combined into a
// schema.Either pushed as the call's returned NBT.
func (r *Runner) handleEitherMap(ctx *execCtx, retDesc string, pc int) error {
	args := ctx.f.popN(2) // [leftFn, rightFn]
	ctx.f.pop()           // receiver

	var left, right schema.NbtElement = schema.Any{}, schema.Any{}
	if lam, ok := args[0].AsLambda(); ok {
		result, err := r.Memo.Call(lam.Delegate, lam.BoundArgs, false, false)
		if err != nil {
			return err
		}
		if err := result.ApplyTo(lam.BoundArgs, pc); err != nil {
			return err
		}
		left = result.ReturnNbt
	}
	if lam, ok := args[1].AsLambda(); ok {
		result, err := r.Memo.Call(lam.Delegate, lam.BoundArgs, false, false)
		if err != nil {
			return err
		}
		if err := result.ApplyTo(lam.BoundArgs, pc); err != nil {
			return err
		}
		right = result.ReturnNbt
	}

	ctx.f.push(symval.NewTypedTag(retDesc, classNameFromDescriptor(retDesc), schema.Either{Left: left, Right: right}))
	return nil
}
