package interp

import (
	"github.com/nbtschema/inferencer/internal/schema"
	"github.com/nbtschema/inferencer/internal/symval"
)

// compoundPutKinds maps the NBT compound API's put* method names to the
// primitive leaf they record. "put" itself isn't listed here since
// it reads the pushed value's own kind rather than a fixed one.
var compoundPutKinds = map[string]schema.NbtElement{
	"putByte":      schema.Primitive{Kind: schema.KindByte},
	"putShort":     schema.Primitive{Kind: schema.KindShort},
	"putInt":       schema.Primitive{Kind: schema.KindInt},
	"putLong":      schema.Primitive{Kind: schema.KindLong},
	"putFloat":     schema.Primitive{Kind: schema.KindFloat},
	"putDouble":    schema.Primitive{Kind: schema.KindDouble},
	"putByteArray": schema.Primitive{Kind: schema.KindByteArray},
	"putIntArray":  schema.Primitive{Kind: schema.KindIntArray},
	"putLongArray": schema.Primitive{Kind: schema.KindLongArray},
	"putString":    schema.Primitive{Kind: schema.KindString},
	"putUUID":      schema.Uuid{},
	"putUuid":      schema.Uuid{},
	"putBoolean":   schema.Boolean{},
}

// handleCompoundPut handles calls whose declared receiver is the NBT
// compound type: recognized put* methods record a write against the
// key/compound pair sitting below the arguments on the stack; everything
// else is left unrecorded: its arguments are popped and a fluent or plain
// return cell is pushed, without a call through the memoizer.
func (r *Runner) handleCompoundPut(ctx *execCtx, methodName string, nargs int, retDesc string, pc int) error {
	kind, recognized := compoundPutKinds[methodName]
	if !recognized && methodName == "put" {
		recognized = true
		if tag, ok := ctx.f.peek(0).AsTypedTag(); ok {
			kind = tag.Nbt
		} else {
			kind = schema.Any{}
		}
	}

	if !recognized {
		args := ctx.f.popN(nargs + 1)
		pushFluentReturn(ctx.f, retDesc, args[0])
		return nil
	}

	keyVal := ctx.f.peek(nargs - 1)
	compoundVal := ctx.f.peek(nargs)
	if tag, ok := compoundVal.AsTypedTag(); ok {
		if compound, ok := tag.Nbt.(*schema.Compound); ok {
			optional := pc < tag.OptionalUntil
			if err := recordCompoundWrite(compound, keyVal, kind, optional); err != nil {
				return err
			}
		}
	} else {
		r.Memo.Warnf("%s.%s@%d: write to untyped compound, dropped", ctx.class.Name, ctx.methodName, pc)
	}

	args := ctx.f.popN(nargs + 1)
	pushFluentReturn(ctx.f, retDesc, args[0])
	return nil
}

// recordCompoundWrite implements the key-argument dispatch: a
// known string key records directly, a StringFromArray/StringArrayWithValues
// key records each known slot independently, and an unknown key folds into
// the compound's unknownKeys channel via Encompass.
func recordCompoundWrite(compound *schema.Compound, keyVal symval.Value, kind schema.NbtElement, optional bool) error {
	if s, ok := keyVal.StringValue(); ok {
		return compound.Put(s, kind, optional)
	}
	if keyVal.Kind == symval.KindStringFromArray || keyVal.Kind == symval.KindStringArrayWithValues {
		for _, s := range keyVal.KnownStrings() {
			if err := compound.Put(s, kind, optional); err != nil {
				return err
			}
		}
		return nil
	}
	compound.UnknownKeys = schema.Encompass(kind, compound.UnknownKeys)
	return nil
}

// listAddMethods is the NBT list API's element-adding method set;
// their sole stack argument's kind merges into list.inner.
var listAddMethods = map[string]bool{
	"add": true, "addTag": true, "addFirst": true, "addLast": true,
	"set": true, "setTag": true,
}

// handleListOp handles calls whose declared receiver is the NBT list
// type: adds merge the pushed element's kind into list.inner, getX
// methods push a synthetic value of the inferred element kind, and
// addAll is an intentionally under-approximated no-op.
func (r *Runner) handleListOp(ctx *execCtx, methodName string, nargs int, retDesc string) error {
	switch {
	case listAddMethods[methodName]:
		elem := ctx.f.peek(0)
		listVal := ctx.f.peek(nargs)
		if tag, ok := listVal.AsTypedTag(); ok {
			if list, ok := tag.Nbt.(schema.List); ok {
				elemKind := schema.NbtElement(schema.Any{})
				if etag, ok := elem.AsTypedTag(); ok {
					elemKind = etag.Nbt
				}
				merged, err := schema.Merge(list.Inner, elemKind, schema.SameDataSet)
				if err != nil {
					return err
				}
				tag.Nbt = schema.List{Inner: merged}
			}
		}
		args := ctx.f.popN(nargs + 1)
		pushFluentReturn(ctx.f, retDesc, args[0])
		return nil

	case len(methodName) > 3 && methodName[:3] == "get":
		args := ctx.f.popN(nargs + 1)
		var inner schema.NbtElement = schema.Any{}
		if tag, ok := args[0].AsTypedTag(); ok {
			if list, ok := tag.Nbt.(schema.List); ok {
				inner = list.Inner
			}
		}
		pushReturnValue(ctx.f, retDesc, inner)
		return nil

	case methodName == "addAll":
		r.Memo.Warnf("%s.%s: addAll under-approximated, list contents not recorded", ctx.class.Name, ctx.methodName)
		ctx.f.popN(nargs + 1)
		pushReturnValue(ctx.f, retDesc, nil)
		return nil

	default:
		args := ctx.f.popN(nargs + 1)
		pushFluentReturn(ctx.f, retDesc, args[0])
		return nil
	}
}

// pushFluentReturn pushes the receiver back for void/builder-style put and
// add methods that conventionally return either nothing or `this`;
// anything else falls back to a plain cell of the declared return type.
func pushFluentReturn(f *frame, retDesc string, receiver symval.Value) {
	if retDesc == "V" {
		return
	}
	if retDesc == receiver.Descriptor {
		f.push(receiver)
		return
	}
	f.push(symval.Plain(retDesc, classNameFromDescriptor(retDesc)))
}
