package memo

import (
	"github.com/nbtschema/inferencer/internal/schema"
	"github.com/nbtschema/inferencer/internal/symval"
)

// ApplyTo re-merges this result's argsNbt deltas onto the caller's
// live actual arguments at pc. Effects land through each argument's
// shared TypedTag, so every frame cell aliasing the same tag observes
// them. Arguments that aren't NBT-typed
// in the caller's frame, or whose delta is Any, pass through unchanged.
func (r *CallResult) ApplyTo(actualArgs []symval.Value, pc int) error {
	for i, actual := range actualArgs {
		var delta schema.NbtElement = schema.Any{}
		if i < len(r.ArgsNbt) && r.ArgsNbt[i] != nil {
			delta = r.ArgsNbt[i]
		}
		if _, ok := delta.(schema.Any); ok {
			continue
		}
		tag, ok := actual.AsTypedTag()
		if !ok {
			continue
		}

		switch live := tag.Nbt.(type) {
		case *schema.Compound:
			switch d := delta.(type) {
			case *schema.Compound:
				toAppend := d
				if pc < tag.OptionalUntil {
					toAppend = d.Clone()
					for _, k := range toAppend.Keys() {
						e, _ := toAppend.Get(k)
						e.Optional = true
						toAppend.SetEntry(k, e)
					}
				}
				live.Flattened = append(live.Flattened, toAppend)
			case schema.Boxed:
				live.Flattened = append(live.Flattened, d)
			default:
				return schema.NewIncompatibleMergeError(tag.Nbt, delta, "applyTo compound")
			}
		case schema.List:
			d, ok := delta.(schema.List)
			if !ok {
				return schema.NewIncompatibleMergeError(tag.Nbt, delta, "applyTo list")
			}
			merged, err := schema.Merge(live, d, schema.SameDataSet)
			if err != nil {
				return err
			}
			tag.Nbt = merged
		default:
			// Boxed/AnyCompound/NestedEntity live values aren't reachable
			// as a caller's pre-call tag in practice; leave untouched
			// rather than fail, since applyTo only needs to handle the
			// two shapes the interpreter actually produces for live args.
		}
	}
	return nil
}
