package schema

// MergeStrategy selects the optionality rule entry merge uses.
type MergeStrategy int

const (
	// SameDataSet is the default: optional_new = optional_a XOR optional_b.
	// Two branches of one if/else writing the same key within a single
	// observed execution are the same dataset, so XOR cancels the
	// optionality when both branches write it.
	SameDataSet MergeStrategy = iota
	// DifferentDataSet ORs optionality instead: used when folding return
	// values observed from genuinely distinct execution paths.
	DifferentDataSet
)

// Merge folds two schemas describing the same tree position. It is the
// sum type's join operation.
func Merge(a, b NbtElement, strategy MergeStrategy) (NbtElement, error) {
	if _, ok := a.(Any); ok {
		return b, nil
	}
	if _, ok := b.(Any); ok {
		return a, nil
	}

	switch av := a.(type) {
	case List:
		if bv, ok := b.(List); ok {
			inner, err := Merge(av.Inner, bv.Inner, strategy)
			if err != nil {
				return nil, err
			}
			return List{Inner: inner}, nil
		}
	case Either:
		if av.Left.Equal(b) || av.Right.Equal(b) {
			return av, nil
		}
		if bv, ok := b.(Either); ok {
			left, err := Merge(av.Left, bv.Left, strategy)
			if err != nil {
				return nil, err
			}
			right, err := Merge(av.Right, bv.Right, strategy)
			if err != nil {
				return nil, err
			}
			return Either{Left: left, Right: right}, nil
		}
	case AnyCompound:
		if cv, ok := b.(*Compound); ok {
			return cv, nil
		}
		if bv, ok := b.(AnyCompound); ok {
			return AnyCompound{ValueType: Encompass(av.ValueType, bv.ValueType)}, nil
		}
	case *Compound:
		if _, ok := b.(AnyCompound); ok {
			return av, nil
		}
		if bv, ok := b.(*Compound); ok {
			return mergeCompounds(av, bv, strategy)
		}
	case Boxed:
		if bv, ok := b.(Boxed); ok {
			if av.Name != bv.Name {
				return nil, NewIncompatibleMergeError(a, b, "boxed back-reference")
			}
			return av, nil
		}
	}

	if bv, ok := b.(Either); ok {
		if bv.Left.Equal(a) || bv.Right.Equal(a) {
			return bv, nil
		}
	}

	if a.Equal(b) {
		return a, nil
	}
	return nil, NewIncompatibleMergeError(a, b, "merge")
}

func mergeCompounds(c1, c2 *Compound, strategy MergeStrategy) (NbtElement, error) {
	out := NewCompound()
	for _, k := range c1.keys {
		out.SetEntry(k, c1.byKey[k])
	}
	for _, k := range c2.keys {
		e2 := c2.byKey[k]
		if err := out.MergeEntry(k, e2.Value, e2.Optional, strategy); err != nil {
			return nil, err
		}
	}

	switch {
	case c1.UnknownKeys == nil:
		out.UnknownKeys = c2.UnknownKeys
	case c2.UnknownKeys == nil:
		out.UnknownKeys = c1.UnknownKeys
	default:
		out.UnknownKeys = Encompass(c1.UnknownKeys, c2.UnknownKeys)
	}

	out.Flattened = append(append([]NbtElement{}, c1.Flattened...), c2.Flattened...)

	if c1.Name != nil {
		out.Name = c1.Name
	} else {
		out.Name = c2.Name
	}
	return out, nil
}

// Encompass computes the least upper bound of two schemas for a
// compound's unknown-keys channel. Unlike Merge it never fails:
// incompatible shapes fold to Any, and compounds collapse into an
// AnyCompound of the folded entry types. This path is intentionally lossy
// and is used only where keys are not statically known.
func Encompass(a, b NbtElement) NbtElement {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if _, ok := a.(Any); ok {
		return b
	}
	if _, ok := b.(Any); ok {
		return a
	}

	aLike, aVal := compoundLike(a)
	bLike, bVal := compoundLike(b)
	if aLike || bLike {
		va, vb := a, b
		if aLike {
			va = aVal
		}
		if bLike {
			vb = bVal
		}
		return AnyCompound{ValueType: Encompass(va, vb)}
	}

	switch av := a.(type) {
	case Primitive:
		if bv, ok := b.(Primitive); ok && bv.Kind == av.Kind {
			return av
		}
		return Any{}
	case Uuid:
		if _, ok := b.(Uuid); ok {
			return av
		}
		return Any{}
	case Boolean:
		if _, ok := b.(Boolean); ok {
			return av
		}
		return Any{}
	case List:
		if bv, ok := b.(List); ok {
			return List{Inner: Encompass(av.Inner, bv.Inner)}
		}
		return Any{}
	}

	if a.Equal(b) {
		return a
	}
	return Any{}
}

// compoundLike reports whether e is Compound-shaped and, if so, returns
// the folded value type standing in for its entries.
func compoundLike(e NbtElement) (bool, NbtElement) {
	switch v := e.(type) {
	case AnyCompound:
		return true, v.ValueType
	case *Compound:
		acc := NbtElement(Any{})
		for _, k := range v.keys {
			acc = Encompass(acc, v.byKey[k].Value)
		}
		if v.UnknownKeys != nil {
			acc = Encompass(acc, v.UnknownKeys)
		}
		return true, acc
	default:
		return false, nil
	}
}

// Clone performs a deep copy of e so callers and callees never alias
// mutable cells across call boundaries.
func Clone(e NbtElement) NbtElement {
	switch v := e.(type) {
	case Any:
		return Any{}
	case Primitive:
		return v
	case Uuid:
		return Uuid{}
	case Boolean:
		return Boolean{}
	case List:
		return List{Inner: Clone(v.Inner)}
	case Either:
		return Either{Left: Clone(v.Left), Right: Clone(v.Right)}
	case AnyCompound:
		return AnyCompound{ValueType: Clone(v.ValueType)}
	case *Compound:
		return v.Clone()
	case Boxed:
		return v
	case NestedEntity:
		return NestedEntity{}
	case Named:
		return v
	default:
		return e
	}
}
