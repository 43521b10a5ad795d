package schema

import "fmt"

// IncompatibleMergeError is raised when merge is asked to fold two
// concretely different non-Any shapes (Byte with Int, Boxed(n1) with
// Boxed(n2) for distinct names, ...). It always indicates either an
// interpreter bug or a real version-skew incompatibility in the target
// archive, so it is fatal.
type IncompatibleMergeError struct {
	Left, Right NbtElement
	Context     string
}

func (e *IncompatibleMergeError) Error() string {
	return fmt.Sprintf("incompatible merge (%s): %s vs %s", e.Context, describe(e.Left), describe(e.Right))
}

func NewIncompatibleMergeError(left, right NbtElement, context string) *IncompatibleMergeError {
	return &IncompatibleMergeError{Left: left, Right: right, Context: context}
}

// InvariantBrokenError covers assertions the schema algebra expects to
// always hold: a Named compound surviving before the naming pass, a
// negative flattened-member count, and similar internal-consistency
// checks.
type InvariantBrokenError struct {
	Reason string
}

func (e *InvariantBrokenError) Error() string {
	return fmt.Sprintf("invariant broken: %s", e.Reason)
}

func NewInvariantBrokenError(reason string) *InvariantBrokenError {
	return &InvariantBrokenError{Reason: reason}
}

func describe(e NbtElement) string {
	if e == nil {
		return "<nil>"
	}
	switch v := e.(type) {
	case Any:
		return "Any"
	case Primitive:
		return v.Kind.String()
	case Uuid:
		return "Uuid"
	case Boolean:
		return "Boolean"
	case List:
		return "List(" + describe(v.Inner) + ")"
	case Either:
		return "Either(" + describe(v.Left) + "," + describe(v.Right) + ")"
	case AnyCompound:
		return "AnyCompound(" + describe(v.ValueType) + ")"
	case *Compound:
		return "Compound"
	case Boxed:
		return "Boxed(" + v.Name + ")"
	case NestedEntity:
		return "NestedEntity"
	case Named:
		return "Named(" + v.Name + ")"
	default:
		return fmt.Sprintf("%T", e)
	}
}
