package schema

import (
	"encoding/json"
	"fmt"
)

// marshalElement serializes an NbtElement as the tagged object the output
// contract names: {"type":"Byte"}, {"type":"List","inner":...}, etc.
// *Compound never reaches this point in a fully post-processed tree (the
// naming pass replaces every compound with Named); if one does, it is
// reported as an error rather than serialized.
func marshalElement(e NbtElement) (interface{}, error) {
	switch v := e.(type) {
	case Any:
		return map[string]string{"type": "Any"}, nil
	case Primitive:
		return map[string]string{"type": v.Kind.String()}, nil
	case Uuid:
		return map[string]string{"type": "Uuid"}, nil
	case Boolean:
		return map[string]string{"type": "Boolean"}, nil
	case List:
		return map[string]interface{}{"type": "List", "inner": wrapElement(v.Inner)}, nil
	case Either:
		return map[string]interface{}{"type": "Either", "left": wrapElement(v.Left), "right": wrapElement(v.Right)}, nil
	case AnyCompound:
		return map[string]interface{}{"type": "AnyCompound", "valueType": wrapElement(v.ValueType)}, nil
	case Boxed:
		return map[string]interface{}{"type": "Boxed", "name": v.Name}, nil
	case NestedEntity:
		return map[string]string{"type": "NestedEntity"}, nil
	case Named:
		return map[string]interface{}{"type": "Compound", "name": v.Name}, nil
	case *Compound:
		return nil, fmt.Errorf("unnamed compound reached JSON serialization (naming pass did not run)")
	default:
		return nil, fmt.Errorf("unknown NbtElement variant %T", e)
	}
}

// elementMarshaler adapts marshalElement to json.Marshaler so NbtElement
// values nest correctly inside map[string]interface{} and struct fields
// without every call site needing to know about marshalElement.
type elementMarshaler struct{ e NbtElement }

func (m elementMarshaler) MarshalJSON() ([]byte, error) {
	v, err := marshalElement(m.e)
	if err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

// wrapElement lets any NbtElement be dropped into a struct field or map
// value typed as json.Marshaler and serialize correctly.
func wrapElement(e NbtElement) json.Marshaler {
	return elementMarshaler{e: e}
}

// CompoundTypeJSON is one row of the compoundTypes registry.
type CompoundTypeJSON struct {
	Name        string               `json:"name"`
	Entries     map[string]entryJSON `json:"entries"`
	UnknownKeys json.Marshaler       `json:"unknownKeys,omitempty"`
	Flattened   []json.Marshaler     `json:"flattened"`
}

type entryJSON struct {
	Value    json.Marshaler `json:"value"`
	Optional bool           `json:"optional"`
}

// ToJSON converts a named, registered compound into its JSON row. name is
// the registry-assigned name (the Compound itself no longer carries one
// meaningfully once Named references exist elsewhere in the tree).
func (c *Compound) ToJSON(name string) CompoundTypeJSON {
	out := CompoundTypeJSON{Name: name, Entries: make(map[string]entryJSON, len(c.keys))}
	for _, k := range c.keys {
		e := c.byKey[k]
		out.Entries[k] = entryJSON{Value: wrapElement(e.Value), Optional: e.Optional}
	}
	if c.UnknownKeys != nil {
		out.UnknownKeys = wrapElement(c.UnknownKeys)
	}
	for _, f := range c.Flattened {
		out.Flattened = append(out.Flattened, wrapElement(f))
	}
	if out.Flattened == nil {
		out.Flattened = []json.Marshaler{}
	}
	return out
}

// CompoundBodyJSON is a compound's shape with no name, used to embed a
// top-level entry point's compound directly as a types row's "nbt" field
// rather than registering it and referencing it by name.
type CompoundBodyJSON struct {
	Entries     map[string]entryJSON `json:"entries"`
	UnknownKeys json.Marshaler       `json:"unknownKeys,omitempty"`
	Flattened   []json.Marshaler     `json:"flattened"`
}

// ToJSONBody converts c to its nameless JSON body.
func (c *Compound) ToJSONBody() CompoundBodyJSON {
	row := c.ToJSON("")
	return CompoundBodyJSON{Entries: row.Entries, UnknownKeys: row.UnknownKeys, Flattened: row.Flattened}
}
