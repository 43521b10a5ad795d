package postproc

import (
	"fmt"
	"sort"

	"github.com/nbtschema/inferencer/internal/schema"
)

// Registry accumulates the compoundTypes rows the naming pass produces
//: one entry per distinct structural shape, keyed by the
// stable name assigned to it. Sharing one Registry across every entity's
// NameRoot call is what lets two entities whose save methods produce
// identical compound shapes resolve to the same compoundTypes row.
type Registry struct {
	order   []string
	byName  map[string]*schema.Compound
	visited map[*schema.Compound]schema.NbtElement
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName:  make(map[string]*schema.Compound),
		visited: make(map[*schema.Compound]schema.NbtElement),
	}
}

// NameRoot applies the naming pass to root's children: every
// reachable *Compound is recursively named depth-first and replaced by
// either Named, AnyCompound, or (for the "single flattened member, no
// other content" collapse case) the member itself. root is the top-level
// per-entry-point compound and is deliberately never itself replaced,
// since the output embeds it inline as the "nbt" field of a types row
// rather than referencing it by name.
func (r *Registry) NameRoot(root *schema.Compound, boxed BoxChecker) error {
	return r.nameChildren(root, boxed)
}

// nameChildren rewrites c's own entries/unknownKeys/flattened in place,
// replacing each child element with its named form, but leaves c's own
// identity as a *Compound untouched (the caller decides whether c itself
// gets replaced).
func (r *Registry) nameChildren(c *schema.Compound, boxed BoxChecker) error {
	for _, k := range c.Keys() {
		e, _ := c.Get(k)
		nv, err := r.nameElement(e.Value, boxed)
		if err != nil {
			return err
		}
		c.SetEntry(k, schema.Entry{Value: nv, Optional: e.Optional})
	}
	if c.UnknownKeys != nil {
		nv, err := r.nameElement(c.UnknownKeys, boxed)
		if err != nil {
			return err
		}
		c.UnknownKeys = nv
	}
	for i, f := range c.Flattened {
		nv, err := r.nameElement(f, boxed)
		if err != nil {
			return err
		}
		c.Flattened[i] = nv
	}
	return nil
}

// nameElement recursively names e, returning its replacement. Compound
// positions are named (and possibly collapsed/registered); List, Either,
// and AnyCompound recurse into their held elements; everything else
// (primitives, Boxed, NestedEntity, already-Named) passes through.
func (r *Registry) nameElement(e schema.NbtElement, boxed BoxChecker) (schema.NbtElement, error) {
	switch v := e.(type) {
	case *schema.Compound:
		return r.nameCompound(v, boxed)
	case schema.List:
		inner, err := r.nameElement(v.Inner, boxed)
		if err != nil {
			return nil, err
		}
		return schema.List{Inner: inner}, nil
	case schema.Either:
		left, err := r.nameElement(v.Left, boxed)
		if err != nil {
			return nil, err
		}
		right, err := r.nameElement(v.Right, boxed)
		if err != nil {
			return nil, err
		}
		return schema.Either{Left: left, Right: right}, nil
	case schema.AnyCompound:
		vt, err := r.nameElement(v.ValueType, boxed)
		if err != nil {
			return nil, err
		}
		return schema.AnyCompound{ValueType: vt}, nil
	default:
		return e, nil
	}
}

// nameCompound implements the per-compound decision rules. It
// names c's own children first (post-order), so a parent's structural
// equality check against another candidate compares already-Named child
// positions rather than raw sub-trees.
func (r *Registry) nameCompound(c *schema.Compound, boxed BoxChecker) (schema.NbtElement, error) {
	if cached, ok := r.visited[c]; ok {
		return cached, nil
	}
	// Guard against a pointer cycle reaching here directly (should not
	// happen post-Flatten, since cycles are broken into Boxed, but the
	// sentinel avoids an infinite loop rather than a stack overflow if an
	// invariant is ever violated upstream).
	r.visited[c] = schema.Named{Name: "<naming-in-progress>"}

	if err := r.nameChildren(c, boxed); err != nil {
		return nil, err
	}

	var result schema.NbtElement
	switch {
	case len(c.Keys()) == 0 && c.UnknownKeys == nil && len(c.Flattened) == 1:
		result = c.Flattened[0]
	case len(c.Keys()) == 0 && len(c.Flattened) == 0:
		valueType := schema.NbtElement(schema.Any{})
		if c.UnknownKeys != nil {
			valueType = c.UnknownKeys
		}
		result = schema.AnyCompound{ValueType: valueType}
	default:
		result = schema.Named{Name: r.register(c, boxed)}
	}

	r.visited[c] = result
	return result, nil
}

// register assigns c a stable name and stores it in the registry,
// returning the assigned name. A compound whose originating call was
// flagged recursive by boxed is forced to exactly its call's BaseName so
// it matches the Boxed back-reference synthesized for it at detection
// time (every Boxed(n) must resolve to a registered compound named n);
// otherwise a structurally identical compound already
// in the registry is reused, and a fresh name is disambiguated with a
// numeric suffix when its base name collides with an unrelated compound.
func (r *Registry) register(c *schema.Compound, boxed BoxChecker) string {
	base := fmt.Sprintf("Compound%d", len(r.order))
	forced := ""
	if c.Name != nil {
		base = c.Name.BaseName()
		if boxed.IsBoxed(*c.Name) {
			forced = base
		}
	}

	if forced != "" {
		if _, exists := r.byName[forced]; !exists {
			r.byName[forced] = c
			r.order = append(r.order, forced)
		}
		return forced
	}

	for _, name := range r.order {
		if r.byName[name].Equal(c) {
			return name
		}
	}

	name := base
	if _, exists := r.byName[name]; exists {
		name = fmt.Sprintf("%s_%d", base, len(r.order))
	}
	r.byName[name] = c
	r.order = append(r.order, name)
	return name
}

// Rows returns the accumulated compoundTypes registry as JSON rows,
// sorted ascending by name so the emitted document is deterministic.
func (r *Registry) Rows() []schema.CompoundTypeJSON {
	names := append([]string(nil), r.order...)
	sort.Strings(names)
	rows := make([]schema.CompoundTypeJSON, 0, len(names))
	for _, name := range names {
		rows = append(rows, r.byName[name].ToJSON(name))
	}
	return rows
}
