// Package postproc implements the two post-processing passes:
// Flatten resolves which flattened sub-compounds get inlined versus kept
// as a boxed back-reference, and the Registry's NameRoot assigns stable
// structural names to anonymous compound shapes. Both run once, after the
// interpreter has finished and before the result is serialized.
package postproc

import "github.com/nbtschema/inferencer/internal/schema"

// BoxChecker reports whether a method call was flagged recursive by
// the memoizer. internal/memo.Memoizer satisfies this; it is kept as a
// narrow interface here so the pass can be exercised against a fake in
// tests without constructing a real Memoizer.
type BoxChecker interface {
	IsBoxed(call schema.MethodCall) bool
}

// Flatten recursively descends into every child compound reachable from
// root, then rewrites each compound's Flattened list: a member that is a
// *Compound whose originating call was flagged recursive by boxed is kept
// as-is (it is recursion-critical); any other *Compound member is
// merged into its parent and dropped; Boxed members pass through
// untouched. Mutates the tree in place.
func Flatten(root *schema.Compound, boxed BoxChecker) error {
	visited := make(map[*schema.Compound]bool)
	return flattenCompound(root, boxed, visited)
}

func flattenCompound(c *schema.Compound, boxed BoxChecker, visited map[*schema.Compound]bool) error {
	if c == nil || visited[c] {
		return nil
	}
	visited[c] = true

	for _, k := range c.Keys() {
		e, _ := c.Get(k)
		if err := flattenElement(e.Value, boxed, visited); err != nil {
			return err
		}
	}
	if c.UnknownKeys != nil {
		if err := flattenElement(c.UnknownKeys, boxed, visited); err != nil {
			return err
		}
	}
	for _, f := range c.Flattened {
		if err := flattenElement(f, boxed, visited); err != nil {
			return err
		}
	}

	var kept []schema.NbtElement
	for _, f := range c.Flattened {
		switch v := f.(type) {
		case *schema.Compound:
			if v.Name != nil && boxed.IsBoxed(*v.Name) {
				kept = append(kept, v)
				continue
			}
			if err := mergeFlattenedInto(c, v); err != nil {
				return err
			}
			kept = append(kept, v.Flattened...)
		case schema.Boxed:
			kept = append(kept, v)
		default:
			kept = append(kept, f)
		}
	}
	c.Flattened = kept
	return nil
}

// flattenElement recurses into any NbtElement that might itself carry
// compound children: a plain Compound position, or one nested inside a
// List/Either/AnyCompound wrapper.
func flattenElement(e schema.NbtElement, boxed BoxChecker, visited map[*schema.Compound]bool) error {
	switch v := e.(type) {
	case *schema.Compound:
		return flattenCompound(v, boxed, visited)
	case schema.List:
		return flattenElement(v.Inner, boxed, visited)
	case schema.Either:
		if err := flattenElement(v.Left, boxed, visited); err != nil {
			return err
		}
		return flattenElement(v.Right, boxed, visited)
	case schema.AnyCompound:
		return flattenElement(v.ValueType, boxed, visited)
	default:
		return nil
	}
}

// mergeFlattenedInto folds src's entries and unknown-keys channel into
// dst, the ordinary compound-merge rule applied directly rather
// than through schema.Merge (which would build a fresh *Compound instead
// of mutating dst in place).
func mergeFlattenedInto(dst, src *schema.Compound) error {
	for _, k := range src.Keys() {
		e, _ := src.Get(k)
		if err := dst.MergeEntry(k, e.Value, e.Optional, schema.SameDataSet); err != nil {
			return err
		}
	}
	switch {
	case dst.UnknownKeys == nil:
		dst.UnknownKeys = src.UnknownKeys
	case src.UnknownKeys != nil:
		dst.UnknownKeys = schema.Encompass(dst.UnknownKeys, src.UnknownKeys)
	}
	return nil
}
