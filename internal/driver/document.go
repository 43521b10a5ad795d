package driver

import (
	"sort"
	"strings"

	"github.com/nbtschema/inferencer/internal/schema"
)

// EntitiesRow is one row of the output document's "entities" array.
type EntitiesRow struct {
	ID           string `json:"id"`
	Type         string `json:"type"`
	Experimental bool   `json:"experimental,omitempty"`
}

// TypesRow is one row of the output document's "types" array: a
// schema name, its parent's schema name (nil at the root of a chain), and
// its compound embedded inline rather than referenced by name.
type TypesRow struct {
	Name   string                  `json:"name"`
	Parent *string                 `json:"parent"`
	Nbt    schema.CompoundBodyJSON `json:"nbt"`
}

// Document is the tool's full output document.
type Document struct {
	Entities      []EntitiesRow             `json:"entities"`
	Types         []TypesRow                `json:"types"`
	CompoundTypes []schema.CompoundTypeJSON `json:"compoundTypes"`
}

// sortDocument orders every array ascending by its id/name field, so
// the emitted JSON is deterministic across runs.
func sortDocument(doc *Document) {
	sort.Slice(doc.Entities, func(i, j int) bool { return doc.Entities[i].ID < doc.Entities[j].ID })
	sort.Slice(doc.Types, func(i, j int) bool { return doc.Types[i].Name < doc.Types[j].Name })
	// doc.CompoundTypes is already sorted: it comes straight from
	// postproc.Registry.Rows, which sorts before returning.
}

// simpleTypeName derives the types-row / entities-row "type" name from an
// internal class name: its unqualified simple name. This is a separate
// naming scheme from the structural compoundTypes registry: it
// identifies a class, feeding the inheritance chain a downstream code
// generator needs, not a structural shape.
func simpleTypeName(internalClassName string) string {
	name := internalClassName
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	return name
}
