// Package driver wires the class loader, the method call memoizer, and
// the method runner together, walks the entity list, and assembles the
// output document. None of this adds semantic execution depth; it is
// the plumbing that makes the core runnable.
package driver

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nbtschema/inferencer/internal/classloader"
	"github.com/nbtschema/inferencer/internal/config"
	"github.com/nbtschema/inferencer/internal/interp"
	"github.com/nbtschema/inferencer/internal/memo"
	"github.com/nbtschema/inferencer/internal/pins"
	"github.com/nbtschema/inferencer/internal/postproc"
	"github.com/nbtschema/inferencer/internal/schema"
	"github.com/nbtschema/inferencer/internal/symval"
)

// Options configures one driver run.
type Options struct {
	ArchivePath    string
	EntityListPath string

	// PinsPath, if non-empty, overrides the baked-in pins.Default()
	// table; the target API surface changes across platform versions.
	// Left empty, a config.DefaultPinsFile next to the archive is used
	// when present.
	PinsPath string

	// CacheDBPath, if non-empty, backs the class loader's persistent
	// sqlite byte cache. Left empty, only the in-memory per-run cache
	// applies.
	CacheDBPath string

	// SchemaVersionTag, when non-empty, is appended to every entity id
	// as "<id>@<tag>" in the output's "entities" array. Block-entity
	// mode uses this to disambiguate schemas for a block whose save
	// format has changed across versions without a corresponding id
	// change; entity mode leaves it empty.
	SchemaVersionTag string

	// Warn receives non-fatal precision-losing events; nil discards
	// them.
	Warn func(format string, args ...any)
}

// Run loads the entity list, analyzes each entity's save entry point, and
// returns the assembled output document.
func Run(opts Options) (*Document, error) {
	list, err := LoadEntityList(opts.EntityListPath)
	if err != nil {
		return nil, err
	}

	pinsPath := opts.PinsPath
	if pinsPath == "" {
		candidate := filepath.Join(filepath.Dir(opts.ArchivePath), config.DefaultPinsFile)
		if _, statErr := os.Stat(candidate); statErr == nil {
			pinsPath = candidate
		}
	}
	p := pins.Default()
	if pinsPath != "" {
		p, err = pins.Load(pinsPath)
		if err != nil {
			return nil, err
		}
	}

	reader, err := classloader.OpenArchive(opts.ArchivePath)
	if err != nil {
		return nil, err
	}

	var cache *classloader.ByteCache
	if opts.CacheDBPath != "" {
		cache, err = classloader.OpenByteCache(opts.CacheDBPath)
		if err != nil {
			reader.Close()
			return nil, err
		}
	}

	loader := classloader.NewLoader(reader, cache)
	defer loader.Close()

	m := memo.New(loader, p)
	m.Warn = opts.Warn
	m.Runner = interp.New(m, loader, p)

	registry := postproc.NewRegistry()

	var entityRows []EntitiesRow
	var typeRows []TypesRow
	seenTypes := make(map[string]bool)

	for _, e := range list.Entities {
		typeName := simpleTypeName(e.Class)

		id := e.ID
		if opts.SchemaVersionTag != "" {
			id = id + "@" + opts.SchemaVersionTag
		}
		entityRows = append(entityRows, EntitiesRow{ID: id, Type: typeName, Experimental: e.Experimental})

		if seenTypes[typeName] {
			continue
		}
		seenTypes[typeName] = true

		root, err := analyzeEntryPoint(m, p, e.Class)
		if err != nil {
			return nil, fmt.Errorf("analyzing %s: %w", e.Class, err)
		}

		if err := postproc.Flatten(root, m); err != nil {
			return nil, fmt.Errorf("flattening %s: %w", e.Class, err)
		}
		if err := registry.NameRoot(root, m); err != nil {
			return nil, fmt.Errorf("naming %s: %w", e.Class, err)
		}

		var parent *string
		if super, ok := list.Parents[e.Class]; ok && super != "" {
			name := simpleTypeName(super)
			parent = &name
		}
		typeRows = append(typeRows, TypesRow{Name: typeName, Parent: parent, Nbt: root.ToJSONBody()})
	}

	doc := &Document{Entities: entityRows, Types: typeRows, CompoundTypes: registry.Rows()}
	sortDocument(doc)
	return doc, nil
}

// analyzeEntryPoint analyzes one entity class: its declared save
// method, seeded with the receiver plus a fresh NBT compound argument.
// The same isNbtReference seeding that wraps a compound argument at any
// call depth applies at the top level too, so the compound argument
// comes back as a fresh *schema.Compound once the call completes.
func analyzeEntryPoint(m *memo.Memoizer, p *pins.Pins, className string) (*schema.Compound, error) {
	descriptor := fmt.Sprintf("(L%s;)L%s;", p.CompoundClass, p.CompoundClass)
	ptr := schema.MethodPointer{ClassName: className, Name: p.SaveWithoutId.Method, Descriptor: descriptor}

	args := []symval.Value{
		symval.Plain("L"+className+";", className),
		symval.Plain("L"+p.CompoundClass+";", p.CompoundClass),
	}

	result, err := m.Call(ptr, args, false, false)
	if err != nil {
		return nil, err
	}

	if len(result.ArgsNbt) < 2 {
		return schema.NewCompound(), nil
	}
	root, ok := result.ArgsNbt[1].(*schema.Compound)
	if !ok {
		return schema.NewCompound(), nil
	}
	return root, nil
}
