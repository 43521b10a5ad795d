// Package pins holds the "well-known façade methods" the interpreter
// special-cases: the NBT compound/list API,
// the platform Optional/Either bridges, the entity-root passenger
// recursion, and the historical loop-synthesis kludge. The target API
// surface is version-dependent, so these
// identities are data that Load reads from YAML; Default supplies a
// baked-in table for runs without a pins file.
package pins

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MethodRef names a single method by owning class and method name; the
// descriptor is not pinned since overload resolution happens by name
// within a fixed receiver class in every pinned case the interpreter
// handles.
type MethodRef struct {
	Class  string `yaml:"class"`
	Method string `yaml:"method"`
}

// TextSynthesis is the loop kludge: a specific historical class/method
// whose loop the interpreter cannot trace, so a fixed key set is
// synthesized non-optionally instead.
type TextSynthesis struct {
	MethodRef `yaml:",inline"`
	Keys      []string `yaml:"keys"`
}

// Pins is the full set of pinned target-API identities.
type Pins struct {
	// CompoundClass is the NBT library's compound type. put* methods on
	// it drive the compound write recording.
	CompoundClass string `yaml:"compoundClass"`
	// ListClass is the NBT library's list type.
	ListClass string `yaml:"listClass"`

	// OptionalIfPresent is java.util.Optional.ifPresent (or equivalent);
	// its lambda argument is invoked through the memoizer with
	// overrideOptional=true.
	OptionalIfPresent MethodRef `yaml:"optionalIfPresent"`
	// PrimitiveMapForEach is the primitive-specialized map's forEach,
	// handled identically to OptionalIfPresent.
	PrimitiveMapForEach MethodRef `yaml:"primitiveMapForEach"`

	// EitherMap is the platform Either's map: both arms may be lambdas,
	// called independently and combined into a schema.Either.
	EitherMap MethodRef `yaml:"eitherMap"`

	// SaveAsPassenger and SaveWithoutId are the entity-root recursion
	// pinned cases: saveAsPassenger is the only legal call site
	// for saveWithoutId, and generic entry into saveWithoutId is an
	// UnsafeReentry invariant violation.
	SaveAsPassenger MethodRef `yaml:"saveAsPassenger"`
	SaveWithoutId   MethodRef `yaml:"saveWithoutId"`

	// TextSynthesis is optional; when its Class is empty the pass-through
	// kludge is simply never triggered.
	TextSynthesis TextSynthesis `yaml:"textSynthesis"`
}

// Load reads a Pins configuration from a YAML file.
func Load(path string) (*Pins, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading pins file %s: %w", path, err)
	}
	var p Pins
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing pins file %s: %w", path, err)
	}
	return &p, nil
}

// Default returns the baked-in identities matching the historical target
// API, for use when no pins file is supplied.
func Default() *Pins {
	return &Pins{
		CompoundClass: "net/minecraft/nbt/NbtCompound",
		ListClass:     "net/minecraft/nbt/NbtList",

		OptionalIfPresent:   MethodRef{Class: "java/util/Optional", Method: "ifPresent"},
		PrimitiveMapForEach: MethodRef{Class: "it/unimi/dsi/fastutil/objects/Object2IntMap", Method: "forEach"},

		EitherMap: MethodRef{Class: "com/mojang/datafixers/util/Either", Method: "map"},

		SaveAsPassenger: MethodRef{Class: "net/minecraft/entity/Entity", Method: "saveAsPassenger"},
		SaveWithoutId:   MethodRef{Class: "net/minecraft/entity/Entity", Method: "saveWithoutId"},

		TextSynthesis: TextSynthesis{
			MethodRef: MethodRef{Class: "net/minecraft/block/entity/SignBlockEntity", Method: "writeNbt"},
			Keys:      []string{"Text1", "Text2", "Text3", "Text4"},
		},
	}
}

// IsCompound reports whether className is the pinned NBT compound type.
func (p *Pins) IsCompound(className string) bool { return className == p.CompoundClass }

// IsList reports whether className is the pinned NBT list type.
func (p *Pins) IsList(className string) bool { return className == p.ListClass }

func (m MethodRef) matches(className, methodName string) bool {
	return m.Class == className && m.Method == methodName
}

// IsOptionalIfPresent reports whether (className, methodName) is the
// pinned Optional.ifPresent or primitive-map forEach bridge.
func (p *Pins) IsOptionalIfPresent(className, methodName string) bool {
	return p.OptionalIfPresent.matches(className, methodName) || p.PrimitiveMapForEach.matches(className, methodName)
}

// IsEitherMap reports whether (className, methodName) is the pinned
// Either.map bridge.
func (p *Pins) IsEitherMap(className, methodName string) bool {
	return p.EitherMap.matches(className, methodName)
}

// IsSaveAsPassenger reports whether (className, methodName) is the
// pinned entity-as-passenger recursion entry point.
func (p *Pins) IsSaveAsPassenger(className, methodName string) bool {
	return p.SaveAsPassenger.matches(className, methodName)
}

// IsSaveWithoutId reports whether (className, methodName) is the pinned
// method that must never be entered by the generic invoke path.
func (p *Pins) IsSaveWithoutId(className, methodName string) bool {
	return p.SaveWithoutId.matches(className, methodName)
}

// MatchesTextSynthesis reports whether (className, methodName) is the
// pinned historical loop-synthesis kludge.
func (p *Pins) MatchesTextSynthesis(className, methodName string) bool {
	return p.TextSynthesis.Class != "" && p.TextSynthesis.matches(className, methodName)
}
