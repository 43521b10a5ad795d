package pins

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultMatchesPinnedIdentities(t *testing.T) {
	p := Default()

	if !p.IsCompound("net/minecraft/nbt/NbtCompound") {
		t.Errorf("expected the default compound class to match")
	}
	if !p.IsList("net/minecraft/nbt/NbtList") {
		t.Errorf("expected the default list class to match")
	}
	if !p.IsOptionalIfPresent("java/util/Optional", "ifPresent") {
		t.Errorf("expected Optional.ifPresent to match")
	}
	if !p.IsOptionalIfPresent("it/unimi/dsi/fastutil/objects/Object2IntMap", "forEach") {
		t.Errorf("expected the primitive map forEach to match")
	}
	if p.IsOptionalIfPresent("java/util/Optional", "get") {
		t.Errorf("did not expect Optional.get to match")
	}
	if !p.IsEitherMap("com/mojang/datafixers/util/Either", "map") {
		t.Errorf("expected Either.map to match")
	}
	if !p.IsSaveAsPassenger("net/minecraft/entity/Entity", "saveAsPassenger") {
		t.Errorf("expected saveAsPassenger to match")
	}
	if !p.IsSaveWithoutId("net/minecraft/entity/Entity", "saveWithoutId") {
		t.Errorf("expected saveWithoutId to match")
	}
	if !p.MatchesTextSynthesis("net/minecraft/block/entity/SignBlockEntity", "writeNbt") {
		t.Errorf("expected the sign text kludge to match")
	}
}

func TestMatchesTextSynthesisDisabledWhenClassEmpty(t *testing.T) {
	p := &Pins{}
	if p.MatchesTextSynthesis("", "") {
		t.Errorf("expected an unset TextSynthesis pin to never match")
	}
}

func TestLoadOverridesFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pins.yaml")
	data := `
compoundClass: test/CompoundTag
listClass: test/ListTag
optionalIfPresent:
  class: test/Optional
  method: ifPresent
primitiveMapForEach:
  class: test/Int2ObjectMap
  method: forEach
eitherMap:
  class: test/Either
  method: map
saveAsPassenger:
  class: test/Entity
  method: saveAsPassenger
saveWithoutId:
  class: test/Entity
  method: saveWithoutId
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !p.IsCompound("test/CompoundTag") {
		t.Errorf("expected the loaded compound class to override the default")
	}
	if p.MatchesTextSynthesis("net/minecraft/block/entity/SignBlockEntity", "writeNbt") {
		t.Errorf("expected an omitted TextSynthesis pin to stay disabled")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/pins.yaml"); err == nil {
		t.Fatalf("expected an error for a missing pins file")
	}
}
