package driver

import (
	"encoding/json"
	"fmt"
	"os"
)

// EntityEntry is one row of the registry dumper's output: an entity
// id, the internal name of the class whose save method produces its NBT,
// and whether it is gated behind an experimental feature flag.
type EntityEntry struct {
	ID           string `json:"id"`
	Class        string `json:"class"`
	Experimental bool   `json:"experimental,omitempty"`
}

// EntityList is the full decoded registry-dumper input: the entity rows
// plus the superclass chain (internal class name -> its direct
// superclass's internal name) needed to build the "parent" field of each
// types row.
type EntityList struct {
	Entities []EntityEntry     `json:"entities"`
	Parents  map[string]string `json:"parents"`
}

// LoadEntityList decodes the JSON document given as the driver's second
// positional argument. This is the registry dumper's output, not the
// dumper itself; the dumper runs elsewhere, against the live platform.
func LoadEntityList(path string) (*EntityList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading entity list %s: %w", path, err)
	}
	var list EntityList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parsing entity list %s: %w", path, err)
	}
	return &list, nil
}
