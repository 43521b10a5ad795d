package interp

import "fmt"

// UnsafeReentryError is the pinned safety invariant: generic invoke must
// never enter the entity-root's saveWithoutId directly, since its only
// legal entry is through the saveAsPassenger pinned case. Seeing it here
// means a caller wasn't recognized as that pinned case.
type UnsafeReentryError struct {
	Class, Method string
}

func (e *UnsafeReentryError) Error() string {
	return fmt.Sprintf("unsafe reentry into %s.%s: expected entry only via the passenger pinned case", e.Class, e.Method)
}
