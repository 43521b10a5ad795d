package memo

import "fmt"

// VirtualResolutionFailureError is fatal: virtual dispatch
// found no unique target and the declared class is not an abstract class
// with a matching abstract declaration (the one case allowed to pass
// through as a no-op instead).
type VirtualResolutionFailureError struct {
	ClassName, Method, Descriptor string
	Reason                        string
}

func (e *VirtualResolutionFailureError) Error() string {
	return fmt.Sprintf("virtual resolution failure for %s.%s%s: %s", e.ClassName, e.Method, e.Descriptor, e.Reason)
}
