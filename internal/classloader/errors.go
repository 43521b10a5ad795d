// Package classloader resolves classes for the interpreter: given an
// internal class name, it returns a parsed classfile.ClassFile, backed by
// an archive reader and a two-level cache (in-memory, plus an optional
// persistent sqlite-backed byte cache for repeat runs over the same
// archive). Lookup failures are reported, never panicked: a missing class
// is an expected, non-fatal outcome the memoizer treats as pass-through.
package classloader

import "fmt"

// ClassNotFoundError reports that an internal class name has no backing
// bytes in the archive. Non-fatal: callers serve a pass-through
// CallResult instead of aborting.
type ClassNotFoundError struct {
	ClassName string
}

func (e *ClassNotFoundError) Error() string {
	return fmt.Sprintf("class not found: %s", e.ClassName)
}

func NewClassNotFoundError(className string) *ClassNotFoundError {
	return &ClassNotFoundError{ClassName: className}
}
