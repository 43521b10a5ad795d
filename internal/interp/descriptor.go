package interp

import (
	"github.com/nbtschema/inferencer/internal/schema"
	"github.com/nbtschema/inferencer/internal/symval"
)

// parseMethodDescriptor splits a JVM method descriptor "(ArgTypes)RetType"
// into its individual argument descriptors and the return descriptor.
func parseMethodDescriptor(d string) ([]string, string, error) {
	if len(d) < 2 || d[0] != '(' {
		return nil, "", malformed("malformed method descriptor " + d)
	}
	var args []string
	i := 1
	for i < len(d) && d[i] != ')' {
		start := i
		for i < len(d) && d[i] == '[' {
			i++
		}
		if i >= len(d) {
			return nil, "", malformed("truncated method descriptor " + d)
		}
		if d[i] == 'L' {
			for i < len(d) && d[i] != ';' {
				i++
			}
			if i >= len(d) {
				return nil, "", malformed("truncated object type in descriptor " + d)
			}
			i++
		} else {
			i++
		}
		args = append(args, d[start:i])
	}
	if i >= len(d) {
		return nil, "", malformed("truncated method descriptor " + d)
	}
	return args, d[i+1:], nil
}

// pushReturnValue pushes a method's return cell: void returns push nothing,
// a non-Any NBT delta wraps into a TypedTag, otherwise a plain descriptor
// cell is pushed.
func pushReturnValue(f *frame, retDescriptor string, nbt schema.NbtElement) {
	if retDescriptor == "V" {
		return
	}
	cls := classNameFromDescriptor(retDescriptor)
	if nbt == nil {
		f.push(symval.Plain(retDescriptor, cls))
		return
	}
	if _, isAny := nbt.(schema.Any); isAny {
		f.push(symval.Plain(retDescriptor, cls))
		return
	}
	f.push(symval.NewTypedTag(retDescriptor, cls, nbt))
}
