package interp

import (
	"github.com/nbtschema/inferencer/internal/classfile"
	"github.com/nbtschema/inferencer/internal/symval"
)

// descriptorOf turns a declared verification type into the plain JVM
// descriptor a fresh, unenriched cell would carry.
func descriptorOf(vt classfile.VerificationType) (descriptor, className string) {
	switch vt.Kind {
	case classfile.VTInteger:
		return "I", ""
	case classfile.VTFloat:
		return "F", ""
	case classfile.VTLong:
		return "J", ""
	case classfile.VTDouble:
		return "D", ""
	case classfile.VTNull, classfile.VTUninitializedThis, classfile.VTUninitialized:
		return "Ljava/lang/Object;", ""
	case classfile.VTObject:
		return "L" + vt.ClassName + ";", vt.ClassName
	default:
		return "", ""
	}
}

// verificationWidth is the number of local-variable slots a declared
// verification type occupies: two for long/double (the StackMapTable
// lists them as one entry, local numbering gives them two slots), one
// for everything else.
func verificationWidth(vt classfile.VerificationType) int {
	if vt.Kind == classfile.VTLong || vt.Kind == classfile.VTDouble {
		return 2
	}
	return 1
}

// reconcile implements the join-point resynchronization: for every
// declared slot at pc, prefer the extra (runtime-enriched) snapshot if
// its descriptor matches, else keep the current live slot if it already
// matches, else fall back to the bare declared descriptor. Locals not
// covered by the declared frame become uninitialized (zero cells).
func reconcile(live *frame, declared classfile.StackMapFrame, extra *frame) *frame {
	out := &frame{
		locals: make([]symval.Value, len(live.locals)),
		stack:  make([]symval.Value, len(declared.Stack)),
	}
	slot := 0
	for _, vt := range declared.Locals {
		if slot >= len(out.locals) {
			break
		}
		extraV, extraOK := localAt(extra, slot)
		out.locals[slot] = reconcileSlot(vt, extraV, extraOK, live.local(slot))
		slot += verificationWidth(vt)
	}
	for i, vt := range declared.Stack {
		extraV, extraOK := stackAt(extra, i)
		liveV, _ := stackAt(live, i)
		out.stack[i] = reconcileSlot(vt, extraV, extraOK, liveV)
	}
	return out
}

func localAt(f *frame, i int) (symval.Value, bool) {
	if f == nil || i < 0 || i >= len(f.locals) {
		return symval.Value{}, false
	}
	return f.locals[i], true
}

func stackAt(f *frame, i int) (symval.Value, bool) {
	if f == nil || i < 0 || i >= len(f.stack) {
		return symval.Value{}, false
	}
	return f.stack[i], true
}

func reconcileSlot(vt classfile.VerificationType, extra symval.Value, extraOK bool, live symval.Value) symval.Value {
	descriptor, className := descriptorOf(vt)
	if extraOK && slotMatches(extra, descriptor, className) {
		return extra
	}
	if slotMatches(live, descriptor, className) {
		return live
	}
	return symval.Plain(descriptor, className)
}

// slotMatches reports whether an enriched cell still describes the same
// JVM type the declared frame expects: by class name for references, by
// bare descriptor for primitives (whose cells carry no class name).
func slotMatches(v symval.Value, descriptor, className string) bool {
	if className != "" {
		return v.ClassName == className
	}
	return v.Descriptor != "" && v.Descriptor == descriptor
}
