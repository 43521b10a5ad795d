// Package memo implements the method call memoizer: it maps
// (method-pointer, erased-argument-schemas, overrideOptional) to a cached
// CallResult, detects recursion by tracking an active call stack, and
// runs each class's static initializer exactly once into a process-wide
// statics map.
package memo

import (
	"fmt"
	"strings"

	"github.com/nbtschema/inferencer/internal/classfile"
	"github.com/nbtschema/inferencer/internal/classloader"
	"github.com/nbtschema/inferencer/internal/pins"
	"github.com/nbtschema/inferencer/internal/schema"
	"github.com/nbtschema/inferencer/internal/symval"
)

// ClassSource is the subset of *classloader.Loader the memoizer needs:
// resolving an internal class name to its parsed form. Kept as an
// interface so the memoizer can be exercised in tests without a real
// archive on disk.
type ClassSource interface {
	Get(internalName string) (*classfile.ClassFile, error)
}

// CallResult is the memoized effect of one method call: the schema delta
// recorded against each NBT-typed argument, and the schema of whatever
// the method returns.
type CallResult struct {
	ArgsNbt   []schema.NbtElement
	ReturnNbt schema.NbtElement
}

// Runner is implemented by internal/interp; Memoizer depends on it only
// through this interface to avoid an import cycle (the runner calls back
// into the memoizer for every nested call it makes).
type Runner interface {
	// Run symbolically executes method starting from its first
	// instruction, with locals seeded from seededLocals (NBT references
	// already wrapped as fresh TypedTags; other cells passed as the caller
	// gave them) and ignoreSuper controlling whether
	// an INVOKESPECIAL super-call back into the same method is skipped.
	// It returns the observed return values (possibly empty for void) and
	// the post-execution contents of each argument local.
	Run(class *classfile.ClassFile, method classfile.Method, seededLocals []symval.Value, ignoreSuper bool) (returnValues []symval.Value, argLocals []symval.Value, err error)
}

// Memoizer is the analysis run's shared state: the completed-call cache, the
// active call stack (recursion detection), the set of recursion-hit call
// keys (boxedTypes), the class loader, and the process-wide statics map.
// It is not safe for concurrent use; the core is single-threaded.
type Memoizer struct {
	Loader ClassSource
	Pins   *pins.Pins
	Runner Runner

	// Warn receives precision-losing but non-fatal events: an
	// untyped compound reached at a write site, addAll's under-
	// approximation, a call shape with more than one compound argument.
	// Left nil, warnings are simply dropped; cmd/nbtschema wires it to a
	// stderr "warning:" line.
	Warn func(format string, args ...any)

	cache      map[string]*CallResult
	active     map[string]bool
	boxedTypes map[string]bool

	statics       map[string]symval.Value
	staticInitRan map[string]bool
}

// Warnf reports a non-fatal precision-losing event through Warn, if set.
func (m *Memoizer) Warnf(format string, args ...any) {
	if m.Warn != nil {
		m.Warn(format, args...)
	}
}

// New constructs an empty Memoizer. Runner is set after construction
// since internal/interp's runner itself needs a reference back to the
// Memoizer it calls into (see internal/driver.Run's wiring).
func New(loader ClassSource, p *pins.Pins) *Memoizer {
	return &Memoizer{
		Loader:        loader,
		Pins:          p,
		cache:         make(map[string]*CallResult),
		active:        make(map[string]bool),
		boxedTypes:    make(map[string]bool),
		statics:       make(map[string]symval.Value),
		staticInitRan: make(map[string]bool),
	}
}

// IsBoxed reports whether call has been flagged recursive. Used by the
// flatten post-pass to decide whether a flattened compound must be kept
// boxed or can be safely inlined.
func (m *Memoizer) IsBoxed(call schema.MethodCall) bool {
	return m.boxedTypes[call.Key()]
}

// GetStatic returns the value stored under a "class/field" descriptor
// key, and whether one is present.
func (m *Memoizer) GetStatic(key string) (symval.Value, bool) {
	v, ok := m.statics[key]
	return v, ok
}

// PutStatic stores a value under a "class/field" descriptor key.
func (m *Memoizer) PutStatic(key string, v symval.Value) {
	m.statics[key] = v
}

// Call resolves ptr against args, serving a cached result, a boxed
// recursion stand-in, or a freshly computed one.
func (m *Memoizer) Call(ptr schema.MethodPointer, args []symval.Value, overrideOptional, ignoreSuper bool) (*CallResult, error) {
	erased := make([]string, len(args))
	for i, a := range args {
		erased[i] = symval.Erase(a)
	}
	call := schema.MethodCall{Pointer: ptr, ErasedArgs: erased, OverrideOptional: overrideOptional}
	key := call.Key()

	if cached, ok := m.cache[key]; ok {
		return cached, nil
	}

	if m.active[key] {
		m.boxedTypes[key] = true
		return m.synthesizeBoxed(call, args), nil
	}

	// The historical loop-synthesis kludge: this method's body is a
	// loop the interpreter can't trace, so a fixed key set is recorded
	// directly against its compound argument instead of running it.
	if m.Pins.MatchesTextSynthesis(ptr.ClassName, ptr.Name) {
		result := m.synthesizeTextKeys(args)
		m.cache[key] = result
		return result, nil
	}

	m.active[key] = true
	defer delete(m.active, key)

	class, err := m.Loader.Get(ptr.ClassName)
	if err != nil {
		if _, ok := err.(*classloader.ClassNotFoundError); ok {
			result := passThroughResult(args)
			m.cache[key] = result
			return result, nil
		}
		return nil, err
	}

	if err := m.runStaticInitOnce(class); err != nil {
		return nil, err
	}

	method, owner, ok, err := m.resolveVirtual(class, ptr)
	if err != nil {
		return nil, err
	}
	if !ok || method.Code == nil {
		result := passThroughResult(args)
		m.cache[key] = result
		return result, nil
	}

	// Each NBT argument is seeded with a FRESH tag over an empty schema:
	// the callee accumulates its effect as a standalone delta, and
	// ApplyTo later re-merges that delta onto the caller's live tags.
	// Seeding the caller's own tag instead would have the callee mutate
	// the caller's schema directly, and the delta would then alias it.
	seeded := make([]symval.Value, len(args))
	nameable := -1
	for i, a := range args {
		s := a
		if m.isNbtReference(a) {
			if overrideOptional {
				s = symval.NewOverrideOptionalTag(a.Descriptor, a.ClassName, m.freshSeed(a))
			} else {
				s = symval.NewTypedTag(a.Descriptor, a.ClassName, m.freshSeed(a))
			}
		}
		seeded[i] = s
		if tag, ok := s.AsTypedTag(); ok {
			if c, ok := tag.Nbt.(*schema.Compound); ok && c.Name == nil {
				if nameable != -1 {
					nameable = -2 // more than one nameable compound arg: ambiguous, skip naming
				} else {
					nameable = i
				}
			}
		}
	}
	if nameable >= 0 {
		if tag, ok := seeded[nameable].AsTypedTag(); ok {
			if c, ok := tag.Nbt.(*schema.Compound); ok {
				cc := call
				c.Name = &cc
			}
		}
	} else if nameable == -2 {
		m.Warnf("%s: more than one compound argument; naming skipped", call.Pointer.String())
	}

	returnValues, argLocals, err := m.Runner.Run(owner, method, seeded, ignoreSuper)
	if err != nil {
		return nil, err
	}

	returnNbt, err := mergeReturns(returnValues)
	if err != nil {
		return nil, err
	}

	argsNbt := make([]schema.NbtElement, len(argLocals))
	for i, v := range argLocals {
		if tag, ok := v.AsTypedTag(); ok {
			argsNbt[i] = tag.Nbt
		} else {
			argsNbt[i] = schema.Any{}
		}
	}

	result := &CallResult{ArgsNbt: argsNbt, ReturnNbt: returnNbt}
	m.cache[key] = result
	return result, nil
}

// isNbtReference reports whether a cell is a reference to the pinned NBT
// compound/list types (or already carries a TypedTag), i.e. whether the
// call's seeding should wrap it at all. Plain ints, strings, and
// unrelated object references pass through Call's argument seeding
// untouched.
func (m *Memoizer) isNbtReference(v symval.Value) bool {
	if v.Kind == symval.KindTypedTag {
		return true
	}
	return m.Pins.IsCompound(v.ClassName) || m.Pins.IsList(v.ClassName)
}

// freshSeed picks the empty schema a callee's delta tag starts from,
// matching the shape of the caller's value: a list argument seeds a
// List(Any), everything else a fresh compound.
func (m *Memoizer) freshSeed(v symval.Value) schema.NbtElement {
	if tag, ok := v.AsTypedTag(); ok {
		if _, isList := tag.Nbt.(schema.List); isList {
			return schema.List{Inner: schema.Any{}}
		}
		return schema.NewCompound()
	}
	if m.Pins.IsList(v.ClassName) {
		return schema.List{Inner: schema.Any{}}
	}
	return schema.NewCompound()
}

// synthesizeBoxed builds the recursion stand-in: each compound-typed argument
// becomes Boxed(type-name-of(call)), and the return similarly if it would
// have been a compound.
func (m *Memoizer) synthesizeBoxed(call schema.MethodCall, args []symval.Value) *CallResult {
	name := call.BaseName()
	argsNbt := make([]schema.NbtElement, len(args))
	for i, a := range args {
		if looksLikeCompoundArg(a) {
			argsNbt[i] = schema.Boxed{Name: name}
		} else {
			argsNbt[i] = schema.Any{}
		}
	}
	var ret schema.NbtElement = schema.Any{}
	if m.returnsCompound(call.Pointer.Descriptor) {
		ret = schema.Boxed{Name: name}
	}
	return &CallResult{ArgsNbt: argsNbt, ReturnNbt: ret}
}

// synthesizeTextKeys implements the pinned TextSynthesis kludge: every
// compound-typed argument's delta is a fresh compound carrying the
// configured key set non-optionally, with no actual method body traced.
func (m *Memoizer) synthesizeTextKeys(args []symval.Value) *CallResult {
	argsNbt := make([]schema.NbtElement, len(args))
	for i, a := range args {
		if !m.isNbtReference(a) {
			argsNbt[i] = schema.Any{}
			continue
		}
		delta := schema.NewCompound()
		for _, key := range m.Pins.TextSynthesis.Keys {
			delta.Put(key, schema.Primitive{Kind: schema.KindString}, false)
		}
		argsNbt[i] = delta
	}
	return &CallResult{ArgsNbt: argsNbt, ReturnNbt: schema.Any{}}
}

func looksLikeCompoundArg(v symval.Value) bool {
	if tag, ok := v.AsTypedTag(); ok {
		switch tag.Nbt.(type) {
		case *schema.Compound, schema.Boxed, schema.AnyCompound:
			return true
		}
	}
	return false
}

// returnsCompound reports whether a method descriptor declares the pinned
// compound type as its return; used only when no runner frame is
// available to inspect (the recursion-hit case of step 3 has no enriched
// return value to consult yet).
func (m *Memoizer) returnsCompound(descriptor string) bool {
	return strings.HasSuffix(descriptor, ")L"+m.Pins.CompoundClass+";")
}

// passThroughResult is the empty effect served for an unresolvable call
// (missing class, abstract declaration): no argument deltas, an unknown
// return. The caller's live tags stay exactly as they were.
func passThroughResult(args []symval.Value) *CallResult {
	argsNbt := make([]schema.NbtElement, len(args))
	for i := range args {
		argsNbt[i] = schema.Any{}
	}
	return &CallResult{ArgsNbt: argsNbt, ReturnNbt: schema.Any{}}
}

// mergeReturns folds every observed return value with DifferentDataSet:
// multiple returns from one method are multiple datasets.
func mergeReturns(returnValues []symval.Value) (schema.NbtElement, error) {
	var acc schema.NbtElement = schema.Any{}
	for _, v := range returnValues {
		var elem schema.NbtElement = schema.Any{}
		if tag, ok := v.AsTypedTag(); ok {
			elem = tag.Nbt
		}
		merged, err := schema.Merge(acc, elem, schema.DifferentDataSet)
		if err != nil {
			return nil, err
		}
		acc = merged
	}
	return acc, nil
}

// resolveDeclared searches class and its superclass chain for a matching
// method, per the generic invoke path's non-virtual resolution.
func resolveDeclared(loader ClassSource, class *classfile.ClassFile, name, descriptor string) (classfile.Method, *classfile.ClassFile, bool) {
	for c := class; c != nil; {
		if m, ok := c.FindMethod(name, descriptor); ok {
			return m, c, true
		}
		if c.SuperName == "" {
			break
		}
		next, err := loader.Get(c.SuperName)
		if err != nil {
			break
		}
		c = next
	}
	return classfile.Method{}, nil, false
}

// resolveVirtual implements full virtual resolution: class and
// superclass chain first (resolveDeclared), then, only if that fails, a
// search over every super-interface transitively reachable from class
// for a unique non-abstract ("default") method with the same name and
// descriptor, following the JVM resolution order. If no candidate
// exists and class is itself an abstract class with no concrete
// declaration, this is the one allowed pass-through case; any other
// failure to resolve a unique target is a fatal
// VirtualResolutionFailureError.
func (m *Memoizer) resolveVirtual(class *classfile.ClassFile, ptr schema.MethodPointer) (classfile.Method, *classfile.ClassFile, bool, error) {
	if method, owner, ok := resolveDeclared(m.Loader, class, ptr.Name, ptr.Descriptor); ok {
		return method, owner, true, nil
	}

	candidates := m.maximallySpecificInterfaceMethods(class, ptr.Name, ptr.Descriptor)
	switch len(candidates) {
	case 1:
		return candidates[0].method, candidates[0].owner, true, nil
	case 0:
		if class.AccessFlags.Is(classfile.AccAbstract) {
			return classfile.Method{}, nil, false, nil
		}
		return classfile.Method{}, nil, false, &VirtualResolutionFailureError{
			ClassName: ptr.ClassName, Method: ptr.Name, Descriptor: ptr.Descriptor,
			Reason: "no declaration found in class, superclasses, or super-interfaces",
		}
	default:
		return classfile.Method{}, nil, false, &VirtualResolutionFailureError{
			ClassName: ptr.ClassName, Method: ptr.Name, Descriptor: ptr.Descriptor,
			Reason: fmt.Sprintf("%d conflicting non-abstract super-interface declarations, no unique maximally specific target", len(candidates)),
		}
	}
}

type ifaceMethod struct {
	method classfile.Method
	owner  *classfile.ClassFile
}

// maximallySpecificInterfaceMethods walks class's super-interface set
// transitively (the interfaces it declares, their superclass's
// interfaces, and each interface's own extended interfaces), collecting
// every distinct non-abstract (default) method matching name+descriptor.
// "Distinct" is by owning interface name: two interfaces inheriting the
// same default from a common ancestor are not a real conflict, but this
// walk only reaches the nearest declaration per branch, which is
// sufficient for the common single-default-source shape this analyzer's
// target API actually exhibits.
func (m *Memoizer) maximallySpecificInterfaceMethods(class *classfile.ClassFile, name, descriptor string) []ifaceMethod {
	seen := make(map[string]bool)
	var out []ifaceMethod
	byOwner := make(map[string]bool)

	var walkIface func(ifaceName string)
	walkIface = func(ifaceName string) {
		if seen[ifaceName] {
			return
		}
		seen[ifaceName] = true
		iface, err := m.Loader.Get(ifaceName)
		if err != nil {
			return
		}
		if meth, ok := iface.FindMethod(name, descriptor); ok && !meth.IsAbstract() && !meth.IsStatic() {
			if !byOwner[iface.Name] {
				byOwner[iface.Name] = true
				out = append(out, ifaceMethod{method: meth, owner: iface})
			}
			return // a found declaration shadows its own super-interfaces
		}
		for _, super := range iface.Interfaces {
			walkIface(super)
		}
	}

	for c := class; c != nil; {
		for _, ifaceName := range c.Interfaces {
			walkIface(ifaceName)
		}
		if c.SuperName == "" {
			break
		}
		next, err := m.Loader.Get(c.SuperName)
		if err != nil {
			break
		}
		c = next
	}
	return out
}

func (m *Memoizer) runStaticInitOnce(class *classfile.ClassFile) error {
	if m.staticInitRan[class.Name] {
		return nil
	}
	m.staticInitRan[class.Name] = true
	clinit, ok := class.FindMethod("<clinit>", "()V")
	if !ok || clinit.Code == nil {
		return nil
	}
	_, _, err := m.Runner.Run(class, clinit, nil, false)
	return err
}

// StaticKey builds the "class/field" key GETSTATIC/PUTSTATIC use.
func StaticKey(className, fieldName string) string {
	return fmt.Sprintf("%s/%s", className, fieldName)
}
