package memo

import (
	"testing"

	"github.com/nbtschema/inferencer/internal/classfile"
	"github.com/nbtschema/inferencer/internal/classloader"
	"github.com/nbtschema/inferencer/internal/pins"
	"github.com/nbtschema/inferencer/internal/schema"
	"github.com/nbtschema/inferencer/internal/symval"
)

type fakeClasses map[string]*classfile.ClassFile

func (f fakeClasses) Get(name string) (*classfile.ClassFile, error) {
	cf, ok := f[name]
	if !ok {
		return nil, classloader.NewClassNotFoundError(name)
	}
	return cf, nil
}

func testPins() *pins.Pins {
	p := pins.Default()
	p.CompoundClass = "t/Compound"
	return p
}

func compoundArg() symval.Value {
	return symval.Plain("Lt/Compound;", "t/Compound")
}

// fakeRunner lets tests control exactly what a call "observes" without a
// real bytecode interpreter.
type fakeRunner struct {
	run func(class *classfile.ClassFile, method classfile.Method, locals []symval.Value, ignoreSuper bool) ([]symval.Value, []symval.Value, error)
}

func (r *fakeRunner) Run(class *classfile.ClassFile, method classfile.Method, locals []symval.Value, ignoreSuper bool) ([]symval.Value, []symval.Value, error) {
	return r.run(class, method, locals, ignoreSuper)
}

func methodClass(name, methodName, descriptor string) *classfile.ClassFile {
	return &classfile.ClassFile{
		Name: name,
		Methods: []classfile.Method{
			{Name: methodName, Descriptor: descriptor, Code: &classfile.CodeAttribute{}},
		},
	}
}

func TestCallPassThroughForMissingClass(t *testing.T) {
	m := New(fakeClasses{}, testPins())
	ptr := schema.MethodPointer{ClassName: "missing/Class", Name: "save", Descriptor: "(Lt/Compound;)V"}
	res, err := m.Call(ptr, []symval.Value{compoundArg()}, false, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := res.ReturnNbt.(schema.Any); !ok {
		t.Errorf("pass-through result should have Any return, got %v", res.ReturnNbt)
	}
}

func TestCallMemoizesResultAcrossRepeatedCalls(t *testing.T) {
	classes := fakeClasses{"t/Foo": methodClass("t/Foo", "save", "(Lt/Compound;)V")}
	calls := 0
	runner := &fakeRunner{run: func(class *classfile.ClassFile, method classfile.Method, locals []symval.Value, ignoreSuper bool) ([]symval.Value, []symval.Value, error) {
		calls++
		return nil, locals, nil
	}}
	m := New(classes, testPins())
	m.Runner = runner

	ptr := schema.MethodPointer{ClassName: "t/Foo", Name: "save", Descriptor: "(Lt/Compound;)V"}
	if _, err := m.Call(ptr, []symval.Value{compoundArg()}, false, false); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if _, err := m.Call(ptr, []symval.Value{compoundArg()}, false, false); err != nil {
		t.Fatalf("second call: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected the runner to be invoked once (memoized on the second call), got %d", calls)
	}
}

// TestCallDetectsRecursion covers direct recursion: a method
// that (through its runner) calls itself reachably must be flagged
// boxed, and must not recurse forever.
func TestCallDetectsRecursion(t *testing.T) {
	classes := fakeClasses{"t/Foo": methodClass("t/Foo", "save", "(Lt/Compound;)V")}
	ptr := schema.MethodPointer{ClassName: "t/Foo", Name: "save", Descriptor: "(Lt/Compound;)V"}

	m := New(classes, testPins())
	var innerResult *CallResult
	runner := &fakeRunner{run: func(class *classfile.ClassFile, method classfile.Method, locals []symval.Value, ignoreSuper bool) ([]symval.Value, []symval.Value, error) {
		var err error
		innerResult, err = m.Call(ptr, locals, false, false)
		if err != nil {
			return nil, nil, err
		}
		return nil, locals, nil
	}}
	m.Runner = runner

	call := schema.MethodCall{Pointer: ptr, ErasedArgs: []string{symval.Erase(compoundArg())}}
	if _, err := m.Call(ptr, []symval.Value{compoundArg()}, false, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.IsBoxed(call) {
		t.Errorf("expected recursive call to be flagged boxed")
	}
	if innerResult == nil {
		t.Fatalf("inner recursive call never ran")
	}
	if _, ok := innerResult.ArgsNbt[0].(schema.Boxed); !ok {
		t.Errorf("recursive call's arg should be Boxed, got %T", innerResult.ArgsNbt[0])
	}
	if len(m.active) != 0 {
		t.Errorf("active call stack should be empty after the top-level call completes, got %d entries", len(m.active))
	}
}

func TestCallResolvesUniqueDefaultInterfaceMethod(t *testing.T) {
	classes := fakeClasses{
		"t/Impl": {Name: "t/Impl", Interfaces: []string{"t/Saveable"}},
		"t/Saveable": {
			Name:        "t/Saveable",
			AccessFlags: classfile.AccInterface,
			Methods: []classfile.Method{
				{Name: "save", Descriptor: "(Lt/Compound;)V", Code: &classfile.CodeAttribute{}},
			},
		},
	}
	m := New(classes, testPins())
	ran := false
	m.Runner = &fakeRunner{run: func(class *classfile.ClassFile, method classfile.Method, locals []symval.Value, ignoreSuper bool) ([]symval.Value, []symval.Value, error) {
		ran = true
		if class.Name != "t/Saveable" {
			t.Errorf("expected resolution to land on t/Saveable, got %s", class.Name)
		}
		return nil, locals, nil
	}}

	ptr := schema.MethodPointer{ClassName: "t/Impl", Name: "save", Descriptor: "(Lt/Compound;)V"}
	if _, err := m.Call(ptr, []symval.Value{compoundArg()}, false, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ran {
		t.Errorf("expected the default interface method to be run")
	}
}

func TestCallPassThroughForAbstractClassWithNoResolution(t *testing.T) {
	classes := fakeClasses{
		"t/Abstract": {Name: "t/Abstract", AccessFlags: classfile.AccAbstract},
	}
	m := New(classes, testPins())
	ptr := schema.MethodPointer{ClassName: "t/Abstract", Name: "save", Descriptor: "(Lt/Compound;)V"}
	res, err := m.Call(ptr, []symval.Value{compoundArg()}, false, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := res.ReturnNbt.(schema.Any); !ok {
		t.Errorf("pass-through result should have Any return, got %v", res.ReturnNbt)
	}
}

func TestCallFailsVirtualResolutionForConcreteClassWithNoDeclaration(t *testing.T) {
	classes := fakeClasses{
		"t/Concrete": {Name: "t/Concrete"},
	}
	m := New(classes, testPins())
	ptr := schema.MethodPointer{ClassName: "t/Concrete", Name: "save", Descriptor: "(Lt/Compound;)V"}
	_, err := m.Call(ptr, []symval.Value{compoundArg()}, false, false)
	if err == nil {
		t.Fatalf("expected a VirtualResolutionFailureError, got nil")
	}
	if _, ok := err.(*VirtualResolutionFailureError); !ok {
		t.Errorf("expected *VirtualResolutionFailureError, got %T: %v", err, err)
	}
}

func TestStaticInitRunsOnce(t *testing.T) {
	classes := fakeClasses{
		"t/Foo": {
			Name: "t/Foo",
			Methods: []classfile.Method{
				{Name: "<clinit>", Descriptor: "()V", Code: &classfile.CodeAttribute{}},
				{Name: "save", Descriptor: "(Lt/Compound;)V", Code: &classfile.CodeAttribute{}},
			},
		},
	}
	clinitRuns := 0
	m := New(classes, testPins())
	runner := &fakeRunner{run: func(class *classfile.ClassFile, method classfile.Method, locals []symval.Value, ignoreSuper bool) ([]symval.Value, []symval.Value, error) {
		if method.Name == "<clinit>" {
			clinitRuns++
		}
		return nil, locals, nil
	}}
	m.Runner = runner

	ptr := schema.MethodPointer{ClassName: "t/Foo", Name: "save", Descriptor: "(Lt/Compound;)V"}
	if _, err := m.Call(ptr, []symval.Value{compoundArg()}, false, false); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if _, err := m.Call(ptr, []symval.Value{compoundArg()}, true, false); err != nil {
		t.Fatalf("second call: %v", err)
	}
	if clinitRuns != 1 {
		t.Errorf("expected <clinit> to run exactly once, ran %d times", clinitRuns)
	}
}
