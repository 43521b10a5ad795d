package classfile

// ClassFile is the parsed shape of a single .class file: enough of it to
// drive symbolic execution of its methods. Fields not needed by the
// interpreter (source file debug info, unused attributes) are discarded
// during Parse rather than retained.
type ClassFile struct {
	Pool *ConstantPool

	Name       string // internal name, e.g. "a/b/C"
	SuperName  string // "" for java/lang/Object
	Interfaces []string

	AccessFlags AccessFlags

	Fields  []Field
	Methods []Method

	// BootstrapMethods backs invokedynamic resolution.
	BootstrapMethods []BootstrapMethod
}

type AccessFlags uint16

const (
	AccPublic     AccessFlags = 0x0001
	AccFinal      AccessFlags = 0x0010
	AccSuper      AccessFlags = 0x0020
	AccInterface  AccessFlags = 0x0200
	AccAbstract   AccessFlags = 0x0400
	AccSynthetic  AccessFlags = 0x1000
	AccAnnotation AccessFlags = 0x2000
	AccEnum       AccessFlags = 0x4000
	AccStatic     AccessFlags = 0x0008
)

func (f AccessFlags) Is(bit AccessFlags) bool { return f&bit != 0 }

type Field struct {
	AccessFlags AccessFlags
	Name        string
	Descriptor  string
}

// Method holds a method's signature plus its Code attribute contents
// (instructions, exception table, stack map table) when present. Native
// and abstract methods have a nil Code.
type Method struct {
	AccessFlags AccessFlags
	Name        string
	Descriptor  string

	Code *CodeAttribute
}

// IsStatic reports whether the method is declared static.
func (m Method) IsStatic() bool { return m.AccessFlags.Is(AccStatic) }

// IsAbstract reports whether the method has no body.
func (m Method) IsAbstract() bool { return m.AccessFlags.Is(AccAbstract) }

// CodeAttribute is the subset of the JVM "Code" attribute the interpreter
// consumes: raw bytecode plus the stack-map-table attribute converted to
// absolute form.
type CodeAttribute struct {
	MaxStack  int
	MaxLocals int
	Code      []byte

	// StackMapTable maps a bytecode offset to the declared frame at that
	// offset, already converted from the class file's diff-encoded form
	// (same_frame, append_frame, full_frame, ...) to an absolute list of
	// verification types for locals and stack.
	StackMapTable map[int]StackMapFrame
}

// VerificationType is the stack-map-table's abstract type for one local or
// stack slot. Only the variants the interpreter needs to resynchronize on
// are modeled; Top/Long2/Double2 padding slots collapse into VTTop.
type VerificationType struct {
	Kind VerificationKind
	// ClassName is populated for VTObject (internal name) only. VTUninitialized
	// carries no class name and drops the `new` instruction offset, since the
	// interpreter never executes <init> bodies for the
	// new/dup/invokespecial<init> triple directly.
	ClassName string
}

type VerificationKind byte

const (
	VTTop VerificationKind = iota
	VTInteger
	VTFloat
	VTDouble
	VTLong
	VTNull
	VTUninitializedThis
	VTObject
	VTUninitialized
)

// StackMapFrame is the declared abstract frame at one bytecode offset.
type StackMapFrame struct {
	Locals []VerificationType
	Stack  []VerificationType
}

// BootstrapMethod is one row of the BootstrapMethods attribute, resolved
// enough to support the standard LambdaMetafactory shape: the method
// handle plus its static arguments.
type BootstrapMethod struct {
	// MethodHandleKind mirrors ReferenceKind from the constant pool entry
	// the bootstrap method handle points at (6 = invokestatic).
	MethodHandleKind byte
	// Owner/Name/Descriptor identify the bootstrap method itself (almost
	// always the LambdaMetafactory façade); not needed once we've
	// recognized the shape, kept for diagnostics.
	Owner, Name, Descriptor string

	// Arguments are the resolved bootstrap arguments. For the lambda
	// metafactory shape, index 1 is the backing implementation method
	// handle and index 2 is the lambda's erased+actual descriptor.
	Arguments []BootstrapArgument
}

// BootstrapArgument is one loadable constant pool entry referenced from a
// bootstrap method's argument list.
type BootstrapArgument struct {
	Tag ConstantTag

	// For TagMethodHandle arguments (the common case: the lambda body).
	MethodHandleKind byte
	OwnerClass       string
	MemberName       string
	MemberDescriptor string
	IsInterfaceRef   bool

	// For TagMethodType / TagString / TagClass arguments.
	Descriptor string
	StringVal  string
	ClassVal   string
}

// FindMethod looks up a declared method by name+descriptor. It does not
// search superclasses; callers resolve the class hierarchy via a Loader.
func (c *ClassFile) FindMethod(name, descriptor string) (Method, bool) {
	for _, m := range c.Methods {
		if m.Name == name && m.Descriptor == descriptor {
			return m, true
		}
	}
	return Method{}, false
}
