package classfile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// ErrMalformed is returned when a class file's bytes are structurally
// invalid (bad magic, truncated pool, unrecognized stack-map frame tag).
// Always fatal: a class that doesn't parse can't be symbolically
// executed at all.
type ErrMalformed struct {
	Reason string
}

func (e *ErrMalformed) Error() string {
	return fmt.Sprintf("malformed class file: %s", e.Reason)
}

const classMagic = 0xCAFEBABE

type reader struct {
	r   *bytes.Reader
	buf []byte
}

func newReader(data []byte) *reader {
	return &reader{r: bytes.NewReader(data), buf: make([]byte, 8)}
}

func (r *reader) u1() (byte, error) {
	if _, err := io.ReadFull(r.r, r.buf[:1]); err != nil {
		return 0, err
	}
	return r.buf[0], nil
}

func (r *reader) u2() (uint16, error) {
	if _, err := io.ReadFull(r.r, r.buf[:2]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(r.buf[:2]), nil
}

func (r *reader) u4() (uint32, error) {
	if _, err := io.ReadFull(r.r, r.buf[:4]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(r.buf[:4]), nil
}

func (r *reader) bytesN(n int) ([]byte, error) {
	out := make([]byte, n)
	if n == 0 {
		return out, nil
	}
	if _, err := io.ReadFull(r.r, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *reader) skip(n int) error {
	if n > r.r.Len() {
		return io.ErrUnexpectedEOF
	}
	_, err := r.r.Seek(int64(n), io.SeekCurrent)
	return err
}

// Parse decodes a .class file's bytes into a ClassFile. It is deliberately
// not a fully general-purpose verifier: attributes the interpreter never
// consults (LineNumberTable, LocalVariableTable, SourceFile, annotations,
// ...) are skipped by their declared length rather than decoded.
func Parse(data []byte) (*ClassFile, error) {
	r := newReader(data)

	magic, err := r.u4()
	if err != nil {
		return nil, &ErrMalformed{Reason: "truncated header"}
	}
	if magic != classMagic {
		return nil, &ErrMalformed{Reason: "bad magic number"}
	}
	if _, err := r.u2(); err != nil { // minor version
		return nil, &ErrMalformed{Reason: "truncated version"}
	}
	if _, err := r.u2(); err != nil { // major version
		return nil, &ErrMalformed{Reason: "truncated version"}
	}

	poolCount, err := r.u2()
	if err != nil {
		return nil, &ErrMalformed{Reason: "truncated constant pool count"}
	}
	pool := newConstantPool(int(poolCount))
	if err := readConstantPool(r, pool, int(poolCount)); err != nil {
		return nil, err
	}

	accessFlags, err := r.u2()
	if err != nil {
		return nil, &ErrMalformed{Reason: "truncated access flags"}
	}
	thisIdx, err := r.u2()
	if err != nil {
		return nil, &ErrMalformed{Reason: "truncated this_class"}
	}
	superIdx, err := r.u2()
	if err != nil {
		return nil, &ErrMalformed{Reason: "truncated super_class"}
	}

	cf := &ClassFile{
		Pool:        pool,
		AccessFlags: AccessFlags(accessFlags),
		Name:        pool.ClassNameAt(int(thisIdx)),
		SuperName:   pool.ClassNameAt(int(superIdx)),
	}

	ifaceCount, err := r.u2()
	if err != nil {
		return nil, &ErrMalformed{Reason: "truncated interfaces count"}
	}
	for i := 0; i < int(ifaceCount); i++ {
		idx, err := r.u2()
		if err != nil {
			return nil, &ErrMalformed{Reason: "truncated interfaces"}
		}
		cf.Interfaces = append(cf.Interfaces, pool.ClassNameAt(int(idx)))
	}

	fieldCount, err := r.u2()
	if err != nil {
		return nil, &ErrMalformed{Reason: "truncated fields count"}
	}
	for i := 0; i < int(fieldCount); i++ {
		f, err := readField(r, pool)
		if err != nil {
			return nil, err
		}
		cf.Fields = append(cf.Fields, f)
	}

	methodCount, err := r.u2()
	if err != nil {
		return nil, &ErrMalformed{Reason: "truncated methods count"}
	}
	for i := 0; i < int(methodCount); i++ {
		m, err := readMethod(r, pool, cf.Name)
		if err != nil {
			return nil, err
		}
		cf.Methods = append(cf.Methods, m)
	}

	attrCount, err := r.u2()
	if err != nil {
		return nil, &ErrMalformed{Reason: "truncated class attributes count"}
	}
	for i := 0; i < int(attrCount); i++ {
		name, payload, err := readAttribute(r, pool)
		if err != nil {
			return nil, err
		}
		if name == "BootstrapMethods" {
			bms, err := parseBootstrapMethods(payload, pool)
			if err != nil {
				return nil, err
			}
			cf.BootstrapMethods = bms
		}
	}

	return cf, nil
}

func readConstantPool(r *reader, pool *ConstantPool, count int) error {
	for i := 1; i < count; i++ {
		tagByte, err := r.u1()
		if err != nil {
			return &ErrMalformed{Reason: "truncated constant pool entry"}
		}
		c := Constant{Tag: ConstantTag(tagByte)}
		switch c.Tag {
		case TagUTF8:
			length, err := r.u2()
			if err != nil {
				return &ErrMalformed{Reason: "truncated UTF8 length"}
			}
			raw, err := r.bytesN(int(length))
			if err != nil {
				return &ErrMalformed{Reason: "truncated UTF8 bytes"}
			}
			c.UTF8 = string(raw)
		case TagInteger, TagFloat:
			v, err := r.u4()
			if err != nil {
				return &ErrMalformed{Reason: "truncated numeric constant"}
			}
			c.Int32 = int32(v)
		case TagLong, TagDouble:
			hi, err := r.u4()
			if err != nil {
				return &ErrMalformed{Reason: "truncated wide constant"}
			}
			lo, err := r.u4()
			if err != nil {
				return &ErrMalformed{Reason: "truncated wide constant"}
			}
			c.Int64 = int64(hi)<<32 | int64(lo)
			pool.set(i, c)
			i++ // Long/Double occupy two pool slots.
			continue
		case TagClass, TagString, TagMethodType, TagModule, TagPackage:
			idx, err := r.u2()
			if err != nil {
				return &ErrMalformed{Reason: "truncated name index"}
			}
			c.NameIndex = int(idx)
		case TagFieldref, TagMethodref, TagInterfaceMethodref:
			ci, err := r.u2()
			if err != nil {
				return &ErrMalformed{Reason: "truncated ref"}
			}
			nt, err := r.u2()
			if err != nil {
				return &ErrMalformed{Reason: "truncated ref"}
			}
			c.ClassIndex, c.NameAndTypeIndex = int(ci), int(nt)
		case TagNameAndType:
			ni, err := r.u2()
			if err != nil {
				return &ErrMalformed{Reason: "truncated name-and-type"}
			}
			di, err := r.u2()
			if err != nil {
				return &ErrMalformed{Reason: "truncated name-and-type"}
			}
			c.NameIndex, c.DescriptorIndex = int(ni), int(di)
		case TagMethodHandle:
			kind, err := r.u1()
			if err != nil {
				return &ErrMalformed{Reason: "truncated method handle"}
			}
			idx, err := r.u2()
			if err != nil {
				return &ErrMalformed{Reason: "truncated method handle"}
			}
			c.ReferenceKind, c.ReferenceIndex = kind, int(idx)
		case TagDynamic, TagInvokeDynamic:
			bmIdx, err := r.u2()
			if err != nil {
				return &ErrMalformed{Reason: "truncated dynamic constant"}
			}
			nt, err := r.u2()
			if err != nil {
				return &ErrMalformed{Reason: "truncated dynamic constant"}
			}
			c.BootstrapMethodAttrIndex, c.NameAndTypeIndex = int(bmIdx), int(nt)
		default:
			return &ErrMalformed{Reason: fmt.Sprintf("unknown constant tag %d", tagByte)}
		}
		pool.set(i, c)
	}
	return nil
}

func readField(r *reader, pool *ConstantPool) (Field, error) {
	flags, err := r.u2()
	if err != nil {
		return Field{}, &ErrMalformed{Reason: "truncated field"}
	}
	nameIdx, err := r.u2()
	if err != nil {
		return Field{}, &ErrMalformed{Reason: "truncated field"}
	}
	descIdx, err := r.u2()
	if err != nil {
		return Field{}, &ErrMalformed{Reason: "truncated field"}
	}
	f := Field{
		AccessFlags: AccessFlags(flags),
		Name:        pool.UTF8At(int(nameIdx)),
		Descriptor:  pool.UTF8At(int(descIdx)),
	}
	attrCount, err := r.u2()
	if err != nil {
		return Field{}, &ErrMalformed{Reason: "truncated field attributes"}
	}
	for i := 0; i < int(attrCount); i++ {
		if _, _, err := readAttribute(r, pool); err != nil {
			return Field{}, err
		}
	}
	return f, nil
}

func readMethod(r *reader, pool *ConstantPool, thisClass string) (Method, error) {
	flags, err := r.u2()
	if err != nil {
		return Method{}, &ErrMalformed{Reason: "truncated method"}
	}
	nameIdx, err := r.u2()
	if err != nil {
		return Method{}, &ErrMalformed{Reason: "truncated method"}
	}
	descIdx, err := r.u2()
	if err != nil {
		return Method{}, &ErrMalformed{Reason: "truncated method"}
	}
	m := Method{
		AccessFlags: AccessFlags(flags),
		Name:        pool.UTF8At(int(nameIdx)),
		Descriptor:  pool.UTF8At(int(descIdx)),
	}
	attrCount, err := r.u2()
	if err != nil {
		return Method{}, &ErrMalformed{Reason: "truncated method attributes"}
	}
	for i := 0; i < int(attrCount); i++ {
		name, payload, err := readAttribute(r, pool)
		if err != nil {
			return Method{}, err
		}
		if name == "Code" {
			initial := initialFrameLocals(thisClass, m.Descriptor, m.IsStatic())
			code, err := parseCodeAttribute(payload, pool, initial)
			if err != nil {
				return Method{}, err
			}
			m.Code = code
		}
	}
	return m, nil
}

// readAttribute reads one generic attribute_info entry and returns its name
// and raw payload bytes, having consumed exactly length+6 bytes.
func readAttribute(r *reader, pool *ConstantPool) (string, []byte, error) {
	nameIdx, err := r.u2()
	if err != nil {
		return "", nil, &ErrMalformed{Reason: "truncated attribute name"}
	}
	length, err := r.u4()
	if err != nil {
		return "", nil, &ErrMalformed{Reason: "truncated attribute length"}
	}
	payload, err := r.bytesN(int(length))
	if err != nil {
		return "", nil, &ErrMalformed{Reason: "truncated attribute body"}
	}
	return pool.UTF8At(int(nameIdx)), payload, nil
}

func parseCodeAttribute(payload []byte, pool *ConstantPool, initialLocals []VerificationType) (*CodeAttribute, error) {
	r := newReader(payload)
	maxStack, err := r.u2()
	if err != nil {
		return nil, &ErrMalformed{Reason: "truncated Code attribute"}
	}
	maxLocals, err := r.u2()
	if err != nil {
		return nil, &ErrMalformed{Reason: "truncated Code attribute"}
	}
	codeLen, err := r.u4()
	if err != nil {
		return nil, &ErrMalformed{Reason: "truncated Code attribute"}
	}
	code, err := r.bytesN(int(codeLen))
	if err != nil {
		return nil, &ErrMalformed{Reason: "truncated bytecode"}
	}

	excCount, err := r.u2()
	if err != nil {
		return nil, &ErrMalformed{Reason: "truncated exception table count"}
	}
	if err := r.skip(int(excCount) * 8); err != nil {
		return nil, &ErrMalformed{Reason: "truncated exception table"}
	}

	ca := &CodeAttribute{MaxStack: int(maxStack), MaxLocals: int(maxLocals), Code: code}

	attrCount, err := r.u2()
	if err != nil {
		return nil, &ErrMalformed{Reason: "truncated Code attributes count"}
	}
	for i := 0; i < int(attrCount); i++ {
		name, sub, err := readAttribute(r, pool)
		if err != nil {
			return nil, err
		}
		if name == "StackMapTable" {
			smt, err := parseStackMapTable(sub, pool, initialLocals)
			if err != nil {
				return nil, err
			}
			ca.StackMapTable = smt
		}
	}
	return ca, nil
}
