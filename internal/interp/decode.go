package interp

import "github.com/nbtschema/inferencer/internal/schema"

// cursor reads fixed-width big-endian operands out of a method's raw code
// array, matching the JVM class file's instruction encoding.
type cursor struct {
	code []byte
	pc   int
}

func (c *cursor) u1() (byte, error) {
	if c.pc >= len(c.code) {
		return 0, malformed("truncated instruction")
	}
	b := c.code[c.pc]
	c.pc++
	return b, nil
}

func (c *cursor) s1() (int8, error) {
	b, err := c.u1()
	return int8(b), err
}

func (c *cursor) u2At(pc int) (int, error) {
	if pc+1 >= len(c.code) {
		return 0, malformed("truncated instruction")
	}
	return int(c.code[pc])<<8 | int(c.code[pc+1]), nil
}

func (c *cursor) u2() (int, error) {
	v, err := c.u2At(c.pc)
	if err != nil {
		return 0, err
	}
	c.pc += 2
	return v, nil
}

func (c *cursor) s2() (int16, error) {
	v, err := c.u2()
	return int16(v), err
}

func (c *cursor) s4() (int32, error) {
	if c.pc+3 >= len(c.code) {
		return 0, malformed("truncated instruction")
	}
	v := int32(c.code[c.pc])<<24 | int32(c.code[c.pc+1])<<16 | int32(c.code[c.pc+2])<<8 | int32(c.code[c.pc+3])
	c.pc += 4
	return v, nil
}

func malformed(reason string) error {
	return schema.NewInvariantBrokenError(reason)
}

// instrLength returns the total length in bytes (opcode plus operands) of
// the instruction starting at pc, including the padding and operand table
// of the variable-length switch instructions and the doubled operand width
// of a wide-prefixed instruction.
func instrLength(code []byte, pc int) (int, error) {
	if pc >= len(code) {
		return 0, malformed("pc past end of code")
	}
	op := code[pc]
	switch op {
	case opTableswitch:
		pad := (4 - (pc+1)%4) % 4
		base := pc + 1 + pad
		if base+12 > len(code) {
			return 0, malformed("truncated tableswitch")
		}
		low := be32(code, base+4)
		high := be32(code, base+8)
		n := int(high-low) + 1
		if n < 0 {
			return 0, malformed("invalid tableswitch range")
		}
		return (base + 12 + 4*n) - pc, nil
	case opLookupswitch:
		pad := (4 - (pc+1)%4) % 4
		base := pc + 1 + pad
		if base+8 > len(code) {
			return 0, malformed("truncated lookupswitch")
		}
		n := int(be32(code, base+4))
		if n < 0 {
			return 0, malformed("invalid lookupswitch count")
		}
		return (base + 8 + 8*n) - pc, nil
	case opWide:
		if pc+1 >= len(code) {
			return 0, malformed("truncated wide instruction")
		}
		if code[pc+1] == opIinc {
			return 6, nil
		}
		return 4, nil
	case opMultianewarray:
		return 4, nil
	}
	if n, ok := fixedLengths[op]; ok {
		return n, nil
	}
	return 1, nil
}

func be32(code []byte, i int) int32 {
	return int32(code[i])<<24 | int32(code[i+1])<<16 | int32(code[i+2])<<8 | int32(code[i+3])
}

// fixedLengths gives the total instruction length (including the opcode
// byte) for every opcode whose operand width is fixed. Opcodes not listed
// here, and not one of the variable-length forms above, are single-byte.
var fixedLengths = map[byte]int{
	opBipush: 2, opSipush: 3,
	opLdc: 2, opLdcW: 3, opLdc2W: 3,
	opIload: 2, opLload: 2, opFload: 2, opDload: 2, opAload: 2,
	opIstore: 2, opLstore: 2, opFstore: 2, opDstore: 2, opAstore: 2,
	opRet: 2,
	opIfeq: 3, opIfne: 3, opIflt: 3, opIfge: 3, opIfgt: 3, opIfle: 3,
	opIfIcmpeq: 3, opIfIcmpne: 3, opIfIcmplt: 3, opIfIcmpge: 3, opIfIcmpgt: 3, opIfIcmple: 3,
	opIfAcmpeq: 3, opIfAcmpne: 3, opGoto: 3, opJsr: 3,
	opIfnull: 3, opIfnonnull: 3,
	opGotoW: 5, opJsrW: 5,
	opGetstatic: 3, opPutstatic: 3, opGetfield: 3, opPutfield: 3,
	opInvokevirtual: 3, opInvokespecial: 3, opInvokestatic: 3,
	opInvokeinterface: 5, opInvokedynamic: 5,
	opNew: 3, opNewarray: 2, opAnewarray: 3, opCheckcast: 3, opInstanceof: 3,
	opIinc: 3,
}
