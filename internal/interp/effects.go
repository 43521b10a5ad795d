package interp

import "github.com/nbtschema/inferencer/internal/symval"

func isConstLoad(op byte) bool {
	return op == opAconstNull || (op >= opIconstM1 && op <= opDconst1) || op == opBipush || op == opSipush || op == opLdc || op == opLdcW || op == opLdc2W
}

func isLoad(op byte) bool {
	return (op >= opIload && op <= opAload) || (op >= opIload0 && op <= opAload3)
}

func isStore(op byte) bool {
	return (op >= opIstore && op <= opAstore) || (op >= opIstore0 && op <= opAstore3)
}

func isArrayLoad(op byte) bool {
	return op >= opIaload && op <= opSaload
}

func isArrayStore(op byte) bool {
	return op >= opIastore && op <= opSastore
}

func isStackOp(op byte) bool {
	return op >= opPop && op <= opSwap
}

func isBranch(op byte) bool {
	return (op >= opIfeq && op <= opJsr) || op == opIfnull || op == opIfnonnull || op == opGotoW || op == opJsrW
}

func isReturn(op byte) bool {
	return op >= opIreturn && op <= opReturn
}

// genericPops gives the operand-stack pop count for every opcode the
// runner has no special handling for (arithmetic, conversions,
// comparisons producing no NBT-relevant fact). Opcodes not listed pop
// zero and push nothing; genuinely 2-word operands (LCMP et al.) are
// rare enough in NBT-writing methods that the approximation of treating
// every cell as one slot is acceptable (see internal/interp doc comment
// on frame).
var genericPops = map[byte]int{
	0x60: 2, 0x61: 2, 0x62: 2, 0x63: 2, // iadd/ladd/fadd/dadd
	0x64: 2, 0x65: 2, 0x66: 2, 0x67: 2, // isub/lsub/fsub/dsub
	0x68: 2, 0x69: 2, 0x6a: 2, 0x6b: 2, // imul..dmul
	0x6c: 2, 0x6d: 2, 0x6e: 2, 0x6f: 2, // idiv..ddiv
	0x70: 2, 0x71: 2, 0x72: 2, 0x73: 2, // irem..drem
	0x74: 1, 0x75: 1, 0x76: 1, 0x77: 1, // ineg..dneg
	0x78: 2, 0x79: 2, 0x7a: 2, 0x7b: 2, 0x7c: 2, 0x7d: 2, // shl/shr/ushr
	0x7e: 2, 0x7f: 2, 0x80: 2, 0x81: 2, 0x82: 2, 0x83: 2, // and/or/xor
	0x94: 2, 0x95: 2, 0x96: 2, 0x97: 2, 0x98: 2, // lcmp/fcmpl/fcmpg/dcmpl/dcmpg
	0x85: 1, 0x86: 1, 0x87: 1, 0x88: 1, 0x89: 1, 0x8a: 1, // i2l..i2d, widening conversions
	0x8b: 1, 0x8c: 1, 0x8d: 1, 0x8e: 1, 0x8f: 1, 0x90: 1, 0x91: 1, 0x92: 1, 0x93: 1,
}

// applyGenericEffect pops genericPops[op] operands and pushes one plain
// "I" cell back for every listed opcode, whatever its real result type
// (conversions are never inspected for NBT content, only skipped
// correctly); unlisted opcodes pop and push nothing.
func applyGenericEffect(f *frame, op byte) {
	pops := genericPops[op]
	if pops == 0 {
		return
	}
	f.popN(pops)
	switch {
	case op >= 0x60 && op <= 0x73:
		// binary arithmetic: push one result back
		f.push(symval.Plain("I", ""))
	case op >= 0x74 && op <= 0x98:
		// unary neg, conversions, and comparisons: push one result back
		f.push(symval.Plain("I", ""))
	}
}
