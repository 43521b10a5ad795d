package interp

// execStackOp implements the generic stack-shuffling opcodes. Category-2
// (long/double) width nuances are not distinguished; every cell is
// treated as occupying one stack slot, which is a sound approximation
// here since these opcodes never touch NBT-relevant values directly
// (compilers only emit them around primitive math and lock/try-finally
// bookkeeping).
func execStackOp(f *frame, op byte) {
	switch op {
	case opPop:
		f.pop()
	case opPop2:
		f.popN(2)
	case opDup:
		f.push(f.peek(0))
	case opDupX1:
		b := f.popN(2) // [v2, v1]
		f.push(b[1])
		f.push(b[0])
		f.push(b[1])
	case opDupX2:
		b := f.popN(3) // [v3, v2, v1]
		f.push(b[2])
		f.push(b[0])
		f.push(b[1])
		f.push(b[2])
	case opDup2:
		b := f.popN(2) // [v2, v1]
		f.push(b[0])
		f.push(b[1])
		f.push(b[0])
		f.push(b[1])
	case opDup2X1:
		b := f.popN(3) // [v3, v2, v1]
		f.push(b[1])
		f.push(b[2])
		f.push(b[0])
		f.push(b[1])
		f.push(b[2])
	case opDup2X2:
		b := f.popN(4) // [v4, v3, v2, v1]
		f.push(b[2])
		f.push(b[3])
		f.push(b[0])
		f.push(b[1])
		f.push(b[2])
		f.push(b[3])
	case opSwap:
		b := f.popN(2) // [v2, v1]
		f.push(b[1])
		f.push(b[0])
	}
}
