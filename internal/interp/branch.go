package interp

import "github.com/nbtschema/inferencer/internal/symval"

// execBranch handles every branch instruction. The walk never actually
// jumps; what matters here is popping the correct number of condition
// operands and, for forward branches, snapshotting the live frame at
// the target offset and raising every currently-live TypedTag's
// optionalUntil so that writes made between here and the target are
// recorded as optional.
func (r *Runner) execBranch(ctx *execCtx, op byte, pc int, c *cursor) error {
	var offset int32
	if op == opGotoW || op == opJsrW {
		v, err := c.s4()
		if err != nil {
			return err
		}
		offset = v
	} else {
		v, err := c.s2()
		if err != nil {
			return err
		}
		offset = int32(v)
	}

	switch {
	case op == opGoto || op == opGotoW || op == opJsr || op == opJsrW:
		// no operand to pop
	case op == opIfnull || op == opIfnonnull:
		ctx.f.pop()
	case op >= opIfeq && op <= opIfle:
		ctx.f.pop()
	default:
		// if_icmp*/if_acmp* family: two operands
		ctx.f.popN(2)
	}

	target := pc + int(offset)
	if target > pc {
		raiseAllOptional(ctx.f, target)
		ctx.extra[target] = ctx.f.snapshot()
	}
	return nil
}

// raiseAllOptional raises the optionalUntil of every TypedTag reachable
// from the frame's locals and stack.
func raiseAllOptional(f *frame, target int) {
	for i, v := range f.locals {
		f.locals[i] = symval.RaiseOptionalUntil(v, target)
	}
	for i, v := range f.stack {
		f.stack[i] = symval.RaiseOptionalUntil(v, target)
	}
}
