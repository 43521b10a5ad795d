package interp

// execReturn appends the method's observed return value (or nothing, for
// void) to the runner's returnValues list.
func (r *Runner) execReturn(ctx *execCtx, op byte) {
	if op == opReturn {
		return
	}
	v := ctx.f.pop()
	ctx.returnValues = append(ctx.returnValues, v)
}
