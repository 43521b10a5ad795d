package interp

import "github.com/nbtschema/inferencer/internal/symval"

// frame is the runner's single locals+stack pair. Wide values occupy
// their first local slot only; the phantom second slot stays a zero cell
// and is never read, which matches how the rest of the runner treats
// every stack cell as one slot wide.
type frame struct {
	locals []symval.Value
	stack  []symval.Value
}

func newFrame(maxLocals int) *frame {
	return &frame{locals: make([]symval.Value, maxLocals), stack: make([]symval.Value, 0, 16)}
}

func (f *frame) push(v symval.Value) {
	f.stack = append(f.stack, v)
}

func (f *frame) pop() symval.Value {
	if len(f.stack) == 0 {
		return symval.Plain("Ljava/lang/Object;", "")
	}
	v := f.stack[len(f.stack)-1]
	f.stack = f.stack[:len(f.stack)-1]
	return v
}

// popN pops n values in call order: popN(2) returns [below, top].
func (f *frame) popN(n int) []symval.Value {
	out := make([]symval.Value, n)
	for i := n - 1; i >= 0; i-- {
		out[i] = f.pop()
	}
	return out
}

// peek returns the value n slots below the top (peek(0) is top-of-stack).
func (f *frame) peek(n int) symval.Value {
	i := len(f.stack) - 1 - n
	if i < 0 {
		return symval.Plain("Ljava/lang/Object;", "")
	}
	return f.stack[i]
}

func (f *frame) local(i int) symval.Value {
	if i < 0 || i >= len(f.locals) {
		return symval.Plain("Ljava/lang/Object;", "")
	}
	return f.locals[i]
}

func (f *frame) setLocal(i int, v symval.Value) {
	if i < 0 {
		return
	}
	for i >= len(f.locals) {
		f.locals = append(f.locals, symval.Value{})
	}
	f.locals[i] = v
}

// snapshot copies the frame's locals and stack slices for the extra
// stack map: taken at every forward branch target. The cells themselves
// are copied by value, so their TypedTag, array-slot and lambda payloads
// stay shared with the live frame.
func (f *frame) snapshot() *frame {
	out := &frame{
		locals: append([]symval.Value(nil), f.locals...),
		stack:  append([]symval.Value(nil), f.stack...),
	}
	return out
}
