package interp

import (
	"fmt"

	"github.com/nbtschema/inferencer/internal/classfile"
	"github.com/nbtschema/inferencer/internal/memo"
	"github.com/nbtschema/inferencer/internal/pins"
	"github.com/nbtschema/inferencer/internal/symval"
)

// Runner is the per-invocation symbolic executor: it implements
// memo.Runner, making nested calls back through Memo, and consults
// Pins/Loader to recognize the target API's well-known façade methods
// and resolve virtual call targets.
type Runner struct {
	Memo   *memo.Memoizer
	Loader memo.ClassSource
	Pins   *pins.Pins
}

// New builds a Runner. Callers must assign the returned Runner to
// memo.Memoizer, since the Memoizer and Runner reference each other.
func New(m *memo.Memoizer, loader memo.ClassSource, p *pins.Pins) *Runner {
	return &Runner{Memo: m, Loader: loader, Pins: p}
}

// execCtx is the state threaded through one method's instruction walk: the
// owning class (for constant pool lookups), the method itself (for
// ignoreSuper's self-call check), and the running frame/stack-map state.
type execCtx struct {
	class *classfile.ClassFile
	pool  *classfile.ConstantPool
	code  *classfile.CodeAttribute

	f     *frame
	extra map[int]*frame

	// methodName/methodDescriptor identify the method currently executing,
	// consulted only by the ignoreSuper self-call check on INVOKESPECIAL.
	methodName       string
	methodDescriptor string

	ignoreSuper  bool
	returnValues []symval.Value
}

// Run walks method's instructions in address order from a frame seeded
// with seededLocals, reconciling against the declared stack map at every
// join point, and returns the observed return values plus the
// post-execution contents of the seeded argument locals.
func (r *Runner) Run(class *classfile.ClassFile, method classfile.Method, seededLocals []symval.Value, ignoreSuper bool) ([]symval.Value, []symval.Value, error) {
	if method.Code == nil {
		return nil, seededLocals, nil
	}
	f := newFrame(method.Code.MaxLocals)
	slots := make([]int, len(seededLocals))
	slot := 0
	for i, v := range seededLocals {
		slots[i] = slot
		f.setLocal(slot, v)
		slot += slotWidth(v)
	}

	ctx := &execCtx{
		class:            class,
		pool:             class.Pool,
		code:             method.Code,
		f:                f,
		extra:            make(map[int]*frame),
		methodName:       method.Name,
		methodDescriptor: method.Descriptor,
		ignoreSuper:      ignoreSuper,
	}

	code := method.Code.Code
	pc := 0
	for pc < len(code) {
		if declared, ok := method.Code.StackMapTable[pc]; ok {
			ctx.f = reconcile(ctx.f, declared, ctx.extra[pc])
		}

		length, err := instrLength(code, pc)
		if err != nil {
			return nil, nil, fmt.Errorf("%s.%s@%d: %w", class.Name, method.Name, pc, err)
		}

		next, err := r.step(ctx, pc, code)
		if err != nil {
			return nil, nil, fmt.Errorf("%s.%s@%d: %w", class.Name, method.Name, pc, err)
		}
		if next >= 0 {
			pc = next
		} else {
			pc += length
		}
	}

	argLocals := make([]symval.Value, len(seededLocals))
	for i := range seededLocals {
		argLocals[i] = ctx.f.local(slots[i])
	}
	return ctx.returnValues, argLocals, nil
}

// slotWidth is the number of local-variable slots a seeded argument
// occupies: two for long/double, one for everything else.
func slotWidth(v symval.Value) int {
	if v.Descriptor == "J" || v.Descriptor == "D" {
		return 2
	}
	return 1
}

// step executes the instruction at pc. It always returns -1: the walk
// never jumps, even for branch opcodes. The -1 sentinel just keeps this
// function's shape uniform with a generic "what's the next pc"
// dispatcher instead of every case repeating the pc+length arithmetic.
func (r *Runner) step(ctx *execCtx, pc int, code []byte) (int, error) {
	op := code[pc]
	c := &cursor{code: code, pc: pc + 1}

	switch {
	case op == opNop:
		return -1, nil

	case isConstLoad(op):
		return -1, r.execConst(ctx, op, c)

	case isLoad(op):
		return -1, r.execLoad(ctx, op, c)

	case isStore(op):
		return -1, r.execStore(ctx, op, c)

	case isArrayLoad(op):
		return -1, r.execArrayLoad(ctx, op)

	case isArrayStore(op):
		return -1, r.execArrayStore(ctx, op)

	case isStackOp(op):
		execStackOp(ctx.f, op)
		return -1, nil

	case isBranch(op):
		return -1, r.execBranch(ctx, op, pc, c)

	case op == opTableswitch || op == opLookupswitch:
		ctx.f.pop()
		return -1, nil

	case isReturn(op):
		r.execReturn(ctx, op)
		return -1, nil

	case op == opGetstatic:
		return -1, r.execGetstatic(ctx, c)
	case op == opPutstatic:
		return -1, r.execPutstatic(ctx, c)
	case op == opGetfield:
		return -1, r.execGetfield(ctx, c)
	case op == opPutfield:
		ctx.f.popN(2)
		c.u2()
		return -1, nil

	case op == opInvokevirtual:
		return -1, r.execInvoke(ctx, invokeVirtual, pc, c)
	case op == opInvokespecial:
		return -1, r.execInvoke(ctx, invokeSpecial, pc, c)
	case op == opInvokestatic:
		return -1, r.execInvoke(ctx, invokeStatic, pc, c)
	case op == opInvokeinterface:
		return -1, r.execInvoke(ctx, invokeInterface, pc, c)
	case op == opInvokedynamic:
		return -1, r.execInvokeDynamic(ctx, c)

	case op == opNew:
		idx, _ := c.u2()
		cls := ctx.pool.ClassNameAt(idx)
		ctx.f.push(symval.Plain("L"+cls+";", cls))
		return -1, nil
	case op == opNewarray:
		c.u1()
		ctx.f.pop()
		ctx.f.push(symval.Plain("[?", ""))
		return -1, nil
	case op == opAnewarray:
		return -1, r.execAnewarray(ctx, c)
	case op == opArraylength:
		ctx.f.pop()
		ctx.f.push(symval.Plain("I", ""))
		return -1, nil
	case op == opAthrow:
		ctx.f.pop()
		return -1, nil
	case op == opCheckcast:
		return -1, r.execCheckcast(ctx, c)
	case op == opInstanceof:
		c.u2()
		ctx.f.pop()
		ctx.f.push(symval.Plain("I", ""))
		return -1, nil
	case op == opMonitorenter || op == opMonitorexit:
		ctx.f.pop()
		return -1, nil
	case op == opIinc:
		c.u1()
		c.s1()
		return -1, nil
	case op == opMultianewarray:
		idx, _ := c.u2()
		dims, _ := c.u1()
		ctx.f.popN(int(dims))
		cls := ctx.pool.ClassNameAt(idx)
		ctx.f.push(symval.Plain("L"+cls+";", cls))
		return -1, nil
	case op == opWide:
		return -1, r.execWide(ctx, c)

	default:
		applyGenericEffect(ctx.f, op)
		return -1, nil
	}
}
