package machine

import (
	"github.com/byteguy8/zeus/lang/compiler"
	"github.com/byteguy8/zeus/lang/objects"
)

func be16(b []byte) int { return int(b[0])<<8 | int(b[1]) }
func be32(b []byte) int {
	return int(b[0])<<24 | int(b[1])<<16 | int(b[2])<<8 | int(b[3])
}

// dispatchLoop runs frames until the frame stack collapses back to
// stopDepth (an HLT or RET popped the frame that call pushed), returning the
// value it left on the stack. An uncaught throw never returns through here:
// it unwinds the whole call via the uncaughtException panic (exceptions.go).
// A caught throw does return through here: dispatchOne recovers the
// caughtThrow panic throwValue raises once it has repositioned fr.ip at the
// catch block, and the loop simply continues from there.
func (vm *VM) dispatchLoop(stopDepth int) objects.Value {
	for {
		if vm.cfg.MaxSteps > 0 && vm.steps >= vm.cfg.MaxSteps {
			vm.fault("step budget exceeded")
		}
		vm.steps++

		if vm.heap.ShouldCollect() {
			vm.collect()
		}

		fr := vm.frames[len(vm.frames)-1]
		code := fr.proto.Code
		if fr.ip >= len(code) {
			vm.fault("%s: fell off the end of its code", fr.proto.Name)
		}

		op := compiler.Op(code[fr.ip])
		fr.lastOffset = fr.ip
		fr.ip++

		halted := vm.dispatchOne(fr, op, code)
		if halted && len(vm.frames) == stopDepth {
			return vm.pop()
		}
		if len(vm.frames) < stopDepth {
			vm.fault("internal: frame stack underflowed past call boundary")
		}
	}
}

// dispatchOne runs execOp for a single instruction, absorbing a caughtThrow
// panic so the dispatch loop resumes cleanly at the handler throwValue
// already jumped fr.ip to. Any other panic (uncaughtException, RuntimeError,
// exitSignal) propagates unchanged to Run's recover.
func (vm *VM) dispatchOne(fr *frame, op compiler.Op, code []byte) (halted bool) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(*caughtThrow); ok {
				halted = false
				return
			}
			panic(r)
		}
	}()
	return vm.execOp(fr, op, code)
}

// execOp dispatches a single opcode against fr, the current top frame.
// halted reports that fr itself was just popped (RET/HLT). A throw raised
// while executing op never returns normally from here: it panics, either a
// caughtThrow dispatchOne absorbs or an uncaughtException that escapes to
// Run.
func (vm *VM) execOp(fr *frame, op compiler.Op, code []byte) (halted bool) {
	switch op {
	case compiler.EMPTY:
		vm.push(objects.Empty)
	case compiler.FALSE:
		vm.push(objects.Bool(false))
	case compiler.TRUE:
		vm.push(objects.Bool(true))

	case compiler.CINT:
		v := int64(int8(vm.u8(fr, code)))
		vm.push(objects.Int(v))
	case compiler.INT:
		idx := vm.u16(fr, code)
		vm.push(objects.Int(fr.proto.IntConsts[idx]))
	case compiler.FLOAT:
		idx := vm.u16(fr, code)
		vm.push(objects.Float(fr.proto.FloatConsts[idx]))
	case compiler.STRING:
		idx := vm.u16(fr, code)
		vm.push(objects.FromObject(vm.interner.Intern(vm.staticString(fr, idx))))

	case compiler.STTE:
		vm.templates = append(vm.templates, stringBuilder{})
	case compiler.WTTE:
		v := vm.pop()
		top := len(vm.templates) - 1
		vm.templates[top].parts = append(vm.templates[top].parts, objects.Stringify(v, nil))
	case compiler.ETTE:
		top := len(vm.templates) - 1
		sb := vm.templates[top]
		vm.templates = vm.templates[:top]
		s := ""
		for _, p := range sb.parts {
			s += p
		}
		vm.push(objects.FromObject(vm.interner.Intern(s)))

	case compiler.ARRAY, compiler.IARRAY:
		n := vm.u16(fr, code)
		vm.push(objects.FromObject(vm.heap.AllocArray(vm.popN(n))))
	case compiler.LIST:
		n := vm.u16(fr, code)
		vm.push(objects.FromObject(vm.heap.AllocList(vm.popN(n))))
	case compiler.ILIST:
		n := int(vm.pop().I)
		vm.push(objects.FromObject(vm.heap.AllocList(vm.popN(n))))
	case compiler.DICT, compiler.IDICT:
		var n int
		if op == compiler.DICT {
			n = vm.u16(fr, code)
		} else {
			n = int(vm.pop().I)
		}
		pairs := vm.popN(n * 2)
		d := vm.heap.AllocDict(n)
		for i := 0; i < len(pairs); i += 2 {
			d.Set(pairs[i], pairs[i+1])
		}
		vm.push(objects.FromObject(d))
	case compiler.RECORD:
		idx := vm.u16(fr, code)
		shape := vm.module(fr).Program.Shapes[idx]
		vm.push(objects.FromObject(vm.heap.AllocRecord(shape.Fields, vm.popN(len(shape.Fields)))))
	case compiler.IRECORD:
		idx := vm.u16(fr, code)
		fields := []string{vm.staticString(fr, idx)}
		vm.push(objects.FromObject(vm.heap.AllocRecord(fields, vm.popN(len(fields)))))

	case compiler.CONCAT:
		b, a := vm.pop(), vm.pop()
		vm.push(vm.concat(a, b))
	case compiler.MULSTR:
		b, a := vm.pop(), vm.pop()
		vm.push(vm.mulstr(a, b))

	case compiler.ADD:
		b, a := vm.pop(), vm.pop()
		vm.push(vm.add(a, b))
	case compiler.SUB:
		b, a := vm.pop(), vm.pop()
		vm.push(vm.sub(a, b))
	case compiler.MUL:
		b, a := vm.pop(), vm.pop()
		vm.push(vm.mul(a, b))
	case compiler.DIV:
		b, a := vm.pop(), vm.pop()
		vm.push(vm.div(a, b))
	case compiler.MOD:
		b, a := vm.pop(), vm.pop()
		vm.push(vm.mod(a, b))
	case compiler.BNOT:
		vm.push(vm.bitwiseNot(vm.pop()))
	case compiler.LSH:
		b, a := vm.pop(), vm.pop()
		vm.push(vm.bitOp("lsh", a, b, func(x, y int64) int64 { return x << uint(y) }))
	case compiler.RSH:
		b, a := vm.pop(), vm.pop()
		vm.push(vm.bitOp("rsh", a, b, func(x, y int64) int64 { return x >> uint(y) }))
	case compiler.BAND:
		b, a := vm.pop(), vm.pop()
		vm.push(vm.bitOp("band", a, b, func(x, y int64) int64 { return x & y }))
	case compiler.BXOR:
		b, a := vm.pop(), vm.pop()
		vm.push(vm.bitOp("bxor", a, b, func(x, y int64) int64 { return x ^ y }))
	case compiler.BOR:
		b, a := vm.pop(), vm.pop()
		vm.push(vm.bitOp("bor", a, b, func(x, y int64) int64 { return x | y }))

	case compiler.LT:
		b, a := vm.pop(), vm.pop()
		vm.push(objects.Bool(vm.compare("lt", a, b) < 0))
	case compiler.GT:
		b, a := vm.pop(), vm.pop()
		vm.push(objects.Bool(vm.compare("gt", a, b) > 0))
	case compiler.LE:
		b, a := vm.pop(), vm.pop()
		vm.push(objects.Bool(vm.compare("le", a, b) <= 0))
	case compiler.GE:
		b, a := vm.pop(), vm.pop()
		vm.push(objects.Bool(vm.compare("ge", a, b) >= 0))
	case compiler.EQ:
		b, a := vm.pop(), vm.pop()
		vm.push(objects.Bool(a == b))
	case compiler.NE:
		b, a := vm.pop(), vm.pop()
		vm.push(objects.Bool(a != b))

	case compiler.OR:
		delta := vm.i16(fr, code)
		if vm.peek().IsTruthy() {
			fr.ip += delta
		} else {
			vm.pop()
		}
	case compiler.AND:
		delta := vm.i16(fr, code)
		if !vm.peek().IsTruthy() {
			fr.ip += delta
		} else {
			vm.pop()
		}
	case compiler.NOT:
		vm.push(objects.Bool(!vm.pop().IsTruthy()))
	case compiler.NNOT:
		vm.push(vm.negate(vm.pop()))

	case compiler.LSET:
		slot := int(vm.u8(fr, code))
		fr.locals(vm.stack)[slot] = vm.pop()
	case compiler.LGET:
		slot := int(vm.u8(fr, code))
		vm.push(fr.locals(vm.stack)[slot])
	case compiler.OSET, compiler.OGET:
		slot := int(vm.u8(fr, code))
		ov := fr.closure.Captures[slot]
		// A still-linked OutValue aliases a slot of the frame that opened it,
		// not of the closure's own frame.
		locals := fr.locals(vm.stack)
		for _, owner := range vm.frames {
			if ov.Linked && owner.outs.FindBySlot(ov.Slot) == ov {
				locals = owner.locals(vm.stack)
			}
		}
		if op == compiler.OSET {
			ov.Set(locals, vm.pop())
		} else {
			vm.push(ov.Get(locals))
		}

	case compiler.GDEF, compiler.GSET:
		idx := vm.u16(fr, code)
		name := vm.staticString(fr, idx)
		slot, ok := vm.module(fr).Globals[name]
		if !ok {
			vm.fault("internal: undeclared global %q", name)
		}
		slot.Value = vm.pop()
	case compiler.GGET:
		idx := vm.u16(fr, code)
		name := vm.staticString(fr, idx)
		slot, ok := vm.module(fr).Globals[name]
		if !ok {
			vm.fault("internal: undeclared global %q", name)
		}
		vm.push(slot.Value)
	case compiler.GASET:
		idx := vm.u16(fr, code)
		exported := vm.u8(fr, code)
		name := vm.staticString(fr, idx)
		if slot, ok := vm.module(fr).Globals[name]; ok {
			slot.Public = exported != 0
		}

	case compiler.NGET:
		idx := vm.u16(fr, code)
		prog := vm.module(fr).Program
		v := vm.resolveImport(prog, idx)
		vm.push(v)
	case compiler.SGET:
		idx := vm.sget(fr, code)
		vm.push(vm.makeStatic(fr, idx))

	case compiler.ASET:
		val, idx, target := vm.pop(), vm.pop(), vm.pop()
		vm.aset(target, idx, val)
		vm.push(val)
	case compiler.RSET:
		nameIdx := vm.u16(fr, code)
		name := vm.staticString(fr, nameIdx)
		val, target := vm.pop(), vm.pop()
		vm.rset(target, val, name)
		vm.push(val)

	case compiler.POP:
		vm.pop()

	case compiler.JMP:
		fr.ip += vm.i16(fr, code)
	case compiler.JIF:
		delta := vm.i16(fr, code)
		if !vm.pop().IsTruthy() {
			fr.ip += delta
		}
	case compiler.JIT:
		delta := vm.i16(fr, code)
		if vm.pop().IsTruthy() {
			fr.ip += delta
		}

	case compiler.CALL:
		argc := int(vm.u8(fr, code))
		vm.callValue(argc)
	case compiler.ACCESS:
		idx := vm.u16(fr, code)
		name := vm.staticString(fr, idx)
		target := vm.pop()
		vm.push(vm.access(target, name))
	case compiler.INDEX:
		idx, target := vm.pop(), vm.pop()
		vm.push(vm.index(target, idx))

	case compiler.RET:
		val := vm.pop()
		vm.popFrame(val)
		return true

	case compiler.IS:
		tag := objects.TypeTag(vm.u8(fr, code))
		vm.push(objects.Bool(vm.pop().Tag() == tag))

	case compiler.TRY_OPEN:
		catchAddr := vm.u16(fr, code)
		vm.excepts = append(vm.excepts, exceptionFrame{
			catchIP:  catchAddr,
			stackTop: vm.sp,
			frame:    fr,
		})
	case compiler.TRY_CLOSE:
		if len(vm.excepts) > 0 {
			vm.excepts = vm.excepts[:len(vm.excepts)-1]
		}
	case compiler.THROW:
		hasVal := vm.u8(fr, code)
		var val objects.Value
		if hasVal != 0 {
			val = vm.pop()
		} else {
			val = vm.exceptionOf("")
		}
		vm.throwValue(val)

	case compiler.HLT:
		if fr.entryOf != nil {
			fr.entryOf.Resolved = true
		}
		vm.popFrame(objects.Empty)
		return true

	default:
		vm.fault("unimplemented opcode %s", op)
	}

	return false
}

func (vm *VM) popN(n int) []objects.Value {
	out := make([]objects.Value, n)
	copy(out, vm.stack[vm.sp-n:vm.sp])
	for i := vm.sp - n; i < vm.sp; i++ {
		vm.stack[i] = objects.Value{}
	}
	vm.sp -= n
	return out
}

// popFrame closes the current frame's OutValues, collapses the stack back
// to the slot the callee occupied, and pushes val there in its place.
func (vm *VM) popFrame(val objects.Value) {
	fr := vm.frames[len(vm.frames)-1]
	fr.outs.CloseAll(fr.locals(vm.stack))
	vm.frames = vm.frames[:len(vm.frames)-1]
	for i := fr.base; i < vm.sp; i++ {
		vm.stack[i] = objects.Value{}
	}
	vm.sp = fr.base
	vm.push(val)
}

func (vm *VM) module(fr *frame) *objects.ModuleObj { return fr.module }

func (vm *VM) staticString(fr *frame, idx int) string {
	strs := vm.module(fr).Program.StaticStrings
	if idx < 0 || idx >= len(strs) {
		vm.fault("internal: static string index %d out of range", idx)
	}
	return strs[idx]
}

func (vm *VM) u8(fr *frame, code []byte) uint8 {
	b := code[fr.ip]
	fr.ip++
	return b
}

func (vm *VM) u16(fr *frame, code []byte) int {
	v := be16(code[fr.ip : fr.ip+2])
	fr.ip += 2
	return v
}

func (vm *VM) i16(fr *frame, code []byte) int {
	v := int(int16(be16(code[fr.ip : fr.ip+2])))
	fr.ip += 2
	return v
}

func (vm *VM) sget(fr *frame, code []byte) int {
	v := be32(code[fr.ip : fr.ip+4])
	fr.ip += 4
	return v
}

// makeStatic builds the FunctionObj or ClosureObj an SGET instruction
// produces, binding captures against the invoking frame's own locals and
// OutValues (spec.md §3's single-hop capture rule).
func (vm *VM) makeStatic(fr *frame, staticIdx int) objects.Value {
	prog := vm.module(fr).Program
	entry := prog.Statics[staticIdx]
	proto := prog.Funcs[entry.FuncIndex]
	mod := vm.module(fr)

	if !entry.IsClosure {
		return objects.FromObject(vm.heap.AllocFunction(proto, mod))
	}

	captures := make([]*objects.OutValue, len(entry.CaptureOuterSlot))
	locals := fr.locals(vm.stack)
	for i, outerSlot := range entry.CaptureOuterSlot {
		if ov := fr.outs.FindBySlot(outerSlot); ov != nil {
			captures[i] = ov
			continue
		}
		ov := &objects.OutValue{Linked: true, Slot: outerSlot, Value: locals[outerSlot]}
		fr.outs.Push(ov)
		captures[i] = ov
	}
	return objects.FromObject(vm.heap.AllocClosure(proto, mod, captures))
}
