package machine

import (
	"github.com/byteguy8/zeus/lang/compiler"
	"github.com/byteguy8/zeus/lang/objects"
)

// callEntry runs prog's module-level entry function to completion. An
// uncaught throw escalates via the uncaughtException panic, same as any
// other call depth.
func (vm *VM) callEntry(mod *objects.ModuleObj) objects.Value {
	vm.pushFunctionFrame(vm.sp, mod.Entry.Proto, nil, mod, 0)
	vm.frames[len(vm.frames)-1].entryOf = mod
	return vm.dispatchLoop(0)
}

// runModuleEntry eagerly initializes an imported file module the first time
// it is referenced, a simplification of spec.md §4.5's lazy
// resolve-on-first-global-access cooperative rewind: since this VM already
// threads every call (native or zeus) through one flat frame-stack loop,
// running the entry synchronously here costs nothing but a few Go stack
// frames and avoids rewinding an in-flight ACCESS/GGET dispatch.
func (vm *VM) runModuleEntry(mod *objects.ModuleObj) {
	if mod.Resolved {
		return
	}
	stopDepth := len(vm.frames)
	vm.pushFunctionFrame(vm.sp, mod.Entry.Proto, nil, mod, 0)
	vm.frames[len(vm.frames)-1].entryOf = mod
	vm.dispatchLoop(stopDepth)
}

// pushFunctionFrame installs a new frame for a plain function or closure
// call. calleeSlot is the stack index the callee value itself occupied;
// args for the call must already sit above it, argc of them. Callers other
// than callValue always pass a compiler-verified argc (a module or proc
// entry frame), so arity itself is only checked where a zeus-level CALL can
// get it wrong.
func (vm *VM) pushFunctionFrame(calleeSlot int, proto *compiler.FuncProto, closure *objects.ClosureObj, module *objects.ModuleObj, argc int) {
	if len(vm.frames) >= vm.maxCallDepth() {
		vm.fault("call stack overflow")
	}

	localsBase := calleeSlot + 1
	need := localsBase + proto.NumLocals
	if need > len(vm.stack) {
		vm.fault("stack overflow")
	}
	for i := localsBase + argc; i < need; i++ {
		vm.stack[i] = objects.Empty
	}
	vm.sp = need

	fr := &frame{
		proto:      proto,
		closure:    closure,
		module:     module,
		base:       calleeSlot,
		localsBase: localsBase,
	}
	vm.frames = append(vm.frames, fr)
}

func (vm *VM) maxCallDepth() int {
	if vm.cfg.MaxCallStackDepth > 0 {
		return vm.cfg.MaxCallStackDepth
	}
	return defaultMaxCallDepth
}

// callValue dispatches a CALL opcode against the callee sitting at
// vm.sp-argc-1, pushing either a new frame (zeus function/closure) or
// running a native function synchronously in place.
func (vm *VM) callValue(argc int) {
	calleeSlot := vm.sp - argc - 1
	if calleeSlot < 0 {
		vm.fault("internal: call stack underflow")
	}
	callee := vm.stack[calleeSlot]

	switch callee.Kind {
	case objects.KObject:
		switch fn := callee.O.(type) {
		case *objects.FunctionObj:
			if fn.Proto.NumParams != argc {
				vm.throwf("%s: expected %d argument(s), got %d", fn.Proto.Name, fn.Proto.NumParams, argc)
				return
			}
			vm.pushFunctionFrame(calleeSlot, fn.Proto, nil, fn.Module, argc)
			return
		case *objects.ClosureObj:
			if fn.Proto.NumParams != argc {
				vm.throwf("%s: expected %d argument(s), got %d", fn.Proto.Name, fn.Proto.NumParams, argc)
				return
			}
			vm.pushFunctionFrame(calleeSlot, fn.Proto, fn, fn.Module, argc)
			return
		case *objects.NativeFunctionObj:
			vm.callNative(calleeSlot, fn, argc)
			return
		}
	}
	vm.throwf("cannot call a value of type %s", callee.TypeName())
}

func (vm *VM) callNative(calleeSlot int, fn *objects.NativeFunctionObj, argc int) {
	if fn.Arity >= 0 && fn.Arity != argc {
		vm.throwf("%s: expected %d argument(s), got %d", fn.Name, fn.Arity, argc)
		return
	}
	args := make([]objects.Value, argc)
	copy(args, vm.stack[calleeSlot+1:calleeSlot+1+argc])
	for i := calleeSlot; i < vm.sp; i++ {
		vm.stack[i] = objects.Value{}
	}
	vm.sp = calleeSlot

	result, err := fn.Fn(args)
	if err != nil {
		vm.throwf("%s", err.Error())
		return
	}
	vm.push(result)
}
