package machine

import (
	"fmt"

	"github.com/byteguy8/zeus/lang/objects"
)

func (vm *VM) push(v objects.Value) {
	if vm.sp >= len(vm.stack) {
		panic(&RuntimeError{Msg: "stack overflow"})
	}
	vm.stack[vm.sp] = v
	vm.sp++
}

func (vm *VM) pop() objects.Value {
	if vm.sp <= 0 {
		panic(&RuntimeError{Msg: "stack underflow"})
	}
	vm.sp--
	v := vm.stack[vm.sp]
	vm.stack[vm.sp] = objects.Value{}
	return v
}

func (vm *VM) peek() objects.Value { return vm.stack[vm.sp-1] }

func (vm *VM) peekAt(n int) objects.Value { return vm.stack[vm.sp-1-n] }

// fault raises a fatal, unrecoverable VM error (malformed bytecode,
// arity/type violations that cannot be a zeus-level throw because they
// indicate a compiler or bytecode-stream defect).
func (vm *VM) fault(format string, args ...any) {
	panic(&RuntimeError{Msg: fmt.Sprintf(format, args...)})
}

func exceptionMessage(v objects.Value) string {
	if v.Kind == objects.KObject {
		if rec, ok := v.O.(*objects.RecordObj); ok {
			if msg, ok := rec.Get("msg"); ok && msg.Kind == objects.KObject {
				if s, ok := msg.O.(*objects.StringObj); ok {
					return s.Data
				}
			}
		}
	}
	if v.IsEmpty() {
		return ""
	}
	return objects.Stringify(v, nil)
}
