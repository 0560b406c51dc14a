package machine

import (
	"fmt"

	"github.com/byteguy8/zeus/lang/objects"
)

// exceptionOf builds the record value a zeus `throw` or an internal runtime
// error raises: a single `msg` field, the shape every catch clause and
// exceptionMessage expects (spec.md §4.7).
func (vm *VM) exceptionOf(msg string) objects.Value {
	return objects.FromObject(vm.heap.AllocRecord([]string{"msg"}, []objects.Value{
		objects.FromObject(vm.interner.Intern(msg)),
	}))
}

// throwf raises a catchable zeus exception carrying a formatted message,
// unwinding to the nearest open try/catch (spec.md §4.7) or escalating to an
// uncaughtException if none of the active frames has one.
func (vm *VM) throwf(format string, args ...any) {
	vm.throwValue(vm.exceptionOf(fmt.Sprintf(format, args...)))
}

// uncaughtException unwinds the whole Run call when a throw reaches no open
// try/catch: spec.md §7 maps this to a printed message and exit code 1,
// distinct from a RuntimeError (a VM-internal fault, not a zeus-level one).
type uncaughtException struct {
	val objects.Value
}

// caughtThrow unwinds a single dispatched opcode once throwValue has
// finished rewriting the frame/stack/ip state for a live handler. Without
// this, an opcode like DIV that computes its result via a helper which can
// itself throw would fall through to its own vm.push(result) after
// throwValue already pushed the caught value, leaving a stray slot above it.
// dispatchOne recovers this one sentinel and simply moves on to fr.ip,
// which throwValue already pointed at the catch block.
type caughtThrow struct{}

// throwValue implements THROW's unwind: pop the innermost exception-stack
// entry, truncate the frame and value stacks back to
// that handler's snapshot, and push val for the catch block to bind. Every
// path out of this function is a panic: an uncaughtException if no handler
// is open, a caughtThrow otherwise, so a caller several helper calls deep
// (e.g. DIV calling numOp calling throwf) never resumes and corrupts the
// stack it already rewrote.
func (vm *VM) throwValue(val objects.Value) {
	if len(vm.excepts) == 0 {
		panic(&uncaughtException{val: val})
	}
	ex := vm.excepts[len(vm.excepts)-1]
	vm.excepts = vm.excepts[:len(vm.excepts)-1]

	// Close and pop every frame more deeply nested than the handler's own
	// frame; TRY_CLOSE already removes an exceptionFrame entry once its
	// try/catch block finishes normally, so any entry left on vm.excepts
	// belongs to an ancestor (or the current) frame, never a stale one.
	for len(vm.frames) > 0 && vm.frames[len(vm.frames)-1] != ex.frame {
		top := vm.frames[len(vm.frames)-1]
		top.outs.CloseAll(top.locals(vm.stack))
		vm.frames = vm.frames[:len(vm.frames)-1]
	}

	vm.sp = ex.stackTop
	ex.frame.ip = ex.catchIP
	vm.push(val)
	panic(&caughtThrow{})
}
