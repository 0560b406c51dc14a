package machine

import (
	"github.com/byteguy8/zeus/lang/compiler"
	"github.com/byteguy8/zeus/lang/objects"
)

// frame is one call's activation record (spec.md §4.4): the running
// function or closure, its program counter, the base of its locals window
// on the value stack, and the OutValues opened against those locals.
type frame struct {
	proto   *compiler.FuncProto
	closure *objects.ClosureObj // nil for a plain function call
	module  *objects.ModuleObj

	ip         int
	lastOffset int // offset of the last dispatched opcode, recorded on each dispatch

	// base is the value-stack slot the callee itself occupied before the
	// call; RET collapses the stack back down to base and pushes the return
	// value there.
	base       int
	localsBase int
	outs       objects.OutValueList

	// entryOf is set when this frame is a module's entry function, so HLT
	// can mark the module resolved.
	entryOf *objects.ModuleObj
}

func (fr *frame) locals(stack []objects.Value) []objects.Value {
	return stack[fr.localsBase:]
}
