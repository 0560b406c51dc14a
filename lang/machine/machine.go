// Package machine implements zeus's fetch-decode-dispatch execution engine
// (spec.md §4.4): a value stack, a frame stack, an exception stack and a
// cooperative module loader, all driving the bytecode compiler.Program
// produces. It is grounded on mna-nenuphar's lang/machine Thread (stdio
// wiring, step budget, context cancellation) generalized from that engine's
// CFG-threaded Starlark machine to zeus's simpler linear
// label-already-resolved bytecode.
package machine

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/byteguy8/zeus/lang/compiler"
	"github.com/byteguy8/zeus/lang/objects"
	"github.com/byteguy8/zeus/lang/token"
	"golang.org/x/exp/maps"
)

// Config bounds a VM run. A zero MaxSteps means no step limit; a zero
// MaxCallStackDepth or InitialStackSize selects defaultMaxCallDepth or
// defaultStackSize.
type Config struct {
	MaxSteps          int
	MaxCallStackDepth int
	// InitialStackSize sizes the preallocated value stack; it never grows,
	// matching spec.md §4.4's "fixed large array... grown by explicit push".
	InitialStackSize int

	SearchPaths []string
	Args        []string

	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader
}

const defaultStackSize = 1 << 16
const defaultMaxCallDepth = 1024

// exceptionFrame is a pending try/catch handler (spec.md §4.7).
type exceptionFrame struct {
	catchIP   int
	stackTop  int
	frameTop  int
	frame     *frame
}

// VM is one single-threaded, cooperative execution context (spec.md §5):
// value stack, frame stack, exception stack, template builders and the
// loaded file and native modules, keyed by path and by name. There is no
// module stack: an imported module's entry function runs synchronously the
// first time the module is accessed.
type VM struct {
	cfg Config

	stack []objects.Value
	sp    int

	frames []*frame

	excepts []exceptionFrame

	templates []stringBuilder

	moduleByPath  map[string]*objects.ModuleObj
	nativeModules map[string]*objects.NativeModuleObj
	searchPaths   []string
	fset          *token.FileSet

	heap     *objects.Heap
	interner *objects.Interner

	stdout io.Writer
	stderr io.Writer
	stdin  io.Reader

	steps int

	ctx context.Context
}

type stringBuilder struct {
	parts []string
}

// New creates a VM ready to Run a compiled program.
func New(cfg Config) *VM {
	size := cfg.InitialStackSize
	if size <= 0 {
		size = defaultStackSize
	}
	heap := objects.NewHeap()
	vm := &VM{
		cfg:           cfg,
		stack:         make([]objects.Value, size),
		moduleByPath:  make(map[string]*objects.ModuleObj),
		nativeModules: make(map[string]*objects.NativeModuleObj),
		fset:          token.NewFileSet(),
		heap:          heap,
		interner:      heap.Interner(),
		stdout:        cfg.Stdout,
		stderr:        cfg.Stderr,
		stdin:         cfg.Stdin,
	}
	if vm.stdout == nil {
		vm.stdout = os.Stdout
	}
	if vm.stderr == nil {
		vm.stderr = os.Stderr
	}
	if vm.stdin == nil {
		vm.stdin = os.Stdin
	}
	return vm
}

// RuntimeError is a fatal, unrecoverable VM fault (stack overflow, malformed
// bytecode) distinct from a zeus-level thrown exception, which the dispatch
// loop handles internally via the exception stack.
type RuntimeError struct {
	Msg string
}

func (e *RuntimeError) Error() string { return e.Msg }

// Run loads the already-compiled prog as the entry module, executes its entry function to
// completion, and returns the program's exit code: spec.md §7 maps an
// unhandled thrown exception to exit code 1 and a clean finish to 0.
func (vm *VM) Run(ctx context.Context, prog *compiler.Program) (exitCode int, err error) {
	vm.ctx = ctx

	abs := prog.Name
	if a, aerr := filepath.Abs(prog.Name); aerr == nil {
		abs = a
	}
	vm.searchPaths = append([]string{filepath.Dir(abs)}, vm.cfg.SearchPaths...)

	mod := vm.newModule(prog, abs)
	vm.moduleByPath[abs] = mod

	defer func() {
		if r := recover(); r != nil {
			if re, ok := r.(*RuntimeError); ok {
				err = re
				exitCode = 1
				return
			}
			if sig, ok := r.(*exitSignal); ok {
				exitCode = sig.code
				return
			}
			if ue, ok := r.(*uncaughtException); ok {
				fmt.Fprintln(vm.stderr, exceptionMessage(ue.val))
				exitCode = 1
				return
			}
			panic(r)
		}
	}()

	vm.callEntry(mod)
	return 0, nil
}

func (vm *VM) newModule(prog *compiler.Program, path string) *objects.ModuleObj {
	mod := vm.heap.AllocModule(prog.Name, path, prog)
	for _, name := range prog.Globals {
		mod.Globals[name] = &objects.GlobalSlot{Public: prog.Exports[name]}
	}
	vm.bindBuiltins(mod)
	entryProto := prog.Funcs[prog.EntryFunc]
	mod.Entry = vm.heap.AllocFunction(entryProto, mod)
	mod.Imports = make([]objects.Value, len(prog.ModulePaths))
	return mod
}

// collect runs one tri-color cycle against the heap, enumerating the
// current value stack, frame stack and loaded modules as roots (spec.md
// §4.6).
func (vm *VM) collect() {
	vm.heap.Collect(vm.enumRoots)
}

// enumRoots grays every Value directly reachable from the VM itself:
// the live portion of the value stack, each active frame's bound
// closure/module/entry-module and its still-open (closed-over) OutValues,
// and every module the loader has resolved so far — file modules are
// heap-tracked (objects.Heap.AllocModule) and so need regraying every
// cycle, the way a real collector's root set includes "globals" alongside
// the stack and frames.
func (vm *VM) enumRoots(gray func(objects.Value)) {
	for i := 0; i < vm.sp; i++ {
		gray(vm.stack[i])
	}
	for _, fr := range vm.frames {
		if fr.closure != nil {
			gray(objects.FromObject(fr.closure))
		}
		if fr.module != nil {
			gray(objects.FromObject(fr.module))
		}
		if fr.entryOf != nil {
			gray(objects.FromObject(fr.entryOf))
		}
		for o := fr.outs.Head(); o != nil; o = o.Next() {
			if !o.Linked {
				gray(o.Value)
			}
		}
	}
	for _, mod := range maps.Values(vm.moduleByPath) {
		gray(objects.FromObject(mod))
	}
}
