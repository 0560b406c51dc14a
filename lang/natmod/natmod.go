// Package natmod implements zeus's built-in native modules (spec.md §4.5's
// "built-in native module" list: os, math, random, time, io, nbarray, and
// the conditionally-present raylib). Each is a singleton NativeModuleObj
// constructed once per VM and registered as a private global the first time
// an import statement names it, grounded on original_source/src/vm/vm.c and
// vmu.c's native-function table, which spec.md only summarizes in one line.
package natmod

import (
	"io"

	"github.com/byteguy8/zeus/lang/objects"
)

// Host is the set of ambient capabilities a native module may need from its
// owning VM, kept as a plain struct so this package never imports the
// machine package that constructs it (natmod is a VM dependency, not the
// reverse).
type Host struct {
	Args   []string
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader

	// Exit requests immediate termination with the given status; the VM
	// supplies an implementation that unwinds the call stack.
	Exit func(code int)

	// AllocNative heap-allocates a native resource through the owning VM's
	// collector, so it is destroyed by sweep once unreachable (spec.md §3)
	// instead of only on an explicit close call. Native modules that hand
	// out per-call resources (io.open's file handle, nbarray.new's byte
	// buffer) call this rather than objects.NewNative.
	AllocNative func(kind string, data any, destroy func(any)) *objects.NativeObj
}

// New constructs the native module named name, if zeus has one built in.
func New(name string, host *Host) (*objects.NativeModuleObj, bool) {
	switch name {
	case "os":
		return newOS(host), true
	case "math":
		return newMath(), true
	case "random":
		return newRandom(), true
	case "time":
		return newTime(), true
	case "io":
		return newIO(host), true
	case "nbarray":
		return newNBArray(host), true
	case "raylib":
		return newRaylibStub(), true
	}
	return nil, false
}

func nativeFn(modName, name string, arity int, fn func([]objects.Value) (objects.Value, error)) objects.Value {
	return objects.FromObject(&objects.NativeFunctionObj{
		ModuleName: modName,
		Name:       name,
		Arity:      arity,
		Fn:         fn,
	})
}
