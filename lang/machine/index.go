package machine

import (
	"github.com/byteguy8/zeus/lang/natmod"
	"github.com/byteguy8/zeus/lang/objects"
)

// index implements INDEX: spec.md §4.3 validates target kind and, for
// sequences, validates index in [0, len). Dict indexing returns the mapped
// value or empty when absent.
func (vm *VM) index(target, idx objects.Value) objects.Value {
	if target.Kind != objects.KObject {
		vm.throwf("cannot index a value of type %s", target.TypeName())
		return objects.Empty
	}

	switch t := target.O.(type) {
	case *objects.ArrayObj:
		return vm.indexSeq(t.Elems, idx)
	case *objects.ListObj:
		return vm.indexSeq(t.Elems, idx)
	case *objects.DictObj:
		v, ok := t.Get(idx)
		if !ok {
			return objects.Empty
		}
		return v
	case *objects.NativeObj:
		if t.Kind == natmod.NBArrayKind {
			n, ok := asIntStrict(idx)
			if !ok {
				vm.throwf("index: expected int index")
				return objects.Empty
			}
			v, ok := natmod.NBArrayGet(target, n)
			if !ok {
				vm.throwf("index out of range")
				return objects.Empty
			}
			return v
		}
	}
	vm.throwf("cannot index a value of type %s", target.TypeName())
	return objects.Empty
}

func (vm *VM) indexSeq(elems []objects.Value, idx objects.Value) objects.Value {
	n, ok := asIntStrict(idx)
	if !ok || n < 0 || n >= int64(len(elems)) {
		vm.throwf("index out of range")
		return objects.Empty
	}
	return elems[n]
}

// aset implements ASET: pop value, index, target in that push order (value
// pushed last, so it is popped first), writing into a sequence, dict,
// byte-array or falling through a type error.
func (vm *VM) aset(target, idx, val objects.Value) {
	if target.Kind != objects.KObject {
		vm.throwf("cannot index-assign a value of type %s", target.TypeName())
		return
	}
	switch t := target.O.(type) {
	case *objects.ArrayObj:
		vm.setSeq(t.Elems, idx, val)
	case *objects.ListObj:
		vm.setSeq(t.Elems, idx, val)
	case *objects.DictObj:
		t.Set(idx, val)
	case *objects.NativeObj:
		if t.Kind == natmod.NBArrayKind {
			n, ok := asIntStrict(idx)
			if !ok || !natmod.NBArraySet(target, n, val) {
				vm.throwf("byte-array assignment out of range or value not a byte")
			}
			return
		}
		vm.throwf("cannot index-assign a value of type %s", target.TypeName())
	default:
		vm.throwf("cannot index-assign a value of type %s", target.TypeName())
	}
}

func (vm *VM) setSeq(elems []objects.Value, idx, val objects.Value) {
	n, ok := asIntStrict(idx)
	if !ok || n < 0 || n >= int64(len(elems)) {
		vm.throwf("index out of range")
		return
	}
	elems[n] = val
}

// access implements ACCESS (`.name`): module/native-module member lookup,
// or record field read.
func (vm *VM) access(target objects.Value, name string) objects.Value {
	if target.Kind != objects.KObject {
		vm.throwf("cannot access %q on a value of type %s", name, target.TypeName())
		return objects.Empty
	}
	switch t := target.O.(type) {
	case *objects.ModuleObj:
		vm.runModuleEntry(t)
		v, ok, public := t.Attr(name)
		if !ok {
			vm.throwf("module %q has no member %q", t.Name, name)
			return objects.Empty
		}
		if !public {
			vm.throwf("member %q of module %q is not exported", name, t.Name)
			return objects.Empty
		}
		return v
	case *objects.NativeModuleObj:
		v, ok := t.Attr(name)
		if !ok {
			vm.throwf("module %q has no member %q", t.Name, name)
			return objects.Empty
		}
		if fn, ok := v.O.(*objects.NativeFunctionObj); ok {
			bound := vm.heap.AllocNativeFunction(fn.ModuleName, fn.Name, fn.Arity, fn.Fn, target)
			return objects.FromObject(bound)
		}
		return v
	case *objects.RecordObj:
		v, ok := t.Get(name)
		if !ok {
			vm.throwf("record has no field %q", name)
			return objects.Empty
		}
		return v
	}
	vm.throwf("cannot access %q on a value of type %s", name, target.TypeName())
	return objects.Empty
}

// rset implements RSET: pop value, target; set an existing record field.
func (vm *VM) rset(target, val objects.Value, name string) {
	rec, ok := target.O.(*objects.RecordObj)
	if target.Kind != objects.KObject || !ok {
		vm.throwf("cannot set field %q on a value of type %s", name, target.TypeName())
		return
	}
	if !rec.Set(name, val) {
		vm.throwf("record has no field %q", name)
	}
}
