package machine

import (
	"strings"

	"github.com/byteguy8/zeus/lang/objects"
)

func (vm *VM) numOp(op string, a, b objects.Value, onInt func(int64, int64) int64, onFloat func(float64, float64) float64) objects.Value {
	if a.Kind == objects.KInt && b.Kind == objects.KInt {
		return objects.Int(onInt(a.I, b.I))
	}
	af, aok := numAsFloat(a)
	bf, bok := numAsFloat(b)
	if aok && bok {
		return objects.Float(onFloat(af, bf))
	}
	vm.throwf("%s: incompatible operand types %s, %s", op, a.TypeName(), b.TypeName())
	return objects.Empty
}

func numAsFloat(v objects.Value) (float64, bool) {
	switch v.Kind {
	case objects.KInt:
		return float64(v.I), true
	case objects.KFloat:
		return v.F, true
	}
	return 0, false
}

func (vm *VM) add(a, b objects.Value) objects.Value {
	return vm.numOp("add", a, b, func(x, y int64) int64 { return x + y }, func(x, y float64) float64 { return x + y })
}

func (vm *VM) sub(a, b objects.Value) objects.Value {
	return vm.numOp("sub", a, b, func(x, y int64) int64 { return x - y }, func(x, y float64) float64 { return x - y })
}

func (vm *VM) mul(a, b objects.Value) objects.Value {
	return vm.numOp("mul", a, b, func(x, y int64) int64 { return x * y }, func(x, y float64) float64 { return x * y })
}

func (vm *VM) div(a, b objects.Value) objects.Value {
	if a.Kind == objects.KInt && b.Kind == objects.KInt {
		if b.I == 0 {
			vm.throwf("division by zero")
			return objects.Empty
		}
		return objects.Int(a.I / b.I)
	}
	af, aok := numAsFloat(a)
	bf, bok := numAsFloat(b)
	if !aok || !bok {
		vm.throwf("div: incompatible operand types %s, %s", a.TypeName(), b.TypeName())
		return objects.Empty
	}
	if bf == 0 {
		vm.throwf("division by zero")
		return objects.Empty
	}
	return objects.Float(af / bf)
}

func (vm *VM) mod(a, b objects.Value) objects.Value {
	ai, aok := asIntStrict(a)
	bi, bok := asIntStrict(b)
	if !aok || !bok {
		vm.throwf("mod: expected int operands, got %s, %s", a.TypeName(), b.TypeName())
		return objects.Empty
	}
	if bi == 0 {
		vm.throwf("division by zero")
		return objects.Empty
	}
	return objects.Int(ai % bi)
}

func asIntStrict(v objects.Value) (int64, bool) {
	if v.Kind == objects.KInt {
		return v.I, true
	}
	return 0, false
}

func (vm *VM) bitOp(op string, a, b objects.Value, fn func(int64, int64) int64) objects.Value {
	ai, aok := asIntStrict(a)
	bi, bok := asIntStrict(b)
	if !aok || !bok {
		vm.throwf("%s: expected int operands, got %s, %s", op, a.TypeName(), b.TypeName())
		return objects.Empty
	}
	return objects.Int(fn(ai, bi))
}

func (vm *VM) compare(op string, a, b objects.Value) int {
	if a.Kind == objects.KInt && b.Kind == objects.KInt {
		switch {
		case a.I < b.I:
			return -1
		case a.I > b.I:
			return 1
		default:
			return 0
		}
	}
	af, aok := numAsFloat(a)
	bf, bok := numAsFloat(b)
	if aok && bok {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	as, aok := a.O.(*objects.StringObj)
	bs, bok := b.O.(*objects.StringObj)
	if a.Kind == objects.KObject && b.Kind == objects.KObject && aok && bok {
		return strings.Compare(as.Data, bs.Data)
	}
	vm.throwf("%s: incomparable operand types %s, %s", op, a.TypeName(), b.TypeName())
	return 0
}

// concat implements CONCAT's `++` operator per spec.md §4.2: str++str,
// array++array, list++list, array++value and list++value (both appending);
// every other operand pairing is a runtime error. A list operand grows in
// place (spec.md §3: lists "grow/shrink on append"); an array is fixed
// length, so array++array and array++value both build a new array instead.
func (vm *VM) concat(a, b objects.Value) objects.Value {
	switch ao := a.O.(type) {
	case *objects.StringObj:
		if bo, ok := b.O.(*objects.StringObj); ok {
			return objects.FromObject(vm.interner.Intern(ao.Data + bo.Data))
		}
	case *objects.ArrayObj:
		if bo, ok := b.O.(*objects.ArrayObj); ok {
			elems := make([]objects.Value, 0, len(ao.Elems)+len(bo.Elems))
			elems = append(elems, ao.Elems...)
			elems = append(elems, bo.Elems...)
			return objects.FromObject(vm.heap.AllocArray(elems))
		}
		elems := make([]objects.Value, len(ao.Elems), len(ao.Elems)+1)
		copy(elems, ao.Elems)
		elems = append(elems, b)
		return objects.FromObject(vm.heap.AllocArray(elems))
	case *objects.ListObj:
		if bo, ok := b.O.(*objects.ListObj); ok {
			ao.Elems = append(ao.Elems, bo.Elems...)
		} else {
			ao.Append(b)
		}
		return a
	}
	vm.throwf("concat: incompatible operand types %s, %s", a.TypeName(), b.TypeName())
	return objects.Empty
}

func (vm *VM) mulstr(a, b objects.Value) objects.Value {
	s, ok := a.O.(*objects.StringObj)
	n, nok := asIntStrict(b)
	if a.Kind != objects.KObject || !ok || !nok || n < 0 {
		vm.throwf("mulstr: expected (str, non-negative int)")
		return objects.Empty
	}
	return objects.FromObject(vm.interner.Intern(strings.Repeat(s.Data, int(n))))
}

func (vm *VM) negate(v objects.Value) objects.Value {
	switch v.Kind {
	case objects.KInt:
		return objects.Int(-v.I)
	case objects.KFloat:
		return objects.Float(-v.F)
	}
	vm.throwf("negate: expected int or float, got %s", v.TypeName())
	return objects.Empty
}

func (vm *VM) bitwiseNot(v objects.Value) objects.Value {
	n, ok := asIntStrict(v)
	if !ok {
		vm.throwf("bnot: expected int, got %s", v.TypeName())
		return objects.Empty
	}
	return objects.Int(^n)
}
