package natmod

import (
	"errors"
	"math"

	"github.com/byteguy8/zeus/lang/objects"
)

func newMath() *objects.NativeModuleObj {
	mod := &objects.NativeModuleObj{Name: "math", Symbols: make(map[string]objects.Value)}

	unary := func(name string, fn func(float64) float64) objects.Value {
		return nativeFn("math", name, 1, func(a []objects.Value) (objects.Value, error) {
			f, ok := asFloat(a[0])
			if !ok {
				return objects.Empty, errors.New("math." + name + ": expected int or float")
			}
			return objects.Float(fn(f)), nil
		})
	}

	mod.Symbols["floor"] = unary("floor", math.Floor)
	mod.Symbols["ceil"] = unary("ceil", math.Ceil)
	mod.Symbols["sqrt"] = unary("sqrt", math.Sqrt)

	mod.Symbols["abs"] = nativeFn("math", "abs", 1, func(a []objects.Value) (objects.Value, error) {
		switch a[0].Kind {
		case objects.KInt:
			n := a[0].I
			if n < 0 {
				n = -n
			}
			return objects.Int(n), nil
		case objects.KFloat:
			return objects.Float(math.Abs(a[0].F)), nil
		}
		return objects.Empty, errors.New("math.abs: expected int or float")
	})

	mod.Symbols["pow"] = nativeFn("math", "pow", 2, func(a []objects.Value) (objects.Value, error) {
		base, ok1 := asFloat(a[0])
		exp, ok2 := asFloat(a[1])
		if !ok1 || !ok2 {
			return objects.Empty, errors.New("math.pow: expected int or float")
		}
		return objects.Float(math.Pow(base, exp)), nil
	})

	mod.Symbols["pi"] = objects.Float(math.Pi)

	return mod
}
