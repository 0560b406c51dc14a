package natmod

import (
	"errors"
	"os"

	"github.com/byteguy8/zeus/lang/objects"
)

func newOS(host *Host) *objects.NativeModuleObj {
	interner := objects.NewInterner()

	args := make([]objects.Value, len(host.Args))
	for i, a := range host.Args {
		args[i] = objects.FromObject(interner.Intern(a))
	}

	mod := &objects.NativeModuleObj{Name: "os", Symbols: make(map[string]objects.Value)}
	mod.Symbols["args"] = objects.FromObject(objects.NewArray(args))

	mod.Symbols["getenv"] = nativeFn("os", "getenv", 1, func(a []objects.Value) (objects.Value, error) {
		name, ok := asString(a[0])
		if !ok {
			return objects.Empty, errors.New("os.getenv: expected str")
		}
		v, ok := os.LookupEnv(name)
		if !ok {
			return objects.Empty, nil
		}
		return objects.FromObject(interner.Intern(v)), nil
	})

	mod.Symbols["exit"] = nativeFn("os", "exit", 1, func(a []objects.Value) (objects.Value, error) {
		code, ok := asInt(a[0])
		if !ok {
			return objects.Empty, errors.New("os.exit: expected int")
		}
		host.Exit(int(code))
		return objects.Empty, nil
	})

	return mod
}

func asString(v objects.Value) (string, bool) {
	if v.Kind != objects.KObject {
		return "", false
	}
	s, ok := v.O.(*objects.StringObj)
	if !ok {
		return "", false
	}
	return s.Data, true
}

func asInt(v objects.Value) (int64, bool) {
	if v.Kind != objects.KInt {
		return 0, false
	}
	return v.I, true
}

func asFloat(v objects.Value) (float64, bool) {
	switch v.Kind {
	case objects.KFloat:
		return v.F, true
	case objects.KInt:
		return float64(v.I), true
	}
	return 0, false
}
