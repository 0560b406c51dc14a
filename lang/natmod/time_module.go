package natmod

import (
	"errors"
	"time"

	"github.com/byteguy8/zeus/lang/objects"
)

func newTime() *objects.NativeModuleObj {
	mod := &objects.NativeModuleObj{Name: "time", Symbols: make(map[string]objects.Value)}

	mod.Symbols["now_unix"] = nativeFn("time", "now_unix", 0, func(a []objects.Value) (objects.Value, error) {
		return objects.Int(time.Now().Unix()), nil
	})

	mod.Symbols["sleep_ms"] = nativeFn("time", "sleep_ms", 1, func(a []objects.Value) (objects.Value, error) {
		ms, ok := asInt(a[0])
		if !ok {
			return objects.Empty, errors.New("time.sleep_ms: expected int")
		}
		if ms > 0 {
			time.Sleep(time.Duration(ms) * time.Millisecond)
		}
		return objects.Empty, nil
	})

	return mod
}
