package natmod

import (
	"errors"

	"github.com/byteguy8/zeus/lang/objects"
)

// newRaylibStub registers the raylib name so `import raylib` resolves to a
// module rather than falling through to file resolution, but every call
// into it fails: no cgo graphics dependency is part of this build.
func newRaylibStub() *objects.NativeModuleObj {
	mod := &objects.NativeModuleObj{Name: "raylib", Symbols: make(map[string]objects.Value)}
	unbuilt := nativeFn("raylib", "*", -1, func(a []objects.Value) (objects.Value, error) {
		return objects.Empty, errors.New("native module not built: raylib")
	})
	for _, name := range []string{
		"init_window", "window_should_close", "close_window",
		"begin_drawing", "end_drawing", "clear_background", "draw_text",
	} {
		mod.Symbols[name] = unbuilt
	}
	return mod
}
