package natmod

import (
	"bufio"
	"errors"
	"os"

	"github.com/byteguy8/zeus/lang/objects"
)

type fileHandle struct {
	f  *os.File
	br *bufio.Reader
}

func newIO(host *Host) *objects.NativeModuleObj {
	interner := objects.NewInterner()
	mod := &objects.NativeModuleObj{Name: "io", Symbols: make(map[string]objects.Value)}

	mod.Symbols["open"] = nativeFn("io", "open", 2, func(a []objects.Value) (objects.Value, error) {
		path, ok1 := asString(a[0])
		mode, ok2 := asString(a[1])
		if !ok1 || !ok2 {
			return objects.Empty, errors.New("io.open: expected (str, str)")
		}
		flag, err := modeFlag(mode)
		if err != nil {
			return objects.Empty, err
		}
		f, err := os.OpenFile(path, flag, 0644)
		if err != nil {
			return objects.Empty, err
		}
		h := &fileHandle{f: f, br: bufio.NewReader(f)}
		native := host.AllocNative("file", h, func(data any) {
			data.(*fileHandle).f.Close()
		})
		return objects.FromObject(native), nil
	})

	mod.Symbols["read_line"] = nativeFn("io", "read_line", 1, func(a []objects.Value) (objects.Value, error) {
		h, err := fileOf(a[0])
		if err != nil {
			return objects.Empty, err
		}
		line, err := h.br.ReadString('\n')
		if err != nil && line == "" {
			return objects.Empty, nil
		}
		line = trimNewline(line)
		return objects.FromObject(interner.Intern(line)), nil
	})

	mod.Symbols["write"] = nativeFn("io", "write", 2, func(a []objects.Value) (objects.Value, error) {
		h, err := fileOf(a[0])
		if err != nil {
			return objects.Empty, err
		}
		s, ok := asString(a[1])
		if !ok {
			return objects.Empty, errors.New("io.write: expected str")
		}
		_, err = h.f.WriteString(s)
		return objects.Empty, err
	})

	mod.Symbols["close"] = nativeFn("io", "close", 1, func(a []objects.Value) (objects.Value, error) {
		if v, ok := a[0].O.(*objects.NativeObj); ok {
			v.Close()
		}
		return objects.Empty, nil
	})

	_ = host
	return mod
}

func fileOf(v objects.Value) (*fileHandle, error) {
	n, ok := v.O.(*objects.NativeObj)
	if !ok || n.Kind != "file" {
		return nil, errors.New("expected an io file handle")
	}
	return n.Data.(*fileHandle), nil
}

func modeFlag(mode string) (int, error) {
	switch mode {
	case "r":
		return os.O_RDONLY, nil
	case "w":
		return os.O_WRONLY | os.O_CREATE | os.O_TRUNC, nil
	case "a":
		return os.O_WRONLY | os.O_CREATE | os.O_APPEND, nil
	}
	return 0, errors.New("io.open: mode must be one of r, w, a")
}

func trimNewline(s string) string {
	if len(s) > 0 && s[len(s)-1] == '\n' {
		s = s[:len(s)-1]
	}
	if len(s) > 0 && s[len(s)-1] == '\r' {
		s = s[:len(s)-1]
	}
	return s
}
