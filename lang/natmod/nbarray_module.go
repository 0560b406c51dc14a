package natmod

import (
	"errors"

	"github.com/byteguy8/zeus/lang/objects"
)

// NBArrayKind tags a NativeObj holding a fixed-size mutable byte array, the
// "byte-array (native)" kind spec.md §4.4's indexing rules cover (ASET
// requires a non-negative int <= 255 on writes).
const NBArrayKind = "bytearray"

func newNBArray(host *Host) *objects.NativeModuleObj {
	mod := &objects.NativeModuleObj{Name: "nbarray", Symbols: make(map[string]objects.Value)}

	mod.Symbols["new"] = nativeFn("nbarray", "new", 1, func(a []objects.Value) (objects.Value, error) {
		size, ok := asInt(a[0])
		if !ok || size < 0 {
			return objects.Empty, errors.New("nbarray.new: expected non-negative int")
		}
		buf := make([]byte, size)
		native := host.AllocNative(NBArrayKind, buf, nil)
		return objects.FromObject(native), nil
	})

	mod.Symbols["len"] = nativeFn("nbarray", "len", 1, func(a []objects.Value) (objects.Value, error) {
		buf, err := bytesOf(a[0])
		if err != nil {
			return objects.Empty, err
		}
		return objects.Int(int64(len(buf))), nil
	})

	return mod
}

func bytesOf(v objects.Value) ([]byte, error) {
	n, ok := v.O.(*objects.NativeObj)
	if !ok || n.Kind != NBArrayKind {
		return nil, errors.New("expected a nbarray")
	}
	return n.Data.([]byte), nil
}

// NBArrayGet and NBArraySet implement INDEX/ASET against a byte-array
// native object; the machine package's dispatch loop calls these directly
// rather than routing through the native-function call convention, the way
// array/list/dict indexing bypasses it too.
func NBArrayGet(v objects.Value, idx int64) (objects.Value, bool) {
	buf, err := bytesOf(v)
	if err != nil || idx < 0 || idx >= int64(len(buf)) {
		return objects.Empty, false
	}
	return objects.Int(int64(buf[idx])), true
}

func NBArraySet(v objects.Value, idx int64, val objects.Value) bool {
	buf, err := bytesOf(v)
	if err != nil || idx < 0 || idx >= int64(len(buf)) {
		return false
	}
	n, ok := asInt(val)
	if !ok || n < 0 || n > 255 {
		return false
	}
	buf[idx] = byte(n)
	return true
}

// IsNBArray reports whether v is a byte-array native object.
func IsNBArray(v objects.Value) bool {
	n, ok := v.O.(*objects.NativeObj)
	return ok && n.Kind == NBArrayKind
}
