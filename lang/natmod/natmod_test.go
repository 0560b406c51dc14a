package natmod_test

import (
	"bytes"
	"testing"

	"github.com/byteguy8/zeus/lang/natmod"
	"github.com/byteguy8/zeus/lang/objects"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHost() *natmod.Host {
	return &natmod.Host{
		Args:   []string{"a", "b"},
		Stdout: &bytes.Buffer{},
		Stderr: &bytes.Buffer{},
		Stdin:  bytes.NewReader(nil),
		Exit:   func(code int) {},
		AllocNative: func(kind string, data any, destroy func(any)) *objects.NativeObj {
			return objects.NewNative(kind, data, destroy)
		},
	}
}

func call(t *testing.T, mod *objects.NativeModuleObj, name string, args ...objects.Value) objects.Value {
	t.Helper()
	v, ok := mod.Symbols[name]
	require.True(t, ok, "missing symbol %q", name)
	fn, ok := v.O.(*objects.NativeFunctionObj)
	require.True(t, ok, "%q is not a native function", name)
	result, err := fn.Fn(args)
	require.NoError(t, err)
	return result
}

func TestNewRejectsUnknownModule(t *testing.T) {
	_, ok := natmod.New("nope", testHost())
	assert.False(t, ok)
}

func TestMathModule(t *testing.T) {
	mod, ok := natmod.New("math", testHost())
	require.True(t, ok)

	assert.Equal(t, objects.Float(4), call(t, mod, "sqrt", objects.Float(16)))
	assert.Equal(t, objects.Float(2), call(t, mod, "floor", objects.Float(2.9)))
	assert.Equal(t, objects.Float(3), call(t, mod, "ceil", objects.Float(2.1)))
	assert.Equal(t, objects.Int(5), call(t, mod, "abs", objects.Int(-5)))
	assert.Equal(t, objects.Float(8), call(t, mod, "pow", objects.Float(2), objects.Float(3)))

	pi, ok := mod.Symbols["pi"]
	require.True(t, ok)
	assert.InDelta(t, 3.14159, pi.F, 0.001)
}

func TestMathModuleRejectsNonNumeric(t *testing.T) {
	mod, ok := natmod.New("math", testHost())
	require.True(t, ok)

	v, ok := mod.Symbols["sqrt"]
	require.True(t, ok)
	fn := v.O.(*objects.NativeFunctionObj)
	_, err := fn.Fn([]objects.Value{objects.FromObject(objects.NewNative("x", nil, nil))})
	assert.Error(t, err)
}

func TestRandomModuleDeterministicAfterSeed(t *testing.T) {
	modA, ok := natmod.New("random", testHost())
	require.True(t, ok)
	modB, ok := natmod.New("random", testHost())
	require.True(t, ok)

	call(t, modA, "seed", objects.Int(42))
	call(t, modB, "seed", objects.Int(42))

	for i := 0; i < 5; i++ {
		assert.Equal(t, call(t, modA, "int"), call(t, modB, "int"))
		assert.Equal(t, call(t, modA, "float"), call(t, modB, "float"))
	}
}

func TestRandomFloatInUnitRange(t *testing.T) {
	mod, ok := natmod.New("random", testHost())
	require.True(t, ok)
	call(t, mod, "seed", objects.Int(1))
	for i := 0; i < 20; i++ {
		f := call(t, mod, "float")
		assert.GreaterOrEqual(t, f.F, 0.0)
		assert.Less(t, f.F, 1.0)
	}
}

func TestOSModuleArgsAndExit(t *testing.T) {
	host := testHost()
	var exitCode int
	exited := false
	host.Exit = func(code int) {
		exitCode = code
		exited = true
	}
	mod, ok := natmod.New("os", host)
	require.True(t, ok)

	args, ok := mod.Symbols["args"]
	require.True(t, ok)
	arr, ok := args.O.(*objects.ArrayObj)
	require.True(t, ok)
	require.Len(t, arr.Elems, 2)

	call(t, mod, "exit", objects.Int(3))
	assert.True(t, exited)
	assert.Equal(t, 3, exitCode)
}

func TestOSGetenvMissingReturnsEmpty(t *testing.T) {
	mod, ok := natmod.New("os", testHost())
	require.True(t, ok)
	interner := objects.NewInterner()
	name := objects.FromObject(interner.Intern("ZEUS_TEST_VAR_DOES_NOT_EXIST_XYZ"))
	v := call(t, mod, "getenv", name)
	assert.True(t, v.IsEmpty())
}

func TestNBArrayModule(t *testing.T) {
	mod, ok := natmod.New("nbarray", testHost())
	require.True(t, ok)

	buf := call(t, mod, "new", objects.Int(4))
	assert.True(t, natmod.IsNBArray(buf))
	assert.Equal(t, objects.Int(4), call(t, mod, "len", buf))

	v, ok := natmod.NBArrayGet(buf, 0)
	require.True(t, ok)
	assert.Equal(t, objects.Int(0), v)

	ok = natmod.NBArraySet(buf, 0, objects.Int(200))
	require.True(t, ok)
	v, ok = natmod.NBArrayGet(buf, 0)
	require.True(t, ok)
	assert.Equal(t, objects.Int(200), v)

	assert.False(t, natmod.NBArraySet(buf, 0, objects.Int(256)))
	assert.False(t, natmod.NBArraySet(buf, 10, objects.Int(1)))
	_, ok = natmod.NBArrayGet(buf, 10)
	assert.False(t, ok)
}

func TestRaylibStubAlwaysErrors(t *testing.T) {
	mod, ok := natmod.New("raylib", testHost())
	require.True(t, ok)

	v, ok := mod.Symbols["init_window"]
	require.True(t, ok)
	fn := v.O.(*objects.NativeFunctionObj)
	_, err := fn.Fn(nil)
	assert.Error(t, err)
}

func TestTimeModuleSleepZero(t *testing.T) {
	mod, ok := natmod.New("time", testHost())
	require.True(t, ok)
	call(t, mod, "sleep_ms", objects.Int(0))
	n := call(t, mod, "now_unix")
	assert.Equal(t, objects.KInt, n.Kind)
}
