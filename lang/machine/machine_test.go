package machine_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/byteguy8/zeus/lang/compiler"
	"github.com/byteguy8/zeus/lang/machine"
	"github.com/byteguy8/zeus/lang/parser"
	"github.com/byteguy8/zeus/lang/resolver"
	"github.com/byteguy8/zeus/lang/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCompile(t *testing.T, src string) *compiler.Program {
	t.Helper()
	fset := token.NewFileSet()
	chunk, err := parser.ParseChunk(fset, "test.ze", []byte(src))
	require.NoError(t, err)
	info, err := resolver.Resolve(fset, "test.ze", chunk)
	require.NoError(t, err)
	prog, err := compiler.Compile(fset, "test.ze", chunk, info)
	require.NoError(t, err)
	return prog
}

type runResult struct {
	code   int
	err    error
	stdout string
	stderr string
}

func run(t *testing.T, src string, cfg machine.Config) runResult {
	t.Helper()
	prog := mustCompile(t, src)
	var outBuf, errBuf bytes.Buffer
	cfg.Stdout = &outBuf
	cfg.Stderr = &errBuf
	vm := machine.New(cfg)
	code, err := vm.Run(context.Background(), prog)
	return runResult{code: code, err: err, stdout: outBuf.String(), stderr: errBuf.String()}
}

func TestRunCleanExitIsZero(t *testing.T) {
	res := run(t, `let x = 1 + 2`, machine.Config{})
	assert.Equal(t, 0, res.code)
	assert.NoError(t, res.err)
}

func TestRunUncaughtThrowExitsOneAndPrintsMessage(t *testing.T) {
	res := run(t, `throw "boom"`, machine.Config{})
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "boom")
}

func TestRunCaughtThrowExitsZero(t *testing.T) {
	res := run(t, `
try {
	throw "boom"
} catch e {
	let msg = e
}
`, machine.Config{})
	assert.Equal(t, 0, res.code)
	assert.Empty(t, res.stderr)
}

func TestRunCallArityMismatchIsCatchable(t *testing.T) {
	res := run(t, `
proc add(a, b) {
	ret a + b
}
try {
	add(1)
} catch e {
	let msg = e
}
`, machine.Config{})
	assert.Equal(t, 0, res.code)
}

func TestRunCallArityMismatchUncaughtExitsOne(t *testing.T) {
	res := run(t, `
proc add(a, b) {
	ret a + b
}
add(1)
`, machine.Config{})
	assert.Equal(t, 1, res.code)
}

func TestRunIntDivisionByZeroIsCatchable(t *testing.T) {
	res := run(t, `
mut r = 0
try {
	r = 1 / 0
} catch e {
	r = -1
}
`, machine.Config{})
	assert.Equal(t, 0, res.code)
}

func TestRunOsExitReportsCode(t *testing.T) {
	res := run(t, `
import os
os.exit(7)
`, machine.Config{})
	assert.Equal(t, 7, res.code)
}

func TestRunOsArgsVisibleToProgram(t *testing.T) {
	res := run(t, `
import os
if os.args[0] != "hello" {
	throw "unexpected args"
}
`, machine.Config{Args: []string{"hello"}})
	assert.Equal(t, 0, res.code)
	assert.Empty(t, res.stderr)
}

func TestRunMathModuleSqrt(t *testing.T) {
	res := run(t, `
import math
import os
mut r = math.sqrt(16.0)
if r != 4.0 {
	os.exit(2)
}
`, machine.Config{})
	assert.Equal(t, 0, res.code)
}

func TestRunRecursiveProc(t *testing.T) {
	res := run(t, `
import os
proc fact(n) {
	if n <= 1 {
		ret 1
	}
	ret n * fact(n - 1)
}
if fact(5) != 120 {
	os.exit(3)
}
`, machine.Config{})
	assert.Equal(t, 0, res.code)
}

func TestRunClosureCapturesOuterLocal(t *testing.T) {
	res := run(t, `
import os
proc counter() {
	mut n = 0
	proc next() {
		n = n + 1
		ret n
	}
	ret next
}
let c = counter()
c()
c()
if c() != 3 {
	os.exit(4)
}
`, machine.Config{})
	assert.Equal(t, 0, res.code)
}

// runFiles writes files (relative paths keyed by name) into a temp dir and
// runs entry, the way a real zeus invocation would resolve `import`
// statements against sibling .ze files (spec.md §4.5).
func runFiles(t *testing.T, files map[string]string, entry string, cfg machine.Config) runResult {
	t.Helper()
	dir := t.TempDir()
	for name, src := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644))
	}

	abs := filepath.Join(dir, entry)
	fset := token.NewFileSet()
	chunk, err := parser.ParseFile(fset, abs)
	require.NoError(t, err)
	info, err := resolver.Resolve(fset, abs, chunk)
	require.NoError(t, err)
	prog, err := compiler.Compile(fset, abs, chunk, info)
	require.NoError(t, err)

	var outBuf, errBuf bytes.Buffer
	cfg.Stdout = &outBuf
	cfg.Stderr = &errBuf
	vm := machine.New(cfg)
	code, runErr := vm.Run(context.Background(), prog)
	return runResult{code: code, err: runErr, stdout: outBuf.String(), stderr: errBuf.String()}
}

// The following mirror spec.md §8's end-to-end scenarios S1-S6.

func TestScenarioS1ArithmeticAndGlobals(t *testing.T) {
	res := run(t, `
mut a = 2
a = a + 3 * 4
println(a)
`, machine.Config{})
	assert.Equal(t, 0, res.code)
	assert.Equal(t, "14\n", res.stdout)
}

func TestScenarioS2ClosureCapturesOneLocal(t *testing.T) {
	res := run(t, `
proc make_adder(x) {
	ret anon(y) { ret x + y }
}
let add3 = make_adder(3)
println(add3(4))
println(add3(10))
`, machine.Config{})
	assert.Equal(t, 0, res.code)
	assert.Equal(t, "7\n13\n", res.stdout)
}

func TestScenarioS3TryCatchWithRecordThrow(t *testing.T) {
	res := run(t, `
try {
	throw { msg: "boom" }
} catch {
	println("caught")
}
`, machine.Config{})
	assert.Equal(t, 0, res.code)
	assert.Equal(t, "caught\n", res.stdout)
}

func TestScenarioS4ForLoopAndList(t *testing.T) {
	// `for i upto 3` reuses an already-declared mutable `i` (this resolver
	// requires the loop variable be declared with `mut` beforehand, see
	// DESIGN.md), so `i` is predeclared here before entering the loop.
	res := run(t, `
let xs = list()
mut i = 0
for i upto 3 {
	xs ++ i
}
println(xs)
`, machine.Config{})
	assert.Equal(t, 0, res.code)
	assert.Equal(t, "list(0, 1, 2)\n", res.stdout)
}

func TestScenarioS5ImportAndVisibility(t *testing.T) {
	res := runFiles(t, map[string]string{
		"a.ze": `
let hidden = 1
export shared
let shared = 42
`,
		"main.ze": `
import a
println(a.shared)
try { println(a.hidden) } catch { println("private") }
`,
	}, "main.ze", machine.Config{})
	assert.Equal(t, 0, res.code)
	assert.Equal(t, "42\nprivate\n", res.stdout)
}

func TestScenarioS6StringInterningIdentity(t *testing.T) {
	res := run(t, `
let x = "hello"
let y = "hel" ++ "lo"
println(x == y)
`, machine.Config{})
	assert.Equal(t, 0, res.code)
	assert.Equal(t, "true\n", res.stdout)
}

func TestRunConcatListAppendsInPlace(t *testing.T) {
	res := run(t, `
let xs = list()
xs ++ 1
xs ++ 2
println(xs)
`, machine.Config{})
	assert.Equal(t, 0, res.code)
	assert.Equal(t, "list(1, 2)\n", res.stdout)
}

func TestRunConcatArrayBuildsNewArray(t *testing.T) {
	res := run(t, `
let a = array(1, 2)
let b = a ++ 3
println(a)
println(b)
`, machine.Config{})
	assert.Equal(t, 0, res.code)
	assert.Equal(t, "array(1, 2)\narray(1, 2, 3)\n", res.stdout)
}

func TestRunConcatMixedTypesIsCatchable(t *testing.T) {
	res := run(t, `
try {
	let x = 1 ++ "a"
} catch e {
	println("caught")
}
`, machine.Config{})
	assert.Equal(t, 0, res.code)
	assert.Equal(t, "caught\n", res.stdout)
}

func TestRunStepBudgetFaults(t *testing.T) {
	res := run(t, `
mut i = 0
while i < 1000000 {
	i = i + 1
}
`, machine.Config{MaxSteps: 100})
	assert.Equal(t, 1, res.code)
	assert.Error(t, res.err)
}
