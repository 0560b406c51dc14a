package compiler

import (
	"testing"

	"github.com/byteguy8/zeus/lang/parser"
	"github.com/byteguy8/zeus/lang/resolver"
	"github.com/byteguy8/zeus/lang/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCompile(t *testing.T, src string) *Program {
	t.Helper()
	fset := token.NewFileSet()
	chunk, err := parser.ParseChunk(fset, "test.ze", []byte(src))
	require.NoError(t, err)
	info, err := resolver.Resolve(fset, "test.ze", chunk)
	require.NoError(t, err)
	prog, err := Compile(fset, "test.ze", chunk, info)
	require.NoError(t, err)
	return prog
}

// opsOf decodes a code buffer into its opcode sequence, skipping operand
// bytes per operandWidth, for assertions that don't care about operand
// values.
func opsOf(code []byte) []Op {
	var ops []Op
	for i := 0; i < len(code); {
		op := Op(code[i])
		ops = append(ops, op)
		i += 1 + operandWidth(op)
	}
	return ops
}

func TestCompileEntryEndsInHLT(t *testing.T) {
	prog := mustCompile(t, `let x = 1`)
	entry := prog.Funcs[prog.EntryFunc]
	require.NotEmpty(t, entry.Code)
	assert.Equal(t, HLT, Op(entry.Code[len(entry.Code)-1]))
}

func TestCompileVarDeclInLoopCompiles(t *testing.T) {
	// Regression for the LSET/GDEF pop-vs-peek bug (see DESIGN.md): a
	// declaration repeated in a loop body must compile. Inside a top-level
	// loop the declaration is a module global (see isGlobalScopeChain in the
	// resolver), so it compiles to GDEF; this mainly pins the construct down
	// for the machine-level tests that actually run it.
	prog := mustCompile(t, `
mut i = 0
while i < 3 {
	let tmp = i
	i = i + 1
}
`)
	entry := prog.Funcs[prog.EntryFunc]
	ops := opsOf(entry.Code)
	assert.Contains(t, ops, GDEF)
	assert.Contains(t, ops, JIF)
}

func TestCompileCompoundIndexAssignUsesScratchLocal(t *testing.T) {
	prog := mustCompile(t, `
mut a = array(1, 2, 3)
a[0] += 1
`)
	entry := prog.Funcs[prog.EntryFunc]
	ops := opsOf(entry.Code)
	assert.Contains(t, ops, INDEX)
	assert.Contains(t, ops, ASET)
	// The scratch-local pattern stores the computed value, then reloads the
	// target/index pair before the final ASET.
	assert.Contains(t, ops, LSET)
	assert.Contains(t, ops, LGET)
}

func TestCompileCompoundDotAssignUsesScratchLocal(t *testing.T) {
	prog := mustCompile(t, `
mut r = { x: 1 }
r.x += 1
`)
	entry := prog.Funcs[prog.EntryFunc]
	ops := opsOf(entry.Code)
	assert.Contains(t, ops, ACCESS)
	assert.Contains(t, ops, RSET)
}

func TestCompileExportEmitsGASET(t *testing.T) {
	prog := mustCompile(t, `export let x = 1`)
	entry := prog.Funcs[prog.EntryFunc]
	assert.Contains(t, opsOf(entry.Code), GASET)
	assert.True(t, prog.Exports["x"])
}

func TestCompileProcEndsInRET(t *testing.T) {
	prog := mustCompile(t, `
proc add(a, b) {
	ret a + b
}
let x = add(1, 2)
`)
	require.Len(t, prog.Funcs, 2)
	for _, fn := range prog.Funcs {
		if fn.Name == "add" {
			assert.Equal(t, RET, Op(fn.Code[len(fn.Code)-1]))
			return
		}
	}
	t.Fatal("add proto not found")
}

func TestCompileSGETReferencesStatics(t *testing.T) {
	prog := mustCompile(t, `
proc add(a, b) {
	ret a + b
}
let f = add
`)
	entry := prog.Funcs[prog.EntryFunc]
	assert.Contains(t, opsOf(entry.Code), SGET)
	require.NotEmpty(t, prog.Statics)
}

func TestCompileTryEmitsForwardAbsoluteCatchAddress(t *testing.T) {
	prog := mustCompile(t, `
try {
	throw "boom"
} catch e {
	let msg = e
}
`)
	entry := prog.Funcs[prog.EntryFunc]
	for i := 0; i < len(entry.Code); {
		op := Op(entry.Code[i])
		if op == TRY_OPEN {
			addr := int(entry.Code[i+1])<<8 | int(entry.Code[i+2])
			assert.Greater(t, addr, i, "TRY_OPEN operand must be an absolute, forward code offset")
			assert.Less(t, addr, len(entry.Code))
			return
		}
		i += 1 + operandWidth(op)
	}
	t.Fatal("no TRY_OPEN emitted")
}
