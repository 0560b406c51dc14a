package resolver_test

import (
	"testing"

	"github.com/byteguy8/zeus/lang/parser"
	"github.com/byteguy8/zeus/lang/resolver"
	"github.com/byteguy8/zeus/lang/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustResolve(t *testing.T, src string) (*resolver.Info, error) {
	t.Helper()
	fset := token.NewFileSet()
	chunk, err := parser.ParseChunk(fset, "test.ze", []byte(src))
	require.NoError(t, err)
	return resolver.Resolve(fset, "test.ze", chunk)
}

func TestResolverGlobalsAndLocals(t *testing.T) {
	info, err := mustResolve(t, `
let x = 1
mut y = 2
proc add(a, b) {
	ret a + b
}
y = add(x, y)
`)
	require.NoError(t, err)
	assert.Equal(t, []string{"println", "x", "y"}, info.Globals)
	assert.Len(t, info.FuncIndex, 1)
}

func TestResolverRejectsImmutableAssign(t *testing.T) {
	_, err := mustResolve(t, `
let x = 1
x = 2
`)
	assert.Error(t, err)
}

func TestResolverRejectsUndefinedName(t *testing.T) {
	_, err := mustResolve(t, `
mut y = missing
`)
	assert.Error(t, err)
}

func TestResolverCapturesSingleHop(t *testing.T) {
	info, err := mustResolve(t, `
proc outer() {
	mut x = 1
	let inner = anon() {
		ret x
	}
	ret inner()
}
`)
	require.NoError(t, err)
	var sawCapture bool
	for _, fi := range info.Funcs {
		if len(fi.Captures) == 1 && fi.Captures[0].Name == "x" {
			sawCapture = true
		}
	}
	assert.True(t, sawCapture)
}

func TestResolverRejectsDoubleHopCapture(t *testing.T) {
	_, err := mustResolve(t, `
proc outer() {
	mut x = 1
	proc middle() {
		let inner = anon() {
			ret x
		}
		ret inner()
	}
	ret middle()
}
`)
	assert.Error(t, err)
}

func TestResolverImport(t *testing.T) {
	info, err := mustResolve(t, `
import os
import math as m
mut y = m.pi()
`)
	require.NoError(t, err)
	assert.Equal(t, []string{"os", "math"}, info.ModulePaths)
	assert.True(t, info.ModuleIsNative[0])
}
