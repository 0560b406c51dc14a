package maincmd

import (
	"github.com/byteguy8/zeus/lang/compiler"
	"github.com/byteguy8/zeus/lang/parser"
	"github.com/byteguy8/zeus/lang/resolver"
	"github.com/byteguy8/zeus/lang/token"
	"github.com/mna/mainer"
)

// compileFile runs the full parse -> resolve -> compile pipeline for a
// single entry source file, the shape every non-lex/parse stage needs.
func compileFile(fset *token.FileSet, path string) (*compiler.Program, error) {
	chunk, err := parser.ParseFile(fset, path)
	if err != nil {
		return nil, err
	}
	info, err := resolver.Resolve(fset, path, chunk)
	if err != nil {
		return nil, err
	}
	return compiler.Compile(fset, path, chunk, info)
}

func runCompile(stdio mainer.Stdio, path string) error {
	fset := token.NewFileSet()
	_, err := compileFile(fset, path)
	return err
}
