package maincmd

import (
	"github.com/byteguy8/zeus/lang/ast"
	"github.com/byteguy8/zeus/lang/parser"
	"github.com/byteguy8/zeus/lang/token"
	"github.com/mna/mainer"
)

func runParse(stdio mainer.Stdio, path string) error {
	fset := token.NewFileSet()
	chunk, err := parser.ParseFile(fset, path)
	if err != nil {
		return err
	}
	ast.Dump(stdio.Stdout, chunk)
	return nil
}
