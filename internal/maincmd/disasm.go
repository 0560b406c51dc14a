package maincmd

import (
	"github.com/byteguy8/zeus/lang/compiler"
	"github.com/byteguy8/zeus/lang/token"
	"github.com/mna/mainer"
)

func runDisasm(stdio mainer.Stdio, path string) error {
	fset := token.NewFileSet()
	prog, err := compileFile(fset, path)
	if err != nil {
		return err
	}
	return compiler.Disassemble(stdio.Stdout, prog)
}
