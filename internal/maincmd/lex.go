package maincmd

import (
	"fmt"
	"os"

	"github.com/byteguy8/zeus/lang/scanner"
	"github.com/byteguy8/zeus/lang/token"
	"github.com/mna/mainer"
)

func runLex(stdio mainer.Stdio, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	fset := token.NewFileSet()
	toks, err := scanner.ScanAll(fset, path, src)
	if err != nil {
		return err
	}
	for _, tv := range toks {
		pos := fset.Position(tv.Value.Pos)
		fmt.Fprintf(stdio.Stdout, "%s\t%s\t%q\n", pos, tv.Token, tv.Value.Raw)
	}
	return nil
}
