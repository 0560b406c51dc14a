package maincmd

import (
	"context"

	"github.com/byteguy8/zeus/lang/machine"
	"github.com/byteguy8/zeus/lang/token"
	"github.com/mna/mainer"
)

// runExecute compiles path and runs it to completion, returning the
// program's exit code (spec.md §7).
func runExecute(ctx context.Context, stdio mainer.Stdio, path string, searchPaths []string, progArgs []string) (int, error) {
	fset := token.NewFileSet()
	prog, err := compileFile(fset, path)
	if err != nil {
		return 1, err
	}

	vm := machine.New(machine.Config{
		SearchPaths: searchPaths,
		Args:        progArgs,
		Stdout:      stdio.Stdout,
		Stderr:      stdio.Stderr,
		Stdin:       stdio.Stdin,
	})
	return vm.Run(ctx, prog)
}
