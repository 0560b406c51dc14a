package maincmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mna/mainer"
)

const binName = "zeus"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [<option>...] <path> [-- <arg>...]
Run '%[1]s -h' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<option>...] <path> [-- <arg>...]
       %[1]s -h

Compiler and virtual machine for the zeus programming language.

With no stage flag, <path> is compiled and run to completion, and any
trailing arguments after "--" are passed to the running program.

Valid flag options are:
       -h                        Show this help and exit.
       -l                        Lex <path> and print its tokens; do not parse.
       -p                        Parse <path> and print its syntax tree; do not compile.
       -c                        Compile <path> and report errors; do not run.
       -d                        Compile <path> and print its disassembly; do not run.
       --search-paths <list>     Additional module search directories, joined by
                                 the OS path list separator; requires <path>.

-l, -p, -c and -d are mutually exclusive, and each is incompatible with -h.

More information on the %[1]s language:
       https://github.com/byteguy8/zeus
`, binName)
)

// Cmd is the zeus command-line entry point. Its fields are populated by
// mainer.Parser from os.Args before Validate and Main run.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help bool `flag:"h"`

	Lex     bool `flag:"l"`
	Parse   bool `flag:"p"`
	Compile bool `flag:"c"`
	Disasm  bool `flag:"d"`

	SearchPaths string `flag:"search-paths"`

	args []string
}

func (c *Cmd) SetArgs(args []string) { c.args = args }

func (c *Cmd) SetFlags(map[string]bool) {}

// stageCount reports how many of the mutually exclusive stage flags are set.
func (c *Cmd) stageCount() int {
	n := 0
	for _, b := range []bool{c.Lex, c.Parse, c.Compile, c.Disasm} {
		if b {
			n++
		}
	}
	return n
}

func (c *Cmd) Validate() error {
	if c.Help {
		if c.stageCount() > 0 || c.SearchPaths != "" {
			return errors.New("-h cannot be combined with other flags")
		}
		return nil
	}
	if c.stageCount() > 1 {
		return errors.New("-l, -p, -c and -d are mutually exclusive")
	}
	if len(c.args) == 0 {
		return errors.New("no source path specified")
	}
	if c.SearchPaths != "" && len(c.args) == 0 {
		return errors.New("--search-paths requires a source path")
	}
	return nil
}

func (c *Cmd) searchPaths() []string {
	if c.SearchPaths == "" {
		return nil
	}
	parts := strings.Split(c.SearchPaths, string(os.PathListSeparator))
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{EnvVars: false}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.InvalidArgs
	}

	if c.Help {
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success
	}

	path := c.args[0]
	progArgs := c.args[1:]

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)

	var (
		err      error
		exitCode int
	)
	switch {
	case c.Lex:
		err = runLex(stdio, path)
	case c.Parse:
		err = runParse(stdio, path)
	case c.Compile:
		err = runCompile(stdio, path)
	case c.Disasm:
		err = runDisasm(stdio, path)
	default:
		exitCode, err = runExecute(ctx, stdio, path, c.searchPaths(), progArgs)
	}

	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
		return mainer.ExitCode(1)
	}
	return mainer.ExitCode(exitCode)
}
