// Package compiler lowers a resolved zeus AST into per-function bytecode
// chunks, per spec.md §4.1/§4.2: a two-pass label/jump resolver inside each
// function's Unit, and a direct recursive-descent walk of statements and
// expressions that emits one opcode sequence per function.
package compiler

import (
	"fmt"

	"github.com/byteguy8/zeus/lang/ast"
	"github.com/byteguy8/zeus/lang/resolver"
	"github.com/byteguy8/zeus/lang/scanner"
	"github.com/byteguy8/zeus/lang/token"
)

// Compile lowers chunk (already resolved into info) into a Program. Compile
// errors (dead code after return, a statement illegal in its scope) are
// returned as a *scanner.ErrorList-backed error; internal invariant breaks
// (an unresolved jump label) panic, since those indicate a compiler bug
// rather than a user-visible mistake.
func Compile(fset *token.FileSet, filename string, chunk *ast.Chunk, info *resolver.Info) (*Program, error) {
	c := &compiler{info: info, strIndex: make(map[string]int), shapeIndex: make(map[string]int)}
	c.file = fset.File(mustPos(chunk))
	if c.file == nil {
		c.file = fset.AddFile(filename, -1, 0)
	}

	c.prog = &Program{
		Name:           filename,
		Globals:        info.Globals,
		Exports:        info.Exports,
		ModulePaths:    info.ModulePaths,
		ModuleIsNative: info.ModuleIsNative,
	}

	numFuncs := len(info.FuncIndex)
	c.funcNodeByIndex = make([]ast.Node, numFuncs)
	for node, idx := range info.FuncIndex {
		c.funcNodeByIndex[idx] = node
	}
	c.prog.Funcs = make([]*FuncProto, numFuncs+1)
	c.prog.Statics = make([]StaticEntry, numFuncs)
	c.funcCompiled = make([]bool, numFuncs)

	entryProto := &FuncProto{Name: "<entry>"}
	c.prog.Funcs[0] = entryProto
	c.prog.EntryFunc = 0
	c.pushUnit(entryProto)
	c.compileBlockStmts(chunk.Block.Stmts)
	c.cur().emitOp(HLT)
	c.popUnit()

	return c.prog, c.errors.Err()
}

func mustPos(chunk *ast.Chunk) token.Pos {
	start, _ := chunk.Span()
	return start
}

type compiler struct {
	file   *token.File
	info   *resolver.Info
	prog   *Program
	errors scanner.ErrorList

	units []*unit

	strIndex   map[string]int
	shapeIndex map[string]int

	funcNodeByIndex []ast.Node
	funcCompiled    []bool

	// funcDepth mirrors the resolver's own function-nesting counter: 0 at the
	// top-level chunk, incremented while compiling a proc/anon body. It is
	// used to decide whether `ret` is legal; `stop`/`continue` check
	// loopDepth instead.
	funcDepth int
	loopDepth int
}

func (c *compiler) error(pos token.Pos, format string, args ...any) {
	c.errors.Add(c.file.Position(pos), fmt.Sprintf(format, args...))
}

func (c *compiler) cur() *unit { return c.units[len(c.units)-1] }

func (c *compiler) pushUnit(proto *FuncProto) { c.units = append(c.units, newUnit(proto)) }

func (c *compiler) popUnit() {
	u := c.cur()
	u.resolve()
	c.units = c.units[:len(c.units)-1]
}

func (c *compiler) internString(s string) int { return c.prog.internString(c.strIndex, s) }

func (c *compiler) internShape(fields []string) int { return c.prog.internShape(c.shapeIndex, fields) }

// compileFunc compiles the body of a proc/anon declaration identified by its
// flat resolver index (idx = info.FuncIndex[node]), memoizing so a function
// referenced from multiple use sites is only compiled once. It returns the
// Program.Funcs index (idx+1) used as a CALL/SGET target.
func (c *compiler) compileFunc(idx int, name string, params []*ast.IdentExpr, body *ast.Block) int {
	fnIdx := idx + 1
	if c.funcCompiled[idx] {
		return fnIdx
	}
	c.funcCompiled[idx] = true

	node := c.funcNodeByIndex[idx]
	fi := c.info.Funcs[node]

	proto := &FuncProto{Name: name, NumParams: len(params), NumLocals: fi.NumLocals}
	outerSlots := make([]int, len(fi.Captures))
	for i, cap := range fi.Captures {
		proto.Captures = append(proto.Captures, CaptureProto{Name: cap.Name, OuterLocalSlot: cap.OuterLocalSlot})
		outerSlots[i] = cap.OuterLocalSlot
	}
	c.prog.Funcs[fnIdx] = proto
	c.prog.Statics[idx] = StaticEntry{FuncIndex: fnIdx, IsClosure: len(fi.Captures) > 0, CaptureOuterSlot: outerSlots}

	c.funcDepth++
	savedLoopDepth := c.loopDepth
	c.loopDepth = 0
	c.pushUnit(proto)
	c.compileBlockStmts(body.Stmts)
	if !bodyEndsInReturn(body) {
		c.cur().emitOp(EMPTY)
		c.cur().emitOp(RET)
	}
	c.popUnit()
	c.loopDepth = savedLoopDepth
	c.funcDepth--

	return fnIdx
}

func bodyEndsInReturn(b *ast.Block) bool {
	if len(b.Stmts) == 0 {
		return false
	}
	_, ok := b.Stmts[len(b.Stmts)-1].(*ast.RetStmt)
	return ok
}

// emitFuncStatic compiles (if needed) the proc/anon node that ref.Index
// names and emits the SGET that pushes a reference to it.
func (c *compiler) emitFuncStatic(ref resolver.Ref, name string) {
	node := c.funcNodeByIndex[ref.Index]
	switch n := node.(type) {
	case *ast.ProcDeclStmt:
		c.compileFunc(ref.Index, n.Name, n.Params, n.Body)
	case *ast.FuncExpr:
		c.compileFunc(ref.Index, name, n.Params, n.Body)
	}
	c.cur().emitOp(SGET)
	c.cur().emitU32(uint32(ref.Index))
}
