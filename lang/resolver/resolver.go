// Package resolver implements the scope manager described in spec.md §4.3:
// it walks a parsed chunk, resolves every identifier to a local slot, a
// module global, a named function, a native function or a module alias,
// and records the single-hop closure captures each nested function needs.
package resolver

import (
	"fmt"

	"github.com/byteguy8/zeus/lang/ast"
	"github.com/byteguy8/zeus/lang/scanner"
	"github.com/byteguy8/zeus/lang/token"
)

// NativeModules lists the built-in module names recognized without file
// resolution, per spec.md §6.
var NativeModules = map[string]bool{
	"os":      true,
	"math":    true,
	"random":  true,
	"time":    true,
	"io":      true,
	"nbarray": true,
	"raylib":  true,
}

// Builtins lists the always-available global functions every module sees
// without an import, per spec.md §2's "how `print` is wired... is
// replaceable glue" — zeus source never declares them, so they are
// pre-seeded as globals before a chunk's own declarations are resolved.
var Builtins = []string{"println"}

// Info is the resolution result the compiler consumes.
type Info struct {
	Globals     []string
	GlobalIndex map[string]int
	Exports     map[string]bool

	// FuncIndex assigns every proc/anon declaration a unique, flat index into
	// the program's function table.
	FuncIndex map[ast.Node]int
	Funcs     map[ast.Node]*FuncInfo

	Refs map[*ast.IdentExpr]Ref

	// Decls records, for every declaring node (VarDeclStmt, a proc/anon
	// parameter IdentExpr, a try/catch variable IdentExpr), the Ref the
	// compiler should use to store into it: where the symbol lives and at
	// what index.
	Decls map[ast.Node]Ref

	// Modules maps each import's resolved alias to its module-table index and
	// whether it is a native module or a file path.
	Modules     map[string]int
	ModulePaths []string
	ModuleIsNative []bool
}

func newInfo() *Info {
	return &Info{
		GlobalIndex: make(map[string]int),
		Exports:     make(map[string]bool),
		FuncIndex:   make(map[ast.Node]int),
		Funcs:       make(map[ast.Node]*FuncInfo),
		Refs:        make(map[*ast.IdentExpr]Ref),
		Decls:       make(map[ast.Node]Ref),
		Modules:     make(map[string]int),
	}
}

// Resolve walks chunk and produces its Info, or a *scanner.ErrorList if any
// name errors were found. fset and filename are used only for error
// positions.
func Resolve(fset *token.FileSet, filename string, chunk *ast.Chunk) (*Info, error) {
	r := &resolver{info: newInfo()}
	r.file = fset.File(mustPos(chunk))
	if r.file == nil {
		r.file = fset.AddFile(filename, -1, 0)
	}

	global := &funcCtx{depth: 0}
	r.scope = newScope(ScopeGlobal, nil, global)
	for _, name := range Builtins {
		r.defineBuiltin(name)
	}
	r.resolveBlockStmts(chunk.Block.Stmts)

	return r.info, r.errors.Err()
}

// defineBuiltin registers name as a module global with no declaring AST
// node: unlike define, it never touches info.Decls, since a builtin is never
// the target of a VarDeclStmt and nothing ever assigns to it.
func (r *resolver) defineBuiltin(name string) {
	r.info.GlobalIndex[name] = len(r.info.Globals)
	r.info.Globals = append(r.info.Globals, name)
	sym := &Symbol{Name: name, Kind: SymGlobal, Mutable: false, Index: r.info.GlobalIndex[name], FuncDepth: 0}
	r.scope.syms[name] = sym
}

func mustPos(chunk *ast.Chunk) token.Pos {
	start, _ := chunk.Span()
	return start
}

type resolver struct {
	file    *token.File
	scope   *scope
	info    *Info
	errors  scanner.ErrorList
}

func (r *resolver) error(pos token.Pos, format string, args ...any) {
	r.errors.Add(r.file.Position(pos), fmt.Sprintf(format, args...))
}

func (r *resolver) push(kind ScopeKind) {
	r.scope = newScope(kind, r.scope, r.scope.fn)
}

func (r *resolver) pushFunction() *funcCtx {
	fn := &funcCtx{depth: r.scope.fn.depth + 1, parent: r.scope.fn}
	r.scope = newScope(ScopeFunction, r.scope, fn)
	return fn
}

func (r *resolver) pop() { r.scope = r.scope.parent }

// define declares name in the current scope. If the current scope is the
// global scope, it becomes a module global; otherwise it becomes a local of
// the current function. node is the declaring AST node (a VarDeclStmt or a
// parameter/catch-variable IdentExpr); its resolved Ref is recorded in
// info.Decls for the compiler to consume.
func (r *resolver) define(node ast.Node, pos token.Pos, name string, mutable bool) *Symbol {
	if _, ok := r.scope.lookupLocal(name); ok {
		r.error(pos, "%q is already defined in this scope", name)
	}
	var sym *Symbol
	var ref Ref
	if r.scope.fn.depth == 0 && isGlobalScopeChain(r.scope) {
		if _, ok := r.info.GlobalIndex[name]; !ok {
			r.info.GlobalIndex[name] = len(r.info.Globals)
			r.info.Globals = append(r.info.Globals, name)
		}
		sym = &Symbol{Name: name, Kind: SymGlobal, Mutable: mutable, Index: r.info.GlobalIndex[name], FuncDepth: 0}
		ref = Ref{Kind: RefGlobal, Index: sym.Index}
	} else {
		idx := r.scope.fn.allocLocal()
		sym = &Symbol{Name: name, Kind: SymLocal, Mutable: mutable, Index: idx, FuncDepth: r.scope.fn.depth}
		ref = Ref{Kind: RefLocal, Index: sym.Index}
	}
	r.scope.syms[name] = sym
	r.info.Decls[node] = ref
	return sym
}

// isGlobalScopeChain reports whether neither s nor any of its ancestors is a
// proc/anon function scope —
// i.e. whether s lies directly within the top-level chunk rather than inside
// a proc/anon body. Function-kind scopes themselves are never part of the
// "global" chain except the implicit depth-0 chunk scope.
func isGlobalScopeChain(s *scope) bool {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.kind == ScopeFunction && cur.fn.depth > 0 {
			return false
		}
		if cur.parent == nil {
			return cur.kind == ScopeGlobal
		}
	}
	return true
}

// defineFunction declares a named proc in the current scope and assigns it a
// flat function-table index.
func (r *resolver) defineFunction(pos token.Pos, name string) *Symbol {
	if _, ok := r.scope.lookupLocal(name); ok {
		r.error(pos, "%q is already defined in this scope", name)
	}
	sym := &Symbol{Name: name, Kind: SymFunction, Index: -1, FuncDepth: r.scope.fn.depth}
	r.scope.syms[name] = sym
	return sym
}

func (r *resolver) assignFuncIndex(node ast.Node, fi *FuncInfo) int {
	idx := len(r.info.FuncIndex)
	r.info.FuncIndex[node] = idx
	r.info.Funcs[node] = fi
	return idx
}

// lookup resolves name as seen from the current scope/function, applying the
// single-hop capture rule for SymLocal symbols found in an enclosing
// function.
func (r *resolver) lookup(pos token.Pos, name string) (Ref, bool) {
	for s := r.scope; s != nil; s = s.parent {
		sym, ok := s.lookupLocal(name)
		if !ok {
			continue
		}
		switch sym.Kind {
		case SymGlobal:
			return Ref{Kind: RefGlobal, Index: sym.Index}, true
		case SymFunction:
			return Ref{Kind: RefFunction, Index: sym.Index}, true
		case SymNativeFunction:
			return Ref{Kind: RefNativeFunction, Index: sym.Index}, true
		case SymModule:
			return Ref{Kind: RefModule, Index: sym.Index}, true
		case SymLocal:
			curDepth := r.scope.fn.depth
			switch {
			case sym.FuncDepth == curDepth:
				return Ref{Kind: RefLocal, Index: sym.Index}, true
			case sym.FuncDepth == curDepth-1:
				idx := r.scope.fn.addCapture(name, sym.Index)
				return Ref{Kind: RefCapture, Index: idx}, true
			default:
				r.error(pos, "cannot capture %q: only the immediately enclosing function's locals may be captured", name)
				return Ref{}, false
			}
		}
	}
	r.error(pos, "undefined name: %q", name)
	return Ref{}, false
}

func (r *resolver) resolveIdent(id *ast.IdentExpr) {
	ref, ok := r.lookup(id.NamePos, id.Name)
	if ok {
		r.info.Refs[id] = ref
	}
}

func (r *resolver) mutableSymbolFor(id *ast.IdentExpr) bool {
	for s := r.scope; s != nil; s = s.parent {
		if sym, ok := s.lookupLocal(id.Name); ok {
			return sym.Mutable
		}
	}
	return false
}
