package resolver

import "github.com/byteguy8/zeus/lang/ast"

func (r *resolver) resolveBlockStmts(stmts []ast.Stmt) {
	for _, stmt := range stmts {
		r.resolveStmt(stmt)
	}
}

func (r *resolver) resolveChildBlock(kind ScopeKind, block *ast.Block) {
	r.push(kind)
	r.resolveBlockStmts(block.Stmts)
	r.pop()
}

func (r *resolver) resolveStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.VarDeclStmt:
		if s.Value != nil {
			r.resolveExpr(s.Value)
		}
		r.define(s, s.NamePos, s.Name, s.Mutable)

	case *ast.ProcDeclStmt:
		r.resolveProcDecl(s)

	case *ast.ExprStmt:
		r.resolveExpr(s.X)

	case *ast.AssignStmt:
		r.resolveAssign(s.Assign)

	case *ast.IfStmt:
		r.resolveExpr(s.Cond)
		r.resolveChildBlock(ScopeIf, s.Body)
		for _, elif := range s.Elifs {
			r.resolveExpr(elif.Cond)
			r.resolveChildBlock(ScopeIf, elif.Body)
		}
		if s.Else != nil {
			r.resolveChildBlock(ScopeIf, s.Else)
		}

	case *ast.WhileStmt:
		r.resolveExpr(s.Cond)
		r.resolveChildBlock(ScopeWhile, s.Body)

	case *ast.ForStmt:
		if !r.mutableSymbolFor(s.Var) {
			r.error(s.Var.NamePos, "for loop variable %q must be declared with mut", s.Var.Name)
		}
		r.resolveIdent(s.Var)
		r.resolveExpr(s.Bound)
		r.resolveChildBlock(ScopeFor, s.Body)

	case *ast.TryStmt:
		r.resolveChildBlock(ScopeTry, s.Body)
		r.push(ScopeCatch)
		if s.CatchVar != nil {
			r.define(s.CatchVar, s.CatchVar.NamePos, s.CatchVar.Name, true)
		}
		r.resolveBlockStmts(s.Catch.Stmts)
		r.pop()

	case *ast.ThrowStmt:
		if s.Value != nil {
			r.resolveExpr(s.Value)
		}

	case *ast.RetStmt:
		if s.Value != nil {
			r.resolveExpr(s.Value)
		}

	case *ast.StopStmt, *ast.ContinueStmt:
		// no names to resolve

	case *ast.ImportStmt:
		r.resolveImport(s)

	case *ast.ExportStmt:
		r.resolveExport(s)
	}
}

func (r *resolver) resolveProcDecl(s *ast.ProcDeclStmt) {
	sym := r.defineFunction(s.NamePos, s.Name)
	fn := r.pushFunction()
	for _, p := range s.Params {
		r.define(p, p.NamePos, p.Name, true)
	}
	r.resolveBlockStmts(s.Body.Stmts)
	r.pop()

	fi := &FuncInfo{NumParams: len(s.Params), NumLocals: fn.maxLocal, Captures: fn.captures}
	idx := r.assignFuncIndex(s, fi)
	sym.Index = idx
}

func (r *resolver) resolveImport(s *ast.ImportStmt) {
	alias := lastDotSegment(s.Path)
	if s.Alias != nil {
		alias = s.Alias.Name
	}
	if _, ok := r.scope.lookupLocal(alias); ok {
		r.error(s.ImportPos, "%q is already defined in this scope", alias)
	}
	idx := len(r.info.ModulePaths)
	r.info.ModulePaths = append(r.info.ModulePaths, s.Path)
	r.info.ModuleIsNative = append(r.info.ModuleIsNative, NativeModules[s.Path])
	r.info.Modules[alias] = idx
	r.scope.syms[alias] = &Symbol{Name: alias, Kind: SymModule, Index: idx, FuncDepth: r.scope.fn.depth}
}

func lastDotSegment(path string) string {
	start := 0
	for i := 0; i < len(path); i++ {
		if path[i] == '.' {
			start = i + 1
		}
	}
	return path[start:]
}

func (r *resolver) resolveExport(s *ast.ExportStmt) {
	if r.scope.fn.depth != 0 {
		r.error(s.ExportPos, "export is only valid at module scope")
	}
	switch decl := s.Decl.(type) {
	case *ast.VarDeclStmt:
		r.resolveStmt(decl)
		r.info.Exports[decl.Name] = true
	case *ast.ProcDeclStmt:
		r.resolveStmt(decl)
		r.info.Exports[decl.Name] = true
	}
}

func (r *resolver) resolveAssign(a *ast.AssignExpr) {
	r.resolveExpr(a.Value)
	switch target := ast.Unwrap(a.Target).(type) {
	case *ast.IdentExpr:
		if !r.mutableSymbolFor(target) {
			r.error(target.NamePos, "cannot assign to immutable binding %q", target.Name)
		}
		r.resolveIdent(target)
	case *ast.IndexExpr:
		r.resolveExpr(target.X)
		r.resolveExpr(target.Index)
	case *ast.DotExpr:
		r.resolveExpr(target.X)
	}
}
