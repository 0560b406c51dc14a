package resolver

import "github.com/byteguy8/zeus/lang/ast"

func (r *resolver) resolveExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.EmptyExpr, *ast.BoolExpr, *ast.IntExpr, *ast.FloatExpr, *ast.StringExpr:
		// literals carry no names

	case *ast.TemplateExpr:
		for _, sub := range e.Exprs {
			r.resolveExpr(sub)
		}

	case *ast.IdentExpr:
		r.resolveIdent(e)

	case *ast.ParenExpr:
		r.resolveExpr(e.X)

	case *ast.UnaryExpr:
		r.resolveExpr(e.X)

	case *ast.BinaryExpr:
		r.resolveExpr(e.X)
		r.resolveExpr(e.Y)

	case *ast.IsExpr:
		r.resolveExpr(e.X)

	case *ast.CallExpr:
		r.resolveExpr(e.Fn)
		for _, a := range e.Args {
			r.resolveExpr(a)
		}

	case *ast.IndexExpr:
		r.resolveExpr(e.X)
		r.resolveExpr(e.Index)

	case *ast.DotExpr:
		r.resolveExpr(e.X)

	case *ast.ArrayExpr:
		for _, el := range e.Elems {
			r.resolveExpr(el)
		}

	case *ast.ListExpr:
		for _, el := range e.Elems {
			r.resolveExpr(el)
		}

	case *ast.DictExpr:
		for _, entry := range e.Entries {
			r.resolveExpr(entry.Key)
			r.resolveExpr(entry.Value)
		}

	case *ast.RecordExpr:
		for _, f := range e.Fields {
			r.resolveExpr(f.Value)
		}

	case *ast.FuncExpr:
		r.resolveFuncExpr(e)

	case *ast.AssignExpr:
		r.resolveAssign(e)
	}
}

func (r *resolver) resolveFuncExpr(e *ast.FuncExpr) {
	fn := r.pushFunction()
	for _, p := range e.Params {
		r.define(p, p.NamePos, p.Name, true)
	}
	r.resolveBlockStmts(e.Body.Stmts)
	r.pop()

	fi := &FuncInfo{NumParams: len(e.Params), NumLocals: fn.maxLocal, Captures: fn.captures}
	r.assignFuncIndex(e, fi)
}
