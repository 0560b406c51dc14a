package ast

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes a flat, indented S-expression rendering of chunk to w. It
// exists to back the CLI's `-p` stage; it is not a reformatter and does not
// round-trip back into source.
func Dump(w io.Writer, chunk *Chunk) {
	d := &dumper{w: w}
	fmt.Fprintf(w, "(chunk %s\n", chunk.Name)
	d.depth++
	d.stmts(chunk.Block.Stmts)
	d.depth--
	fmt.Fprintln(w, ")")
}

type dumper struct {
	w     io.Writer
	depth int
}

func (d *dumper) line(format string, args ...any) {
	fmt.Fprintf(d.w, "%s%s\n", strings.Repeat("  ", d.depth), fmt.Sprintf(format, args...))
}

func (d *dumper) stmts(stmts []Stmt) {
	for _, s := range stmts {
		d.stmt(s)
	}
}

func (d *dumper) block(b *Block) {
	d.depth++
	d.stmts(b.Stmts)
	d.depth--
}

func (d *dumper) stmt(stmt Stmt) {
	switch s := stmt.(type) {
	case *VarDeclStmt:
		kw := "let"
		if s.Mutable {
			kw = "mut"
		}
		d.line("(%s %s", kw, s.Name)
		d.depth++
		d.expr(s.Value)
		d.depth--
		d.line(")")

	case *ProcDeclStmt:
		d.line("(proc %s (%s)", s.Name, identNames(s.Params))
		d.block(s.Body)
		d.line(")")

	case *ExprStmt:
		d.line("(exprstmt")
		d.depth++
		d.expr(s.X)
		d.depth--
		d.line(")")

	case *AssignStmt:
		d.line("(assignstmt")
		d.depth++
		d.expr(s.Assign)
		d.depth--
		d.line(")")

	case *IfStmt:
		d.line("(if")
		d.depth++
		d.expr(s.Cond)
		d.depth--
		d.block(s.Body)
		for _, elif := range s.Elifs {
			d.line("(elif")
			d.depth++
			d.expr(elif.Cond)
			d.depth--
			d.block(elif.Body)
			d.line(")")
		}
		if s.Else != nil {
			d.line("(else")
			d.block(s.Else)
			d.line(")")
		}
		d.line(")")

	case *WhileStmt:
		d.line("(while")
		d.depth++
		d.expr(s.Cond)
		d.depth--
		d.block(s.Body)
		d.line(")")

	case *ForStmt:
		d.line("(for %s %s", s.Var.Name, s.Direction)
		d.depth++
		d.expr(s.Bound)
		d.depth--
		d.block(s.Body)
		d.line(")")

	case *TryStmt:
		d.line("(try")
		d.block(s.Body)
		catchVar := "_"
		if s.CatchVar != nil {
			catchVar = s.CatchVar.Name
		}
		d.line("(catch %s", catchVar)
		d.block(s.Catch)
		d.line("))")

	case *ThrowStmt:
		d.line("(throw")
		d.depth++
		d.expr(s.Value)
		d.depth--
		d.line(")")

	case *RetStmt:
		d.line("(ret")
		d.depth++
		d.expr(s.Value)
		d.depth--
		d.line(")")

	case *StopStmt:
		d.line("(stop)")

	case *ContinueStmt:
		d.line("(continue)")

	case *ImportStmt:
		alias := ""
		if s.Alias != nil {
			alias = " as " + s.Alias.Name
		}
		d.line("(import %q%s)", s.Path, alias)

	case *ExportStmt:
		d.line("(export")
		d.depth++
		d.stmt(s.Decl)
		d.depth--
		d.line(")")
	}
}

func identNames(params []*IdentExpr) string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	return strings.Join(names, " ")
}

func (d *dumper) expr(expr Expr) {
	if expr == nil {
		d.line("(empty)")
		return
	}
	switch e := expr.(type) {
	case *EmptyExpr:
		d.line("(empty)")
	case *BoolExpr:
		d.line("(bool %v)", e.Value)
	case *IntExpr:
		d.line("(int %d)", e.Value)
	case *FloatExpr:
		d.line("(float %g)", e.Value)
	case *StringExpr:
		d.line("(string %q)", e.Value)
	case *TemplateExpr:
		d.line("(template")
		d.depth++
		for i, text := range e.Texts {
			d.line("(text %q)", text)
			if i < len(e.Exprs) {
				d.expr(e.Exprs[i])
			}
		}
		d.depth--
		d.line(")")
	case *IdentExpr:
		d.line("(ident %s)", e.Name)
	case *ParenExpr:
		d.expr(e.X)
	case *UnaryExpr:
		d.line("(unary %s", e.Op)
		d.depth++
		d.expr(e.X)
		d.depth--
		d.line(")")
	case *BinaryExpr:
		d.line("(binary %s", e.Op)
		d.depth++
		d.expr(e.X)
		d.expr(e.Y)
		d.depth--
		d.line(")")
	case *IsExpr:
		d.line("(is %s", e.Tag)
		d.depth++
		d.expr(e.X)
		d.depth--
		d.line(")")
	case *CallExpr:
		d.line("(call")
		d.depth++
		d.expr(e.Fn)
		for _, a := range e.Args {
			d.expr(a)
		}
		d.depth--
		d.line(")")
	case *IndexExpr:
		d.line("(index")
		d.depth++
		d.expr(e.X)
		d.expr(e.Index)
		d.depth--
		d.line(")")
	case *DotExpr:
		d.line("(dot %s", e.Name)
		d.depth++
		d.expr(e.X)
		d.depth--
		d.line(")")
	case *ArrayExpr:
		d.line("(array")
		d.depth++
		for _, el := range e.Elems {
			d.expr(el)
		}
		d.depth--
		d.line(")")
	case *ListExpr:
		d.line("(list")
		d.depth++
		for _, el := range e.Elems {
			d.expr(el)
		}
		d.depth--
		d.line(")")
	case *DictExpr:
		d.line("(dict")
		d.depth++
		for _, entry := range e.Entries {
			d.line("(entry")
			d.depth++
			d.expr(entry.Key)
			d.expr(entry.Value)
			d.depth--
			d.line(")")
		}
		d.depth--
		d.line(")")
	case *RecordExpr:
		d.line("(record")
		d.depth++
		for _, f := range e.Fields {
			d.line("(field %s", f.Name)
			d.depth++
			d.expr(f.Value)
			d.depth--
			d.line(")")
		}
		d.depth--
		d.line(")")
	case *FuncExpr:
		d.line("(anon (%s)", identNames(e.Params))
		d.block(e.Body)
		d.line(")")
	case *AssignExpr:
		d.line("(assign %s", e.Op)
		d.depth++
		d.expr(e.Target)
		d.expr(e.Value)
		d.depth--
		d.line(")")
	}
}
