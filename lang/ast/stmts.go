package ast

import "github.com/byteguy8/zeus/lang/token"

type (
	// VarDeclStmt is a `let` or `mut` variable declaration.
	VarDeclStmt struct {
		DeclPos token.Pos
		Mutable bool
		NamePos token.Pos
		Name    string
		Value   Expr
	}

	// ProcDeclStmt is a named `proc` declaration.
	ProcDeclStmt struct {
		ProcPos token.Pos
		NamePos token.Pos
		Name    string
		Params  []*IdentExpr
		Body    *Block
	}

	// ExprStmt is an expression evaluated for its side effect.
	ExprStmt struct {
		X Expr
	}

	// AssignStmt is a plain or compound assignment.
	AssignStmt struct {
		Assign *AssignExpr
	}

	// ElifClause is one `elif cond { ... }` arm of an IfStmt.
	ElifClause struct {
		ElifPos token.Pos
		Cond    Expr
		Body    *Block
	}

	// IfStmt is `if cond {...} elif cond {...} else {...}`.
	IfStmt struct {
		IfPos token.Pos
		Cond  Expr
		Body  *Block
		Elifs []ElifClause
		Else  *Block // nil if absent
		End   token.Pos
	}

	// WhileStmt is `while cond { ... }`.
	WhileStmt struct {
		WhilePos token.Pos
		Cond     Expr
		Body     *Block
	}

	// ForStmt is `for x upto|downto bound { ... }`. Var must already be
	// declared (by an enclosing let/mut) and is mutated in place from its
	// current value towards Bound, one step per iteration, in the direction
	// named by Direction.
	ForStmt struct {
		ForPos    token.Pos
		Var       *IdentExpr
		Direction token.Token // UPTO or DOWNTO
		Bound     Expr
		Body      *Block
	}

	// TryStmt is `try { ... } catch err { ... }`.
	TryStmt struct {
		TryPos   token.Pos
		Body     *Block
		CatchVar *IdentExpr
		Catch    *Block
	}

	// ThrowStmt is `throw expr`.
	ThrowStmt struct {
		ThrowPos token.Pos
		Value    Expr
	}

	// RetStmt is `ret` or `ret expr`; Value is nil for a bare ret.
	RetStmt struct {
		RetPos token.Pos
		Value  Expr
	}

	// StopStmt is `stop`, breaking out of the nearest enclosing loop.
	StopStmt struct {
		Pos token.Pos
	}

	// ContinueStmt is `continue`.
	ContinueStmt struct {
		Pos token.Pos
	}

	// ImportStmt is `import a.b.c` or `import a.b.c as name`; Path holds the
	// dotted identifiers joined by ".".
	ImportStmt struct {
		ImportPos token.Pos
		Path      string
		PathPos   token.Pos
		Alias     *IdentExpr // nil if absent
	}

	// ExportStmt is `export` applied to a following let/mut/proc declaration.
	ExportStmt struct {
		ExportPos token.Pos
		Decl      Stmt // *VarDeclStmt or *ProcDeclStmt
	}
)

func (*VarDeclStmt) BlockEnding() bool  { return false }
func (*ProcDeclStmt) BlockEnding() bool { return false }
func (*ExprStmt) BlockEnding() bool     { return false }
func (*AssignStmt) BlockEnding() bool   { return false }
func (*IfStmt) BlockEnding() bool       { return false }
func (*WhileStmt) BlockEnding() bool    { return false }
func (*ForStmt) BlockEnding() bool      { return false }
func (*TryStmt) BlockEnding() bool      { return false }
func (*ThrowStmt) BlockEnding() bool    { return true }
func (*RetStmt) BlockEnding() bool      { return true }
func (*StopStmt) BlockEnding() bool     { return true }
func (*ContinueStmt) BlockEnding() bool { return true }
func (*ImportStmt) BlockEnding() bool   { return false }
func (*ExportStmt) BlockEnding() bool   { return false }

func (n *VarDeclStmt) Span() (token.Pos, token.Pos) {
	_, end := n.Value.Span()
	return n.DeclPos, end
}
func (n *ProcDeclStmt) Span() (token.Pos, token.Pos) {
	_, end := n.Body.Span()
	return n.ProcPos, end
}
func (n *ExprStmt) Span() (token.Pos, token.Pos) { return n.X.Span() }
func (n *AssignStmt) Span() (token.Pos, token.Pos) {
	return n.Assign.Span()
}
func (n *IfStmt) Span() (token.Pos, token.Pos) { return n.IfPos, n.End }
func (n *WhileStmt) Span() (token.Pos, token.Pos) {
	_, end := n.Body.Span()
	return n.WhilePos, end
}
func (n *ForStmt) Span() (token.Pos, token.Pos) {
	_, end := n.Body.Span()
	return n.ForPos, end
}
func (n *TryStmt) Span() (token.Pos, token.Pos) {
	_, end := n.Catch.Span()
	return n.TryPos, end
}
func (n *ThrowStmt) Span() (token.Pos, token.Pos) {
	if n.Value == nil {
		return n.ThrowPos, n.ThrowPos
	}
	_, end := n.Value.Span()
	return n.ThrowPos, end
}
func (n *RetStmt) Span() (token.Pos, token.Pos) {
	if n.Value == nil {
		return n.RetPos, n.RetPos
	}
	_, end := n.Value.Span()
	return n.RetPos, end
}
func (n *StopStmt) Span() (token.Pos, token.Pos)     { return n.Pos, n.Pos }
func (n *ContinueStmt) Span() (token.Pos, token.Pos) { return n.Pos, n.Pos }
func (n *ImportStmt) Span() (token.Pos, token.Pos) {
	if n.Alias != nil {
		return n.ImportPos, n.Alias.NamePos
	}
	return n.ImportPos, n.PathPos
}
func (n *ExportStmt) Span() (token.Pos, token.Pos) {
	_, end := n.Decl.Span()
	return n.ExportPos, end
}
