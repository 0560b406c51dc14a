package ast

import "github.com/byteguy8/zeus/lang/token"

// Unwrap peels away ParenExpr wrappers.
func Unwrap(e Expr) Expr {
	for {
		p, ok := e.(*ParenExpr)
		if !ok {
			return e
		}
		e = p.X
	}
}

// IsAssignable reports whether e names a legal assignment target: an
// identifier, an index expression or a dotted attribute access.
func IsAssignable(e Expr) bool {
	switch e := Unwrap(e).(type) {
	case *IdentExpr:
		return true
	case *IndexExpr:
		return true
	case *DotExpr:
		_ = e
		return true
	default:
		return false
	}
}

type (
	// EmptyExpr is the `empty` literal.
	EmptyExpr struct{ Pos token.Pos }

	// BoolExpr is a `true`/`false` literal.
	BoolExpr struct {
		Pos   token.Pos
		Value bool
	}

	// IntExpr is an integer literal.
	IntExpr struct {
		Pos   token.Pos
		Value int64
	}

	// FloatExpr is a float literal.
	FloatExpr struct {
		Pos   token.Pos
		Value float64
	}

	// StringExpr is a plain double-quoted string literal.
	StringExpr struct {
		Pos   token.Pos
		Value string
	}

	// TemplateExpr is a backtick template string; Texts and Exprs alternate
	// literal text (always present, possibly empty) and interpolated expressions,
	// starting and ending with a text part: len(Texts) == len(Exprs)+1.
	TemplateExpr struct {
		Start, End token.Pos
		Texts      []string
		Exprs      []Expr
	}

	// IdentExpr is a bare identifier reference.
	IdentExpr struct {
		NamePos token.Pos
		Name    string
	}

	// ParenExpr is a parenthesized expression, kept for correct Span()
	// reporting and to disambiguate precedence in diagnostics.
	ParenExpr struct {
		Lparen, Rparen token.Pos
		X              Expr
	}

	// UnaryExpr is a prefix unary operator expression.
	UnaryExpr struct {
		OpPos token.Pos
		Op    token.Token // MINUS, NOT, TILDE
		X     Expr
	}

	// BinaryExpr is an infix binary operator expression, including the
	// short-circuiting `and`/`or`.
	BinaryExpr struct {
		OpPos token.Pos
		Op    token.Token
		X, Y  Expr
	}

	// IsExpr tests the runtime type tag of X.
	IsExpr struct {
		IsPos token.Pos
		X     Expr
		Tag   token.TypeTag
	}

	// CallExpr is a function or closure call.
	CallExpr struct {
		Fn             Expr
		Lparen, Rparen token.Pos
		Args           []Expr
	}

	// IndexExpr is `X[Index]`.
	IndexExpr struct {
		X              Expr
		Lbrack, Rbrack token.Pos
		Index          Expr
	}

	// DotExpr is `X.Name`.
	DotExpr struct {
		X       Expr
		Dot     token.Pos
		Name    string
		NamePos token.Pos
	}

	// ArrayExpr is a fixed-size `array(...)` literal.
	ArrayExpr struct {
		Lparen, Rparen token.Pos
		Elems          []Expr
	}

	// ListExpr is a `list(...)` literal.
	ListExpr struct {
		Lparen, Rparen token.Pos
		Elems          []Expr
	}

	// DictEntry is one `key: value` pair of a dict literal.
	DictEntry struct {
		Key, Value Expr
	}

	// DictExpr is a `dict(...)` literal.
	DictExpr struct {
		Lparen, Rparen token.Pos
		Entries        []DictEntry
	}

	// RecordField is one `name: value` field of a record literal.
	RecordField struct {
		NamePos token.Pos
		Name    string
		Value   Expr
	}

	// RecordExpr is a `{ name: value, ... }` record literal.
	RecordExpr struct {
		Lbrace, Rbrace token.Pos
		Fields         []RecordField
	}

	// FuncExpr is an `anon(params) { ... }` closure literal.
	FuncExpr struct {
		AnonPos token.Pos
		Params  []*IdentExpr
		Body    *Block
	}

	// AssignExpr is an assignment used as an expression's right-hand
	// evaluation target is never itself nested as a sub-expression by the
	// grammar; it is only produced at statement level but modeled as an Expr
	// so compound assignment desugaring can reuse expression compilation.
	AssignExpr struct {
		Target Expr
		OpPos  token.Pos
		Op     token.Token // EQ or one of the _EQ compound operators
		Value  Expr
	}
)

func (*EmptyExpr) expr()    {}
func (*BoolExpr) expr()     {}
func (*IntExpr) expr()      {}
func (*FloatExpr) expr()    {}
func (*StringExpr) expr()   {}
func (*TemplateExpr) expr() {}
func (*IdentExpr) expr()    {}
func (*ParenExpr) expr()    {}
func (*UnaryExpr) expr()    {}
func (*BinaryExpr) expr()   {}
func (*IsExpr) expr()       {}
func (*CallExpr) expr()     {}
func (*IndexExpr) expr()    {}
func (*DotExpr) expr()      {}
func (*ArrayExpr) expr()    {}
func (*ListExpr) expr()     {}
func (*DictExpr) expr()     {}
func (*RecordExpr) expr()   {}
func (*FuncExpr) expr()     {}
func (*AssignExpr) expr()   {}

func (n *EmptyExpr) Span() (token.Pos, token.Pos) { return n.Pos, n.Pos }
func (n *BoolExpr) Span() (token.Pos, token.Pos)  { return n.Pos, n.Pos }
func (n *IntExpr) Span() (token.Pos, token.Pos)   { return n.Pos, n.Pos }
func (n *FloatExpr) Span() (token.Pos, token.Pos) { return n.Pos, n.Pos }
func (n *StringExpr) Span() (token.Pos, token.Pos) {
	return n.Pos, n.Pos
}
func (n *TemplateExpr) Span() (token.Pos, token.Pos) { return n.Start, n.End }
func (n *IdentExpr) Span() (token.Pos, token.Pos)    { return n.NamePos, n.NamePos }
func (n *ParenExpr) Span() (token.Pos, token.Pos)    { return n.Lparen, n.Rparen }
func (n *UnaryExpr) Span() (token.Pos, token.Pos) {
	_, end := n.X.Span()
	return n.OpPos, end
}
func (n *BinaryExpr) Span() (token.Pos, token.Pos) {
	start, _ := n.X.Span()
	_, end := n.Y.Span()
	return start, end
}
func (n *IsExpr) Span() (token.Pos, token.Pos) {
	start, _ := n.X.Span()
	return start, n.IsPos
}
func (n *CallExpr) Span() (token.Pos, token.Pos) {
	start, _ := n.Fn.Span()
	return start, n.Rparen
}
func (n *IndexExpr) Span() (token.Pos, token.Pos) {
	start, _ := n.X.Span()
	return start, n.Rbrack
}
func (n *DotExpr) Span() (token.Pos, token.Pos) {
	start, _ := n.X.Span()
	return start, n.NamePos
}
func (n *ArrayExpr) Span() (token.Pos, token.Pos) { return n.Lparen, n.Rparen }
func (n *ListExpr) Span() (token.Pos, token.Pos)  { return n.Lparen, n.Rparen }
func (n *DictExpr) Span() (token.Pos, token.Pos)  { return n.Lparen, n.Rparen }
func (n *RecordExpr) Span() (token.Pos, token.Pos) {
	return n.Lbrace, n.Rbrace
}
func (n *FuncExpr) Span() (token.Pos, token.Pos) {
	_, end := n.Body.Span()
	return n.AnonPos, end
}
func (n *AssignExpr) Span() (token.Pos, token.Pos) {
	start, _ := n.Target.Span()
	_, end := n.Value.Span()
	return start, end
}
