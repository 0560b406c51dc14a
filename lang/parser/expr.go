package parser

import (
	"github.com/byteguy8/zeus/lang/ast"
	"github.com/byteguy8/zeus/lang/token"
)

// compoundAssignOps maps a compound assignment token to the binary operator
// it desugars to (a += b  =>  a = a + b).
var compoundAssignOps = map[token.Token]token.Token{
	token.PLUS_EQ:       token.PLUS,
	token.MINUS_EQ:      token.MINUS,
	token.STAR_EQ:       token.STAR,
	token.SLASH_EQ:      token.SLASH,
	token.PERCENT_EQ:    token.PERCENT,
	token.AMP_EQ:        token.AMPERSAND,
	token.PIPE_EQ:       token.PIPE,
	token.CIRCUMFLEX_EQ: token.CIRCUMFLEX,
	token.LTLT_EQ:       token.LTLT,
	token.GTGT_EQ:       token.GTGT,
}

func (p *parser) parseExpr() ast.Expr { return p.parseAssignment() }

func (p *parser) parseAssignment() ast.Expr {
	left := p.parseLogicOr()

	if p.tok == token.EQ {
		pos := p.val.Pos
		p.advance()
		value := p.parseAssignment()
		if !ast.IsAssignable(left) {
			start, _ := left.Span()
			p.error(start, "invalid assignment target")
		}
		return &ast.AssignExpr{Target: left, OpPos: pos, Op: token.EQ, Value: value}
	}
	if assignTok, ok := compoundAssignOps[p.tok]; ok {
		pos := p.val.Pos
		rawTok := p.tok
		_ = assignTok
		p.advance()
		value := p.parseAssignment()
		if !ast.IsAssignable(left) {
			start, _ := left.Span()
			p.error(start, "invalid assignment target")
		}
		return &ast.AssignExpr{Target: left, OpPos: pos, Op: rawTok, Value: value}
	}
	return left
}

func (p *parser) parseLogicOr() ast.Expr {
	x := p.parseLogicAnd()
	for p.tok == token.OR {
		pos := p.val.Pos
		p.advance()
		y := p.parseLogicAnd()
		x = &ast.BinaryExpr{OpPos: pos, Op: token.OR, X: x, Y: y}
	}
	return x
}

func (p *parser) parseLogicAnd() ast.Expr {
	x := p.parseEquality()
	for p.tok == token.AND {
		pos := p.val.Pos
		p.advance()
		y := p.parseEquality()
		x = &ast.BinaryExpr{OpPos: pos, Op: token.AND, X: x, Y: y}
	}
	return x
}

func (p *parser) parseEquality() ast.Expr {
	x := p.parseCompare()
	for p.tok == token.EQEQ || p.tok == token.NEQ {
		op, pos := p.tok, p.val.Pos
		p.advance()
		y := p.parseCompare()
		x = &ast.BinaryExpr{OpPos: pos, Op: op, X: x, Y: y}
	}
	return x
}

func (p *parser) parseCompare() ast.Expr {
	x := p.parseBitOr()
	for p.tok == token.LT || p.tok == token.GT || p.tok == token.LE || p.tok == token.GE {
		op, pos := p.tok, p.val.Pos
		p.advance()
		y := p.parseBitOr()
		x = &ast.BinaryExpr{OpPos: pos, Op: op, X: x, Y: y}
	}
	return x
}

func (p *parser) parseBitOr() ast.Expr {
	x := p.parseBitXor()
	for p.tok == token.PIPE {
		pos := p.val.Pos
		p.advance()
		y := p.parseBitXor()
		x = &ast.BinaryExpr{OpPos: pos, Op: token.PIPE, X: x, Y: y}
	}
	return x
}

func (p *parser) parseBitXor() ast.Expr {
	x := p.parseBitAnd()
	for p.tok == token.CIRCUMFLEX {
		pos := p.val.Pos
		p.advance()
		y := p.parseBitAnd()
		x = &ast.BinaryExpr{OpPos: pos, Op: token.CIRCUMFLEX, X: x, Y: y}
	}
	return x
}

func (p *parser) parseBitAnd() ast.Expr {
	x := p.parseShift()
	for p.tok == token.AMPERSAND {
		pos := p.val.Pos
		p.advance()
		y := p.parseShift()
		x = &ast.BinaryExpr{OpPos: pos, Op: token.AMPERSAND, X: x, Y: y}
	}
	return x
}

func (p *parser) parseShift() ast.Expr {
	x := p.parseConcat()
	for p.tok == token.LTLT || p.tok == token.GTGT {
		op, pos := p.tok, p.val.Pos
		p.advance()
		y := p.parseConcat()
		x = &ast.BinaryExpr{OpPos: pos, Op: op, X: x, Y: y}
	}
	return x
}

func (p *parser) parseConcat() ast.Expr {
	x := p.parseAdditive()
	for p.tok == token.PLUSPLUS {
		pos := p.val.Pos
		p.advance()
		y := p.parseAdditive()
		x = &ast.BinaryExpr{OpPos: pos, Op: token.PLUSPLUS, X: x, Y: y}
	}
	return x
}

func (p *parser) parseAdditive() ast.Expr {
	x := p.parseMultiplicative()
	for p.tok == token.PLUS || p.tok == token.MINUS {
		op, pos := p.tok, p.val.Pos
		p.advance()
		y := p.parseMultiplicative()
		x = &ast.BinaryExpr{OpPos: pos, Op: op, X: x, Y: y}
	}
	return x
}

func (p *parser) parseMultiplicative() ast.Expr {
	x := p.parseIsTest()
	for p.tok == token.STAR || p.tok == token.SLASH || p.tok == token.PERCENT {
		op, pos := p.tok, p.val.Pos
		p.advance()
		y := p.parseIsTest()
		x = &ast.BinaryExpr{OpPos: pos, Op: op, X: x, Y: y}
	}
	return x
}

func (p *parser) parseIsTest() ast.Expr {
	x := p.parseUnary()
	if p.tok == token.IS {
		pos := p.val.Pos
		p.advance()
		tagPos := p.val.Pos
		name := p.expectIdentLit()
		tag, ok := token.TypeTags[name]
		if !ok {
			p.errorf(tagPos, "unknown type tag %q", name)
		}
		x = &ast.IsExpr{IsPos: pos, X: x, Tag: tag}
	}
	return x
}

func (p *parser) parseUnary() ast.Expr {
	switch p.tok {
	case token.MINUS, token.NOT, token.TILDE:
		op, pos := p.tok, p.val.Pos
		p.advance()
		x := p.parseUnary()
		return &ast.UnaryExpr{OpPos: pos, Op: op, X: x}
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() ast.Expr {
	x := p.parsePrimary()
	for {
		switch p.tok {
		case token.LPAREN:
			lparen := p.val.Pos
			p.advance()
			args := p.parseArgs()
			rparen := p.expect(token.RPAREN)
			x = &ast.CallExpr{Fn: x, Lparen: lparen, Rparen: rparen, Args: args}
		case token.LBRACK:
			lbrack := p.val.Pos
			p.advance()
			index := p.parseExpr()
			rbrack := p.expect(token.RBRACK)
			x = &ast.IndexExpr{X: x, Lbrack: lbrack, Rbrack: rbrack, Index: index}
		case token.DOT:
			dot := p.val.Pos
			p.advance()
			namePos := p.val.Pos
			name := p.expectIdentLit()
			x = &ast.DotExpr{X: x, Dot: dot, Name: name, NamePos: namePos}
		default:
			return x
		}
	}
}

func (p *parser) parseArgs() []ast.Expr {
	var args []ast.Expr
	if p.tok == token.RPAREN {
		return args
	}
	args = append(args, p.parseExpr())
	for p.tok == token.COMMA {
		p.advance()
		args = append(args, p.parseExpr())
	}
	return args
}

func (p *parser) expectIdentLit() string {
	if p.tok != token.IDENT {
		p.errorf(p.val.Pos, "expected identifier, found %s", p.tok.GoString())
		panic(errPanicMode)
	}
	name := p.val.Raw
	p.advance()
	return name
}

func (p *parser) parseIdent() *ast.IdentExpr {
	pos := p.val.Pos
	name := p.expectIdentLit()
	return &ast.IdentExpr{NamePos: pos, Name: name}
}

func (p *parser) parseParamList() []*ast.IdentExpr {
	var params []*ast.IdentExpr
	if p.tok == token.RPAREN {
		return params
	}
	params = append(params, p.parseIdent())
	for p.tok == token.COMMA {
		p.advance()
		params = append(params, p.parseIdent())
	}
	return params
}

func (p *parser) parsePrimary() ast.Expr {
	pos := p.val.Pos
	switch p.tok {
	case token.EMPTY:
		p.advance()
		return &ast.EmptyExpr{Pos: pos}
	case token.TRUE:
		p.advance()
		return &ast.BoolExpr{Pos: pos, Value: true}
	case token.FALSE:
		p.advance()
		return &ast.BoolExpr{Pos: pos, Value: false}
	case token.INT:
		v := p.val
		p.advance()
		return &ast.IntExpr{Pos: pos, Value: v.Int}
	case token.FLOAT:
		v := p.val
		p.advance()
		return &ast.FloatExpr{Pos: pos, Value: v.Float}
	case token.STRING:
		v := p.val
		p.advance()
		return &ast.StringExpr{Pos: pos, Value: v.String}
	case token.TMPL_HEAD:
		return p.parseTemplate()
	case token.IDENT:
		return p.parseIdent()
	case token.LPAREN:
		p.advance()
		x := p.parseExpr()
		rparen := p.expect(token.RPAREN)
		return &ast.ParenExpr{Lparen: pos, Rparen: rparen, X: x}
	case token.ANON:
		p.advance()
		p.expect(token.LPAREN)
		params := p.parseParamList()
		p.expect(token.RPAREN)
		body := p.parseBlock()
		return &ast.FuncExpr{AnonPos: pos, Params: params, Body: body}
	case token.ARRAY:
		p.advance()
		lparen := p.expect(token.LPAREN)
		elems := p.parseArgs()
		rparen := p.expect(token.RPAREN)
		return &ast.ArrayExpr{Lparen: lparen, Rparen: rparen, Elems: elems}
	case token.LIST:
		p.advance()
		lparen := p.expect(token.LPAREN)
		elems := p.parseArgs()
		rparen := p.expect(token.RPAREN)
		return &ast.ListExpr{Lparen: lparen, Rparen: rparen, Elems: elems}
	case token.DICT:
		p.advance()
		lparen := p.expect(token.LPAREN)
		entries := p.parseDictEntries()
		rparen := p.expect(token.RPAREN)
		return &ast.DictExpr{Lparen: lparen, Rparen: rparen, Entries: entries}
	case token.LBRACE:
		return p.parseRecord()
	}
	p.errorf(pos, "unexpected %s", p.tok.GoString())
	panic(errPanicMode)
}

func (p *parser) parseDictEntries() []ast.DictEntry {
	var entries []ast.DictEntry
	if p.tok == token.RPAREN {
		return entries
	}
	entries = append(entries, p.parseDictEntry())
	for p.tok == token.COMMA {
		p.advance()
		if p.tok == token.RPAREN {
			break
		}
		entries = append(entries, p.parseDictEntry())
	}
	return entries
}

func (p *parser) parseDictEntry() ast.DictEntry {
	key := p.parseExpr()
	p.expect(token.COLON)
	value := p.parseExpr()
	return ast.DictEntry{Key: key, Value: value}
}

func (p *parser) parseRecord() ast.Expr {
	lbrace := p.expect(token.LBRACE)
	var fields []ast.RecordField
	for p.tok != token.RBRACE {
		namePos := p.val.Pos
		name := p.expectIdentLit()
		p.expect(token.COLON)
		value := p.parseExpr()
		fields = append(fields, ast.RecordField{NamePos: namePos, Name: name, Value: value})
		if p.tok == token.COMMA {
			p.advance()
			continue
		}
		break
	}
	rbrace := p.expect(token.RBRACE)
	return &ast.RecordExpr{Lbrace: lbrace, Rbrace: rbrace, Fields: fields}
}

// parseTemplate consumes a TMPL_HEAD and the alternating sequence of
// interpolated expressions and TMPL_MID/TMPL_TAIL text segments that follow.
func (p *parser) parseTemplate() ast.Expr {
	start := p.val.Pos
	texts := []string{p.val.String}
	var exprs []ast.Expr
	end := start
	p.advance()
	for {
		exprs = append(exprs, p.parseExpr())
		if p.tok != token.TMPL_MID && p.tok != token.TMPL_TAIL {
			p.errorf(p.val.Pos, "expected continuation of template string, found %s", p.tok.GoString())
			panic(errPanicMode)
		}
		texts = append(texts, p.val.String)
		end = p.val.Pos
		last := p.tok == token.TMPL_TAIL
		p.advance()
		if last {
			break
		}
	}
	return &ast.TemplateExpr{Start: start, End: end, Texts: texts, Exprs: exprs}
}
