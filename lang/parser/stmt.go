package parser

import (
	"github.com/byteguy8/zeus/lang/ast"
	"github.com/byteguy8/zeus/lang/token"
)

func (p *parser) parseBlock() *ast.Block {
	lbrace := p.expect(token.LBRACE)
	stmts := p.parseStmtsUntil(token.RBRACE)
	rbrace := p.expect(token.RBRACE)
	return &ast.Block{Start: lbrace, End: rbrace, Stmts: stmts}
}

func (p *parser) parseStmt() ast.Stmt {
	switch p.tok {
	case token.LET, token.MUT:
		return p.parseVarDecl()
	case token.PROC:
		return p.parseProcDecl()
	case token.IF:
		return p.parseIfStmt()
	case token.WHILE:
		return p.parseWhileStmt()
	case token.FOR:
		return p.parseForStmt()
	case token.TRY:
		return p.parseTryStmt()
	case token.THROW:
		return p.parseThrowStmt()
	case token.RET:
		return p.parseRetStmt()
	case token.STOP:
		pos := p.val.Pos
		p.advance()
		return &ast.StopStmt{Pos: pos}
	case token.CONTINUE:
		pos := p.val.Pos
		p.advance()
		return &ast.ContinueStmt{Pos: pos}
	case token.IMPORT:
		return p.parseImportStmt()
	case token.EXPORT:
		return p.parseExportStmt()
	default:
		return p.parseSimpleStmt()
	}
}

func (p *parser) parseVarDecl() ast.Stmt {
	mutable := p.tok == token.MUT
	declPos := p.val.Pos
	p.advance()
	namePos := p.val.Pos
	name := p.expectIdentLit()
	var value ast.Expr
	if p.tok == token.EQ {
		p.advance()
		value = p.parseExpr()
	}
	return &ast.VarDeclStmt{DeclPos: declPos, Mutable: mutable, NamePos: namePos, Name: name, Value: value}
}

func (p *parser) parseProcDecl() *ast.ProcDeclStmt {
	procPos := p.val.Pos
	p.advance()
	namePos := p.val.Pos
	name := p.expectIdentLit()
	p.expect(token.LPAREN)
	params := p.parseParamList()
	p.expect(token.RPAREN)
	body := p.parseBlock()
	return &ast.ProcDeclStmt{ProcPos: procPos, NamePos: namePos, Name: name, Params: params, Body: body}
}

func (p *parser) parseIfStmt() *ast.IfStmt {
	ifPos := p.val.Pos
	p.advance()
	cond := p.parseExpr()
	body := p.parseBlock()
	stmt := &ast.IfStmt{IfPos: ifPos, Cond: cond, Body: body}
	_, stmt.End = body.Span()

	for p.tok == token.ELIF {
		elifPos := p.val.Pos
		p.advance()
		elifCond := p.parseExpr()
		elifBody := p.parseBlock()
		stmt.Elifs = append(stmt.Elifs, ast.ElifClause{ElifPos: elifPos, Cond: elifCond, Body: elifBody})
		_, stmt.End = elifBody.Span()
	}
	if p.tok == token.ELSE {
		p.advance()
		stmt.Else = p.parseBlock()
		_, stmt.End = stmt.Else.Span()
	}
	return stmt
}

func (p *parser) parseWhileStmt() *ast.WhileStmt {
	whilePos := p.val.Pos
	p.advance()
	cond := p.parseExpr()
	body := p.parseBlock()
	return &ast.WhileStmt{WhilePos: whilePos, Cond: cond, Body: body}
}

func (p *parser) parseForStmt() *ast.ForStmt {
	forPos := p.val.Pos
	p.advance()
	v := p.parseIdent()
	var direction token.Token
	switch p.tok {
	case token.UPTO, token.DOWNTO:
		direction = p.tok
		p.advance()
	default:
		p.errorf(p.val.Pos, "expected %s or %s, found %s", token.UPTO.GoString(), token.DOWNTO.GoString(), p.tok.GoString())
		panic(errPanicMode)
	}
	bound := p.parseExpr()
	body := p.parseBlock()
	return &ast.ForStmt{ForPos: forPos, Var: v, Direction: direction, Bound: bound, Body: body}
}

func (p *parser) parseTryStmt() *ast.TryStmt {
	tryPos := p.val.Pos
	p.advance()
	body := p.parseBlock()
	p.expect(token.CATCH)
	var catchVar *ast.IdentExpr
	if p.tok == token.IDENT {
		catchVar = p.parseIdent()
	}
	catch := p.parseBlock()
	return &ast.TryStmt{TryPos: tryPos, Body: body, CatchVar: catchVar, Catch: catch}
}

func (p *parser) parseThrowStmt() *ast.ThrowStmt {
	pos := p.val.Pos
	p.advance()
	var value ast.Expr
	if !p.atStmtEnd() {
		value = p.parseExpr()
	}
	return &ast.ThrowStmt{ThrowPos: pos, Value: value}
}

func (p *parser) parseRetStmt() *ast.RetStmt {
	pos := p.val.Pos
	p.advance()
	var value ast.Expr
	if !p.atStmtEnd() {
		value = p.parseExpr()
	}
	return &ast.RetStmt{RetPos: pos, Value: value}
}

func (p *parser) parseImportStmt() *ast.ImportStmt {
	importPos := p.val.Pos
	p.advance()
	pathPos := p.val.Pos
	first := p.expectIdentLit()
	path := first
	for p.tok == token.DOT {
		p.advance()
		path += "." + p.expectIdentLit()
	}
	stmt := &ast.ImportStmt{ImportPos: importPos, Path: path, PathPos: pathPos}
	if p.tok == token.AS {
		p.advance()
		stmt.Alias = p.parseIdent()
	}
	return stmt
}

func (p *parser) parseExportStmt() *ast.ExportStmt {
	exportPos := p.val.Pos
	p.advance()
	var decl ast.Stmt
	switch p.tok {
	case token.LET, token.MUT:
		decl = p.parseVarDecl()
	case token.PROC:
		decl = p.parseProcDecl()
	default:
		p.errorf(p.val.Pos, "expected declaration after export, found %s", p.tok.GoString())
		panic(errPanicMode)
	}
	return &ast.ExportStmt{ExportPos: exportPos, Decl: decl}
}

// parseSimpleStmt parses an expression statement, or an assignment statement
// when the whole expression is an assignment; an assignment nested inside a
// larger expression stays part of that ExprStmt.
func (p *parser) parseSimpleStmt() ast.Stmt {
	x := p.parseExpr()
	if assign, ok := x.(*ast.AssignExpr); ok {
		return &ast.AssignStmt{Assign: assign}
	}
	return &ast.ExprStmt{X: x}
}

// atStmtEnd reports whether the current token closes the enclosing block or
// starts a new statement, meaning an optional trailing expression is absent.
func (p *parser) atStmtEnd() bool {
	switch p.tok {
	case token.RBRACE, token.EOF, token.LET, token.MUT, token.PROC, token.IF,
		token.WHILE, token.FOR, token.TRY, token.THROW, token.RET, token.STOP,
		token.CONTINUE, token.IMPORT, token.EXPORT:
		return true
	}
	return false
}
