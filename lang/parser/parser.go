// Package parser implements the recursive-descent parser that transforms
// zeus source code into an abstract syntax tree.
package parser

import (
	"errors"
	"fmt"
	"os"

	"github.com/byteguy8/zeus/lang/ast"
	"github.com/byteguy8/zeus/lang/scanner"
	"github.com/byteguy8/zeus/lang/token"
)

// ParseFile reads and parses a single zeus source file, recording it in fset
// under its path. The returned error, if non-nil, is a *scanner.ErrorList.
func ParseFile(fset *token.FileSet, filename string) (*ast.Chunk, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return ParseChunk(fset, filename, src)
}

// ParseChunk parses src as a single chunk named filename, adding it to fset
// for position reporting.
func ParseChunk(fset *token.FileSet, filename string, src []byte) (*ast.Chunk, error) {
	var p parser
	p.init(fset, filename, src)
	ch := p.parseChunk()
	ch.Name = filename
	return ch, p.errors.Err()
}

type parser struct {
	scanner scanner.Scanner
	errors  scanner.ErrorList
	file    *token.File

	tok           token.Token
	val           token.Value
	resumeTmpl    bool
	tmplDepth     []int
}

func (p *parser) init(fset *token.FileSet, filename string, src []byte) {
	p.file = fset.AddFile(filename, -1, len(src))
	p.scanner.Init(p.file, src, p.errors.Add)
	p.advance()
}

// advance scans the next token, handling the brace-depth bookkeeping needed
// to resume inside a template string's interpolation tail.
func (p *parser) advance() {
	if p.resumeTmpl {
		p.tok = p.scanner.ScanTemplateContinuation(&p.val)
		p.resumeTmpl = false
	} else {
		p.tok = p.scanner.Scan(&p.val)
	}

	switch p.tok {
	case token.TMPL_HEAD, token.TMPL_MID:
		p.tmplDepth = append(p.tmplDepth, 0)
	case token.LBRACE:
		if len(p.tmplDepth) > 0 {
			p.tmplDepth[len(p.tmplDepth)-1]++
		}
	case token.RBRACE:
		if len(p.tmplDepth) > 0 {
			last := len(p.tmplDepth) - 1
			if p.tmplDepth[last] == 0 {
				p.tmplDepth = p.tmplDepth[:last]
				p.resumeTmpl = true
			} else {
				p.tmplDepth[last]--
			}
		}
	}
}

var errPanicMode = errors.New("panic")

func (p *parser) error(pos token.Pos, msg string) {
	p.errors.Add(p.file.Position(pos), msg)
}

func (p *parser) errorf(pos token.Pos, format string, args ...any) {
	p.error(pos, fmt.Sprintf(format, args...))
}

// expect consumes the current token if it matches tok, otherwise records an
// error and unwinds parsing of the current statement via panic/recover.
func (p *parser) expect(tok token.Token) token.Pos {
	pos := p.val.Pos
	if p.tok != tok {
		p.errorf(pos, "expected %s, found %s", tok.GoString(), p.tok.GoString())
		panic(errPanicMode)
	}
	p.advance()
	return pos
}

func (p *parser) at(tok token.Token) bool { return p.tok == tok }

func (p *parser) parseChunk() *ast.Chunk {
	ch := &ast.Chunk{}
	block := &ast.Block{Start: p.val.Pos}
	block.Stmts = p.parseStmtsUntil(token.EOF)
	block.End = p.val.Pos
	ch.Block = block
	ch.EOF = p.val.Pos
	return ch
}

// parseStmtsUntil parses statements until the current token is end, recovering
// from a single bad statement by skipping to the next one at the same nesting
// level (best-effort; zeus programs seen by the compiler are expected valid).
func (p *parser) parseStmtsUntil(end token.Token) []ast.Stmt {
	var stmts []ast.Stmt
	for !p.at(end) && !p.at(token.EOF) {
		var stmt ast.Stmt
		func() {
			defer func() {
				if r := recover(); r != nil {
					if r != errPanicMode {
						panic(r)
					}
					p.syncStmt()
				}
			}()
			stmt = p.parseStmt()
		}()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

// syncStmt advances past tokens until a likely statement boundary, to let
// parsing continue after an error instead of aborting the whole file.
func (p *parser) syncStmt() {
	for !p.at(token.EOF) {
		switch p.tok {
		case token.RBRACE, token.LET, token.MUT, token.PROC, token.IF, token.WHILE,
			token.FOR, token.TRY, token.THROW, token.RET, token.STOP, token.CONTINUE,
			token.IMPORT, token.EXPORT:
			return
		}
		p.advance()
	}
}
