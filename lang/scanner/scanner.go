// Package scanner tokenizes zeus source files for the parser. It is a
// peripheral collaborator to the compiler core: the compiler consumes an
// already-resolved AST and does not care how source bytes became tokens.
//
// Much of its structure is adapted from the Go source code:
// https://cs.opensource.google/go/go/+/refs/tags/go1.22.1:src/go/scanner/scanner.go
//
// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package scanner

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/byteguy8/zeus/lang/token"
)

// ErrorList accumulates scan errors the way go/scanner does, and renders them
// in the order they were added.
type ErrorList struct {
	errs []string
}

func (el *ErrorList) Add(pos token.Position, msg string) {
	el.errs = append(el.errs, fmt.Sprintf("%s: %s", pos, msg))
}

func (el *ErrorList) Err() error {
	if len(el.errs) == 0 {
		return nil
	}
	return fmt.Errorf("%s", strings.Join(el.errs, "\n"))
}

func (el *ErrorList) Len() int { return len(el.errs) }

// TokenAndValue combines the token kind with its scanned payload.
type TokenAndValue struct {
	Token token.Token
	Value token.Value
}

// ScanAll tokenizes a single source buffer from start to EOF (inclusive),
// returning the full token stream or the accumulated scan errors. Template
// string interpolations are tracked with a brace-depth counter so that the
// `}` that resumes the template text (rather than one belonging to a nested
// block or record literal inside the interpolated expression) is
// disambiguated the same way the parser disambiguates it.
func ScanAll(fset *token.FileSet, filename string, src []byte) ([]TokenAndValue, error) {
	f := fset.AddFile(filename, -1, len(src))
	var (
		s     Scanner
		el    ErrorList
		out   []TokenAndValue
		tv    token.Value
		depth []int // brace nesting recorded at each pending template interpolation
	)
	s.Init(f, src, el.Add)
	var resumeTemplate bool
	for {
		var tok token.Token
		if resumeTemplate {
			tok = s.ScanTemplateContinuation(&tv)
			resumeTemplate = false
		} else {
			tok = s.Scan(&tv)
		}
		out = append(out, TokenAndValue{Token: tok, Value: tv})
		switch tok {
		case token.TMPL_HEAD, token.TMPL_MID:
			depth = append(depth, 0)
		case token.LBRACE:
			if len(depth) > 0 {
				depth[len(depth)-1]++
			}
		case token.RBRACE:
			if len(depth) > 0 {
				if depth[len(depth)-1] == 0 {
					depth = depth[:len(depth)-1]
					resumeTemplate = true
				} else {
					depth[len(depth)-1]--
				}
			}
		case token.EOF:
			return out, el.Err()
		}
	}
}

// Scanner tokenizes a single source file.
type Scanner struct {
	file *token.File
	src  []byte
	err  func(token.Position, string)

	sb          strings.Builder
	invalidByte byte
	cur         rune
	off         int
	roff        int
}

var bom = [3]byte{0xEF, 0xBB, 0xBF}

// Init prepares the scanner to tokenize src, which must belong to file.
func (s *Scanner) Init(file *token.File, src []byte, errHandler func(token.Position, string)) {
	if file.Size() != len(src) {
		panic(fmt.Sprintf("file size (%d) does not match src len (%d)", file.Size(), len(src)))
	}
	s.file = file
	s.src = src
	s.err = errHandler
	s.sb.Reset()
	s.invalidByte = 0
	s.cur = ' '
	s.off = 0
	s.roff = 0

	if len(src) >= len(bom) && bytes.Equal(src[:len(bom)], bom[:]) {
		s.off += len(bom)
		s.roff += len(bom)
	}
	s.advance()
}

func (s *Scanner) peek() byte {
	if s.roff < len(s.src) {
		return s.src[s.roff]
	}
	return 0
}

func (s *Scanner) advance() {
	if s.roff >= len(s.src) {
		s.off = len(s.src)
		s.cur = -1
		return
	}
	s.off = s.roff
	if s.cur == '\n' {
		s.file.AddLine(s.off)
	}
	s.invalidByte = 0
	r, w := rune(s.src[s.roff]), 1
	if r >= utf8.RuneSelf {
		r, w = utf8.DecodeRune(s.src[s.roff:])
		if r == utf8.RuneError && w == 1 {
			s.error(s.off, "illegal UTF-8 encoding")
			s.invalidByte = s.src[s.roff]
		}
	}
	s.roff += w
	s.cur = r
}

func (s *Scanner) error(off int, msg string) {
	if s.err != nil {
		s.err(s.file.Position(s.file.Pos(off)), msg)
	}
}

func (s *Scanner) errorf(off int, format string, args ...any) {
	s.error(off, fmt.Sprintf(format, args...))
}

func (s *Scanner) advanceIf(b byte) bool {
	if s.cur == rune(b) {
		s.advance()
		return true
	}
	return false
}

// Scan returns the next token in the source file, filling tokVal with its
// payload.
func (s *Scanner) Scan(tokVal *token.Value) (tok token.Token) {
	s.skipWhitespaceAndComments()

	pos := s.file.Pos(s.off)
	start := s.off

	switch cur := s.cur; {
	case isLetter(cur):
		lit := s.ident()
		tok = token.LookupIdent(lit)
		*tokVal = token.Value{Raw: lit, Pos: pos}

	case isDigit(cur) || (cur == '.' && isDigit(rune(s.peek()))):
		var lit string
		tok, lit = s.number()
		*tokVal = token.Value{Raw: lit, Pos: pos}
		if tok == token.INT {
			v, err := strconv.ParseInt(lit, 0, 64)
			if err != nil {
				s.error(start, "integer literal out of range")
			}
			tokVal.Int = v
		} else {
			v, err := strconv.ParseFloat(lit, 64)
			if err != nil {
				s.error(start, "float literal out of range")
			}
			tokVal.Float = v
		}

	default:
		s.advance()
		switch cur {
		case '"':
			tok = token.STRING
			lit, val := s.shortString('"')
			*tokVal = token.Value{Raw: lit, Pos: pos, String: val}

		case '`':
			tok, lit, val := s.templatePiece(true)
			*tokVal = token.Value{Raw: lit, Pos: pos, String: val}
			return tok

		case '=':
			tok = token.EQ
			if s.advanceIf('=') {
				tok = token.EQEQ
			}
			*tokVal = token.Value{Raw: tok.String(), Pos: pos}

		case '(', ')', ',', '{', '}', '[', ']', ':':
			tok = singlePunct[cur]
			*tokVal = token.Value{Raw: tok.String(), Pos: pos}

		case '+':
			tok = token.PLUS
			if s.advanceIf('+') {
				tok = token.PLUSPLUS
			} else if s.advanceIf('=') {
				tok = token.PLUS_EQ
			}
			*tokVal = token.Value{Raw: tok.String(), Pos: pos}

		case '*', '%', '^', '&', '|', '~':
			tok = singlePunct[cur]
			if eqTok, ok := compoundAssign[tok]; ok && s.advanceIf('=') {
				tok = eqTok
			}
			*tokVal = token.Value{Raw: tok.String(), Pos: pos}

		case '-':
			tok = token.MINUS
			if s.advanceIf('=') {
				tok = token.MINUS_EQ
			}
			*tokVal = token.Value{Raw: tok.String(), Pos: pos}

		case '.':
			tok = token.DOT
			*tokVal = token.Value{Raw: tok.String(), Pos: pos}

		case '<':
			switch {
			case s.advanceIf('<'):
				tok = token.LTLT
				if s.advanceIf('=') {
					tok = token.LTLT_EQ
				}
			case s.advanceIf('='):
				tok = token.LE
			default:
				tok = token.LT
			}
			*tokVal = token.Value{Raw: tok.String(), Pos: pos}

		case '>':
			switch {
			case s.advanceIf('>'):
				tok = token.GTGT
				if s.advanceIf('=') {
					tok = token.GTGT_EQ
				}
			case s.advanceIf('='):
				tok = token.GE
			default:
				tok = token.GT
			}
			*tokVal = token.Value{Raw: tok.String(), Pos: pos}

		case '!':
			if s.advanceIf('=') {
				tok = token.NEQ
			} else {
				s.errorf(start, "illegal character %#U", cur)
				tok = token.ILLEGAL
			}
			*tokVal = token.Value{Raw: tok.String(), Pos: pos}

		case '/':
			tok = token.SLASH
			if s.advanceIf('=') {
				tok = token.SLASH_EQ
			}
			*tokVal = token.Value{Raw: tok.String(), Pos: pos}

		case -1:
			tok = token.EOF
			*tokVal = token.Value{Raw: "", Pos: pos}

		default:
			if cur == utf8.RuneError && s.invalidByte > 0 {
				cur = rune(s.invalidByte)
				s.invalidByte = 0
			}
			s.errorf(start, "illegal character %#U", cur)
			tok = token.ILLEGAL
			*tokVal = token.Value{Raw: string(cur), Pos: pos}
		}
	}
	return tok
}

// ScanTemplateContinuation resumes scanning a template string literal after
// the parser has consumed an interpolated `${ expr }` and found the closing
// brace; it is how the parser drives the head/mid/tail protocol described in
// SPEC_FULL.md.
func (s *Scanner) ScanTemplateContinuation(tokVal *token.Value) token.Token {
	pos := s.file.Pos(s.off)
	tok, lit, val := s.templatePiece(false)
	*tokVal = token.Value{Raw: lit, Pos: pos, String: val}
	return tok
}

var singlePunct = map[rune]token.Token{
	'(': token.LPAREN, ')': token.RPAREN, ',': token.COMMA,
	'{': token.LBRACE, '}': token.RBRACE, '[': token.LBRACK, ']': token.RBRACK,
	':': token.COLON, '*': token.STAR, '%': token.PERCENT, '^': token.CIRCUMFLEX,
	'&': token.AMPERSAND, '|': token.PIPE, '~': token.TILDE,
}

var compoundAssign = map[token.Token]token.Token{
	token.STAR:       token.STAR_EQ,
	token.PERCENT:    token.PERCENT_EQ,
	token.CIRCUMFLEX: token.CIRCUMFLEX_EQ,
	token.AMPERSAND:  token.AMP_EQ,
	token.PIPE:       token.PIPE_EQ,
}

func (s *Scanner) ident() string {
	start := s.off
	for isLetter(s.cur) || isDigit(s.cur) {
		s.advance()
	}
	return string(s.src[start:s.off])
}

func (s *Scanner) number() (token.Token, string) {
	start := s.off
	tok := token.INT
	for isDigit(s.cur) {
		s.advance()
	}
	if s.cur == '.' && isDigit(rune(s.peek())) {
		tok = token.FLOAT
		s.advance()
		for isDigit(s.cur) {
			s.advance()
		}
	}
	if s.cur == 'e' || s.cur == 'E' {
		tok = token.FLOAT
		s.advance()
		if s.cur == '+' || s.cur == '-' {
			s.advance()
		}
		for isDigit(s.cur) {
			s.advance()
		}
	}
	return tok, string(s.src[start:s.off])
}

func (s *Scanner) skipWhitespaceAndComments() {
	for {
		switch {
		case isWhitespace(s.cur):
			s.advance()
		case s.cur == '/' && s.peek() == '/':
			for s.cur != '\n' && s.cur != -1 {
				s.advance()
			}
		case s.cur == '/' && s.peek() == '*':
			start := s.off
			s.advance()
			s.advance()
			closed := false
			for s.cur != -1 {
				if s.cur == '*' && s.peek() == '/' {
					s.advance()
					s.advance()
					closed = true
					break
				}
				s.advance()
			}
			if !closed {
				s.error(start, "comment not terminated")
			}
		default:
			return
		}
	}
}

func isWhitespace(r rune) bool { return r == ' ' || r == '\t' || r == '\n' || r == '\r' }
func isLetter(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || r == '_' ||
		r >= utf8.RuneSelf && unicode.IsLetter(r)
}
func isDigit(r rune) bool {
	return '0' <= r && r <= '9' || r >= utf8.RuneSelf && unicode.IsDigit(r)
}
