// Package ast defines the abstract syntax tree produced by the parser and
// consumed by the resolver and compiler. Positions are quasi-lossless: node
// spans are precise enough to drive diagnostics and the compiler's source
// location table, but comments are not retained in the tree.
package ast

import "github.com/byteguy8/zeus/lang/token"

// Node is implemented by every AST node.
type Node interface {
	// Span reports the start and end position of the node.
	Span() (start, end token.Pos)
}

// Expr is implemented by every expression node.
type Expr interface {
	Node
	expr()
}

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	// BlockEnding reports whether this statement may only appear last in its
	// enclosing block (ret, throw, stop, continue).
	BlockEnding() bool
}

// Chunk is the root of a parsed source file.
type Chunk struct {
	Name  string
	Block *Block
	EOF   token.Pos
}

func (n *Chunk) Span() (start, end token.Pos) {
	if n.Block != nil {
		return n.Block.Span()
	}
	return n.EOF, n.EOF
}

// Block is a brace-delimited sequence of statements.
type Block struct {
	Start, End token.Pos
	Stmts      []Stmt
}

func (n *Block) Span() (start, end token.Pos) { return n.Start, n.End }
