package compiler

import (
	"github.com/byteguy8/zeus/lang/ast"
	"github.com/byteguy8/zeus/lang/resolver"
	"github.com/byteguy8/zeus/lang/token"
)

func (c *compiler) compileExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.EmptyExpr:
		c.cur().emitOp(EMPTY)

	case *ast.BoolExpr:
		if e.Value {
			c.cur().emitOp(TRUE)
		} else {
			c.cur().emitOp(FALSE)
		}

	case *ast.IntExpr:
		c.emitInt(e.Value)

	case *ast.FloatExpr:
		idx := c.cur().internFloat(e.Value)
		c.cur().emitOp(FLOAT)
		c.cur().emitU16(uint16(idx))

	case *ast.StringExpr:
		c.emitStringConst(e.Value)

	case *ast.TemplateExpr:
		c.compileTemplate(e)

	case *ast.IdentExpr:
		c.compileIdentUse(e)

	case *ast.ParenExpr:
		c.compileExpr(e.X)

	case *ast.UnaryExpr:
		c.compileUnary(e)

	case *ast.BinaryExpr:
		c.compileBinary(e)

	case *ast.IsExpr:
		c.compileExpr(e.X)
		c.cur().emitOp(IS)
		c.cur().emitU8(uint8(e.Tag))

	case *ast.CallExpr:
		c.compileExpr(e.Fn)
		for _, a := range e.Args {
			c.compileExpr(a)
		}
		c.cur().emitOp(CALL)
		c.cur().emitU8(uint8(len(e.Args)))

	case *ast.IndexExpr:
		c.compileExpr(e.X)
		c.compileExpr(e.Index)
		c.cur().emitOp(INDEX)

	case *ast.DotExpr:
		c.compileExpr(e.X)
		nameIdx := c.internString(e.Name)
		c.cur().emitOp(ACCESS)
		c.cur().emitU16(uint16(nameIdx))

	case *ast.ArrayExpr:
		for _, el := range e.Elems {
			c.compileExpr(el)
		}
		c.cur().emitOp(ARRAY)
		c.cur().emitU16(uint16(len(e.Elems)))

	case *ast.ListExpr:
		for _, el := range e.Elems {
			c.compileExpr(el)
		}
		c.cur().emitOp(LIST)
		c.cur().emitU16(uint16(len(e.Elems)))

	case *ast.DictExpr:
		for _, entry := range e.Entries {
			c.compileExpr(entry.Key)
			c.compileExpr(entry.Value)
		}
		c.cur().emitOp(DICT)
		c.cur().emitU16(uint16(len(e.Entries)))

	case *ast.RecordExpr:
		fields := make([]string, len(e.Fields))
		for i, f := range e.Fields {
			fields[i] = f.Name
		}
		for _, f := range e.Fields {
			c.compileExpr(f.Value)
		}
		shapeIdx := c.internShape(fields)
		c.cur().emitOp(RECORD)
		c.cur().emitU16(uint16(shapeIdx))

	case *ast.FuncExpr:
		idx := c.info.FuncIndex[e]
		c.emitFuncStatic(resolver.Ref{Kind: resolver.RefFunction, Index: idx}, "<anon>")

	case *ast.AssignExpr:
		c.compileAssign(e)
	}
}

func (c *compiler) emitInt(v int64) {
	if v >= -128 && v <= 127 {
		c.cur().emitOp(CINT)
		c.cur().emitU8(uint8(int8(v)))
		return
	}
	idx := c.cur().internInt(v)
	c.cur().emitOp(INT)
	c.cur().emitU16(uint16(idx))
}

func (c *compiler) emitStringConst(s string) {
	idx := c.internString(s)
	c.cur().emitOp(STRING)
	c.cur().emitU16(uint16(idx))
}

func (c *compiler) compileTemplate(e *ast.TemplateExpr) {
	c.cur().emitOp(STTE)
	for i, text := range e.Texts {
		if text != "" {
			c.emitRawStringPart(text)
		}
		if i < len(e.Exprs) {
			c.compileExpr(e.Exprs[i])
			c.cur().emitOp(WTTE)
		}
	}
	c.cur().emitOp(ETTE)
}

func (c *compiler) emitRawStringPart(s string) {
	idx := c.internString(s)
	c.cur().emitOp(STRING)
	c.cur().emitU16(uint16(idx))
	c.cur().emitOp(WTTE)
}

func (c *compiler) compileIdentUse(id *ast.IdentExpr) {
	ref, ok := c.info.Refs[id]
	if !ok {
		c.error(id.NamePos, "internal: no resolution recorded for %q", id.Name)
		return
	}
	switch ref.Kind {
	case resolver.RefFunction:
		c.emitFuncStatic(ref, id.Name)
	case resolver.RefNativeFunction, resolver.RefModule:
		c.cur().emitOp(NGET)
		c.cur().emitU16(uint16(ref.Index))
	default:
		c.emitGet(ref)
	}
}

func (c *compiler) emitGet(ref resolver.Ref) {
	switch ref.Kind {
	case resolver.RefLocal:
		c.cur().emitOp(LGET)
		c.cur().emitU8(uint8(ref.Index))
	case resolver.RefCapture:
		c.cur().emitOp(OGET)
		c.cur().emitU8(uint8(ref.Index))
	case resolver.RefGlobal:
		name := c.prog.Globals[ref.Index]
		nameIdx := c.internString(name)
		c.cur().emitOp(GGET)
		c.cur().emitU16(uint16(nameIdx))
	}
}

func (c *compiler) emitSet(ref resolver.Ref) {
	switch ref.Kind {
	case resolver.RefLocal:
		c.cur().emitOp(LSET)
		c.cur().emitU8(uint8(ref.Index))
	case resolver.RefCapture:
		c.cur().emitOp(OSET)
		c.cur().emitU8(uint8(ref.Index))
	case resolver.RefGlobal:
		name := c.prog.Globals[ref.Index]
		nameIdx := c.internString(name)
		c.cur().emitOp(GSET)
		c.cur().emitU16(uint16(nameIdx))
	}
}

func (c *compiler) compileUnary(e *ast.UnaryExpr) {
	c.compileExpr(e.X)
	switch e.Op {
	case token.MINUS:
		c.cur().emitOp(NNOT)
	case token.NOT:
		c.cur().emitOp(NOT)
	case token.TILDE:
		c.cur().emitOp(BNOT)
	}
}

func (c *compiler) compileBinary(e *ast.BinaryExpr) {
	switch e.Op {
	case token.OR:
		c.compileExpr(e.X)
		end := c.cur().genLabel(".OR_END")
		c.cur().jmpLike(OR, end)
		c.compileExpr(e.Y)
		c.cur().label(end)
		return
	case token.AND:
		c.compileExpr(e.X)
		end := c.cur().genLabel(".AND_END")
		c.cur().jmpLike(AND, end)
		c.compileExpr(e.Y)
		c.cur().label(end)
		return
	}

	c.compileExpr(e.X)
	c.compileExpr(e.Y)
	op, ok := binOpFor(e.Op)
	if !ok {
		c.error(e.OpPos, "internal: unhandled binary operator %s", e.Op)
		return
	}
	c.cur().emitOp(op)
}

func binOpFor(tok token.Token) (Op, bool) {
	switch tok {
	case token.PLUS:
		return ADD, true
	case token.MINUS:
		return SUB, true
	case token.STAR:
		return MUL, true
	case token.SLASH:
		return DIV, true
	case token.PERCENT:
		return MOD, true
	case token.AMPERSAND:
		return BAND, true
	case token.PIPE:
		return BOR, true
	case token.CIRCUMFLEX:
		return BXOR, true
	case token.LTLT:
		return LSH, true
	case token.GTGT:
		return RSH, true
	case token.PLUSPLUS:
		return CONCAT, true
	case token.LT:
		return LT, true
	case token.GT:
		return GT, true
	case token.LE:
		return LE, true
	case token.GE:
		return GE, true
	case token.EQEQ:
		return EQ, true
	case token.NEQ:
		return NE, true
	default:
		return 0, false
	}
}

// compoundBinOpFor maps a `+=`-family token to the arithmetic/bitwise op its
// desugaring (get, compute, set) performs.
func compoundBinOpFor(tok token.Token) (Op, bool) {
	switch tok {
	case token.PLUS_EQ:
		return ADD, true
	case token.MINUS_EQ:
		return SUB, true
	case token.STAR_EQ:
		return MUL, true
	case token.SLASH_EQ:
		return DIV, true
	case token.PERCENT_EQ:
		return MOD, true
	case token.AMP_EQ:
		return BAND, true
	case token.PIPE_EQ:
		return BOR, true
	case token.CIRCUMFLEX_EQ:
		return BXOR, true
	case token.LTLT_EQ:
		return LSH, true
	case token.GTGT_EQ:
		return RSH, true
	default:
		return 0, false
	}
}

// compileAssign implements spec.md §4.2's assignment compilation: the
// target's shape dispatches to the matching get/set opcodes, and compound
// operators desugar to get, compute, set. Every branch leaves exactly one
// value, the assigned one: LSET/OSET/GSET pop and store, so the identifier
// branch re-reads the target afterward, while ASET and RSET push the stored
// value back themselves. AssignStmt drops that value with a trailing POP; an
// assignment nested inside another expression yields it.
func (c *compiler) compileAssign(a *ast.AssignExpr) {
	switch target := ast.Unwrap(a.Target).(type) {
	case *ast.IdentExpr:
		ref, ok := c.info.Refs[target]
		if !ok {
			c.error(target.NamePos, "internal: no resolution recorded for %q", target.Name)
			return
		}
		if a.Op == token.EQ {
			c.compileExpr(a.Value)
		} else {
			op, ok := compoundBinOpFor(a.Op)
			if !ok {
				c.error(a.OpPos, "internal: unhandled compound operator %s", a.Op)
				return
			}
			c.emitGet(ref)
			c.compileExpr(a.Value)
			c.cur().emitOp(op)
		}
		c.emitSet(ref)
		// LSET/OSET/GSET pop and store; re-read the value so the assignment
		// expression still leaves it for AssignStmt's trailing POP.
		c.emitGet(ref)

	case *ast.IndexExpr:
		if a.Op == token.EQ {
			c.compileExpr(target.X)
			c.compileExpr(target.Index)
			c.compileExpr(a.Value)
		} else {
			op, ok := compoundBinOpFor(a.Op)
			if !ok {
				c.error(a.OpPos, "internal: unhandled compound operator %s", a.Op)
				return
			}
			// No opcode duplicates a stack slot, so the target and index are
			// compiled twice: once to read the current element, once to set
			// the new one. The computed value is parked in a scratch local
			// between the two.
			c.compileExpr(target.X)
			c.compileExpr(target.Index)
			c.cur().emitOp(INDEX)
			c.compileExpr(a.Value)
			c.cur().emitOp(op)
			scratch := c.cur().allocScratch()
			c.cur().emitOp(LSET)
			c.cur().emitU8(uint8(scratch))
			c.compileExpr(target.X)
			c.compileExpr(target.Index)
			c.cur().emitOp(LGET)
			c.cur().emitU8(uint8(scratch))
		}
		c.cur().emitOp(ASET)

	case *ast.DotExpr:
		nameIdx := c.internString(target.Name)
		if a.Op == token.EQ {
			c.compileExpr(target.X)
			c.compileExpr(a.Value)
		} else {
			op, ok := compoundBinOpFor(a.Op)
			if !ok {
				c.error(a.OpPos, "internal: unhandled compound operator %s", a.Op)
				return
			}
			c.compileExpr(target.X)
			c.cur().emitOp(ACCESS)
			c.cur().emitU16(uint16(nameIdx))
			c.compileExpr(a.Value)
			c.cur().emitOp(op)
			scratch := c.cur().allocScratch()
			c.cur().emitOp(LSET)
			c.cur().emitU8(uint8(scratch))
			c.compileExpr(target.X)
			c.cur().emitOp(LGET)
			c.cur().emitU8(uint8(scratch))
		}
		c.cur().emitOp(RSET)
		c.cur().emitU16(uint16(nameIdx))
	}
}
