package compiler

import (
	"github.com/byteguy8/zeus/lang/ast"
	"github.com/byteguy8/zeus/lang/resolver"
	"github.com/byteguy8/zeus/lang/token"
)

func (c *compiler) compileBlockStmts(stmts []ast.Stmt) {
	for i, stmt := range stmts {
		if i > 0 && stmts[i-1].BlockEnding() {
			start, _ := stmt.Span()
			c.error(start, "unreachable statement after a block-ending statement")
			break
		}
		c.compileStmt(stmt)
	}
}

func (c *compiler) compileStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.VarDeclStmt:
		c.compileVarDecl(s)
	case *ast.ProcDeclStmt:
		// Declaring a proc only needs its body compiled eagerly so later
		// references (an SGET at a use site) find it already memoized; the
		// declaration itself pushes nothing onto the value stack.
		idx := c.info.FuncIndex[s]
		c.compileFunc(idx, s.Name, s.Params, s.Body)
	case *ast.ExprStmt:
		c.compileExpr(s.X)
		c.cur().emitOp(POP)
	case *ast.AssignStmt:
		c.compileAssign(s.Assign)
		c.cur().emitOp(POP)
	case *ast.IfStmt:
		c.compileIf(s)
	case *ast.WhileStmt:
		c.compileWhile(s)
	case *ast.ForStmt:
		c.compileFor(s)
	case *ast.TryStmt:
		c.compileTry(s)
	case *ast.ThrowStmt:
		c.compileThrow(s)
	case *ast.RetStmt:
		c.compileRet(s)
	case *ast.StopStmt:
		c.compileStop(s)
	case *ast.ContinueStmt:
		c.compileContinue(s)
	case *ast.ImportStmt:
		// Module resolution is handled by the loader (spec.md §4.5); the
		// compiled program only records the module table entries the
		// resolver already built into Program.ModulePaths/ModuleIsNative.
	case *ast.ExportStmt:
		c.compileExport(s)
	}
}

func (c *compiler) compileVarDecl(s *ast.VarDeclStmt) {
	if s.Value != nil {
		c.compileExpr(s.Value)
	} else {
		c.cur().emitOp(EMPTY)
	}
	ref, ok := c.info.Decls[s]
	if !ok {
		c.error(s.DeclPos, "internal: no resolution recorded for declaration of %q", s.Name)
		c.cur().emitOp(POP)
		return
	}
	switch ref.Kind {
	case resolver.RefGlobal:
		nameIdx := c.internString(s.Name)
		c.cur().emitOp(GDEF)
		c.cur().emitU16(uint16(nameIdx))
	default: // RefLocal
		c.cur().emitOp(LSET)
		c.cur().emitU8(uint8(ref.Index))
	}
}

func (c *compiler) compileExport(s *ast.ExportStmt) {
	switch decl := s.Decl.(type) {
	case *ast.VarDeclStmt:
		c.compileVarDecl(decl)
		nameIdx := c.internString(decl.Name)
		c.cur().emitOp(GASET)
		c.cur().emitU16(uint16(nameIdx))
		c.cur().emitU8(1)
	case *ast.ProcDeclStmt:
		c.compileStmt(decl)
	}
}

func (c *compiler) compileIf(s *ast.IfStmt) {
	u := c.cur()
	end := u.genLabel(".IF_END")

	c.compileExpr(s.Cond)
	next := u.genLabel(".IF_NEXT")
	u.jmpLike(JIF, next)
	c.compileBlockStmts(s.Body.Stmts)
	if !blockReturned(s.Body) {
		u.jmpLike(JMP, end)
	}
	u.label(next)

	for _, elif := range s.Elifs {
		c.compileExpr(elif.Cond)
		nextElif := u.genLabel(".ELIF_NEXT")
		u.jmpLike(JIF, nextElif)
		c.compileBlockStmts(elif.Body.Stmts)
		if !blockReturned(elif.Body) {
			u.jmpLike(JMP, end)
		}
		u.label(nextElif)
	}

	if s.Else != nil {
		c.compileBlockStmts(s.Else.Stmts)
	}

	u.label(end)
}

// blockReturned reports whether every path through b's statements already
// ends the enclosing function/loop, making a trailing jump to the if-chain's
// end label dead code that would itself trip the "unreachable statement"
// check.
func blockReturned(b *ast.Block) bool {
	if len(b.Stmts) == 0 {
		return false
	}
	return b.Stmts[len(b.Stmts)-1].BlockEnding()
}

func (c *compiler) compileWhile(s *ast.WhileStmt) {
	u := c.cur()
	test := u.genLabel(".WHILE_TEST")
	end := u.genLabel(".WHILE_END")

	u.label(test)
	c.compileExpr(s.Cond)
	u.jmpLike(JIF, end)

	c.loopDepth++
	u.pushLoop(test, end)
	c.compileBlockStmts(s.Body.Stmts)
	u.popLoop()
	c.loopDepth--

	u.jmpLike(JMP, test)
	u.label(end)
}

func (c *compiler) compileFor(s *ast.ForStmt) {
	u := c.cur()
	test := u.genLabel(".FOR_TEST")
	end := u.genLabel(".FOR_END")

	ref, ok := c.info.Refs[s.Var]
	if !ok {
		c.error(s.ForPos, "internal: no resolution recorded for loop variable %q", s.Var.Name)
		return
	}

	u.label(test)
	c.emitGet(ref)
	c.compileExpr(s.Bound)
	if s.Direction == token.UPTO {
		u.emitOp(LT) // continue while var < bound (bound is exclusive, spec.md §8 S4)
	} else {
		u.emitOp(GT) // continue while var > bound
	}
	u.jmpLike(JIF, end)

	c.loopDepth++
	u.pushLoop(test, end)
	c.compileBlockStmts(s.Body.Stmts)
	u.popLoop()
	c.loopDepth--

	c.emitGet(ref)
	u.emitOp(CINT)
	u.emitU8(1)
	if s.Direction == token.UPTO {
		u.emitOp(ADD)
	} else {
		u.emitOp(SUB)
	}
	c.emitSet(ref)
	u.jmpLike(JMP, test)
	u.label(end)
}

func (c *compiler) compileTry(s *ast.TryStmt) {
	u := c.cur()
	catchLbl := u.genLabel("CATCH")
	end := u.genLabel(".TRY_END")

	u.emitOp(TRY_OPEN)
	u.mark(catchLbl)

	c.compileBlockStmts(s.Body.Stmts)
	u.emitOp(TRY_CLOSE)
	u.jmpLike(JMP, end)

	u.label(catchLbl)
	if s.CatchVar != nil {
		ref, ok := c.info.Decls[s.CatchVar]
		if ok {
			c.emitSet(ref)
		} else {
			u.emitOp(POP)
		}
	} else {
		u.emitOp(POP)
	}
	c.compileBlockStmts(s.Catch.Stmts)

	u.label(end)
}

func (c *compiler) compileThrow(s *ast.ThrowStmt) {
	if s.Value != nil {
		c.compileExpr(s.Value)
		c.cur().emitOp(THROW)
		c.cur().emitU8(1)
	} else {
		c.cur().emitOp(THROW)
		c.cur().emitU8(0)
	}
}

func (c *compiler) compileRet(s *ast.RetStmt) {
	if c.funcDepth == 0 {
		c.error(s.RetPos, "ret is only valid inside a proc/anon body")
		return
	}
	if s.Value != nil {
		c.compileExpr(s.Value)
	} else {
		c.cur().emitOp(EMPTY)
	}
	c.cur().emitOp(RET)
}

func (c *compiler) compileStop(s *ast.StopStmt) {
	if c.loopDepth == 0 {
		c.error(s.Pos, "stop is only valid inside a loop")
		return
	}
	loop, _ := c.cur().currentLoop()
	c.cur().jmpLike(JMP, loop.end)
}

func (c *compiler) compileContinue(s *ast.ContinueStmt) {
	if c.loopDepth == 0 {
		c.error(s.Pos, "continue is only valid inside a loop")
		return
	}
	loop, _ := c.cur().currentLoop()
	c.cur().jmpLike(JMP, loop.test)
}
