// Copyright 2024 The CC Frontend Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cc

// loopContext tracks the break/continue targets of the statement
// currently being parsed, per spec.md §4.6's control-flow lowering:
// `break`/`continue` resolve to whichever enclosing loop or switch
// pushed the most recent frame.
type loopContext struct {
	breakLbl    *Label
	continueLbl *Label
}

// parseBlockItem parses one declaration-or-statement inside a
// compound statement and inserts its IR into the current FuncBuilder.
func (p *Parser) parseBlockItem() {
	if p.isTypeSpecifierStart() && p.tok.Kind != KwCase && p.tok.Kind != KwDefault {
		p.parseLocalDecl()
		return
	}
	p.parseStmt()
}

// parseLocalDecl parses a block-scope declaration list (no function
// definitions at block scope).
func (p *Parser) parseLocalDecl() {
	loc := p.tok.Loc
	base, storage := p.parseDeclSpecs()
	if _, ok := p.accept(TSemi); ok {
		return
	}
	var decls []VarDeclEntry
	for {
		name, t := p.parseDeclarator(base)
		if storage&QTypedef != 0 {
			if name != nil {
				p.idents.DeclareTypedef(name, t)
			}
		} else {
			info := &VarInfo{Name: name, Type: WithQual(t, storage), Loc: loc}
			if name != nil {
				p.idents.Declare(name, info)
				p.bumpScopePeaks()
			}
			if _, ok := p.accept(TAssign); ok {
				decls = append(decls, VarDeclEntry{Var: info, Init: p.parseInitializer(info.Type)})
			} else {
				decls = append(decls, VarDeclEntry{Var: info})
			}
		}
		if _, ok := p.accept(TComma); !ok {
			break
		}
	}
	p.expect(TSemi)
	if len(decls) == 0 {
		return
	}
	s := allocType[Stmt](p.ctx.Arena)
	s.Kind = SVarDecl
	s.Loc = loc
	s.Decls = decls
	p.fb.InsertStmt(s)
}

// parseStmt parses one statement, lowering control flow into the
// current FuncBuilder's label/branch IR.
func (p *Parser) parseStmt() {
	loc := p.tok.Loc
	switch p.tok.Kind {
	case TLBrace:
		p.parseCompound()
	case TSemi:
		p.advance()
	case KwIf:
		p.parseIf()
	case KwWhile:
		p.parseWhile()
	case KwDo:
		p.parseDoWhile()
	case KwFor:
		p.parseFor()
	case KwSwitch:
		p.parseSwitch()
	case KwReturn:
		p.advance()
		var val *Expr
		if p.tok.Kind != TSemi {
			val = p.parseExpr()
			if p.curFunc != nil && p.curFunc.FuncType != nil {
				val = p.implicitConvert(val, p.curFunc.FuncType.Return())
			}
		}
		p.expect(TSemi)
		s := allocType[Stmt](p.ctx.Arena)
		s.Kind = SReturn
		s.Loc = loc
		s.ReturnValue = val
		p.fb.InsertStmt(s)
		p.fb.Reachable = false
	case KwGoto:
		p.advance()
		if p.tok.Kind == TStar {
			p.advance()
			target := p.parseExpr()
			p.expect(TSemi)
			s := allocType[Stmt](p.ctx.Arena)
			s.Kind = SIndirectBr
			s.Loc = loc
			s.GotoExpr = target
			s.Targets = p.fb.Labels.All()
			p.fb.InsertStmt(s)
			p.fb.Reachable = false
			return
		}
		name := p.expect(TIdent).Ident
		lbl := p.fb.Labels.Resolve(name)
		p.expect(TSemi)
		p.fb.InsertBr(lbl)
	case KwBreak:
		p.advance()
		p.expect(TSemi)
		if len(p.loops) == 0 {
			p.ctx.Errorf(SevTypeError, loc, "'break' statement not in a loop or switch")
		} else {
			p.fb.InsertBr(p.loops[len(p.loops)-1].breakLbl)
		}
	case KwContinue:
		p.advance()
		p.expect(TSemi)
		found := false
		for i := len(p.loops) - 1; i >= 0; i-- {
			if p.loops[i].continueLbl != nil {
				p.fb.InsertBr(p.loops[i].continueLbl)
				found = true
				break
			}
		}
		if !found {
			p.ctx.Errorf(SevTypeError, loc, "'continue' statement not in a loop")
		}
	case KwCase:
		p.advance()
		val := p.parseConstantExpr()
		p.expect(TColon)
		p.emitCaseLabel(loc, val)
		p.parseStmt()
	case KwDefault:
		p.advance()
		p.expect(TColon)
		p.emitCaseLabel(loc, nil)
		p.parseStmt()
	case TIdent:
		if p.peekNext().Kind == TColon {
			name := p.tok.Ident
			p.advance()
			p.advance()
			lbl := p.fb.Labels.Resolve(name)
			p.fb.InsertLabel(lbl)
			p.parseStmt()
			return
		}
		p.parseExprStmt(loc)
	default:
		p.parseExprStmt(loc)
	}
}

func (p *Parser) parseExprStmt(loc Location) {
	e := p.parseExpr()
	p.expect(TSemi)
	s := allocType[Stmt](p.ctx.Arena)
	s.Kind = SExpr
	s.Loc = loc
	s.Expr = e
	p.fb.InsertStmt(s)
}

func (p *Parser) parseCompound() {
	p.expect(TLBrace)
	p.idents.Push()
	p.tags.Push()
	for p.tok.Kind != TRBrace && p.tok.Kind != TEOF {
		p.parseBlockItem()
	}
	p.expect(TRBrace)
	for _, b := range p.idents.Pop() {
		if !b.isTypedef && b.info != nil && !b.info.Used {
			p.ctx.Errorf(SevWarning, b.info.Loc, "'%I' declared but not used", diagIdent(b.info.Name))
		}
	}
	p.tags.Pop()
	p.bumpScopePeaks()
}

// parseIf lowers `if (c) then [else els]` into a conditional branch
// plus a join label, per spec.md §4.6.
func (p *Parser) parseIf() {
	p.advance()
	p.expect(TLParen)
	cond := p.parseExpr()
	p.expect(TRParen)
	thenLbl := p.fb.CreateLabel()
	joinLbl := p.fb.CreateLabel()
	elseLbl := p.fb.CreateLabel()
	p.fb.InsertCondBr(cond, thenLbl, elseLbl)
	p.fb.InsertLabel(thenLbl)
	p.parseStmt()
	p.fb.InsertBr(joinLbl)
	p.fb.InsertLabel(elseLbl)
	if p.tok.Kind == KwElse {
		p.advance()
		p.parseStmt()
	}
	p.fb.InsertBr(joinLbl)
	p.fb.InsertLabel(joinLbl)
}

func (p *Parser) parseWhile() {
	p.advance()
	p.expect(TLParen)
	headLbl := p.fb.CreateLabel()
	bodyLbl := p.fb.CreateLabel()
	endLbl := p.fb.CreateLabel()
	p.fb.InsertBr(headLbl)
	p.fb.InsertLabel(headLbl)
	cond := p.parseExpr()
	p.expect(TRParen)
	p.fb.InsertCondBr(cond, bodyLbl, endLbl)
	p.fb.InsertLabel(bodyLbl)
	p.loops = append(p.loops, loopContext{breakLbl: endLbl, continueLbl: headLbl})
	p.parseStmt()
	p.loops = p.loops[:len(p.loops)-1]
	p.fb.InsertBr(headLbl)
	p.fb.InsertLabel(endLbl)
}

func (p *Parser) parseDoWhile() {
	p.advance()
	bodyLbl := p.fb.CreateLabel()
	condLbl := p.fb.CreateLabel()
	endLbl := p.fb.CreateLabel()
	p.fb.InsertBr(bodyLbl)
	p.fb.InsertLabel(bodyLbl)
	p.loops = append(p.loops, loopContext{breakLbl: endLbl, continueLbl: condLbl})
	p.parseStmt()
	p.loops = p.loops[:len(p.loops)-1]
	p.expect(KwWhile)
	p.expect(TLParen)
	p.fb.InsertBr(condLbl)
	p.fb.InsertLabel(condLbl)
	cond := p.parseExpr()
	p.expect(TRParen)
	p.expect(TSemi)
	p.fb.InsertCondBr(cond, bodyLbl, endLbl)
	p.fb.InsertLabel(endLbl)
}

func (p *Parser) parseFor() {
	p.advance()
	p.expect(TLParen)
	p.idents.Push()
	p.tags.Push()
	if p.isTypeSpecifierStart() {
		p.parseLocalDecl()
	} else if p.tok.Kind != TSemi {
		e := p.parseExpr()
		p.expect(TSemi)
		s := allocType[Stmt](p.ctx.Arena)
		s.Kind = SExpr
		s.Loc = e.Loc
		s.Expr = e
		p.fb.InsertStmt(s)
	} else {
		p.advance()
	}
	headLbl := p.fb.CreateLabel()
	bodyLbl := p.fb.CreateLabel()
	stepLbl := p.fb.CreateLabel()
	endLbl := p.fb.CreateLabel()
	p.fb.InsertBr(headLbl)
	p.fb.InsertLabel(headLbl)
	if p.tok.Kind != TSemi {
		cond := p.parseExpr()
		p.fb.InsertCondBr(cond, bodyLbl, endLbl)
	} else {
		p.fb.InsertBr(bodyLbl)
	}
	p.expect(TSemi)
	var step *Expr
	if p.tok.Kind != TRParen {
		step = p.parseExpr()
	}
	p.expect(TRParen)
	p.fb.InsertLabel(bodyLbl)
	p.loops = append(p.loops, loopContext{breakLbl: endLbl, continueLbl: stepLbl})
	p.parseStmt()
	p.loops = p.loops[:len(p.loops)-1]
	p.fb.InsertBr(stepLbl)
	p.fb.InsertLabel(stepLbl)
	if step != nil {
		s := allocType[Stmt](p.ctx.Arena)
		s.Kind = SExpr
		s.Loc = step.Loc
		s.Expr = step
		p.fb.InsertStmt(s)
	}
	p.fb.InsertBr(headLbl)
	p.fb.InsertLabel(endLbl)
	for _, b := range p.idents.Pop() {
		if !b.isTypedef && b.info != nil && !b.info.Used {
			p.ctx.Errorf(SevWarning, b.info.Loc, "'%I' declared but not used", diagIdent(b.info.Name))
		}
	}
	p.tags.Pop()
	p.bumpScopePeaks()
}

// switchContext tracks the in-progress case-label chain of an
// enclosing switch, so nested case/default labels can extend it.
type switchContext struct {
	tag         *Expr
	cases       []switchCase
	defaultLbl  *Label
	bodyEntered bool
}

type switchCase struct {
	val *Expr
	lbl *Label
}

// parseSwitch lowers `switch (tag) body` into a cascade of
// tag==caseVal compares (spec.md §4.6 has no dedicated multi-way
// branch Stmt kind, so a switch desugars to SCondBr chains the same
// way `if`/`else if` chains do).
func (p *Parser) parseSwitch() {
	p.advance()
	p.expect(TLParen)
	tag := p.parseExpr()
	p.expect(TRParen)

	dispatchLbl := p.fb.CreateLabel()
	bodyLbl := p.fb.CreateLabel()
	endLbl := p.fb.CreateLabel()

	sc := &switchContext{tag: tag, defaultLbl: endLbl}
	p.fb.InsertBr(dispatchLbl)
	p.switches = append(p.switches, sc)
	p.loops = append(p.loops, loopContext{breakLbl: endLbl})

	// Body statements register their case/default labels against sc as
	// they're encountered below via emitCaseLabel; the actual dispatch
	// chain is only known once the body has been scanned, so the entry
	// branch above goes to dispatchLbl, the body is parsed next, and the
	// dispatch cascade is placed at dispatchLbl once sc.cases is complete.
	p.fb.InsertLabel(bodyLbl)
	sc.bodyEntered = true
	p.parseStmt()

	p.loops = p.loops[:len(p.loops)-1]
	p.switches = p.switches[:len(p.switches)-1]
	p.fb.InsertBr(endLbl)

	p.fb.InsertLabel(dispatchLbl)
	for _, c := range sc.cases {
		nextLbl := p.fb.CreateLabel()
		cmp := &Expr{Kind: EBinary, BOp: BCmpEQ, LHS: tag, RHS: c.val, Type: p.ctx.Types.Integer(IKInt, true), Loc: c.val.Loc}
		p.fb.InsertCondBr(cmp, c.lbl, nextLbl)
		p.fb.InsertLabel(nextLbl)
	}
	p.fb.InsertBr(sc.defaultLbl)
	p.fb.InsertLabel(endLbl)
}

// emitCaseLabel defines a fresh label at the current position for a
// `case val:`/`default:` and registers it with the nearest enclosing
// switch's dispatch cascade.
func (p *Parser) emitCaseLabel(loc Location, val *Expr) {
	if len(p.switches) == 0 {
		p.ctx.Errorf(SevTypeError, loc, "'case'/'default' label not within a switch statement")
		return
	}
	sc := p.switches[len(p.switches)-1]
	lbl := p.fb.CreateLabel()
	p.fb.InsertBr(lbl)
	p.fb.InsertLabel(lbl)
	if val == nil {
		sc.defaultLbl = lbl
	} else {
		sc.cases = append(sc.cases, switchCase{val: val, lbl: lbl})
	}
}
