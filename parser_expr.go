// Copyright 2024 The CC Frontend Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cc

// parseConstantExpr parses a conditional-expression and requires it
// to fold to a compile-time constant (array bounds, bit-field widths,
// enumerator values, case labels).
func (p *Parser) parseConstantExpr() *Expr {
	e := p.parseCondExpr()
	if !p.ctx.isConstantExpr(e) {
		p.ctx.Errorf(SevEvalError, e.Loc, "expression is not a compile-time constant")
		return e
	}
	if e.Kind != EConst {
		if c, ok := p.ctx.evalConstant(e); ok {
			e = constantToExpr(c, e.Type, e.Loc)
		}
	}
	return e
}

// constantToExpr wraps a folded Constant back into an EConst node of
// the given static type, the form parseConstantExpr and foldConstBinary
// hand callers that expect an already-typed tree (spec.md §3's "parser
// never produces an untyped tree" contract extended to folded constants).
func constantToExpr(c Constant, t *Type, loc Location) *Expr {
	cv := ConstValue{Kind: ConstInt, IntVal: c.Int, UintVal: c.Uint}
	switch {
	case c.IsFloat:
		cv = ConstValue{Kind: ConstFloat, FloatVal: c.Float}
	case c.IsAddr:
		cv = ConstValue{Kind: ConstAddress, Symbol: c.Symbol, Offset: c.Offset}
	}
	return &Expr{Kind: EConst, Const: cv, Type: t, Loc: loc}
}

func (p *Parser) parseExpr() *Expr {
	e := p.parseAssignExpr()
	for p.tok.Kind == TComma {
		loc := p.tok.Loc
		p.advance()
		rhs := p.parseAssignExpr()
		e = &Expr{Kind: EBinary, BOp: BComma, LHS: e, RHS: rhs, Type: rhs.Type, Loc: loc}
	}
	return e
}

func (p *Parser) parseAssignExpr() *Expr {
	lhs := p.parseCondExpr()
	switch p.tok.Kind {
	case TAssign, TPlusEq, TMinusEq, TStarEq, TSlashEq, TPercentEq, TAmpEq, TPipeEq, TCaretEq, TShlEq, TShrEq:
		op := p.tok.Kind
		loc := p.tok.Loc
		p.advance()
		if !p.isLvalue(lhs) {
			p.ctx.Errorf(SevTypeError, loc, "expression is not assignable")
		}
		rhs := p.parseAssignExpr()
		if op == TAssign {
			rhs = p.convertAssign(lhs.Type, rhs, loc)
			return &Expr{Kind: EBinary, BOp: BAssign, LHS: lhs, RHS: rhs, Type: lhs.Type, Loc: loc}
		}
		binOp := compoundBinOp(op, lhs.Type)
		combined := p.buildBinary(binOp, lhs, rhs, loc)
		combined = p.convertAssign(lhs.Type, combined, loc)
		return &Expr{Kind: EBinary, BOp: BAssign, LHS: lhs, RHS: combined, Type: lhs.Type, Loc: loc}
	}
	return lhs
}

func compoundBinOp(tok TokenKind, t *Type) BinOp {
	f := t.IsFloating()
	switch tok {
	case TPlusEq:
		if f {
			return BAddF
		}
		return BAddI
	case TMinusEq:
		if f {
			return BSubF
		}
		return BSubI
	case TStarEq:
		if f {
			return BMulF
		}
		return BMulI
	case TSlashEq:
		if f {
			return BDivF
		}
		if !t.IsSigned() {
			return BDivU
		}
		return BDivS
	case TPercentEq:
		if !t.IsSigned() {
			return BRemU
		}
		return BRemS
	case TAmpEq:
		return BAnd
	case TPipeEq:
		return BOr
	case TCaretEq:
		return BXor
	case TShlEq:
		return BShl
	case TShrEq:
		if !t.IsSigned() {
			return BShrU
		}
		return BShrS
	}
	return BAddI
}

func (p *Parser) parseCondExpr() *Expr {
	cond := p.parseLogOr()
	if p.tok.Kind == TQuestion {
		loc := p.tok.Loc
		p.advance()
		then := p.parseExpr()
		p.expect(TColon)
		els := p.parseCondExpr()
		rt := then.Type
		if then.Type != nil && els.Type != nil && (then.Type.IsInteger() || then.Type.IsFloating()) && (els.Type.IsInteger() || els.Type.IsFloating()) {
			rt = p.ctx.Types.UsualArithmeticConversions(then.Type, els.Type)
		}
		return &Expr{Kind: ECond, Cond: cond, Then: then, Else: els, Type: rt, Loc: loc}
	}
	return cond
}

// binLevel is one precedence tier of the binary-operator ladder.
type binLevel struct {
	toks []TokenKind
	next func(*Parser) *Expr
}

func (p *Parser) parseLogOr() *Expr  { return p.parseLeftAssoc([]TokenKind{TPipePipe}, (*Parser).parseLogAnd) }
func (p *Parser) parseLogAnd() *Expr { return p.parseLeftAssoc([]TokenKind{TAmpAmp}, (*Parser).parseBitOr) }
func (p *Parser) parseBitOr() *Expr  { return p.parseLeftAssoc([]TokenKind{TPipe}, (*Parser).parseBitXor) }
func (p *Parser) parseBitXor() *Expr { return p.parseLeftAssoc([]TokenKind{TCaret}, (*Parser).parseBitAnd) }
func (p *Parser) parseBitAnd() *Expr { return p.parseLeftAssoc([]TokenKind{TAmp}, (*Parser).parseEquality) }
func (p *Parser) parseEquality() *Expr {
	return p.parseLeftAssoc([]TokenKind{TEqEq, TBangEq}, (*Parser).parseRelational)
}
func (p *Parser) parseRelational() *Expr {
	return p.parseLeftAssoc([]TokenKind{TLess, TGreater, TLessEq, TGreaterEq}, (*Parser).parseShift)
}
func (p *Parser) parseShift() *Expr {
	return p.parseLeftAssoc([]TokenKind{TShl, TShr}, (*Parser).parseAdditive)
}
func (p *Parser) parseAdditive() *Expr {
	return p.parseLeftAssoc([]TokenKind{TPlus, TMinus}, (*Parser).parseMultiplicative)
}
func (p *Parser) parseMultiplicative() *Expr {
	return p.parseLeftAssoc([]TokenKind{TStar, TSlash, TPercent}, (*Parser).parseCast)
}

func (p *Parser) parseLeftAssoc(toks []TokenKind, next func(*Parser) *Expr) *Expr {
	e := next(p)
	for {
		matched := false
		for _, tk := range toks {
			if p.tok.Kind == tk {
				loc := p.tok.Loc
				p.advance()
				rhs := next(p)
				if tk == TAmpAmp {
					e = &Expr{Kind: EBinary, BOp: BLogAnd, LHS: e, RHS: rhs, Type: p.ctx.Types.Integer(IKInt, true), Loc: loc}
				} else if tk == TPipePipe {
					e = &Expr{Kind: EBinary, BOp: BLogOr, LHS: e, RHS: rhs, Type: p.ctx.Types.Integer(IKInt, true), Loc: loc}
				} else {
					e = p.buildBinaryFromToken(tk, e, rhs, loc)
				}
				matched = true
				break
			}
		}
		if !matched {
			return e
		}
	}
}

// buildBinaryFromToken resolves a punctuator to the concrete BinOp
// spec.md §3 requires (pointer arithmetic, float vs. integer, signed
// vs. unsigned), applying the usual arithmetic conversions first.
func (p *Parser) buildBinaryFromToken(tok TokenKind, lhs, rhs *Expr, loc Location) *Expr {
	lt, rt := lhs.Type, rhs.Type
	if lt == nil || rt == nil {
		return &Expr{Kind: EBinary, BOp: BAddI, LHS: lhs, RHS: rhs, Type: p.ctx.Types.Integer(IKInt, true), Loc: loc}
	}

	if lt.Kind() == KPointer && (tok == TPlus || tok == TMinus) && rt.IsInteger() {
		op := BPtrAddI
		if tok == TMinus {
			op = BPtrSubI
		}
		return &Expr{Kind: EBinary, BOp: op, LHS: lhs, RHS: rhs, Type: lt, Loc: loc}
	}
	if rt.Kind() == KPointer && tok == TPlus && lt.IsInteger() {
		return &Expr{Kind: EBinary, BOp: BPtrAddI, LHS: rhs, RHS: lhs, Type: rt, Loc: loc}
	}
	if lt.Kind() == KPointer && rt.Kind() == KPointer && tok == TMinus {
		return &Expr{Kind: EBinary, BOp: BPtrDiff, LHS: lhs, RHS: rhs, Type: p.ctx.Types.Integer(IKLong, true), Loc: loc}
	}

	rtIsComparison := tok == TEqEq || tok == TBangEq || tok == TLess || tok == TGreater || tok == TLessEq || tok == TGreaterEq
	common := p.ctx.Types.UsualArithmeticConversions(lt, rt)
	lhs = p.implicitConvert(lhs, common)
	rhs = p.implicitConvert(rhs, common)

	var resultType *Type
	if rtIsComparison {
		resultType = p.ctx.Types.Integer(IKInt, true)
	} else {
		resultType = common
	}

	op := p.buildBinaryOp(tok, common)
	if folded := p.ctx.foldConstBinary(op, resultType, lhs, rhs, loc); folded != nil {
		return folded
	}
	return &Expr{Kind: EBinary, BOp: op, LHS: lhs, RHS: rhs, Type: resultType, Loc: loc}
}

func (p *Parser) buildBinaryOp(tok TokenKind, t *Type) BinOp {
	f := t.IsFloating()
	u := t.IsInteger() && !t.IsSigned()
	switch tok {
	case TPlus:
		if f {
			return BAddF
		}
		return BAddI
	case TMinus:
		if f {
			return BSubF
		}
		return BSubI
	case TStar:
		if f {
			return BMulF
		}
		return BMulI
	case TSlash:
		if f {
			return BDivF
		}
		if u {
			return BDivU
		}
		return BDivS
	case TPercent:
		if u {
			return BRemU
		}
		return BRemS
	case TAmp:
		return BAnd
	case TPipe:
		return BOr
	case TCaret:
		return BXor
	case TShl:
		return BShl
	case TShr:
		if u {
			return BShrU
		}
		return BShrS
	case TEqEq:
		return BCmpEQ
	case TBangEq:
		return BCmpNE
	case TLess:
		if f {
			return BCmpLtF
		}
		if u {
			return BCmpLtU
		}
		return BCmpLtS
	case TGreater:
		if f {
			return BCmpGtF
		}
		if u {
			return BCmpGtU
		}
		return BCmpGtS
	case TLessEq:
		if f {
			return BCmpLeF
		}
		if u {
			return BCmpLeU
		}
		return BCmpLeS
	case TGreaterEq:
		if f {
			return BCmpGeF
		}
		if u {
			return BCmpGeU
		}
		return BCmpGeS
	}
	return BAddI
}

// buildBinary is buildBinaryFromToken's non-token-driven twin, used
// by compound-assignment desugaring where the operator is already a
// resolved BinOp rather than a punctuator.
func (p *Parser) buildBinary(op BinOp, lhs, rhs *Expr, loc Location) *Expr {
	common := lhs.Type
	if lhs.Type != nil && rhs.Type != nil && (lhs.Type.IsInteger() || lhs.Type.IsFloating()) && (rhs.Type.IsInteger() || rhs.Type.IsFloating()) {
		common = p.ctx.Types.UsualArithmeticConversions(lhs.Type, rhs.Type)
	}
	rhs = p.implicitConvert(rhs, common)
	if folded := p.ctx.foldConstBinary(op, common, lhs, rhs, loc); folded != nil {
		return folded
	}
	return &Expr{Kind: EBinary, BOp: op, LHS: lhs, RHS: rhs, Type: common, Loc: loc}
}

func (p *Parser) parseCast() *Expr {
	if p.tok.Kind == TLParen && p.isTypeSpecifierStart2() {
		loc := p.tok.Loc
		p.advance()
		t := p.parseTypeName()
		p.expect(TRParen)
		if p.tok.Kind == TLBrace {
			init := p.parseInitializer(t)
			return init // compound literal
		}
		operand := p.parseCast()
		return p.applyCast(t, operand, loc)
	}
	return p.parseUnary()
}

// isTypeSpecifierStart2 peeks past the '(' already confirmed present
// to decide whether what follows opens a type-name (cast) rather than
// a parenthesized expression.
func (p *Parser) isTypeSpecifierStart2() bool {
	nt := p.peekNext()
	switch nt.Kind {
	case KwVoid, KwChar, KwInt, KwFloat, KwDouble, Kw_Bool, KwSigned, KwUnsigned,
		KwShort, KwLong, Kw_Complex, Kw_Imaginary, Kw__int128, Kw_BitInt,
		KwStruct, KwUnion, KwEnum, KwConst, KwVolatile, KwRestrict, Kw_Atomic,
		KwTypeof, KwTypeofUnqual:
		return true
	case TIdent:
		if nt.Ident != nil {
			_, ok := p.idents.LookupTypedef(nt.Ident)
			return ok
		}
	}
	return false
}

// applyCast resolves the concrete CastOp for `(t)operand` per
// spec.md §4.6's explicit conversion table.
func (p *Parser) applyCast(t *Type, operand *Expr, loc Location) *Expr {
	if t.IsVoid() {
		return &Expr{Kind: ECast, COp: CastBitcast, Src: operand, Type: t, Loc: loc}
	}
	st := operand.Type
	if st == nil {
		return &Expr{Kind: ECast, COp: CastBitcast, Src: operand, Type: t, Loc: loc}
	}
	var op CastOp
	switch {
	case t.IsFloating() && st.IsInteger():
		if st.IsSigned() {
			op = CastSIToFP
		} else {
			op = CastUIToFP
		}
	case t.IsInteger() && st.IsFloating():
		if t.IsSigned() {
			op = CastFPToSI
		} else {
			op = CastFPToUI
		}
	case t.IsFloating() && st.IsFloating():
		if t.BitWidth() > st.BitWidth() {
			op = CastFPExt
		} else {
			op = CastFPTrunc
		}
	case t.Kind() == KPointer && st.IsInteger():
		op = CastIntToPtr
	case t.IsInteger() && st.Kind() == KPointer:
		op = CastPtrToInt
	case t.IsInteger() && st.IsInteger():
		if t.BitWidth() > st.BitWidth() {
			if st.IsSigned() {
				op = CastSExt
			} else {
				op = CastZExt
			}
		} else if t.BitWidth() < st.BitWidth() {
			op = CastTrunc
		} else {
			op = CastBitcast
		}
	default:
		op = CastBitcast
	}
	return &Expr{Kind: ECast, COp: op, Src: operand, Type: t, Loc: loc}
}

func (p *Parser) parseUnary() *Expr {
	loc := p.tok.Loc
	switch p.tok.Kind {
	case TPlusPlus:
		p.advance()
		operand := p.parseUnary()
		return &Expr{Kind: EUnary, UOp: UPreInc, Operand: operand, Type: operand.Type, Loc: loc}
	case TMinusMinus:
		p.advance()
		operand := p.parseUnary()
		return &Expr{Kind: EUnary, UOp: UPreDec, Operand: operand, Type: operand.Type, Loc: loc}
	case TAmp:
		p.advance()
		operand := p.parseCast()
		if !p.isLvalue(operand) {
			p.ctx.Errorf(SevTypeError, loc, "cannot take the address of this expression")
		}
		return &Expr{Kind: EUnary, UOp: UAddrOf, Operand: operand, Type: p.ctx.Types.Pointer(operand.Type), Loc: loc}
	case TStar:
		p.advance()
		operand := p.parseCast()
		var pointee *Type
		if operand.Type != nil && (operand.Type.Kind() == KPointer || operand.Type.Kind() == KArray) {
			if operand.Type.Kind() == KPointer {
				pointee = operand.Type.Pointee()
			} else {
				pointee = operand.Type.Elem()
			}
		} else {
			p.ctx.Errorf(SevTypeError, loc, "indirection requires pointer operand")
			pointee = p.ctx.Types.Integer(IKInt, true)
		}
		return &Expr{Kind: EUnary, UOp: UDeref, Operand: operand, Type: LvalueCast(pointee), Loc: loc}
	case TPlus:
		p.advance()
		operand := p.parseCast()
		return &Expr{Kind: EUnary, UOp: UPlus, Operand: operand, Type: operand.Type, Loc: loc}
	case TMinus:
		p.advance()
		operand := p.parseCast()
		return &Expr{Kind: EUnary, UOp: UNeg, Operand: operand, Type: operand.Type, Loc: loc}
	case TTilde:
		p.advance()
		operand := p.parseCast()
		return &Expr{Kind: EUnary, UOp: UBitNot, Operand: operand, Type: operand.Type, Loc: loc}
	case TBang:
		p.advance()
		operand := p.parseCast()
		return &Expr{Kind: EUnary, UOp: UNot, Operand: operand, Type: p.ctx.Types.Integer(IKInt, true), Loc: loc}
	case KwSizeof:
		p.advance()
		if p.tok.Kind == TLParen && p.isTypeSpecifierStart2() {
			p.advance()
			t := p.parseTypeName()
			p.expect(TRParen)
			return &Expr{Kind: ESizeof, TypeArg: t, Type: p.ctx.Types.Integer(IKLong, false), Loc: loc}
		}
		operand := p.parseUnary()
		return &Expr{Kind: ESizeof, Operand: operand, Type: p.ctx.Types.Integer(IKLong, false), Loc: loc}
	case Kw_Alignof:
		p.advance()
		p.expect(TLParen)
		t := p.parseTypeName()
		p.expect(TRParen)
		return &Expr{Kind: EConst, Type: p.ctx.Types.Integer(IKLong, false), Const: ConstValue{Kind: ConstInt, IntVal: t.Align()}, Loc: loc}
	case Kw__real__:
		p.advance()
		operand := p.parseCast()
		return &Expr{Kind: ERealImag, IsImag: false, Operand: operand, Type: operand.Type, Loc: loc}
	case Kw__imag__:
		p.advance()
		operand := p.parseCast()
		return &Expr{Kind: ERealImag, IsImag: true, Operand: operand, Type: operand.Type, Loc: loc}
	case TAmpAmp:
		p.advance()
		name := p.expect(TIdent).Ident
		lbl := p.fb.Labels.Resolve(name)
		return &Expr{Kind: EBlockAddress, BlockLabel: lbl.Index, Type: p.ctx.Types.Pointer(p.ctx.Types.Void()), Loc: loc}
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() *Expr {
	e := p.parsePrimary()
	for {
		loc := p.tok.Loc
		switch p.tok.Kind {
		case TLBracket:
			p.advance()
			idx := p.parseExpr()
			p.expect(TRBracket)
			base := p.decayArray(e)
			var elemType *Type
			if base.Type != nil && base.Type.Kind() == KPointer {
				elemType = base.Type.Pointee()
			} else {
				elemType = p.ctx.Types.Integer(IKInt, true)
			}
			e = &Expr{Kind: ESubscript, Base: base, Index: idx, Type: LvalueCast(elemType), Loc: loc}
		case TLParen:
			p.advance()
			var args []*Expr
			for p.tok.Kind != TRParen && p.tok.Kind != TEOF {
				args = append(args, p.parseAssignExpr())
				if _, ok := p.accept(TComma); !ok {
					break
				}
			}
			p.expect(TRParen)
			e = p.buildCall(e, args, loc)
		case TDot:
			p.advance()
			name := p.expect(TIdent).Ident
			e = p.buildMember(e, name, loc)
		case TArrow:
			p.advance()
			name := p.expect(TIdent).Ident
			var pointee *Type
			if e.Type != nil && e.Type.Kind() == KPointer {
				pointee = e.Type.Pointee()
			} else {
				pointee = p.ctx.Types.Integer(IKInt, true)
			}
			deref := &Expr{Kind: EUnary, UOp: UDeref, Operand: e, Type: LvalueCast(pointee), Loc: loc}
			e = p.buildMember(deref, name, loc)
		case TPlusPlus:
			p.advance()
			e = &Expr{Kind: EPostIncDec, IsDec: false, Operand: e, Type: e.Type, Loc: loc}
		case TMinusMinus:
			p.advance()
			e = &Expr{Kind: EPostIncDec, IsDec: true, Operand: e, Type: e.Type, Loc: loc}
		default:
			return e
		}
	}
}

func (p *Parser) buildCall(callee *Expr, args []*Expr, loc Location) *Expr {
	if callee.Kind == EVarRef && callee.Ref != nil && callee.Ref.Name != nil {
		if sig, ok := p.builtins.Lookup(callee.Ref.Name.Text()); ok {
			for i, a := range args {
				if i < len(sig.Params()) {
					args[i] = p.implicitConvert(a, sig.Params()[i].Type)
				}
			}
			return &Expr{Kind: EBuiltinCall, Callee: callee.Ref.Name, Args: args, Type: sig.Return(), Loc: loc}
		}
	}
	retType := p.ctx.Types.Integer(IKInt, true)
	var params []Param
	if callee.Type != nil {
		ft := callee.Type
		if ft.Kind() == KPointer {
			ft = ft.Pointee()
		}
		if ft != nil && ft.Kind() == KFunction {
			retType = ft.Return()
			params = ft.Params()
		}
	}
	for i, a := range args {
		if i < len(params) {
			args[i] = p.implicitConvert(a, params[i].Type)
		} else {
			args[i] = p.decayArray(a)
		}
	}
	return &Expr{Kind: ECall, CalleeExpr: callee, Args: args, Type: retType, Loc: loc}
}

func (p *Parser) buildMember(base *Expr, name IdentHandle, loc Location) *Expr {
	var fieldType *Type
	idx := -1
	if base.Type != nil && base.Type.Record() != nil {
		for i, f := range base.Type.Record().Fields {
			if f.Name == name {
				fieldType = f.Type
				idx = i
				break
			}
		}
	}
	if fieldType == nil {
		p.ctx.Errorf(SevTypeError, loc, "no member named '%I'", diagIdent(name))
		fieldType = p.ctx.Types.Integer(IKInt, true)
	}
	return &Expr{Kind: EMember, Base: base, Field: name, FieldIndex: idx, Type: LvalueCast(fieldType), Loc: loc}
}

// decayArray applies the array-to-pointer decay of spec.md §3 where
// the context requires a value (call/subscript/assignment operands).
func (p *Parser) decayArray(e *Expr) *Expr {
	if e.Type != nil && e.Type.Kind() == KArray {
		return &Expr{Kind: EArrayDecay, Array: e, Type: p.ctx.Types.Pointer(e.Type.Elem()), Loc: e.Loc}
	}
	return e
}

func (p *Parser) parsePrimary() *Expr {
	loc := p.tok.Loc
	switch p.tok.Kind {
	case TIdent:
		name := p.tok.Ident
		p.advance()
		if info, ok := p.idents.Lookup(name); ok {
			info.Used = true
			return &Expr{Kind: EVarRef, Ref: info, Type: LvalueCast(info.Type), Loc: loc}
		}
		if sig, ok := p.builtins.Lookup(name.Text()); ok {
			info := &VarInfo{Name: name, Type: sig}
			return &Expr{Kind: EVarRef, Ref: info, Type: sig, Loc: loc}
		}
		p.ctx.Errorf(SevTypeError, loc, "use of undeclared identifier '%I'", diagIdent(name))
		info := &VarInfo{Name: name, Type: p.ctx.Types.Integer(IKInt, true), Loc: loc}
		return &Expr{Kind: EVarRef, Ref: info, Type: info.Type, Loc: loc}
	case TPPNumber:
		cv := ParsePPNumber(p.ctx, loc, p.tok.Text)
		p.advance()
		if cv.Kind == ConstFloat {
			return &Expr{Kind: EConst, Const: cv, Type: p.ctx.Types.Float(FKDouble), Loc: loc}
		}
		return &Expr{Kind: EConst, Const: cv, Type: p.ctx.Types.Integer(IKInt, true), Loc: loc}
	case TCharLit:
		_, v := ParseCharLiteral(p.ctx, loc, p.tok.Text)
		p.advance()
		return &Expr{Kind: EConst, Const: ConstValue{Kind: ConstInt, IntVal: v}, Type: p.ctx.Types.Integer(IKInt, true), Loc: loc}
	case TStringLit:
		prefix, bytes := ParseStringLiteral(p.ctx, loc, p.tok.Text)
		if p.tok.Ident != nil {
			// A builtin macro the lexer materialized: its bytes are already decoded.
			prefix, bytes = p.tok.Prefix, p.tok.StringBytes
			if p.tok.Ident.Text() == "__func__" && p.curFunc != nil && p.curFunc.FuncName != nil {
				bytes = append([]byte(p.curFunc.FuncName.Text()), 0)
			}
		}
		p.advance()
		elem := p.ctx.Types.Integer(IKChar, true)
		n := int64(len(bytes)) + 1
		return &Expr{Kind: EStringLit, StringBytes: bytes, Prefix: prefix, Type: p.ctx.Types.Array(elem, n, true, nil), Loc: loc}
	case KwTrue:
		p.advance()
		return &Expr{Kind: EConst, Const: ConstValue{Kind: ConstInt, IntVal: 1}, Type: p.ctx.Types.Integer(IKBool, false), Loc: loc}
	case KwFalse:
		p.advance()
		return &Expr{Kind: EConst, Const: ConstValue{Kind: ConstInt, IntVal: 0}, Type: p.ctx.Types.Integer(IKBool, false), Loc: loc}
	case KwNullptr:
		p.advance()
		return &Expr{Kind: EConst, Const: ConstValue{Kind: ConstNull}, Type: p.ctx.Types.NullptrT(), Loc: loc}
	case TLParen:
		p.advance()
		e := p.parseExpr()
		p.expect(TRParen)
		return e
	case Kw_Generic:
		return p.parseGenericSelection()
	}
	p.ctx.Errorf(SevParseError, loc, "expected expression")
	p.resync()
	return p.sentinelExpr(loc)
}

// parseGenericSelection implements _Generic(controlling, T1: e1, ...,
// default: eN), resolving to whichever association matches the
// controlling expression's type.
func (p *Parser) parseGenericSelection() *Expr {
	loc := p.tok.Loc
	p.advance()
	p.expect(TLParen)
	ctrl := p.parseAssignExpr()
	var chosen *Expr
	var def *Expr
	for {
		p.expect(TComma)
		if p.tok.Kind == KwDefault {
			p.advance()
			p.expect(TColon)
			def = p.parseAssignExpr()
		} else {
			t := p.parseTypeName()
			p.expect(TColon)
			e := p.parseAssignExpr()
			if ctrl.Type != nil && TypeEqual(ctrl.Type, t) {
				chosen = e
			}
		}
		if p.tok.Kind != TComma {
			break
		}
	}
	p.expect(TRParen)
	if chosen != nil {
		return chosen
	}
	if def != nil {
		return def
	}
	p.ctx.Errorf(SevTypeError, loc, "_Generic selection has no matching association")
	return p.sentinelExpr(loc)
}

// isLvalue reports whether e designates an object (spec.md §3:
// assignment/&/++/-- require an lvalue). Arrays count as lvalues here,
// and assignment to an array is not rejected.
func (p *Parser) isLvalue(e *Expr) bool {
	switch e.Kind {
	case EVarRef, EUnary, ESubscript, EMember:
		if e.Kind == EUnary {
			return e.UOp == UDeref
		}
		return true
	}
	return e.Type != nil && e.Type.HasQual(QLvalue)
}

// implicitConvert inserts a cast node when assigning/passing a value
// of a different type, per the usual implicit-conversion rules.
func (p *Parser) implicitConvert(e *Expr, target *Type) *Expr {
	if target == nil || e.Type == nil {
		return e
	}
	e = p.decayArray(e)
	if TypeEqual(WithoutQual(e.Type, QLvalue|QConst|QVolatile|QRestrict|QAtomic), WithoutQual(target, QLvalue|QConst|QVolatile|QRestrict|QAtomic)) {
		return e
	}
	if (target.IsInteger() || target.IsFloating()) && (e.Type.IsInteger() || e.Type.IsFloating()) {
		return p.applyCast(target, e, e.Loc)
	}
	if target.Kind() == KPointer && e.Type.Kind() == KPointer {
		return &Expr{Kind: ECast, COp: CastBitcast, Src: e, Type: target, Loc: e.Loc}
	}
	if target.Kind() == KPointer && e.Type.IsInteger() {
		return &Expr{Kind: ECast, COp: CastIntToPtr, Src: e, Type: target, Loc: e.Loc}
	}
	return e
}

func (p *Parser) convertAssign(target *Type, rhs *Expr, loc Location) *Expr {
	return p.implicitConvert(rhs, target)
}
