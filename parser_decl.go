// Copyright 2024 The CC Frontend Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cc

// declSpec accumulates the storage-class and type-specifier/qualifier
// bits a declaration's specifier sequence contributes, before being
// folded into a concrete *Type by finishDeclSpecs.
type declSpec struct {
	storage uint64 // QExtern/QStatic/QTypedef/QThreadLocal/QRegister/QInline/QNoreturn

	sawVoid, sawChar, sawInt, sawFloat, sawDouble, sawBool bool
	signed, unsigned                                       bool
	longCount                                              int
	short                                                   bool
	complex, imaginary                                      bool
	sawInt128                                               bool

	bitintWidth *Expr // _BitInt(N)

	qualConst, qualVolatile, qualRestrict, qualAtomic bool

	named *Type // struct/union/enum/typedef/typeof resolved type, if present
	loc   Location
}

// isTypeSpecifierStart reports whether the current token can begin a
// declaration-specifier sequence, used by the typedef/tag
// disambiguation rule of spec.md §4.6.
func (p *Parser) isTypeSpecifierStart() bool {
	switch p.tok.Kind {
	case KwVoid, KwChar, KwInt, KwFloat, KwDouble, Kw_Bool, KwSigned, KwUnsigned,
		KwShort, KwLong, Kw_Complex, Kw_Imaginary, Kw__int128, Kw_BitInt,
		KwStruct, KwUnion, KwEnum, KwTypedef, KwExtern, KwStatic, KwAuto,
		KwRegister, Kw_ThreadLocal, KwInline, Kw_Noreturn, KwConst, KwVolatile,
		KwRestrict, Kw_Atomic, KwTypeof, KwTypeofUnqual, Kw_Alignas, KwNullptr:
		return true
	case TIdent:
		if p.tok.Ident != nil {
			_, ok := p.idents.LookupTypedef(p.tok.Ident)
			return ok
		}
	}
	return false
}

// parseDeclSpecs consumes a declaration-specifier sequence and
// returns the resolved base type plus storage-class bits.
func (p *Parser) parseDeclSpecs() (*Type, uint64) {
	var ds declSpec
	ds.loc = p.tok.Loc
loop:
	for {
		switch p.tok.Kind {
		case KwTypedef:
			ds.storage |= QTypedef
			p.advance()
		case KwExtern:
			ds.storage |= QExtern
			p.advance()
		case KwStatic:
			ds.storage |= QStatic
			p.advance()
		case KwRegister:
			ds.storage |= QRegister
			p.advance()
		case Kw_ThreadLocal:
			ds.storage |= QThreadLocal
			p.advance()
		case KwInline:
			ds.storage |= QInline
			p.advance()
		case Kw_Noreturn:
			ds.storage |= QNoreturn
			p.advance()
		case KwAuto:
			p.advance() // storage-class auto; C23 type-inference auto is out of scope
		case KwConst:
			ds.qualConst = true
			p.advance()
		case KwVolatile:
			ds.qualVolatile = true
			p.advance()
		case KwRestrict:
			ds.qualRestrict = true
			p.advance()
		case Kw_Atomic:
			if p.peekNext().Kind == TLParen {
				p.advance()
				p.advance()
				ds.named = p.parseTypeName()
				p.expect(TRParen)
			} else {
				ds.qualAtomic = true
				p.advance()
			}
		case KwVoid:
			ds.sawVoid = true
			p.advance()
		case KwChar:
			ds.sawChar = true
			p.advance()
		case KwInt:
			ds.sawInt = true
			p.advance()
		case KwFloat:
			ds.sawFloat = true
			p.advance()
		case KwDouble:
			ds.sawDouble = true
			p.advance()
		case Kw_Bool:
			ds.sawBool = true
			p.advance()
		case KwSigned:
			ds.signed = true
			p.advance()
		case KwUnsigned:
			ds.unsigned = true
			p.advance()
		case KwShort:
			ds.short = true
			p.advance()
		case KwLong:
			ds.longCount++
			p.advance()
		case Kw__int128:
			ds.sawInt128 = true
			p.advance()
		case Kw_Complex:
			ds.complex = true
			p.advance()
		case Kw_Imaginary:
			ds.imaginary = true
			p.advance()
		case Kw_BitInt:
			p.advance()
			p.expect(TLParen)
			ds.bitintWidth = p.parseConstantExpr()
			p.expect(TRParen)
		case KwStruct, KwUnion:
			ds.named = p.parseRecordSpecifier()
		case KwEnum:
			ds.named = p.parseEnumSpecifier()
		case KwTypeof, KwTypeofUnqual:
			p.advance()
			p.expect(TLParen)
			if p.isTypeSpecifierStart() {
				ds.named = p.parseTypeName()
			} else {
				e := p.parseExpr()
				ds.named = e.Type
			}
			p.expect(TRParen)
		case KwNullptr:
			ds.named = p.ctx.Types.NullptrT()
			p.advance()
		case Kw_Alignas:
			p.advance()
			p.expect(TLParen)
			if p.isTypeSpecifierStart() {
				p.parseTypeName()
			} else {
				p.parseConstantExpr()
			}
			p.expect(TRParen)
		case TIdent:
			if p.tok.Ident != nil {
				if t, ok := p.idents.LookupTypedef(p.tok.Ident); ok && ds.named == nil && !ds.sawAnyBuiltin() {
					ds.named = t
					p.advance()
					continue loop
				}
			}
			break loop
		default:
			break loop
		}
	}
	return p.finishDeclSpecs(&ds), ds.storage
}

func (ds *declSpec) sawAnyBuiltin() bool {
	return ds.sawVoid || ds.sawChar || ds.sawInt || ds.sawFloat || ds.sawDouble ||
		ds.sawBool || ds.signed || ds.unsigned || ds.short || ds.longCount > 0 ||
		ds.sawInt128 || ds.bitintWidth != nil
}

func (p *Parser) finishDeclSpecs(ds *declSpec) *Type {
	var t *Type
	switch {
	case ds.named != nil:
		t = ds.named
	case ds.bitintWidth != nil:
		width := p.ctx.evalConstInt(ds.bitintWidth)
		t = p.ctx.Types.BitInt(int(width), !ds.unsigned)
	case ds.sawVoid:
		t = p.ctx.Types.Void()
	case ds.sawBool:
		t = p.ctx.Types.Integer(IKBool, false)
	case ds.sawFloat:
		t = p.ctx.Types.Float(FKFloat)
	case ds.sawDouble:
		if ds.longCount > 0 {
			t = p.ctx.Types.Float(FKx87_80)
		} else {
			t = p.ctx.Types.Float(FKDouble)
		}
	case ds.sawInt128:
		t = p.ctx.Types.Integer(IKInt128, !ds.unsigned)
	case ds.sawChar:
		signed := !ds.unsigned
		if !ds.signed && !ds.unsigned {
			signed = true // plain `char` signedness is implementation-defined; this target picks signed
		}
		t = p.ctx.Types.Integer(IKChar, signed)
	case ds.short:
		t = p.ctx.Types.Integer(IKShort, !ds.unsigned)
	case ds.longCount > 0:
		t = p.ctx.Types.Integer(IKLong, !ds.unsigned)
		if !ds.unsigned {
			t = WithQual(t, QLong)
		}
	default:
		// Bare `signed`/`unsigned`, or no type specifier at all: default
		// int, with no diagnostic for the missing specifier.
		t = p.ctx.Types.Integer(IKInt, !ds.unsigned)
	}
	if ds.complex && t.IsFloating() {
		t = p.ctx.Types.Complex(t)
	}
	if ds.imaginary && t.IsFloating() {
		t = p.ctx.Types.Imaginary(t)
	}
	if ds.qualConst {
		t = WithQual(t, QConst)
	}
	if ds.qualVolatile {
		t = WithQual(t, QVolatile)
	}
	if ds.qualRestrict {
		t = WithQual(t, QRestrict)
	}
	if ds.qualAtomic {
		t = WithQual(t, QAtomic)
	}
	return t
}

// parseRecordSpecifier parses `struct`/`union` [tag] [{ member-decls }].
func (p *Parser) parseRecordSpecifier() *Type {
	isUnion := p.tok.Kind == KwUnion
	p.advance()
	var tag IdentHandle
	if p.tok.Kind == TIdent {
		tag = p.tok.Ident
		p.advance()
	}
	var t *Type
	if tag != nil {
		if existing, ok := p.tags.LookupLocal(tag); ok && existing.Kind() == KRecord {
			t = existing
		} else if existing, ok := p.tags.Lookup(tag); ok && existing.Kind() == KRecord && p.tok.Kind != TLBrace {
			t = existing
		}
	}
	if t == nil {
		t = p.ctx.Types.Record(tag, isUnion)
		if tag != nil {
			p.tags.Declare(tag, t)
			p.bumpScopePeaks()
		}
	}
	if p.tok.Kind == TLBrace {
		p.advance()
		var fields []Field
		var offset int64
		var maxAlign int64 = 1
		for p.tok.Kind != TRBrace && p.tok.Kind != TEOF {
			base, _ := p.parseDeclSpecs()
			for {
				name, ft := p.parseDeclarator(base)
				width := 0
				isBitField := false
				if p.tok.Kind == TColon {
					p.advance()
					w := p.ctx.evalConstInt(p.parseConstantExpr())
					width = int(w)
					isBitField = true
					ft = p.ctx.Types.BitField(ft, width)
				}
				if ft.Align() > maxAlign {
					maxAlign = ft.Align()
				}
				offset = alignUp64(offset, ft.Align())
				fields = append(fields, Field{Name: name, Type: ft, BitWidth: width, IsBitField: isBitField, Offset: offset})
				if !isBitField {
					offset += typeSizeBytes(ft)
				}
				if _, ok := p.accept(TComma); !ok {
					break
				}
			}
			p.expect(TSemi)
		}
		p.expect(TRBrace)
		p.ctx.Types.DefineRecord(t, fields, alignUp64(offset, maxAlign), maxAlign)
	}
	return t
}

// typeSizeBytes returns a type's storage size in bytes, covering the
// aggregate kinds BitWidth does not (records and arrays).
func typeSizeBytes(t *Type) int64 {
	switch t.Kind() {
	case KRecord:
		if t.Record() != nil {
			return t.Record().Size
		}
		return 0
	case KArray:
		if t.ArrayHasSize() {
			return t.ArraySize() * typeSizeBytes(t.Elem())
		}
		return 0
	case KEnum:
		return 4
	default:
		return (int64(t.BitWidth()) + 7) / 8
	}
}

func alignUp64(n, align int64) int64 {
	if align <= 1 {
		return n
	}
	return (n + align - 1) &^ (align - 1)
}

// parseEnumSpecifier parses `enum` [tag] [: underlying] [{ enumerators }].
func (p *Parser) parseEnumSpecifier() *Type {
	p.advance()
	var tag IdentHandle
	if p.tok.Kind == TIdent {
		tag = p.tok.Ident
		p.advance()
	}
	underlying := p.ctx.Types.Integer(IKInt, true)
	if p.tok.Kind == TColon {
		p.advance()
		underlying, _ = p.parseDeclSpecs()
	}
	var t *Type
	if tag != nil {
		if existing, ok := p.tags.LookupLocal(tag); ok && existing.Kind() == KEnum {
			t = existing
		} else if existing, ok := p.tags.Lookup(tag); ok && existing.Kind() == KEnum && p.tok.Kind != TLBrace {
			t = existing
		}
	}
	if t == nil {
		t = p.ctx.Types.Enum(tag)
		if tag != nil {
			p.tags.Declare(tag, t)
			p.bumpScopePeaks()
		}
	}
	if p.tok.Kind == TLBrace {
		p.advance()
		var consts []EnumConst
		var next int64
		for p.tok.Kind != TRBrace && p.tok.Kind != TEOF {
			name := p.expect(TIdent).Ident
			val := next
			if _, ok := p.accept(TAssign); ok {
				val = p.ctx.evalConstInt(p.parseConstantExpr())
			}
			consts = append(consts, EnumConst{Name: name, Value: val})
			next = val + 1
			p.idents.Declare(name, &VarInfo{Name: name, Type: t, Loc: p.tok.Loc, HasConst: true, ConstVal: ConstValue{Kind: ConstInt, IntVal: val}})
			if _, ok := p.accept(TComma); !ok {
				break
			}
		}
		p.expect(TRBrace)
		p.ctx.Types.DefineEnum(t, consts, underlying)
	}
	return t
}

// parseDeclarator parses a (possibly abstract) declarator and returns
// the declared name (nil if abstract) and its full type, built around
// base per C's right-left declarator grammar.
func (p *Parser) parseDeclarator(base *Type) (IdentHandle, *Type) {
	for p.tok.Kind == TStar {
		p.advance()
		q := uint64(0)
		for {
			switch p.tok.Kind {
			case KwConst:
				q |= QConst
			case KwVolatile:
				q |= QVolatile
			case KwRestrict:
				q |= QRestrict
			case Kw_Atomic:
				q |= QAtomic
			default:
				goto doneQuals
			}
			p.advance()
		}
	doneQuals:
		base = WithQual(p.ctx.Types.Pointer(base), q)
	}
	return p.parseDirectDeclarator(base)
}

// isParamListStart reports whether the token following an open paren
// in declarator position starts a parameter-type-list (making the
// parens a function declarator's suffix) rather than a nested
// declarator to recurse into.
func (p *Parser) isParamListStart(nt Token) bool {
	if nt.Kind == TRParen {
		return true
	}
	switch nt.Kind {
	case KwVoid, KwChar, KwInt, KwFloat, KwDouble, Kw_Bool, KwSigned, KwUnsigned,
		KwShort, KwLong, Kw_Complex, Kw_Imaginary, Kw__int128, Kw_BitInt,
		KwStruct, KwUnion, KwEnum, KwConst, KwVolatile, KwRestrict, Kw_Atomic,
		KwTypeof, KwTypeofUnqual, KwRegister, KwExtern, KwStatic, Kw_ThreadLocal:
		return true
	case TIdent:
		if nt.Ident != nil {
			_, ok := p.idents.LookupTypedef(nt.Ident)
			return ok
		}
	}
	return false
}

// parseDirectDeclarator parses a direct-declarator's core (a name, a
// parenthesized nested declarator, or nothing for an abstract
// declarator) followed by any number of []/() suffixes, and builds
// the resulting type around base.
//
// A parenthesized nested declarator needs the classic "dummy type"
// trick: `int (*fp)[3]`'s pointer sits *inside* the parens while the
// array suffix sits *outside* them, so the pointer has to wrap a type
// that isn't known until after the parens close. A placeholder Type
// is threaded through the recursive parse in base's place, then
// patched in place once the real base (here, array-of-3-int) is
// known — safe because Pointer/Array/Function each allocate a fresh,
// uncached node (only primitives are interned).
func (p *Parser) parseDirectDeclarator(base *Type) (IdentHandle, *Type) {
	var name IdentHandle
	var dummy *Type
	var nested *Type

	switch p.tok.Kind {
	case TIdent:
		name = p.tok.Ident
		p.advance()
	case TLParen:
		nt := p.peekNext()
		if !p.isParamListStart(nt) {
			p.advance()
			dummy = &Type{}
			name, nested = p.parseDeclarator(dummy)
			p.expect(TRParen)
		}
	}

	outer := p.parseDeclaratorSuffixes(base)

	if dummy != nil {
		*dummy = *outer
		return name, nested
	}
	return name, outer
}

// parseDeclaratorSuffixes parses the []/() chain following a
// declarator's core and wraps base accordingly, outermost-last (a
// trailing `[3](int)` binds `(int)` to the element, matching C's
// left-to-right suffix precedence).
func (p *Parser) parseDeclaratorSuffixes(base *Type) *Type {
	switch p.tok.Kind {
	case TLBracket:
		p.advance()
		hasSize := false
		var size int64
		var vla *Expr
		for p.tok.Kind == KwStatic || p.tok.Kind == KwConst || p.tok.Kind == KwRestrict || p.tok.Kind == KwVolatile {
			p.advance()
		}
		if p.tok.Kind != TRBracket {
			e := p.parseAssignExpr()
			if p.ctx.isConstantExpr(e) {
				size = p.ctx.evalConstInt(e)
				hasSize = true
			} else {
				vla = e
			}
		}
		p.expect(TRBracket)
		elem := p.parseDeclaratorSuffixes(base)
		return p.ctx.Types.Array(elem, size, hasSize, vla)
	case TLParen:
		p.advance()
		params, variadic := p.parseParamList()
		p.expect(TRParen)
		ret := p.parseDeclaratorSuffixes(base)
		return p.ctx.Types.Function(ret, params, variadic)
	default:
		return base
	}
}

// parseParamList parses a function declarator's parameter-type-list.
func (p *Parser) parseParamList() ([]Param, bool) {
	var params []Param
	if p.tok.Kind == KwVoid && p.peekNext().Kind == TRParen {
		p.advance()
		return nil, false
	}
	for p.tok.Kind != TRParen && p.tok.Kind != TEOF {
		if p.tok.Kind == TEllipsis {
			p.advance()
			return params, true
		}
		base, _ := p.parseDeclSpecs()
		name, ft := p.parseDeclarator(base)
		if ft.Kind() == KArray {
			ft = p.ctx.Types.Pointer(ft.Elem()) // array parameters decay to pointers (spec.md §3)
		}
		params = append(params, Param{Name: name, Type: ft})
		if _, ok := p.accept(TComma); !ok {
			break
		}
	}
	return params, false
}

// parseTypeName parses a type-name (abstract declarator), as used by
// sizeof, casts, and _Generic associations.
func (p *Parser) parseTypeName() *Type {
	base, _ := p.parseDeclSpecs()
	_, t := p.parseDeclarator(base)
	return t
}

// parseExternalDecl parses one top-level declaration: a function
// definition or one or more global variable/typedef declarations.
func (p *Parser) parseExternalDecl() []*Stmt {
	loc := p.tok.Loc
	if p.tok.Kind == TSemi {
		p.advance()
		return nil
	}
	base, storage := p.parseDeclSpecs()
	if _, ok := p.accept(TSemi); ok {
		return nil // a bare `struct S;` / `enum E;` tag declaration
	}
	name, t := p.parseDeclarator(base)
	if storage&QTypedef != 0 {
		if name != nil {
			p.idents.DeclareTypedef(name, t)
		}
		p.finishDeclList(base, storage, name, t, loc)
		return nil
	}
	if t.Kind() == KFunction && p.tok.Kind == TLBrace {
		return []*Stmt{p.parseFunctionBody(name, t, loc)}
	}
	info := &VarInfo{Name: name, Type: WithQual(t, storage), Loc: loc}
	if name != nil {
		p.idents.Declare(name, info)
		p.bumpScopePeaks()
	}
	var decls []VarDeclEntry
	if _, ok := p.accept(TAssign); ok {
		decls = append(decls, VarDeclEntry{Var: info, Init: p.parseInitializer(info.Type)})
	} else {
		decls = append(decls, VarDeclEntry{Var: info})
	}
	for p.tok.Kind == TComma {
		p.advance()
		n2, t2 := p.parseDeclarator(base)
		info2 := &VarInfo{Name: n2, Type: WithQual(t2, storage), Loc: p.tok.Loc}
		if n2 != nil {
			p.idents.Declare(n2, info2)
			p.bumpScopePeaks()
		}
		if _, ok := p.accept(TAssign); ok {
			decls = append(decls, VarDeclEntry{Var: info2, Init: p.parseInitializer(info2.Type)})
		} else {
			decls = append(decls, VarDeclEntry{Var: info2})
		}
	}
	p.expect(TSemi)
	s := allocType[Stmt](p.ctx.Arena)
	s.Kind = SVarDecl
	s.Loc = loc
	s.Decls = decls
	return []*Stmt{s}
}

// finishDeclList consumes any remaining comma-separated declarators
// of a typedef/tag-only declaration list.
func (p *Parser) finishDeclList(base *Type, storage uint64, firstName IdentHandle, firstType *Type, loc Location) {
	for p.tok.Kind == TComma {
		p.advance()
		name, t := p.parseDeclarator(base)
		if storage&QTypedef != 0 && name != nil {
			p.idents.DeclareTypedef(name, t)
		}
	}
	p.expect(TSemi)
}

// parseInitializer parses an initializer against target (nil when the
// target type isn't known, e.g. for a designator that names no field
// of the record): a single assignment expression coerced to
// target, or a brace-enclosed, possibly-designated list that gets
// type-checked against target's fields/elements, reordered to
// declaration order, and zero-filled for anything left untouched.
func (p *Parser) parseInitializer(target *Type) *Expr {
	if p.tok.Kind != TLBrace {
		v := p.parseAssignExpr()
		return p.implicitConvert(v, target)
	}
	loc := p.tok.Loc
	p.advance()

	rec := recordOf(target)
	isUnion := rec != nil && rec.IsUnion
	arrElem, arrN, isArray := arrayOf(target)

	var slots []*Expr
	idx := 0
	for p.tok.Kind != TRBrace && p.tok.Kind != TEOF {
		var d Designator
		for p.tok.Kind == TDot || p.tok.Kind == TLBracket {
			if p.tok.Kind == TDot {
				p.advance()
				d.Field = p.expect(TIdent).Ident
			} else {
				p.advance()
				d.Index = p.parseConstantExpr()
				p.expect(TRBracket)
			}
		}
		if d.Field != nil || d.Index != nil {
			p.expect(TAssign)
		}
		var elemType *Type
		switch {
		case d.Field != nil && rec != nil:
			for i, f := range rec.Fields {
				if f.Name == d.Field {
					idx = i
					elemType = f.Type
					break
				}
			}
		case d.Index != nil:
			idx = int(p.ctx.evalConstInt(d.Index))
			elemType = arrElem
		case rec != nil && idx < len(rec.Fields):
			elemType = rec.Fields[idx].Type
		case isArray:
			elemType = arrElem
		}
		value := p.parseInitializer(elemType)
		if idx >= 0 {
			for len(slots) <= idx {
				slots = append(slots, nil)
			}
			slots[idx] = value
		}
		idx++
		if _, ok := p.accept(TComma); !ok {
			break
		}
	}
	p.expect(TRBrace)

	switch {
	case rec != nil:
		if isUnion {
			active := 0
			for i, s := range slots {
				if s != nil {
					active = i
					break
				}
			}
			v := slotAt(slots, active)
			if active >= len(rec.Fields) {
				active = 0
			}
			if v == nil && len(rec.Fields) > 0 {
				v = zeroValueForType(rec.Fields[0].Type, loc)
			}
			out := []InitElem{{Designator: Designator{Field: rec.Fields[active].Name}, Value: v}}
			return &Expr{Kind: EInitList, Type: target, Loc: loc, Elems: out}
		}
		out := make([]InitElem, len(rec.Fields))
		for i, f := range rec.Fields {
			v := slotAt(slots, i)
			if v == nil {
				v = zeroValueForType(f.Type, loc)
			}
			out[i] = InitElem{Designator: Designator{Field: f.Name}, Value: v}
		}
		return &Expr{Kind: EInitList, Type: target, Loc: loc, Elems: out}
	case isArray:
		n := arrN
		if n <= 0 {
			n = len(slots)
			target = p.ctx.Types.Array(arrElem, int64(n), true, nil)
		}
		out := make([]InitElem, n)
		for i := 0; i < n; i++ {
			v := slotAt(slots, i)
			if v == nil {
				v = zeroValueForType(arrElem, loc)
			}
			out[i] = InitElem{Value: v}
		}
		return &Expr{Kind: EInitList, Type: target, Loc: loc, Elems: out}
	default:
		out := make([]InitElem, len(slots))
		for i, s := range slots {
			out[i] = InitElem{Value: s}
		}
		return &Expr{Kind: EInitList, Type: target, Loc: loc, Elems: out}
	}
}

func slotAt(slots []*Expr, i int) *Expr {
	if i < 0 || i >= len(slots) {
		return nil
	}
	return slots[i]
}

func recordOf(t *Type) *RecordInfo {
	if t != nil && t.Kind() == KRecord {
		return t.Record()
	}
	return nil
}

func arrayOf(t *Type) (*Type, int, bool) {
	if t == nil || t.Kind() != KArray {
		return nil, 0, false
	}
	n := 0
	if t.ArrayHasSize() {
		n = int(t.ArraySize())
	}
	return t.Elem(), n, true
}

// zeroValueForType builds the `{0}`-equivalent constant for t, recursing
// into aggregate members so every trailing, undesignated field or
// element of a partially-initialized object is explicitly zero-filled.
func zeroValueForType(t *Type, loc Location) *Expr {
	if t == nil {
		return &Expr{Kind: EConst, Const: ConstValue{Kind: ConstInt}, Loc: loc}
	}
	switch t.Kind() {
	case KRecord:
		rec := t.Record()
		if rec == nil {
			return &Expr{Kind: EConst, Type: t, Const: ConstValue{Kind: ConstInt}, Loc: loc}
		}
		out := make([]InitElem, len(rec.Fields))
		for i, f := range rec.Fields {
			out[i] = InitElem{Designator: Designator{Field: f.Name}, Value: zeroValueForType(f.Type, loc)}
		}
		return &Expr{Kind: EInitList, Type: t, Loc: loc, Elems: out}
	case KArray:
		n := int(t.ArraySize())
		if n < 0 {
			n = 0
		}
		out := make([]InitElem, n)
		for i := range out {
			out[i] = InitElem{Value: zeroValueForType(t.Elem(), loc)}
		}
		return &Expr{Kind: EInitList, Type: t, Loc: loc, Elems: out}
	case KPrimitive:
		if t.IsFloating() {
			return &Expr{Kind: EConst, Type: t, Const: ConstValue{Kind: ConstFloat}, Loc: loc}
		}
		return &Expr{Kind: EConst, Type: t, Const: ConstValue{Kind: ConstInt}, Loc: loc}
	case KPointer:
		return &Expr{Kind: EConst, Type: t, Const: ConstValue{Kind: ConstNull}, Loc: loc}
	default:
		return &Expr{Kind: EConst, Type: t, Const: ConstValue{Kind: ConstInt}, Loc: loc}
	}
}

// parseFunctionBody parses a function definition's body, wiring up a
// fresh FuncBuilder/LabelScope/parameter scope.
func (p *Parser) parseFunctionBody(name IdentHandle, fnType *Type, loc Location) *Stmt {
	s := allocType[Stmt](p.ctx.Arena)
	s.Kind = SFuncDef
	s.FuncName = name
	s.FuncType = fnType
	s.Loc = loc

	if name != nil {
		p.idents.Declare(name, &VarInfo{Name: name, Type: fnType, Loc: loc})
	}

	p.idents.Push()
	p.tags.Push()
	labels := NewLabelScope()
	prevFB, prevFunc := p.fb, p.curFunc
	p.fb = NewFuncBuilder(p.ctx.Arena, labels)
	p.curFunc = s

	for _, param := range fnType.Params() {
		vi := &VarInfo{Name: param.Name, Type: param.Type, Loc: loc}
		if param.Name != nil {
			p.idents.Declare(param.Name, vi)
		}
		s.Params = append(s.Params, vi)
	}

	p.expect(TLBrace)
	for p.tok.Kind != TRBrace && p.tok.Kind != TEOF {
		p.parseBlockItem()
	}
	p.expect(TRBrace)

	for _, l := range labels.Unresolved() {
		p.ctx.Errorf(SevTypeError, loc, "use of undeclared label '%I'", diagIdent(l.Name))
	}
	for _, b := range p.idents.Pop() {
		if !b.isTypedef && b.info != nil && !b.info.Used {
			p.ctx.Errorf(SevWarning, b.info.Loc, "'%I' declared but not used", diagIdent(b.info.Name))
		}
	}
	p.tags.Pop()
	p.bumpScopePeaks()

	s.FuncBody = p.fb.Head().Next
	s.Labels = labels.All()
	s.MaxScope = p.maxScope
	s.MaxTagScope = p.maxTagScope
	p.fb, p.curFunc = prevFB, prevFunc
	return s
}
