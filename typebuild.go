// Copyright 2024 The CC Frontend Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cc

import "strconv"

// TypeContext owns type canonicalization for one translation unit
// (spec.md §4.4): primitive types are looked up in a hash map keyed by
// their packed tag bits (ignoring qualifiers, which are applied to a
// copy and never canonicalized); BitInt(width, signedness) is likewise
// memoized. Every other variant is allocated fresh per occurrence.
type TypeContext struct {
	ctx   *CompilationContext
	prims map[typeTag]*Type
	bitints map[bitintKey]*Type
}

type bitintKey struct {
	width  int
	signed bool
}

// NewTypeContext returns an empty canonicalization table bound to ctx's
// arena.
func NewTypeContext(ctx *CompilationContext) *TypeContext {
	return &TypeContext{
		ctx:     ctx,
		prims:   make(map[typeTag]*Type, 32),
		bitints: make(map[bitintKey]*Type, 8),
	}
}

func alignLog2ForBits(bits int) int {
	switch {
	case bits <= 8:
		return 0
	case bits <= 16:
		return 1
	case bits <= 32:
		return 2
	default:
		return 3
	}
}

func (tc *TypeContext) canonPrimitive(tag typeTag) *Type {
	key := tag &^ typeTag(qualifierMask&^(QComplex|QImaginary|QVoid|QNullptrT))
	if t, ok := tc.prims[key]; ok {
		return t
	}
	t := allocType[Type](tc.ctx.Arena)
	t.tag = key
	tc.prims[key] = t
	return t
}

// Integer returns the canonical (unqualified) primitive integer type
// of the given kind and signedness.
func (tc *TypeContext) Integer(kind IntegerKind, signed bool) *Type {
	tag := setKind(0, KPrimitive)
	tag = withAlignLog2(tag, alignLog2ForBits(kind.BitWidth()))
	tag |= typeTag(kind) << tagRawShift
	if signed {
		tag |= tagSignBit
	}
	return tc.canonPrimitive(tag)
}

// Float returns the canonical primitive floating type of the given kind.
func (tc *TypeContext) Float(kind FloatKind) *Type {
	tag := setKind(0, KPrimitive)
	tag = withAlignLog2(tag, alignLog2ForBits(kind.BitWidth()))
	tag |= tagFloatBit
	tag |= typeTag(kind) << tagRawShift
	tag |= tagSignBit // floats are always "signed" for rank purposes
	return tc.canonPrimitive(tag)
}

// Void returns the canonical `void` type.
func (tc *TypeContext) Void() *Type {
	tag := setKind(0, KPrimitive) | QVoid
	return tc.canonPrimitive(tag)
}

// NullptrT returns the canonical `nullptr_t` (C23) type.
func (tc *TypeContext) NullptrT() *Type {
	tag := setKind(0, KPrimitive) | QNullptrT
	return tc.canonPrimitive(tag)
}

// Complex returns t (a floating primitive) marked _Complex.
func (tc *TypeContext) Complex(t *Type) *Type {
	return tc.canonPrimitive(t.tag | QComplex)
}

// Imaginary returns t (a floating primitive) marked _Imaginary.
func (tc *TypeContext) Imaginary(t *Type) *Type {
	return tc.canonPrimitive(t.tag | QImaginary)
}

// Pointer allocates a fresh pointer-to-pointee type.
func (tc *TypeContext) Pointer(pointee *Type) *Type {
	t := allocType[Type](tc.ctx.Arena)
	t.tag = setKind(0, KPointer)
	t.tag = withAlignLog2(t.tag, 3) // 8-byte pointers on every target this front end models
	t.pointee = pointee
	return t
}

// Array allocates a fresh array type. size/hasSize describe a
// constant bound; vlaSize, when non-nil, is the bound expression of a
// variable-length array and hasSize is false.
func (tc *TypeContext) Array(elem *Type, size int64, hasSize bool, vlaSize *Expr) *Type {
	t := allocType[Type](tc.ctx.Arena)
	t.tag = setKind(0, KArray)
	t.tag = withAlignLog2(t.tag, elem.AlignLog2())
	t.elem = elem
	t.arrayHasSize = hasSize
	t.arraySize = size
	t.arrayVLASize = vlaSize
	return t
}

// Function allocates a fresh function type. Per spec.md §3, array and
// function types never appear directly as a return type or parameter
// type: callers decay array parameters to pointers, and a function
// return type must already have been rejected by Sema if it is itself
// a function or array type.
func (tc *TypeContext) Function(ret *Type, params []Param, variadic bool) *Type {
	t := allocType[Type](tc.ctx.Arena)
	t.tag = setKind(0, KFunction)
	t.ret = ret
	t.params = params
	t.variadic = variadic
	return t
}

// Record allocates a fresh (initially incomplete) struct/union type.
func (tc *TypeContext) Record(tag IdentHandle, isUnion bool) *Type {
	t := allocType[Type](tc.ctx.Arena)
	t.tag = setKind(0, KRecord)
	t.record = &RecordInfo{Tag: tag, IsUnion: isUnion}
	return t
}

// DefineRecord installs fields/size/align on an incomplete record type,
// per spec.md §3's "a record ... carries at most one definition".
func (tc *TypeContext) DefineRecord(t *Type, fields []Field, size, align int64) {
	t.record.Fields = fields
	t.record.Defined = true
	t.record.Size = size
	t.record.Align = align
	t.tag = withAlignLog2(t.tag, alignLog2ForBits(int(align*8)))
}

// Enum allocates a fresh (initially incomplete) enum type.
func (tc *TypeContext) Enum(tag IdentHandle) *Type {
	t := allocType[Type](tc.ctx.Arena)
	t.tag = setKind(0, KEnum)
	t.tag = withAlignLog2(t.tag, alignLog2ForBits(32))
	t.enum = &EnumInfo{Tag: tag, Underlying: tc.Integer(IKInt, true)}
	return t
}

// DefineEnum installs the enumerator list on an incomplete enum type.
func (tc *TypeContext) DefineEnum(t *Type, consts []EnumConst, underlying *Type) {
	t.enum.Consts = consts
	t.enum.Defined = true
	t.enum.Underlying = underlying
}

// BitField allocates a fresh bit-field type; these are never shared.
func (tc *TypeContext) BitField(base *Type, width int) *Type {
	t := allocType[Type](tc.ctx.Arena)
	t.tag = setKind(0, KBitField)
	t.bitBase = base
	t.bitWidth = width
	return t
}

// BitInt returns the memoized _BitInt(width) type of the given
// signedness, per spec.md §4.4 "BitInt(width, base-signedness) is
// also memoized".
func (tc *TypeContext) BitInt(width int, signed bool) *Type {
	key := bitintKey{width: width, signed: signed}
	if t, ok := tc.bitints[key]; ok {
		return t
	}
	t := allocType[Type](tc.ctx.Arena)
	t.tag = setKind(0, KBitInt)
	bytes := (width + 7) / 8
	align := alignLog2ForBits(bytes * 8)
	if align > 3 {
		align = 3
	}
	t.tag = withAlignLog2(t.tag, align)
	t.bitWidth = width
	t.bitSigned = signed
	tc.bitints[key] = t
	return t
}

// Vector allocates a fresh vector type.
func (tc *TypeContext) Vector(elem *Type, count int, kind VectorKind) *Type {
	t := allocType[Type](tc.ctx.Arena)
	t.tag = setKind(0, KVector)
	t.tag = withAlignLog2(t.tag, alignLog2ForBits(elem.BitWidth()*count))
	t.elem = elem
	t.vecCount = count
	t.vecKind = kind
	return t
}

// --- Predicates (spec.md §4.4) ------------------------------------------

// basicEquals implements the "both primitive" comparison: same
// integer/float choice, same kind code, same signedness or float kind,
// matching complex/imaginary/void bits.
func basicEquals(a, b *Type) bool {
	if a.Kind() != KPrimitive || b.Kind() != KPrimitive {
		return false
	}
	if a.IsVoid() != b.IsVoid() || a.IsNullptrT() != b.IsNullptrT() {
		return false
	}
	if a.IsVoid() || a.IsNullptrT() {
		return true
	}
	if a.IsFloating() != b.IsFloating() {
		return false
	}
	if a.HasQual(QComplex) != b.HasQual(QComplex) || a.HasQual(QImaginary) != b.HasQual(QImaginary) {
		return false
	}
	if a.IsFloating() {
		return a.FloatKind() == b.FloatKind()
	}
	return a.IntegerKind() == b.IntegerKind() && a.IsSigned() == b.IsSigned()
}

// TypeEqual implements the structural "same discriminator, recurse"
// comparison of spec.md §4.4.
func TypeEqual(a, b *Type) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch a.Kind() {
	case KPrimitive:
		return basicEquals(a, b)
	case KPointer:
		return TypeEqual(a.pointee, b.pointee)
	case KArray:
		if !TypeEqual(a.elem, b.elem) {
			return false
		}
		if a.arrayHasSize && b.arrayHasSize {
			return a.arraySize == b.arraySize
		}
		return a.arrayHasSize == b.arrayHasSize
	case KFunction:
		if !TypeEqual(a.ret, b.ret) || a.variadic != b.variadic || len(a.params) != len(b.params) {
			return false
		}
		for i := range a.params {
			if !TypeEqual(a.params[i].Type, b.params[i].Type) {
				return false
			}
		}
		return true
	case KRecord:
		return a.record == b.record // compare by definition identity
	case KEnum:
		return a.enum == b.enum
	case KBitField:
		return a.bitWidth == b.bitWidth && TypeEqual(a.bitBase, b.bitBase)
	case KBitInt:
		return a.bitWidth == b.bitWidth && a.bitSigned == b.bitSigned
	case KVector:
		return a.vecCount == b.vecCount && a.vecKind == b.vecKind && TypeEqual(a.elem, b.elem)
	}
	return false
}

// Compatible implements the relaxed C compatibility rules of
// spec.md §4.4 layered over TypeEqual.
func Compatible(a, b *Type) bool {
	if TypeEqual(a, b) {
		return true
	}
	if a.Kind() == KPointer && b.Kind() == KPointer {
		if a.pointee.IsVoid() || b.pointee.IsVoid() {
			return true
		}
		return Compatible(a.pointee, b.pointee)
	}
	if a.Kind() == KPrimitive && a.IsNullptrT() && b.Kind() == KPointer {
		return true
	}
	if b.Kind() == KPrimitive && b.IsNullptrT() && a.Kind() == KPointer {
		return true
	}
	if a.Kind() == KArray && b.Kind() == KArray {
		if !Compatible(a.elem, b.elem) {
			return false
		}
		if a.arrayHasSize && b.arrayHasSize {
			return a.arraySize == b.arraySize
		}
		return true // an unsized array is compatible with any sized variant
	}
	if a.Kind() == KFunction && b.Kind() == KFunction {
		if a.tag&qualifierMask&(QConst|QVolatile|QRestrict) != b.tag&qualifierMask&(QConst|QVolatile|QRestrict) {
			return false
		}
		if !Compatible(a.ret, b.ret) || a.variadic != b.variadic || len(a.params) != len(b.params) {
			return false
		}
		for i := range a.params {
			if !Compatible(a.params[i].Type, b.params[i].Type) {
				return false
			}
		}
		return true
	}
	return false
}

// --- Rank / usual arithmetic conversions (spec.md §4.4, §4.6) ----------

// integerRank is a monotone function of the integer-kind-log2, with
// _Bool ranked below every other integer kind.
func integerRank(k IntegerKind) int {
	if k == IKBool {
		return 0
	}
	return int(k)
}

// floatRank is a monotone function of float bit-width, with complex
// variants ranked above their real counterpart of the same width.
func floatRank(t *Type) int {
	r := t.FloatKind().BitWidth()
	if t.HasQual(QComplex) {
		r++
	}
	return r
}

// IntegerPromote applies C's integer promotion: any integer type with
// rank below `int` becomes `int` (or `unsigned int` if `int` cannot
// represent every value, which never happens for our narrower-than-int
// kinds, so the result is always signed int here; _Bool likewise
// promotes to int).
func (tc *TypeContext) IntegerPromote(t *Type) *Type {
	if t.Kind() == KBitField {
		t = t.bitBase
	}
	if t.Kind() == KBitInt {
		if t.bitWidth < 32 {
			return tc.Integer(IKInt, true)
		}
		return t
	}
	if t.Kind() != KPrimitive || !t.IsInteger() {
		return t
	}
	if integerRank(t.IntegerKind()) < integerRank(IKInt) {
		return tc.Integer(IKInt, true)
	}
	return t
}

// UsualArithmeticConversions implements spec.md §4.6's five-step
// ladder and returns the common type both operands convert to.
func (tc *TypeContext) UsualArithmeticConversions(a, b *Type) *Type {
	if a.Kind() == KPrimitive && a.IsFloating() && a.FloatKind() == FKx87_80 {
		return a
	}
	if b.Kind() == KPrimitive && b.IsFloating() && b.FloatKind() == FKx87_80 {
		return b
	}
	if a.Kind() == KPrimitive && a.IsFloating() && a.FloatKind() == FKDouble {
		return a
	}
	if b.Kind() == KPrimitive && b.IsFloating() && b.FloatKind() == FKDouble {
		return b
	}
	if a.Kind() == KPrimitive && a.IsFloating() {
		return a
	}
	if b.Kind() == KPrimitive && b.IsFloating() {
		return b
	}
	pa, pb := tc.IntegerPromote(a), tc.IntegerPromote(b)
	if pa.Kind() != KPrimitive || pb.Kind() != KPrimitive {
		if pa.BitWidth() >= pb.BitWidth() {
			return pa
		}
		return pb
	}
	if pa.IsSigned() == pb.IsSigned() {
		if integerRank(pa.IntegerKind()) >= integerRank(pb.IntegerKind()) {
			return pa
		}
		return pb
	}
	signed, unsigned := pa, pb
	if pa.IsSigned() {
		signed, unsigned = pa, pb
	} else {
		signed, unsigned = pb, pa
	}
	if integerRank(unsigned.IntegerKind()) >= integerRank(signed.IntegerKind()) {
		return unsigned
	}
	if signed.BitWidth() > unsigned.BitWidth() {
		return signed
	}
	return tc.Integer(signed.IntegerKind(), false)
}

// --- Pretty-printing ------------------------------------------------------

// TypeString renders t in C declarator-ish form, the minimal form the
// diagnostic engine's %T/%t directives need. printer.go's Fprint
// writes this same form.
func TypeString(t *Type) string {
	if t == nil {
		return "<null type>"
	}
	s := typeBaseString(t)
	if t.IsConst() {
		s = "const " + s
	}
	if t.IsVolatile() {
		s = "volatile " + s
	}
	return s
}

func typeBaseString(t *Type) string {
	switch t.Kind() {
	case KPrimitive:
		if t.IsVoid() {
			return "void"
		}
		if t.IsNullptrT() {
			return "nullptr_t"
		}
		var s string
		if t.IsFloating() {
			s = t.FloatKind().String()
		} else {
			s = t.IntegerKind().String(t.IsSigned())
		}
		if t.HasQual(QComplex) {
			s = "_Complex " + s
		} else if t.HasQual(QImaginary) {
			s = "_Imaginary " + s
		}
		return s
	case KPointer:
		return typeBaseString(t.pointee) + " *"
	case KArray:
		if t.arrayHasSize {
			return typeBaseString(t.elem) + " [" + strconv.FormatInt(t.arraySize, 10) + "]"
		}
		return typeBaseString(t.elem) + " []"
	case KFunction:
		s := typeBaseString(t.ret) + " ("
		for i, p := range t.params {
			if i > 0 {
				s += ", "
			}
			s += typeBaseString(p.Type)
		}
		if t.variadic {
			if len(t.params) > 0 {
				s += ", "
			}
			s += "..."
		}
		return s + ")"
	case KRecord:
		kw := "struct"
		if t.record != nil && t.record.IsUnion {
			kw = "union"
		}
		if t.record != nil && t.record.Tag != nil {
			return kw + " " + t.record.Tag.Text()
		}
		return kw + " <anonymous>"
	case KEnum:
		if t.enum != nil && t.enum.Tag != nil {
			return "enum " + t.enum.Tag.Text()
		}
		return "enum <anonymous>"
	case KBitField:
		return typeBaseString(t.bitBase) + " : " + strconv.Itoa(t.bitWidth)
	case KBitInt:
		sign := "unsigned "
		if t.bitSigned {
			sign = ""
		}
		return sign + "_BitInt(" + strconv.Itoa(t.bitWidth) + ")"
	case KVector:
		return typeBaseString(t.elem) + " __attribute__((vector_size(" + strconv.Itoa(t.vecCount) + ")))"
	}
	return "<invalid type>"
}
