// Copyright 2024 The CC Frontend Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cc

// ExprKind discriminates the Expr variants of spec.md §3.
type ExprKind uint8

const (
	EConst ExprKind = iota
	EVarRef
	EUnary
	EBinary
	ECast
	ECall
	ESubscript
	EMember
	EArrayDecay
	EStringLit
	EInitList
	ECond
	ESizeof
	ERealImag
	EPostIncDec
	EBlockAddress
	EBuiltinCall
)

// UnaryOp enumerates the unary operators.
type UnaryOp uint8

const (
	UNeg UnaryOp = iota
	UNot       // !
	UBitNot    // ~
	UAddrOf    // &
	UDeref     // *
	UPreInc
	UPreDec
	UPlus // unary + (no-op beyond promotion)
)

// BinOp enumerates every binary operator, with the explicit
// signed/unsigned/float and pointer-arithmetic variants spec.md §3
// calls for instead of one generic "+"/"-"/"*"/"/" opcode.
type BinOp uint8

const (
	BAddI BinOp = iota // signed or unsigned integer add (wrap semantics identical)
	BAddF
	BSubI
	BSubF
	BMulI
	BMulF
	BDivS
	BDivU
	BDivF
	BRemS
	BRemU
	BAnd // bitwise &
	BOr  // bitwise |
	BXor
	BShl
	BShrS
	BShrU
	BPtrAddI  // pointer + integer (or integer + pointer)
	BPtrSubI  // pointer - integer
	BPtrDiff  // pointer - pointer, result is ptrdiff_t
	BLogAnd   // &&, short-circuit
	BLogOr    // ||, short-circuit
	BComma
	BAssign // LHS = RHS; the expression's value is the (converted) RHS
	BComplexConstruct // (real, imag) -> complex value
	BAtomicRMWAdd
	BAtomicRMWSub
	BAtomicRMWAnd
	BAtomicRMWOr
	BAtomicRMWXor
	BAtomicRMWXchg
	BCmpEQ
	BCmpNE
	BCmpLtS
	BCmpLtU
	BCmpLtF
	BCmpLeS
	BCmpLeU
	BCmpLeF
	BCmpGtS
	BCmpGtU
	BCmpGtF
	BCmpGeS
	BCmpGeU
	BCmpGeF
)

// IsComparison reports whether op yields a 0/1 int result.
func (op BinOp) IsComparison() bool { return op >= BCmpEQ }

// CastOp enumerates explicit conversion kinds a Cast node may perform.
type CastOp uint8

const (
	CastTrunc  CastOp = iota // wider integer -> narrower integer
	CastZExt                 // narrower unsigned -> wider integer
	CastSExt                 // narrower signed -> wider integer
	CastFPToSI               // float -> signed integer
	CastFPToUI               // float -> unsigned integer
	CastSIToFP               // signed integer -> float
	CastUIToFP               // unsigned integer -> float
	CastPtrToInt
	CastIntToPtr
	CastFPExt   // float -> double/long double
	CastFPTrunc // double -> float
	CastBitcast // same width, reinterpret (pointer<->pointer, etc.)
)

// ConstKind discriminates the payload of an EConst node.
type ConstKind uint8

const (
	ConstInt ConstKind = iota
	ConstFloat
	ConstAddress // &global [+ constant offset]
	ConstNull
	ConstLabelAddr // &&label
)

// ConstValue is the typed constant payload of an EConst expression.
type ConstValue struct {
	Kind ConstKind

	// ConstInt: arbitrary-precision-capable integer value. The front end
	// keeps values that fit int64/uint64 inline; values requiring more
	// precision (wide _BitInt literals) are rendered through Big.
	IntVal  int64
	UintVal uint64
	Big     string // non-empty for an arbitrary-precision literal

	// ConstFloat.
	FloatVal float64

	// ConstAddress: symbol + byte offset.
	Symbol IdentHandle
	Offset int64

	// ConstLabelAddr: target label index within the enclosing function.
	Label int
}

// Designator is one element of an initializer-list designation
// (`.field`, `[index]`, or a plain positional entry when both are nil).
type Designator struct {
	Field IdentHandle // set for `.field =`
	Index *Expr       // set for `[index] =`, nil for a plain positional entry
}

// InitElem is one (designator?, value) pair of an EInitList.
type InitElem struct {
	Designator Designator
	Value      *Expr
}

// Expr is the tagged discriminated node described in spec.md §3: every
// node carries its Type and origin Loc, plus per-Kind payload fields.
type Expr struct {
	Kind ExprKind
	Type *Type
	Loc  Location

	// EConst
	Const ConstValue

	// EVarRef: resolved lexical binding.
	Ref *VarInfo

	// EUnary
	UOp      UnaryOp
	Operand  *Expr

	// EBinary
	BOp  BinOp
	LHS  *Expr
	RHS  *Expr

	// ECast
	COp CastOp
	Src *Expr

	// ECall / EBuiltinCall
	Callee IdentHandle // for EBuiltinCall, the builtin's name
	CalleeExpr *Expr   // for ECall, the (possibly decayed) function designator
	Args   []*Expr

	// ESubscript: Base[Index]
	Base  *Expr
	Index *Expr

	// EMember: Base.Field or Base->Field (arrow pre-resolved to a Deref
	// during parsing, so EMember is always the dot form at this level).
	Field      IdentHandle
	FieldIndex int

	// EArrayDecay: the array-typed expression that decays.
	Array *Expr

	// EStringLit
	StringBytes []byte
	Prefix      EncodingPrefix

	// EInitList
	Elems []InitElem

	// ECond: Cond ? Then : Else
	Cond *Expr
	Then *Expr
	Else *Expr

	// ESizeof: either a type-name operand (TypeArg != nil) or an
	// expression operand (Operand != nil), mutually exclusive.
	TypeArg *Type

	// ERealImag: true selects __imag__, false selects __real__.
	IsImag bool

	// EPostIncDec: true selects decrement.
	IsDec bool

	// EBlockAddress: target label index within the enclosing function.
	BlockLabel int
}

// VarInfo is the binding a variable-reference Expr resolves to: the
// declared type, declaration site, any known constant value, and the
// usage/assignment flags tracked for "declared but not used" warnings
// (spec.md §3 "Scope state").
type VarInfo struct {
	Name     IdentHandle
	Type     *Type
	Loc      Location
	HasConst bool
	ConstVal ConstValue
	Used     bool
	Assigned bool

	// ScopeIndex is this binding's slot within its owning function's
	// flattened local-variable table, used by the IR consumer to address
	// storage without a name lookup.
	ScopeIndex int
}
