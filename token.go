// Copyright 2024 The CC Frontend Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cc

// TokenKind classifies a cooked token produced by the Preprocessor/Lexer.
type TokenKind uint16

const (
	TEOF TokenKind = iota
	TNewline
	TSpace
	TIdent
	TPPNumber
	TCharLit
	TStringLit
	THeaderName

	// Punctuators. Digraphs and trigraphs are folded to these canonical
	// kinds by the lexer; the parser never sees a digraph spelling.
	TLParen
	TRParen
	TLBrace
	TRBrace
	TLBracket
	TRBracket
	TSemi
	TComma
	TColon
	TQuestion
	TDot
	TEllipsis
	TArrow
	TPlus
	TMinus
	TStar
	TSlash
	TPercent
	TAmp
	TPipe
	TCaret
	TTilde
	TBang
	TAssign
	TLess
	TGreater
	TPlusPlus
	TMinusMinus
	TShl
	TShr
	TLessEq
	TGreaterEq
	TEqEq
	TBangEq
	TAmpAmp
	TPipePipe
	TPlusEq
	TMinusEq
	TStarEq
	TSlashEq
	TPercentEq
	TAmpEq
	TPipeEq
	TCaretEq
	TShlEq
	TShrEq
	THash
	THashHash

	keywordBase
)

// Keyword kinds. Declared as a contiguous block starting at keywordBase
// so "is this a keyword" is a single range check.
const (
	KwAuto TokenKind = keywordBase + iota
	KwBreak
	KwCase
	KwChar
	KwConst
	KwContinue
	KwDefault
	KwDo
	KwDouble
	KwElse
	KwEnum
	KwExtern
	KwFloat
	KwFor
	KwGoto
	KwIf
	KwInline
	KwInt
	KwLong
	KwRegister
	KwRestrict
	KwReturn
	KwShort
	KwSigned
	KwSizeof
	KwStatic
	KwStruct
	KwSwitch
	KwTypedef
	KwUnion
	KwUnsigned
	KwVoid
	KwVolatile
	KwWhile
	Kw_Alignas
	Kw_Alignof
	Kw_Atomic
	Kw_Bool
	Kw_Complex
	Kw_Generic
	Kw_Imaginary
	Kw_Noreturn
	Kw_StaticAssert
	Kw_ThreadLocal
	Kw_BitInt
	KwTypeof
	KwTypeofUnqual
	KwNullptr
	KwTrue
	KwFalse
	Kw__int128
	Kw__real__
	Kw__imag__
	Kw__builtin_va_list
	Kw_Pragma

	tokenKindMax
)

var keywordTable = map[string]TokenKind{
	"auto": KwAuto, "break": KwBreak, "case": KwCase, "char": KwChar,
	"const": KwConst, "continue": KwContinue, "default": KwDefault, "do": KwDo,
	"double": KwDouble, "else": KwElse, "enum": KwEnum, "extern": KwExtern,
	"float": KwFloat, "for": KwFor, "goto": KwGoto, "if": KwIf,
	"inline": KwInline, "int": KwInt, "long": KwLong, "register": KwRegister,
	"restrict": KwRestrict, "return": KwReturn, "short": KwShort, "signed": KwSigned,
	"sizeof": KwSizeof, "static": KwStatic, "struct": KwStruct, "switch": KwSwitch,
	"typedef": KwTypedef, "union": KwUnion, "unsigned": KwUnsigned, "void": KwVoid,
	"volatile": KwVolatile, "while": KwWhile,
	"_Alignas": Kw_Alignas, "_Alignof": Kw_Alignof, "_Atomic": Kw_Atomic,
	"_Bool": Kw_Bool, "_Complex": Kw_Complex, "_Generic": Kw_Generic,
	"_Imaginary": Kw_Imaginary, "_Noreturn": Kw_Noreturn,
	"_Static_assert": Kw_StaticAssert, "_Thread_local": Kw_ThreadLocal,
	"_BitInt": Kw_BitInt, "typeof": KwTypeof, "typeof_unqual": KwTypeofUnqual,
	"nullptr": KwNullptr, "true": KwTrue, "false": KwFalse,
	"__int128": Kw__int128, "__real__": Kw__real__, "__imag__": Kw__imag__,
	"__builtin_va_list": Kw__builtin_va_list, "_Pragma": Kw_Pragma,
}

var builtinMacroTable = map[string]BuiltinMacroKind{
	"__FILE__":    BuiltinFILE,
	"__LINE__":    BuiltinLINE,
	"__DATE__":    BuiltinDATE,
	"__TIME__":    BuiltinTIME,
	"__COUNTER__": BuiltinCOUNTER,
	"__func__":    BuiltinFUNC,
}

// Token is one cooked token, as produced by Lexer.Next.
type Token struct {
	Kind TokenKind
	Loc  Location
	// Ident is set for TIdent and carries the interned handle; the
	// lexer's cookToken uses Ident.Keyword() to give keywords their own
	// kinds, keeping Ident on them and on materialized builtin macros.
	Ident IdentHandle
	// Text is the raw spelling for TPPNumber, TCharLit, TStringLit,
	// THeaderName (including quotes/prefix), and is empty otherwise.
	Text string
	// Prefix/CharValue/StringBytes are populated for literal tokens by
	// the literal parser (see literal.go): CharValue holds a TCharLit's
	// decoded codepoint, StringBytes a TStringLit's decoded byte sequence.
	Prefix      EncodingPrefix
	CharValue   int64
	StringBytes []byte
	// SpaceBefore records whether whitespace preceded this token in the
	// source, needed for faithful macro-argument re-stringization (#).
	SpaceBefore bool
}

// EncodingPrefix is the character/string literal encoding prefix.
type EncodingPrefix uint8

const (
	PrefixNone EncodingPrefix = iota
	PrefixU8
	PrefixU
	PrefixBigU
	PrefixL
)

func (k TokenKind) isKeyword() bool { return k >= keywordBase && k < tokenKindMax }

// String gives a human-readable token-kind name for diagnostics.
func (k TokenKind) String() string {
	if s, ok := tokenKindNames[k]; ok {
		return s
	}
	return "<token>"
}

var tokenKindNames = map[TokenKind]string{
	TEOF: "end of file", TNewline: "newline", TSpace: "space",
	TIdent: "identifier", TPPNumber: "number", TCharLit: "character constant",
	TStringLit: "string literal", THeaderName: "header name",
	TLParen: "(", TRParen: ")", TLBrace: "{", TRBrace: "}",
	TLBracket: "[", TRBracket: "]", TSemi: ";", TComma: ",",
	TColon: ":", TQuestion: "?", TDot: ".", TEllipsis: "...",
	TArrow: "->", TPlus: "+", TMinus: "-", TStar: "*", TSlash: "/",
	TPercent: "%", TAmp: "&", TPipe: "|", TCaret: "^", TTilde: "~",
	TBang: "!", TAssign: "=", TLess: "<", TGreater: ">",
	TPlusPlus: "++", TMinusMinus: "--", TShl: "<<", TShr: ">>",
	TLessEq: "<=", TGreaterEq: ">=", TEqEq: "==", TBangEq: "!=",
	TAmpAmp: "&&", TPipePipe: "||", TPlusEq: "+=", TMinusEq: "-=",
	TStarEq: "*=", TSlashEq: "/=", TPercentEq: "%=", TAmpEq: "&=",
	TPipeEq: "|=", TCaretEq: "^=", TShlEq: "<<=", TShrEq: ">>=",
	THash: "#", THashHash: "##",
}
