// Copyright 2024 The CC Frontend Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cc

// StmtKind discriminates the Stmt variants of spec.md §3.
type StmtKind uint8

const (
	SHead StmtKind = iota // head sentinel; never itself emitted as real code
	SCompound
	SExpr
	SDeclOnly // a declaration with no initializer and no storage effect
	SVarDecl
	SFuncDef
	SReturn
	SLabeled
	SGoto
	SCondBr
	SIndirectBr
	SAsm
	SUpdateForwardDecl
)

// Label is one entry in a function's label table: an index, a defined
// flag, and the Stmt it marks once inserted.
type Label struct {
	Index   int
	Defined bool
	Name    IdentHandle // empty for a compiler-generated label
	Target  *Stmt
}

// VarDeclEntry is one (binding, initializer?) pair of an SVarDecl,
// which spec.md §3 allows to declare "possibly several at once"
// (`int a = 1, b, *c = &a;`).
type VarDeclEntry struct {
	Var  *VarInfo
	Init *Expr // nil when there is no initializer
}

// AsmOperand is one input or output operand of an inline-asm statement.
type AsmOperand struct {
	Constraint string
	Value      *Expr
}

// Stmt is the singly-linked node described in spec.md §3. A function
// body or translation unit is a chain starting at a head sentinel;
// Next advances in program order regardless of Kind.
type Stmt struct {
	Kind StmtKind
	Loc  Location
	Next *Stmt

	// SCompound: the nested body's own chain (its own head sentinel).
	Body *Stmt

	// SExpr
	Expr *Expr

	// SVarDecl / SDeclOnly
	Decls []VarDeclEntry

	// SFuncDef
	FuncName   IdentHandle
	FuncType   *Type
	Params     []*VarInfo
	FuncBody   *Stmt // the function's own compound chain
	MaxScope   int   // peak concurrent identifier-scope size
	MaxTagScope int  // peak concurrent tag-scope size
	Labels     []*Label

	// SReturn
	ReturnValue *Expr // nil for a void return

	// SLabeled: the label this position defines.
	Lbl *Label

	// SGoto / SIndirectBr target(s).
	Target  *Label   // SGoto: resolved target (nil until the label is defined)
	GotoExpr *Expr    // SIndirectBr: computed-goto address expression
	Targets []*Label  // SIndirectBr: the set of labels the address may name

	// SCondBr
	Cond      *Expr
	TrueLbl   *Label
	FalseLbl  *Label

	// SAsm
	AsmText    string
	AsmOutputs []AsmOperand
	AsmInputs  []AsmOperand
	AsmClobbers []string

	// SUpdateForwardDecl: a later definition supersedes an earlier
	// forward declaration of the same function/variable; ForwardVar is the
	// forward declaration's VarInfo, now updated in place.
	ForwardVar *VarInfo
}

// NewHead returns a fresh empty statement chain (just the sentinel).
func NewHead(a *Arena) *Stmt {
	s := allocType[Stmt](a)
	s.Kind = SHead
	return s
}
