// Copyright 2024 The CC Frontend Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cc

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Fprint writes t's declarator-style spelling to w, the package's
// canonical structural walk over Type (spec.md §9's "replace
// inheritance with tagged discriminated type + exhaustive match",
// applied to printing the same way it is applied to dispatch).
func Fprint(w io.Writer, t *Type) {
	io.WriteString(w, TypeString(t))
}

// FprintExpr writes a parenthesized, fully-disambiguated rendering of
// e to w.
func FprintExpr(w io.Writer, e *Expr) {
	io.WriteString(w, ExprString(e))
}

// FprintStmt writes a indented rendering of the statement chain
// starting at s to w, one statement per line.
func FprintStmt(w io.Writer, s *Stmt) {
	var b strings.Builder
	writeStmtChain(&b, s, 0)
	io.WriteString(w, b.String())
}

// ExprString renders e in the same form the diagnostic engine's %E/%e
// directives use.
func ExprString(e *Expr) string {
	if e == nil {
		return "<null expr>"
	}
	var b strings.Builder
	writeExpr(&b, e)
	return b.String()
}

func writeExpr(b *strings.Builder, e *Expr) {
	if e == nil {
		b.WriteString("<null>")
		return
	}
	switch e.Kind {
	case EConst:
		writeConst(b, e.Const)
	case EVarRef:
		if e.Ref != nil && e.Ref.Name != nil {
			b.WriteString(e.Ref.Name.Text())
		} else {
			b.WriteString("<anon var>")
		}
	case EUnary:
		b.WriteString(unaryOpSymbol(e.UOp))
		writeExpr(b, e.Operand)
	case EBinary:
		b.WriteByte('(')
		writeExpr(b, e.LHS)
		b.WriteString(" " + binOpSymbol(e.BOp) + " ")
		writeExpr(b, e.RHS)
		b.WriteByte(')')
	case ECast:
		b.WriteString("(" + TypeString(e.Type) + ")")
		writeExpr(b, e.Src)
	case ECall:
		writeExpr(b, e.CalleeExpr)
		b.WriteByte('(')
		for i, a := range e.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			writeExpr(b, a)
		}
		b.WriteByte(')')
	case ESubscript:
		writeExpr(b, e.Base)
		b.WriteByte('[')
		writeExpr(b, e.Index)
		b.WriteByte(']')
	case EMember:
		writeExpr(b, e.Base)
		b.WriteByte('.')
		if e.Field != nil {
			b.WriteString(e.Field.Text())
		}
	case EArrayDecay:
		writeExpr(b, e.Array)
	case EStringLit:
		b.WriteString(strconv.Quote(string(e.StringBytes)))
	case EInitList:
		b.WriteByte('{')
		for i, el := range e.Elems {
			if i > 0 {
				b.WriteString(", ")
			}
			if el.Designator.Field != nil {
				b.WriteString("." + el.Designator.Field.Text() + " = ")
			} else if el.Designator.Index != nil {
				b.WriteByte('[')
				writeExpr(b, el.Designator.Index)
				b.WriteString("] = ")
			}
			writeExpr(b, el.Value)
		}
		b.WriteByte('}')
	case ECond:
		writeExpr(b, e.Cond)
		b.WriteString(" ? ")
		writeExpr(b, e.Then)
		b.WriteString(" : ")
		writeExpr(b, e.Else)
	case ESizeof:
		b.WriteString("sizeof(")
		if e.TypeArg != nil {
			b.WriteString(TypeString(e.TypeArg))
		} else {
			writeExpr(b, e.Operand)
		}
		b.WriteByte(')')
	case ERealImag:
		if e.IsImag {
			b.WriteString("__imag__ ")
		} else {
			b.WriteString("__real__ ")
		}
		writeExpr(b, e.Operand)
	case EPostIncDec:
		writeExpr(b, e.Operand)
		if e.IsDec {
			b.WriteString("--")
		} else {
			b.WriteString("++")
		}
	case EBlockAddress:
		b.WriteString("&&L" + strconv.Itoa(e.BlockLabel))
	case EBuiltinCall:
		if e.Callee != nil {
			b.WriteString(e.Callee.Text())
		}
		b.WriteByte('(')
		for i, a := range e.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			writeExpr(b, a)
		}
		b.WriteByte(')')
	default:
		b.WriteString("<invalid expr>")
	}
}

func writeConst(b *strings.Builder, c ConstValue) {
	switch c.Kind {
	case ConstInt:
		if c.Big != "" {
			b.WriteString(c.Big)
		} else if c.UintVal != 0 && c.IntVal == 0 {
			fmt.Fprintf(b, "%d", c.UintVal)
		} else {
			fmt.Fprintf(b, "%d", c.IntVal)
		}
	case ConstFloat:
		fmt.Fprintf(b, "%g", c.FloatVal)
	case ConstAddress:
		if c.Symbol != nil {
			b.WriteString("&" + c.Symbol.Text())
		}
		if c.Offset != 0 {
			fmt.Fprintf(b, "+%d", c.Offset)
		}
	case ConstNull:
		b.WriteString("(nullptr)")
	case ConstLabelAddr:
		b.WriteString("&&L" + strconv.Itoa(c.Label))
	}
}

func unaryOpSymbol(op UnaryOp) string {
	switch op {
	case UNeg:
		return "-"
	case UNot:
		return "!"
	case UBitNot:
		return "~"
	case UAddrOf:
		return "&"
	case UDeref:
		return "*"
	case UPreInc:
		return "++"
	case UPreDec:
		return "--"
	case UPlus:
		return "+"
	}
	return "?"
}

func binOpSymbol(op BinOp) string {
	switch op {
	case BAddI, BAddF, BPtrAddI:
		return "+"
	case BSubI, BSubF, BPtrSubI, BPtrDiff:
		return "-"
	case BMulI, BMulF:
		return "*"
	case BDivS, BDivU, BDivF:
		return "/"
	case BRemS, BRemU:
		return "%"
	case BAnd:
		return "&"
	case BOr:
		return "|"
	case BXor:
		return "^"
	case BShl:
		return "<<"
	case BShrS, BShrU:
		return ">>"
	case BLogAnd:
		return "&&"
	case BLogOr:
		return "||"
	case BComma:
		return ","
	case BAssign:
		return "="
	case BComplexConstruct:
		return "@complex"
	case BAtomicRMWAdd:
		return "@atomic_add"
	case BAtomicRMWSub:
		return "@atomic_sub"
	case BAtomicRMWAnd:
		return "@atomic_and"
	case BAtomicRMWOr:
		return "@atomic_or"
	case BAtomicRMWXor:
		return "@atomic_xor"
	case BAtomicRMWXchg:
		return "@atomic_xchg"
	case BCmpEQ:
		return "=="
	case BCmpNE:
		return "!="
	case BCmpLtS, BCmpLtU, BCmpLtF:
		return "<"
	case BCmpLeS, BCmpLeU, BCmpLeF:
		return "<="
	case BCmpGtS, BCmpGtU, BCmpGtF:
		return ">"
	case BCmpGeS, BCmpGeU, BCmpGeF:
		return ">="
	}
	return "?"
}

func writeStmtChain(b *strings.Builder, s *Stmt, depth int) {
	for s != nil {
		writeStmt(b, s, depth)
		s = s.Next
	}
}

func indent(b *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteString("  ")
	}
}

func writeStmt(b *strings.Builder, s *Stmt, depth int) {
	switch s.Kind {
	case SHead:
		// sentinel, nothing to render
	case SCompound:
		indent(b, depth)
		b.WriteString("{\n")
		writeStmtChain(b, s.Body, depth+1)
		indent(b, depth)
		b.WriteString("}\n")
	case SExpr:
		indent(b, depth)
		writeExpr(b, s.Expr)
		b.WriteString(";\n")
	case SDeclOnly, SVarDecl:
		indent(b, depth)
		for i, d := range s.Decls {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(TypeString(d.Var.Type) + " " + d.Var.Name.Text())
			if d.Init != nil {
				b.WriteString(" = ")
				writeExpr(b, d.Init)
			}
		}
		b.WriteString(";\n")
	case SFuncDef:
		indent(b, depth)
		b.WriteString(TypeString(s.FuncType.Return()) + " " + s.FuncName.Text() + "(...) ")
		writeStmt(b, &Stmt{Kind: SCompound, Body: s.FuncBody}, depth)
	case SReturn:
		indent(b, depth)
		b.WriteString("return")
		if s.ReturnValue != nil {
			b.WriteByte(' ')
			writeExpr(b, s.ReturnValue)
		}
		b.WriteString(";\n")
	case SLabeled:
		indent(b, depth)
		if s.Lbl != nil {
			fmt.Fprintf(b, "L%d:\n", s.Lbl.Index)
		}
	case SGoto:
		indent(b, depth)
		if s.Target != nil {
			fmt.Fprintf(b, "goto L%d;\n", s.Target.Index)
		}
	case SCondBr:
		indent(b, depth)
		b.WriteString("condbr ")
		writeExpr(b, s.Cond)
		fmt.Fprintf(b, ", L%d, L%d;\n", s.TrueLbl.Index, s.FalseLbl.Index)
	case SIndirectBr:
		indent(b, depth)
		b.WriteString("indirectbr ")
		writeExpr(b, s.GotoExpr)
		b.WriteString(";\n")
	case SAsm:
		indent(b, depth)
		fmt.Fprintf(b, "asm(%q);\n", s.AsmText)
	case SUpdateForwardDecl:
		indent(b, depth)
		if s.ForwardVar != nil {
			b.WriteString("// forward-declared " + s.ForwardVar.Name.Text() + " now defined\n")
		}
	}
}
