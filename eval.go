// Copyright 2024 The CC Frontend Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cc


// Constant is the stable result type the Constant Evaluator hands back
// to callers outside the parser (interpreters, JIT backends), per
// spec.md §4.7 and SPEC_FULL.md §12.5's re-evaluation hook.
type Constant struct {
	IsFloat bool
	Int     int64
	Uint    uint64
	Float   float64
	IsAddr  bool
	Symbol  IdentHandle
	Offset  int64
}

// isConstantExpr reports whether e can be folded to a compile-time
// constant without evaluating it: integer/float literals, casts and
// arithmetic over constants, sizeof/alignof, and address constants
// of the `&global [+ N]` shape spec.md §4.7 describes.
func (ctx *CompilationContext) isConstantExpr(e *Expr) bool {
	if e == nil {
		return false
	}
	switch e.Kind {
	case EConst:
		return true
	case ESizeof:
		return true
	case EUnary:
		if e.UOp == UAddrOf {
			return isAddressable(e.Operand)
		}
		return ctx.isConstantExpr(e.Operand)
	case EBinary:
		if e.BOp == BAssign {
			return false
		}
		if e.BOp == BPtrAddI || e.BOp == BPtrSubI {
			return isAddressable(e.LHS) && ctx.isConstantExpr(e.RHS)
		}
		return ctx.isConstantExpr(e.LHS) && ctx.isConstantExpr(e.RHS)
	case ECast:
		return ctx.isConstantExpr(e.Src)
	case ECond:
		return ctx.isConstantExpr(e.Cond) && ctx.isConstantExpr(e.Then) && ctx.isConstantExpr(e.Else)
	case EStringLit:
		return true
	case EVarRef:
		return e.Ref != nil && e.Ref.HasConst
	}
	return false
}

// isAddressable reports whether e names a global/static object an
// address constant can reference.
func isAddressable(e *Expr) bool {
	if e == nil {
		return false
	}
	switch e.Kind {
	case EVarRef:
		return true
	case ESubscript:
		return isAddressable(e.Base)
	case EMember:
		return isAddressable(e.Base)
	}
	return false
}

// evalConstInt folds e to an int64, reporting an eval diagnostic and
// returning 0 when e is not a constant (spec.md §7: eval errors
// degrade to a usable sentinel rather than aborting). A floating
// result is truncated toward zero without a diagnostic.
func (ctx *CompilationContext) evalConstInt(e *Expr) int64 {
	c, ok := ctx.evalConstant(e)
	if !ok {
		ctx.Errorf(SevEvalError, e.Loc, "expression is not an integer constant expression")
		return 0
	}
	if c.IsFloat {
		return int64(c.Float)
	}
	return c.Int
}

// evalConstant is the recursive constant folder backing evalConstInt
// and the #12.5 re-evaluation hook: it mirrors the operator set of
// expr.go's BinOp/UnaryOp/CastOp so a fully-typed constant expression
// always has a deterministic, overflow-wrapping result.
func (ctx *CompilationContext) evalConstant(e *Expr) (Constant, bool) {
	if e == nil {
		return Constant{}, false
	}
	switch e.Kind {
	case EConst:
		switch e.Const.Kind {
		case ConstInt:
			return Constant{Int: e.Const.IntVal, Uint: e.Const.UintVal}, true
		case ConstFloat:
			return Constant{IsFloat: true, Float: e.Const.FloatVal}, true
		case ConstAddress:
			return Constant{IsAddr: true, Symbol: e.Const.Symbol, Offset: e.Const.Offset}, true
		case ConstNull:
			return Constant{}, true
		}
		return Constant{}, false

	case EVarRef:
		if e.Ref != nil && e.Ref.HasConst {
			cv := e.Ref.ConstVal
			if cv.Kind == ConstFloat {
				return Constant{IsFloat: true, Float: cv.FloatVal}, true
			}
			return Constant{Int: cv.IntVal, Uint: cv.UintVal}, true
		}
		return Constant{}, false

	case ECast:
		src, ok := ctx.evalConstant(e.Src)
		if !ok {
			return Constant{}, false
		}
		return castConstant(src, e.COp), true

	case EUnary:
		if e.UOp == UAddrOf {
			if sym, off, ok := addressOf(e.Operand); ok {
				return Constant{IsAddr: true, Symbol: sym, Offset: off}, true
			}
			return Constant{}, false
		}
		v, ok := ctx.evalConstant(e.Operand)
		if !ok {
			return Constant{}, false
		}
		return applyUnary(e.UOp, v), true

	case EBinary:
		lhs, ok := ctx.evalConstant(e.LHS)
		if !ok {
			return Constant{}, false
		}
		rhs, ok := ctx.evalConstant(e.RHS)
		if !ok {
			return Constant{}, false
		}
		return ctx.applyBinary(e.Loc, e.BOp, lhs, rhs)

	case ECond:
		cond, ok := ctx.evalConstant(e.Cond)
		if !ok {
			return Constant{}, false
		}
		if constTruthy(cond) {
			return ctx.evalConstant(e.Then)
		}
		return ctx.evalConstant(e.Else)

	case ESizeof:
		var t *Type
		if e.TypeArg != nil {
			t = e.TypeArg
		} else if e.Operand != nil {
			t = e.Operand.Type
		}
		if t == nil || t.IsVLA() {
			return Constant{}, false
		}
		return Constant{Int: typeSizeBytes(t)}, true
	}
	return Constant{}, false
}

// foldConstBinary replaces a binary expression with its folded EConst
// node when both operands are already constants, per spec.md §4.6:
// "whenever both operands of a binary op are constants, the result
// replaces the node with a constant node." Returns nil when either
// operand isn't an EConst, leaving the caller to keep the runtime node.
func (ctx *CompilationContext) foldConstBinary(op BinOp, t *Type, lhs, rhs *Expr, loc Location) *Expr {
	if lhs.Kind != EConst || rhs.Kind != EConst {
		return nil
	}
	a, ok := ctx.evalConstant(lhs)
	if !ok {
		return nil
	}
	b, ok := ctx.evalConstant(rhs)
	if !ok {
		return nil
	}
	c, ok := ctx.applyBinary(loc, op, a, b)
	if !ok {
		return nil
	}
	if t != nil && t.IsInteger() && t.IsSigned() && !c.IsFloat {
		checkSignedOverflow(ctx, op, t, a, b, c.Int, loc)
		if w := t.BitWidth(); w > 0 && w < 64 {
			c.Int = c.Int << uint(64-w) >> uint(64-w)
		}
	}
	return constantToExpr(c, t, loc)
}

// checkSignedOverflow reports spec.md §4.6's "signed integer overflow"
// warning when a folded add/sub/mul doesn't fit back into t's signed
// range: the wrapped int64 result is computed in full width, then
// compared against the narrower type's representable bounds.
func checkSignedOverflow(ctx *CompilationContext, op BinOp, t *Type, a, b Constant, result int64, loc Location) {
	w := t.BitWidth()
	if w <= 0 || w >= 64 {
		return
	}
	switch op {
	case BAddI, BSubI, BMulI:
	default:
		return
	}
	lo := -(int64(1) << uint(w-1))
	hi := int64(1)<<uint(w-1) - 1
	if result < lo || result > hi {
		ctx.Errorf(SevWarning, loc, "signed integer overflow in constant expression")
	}
}

func addressOf(e *Expr) (IdentHandle, int64, bool) {
	switch e.Kind {
	case EVarRef:
		if e.Ref != nil {
			return e.Ref.Name, 0, true
		}
	case EMember:
		if sym, off, ok := addressOf(e.Base); ok {
			if rec := recordOf(e.Base.Type); rec != nil && e.FieldIndex >= 0 && e.FieldIndex < len(rec.Fields) {
				return sym, off + rec.Fields[e.FieldIndex].Offset, true
			}
			return sym, off, true
		}
	}
	return nil, 0, false
}

func constTruthy(c Constant) bool {
	if c.IsFloat {
		return c.Float != 0
	}
	if c.IsAddr {
		return true
	}
	return c.Int != 0 || c.Uint != 0
}

func applyUnary(op UnaryOp, v Constant) Constant {
	switch op {
	case UNeg:
		if v.IsFloat {
			return Constant{IsFloat: true, Float: -v.Float}
		}
		return Constant{Int: -v.Int, Uint: -v.Uint}
	case UNot:
		return Constant{Int: boolToInt(!constTruthy(v))}
	case UBitNot:
		return Constant{Int: ^v.Int, Uint: ^v.Uint}
	case UPlus:
		return v
	default:
		return v
	}
}

func (ctx *CompilationContext) applyBinary(loc Location, op BinOp, a, b Constant) (Constant, bool) {
	if a.IsFloat || b.IsFloat {
		af, bf := constFloat(a), constFloat(b)
		switch op {
		case BAddF:
			return Constant{IsFloat: true, Float: af + bf}, true
		case BSubF:
			return Constant{IsFloat: true, Float: af - bf}, true
		case BMulF:
			return Constant{IsFloat: true, Float: af * bf}, true
		case BDivF:
			return Constant{IsFloat: true, Float: af / bf}, true
		case BCmpEQ:
			return Constant{Int: boolToInt(af == bf)}, true
		case BCmpNE:
			return Constant{Int: boolToInt(af != bf)}, true
		case BCmpLtF:
			return Constant{Int: boolToInt(af < bf)}, true
		case BCmpLeF:
			return Constant{Int: boolToInt(af <= bf)}, true
		case BCmpGtF:
			return Constant{Int: boolToInt(af > bf)}, true
		case BCmpGeF:
			return Constant{Int: boolToInt(af >= bf)}, true
		}
		return Constant{}, false
	}
	ai, bi := a.Int, b.Int
	switch op {
	case BAddI, BPtrAddI:
		return Constant{Int: ai + bi}, true
	case BSubI, BPtrSubI, BPtrDiff:
		return Constant{Int: ai - bi}, true
	case BMulI:
		return Constant{Int: ai * bi}, true
	case BDivS:
		if bi == 0 {
			ctx.Errorf(SevWarning, loc, "division by zero in constant expression")
			return Constant{Int: 0}, true
		}
		return Constant{Int: ai / bi}, true
	case BDivU:
		if b.Uint == 0 {
			ctx.Errorf(SevWarning, loc, "division by zero in constant expression")
			return Constant{Int: 0}, true
		}
		return Constant{Uint: a.Uint / b.Uint}, true
	case BRemS:
		if bi == 0 {
			ctx.Errorf(SevWarning, loc, "division by zero in constant expression")
			return Constant{Int: 0}, true
		}
		return Constant{Int: ai % bi}, true
	case BRemU:
		if b.Uint == 0 {
			ctx.Errorf(SevWarning, loc, "division by zero in constant expression")
			return Constant{Int: 0}, true
		}
		return Constant{Uint: a.Uint % b.Uint}, true
	case BAnd:
		return Constant{Int: ai & bi}, true
	case BOr:
		return Constant{Int: ai | bi}, true
	case BXor:
		return Constant{Int: ai ^ bi}, true
	case BShl:
		return Constant{Int: ai << uint(bi&63)}, true
	case BShrS:
		return Constant{Int: ai >> uint(bi&63)}, true
	case BShrU:
		return Constant{Uint: a.Uint >> uint(bi&63)}, true
	case BLogAnd:
		return Constant{Int: boolToInt(constTruthy(a) && constTruthy(b))}, true
	case BLogOr:
		return Constant{Int: boolToInt(constTruthy(a) || constTruthy(b))}, true
	case BComma:
		return b, true
	case BCmpEQ:
		return Constant{Int: boolToInt(ai == bi)}, true
	case BCmpNE:
		return Constant{Int: boolToInt(ai != bi)}, true
	case BCmpLtS:
		return Constant{Int: boolToInt(ai < bi)}, true
	case BCmpLtU:
		return Constant{Int: boolToInt(a.Uint < b.Uint)}, true
	case BCmpLeS:
		return Constant{Int: boolToInt(ai <= bi)}, true
	case BCmpLeU:
		return Constant{Int: boolToInt(a.Uint <= b.Uint)}, true
	case BCmpGtS:
		return Constant{Int: boolToInt(ai > bi)}, true
	case BCmpGtU:
		return Constant{Int: boolToInt(a.Uint > b.Uint)}, true
	case BCmpGeS:
		return Constant{Int: boolToInt(ai >= bi)}, true
	case BCmpGeU:
		return Constant{Int: boolToInt(a.Uint >= b.Uint)}, true
	}
	return Constant{}, false
}

func constFloat(c Constant) float64 {
	if c.IsFloat {
		return c.Float
	}
	return float64(c.Int)
}

func castConstant(v Constant, op CastOp) Constant {
	switch op {
	case CastSIToFP:
		return Constant{IsFloat: true, Float: float64(v.Int)}
	case CastUIToFP:
		return Constant{IsFloat: true, Float: float64(v.Uint)}
	case CastFPToSI:
		return Constant{Int: int64(v.Float)}
	case CastFPToUI:
		return Constant{Uint: uint64(v.Float)}
	case CastFPExt, CastFPTrunc:
		return v
	case CastTrunc, CastZExt, CastSExt, CastPtrToInt, CastIntToPtr, CastBitcast:
		return v
	}
	return v
}
