// Copyright 2024 The CC Frontend Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cc

import "testing"

func evalExprSrc(t *testing.T, exprSrc string) (*CompilationContext, *Expr) {
	t.Helper()
	ctx := NewCompilationContext(&Options{}, nil)
	ctx.Source.AddString(exprSrc+";", "test.c")
	lex := NewLexer(ctx, ctx.Source)
	p := NewParser(ctx, lex, nil)
	e := p.parseConstantExpr()
	return ctx, e
}

func TestEvalConstIntArithmetic(t *testing.T) {
	tests := []struct {
		expr string
		want int64
	}{
		{"1 + 2", 3},
		{"2 * 3 + 4", 10},
		{"(2 + 3) * 4", 20},
		{"10 % 3", 1},
		{"1 << 4", 16},
		{"~0", -1},
		{"1 == 1", 1},
		{"1 != 1", 0},
		{"1 ? 2 : 3", 2},
		{"0 ? 2 : 3", 3},
		{"sizeof(int)", 4},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			ctx, e := evalExprSrc(t, tt.expr)
			if ctx.Diags.HasErrors() {
				t.Fatalf("unexpected errors parsing %q", tt.expr)
			}
			got := ctx.evalConstInt(e)
			if got != tt.want {
				t.Fatalf("evalConstInt(%q) = %d, want %d", tt.expr, got, tt.want)
			}
		})
	}
}

func TestIsConstantExprRejectsAssignment(t *testing.T) {
	e := &Expr{Kind: EBinary, BOp: BAssign}
	ctx := NewCompilationContext(&Options{}, nil)
	if ctx.isConstantExpr(e) {
		t.Fatalf("an assignment expression must never be reported as constant")
	}
}

func TestEvalDivisionByZeroWarns(t *testing.T) {
	ctx, e := evalExprSrc(t, "1 / 0")
	_ = ctx.evalConstInt(e)
	if ctx.Diags.NumWarnings() == 0 {
		t.Fatalf("division by zero in a constant expression should report a warning")
	}
}

// TestConstantBinaryFoldsAtParseTime exercises buildBinaryFromToken
// directly (not through parseConstantExpr), since that is the path an
// ordinary `int x = 2 + 3;` initializer takes.
func TestConstantBinaryFoldsAtParseTime(t *testing.T) {
	ctx := NewCompilationContext(&Options{}, nil)
	ctx.Source.AddString("2 + 3 * 4;", "test.c")
	lex := NewLexer(ctx, ctx.Source)
	p := NewParser(ctx, lex, nil)
	e := p.parseExpr()
	if ctx.Diags.HasErrors() {
		t.Fatalf("unexpected parse errors")
	}
	if e.Kind != EConst {
		t.Fatalf("constant binary expression did not fold to EConst, got Kind=%v", e.Kind)
	}
	if e.Const.IntVal != 14 {
		t.Fatalf("folded value = %d, want 14", e.Const.IntVal)
	}
}

func TestSignedIntOverflowWarnsOnFold(t *testing.T) {
	ctx := NewCompilationContext(&Options{}, nil)
	ctx.Source.AddString("2147483647 + 1;", "test.c")
	lex := NewLexer(ctx, ctx.Source)
	p := NewParser(ctx, lex, nil)
	p.parseExpr()
	if ctx.Diags.NumWarnings() == 0 {
		t.Fatalf("int overflow on a folded constant add should warn")
	}
}
