// Copyright 2024 The CC Frontend Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cc

import "testing"

func parseSrc(t *testing.T, src string) (*CompilationContext, *TranslationUnit) {
	t.Helper()
	ctx := NewCompilationContext(&Options{}, nil)
	ctx.Source.AddString(src, "test.c")
	lex := NewLexer(ctx, ctx.Source)
	tu := ParseTranslationUnit(ctx, lex, nil)
	return ctx, tu
}

func TestParseSimpleFunction(t *testing.T) {
	ctx, tu := parseSrc(t, "int main(void) { return 0; }")
	if ctx.Diags.HasErrors() {
		t.Fatalf("unexpected parse errors")
	}
	fn := tu.Root.Next
	if fn == nil || fn.Kind != SFuncDef {
		t.Fatalf("expected a single SFuncDef, got %v", fn)
	}
	if fn.FuncName == nil || fn.FuncName.Text() != "main" {
		t.Fatalf("FuncName = %v, want main", fn.FuncName)
	}
	body := fn.FuncBody
	if body == nil || body.Kind != SReturn {
		t.Fatalf("expected a single SReturn body statement, got %v", body)
	}
}

func TestParseDeclarators(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want TypeKind
	}{
		{"pointer", "int *p;", KPointer},
		{"array", "int a[3];", KArray},
		{"function", "int f(int, int);", KFunction},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, tu := parseSrc(t, tt.src)
			if ctx.Diags.HasErrors() {
				t.Fatalf("unexpected parse errors for %q", tt.src)
			}
			decl := tu.Root.Next
			if decl == nil {
				t.Fatalf("expected a declaration, got none")
			}
			if decl.Kind == SVarDecl {
				if len(decl.Decls) != 1 || decl.Decls[0].Var.Type.Kind() != tt.want {
					t.Fatalf("declared type kind = %v, want %v", decl.Decls[0].Var.Type.Kind(), tt.want)
				}
			} else if decl.Kind == SFuncDef {
				if decl.FuncType.Kind() != tt.want {
					t.Fatalf("declared type kind = %v, want %v", decl.FuncType.Kind(), tt.want)
				}
			} else {
				t.Fatalf("unexpected Stmt.Kind %v", decl.Kind)
			}
		})
	}
}

func TestParseFunctionPointerDeclarator(t *testing.T) {
	ctx, tu := parseSrc(t, "int (*fp)(int);")
	if ctx.Diags.HasErrors() {
		t.Fatalf("unexpected parse errors")
	}
	decl := tu.Root.Next
	if decl == nil || decl.Kind != SVarDecl || len(decl.Decls) != 1 {
		t.Fatalf("expected a single var decl, got %v", decl)
	}
	ft := decl.Decls[0].Var.Type
	if ft.Kind() != KPointer {
		t.Fatalf("fp's type kind = %v, want KPointer", ft.Kind())
	}
	if ft.Pointee().Kind() != KFunction {
		t.Fatalf("fp's pointee kind = %v, want KFunction", ft.Pointee().Kind())
	}
}

func TestParseArrayOfArrays(t *testing.T) {
	ctx, tu := parseSrc(t, "int a[3][4];")
	if ctx.Diags.HasErrors() {
		t.Fatalf("unexpected parse errors")
	}
	decl := tu.Root.Next
	at := decl.Decls[0].Var.Type
	if at.Kind() != KArray || at.ArraySize() != 3 {
		t.Fatalf("outer type = %v size %d, want KArray size 3", at.Kind(), at.ArraySize())
	}
	inner := at.Elem()
	if inner.Kind() != KArray || inner.ArraySize() != 4 {
		t.Fatalf("inner type = %v size %d, want KArray size 4", inner.Kind(), inner.ArraySize())
	}
	if inner.Elem().Kind() != KPrimitive {
		t.Fatalf("innermost element kind = %v, want KPrimitive", inner.Elem().Kind())
	}
}

func TestParseIfElseLowersToCondBr(t *testing.T) {
	ctx, tu := parseSrc(t, "int f(int x) { if (x) return 1; else return 2; }")
	if ctx.Diags.HasErrors() {
		t.Fatalf("unexpected parse errors")
	}
	fn := tu.Root.Next
	var sawCondBr bool
	for s := fn.FuncBody; s != nil; s = s.Next {
		if s.Kind == SCondBr {
			sawCondBr = true
		}
	}
	if !sawCondBr {
		t.Fatalf("if/else did not lower to any SCondBr statement")
	}
}

func TestDesignatedInitializerReordersAndZeroFills(t *testing.T) {
	ctx, tu := parseSrc(t, `struct P { int a; int b; int c; };
	struct P p = {.b=2, .a=1};`)
	if ctx.Diags.HasErrors() {
		t.Fatalf("unexpected parse errors")
	}
	decl := tu.Root.Next // the struct-tag-only declaration produces no Stmt
	if decl == nil || decl.Kind != SVarDecl || len(decl.Decls) != 1 {
		t.Fatalf("expected a single var decl, got %v", decl)
	}
	init := decl.Decls[0].Init
	if init == nil || init.Kind != EInitList {
		t.Fatalf("expected an EInitList initializer, got %v", init)
	}
	if len(init.Elems) != 3 {
		t.Fatalf("expected 3 elements in declaration order, got %d", len(init.Elems))
	}
	want := []int64{1, 2, 0}
	for i, el := range init.Elems {
		if el.Value == nil || el.Value.Kind != EConst || el.Value.Const.IntVal != want[i] {
			t.Fatalf("field %d = %v, want %d", i, el.Value, want[i])
		}
	}
}

func TestArrayInitializerWithDesignatorsFillsGaps(t *testing.T) {
	ctx, tu := parseSrc(t, "int a[4] = {[2] = 9, 1};")
	if ctx.Diags.HasErrors() {
		t.Fatalf("unexpected parse errors")
	}
	decl := tu.Root.Next
	init := decl.Decls[0].Init
	if init == nil || init.Kind != EInitList || len(init.Elems) != 4 {
		t.Fatalf("expected a 4-element EInitList, got %v", init)
	}
	want := []int64{0, 0, 9, 1}
	for i, el := range init.Elems {
		if el.Value == nil || el.Value.Kind != EConst || el.Value.Const.IntVal != want[i] {
			t.Fatalf("element %d = %v, want %d", i, el.Value, want[i])
		}
	}
}

func TestParseSwitchLowersToCascade(t *testing.T) {
	ctx, tu := parseSrc(t, `int f(int x) {
		switch (x) {
		case 1: return 10;
		case 2: return 20;
		default: return 0;
		}
	}`)
	if ctx.Diags.HasErrors() {
		t.Fatalf("unexpected parse errors")
	}
	fn := tu.Root.Next
	var condBrCount int
	for s := fn.FuncBody; s != nil; s = s.Next {
		if s.Kind == SCondBr {
			condBrCount++
		}
	}
	if condBrCount < 2 {
		t.Fatalf("expected at least 2 SCondBr comparisons for a 2-case switch, got %d", condBrCount)
	}
}
