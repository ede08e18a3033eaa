// Copyright 2024 The CC Frontend Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cc

import "testing"

func lexAll(t *testing.T, src string) []Token {
	t.Helper()
	ctx := NewCompilationContext(&Options{}, nil)
	ctx.Source.AddString(src, "test.c")
	lex := NewLexer(ctx, ctx.Source)
	var toks []Token
	for {
		tok := lex.Next()
		if tok.Kind == TEOF {
			break
		}
		toks = append(toks, tok)
	}
	if ctx.Diags.HasErrors() {
		t.Fatalf("unexpected lex errors for %q", src)
	}
	return toks
}

func TestLexerPunctuatorsAndKeywords(t *testing.T) {
	tests := []struct {
		in   string
		kind TokenKind
	}{
		{"int", KwInt},
		{"return", KwReturn},
		{"+", TPlus},
		{"->", TArrow},
		{"<<=", TShlEq},
		{"...", TEllipsis},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			toks := lexAll(t, tt.in)
			if len(toks) != 1 {
				t.Fatalf("lexAll(%q) produced %d tokens, want 1", tt.in, len(toks))
			}
			if toks[0].Kind != tt.kind {
				t.Fatalf("lexAll(%q)[0].Kind = %v, want %v", tt.in, toks[0].Kind, tt.kind)
			}
		})
	}
}

func TestMacroObjectLikeExpansion(t *testing.T) {
	toks := lexAll(t, "#define N 42\nint x = N;")
	var got []TokenKind
	for _, tok := range toks {
		got = append(got, tok.Kind)
	}
	want := []TokenKind{KwInt, TIdent, TAssign, TPPNumber, TSemi}
	if len(got) != len(want) {
		t.Fatalf("token kinds = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestMacroFunctionLikeExpansion(t *testing.T) {
	toks := lexAll(t, "#define ADD(a,b) ((a)+(b))\nADD(1,2)")
	if len(toks) == 0 {
		t.Fatalf("expected expanded tokens, got none")
	}
	if toks[0].Kind != TLParen {
		t.Fatalf("first expanded token = %v, want '('", toks[0].Kind)
	}
}

func TestSelfReferentialMacroDoesNotLoop(t *testing.T) {
	toks := lexAll(t, "#define X X\nX")
	if len(toks) != 1 || toks[0].Kind != TIdent {
		t.Fatalf("self-referential macro should demote to a plain identifier, got %v", toks)
	}
}
