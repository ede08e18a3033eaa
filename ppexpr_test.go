// Copyright 2024 The CC Frontend Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cc

import "testing"

// lexAllQuiet is lexAll that also fails when any warning was reported.
func lexAllQuiet(t *testing.T, src string) []Token {
	t.Helper()
	ctx := NewCompilationContext(&Options{}, nil)
	ctx.Source.AddString(src, "test.c")
	lex := NewLexer(ctx, ctx.Source)
	var toks []Token
	for tok := lex.Next(); tok.Kind != TEOF; tok = lex.Next() {
		toks = append(toks, tok)
	}
	if ctx.Diags.HasErrors() || ctx.Diags.NumWarnings() != 0 {
		t.Fatalf("unexpected diagnostics for %q", src)
	}
	return toks
}

// TestPPCondTernaryShortCircuits checks spec.md's named #if example:
// the unselected branch of a ?: must never be evaluated, so the 1/0 in
// the else-branch must not raise a division-by-zero warning even
// though it's still parsed to stay in sync with the token buffer.
func TestPPCondTernaryShortCircuits(t *testing.T) {
	src := "#if 1 ? 0 : 1/0\nSELECTED_TRUE\n#else\nSELECTED_FALSE\n#endif\n"
	toks := lexAllQuiet(t, src)
	if len(toks) != 1 || toks[0].Kind != TIdent || toks[0].Ident.Text() != "SELECTED_FALSE" {
		t.Fatalf("expected only SELECTED_FALSE (condition folds to 0), got %v", toks)
	}
}

func TestPPCondTernarySelectsTrueBranchWithoutEvaluatingFalse(t *testing.T) {
	src := "#if 0 ? 1/0 : 1\nSELECTED_TRUE\n#else\nSELECTED_FALSE\n#endif\n"
	toks := lexAllQuiet(t, src)
	if len(toks) != 1 || toks[0].Kind != TIdent || toks[0].Ident.Text() != "SELECTED_TRUE" {
		t.Fatalf("expected only SELECTED_TRUE (condition folds to 1), got %v", toks)
	}
}
