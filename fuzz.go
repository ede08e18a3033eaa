// Copyright 2024 The CC Frontend Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cc

// Fuzz drives the whole pipeline (source manager, preprocessor, lexer,
// parser) over an arbitrary byte string the way the teacher's PE fuzz
// harness drove the binary parser over arbitrary file bytes: any panic
// escaping ParseTranslationUnit is a bug, diagnostics are not.
func Fuzz(data []byte) int {
	defer func() { recover() }()

	opts := &Options{ErrorLimit: 200}
	ctx := NewCompilationContext(opts, nil)
	ctx.Source.AddString(string(data), "fuzz.c")
	lex := NewLexer(ctx, ctx.Source)
	tu := ParseTranslationUnit(ctx, lex, nil)
	if tu == nil {
		return 0
	}
	if ctx.Diags.HasErrors() {
		return 0
	}
	return 1
}
