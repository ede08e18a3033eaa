// Copyright 2024 The CC Frontend Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cc

import "github.com/cclang/front/internal/xlog"

// CompilationContext bundles the per-translation-unit state every
// component threads through: the arena every AST/Type/string
// allocation comes from, the identifier interner, the source manager,
// the diagnostic engine, the type canonicalization table, and the
// resolved Options. One value is created per translation unit and
// never shared across units (spec.md §5 "process-scoped per
// translation unit").
type CompilationContext struct {
	Arena    *Arena
	Interner *Interner
	Source   *SourceManager
	Diags    *DiagEngine
	Types    *TypeContext
	Options  *Options

	log *xlog.Helper
}

// NewCompilationContext wires up a fresh context ready to drive one
// translation unit through the pipeline.
func NewCompilationContext(opts *Options, logger xlog.Logger) *CompilationContext {
	if opts == nil {
		opts = &Options{}
	}
	helper := xlog.NewNopHelper()
	if logger != nil {
		helper = xlog.NewHelper(logger)
	}
	arena := NewArena()
	sm := NewSourceManager(opts)
	ctx := &CompilationContext{
		Arena:    arena,
		Interner: NewInterner(arena),
		Source:   sm,
		Diags:    NewDiagEngine(sm, opts.ErrorLimit),
		Options:  opts,
		log:      helper,
	}
	ctx.Types = NewTypeContext(ctx)
	return ctx
}

// Errorf is the common-case diagnostic entry point used throughout the
// lexer/parser/sema; it builds and emits a Diagnostic of the given
// severity in one call.
func (ctx *CompilationContext) Errorf(sev Severity, loc Location, format string, args ...diagArg) {
	ctx.Diags.Reportf(sev, loc, format, args...)
}

// Logger exposes the structured ambient logger for components that
// need to trace internal progress independent of user-facing
// diagnostics (e.g. include-resolution tracing, macro-expansion
// tracing under a verbose flag).
func (ctx *CompilationContext) Logger() *xlog.Helper { return ctx.log }
