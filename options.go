// Copyright 2024 The CC Frontend Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cc

// Options bundles every knob the core honors (spec.md §6): nothing
// here reaches into CLI parsing, environment variables, or persisted
// state — that is the driver's job, not the core's.
type Options struct {
	// Trigraphs enables C89 trigraph replacement during translation
	// phase 1.
	Trigraphs bool

	// IncludePathsUser / IncludePathsSystem are searched in order for
	// #include "..." / #include <...>, per SourceManager.SearchInclude.
	IncludePathsUser   []string
	IncludePathsSystem []string

	// Predefines lists `name[=value]` entries installed into the macro
	// table before the first token is lexed.
	Predefines []string

	// ErrorLimit caps the number of error-or-higher diagnostics the
	// DiagEngine will forward before suppressing the rest; 0 means
	// unlimited.
	ErrorLimit int

	// PredefineBundle, when non-nil, is a PKCS7-signed bundle of
	// additional predefined macros (see signedbundle.go); it is
	// verified and merged into Predefines before compilation starts.
	PredefineBundle []byte
	PredefineBundleTrust []byte // DER-encoded trusted certificate, or nil
}
