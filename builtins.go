// Copyright 2024 The CC Frontend Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cc

// BuiltinRegistry resolves `__builtin_*` identifiers to a call
// signature. spec.md §9's Open Questions defer the exact registry
// contents to the driver; the core only needs the shape of the seam
// so a driver can plug in a target's builtin table without the core
// growing a dependency on any particular backend.
type BuiltinRegistry interface {
	// Lookup returns the function type a builtin named name should be
	// treated as having, and whether name is recognized at all.
	Lookup(name string) (sig *Type, ok bool)
}

// nopBuiltinRegistry is installed when no registry is supplied: every
// `__builtin_*` call falls back to the pre-C99 "implicitly declared
// function returning int" behavior, with a warning rather than a hard
// failure (spec.md §12.4).
type nopBuiltinRegistry struct{}

func (nopBuiltinRegistry) Lookup(name string) (*Type, bool) { return nil, false }

var defaultBuiltinRegistry BuiltinRegistry = nopBuiltinRegistry{}
