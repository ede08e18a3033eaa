// Copyright 2024 The CC Frontend Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cc

import "testing"

func TestInternerIdentityAndClass(t *testing.T) {
	tests := []struct {
		in        string
		wantClass TokenClass
	}{
		{"foo", ClassIdent},
		{"int", ClassKeyword},
		{"return", ClassKeyword},
		{"__FILE__", ClassBuiltinMacro},
	}
	a := NewArena()
	in := NewInterner(a)
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			h1 := in.Intern(tt.in)
			h2 := in.Intern(tt.in)
			if h1 != h2 {
				t.Fatalf("Intern(%q) returned different handles on repeat calls", tt.in)
			}
			if h1.Text() != tt.in {
				t.Fatalf("Text() = %q, want %q", h1.Text(), tt.in)
			}
			if h1.Class() != tt.wantClass {
				t.Fatalf("Class() = %v, want %v", h1.Class(), tt.wantClass)
			}
		})
	}
}

func TestInternerLookupMiss(t *testing.T) {
	a := NewArena()
	in := NewInterner(a)
	if _, ok := in.Lookup("never_interned"); ok {
		t.Fatalf("Lookup found an entry that was never interned")
	}
	in.Intern("never_interned")
	if _, ok := in.Lookup("never_interned"); !ok {
		t.Fatalf("Lookup missed an entry right after Intern")
	}
}

func TestKeywordRoundTrip(t *testing.T) {
	a := NewArena()
	in := NewInterner(a)
	h := in.Intern("while")
	kind, ok := h.Keyword()
	if !ok {
		t.Fatalf("%q did not resolve as a keyword", "while")
	}
	if kind != KwWhile {
		t.Fatalf("Keyword() = %v, want KwWhile", kind)
	}
}
