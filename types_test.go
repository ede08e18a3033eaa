// Copyright 2024 The CC Frontend Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cc

import "testing"

func newTestTypeContext(t *testing.T) *TypeContext {
	t.Helper()
	ctx := NewCompilationContext(&Options{}, nil)
	return ctx.Types
}

func TestPrimitiveCanonicalization(t *testing.T) {
	tests := []struct {
		name   string
		build  func(tc *TypeContext) *Type
	}{
		{"int", func(tc *TypeContext) *Type { return tc.Integer(IKInt, true) }},
		{"unsigned int", func(tc *TypeContext) *Type { return tc.Integer(IKInt, false) }},
		{"double", func(tc *TypeContext) *Type { return tc.Float(FKDouble) }},
		{"void", func(tc *TypeContext) *Type { return tc.Void() }},
	}
	tc := newTestTypeContext(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := tt.build(tc)
			b := tt.build(tc)
			if a != b {
				t.Fatalf("primitive %q was not canonicalized: got two distinct *Type", tt.name)
			}
		})
	}
}

func TestPointerArrayFunctionAreUncached(t *testing.T) {
	tc := newTestTypeContext(t)
	i := tc.Integer(IKInt, true)

	p1 := tc.Pointer(i)
	p2 := tc.Pointer(i)
	if p1 == p2 {
		t.Fatalf("Pointer(int) was unexpectedly canonicalized across calls")
	}
	if p1.Kind() != KPointer || p1.Pointee() != i {
		t.Fatalf("Pointer(int) has wrong shape: kind=%v pointee=%v", p1.Kind(), p1.Pointee())
	}

	a1 := tc.Array(i, 3, true, nil)
	a2 := tc.Array(i, 3, true, nil)
	if a1 == a2 {
		t.Fatalf("Array(int,3) was unexpectedly canonicalized across calls")
	}

	f1 := tc.Function(i, nil, false)
	f2 := tc.Function(i, nil, false)
	if f1 == f2 {
		t.Fatalf("Function(int) was unexpectedly canonicalized across calls")
	}
}

func TestWithQualPreservesKind(t *testing.T) {
	tc := newTestTypeContext(t)
	i := tc.Integer(IKInt, true)
	c := WithQual(i, QConst)
	if c.Kind() != KPrimitive {
		t.Fatalf("WithQual changed Kind: got %v", c.Kind())
	}
	if c.tag&QConst == 0 {
		t.Fatalf("WithQual(QConst) did not set the qualifier bit")
	}
}

func TestTypeStringRoundTripShape(t *testing.T) {
	tests := []struct {
		name string
		t    func(tc *TypeContext) *Type
		want string
	}{
		{"int", func(tc *TypeContext) *Type { return tc.Integer(IKInt, true) }, "int"},
		{"unsigned int", func(tc *TypeContext) *Type { return tc.Integer(IKInt, false) }, "unsigned int"},
		{"double", func(tc *TypeContext) *Type { return tc.Float(FKDouble) }, "double"},
		{"pointer to int", func(tc *TypeContext) *Type { return tc.Pointer(tc.Integer(IKInt, true)) }, "int *"},
	}
	tc := newTestTypeContext(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TypeString(tt.t(tc))
			if got != tt.want {
				t.Fatalf("TypeString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIntegerPromote(t *testing.T) {
	tc := newTestTypeContext(t)
	ch := tc.Integer(IKChar, true)
	promoted := tc.IntegerPromote(ch)
	if promoted.Kind() != KPrimitive || promoted != tc.Integer(IKInt, true) {
		t.Fatalf("IntegerPromote(char) did not yield canonical int")
	}
	i := tc.Integer(IKInt, true)
	if tc.IntegerPromote(i) != i {
		t.Fatalf("IntegerPromote(int) should be a no-op")
	}
}
