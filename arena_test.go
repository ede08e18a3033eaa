// Copyright 2024 The CC Frontend Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cc

import "testing"

func TestArenaAllocString(t *testing.T) {
	tests := []struct {
		in  string
		out string
	}{
		{"", ""},
		{"x", "x"},
		{"int main(void) {}", "int main(void) {}"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			a := NewArena()
			got := a.AllocString(tt.in)
			if got != tt.out {
				t.Fatalf("AllocString(%q) = %q, want %q", tt.in, got, tt.out)
			}
		})
	}
}

func TestArenaCrossesBlockBoundary(t *testing.T) {
	a := NewArena()
	var last string
	for i := 0; i < 4096; i++ {
		last = a.AllocString("0123456789abcdef")
	}
	if last != "0123456789abcdef" {
		t.Fatalf("corrupted allocation after many blocks: %q", last)
	}
	if len(a.blocks) < 2 {
		t.Fatalf("expected allocation to span multiple blocks, got %d", len(a.blocks))
	}
}

func TestAllocTypeZeroed(t *testing.T) {
	a := NewArena()
	s := allocType[Stmt](a)
	if s.Kind != SHead {
		t.Fatalf("freshly allocated Stmt.Kind = %v, want zero value SHead", s.Kind)
	}
}

func TestAllocSlice(t *testing.T) {
	a := NewArena()
	s := allocSlice[int](a, 8)
	if len(s) != 8 {
		t.Fatalf("allocSlice returned length %d, want 8", len(s))
	}
	for i := range s {
		s[i] = i
	}
	for i := range s {
		if s[i] != i {
			t.Fatalf("slice element %d = %d, want %d (overlap?)", i, s[i], i)
		}
	}
}
