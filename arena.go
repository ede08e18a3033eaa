// Copyright 2024 The CC Frontend Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cc

import "unsafe"

// blockSize is the minimum size of an arena block — comfortably larger
// than any single Expr, Stmt, or Type node the parser allocates.
const blockSize = 8 << 10 // 8 KiB

// maxAlign is the alignment every arena allocation honors, matching
// alignof(max_align_t) on every platform this front-end targets.
const maxAlign = unsafe.Alignof(struct {
	a uint64
	b float64
	c unsafe.Pointer
}{})

// arenaBlock is one linear-allocation slab.
type arenaBlock struct {
	buf  []byte
	used int
}

// Arena is a bump-pointer allocator whose contents are freed as a unit.
// It backs every AST, Type, and long-lived string allocation for one
// translation unit. Individual allocations are never freed; the arena
// itself is simply dropped (garbage-collected) when the translation
// unit is discarded.
type Arena struct {
	blocks []*arenaBlock
	cur    *arenaBlock
	// total tracks bytes handed out, for diagnostics/telemetry only.
	total int
}

// NewArena returns an empty arena. The first block is allocated lazily
// on first use.
func NewArena() *Arena {
	return &Arena{}
}

func (a *Arena) newBlock(want int) *arenaBlock {
	size := blockSize
	if want > size {
		size = want
	}
	b := &arenaBlock{buf: make([]byte, size)}
	a.blocks = append(a.blocks, b)
	a.cur = b
	return b
}

func alignUp(n int, align int) int {
	return (n + align - 1) &^ (align - 1)
}

// alloc returns size bytes aligned to align, zero-initialized.
func (a *Arena) alloc(size int, align int) unsafe.Pointer {
	if align < 1 {
		align = int(maxAlign)
	}
	b := a.cur
	if b == nil {
		b = a.newBlock(size + align)
	}
	off := alignUp(b.used, align)
	if off+size > len(b.buf) {
		b = a.newBlock(size + align)
		off = alignUp(b.used, align)
	}
	b.used = off + size
	a.total += size
	return unsafe.Pointer(&b.buf[off])
}

// AllocBytes returns an uninitialized []byte of length n carved from the
// arena. The slice is never resized by the caller beyond n.
func (a *Arena) AllocBytes(n int) []byte {
	if n == 0 {
		return nil
	}
	p := a.alloc(n, 1)
	return unsafe.Slice((*byte)(p), n)
}

// AllocString copies s into arena-owned storage and returns a string
// header over it, so the arena — not the GC root set of the original
// buffer — keeps the bytes alive.
func (a *Arena) AllocString(s string) string {
	if s == "" {
		return ""
	}
	b := a.AllocBytes(len(s))
	copy(b, s)
	return unsafe.String(&b[0], len(b))
}

// Bytes reports the number of bytes the arena has handed out so far.
func (a *Arena) Bytes() int { return a.total }

// allocType is a generic single-value allocation helper used throughout
// the package to carve one node of type T from the arena.
func allocType[T any](a *Arena) *T {
	var zero T
	size := int(unsafe.Sizeof(zero))
	align := int(unsafe.Alignof(zero))
	p := a.alloc(size, align)
	return (*T)(p)
}

// allocSlice carves a slice of n zero-valued T from the arena.
func allocSlice[T any](a *Arena, n int) []T {
	if n == 0 {
		return nil
	}
	var zero T
	size := int(unsafe.Sizeof(zero)) * n
	align := int(unsafe.Alignof(zero))
	p := a.alloc(size, align)
	return unsafe.Slice((*T)(p), n)
}
