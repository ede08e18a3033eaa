// Copyright 2024 The CC Frontend Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cc

// FuncBuilder is the IR Builder of spec.md §4.8: the parser and the IR
// builder share the same node types (§3), so "emitting" IR is simply
// appending to the current function's statement chain at the tracked
// insertion point. FuncBuilder also owns the reachability flag that
// InsertStmt consults to drop statements control cannot reach.
type FuncBuilder struct {
	arena  *Arena
	Labels *LabelScope

	head *Stmt // the function body's own head sentinel
	tail *Stmt // current insertion point

	// Reachable mirrors spec.md §4.6's `sreachable`: false once a
	// terminator statement has been inserted, true again at a label or
	// at function-body entry.
	Reachable bool

	unreachableWarned bool
}

// NewFuncBuilder begins a fresh function body.
func NewFuncBuilder(arena *Arena, labels *LabelScope) *FuncBuilder {
	h := NewHead(arena)
	return &FuncBuilder{arena: arena, Labels: labels, head: h, tail: h, Reachable: true}
}

// Head returns the function body's statement chain head (the
// sentinel itself; the first real statement is Head().Next).
func (fb *FuncBuilder) Head() *Stmt { return fb.head }

// InsertStmt appends s after the current insertion point, per
// spec.md §4.8: "if the point is unreachable, either drop s (if it
// has no observable target) or emit it as the first statement of the
// next label" — here, an SLabeled statement always resets
// Reachable first via InsertLabel, so by the time a non-label
// statement reaches InsertStmt the unreachable/droppable decision is
// already final.
func (fb *FuncBuilder) InsertStmt(s *Stmt) {
	if !fb.Reachable {
		if !hasObservableTarget(s) {
			fb.warnUnreachableOnce(s.Loc)
			return
		}
	}
	fb.link(s)
}

// hasObservableTarget reports whether dropping s silently would be
// observably wrong: a nested function definition or a label-bearing
// statement must still be linked in even when control cannot fall
// into it, because later code may reference it.
func hasObservableTarget(s *Stmt) bool {
	switch s.Kind {
	case SFuncDef, SLabeled:
		return true
	}
	return false
}

func (fb *FuncBuilder) warnUnreachableOnce(loc Location) {
	// Only records that a statement of this dead region was dropped. No
	// diagnostic is reported, here or by the parser, which does not call
	// UnreachableAlreadyWarned; a dropped statement goes unreported.
	fb.unreachableWarned = true
}

// UnreachableAlreadyWarned reports whether the current dead region has
// already produced its one warning.
func (fb *FuncBuilder) UnreachableAlreadyWarned() bool { return fb.unreachableWarned }

func (fb *FuncBuilder) link(s *Stmt) {
	fb.tail.Next = s
	fb.tail = s
}

// InsertLabel marks L as defined at the current position and resets
// Reachable to true, per spec.md §4.8.
func (fb *FuncBuilder) InsertLabel(l *Label) {
	s := allocType[Stmt](fb.arena)
	s.Kind = SLabeled
	s.Lbl = l
	fb.link(s)
	l.Defined = true
	l.Target = s
	fb.Reachable = true
	fb.unreachableWarned = false
}

// InsertBr appends an unconditional goto to l and marks the insertion
// point unreachable.
func (fb *FuncBuilder) InsertBr(l *Label) {
	s := allocType[Stmt](fb.arena)
	s.Kind = SGoto
	s.Target = l
	fb.link(s)
	fb.Reachable = false
}

// InsertCondBr appends a conditional branch terminator and marks the
// insertion point unreachable.
func (fb *FuncBuilder) InsertCondBr(cond *Expr, trueLbl, falseLbl *Label) {
	s := allocType[Stmt](fb.arena)
	s.Kind = SCondBr
	s.Cond = cond
	s.TrueLbl = trueLbl
	s.FalseLbl = falseLbl
	fb.link(s)
	fb.Reachable = false
}

// CreateLabel allocates a fresh, unnamed label for compiler-generated
// control flow (loop heads, if/else join points, and so on).
func (fb *FuncBuilder) CreateLabel() *Label {
	return fb.Labels.Create(nil)
}
