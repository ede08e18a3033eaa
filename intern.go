// Copyright 2024 The CC Frontend Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cc

// TokenClass tags what an interned identifier means to the lexer and
// parser: a plain identifier, a keyword (with its specific keyword
// kind folded in), or a recognized built-in macro name.
type TokenClass uint16

const (
	ClassIdent TokenClass = iota
	ClassKeyword
	ClassBuiltinMacro
)

// IdentHandle is a stable pointer to an entry in the identifier table.
// Two identifiers compare equal iff their handles are equal; the handle
// remains valid for the lifetime of the Arena it was interned into.
type IdentHandle = *identEntry

type identEntry struct {
	text  string
	class TokenClass
	// kw is the keyword token kind when class == ClassKeyword.
	kw TokenKind
	// builtin is the builtin-macro kind when class == ClassBuiltinMacro.
	builtin BuiltinMacroKind
}

// Text returns the identifier's spelling.
func (h IdentHandle) Text() string { return h.text }

// Class reports what kind of name h is.
func (h IdentHandle) Class() TokenClass { return h.class }

// Keyword returns the keyword token kind h names, or (0, false) if h is
// not a keyword.
func (h IdentHandle) Keyword() (TokenKind, bool) {
	if h.class == ClassKeyword {
		return h.kw, true
	}
	return 0, false
}

// BuiltinMacroKind identifies one of the lexer's magic macros (__FILE__,
// __LINE__, ...) that materialize fresh tokens at the use site instead
// of expanding a stored replacement list.
type BuiltinMacroKind uint8

const (
	BuiltinNone BuiltinMacroKind = iota
	BuiltinFILE
	BuiltinLINE
	BuiltinDATE
	BuiltinTIME
	BuiltinCOUNTER
	BuiltinFUNC
	BuiltinPragma
)

// Interner maps identifier text to a stable IdentHandle. The zero value
// is not usable; construct with NewInterner.
type Interner struct {
	arena   *Arena
	entries map[string]IdentHandle
}

// NewInterner returns an interner that allocates entries from arena and
// pre-populates the keyword and builtin-macro tables.
func NewInterner(arena *Arena) *Interner {
	in := &Interner{arena: arena, entries: make(map[string]IdentHandle, 512)}
	for text, kind := range keywordTable {
		e := allocType[identEntry](arena)
		e.text = arena.AllocString(text)
		e.class = ClassKeyword
		e.kw = kind
		in.entries[text] = e
	}
	for text, kind := range builtinMacroTable {
		if existing, ok := in.entries[text]; ok {
			existing.class = ClassBuiltinMacro
			existing.builtin = kind
			continue
		}
		e := allocType[identEntry](arena)
		e.text = arena.AllocString(text)
		e.class = ClassBuiltinMacro
		e.builtin = kind
		in.entries[text] = e
	}
	return in
}

// Intern returns the stable handle for text, inserting a fresh
// ClassIdent entry on first sight.
func (in *Interner) Intern(text string) IdentHandle {
	if h, ok := in.entries[text]; ok {
		return h
	}
	e := allocType[identEntry](in.arena)
	e.text = in.arena.AllocString(text)
	e.class = ClassIdent
	in.entries[text] = e
	return e
}

// Lookup returns the handle for text without inserting it.
func (in *Interner) Lookup(text string) (IdentHandle, bool) {
	h, ok := in.entries[text]
	return h, ok
}

// Len reports the number of distinct identifiers interned so far
// (including keywords and builtin macros).
func (in *Interner) Len() int { return len(in.entries) }
