// Copyright 2024 The CC Frontend Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cc

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"

	mmap "github.com/edsrzf/mmap-go"
)

// streamKind discriminates the three character-stream backings the
// Source Manager accepts.
type streamKind uint8

const (
	streamFile streamKind = iota
	streamString
	streamStdin
)

// sourceStream is one entry in the include stack: a named byte buffer
// plus the scanning cursor (byte offset, line, column) phase 1-3
// translation works from.
type sourceStream struct {
	kind streamKind
	name string
	fid  int32 // index into SourceManager.files

	data mmap.MMap // non-nil only for streamFile; unmapped on pop
	f    *os.File
	buf  []byte // raw bytes for streamString/streamStdin, or a copy for stdin lines

	pos  int
	line int
	col  int

	// pushback supports one character of lookahead beyond the normal
	// translation-phase pipeline (used by the trigraph/splice scanner).
	// This is nextRaw's own internal lookahead slot — bytes it
	// provisionally consumed deciding a trigraph/splice/CRLF match and
	// is re-queuing for its own next rawByte() call.
	havePushback bool
	pushback     byte

	// transPushback is Peek's one-deep queue of an already-translated
	// (phase-3) byte, entirely separate from the raw slot above: Peek
	// is called mid-scan (e.g. scanQuoted's Peek-then-Next per
	// character), and nextRaw may itself have bytes staged in
	// pushback at that exact moment (e.g. after an escaped backslash
	// not followed by a newline). Sharing one slot between the two
	// would let Peek's queue stomp nextRaw's, silently dropping a byte.
	haveTransPushback bool
	transPushback     byte

	// pendingErr records a translation-phase-3 error (unterminated
	// comment) observed by Next, drained by PendingError.
	pendingErr error
}

// fileRecord is the permanent, never-popped record of a stream: its
// name and its captured content, kept after the stream itself is
// popped so Decode can still render source lines and "included from"
// chains for tokens that were minted while it was active.
type fileRecord struct {
	name string
	// content is the raw (pre phase 1-3) byte content, used only to
	// recover source lines for diagnostic rendering.
	content []byte
	// lineStarts is filled lazily: the byte offset of each line's start
	// within content, used to map a (line) back to source text quickly.
	lineStarts []int
}

func (fr *fileRecord) ensureLineStarts() {
	if fr.lineStarts != nil {
		return
	}
	fr.lineStarts = []int{0}
	for i, b := range fr.content {
		if b == '\n' {
			fr.lineStarts = append(fr.lineStarts, i+1)
		}
	}
}

func (fr *fileRecord) sourceLine(line int) string {
	fr.ensureLineStarts()
	if line < 1 || line > len(fr.lineStarts) {
		return ""
	}
	start := fr.lineStarts[line-1]
	end := len(fr.content)
	if line < len(fr.lineStarts) {
		end = fr.lineStarts[line]
	}
	text := fr.content[start:end]
	text = bytes.TrimRight(text, "\n")
	text = bytes.TrimRight(text, "\r")
	return string(text)
}

// locEntry is the materialized position behind one minted Location.
type locEntry struct {
	fid      int32
	line     int32
	col      int32
	expIndex int32 // index into SourceManager.expansions, or -1
}

// SourceManager provides a single character-at-a-time stream with
// line/column tracking and an include stack, implementing translation
// phases 1–3 (line splicing, optional trigraphs, comment elision).
type SourceManager struct {
	opts *Options

	stack []*sourceStream
	files []*fileRecord

	entries    []locEntry
	expansions []expansionNode
	// expStack mirrors the live begin_*/end_expansion nesting so
	// end_expansion can restore the previous "current expansion" index.
	expStack  []int32
	curExpand int32 // -1 when no expansion/include context is active
}

// NewSourceManager returns an empty Source Manager. opts controls
// trigraph handling and include search paths; a nil opts uses defaults.
func NewSourceManager(opts *Options) *SourceManager {
	if opts == nil {
		opts = &Options{}
	}
	return &SourceManager{opts: opts, curExpand: -1}
}

// AddFile memory-maps path (mirroring the teacher's pe.New, which maps
// the target binary instead of buffering a full read) and pushes it
// onto the include stack.
func (sm *SourceManager) AddFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot open %s: %w", path, err)
	}
	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return fmt.Errorf("cannot map %s: %w", path, err)
	}
	fid := sm.internFile(path, []byte(data))
	st := &sourceStream{kind: streamFile, name: path, fid: fid, data: data, f: f, buf: []byte(data), line: 1, col: 1}
	sm.stack = append(sm.stack, st)
	return nil
}

// AddString pushes an in-memory buffer named name (a macro expansion, a
// -D command line definition, a REPL line, ...) onto the include stack.
func (sm *SourceManager) AddString(text, name string) {
	b := []byte(text)
	fid := sm.internFile(name, b)
	st := &sourceStream{kind: streamString, name: name, fid: fid, buf: b, line: 1, col: 1}
	sm.stack = append(sm.stack, st)
}

// AddStdin pushes the process's stdin as a line-buffered stream.
func (sm *SourceManager) AddStdin() error {
	fid := sm.internFile("<stdin>", nil)
	st := &sourceStream{kind: streamStdin, name: "<stdin>", fid: fid, line: 1, col: 1}
	sm.stack = append(sm.stack, st)
	return nil
}

func (sm *SourceManager) internFile(name string, content []byte) int32 {
	fid := int32(len(sm.files))
	sm.files = append(sm.files, &fileRecord{name: name, content: content})
	return fid
}

// errUnterminatedComment is a pp-error surfaced through Lexer, not
// returned to callers of next/peek directly.
var errUnterminatedComment = errors.New("unterminated comment")

// rawByte reads one untranslated byte from the top stream, reading more
// from stdin on demand; returns (0, false) at the stream's end.
func (st *sourceStream) rawByte() (byte, bool) {
	if st.havePushback {
		st.havePushback = false
		return st.pushback, true
	}
	if st.kind == streamStdin {
		if st.pos >= len(st.buf) {
			line, err := readStdinLine()
			if err != nil || line == "" && err != nil {
				return 0, false
			}
			st.buf = append(st.buf, line...)
		}
	}
	if st.pos >= len(st.buf) {
		return 0, false
	}
	b := st.buf[st.pos]
	st.pos++
	return b, true
}

func (st *sourceStream) unread(b byte) {
	st.havePushback = true
	st.pushback = b
}

// readStdinLine is overridable in tests; production reads os.Stdin.
var readStdinLine = func() (string, error) {
	var buf [4096]byte
	n, err := os.Stdin.Read(buf[:])
	return string(buf[:n]), err
}

// nextRaw returns the next phase-1/phase-2-translated byte: trigraphs
// (if enabled) are folded, \r\n and \r are normalized to \n, and a
// line-continuation backslash-newline is spliced away. It does not
// perform comment elision; that happens one level up in next() because
// a spliced comment terminator must still be visible across splices.
func (sm *SourceManager) nextRaw(st *sourceStream) (byte, bool) {
again:
	b, ok := st.rawByte()
	if !ok {
		return 0, false
	}
	if b == '\r' {
		if nb, ok2 := st.rawByte(); ok2 && nb != '\n' {
			st.unread(nb)
		}
		b = '\n'
	}
	if sm.opts.Trigraphs && b == '?' {
		if b2, ok2 := st.rawByte(); ok2 {
			if b2 == '?' {
				if b3, ok3 := st.rawByte(); ok3 {
					if repl, known := trigraphTable[b3]; known {
						b = repl
					} else {
						st.unread(b3)
						st.unread(b2)
					}
				} else {
					st.unread(b2)
				}
			} else {
				st.unread(b2)
			}
		}
	}
	if b == '\\' {
		nb, ok2 := st.rawByte()
		if ok2 && nb == '\n' {
			st.line++
			st.col = 1
			goto again
		}
		if ok2 {
			st.unread(nb)
		}
	}
	if b == '\n' {
		st.line++
		st.col = 1
	} else {
		st.col++
	}
	return b, true
}

var trigraphTable = map[byte]byte{
	'=': '#', '/': '\\', '\'': '^', '(': '[', ')': ']',
	'!': '|', '<': '{', '>': '}', '-': '~',
}

// Peek returns the next translated character without consuming it,
// queuing it on the current stream's transPushback slot (distinct from
// nextRaw's own internal pushback slot, which Peek must never disturb).
func (sm *SourceManager) Peek() (byte, bool) {
	if st := sm.top(); st != nil && st.haveTransPushback {
		return st.transPushback, true
	}
	b, ok := sm.Next()
	if !ok {
		return 0, false
	}
	if st := sm.top(); st != nil {
		st.haveTransPushback = true
		st.transPushback = b
	}
	return b, true
}

func (sm *SourceManager) top() *sourceStream {
	if len(sm.stack) == 0 {
		return nil
	}
	return sm.stack[len(sm.stack)-1]
}

// Next reads the next translation-phase-3 character: comments are
// elided to a single space, phase-1/2 splicing already applied. It
// transparently pops exhausted streams and continues from the parent,
// returning (0, false) only once the whole include stack is empty.
func (sm *SourceManager) Next() (byte, bool) {
	for {
		st := sm.top()
		if st == nil {
			return 0, false
		}
		if st.haveTransPushback {
			st.haveTransPushback = false
			return st.transPushback, true
		}
		b, ok := sm.nextRaw(st)
		if !ok {
			sm.popStream()
			continue
		}
		if b == '/' {
			nb, ok2 := sm.nextRaw(st)
			if ok2 && nb == '/' {
				for {
					cb, ok3 := sm.nextRaw(st)
					if !ok3 || cb == '\n' {
						if ok3 {
							st.unread(cb)
						}
						break
					}
				}
				return ' ', true
			}
			if ok2 && nb == '*' {
				startLine := st.line
				closed := false
				for {
					cb, ok3 := sm.nextRaw(st)
					if !ok3 {
						break
					}
					if cb == '*' {
						cb2, ok4 := sm.nextRaw(st)
						if ok4 && cb2 == '/' {
							closed = true
							break
						}
						if ok4 {
							st.unread(cb2)
						}
					}
				}
				_ = startLine
				if !closed {
					// Surfaced by the Lexer via UnterminatedComment.
					st.pendingErr = errUnterminatedComment
				}
				return ' ', true
			}
			if ok2 {
				st.unread(nb)
			}
		}
		return b, true
	}
}

func (sm *SourceManager) popStream() {
	st := sm.stack[len(sm.stack)-1]
	sm.stack = sm.stack[:len(sm.stack)-1]
	if st.data != nil {
		_ = st.data.Unmap()
	}
	if st.f != nil {
		_ = st.f.Close()
	}
}

// PendingError drains and clears the most recent translation-phase
// error (e.g. an unterminated comment) observed on the current stream.
func (sm *SourceManager) PendingError() error {
	st := sm.top()
	if st == nil || st.pendingErr == nil {
		return nil
	}
	err := st.pendingErr
	st.pendingErr = nil
	return err
}

// GetLocation mints a fresh Location for the current stream position,
// tagged with whatever expansion/include context is presently active.
func (sm *SourceManager) GetLocation() Location {
	st := sm.top()
	if st == nil {
		return NoLocation
	}
	sm.entries = append(sm.entries, locEntry{fid: st.fid, line: int32(st.line), col: int32(st.col), expIndex: sm.curExpand})
	return Location(len(sm.entries))
}

// BeginMacroExpansion pushes a macro-expansion context: tokens minted
// while it is active carry def's name in their LocationTree chain back
// to callSite.
func (sm *SourceManager) BeginMacroExpansion(name string, callSite Location) {
	sm.expansions = append(sm.expansions, expansionNode{kind: ExpansionMacro, site: callSite, name: name, parent: sm.curExpand})
	sm.expStack = append(sm.expStack, sm.curExpand)
	sm.curExpand = int32(len(sm.expansions) - 1)
}

// BeginInclude pushes an include context: tokens minted while it is
// active chain back to the #include directive's location.
func (sm *SourceManager) BeginInclude(includeSite Location) {
	sm.expansions = append(sm.expansions, expansionNode{kind: ExpansionInclude, site: includeSite, parent: sm.curExpand})
	sm.expStack = append(sm.expStack, sm.curExpand)
	sm.curExpand = int32(len(sm.expansions) - 1)
}

// EndExpansion pops the most recently pushed macro/include context.
func (sm *SourceManager) EndExpansion() {
	if len(sm.expStack) == 0 {
		return
	}
	sm.curExpand = sm.expStack[len(sm.expStack)-1]
	sm.expStack = sm.expStack[:len(sm.expStack)-1]
}

// SetLine implements #line: it rewrites the current stream's line
// counter and, if name != "", its reported file name.
func (sm *SourceManager) SetLine(line int, name string) {
	st := sm.top()
	if st == nil {
		return
	}
	st.line = line
	if name != "" {
		st.name = name
		fid := sm.internFile(name, sm.files[st.fid].content)
		st.fid = fid
	}
}

// CurrentFile reports the name of the innermost active stream.
func (sm *SourceManager) CurrentFile() string {
	if st := sm.top(); st != nil {
		return st.name
	}
	return ""
}

// CurrentLine reports the innermost active stream's current line.
func (sm *SourceManager) CurrentLine() int {
	if st := sm.top(); st != nil {
		return st.line
	}
	return 0
}

// AtLogicalLineStart reports whether the current stream position is
// immediately after a newline (used by the lexer to recognize `#`
// directives, which are only meaningful at the start of a logical line).
func (sm *SourceManager) AtLogicalLineStart() bool {
	if st := sm.top(); st != nil {
		return st.col == 1
	}
	return false
}

// Decode expands loc into file/line/column, the source line text, and
// the chain of enclosing macro expansions / #includes.
func (sm *SourceManager) Decode(loc Location) DecodedLocation {
	if loc == NoLocation || int(loc) > len(sm.entries) {
		return DecodedLocation{}
	}
	e := sm.entries[loc-1]
	fr := sm.files[e.fid]
	d := DecodedLocation{
		File:       fr.name,
		Line:       int(e.line),
		Column:     int(e.col),
		SourceLine: fr.sourceLine(int(e.line)),
	}
	idx := e.expIndex
	for idx >= 0 {
		n := sm.expansions[idx]
		d.Chain = append(d.Chain, ExpansionFrame{Kind: n.kind, Name: n.name, Loc: sm.Decode(n.site)})
		idx = n.parent
	}
	return d
}

// SearchInclude resolves path against the configured include
// directories: quoted includes search the user list then the system
// list; angle-bracket includes search the system list then the user
// list. The first hit wins.
func (sm *SourceManager) SearchInclude(path string, isAngled bool) (string, bool) {
	try := func(dirs []string) (string, bool) {
		for _, d := range dirs {
			candidate := d + "/" + path
			if fi, err := os.Stat(candidate); err == nil && !fi.IsDir() {
				return candidate, true
			}
		}
		return "", false
	}
	if !isAngled {
		if full, ok := try(sm.opts.IncludePathsUser); ok {
			return full, true
		}
		return try(sm.opts.IncludePathsSystem)
	}
	if full, ok := try(sm.opts.IncludePathsSystem); ok {
		return full, true
	}
	return try(sm.opts.IncludePathsUser)
}

// sortedFileNames is a debugging helper returning every interned file
// name in sorted order.
func (sm *SourceManager) sortedFileNames() []string {
	names := make([]string, len(sm.files))
	for i, f := range sm.files {
		names[i] = f.name
	}
	sort.Strings(names)
	return names
}
