// Copyright 2024 The CC Frontend Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cc

import "strings"

// condState tracks one #if/#ifdef/#ifndef frame's progress through
// the #elif/#else/#endif stack-discipline of spec.md §4.5.
type condState uint8

const (
	condTaking     condState = iota // currently emitting tokens
	condDone                        // a prior branch already matched; skip the rest
	condSkipping                    // condition false so far, still looking for a true #elif
	condElseSeen                    // #else already consumed in this frame
)

type condFrame struct {
	state condState
	loc   Location
}

// handleDirective is called from Lexer.Next immediately after a '#'
// is recognized at the start of a logical line; it consumes the rest
// of the directive line itself and never returns a token directly —
// Next loops back around to fetch whatever follows.
func (l *Lexer) handleDirective() {
	kwTok := l.consumeRawSignificant()
	if kwTok.Kind == TNewline || kwTok.Kind == TEOF {
		return // a lone '#' on its own line is the null directive
	}
	name := ""
	if kwTok.Ident != nil {
		name = kwTok.Ident.Text()
	}
	skipping := l.isSkipping()
	switch name {
	case "define":
		if !skipping {
			l.directiveDefine()
		} else {
			l.skipToEndOfLine()
		}
	case "undef":
		if !skipping {
			l.directiveUndef()
		} else {
			l.skipToEndOfLine()
		}
	case "include":
		if !skipping {
			l.directiveInclude(kwTok.Loc)
		} else {
			l.skipToEndOfLine()
		}
	case "if":
		l.directiveIf(kwTok.Loc, skipping)
	case "ifdef":
		l.directiveIfdef(kwTok.Loc, skipping, false)
	case "ifndef":
		l.directiveIfdef(kwTok.Loc, skipping, true)
	case "elif":
		l.directiveElif(kwTok.Loc)
	case "elifdef":
		l.directiveElifDefHelper(kwTok.Loc, false)
	case "elifndef":
		l.directiveElifDefHelper(kwTok.Loc, true)
	case "else":
		l.directiveElse(kwTok.Loc)
	case "endif":
		l.directiveEndif(kwTok.Loc)
	case "line":
		if !skipping {
			l.directiveLine()
		} else {
			l.skipToEndOfLine()
		}
	case "pragma":
		if !skipping {
			l.directivePragma()
		} else {
			l.skipToEndOfLine()
		}
	case "error":
		if !skipping {
			l.ctx.Errorf(SevPPError, kwTok.Loc, "%s", diagStr(l.restOfLineText()))
		} else {
			l.skipToEndOfLine()
		}
	case "warning":
		if !skipping {
			l.ctx.Errorf(SevWarning, kwTok.Loc, "%s", diagStr(l.restOfLineText()))
		} else {
			l.skipToEndOfLine()
		}
	default:
		if !skipping {
			l.ctx.Errorf(SevPPError, kwTok.Loc, "invalid preprocessing directive")
		}
		l.skipToEndOfLine()
	}
}

func (l *Lexer) isSkipping() bool {
	if len(l.condStack) == 0 {
		return false
	}
	top := l.condStack[len(l.condStack)-1].state
	return top != condTaking
}

func (l *Lexer) skipToEndOfLine() {
	for {
		t := l.rawNext()
		if t.Kind == TNewline || t.Kind == TEOF {
			return
		}
	}
}

func (l *Lexer) restOfLineText() string {
	var sb strings.Builder
	for {
		t := l.rawNext()
		if t.Kind == TNewline || t.Kind == TEOF {
			break
		}
		if t.Kind == TSpace {
			sb.WriteByte(' ')
			continue
		}
		sb.WriteString(spellToken(t))
	}
	return strings.TrimSpace(sb.String())
}

// lineTokens collects every raw token up to (not including) the
// terminating newline/EOF, skipping TSpace, for directives whose
// argument is itself a token sequence (#if, #elif).
func (l *Lexer) lineTokens() []Token {
	var out []Token
	for {
		t := l.rawNext()
		if t.Kind == TNewline || t.Kind == TEOF {
			break
		}
		if t.Kind == TSpace {
			continue
		}
		out = append(out, t)
	}
	return out
}

// --- #define / #undef ----------------------------------------------------

func (l *Lexer) directiveDefine() {
	nameTok := l.consumeRawSignificant()
	if nameTok.Kind != TIdent {
		l.ctx.Errorf(SevPPError, nameTok.Loc, "macro name must be an identifier")
		l.skipToEndOfLine()
		return
	}
	m := &Macro{Name: nameTok.Ident}
	if b, ok := l.sm.Peek(); ok && b == '(' {
		l.sm.Next()
		m.FunctionLike = true
		l.parseMacroParams(m)
	}
	m.Body = l.stripTrailingSpace(l.lineTokensRaw())
	if n := len(m.Body); n > 0 {
		if m.Body[0].Kind == THashHash || m.Body[n-1].Kind == THashHash {
			l.ctx.Errorf(SevPPError, nameTok.Loc, "'##' cannot appear at either end of a macro expansion")
		}
	}
	l.macros[nameTok.Ident] = m
}

// lineTokensRaw is lineTokens but preserving a leading-space marker on
// each token (needed for faithful # stringizing of macro bodies).
func (l *Lexer) lineTokensRaw() []Token {
	var out []Token
	spacePending := false
	for {
		t := l.rawNext()
		if t.Kind == TNewline || t.Kind == TEOF {
			break
		}
		if t.Kind == TSpace {
			spacePending = true
			continue
		}
		t.SpaceBefore = spacePending
		spacePending = false
		out = append(out, t)
	}
	return out
}

func (l *Lexer) stripTrailingSpace(toks []Token) []Token {
	return toks // TSpace tokens are already elided by lineTokensRaw; kept as a named step for spec fidelity.
}

func (l *Lexer) parseMacroParams(m *Macro) {
	for {
		t := l.consumeRawSignificant()
		switch t.Kind {
		case TRParen:
			return
		case TEllipsis:
			m.Variadic = true
		case TIdent:
			if t.Ident != nil && t.Ident.Text() == "__VA_ARGS__" {
				m.Variadic = true
			} else {
				m.Params = append(m.Params, t.Ident)
			}
		case TComma:
			continue
		default:
			l.ctx.Errorf(SevPPError, t.Loc, "expected parameter name or ')' in macro parameter list")
			return
		}
	}
}

func (l *Lexer) directiveUndef() {
	nameTok := l.consumeRawSignificant()
	if nameTok.Kind != TIdent {
		l.ctx.Errorf(SevPPError, nameTok.Loc, "macro name must be an identifier")
	} else {
		delete(l.macros, nameTok.Ident)
	}
	l.skipToEndOfLine()
}

// --- #include --------------------------------------------------------------

func (l *Lexer) directiveInclude(loc Location) {
	path, angled, ok := l.scanHeaderName()
	l.skipToEndOfLine()
	if !ok {
		l.ctx.Errorf(SevPPError, loc, "expected \"FILENAME\" or <FILENAME>")
		return
	}
	full, found := l.sm.SearchInclude(path, angled)
	if !found {
		l.ctx.Errorf(SevPPError, loc, "'%s' file not found", diagStr(path))
		return
	}
	l.sm.BeginInclude(loc)
	if err := l.sm.AddFile(full); err != nil {
		l.ctx.Errorf(SevPPError, loc, "cannot open '%s': %s", diagStr(full), diagStr(err.Error()))
		l.sm.EndExpansion()
	}
	l.atLineStart = true
}

// scanHeaderName reads a `"path"` or `<path>` header-name directly off
// the character stream (header names are not pp-tokens: `/` and other
// punctuation inside them are literal).
func (l *Lexer) scanHeaderName() (path string, angled bool, ok bool) {
	for {
		b, present := l.sm.Peek()
		if !present || b == '\n' {
			return "", false, false
		}
		if !isSpace(b) {
			break
		}
		l.sm.Next()
	}
	open, present := l.sm.Peek()
	if !present || (open != '"' && open != '<') {
		return "", false, false
	}
	l.sm.Next()
	close := byte('"')
	angled = open == '<'
	if angled {
		close = '>'
	}
	var sb strings.Builder
	for {
		b, present := l.sm.Next()
		if !present || b == '\n' {
			return "", false, false
		}
		if b == close {
			return sb.String(), angled, true
		}
		sb.WriteByte(b)
	}
}

// --- #line -------------------------------------------------------------

func (l *Lexer) directiveLine() {
	toks := l.lineTokens()
	if len(toks) == 0 {
		return
	}
	line := 0
	for _, c := range toks[0].Text {
		if c < '0' || c > '9' {
			break
		}
		line = line*10 + int(c-'0')
	}
	name := ""
	if len(toks) > 1 && toks[1].Kind == TStringLit {
		name = strings.Trim(toks[1].Text, `"`)
	}
	l.sm.SetLine(line, name)
}

// --- #pragma -------------------------------------------------------------

// directivePragma collects the pragma's tokens; interpreting them is
// out of the core's scope per spec.md §4.5 — the driver installs a
// handler via PragmaHandler if it cares.
func (l *Lexer) directivePragma() {
	toks := l.lineTokens()
	if l.PragmaHandler != nil {
		l.PragmaHandler(toks)
	}
}

// --- #if / #elif / #ifdef / #ifndef / #else / #endif -----------------------

func (l *Lexer) directiveIf(loc Location, parentSkipping bool) {
	if parentSkipping {
		l.condStack = append(l.condStack, condFrame{state: condSkipping, loc: loc})
		l.skipToEndOfLine()
		return
	}
	toks := l.lineTokens()
	v := l.evalPPExpr(loc, toks)
	if v != 0 {
		l.condStack = append(l.condStack, condFrame{state: condTaking, loc: loc})
	} else {
		l.condStack = append(l.condStack, condFrame{state: condSkipping, loc: loc})
	}
}

func (l *Lexer) directiveIfdef(loc Location, parentSkipping, negate bool) {
	nameTok := l.consumeRawSignificant()
	l.skipToEndOfLine()
	if parentSkipping {
		l.condStack = append(l.condStack, condFrame{state: condSkipping, loc: loc})
		return
	}
	_, defined := l.macros[nameTok.Ident]
	if nameTok.Ident != nil && nameTok.Ident.Class() == ClassBuiltinMacro {
		defined = true
	}
	take := defined
	if negate {
		take = !defined
	}
	if take {
		l.condStack = append(l.condStack, condFrame{state: condTaking, loc: loc})
	} else {
		l.condStack = append(l.condStack, condFrame{state: condSkipping, loc: loc})
	}
}

func (l *Lexer) directiveElifDefHelper(loc Location, negate bool) {
	// #elifdef IDENT / #elifndef IDENT, per §12.2's resolution of the
	// spec's C23 open question: sugar for #elif defined(IDENT) /
	// #elif !defined(IDENT).
	if len(l.condStack) == 0 {
		l.ctx.Errorf(SevPPError, loc, "#elifdef without #if")
		l.skipToEndOfLine()
		return
	}
	top := &l.condStack[len(l.condStack)-1]
	nameTok := l.consumeRawSignificant()
	l.skipToEndOfLine()
	if top.state == condElseSeen {
		l.ctx.Errorf(SevPPError, loc, "#elifdef after #else")
		return
	}
	if top.state == condTaking {
		top.state = condDone
		return
	}
	if top.state == condDone {
		return
	}
	_, defined := l.macros[nameTok.Ident]
	if nameTok.Ident != nil && nameTok.Ident.Class() == ClassBuiltinMacro {
		defined = true
	}
	take := defined
	if negate {
		take = !defined
	}
	if take {
		top.state = condTaking
	}
}

func (l *Lexer) directiveElif(loc Location) {
	if len(l.condStack) == 0 {
		l.ctx.Errorf(SevPPError, loc, "#elif without #if")
		l.skipToEndOfLine()
		return
	}
	top := &l.condStack[len(l.condStack)-1]
	if top.state == condElseSeen {
		l.ctx.Errorf(SevPPError, loc, "#elif after #else")
		l.skipToEndOfLine()
		return
	}
	if top.state == condTaking {
		top.state = condDone
		l.skipToEndOfLine()
		return
	}
	if top.state == condDone {
		l.skipToEndOfLine()
		return
	}
	toks := l.lineTokens()
	v := l.evalPPExpr(loc, toks)
	if v != 0 {
		top.state = condTaking
	}
}

func (l *Lexer) directiveElse(loc Location) {
	l.skipToEndOfLine()
	if len(l.condStack) == 0 {
		l.ctx.Errorf(SevPPError, loc, "#else without #if")
		return
	}
	top := &l.condStack[len(l.condStack)-1]
	if top.state == condElseSeen {
		l.ctx.Errorf(SevPPError, loc, "#else after #else")
		return
	}
	switch top.state {
	case condTaking:
		top.state = condElseSeen
	case condDone:
		top.state = condElseSeen
	case condSkipping:
		top.state = condTaking
	}
}

func (l *Lexer) directiveEndif(loc Location) {
	l.skipToEndOfLine()
	if len(l.condStack) == 0 {
		l.ctx.Errorf(SevPPError, loc, "#endif without #if")
		return
	}
	l.condStack = l.condStack[:len(l.condStack)-1]
}
