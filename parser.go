// Copyright 2024 The CC Frontend Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cc

// TranslationUnit is the AST/IR output of one compilation, per
// spec.md §6: the root statement chain plus the two high-water marks
// a consumer needs to size its own scope-tracking storage.
type TranslationUnit struct {
	Root        *Stmt
	MaxScope    int
	MaxTagScope int
}

// Parser is the recursive-descent parser + embedded Sema of
// spec.md §4.6: every expression production returns a fully typed
// node, and the parser never revisits a completed expression.
type Parser struct {
	ctx      *CompilationContext
	lex      *Lexer
	builtins BuiltinRegistry

	tok     Token
	lookahead []Token

	idents *IdentScope
	tags   *TagScope

	fb       *FuncBuilder
	curFunc  *Stmt // the SFuncDef being built, or nil at file scope

	loops    []loopContext
	switches []*switchContext

	maxScope    int
	maxTagScope int
}

// NewParser returns a parser that will drive lex to completion,
// resolving unresolved `__builtin_*` identifiers against registry
// (nil selects the default "implicitly declared, returns int"
// fallback of spec.md §12.4).
func NewParser(ctx *CompilationContext, lex *Lexer, registry BuiltinRegistry) *Parser {
	if registry == nil {
		registry = defaultBuiltinRegistry
	}
	p := &Parser{
		ctx:      ctx,
		lex:      lex,
		builtins: registry,
		idents:   NewIdentScope(),
		tags:     NewTagScope(),
	}
	p.idents.Push()
	p.tags.Push()
	p.advance()
	return p
}

func (p *Parser) advance() {
	if n := len(p.lookahead); n > 0 {
		p.tok = p.lookahead[n-1]
		p.lookahead = p.lookahead[:n-1]
		return
	}
	p.tok = p.lex.Next()
}

// peekNext returns the token after the current one without consuming
// either: it reads one token from the lexer and holds it in the
// parser's own lookahead slice, which advance drains first.
func (p *Parser) peekNext() Token {
	nt := p.lex.Next()
	p.lookahead = append(p.lookahead, nt)
	return nt
}

func (p *Parser) at(k TokenKind) bool { return p.tok.Kind == k }

func (p *Parser) expect(k TokenKind) Token {
	if p.tok.Kind != k {
		p.ctx.Errorf(SevParseError, p.tok.Loc, "expected '%s' but found '%s'", diagStr(k.String()), diagStr(p.tok.Kind.String()))
		return p.tok
	}
	t := p.tok
	p.advance()
	return t
}

// accept consumes and returns (tok, true) if the current token is k.
func (p *Parser) accept(k TokenKind) (Token, bool) {
	if p.tok.Kind == k {
		t := p.tok
		p.advance()
		return t, true
	}
	return Token{}, false
}

// resync implements spec.md §4.6's error recovery: consume up to the
// next ';', '}', or a statement-start keyword.
func (p *Parser) resync() {
	for {
		switch p.tok.Kind {
		case TSemi:
			p.advance()
			return
		case TRBrace, TEOF:
			return
		case KwIf, KwWhile, KwFor, KwDo, KwReturn, KwSwitch, KwBreak, KwContinue, KwGoto:
			return
		}
		p.advance()
	}
}

// sentinelExpr returns the "typed sentinel" (0 of type int) spec.md
// §4.6/§7 substitute for a semantically invalid expression, so the
// surrounding context can continue.
func (p *Parser) sentinelExpr(loc Location) *Expr {
	return &Expr{Kind: EConst, Type: p.ctx.Types.Integer(IKInt, true), Loc: loc, Const: ConstValue{Kind: ConstInt}}
}

// ParseTranslationUnit drives the whole pipeline: it repeatedly parses
// external declarations (function definitions or global variable
// declarations) until EOF.
func ParseTranslationUnit(ctx *CompilationContext, lex *Lexer, registry BuiltinRegistry) *TranslationUnit {
	p := NewParser(ctx, lex, registry)
	root := NewHead(ctx.Arena)
	tail := root
	for !p.at(TEOF) {
		for _, s := range p.parseExternalDecl() {
			tail.Next = s
			tail = s
		}
	}
	for tail.Next != nil {
		tail = tail.Next
	}
	return &TranslationUnit{Root: root, MaxScope: p.maxScope, MaxTagScope: p.maxTagScope}
}

func (p *Parser) bumpScopePeaks() {
	if v := p.idents.Peak(); v > p.maxScope {
		p.maxScope = v
	}
	if v := p.tags.Peak(); v > p.maxTagScope {
		p.maxTagScope = v
	}
}
