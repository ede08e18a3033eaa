// Copyright 2024 The CC Frontend Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cc

import (
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// maxCodepoint is the largest valid Unicode scalar value.
const maxCodepoint = 0x10FFFF

// decodeEscapes walks body (the text strictly between the opening and
// closing quote of a char/string literal; callers strip both quotes)
// and returns the decoded rune sequence (spec.md §4.5 "Character
// literal value"). Malformed or out-of-range escapes are reported
// through ctx's diagnostic engine at loc.
func decodeEscapes(ctx *CompilationContext, loc Location, body string) []rune {
	var out []rune
	rs := []rune(body)
	for i := 0; i < len(rs); i++ {
		c := rs[i]
		if c != '\\' || i+1 >= len(rs) {
			out = append(out, c)
			continue
		}
		i++
		e := rs[i]
		switch e {
		case '\'':
			out = append(out, '\'')
		case '"':
			out = append(out, '"')
		case '?':
			out = append(out, '?')
		case '\\':
			out = append(out, '\\')
		case 'a':
			out = append(out, '\a')
		case 'b':
			out = append(out, '\b')
		case 'e':
			out = append(out, '\x1b')
		case 'f':
			out = append(out, '\f')
		case 'n':
			out = append(out, '\n')
		case 'r':
			out = append(out, '\r')
		case 't':
			out = append(out, '\t')
		case 'v':
			out = append(out, '\v')
		case 'x':
			v := int64(0)
			n := 0
			for i+1 < len(rs) && isHexDigit(rs[i+1]) {
				i++
				v = v*16 + int64(hexVal(rs[i]))
				n++
			}
			if n == 0 {
				ctx.Errorf(SevLexError, loc, "\\x used with no following hex digits")
			}
			out = append(out, rune(v))
		case 'u', 'U':
			want := 4
			if e == 'U' {
				want = 8
			}
			v := int64(0)
			got := 0
			for got < want && i+1 < len(rs) && isHexDigit(rs[i+1]) {
				i++
				v = v*16 + int64(hexVal(rs[i]))
				got++
			}
			if got != want {
				ctx.Errorf(SevLexError, loc, "incomplete universal character name")
			}
			if v > maxCodepoint || (v >= 0xD800 && v <= 0xDFFF) {
				ctx.Errorf(SevLexError, loc, "universal character name refers to an invalid or surrogate code point")
				v = 0xFFFD
			}
			out = append(out, rune(v))
		case '0', '1', '2', '3', '4', '5', '6', '7':
			v := int64(e - '0')
			n := 1
			for n < 3 && i+1 < len(rs) && rs[i+1] >= '0' && rs[i+1] <= '7' {
				i++
				v = v*8 + int64(rs[i]-'0')
				n++
			}
			if v > 0xFF {
				ctx.Errorf(SevWarning, loc, "octal escape sequence out of range")
			}
			out = append(out, rune(v))
		default:
			ctx.Errorf(SevWarning, loc, "unknown escape sequence '\\%s'", diagStr(string(e)))
			out = append(out, e)
		}
	}
	return out
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func hexVal(r rune) int {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0')
	case r >= 'a' && r <= 'f':
		return int(r-'a') + 10
	default:
		return int(r-'A') + 10
	}
}

// parsePrefix splits a leading encoding prefix (u8, u, U, L) off raw,
// returning the prefix and the remainder starting at the opening
// quote.
func parsePrefix(raw string) (EncodingPrefix, string) {
	switch {
	case strings.HasPrefix(raw, "u8"):
		return PrefixU8, raw[2:]
	case strings.HasPrefix(raw, "u"):
		return PrefixU, raw[1:]
	case strings.HasPrefix(raw, "U"):
		return PrefixBigU, raw[1:]
	case strings.HasPrefix(raw, "L"):
		return PrefixL, raw[1:]
	default:
		return PrefixNone, raw
	}
}

// ParseCharLiteral decodes a TCharLit token's raw spelling (including
// prefix and quotes) into a prefix and the 32-bit value spec.md §4.5
// describes. Multi-character literals (`'ab'`) take the last
// character's value per common implementation-defined practice, with
// a warning.
func ParseCharLiteral(ctx *CompilationContext, loc Location, raw string) (EncodingPrefix, int64) {
	prefix, rest := parsePrefix(raw)
	body := strings.TrimSuffix(strings.TrimPrefix(rest, "'"), "'")
	runes := decodeEscapes(ctx, loc, body)
	if len(runes) == 0 {
		ctx.Errorf(SevLexError, loc, "empty character constant")
		return prefix, 0
	}
	if len(runes) > 1 {
		ctx.Errorf(SevWarning, loc, "multi-character character constant")
	}
	v := int64(runes[len(runes)-1])
	switch prefix {
	case PrefixNone:
		if v > 0x7F {
			ctx.Errorf(SevWarning, loc, "character constant value exceeds signed char range")
		}
	case PrefixU:
		if v > 0xFFFF {
			ctx.Errorf(SevWarning, loc, "character constant value exceeds char16_t range")
		}
	}
	return prefix, v
}

// ParseStringLiteral decodes a TStringLit token's raw spelling into a
// prefix and the encoded byte sequence: `u8` strings are encoded
// UTF-8, `u` strings UTF-16LE, `U`/`L` strings UTF-32LE, matching the
// execution character set this front end targets.
func ParseStringLiteral(ctx *CompilationContext, loc Location, raw string) (EncodingPrefix, []byte) {
	prefix, rest := parsePrefix(raw)
	body := strings.TrimSuffix(strings.TrimPrefix(rest, `"`), `"`)
	runes := decodeEscapes(ctx, loc, body)
	switch prefix {
	case PrefixU:
		enc := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder()
		out, err := enc.Bytes([]byte(string(runes)))
		if err != nil {
			ctx.Errorf(SevLexError, loc, "invalid UTF-16 string literal: %s", diagStr(err.Error()))
		}
		return prefix, append(out, 0, 0)
	case PrefixBigU, PrefixL:
		out := make([]byte, 0, len(runes)*4+4)
		for _, r := range runes {
			out = appendUint32LE(out, uint32(r))
		}
		out = appendUint32LE(out, 0)
		return prefix, out
	default:
		out := []byte(string(runes))
		return prefix, append(out, 0)
	}
}

func appendUint32LE(b []byte, v uint32) []byte {
	return append(b, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

// ParsePPNumber converts a pp-number token's raw text into either an
// integer or floating constant, deferred from the lexer to the parser
// per spec.md §4.5.
func ParsePPNumber(ctx *CompilationContext, loc Location, text string) ConstValue {
	clean := strings.ReplaceAll(text, "'", "")
	if looksFloat(clean) {
		f, suffix := splitFloatSuffix(clean)
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			ctx.Errorf(SevLexError, loc, "invalid floating constant '%s'", diagStr(text))
		}
		_ = suffix
		return ConstValue{Kind: ConstFloat, FloatVal: v}
	}
	digits, suffix := splitIntSuffix(clean)
	base := 10
	switch {
	case strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X"):
		base = 16
		digits = digits[2:]
	case strings.HasPrefix(digits, "0b") || strings.HasPrefix(digits, "0B"):
		base = 2
		digits = digits[2:]
	case len(digits) > 1 && digits[0] == '0':
		base = 8
	}
	u, err := strconv.ParseUint(digits, base, 64)
	if err != nil {
		ctx.Errorf(SevLexError, loc, "invalid integer constant '%s'", diagStr(text))
	}
	_ = suffix // suffix (u/l/ll combinations) selects the literal's type in the parser, not its value
	return ConstValue{Kind: ConstInt, IntVal: int64(u), UintVal: u}
}

func looksFloat(s string) bool {
	hasDotOrExp := strings.ContainsAny(s, ".")
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return strings.ContainsAny(s, ".pP")
	}
	return hasDotOrExp || strings.ContainsAny(s, "eE")
}

func splitFloatSuffix(s string) (number, suffix string) {
	i := len(s)
	for i > 0 && strings.ContainsRune("flFL", rune(s[i-1])) {
		i--
	}
	return s[:i], s[i:]
}

func splitIntSuffix(s string) (number, suffix string) {
	i := len(s)
	for i > 0 && strings.ContainsRune("uUlL", rune(s[i-1])) {
		i--
	}
	return s[:i], s[i:]
}
