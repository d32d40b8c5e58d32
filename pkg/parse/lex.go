// Derived from stdlib package text/template/parse.

// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package parse

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"src.iok.sh/pkg/diag"
)

// LexError is a lexical error.
type LexError = diag.Error[LexErrorTag]

// LexErrorTag parameterizes [diag.Error] to define [LexError].
type LexErrorTag struct{}

func (LexErrorTag) ErrorTag() string { return "lex error" }

const eof = -1

// stateFn represents the state of the scanner as a function that returns the
// next state.
type stateFn func(*Lexer) stateFn

// Lexer holds the state of the scanner. Tokens are produced lazily, one state
// transition at a time, as the consumer asks for them.
type Lexer struct {
	name  string  // the name of the input; used only for error reports
	input string  // the string being scanned
	end   int     // end of the scanned region of input
	state stateFn // the next lexing function to enter
	pos   int     // current position in the input
	start int     // start position of the current token
	width int     // width of last rune read from input

	newline bool // whether a newline was skipped since the last token
	emitted bool // whether any token has been emitted
	pending []Token
	err     error
}

// NewLexer creates a Lexer for the given source.
func NewLexer(src Source) *Lexer {
	return newLexer(src.Name, src.Code, diag.Ranging{From: 0, To: len(src.Code)})
}

// Creates a Lexer that scans only the given region of code. Positions of the
// tokens are still relative to the start of code.
func newLexer(name, code string, r diag.Ranging) *Lexer {
	return &Lexer{name: name, input: code, end: r.To, pos: r.From, start: r.From, state: lexAny}
}

// Next returns the next token. Once the input is exhausted, it keeps
// returning a token of kind EOF; once an error is found, it keeps returning
// that error.
func (l *Lexer) Next() (Token, error) {
	for len(l.pending) == 0 && l.err == nil {
		l.state = l.state(l)
	}
	if len(l.pending) == 0 {
		return Token{}, l.err
	}
	t := l.pending[0]
	l.pending = l.pending[1:]
	return t, nil
}

// Tokenize scans the entire source. The returned tokens end with an EOF
// token.
func Tokenize(src Source) ([]Token, error) {
	l := NewLexer(src)
	var tokens []Token
	for {
		t, err := l.Next()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, t)
		if t.Kind == EOF {
			return tokens, nil
		}
	}
}

// next returns the next rune in the input.
func (l *Lexer) next() rune {
	if l.pos >= l.end {
		l.width = 0
		return eof
	}
	r, w := utf8.DecodeRuneInString(l.input[l.pos:l.end])
	l.width = w
	l.pos += w
	return r
}

// peek returns but does not consume the next rune in the input.
func (l *Lexer) peek() rune {
	r := l.next()
	l.backup()
	return r
}

// backup steps back one rune. Can be called only once per call of next.
func (l *Lexer) backup() {
	l.pos -= l.width
}

// hasPrefix reports whether the unscanned input starts with s.
func (l *Lexer) hasPrefix(s string) bool {
	return strings.HasPrefix(l.input[l.pos:l.end], s)
}

func (l *Lexer) emit(k TokenKind) {
	l.emitToken(Token{Kind: k})
}

func (l *Lexer) emitToken(t Token) {
	t.Val = l.input[l.start:l.pos]
	t.Ranging = diag.Ranging{From: l.start, To: l.pos}
	t.NewlineBefore = l.newline && l.emitted
	l.pending = append(l.pending, t)
	l.newline = false
	l.emitted = true
	l.start = l.pos
}

// errorf records an error and returns nil, terminating the scan.
func (l *Lexer) errorf(r diag.Ranging, partial bool, format string, args ...any) stateFn {
	l.err = &LexError{
		Message: fmt.Sprintf(format, args...),
		Context: *diag.NewContext(l.name, l.input, r),
		Partial: partial,
	}
	return nil
}

// State functions.

func lexAny(l *Lexer) stateFn {
	l.skipSpaceAndComments()
	l.start = l.pos
	r := l.next()
	switch {
	case r == eof:
		l.emit(EOF)
		return lexEOF
	case isIdentStart(r):
		return lexIdent
	case isDigit(r):
		return lexNumber
	case r == '"':
		return lexString
	default:
		l.backup()
		return lexOperator
	}
}

func lexEOF(l *Lexer) stateFn {
	l.start = l.end
	l.emit(EOF)
	return lexEOF
}

func (l *Lexer) skipSpaceAndComments() {
	for {
		switch r := l.peek(); {
		case r == '\n':
			l.next()
			l.newline = true
		case r == ' ' || r == '\t' || r == '\r':
			l.next()
		case l.hasPrefix("//"):
			for r := l.peek(); r != '\n' && r != eof; r = l.peek() {
				l.next()
			}
		default:
			return
		}
	}
}

func lexIdent(l *Lexer) stateFn {
	for isIdentRune(l.peek()) {
		l.next()
	}
	if IsKeyword(l.input[l.start:l.pos]) {
		l.emit(Keyword)
	} else {
		l.emit(IdentToken)
	}
	return lexAny
}

func lexNumber(l *Lexer) stateFn {
	l.skipDigits()
	kind := Int
	// A dot is part of the number only when a digit follows, so that 0..10
	// lexes as a range.
	if l.hasPrefix(".") && l.pos+1 < l.end && isDigit(rune(l.input[l.pos+1])) {
		l.next()
		l.skipDigits()
		kind = Float
	}
	if isIdentRune(l.peek()) {
		l.next()
		return l.errorf(diag.Ranging{From: l.start, To: l.pos}, false,
			"invalid number literal %q", l.input[l.start:l.pos])
	}
	l.emit(kind)
	return lexAny
}

func (l *Lexer) skipDigits() {
	for isDigit(l.peek()) {
		l.next()
	}
}

func lexOperator(l *Lexer) stateFn {
	for _, op := range operators {
		if l.hasPrefix(op) {
			l.pos += len(op)
			if punctuation[op] {
				l.emit(Punct)
			} else {
				l.emit(Operator)
			}
			return lexAny
		}
	}
	r := l.next()
	return l.errorf(diag.Ranging{From: l.start, To: l.pos}, false,
		"unexpected character %q", r)
}

// lexString scans a string literal after the opening quote. Interpolated
// expressions are only delimited here; the parser lexes them again when it
// parses them.
func lexString(l *Lexer) stateFn {
	var parts []StringPart
	var sb strings.Builder
	flush := func() {
		if sb.Len() > 0 {
			parts = append(parts, StringPart{Text: sb.String()})
			sb.Reset()
		}
	}
	quote := diag.Ranging{From: l.start, To: l.start + 1}
	for {
		switch r := l.next(); r {
		case eof:
			return l.errorf(quote, true, "unterminated string literal")
		case '"':
			flush()
			l.emitToken(Token{Kind: String, Parts: parts})
			return lexAny
		case '\\':
			escStart := l.pos - 1
			e := l.next()
			if e == eof {
				return l.errorf(quote, true, "unterminated string literal")
			}
			if d, ok := escapes[e]; ok {
				sb.WriteRune(d)
			} else if e == 'u' {
				r, ok := l.scanUnicodeEscape()
				if !ok {
					return l.errorf(diag.Ranging{From: escStart, To: l.pos}, false,
						"invalid unicode escape sequence")
				}
				sb.WriteRune(r)
			} else {
				return l.errorf(diag.Ranging{From: escStart, To: l.pos}, false,
					"invalid escape sequence \\%c", e)
			}
		case '{':
			brace := diag.Ranging{From: l.pos - 1, To: l.pos}
			exprStart := l.pos
			if !l.skipInterpolation() {
				return l.errorf(brace, true, "unterminated interpolation")
			}
			flush()
			parts = append(parts, StringPart{IsExpr: true,
				Expr: diag.Ranging{From: exprStart, To: l.pos - 1}})
		default:
			sb.WriteRune(r)
		}
	}
}

// Scans the "{XXXX}" part of a \u{XXXX} escape sequence.
func (l *Lexer) scanUnicodeEscape() (rune, bool) {
	if l.next() != '{' {
		return 0, false
	}
	start := l.pos
	for isHexDigit(l.peek()) {
		l.next()
	}
	digits := l.input[start:l.pos]
	if l.next() != '}' || digits == "" || len(digits) > 6 {
		return 0, false
	}
	r, err := strconv.ParseUint(digits, 16, 32)
	if err != nil || !utf8.ValidRune(rune(r)) {
		return 0, false
	}
	return rune(r), true
}

func isHexDigit(r rune) bool {
	return isDigit(r) || ('a' <= r && r <= 'f') || ('A' <= r && r <= 'F')
}

var escapes = map[rune]rune{
	'n': '\n', 't': '\t', 'r': '\r',
	'"': '"', '\\': '\\', '{': '{', '}': '}',
}

// Skips past the '}' matching an already consumed '{', taking nested braces
// and string literals into account. It returns false on reaching the end of
// input.
func (l *Lexer) skipInterpolation() bool {
	depth := 1
	for {
		switch l.next() {
		case eof:
			return false
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return true
			}
		case '"':
			if !l.skipQuoted() {
				return false
			}
		}
	}
}

// Skips past the closing quote of a string literal whose opening quote has
// been consumed.
func (l *Lexer) skipQuoted() bool {
	for {
		switch l.next() {
		case eof:
			return false
		case '\\':
			switch l.next() {
			case eof:
				return false
			case 'u':
				l.scanUnicodeEscape()
			}
		case '"':
			return true
		case '{':
			if !l.skipInterpolation() {
				return false
			}
		}
	}
}

func isIdentStart(r rune) bool {
	return r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}

func isIdentRune(r rune) bool {
	return isIdentStart(r) || isDigit(r)
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}
