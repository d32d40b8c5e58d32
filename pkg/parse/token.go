package parse

import (
	"fmt"

	"src.iok.sh/pkg/diag"
)

// TokenKind identifies the kind of a token.
type TokenKind int

// TokenKind values.
const (
	EOF TokenKind = iota
	IdentToken
	Keyword
	Int
	Float
	String
	Operator
	Punct
)

var tokenKindNames = [...]string{
	EOF:        "EOF",
	IdentToken: "Ident",
	Keyword:    "Keyword",
	Int:        "Int",
	Float:      "Float",
	String:     "String",
	Operator:   "Operator",
	Punct:      "Punct",
}

func (k TokenKind) String() string {
	if 0 <= k && int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// Token is a lexical token.
type Token struct {
	Kind TokenKind
	// Source text of the token. For String tokens this includes the quotes.
	Val string
	diag.Ranging
	// Whether at least one newline separates this token from the previous
	// one. The first token never has this set.
	NewlineBefore bool
	// Decoded pieces of a String token.
	Parts []StringPart
}

// StringPart is one piece of a string literal: either literal text with
// escapes decoded, or the range of an interpolated expression, exclusive of
// the braces.
type StringPart struct {
	Text   string
	IsExpr bool
	Expr   diag.Ranging
}

// Is reports whether the token has the given kind and source text.
func (t Token) Is(kind TokenKind, val string) bool {
	return t.Kind == kind && t.Val == val
}

// IsPunct reports whether the token is the given operator or punctuation.
func (t Token) IsPunct(val string) bool {
	return (t.Kind == Operator || t.Kind == Punct) && t.Val == val
}

// Describe returns a description of the token suitable for error messages.
func (t Token) Describe() string {
	switch t.Kind {
	case EOF:
		return "end of input"
	case IdentToken:
		return "identifier " + t.Val
	case Keyword:
		return "keyword " + t.Val
	case Int, Float:
		return "number " + t.Val
	case String:
		return "string literal"
	default:
		return "'" + t.Val + "'"
	}
}

var keywords = map[string]bool{
	"let": true, "fn": true, "struct": true,
	"for": true, "while": true, "if": true, "elsif": true, "els": true,
	"ret": true, "self": true, "import": true,
	"true": true, "false": true, "null": true,
}

// IsKeyword reports whether name is a reserved word.
func IsKeyword(name string) bool { return keywords[name] }

// Keywords returns all reserved words, in no particular order.
func Keywords() []string {
	names := make([]string, 0, len(keywords))
	for name := range keywords {
		names = append(names, name)
	}
	return names
}

// Operators and punctuation, ordered so that longer ones are tried first.
var operators = []string{
	"<<", ">>", "<=", ">=", "==", "!=", "&&", "||",
	"+=", "-=", "*=", "/=", "%=", "++", "--",
	"->", "=>", "..", "::",
	"+", "-", "*", "/", "%", "=", "<", ">", "!", "&", "|",
	"(", ")", "{", "}", "[", "]", ",", ":", ";", ".",
}

var punctuation = map[string]bool{
	"(": true, ")": true, "{": true, "}": true, "[": true, "]": true,
	",": true, ":": true, ";": true, ".": true, "::": true, "->": true, "=>": true,
}
