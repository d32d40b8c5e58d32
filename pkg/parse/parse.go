// Package parse implements the lexer and the parser of the iok language.
//
// Source text is turned into tokens by a [Lexer], and into a [Program] by
// [Parse]. Both stop at the first error, which is a *[LexError] or an
// *[Error] carrying the position of the problem.
package parse

import (
	"src.iok.sh/pkg/diag"
)

// ErrorEntry is a lex or parse error flattened for reporting.
type ErrorEntry struct {
	Tag     string
	Message string
	Context *diag.Context
	Partial bool
}

// UnpackErrors returns the lex and parse errors contained in err, in order.
// It returns nil if err contains no such error.
func UnpackErrors(err error) []ErrorEntry {
	var entries []ErrorEntry
	for _, e := range diag.UnpackErrors[LexErrorTag](err) {
		entries = append(entries, ErrorEntry{
			LexErrorTag{}.ErrorTag(), e.Message, &e.Context, e.Partial})
	}
	for _, e := range diag.UnpackErrors[ErrorTag](err) {
		entries = append(entries, ErrorEntry{
			ErrorTag{}.ErrorTag(), e.Message, &e.Context, e.Partial})
	}
	return entries
}

// IsSourceError reports whether err is a lex or parse error.
func IsSourceError(err error) bool {
	return len(UnpackErrors(err)) > 0
}

// IsPartial reports whether err is a lex or parse error caused by the source
// ending too early, so that appending more code may fix it.
func IsPartial(err error) bool {
	entries := UnpackErrors(err)
	for _, e := range entries {
		if !e.Partial {
			return false
		}
	}
	return len(entries) > 0
}
