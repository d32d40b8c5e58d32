package parse

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var quoteEscapes = map[rune]string{
	'"': `\"`, '\\': `\\`, '\n': `\n`, '\t': `\t`, '\r': `\r`,
	'{': `\{`, '}': `\}`,
}

// Quote returns a string literal that evaluates to s. Unprintable characters
// are written as \u{XXXX}.
func Quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		if e, ok := quoteEscapes[r]; ok {
			sb.WriteString(e)
		} else if r == utf8.RuneError || !unicode.IsPrint(r) {
			sb.WriteString(`\u{` + strconv.FormatInt(int64(r), 16) + `}`)
		} else {
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
