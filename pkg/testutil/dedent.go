package testutil

import (
	"strings"
)

// Dedent removes the longest common prefix of spaces and tabs from every
// non-blank line of text. A leading newline is removed first, and lines that
// consist of only whitespace become empty.
//
// This can be used to make multiline raw strings line up with the left edge
// of the display, while still presenting them in the source code in indented
// form.
func Dedent(text string) string {
	text = strings.TrimPrefix(text, "\n")
	lines := strings.Split(text, "\n")

	margin, first := "", true
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" {
			lines[i] = ""
			continue
		}
		indent := line[:len(line)-len(trimmed)]
		if first {
			margin, first = indent, false
		} else {
			margin = commonPrefix(margin, indent)
		}
	}
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, margin)
	}
	return strings.Join(lines, "\n")
}

func commonPrefix(a, b string) string {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:n]
}
