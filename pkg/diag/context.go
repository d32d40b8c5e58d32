package diag

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Context is a range of text in a source. It is used for errors that can be
// associated with a part of the source, like lex and parse errors, and for
// entries of a runtime stack trace.
type Context struct {
	Name   string
	Source string
	Ranging
}

// NewContext creates a new Context.
func NewContext(name, source string, r Ranger) *Context {
	return &Context{name, source, r.Range()}
}

// Variables controlling the style of the culprit.
var (
	culpritStart       = "\033[1;4m"
	culpritEnd         = "\033[m"
	culpritPlaceHolder = "^"
)

// Culprit returns the text covered by the range.
func (c *Context) Culprit() string {
	if c.checkPosition() != nil {
		return ""
	}
	return c.Source[c.From:c.To]
}

// Position returns the 1-based line and column of the start of the range.
// Columns count codepoints, not bytes.
func (c *Context) Position() (line, col int) {
	if c.checkPosition() != nil {
		return 0, 0
	}
	before := c.Source[:c.From]
	line = strings.Count(before, "\n") + 1
	col = utf8.RuneCountInString(lastLine(before)) + 1
	return line, col
}

// Describe returns "name:line:col", or a description of why the position is
// not available.
func (c *Context) Describe() string {
	if err := c.checkPosition(); err != nil {
		return err.Error()
	}
	line, col := c.Position()
	return fmt.Sprintf("%s:%d:%d", c.Name, line, col)
}

// Show shows the position followed by the relevant source on the next line,
// prefixed by sourceIndent.
func (c *Context) Show(sourceIndent string) string {
	if err := c.checkPosition(); err != nil {
		return err.Error()
	}
	return c.Describe() + ":\n" + sourceIndent + c.relevantSource(sourceIndent)
}

// ShowCompact shows the position and the relevant source on the same line.
// Following lines of a multi-line culprit line up with the first one.
func (c *Context) ShowCompact(sourceIndent string) string {
	if err := c.checkPosition(); err != nil {
		return err.Error()
	}
	desc := c.Describe() + ": "
	descIndent := strings.Repeat(" ", utf8.RuneCountInString(desc))
	return desc + c.relevantSource(sourceIndent+descIndent)
}

func (c *Context) checkPosition() error {
	if c.From == -1 {
		return fmt.Errorf("%s, unknown position", c.Name)
	} else if c.From < 0 || c.To > len(c.Source) || c.From > c.To {
		return fmt.Errorf("%s, invalid position %d-%d", c.Name, c.From, c.To)
	}
	return nil
}

func (c *Context) relevantSource(sourceIndent string) string {
	before := c.Source[:c.From]
	culprit := c.Source[c.From:c.To]
	after := c.Source[c.To:]

	var sb strings.Builder
	sb.WriteString(lastLine(before))

	var tail string
	if strings.HasSuffix(culprit, "\n") {
		culprit = culprit[:len(culprit)-1]
	} else {
		tail = firstLine(after)
	}
	if culprit == "" {
		culprit = culpritPlaceHolder
	}

	for i, line := range strings.Split(culprit, "\n") {
		if i > 0 {
			sb.WriteByte('\n')
			sb.WriteString(sourceIndent)
		}
		sb.WriteString(culpritStart)
		sb.WriteString(line)
		sb.WriteString(culpritEnd)
	}

	sb.WriteString(tail)
	return sb.String()
}

func firstLine(s string) string {
	i := strings.IndexByte(s, '\n')
	if i == -1 {
		return s
	}
	return s[:i]
}

func lastLine(s string) string {
	// When s does not contain '\n', LastIndexByte returns -1, which happens to
	// be what we want.
	return s[strings.LastIndexByte(s, '\n')+1:]
}
