package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"src.iok.sh/pkg/eval"
	"src.iok.sh/pkg/parse"
	"src.iok.sh/pkg/strutil"
)

// The line editor used by the REPL.
type editor interface {
	// ReadLine shows the prompt and reads one line, without the line ending.
	// It returns errAborted if the user discards the line.
	ReadLine(prompt string) (string, error)
	AddHistory(code string)
	Close() error
}

var errAborted = errors.New("aborted")

// A line editor for non-terminal input. It reads lines from a buffered
// reader and prints prompts to the error output.
type minEditor struct {
	in  *bufio.Reader
	out io.Writer
}

func newMinEditor(in, out *os.File) *minEditor {
	return &minEditor{bufio.NewReader(in), out}
}

func (ed *minEditor) ReadLine(prompt string) (string, error) {
	fmt.Fprint(ed.out, prompt)
	line, err := ed.in.ReadString('\n')
	if err == io.EOF && line != "" {
		err = nil
	}
	return strutil.ChopLineEnding(line), err
}

// History is not available in the minimal editor.
func (ed *minEditor) AddHistory(string) {}

func (ed *minEditor) Close() error { return nil }

// A line editor for terminals. It supports editing the line, navigating the
// history and completing names.
type linerEditor struct {
	state *liner.State
}

func newLinerEditor(ev *eval.Evaler) *linerEditor {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	state.SetCompleter(func(line string) []string { return complete(ev, line) })
	return &linerEditor{state}
}

func (ed *linerEditor) ReadLine(prompt string) (string, error) {
	line, err := ed.state.Prompt(prompt)
	if err == liner.ErrPromptAborted {
		return "", errAborted
	}
	return line, err
}

func (ed *linerEditor) AddHistory(code string) {
	// Multi-line entries are recalled as one line.
	ed.state.AppendHistory(strings.ReplaceAll(code, "\n", " "))
}

func (ed *linerEditor) Close() error { return ed.state.Close() }

// Returns completions of the identifier at the end of line, each as the
// whole line with the identifier completed.
func complete(ev *eval.Evaler, line string) []string {
	start := len(line)
	for start > 0 && isIdentByte(line[start-1]) {
		start--
	}
	prefix := line[start:]
	if prefix == "" {
		return nil
	}
	var completions []string
	for _, names := range [][]string{parse.Keywords(), eval.BuiltinNames(), ev.Global().Names()} {
		for _, name := range names {
			if strings.HasPrefix(name, prefix) {
				completions = append(completions, line[:start]+name)
			}
		}
	}
	return completions
}

func isIdentByte(b byte) bool {
	return b == '_' || '0' <= b && b <= '9' || 'a' <= b && b <= 'z' || 'A' <= b && b <= 'Z'
}
