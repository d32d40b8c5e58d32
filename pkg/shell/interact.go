package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"src.iok.sh/pkg/diag"
	"src.iok.sh/pkg/eval"
	"src.iok.sh/pkg/eval/vals"
	"src.iok.sh/pkg/parse"
	"src.iok.sh/pkg/store/storedefs"
	"src.iok.sh/pkg/strutil"
	"src.iok.sh/pkg/sys"
)

// InteractConfig keeps configuration for the interactive mode.
type InteractConfig struct {
	// Path of the RC file. Empty means no RC file.
	RC     string
	Config *Config
	// Where entered code is saved. Nil means no history is kept.
	Store storedefs.Store
}

// Used to build the editor; tests may replace it.
var newEditor = func(fds [3]*os.File, ev *eval.Evaler) editor {
	if fds[0] == os.Stdin && fds[1] == os.Stdout &&
		sys.IsATTY(fds[0].Fd()) && sys.IsATTY(fds[1].Fd()) {
		return newLinerEditor(ev)
	}
	return newMinEditor(fds[0], fds[2])
}

// Interact runs an interactive session until the input ends or the code
// calls exit. It returns the exit status.
func Interact(fds [3]*os.File, ev *eval.Evaler, cfg *InteractConfig) int {
	if cfg.Config == nil {
		cfg.Config = DefaultConfig()
	}

	if cfg.RC != "" {
		err := sourceRC(fds, ev, cfg.RC)
		var exit *eval.ExitError
		if errors.As(err, &exit) {
			return exit.Code
		} else if err != nil {
			diag.ShowError(fds[2], err)
		}
	}

	ed := newEditor(fds, ev)
	defer func() { ed.Close() }()
	loadHistory(ed, cfg)

	cooldown := time.Second
	for cmdNum := 1; ; cmdNum++ {
		name := fmt.Sprintf("[repl %d]", cmdNum)
		code, err := readCode(ed, ev, name, cfg.Config)
		if err == io.EOF {
			break
		} else if err == errAborted {
			continue
		} else if err != nil {
			fmt.Fprintln(fds[2], "Editor error:", err)
			if _, isMinEditor := ed.(*minEditor); !isMinEditor {
				fmt.Fprintln(fds[2], "Falling back to basic line editor")
				ed.Close()
				ed = newMinEditor(fds[0], fds[2])
			} else {
				fmt.Fprintln(fds[2], "Restarting editor in", cooldown)
				time.Sleep(cooldown)
				if cooldown < time.Minute {
					cooldown *= 2
				}
			}
			continue
		}
		// No error; reset cooldown.
		cooldown = time.Second

		if strings.TrimSpace(code) == "" {
			continue
		}
		ed.AddHistory(code)
		if cfg.Store != nil {
			if _, err := cfg.Store.AddCmd(code); err != nil {
				logger.Println("failed to save history:", err)
			}
		}

		v, err := ev.Eval(parse.Source{Name: name, Code: code}, eval.EvalCfg{Stdout: fds[1]})
		var exit *eval.ExitError
		if errors.As(err, &exit) {
			return exit.Code
		} else if err != nil {
			diag.ShowError(fds[2], err)
		} else if cfg.Config.ShowResult && vals.KindOf(v) != vals.NullKind {
			fmt.Fprintln(fds[1], showResult(fds[1], v))
		}
	}
	return 0
}

// Reads one entry. Lines are read while the code so far is incomplete. An
// entry cut short by the end of input is still returned, so that its error
// is shown.
func readCode(ed editor, ev *eval.Evaler, name string, cfg *Config) (string, error) {
	line, err := ed.ReadLine(cfg.Prompt)
	if err != nil {
		return "", err
	}
	code := line
	for {
		_, err := ev.Check(parse.Source{Name: name, Code: code})
		if !parse.IsPartial(err) {
			return code, nil
		}
		line, err := ed.ReadLine(cfg.ContinuationPrompt)
		if err == io.EOF {
			return code, nil
		} else if err != nil {
			return "", err
		}
		code += "\n" + line
	}
}

func showResult(out *os.File, v vals.Value) string {
	s := "-> " + vals.Repr(v)
	_, width := sys.WinSize(out)
	return strutil.ElideTo(s, width)
}

func loadHistory(ed editor, cfg *InteractConfig) {
	if cfg.Store == nil || cfg.Config.HistorySize == 0 {
		return
	}
	cmds, err := cfg.Store.LastCmds(cfg.Config.HistorySize)
	if err != nil {
		logger.Println("failed to load history:", err)
		return
	}
	for _, cmd := range cmds {
		ed.AddHistory(cmd.Text)
	}
}

func sourceRC(fds [3]*os.File, ev *eval.Evaler, rcPath string) error {
	src, err := readScript(rcPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	_, err = ev.Eval(src, eval.EvalCfg{Stdout: fds[1]})
	return err
}
