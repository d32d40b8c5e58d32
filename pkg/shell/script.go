package shell

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"
	"src.iok.sh/pkg/diag"
	"src.iok.sh/pkg/eval"
	"src.iok.sh/pkg/eval/vals"
	"src.iok.sh/pkg/parse"
)

// Configuration for the script mode.
type scriptCfg struct {
	Cmd         bool
	CompileOnly bool
	JSON        bool
}

// Executes a script, or the code in the first argument if cfg.Cmd is set.
// The remaining arguments are available to the code as args. It returns the
// exit status.
func script(ev *eval.Evaler, fds [3]*os.File, args []string, cfg *scriptCfg) int {
	if cfg.CompileOnly && !cfg.Cmd {
		return checkFiles(ev, fds, args, cfg.JSON)
	}

	var src parse.Source
	if cfg.Cmd {
		src = parse.Source{Name: "code from -c", Code: args[0]}
	} else {
		var err error
		src, err = readScript(args[0])
		if err != nil {
			fmt.Fprintln(fds[2], err)
			return 2
		}
	}

	if cfg.CompileOnly {
		_, err := ev.Check(src)
		return reportCheck(fds, []error{err}, cfg.JSON)
	}

	ev.AddGlobal("args", stringArray(args[1:]))
	_, err := ev.Eval(src, eval.EvalCfg{Stdout: fds[1]})
	var exit *eval.ExitError
	if errors.As(err, &exit) {
		return exit.Code
	} else if err != nil {
		diag.ShowError(fds[2], err)
		return 2
	}
	return 0
}

func readScript(arg string) (parse.Source, error) {
	name, err := filepath.Abs(arg)
	if err != nil {
		return parse.Source{}, fmt.Errorf("cannot get full path of script %q: %v", arg, err)
	}
	code, err := readFileUTF8(name)
	if err != nil {
		return parse.Source{}, fmt.Errorf("cannot read script %q: %w", name, err)
	}
	return parse.Source{Name: name, Code: code, IsFile: true}, nil
}

// Parses all the files concurrently. Errors are reported in the order of
// the files.
func checkFiles(ev *eval.Evaler, fds [3]*os.File, files []string, jsonOut bool) int {
	results := make([]error, len(files))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			src, err := readScript(file)
			if err == nil {
				_, err = ev.Check(src)
			}
			results[i] = err
			return nil
		})
	}
	g.Wait()
	return reportCheck(fds, results, jsonOut)
}

func reportCheck(fds [3]*os.File, results []error, jsonOut bool) int {
	exit := 0
	for _, err := range results {
		if err == nil {
			continue
		}
		exit = 2
		if !jsonOut || !parse.IsSourceError(err) {
			diag.ShowError(fds[2], err)
		}
	}
	if jsonOut {
		fmt.Fprintf(fds[1], "%s\n", errorsToJSON(results))
	}
	return exit
}

func stringArray(ss []string) *vals.Array {
	a := vals.NewArray()
	for _, s := range ss {
		a.Push(vals.NewStr(s))
	}
	return a
}

var errSourceNotUTF8 = errors.New("source is not UTF-8")

func readFileUTF8(fname string) (string, error) {
	bytes, err := os.ReadFile(fname)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(bytes) {
		return "", errSourceNotUTF8
	}
	return string(bytes), nil
}

// An auxiliary struct for converting errors with diagnostics information to JSON.
type errorInJSON struct {
	FileName string `json:"fileName"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Message  string `json:"message"`
}

// Converts lex and parse errors into JSON. Other errors are left out.
func errorsToJSON(errs []error) []byte {
	converted := []errorInJSON{}
	for _, err := range errs {
		for _, e := range parse.UnpackErrors(err) {
			converted = append(converted,
				errorInJSON{e.Context.Name, e.Context.From, e.Context.To, e.Message})
		}
	}

	jsonError, errMarshal := json.Marshal(converted)
	if errMarshal != nil {
		return []byte(`[{"message":"Unable to convert the errors to JSON"}]`)
	}
	return jsonError
}
