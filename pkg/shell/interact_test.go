package shell

import (
	"io"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"

	"src.iok.sh/pkg/eval"
	"src.iok.sh/pkg/must"
	"src.iok.sh/pkg/parse"
	. "src.iok.sh/pkg/prog/progtest"
	"src.iok.sh/pkg/store"
	"src.iok.sh/pkg/testutil"
)

func TestInteract(t *testing.T) {
	setupCleanHomePaths(t)
	testutil.InTempDir(t)

	Test(t, &Program{},
		ThatIok().WithStdin("let x = 20\nx + 22\n").WritesStdout("-> 42\n").
			WritesStderr("> > > "),
		// Null results and assignments are not shown.
		ThatIok().WithStdin("dbg(\"hi\")\nlet y = 1\ny = 2\n").WritesStdout("\"hi\"\n").
			WritesStderrContaining("> "),
		// Incomplete code is continued on the next lines.
		ThatIok().WithStdin("fn f(a) {\nret a * 2\n}\nf(21)\n").WritesStdout("-> 42\n").
			WritesStderr("> | | > > "),
		// Errors don't end the session.
		ThatIok().WithStdin("dbg(nope)\ndbg(1)\n").WritesStdout("1\n").
			WritesStderrContaining("variable not found: nope"),
		ThatIok().WithStdin("let = 1\ndbg(1)\n").WritesStdout("1\n").
			WritesStderrContaining("Parse error"),
		// Code cut short by the end of input is still reported.
		ThatIok().WithStdin("fn f() {").WritesStderrContaining("Parse error"),
		ThatIok().WithStdin("exit(4)\ndbg(1)\n").ExitsWith(4).WritesStderrContaining("> "),
		ThatIok().WithStdin("dbg(args)\n").WritesStdout("[]\n").WritesStderrContaining("> "),
		ThatIok("-compileonly").ExitsWith(2).WritesStderrContaining("-compileonly requires"),
	)
}

func TestInteract_RCFile(t *testing.T) {
	home := setupCleanHomePaths(t)
	testutil.InTempDir(t)
	must.WriteFile(filepath.Join(home, "config", "iok", "rc.iok"),
		"write(\"hello from rc\\n\")\nfn double(n) => n * 2")
	must.WriteFile("custom-rc.iok", "let custom = true")
	must.WriteFile("bad-rc.iok", "dbg(nope)")
	must.WriteFile("exit-rc.iok", "exit(5)")

	Test(t, &Program{},
		ThatIok().WithStdin("double(4)\n").
			WritesStdout("hello from rc\n-> 8\n").WritesStderrContaining("> "),
		ThatIok("-norc").WithStdin("double(4)\n").
			WritesStderrContaining("variable not found: double"),
		ThatIok("-rc", "custom-rc.iok").WithStdin("custom\n").
			WritesStdout("-> true\n").WritesStderrContaining("> "),
		ThatIok("-rc", "bad-rc.iok").WithStdin("dbg(1)\n").
			WritesStdout("1\n").WritesStderrContaining("variable not found: nope"),
		ThatIok("-rc", "exit-rc.iok").ExitsWith(5),
		// A missing RC file is not an error.
		ThatIok("-rc", "missing.iok").WithStdin("").WritesStderr("> "),
	)
}

func TestInteract_Config(t *testing.T) {
	home := setupCleanHomePaths(t)
	testutil.InTempDir(t)
	must.WriteFile(filepath.Join(home, "config", "iok", "config.yaml"), ""+
		"prompt: \"iok$ \"\n"+
		"continuation_prompt: \"... \"\n"+
		"show_result: false\n")
	must.WriteFile("bad.yaml", "promt: x\n")

	Test(t, &Program{},
		ThatIok().WithStdin("if true {\n1\n}\n2\n").WritesStderr("iok$ ... ... iok$ iok$ "),
		ThatIok("-config", "bad.yaml").WithStdin("1\n").
			WritesStdout("-> 1\n").
			WritesStderrContaining("Using the default configuration."),
	)
}

func TestInteract_History(t *testing.T) {
	setupCleanHomePaths(t)
	testutil.InTempDir(t)

	Test(t, &Program{},
		ThatIok("-db", "history.db").WithStdin("dbg(1)\n\nfn f() {\nret 2\n}\n").
			WritesStdout("1\n").WritesStderrContaining("> "),
	)

	st := must.OK1(store.NewStore("history.db"))
	defer st.Close()
	cmds := must.OK1(st.LastCmds(10))
	if len(cmds) != 2 || cmds[0].Text != "dbg(1)" || cmds[1].Text != "fn f() {\nret 2\n}" {
		t.Errorf("got history %v", cmds)
	}
}

func TestInteract_DefaultHistoryPath(t *testing.T) {
	home := setupCleanHomePaths(t)
	testutil.InTempDir(t)

	Test(t, &Program{},
		ThatIok().WithStdin("dbg(1)\n").WritesStdout("1\n").WritesStderrContaining("> "),
	)
	if _, err := os.Stat(filepath.Join(home, "state", "iok", "history.db")); err != nil {
		t.Errorf("history database not created: %v", err)
	}
}

func TestInteract_LoadsHistoryIntoEditor(t *testing.T) {
	st := store.MustTempStore(t)
	for _, cmd := range []string{"a", "b", "c"} {
		must.OK1(st.AddCmd(cmd))
	}
	ed := &fakeEditor{}
	testutil.Set(t, &newEditor, func([3]*os.File, *eval.Evaler) editor { return ed })

	cfg := DefaultConfig()
	cfg.HistorySize = 2
	r, w := must.Pipe()
	defer r.Close()
	defer w.Close()
	Interact([3]*os.File{r, w, w}, eval.NewEvaler(), &InteractConfig{Config: cfg, Store: st})

	if len(ed.history) != 2 || ed.history[0] != "b" || ed.history[1] != "c" {
		t.Errorf("editor got history %v, want [b c]", ed.history)
	}
	if !ed.closed {
		t.Errorf("editor not closed")
	}
}

// An editor with no input.
type fakeEditor struct {
	history []string
	closed  bool
}

func (ed *fakeEditor) ReadLine(string) (string, error) { return "", io.EOF }
func (ed *fakeEditor) AddHistory(code string)          { ed.history = append(ed.history, code) }
func (ed *fakeEditor) Close() error                    { ed.closed = true; return nil }

func TestComplete(t *testing.T) {
	ev := eval.NewEvaler()
	must.OK1(ev.Eval(parse.SourceForTest("let counter = 0\nfn count_up() => 1"), eval.EvalCfg{}))

	tests := []struct {
		line string
		want []string
	}{
		{"", nil},
		{"dbg(", nil},
		{"dbg(cou", []string{"dbg(count_up", "dbg(counter"}},
		{"whi", []string{"while"}},
		{"x = wr", []string{"x = write"}},
	}
	for _, test := range tests {
		got := complete(ev, test.line)
		sort.Strings(got)
		if !reflect.DeepEqual(got, test.want) {
			t.Errorf("complete(%q) -> %q, want %q", test.line, got, test.want)
		}
	}
}
