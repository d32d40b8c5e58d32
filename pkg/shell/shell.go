// Package shell is the entry point for running iok code: scripts, code given
// on the command line and the interactive REPL.
package shell

import (
	"fmt"
	"os"
	"path/filepath"

	"src.iok.sh/pkg/eval"
	"src.iok.sh/pkg/eval/vals"
	"src.iok.sh/pkg/logutil"
	"src.iok.sh/pkg/mods"
	"src.iok.sh/pkg/prog"
	"src.iok.sh/pkg/store"
	"src.iok.sh/pkg/store/storedefs"
)

var logger = logutil.GetLogger("[shell] ")

// Program is the shell subprogram. It is always run if all preceding
// subprograms in a composite return prog.ErrNextProgram.
type Program struct {
	codeInArg   bool
	compileOnly bool
	noRC        bool
	rc          string
	db          string
	config      string
	json        *bool
}

func (p *Program) RegisterFlags(fs *prog.FlagSet) {
	fs.BoolVar(&p.codeInArg, "c", false, "Take the first argument as code to execute")
	fs.BoolVar(&p.compileOnly, "compileonly", false, "Parse the script or code without executing it")
	fs.BoolVar(&p.noRC, "norc", false, "Don't read the RC file in interactive mode")
	fs.StringVar(&p.rc, "rc", "", "Path to the RC file in interactive mode")
	fs.StringVar(&p.db, "db", "", "Path to the history database in interactive mode")
	fs.StringVar(&p.config, "config", "", "Path to the configuration file")
	p.json = fs.JSON()
}

func (p *Program) Run(fds [3]*os.File, args []string) error {
	cfg := loadConfig(fds, p.config)
	ev := NewEvaler(append(cfg.LibPaths, EnvLibPaths()...)...)

	if p.codeInArg || len(args) > 0 {
		if len(args) == 0 {
			return prog.BadUsage("-c requires an argument")
		}
		exit := script(ev, fds, args, &scriptCfg{
			Cmd: p.codeInArg, CompileOnly: p.compileOnly, JSON: *p.json})
		return prog.Exit(exit)
	}
	if p.compileOnly {
		return prog.BadUsage("-compileonly requires a script or -c")
	}

	rc := ""
	if !p.noRC {
		rc = p.rc
		if rc == "" {
			var err error
			rc, err = RCPath()
			if err != nil {
				fmt.Fprintln(fds[2], "Warning:", err)
			}
		}
	}

	var st storedefs.Store
	if cfg.History {
		db, err := openStore(p.db)
		if err != nil {
			fmt.Fprintln(fds[2], "Warning:", err)
			fmt.Fprintln(fds[2], "Command history will not be saved.")
		} else {
			defer db.Close()
			st = db
		}
	}

	ev.AddGlobal("args", vals.NewArray())
	return prog.Exit(Interact(fds, ev, &InteractConfig{RC: rc, Config: cfg, Store: st}))
}

// NewEvaler returns an Evaler that resolves file modules in the given
// library directories, after the directory of the importing file.
func NewEvaler(libPaths ...string) *eval.Evaler {
	ev := eval.NewEvaler()
	ev.SetResolver(mods.NewResolver(libPaths...))
	return ev
}

func loadConfig(fds [3]*os.File, path string) *Config {
	if path == "" {
		var err error
		path, err = ConfigPath()
		if err != nil {
			logger.Println("no config path:", err)
			return DefaultConfig()
		}
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		fmt.Fprintln(fds[2], "Warning:", err)
		fmt.Fprintln(fds[2], "Using the default configuration.")
		return DefaultConfig()
	}
	return cfg
}

func openStore(path string) (store.DBStore, error) {
	if path == "" {
		var err error
		path, err = DBPath()
		if err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, err
	}
	return store.NewStore(path)
}
