// Package eval implements the evaluator of the iok language.
//
// An [Evaler] holds a persistent global scope. Each call to Eval parses a
// source and executes it statement by statement, directly walking the syntax
// tree produced by package parse.
package eval

import (
	"errors"
	"io"
	"sort"
	"strings"
	"sync"

	"src.iok.sh/pkg/diag"
	"src.iok.sh/pkg/eval/errs"
	"src.iok.sh/pkg/eval/vals"
	"src.iok.sh/pkg/logutil"
	"src.iok.sh/pkg/parse"
)

var logger = logutil.GetLogger("[eval] ")

// Maximum depth of nested calls.
const maxCallDepth = 10000

// Evaler provides methods for evaluating code. An Evaler is safe to use
// from multiple goroutines; evaluations are serialized.
type Evaler struct {
	mu       sync.Mutex
	global   *Env
	resolver Resolver
}

// EvalCfg keeps configuration for (*Evaler).Eval.
type EvalCfg struct {
	// Where dbg and write write to. Nil means discarding the output.
	Stdout io.Writer
}

// Module is a set of bindings that can be imported.
type Module struct {
	Name     string
	Bindings map[string]vals.Value
}

// Names returns the names of the bindings, sorted.
func (m *Module) Names() []string {
	names := make([]string, 0, len(m.Bindings))
	for name := range m.Bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ErrNoModule is returned by a Resolver when no module has the given path.
var ErrNoModule = errors.New("no such module")

// Resolver resolves the module paths of import statements.
type Resolver interface {
	// Resolve returns the module with the given path. It returns an error
	// wrapping ErrNoModule if there is no such module.
	Resolve(ctx ResolveCtx, path []string) (*Module, error)
}

// ResolveCtx is passed to Resolver.Resolve.
type ResolveCtx struct {
	// The source containing the import statement.
	From parse.Source
	// Load evaluates a source in a fresh global scope and returns its
	// top-level bindings as a module.
	Load func(src parse.Source) (*Module, error)
}

// NewEvaler creates a new Evaler with an empty global scope and no resolver.
func NewEvaler() *Evaler {
	return &Evaler{global: NewEnv(nil)}
}

// SetResolver sets the resolver used for imports. With no resolver every
// import fails.
func (ev *Evaler) SetResolver(r Resolver) {
	ev.mu.Lock()
	defer ev.mu.Unlock()
	ev.resolver = r
}

// Global returns the global scope.
func (ev *Evaler) Global() *Env {
	ev.mu.Lock()
	defer ev.mu.Unlock()
	return ev.global
}

// AddGlobal binds a name in the global scope.
func (ev *Evaler) AddGlobal(name string, v vals.Value) {
	ev.mu.Lock()
	defer ev.mu.Unlock()
	ev.global.Declare(name, v)
}

// Check parses a source without evaluating it.
func (ev *Evaler) Check(src parse.Source) (*parse.Program, error) {
	return parse.Parse(src)
}

// Eval parses and evaluates a source in the global scope. It returns the
// value of a top-level ret statement if one is executed. Otherwise it
// returns the value of the last statement if that is an expression other
// than an assignment, and null in all other cases.
//
// The error is a lex or parse error, an *Exception, or an *ExitError when
// the code calls exit.
func (ev *Evaler) Eval(src parse.Source, cfg EvalCfg) (vals.Value, error) {
	prog, err := parse.Parse(src)
	if err != nil {
		return nil, err
	}
	ev.mu.Lock()
	defer ev.mu.Unlock()
	fm := ev.newFrame(src, cfg, ev.global)
	return fm.execProgram(prog)
}

func (ev *Evaler) newFrame(src parse.Source, cfg EvalCfg, env *Env) *frame {
	out := cfg.Stdout
	if out == nil {
		out = io.Discard
	}
	return &frame{&evalState{ev: ev, out: out}, src, env}
}

// State shared by all frames of one evaluation.
type evalState struct {
	ev    *Evaler
	out   io.Writer
	depth int
}

// A frame is the context of executing code: the source the code comes
// from and the current scope.
type frame struct {
	*evalState
	src parse.Source
	env *Env
}

// Returns a frame executing in the given scope.
func (fm *frame) withEnv(env *Env) *frame {
	return &frame{fm.evalState, fm.src, env}
}

// Returns a frame executing code from another source.
func (fm *frame) fork(src parse.Source, env *Env) *frame {
	return &frame{fm.evalState, src, env}
}

// Returns an *Exception for a failure at the given node.
func (fm *frame) errorAt(r diag.Ranger, reason error) error {
	ctx := diag.NewContext(fm.src.Name, fm.src.Code, r)
	return &Exception{reason, []*diag.Context{ctx}}
}

// Carries the value of a ret statement to the enclosing call.
type retFlow struct {
	value vals.Value
}

func (retFlow) Error() string { return "ret outside of function" }

func (fm *frame) execProgram(prog *parse.Program) (vals.Value, error) {
	for _, imp := range prog.Imports() {
		if err := fm.importModule(imp); err != nil {
			return nil, err
		}
	}
	v, err := fm.execStmts(prog.Stmts)
	if r, ok := err.(retFlow); ok {
		return r.value, nil
	}
	return v, err
}

func (fm *frame) importModule(imp *parse.ImportStmt) error {
	path := strings.Join(imp.Path, "::")
	if fm.ev.resolver == nil {
		return fm.errorAt(imp, errs.Unresolved{Path: path})
	}
	ctx := ResolveCtx{From: fm.src, Load: fm.loadModule}
	mod, err := fm.ev.resolver.Resolve(ctx, imp.Path)
	if err == nil {
		logger.Printf("importing module %s", path)
		for name, v := range mod.Bindings {
			fm.env.Declare(name, v)
		}
		return nil
	}
	var exit *ExitError
	if errors.As(err, &exit) {
		return exit
	} else if !errors.Is(err, ErrNoModule) {
		return fm.errorAt(imp, errs.Unresolved{Path: path, Cause: err})
	}
	if n := len(imp.Path); n > 1 {
		mod, err := fm.ev.resolver.Resolve(ctx, imp.Path[:n-1])
		if err == nil {
			name := imp.Path[n-1]
			if v, ok := mod.Bindings[name]; ok {
				logger.Printf("importing %s from module %s", name, mod.Name)
				fm.env.Declare(name, v)
				return nil
			}
			return fm.errorAt(imp, errs.Unresolved{Path: path,
				Cause: errors.New("module " + mod.Name + " has no member " + name)})
		} else if errors.As(err, &exit) {
			return exit
		} else if !errors.Is(err, ErrNoModule) {
			return fm.errorAt(imp, errs.Unresolved{Path: path, Cause: err})
		}
	}
	return fm.errorAt(imp, errs.Unresolved{Path: path})
}

// Evaluates a source as a module. It shares the output and call depth of
// the importing evaluation.
func (fm *frame) loadModule(src parse.Source) (*Module, error) {
	prog, err := parse.Parse(src)
	if err != nil {
		return nil, err
	}
	env := NewEnv(nil)
	if _, err := fm.fork(src, env).execProgram(prog); err != nil {
		return nil, err
	}
	mod := &Module{Name: src.Name, Bindings: make(map[string]vals.Value, len(env.vars))}
	for name, v := range env.vars {
		mod.Bindings[name] = v
	}
	return mod, nil
}
