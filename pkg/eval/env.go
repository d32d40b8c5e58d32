package eval

import (
	"sort"

	"src.iok.sh/pkg/eval/errs"
	"src.iok.sh/pkg/eval/vals"
)

// Env is one scope of the environment chain. Lookup walks the chain outward
// from the innermost scope; the outermost scope is the shared builtin scope,
// which cannot be assigned to.
type Env struct {
	parent   *Env
	vars     map[string]vals.Value
	readOnly bool
}

// NewEnv returns an empty scope whose parent is the given scope. A nil parent
// means the builtin scope.
func NewEnv(parent *Env) *Env {
	if parent == nil {
		parent = builtinEnv
	}
	return &Env{parent: parent, vars: map[string]vals.Value{}}
}

// Parent returns the enclosing scope. It returns nil for the builtin scope.
func (e *Env) Parent() *Env { return e.parent }

// Lookup finds the nearest binding of name.
func (e *Env) Lookup(name string) (vals.Value, bool) {
	for ; e != nil; e = e.parent {
		if v, ok := e.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Declare binds name in this scope, shadowing any outer binding and
// replacing a binding already in this scope.
func (e *Env) Declare(name string, v vals.Value) {
	e.vars[name] = v
}

// Assign updates the nearest binding of name. It fails if name is unbound
// or only bound in the builtin scope.
func (e *Env) Assign(name string, v vals.Value) error {
	for ; e != nil; e = e.parent {
		if _, ok := e.vars[name]; ok {
			if e.readOnly {
				return errs.ReadOnly{Name: name}
			}
			e.vars[name] = v
			return nil
		}
	}
	return errs.Undefined{Name: name}
}

// Names returns the names bound in this scope, sorted.
func (e *Env) Names() []string {
	names := make([]string, 0, len(e.vars))
	for name := range e.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AllNames returns the names visible from this scope, sorted and without
// duplicates.
func (e *Env) AllNames() []string {
	seen := map[string]bool{}
	var names []string
	for ; e != nil; e = e.parent {
		for name := range e.vars {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}
