package eval

import (
	"src.iok.sh/pkg/eval/errs"
	"src.iok.sh/pkg/eval/vals"
	"src.iok.sh/pkg/parse"
)

// Closure is a function defined in code, together with the scope it was
// defined in. Each Closure has its unique identity.
type Closure struct {
	Fn  *parse.FnLit
	Src parse.Source
	// The defining scope. Free names are looked up in it at call time.
	captured *Env
}

// Name returns the name of the function, or "" if it is anonymous.
func (c *Closure) Name() string { return c.Fn.Name }

func (*Closure) Kind() vals.Kind { return vals.FnKind }

func (c *Closure) Repr(func(vals.Value) string) string {
	if c.Fn.Name == "" {
		return "<fn>"
	}
	return "<fn " + c.Fn.Name + ">"
}

func (c *Closure) call(fm *frame, args []vals.Value) (vals.Value, error) {
	return callFnLit(fm, c.Fn, c.Src, c.captured, nil, args)
}

// Calls a function literal. The parameters, and self if non-nil, are bound
// in a new scope whose parent is the defining scope.
func callFnLit(fm *frame, fn *parse.FnLit, src parse.Source, captured *Env,
	self *StructInstance, args []vals.Value) (vals.Value, error) {

	if len(args) != len(fn.Params) {
		what := "arguments"
		if fn.Name != "" {
			what += " of " + fn.Name
		}
		return nil, errs.ArityMismatch{What: what,
			ValidLow: len(fn.Params), ValidHigh: len(fn.Params), Actual: len(args)}
	}
	env := NewEnv(captured)
	if self != nil {
		env.Declare("self", self)
	}
	for i, param := range fn.Params {
		env.Declare(param.Name, args[i])
	}
	callee := fm.fork(src, env)
	if fn.Arrow != nil {
		return callee.evalExpr(fn.Arrow)
	}
	_, err := callee.execStmts(fn.Body.Stmts)
	if err != nil {
		if r, ok := err.(retFlow); ok {
			return r.value, nil
		}
		return nil, err
	}
	return vals.Null{}, nil
}
