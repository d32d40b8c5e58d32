package eval

import (
	"io"

	"src.iok.sh/pkg/eval/errs"
	"src.iok.sh/pkg/eval/vals"
)

// The root of every environment chain. It is shared by all Evalers and
// cannot be assigned to.
var builtinEnv = &Env{vars: map[string]vals.Value{
	"dbg":    NewGoFn("dbg", dbg),
	"write":  NewGoFn("write", write),
	"exit":   NewGoFn("exit", exit),
	"getvar": NewGoFn("getvar", getvar),
}, readOnly: true}

// BuiltinNames returns the names of all builtins, sorted.
func BuiltinNames() []string { return builtinEnv.Names() }

// IsBuiltin reports whether name is the name of a builtin.
func IsBuiltin(name string) bool {
	_, ok := builtinEnv.vars[name]
	return ok
}

//iokdoc:fn dbg
//
// Writes the debug representation of a value and a newline.

func dbg(c *CallCtx, v vals.Value) error {
	_, err := io.WriteString(c.Stdout(), vals.Repr(v)+"\n")
	return err
}

//iokdoc:fn write
//
// Writes the display representation of each value, without separators or a
// trailing newline.

func write(c *CallCtx, vs ...vals.Value) error {
	for _, v := range vs {
		if _, err := io.WriteString(c.Stdout(), vals.ToString(v)); err != nil {
			return err
		}
	}
	return nil
}

//iokdoc:fn exit
//
// Stops the evaluation. The host exits with the given code, 0 by default.

func exit(codes ...vals.Value) error {
	if len(codes) > 1 {
		return errs.ArityMismatch{What: "arguments of exit",
			ValidLow: 0, ValidHigh: 1, Actual: len(codes)}
	}
	code := 0
	if len(codes) == 1 {
		i, ok := codes[0].(vals.Int)
		if !ok {
			return errs.BadType{What: "exit code", Valid: "int",
				Actual: vals.KindOf(codes[0]).String()}
		}
		code = int(i)
	}
	return &ExitError{code}
}

//iokdoc:fn getvar
//
// Looks up a variable by name from the scope of the caller. Unbound names
// give null.

func getvar(c *CallCtx, name string) vals.Value {
	if v, ok := c.Lookup(name); ok {
		return v
	}
	return vals.Null{}
}
