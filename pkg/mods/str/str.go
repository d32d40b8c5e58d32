// Package str exposes functionality from Go's strings and strconv packages
// as the std::str module.
package str

import (
	"strconv"
	"strings"

	"src.iok.sh/pkg/eval"
	"src.iok.sh/pkg/eval/errs"
	"src.iok.sh/pkg/eval/vals"
)

// Module is the std::str module.
var Module = &eval.Module{Name: "std::str", Bindings: map[string]vals.Value{
	"upper":  eval.NewGoFn("upper", strings.ToUpper),
	"lower":  eval.NewGoFn("lower", strings.ToLower),
	"split":  eval.NewGoFn("split", split),
	"join":   eval.NewGoFn("join", join),
	"to_int": eval.NewGoFn("to_int", toInt),
	"to_str": eval.NewGoFn("to_str", vals.ToString),
}}

//iokdoc:fn split
//
// Splits a string around each instance of a separator. An empty separator
// splits after each character.

func split(s, sep string) *vals.Array {
	parts := strings.Split(s, sep)
	elems := make([]vals.Value, len(parts))
	for i, part := range parts {
		elems[i] = vals.NewStr(part)
	}
	return vals.NewArray(elems...)
}

//iokdoc:fn join
//
// Joins an array of strings with a separator.

func join(a *vals.Array, sep string) (string, error) {
	parts := make([]string, len(a.Elems))
	for i, e := range a.Elems {
		s, ok := e.(*vals.Str)
		if !ok {
			return "", errs.BadType{What: "element of joined array", Valid: "string",
				Actual: vals.KindOf(e).String()}
		}
		parts[i] = s.String()
	}
	return strings.Join(parts, sep), nil
}

//iokdoc:fn to_int
//
// Parses a decimal integer, with an optional sign.

func toInt(s string) (vals.Value, error) {
	i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return nil, errs.Bad{What: "argument of to_int", Valid: "a decimal integer",
			Actual: strconv.Quote(s)}
	}
	return vals.Int(i), nil
}

//iokdoc:fn to_str
//
// Converts a value to its display representation, the same as write uses.
