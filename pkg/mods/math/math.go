// Package math exposes functionality from Go's math package as the
// std::math module.
package math

import (
	"math"

	"src.iok.sh/pkg/eval"
	"src.iok.sh/pkg/eval/errs"
	"src.iok.sh/pkg/eval/vals"
)

// Module is the std::math module.
var Module = &eval.Module{Name: "std::math", Bindings: map[string]vals.Value{
	"pi":    vals.Float(math.Pi),
	"abs":   eval.NewGoFn("abs", abs),
	"min":   eval.NewGoFn("min", min),
	"max":   eval.NewGoFn("max", max),
	"floor": eval.NewGoFn("floor", floor),
	"sqrt":  eval.NewGoFn("sqrt", math.Sqrt),
}}

//iokdoc:var pi
//
// The value of π: 3.141592....

//iokdoc:fn abs
//
// Computes the absolute value of a number. The absolute value of the most
// negative Int wraps around to itself.

func abs(n vals.Value) (vals.Value, error) {
	switch n := n.(type) {
	case vals.Int:
		if n < 0 {
			return -n, nil
		}
		return n, nil
	case vals.Float:
		return vals.Float(math.Abs(float64(n))), nil
	}
	return nil, errs.BadType{What: "argument of abs", Valid: "number", Actual: vals.KindOf(n).String()}
}

//iokdoc:fn floor
//
// Computes the floor of a number. Ints are returned unchanged.

func floor(n vals.Value) (vals.Value, error) {
	switch n := n.(type) {
	case vals.Int:
		return n, nil
	case vals.Float:
		return vals.Float(math.Floor(float64(n))), nil
	}
	return nil, errs.BadType{What: "argument of floor", Valid: "number", Actual: vals.KindOf(n).String()}
}

//iokdoc:fn min
//
// Returns the smallest of one or more numbers. The result is an Int if all
// arguments are Ints, and a Float otherwise.

func min(first vals.Value, rest ...vals.Value) (vals.Value, error) {
	return fold("min", first, rest, func(a, b float64) bool { return a < b })
}

//iokdoc:fn max
//
// Returns the largest of one or more numbers. The result is an Int if all
// arguments are Ints, and a Float otherwise.

func max(first vals.Value, rest ...vals.Value) (vals.Value, error) {
	return fold("max", first, rest, func(a, b float64) bool { return a > b })
}

func fold(name string, first vals.Value, rest []vals.Value, better func(a, b float64) bool) (vals.Value, error) {
	best := first
	allInt := true
	for i, v := range append([]vals.Value{first}, rest...) {
		f, ok := vals.ToFloat(v)
		if !ok {
			return nil, errs.BadType{What: "argument of " + name, Valid: "number",
				Actual: vals.KindOf(v).String()}
		}
		if _, isInt := v.(vals.Int); !isInt {
			allInt = false
		}
		if i > 0 {
			if b, _ := vals.ToFloat(best); better(f, b) {
				best = v
			}
		}
	}
	if !allInt {
		f, _ := vals.ToFloat(best)
		return vals.Float(f), nil
	}
	return best, nil
}
