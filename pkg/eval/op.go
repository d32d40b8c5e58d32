package eval

import (
	"math"
	"strconv"

	"src.iok.sh/pkg/eval/errs"
	"src.iok.sh/pkg/eval/vals"
)

// Applies a binary operator other than && and ||. Errors are reasons
// without a position.
func binaryOp(op string, l, r vals.Value) (vals.Value, error) {
	switch op {
	case "==":
		return vals.Bool(vals.Equal(l, r)), nil
	case "!=":
		return vals.Bool(!vals.Equal(l, r)), nil
	case "<", "<=", ">", ">=":
		return compare(op, l, r)
	case "&", "|", "<<", ">>":
		return bitwise(op, l, r)
	case "+":
		if ls, ok := l.(*vals.Str); ok {
			if rs, ok := r.(*vals.Str); ok {
				return ls.Concat(rs), nil
			}
		}
		return arith(op, l, r)
	case "*":
		if v, ok, err := repeat(l, r); ok {
			return v, err
		}
		return arith(op, l, r)
	case "-", "/", "%":
		return arith(op, l, r)
	}
	panic("unhandled binary operator " + op)
}

func incompatible(op string, l, r vals.Value) error {
	return errs.IncompatibleOperands{
		Op: op, Left: vals.KindOf(l).String(), Right: vals.KindOf(r).String()}
}

func arith(op string, l, r vals.Value) (vals.Value, error) {
	if li, ok := l.(vals.Int); ok {
		if ri, ok := r.(vals.Int); ok {
			return intArith(op, li, ri)
		}
	}
	lf, lok := vals.ToFloat(l)
	rf, rok := vals.ToFloat(r)
	if !lok || !rok {
		return nil, incompatible(op, l, r)
	}
	switch op {
	case "+":
		return vals.Float(lf + rf), nil
	case "-":
		return vals.Float(lf - rf), nil
	case "*":
		return vals.Float(lf * rf), nil
	case "/":
		if rf == 0 {
			return nil, errs.DivideByZero{Op: op}
		}
		return vals.Float(lf / rf), nil
	case "%":
		if rf == 0 {
			return nil, errs.DivideByZero{Op: op}
		}
		return vals.Float(math.Mod(lf, rf)), nil
	}
	panic("unhandled arithmetic operator " + op)
}

// Int arithmetic wraps around on overflow; / and % truncate toward zero.
func intArith(op string, l, r vals.Int) (vals.Value, error) {
	switch op {
	case "+":
		return l + r, nil
	case "-":
		return l - r, nil
	case "*":
		return l * r, nil
	case "/":
		if r == 0 {
			return nil, errs.DivideByZero{Op: op}
		}
		return l / r, nil
	case "%":
		if r == 0 {
			return nil, errs.DivideByZero{Op: op}
		}
		return l % r, nil
	}
	panic("unhandled arithmetic operator " + op)
}

func compare(op string, l, r vals.Value) (vals.Value, error) {
	var c int
	if ls, ok := l.(*vals.Str); ok {
		rs, ok := r.(*vals.Str)
		if !ok {
			return nil, incompatible(op, l, r)
		}
		switch a, b := ls.String(), rs.String(); {
		case a < b:
			c = -1
		case a > b:
			c = 1
		}
	} else if li, ok := l.(vals.Int); ok && vals.KindOf(r) == vals.IntKind {
		ri := r.(vals.Int)
		switch {
		case li < ri:
			c = -1
		case li > ri:
			c = 1
		}
	} else {
		lf, lok := vals.ToFloat(l)
		rf, rok := vals.ToFloat(r)
		if !lok || !rok {
			return nil, incompatible(op, l, r)
		}
		switch {
		case lf < rf:
			c = -1
		case lf > rf:
			c = 1
		case lf != rf:
			// At least one operand is NaN; every comparison is false.
			return vals.Bool(false), nil
		}
	}
	switch op {
	case "<":
		return vals.Bool(c < 0), nil
	case "<=":
		return vals.Bool(c <= 0), nil
	case ">":
		return vals.Bool(c > 0), nil
	default:
		return vals.Bool(c >= 0), nil
	}
}

func bitwise(op string, l, r vals.Value) (vals.Value, error) {
	li, lok := l.(vals.Int)
	ri, rok := r.(vals.Int)
	if !lok || !rok {
		return nil, incompatible(op, l, r)
	}
	switch op {
	case "&":
		return li & ri, nil
	case "|":
		return li | ri, nil
	}
	if ri < 0 || ri > 63 {
		return nil, errs.Bad{What: "shift amount", Valid: "from 0 to 63",
			Actual: strconv.FormatInt(int64(ri), 10)}
	}
	if op == "<<" {
		return li << uint(ri), nil
	}
	return li >> uint(ri), nil
}

// Implements the repetition forms [e] * n, n * [e], "s" * n and n * "s". It
// returns false if the operands are not one of those forms.
func repeat(l, r vals.Value) (vals.Value, bool, error) {
	n, ok := r.(vals.Int)
	seq := l
	if !ok {
		n, ok = l.(vals.Int)
		seq = r
	}
	if !ok {
		return nil, false, nil
	}
	switch seq := seq.(type) {
	case *vals.Array:
		if n < 0 || tooLarge(n, seq.Len()*valueSize) {
			return nil, true, badRepeat(n)
		}
		if seq.Len() == 0 {
			return vals.NewArray(), true, nil
		}
		// Each element of every copy is a fresh value.
		elems := make([]vals.Value, 0, int(n)*seq.Len())
		for i := vals.Int(0); i < n; i++ {
			for _, e := range seq.Elems {
				elems = append(elems, vals.DeepCopy(e))
			}
		}
		return vals.NewArray(elems...), true, nil
	case *vals.Str:
		if n < 0 || tooLarge(n, seq.Len()*runeSize) {
			return nil, true, badRepeat(n)
		}
		if seq.Len() == 0 {
			return vals.NewStr(""), true, nil
		}
		return seq.Repeat(int(n)), true, nil
	}
	return nil, false, nil
}

// Maximum size in bytes of the storage allocated for the result of a
// repetition.
const maxRepeatBytes = 1 << 26

// Storage sizes of one array element and one string character.
const (
	valueSize = 16
	runeSize  = 4
)

func badRepeat(n vals.Int) error {
	return errs.Bad{What: "repeat count", Valid: "non-negative and within limits",
		Actual: strconv.FormatInt(int64(n), 10)}
}

// Reports whether n copies of something occupying size bytes exceed
// maxRepeatBytes.
func tooLarge(n vals.Int, size int) bool {
	return size > 0 && int64(n) > maxRepeatBytes/int64(size)
}
