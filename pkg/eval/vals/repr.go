package vals

import (
	"math"
	"strconv"
	"strings"

	"src.iok.sh/pkg/parse"
)

// Reprer is implemented by values defined outside this package. The nested
// function returns the representation of a contained value and guards
// against cycles.
type Reprer interface {
	Value
	Repr(nested func(Value) string) string
}

// Repr returns the debug representation of v, as written by dbg: strings are
// quoted, arrays are bracketed and structs show their named fields.
func Repr(v Value) string {
	p := printer{}
	return p.repr(v)
}

// ToString returns the display representation of v, as written by write.
// Strings are written unquoted; other values use their debug
// representation.
func ToString(v Value) string {
	if s, ok := v.(*Str); ok {
		return s.String()
	}
	return Repr(v)
}

type printer struct {
	// Composite values being printed, for detecting cycles.
	active map[Value]bool
}

func (p *printer) repr(v Value) string {
	switch v := v.(type) {
	case nil, Null:
		return "null"
	case Bool:
		return strconv.FormatBool(bool(v))
	case Int:
		return strconv.FormatInt(int64(v), 10)
	case Float:
		return FormatFloat(float64(v))
	case *Str:
		return parse.Quote(v.String())
	case Range:
		return strconv.FormatInt(v.Start, 10) + ".." + strconv.FormatInt(v.End, 10)
	case *Array:
		if !p.enter(v) {
			return "[...]"
		}
		defer p.leave(v)
		var sb strings.Builder
		sb.WriteByte('[')
		for i, e := range v.Elems {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(p.repr(e))
		}
		sb.WriteByte(']')
		return sb.String()
	case Reprer:
		if !p.enter(v) {
			return "..."
		}
		defer p.leave(v)
		return v.Repr(p.repr)
	}
	return "<unknown>"
}

func (p *printer) enter(v Value) bool {
	if p.active == nil {
		p.active = map[Value]bool{}
	}
	if p.active[v] {
		return false
	}
	p.active[v] = true
	return true
}

func (p *printer) leave(v Value) { delete(p.active, v) }

// FormatFloat formats a float. Integral values get a ".0" suffix so that they
// are distinguishable from Int values.
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	// The 'g' format switches to scientific notation too eagerly, printing
	// 1234567.0 as 1.234567e+06; use it only for very large and very small
	// magnitudes.
	s := strconv.FormatFloat(f, 'f', -1, 64)
	noPoint := !strings.ContainsRune(s, '.')
	if (noPoint && len(s) > 14 && s[len(s)-1] == '0') ||
		strings.HasPrefix(strings.TrimPrefix(s, "-"), "0.0000") {
		return strconv.FormatFloat(f, 'e', -1, 64)
	} else if noPoint {
		return s + ".0"
	}
	return s
}
