// Package vals contains the runtime value model of the language.
//
// Every value implements [Value]. The primitive and container kinds are
// defined here; functions and structs, whose behavior depends on the
// evaluator, are defined in package eval and hook into this package through
// the [Reprer], [Equaler] and [Copier] interfaces.
package vals

import "fmt"

// Kind is the tag of a value. Operations switch on it exhaustively.
type Kind int

// Kind values.
const (
	NullKind Kind = iota
	BoolKind
	IntKind
	FloatKind
	StringKind
	ArrayKind
	RangeKind
	FnKind
	StructDefKind
	StructKind
)

var kindNames = [...]string{
	NullKind:      "null",
	BoolKind:      "bool",
	IntKind:       "int",
	FloatKind:     "float",
	StringKind:    "string",
	ArrayKind:     "array",
	RangeKind:     "range",
	FnKind:        "fn",
	StructDefKind: "struct definition",
	StructKind:    "struct",
}

func (k Kind) String() string {
	if 0 <= k && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Value is a runtime value.
type Value interface {
	Kind() Kind
}

// KindOf returns the kind of v, treating a nil interface as null.
func KindOf(v Value) Kind {
	if v == nil {
		return NullKind
	}
	return v.Kind()
}

// Null is the null value.
type Null struct{}

// Bool is a boolean.
type Bool bool

// Int is a signed 64-bit integer. Arithmetic wraps around on overflow.
type Int int64

// Float is a 64-bit floating-point number.
type Float float64

// Range is the half-open integer range [Start, End) with step 1.
type Range struct {
	Start, End int64
}

func (Null) Kind() Kind  { return NullKind }
func (Bool) Kind() Kind  { return BoolKind }
func (Int) Kind() Kind   { return IntKind }
func (Float) Kind() Kind { return FloatKind }
func (Range) Kind() Kind { return RangeKind }

// Len returns the number of integers in the range.
func (r Range) Len() int64 {
	if r.End <= r.Start {
		return 0
	}
	return r.End - r.Start
}
