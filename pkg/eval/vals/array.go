package vals

// Array is an ordered, mutable sequence of values. It is a reference value:
// copies of an *Array share the same elements.
type Array struct {
	Elems []Value
}

// NewArray returns a new *Array containing the given values.
func NewArray(elems ...Value) *Array {
	return &Array{elems}
}

func (*Array) Kind() Kind { return ArrayKind }

// Len returns the number of elements.
func (a *Array) Len() int { return len(a.Elems) }

// Push appends v.
func (a *Array) Push(v Value) { a.Elems = append(a.Elems, v) }

// Pop removes and returns the last element. It returns false if the array is
// empty.
func (a *Array) Pop() (Value, bool) {
	if len(a.Elems) == 0 {
		return nil, false
	}
	v := a.Elems[len(a.Elems)-1]
	a.Elems = a.Elems[:len(a.Elems)-1]
	return v, true
}
