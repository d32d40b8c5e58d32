package vals

// Equaler is implemented by values defined outside this package that compare
// structurally. The eq function compares contained values.
type Equaler interface {
	Value
	Equal(other Value, eq func(a, b Value) bool) bool
}

// Equal reports whether two values are equal. Numbers compare numerically
// across Int and Float; strings and arrays compare by contents; values of
// different kinds are unequal. Other values compare by identity unless they
// implement Equaler.
func Equal(a, b Value) bool {
	c := comparer{}
	return c.equal(a, b)
}

type comparer struct {
	// Pairs of composite values being compared, for terminating on cycles.
	active map[[2]Value]bool
}

func (c *comparer) equal(a, b Value) bool {
	if a == nil {
		a = Null{}
	}
	if b == nil {
		b = Null{}
	}
	switch a := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case Bool:
		b, ok := b.(Bool)
		return ok && a == b
	case Int:
		switch b := b.(type) {
		case Int:
			return a == b
		case Float:
			return float64(a) == float64(b)
		}
		return false
	case Float:
		switch b := b.(type) {
		case Int:
			return float64(a) == float64(b)
		case Float:
			return a == b
		}
		return false
	case *Str:
		b, ok := b.(*Str)
		return ok && (a == b || a.String() == b.String())
	case Range:
		b, ok := b.(Range)
		return ok && a == b
	case *Array:
		b, ok := b.(*Array)
		if !ok || len(a.Elems) != len(b.Elems) {
			return false
		}
		if a == b || !c.enter(a, b) {
			return true
		}
		defer c.leave(a, b)
		for i := range a.Elems {
			if !c.equal(a.Elems[i], b.Elems[i]) {
				return false
			}
		}
		return true
	case Equaler:
		if a == b || !c.enter(a, b) {
			return true
		}
		defer c.leave(a, b)
		return a.Equal(b, c.equal)
	}
	return a == b
}

func (c *comparer) enter(a, b Value) bool {
	if c.active == nil {
		c.active = map[[2]Value]bool{}
	}
	if c.active[[2]Value{a, b}] {
		return false
	}
	c.active[[2]Value{a, b}] = true
	return true
}

func (c *comparer) leave(a, b Value) { delete(c.active, [2]Value{a, b}) }
