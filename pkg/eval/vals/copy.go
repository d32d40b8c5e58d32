package vals

// Copier is implemented by values defined outside this package that contain
// other values. DeepCopy must call remember with the new value before
// copying any contents, so that cycles through it terminate.
type Copier interface {
	Value
	DeepCopy(remember func(Value), copy func(Value) Value) Value
}

// DeepCopy returns a copy of v that shares no mutable state with it. Strings
// and arrays are copied recursively; aliasing within v is preserved in the
// copy. Immutable values are returned as is.
func DeepCopy(v Value) Value {
	c := copier{copies: map[Value]Value{}}
	return c.copy(v)
}

type copier struct {
	copies map[Value]Value
}

func (c *copier) copy(v Value) Value {
	switch v := v.(type) {
	case *Str:
		if done, ok := c.copies[v]; ok {
			return done
		}
		s := NewStrFromRunes(v.Runes())
		c.copies[v] = s
		return s
	case *Array:
		if done, ok := c.copies[v]; ok {
			return done
		}
		a := &Array{make([]Value, len(v.Elems))}
		c.copies[v] = a
		for i, e := range v.Elems {
			a.Elems[i] = c.copy(e)
		}
		return a
	case Copier:
		if done, ok := c.copies[v]; ok {
			return done
		}
		return v.DeepCopy(func(dup Value) { c.copies[v] = dup }, c.copy)
	}
	return v
}
