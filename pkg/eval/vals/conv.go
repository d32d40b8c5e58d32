package vals

// Len returns the length of a string or an array, and false for other kinds.
func Len(v Value) (int, bool) {
	switch v := v.(type) {
	case *Str:
		return v.Len(), true
	case *Array:
		return v.Len(), true
	case Range:
		return int(v.Len()), true
	}
	return 0, false
}

// ToFloat converts an Int or a Float to float64. It returns false for other
// kinds.
func ToFloat(v Value) (float64, bool) {
	switch v := v.(type) {
	case Int:
		return float64(v), true
	case Float:
		return float64(v), true
	}
	return 0, false
}

// IsNumber reports whether v is an Int or a Float.
func IsNumber(v Value) bool {
	_, ok := ToFloat(v)
	return ok
}

// FromGo converts a Go value to a Value. It supports nil, bool, the signed
// integer types, float64, string, []Value and Value itself; other types
// panic. It is mostly useful in tests and native modules.
func FromGo(x any) Value {
	switch x := x.(type) {
	case nil:
		return Null{}
	case Value:
		return x
	case bool:
		return Bool(x)
	case int:
		return Int(x)
	case int64:
		return Int(x)
	case float64:
		return Float(x)
	case string:
		return NewStr(x)
	case []Value:
		return NewArray(x...)
	}
	panic("vals.FromGo: unsupported type")
}

// MakeArray builds an *Array from Go values, converting each with FromGo.
func MakeArray(xs ...any) *Array {
	elems := make([]Value, len(xs))
	for i, x := range xs {
		elems[i] = FromGo(x)
	}
	return NewArray(elems...)
}
