package vals

import "testing"

// Tester is a helper for testing properties of a value.
type Tester struct {
	t *testing.T
	v Value
}

// TestValue returns a Tester.
func TestValue(t *testing.T, v Value) Tester {
	return Tester{t, v}
}

// Kind tests the Kind of the value.
func (vt Tester) Kind(wantKind Kind) Tester {
	vt.t.Helper()
	kind := KindOf(vt.v)
	if kind != wantKind {
		vt.t.Errorf("Kind(v) = %s, want %s", kind, wantKind)
	}
	return vt
}

// Len tests the Len of the value.
func (vt Tester) Len(wantLen int) Tester {
	vt.t.Helper()
	n, ok := Len(vt.v)
	if !ok {
		vt.t.Errorf("Len(v) not supported, want %v", wantLen)
	} else if n != wantLen {
		vt.t.Errorf("Len(v) = %v, want %v", n, wantLen)
	}
	return vt
}

// Repr tests the Repr of the value.
func (vt Tester) Repr(wantRepr string) Tester {
	vt.t.Helper()
	repr := Repr(vt.v)
	if repr != wantRepr {
		vt.t.Errorf("Repr(v) = %s, want %s", repr, wantRepr)
	}
	return vt
}

// String tests the ToString of the value.
func (vt Tester) String(wantString string) Tester {
	vt.t.Helper()
	s := ToString(vt.v)
	if s != wantString {
		vt.t.Errorf("ToString(v) = %s, want %s", s, wantString)
	}
	return vt
}

// Equal tests that the value is Equal to every of the given values.
func (vt Tester) Equal(others ...Value) Tester {
	vt.t.Helper()
	for _, other := range others {
		if !Equal(vt.v, other) {
			vt.t.Errorf("Equal(v, %s) = false, want true", Repr(other))
		}
	}
	return vt
}

// NotEqual tests that the value is not Equal to any of the given values.
func (vt Tester) NotEqual(others ...Value) Tester {
	vt.t.Helper()
	for _, other := range others {
		if Equal(vt.v, other) {
			vt.t.Errorf("Equal(v, %s) = true, want false", Repr(other))
		}
	}
	return vt
}
