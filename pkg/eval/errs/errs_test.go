package errs

import (
	"errors"
	"testing"
)

var errorMessageTests = []struct {
	err      Reason
	wantMsg  string
	wantKind Kind
}{
	{
		OutOfRange{What: "index", ValidLow: 0, ValidHigh: 2, Actual: "3"},
		"out of range: index must be from 0 to 2, but is 3",
		IndexOutOfRange,
	},
	{
		OutOfRange{What: "index", ValidLow: 0, ValidHigh: -1, Actual: "0"},
		"out of range: index has no valid value, but is 0",
		IndexOutOfRange,
	},
	{
		ArityMismatch{What: "arguments", ValidLow: 2, ValidHigh: 2, Actual: 3},
		"arity mismatch: arguments must be 2 values, but is 3 values",
		ArityMismatchKind,
	},
	{
		ArityMismatch{What: "arguments", ValidLow: 2, ValidHigh: -1, Actual: 1},
		"arity mismatch: arguments must be 2 or more values, but is 1 value",
		ArityMismatchKind,
	},
	{
		ArityMismatch{What: "arguments", ValidLow: 0, ValidHigh: 1, Actual: 2},
		"arity mismatch: arguments must be 0 to 1 value, but is 2 values",
		ArityMismatchKind,
	},
	{
		Undefined{Name: "x"},
		"variable not found: x",
		UndefinedName,
	},
	{
		ReadOnly{Name: "dbg"},
		"cannot assign to builtin dbg",
		ReadOnlyName,
	},
	{
		BadType{What: "condition", Valid: "bool", Actual: "int"},
		"wrong type: condition must be bool, but is int",
		TypeMismatch,
	},
	{
		IncompatibleOperands{Op: "+", Left: "string", Right: "int"},
		"wrong type: cannot apply + to string and int",
		TypeMismatch,
	},
	{
		NoField{Struct: "P", Field: "z"},
		"unknown field: P has no field z",
		UnknownField,
	},
	{
		NoMethod{Receiver: "P", Method: "m"},
		"unknown method: P has no method m",
		UnknownMethod,
	},
	{
		DivideByZero{Op: "/"},
		"division by zero in /",
		DivisionByZero,
	},
	{
		Unresolved{Path: "a::b"},
		"cannot resolve import a::b",
		UnresolvedImport,
	},
	{
		Unresolved{Path: "a::b", Cause: errors.New("import cycle")},
		"cannot resolve import a::b: import cycle",
		UnresolvedImport,
	},
	{
		Bad{What: "shift amount", Valid: "from 0 to 63", Actual: "64"},
		"bad value: shift amount must be from 0 to 63, but is 64",
		BadValue,
	},
}

func TestErrorMessages(t *testing.T) {
	for _, test := range errorMessageTests {
		if gotMsg := test.err.Error(); gotMsg != test.wantMsg {
			t.Errorf("got message %v, want %v", gotMsg, test.wantMsg)
		}
		if gotKind := test.err.ErrorKind(); gotKind != test.wantKind {
			t.Errorf("%v: got kind %v, want %v", test.err, gotKind, test.wantKind)
		}
	}
}

func TestKind_String(t *testing.T) {
	if s := ArityMismatchKind.String(); s != "ArityMismatch" {
		t.Errorf("got %q", s)
	}
	if s := Kind(99).String(); s != "Kind(99)" {
		t.Errorf("got %q", s)
	}
}
