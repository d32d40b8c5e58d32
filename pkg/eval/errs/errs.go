// Package errs declares the reasons of runtime errors.
//
// Each reason is an error value that reports its [Kind]. The evaluator wraps
// reasons in an exception that also records where the error happened.
package errs

import (
	"fmt"
	"strconv"
)

// Kind classifies runtime errors.
type Kind int

// Kind values.
const (
	UndefinedName Kind = iota
	TypeMismatch
	IndexOutOfRange
	UnknownField
	UnknownMethod
	ArityMismatchKind
	DivisionByZero
	UnresolvedImport
	ReadOnlyName
	BadValue
)

var kindNames = [...]string{
	UndefinedName:     "UndefinedName",
	TypeMismatch:      "TypeMismatch",
	IndexOutOfRange:   "IndexOutOfRange",
	UnknownField:      "UnknownField",
	UnknownMethod:     "UnknownMethod",
	ArityMismatchKind: "ArityMismatch",
	DivisionByZero:    "DivisionByZero",
	UnresolvedImport:  "UnresolvedImport",
	ReadOnlyName:      "ReadOnlyName",
	BadValue:          "BadValue",
}

func (k Kind) String() string {
	if 0 <= k && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Reason is implemented by all error reasons in this package.
type Reason interface {
	error
	ErrorKind() Kind
}

// Undefined is returned when a name is looked up or assigned but not bound.
type Undefined struct {
	Name string
}

func (e Undefined) Error() string { return "variable not found: " + e.Name }

func (Undefined) ErrorKind() Kind { return UndefinedName }

// ReadOnly is returned when assigning to a builtin.
type ReadOnly struct {
	Name string
}

func (e ReadOnly) Error() string { return "cannot assign to builtin " + e.Name }

func (ReadOnly) ErrorKind() Kind { return ReadOnlyName }

// BadType is returned when an operation is applied to a value of the wrong
// kind.
type BadType struct {
	// Describes the operand, e.g. "left operand of +".
	What  string
	Valid string
	// The kind of the offending value.
	Actual string
}

func (e BadType) Error() string {
	return fmt.Sprintf("wrong type: %s must be %s, but is %s", e.What, e.Valid, e.Actual)
}

func (BadType) ErrorKind() Kind { return TypeMismatch }

// IncompatibleOperands is returned when a binary operator does not support
// the combination of operand kinds.
type IncompatibleOperands struct {
	Op          string
	Left, Right string
}

func (e IncompatibleOperands) Error() string {
	return fmt.Sprintf("wrong type: cannot apply %s to %s and %s", e.Op, e.Left, e.Right)
}

func (IncompatibleOperands) ErrorKind() Kind { return TypeMismatch }

// OutOfRange is returned when an index is out of range.
type OutOfRange struct {
	What      string
	ValidLow  int
	ValidHigh int
	Actual    string
}

func (e OutOfRange) Error() string {
	if e.ValidHigh < e.ValidLow {
		return fmt.Sprintf(
			"out of range: %s has no valid value, but is %s", e.What, e.Actual)
	}
	return fmt.Sprintf(
		"out of range: %s must be from %d to %d, but is %s",
		e.What, e.ValidLow, e.ValidHigh, e.Actual)
}

func (OutOfRange) ErrorKind() Kind { return IndexOutOfRange }

// NoField is returned when a struct literal or a field access names an
// undeclared field.
type NoField struct {
	Struct string
	Field  string
}

func (e NoField) Error() string {
	return fmt.Sprintf("unknown field: %s has no field %s", e.Struct, e.Field)
}

func (NoField) ErrorKind() Kind { return UnknownField }

// NoMethod is returned when a method call names a method the receiver does
// not have.
type NoMethod struct {
	// Describes the receiver, e.g. "P" or "array".
	Receiver string
	Method   string
}

func (e NoMethod) Error() string {
	return fmt.Sprintf("unknown method: %s has no method %s", e.Receiver, e.Method)
}

func (NoMethod) ErrorKind() Kind { return UnknownMethod }

// ArityMismatch is returned when a callable is called with the wrong number
// of arguments. ValidHigh is -1 when there is no upper bound.
type ArityMismatch struct {
	What      string
	ValidLow  int
	ValidHigh int
	Actual    int
}

func (e ArityMismatch) Error() string {
	switch {
	case e.ValidHigh == e.ValidLow:
		return fmt.Sprintf("arity mismatch: %s must be %s, but is %s",
			e.What, nValues(e.ValidLow), nValues(e.Actual))
	case e.ValidHigh == -1:
		return fmt.Sprintf("arity mismatch: %s must be %s or more values, but is %s",
			e.What, strconv.Itoa(e.ValidLow), nValues(e.Actual))
	default:
		return fmt.Sprintf("arity mismatch: %s must be %s to %s, but is %s",
			e.What, strconv.Itoa(e.ValidLow), nValues(e.ValidHigh), nValues(e.Actual))
	}
}

func (ArityMismatch) ErrorKind() Kind { return ArityMismatchKind }

func nValues(n int) string {
	if n == 1 {
		return "1 value"
	}
	return strconv.Itoa(n) + " values"
}

// DivideByZero is returned for division or modulo by zero.
type DivideByZero struct {
	Op string
}

func (e DivideByZero) Error() string { return "division by zero in " + e.Op }

func (DivideByZero) ErrorKind() Kind { return DivisionByZero }

// Unresolved is returned when an import path cannot be resolved.
type Unresolved struct {
	Path string
	// Why resolution failed, if known.
	Cause error
}

func (e Unresolved) Error() string {
	if e.Cause != nil {
		return "cannot resolve import " + e.Path + ": " + e.Cause.Error()
	}
	return "cannot resolve import " + e.Path
}

func (e Unresolved) Unwrap() error { return e.Cause }

func (Unresolved) ErrorKind() Kind { return UnresolvedImport }

// Bad is returned when a value has the right kind but is not acceptable,
// such as a negative repeat count or an out-of-range shift amount.
type Bad struct {
	What   string
	Valid  string
	Actual string
}

func (e Bad) Error() string {
	return fmt.Sprintf("bad value: %s must be %s, but is %s", e.What, e.Valid, e.Actual)
}

func (Bad) ErrorKind() Kind { return BadValue }
