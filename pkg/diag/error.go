package diag

import (
	"errors"

	"src.iok.sh/pkg/strutil"
)

// ErrorTag is used to parameterize [Error] into different concrete types. The
// ErrorTag method is called with a zero receiver, and its return value is
// used in [Error.Error] and [Error.Show].
type ErrorTag interface {
	ErrorTag() string
}

// Error represents an error with a context that can be shown.
type Error[T ErrorTag] struct {
	Message string
	Context Context
	// Indicates whether the error may be caused by partial input. More input
	// appended to the source may make the error go away.
	Partial bool
}

// Error returns a plain text representation of the error.
func (e *Error[T]) Error() string {
	return errorTag[T]() + ": " + e.Context.Describe() + ": " + e.Message
}

// Range returns the range of the error.
func (e *Error[T]) Range() Ranging {
	return e.Context.Range()
}

var (
	messageStart = "\033[31;1m"
	messageEnd   = "\033[m"
)

// Show shows the error.
func (e *Error[T]) Show(indent string) string {
	return strutil.Title(errorTag[T]()) + ": " +
		messageStart + e.Message + messageEnd + "\n" +
		indent + "  " + e.Context.ShowCompact(indent+"  ")
}

func errorTag[T ErrorTag]() string {
	var t T
	return t.ErrorTag()
}

// PackErrors packs multiple instances of [Error] with the same tag into one
// error. It returns nil when given no errors and the only error when given
// one.
func PackErrors[T ErrorTag](errs []*Error[T]) error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	}
	list := make([]error, len(errs))
	for i, err := range errs {
		list[i] = err
	}
	return errors.Join(list...)
}

// UnpackErrors returns the constituent [Error] instances in an error if it is
// built from [PackErrors], or the error itself if it is an *Error[T]. In all
// other cases it returns nil.
func UnpackErrors[T ErrorTag](err error) []*Error[T] {
	switch err := err.(type) {
	case *Error[T]:
		return []*Error[T]{err}
	case interface{ Unwrap() []error }:
		var errs []*Error[T]
		for _, e := range err.Unwrap() {
			if e, ok := e.(*Error[T]); ok {
				errs = append(errs, e)
			} else {
				return nil
			}
		}
		return errs
	}
	return nil
}
