package eval

import (
	"errors"
	"strconv"
	"strings"

	"src.iok.sh/pkg/diag"
	"src.iok.sh/pkg/eval/errs"
)

// Exception is a runtime error, returned by (*Evaler).Eval. It carries the
// reason and the places it propagated through.
type Exception struct {
	Reason error
	// The innermost context comes first: the expression that failed,
	// followed by each call site the error propagated through.
	StackTrace []*diag.Context
}

// Error returns the message of the reason.
func (exc *Exception) Error() string { return exc.Reason.Error() }

// Unwrap returns the reason.
func (exc *Exception) Unwrap() error { return exc.Reason }

// Show shows the exception with its kind and stack trace.
func (exc *Exception) Show(indent string) string {
	var sb strings.Builder
	sb.WriteString("Exception: \033[31;1m")
	if kind, ok := ErrorKind(exc); ok {
		sb.WriteString(kind.String() + ": ")
	}
	sb.WriteString(exc.Reason.Error() + "\033[m")
	switch len(exc.StackTrace) {
	case 0:
	case 1:
		sb.WriteString("\n" + indent + exc.StackTrace[0].ShowCompact(indent))
	default:
		sb.WriteString("\n" + indent + "Traceback:")
		for _, ctx := range exc.StackTrace {
			sb.WriteString("\n" + indent + "  " + ctx.Show(indent+"    "))
		}
	}
	return sb.String()
}

// ErrorKind returns the kind of a runtime error, and false if err does not
// contain a reason with a kind.
func ErrorKind(err error) (errs.Kind, bool) {
	var r errs.Reason
	if errors.As(err, &r) {
		return r.ErrorKind(), true
	}
	return 0, false
}

// ExitError is returned by Eval when the code calls exit.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string { return "exit(" + strconv.Itoa(e.Code) + ")" }
