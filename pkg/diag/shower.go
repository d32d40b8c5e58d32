package diag

import (
	"fmt"
	"io"
)

// Shower wraps the Show function.
type Shower interface {
	// Show takes an indentation string and shows.
	Show(indent string) string
}

// ShowError shows an error. It uses the Show method if the error implements
// Shower, or each constituent error if it was joined from several errors.
// Otherwise it prints the error message in bold and red.
func ShowError(w io.Writer, err error) {
	switch err := err.(type) {
	case Shower:
		fmt.Fprintln(w, err.Show(""))
	case interface{ Unwrap() []error }:
		for _, e := range err.Unwrap() {
			ShowError(w, e)
		}
	default:
		Complain(w, err.Error())
	}
}

// Complain prints a message to w in bold and red, adding a trailing newline.
func Complain(w io.Writer, msg string) {
	fmt.Fprintf(w, "\033[31;1m%s\033[m\n", msg)
}
