package evaltest

import (
	"fmt"
	"reflect"

	"src.iok.sh/pkg/diag"
	"src.iok.sh/pkg/eval"
	"src.iok.sh/pkg/eval/errs"
	"src.iok.sh/pkg/parse"
)

type errorMatcher interface{ matchError(error) bool }

// An errorMatcher for exceptions.
type exc struct {
	reason error
	stacks []string
}

func (e exc) Error() string {
	if len(e.stacks) == 0 {
		return fmt.Sprintf("exception with reason %v", e.reason)
	}
	return fmt.Sprintf("exception with reason %v and stacks %v", e.reason, e.stacks)
}

func (e exc) matchError(e2 error) bool {
	if e2, ok := e2.(*eval.Exception); ok {
		return matchErr(e.reason, e2.Reason) &&
			(len(e.stacks) == 0 ||
				reflect.DeepEqual(e.stacks, getStackTexts(e2)))
	}
	return false
}

func getStackTexts(e *eval.Exception) []string {
	texts := []string{}
	for _, ctx := range e.StackTrace {
		texts = append(texts, ctx.Culprit())
	}
	return texts
}

// ErrorWithKind returns an error that can be passed to Case.Throws to match
// any reason with the given kind.
func ErrorWithKind(k errs.Kind) error { return errWithKind{k} }

type errWithKind struct{ k errs.Kind }

func (e errWithKind) Error() string { return "error with kind " + e.k.String() }

func (e errWithKind) matchError(e2 error) bool {
	k, ok := eval.ErrorKind(e2)
	return ok && k == e.k
}

// AnyParseError is an error that can be passed to Case.Fails to match any
// parse error.
var AnyParseError anyParseError

type anyParseError struct{}

func (anyParseError) Error() string { return "any parse error" }
func (anyParseError) matchError(e error) bool {
	return len(diag.UnpackErrors[parse.ErrorTag](e)) > 0
}

// AnyLexError is an error that can be passed to Case.Fails to match any lex
// error.
var AnyLexError anyLexError

type anyLexError struct{}

func (anyLexError) Error() string { return "any lex error" }
func (anyLexError) matchError(e error) bool {
	return len(diag.UnpackErrors[parse.LexErrorTag](e)) > 0
}

type anySourceError struct{}

func (anySourceError) Error() string           { return "any lex or parse error" }
func (anySourceError) matchError(e error) bool { return parse.IsSourceError(e) }

// ErrorWithType returns an error that can be passed to Case.Throws or
// Case.Fails to match any error with the same type as the argument.
func ErrorWithType(v error) error { return errWithType{v} }

// An errorMatcher for any error with the given type.
type errWithType struct{ v error }

func (e errWithType) Error() string { return fmt.Sprintf("error with type %T", e.v) }

func (e errWithType) matchError(e2 error) bool {
	return reflect.TypeOf(e.v) == reflect.TypeOf(e2)
}

// ErrorWithMessage returns an error that can be passed to Case.Throws or
// Case.Fails to match any error with the given message.
func ErrorWithMessage(msg string) error { return errWithMessage{msg} }

// An errorMatcher for any error with the given message.
type errWithMessage struct{ msg string }

func (e errWithMessage) Error() string { return "error with message " + e.msg }

func (e errWithMessage) matchError(e2 error) bool {
	return e2 != nil && e.msg == e2.Error()
}

// Exits returns an error that can be passed to Case.Fails to match a call to
// exit with the given code.
func Exits(code int) error { return errExit{code} }

type errExit struct{ code int }

func (e errExit) Error() string { return fmt.Sprintf("exit with code %d", e.code) }

func (e errExit) matchError(e2 error) bool {
	exit, ok := e2.(*eval.ExitError)
	return ok && exit.Code == e.code
}
