// Package tt supports table-driven tests with little boilerplate.
//
// See the test case for this package for example usage.
package tt

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/google/go-cmp/cmp"
)

// Table represents a test table.
type Table []*Case

// Case represents a test case. It is created by the Args function, and offers
// setters that augment and return itself; those calls can be chained like
// Args(...).Rets(...).
type Case struct {
	args         []any
	retsMatchers [][]any
}

// Args returns a new Case with the given arguments.
func Args(args ...any) *Case {
	return &Case{args: args}
}

// Rets modifies the test case so that it requires the return values to match
// the given values. It returns the receiver. The arguments may implement the
// Matcher interface, in which case its Match method is called with the actual
// return value. Otherwise, cmp.Equal is used to determine matches.
func (c *Case) Rets(matchers ...any) *Case {
	c.retsMatchers = append(c.retsMatchers, matchers)
	return c
}

// FnToTest describes a function to test.
type FnToTest struct {
	name    string
	body    any
	argsFmt string
	retsFmt string
}

// Fn makes a new FnToTest with the given function name and body.
func Fn(name string, body any) *FnToTest {
	return &FnToTest{name: name, body: body}
}

// ArgsFmt sets the string for formatting arguments in test error messages, and
// return fn itself.
func (fn *FnToTest) ArgsFmt(s string) *FnToTest {
	fn.argsFmt = s
	return fn
}

// RetsFmt sets the string for formatting return values in test error messages,
// and return fn itself.
func (fn *FnToTest) RetsFmt(s string) *FnToTest {
	fn.retsFmt = s
	return fn
}

// T is the interface for accessing testing.T.
type T interface {
	Helper()
	Errorf(format string, args ...any)
}

// Test tests a function against test cases.
func Test(t T, fn *FnToTest, tests Table) {
	t.Helper()
	for _, test := range tests {
		rets := call(fn.body, test.args)
		for _, retsMatcher := range test.retsMatchers {
			if match(retsMatcher, rets) {
				continue
			}
			var argsString, retsString, wantRetsString string
			if fn.argsFmt == "" {
				argsString = sprintCommaDelimited(test.args...)
			} else {
				argsString = fmt.Sprintf(fn.argsFmt, test.args...)
			}
			if fn.retsFmt == "" {
				retsString = sprintRets(rets...)
				wantRetsString = sprintRets(retsMatcher...)
			} else {
				retsString = fmt.Sprintf(fn.retsFmt, rets...)
				wantRetsString = fmt.Sprintf(fn.retsFmt, retsMatcher...)
			}
			t.Errorf("%s(%s) -> %s, want %s", fn.name, argsString, retsString, wantRetsString)
		}
	}
}

// RetValue is an empty interface used in the Matcher interface.
type RetValue any

// Matcher wraps the Match method.
type Matcher interface {
	// Match reports whether a return value is considered a match. The argument
	// is of type RetValue so that it cannot be implemented accidentally.
	Match(RetValue) bool
}

// Any is a Matcher that matches any value.
var Any Matcher = anyMatcher{}

type anyMatcher struct{}

func (anyMatcher) Match(RetValue) bool { return true }

func match(matchers, actual []any) bool {
	if len(matchers) != len(actual) {
		return false
	}
	for i, matcher := range matchers {
		if m, ok := matcher.(Matcher); ok {
			if !m.Match(actual[i]) {
				return false
			}
		} else if !cmp.Equal(matcher, actual[i], CommonCmpOpt) {
			return false
		}
	}
	return true
}

// CommonCmpOpt is the option passed to cmp.Equal and cmp.Diff by tt and by
// other test frameworks built on it. Unexported fields are compared like
// reflect.DeepEqual does.
var CommonCmpOpt = cmp.Exporter(func(reflect.Type) bool { return true })

func sprintRets(rets ...any) string {
	if len(rets) == 1 {
		return fmt.Sprint(rets[0])
	}
	return "(" + sprintCommaDelimited(rets...) + ")"
}

func sprintCommaDelimited(args ...any) string {
	var sb strings.Builder
	for i, arg := range args {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprint(&sb, arg)
	}
	return sb.String()
}

func call(fn any, args []any) []any {
	fnType := reflect.TypeOf(fn)
	argsReflect := make([]reflect.Value, len(args))
	for i, arg := range args {
		if arg == nil {
			// reflect.ValueOf(nil) returns a zero Value; use a zero value of
			// the parameter type instead.
			var paramType reflect.Type
			if fnType.IsVariadic() && i >= fnType.NumIn()-1 {
				paramType = fnType.In(fnType.NumIn() - 1).Elem()
			} else {
				paramType = fnType.In(i)
			}
			argsReflect[i] = reflect.Zero(paramType)
		} else {
			argsReflect[i] = reflect.ValueOf(arg)
		}
	}
	retsReflect := reflect.ValueOf(fn).Call(argsReflect)
	rets := make([]any, len(retsReflect))
	for i, retReflect := range retsReflect {
		rets[i] = retReflect.Interface()
	}
	return rets
}
