// Package evaltest provides a framework for testing iok code.
//
// The entry point for the framework is the Test function, which accepts a
// *testing.T and any number of test cases.
//
// Test cases are constructed using the That function, followed by method calls
// that add additional information to it.
//
// Example:
//
//	Test(t,
//	    That("dbg(1 + 2)").Prints("3\n"),
//	    That("1 + 2").Returns(3),
//	    That("x").Throws(ErrorWithKind(errs.UndefinedName)))
//
// If some setup is needed, use the TestWithSetup function instead.
package evaltest

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"src.iok.sh/pkg/eval"
	"src.iok.sh/pkg/eval/vals"
	"src.iok.sh/pkg/parse"
)

// Case is a test case that can be used in Test.
type Case struct {
	codes  []string
	setup  func(ev *eval.Evaler)
	verify func(t *testing.T)
	want   result
}

type result struct {
	// Checked only when hasValue is true.
	Value    vals.Value
	hasValue bool
	Stdout   []byte
	Err      error
}

// That returns a new Case with the specified source code. Multiple arguments
// are joined with newlines. To specify multiple pieces of code that are
// executed separately, use the Then method to append code pieces.
//
// When combined with subsequent method calls, a test case reads like English.
// For example, a test for the fact that "dbg(1)" prints "1" reads:
//
//	That("dbg(1)").Prints("1\n")
func That(lines ...string) Case {
	return Case{codes: []string{strings.Join(lines, "\n")}}
}

// Then returns a new Case that executes the given code in addition, in the
// same Evaler. Multiple arguments are joined with newlines.
func (c Case) Then(lines ...string) Case {
	c.codes = append(c.codes, strings.Join(lines, "\n"))
	return c
}

// WithSetup returns a new Case with the given setup function executed on the
// Evaler before the code is executed.
func (c Case) WithSetup(f func(*eval.Evaler)) Case {
	c.setup = f
	return c
}

// DoesNothing returns c unchanged. It is useful to mark tests that don't have
// any side effects, for example:
//
//	That("let x = 1").DoesNothing()
func (c Case) DoesNothing() Case {
	return c
}

// Passes returns an altered Case that runs an additional verification
// function.
func (c Case) Passes(f func(t *testing.T)) Case {
	c.verify = f
	return c
}

// Returns returns an altered Case that requires the last piece of code to
// evaluate to the given value. The value is converted with vals.FromGo.
func (c Case) Returns(v any) Case {
	c.want.Value = vals.FromGo(v)
	c.want.hasValue = true
	return c
}

// Prints returns an altered Case that requires the source code to produce the
// specified output when evaluated.
func (c Case) Prints(s string) Case {
	c.want.Stdout = []byte(s)
	return c
}

// Throws returns an altered Case that requires the source code to throw an
// exception with the given reason. The reason supports special matcher values
// constructed by functions like ErrorWithKind.
//
// If at least one stacktrace string is given, the exception must also have a
// stacktrace matching the given source fragments, frame by frame (innermost
// frame first). If no stacktrace string is given, the stack trace of the
// exception is not checked.
func (c Case) Throws(reason error, stacks ...string) Case {
	c.want.Err = exc{reason, stacks}
	return c
}

// Fails returns an altered Case that requires evaluation to fail with an
// error matching the given matcher. Unlike Throws, the error need not be an
// exception; this is used for lex errors, parse errors and exits.
func (c Case) Fails(matcher error) Case {
	c.want.Err = matcher
	return c
}

// DoesNotParse returns an altered Case that requires the source code to fail
// lexing or parsing.
func (c Case) DoesNotParse() Case {
	c.want.Err = anySourceError{}
	return c
}

// Test runs test cases. For each test case, a new Evaler is created with
// NewEvaler.
func Test(t *testing.T, tests ...Case) {
	t.Helper()
	TestWithSetup(t, func(*eval.Evaler) {}, tests...)
}

// TestWithSetup runs test cases. For each test case, a new Evaler is created
// with NewEvaler and passed to the setup function.
func TestWithSetup(t *testing.T, setup func(*eval.Evaler), tests ...Case) {
	t.Helper()
	for _, tc := range tests {
		t.Run(strings.Join(tc.codes, "\n"), func(t *testing.T) {
			t.Helper()
			ev := eval.NewEvaler()
			setup(ev)
			if tc.setup != nil {
				tc.setup(ev)
			}

			r := evalAndCollect(ev, tc.codes)

			if tc.verify != nil {
				tc.verify(t)
			}
			if tc.want.hasValue && !vals.Equal(tc.want.Value, r.Value) {
				t.Errorf("got value %s, want %s", repr(r.Value), repr(tc.want.Value))
			}
			if !bytes.Equal(tc.want.Stdout, r.Stdout) {
				t.Errorf("got stdout %q, want %q", r.Stdout, tc.want.Stdout)
				if strings.Count(string(tc.want.Stdout), "\n") > 1 {
					t.Logf("stdout (-want +got):\n%s",
						cmp.Diff(string(tc.want.Stdout), string(r.Stdout)))
				}
			}
			if !matchErr(tc.want.Err, r.Err) {
				t.Errorf("unexpected error")
				if e, ok := r.Err.(*eval.Exception); ok {
					// For an *eval.Exception report the type of the reason.
					t.Logf("got: %T: %v", e.Reason, e)
					t.Logf("stack trace: %#v", getStackTexts(e))
				} else {
					t.Logf("got: %T: %v", r.Err, r.Err)
				}
				t.Errorf("want: %v", tc.want.Err)
			}
		})
	}
}

func evalAndCollect(ev *eval.Evaler, texts []string) result {
	var r result
	var stdout bytes.Buffer
	for _, text := range texts {
		v, err := ev.Eval(parse.SourceForTest(text), eval.EvalCfg{Stdout: &stdout})
		// NOTE: If multiple code pieces fail, only the last error is saved.
		if err != nil {
			r.Err = err
		}
		r.Value = v
	}
	r.Stdout = stdout.Bytes()
	return r
}

func repr(v vals.Value) string {
	if v == nil {
		return "<no value>"
	}
	return vals.Repr(v)
}

func matchErr(want, got error) bool {
	if want == nil {
		return got == nil
	}
	if matcher, ok := want.(errorMatcher); ok {
		return matcher.matchError(got)
	}
	return reflect.DeepEqual(want, got)
}
