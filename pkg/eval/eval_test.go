package eval_test

import (
	"math"
	"testing"

	. "src.iok.sh/pkg/eval"
	"src.iok.sh/pkg/eval/errs"
	. "src.iok.sh/pkg/eval/evaltest"
	"src.iok.sh/pkg/eval/vals"
	"src.iok.sh/pkg/parse"
)

func TestArithmetic(t *testing.T) {
	Test(t,
		That("7 + 2 * 3").Returns(13),
		That("1 << 3").Returns(8),
		That("(110 >> 5) & 1").Returns(1),
		That("7 / 2").Returns(3),
		That("-7 / 2").Returns(-3),
		That("-7 % 2").Returns(-1),
		That("7.0 / 2").Returns(3.5),
		That("1 + 2.5").Returns(3.5),
		That("5.5 % 2").Returns(1.5),
		That("2 - 3 - 4").Returns(-5),
		That("6 | 3").Returns(7),
		That("-8 >> 1").Returns(-4),
		// Int arithmetic wraps around.
		That("9223372036854775807 + 1").Returns(vals.Int(math.MinInt64)),
		That("-9223372036854775808 - 1").Returns(vals.Int(math.MaxInt64)),

		That("1 / 0").Throws(errs.DivideByZero{Op: "/"}, "1 / 0"),
		That("1 % 0").Throws(errs.DivideByZero{Op: "%"}),
		That("1.0 / 0").Throws(ErrorWithKind(errs.DivisionByZero)),
		That("1 << 64").Throws(
			errs.Bad{What: "shift amount", Valid: "from 0 to 63", Actual: "64"}),
		That("1 >> -1").Throws(
			errs.Bad{What: "shift amount", Valid: "from 0 to 63", Actual: "-1"}),
		That("1.0 << 1").Throws(ErrorWithKind(errs.TypeMismatch)),
		That(`"a" + 1`).Throws(
			errs.IncompatibleOperands{Op: "+", Left: "string", Right: "int"}, `"a" + 1`),
		That(`[1] - 1`).Throws(ErrorWithKind(errs.TypeMismatch)),
	)
}

func TestUnaryAndLogic(t *testing.T) {
	Test(t,
		That("-(1.5)").Returns(-1.5),
		That("!true").Returns(false),
		That(`-"a"`).Throws(ErrorWithKind(errs.TypeMismatch)),
		That("!1").Throws(errs.BadType{What: "operand of !", Valid: "bool", Actual: "int"}),

		That("true && false").Returns(false),
		That("false || true").Returns(true),
		// Short-circuiting.
		That("false && x").Returns(false),
		That("true || x").Returns(true),
		That("1 && true").Throws(ErrorWithKind(errs.TypeMismatch), "1"),
		That("true && 1").Throws(ErrorWithKind(errs.TypeMismatch), "1"),
	)
}

func TestComparison(t *testing.T) {
	Test(t,
		That("1 < 2").Returns(true),
		That("1 < 1.5").Returns(true),
		That("2 >= 2").Returns(true),
		That(`"a" < "b"`).Returns(true),
		That(`"b" <= "a"`).Returns(false),
		That(`"a" < 1`).Throws(ErrorWithKind(errs.TypeMismatch)),

		That("1 == 1.0").Returns(true),
		That(`1 == "1"`).Returns(false),
		That(`"ab" == "a" + "b"`).Returns(true),
		That("[1, [2]] == [1, [2]]").Returns(true),
		That("[1] != [2]").Returns(true),
		That("null == null").Returns(true),
		That("(0..2) == (0..2)").Returns(true),
		That("struct P { let x = 0 }", "P{} == P{x: 0}").Returns(true),
		That("struct P { let x = 0 }", "P{} == P{x: 1}").Returns(false),
		That("fn f() => 1", "f == f").Returns(true),
	)
}

func TestStrings(t *testing.T) {
	Test(t,
		That(`"ab" + "cd"`).Returns("abcd"),
		That(`"ab" * 2`).Returns("abab"),
		That(`2 * "ab"`).Returns("abab"),
		That(`"ab" * 0`).Returns(""),
		That(`"ab" * -1`).Throws(ErrorWithKind(errs.BadValue)),
		That(`"" * 9223372036854775807`).Returns(""),
		That(`9223372036854775807 * ""`).Returns(""),
		That(`"ab" * 100000000`).Throws(ErrorWithKind(errs.BadValue)),
		That(`"abc"[1]`).Returns("b"),
		That(`"héllo".length`).Returns(5),
		That(`let s = "abc"`, `s[1] = "X"`, "s").Returns("aXc"),
		That(`let s = "abc"`, `s[1] = "XY"`).Throws(ErrorWithKind(errs.BadValue)),
		That(`let s = "abc"`, `s[1] = 1`).Throws(ErrorWithKind(errs.TypeMismatch)),
		That(`let s = "abc"`, `s[3]`).Throws(ErrorWithKind(errs.IndexOutOfRange)),
		// Strings are shared by reference.
		That(`let s = "ab"`, "let t = s", `t[0] = "z"`, "s").Returns("zb"),
		// Every evaluation of a literal creates a new string.
		That(`fn f() => "ab"`, "let a = f()", `a[0] = "x"`, "f()").Returns("ab"),
	)
}

func TestInterpolation(t *testing.T) {
	Test(t,
		That(`let n = 3`, `"n={n}"`).Returns("n=3"),
		That(`"{"x"}"`).Returns("x"),
		That(`"a={[1, "b"]}"`).Returns(`a=[1, "b"]`),
		That(`"{1 + 2}{3.0}"`).Returns("33.0"),
		That(`"\{x\}"`).Returns("{x}"),
		That(`"{x}"`).Throws(errs.Undefined{Name: "x"}, "x"),
	)
}

func TestArrays(t *testing.T) {
	Test(t,
		That("[1, 2, 3].length").Returns(3),
		That("[1, 2][1]").Returns(2),
		That("[0] * 3").Returns(vals.MakeArray(0, 0, 0)),
		That("3 * [0]").Returns(vals.MakeArray(0, 0, 0)),
		That("[1, 2] * 2").Returns(vals.MakeArray(1, 2, 1, 2)),
		That("[1] * -1").Throws(ErrorWithKind(errs.BadValue)),
		That("[] * 9223372036854775807").Returns(vals.MakeArray()),
		That("9223372036854775807 * []").Returns(vals.MakeArray()),
		That("[0] * 268435456").Throws(ErrorWithKind(errs.BadValue)),
		// Copies made by repetition are not aliased.
		That("let a = [[0]] * 2", "a[0][0] = 1", "dbg(a)").Prints("[[1], [0]]\n"),
		// Arrays are shared by reference.
		That("let a = [0, 0, 0]", "let b = a", "b[0] = 9", "a[0]").Returns(9),

		That("let a = [1, 2]", "a[a.length]").Throws(
			errs.OutOfRange{What: "index", ValidLow: 0, ValidHigh: 1, Actual: "2"},
			"a[a.length]"),
		That("let a = [1, 2]", "a[-1]").Throws(
			errs.OutOfRange{What: "index", ValidLow: 0, ValidHigh: 1, Actual: "-1"}),
		That("[][0]").Throws(
			errs.OutOfRange{What: "index", ValidLow: 0, ValidHigh: -1, Actual: "0"}),
		That(`[1]["0"]`).Throws(errs.BadType{What: "index", Valid: "int", Actual: "string"}),
		That("1[0]").Throws(ErrorWithKind(errs.TypeMismatch)),
		That("let a = [1]", "a[1] = 2").Throws(ErrorWithKind(errs.IndexOutOfRange)),

		That("let a = []", "a.push(1)", "a.push(2)", "[a.pop(), a.length]").
			Returns(vals.MakeArray(2, 1)),
		That("[].pop()").Throws(ErrorWithKind(errs.IndexOutOfRange)),
		That("[].push()").Throws(ErrorWithKind(errs.ArityMismatchKind)),
		That("[].nope()").Throws(errs.NoMethod{Receiver: "array", Method: "nope"}),
		That("[].nope").Throws(errs.NoField{Struct: "array", Field: "nope"}),
	)
}

func TestLetAndAssign(t *testing.T) {
	Test(t,
		That("let x = 1", "x = 2", "x").Returns(2),
		That("let x", "x").Returns(nil),
		That("y = 1").Throws(errs.Undefined{Name: "y"}, "y"),
		That("y").Throws(errs.Undefined{Name: "y"}, "y"),
		// Assignments are expressions, but have no value as statements.
		That("let x = 0", "x = 5").Returns(nil),
		That("let a = 0", "let b = 0", "a = b = 3", "[a, b]").Returns(vals.MakeArray(3, 3)),

		That("let x = 1", "x += 2", "x").Returns(3),
		That("let x = 7", "x %= 4", "x").Returns(3),
		That("let a = [1]", "a[0] += 5", "a[0]").Returns(6),
		That(`let s = "a"`, `s += "b"`, "s").Returns("ab"),
		That("let x = 1", "x += null").Throws(ErrorWithKind(errs.TypeMismatch)),

		That("let i = 1", "i++", "i").Returns(2),
		That("let i = 1", "i--", "i").Returns(0),
		That("let x = 1.5", "x++", "x").Returns(2.5),
		That("let a = [1, 2]", "a[1]++", "a").Returns(vals.MakeArray(1, 3)),
		That("struct C { let n = 0 }", "let c = C{}", "c.n++", "c.n").Returns(1),
		That("let i = 0", "let j = i++", "[i, j]").Returns(vals.MakeArray(1, 1)),
		That("let i = 0", "while i < 3 { i++ }", "i").Returns(3),
		That("let i = 0", "i++").Returns(nil),
		That(`let s = "a"`, "s++").Throws(ErrorWithKind(errs.TypeMismatch)),
		That("n++").Throws(errs.Undefined{Name: "n"}, "n"),

		// Builtins are read-only, but can be shadowed.
		That("dbg = 1").Throws(errs.ReadOnly{Name: "dbg"}, "dbg"),
		That("let dbg = 1", "dbg").Returns(1),
	)
}

func TestScoping(t *testing.T) {
	Test(t,
		That("let x = 1; { let x = 2; dbg(x) }; dbg(x)").Prints("2\n1\n"),
		That("let x = 1", "{ x = 2 }", "x").Returns(2),
		That("for i -> 0..2 { }", "i").Throws(ErrorWithKind(errs.UndefinedName)),
		That("if true { let y = 1 }", "y").Throws(ErrorWithKind(errs.UndefinedName)),
		// The global scope persists across evaluations.
		That("let x = 1").Then("x + 1").Returns(2),
		That("self").Throws(errs.Undefined{Name: "self"}),
	)
}

func TestControlFlow(t *testing.T) {
	Test(t,
		That("for i -> 0..3 { write(i) }").Prints("012"),
		That("for i -> 3..0 { write(i) }").Prints(""),
		That(`for x -> [1, "a"] { dbg(x) }`).Prints("1\n\"a\"\n"),
		That(`for c -> "ab" { write(c, "-") }`).Prints("a-b-"),
		// The array is snapshotted before the iteration.
		That("let a = [1, 2]", "for x -> a { a.push(x) }", "a.length").Returns(4),
		That("for x -> 1 { }").Throws(errs.BadType{
			What: "iterable", Valid: "range, array or string", Actual: "int"}, "1"),
		That("for x -> 0..1.5 { }").Throws(ErrorWithKind(errs.TypeMismatch), "1.5"),

		That("let i = 0", "while i < 3 { i += 1 }", "i").Returns(3),
		That("while 1 { }").Throws(ErrorWithKind(errs.TypeMismatch)),

		That(
			"fn sign(x) {",
			"  if x < 0 { ret -1 } elsif x == 0 { ret 0 } els { ret 1 }",
			"}",
			"[sign(-5), sign(0), sign(7)]").Returns(vals.MakeArray(-1, 0, 1)),
		That("if false { dbg(1) } els if true { dbg(2) }").Prints("2\n"),
		That("if 1 { }").Throws(
			errs.BadType{What: "condition", Valid: "bool", Actual: "int"}, "1"),
		// Blocks are statements and have no value.
		That("if true { 5 }").Returns(nil),

		// ret inside a loop exits the function.
		That("fn f() { for i -> 0..10 { if i == 3 { ret i } } ret -1 }", "f()").Returns(3),
		// ret at the top level ends the program.
		That("ret 5", "dbg(1)").Returns(5),
		That("ret", "dbg(1)").Returns(nil),
	)
}

func TestFunctions(t *testing.T) {
	Test(t,
		That("fn f(a, b) => a * b", "f(3, 4)").Returns(12),
		That("fn f() { 1 }", "f()").Returns(nil),
		That("fn f(x) => { ret x * 2 }", "f(3)").Returns(6),
		That("let f = fn(x) => x + 1", "f(1)").Returns(2),
		That("(fn() { ret 7 })()").Returns(7),
		That("fn fib(n) { if n < 2 { ret n } ret fib(n - 1) + fib(n - 2) }", "fib(15)").
			Returns(610),

		That("fn f(a) => a", "f(1, 2)").Throws(
			errs.ArityMismatch{What: "arguments of f", ValidLow: 1, ValidHigh: 1, Actual: 2},
			"f(1, 2)"),
		That("let x = 1", "x()").Throws(
			errs.BadType{What: "callee", Valid: "fn", Actual: "int"}, "x()"),
		// The stack trace records the call sites.
		That("fn f() => 1 / 0", "fn g() => f()", "g()").Throws(
			errs.DivideByZero{Op: "/"}, "1 / 0", "f()", "g()"),
		That("fn f(n) => f(n + 1)", "f(0)").Throws(ErrorWithKind(errs.BadValue)),
	)
}

func TestClosures(t *testing.T) {
	Test(t,
		That(
			"fn counter() {",
			"  let n = [0]",
			"  ret fn() {",
			"    n[0] = n[0] + 1",
			"    ret n[0]",
			"  }",
			"}",
			"let c = counter()",
			"c()",
			"c()").Returns(2),
		That(
			"fn adder(n) => fn(x) => x + n",
			"let add2 = adder(2)",
			"add2(5)").Returns(7),
		// Outer names are looked up at call time.
		That("let x = 1", "fn f() => x", "x = 5", "f()").Returns(5),
		// Free names resolve in the defining scope, not the calling scope.
		That("let x = 1", "fn f() => x", "fn g() { let x = 2; ret f() }", "g()").Returns(1),
		// A closure sees updates its defining scope makes later.
		That(
			"fn make() {",
			"  let v = 1",
			"  let get = fn() => v",
			"  v = 2",
			"  ret get",
			"}",
			"make()()").Returns(2),
	)
}

func TestStructs(t *testing.T) {
	Test(t,
		That("struct P { let x = 0", "let y = 0 }", "dbg(P{})", "dbg(P{x: 5})").
			Prints("P { x: 0, y: 0 }\nP { x: 5, y: 0 }\n"),
		That("struct P { let x = 0 }", "P{x: 3}.x").Returns(3),
		That("struct P { let x }", "P{}.x").Returns(nil),
		That("struct E {}", "dbg(E{})").Prints("E {}\n"),
		// Defaults are evaluated per instance.
		That("struct Q { let items = [] }", "let a = Q{}", "let b = Q{}",
			"a.items.push(1)", "dbg(b.items)").Prints("[]\n"),
		// Defaults are evaluated in the declaring scope.
		That("let d = 7", "struct P { let x = d }", "fn f() { let d = 8; ret P{} }", "f().x").
			Returns(7),
		That("struct P { let x = 0 }", "P{z: 1}").Throws(
			errs.NoField{Struct: "P", Field: "z"}, "z"),
		That("struct P { let x = 0 }", "let p = P{}", "p.z").Throws(
			errs.NoField{Struct: "P", Field: "z"}, "z"),
		That("struct P { let x = 0 }", "let p = P{}", "p.z = 1").Throws(
			errs.NoField{Struct: "P", Field: "z"}),
		That("let x = 1", "x{}").Throws(ErrorWithKind(errs.TypeMismatch)),
		That("let a = 1", "a.b = 2").Throws(ErrorWithKind(errs.TypeMismatch)),
		// Struct instances are shared by reference.
		That("struct P { let x = 0 }", "let p = P{}", "let q = p", "q.x = 4", "p.x").
			Returns(4),
		That("struct P { let x = 0 }", "let p = P{}", "p.x += 4", "p.x").Returns(4),
		That("struct P { let v = [] }", "let ps = [P{}] * 2", "ps[0].v.push(1)", "ps[1].v.length").
			Returns(0),
	)
}

var counterStruct = []string{
	"struct Counter {",
	"  let n = 0",
	"  fn inc() { self.n = self.n + 1 }",
	"  fn add(k) => self.n + k",
	"  fn get() => self.n",
	"}",
	"let c = Counter{}",
}

func TestMethods(t *testing.T) {
	Test(t,
		That(counterStruct...).Then("c.inc()", "c.inc()", "c.get()").Returns(2),
		That(counterStruct...).Then("c.add(10)").Returns(10),
		That(counterStruct...).Then("let m = c.inc", "m()", "c.n").Returns(1),
		That(counterStruct...).Then("dbg(c.inc)").Prints("<method Counter.inc>\n"),
		That(counterStruct...).Then("c.nope()").Throws(
			errs.NoMethod{Receiver: "Counter", Method: "nope"}, "nope"),
		That(counterStruct...).Then("c.add()").Throws(ErrorWithKind(errs.ArityMismatchKind)),
		// A field holding a function can be called like a method.
		That("struct S { let f = fn(x) => x * 3 }", "S{}.f(2)").Returns(6),
		// Closures created in methods capture self.
		That("struct S { let v = 1", "fn getter() => fn() => self.v }", "let s = S{}",
			"let g = s.getter()", "s.v = 9", "g()").Returns(9),
	)
}

func TestBuiltins(t *testing.T) {
	Test(t,
		That(`dbg("a\"b")`).Prints(`"a\"b"`+"\n"),
		That("dbg(1.0)", "dbg(null)", "dbg(true)").Prints("1.0\nnull\ntrue\n"),
		That("dbg(0..3)").Prints("0..3\n"),
		That("dbg(fn() => 1)").Prints("<fn>\n"),
		That("fn f() => 1", "dbg(f)").Prints("<fn f>\n"),
		That("dbg(dbg)").Prints("<builtin dbg>\n"),
		That("struct P {}", "dbg(P)").Prints("<struct P>\n"),
		That("dbg(1)").Returns(nil).Prints("1\n"),
		That("dbg(1, 2)").Throws(
			errs.ArityMismatch{What: "arguments of dbg", ValidLow: 1, ValidHigh: 1, Actual: 2},
			"dbg(1, 2)"),

		That(`write("a", 1, "\n")`).Prints("a1\n"),
		That(`write(["a"])`).Prints(`["a"]`),
		That("write()").Prints(""),

		That("exit(3)").Fails(Exits(3)),
		That("exit()").Fails(Exits(0)),
		That(`exit("x")`).Throws(ErrorWithKind(errs.TypeMismatch)),
		That("exit(1, 2)").Throws(ErrorWithKind(errs.ArityMismatchKind)),

		That("let x = 5", `getvar("x")`).Returns(5),
		That(`getvar("nope")`).Returns(nil),
		That(`fn f() { let local = 1; ret getvar("local") }`, "f()").Returns(1),
		That("getvar(1)").Throws(errs.BadType{
			What: "1st argument of getvar", Valid: "string", Actual: "int"}),
	)
}

func TestSourceErrors(t *testing.T) {
	Test(t,
		That("let = 1").DoesNotParse(),
		That("let = 1").Fails(AnyParseError),
		That("@").Fails(AnyLexError),
		That(`"abc`).Fails(AnyLexError),
	)
}

func TestRule110(t *testing.T) {
	Test(t,
		That(
			"let board = [0] * 30",
			"board[28] = 1",
			"for i -> 0..28 {",
			`  let line = ""`,
			"  for j -> 0..30 {",
			`    if board[j] == 1 { line = line + "*" } els { line = line + " " }`,
			"  }",
			`  write("{line}\n")`,
			"  let pattern = (board[0] << 1) | board[1]",
			"  for j -> 1..29 {",
			"    pattern = ((pattern << 1) & 7) | board[j + 1]",
			"    board[j] = (110 >> pattern) & 1",
			"  }",
			"}").Prints(rule110()),
	)
}

// Computes the expected output of the Rule 110 program.
func rule110() string {
	var board [30]int
	board[28] = 1
	var out []byte
	for i := 0; i < 28; i++ {
		for j := 0; j < 30; j++ {
			if board[j] == 1 {
				out = append(out, '*')
			} else {
				out = append(out, ' ')
			}
		}
		out = append(out, '\n')
		pattern := board[0]<<1 | board[1]
		for j := 1; j < 29; j++ {
			pattern = ((pattern << 1) & 7) | board[j+1]
			board[j] = (110 >> pattern) & 1
		}
	}
	return string(out)
}

func TestEval_ExitIsNotWrapped(t *testing.T) {
	ev := NewEvaler()
	_, err := ev.Eval(parse.SourceForTest("fn f() => exit(4)\nf()"), EvalCfg{})
	if exit, ok := err.(*ExitError); !ok || exit.Code != 4 {
		t.Errorf("got error %v, want *ExitError with code 4", err)
	}
}
