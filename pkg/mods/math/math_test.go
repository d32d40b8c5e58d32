package math_test

import (
	"math"
	"testing"

	"src.iok.sh/pkg/eval"
	"src.iok.sh/pkg/eval/errs"
	. "src.iok.sh/pkg/eval/evaltest"
	"src.iok.sh/pkg/eval/vals"
	"src.iok.sh/pkg/mods"
)

func setup(ev *eval.Evaler) { ev.SetResolver(mods.NewResolver()) }

func TestMath(t *testing.T) {
	TestWithSetup(t, setup,
		That("import std::math", "abs(-3)").Returns(3),
		That("import std::math", "abs(-1.5)").Returns(1.5),
		That("import std::math", "abs(-9223372036854775808)").Returns(vals.Int(math.MinInt64)),
		That("import std::math", `abs("x")`).Throws(ErrorWithKind(errs.TypeMismatch)),
		That("import std::math::floor", "floor(2.7)").Returns(2.0),
		That("import std::math::floor", "floor(-2)").Returns(-2),
		That("import std::math", "min(3, 1, 2)").Returns(1),
		That("import std::math", "max(3, 1, 2.5)").Returns(3.0),
		That("import std::math", "dbg(max(1, 2.5))").Prints("2.5\n"),
		That("import std::math", "min()").Throws(ErrorWithKind(errs.ArityMismatchKind)),
		That("import std::math", `min(1, "a")`).Throws(ErrorWithKind(errs.TypeMismatch)),
		That("import std::math", "sqrt(16)").Returns(4.0),
		That("import std::math::pi", "pi > 3.14 && pi < 3.15").Returns(true),
		That("import std::math::tau").Throws(ErrorWithKind(errs.UnresolvedImport)),
	)
}
