package parse

import (
	"testing"

	. "src.iok.sh/pkg/tt"
)

func TestQuote(t *testing.T) {
	Test(t, Fn("Quote", Quote), Table{
		Args("").Rets(`""`),
		Args("abc").Rets(`"abc"`),
		Args("a\"b\\c").Rets(`"a\"b\\c"`),
		Args("line\n\ttab").Rets(`"line\n\ttab"`),
		Args("{x}").Rets(`"\{x\}"`),
		Args("\x01").Rets(`"\u{1}"`),
		Args("αβ").Rets(`"αβ"`),
	})
}

func TestQuote_RoundTrips(t *testing.T) {
	for _, s := range []string{"", "a\"b", "{}", "\x00\x7f", "tab\there"} {
		tokens, err := Tokenize(SourceForTest(Quote(s)))
		if err != nil {
			t.Errorf("Tokenize(Quote(%q)) error: %v", s, err)
			continue
		}
		got := ""
		for _, p := range tokens[0].Parts {
			got += p.Text
		}
		if got != s {
			t.Errorf("round trip of %q -> %q", s, got)
		}
	}
}
