package diag

import (
	"testing"

	"src.iok.sh/pkg/testutil"
)

var dedent = testutil.Dedent

func setCulpritMarkers(t *testing.T, start, end string) {
	testutil.Set(t, &culpritStart, start)
	testutil.Set(t, &culpritEnd, end)
}

func setMessageMarkers(t *testing.T, start, end string) {
	testutil.Set(t, &messageStart, start)
	testutil.Set(t, &messageEnd, end)
}

func lines(lines ...string) string {
	s := ""
	for i, line := range lines {
		if i > 0 {
			s += "\n"
		}
		s += line
	}
	return s
}
