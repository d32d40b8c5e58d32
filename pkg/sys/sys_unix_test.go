//go:build unix

package sys

import (
	"os"
	"testing"

	"github.com/creack/pty"
	"src.iok.sh/pkg/must"
)

func TestIsATTY(t *testing.T) {
	r, w := must.Pipe()
	defer r.Close()
	defer w.Close()
	if IsATTY(r.Fd()) {
		t.Errorf("IsATTY(pipe) -> true, want false")
	}

	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skip("cannot open pty:", err)
	}
	defer ptmx.Close()
	defer tty.Close()
	if !IsATTY(tty.Fd()) {
		t.Errorf("IsATTY(pty) -> false, want true")
	}
}

func TestWinSize(t *testing.T) {
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skip("cannot open pty:", err)
	}
	defer ptmx.Close()
	defer tty.Close()

	must.OK(pty.Setsize(ptmx, &pty.Winsize{Rows: 30, Cols: 100}))
	if row, col := WinSize(tty); row != 30 || col != 100 {
		t.Errorf("WinSize -> %d, %d, want 30, 100", row, col)
	}
	must.OK(pty.Setsize(ptmx, &pty.Winsize{}))
	if row, col := WinSize(tty); row != 24 || col != 80 {
		t.Errorf("WinSize of zero-sized pty -> %d, %d, want 24, 80", row, col)
	}

	f := must.OK1(os.CreateTemp(t.TempDir(), "winsize"))
	defer f.Close()
	if row, col := WinSize(f); row != -1 || col != -1 {
		t.Errorf("WinSize(regular file) -> %d, %d, want -1, -1", row, col)
	}
}
