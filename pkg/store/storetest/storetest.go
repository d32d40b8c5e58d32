// Package storetest keeps test suites against storedefs.Store.
package storetest

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"src.iok.sh/pkg/store/storedefs"
)

var (
	cmds     = []string{"let x = 1", "dbg(x)", "fn f(a) => a\nf(x)", "dbg(2)"}
	starts   = []string{"let", "dbg", "fn", "dbg"}
	wantCmds = []storedefs.Cmd{
		{Text: cmds[0], Seq: 1},
		{Text: cmds[1], Seq: 2},
		{Text: cmds[2], Seq: 3},
		{Text: cmds[3], Seq: 4},
	}
)

// TestCmd tests the command history functionality of a Store.
func TestCmd(t *testing.T, store storedefs.Store) {
	startSeq, err := store.NextCmdSeq()
	if startSeq != 1 || err != nil {
		t.Errorf("store.NextCmdSeq() -> %v, %v, want %v, nil", startSeq, err, 1)
	}

	for i, cmd := range cmds {
		wantSeq := startSeq + i
		seq, err := store.AddCmd(cmd)
		if seq != wantSeq || err != nil {
			t.Errorf("store.AddCmd(%q) -> %v, %v, want %v, nil", cmd, seq, err, wantSeq)
		}
	}

	endSeq, err := store.NextCmdSeq()
	wantedEndSeq := startSeq + len(cmds)
	if endSeq != wantedEndSeq || err != nil {
		t.Errorf("store.NextCmdSeq() -> %v, %v, want %v, nil", endSeq, err, wantedEndSeq)
	}

	for i, wantCmd := range cmds {
		seq := i + startSeq
		cmd, err := store.Cmd(seq)
		if cmd != wantCmd || err != nil {
			t.Errorf("store.Cmd(%v) -> %q, %v, want %q, nil", seq, cmd, err, wantCmd)
		}
	}

	gotCmds, err := store.CmdsWithSeq(2, 4)
	if diff := cmp.Diff(wantCmds[1:3], gotCmds); diff != "" || err != nil {
		t.Errorf("store.CmdsWithSeq(2, 4) -> err %v, diff (-want +got):\n%s", err, diff)
	}

	gotCmds, err = store.LastCmds(2)
	if diff := cmp.Diff(wantCmds[2:], gotCmds); diff != "" || err != nil {
		t.Errorf("store.LastCmds(2) -> err %v, diff (-want +got):\n%s", err, diff)
	}
	gotCmds, err = store.LastCmds(10)
	if diff := cmp.Diff(wantCmds, gotCmds); diff != "" || err != nil {
		t.Errorf("store.LastCmds(10) -> err %v, diff (-want +got):\n%s", err, diff)
	}

	for i, wantCmd := range cmds {
		seq := i + startSeq
		cmd, err := store.NextCmd(seq, starts[i])
		if cmd.Text != wantCmd || cmd.Seq != seq || err != nil {
			t.Errorf("store.NextCmd(%v, %q) -> %v, %v, want %q, nil",
				seq, starts[i], cmd, err, wantCmd)
		}
		cmd, err = store.PrevCmd(seq+1, starts[i])
		if cmd.Text != wantCmd || cmd.Seq != seq || err != nil {
			t.Errorf("store.PrevCmd(%v, %q) -> %v, %v, want %q, nil",
				seq+1, starts[i], cmd, err, wantCmd)
		}
	}
	if cmd, err := store.PrevCmd(100, "dbg"); cmd.Seq != 4 || err != nil {
		t.Errorf("store.PrevCmd(100, \"dbg\") -> %v, %v, want seq 4", cmd, err)
	}
	if _, err := store.NextCmd(1, "while"); err != storedefs.ErrNoMatchingCmd {
		t.Errorf("store.NextCmd with no match -> error %v, want ErrNoMatchingCmd", err)
	}

	if err := store.DelCmd(1); err != nil {
		t.Errorf("store.DelCmd(1) -> %v, want nil", err)
	}
	if cmd, err := store.Cmd(1); cmd != "" || err != storedefs.ErrNoMatchingCmd {
		t.Errorf("store.Cmd(1) after deletion -> %q, %v, want ErrNoMatchingCmd", cmd, err)
	}
	if _, err := store.PrevCmd(2, ""); err != storedefs.ErrNoMatchingCmd {
		t.Errorf("store.PrevCmd(2, \"\") after deletion -> %v, want ErrNoMatchingCmd", err)
	}
}
