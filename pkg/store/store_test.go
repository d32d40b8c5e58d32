package store_test

import (
	"path/filepath"
	"testing"

	"src.iok.sh/pkg/store"
	"src.iok.sh/pkg/store/storetest"
)

func TestCmd(t *testing.T) {
	storetest.TestCmd(t, store.MustTempStore(t))
}

func TestNewStore_Reopen(t *testing.T) {
	dbname := filepath.Join(t.TempDir(), "history.db")
	st, err := store.NewStore(dbname)
	if err != nil {
		t.Fatal(err)
	}
	st.AddCmd("dbg(1)")
	st.Close()

	st, err = store.NewStore(dbname)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	if cmd, err := st.Cmd(1); cmd != "dbg(1)" || err != nil {
		t.Errorf("Cmd(1) after reopening -> %q, %v", cmd, err)
	}
	if seq, _ := st.NextCmdSeq(); seq != 2 {
		t.Errorf("NextCmdSeq after reopening -> %d, want 2", seq)
	}
}

func TestNewStore_Error(t *testing.T) {
	if _, err := store.NewStore(filepath.Join(t.TempDir(), "no", "dir", "db")); err == nil {
		t.Errorf("want error opening database in missing directory")
	}
}
