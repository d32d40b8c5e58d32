package store

import (
	"path/filepath"

	"src.iok.sh/pkg/testutil"
)

// MustTempStore returns a Store backed by a file in a temporary directory. The
// Store is closed when the test finishes.
func MustTempStore(c testutil.TempDirer) DBStore {
	st, err := NewStore(filepath.Join(c.TempDir(), "history.db"))
	if err != nil {
		panic(err)
	}
	c.Cleanup(func() { st.Close() })
	return st
}
