package shell

import (
	"path/filepath"
	"testing"

	"src.iok.sh/pkg/testutil"
)

// Points all the standard paths into a fresh temporary directory.
func setupCleanHomePaths(t *testing.T) string {
	home := t.TempDir()
	testutil.Setenv(t, "HOME", home)
	testutil.Setenv(t, EnvXDGConfigHome, filepath.Join(home, "config"))
	testutil.Setenv(t, EnvXDGStateHome, filepath.Join(home, "state"))
	testutil.Unsetenv(t, EnvIokLib)
	return home
}
