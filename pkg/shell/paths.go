package shell

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Environment variables consulted for paths.
const (
	EnvXDGConfigHome = "XDG_CONFIG_HOME"
	EnvXDGStateHome  = "XDG_STATE_HOME"
	EnvIokLib        = "IOK_LIB"
)

var errNoHome = errors.New("cannot determine home directory")

// ConfigDir returns the directory of the RC and configuration files.
func ConfigDir() (string, error) {
	return xdgDir(EnvXDGConfigHome, ".config")
}

// StateDir returns the directory of the history database.
func StateDir() (string, error) {
	return xdgDir(EnvXDGStateHome, filepath.Join(".local", "state"))
}

func xdgDir(env, fallback string) (string, error) {
	if dir := os.Getenv(env); dir != "" {
		return filepath.Join(dir, "iok"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "", errNoHome
	}
	return filepath.Join(home, fallback, "iok"), nil
}

// RCPath returns the path of rc.iok, evaluated when the REPL starts.
func RCPath() (string, error) { return inDir(ConfigDir, "rc.iok") }

// ConfigPath returns the path of the configuration file.
func ConfigPath() (string, error) { return inDir(ConfigDir, "config.yaml") }

// DBPath returns the path of the history database.
func DBPath() (string, error) { return inDir(StateDir, "history.db") }

func inDir(dir func() (string, error), name string) (string, error) {
	d, err := dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, name), nil
}

// EnvLibPaths returns the module directories listed in $IOK_LIB.
func EnvLibPaths() []string {
	var paths []string
	for _, p := range strings.Split(os.Getenv(EnvIokLib), string(filepath.ListSeparator)) {
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}
