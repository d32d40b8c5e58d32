// Package testutil contains common test utilities.
package testutil

import (
	"os"
)

// Cleanuper wraps the Cleanup method. It is a subset of [testing.TB], thus
// satisfied by [*testing.T] and [*testing.B].
type Cleanuper interface {
	Cleanup(func())
}

// TempDirer can create a temporary directory that is removed when the test
// finishes.
type TempDirer interface {
	Cleanuper
	TempDir() string
}

// Set sets *p to v for the duration of a test.
func Set[T any](c Cleanuper, p *T, v T) {
	old := *p
	*p = v
	c.Cleanup(func() { *p = old })
}

// Setenv sets the value of an environment variable for the duration of a test.
// It returns value.
func Setenv(c Cleanuper, name, value string) string {
	saveEnv(c, name)
	os.Setenv(name, value)
	return value
}

// Unsetenv unsets an environment variable for the duration of a test.
func Unsetenv(c Cleanuper, name string) {
	saveEnv(c, name)
	os.Unsetenv(name)
}

func saveEnv(c Cleanuper, name string) {
	oldValue, existed := os.LookupEnv(name)
	if existed {
		c.Cleanup(func() { os.Setenv(name, oldValue) })
	} else {
		c.Cleanup(func() { os.Unsetenv(name) })
	}
}

// InTempDir creates a temporary directory and changes into it. The working
// directory is restored when the test finishes. It returns the directory.
func InTempDir(c TempDirer) string {
	dir := c.TempDir()
	oldWd, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	if err := os.Chdir(dir); err != nil {
		panic(err)
	}
	c.Cleanup(func() { os.Chdir(oldWd) })
	return dir
}

// Recover calls f and returns the value passed to panic, or nil if f returns
// normally.
func Recover(f func()) (r any) {
	defer func() { r = recover() }()
	f()
	return nil
}
