package logutil

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGetLogger_FollowsSetOutput(t *testing.T) {
	t.Cleanup(func() { SetOutput(io.Discard) })
	before := GetLogger("[before] ")

	var buf bytes.Buffer
	SetOutput(&buf)
	after := GetLogger("[after] ")
	before.Print("one")
	after.Print("two")

	s := buf.String()
	if !strings.Contains(s, "[before] ") || !strings.Contains(s, "one") {
		t.Errorf("logger created before SetOutput did not write: %q", s)
	}
	if !strings.Contains(s, "[after] ") || !strings.Contains(s, "two") {
		t.Errorf("logger created after SetOutput did not write: %q", s)
	}
}

func TestSetOutputFile(t *testing.T) {
	t.Cleanup(func() { SetOutput(io.Discard) })
	fname := filepath.Join(t.TempDir(), "log")
	logger := GetLogger("[test] ")

	if err := SetOutputFile(fname); err != nil {
		t.Fatal(err)
	}
	logger.Print("hello")
	if err := SetOutputFile(""); err != nil {
		t.Fatal(err)
	}
	logger.Print("discarded")

	data, err := os.ReadFile(fname)
	if err != nil {
		t.Fatal(err)
	}
	if s := string(data); !strings.Contains(s, "hello") || strings.Contains(s, "discarded") {
		t.Errorf("log file has %q", s)
	}
}

func TestSetOutputFile_Error(t *testing.T) {
	if err := SetOutputFile(filepath.Join(t.TempDir(), "no", "such", "dir")); err == nil {
		t.Errorf("want error for file in missing directory")
	}
}
