// Package logutil provides logging utilities.
package logutil

import (
	"io"
	"log"
	"os"
	"sync"
)

var (
	mu      sync.Mutex
	out     = io.Discard
	loggers []*log.Logger
)

// GetLogger gets a logger with a prefix.
func GetLogger(prefix string) *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	logger := log.New(out, prefix, log.LstdFlags)
	loggers = append(loggers, logger)
	return logger
}

// SetOutput redirects the output of all loggers obtained with GetLogger to
// the new io.Writer. If the old output was a file opened by SetOutputFile, it
// is closed.
func SetOutput(newout io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if f, ok := out.(*os.File); ok && f == ownedFile {
		f.Close()
		ownedFile = nil
	}
	out = newout
	for _, logger := range loggers {
		logger.SetOutput(out)
	}
}

var ownedFile *os.File

// SetOutputFile redirects the output of all loggers obtained with GetLogger
// to the named file. If the old output was a file opened by SetOutputFile,
// it is closed. The new file is truncated. An empty path disables logging.
func SetOutputFile(fname string) error {
	if fname == "" {
		SetOutput(io.Discard)
		return nil
	}
	file, err := os.OpenFile(fname, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	SetOutput(file)
	mu.Lock()
	ownedFile = file
	mu.Unlock()
	return nil
}
