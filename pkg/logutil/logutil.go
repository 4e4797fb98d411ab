// Package logutil provides a process-wide destination for debug logs.
//
// Library packages obtain a [*log.Logger] from GetLogger in a package-level
// variable. All loggers created this way share one destination, which is
// [io.Discard] until the program selects a real one with SetOutput or
// SetOutputFile; entry points typically do that when a -log flag is given.
package logutil

import (
	"io"
	"log"
	"os"
	"sync"
)

var (
	mu      sync.Mutex
	out     io.Writer = io.Discard
	outFile *os.File
	loggers []*log.Logger
)

// GetLogger returns a logger with the given prefix, writing to the shared
// destination. It is safe to call from package-level variable initializers.
func GetLogger(prefix string) *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	logger := log.New(out, prefix, log.LstdFlags)
	loggers = append(loggers, logger)
	return logger
}

// SetOutput redirects all loggers, current and future, to the given writer.
// If the destination was previously a file opened by SetOutputFile, it is
// closed.
func SetOutput(newOut io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	closeFile()
	outFile = nil
	setOutput(newOut)
}

// SetOutputFile redirects all loggers, current and future, to the named file,
// which is opened for appending. An empty name reverts the destination to
// [io.Discard].
func SetOutputFile(fname string) error {
	if fname == "" {
		SetOutput(io.Discard)
		return nil
	}
	file, err := os.OpenFile(fname, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	mu.Lock()
	defer mu.Unlock()
	closeFile()
	outFile = file
	setOutput(file)
	return nil
}

func setOutput(newOut io.Writer) {
	out = newOut
	for _, logger := range loggers {
		logger.SetOutput(out)
	}
}

func closeFile() {
	if outFile != nil {
		outFile.Close()
	}
}
