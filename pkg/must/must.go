// Package must contains small functions that panic on errors.
//
// They are for tests and for the rare production sites where an error is
// provably impossible.
package must

import (
	"io"
	"os"
	"path/filepath"
)

// OK panics if the error is not nil. Use it with functions returning just an
// error.
func OK(err error) {
	if err != nil {
		panic(err)
	}
}

// OK1 panics if the error is not nil, and returns the other value otherwise.
func OK1[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// OK2 panics if the error is not nil, and returns the other two values
// otherwise.
func OK2[T1, T2 any](v1 T1, v2 T2, err error) (T1, T2) {
	if err != nil {
		panic(err)
	}
	return v1, v2
}

// Pipe wraps [os.Pipe].
func Pipe() (*os.File, *os.File) {
	return OK2(os.Pipe())
}

// Chdir wraps [os.Chdir].
func Chdir(dir string) {
	OK(os.Chdir(dir))
}

// ReadAllAndClose reads everything from r, then closes it.
func ReadAllAndClose(r io.ReadCloser) []byte {
	v := OK1(io.ReadAll(r))
	OK(r.Close())
	return v
}

// ReadFileString reads the named file and returns the content as a string.
func ReadFileString(fname string) string {
	return string(OK1(os.ReadFile(fname)))
}

// WriteFile writes data to a file, creating ancestor directories that don't
// exist yet.
func WriteFile(fname, data string) {
	OK(os.MkdirAll(filepath.Dir(fname), 0700))
	OK(os.WriteFile(fname, []byte(data), 0600))
}
