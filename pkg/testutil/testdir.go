package testutil

import (
	"os"
	"path/filepath"

	"github.com/weftui/weft/pkg/must"
)

// TempDir creates a temporary directory for testing that will be removed
// after the test finishes. It is different from the testing package's TempDir
// in that it resolves symlinks in the path of the directory.
//
// It panics if the directory cannot be created or symlinks cannot be resolved.
// It is only suitable for use in tests.
func TempDir(c Cleanuper) string {
	dir := must.OK1(os.MkdirTemp("", "weft-test"))
	dir = must.OK1(filepath.EvalSymlinks(dir))
	c.Cleanup(func() {
		os.RemoveAll(dir)
	})
	return dir
}

// InTempDir is like TempDir, but also changes into the directory, and restores
// the original working directory when the test finishes.
//
// It panics if it could not get the working directory or change directory. It
// is only suitable for use in tests.
func InTempDir(c Cleanuper) string {
	dir := TempDir(c)
	oldWd := must.OK1(os.Getwd())
	must.Chdir(dir)
	c.Cleanup(func() {
		must.Chdir(oldWd)
	})
	return dir
}
