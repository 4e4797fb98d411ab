package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// MustGetTempStore returns a Store backed by a file in a temporary directory,
// along with a cleanup function that closes the store and removes the
// directory. It panics if the store cannot be created. It is only meant for
// use in tests.
func MustGetTempStore() (DBStore, func()) {
	dir, err := os.MkdirTemp("", "weft-store")
	if err != nil {
		panic(fmt.Sprintf("create temp dir: %v", err))
	}
	st, err := NewStore(filepath.Join(dir, "db"))
	if err != nil {
		os.RemoveAll(dir)
		panic(fmt.Sprintf("create temp store: %v", err))
	}
	return st, func() {
		st.Close()
		os.RemoveAll(dir)
	}
}
