// Package fsutil contains file system helpers.
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDir ensures a directory exists.
func EnsureDir(p string) error {
	err := os.MkdirAll(p, 0755)
	if err != nil && !os.IsExist(err) {
		return fmt.Errorf("creating directory %s: %s", p, err)
	}
	return nil
}

// EnsurePath ensures the parent directory of a file path exists.
func EnsurePath(p string) error {
	return EnsureDir(filepath.Dir(p))
}
