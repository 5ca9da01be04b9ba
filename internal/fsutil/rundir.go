// Package fsutil provides file system utility functions.
package fsutil

import (
	"fmt"
	"os"
	"strconv"
)

// NextRunIndex scans dir for all-digit subdirectories (the zero-padded run
// directories of previous invocations) and returns the index after the
// highest one, so a resumed sequence never collides with earlier output.
// A missing or empty directory yields 1.
func NextRunIndex(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 1, nil
		}
		return 0, fmt.Errorf("scanning output directory: %w", err)
	}

	highest := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		n, err := strconv.Atoi(entry.Name())
		if err != nil || n <= 0 {
			continue
		}
		if n > highest {
			highest = n
		}
	}
	return highest + 1, nil
}

// EnsureDir creates path and any missing parents.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", path, err)
	}
	return nil
}
