package util

import (
	"fmt"
	"os"
	"path/filepath"
)

// TempSocketPath returns a short path suitable for binding a test or
// scratch Unix socket, plus a cleanup function removing it.  The path
// is created under /tmp rather than the caller's working directory
// because sun_path is limited to roughly 104 bytes.
func TempSocketPath(prefix string) (string, func(), error) {
	dir, err := os.MkdirTemp("", prefix)
	if err != nil {
		return "", nil, fmt.Errorf("temp socket dir: %w", err)
	}
	path := filepath.Join(dir, "s")
	return path, func() { os.RemoveAll(dir) }, nil
}
