package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rohmanhakim/docs-crawler/pkg/failure"
)

// GetFileExtension returns the extension of path without its leading dot,
// or "" if path has none.
func GetFileExtension(path string) string {
	return strings.TrimPrefix(filepath.Ext(path), ".")
}

// EnsureDir makes sure dir joined with the optional trailing path segments
// exists, creating it (and any missing parents) if necessary.
func EnsureDir(dir string, path ...string) failure.ClassifiedError {
	full := filepath.Join(append([]string{dir}, path...)...)
	if err := os.MkdirAll(full, 0755); err != nil {
		return &FileError{
			Message:   fmt.Sprintf("%v", err),
			Retryable: false,
			Cause:     ErrCausePathError,
		}
	}
	return nil
}
