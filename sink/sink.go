// Package sink provides output destinations for generated files.
package sink

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

var (
	// ErrInvalidPath is returned for output paths that are not clean,
	// relative and contained in the sink.
	ErrInvalidPath = errors.New("invalid output path")

	// ErrExists is returned when a file exists and the sink does not
	// overwrite.
	ErrExists = errors.New("file already exists")
)

// OutputSink receives generated file content.
// Implementations must be safe for concurrent calls.
type OutputSink interface {
	// WriteFile writes content to a relative, slash-separated path.
	WriteFile(ctx context.Context, path string, content []byte) error
}

// ValidatePath checks that p is non-empty, relative, slash-separated, clean
// and free of ".." components.
func ValidatePath(p string) error {
	if p == "" {
		return fmt.Errorf("%w: path is empty", ErrInvalidPath)
	}
	if filepath.IsAbs(p) || strings.HasPrefix(p, "/") || hasDriveLetter(p) {
		return fmt.Errorf("%w: absolute path %q", ErrInvalidPath, p)
	}
	for _, elem := range strings.Split(p, "/") {
		if elem == ".." {
			return fmt.Errorf("%w: %q escapes the output root", ErrInvalidPath, p)
		}
	}
	if strings.Contains(p, `\`) {
		return fmt.Errorf("%w: %q must use / as separator", ErrInvalidPath, p)
	}
	if cleaned := path.Clean(p); cleaned != p {
		return fmt.Errorf("%w: %q is not clean (want %q)", ErrInvalidPath, p, cleaned)
	}
	return nil
}

func hasDriveLetter(p string) bool {
	if len(p) < 2 || p[1] != ':' {
		return false
	}
	c := p[0] | 0x20
	return 'a' <= c && c <= 'z'
}
