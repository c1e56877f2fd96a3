// Package security provides path validation used when writing theme files
// and unpacking theme archives.
package security

import (
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
)

var themeNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateThemeName checks that name can be used as a directory directly
// beneath the themer root. reserved lists names already taken by the root
// layout.
func ValidateThemeName(name string, reserved ...string) error {
	if name == "" {
		return fmt.Errorf("empty theme name")
	}
	if !themeNamePattern.MatchString(name) {
		return fmt.Errorf("invalid theme name %q (letters, digits, '.', '_' and '-' only)", name)
	}
	if slices.Contains(reserved, name) {
		return fmt.Errorf("theme name %q is reserved", name)
	}
	return nil
}

// ValidateRelativePath checks that relPath joined to baseDir stays within
// baseDir. It is applied to template destinations and archive entries.
func ValidateRelativePath(relPath, baseDir string) error {
	if relPath == "" {
		return fmt.Errorf("empty file path")
	}

	if filepath.IsAbs(relPath) {
		return fmt.Errorf("absolute path %q not allowed", relPath)
	}

	if slices.Contains(strings.Split(filepath.ToSlash(relPath), "/"), "..") {
		return fmt.Errorf("path %q contains directory traversal", relPath)
	}

	cleanFinal := filepath.Clean(filepath.Join(baseDir, relPath))
	cleanBase := filepath.Clean(baseDir)
	if !strings.HasPrefix(cleanFinal, cleanBase+string(filepath.Separator)) {
		return fmt.Errorf("path %q would escape %s", relPath, baseDir)
	}

	return nil
}

// LimitedReader wraps an io.Reader and fails once more than the configured
// number of bytes has been read.
type LimitedReader struct {
	R         io.Reader
	Remaining int64
}

// Read implements io.Reader with size limits.
func (l *LimitedReader) Read(p []byte) (int, error) {
	if l.Remaining <= 0 {
		return 0, fmt.Errorf("decompression size limit exceeded")
	}
	if int64(len(p)) > l.Remaining {
		p = p[:l.Remaining]
	}
	n, err := l.R.Read(p)
	l.Remaining -= int64(n)
	return n, err
}

// NewLimitedReader creates a new LimitedReader with the specified size limit.
func NewLimitedReader(r io.Reader, maxBytes int64) *LimitedReader {
	return &LimitedReader{
		R:         r,
		Remaining: maxBytes,
	}
}
