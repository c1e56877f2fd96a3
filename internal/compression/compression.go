// Package compression packs theme directories into archives and unpacks
// them again.
package compression

import (
	"fmt"
	"io"
	"strings"
)

// DefaultMaxSize bounds the total uncompressed size accepted by Unpack.
const DefaultMaxSize = 100 * 1024 * 1024

// Format is an archive format.
type Format string

const (
	FormatTarGz  Format = "tar.gz"
	FormatTarXz  Format = "tar.xz"
	FormatTarBz2 Format = "tar.bz2"
	FormatZip    Format = "zip"
)

// DetectFormat returns the archive format implied by the filename extension.
func DetectFormat(filename string) (Format, error) {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		return FormatTarGz, nil
	case strings.HasSuffix(lower, ".tar.xz"), strings.HasSuffix(lower, ".txz"):
		return FormatTarXz, nil
	case strings.HasSuffix(lower, ".tar.bz2"), strings.HasSuffix(lower, ".tbz2"):
		return FormatTarBz2, nil
	case strings.HasSuffix(lower, ".zip"):
		return FormatZip, nil
	default:
		return "", fmt.Errorf("unsupported archive format: %s (use .tar.gz, .tar.xz, .tar.bz2 or .zip)", filename)
	}
}

// Pack writes the regular files and directories under srcDir to w. Entry
// names are relative to srcDir.
func Pack(w io.Writer, srcDir string, format Format) error {
	switch format {
	case FormatTarGz, FormatTarXz:
		return packTar(w, srcDir, format)
	case FormatZip:
		return packZip(w, srcDir)
	case FormatTarBz2:
		return fmt.Errorf("writing %s archives is not supported", format)
	default:
		return fmt.Errorf("unknown archive format %q", format)
	}
}

// Unpack extracts the archive read from r into destDir, rejecting entries
// that would escape it and failing once more than maxSize bytes have been
// written. Entries other than regular files and directories are skipped.
func Unpack(r io.Reader, destDir string, format Format, maxSize int64) error {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	switch format {
	case FormatTarGz, FormatTarXz, FormatTarBz2:
		return unpackTar(r, destDir, format, maxSize)
	case FormatZip:
		return unpackZip(r, destDir, maxSize)
	default:
		return fmt.Errorf("unknown archive format %q", format)
	}
}
