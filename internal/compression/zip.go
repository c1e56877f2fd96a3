package compression

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"

	"github.com/jmylchreest/themer/internal/security"
)

func packZip(w io.Writer, srcDir string) error {
	zw := zip.NewWriter(w)
	walkErr := walkFiles(srcDir, func(rel string, info fs.FileInfo, path string) error {
		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return fmt.Errorf("failed to create header for %s: %w", rel, err)
		}
		header.Name = filepath.ToSlash(rel)
		if info.IsDir() {
			header.Name += "/"
		} else {
			header.Method = zip.Deflate
		}
		entry, err := zw.CreateHeader(header)
		if err != nil {
			return fmt.Errorf("failed to write header for %s: %w", rel, err)
		}
		if info.IsDir() {
			return nil
		}
		return copyFrom(entry, path)
	})

	if err := errors.Join(walkErr, zw.Close()); err != nil {
		return fmt.Errorf("failed to write zip archive: %w", err)
	}
	return nil
}

func unpackZip(r io.Reader, destDir string, maxSize int64) error {
	// zip needs random access to the central directory.
	data, err := io.ReadAll(security.NewLimitedReader(r, maxSize))
	if err != nil {
		return fmt.Errorf("failed to read zip archive: %w", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("failed to open zip archive: %w", err)
	}

	remaining := maxSize
	for _, f := range zr.File {
		mode := f.Mode()
		switch {
		case mode.IsDir():
			if err := makeDir(destDir, f.Name); err != nil {
				return err
			}
		case mode.IsRegular():
			rc, err := f.Open()
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", f.Name, err)
			}
			limited := security.NewLimitedReader(rc, remaining)
			err = writeEntry(destDir, f.Name, mode, limited)
			rc.Close()
			if err != nil {
				return err
			}
			remaining = limited.Remaining
		}
	}
	return nil
}
