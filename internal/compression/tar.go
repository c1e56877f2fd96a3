package compression

import (
	"archive/tar"
	"compress/bzip2"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ulikunitz/xz"

	"github.com/jmylchreest/themer/internal/security"
)

func packTar(w io.Writer, srcDir string, format Format) error {
	var cw io.WriteCloser
	switch format {
	case FormatTarGz:
		cw = gzip.NewWriter(w)
	case FormatTarXz:
		xzw, err := xz.NewWriter(w)
		if err != nil {
			return fmt.Errorf("failed to create xz writer: %w", err)
		}
		cw = xzw
	default:
		return fmt.Errorf("unsupported tar compression %q", format)
	}

	tw := tar.NewWriter(cw)
	walkErr := walkFiles(srcDir, func(rel string, info fs.FileInfo, path string) error {
		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return fmt.Errorf("failed to create header for %s: %w", rel, err)
		}
		header.Name = filepath.ToSlash(rel)
		if info.IsDir() {
			header.Name += "/"
		}
		if err := tw.WriteHeader(header); err != nil {
			return fmt.Errorf("failed to write header for %s: %w", rel, err)
		}
		if info.IsDir() {
			return nil
		}
		return copyFrom(tw, path)
	})

	if err := errors.Join(walkErr, tw.Close(), cw.Close()); err != nil {
		return fmt.Errorf("failed to write %s archive: %w", format, err)
	}
	return nil
}

func unpackTar(r io.Reader, destDir string, format Format, maxSize int64) error {
	var dr io.Reader
	switch format {
	case FormatTarGz:
		gzr, err := gzip.NewReader(r)
		if err != nil {
			return fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gzr.Close()
		dr = gzr
	case FormatTarXz:
		xzr, err := xz.NewReader(r)
		if err != nil {
			return fmt.Errorf("failed to create xz reader: %w", err)
		}
		dr = xzr
	case FormatTarBz2:
		dr = bzip2.NewReader(r)
	default:
		return fmt.Errorf("unsupported tar compression %q", format)
	}

	limited := security.NewLimitedReader(dr, maxSize)
	tr := tar.NewReader(limited)
	for {
		header, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read tar archive: %w", err)
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := makeDir(destDir, header.Name); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := writeEntry(destDir, header.Name, header.FileInfo().Mode(), tr); err != nil {
				return err
			}
		}
	}
}

// walkFiles calls fn for every directory and regular file below root.
func walkFiles(root string, fn func(rel string, info fs.FileInfo, path string) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		if !d.IsDir() && !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		return fn(rel, info, path)
	})
}

func copyFrom(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}

func makeDir(destDir, name string) error {
	if err := security.ValidateRelativePath(name, destDir); err != nil {
		return fmt.Errorf("invalid archive entry: %w", err)
	}
	return os.MkdirAll(filepath.Join(destDir, name), 0o755)
}

func writeEntry(destDir, name string, mode fs.FileMode, r io.Reader) error {
	if err := security.ValidateRelativePath(name, destDir); err != nil {
		return fmt.Errorf("invalid archive entry: %w", err)
	}

	destPath := filepath.Join(destDir, name)
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", name, err)
	}

	out, err := os.OpenFile(destPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode.Perm()|0o600)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	_, copyErr := io.Copy(out, r)
	closeErr := out.Close()

	if copyErr != nil {
		return fmt.Errorf("failed to extract %s: %w", name, copyErr)
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close %s: %w", name, closeErr)
	}
	return nil
}
