// Package render materializes a template set into a theme directory.
package render

import (
	"bytes"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"text/template"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/themer/internal/renderctx"
	"github.com/jmylchreest/themer/internal/security"
)

// templateSuffixes mark sources that are rendered; anything else is copied.
var templateSuffixes = []string{".tpl", ".conf"}

// Renderer renders the files of one template directory.
type Renderer struct {
	templateDir string
	logger      hclog.Logger
}

// New creates a renderer reading sources from templateDir.
func New(templateDir string, logger hclog.Logger) *Renderer {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Renderer{templateDir: templateDir, logger: logger}
}

// IsTemplate reports whether src is rendered rather than copied.
func IsTemplate(src string) bool {
	return slices.ContainsFunc(templateSuffixes, func(suffix string) bool {
		return strings.HasSuffix(src, suffix)
	})
}

// Render writes every entry of files (source relative to the template
// directory, destination relative to destDir) into destDir. Sources are
// processed in sorted order; the first failure aborts.
func (r *Renderer) Render(files map[string]string, destDir string, ctx renderctx.Context) error {
	for _, src := range slices.Sorted(maps.Keys(files)) {
		dest := files[src]
		if err := security.ValidateRelativePath(src, r.templateDir); err != nil {
			return fmt.Errorf("invalid template source: %w", err)
		}
		if err := security.ValidateRelativePath(dest, destDir); err != nil {
			return fmt.Errorf("invalid destination for %s: %w", src, err)
		}

		srcPath := filepath.Join(r.templateDir, src)
		destPath := filepath.Join(destDir, dest)
		if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", dest, err)
		}

		if IsTemplate(src) {
			r.logger.Info("writing", "src", src, "dest", dest)
			if err := r.renderFile(srcPath, destPath, ctx); err != nil {
				return err
			}
			continue
		}

		r.logger.Info("copying", "src", src, "dest", dest)
		if err := CopyFile(srcPath, destPath); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) renderFile(srcPath, destPath string, ctx renderctx.Context) error {
	content, err := os.ReadFile(srcPath)
	if err != nil {
		return fmt.Errorf("failed to read template: %w", err)
	}

	tmpl, err := template.New(filepath.Base(srcPath)).
		Funcs(Funcs()).
		Option("missingkey=error").
		Parse(string(content))
	if err != nil {
		return fmt.Errorf("failed to parse template %s: %w", srcPath, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, map[string]any(ctx)); err != nil {
		return fmt.Errorf("failed to render template %s: %w", srcPath, err)
	}

	if err := os.WriteFile(destPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", destPath, err)
	}
	return nil
}

// CopyFile copies src to dst, keeping the source permission bits.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", src, err)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return out.Close()
}
