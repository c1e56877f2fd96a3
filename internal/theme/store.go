// Package theme manages the generated themes beneath the themer root.
package theme

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/themer/internal/colour"
	"github.com/jmylchreest/themer/internal/compression"
	"github.com/jmylchreest/themer/internal/config"
	"github.com/jmylchreest/themer/internal/render"
	"github.com/jmylchreest/themer/internal/renderctx"
	"github.com/jmylchreest/themer/internal/security"
	"github.com/jmylchreest/themer/internal/source/cached"
)

var (
	// ErrNotFound is returned for operations on a theme that does not exist.
	ErrNotFound = errors.New("theme not found")

	// ErrExists is returned when generating or importing over an existing
	// theme without overwrite.
	ErrExists = errors.New("theme already exists")

	// ErrNoCurrent is returned by Current when no theme is active.
	ErrNoCurrent = errors.New("no theme")
)

// stagingPrefix marks in-progress directories; List ignores them.
const stagingPrefix = ".staging-"

// reserved are root entries that are never themes.
var reserved = []string{config.TemplatesDir, config.CurrentLink}

// Store manages theme directories under a root.
type Store struct {
	root   string
	logger hclog.Logger
}

// NewStore creates a store rooted at root.
func NewStore(root string, logger hclog.Logger) *Store {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Store{root: root, logger: logger}
}

// Root returns the store root.
func (s *Store) Root() string {
	return s.root
}

// Path returns the directory of the named theme.
func (s *Store) Path(name string) string {
	return filepath.Join(s.root, name)
}

// ColorsPath returns the palette artifact of the named theme.
func (s *Store) ColorsPath(name string) string {
	return filepath.Join(s.Path(name), cached.FileName)
}

// Exists reports whether the named theme directory exists.
func (s *Store) Exists(name string) bool {
	info, err := os.Stat(s.Path(name))
	return err == nil && info.IsDir()
}

func (s *Store) validate(name string) error {
	return security.ValidateThemeName(name, reserved...)
}

func (s *Store) existing(name string) error {
	if err := s.validate(name); err != nil {
		return err
	}
	if !s.Exists(name) {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return nil
}

// List returns the theme names in sorted order.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.root, err)
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if slices.Contains(reserved, name) || strings.HasPrefix(name, ".") {
			continue
		}
		if s.Exists(name) {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names, nil
}

// Current returns the name of the active theme.
func (s *Store) Current() (string, error) {
	link := filepath.Join(s.root, config.CurrentLink)
	target, err := filepath.EvalSymlinks(link)
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrNoCurrent
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", link, err)
	}
	return filepath.Base(target), nil
}

// SetCurrent points the current symlink at the named theme.
func (s *Store) SetCurrent(name string) error {
	if err := s.existing(name); err != nil {
		return err
	}

	link := filepath.Join(s.root, config.CurrentLink)
	tmp := filepath.Join(s.root, stagingPrefix+config.CurrentLink)
	_ = os.Remove(tmp)
	if err := os.Symlink(s.Path(name), tmp); err != nil {
		return fmt.Errorf("failed to link %s: %w", name, err)
	}
	if err := os.Rename(tmp, link); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to set current theme: %w", err)
	}
	s.logger.Info("set current theme", "theme", name)
	return nil
}

// Delete removes the named theme. The current link is removed too when it
// points at the theme.
func (s *Store) Delete(name string) error {
	if err := s.existing(name); err != nil {
		return err
	}

	if current, err := s.Current(); err == nil && current == name {
		if err := os.Remove(filepath.Join(s.root, config.CurrentLink)); err != nil {
			return fmt.Errorf("failed to remove current link: %w", err)
		}
	}
	if err := os.RemoveAll(s.Path(name)); err != nil {
		return fmt.Errorf("failed to remove %s: %w", name, err)
	}
	s.logger.Info("removed theme", "theme", name)
	return nil
}

// Colors loads the persisted context of the named theme.
func (s *Store) Colors(ctx context.Context, name string) (colour.Palette, error) {
	if err := s.existing(name); err != nil {
		return nil, err
	}
	return cached.New(s.ColorsPath(name)).Read(ctx)
}

// GenerateRequest describes a theme to materialize.
type GenerateRequest struct {
	Name        string
	TemplateDir string
	Template    *config.TemplateConfig
	Context     renderctx.Context

	// Wallpaper, when set, is copied into the theme as wallpaper<ext>.
	Wallpaper string

	// WallpaperData supplies the wallpaper content for non-local sources.
	WallpaperData []byte

	Overwrite bool
}

// Generate renders the template set into a staging directory, adds the
// wallpaper and the palette artifact and then moves it into place. On
// failure nothing is left behind.
func (s *Store) Generate(req GenerateRequest) error {
	if err := s.validate(req.Name); err != nil {
		return err
	}
	if req.Template == nil {
		return fmt.Errorf("template config is required")
	}
	if s.Exists(req.Name) && !req.Overwrite {
		return fmt.Errorf("%w: %s", ErrExists, req.Name)
	}

	return s.stage(req.Name, req.Overwrite, func(dir string) error {
		renderer := render.New(req.TemplateDir, s.logger.Named("render"))
		if err := renderer.Render(req.Template.Files, dir, req.Context); err != nil {
			return err
		}

		if req.Wallpaper != "" {
			if err := s.writeWallpaper(dir, req.Wallpaper, req.WallpaperData); err != nil {
				return err
			}
		}

		return cached.Write(filepath.Join(dir, cached.FileName), req.Context)
	})
}

func (s *Store) writeWallpaper(dir, wallpaper string, data []byte) error {
	ext := strings.ToLower(filepath.Ext(stripQuery(wallpaper)))
	dest := filepath.Join(dir, "wallpaper"+ext)
	s.logger.Info("copying wallpaper", "src", wallpaper, "dest", dest)

	if data != nil {
		if err := os.WriteFile(dest, data, 0o644); err != nil {
			return fmt.Errorf("failed to write wallpaper: %w", err)
		}
		return nil
	}
	return render.CopyFile(wallpaper, dest)
}

// Export writes the named theme as an archive to w.
func (s *Store) Export(name string, w io.Writer, format compression.Format) error {
	if err := s.existing(name); err != nil {
		return err
	}
	return compression.Pack(w, s.Path(name), format)
}

// Import unpacks an archive into a new theme. The archive must contain a
// palette artifact at its top level.
func (s *Store) Import(r io.Reader, name string, format compression.Format, overwrite bool) error {
	if err := s.validate(name); err != nil {
		return err
	}
	if s.Exists(name) && !overwrite {
		return fmt.Errorf("%w: %s", ErrExists, name)
	}

	return s.stage(name, overwrite, func(dir string) error {
		if err := compression.Unpack(r, dir, format, compression.DefaultMaxSize); err != nil {
			return err
		}
		if _, err := os.Stat(filepath.Join(dir, cached.FileName)); err != nil {
			return fmt.Errorf("archive has no %s: %w", cached.FileName, err)
		}
		return nil
	})
}

// stage runs fill against a fresh staging directory and renames the result
// to the named theme.
func (s *Store) stage(name string, overwrite bool, fill func(dir string) error) error {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", s.root, err)
	}
	dir, err := os.MkdirTemp(s.root, stagingPrefix+name+"-")
	if err != nil {
		return fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer os.RemoveAll(dir)

	if err := os.Chmod(dir, 0o755); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", dir, err)
	}
	if err := fill(dir); err != nil {
		return err
	}

	dest := s.Path(name)
	if overwrite && s.Exists(name) {
		old := dir + ".old"
		if err := os.Rename(dest, old); err != nil {
			return fmt.Errorf("failed to replace %s: %w", name, err)
		}
		defer os.RemoveAll(old)
	}
	if err := os.Rename(dir, dest); err != nil {
		return fmt.Errorf("failed to move theme into place: %w", err)
	}
	return nil
}

func stripQuery(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		return path[:i]
	}
	return path
}
