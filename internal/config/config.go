// Package config loads the themer application settings and the per-template
// configuration files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/themer/internal/renderctx"
	imagesource "github.com/jmylchreest/themer/internal/source/image"
	"github.com/jmylchreest/themer/internal/source/remote"
	"github.com/jmylchreest/themer/internal/source/seed"
	httputil "github.com/jmylchreest/themer/internal/util/http"
)

const (
	// FileName is the optional settings file inside the themer root.
	FileName = "themer.yaml"

	// TemplatesDir holds one directory per template set.
	TemplatesDir = "templates"

	// CurrentLink is the symlink pointing at the active theme.
	CurrentLink = "current"
)

// Config holds the application settings.
type Config struct {
	// Root is the themer directory; themes are created beneath it.
	Root string `yaml:"-" validate:"required"`

	DefaultRoles []renderctx.DefaultRole `yaml:"default_roles" validate:"dive"`
	Image        ImageConfig             `yaml:"image"`
	Remote       RemoteConfig            `yaml:"remote"`
	Desktop      DesktopConfig           `yaml:"desktop"`
}

// ImageConfig configures palette extraction from images.
type ImageConfig struct {
	Background    string  `yaml:"background" validate:"required,hexcolour"`
	Foreground    string  `yaml:"foreground" validate:"required,hexcolour"`
	Colours       int     `yaml:"colours" validate:"gte=1,lte=16"`
	MinDiff       float64 `yaml:"min_diff" validate:"gte=0"`
	MaxIterations int     `yaml:"max_iterations" validate:"gte=1"`
	MaxSize       int     `yaml:"max_size" validate:"gte=1"`
	SeedMode      string  `yaml:"seed_mode" validate:"omitempty,seed_mode"`
	SeedValue     *int64  `yaml:"seed_value" validate:"required_if=SeedMode manual"`
}

// RemoteConfig configures the sweyla palette source.
type RemoteConfig struct {
	PaletteURL string        `yaml:"palette_url" validate:"required,url_template"`
	VimURL     string        `yaml:"vim_url" validate:"required,url_template"`
	Timeout    time.Duration `yaml:"timeout" validate:"gt=0"`
}

// DesktopConfig configures activation side effects.
type DesktopConfig struct {
	// WallpaperCommand is run with the wallpaper path appended. Empty
	// disables wallpaper setting.
	WallpaperCommand []string `yaml:"wallpaper_command"`

	// IconTheme is an SVG icon theme whose gradient stops follow the
	// primary and secondary colours. Empty disables recolouring.
	IconTheme     string `yaml:"icon_theme"`
	PrimaryIcon   string `yaml:"primary_icon" validate:"required_with=IconTheme"`
	SecondaryIcon string `yaml:"secondary_icon" validate:"required_with=IconTheme"`

	// VimColorsDir receives the vim scheme of remote themes.
	VimColorsDir string `yaml:"vim_colors_dir"`

	ReloadHooks []ReloadHook `yaml:"reload_hooks" validate:"dive"`
}

// ReloadHook is a command run after activation.
type ReloadHook struct {
	Name    string   `yaml:"name" validate:"required"`
	Command []string `yaml:"command" validate:"min=1,dive,required"`

	// Process, when set, limits the hook to sessions where a process with
	// this executable name is running.
	Process string `yaml:"process"`
}

// DefaultRoot returns $XDG_CONFIG_HOME/themer, falling back to
// $HOME/.config/themer.
func DefaultRoot() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "themer"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "themer"), nil
}

// Default returns the built-in settings for root, with desktop paths
// relative to home.
func Default(root, home string) *Config {
	return &Config{
		Root:         root,
		DefaultRoles: renderctx.DefaultRoles(),
		Image: ImageConfig{
			Background:    imagesource.DefaultBackground,
			Foreground:    imagesource.DefaultForeground,
			Colours:       imagesource.DefaultColours,
			MinDiff:       imagesource.DefaultMinDiff,
			MaxIterations: 300,
			MaxSize:       imagesource.DefaultMaxSize,
			SeedMode:      string(seed.ModeContent),
		},
		Remote: RemoteConfig{
			PaletteURL: remote.DefaultPaletteURL,
			VimURL:     remote.DefaultVimURL,
			Timeout:    httputil.DefaultTimeout,
		},
		Desktop: DesktopConfig{
			WallpaperCommand: []string{"wallfix"},
			IconTheme:        filepath.Join(home, ".icons", "acyl"),
			PrimaryIcon:      filepath.Join("scalable", "places", "desktop.svg"),
			SecondaryIcon:    filepath.Join("scalable", "actions", "add.svg"),
			VimColorsDir:     filepath.Join(home, ".vim", "colors"),
			ReloadHooks: []ReloadHook{
				{Name: "xrdb", Command: []string{"xrdb", "-merge", filepath.Join(home, ".Xresources")}},
				{Name: "i3", Command: []string{"i3-msg", "-q", "restart"}, Process: "i3"},
			},
		},
	}
}

// Load returns the settings for root, overlaid with root/themer.yaml when
// present. An empty root selects DefaultRoot.
func Load(root string) (*Config, error) {
	if root == "" {
		var err error
		if root, err = DefaultRoot(); err != nil {
			return nil, err
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to determine home directory: %w", err)
	}

	cfg := Default(root, home)
	path := filepath.Join(root, FileName)
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return cfg, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}
	return cfg, nil
}

// TemplatesRoot returns the directory holding the template sets.
func (c *Config) TemplatesRoot() string {
	return filepath.Join(c.Root, TemplatesDir)
}

// TemplateDir returns the directory of the named template set.
func (c *Config) TemplateDir(name string) string {
	return filepath.Join(c.TemplatesRoot(), name)
}

// CurrentPath returns the path of the active theme symlink.
func (c *Config) CurrentPath() string {
	return filepath.Join(c.Root, CurrentLink)
}

// ImageOptions converts the image settings into image source options.
func (c *Config) ImageOptions() imagesource.Options {
	return imagesource.Options{
		Background:    c.Image.Background,
		Foreground:    c.Image.Foreground,
		Colours:       c.Image.Colours,
		MinDiff:       c.Image.MinDiff,
		MaxIterations: c.Image.MaxIterations,
		MaxSize:       c.Image.MaxSize,
		Seed:          seed.Config{Mode: seed.Mode(c.Image.SeedMode), Value: c.Image.SeedValue},
		Fetch:         httputil.FetchOptions{Timeout: c.Remote.Timeout},
	}
}

// RemoteOptions converts the remote settings into remote source options.
func (c *Config) RemoteOptions() remote.Options {
	return remote.Options{
		PaletteURL: c.Remote.PaletteURL,
		VimURL:     c.Remote.VimURL,
		Timeout:    c.Remote.Timeout,
	}
}
