package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/themer/internal/renderctx"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default("/tmp/themer", "/home/user")
	require.NoError(t, Validate(cfg))

	assert.Equal(t, renderctx.DefaultRoles(), cfg.DefaultRoles)
	assert.Equal(t, "#0e0e0e", cfg.Image.Background)
	assert.Equal(t, "#ffffff", cfg.Image.Foreground)
	assert.Equal(t, 16, cfg.Image.Colours)
	assert.Equal(t, 10*time.Second, cfg.Remote.Timeout)
	assert.Equal(t, "/home/user/.icons/acyl", cfg.Desktop.IconTheme)
	assert.Equal(t, "/tmp/themer/templates/i3", cfg.TemplateDir("i3"))
	assert.Equal(t, "/tmp/themer/current", cfg.CurrentPath())
}

func TestDefaultRootFromXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	root, err := DefaultRoot()
	require.NoError(t, err)
	assert.Equal(t, "/xdg/themer", root)

	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/someone")
	root, err = DefaultRoot()
	require.NoError(t, err)
	assert.Equal(t, "/home/someone/.config/themer", root)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	root := t.TempDir()
	cfg, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, root, cfg.Root)
	assert.Equal(t, 300, cfg.Image.MaxIterations)
}

func TestLoadOverlay(t *testing.T) {
	root := t.TempDir()
	data := `
default_roles:
  - role: primary
    slot: alt_red
image:
  background: "#101010"
  colours: 8
remote:
  timeout: 3s
desktop:
  wallpaper_command: [feh, --bg-fill]
  reload_hooks:
    - name: polybar
      command: [polybar-msg, cmd, restart]
      process: polybar
`
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName), []byte(data), 0o600))

	cfg, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, []renderctx.DefaultRole{{Role: "primary", Slot: "alt_red"}}, cfg.DefaultRoles)
	assert.Equal(t, "#101010", cfg.Image.Background)
	assert.Equal(t, "#ffffff", cfg.Image.Foreground)
	assert.Equal(t, 8, cfg.Image.Colours)
	assert.Equal(t, 3*time.Second, cfg.Remote.Timeout)
	assert.Equal(t, []string{"feh", "--bg-fill"}, cfg.Desktop.WallpaperCommand)
	require.Len(t, cfg.Desktop.ReloadHooks, 1)
	assert.Equal(t, "polybar", cfg.Desktop.ReloadHooks[0].Process)

	opts := cfg.ImageOptions()
	assert.Equal(t, 8, opts.Colours)
	assert.Equal(t, 3*time.Second, opts.Fetch.Timeout)
	assert.Equal(t, 3*time.Second, cfg.RemoteOptions().Timeout)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name  string
		data  string
		field string
	}{
		{name: "bad colour", data: "image:\n  background: black\n", field: "config.image.background"},
		{name: "too many colours", data: "image:\n  colours: 17\n", field: "config.image.colours"},
		{name: "bad seed mode", data: "image:\n  seed_mode: lucky\n", field: "config.image.seedmode"},
		{name: "manual without value", data: "image:\n  seed_mode: manual\n", field: "config.image.seedvalue"},
		{name: "url without placeholder", data: "remote:\n  palette_url: http://example.com/x.txt\n", field: "config.remote.paletteurl"},
		{name: "empty hook", data: "desktop:\n  reload_hooks:\n    - name: x\n", field: "config.desktop.reloadhooks[0].command"},
		{name: "empty role", data: "default_roles:\n  - role: primary\n", field: "config.defaultroles[0].slot"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(root, FileName), []byte(tt.data), 0o600))

			_, err := Load(root)
			require.Error(t, err)

			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName), []byte("image: [unterminated"), 0o600))
	_, err := Load(root)
	assert.Error(t, err)
}

func TestValidateNil(t *testing.T) {
	assert.Error(t, Validate(nil))
}
