package cli_test

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/themer/internal/cli"
)

// quietDesktop disables the commands activation would otherwise run.
const quietDesktop = `
desktop:
  wallpaper_command: []
  icon_theme: ""
  vim_colors_dir: ""
  reload_hooks: []
`

type env struct {
	root   string
	colors string
}

func setup(t *testing.T) *env {
	t.Helper()
	root := t.TempDir()
	templateDir := filepath.Join(root, "templates", "i3")
	require.NoError(t, os.MkdirAll(templateDir, 0o755))

	write := func(path, data string) {
		require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	}
	write(filepath.Join(root, "themer.yaml"), quietDesktop)
	write(filepath.Join(templateDir, "config.yaml"), "variables:\n  primary: alt_red\nfiles:\n  Xresources.tpl: Xresources\n")
	write(filepath.Join(templateDir, "Xresources.tpl"), "*background: {{ .background }}\n*color9: {{ .alt_red }}\n! primary {{ .primary }} secondary {{ .secondary }}\n")

	var b strings.Builder
	b.WriteString("*background: #0e0e0e\n*foreground: #ffffff\n")
	for i := range 16 {
		fmt.Fprintf(&b, "*color%d: #%02x%02x%02x\n", i, i*10, i*5, i*3)
	}
	colors := filepath.Join(t.TempDir(), "colors")
	write(colors, b.String())

	return &env{root: root, colors: colors}
}

func (e *env) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := cli.NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(append([]string{"--root", e.root}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	e := setup(t)
	out, err := e.run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "themer version"))
}

func TestGenerateFromFileAndActivate(t *testing.T) {
	e := setup(t)

	_, err := e.run(t, "generate", "ocean", e.colors, "-a")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(e.root, "ocean", "Xresources"))
	require.NoError(t, err)
	assert.Equal(t, "*background: #0e0e0e\n*color9: #5a2d1b\n! primary #5a2d1b secondary #140a06\n", string(data))

	out, err := e.run(t, "current")
	require.NoError(t, err)
	assert.Equal(t, "ocean\n", out)

	_, err = os.Stat(filepath.Join(e.root, "ocean", "wallpaper.png"))
	assert.NoError(t, err)
}

func TestGenerateWithoutTerminalDoesNotActivate(t *testing.T) {
	e := setup(t)
	_, err := e.run(t, "generate", "ocean", e.colors)
	require.NoError(t, err)

	out, err := e.run(t, "current")
	require.NoError(t, err)
	assert.Equal(t, "No theme\n", out)
}

func TestGenerateFromImage(t *testing.T) {
	e := setup(t)

	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := range 8 {
		for x := range 8 {
			c := color.NRGBA{R: 0xc0, A: 0xff}
			if x >= 4 {
				c = color.NRGBA{B: 0xc0, A: 0xff}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	wall := filepath.Join(t.TempDir(), "wall.png")
	f, err := os.Create(wall)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	_, err = e.run(t, "generate", "wall", wall, "--seed-mode", "manual", "--seed", "7")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(e.root, "wall", "wallpaper.png"))
	require.NoError(t, err)

	out, err := e.run(t, "show", "wall")
	require.NoError(t, err)
	assert.Contains(t, out, "background")
	assert.Contains(t, out, "#0e0e0e")
	assert.Contains(t, out, "alt_white")
}

func TestGenerateErrors(t *testing.T) {
	e := setup(t)

	_, err := e.run(t, "generate", "ocean", e.colors, "-t", "sway")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to find file")

	_, err = e.run(t, "generate", "ocean")
	assert.Error(t, err)

	_, err = e.run(t, "generate", "ocean", e.colors)
	require.NoError(t, err)
	_, err = e.run(t, "generate", "ocean", e.colors)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = e.run(t, "generate", "ocean", e.colors, "--force")
	assert.NoError(t, err)

	_, err = e.run(t, "generate", "current", e.colors)
	assert.Error(t, err)
}

func TestListActivateDelete(t *testing.T) {
	e := setup(t)
	for _, name := range []string{"ocean", "forest"} {
		_, err := e.run(t, "generate", name, e.colors)
		require.NoError(t, err)
	}

	out, err := e.run(t, "list")
	require.NoError(t, err)
	assert.Equal(t, "forest\nocean\n", out)

	_, err = e.run(t, "activate", "forest")
	require.NoError(t, err)
	out, err = e.run(t, "current")
	require.NoError(t, err)
	assert.Equal(t, "forest\n", out)

	_, err = e.run(t, "delete", "forest")
	require.NoError(t, err)
	out, err = e.run(t, "list")
	require.NoError(t, err)
	assert.Equal(t, "ocean\n", out)

	_, err = e.run(t, "activate", "forest")
	assert.Error(t, err)
}

func TestShowSource(t *testing.T) {
	e := setup(t)
	out, err := e.run(t, "show", e.colors)
	require.NoError(t, err)
	assert.Contains(t, out, "SLOT")
	assert.Contains(t, out, "alt_red")
	assert.Contains(t, out, "#5a2d1b")
}

func TestExportImport(t *testing.T) {
	e := setup(t)
	_, err := e.run(t, "generate", "ocean", e.colors)
	require.NoError(t, err)

	archive := filepath.Join(t.TempDir(), "ocean.tar.xz")
	_, err = e.run(t, "export", "ocean", archive)
	require.NoError(t, err)

	_, err = e.run(t, "import", archive, "ocean2")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(e.root, "ocean2", "Xresources"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "#5a2d1b")

	_, err = e.run(t, "export", "ocean", filepath.Join(t.TempDir(), "ocean.rar"))
	assert.Error(t, err)
}
