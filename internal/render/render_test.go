package render

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/themer/internal/renderctx"
)

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestRender(t *testing.T) {
	tmplDir := t.TempDir()
	dest := t.TempDir()

	writeFile(t, filepath.Join(tmplDir, "Xresources.tpl"), "*color1: {{ .red }}\n*primary: {{ .primary | upper }}\n")
	writeFile(t, filepath.Join(tmplDir, "i3.conf"), "client.focused {{ .primary | hexNoHash }} {{ .background | rgba 0.5 }}\n")
	writeFile(t, filepath.Join(tmplDir, "bg.png"), "{{ not a template }}")

	ctx := renderctx.Context{"red": "#ff0000", "primary": "#aa00bb", "background": "#102030"}
	files := map[string]string{
		"Xresources.tpl": "Xresources",
		"i3.conf":        "i3/config",
		"bg.png":         "images/bg.png",
	}

	require.NoError(t, New(tmplDir, nil).Render(files, dest, ctx))

	assert.Equal(t, "*color1: #ff0000\n*primary: #AA00BB\n", readFile(t, filepath.Join(dest, "Xresources")))
	assert.Equal(t, "client.focused aa00bb rgba(16,32,48,0.5)\n", readFile(t, filepath.Join(dest, "i3", "config")))
	assert.Equal(t, "{{ not a template }}", readFile(t, filepath.Join(dest, "images", "bg.png")))
}

func TestRenderMissingKey(t *testing.T) {
	tmplDir := t.TempDir()
	writeFile(t, filepath.Join(tmplDir, "x.tpl"), "{{ .nope }}")

	err := New(tmplDir, nil).Render(map[string]string{"x.tpl": "x"}, t.TempDir(), renderctx.Context{})
	assert.Error(t, err)
}

func TestRenderRejectsEscapingDestination(t *testing.T) {
	tmplDir := t.TempDir()
	writeFile(t, filepath.Join(tmplDir, "x.tpl"), "x")

	err := New(tmplDir, nil).Render(map[string]string{"x.tpl": "../x"}, t.TempDir(), renderctx.Context{})
	assert.Error(t, err)
}

func TestRenderMissingSource(t *testing.T) {
	err := New(t.TempDir(), nil).Render(map[string]string{"gone.txt": "gone"}, t.TempDir(), renderctx.Context{})
	assert.Error(t, err)
}

func TestIsTemplate(t *testing.T) {
	assert.True(t, IsTemplate("Xresources.tpl"))
	assert.True(t, IsTemplate("i3.conf"))
	assert.False(t, IsTemplate("wallpaper.png"))
	assert.False(t, IsTemplate("config"))
}

func TestFuncs(t *testing.T) {
	funcs := Funcs()

	hexNoHash := funcs["hexNoHash"].(func(any) (string, error))
	s, err := hexNoHash("#AABBCC")
	require.NoError(t, err)
	assert.Equal(t, "aabbcc", s)

	_, err = hexNoHash(12)
	assert.Error(t, err)

	rgb := funcs["rgb"].(func(any) (string, error))
	s, err = rgb("#0a0b0c")
	require.NoError(t, err)
	assert.Equal(t, "rgb(10,11,12)", s)

	rgba := funcs["rgba"].(func(float64, any) (string, error))
	_, err = rgba(1.5, "#000000")
	assert.Error(t, err)

	assert.Equal(t, "a-b", replaceFunc("_", "-", "a_b"))
	assert.Equal(t, "font", trimPrefixFunc("xft:", "xft:font"))
}

func TestCopyFilePreservesMode(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "script.sh")
	require.NoError(t, os.WriteFile(src, []byte("#!/bin/sh\n"), 0o755))

	dst := filepath.Join(dir, "copy.sh")
	require.NoError(t, CopyFile(src, dst))

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
	assert.Equal(t, "#!/bin/sh\n", readFile(t, dst))
}
