package compression

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func populate(t *testing.T, dir string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "i3"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "colors.yaml"), []byte("red: '#ff0000'\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "i3", "config"), []byte("set $bg #000000\n"), 0o644))
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name    string
		want    Format
		wantErr bool
	}{
		{name: "ocean.tar.gz", want: FormatTarGz},
		{name: "ocean.TGZ", want: FormatTarGz},
		{name: "ocean.tar.xz", want: FormatTarXz},
		{name: "ocean.tar.bz2", want: FormatTarBz2},
		{name: "ocean.zip", want: FormatZip},
		{name: "ocean.rar", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFormat(tt.name)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPackUnpackRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatTarGz, FormatTarXz, FormatZip} {
		t.Run(string(format), func(t *testing.T) {
			src := t.TempDir()
			populate(t, src)

			var buf bytes.Buffer
			require.NoError(t, Pack(&buf, src, format))

			dest := t.TempDir()
			require.NoError(t, Unpack(&buf, dest, format, 0))

			data, err := os.ReadFile(filepath.Join(dest, "colors.yaml"))
			require.NoError(t, err)
			assert.Equal(t, "red: '#ff0000'\n", string(data))

			data, err = os.ReadFile(filepath.Join(dest, "i3", "config"))
			require.NoError(t, err)
			assert.Equal(t, "set $bg #000000\n", string(data))
		})
	}
}

func TestPackBz2Unsupported(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Pack(&buf, t.TempDir(), FormatTarBz2))
}

func TestUnpackRejectsTraversal(t *testing.T) {
	var buf bytes.Buffer
	gzw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gzw)
	content := []byte("owned")
	require.NoError(t, tw.WriteHeader(&tar.Header{Name: "../evil", Mode: 0o644, Size: int64(len(content)), Typeflag: tar.TypeReg}))
	_, err := tw.Write(content)
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gzw.Close())

	parent := t.TempDir()
	dest := filepath.Join(parent, "theme")
	require.NoError(t, os.Mkdir(dest, 0o755))

	err = Unpack(&buf, dest, FormatTarGz, 0)
	require.Error(t, err)
	_, statErr := os.Stat(filepath.Join(parent, "evil"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestUnpackSizeLimit(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "big"), bytes.Repeat([]byte("x"), 64*1024), 0o644))

	var buf bytes.Buffer
	require.NoError(t, Pack(&buf, src, FormatTarGz))

	err := Unpack(&buf, t.TempDir(), FormatTarGz, 1024)
	assert.Error(t, err)
}
