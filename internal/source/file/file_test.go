package file

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/themer/internal/colour"
)

const xresources = `! Generated palette
*background: #0E0E0E
*foreground: #ffffff
*color0:  #000000
*color8:  #555555
*color1:  #FF0d3c
*color9:  #ff5555
*color2:  #00ff00
*color10: #55ff55
*color3:  #ffff00
*color11: #ffff55
*color4:  #0000ff
*color12: #5555ff
*color5:  #ff00ff
*color13: #ff55ff
*color6:  #00ffff
*color14: #55ffff
*color7:  #bbbbbb
*color15: #ffffff
URxvt.colorUL: #abcdef
*color16: #123456
`

func TestParseFull(t *testing.T) {
	palette, err := Parse(strings.NewReader(xresources), nil)
	require.NoError(t, err)

	assert.Len(t, palette, 19)
	assert.Equal(t, "#0e0e0e", palette["background"])
	assert.Equal(t, "#ff0d3c", palette["red"])
	assert.Equal(t, "#555555", palette["alt_black"])
	assert.Equal(t, "#abcdef", palette["underline"])
	assert.NoError(t, palette.CheckComplete("test"))
	assert.NoError(t, palette.Validate())
}

func TestParseComments(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		exists bool
	}{
		{name: "comment ignored", input: "!*color1: #ff0000\n", exists: false},
		{name: "indented comment ignored", input: "   ! *color1: #ff0000\n", exists: false},
		{name: "definition read", input: "*color1: #ff0000\n", want: "#ff0000", exists: true},
		{name: "no whitespace", input: "*color1:#ff0000\n", want: "#ff0000", exists: true},
		{name: "short hex ignored", input: "*color1: #f00\n", exists: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			palette, err := Parse(strings.NewReader(tt.input), nil)
			require.NoError(t, err)
			got, ok := palette["red"]
			assert.Equal(t, tt.exists, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadIncompleteIsNotFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "colors")
	require.NoError(t, os.WriteFile(path, []byte("*color1: #ff0000\n*color2: #00ff00\n"), 0o600))

	palette, err := New(path, nil).Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, colour.Palette{"red": "#ff0000", "green": "#00ff00"}, palette)
}

func TestReadMissingFile(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing"), nil).Read(context.Background())
	assert.Error(t, err)
}

func TestName(t *testing.T) {
	assert.Equal(t, "file", New("x", nil).Name())
}
