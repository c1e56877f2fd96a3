package remote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/themer/internal/colour"
)

const sweylaPayload = "bg:\t#0A0B0C\r\n" +
	"fg:\t#f0f0f0\r\n" +
	"nf:\t#aa0000\r\n" +
	"nd:\t#ff0000\r\n" +
	"nc:\t#00aa00\r\n" +
	"nt:\t#00ff00\r\n" +
	"nb:\t#aaaa00\r\n" +
	"c:\t#ffff00\r\n" +
	"s:\t#0000aa\r\n" +
	"mi:\t#0000ff\r\n" +
	"k:\t#aa00aa\r\n" +
	"o:\t#ff00ff\r\n" +
	"bp:\t#00aaaa\r\n" +
	"si:\t#00ffff\r\n" +
	"se:\t#ffffff\r\n" +
	"support_function:\t#123456\r\n" +
	"ow:\t#999999\r\n"

func TestParseFanOut(t *testing.T) {
	palette, err := Parse(sweylaPayload)
	require.NoError(t, err)

	assert.Equal(t, "#0a0b0c", palette["background"])
	assert.Equal(t, "#0a0b0c", palette["black"])
	assert.Equal(t, "#0a0b0c", palette["alt_black"])
	assert.Equal(t, "#f0f0f0", palette["foreground"])
	assert.Equal(t, "#f0f0f0", palette["white"])
	assert.Equal(t, "#123456", palette["underline"])
	assert.Len(t, palette, 19)
	assert.NoError(t, palette.Validate())
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse("bg #000000\n")
	var fe *colour.FormatError
	assert.True(t, errors.As(err, &fe))

	_, err = Parse("bg:\tnothex\n")
	assert.True(t, errors.As(err, &fe))

	palette, err := Parse("unknown:\tnothex\n\n")
	require.NoError(t, err)
	assert.Empty(t, palette)
}

func TestRead(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/textfile/sweyla693812.txt":
			w.Write([]byte(sweylaPayload))
		case "/vim/sweyla693812.vim":
			w.Write([]byte("hi Normal guifg=#f0f0f0"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	src := New("693812", Options{
		PaletteURL: server.URL + "/textfile/sweyla%s.txt",
		VimURL:     server.URL + "/vim/sweyla%s.vim",
	})
	assert.Equal(t, "remote", src.Name())

	palette, err := src.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "#aa0000", palette["red"])

	vim, err := src.FetchVimScheme(context.Background())
	require.NoError(t, err)
	assert.Contains(t, string(vim), "guifg")

	_, err = New("1", Options{PaletteURL: server.URL + "/textfile/sweyla%s.txt"}).Read(context.Background())
	assert.Error(t, err)
}

func TestDefaults(t *testing.T) {
	src := New("693812", Options{})
	assert.Equal(t, "http://sweyla.com/themes/textfile/sweyla693812.txt", src.URL())
}
