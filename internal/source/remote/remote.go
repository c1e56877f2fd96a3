// Package remote fetches named palettes from the sweyla theme generator.
package remote

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/themer/internal/colour"
	httputil "github.com/jmylchreest/themer/internal/util/http"
)

const (
	// DefaultPaletteURL is the text palette endpoint; %s is the theme id.
	DefaultPaletteURL = "http://sweyla.com/themes/textfile/sweyla%s.txt"

	// DefaultVimURL is the vim colour scheme endpoint; %s is the theme id.
	DefaultVimURL = "http://sweyla.com/themes/vim/sweyla%s.vim"
)

// keyMapping maps sweyla syntax roles to palette slots. A role may fill
// several slots.
var keyMapping = map[string][]string{
	"bg":               {"background", "black", "alt_black"},
	"fg":               {"foreground", "white"},
	"nf":               {"red"},         // name of function / method
	"nd":               {"alt_red"},     // decorator
	"nc":               {"green"},       // name of class
	"nt":               {"alt_green"},   // tag
	"nb":               {"yellow"},      // builtin, e.g. "object" or "open"
	"c":                {"alt_yellow"},  // comments
	"s":                {"blue"},        // string
	"mi":               {"alt_blue"},    // number
	"k":                {"magenta"},     // keyword, e.g. "class"
	"o":                {"alt_magenta"}, // operator, e.g. "="
	"bp":               {"cyan"},        // e.g. "self"
	"si":               {"alt_cyan"},    // interpolation, e.g. "%d"
	"se":               {"alt_white"},   // string escape
	"support_function": {"underline"},
}

// Options configures the remote source.
type Options struct {
	PaletteURL string
	VimURL     string
	Timeout    time.Duration
	Logger     hclog.Logger
}

// Source fetches the palette for one sweyla theme id.
type Source struct {
	id   string
	opts Options
}

// New creates a remote source for theme id.
func New(id string, opts Options) *Source {
	if opts.PaletteURL == "" {
		opts.PaletteURL = DefaultPaletteURL
	}
	if opts.VimURL == "" {
		opts.VimURL = DefaultVimURL
	}
	if opts.Logger == nil {
		opts.Logger = hclog.NewNullLogger()
	}
	return &Source{id: id, opts: opts}
}

// Name returns the source name.
func (s *Source) Name() string {
	return "remote"
}

// URL returns the palette URL for the configured id.
func (s *Source) URL() string {
	return fmt.Sprintf(s.opts.PaletteURL, s.id)
}

// Read fetches and parses the palette. Network failures and malformed
// payloads are returned as errors.
func (s *Source) Read(ctx context.Context) (colour.Palette, error) {
	url := s.URL()
	s.opts.Logger.Info("fetching remote palette", "url", url)

	content, err := httputil.Fetch(ctx, url, httputil.FetchOptions{Timeout: s.opts.Timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch palette %s: %w", s.id, err)
	}

	palette, err := Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse palette %s: %w", s.id, err)
	}

	if err := palette.CheckComplete(url); err != nil {
		s.opts.Logger.Warn("incomplete palette", "error", err)
	}
	return palette, nil
}

// FetchVimScheme downloads the matching vim colour scheme.
func (s *Source) FetchVimScheme(ctx context.Context) ([]byte, error) {
	url := fmt.Sprintf(s.opts.VimURL, s.id)
	s.opts.Logger.Debug("fetching vim colour scheme", "url", url)

	data, err := httputil.Fetch(ctx, url, httputil.FetchOptions{Timeout: s.opts.Timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch vim colour scheme %s: %w", s.id, err)
	}
	return data, nil
}

// Parse reads "key:\tvalue" lines (CRLF or LF). Unknown keys are ignored.
func Parse(content string) (colour.Palette, error) {
	palette := make(colour.Palette)

	content = strings.ReplaceAll(content, "\r\n", "\n")
	for i, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		key, value, ok := strings.Cut(line, ":\t")
		if !ok {
			return nil, &colour.FormatError{Input: line, Reason: fmt.Sprintf("line %d: expected \"key:<tab>value\"", i+1)}
		}

		slots, known := keyMapping[key]
		if !known {
			continue
		}

		hex, err := colour.NormalizeHex(value)
		if err != nil {
			return nil, fmt.Errorf("line %d (%s): %w", i+1, key, err)
		}
		for _, slot := range slots {
			palette[slot] = hex
		}
	}

	return palette, nil
}
