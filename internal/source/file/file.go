// Package file reads palettes from Xresources-style colour definition files.
package file

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/themer/internal/colour"
)

// Colours look something like "*color0:  #FF0d3c". Lines are lowercased
// before matching.
var colourLine = regexp.MustCompile(`(color[^:]+|background|foreground):\s*(#[0-9a-f]{6})`)

// Source reads a palette from a colour definition file.
type Source struct {
	path   string
	logger hclog.Logger
}

// New creates a file source for path.
func New(path string, logger hclog.Logger) *Source {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Source{path: path, logger: logger}
}

// Name returns the source name.
func (s *Source) Name() string {
	return "file"
}

// Read parses the file. A palette with fewer than 16 slots is logged as a
// warning and returned as-is.
func (s *Source) Read(_ context.Context) (colour.Palette, error) {
	f, err := os.Open(s.path) // #nosec G304 - User-specified colour file, intended to be read
	if err != nil {
		return nil, fmt.Errorf("failed to open colour file: %w", err)
	}
	defer f.Close()

	palette, err := Parse(f, s.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to read colour file %s: %w", s.path, err)
	}

	if err := palette.CheckComplete(s.path); err != nil {
		s.logger.Warn("incomplete palette", "error", err)
	}
	return palette, nil
}

// Parse scans r for "slot: #rrggbb" definitions. Lines starting with '!' are
// comments. Keys without a known slot are skipped.
func Parse(r io.Reader, logger hclog.Logger) (colour.Palette, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	palette := make(colour.Palette)
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "!") {
			continue
		}

		m := colourLine.FindStringSubmatch(strings.ToLower(line))
		if m == nil {
			continue
		}

		key, value := strings.TrimSpace(m[1]), m[2]
		slot, ok := colour.SlotName(key)
		if !ok {
			logger.Debug("skipping unknown colour key", "line", lineNum, "key", key)
			continue
		}
		palette[slot] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return palette, nil
}
