// Package cached loads a previously generated palette artifact (colors.yaml)
// so a theme can be re-activated without recomputing it.
package cached

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/themer/internal/colour"
)

// FileName is the name of the palette artifact inside a theme directory.
const FileName = "colors.yaml"

// Source loads a serialized palette verbatim.
type Source struct {
	path string
}

// New creates a cached source for the artifact at path.
func New(path string) *Source {
	return &Source{path: path}
}

// Name returns the source name.
func (s *Source) Name() string {
	return "cached"
}

// Read loads the artifact. Values are returned as written; scalars that are
// not strings are formatted with fmt.
func (s *Source) Read(_ context.Context) (colour.Palette, error) {
	data, err := os.ReadFile(s.path) // #nosec G304 - theme artifact path controlled by the theme store
	if err != nil {
		return nil, fmt.Errorf("failed to read cached palette: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse cached palette %s: %w", s.path, err)
	}

	palette := make(colour.Palette, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case string:
			palette[k] = val
		case nil:
			palette[k] = ""
		default:
			palette[k] = fmt.Sprint(val)
		}
	}
	return palette, nil
}

// Write serializes values as a flat YAML mapping.
func Write(path string, values map[string]any) error {
	data, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to encode palette: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { // #nosec G306 - theme files are user readable
		return fmt.Errorf("failed to write palette: %w", err)
	}
	return nil
}
