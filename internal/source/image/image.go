// Package image derives a terminal palette from the dominant colours of an
// image.
package image

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/themer/internal/colour"
	imgutil "github.com/jmylchreest/themer/internal/image"
	"github.com/jmylchreest/themer/internal/source/seed"
	httputil "github.com/jmylchreest/themer/internal/util/http"
)

// Defaults used by New when the corresponding option is zero.
const (
	DefaultBackground = "#0e0e0e"
	DefaultForeground = "#ffffff"
	DefaultColours    = colour.PositionalSlots
	DefaultMinDiff    = 1.0
	DefaultMaxSize    = 300
)

// Options configures the image source.
type Options struct {
	// Background and Foreground are fixed; they are not derived from the image.
	Background string
	Foreground string

	// Colours is the number of clusters.
	Colours int

	// MinDiff is the convergence threshold (a distance in RGB space).
	MinDiff float64

	// MaxIterations bounds the clustering loop.
	MaxIterations int

	// MaxSize is the bounding box the image is downsampled into.
	MaxSize int

	// Rand overrides Seed when set.
	Rand *rand.Rand
	Seed seed.Config

	Fetch  httputil.FetchOptions
	Logger hclog.Logger
}

// Source extracts a palette from an image file or URL.
type Source struct {
	path string
	opts Options
}

// New creates an image source for path.
func New(path string, opts Options) *Source {
	if opts.Background == "" {
		opts.Background = DefaultBackground
	}
	if opts.Foreground == "" {
		opts.Foreground = DefaultForeground
	}
	if opts.Colours == 0 {
		opts.Colours = DefaultColours
	}
	if opts.MinDiff == 0 {
		opts.MinDiff = DefaultMinDiff
	}
	if opts.MaxSize == 0 {
		opts.MaxSize = DefaultMaxSize
	}
	if opts.Logger == nil {
		opts.Logger = hclog.NewNullLogger()
	}
	return &Source{path: path, opts: opts}
}

// Name returns the source name.
func (s *Source) Name() string {
	return "image"
}

// Wallpaper returns the image path so it can be copied into the theme.
func (s *Source) Wallpaper() string {
	return s.path
}

// DominantColours loads the image and returns the cluster centres as hex
// colours, in cluster order. Fewer than Colours are returned when the image
// has fewer distinct colours.
func (s *Source) DominantColours(ctx context.Context) ([]string, error) {
	img, err := imgutil.Load(ctx, s.path, s.opts.Fetch)
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}

	rng := s.opts.Rand
	if rng == nil {
		var value int64
		rng, value, err = seed.NewRand(img, s.path, s.opts.Seed)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate seed: %w", err)
		}
		s.opts.Logger.Debug("seeded clustering", "mode", s.opts.Seed.Mode, "seed", value)
	}

	thumb := imgutil.Thumbnail(img, s.opts.MaxSize, s.opts.MaxSize)
	points := imgutil.DistinctColors(thumb)
	if len(points) == 0 {
		return nil, fmt.Errorf("image %s has no pixels", s.path)
	}

	km := &colour.KMeans{
		K:             min(s.opts.Colours, len(points)),
		MinDiff:       s.opts.MinDiff,
		MaxIterations: s.opts.MaxIterations,
		Rand:          rng,
		Logger:        s.opts.Logger.Named("kmeans"),
	}
	clusters, err := km.Cluster(points)
	if err != nil {
		return nil, fmt.Errorf("failed to cluster colours: %w", err)
	}

	hexes := make([]string, len(clusters))
	for i, c := range clusters {
		hexes[i] = c.Center.RGB().Hex()
	}
	return hexes, nil
}

// Read extracts the dominant colours and maps them onto the 16 positional
// slots, normalizing brightness per slot class.
func (s *Source) Read(ctx context.Context) (colour.Palette, error) {
	dominant, err := s.DominantColours(ctx)
	if err != nil {
		return nil, err
	}

	positional, err := s.assign(dominant)
	if err != nil {
		return nil, err
	}

	palette := colour.Translate(positional)
	s.opts.Logger.Debug("derived palette", "palette", palette)
	return palette, nil
}

// assign fills color0..color15 from dominant, repeating the list cyclically
// when it is shorter than 16.
func (s *Source) assign(dominant []string) (map[string]string, error) {
	bg, err := colour.NormalizeHex(s.opts.Background)
	if err != nil {
		return nil, fmt.Errorf("invalid background: %w", err)
	}
	fg, err := colour.NormalizeHex(s.opts.Foreground)
	if err != nil {
		return nil, fmt.Errorf("invalid foreground: %w", err)
	}

	positional := map[string]string{
		colour.SlotBackground: bg,
		colour.SlotForeground: fg,
	}
	for i := range colour.PositionalSlots {
		c, err := colour.BandForSlot(i).Normalize(dominant[i%len(dominant)])
		if err != nil {
			return nil, err
		}
		positional[fmt.Sprintf("color%d", i)] = c
	}
	return positional, nil
}
