// Package image provides utilities for loading and downsampling images and
// reading their colour distribution.
package image

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // Register GIF format
	_ "image/jpeg" // Register JPEG format
	_ "image/png"  // Register PNG format
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP format

	"github.com/jmylchreest/themer/internal/colour"
	httputil "github.com/jmylchreest/themer/internal/util/http"
)

// SupportedImageExtensions returns the file extensions treated as images.
func SupportedImageExtensions() []string {
	return []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}
}

// IsImageFile reports whether path has a supported image extension.
func IsImageFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(stripQuery(path)))
	return slices.Contains(SupportedImageExtensions(), ext)
}

// IsURL reports whether path is an HTTP(S) URL.
func IsURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// Load decodes an image from a local file or an HTTP(S) URL.
func Load(ctx context.Context, path string, opts httputil.FetchOptions) (image.Image, error) {
	if path == "" {
		return nil, fmt.Errorf("image path cannot be empty")
	}

	var data []byte
	var err error
	if IsURL(path) {
		data, err = httputil.Fetch(ctx, path, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch image from URL: %w", err)
		}
	} else {
		info, statErr := os.Stat(path)
		if statErr != nil {
			return nil, fmt.Errorf("failed to stat image file: %w", statErr)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("path is a directory, not a file: %s", path)
		}
		data, err = os.ReadFile(path) // #nosec G304 - User-specified image path, intended to be read
		if err != nil {
			return nil, fmt.Errorf("failed to read image file: %w", err)
		}
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image (format: %s): %w", format, err)
	}
	return img, nil
}

// Thumbnail shrinks img to fit within maxWidth x maxHeight while keeping the
// aspect ratio. Images already inside the box are returned unchanged.
// Nearest-neighbour sampling is used so no colours are invented by blending.
func Thumbnail(img image.Image, maxWidth, maxHeight int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxWidth && h <= maxHeight {
		return img
	}

	dw, dh := maxWidth, maxHeight
	if w*maxHeight > h*maxWidth {
		dh = max(1, h*maxWidth/w)
	} else {
		dw = max(1, w*maxHeight/h)
	}

	dst := image.NewNRGBA(image.Rect(0, 0, dw, dh))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst
}

// DistinctColors returns one point per distinct RGB colour in img, weighted
// by the number of pixels carrying it. Alpha is ignored. Points are sorted by
// colour so identical images always yield identical input to clustering.
func DistinctColors(img image.Image) []colour.Point {
	counts := make(map[colour.RGB]int)
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			counts[colour.RGB{R: c.R, G: c.G, B: c.B}]++
		}
	}

	keys := make([]colour.RGB, 0, len(counts))
	for rgb := range counts {
		keys = append(keys, rgb)
	}
	slices.SortFunc(keys, func(a, b colour.RGB) int {
		return cmp.Or(cmp.Compare(a.R, b.R), cmp.Compare(a.G, b.G), cmp.Compare(a.B, b.B))
	})

	points := make([]colour.Point, len(keys))
	for i, rgb := range keys {
		points[i] = colour.PointFromRGB(rgb, counts[rgb])
	}
	return points
}

func stripQuery(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		return path[:idx]
	}
	return path
}
