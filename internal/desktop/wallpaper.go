package desktop

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"

	"github.com/jmylchreest/themer/internal/colour"
)

// Default generated wallpaper size.
const (
	DefaultWallpaperWidth  = 1920
	DefaultWallpaperHeight = 1200
)

// wallpaperPrefix identifies wallpaper files inside a theme directory.
const wallpaperPrefix = "wallpaper"

type rectangle struct {
	slot string
	// x1, y1, x2, y2 as percentages of the canvas.
	coords [4]float64
}

var wallpaperLayout = []rectangle{
	{slot: "red", coords: [4]float64{0, 30, 3.125, 72.5}},
	{slot: "green", coords: [4]float64{50, 0, 76.5625, 12.5}},
	{slot: "yellow", coords: [4]float64{96.875, 30, 100, 72.5}},
	{slot: "magenta", coords: [4]float64{23.4375, 25, 50, 30}},
	{slot: "white", coords: [4]float64{23.4375, 30, 50, 72.5}},
	{slot: "magenta", coords: [4]float64{50, 30, 76.5625, 72.5}},
	{slot: "white", coords: [4]float64{50, 72.5, 76.5625, 87.5}},
}

// FindWallpaper returns the first file in dir whose name starts with
// "wallpaper", or "" when there is none.
func FindWallpaper(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", dir, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasPrefix(entry.Name(), wallpaperPrefix) {
			return filepath.Join(dir, entry.Name()), nil
		}
	}
	return "", nil
}

// CreateWallpaper draws palette rectangles on a black background and saves
// it as dir/wallpaper.png.
func CreateWallpaper(dir string, palette colour.Palette, width, height int) (string, error) {
	img, err := DrawWallpaper(palette, width, height)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, wallpaperPrefix+".png")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create wallpaper: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to encode wallpaper: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write wallpaper: %w", err)
	}
	return path, nil
}

// DrawWallpaper renders the wallpaper layout in memory.
func DrawWallpaper(palette colour.Palette, width, height int) (*image.RGBA, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("invalid wallpaper size %dx%d", width, height)
	}

	background, err := slotColour(palette, "black")
	if err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	scale := [4]int{width, height, width, height}
	for _, r := range wallpaperLayout {
		c, err := slotColour(palette, r.slot)
		if err != nil {
			return nil, err
		}
		var px [4]int
		for i, pct := range r.coords {
			px[i] = int(pct * .01 * float64(scale[i]))
		}
		// Corners are inclusive.
		rect := image.Rect(px[0], px[1], px[2]+1, px[3]+1).Intersect(img.Bounds())
		draw.Draw(img, rect, image.NewUniform(c), image.Point{}, draw.Src)
	}
	return img, nil
}

func slotColour(palette colour.Palette, slot string) (color.RGBA, error) {
	hex, ok := palette[slot]
	if !ok {
		return color.RGBA{}, fmt.Errorf("palette has no %q colour", slot)
	}
	rgb, err := colour.HexToRGB(hex)
	if err != nil {
		return color.RGBA{}, err
	}
	return color.RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 0xff}, nil
}
