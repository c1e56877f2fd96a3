package colour

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// channelScale is the divisor used when mapping 8-bit channels onto [0,1].
// Bands are expressed in the same unit, so a band maximum of 256 means
// "full brightness".
const channelScale = 256.0

// Band is an inclusive brightness range in channel units (0-256).
type Band struct {
	Min int
	Max int
}

// Brightness bands applied to each palette slot class.
var (
	BandBlack       = Band{Min: 0, Max: 32}
	BandBrightBlack = Band{Min: 128, Max: 192}
	BandNormal      = Band{Min: 160, Max: 224}
	BandBright      = Band{Min: 200, Max: 256}
)

// BandForSlot returns the brightness band for positional slot colorN.
func BandForSlot(index int) Band {
	switch {
	case index == 0:
		return BandBlack
	case index == 8:
		return BandBrightBlack
	case index < 8:
		return BandNormal
	default:
		return BandBright
	}
}

// NormalizeBrightness clamps the HSV value of hex into [minValue/256,
// maxValue/256] and returns the resulting colour. Hue and saturation are
// left untouched.
func NormalizeBrightness(hex string, minValue, maxValue int) (string, error) {
	if minValue > maxValue {
		return "", fmt.Errorf("invalid brightness band [%d,%d]", minValue, maxValue)
	}

	rgb, err := HexToRGB(hex)
	if err != nil {
		return "", err
	}

	h, s, v := toUnit(rgb).Hsv()
	v = math.Max(v, float64(minValue)/channelScale)
	v = math.Min(v, float64(maxValue)/channelScale)

	return fromUnit(colorful.Hsv(h, s, v)).Hex(), nil
}

// Normalize applies NormalizeBrightness with the bounds of b.
func (b Band) Normalize(hex string) (string, error) {
	return NormalizeBrightness(hex, b.Min, b.Max)
}

// HSV returns hue (0-360), saturation (0-1) and value (0-1) using the same
// channel scale as NormalizeBrightness.
func HSV(rgb RGB) (h, s, v float64) {
	return toUnit(rgb).Hsv()
}

func toUnit(rgb RGB) colorful.Color {
	return colorful.Color{
		R: float64(rgb.R) / channelScale,
		G: float64(rgb.G) / channelScale,
		B: float64(rgb.B) / channelScale,
	}
}

func fromUnit(c colorful.Color) RGB {
	return RGB{R: quantize(c.R), G: quantize(c.G), B: quantize(c.B)}
}

// quantize maps a unit channel back to 8 bits. Full brightness (1.0) would be
// 256, so the result is clamped to 255.
func quantize(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Round(v*channelScale))))
}
