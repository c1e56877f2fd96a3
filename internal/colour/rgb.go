// Package colour provides colour-space conversion, palette types and the
// k-means clustering used to derive dominant colours from images.
package colour

import (
	"fmt"
	"strconv"
	"strings"
)

// RGB represents a colour with 8-bit channels.
type RGB struct {
	R uint8 `json:"r" yaml:"r"`
	G uint8 `json:"g" yaml:"g"`
	B uint8 `json:"b" yaml:"b"`
}

// String returns the RGB colour as "rgb(r, g, b)".
func (rgb RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
}

// Hex returns the colour as a lowercase "#rrggbb" string.
func (rgb RGB) Hex() string {
	return RGBToHex(rgb)
}

// FormatError reports a malformed colour or palette line.
type FormatError struct {
	Input  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid colour %q: %s", e.Input, e.Reason)
}

// HexToRGB parses a 6 digit hex colour. The leading '#' is optional and the
// digits are case-insensitive.
func HexToRGB(hex string) (RGB, error) {
	digits := strings.TrimPrefix(hex, "#")
	if len(digits) != 6 {
		return RGB{}, &FormatError{Input: hex, Reason: fmt.Sprintf("expected 6 hex digits, got %d", len(digits))}
	}

	var channels [3]uint8
	for i := range channels {
		v, err := strconv.ParseUint(digits[i*2:i*2+2], 16, 8)
		if err != nil {
			return RGB{}, &FormatError{Input: hex, Reason: "non-hex characters"}
		}
		channels[i] = uint8(v)
	}

	return RGB{R: channels[0], G: channels[1], B: channels[2]}, nil
}

// RGBToHex formats a colour as "#rrggbb", zero padded and lowercase.
func RGBToHex(rgb RGB) string {
	return fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B)
}

// NormalizeHex returns hex in canonical lowercase "#rrggbb" form.
func NormalizeHex(hex string) (string, error) {
	rgb, err := HexToRGB(strings.TrimSpace(hex))
	if err != nil {
		return "", err
	}
	return rgb.Hex(), nil
}
