package render

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/jmylchreest/themer/internal/colour"
)

// Funcs returns the helper functions available to every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		// Format conversion.
		"hex":        hexFunc,
		"hexNoHash":  hexNoHashFunc,
		"rgb":        rgbFunc,
		"rgba":       rgbaFunc,
		"rgbDecimal": rgbDecimalFunc,

		// String manipulation (pipe-friendly argument order).
		"trimPrefix": trimPrefixFunc,
		"trimSuffix": trimSuffixFunc,
		"replace":    replaceFunc,
		"upper":      strings.ToUpper,
		"lower":      strings.ToLower,
	}
}

func parse(value any) (colour.RGB, error) {
	s, ok := value.(string)
	if !ok {
		return colour.RGB{}, fmt.Errorf("expected colour string, got %T", value)
	}
	return colour.HexToRGB(s)
}

// hexFunc returns the colour in canonical lowercase #rrggbb format.
func hexFunc(value any) (string, error) {
	rgb, err := parse(value)
	if err != nil {
		return "", err
	}
	return rgb.Hex(), nil
}

// hexNoHashFunc returns the colour in rrggbb format.
func hexNoHashFunc(value any) (string, error) {
	s, err := hexFunc(value)
	if err != nil {
		return "", err
	}
	return strings.TrimPrefix(s, "#"), nil
}

// rgbFunc returns the colour in CSS rgb(r,g,b) format.
func rgbFunc(value any) (string, error) {
	rgb, err := parse(value)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("rgb(%d,%d,%d)", rgb.R, rgb.G, rgb.B), nil
}

// rgbaFunc returns the colour in CSS rgba(r,g,b,a) format, alpha in [0,1].
//
//	{{ .background | rgba 0.8 }}
func rgbaFunc(alpha float64, value any) (string, error) {
	if alpha < 0 || alpha > 1 {
		return "", fmt.Errorf("alpha %v outside [0,1]", alpha)
	}
	rgb, err := parse(value)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("rgba(%d,%d,%d,%g)", rgb.R, rgb.G, rgb.B, alpha), nil
}

// rgbDecimalFunc returns the colour in "r,g,b" format.
func rgbDecimalFunc(value any) (string, error) {
	rgb, err := parse(value)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d,%d,%d", rgb.R, rgb.G, rgb.B), nil
}

// trimPrefixFunc removes a prefix from a string.
//
//	{{ .font | trimPrefix "xft:" }}
func trimPrefixFunc(prefix, s string) string {
	return strings.TrimPrefix(s, prefix)
}

func trimSuffixFunc(suffix, s string) string {
	return strings.TrimSuffix(s, suffix)
}

func replaceFunc(old, new, s string) string {
	return strings.ReplaceAll(s, old, new)
}
