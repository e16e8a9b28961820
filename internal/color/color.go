// Package color provides the color science the theme/emphasis mapping in
// spec §4.3 needs: hex normalization, WCAG-style relative luminance,
// contrast-driven text color, and the lightness-adjusted "normal" tint.
package color

import (
	"fmt"
	"math"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Normalize lowercases a hex color and strips a leading '#', returning a
// bare 6-hex-lowercase string. It returns an error if the value isn't a
// valid 3- or 6-digit hex color.
func Normalize(hex string) (string, error) {
	h := strings.TrimSpace(hex)
	h = strings.TrimPrefix(h, "#")
	h = strings.ToLower(h)
	switch len(h) {
	case 3:
		expanded := make([]byte, 0, 6)
		for _, c := range h {
			expanded = append(expanded, byte(c), byte(c))
		}
		h = string(expanded)
	case 6:
		// already full length
	default:
		return "", fmt.Errorf("color: %q is not a 3- or 6-digit hex color", hex)
	}
	for _, c := range h {
		if !isHexDigit(c) {
			return "", fmt.Errorf("color: %q contains non-hex digit %q", hex, c)
		}
	}
	return h, nil
}

func isHexDigit(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')
}

// Parse normalizes and parses a hex color into a colorful.Color.
func Parse(hex string) (colorful.Color, error) {
	norm, err := Normalize(hex)
	if err != nil {
		return colorful.Color{}, err
	}
	c, err := colorful.Hex("#" + norm)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("color: parse %q: %w", hex, err)
	}
	return c, nil
}

// RelativeLuminance computes the WCAG relative luminance of a hex color.
// Returns 0 (black) on parse failure so callers degrade to a safe contrast
// choice rather than erroring.
func RelativeLuminance(hex string) float64 {
	c, err := Parse(hex)
	if err != nil {
		return 0
	}
	lin := func(v float64) float64 {
		if v <= 0.03928 {
			return v / 12.92
		}
		return math.Pow((v+0.055)/1.055, 2.4)
	}
	r, g, b := c.R, c.G, c.B
	return 0.2126*lin(r) + 0.7152*lin(g) + 0.0722*lin(b)
}

// TextColorFor picks white or black text for best contrast against fill,
// using the WCAG relative-luminance threshold of 0.5 spec §4.3 specifies.
func TextColorFor(fillHex string) string {
	if RelativeLuminance(fillHex) > 0.5 {
		return "000000"
	}
	return "ffffff"
}

// Lighten returns fillHex with lightness increased by deltaPercent (e.g.
// 20 for +20%), clamped to [0,100], used for the "normal" emphasis tint
// derived from theme.primary (spec §4.3).
func Lighten(hex string, deltaPercent float64) (string, error) {
	c, err := Parse(hex)
	if err != nil {
		return "", err
	}
	l, a, b := c.Lab()
	l += deltaPercent / 100.0
	if l > 1 {
		l = 1
	}
	if l < 0 {
		l = 0
	}
	out := colorful.Lab(l, a, b)
	out = out.Clamped()
	return strings.TrimPrefix(out.Hex(), "#"), nil
}
