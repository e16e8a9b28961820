// Package imageproc implements spec.md §4.9 step 3's preprocessing: palette
// normalization, logo dominant-color extraction, and brand-preset theme
// snapshots.
package imageproc

import (
	"fmt"

	"infographica/internal/color"
	"infographica/internal/ierrors"
)

// ParsePalette normalizes a caller-supplied palette to lowercase 6-hex
// strings, rejecting anything that doesn't parse as a color. The caller's
// at-most-10 bound is enforced by model.GenerateRequest.Validate; this
// function only normalizes.
func ParsePalette(hexes []string) ([]string, error) {
	out := make([]string, 0, len(hexes))
	for _, h := range hexes {
		norm, err := color.Normalize(h)
		if err != nil {
			return nil, fmt.Errorf("%w: palette color %q: %v", ierrors.InputInvalid, h, err)
		}
		out = append(out, norm)
	}
	return out, nil
}
