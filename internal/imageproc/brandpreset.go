package imageproc

import (
	"sort"
	"strings"
)

// brandPresets is a named catalog of brand color palettes, keyed by a
// lowercase brand name (spec.md §4.6's "brand-preset snapshot" resolved
// against the original's backend/engine/brand_engine.py BRAND_PRESETS
// table). Unlike ExtractThemeSnapshot, this path needs no uploaded
// template at all — a caller names a brand and gets its palette.
//
// Only the three color roles model.Theme carries are kept, and no preset
// sets FontFamily; brand_engine.py's tertiary/quaternary/text_light/
// border/connector roles have no slot in spec.md §3's closed Theme shape
// and are dropped.
var brandPresets = map[string]ThemeSnapshot{
	"microsoft":  {Primary: "0078d4", Secondary: "50e6ff", Accent: "00a4ef"},
	"google":     {Primary: "4285f4", Secondary: "ea4335", Accent: "fbbc05"},
	"opentext":   {Primary: "1b365d", Secondary: "00a3e0", Accent: "6cc24a"},
	"aws":        {Primary: "ff9900", Secondary: "232f3e", Accent: "146eb4"},
	"azure":      {Primary: "0078d4", Secondary: "50e6ff", Accent: "00bcf2"},
	"gcp":        {Primary: "4285f4", Secondary: "db4437", Accent: "f4b400"},
	"salesforce": {Primary: "00a1e0", Secondary: "1798c1", Accent: "032d60"},
	"slack":      {Primary: "4a154b", Secondary: "36c5f0", Accent: "2eb67d"},
	"github":     {Primary: "24292e", Secondary: "0366d6", Accent: "28a745"},
	"stripe":     {Primary: "635bff", Secondary: "00d4ff", Accent: "80e9ff"},
}

// LookupBrandPreset resolves a case-insensitive brand name to its named
// palette. The second return is false for an unknown name, mirroring
// brand_engine.get_brand_preset's Optional[ColorPalette] return rather
// than treating an unrecognized name as an error — an unknown brand name
// is a no-op enrichment, not an InputInvalid request.
func LookupBrandPreset(name string) (ThemeSnapshot, bool) {
	snap, ok := brandPresets[strings.ToLower(strings.TrimSpace(name))]
	return snap, ok
}

// BrandPresetNames lists the recognized brand preset keys, sorted for
// stable CLI help text and error messages.
func BrandPresetNames() []string {
	names := make([]string, 0, len(brandPresets))
	for n := range brandPresets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
