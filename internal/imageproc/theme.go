package imageproc

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"infographica/internal/color"
	"infographica/internal/ierrors"
)

// ThemeSnapshot is the brand-preset input spec.md §4.6 names but leaves
// unshaped: a single shallow read of an uploaded template's theme colors
// and font family, never a deep parse of its layout (spec.md §4.9 step 3).
type ThemeSnapshot struct {
	Primary    string
	Secondary  string
	Accent     string
	FontFamily string
}

// themeXML is the minimal shape of an OOXML theme1.xml this module's own
// slide renderer writes — the same document a round-tripped uploaded
// template carries its accent colors and major font in.
type themeXML struct {
	Elements struct {
		ColorScheme struct {
			Dk2 struct {
				SrgbClr struct{ Val string `xml:"val,attr"` } `xml:"srgbClr"`
			} `xml:"dk2"`
			Accent1 struct {
				SrgbClr struct{ Val string `xml:"val,attr"` } `xml:"srgbClr"`
			} `xml:"accent1"`
			Accent2 struct {
				SrgbClr struct{ Val string `xml:"val,attr"` } `xml:"srgbClr"`
			} `xml:"accent2"`
		} `xml:"clrScheme"`
		FontScheme struct {
			MajorFont struct {
				Latin struct{ Typeface string `xml:"typeface,attr"` } `xml:"latin"`
			} `xml:"majorFont"`
		} `xml:"fontScheme"`
	} `xml:"themeElements"`
}

// ExtractThemeSnapshot reads an uploaded template's theme colors and font
// family. It only understands the theme1.xml shape this module's own
// slide renderer writes (internal/render/slide/parts.go). A package with
// no ppt/theme/theme1.xml, or a theme part that does not parse, yields an
// empty snapshot rather than an error, since a brand preset is an optional
// enrichment; bytes that are not a readable zip archive are InputInvalid.
func ExtractThemeSnapshot(templateBytes []byte) (ThemeSnapshot, error) {
	if len(templateBytes) == 0 {
		return ThemeSnapshot{}, nil
	}

	part, err := findThemePart(templateBytes)
	if err != nil {
		return ThemeSnapshot{}, fmt.Errorf("%w: read template: %v", ierrors.InputInvalid, err)
	}
	if part == nil {
		return ThemeSnapshot{}, nil
	}

	var parsed themeXML
	if err := xml.Unmarshal(part, &parsed); err != nil {
		return ThemeSnapshot{}, nil
	}

	snap := ThemeSnapshot{
		Primary:    normalizeOrEmpty(parsed.Elements.ColorScheme.Dk2.SrgbClr.Val),
		Secondary:  normalizeOrEmpty(parsed.Elements.ColorScheme.Accent1.SrgbClr.Val),
		Accent:     normalizeOrEmpty(parsed.Elements.ColorScheme.Accent2.SrgbClr.Val),
		FontFamily: strings.TrimSpace(parsed.Elements.FontScheme.MajorFont.Latin.Typeface),
	}
	return snap, nil
}

func normalizeOrEmpty(hex string) string {
	norm, err := color.Normalize(hex)
	if err != nil {
		return ""
	}
	return norm
}

// findThemePart locates ppt/theme/theme1.xml inside a .pptx zip archive
// and returns its bytes, or nil when the archive has no such part.
func findThemePart(templateBytes []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(templateBytes), int64(len(templateBytes)))
	if err != nil {
		return nil, err
	}
	part, err := fs.ReadFile(zr, "ppt/theme/theme1.xml")
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return part, err
}
