package textmeasure

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// glyphFace is the fixed bitmap face used for glyph-advance lookups. It
// ships as Go source inside golang.org/x/image, so it needs no external
// font asset — unlike go-text/typesetting's HarfBuzz path (gogpu-gg/text),
// which requires parsing real TTF/OTF bytes we don't have bundled.
var glyphFace = basicfont.Face7x13

// nominalPt is the point size basicfont.Face7x13 renders at nominally
// (its glyphs are 13px tall at 72 DPI, i.e. 13pt). Requested sizes are
// reached by scaling the measured advance proportionally.
const nominalPt = 13.0

// boldWidthBoost approximates the extra width bold glyphs occupy, since
// basicfont has no separate bold face.
const boldWidthBoost = 1.08

// runeAdvancePt returns the advance width, in points at nominalPt, of a
// single rune as rendered by the fallback bitmap face. Runes the face has
// no glyph for fall back to the face's average advance.
func runeAdvancePt(r rune) float64 {
	adv, ok := glyphFace.GlyphAdvance(r)
	if !ok {
		// basicfont is Latin-1-only; anything outside that range uses the
		// average Latin advance as a stand-in, since the real glyph will
		// come from a fallback family chosen by FontFallbackChain.Resolve
		// rather than from this measurement face.
		adv, _ = glyphFace.GlyphAdvance('M')
	}
	return fixedToFloat(adv)
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64.0
}

// baseWidthPt returns the unscaled (at nominalPt) width of s, in points,
// as the sum of glyph advances measured via font.MeasureString.
func baseWidthPt(s string) float64 {
	adv := font.MeasureString(glyphFace, s)
	return fixedToFloat(adv)
}

// WidthPt returns the rendered width, in points, of s at sizePt, applying
// the script-aware CJK multiplier from spec §4.1. bold applies a small
// fixed boost since the measurement face has no dedicated bold metrics.
func WidthPt(s string, sizePt float64, bold bool) float64 {
	if s == "" {
		return 0
	}
	w := baseWidthPt(s) * (sizePt / nominalPt) * WidthMultiplier(s)
	if bold {
		w *= boldWidthBoost
	}
	return w
}

// HeightPt returns the line height in points for text rendered at sizePt:
// text height (≈ sizePt) times the 1.3 line-height multiplier spec §4.1
// specifies.
func HeightPt(sizePt float64) float64 {
	return sizePt * 1.3
}

const ptPerInch = 72.0

// WidthIn is WidthPt converted to inches.
func WidthIn(s string, sizePt float64, bold bool) float64 {
	return WidthPt(s, sizePt, bold) / ptPerInch
}

// HeightIn is HeightPt converted to inches.
func HeightIn(sizePt float64) float64 {
	return HeightPt(sizePt) / ptPerInch
}
