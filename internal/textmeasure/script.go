package textmeasure

import "unicode"

// Script classifies scripts relevant to the font-fallback chain and the
// per-character width multiplier in spec §4.1.
type Script int

const (
	ScriptLatin Script = iota
	ScriptCJK
	ScriptArabic
	ScriptHebrew
	ScriptOther
)

// isCJK reports whether r falls in a CJK/Hiragana/Katakana/Hangul range,
// following the same simplified-UAX#14 style gogpu-gg/text/wrap.go uses
// for its own isCJKRune classification.
func isCJK(r rune) bool {
	return unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul)
}

func isArabic(r rune) bool {
	return unicode.In(r, unicode.Arabic)
}

func isHebrew(r rune) bool {
	return unicode.In(r, unicode.Hebrew)
}

// ClassifyRune returns the Script a rune belongs to.
func ClassifyRune(r rune) Script {
	switch {
	case isCJK(r):
		return ScriptCJK
	case isArabic(r):
		return ScriptArabic
	case isHebrew(r):
		return ScriptHebrew
	case r < unicode.MaxASCII:
		return ScriptLatin
	default:
		return ScriptOther
	}
}

// CJKRatio returns the fraction of runes in s that are CJK/Hiragana/
// Katakana/Hangul, used for the 1+0.8*ratio width multiplier in spec §4.1.
func CJKRatio(s string) float64 {
	runes := []rune(s)
	if len(runes) == 0 {
		return 0
	}
	var n int
	for _, r := range runes {
		if isCJK(r) {
			n++
		}
	}
	return float64(n) / float64(len(runes))
}

// WidthMultiplier returns the per-character width multiplier spec §4.1
// defines: 1 + 0.8*cjk-ratio.
func WidthMultiplier(s string) float64 {
	return 1 + 0.8*CJKRatio(s)
}

// IsRTL reports whether s should be laid out right-to-left, i.e. its first
// strongly-directional rune is Arabic or Hebrew.
func IsRTL(s string) bool {
	for _, r := range s {
		switch ClassifyRune(r) {
		case ScriptArabic, ScriptHebrew:
			return true
		case ScriptLatin, ScriptCJK:
			return false
		}
	}
	return false
}

// FontFallbackChain is the default ordered family list consulted when the
// configured brand font lacks glyphs for a code point (spec §4.1): brand
// font, Latin default, CJK, Arabic, Hebrew, universal.
type FontFallbackChain struct {
	Brand     string
	Latin     string
	CJK       string
	Arabic    string
	Hebrew    string
	Universal string
}

// DefaultFallbackChain is used when configuration doesn't override it.
func DefaultFallbackChain(brand string) FontFallbackChain {
	if brand == "" {
		brand = "Helvetica"
	}
	return FontFallbackChain{
		Brand:     brand,
		Latin:     "Helvetica",
		CJK:       "Noto Sans CJK",
		Arabic:    "Noto Sans Arabic",
		Hebrew:    "Noto Sans Hebrew",
		Universal: "Noto Sans",
	}
}

// Resolve picks the fallback family for the dominant script found in s.
// The brand font is assumed to always cover Latin; any other dominant
// script routes through the matching fallback entry.
func (c FontFallbackChain) Resolve(s string) string {
	var cjk, arabic, hebrew, other int
	for _, r := range s {
		switch ClassifyRune(r) {
		case ScriptCJK:
			cjk++
		case ScriptArabic:
			arabic++
		case ScriptHebrew:
			hebrew++
		case ScriptOther:
			other++
		}
	}
	switch max4(cjk, arabic, hebrew, other) {
	case cjk:
		if cjk > 0 {
			return c.CJK
		}
	case arabic:
		if arabic > 0 {
			return c.Arabic
		}
	case hebrew:
		if hebrew > 0 {
			return c.Hebrew
		}
	case other:
		if other > 0 {
			return c.Universal
		}
	}
	return c.Brand
}

func max4(a, b, c, d int) int {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	if d > m {
		m = d
	}
	return m
}
