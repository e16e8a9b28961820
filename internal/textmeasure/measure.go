// Package textmeasure implements spec §4.1: pure functions over inches with
// script-aware character width, producing wrapped lines and fitted font
// sizes. It never errors; MeasuredText.Fits propagates as a warning.
package textmeasure

import (
	"strings"

	"infographica/internal/model"
)

// horizontalPaddingIn is subtracted from max-width on each side before
// fitting, per spec §4.1.
const horizontalPaddingIn = 0.15

// truncateLen is the character cap applied to the "doesn't fit anywhere"
// fallback line, per spec §4.1.
const truncateLen = 30

// Measure returns the rendered width/height, in inches, of text set in
// family at sizePt (spec §4.1's measure() operation). family only affects
// the result by way of FontFallbackChain.Resolve having already chosen it
// upstream; the glyph metrics themselves come from the shared measurement
// face (see face.go).
func Measure(text string, family string, sizePt float64, bold bool) (widthIn, heightIn float64) {
	_ = family // consulted by the fallback chain before Measure is called
	return WidthIn(text, sizePt, bold), HeightIn(sizePt)
}

// Fit implements spec §4.1's fit() operation.
func Fit(text string, maxWidthIn float64, family string, minSizePt, maxSizePt float64, bold bool) model.MeasuredText {
	effectiveWidth := maxWidthIn - 2*horizontalPaddingIn
	if effectiveWidth <= 0 {
		return truncatedFallback(text, minSizePt)
	}

	for size := maxSizePt; size >= minSizePt; size-- {
		if w, _ := Measure(text, family, size, bold); w <= effectiveWidth {
			return singleLine(text, size)
		}
		if lines, ok := trySplit(text, effectiveWidth, family, size, bold, 2); ok {
			return multiLine(text, size, lines)
		}
		if size <= 14 && wordCount(text) >= 3 {
			if lines, ok := trySplit(text, effectiveWidth, family, size, bold, 3); ok {
				return multiLine(text, size, lines)
			}
		}
	}
	return truncatedFallback(text, minSizePt)
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}

func singleLine(text string, sizePt float64) model.MeasuredText {
	return model.MeasuredText{
		Original: text,
		Lines:    []string{text},
		FontSize: sizePt,
		Height:   HeightIn(sizePt),
		Fits:     true,
	}
}

func multiLine(text string, sizePt float64, lines []string) model.MeasuredText {
	return model.MeasuredText{
		Original: text,
		Lines:    lines,
		FontSize: sizePt,
		Height:   HeightIn(sizePt) * float64(len(lines)),
		Fits:     true,
	}
}

// trySplit searches for n-way word-boundary split points such that every
// resulting line fits effectiveWidth at sizePt. It only tries splits at
// word boundaries, per spec §4.1 ("searches split points word-by-word").
func trySplit(text string, effectiveWidth float64, family string, sizePt float64, bold bool, n int) ([]string, bool) {
	words := strings.Fields(text)
	if len(words) < n {
		return nil, false
	}
	switch n {
	case 2:
		for cut := 1; cut < len(words); cut++ {
			a := strings.Join(words[:cut], " ")
			b := strings.Join(words[cut:], " ")
			if fitsLine(a, effectiveWidth, family, sizePt, bold) && fitsLine(b, effectiveWidth, family, sizePt, bold) {
				return []string{a, b}, true
			}
		}
		return nil, false
	case 3:
		// Equal-thirds split: divide the word list into three runs whose
		// lengths are as even as possible, per spec §4.1.
		third := (len(words) + 2) / 3
		if third < 1 {
			third = 1
		}
		cut1 := third
		cut2 := 2 * third
		if cut2 >= len(words) {
			cut2 = len(words) - 1
		}
		if cut1 >= cut2 {
			return nil, false
		}
		a := strings.Join(words[:cut1], " ")
		b := strings.Join(words[cut1:cut2], " ")
		c := strings.Join(words[cut2:], " ")
		if fitsLine(a, effectiveWidth, family, sizePt, bold) &&
			fitsLine(b, effectiveWidth, family, sizePt, bold) &&
			fitsLine(c, effectiveWidth, family, sizePt, bold) {
			return []string{a, b, c}, true
		}
		return nil, false
	default:
		return nil, false
	}
}

func fitsLine(s string, effectiveWidth float64, family string, sizePt float64, bold bool) bool {
	w, _ := Measure(s, family, sizePt, bold)
	return w <= effectiveWidth
}

func truncatedFallback(text string, sizePt float64) model.MeasuredText {
	r := []rune(text)
	line := text
	if len(r) > truncateLen {
		line = string(r[:truncateLen]) + "..."
	}
	return model.MeasuredText{
		Original: text,
		Lines:    []string{line},
		FontSize: sizePt,
		Height:   HeightIn(sizePt),
		Fits:     false,
	}
}
