package archetype

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"infographica/internal/cache/memory"
	"infographica/internal/model"
	"infographica/internal/textmeasure"
	"infographica/internal/units"
)

// measureCache memoizes textmeasure.Fit results: layout solvers
// repeatedly re-fit the same short entity labels while searching for a
// grid that satisfies the global invariants (see invariants.go's uniform
// scaling retries), so the same (text, width) pair is measured many times
// per request. A single fixed TTL per process lifetime is exactly the
// shape LRUTTL offers, unlike internal/cache's per-call-variable-TTL
// Capability.
var measureCache = memory.NewLRUTTL[string, model.MeasuredText](4096, 1<<20, 0)

const defaultFontFamily = "default"

// fitLabel fits text within maxWidthIn using the bold 10-24pt range
// spec.md §4.3's common pre-step specifies, memoized per (text, width).
func fitLabel(text string, maxWidthIn float64) model.MeasuredText {
	key := fmt.Sprintf("%s|%.4f", text, maxWidthIn)
	if mt, ok := measureCache.Get(key); ok {
		return mt
	}
	mt := textmeasure.Fit(text, maxWidthIn, defaultFontFamily, 10, 24, true)
	measureCache.Set(key, mt, len(key)+len(mt.Original))
	return mt
}

// blockSize implements spec.md §4.3's shared pre-step: an initial estimated
// width given n columns across contentWidth, fitted against the label to
// produce a clamped height.
func blockSize(label string, n int, contentWidth float64) (width float64, height float64, measured model.MeasuredText) {
	if n < 1 {
		n = 1
	}
	width = units.ClampBlockWidth((contentWidth - float64(n-1)*units.GutterHorizontalIn) / float64(n))
	measured = fitLabel(label, width)
	height = units.ClampBlockHeight(measured.Height + 2*blockPaddingIn)
	return width, height, measured
}

const blockPaddingIn = 0.12

// measureMany fits each text independently and concurrently, for solvers
// that lay out a whole grid of cells at once (comparison.go's M×N table)
// where the per-cell fits don't depend on each other. Results land in the
// same memoized measureCache fitLabel uses, so a later single fitLabel
// call for the same (text, width) pair is a cache hit.
func measureMany(texts []string, maxWidthIn float64) []model.MeasuredText {
	out := make([]model.MeasuredText, len(texts))
	var g errgroup.Group
	for i, text := range texts {
		i, text := i, text
		g.Go(func() error {
			out[i] = fitLabel(text, maxWidthIn)
			return nil
		})
	}
	_ = g.Wait() // fitLabel never errors; Wait only synchronizes.
	return out
}
