package archetype

import (
	"infographica/internal/color"
	"infographica/internal/model"
)

// fillFor maps an entity's emphasis to a theme color, per spec.md §4.3:
// primary/secondary/accent take their named theme slot; normal takes a
// lightness-adjusted tint of primary.
func fillFor(theme model.Theme, emphasis model.Emphasis) string {
	switch emphasis {
	case model.EmphasisPrimary:
		return orDefault(theme.Primary, "4472c4")
	case model.EmphasisSecondary:
		return orDefault(theme.Secondary, "a5a5a5")
	case model.EmphasisAccent:
		return orDefault(theme.Accent, "ed7d31")
	default:
		base := orDefault(theme.Primary, "4472c4")
		tinted, err := color.Lighten(base, 20)
		if err != nil {
			return base
		}
		return tinted
	}
}

// textColorFor picks the contrast-appropriate text color for a fill.
func textColorFor(fill string) string {
	return color.TextColorFor(fill)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
