package archetype

import (
	"infographica/internal/ierrors"
	"infographica/internal/model"
	"infographica/internal/units"
)

const markerSizeIn = 0.22

// solveTimeline implements spec.md §4.3's timeline: a horizontal line at
// the vertical midpoint of the content area with n equally spaced
// markers, descriptions alternating above/below, and a label adjacent to
// each marker.
func solveTimeline(b model.Brief, warnings *ierrors.Warnings) model.PositionedLayout {
	cx, cy, cw, ch := units.ContentBounds()
	entities := b.Entities
	n := len(entities)
	if n == 0 {
		n = 1
	}
	midY := cy + ch/2

	var elements []model.PositionedElement
	elements = append(elements, titleSubtitleElements(b)...)

	elements = append(elements, model.PositionedElement{
		ID:   "timeline-axis",
		Kind: model.ElementBand,
		Rect: model.Rect{X: cx, Y: midY - 0.02, Width: cw, Height: 0.04},
		Fill: orDefault(b.Theme.Secondary, "a5a5a5"),
		ZOrder: -1,
	})

	spacing := cw / float64(n)
	descW := units.ClampBlockWidth(spacing * 0.9)
	descH := units.ClampBlockHeight(ch/2 - markerSizeIn - 0.3)

	for i, e := range entities {
		x := cx + spacing*float64(i) + spacing/2
		above := i%2 == 0

		marker := model.Rect{X: x - markerSizeIn/2, Y: midY - markerSizeIn/2, Width: markerSizeIn, Height: markerSizeIn}
		elements = append(elements, entityBlock(e, marker, b.Theme, i+1))

		labelY := midY + markerSizeIn/2 + 0.05
		if above {
			labelY = midY - markerSizeIn/2 - 0.05 - textmeasureLineHeight()
		}
		elements = append(elements, model.PositionedElement{
			ID:   e.ID + "-label",
			Kind: model.ElementLabel,
			Rect: model.Rect{X: x - descW/2, Y: labelY, Width: descW, Height: textmeasureLineHeight()},
			Fill: textColorFor(b.Theme.Background),
			Text: textPtr(fitLabel(e.Label, descW)),
			ZOrder: 1,
		})

		if e.Description != "" {
			descY := midY + markerSizeIn/2 + 0.05 + textmeasureLineHeight() + 0.05
			if above {
				descY = midY - markerSizeIn/2 - 0.05 - textmeasureLineHeight() - 0.05 - descH
			}
			elements = append(elements, model.PositionedElement{
				ID:   e.ID + "-desc",
				Kind: model.ElementLabel,
				Rect: model.Rect{X: x - descW/2, Y: descY, Width: descW, Height: descH},
				Fill: textColorFor(b.Theme.Background),
				Text: textPtr(fitLabel(e.Description, descW)),
				ZOrder: 1,
			})
		}
	}

	return model.PositionedLayout{
		SlideWidth:  units.SlideWidthIn,
		SlideHeight: units.SlideHeightIn,
		Background:  orDefault(b.Theme.Background, "ffffff"),
		Title:       b.Title,
		Subtitle:    b.Subtitle,
		Elements:    elements,
	}
}

func textmeasureLineHeight() float64 { return 0.2 }
