package archetype

import (
	"strconv"

	"infographica/internal/ierrors"
	"infographica/internal/model"
	"infographica/internal/units"
)

// solveMarketecture implements spec.md §4.3's marketecture grid: an
// optional cross-cutting band above the main row, the main row of
// business-unit blocks, and an optional cross-cutting band below.
func solveMarketecture(b model.Brief, warnings *ierrors.Warnings) model.PositionedLayout {
	cx, cy, cw, ch := units.ContentBounds()

	topLayers, bottomLayers := splitLayers(b.Layers)
	mainEntities := entitiesOutsideLayers(b)

	weightTop, weightBottom := 0.0, 0.0
	if len(topLayers) > 0 {
		weightTop = 1
	}
	if len(bottomLayers) > 0 {
		weightBottom = 1
	}
	totalWeight := weightTop + 3 + weightBottom

	topH := ch * weightTop / totalWeight
	bottomH := ch * weightBottom / totalWeight
	mainH := ch - topH - bottomH

	var elements []model.PositionedElement
	elements = append(elements, titleSubtitleElements(b)...)

	y := cy
	if len(topLayers) > 0 {
		perBand := topH / float64(len(topLayers))
		for i, l := range topLayers {
			rect := model.Rect{X: cx, Y: y + float64(i)*perBand, Width: cw, Height: perBand}
			elements = append(elements, crossCutBand(l, rect, b.Theme))
		}
	}
	y += topH

	n := len(mainEntities)
	if n == 0 {
		n = 1
	}
	colW := (cw - float64(n-1)*units.GutterHorizontalIn) / float64(n)
	blockH := units.ClampBlockHeight(mainH - 2*units.GutterVerticalIn)
	blockY := y + (mainH-blockH)/2
	for i, e := range mainEntities {
		_, h, _ := blockSize(e.Label, n, cw)
		if h > blockH {
			h = blockH
		}
		rect := model.Rect{
			X:      cx + float64(i)*(colW+units.GutterHorizontalIn),
			Y:      blockY + (blockH-h)/2,
			Width:  units.ClampBlockWidth(colW),
			Height: h,
		}
		elements = append(elements, entityBlock(e, rect, b.Theme, i+1))
	}
	y += mainH

	if len(bottomLayers) > 0 {
		perBand := bottomH / float64(len(bottomLayers))
		for i, l := range bottomLayers {
			rect := model.Rect{X: cx, Y: y + float64(i)*perBand, Width: cw, Height: perBand}
			elements = append(elements, crossCutBand(l, rect, b.Theme))
		}
	}

	connectors := connectEntitiesInRow(b, mainEntities, elements)

	return model.PositionedLayout{
		SlideWidth:  units.SlideWidthIn,
		SlideHeight: units.SlideHeightIn,
		Background:  orDefault(b.Theme.Background, "ffffff"),
		Title:       b.Title,
		Subtitle:    b.Subtitle,
		Elements:    elements,
		Connectors:  connectors,
	}
}

func splitLayers(layers []model.Layer) (top, bottom []model.Layer) {
	for _, l := range layers {
		if l.Position == model.LayerBottom {
			bottom = append(bottom, l)
		} else {
			top = append(top, l)
		}
	}
	return top, bottom
}

// entitiesOutsideLayers returns the entities not claimed as a member of
// any layer — the business-unit row in a marketecture diagram.
func entitiesOutsideLayers(b model.Brief) []model.Entity {
	inLayer := make(map[string]bool)
	for _, l := range b.Layers {
		for _, m := range l.Members {
			inLayer[m] = true
		}
	}
	var out []model.Entity
	for _, e := range b.Entities {
		if !inLayer[e.ID] {
			out = append(out, e)
		}
	}
	if len(out) == 0 {
		return b.Entities
	}
	return out
}

// connectEntitiesInRow builds a connector for each Brief connection whose
// endpoints both ended up placed as elements.
func connectEntitiesInRow(b model.Brief, _ []model.Entity, elements []model.PositionedElement) []model.PositionedConnector {
	rects := make(map[string]model.Rect, len(elements))
	for _, e := range elements {
		rects[e.ID] = e.Rect
	}
	var out []model.PositionedConnector
	for i, c := range b.Connections {
		from, ok1 := rects[c.FromID]
		to, ok2 := rects[c.ToID]
		if !ok1 || !ok2 {
			continue
		}
		id := connectorID(i)
		color := textColorFor(b.Theme.Background)
		out = append(out, horizontalConnector(id, from, to, c, color))
	}
	return out
}

func connectorID(i int) string {
	return "c" + strconv.Itoa(i)
}
