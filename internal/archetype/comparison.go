package archetype

import (
	"strconv"

	"infographica/internal/ierrors"
	"infographica/internal/model"
	"infographica/internal/units"
)

// solveComparison implements spec.md §4.3's comparison grid: entities are
// the items being compared (column headers), and layers double as the
// comparison criteria (row headers) — a cell is marked whenever the
// item's id is a member of that criterion's layer.
func solveComparison(b model.Brief, warnings *ierrors.Warnings) model.PositionedLayout {
	cx, cy, cw, ch := units.ContentBounds()

	items := b.Entities
	m := len(items)
	if m == 0 {
		m = 1
	}
	criteria := b.Layers
	if len(criteria) == 0 {
		criteria = []model.Layer{{ID: "criteria", Label: "Details", Members: entityIDs(items)}}
	}
	n := len(criteria)

	headerColW := units.ClampBlockWidth(cw / float64(m+1) * 0.8)
	colW := (cw - headerColW) / float64(m)
	headerRowH := units.ClampBlockHeight(ch/float64(n+1) * 0.8)
	rowH := (ch - headerRowH) / float64(n)

	warmComparisonCellMeasurements(items, criteria, colW, headerColW)

	var elements []model.PositionedElement
	elements = append(elements, titleSubtitleElements(b)...)

	// Header row: item labels across the M columns right of the header col.
	for j, it := range items {
		rect := model.Rect{X: cx + headerColW + float64(j)*colW, Y: cy, Width: colW, Height: headerRowH}
		elements = append(elements, model.PositionedElement{
			ID: "hdr-" + it.ID, Kind: model.ElementBlock, Rect: rect,
			Fill: orDefault(b.Theme.Primary, "4472c4"), Text: textPtr(fitLabel(it.Label, colW)),
			Opacity: 1, ZOrder: 1,
		})
	}

	for i, crit := range criteria {
		rowY := cy + headerRowH + float64(i)*rowH
		tint := orDefault(b.Theme.Background, "ffffff")
		if i%2 == 1 {
			tint = orDefault(b.Theme.Secondary, "eeeeee")
		}

		headerRect := model.Rect{X: cx, Y: rowY, Width: headerColW, Height: rowH}
		elements = append(elements, model.PositionedElement{
			ID: "rowhdr-" + strconv.Itoa(i), Kind: model.ElementBlock, Rect: headerRect,
			Fill: tint, Text: textPtr(fitLabel(crit.Label, headerColW)), Opacity: 1, ZOrder: 1,
		})

		members := memberSet(crit.Members)
		for j, it := range items {
			cellRect := model.Rect{X: cx + headerColW + float64(j)*colW, Y: rowY, Width: colW, Height: rowH}
			content := " "
			if members[it.ID] {
				if it.Description != "" {
					content = it.Description
				} else {
					content = "yes"
				}
			}
			elements = append(elements, model.PositionedElement{
				ID: "cell-" + strconv.Itoa(i) + "-" + it.ID, Kind: model.ElementBlock, Rect: cellRect,
				Fill: tint, Text: textPtr(fitLabel(content, colW)), Opacity: 1, ZOrder: 1,
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

// warmComparisonCellMeasurements fits every header and cell label
// concurrently ahead of the sequential grid-building loop below, since an
// M×N comparison table's fits are independent of each other.
func warmComparisonCellMeasurements(items []model.Entity, criteria []model.Layer, colW, headerColW float64) {
	var texts []string
	var widths []float64
	for _, it := range items {
		texts = append(texts, it.Label)
		widths = append(widths, colW)
	}
	for _, crit := range criteria {
		texts = append(texts, crit.Label)
		widths = append(widths, headerColW)
		members := memberSet(crit.Members)
		for _, it := range items {
			content := " "
			if members[it.ID] {
				if it.Description != "" {
					content = it.Description
				} else {
					content = "yes"
				}
			}
			texts = append(texts, content)
			widths = append(widths, colW)
		}
	}
	// Each distinct width needs its own fan-out since fitLabel's cache key
	// includes the width; group by width to keep the batches meaningful.
	byWidth := make(map[float64][]string)
	for i, t := range texts {
		byWidth[widths[i]] = append(byWidth[widths[i]], t)
	}
	for w, ts := range byWidth {
		measureMany(ts, w)
	}
}

func entityIDs(entities []model.Entity) []string {
	ids := make([]string, len(entities))
	for i, e := range entities {
		ids[i] = e.ID
	}
	return ids
}

func memberSet(ids []string) map[string]bool {
	m := make(map[string]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}
