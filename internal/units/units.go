// Package units holds the fixed-point conversions and canvas geometry
// constants shared by every downstream stage. All internal geometry is
// double-precision inches; EMU conversion happens only at the renderer
// boundary (spec §4.2).
package units

import "math"

// EMUPerInch is the fixed-point unit used by OOXML documents.
const EMUPerInch = 914400

// EMUPerPoint is the fixed-point unit used for OOXML font sizes/strokes.
const EMUPerPoint = 12700

// InchesToEMU converts inches to EMU, rounding to the nearest integer.
func InchesToEMU(in float64) int64 {
	return int64(math.Round(in * EMUPerInch))
}

// PointsToEMU converts points to EMU, rounding to the nearest integer.
func PointsToEMU(pt float64) int64 {
	return int64(math.Round(pt * EMUPerPoint))
}

// Canvas geometry constants (spec §6, exact).
const (
	SlideWidthIn  = 13.333
	SlideHeightIn = 7.5

	MarginTopIn    = 0.8
	MarginBottomIn = 0.5
	MarginLeftIn   = 0.6
	MarginRightIn  = 0.6

	TitleBandHeightIn = 0.9

	GutterHorizontalIn = 0.25
	GutterVerticalIn   = 0.2

	BlockMinWidthIn  = 1.5
	BlockMinHeightIn = 0.7
	BlockMaxWidthIn  = 3.5
	BlockMaxHeightIn = 1.8

	CrossCutBandHeightIn = 0.6

	ConnectorEndpointInsetIn = 0.1
)

// ContentBounds returns the rectangle available for archetype content:
// the slide minus margins and the title band.
func ContentBounds() (x, y, width, height float64) {
	x = MarginLeftIn
	y = MarginTopIn + TitleBandHeightIn
	width = SlideWidthIn - MarginLeftIn - MarginRightIn
	height = SlideHeightIn - y - MarginBottomIn
	return x, y, width, height
}

// ClampBlockHeight clamps a measured block height to [min, max].
func ClampBlockHeight(h float64) float64 {
	if h < BlockMinHeightIn {
		return BlockMinHeightIn
	}
	if h > BlockMaxHeightIn {
		return BlockMaxHeightIn
	}
	return h
}

// ClampBlockWidth clamps a measured block width to [min, max].
func ClampBlockWidth(w float64) float64 {
	if w < BlockMinWidthIn {
		return BlockMinWidthIn
	}
	if w > BlockMaxWidthIn {
		return BlockMaxWidthIn
	}
	return w
}
