package units

import "testing"

func TestInchesToEMU(t *testing.T) {
	if got := InchesToEMU(1); got != EMUPerInch {
		t.Fatalf("InchesToEMU(1) = %d, want %d", got, EMUPerInch)
	}
	if got := InchesToEMU(13.333); got != 12191695 {
		t.Fatalf("InchesToEMU(13.333) = %d, want 12191695", got)
	}
}

func TestPointsToEMU(t *testing.T) {
	if got := PointsToEMU(1); got != EMUPerPoint {
		t.Fatalf("PointsToEMU(1) = %d, want %d", got, EMUPerPoint)
	}
}

func TestContentBoundsInsideSlide(t *testing.T) {
	x, y, w, h := ContentBounds()
	if x < 0 || y < 0 || x+w > SlideWidthIn || y+h > SlideHeightIn {
		t.Fatalf("content bounds exceed slide: x=%v y=%v w=%v h=%v", x, y, w, h)
	}
}

func TestClampBlockHeight(t *testing.T) {
	if got := ClampBlockHeight(0.1); got != BlockMinHeightIn {
		t.Fatalf("ClampBlockHeight(0.1) = %v, want %v", got, BlockMinHeightIn)
	}
	if got := ClampBlockHeight(10); got != BlockMaxHeightIn {
		t.Fatalf("ClampBlockHeight(10) = %v, want %v", got, BlockMaxHeightIn)
	}
}
