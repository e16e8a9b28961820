package textmeasure

import "testing"

func TestMeasureWidthMonotoneInSize(t *testing.T) {
	w1, _ := Measure("Platform", "Helvetica", 10, false)
	w2, _ := Measure("Platform", "Helvetica", 20, false)
	if w2 < w1 {
		t.Fatalf("width should be monotone non-decreasing in size: w(10)=%v w(20)=%v", w1, w2)
	}
}

func TestFitSingleLine(t *testing.T) {
	mt := Fit("OK", 3.5, "Helvetica", 10, 24, true)
	if !mt.Fits {
		t.Fatalf("expected short text to fit: %+v", mt)
	}
	if len(mt.Lines) != 1 {
		t.Fatalf("expected single line, got %v", mt.Lines)
	}
	if mt.Height <= 0 {
		t.Fatal("height must be > 0")
	}
}

func TestFitAtMostThreeLines(t *testing.T) {
	mt := Fit("Customer Success Enablement Platform Modernization Initiative", 1.6, "Helvetica", 10, 24, true)
	if len(mt.Lines) > 3 {
		t.Fatalf("expected at most 3 lines, got %d", len(mt.Lines))
	}
	if mt.Height <= 0 {
		t.Fatal("height must be > 0")
	}
}

func TestFitFallbackTruncates(t *testing.T) {
	long := "this label is absurdly long and cannot possibly fit in a tiny block width no matter how small the font gets"
	mt := Fit(long, 0.2, "Helvetica", 10, 10, true)
	if mt.Fits {
		t.Fatal("expected fits=false for impossible width")
	}
	if len(mt.Lines) != 1 {
		t.Fatalf("expected single truncated line, got %v", mt.Lines)
	}
}

func TestCJKRatioAndMultiplier(t *testing.T) {
	if got := CJKRatio("hello"); got != 0 {
		t.Fatalf("CJKRatio(hello) = %v, want 0", got)
	}
	if got := CJKRatio("日本語"); got != 1 {
		t.Fatalf("CJKRatio(日本語) = %v, want 1", got)
	}
	if got := WidthMultiplier("日本語"); got != 1.8 {
		t.Fatalf("WidthMultiplier(日本語) = %v, want 1.8", got)
	}
}

func TestIsRTL(t *testing.T) {
	if !IsRTL("مرحبا") {
		t.Fatal("expected Arabic text to be RTL")
	}
	if IsRTL("hello") {
		t.Fatal("expected Latin text to not be RTL")
	}
}
