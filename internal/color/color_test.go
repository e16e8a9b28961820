package color

import "testing"

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"#FFFFFF": "ffffff",
		"000000":  "000000",
		"#abc":    "aabbcc",
	}
	for in, want := range cases {
		got, err := Normalize(in)
		if err != nil {
			t.Fatalf("Normalize(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeInvalid(t *testing.T) {
	if _, err := Normalize("not-a-color"); err == nil {
		t.Fatal("expected error for invalid hex color")
	}
}

func TestTextColorForContrast(t *testing.T) {
	if got := TextColorFor("ffffff"); got != "000000" {
		t.Fatalf("TextColorFor(white) = %q, want black", got)
	}
	if got := TextColorFor("000000"); got != "ffffff" {
		t.Fatalf("TextColorFor(black) = %q, want white", got)
	}
}

func TestLightenIncreasesLuminance(t *testing.T) {
	base := "0073e6"
	lightened, err := Lighten(base, 20)
	if err != nil {
		t.Fatal(err)
	}
	if RelativeLuminance(lightened) <= RelativeLuminance(base) {
		t.Fatalf("lightened color should have higher luminance: base=%s lightened=%s", base, lightened)
	}
}
