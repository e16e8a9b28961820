package imageproc

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	colorful "github.com/lucasb-eyer/go-colorful"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/disintegration/imaging"

	"infographica/internal/ierrors"
)

// maxLogoDimension caps the downscale target spec.md §4.9 step 3 names:
// "scaled pixels ≤ 500×500".
const maxLogoDimension = 500

// dominantColorCount is k in the "k-means (k = 5)" spec.md §4.9 step 3 names.
const dominantColorCount = 5

const kmeansIterations = 12

// DominantColors decodes logoBytes, downscales it to at most 500x500, and
// returns up to 5 dominant colors as lowercase hex strings ordered by
// cluster population, largest first.
func DominantColors(logoBytes []byte) ([]string, error) {
	img, _, err := image.Decode(bytes.NewReader(logoBytes))
	if err != nil {
		img, err = imaging.Decode(bytes.NewReader(logoBytes))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: decode logo: %v", ierrors.InputInvalid, err)
	}

	scaled := imaging.Fit(img, maxLogoDimension, maxLogoDimension, imaging.Lanczos)
	pixels := labPixels(scaled)
	if len(pixels) == 0 {
		return nil, fmt.Errorf("%w: logo has no pixels", ierrors.InputInvalid)
	}

	k := dominantColorCount
	if k > len(pixels) {
		k = len(pixels)
	}
	clusters := kmeans(pixels, k, kmeansIterations)
	return clusterHexesByPopulation(clusters), nil
}

// labPixels collects every non-transparent pixel of img as an RGB
// colorful.Color; kmeans converts them to CIE Lab for its distances and
// means, which are closer to human color perception than raw RGB.
func labPixels(img *image.NRGBA) []colorful.Color {
	bounds := img.Bounds()
	out := make([]colorful.Color, 0, bounds.Dx()*bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			if a == 0 {
				continue
			}
			out = append(out, colorful.Color{R: float64(r) / 65535, G: float64(g) / 65535, B: float64(b) / 65535})
		}
	}
	return out
}

type cluster struct {
	centroid colorful.Color
	members  []colorful.Color
}

// kmeans runs Lloyd's algorithm for a fixed iteration count in Lab space.
// Deterministic seeding (evenly spaced samples through the pixel slice)
// keeps results reproducible across runs on the same image.
func kmeans(pixels []colorful.Color, k, iterations int) []cluster {
	clusters := make([]cluster, k)
	step := len(pixels) / k
	if step < 1 {
		step = 1
	}
	for i := 0; i < k; i++ {
		clusters[i].centroid = pixels[(i*step)%len(pixels)]
	}

	for iter := 0; iter < iterations; iter++ {
		for i := range clusters {
			clusters[i].members = clusters[i].members[:0]
		}
		for _, p := range pixels {
			best := 0
			bestDist := labDistance(p, clusters[0].centroid)
			for i := 1; i < k; i++ {
				d := labDistance(p, clusters[i].centroid)
				if d < bestDist {
					bestDist = d
					best = i
				}
			}
			clusters[best].members = append(clusters[best].members, p)
		}
		for i := range clusters {
			if len(clusters[i].members) == 0 {
				continue
			}
			clusters[i].centroid = meanColor(clusters[i].members)
		}
	}
	return clusters
}

func labDistance(a, b colorful.Color) float64 {
	al, aa, ab := a.Lab()
	bl, ba, bb := b.Lab()
	dl, da, db := al-bl, aa-ba, ab-bb
	return dl*dl + da*da + db*db
}

func meanColor(members []colorful.Color) colorful.Color {
	var sumL, sumA, sumB float64
	for _, m := range members {
		l, a, b := m.Lab()
		sumL += l
		sumA += a
		sumB += b
	}
	n := float64(len(members))
	return colorful.Lab(sumL/n, sumA/n, sumB/n).Clamped()
}

func clusterHexesByPopulation(clusters []cluster) []string {
	nonEmpty := make([]cluster, 0, len(clusters))
	for _, c := range clusters {
		if len(c.members) > 0 {
			nonEmpty = append(nonEmpty, c)
		}
	}
	for i := 1; i < len(nonEmpty); i++ {
		for j := i; j > 0 && len(nonEmpty[j].members) > len(nonEmpty[j-1].members); j-- {
			nonEmpty[j], nonEmpty[j-1] = nonEmpty[j-1], nonEmpty[j]
		}
	}
	out := make([]string, 0, len(nonEmpty))
	for _, c := range nonEmpty {
		out = append(out, trimHash(c.centroid.Hex()))
	}
	return out
}

func trimHash(hex string) string {
	if len(hex) > 0 && hex[0] == '#' {
		return hex[1:]
	}
	return hex
}
