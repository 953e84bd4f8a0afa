// Package heightmap ingests grayscale images as terrain elevation fields.
package heightmap

import (
	"fmt"
	"image"
	"image/png"
	"os"
)

// Map holds normalized elevation samples decoded from an image: row-major,
// one value in [0,1] per pixel, white high and black low.
type Map struct {
	W, H    int
	Samples []float64
}

// Load reads a PNG heightmap from disk. Color images are converted through
// their luminance.
func Load(path string) (*Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("heightmap %s: %w", path, err)
	}
	return FromImage(img), nil
}

// FromImage converts an already decoded image into a normalized map.
func FromImage(img image.Image) *Map {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	m := &Map{W: w, H: h, Samples: make([]float64, w*h)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			// Rec. 601 luminance over the 16-bit channel values.
			lum := 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
			m.Samples[y*w+x] = lum / 65535
		}
	}
	return m
}

// Elevations maps the normalized samples onto the [lo, hi] elevation range in
// meters.
func (m *Map) Elevations(lo, hi float64) []float64 {
	out := make([]float64, len(m.Samples))
	span := hi - lo
	for i, s := range m.Samples {
		out[i] = lo + s*span
	}
	return out
}
