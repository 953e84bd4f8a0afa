package heightmap

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func writeGradientPNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8(x * 255 / (w - 1))})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestLoadGradient(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ramp.png")
	writeGradientPNG(t, path, 8, 4)

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.W != 8 || m.H != 4 {
		t.Fatalf("dimensions = %dx%d, want 8x4", m.W, m.H)
	}
	if got := m.Samples[0]; got != 0 {
		t.Fatalf("black pixel sample = %g, want 0", got)
	}
	if got := m.Samples[7]; math.Abs(got-1) > 1e-9 {
		t.Fatalf("white pixel sample = %g, want 1", got)
	}
	// Monotonic ramp along x.
	for x := 1; x < 8; x++ {
		if m.Samples[x] < m.Samples[x-1] {
			t.Fatalf("samples not monotonic at x=%d", x)
		}
	}
}

func TestElevationsScaling(t *testing.T) {
	m := &Map{W: 2, H: 1, Samples: []float64{0, 1}}
	elev := m.Elevations(50, 250)
	if elev[0] != 50 || elev[1] != 250 {
		t.Fatalf("elevations = %v, want [50 250]", elev)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Fatal("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "not-a-png.png")
	if err := os.WriteFile(path, []byte("plain text"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected decode error for non-PNG data")
	}
}
