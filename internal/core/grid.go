package core

// ScalarGrid stores a 2D grid of float values in row-major order. It backs
// derived fields (smoothed elevation, wind magnitude) that need resampling
// helpers the raw simulation slices do not provide.
type ScalarGrid struct {
	W, H int
	data []float64
}

// NewScalarGrid allocates a grid with the given dimensions.
func NewScalarGrid(w, h int) *ScalarGrid {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &ScalarGrid{W: w, H: h, data: make([]float64, w*h)}
}

// Values exposes the backing slice so callers can read/write values directly.
func (g *ScalarGrid) Values() []float64 { return g.data }

// Index returns the linear slice index for coordinates (x, y).
func (g *ScalarGrid) Index(x, y int) int { return y*g.W + x }

// At reads the value at (x, y) with edge clamping. The simulation domain is
// bounded, not toroidal, so out-of-range coordinates resolve to the nearest
// border cell.
func (g *ScalarGrid) At(x, y int) float64 {
	x, y = g.Clamp(x, y)
	return g.data[y*g.W+x]
}

// Set writes the value at (x, y). Out-of-range coordinates are dropped.
func (g *ScalarGrid) Set(x, y int, v float64) {
	if x < 0 || x >= g.W || y < 0 || y >= g.H {
		return
	}
	g.data[y*g.W+x] = v
}

// Clamp restricts the provided coordinates to the grid interior.
func (g *ScalarGrid) Clamp(x, y int) (int, int) {
	if x < 0 {
		x = 0
	} else if x >= g.W {
		x = g.W - 1
	}
	if y < 0 {
		y = 0
	} else if y >= g.H {
		y = g.H - 1
	}
	return x, y
}

// Clear fills the grid with zeros.
func (g *ScalarGrid) Clear() {
	for i := range g.data {
		g.data[i] = 0
	}
}

// CopyFrom replaces the grid contents with src. Length mismatches are ignored.
func (g *ScalarGrid) CopyFrom(src []float64) {
	if len(src) != len(g.data) {
		return
	}
	copy(g.data, src)
}

// BoxBlur smooths the grid in place with a separable box kernel of the given
// radius, using scratch as intermediate storage. Applied iteratively it
// approximates a Gaussian weighting; radius <= 0 is a no-op.
func (g *ScalarGrid) BoxBlur(radius int, scratch []float64) {
	if radius <= 0 || len(scratch) < len(g.data) {
		return
	}
	norm := 1.0 / float64(2*radius+1)

	// Horizontal pass into scratch.
	for y := 0; y < g.H; y++ {
		row := y * g.W
		for x := 0; x < g.W; x++ {
			sum := 0.0
			for dx := -radius; dx <= radius; dx++ {
				sum += g.At(x+dx, y)
			}
			scratch[row+x] = sum * norm
		}
	}

	// Vertical pass back into the grid.
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			sum := 0.0
			for dy := -radius; dy <= radius; dy++ {
				cy := y + dy
				if cy < 0 {
					cy = 0
				} else if cy >= g.H {
					cy = g.H - 1
				}
				sum += scratch[cy*g.W+x]
			}
			g.data[y*g.W+x] = sum * norm
		}
	}
}

// GradientAt returns the central-difference gradient (d/dx, d/dy) at (x, y),
// scaled by the provided cell spacing.
func (g *ScalarGrid) GradientAt(x, y int, spacing float64) (float64, float64) {
	if spacing <= 0 {
		spacing = 1
	}
	gx := (g.At(x+1, y) - g.At(x-1, y)) / (2 * spacing)
	gy := (g.At(x, y+1) - g.At(x, y-1)) / (2 * spacing)
	return gx, gy
}
