package terrain

import "math"

// Material enumerates the granular layers of a cell, ordered bottom to top.
// The set is small and closed, so layers are stored as fixed-size arrays
// indexed by Material rather than a dynamic structure.
type Material uint8

const (
	MaterialRock Material = iota
	MaterialSand
	MaterialHumus
	numMaterials
)

func (m Material) String() string {
	switch m {
	case MaterialRock:
		return "rock"
	case MaterialSand:
		return "sand"
	case MaterialHumus:
		return "humus"
	}
	return "unknown"
}

// Species enumerates the vegetation layers of a cell.
type Species uint8

const (
	SpeciesTree Species = iota
	SpeciesBush
	SpeciesGrass
	numSpecies
)

func (s Species) String() string {
	switch s {
	case SpeciesTree:
		return "tree"
	case SpeciesBush:
		return "bush"
	case SpeciesGrass:
		return "grass"
	}
	return "unknown"
}

// neighborOffsets is the 8-connected (Moore) neighborhood. Boundary cells
// simply have fewer valid neighbors; the domain never wraps or mirrors.
var neighborOffsets = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

func (w *World) index(x, y int) int { return y*w.w + x }

func (w *World) coords(i int) (int, int) { return i % w.w, i / w.w }

func (w *World) inBounds(x, y int) bool {
	return x >= 0 && x < w.w && y >= 0 && y < w.h
}

// neighbors appends the valid 8-connected neighbor indices of i to buf and
// returns the result. buf is reused to avoid per-event allocation.
func (w *World) neighbors(i int, buf []int) []int {
	x, y := w.coords(i)
	buf = buf[:0]
	for _, off := range neighborOffsets {
		nx, ny := x+off[0], y+off[1]
		if w.inBounds(nx, ny) {
			buf = append(buf, w.index(nx, ny))
		}
	}
	return buf
}

// totalHeight derives the full column height: bedrock plus every layer. It is
// always recomputed, never cached, so it cannot drift from the layer state.
func (w *World) totalHeight(i int) float64 {
	h := w.bedrock[i]
	for m := Material(0); m < numMaterials; m++ {
		h += w.layers[m][i]
	}
	return h
}

// granularHeight is the total thickness of loose material above bedrock.
func (w *World) granularHeight(i int) float64 {
	h := 0.0
	for m := Material(0); m < numMaterials; m++ {
		h += w.layers[m][i]
	}
	return h
}

// cellDistance is the horizontal distance between two cells in meters.
func (w *World) cellDistance(a, b int) float64 {
	ax, ay := w.coords(a)
	bx, by := w.coords(b)
	dx := float64(bx-ax) * w.cellSize
	dy := float64(by-ay) * w.cellSize
	return math.Hypot(dx, dy)
}

// slopeBetween returns rise over run from a to b: positive when a sits higher
// than b. Degenerate distances yield zero rather than NaN.
func (w *World) slopeBetween(a, b int) float64 {
	dist := w.cellDistance(a, b)
	if dist <= 0 {
		return 0
	}
	return (w.totalHeight(a) - w.totalHeight(b)) / dist
}

// slopeAngle converts a slope ratio to degrees.
func slopeAngle(slope float64) float64 {
	return math.Atan(slope) * 180 / math.Pi
}

// curvature estimates the local Laplacian of the height field: the mean
// neighbor height minus the cell height. Convex cells (ridges, peaks) are
// negative.
func (w *World) curvature(i int) float64 {
	buf := w.neighborScratch[:0]
	neighbors := w.neighbors(i, buf)
	if len(neighbors) == 0 {
		return 0
	}
	sum := 0.0
	for _, n := range neighbors {
		sum += w.totalHeight(n)
	}
	return sum/float64(len(neighbors)) - w.totalHeight(i)
}

// addMaterial deposits height of the given material. Non-positive or
// non-finite amounts are dropped at this boundary so a single degenerate
// event cannot corrupt the grid.
func (w *World) addMaterial(i int, m Material, height float64) {
	if !(height > 0) || math.IsInf(height, 0) {
		return
	}
	w.layers[m][i] += height
}

// removeMaterial drains up to height of the given material and returns the
// amount actually removed. A layer may reach exactly zero but never goes
// negative.
func (w *World) removeMaterial(i int, m Material, height float64) float64 {
	if !(height > 0) || math.IsInf(height, 0) {
		return 0
	}
	avail := w.layers[m][i]
	if height > avail {
		height = avail
	}
	w.layers[m][i] = avail - height
	return height
}

// topMaterial returns the topmost non-empty layer, or false when the column
// is bare bedrock.
func (w *World) topMaterial(i int) (Material, bool) {
	for m := numMaterials; m > 0; m-- {
		if w.layers[m-1][i] > 0 {
			return m - 1, true
		}
	}
	return 0, false
}

// removeBedrock lowers the immutable-base elevation, clamped at zero. Only
// the phenomena that genuinely destroy bedrock (lightning, thermal fracture,
// runoff dissolution) may call this.
func (w *World) removeBedrock(i int, height float64) float64 {
	if !(height > 0) || math.IsInf(height, 0) {
		return 0
	}
	if height > w.bedrock[i] {
		height = w.bedrock[i]
	}
	w.bedrock[i] -= height
	return height
}

// idealSlideHeight computes the tallest column at origin that still respects
// the critical angle toward a neighbor: the repose criterion from the slide
// events, solved for height.
func (w *World) idealSlideHeight(origin, target int, criticalAngleDeg float64) float64 {
	s := math.Sin(criticalAngleDeg * math.Pi / 180)
	dist := w.cellDistance(origin, target)
	k := (s * s * dist * dist) / (1 - s*s)
	return w.totalHeight(target) + math.Sqrt(k)
}

// moistureFraction expresses the transient water column as a fraction of the
// water-holding soil. All water is assumed to reach the humus layer; a thin
// floor keeps bare-bedrock cells from dividing by zero.
func (w *World) moistureFraction(i int) float64 {
	depth := w.layers[MaterialHumus][i]
	if depth < 0.05 {
		depth = 0.05
	}
	frac := w.moisture[i] / depth
	if frac < 0 {
		return 0
	}
	return frac
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
