package terrain

// Snapshot is the read-only per-cell export handed to display collaborators.
// It is filled only between steps, from a double buffer, so a renderer never
// observes a partially mutated grid. There is no mutation path back into the
// world from a snapshot.
type Snapshot struct {
	W    int `json:"w"`
	H    int `json:"h"`
	Step int `json:"step"`

	Height   []float64 `json:"height"`
	Bedrock  []float64 `json:"bedrock"`
	Rock     []float64 `json:"rock"`
	Sand     []float64 `json:"sand"`
	Humus    []float64 `json:"humus"`
	Moisture []float64 `json:"moisture"`

	Tree  []float64 `json:"tree"`
	Bush  []float64 `json:"bush"`
	Grass []float64 `json:"grass"`
}

func newSnapshot(w, h int) *Snapshot {
	total := w * h
	return &Snapshot{
		W: w, H: h,
		Height:   make([]float64, total),
		Bedrock:  make([]float64, total),
		Rock:     make([]float64, total),
		Sand:     make([]float64, total),
		Humus:    make([]float64, total),
		Moisture: make([]float64, total),
		Tree:     make([]float64, total),
		Bush:     make([]float64, total),
		Grass:    make([]float64, total),
	}
}

// publishSnapshot fills the inactive snapshot buffer from the live grid,
// refreshes the display buffer, and swaps. Called once per completed step and
// once after Reset.
func (w *World) publishSnapshot() {
	next := w.snaps[1-w.snapIdx]
	next.Step = w.step
	total := w.w * w.h
	for i := 0; i < total; i++ {
		next.Height[i] = w.totalHeight(i)
		next.Bedrock[i] = w.bedrock[i]
		next.Rock[i] = w.layers[MaterialRock][i]
		next.Sand[i] = w.layers[MaterialSand][i]
		next.Humus[i] = w.layers[MaterialHumus][i]
		next.Moisture[i] = w.moisture[i]
		next.Tree[i] = w.vegDensity[SpeciesTree][i]
		next.Bush[i] = w.vegDensity[SpeciesBush][i]
		next.Grass[i] = w.vegDensity[SpeciesGrass][i]
	}
	w.snapIdx = 1 - w.snapIdx
	w.updateDisplay()
}

// Snapshot returns the export for the most recently completed step. The
// returned struct is only replaced at step boundaries; callers must treat it
// as read-only.
func (w *World) Snapshot() *Snapshot {
	return w.snaps[w.snapIdx]
}

// Metrics aggregates a completed step for the recording sinks.
type Metrics struct {
	Step        int     `json:"step"`
	MeanHeight  float64 `json:"mean_height"`
	RockVolume  float64 `json:"rock_volume"`
	SandVolume  float64 `json:"sand_volume"`
	HumusVolume float64 `json:"humus_volume"`
	WaterTotal  float64 `json:"water_total"`
	TreeCover   float64 `json:"tree_cover"`
	BushCover   float64 `json:"bush_cover"`
	GrassCover  float64 `json:"grass_cover"`
	SandLost    float64 `json:"sand_lost"`
}

// Metrics summarizes the current grid state. Like Snapshot, it must only be
// read between steps.
func (w *World) Metrics() Metrics {
	total := w.w * w.h
	if total == 0 {
		return Metrics{Step: w.step}
	}
	area := w.cellSize * w.cellSize
	m := Metrics{Step: w.step, SandLost: w.sinkSand * area}
	for i := 0; i < total; i++ {
		m.MeanHeight += w.totalHeight(i)
		m.RockVolume += w.layers[MaterialRock][i] * area
		m.SandVolume += w.layers[MaterialSand][i] * area
		m.HumusVolume += w.layers[MaterialHumus][i] * area
		m.WaterTotal += w.moisture[i]
		m.TreeCover += w.vegDensity[SpeciesTree][i]
		m.BushCover += w.vegDensity[SpeciesBush][i]
		m.GrassCover += w.vegDensity[SpeciesGrass][i]
	}
	n := float64(total)
	m.MeanHeight /= n
	m.TreeCover /= n
	m.BushCover /= n
	m.GrassCover /= n
	return m
}
