package terrain

import (
	"fmt"
	"math/rand/v2"

	"terra-ca/internal/core"
)

// World stores all state for the layered terrain simulation: the columnar
// grid, its ecological fields, and the step-local wind field.
type World struct {
	cfg Config

	w, h     int
	cellSize float64

	// Columnar material state, struct-of-arrays.
	bedrock     []float64
	layers      [numMaterials][]float64
	moisture    []float64
	sunExposure []float64
	deadBiomass []float64

	// Per-species vegetation state.
	vegDensity [numSpecies][]float64
	vegVigor   [numSpecies][]float64
	vegStress  [numSpecies][]float64

	// Wind field, valid only for the step it was synthesized in.
	windX       []float64
	windY       []float64
	windMag     []float64
	windShadow  []float64
	windStep    int
	roseSpeed   float64
	roseDirX    float64
	roseDirY    float64
	roseWeights []float64

	// Scratch storage reused across events.
	coarse          *core.ScalarGrid
	fine            *core.ScalarGrid
	blurScratch     []float64
	neighborScratch []int
	slopeScratch    []float64
	pickScratch     []int

	schedule []workItem
	handlers [numEvents]eventHandler
	step     int
	// Sand carried past the domain edge by saltation. The boundary clamps
	// every other transport path, so only sand can leave.
	sinkSand float64

	display     []uint8
	displayMode DisplayMode

	snaps   [2]*Snapshot
	snapIdx int

	rng *rand.Rand
}

// New returns a terrain simulation with the provided dimensions using
// defaults.
func New(w, h int) (*World, error) {
	cfg := DefaultConfig()
	cfg.Width = w
	cfg.Height = h
	return NewWithConfig(cfg)
}

// NewWithConfig returns a terrain world configured from the provided options.
// A malformed configuration is fatal here: the simulation never starts on a
// bad config.
func NewWithConfig(cfg Config) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	total := cfg.Width * cfg.Height
	w := &World{
		cfg:             cfg,
		w:               cfg.Width,
		h:               cfg.Height,
		cellSize:        cfg.CellSize,
		bedrock:         make([]float64, total),
		moisture:        make([]float64, total),
		sunExposure:     make([]float64, total),
		deadBiomass:     make([]float64, total),
		windX:           make([]float64, total),
		windY:           make([]float64, total),
		windMag:         make([]float64, total),
		windShadow:      make([]float64, total),
		windStep:        -1,
		coarse:          core.NewScalarGrid(cfg.Width, cfg.Height),
		fine:            core.NewScalarGrid(cfg.Width, cfg.Height),
		blurScratch:     make([]float64, total),
		neighborScratch: make([]int, 0, 8),
		slopeScratch:    make([]float64, 0, 8),
		pickScratch:     make([]int, 0, 8),
		display:         make([]uint8, total),
		rng:             core.NewRNG(cfg.Seed),
	}
	for m := Material(0); m < numMaterials; m++ {
		w.layers[m] = make([]float64, total)
	}
	for s := Species(0); s < numSpecies; s++ {
		w.vegDensity[s] = make([]float64, total)
		w.vegVigor[s] = make([]float64, total)
		w.vegStress[s] = make([]float64, total)
	}
	w.roseWeights = make([]float64, len(cfg.Params.WindRose))
	for i, e := range cfg.Params.WindRose {
		w.roseWeights[i] = e.Weight
	}
	w.snaps[0] = newSnapshot(cfg.Width, cfg.Height)
	w.snaps[1] = newSnapshot(cfg.Width, cfg.Height)
	if err := w.registerHandlers(); err != nil {
		return nil, err
	}
	return w, nil
}

// NewFromElevation constructs a world whose bedrock is seeded from an
// externally ingested elevation sample array (row-major, len = width*height).
// Layer seeding and vegetation sprinkling still follow the config.
func NewFromElevation(cfg Config, samples []float64) (*World, error) {
	if len(samples) != cfg.Width*cfg.Height {
		return nil, fmt.Errorf("elevation samples: got %d values for %dx%d grid",
			len(samples), cfg.Width, cfg.Height)
	}
	w, err := NewWithConfig(cfg)
	if err != nil {
		return nil, err
	}
	w.Reset(cfg.Seed)
	copy(w.bedrock, samples)
	w.refreshSunExposure()
	w.publishSnapshot()
	return w, nil
}

// Name returns the simulation identifier.
func (w *World) Name() string { return "terrain" }

// Size reports the grid dimensions.
func (w *World) Size() core.Size { return core.Size{W: w.w, H: w.h} }

// Cells exposes the current display buffer.
func (w *World) Cells() []uint8 { return w.display }

// StepCount reports how many steps have completed since the last Reset.
func (w *World) StepCount() int { return w.step }

// Bedrock exposes the base elevation field.
func (w *World) Bedrock() []float64 { return w.bedrock }

// Layer exposes the thickness field of one material.
func (w *World) Layer(m Material) []float64 { return w.layers[m] }

// Moisture exposes the transient water field.
func (w *World) Moisture() []float64 { return w.moisture }

// VegetationDensity exposes the density field of one species.
func (w *World) VegetationDensity(s Species) []float64 { return w.vegDensity[s] }

// Reset prepares the initial world using deterministic randomness. A zero
// seed falls back to the configured seed, matching the registry contract.
func (w *World) Reset(seed int64) {
	if w.w == 0 || w.h == 0 {
		return
	}
	effective := seed
	if effective == 0 {
		effective = w.cfg.Seed
	}
	w.rng = core.NewRNG(effective)
	w.step = 0
	w.windStep = -1
	w.sinkSand = 0

	total := w.w * w.h
	for i := 0; i < total; i++ {
		w.bedrock[i] = w.cfg.Params.BedrockBaseHeight
		w.moisture[i] = 0
		w.sunExposure[i] = 1
		w.deadBiomass[i] = 0
		w.windX[i] = 0
		w.windY[i] = 0
		w.windMag[i] = 0
		w.windShadow[i] = 0
	}
	for m := Material(0); m < numMaterials; m++ {
		for i := 0; i < total; i++ {
			w.layers[m][i] = 0
		}
	}
	for s := Species(0); s < numSpecies; s++ {
		for i := 0; i < total; i++ {
			w.vegDensity[s][i] = 0
			w.vegVigor[s][i] = 0
			w.vegStress[s][i] = 0
		}
	}

	w.seedBedrockNoise()
	w.seedLayers()
	w.seedVegetation()
	w.refreshSunExposure()
	w.publishSnapshot()
}

// seedBedrockNoise authors a smooth initial relief when no external elevation
// samples were provided: white noise blurred into rolling terrain.
func (w *World) seedBedrockNoise() {
	amp := w.cfg.Params.BedrockNoiseAmp
	if amp <= 0 {
		return
	}
	vals := w.coarse.Values()
	for i := range vals {
		vals[i] = (w.rng.Float64()*2 - 1) * amp
	}
	w.coarse.BoxBlur(4, w.blurScratch)
	w.coarse.BoxBlur(4, w.blurScratch)
	for i := range vals {
		w.bedrock[i] += vals[i]
	}
}

// seedLayers lays down the authored starting sand and humus blankets.
func (w *World) seedLayers() {
	total := w.w * w.h
	for i := 0; i < total; i++ {
		if w.cfg.Params.InitialSandDepth > 0 {
			w.layers[MaterialSand][i] = w.cfg.Params.InitialSandDepth
		}
		if w.cfg.Params.InitialHumusDepth > 0 {
			w.layers[MaterialHumus][i] = w.cfg.Params.InitialHumusDepth
		}
	}
}

// seedVegetation sprinkles initial plant cover where humus exists.
func (w *World) seedVegetation() {
	total := w.w * w.h
	for i := 0; i < total; i++ {
		if w.layers[MaterialHumus][i] <= 0 {
			continue
		}
		if w.rng.Float64() < w.cfg.Params.SeedGrassChance {
			w.vegDensity[SpeciesGrass][i] = 0.2 + 0.3*w.rng.Float64()
		}
		if w.rng.Float64() < w.cfg.Params.SeedBushChance {
			w.vegDensity[SpeciesBush][i] = 0.1 + 0.2*w.rng.Float64()
		}
		if w.rng.Float64() < w.cfg.Params.SeedTreeChance {
			w.vegDensity[SpeciesTree][i] = 0.1 + 0.1*w.rng.Float64()
		}
		w.capOccupancy(i)
	}
}

// Step advances the simulation by one event-driven timestep: climate forcing,
// wind synthesis, then one randomized schedule of per-cell events. The world
// is mutated strictly sequentially; the renderer-facing snapshot is only
// republished once the whole step has completed.
func (w *World) Step() {
	if w.w == 0 || w.h == 0 {
		return
	}

	w.updateClimate()
	w.synthesizeWind()

	w.buildSchedule()
	for _, item := range w.schedule {
		w.handlers[item.kind](w, item.cell)
	}

	w.step++
	w.publishSnapshot()
}

func init() {
	core.Register("terrain", func(cfg map[string]string) core.Sim {
		c := FromMap(cfg)
		w, err := NewWithConfig(c)
		if err != nil {
			// FromMap only admits validated values, so this is unreachable
			// without a programming error.
			panic(err)
		}
		return w
	})
}
