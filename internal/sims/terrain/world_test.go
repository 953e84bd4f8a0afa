package terrain

import (
	"math"
	"slices"
	"testing"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Width = 16
	cfg.Height = 16
	cfg.Seed = 42
	return cfg
}

// flatConfig turns off initial relief and vegetation so geometry-sensitive
// tests start from a known flat column everywhere.
func flatConfig() Config {
	cfg := testConfig()
	cfg.Params.BedrockNoiseAmp = 0
	cfg.Params.SeedGrassChance = 0
	cfg.Params.SeedBushChance = 0
	cfg.Params.SeedTreeChance = 0
	return cfg
}

func mustWorld(t *testing.T, cfg Config) *World {
	t.Helper()
	w, err := NewWithConfig(cfg)
	if err != nil {
		t.Fatalf("NewWithConfig: %v", err)
	}
	w.Reset(0)
	return w
}

func TestResetDeterministic(t *testing.T) {
	world := mustWorld(t, testConfig())

	initialBedrock := append([]float64(nil), world.Bedrock()...)
	initialSand := append([]float64(nil), world.Layer(MaterialSand)...)
	initialGrass := append([]float64(nil), world.VegetationDensity(SpeciesGrass)...)
	initialCells := append([]uint8(nil), world.Cells()...)

	// Mutate state to ensure Reset rebuilds from scratch.
	world.Bedrock()[0] += 5
	world.Layer(MaterialSand)[1] = 9
	world.VegetationDensity(SpeciesGrass)[2] = 1
	world.Cells()[3] = 42

	world.Reset(0)

	if !slices.Equal(initialBedrock, world.Bedrock()) {
		t.Fatal("Reset with config seed not deterministic for bedrock")
	}
	if !slices.Equal(initialSand, world.Layer(MaterialSand)) {
		t.Fatal("Reset with config seed not deterministic for sand layer")
	}
	if !slices.Equal(initialGrass, world.VegetationDensity(SpeciesGrass)) {
		t.Fatal("Reset with config seed not deterministic for grass density")
	}
	if !slices.Equal(initialCells, world.Cells()) {
		t.Fatal("Reset with config seed not deterministic for display buffer")
	}

	world.Reset(777)
	seedBedrock := append([]float64(nil), world.Bedrock()...)
	world.Reset(777)
	if !slices.Equal(seedBedrock, world.Bedrock()) {
		t.Fatal("Reset with explicit seed not deterministic")
	}
	if slices.Equal(initialBedrock, seedBedrock) {
		t.Fatal("different seeds should produce different initial bedrock")
	}
}

func TestStepDeterministic(t *testing.T) {
	a := mustWorld(t, testConfig())
	b := mustWorld(t, testConfig())

	const steps = 8
	for i := 0; i < steps; i++ {
		a.Step()
		b.Step()
	}

	if a.StepCount() != steps || b.StepCount() != steps {
		t.Fatalf("expected step count %d, got %d and %d", steps, a.StepCount(), b.StepCount())
	}

	sa, sb := a.Snapshot(), b.Snapshot()
	if sa.Step != steps {
		t.Fatalf("snapshot step = %d, want %d", sa.Step, steps)
	}
	if !slices.Equal(sa.Height, sb.Height) {
		t.Fatal("same seed produced diverging height fields")
	}
	if !slices.Equal(sa.Moisture, sb.Moisture) {
		t.Fatal("same seed produced diverging moisture fields")
	}
	if !slices.Equal(sa.Grass, sb.Grass) {
		t.Fatal("same seed produced diverging grass fields")
	}
}

func TestStepConservesMass(t *testing.T) {
	// Biomass decay converts the dead-vegetation pool into humus, which is
	// material entering the columns from outside them. With it disabled, the
	// only way mass leaves the grid is saltation past the edge, and the sand
	// sink must account for exactly that.
	cfg := testConfig()
	cfg.Params.DeadBiomassDecay = 0
	world := mustWorld(t, cfg)

	before := totalMass(world)
	for i := 0; i < 25; i++ {
		world.Step()
	}
	after := totalMass(world) + world.sinkSand

	if math.Abs(after-before) > 1e-6 {
		t.Fatalf("mass after 25 steps = %g, want %g", after, before)
	}
}

func TestSnapshotOnlyChangesAtStepBoundaries(t *testing.T) {
	world := mustWorld(t, testConfig())

	before := world.Snapshot()
	world.Step()
	after := world.Snapshot()

	if before == after {
		t.Fatal("Step must publish into the other snapshot buffer")
	}
	if before.Step != 0 || after.Step != 1 {
		t.Fatalf("snapshot steps = %d, %d; want 0, 1", before.Step, after.Step)
	}
}

func TestNewWithConfigRejectsInvalid(t *testing.T) {
	cfg := testConfig()
	cfg.Width = 0
	if _, err := NewWithConfig(cfg); err == nil {
		t.Fatal("expected error for zero width")
	}

	cfg = testConfig()
	cfg.WindModel = "tornado"
	if _, err := NewWithConfig(cfg); err == nil {
		t.Fatal("expected error for unknown wind model")
	}
}

func TestNewFromElevation(t *testing.T) {
	cfg := flatConfig()
	samples := make([]float64, cfg.Width*cfg.Height)
	for i := range samples {
		samples[i] = 50 + float64(i%7)
	}

	world, err := NewFromElevation(cfg, samples)
	if err != nil {
		t.Fatalf("NewFromElevation: %v", err)
	}
	if !slices.Equal(world.Bedrock(), samples) {
		t.Fatal("bedrock must match the ingested elevation samples")
	}

	if _, err := NewFromElevation(cfg, samples[:3]); err == nil {
		t.Fatal("expected error for mismatched sample count")
	}
}

func TestRegistryNameAndSize(t *testing.T) {
	world := mustWorld(t, testConfig())
	if got := world.Name(); got != "terrain" {
		t.Fatalf("Name() = %q, want %q", got, "terrain")
	}
	size := world.Size()
	if size.W != 16 || size.H != 16 {
		t.Fatalf("Size() = %dx%d, want 16x16", size.W, size.H)
	}
	if len(world.Cells()) != 16*16 {
		t.Fatalf("Cells() length = %d, want %d", len(world.Cells()), 16*16)
	}
}
