package terrain

import (
	"math"
	"testing"
)

func totalMass(w *World) float64 {
	sum := 0.0
	for i := 0; i < w.w*w.h; i++ {
		sum += w.bedrock[i] + w.granularHeight(i)
	}
	return sum
}

func layerTotal(w *World, m Material) float64 {
	sum := 0.0
	for _, v := range w.layers[m] {
		sum += v
	}
	return sum
}

func TestColumnAccounting(t *testing.T) {
	world := mustWorld(t, flatConfig())
	cell := world.index(8, 8)

	base := world.totalHeight(cell)
	world.addMaterial(cell, MaterialRock, 2.5)
	if got := world.totalHeight(cell); math.Abs(got-base-2.5) > 1e-12 {
		t.Fatalf("totalHeight after deposit = %g, want %g", got, base+2.5)
	}

	// Removal clamps at the layer content and never goes negative.
	removed := world.removeMaterial(cell, MaterialRock, 100)
	if math.Abs(removed-2.5) > 1e-12 {
		t.Fatalf("removeMaterial returned %g, want 2.5", removed)
	}
	if world.layers[MaterialRock][cell] != 0 {
		t.Fatalf("rock layer = %g after draining, want 0", world.layers[MaterialRock][cell])
	}

	// Degenerate amounts are dropped at the boundary.
	world.addMaterial(cell, MaterialSand, math.NaN())
	world.addMaterial(cell, MaterialSand, math.Inf(1))
	world.addMaterial(cell, MaterialSand, -1)
	if got := world.layers[MaterialSand][cell]; got != flatConfig().Params.InitialSandDepth {
		t.Fatalf("sand layer = %g after degenerate deposits, want untouched", got)
	}
}

func TestTopMaterialOrder(t *testing.T) {
	world := mustWorld(t, flatConfig())
	cell := world.index(3, 3)
	world.layers[MaterialSand][cell] = 0
	world.layers[MaterialHumus][cell] = 0

	if _, ok := world.topMaterial(cell); ok {
		t.Fatal("bare bedrock column should have no top material")
	}
	world.addMaterial(cell, MaterialRock, 1)
	if m, _ := world.topMaterial(cell); m != MaterialRock {
		t.Fatalf("top material = %s, want rock", m)
	}
	world.addMaterial(cell, MaterialHumus, 0.1)
	if m, _ := world.topMaterial(cell); m != MaterialHumus {
		t.Fatalf("top material = %s, want humus", m)
	}
}

func TestNeighborsAtBoundary(t *testing.T) {
	world := mustWorld(t, flatConfig())
	corner := world.neighbors(world.index(0, 0), nil)
	if len(corner) != 3 {
		t.Fatalf("corner cell has %d neighbors, want 3", len(corner))
	}
	interior := world.neighbors(world.index(8, 8), nil)
	if len(interior) != 8 {
		t.Fatalf("interior cell has %d neighbors, want 8", len(interior))
	}
}

func TestSlideConservesMassAndRelaxes(t *testing.T) {
	world := mustWorld(t, flatConfig())
	center := world.index(8, 8)
	world.layers[MaterialSand][center] += 20 // well past repose over a 10 m cell

	before := layerTotal(world, MaterialSand)
	heightBefore := world.totalHeight(center)

	for i := 0; i < 200; i++ {
		world.applySlide(center, MaterialSand, 0)
	}

	after := layerTotal(world, MaterialSand)
	if math.Abs(before-after) > 1e-9 {
		t.Fatalf("slides changed total sand: before %g, after %g", before, after)
	}
	if world.totalHeight(center) >= heightBefore {
		t.Fatal("repeated slides should lower the over-steep column")
	}

	// After many slides the pile must approach repose: no neighbor slope may
	// still be far beyond the critical angle.
	critical := world.cfg.Params.ReposeAngleSand
	for _, n := range world.neighbors(center, nil) {
		slope := world.slopeBetween(center, n)
		if slopeAngle(slope) > critical+20 {
			t.Fatalf("slope toward %d still at %g degrees after relaxation", n, slopeAngle(slope))
		}
	}
}

func TestSlideStableColumnUntouched(t *testing.T) {
	world := mustWorld(t, flatConfig())
	center := world.index(8, 8)

	before := append([]float64(nil), world.layers[MaterialSand]...)
	world.applySlide(center, MaterialSand, 0)
	for i, v := range world.layers[MaterialSand] {
		if v != before[i] {
			t.Fatalf("slide on flat terrain moved sand at cell %d", i)
		}
	}
}

func TestThermalCreepMovesDownhill(t *testing.T) {
	world := mustWorld(t, flatConfig())
	center := world.index(8, 8)
	world.layers[MaterialSand][center] += 20

	massBefore := totalMass(world)
	centerBefore := world.totalHeight(center)

	world.thermalCreep(center)

	if math.Abs(totalMass(world)-massBefore) > 1e-9 {
		t.Fatal("thermal creep must conserve total mass")
	}
	if world.totalHeight(center) >= centerBefore {
		t.Fatal("thermal creep should lower the over-steep column")
	}
}

func TestThermalFractureTurnsBedrockIntoRock(t *testing.T) {
	cfg := flatConfig()
	// Force the fracture roll to always succeed.
	cfg.Params.ThermalFractureGain = 1000
	world := mustWorld(t, cfg)

	center := world.index(8, 8)
	world.bedrock[center] += 30 // create slope so the probability is nonzero

	neighbor := world.index(9, 8)
	bedrockBefore := world.bedrock[neighbor]
	rockBefore := world.layers[MaterialRock][neighbor]

	world.thermalFracture(neighbor)

	frac := world.cfg.Params.ThermalFractureHeight
	if math.Abs(world.bedrock[neighbor]-(bedrockBefore-frac)) > 1e-12 {
		t.Fatalf("bedrock = %g, want %g", world.bedrock[neighbor], bedrockBefore-frac)
	}
	if math.Abs(world.layers[MaterialRock][neighbor]-(rockBefore+frac)) > 1e-12 {
		t.Fatalf("rock layer = %g, want %g", world.layers[MaterialRock][neighbor], rockBefore+frac)
	}
}

func TestRainfallWetsAndConservesMass(t *testing.T) {
	world := mustWorld(t, flatConfig())
	cell := world.index(8, 8)

	massBefore := totalMass(world)
	moistureBefore := world.moisture[cell]

	world.applyRainfall(cell)

	if world.moisture[cell] <= moistureBefore {
		t.Fatal("rainfall must increase cell moisture")
	}
	if math.Abs(totalMass(world)-massBefore) > 1e-9 {
		t.Fatalf("runoff changed total mass: before %g, after %g", massBefore, totalMass(world))
	}
}

func TestRunoffErodesSteepSlopes(t *testing.T) {
	world := mustWorld(t, flatConfig())

	// Build a steep ramp: a tall ridge next to low ground.
	top := world.index(8, 8)
	world.bedrock[top] += 40

	sandBefore := world.layers[MaterialSand][top]
	massBefore := totalMass(world)

	for i := 0; i < 50; i++ {
		world.runoff(top, 0.05)
	}

	if world.layers[MaterialSand][top] >= sandBefore {
		t.Fatal("runoff down a steep slope should strip sand from the ridge")
	}
	if math.Abs(totalMass(world)-massBefore) > 1e-9 {
		t.Fatal("runoff must conserve mass inside the domain")
	}
}

func TestPickDownslopeLocalMinimum(t *testing.T) {
	world := mustWorld(t, flatConfig())
	cell := world.index(8, 8)
	if next, _ := world.pickDownslope(cell); next != -1 {
		t.Fatalf("flat cell picked downslope neighbor %d, want -1", next)
	}

	world.bedrock[cell] += 5
	next, slope := world.pickDownslope(cell)
	if next < 0 {
		t.Fatal("raised cell must find a downslope neighbor")
	}
	if slope <= 0 {
		t.Fatalf("downslope slope = %g, want positive", slope)
	}
}

func TestLightningStrikeDamage(t *testing.T) {
	world := mustWorld(t, flatConfig())
	cell := world.index(8, 8)
	world.vegDensity[SpeciesGrass][cell] = 0.5
	neighbor := world.index(9, 8)
	world.vegDensity[SpeciesTree][neighbor] = 0.3

	massBefore := totalMass(world)
	bedrockBefore := world.bedrock[cell]

	world.strike(cell)

	if world.vegDensity[SpeciesGrass][cell] != 0 {
		t.Fatal("strike must kill vegetation at the struck cell")
	}
	if world.vegDensity[SpeciesTree][neighbor] != 0 {
		t.Fatal("strike must kill vegetation at neighbors")
	}
	if world.deadBiomass[cell] <= 0 || world.deadBiomass[neighbor] <= 0 {
		t.Fatal("killed vegetation must enter the dead biomass pool")
	}

	area := world.cellSize * world.cellSize
	wantRemoved := world.cfg.Params.LightningDisplacedVolume / area
	if math.Abs(bedrockBefore-world.bedrock[cell]-wantRemoved) > 1e-12 {
		t.Fatalf("bedrock drop = %g, want %g", bedrockBefore-world.bedrock[cell], wantRemoved)
	}
	// The displaced volume is scattered, not destroyed.
	if math.Abs(totalMass(world)-massBefore) > 1e-9 {
		t.Fatal("strike must conserve total mass")
	}
}

func TestLightningProbabilityFavorsRidges(t *testing.T) {
	world := mustWorld(t, flatConfig())
	ridge := world.index(8, 8)
	world.bedrock[ridge] += 60

	hollow := world.index(3, 3)
	world.bedrock[hollow] -= 60

	if world.lightningProbability(ridge) <= world.lightningProbability(hollow) {
		t.Fatal("convex cells must attract strikes more than hollows")
	}
	if p := world.lightningProbability(ridge); p > world.cfg.Params.LightningMaxProbability {
		t.Fatalf("probability %g exceeds configured cap", p)
	}
}
