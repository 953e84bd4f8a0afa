package terrain

import (
	"math"
	"testing"
)

func TestCycleDisplayMode(t *testing.T) {
	world := mustWorld(t, testConfig())
	if got := world.DisplayMode(); got != "terrain" {
		t.Fatalf("initial display mode = %q, want terrain", got)
	}

	want := []string{"height", "moisture", "wind", "terrain"}
	for _, name := range want {
		world.CycleDisplayMode()
		if got := world.DisplayMode(); got != name {
			t.Fatalf("display mode = %q, want %q", got, name)
		}
	}
}

func TestPaletteCoversDisplayBuffer(t *testing.T) {
	world := mustWorld(t, testConfig())
	for mode := DisplayMode(0); mode < numDisplayModes; mode++ {
		world.displayMode = mode
		world.updateDisplay()
		palette := world.Palette()
		for i, v := range world.Cells() {
			if int(v) >= len(palette) {
				t.Fatalf("mode %s: cell %d index %d out of palette range %d",
					mode, i, v, len(palette))
			}
		}
	}
}

func TestTerrainDisplayEncodesTopMaterial(t *testing.T) {
	world := mustWorld(t, flatConfig())

	bare := world.index(2, 2)
	world.layers[MaterialSand][bare] = 0
	world.layers[MaterialHumus][bare] = 0

	sandy := world.index(5, 5)
	world.layers[MaterialHumus][sandy] = 0

	world.displayMode = DisplayTerrain
	world.updateDisplay()

	if got := world.display[bare] & displayMaterialMask; got != 0 {
		t.Fatalf("bare cell material bits = %d, want 0", got)
	}
	if got := world.display[sandy] & displayMaterialMask; got != uint8(MaterialSand)+1 {
		t.Fatalf("sandy cell material bits = %d, want %d", got, MaterialSand+1)
	}
}

func TestMetricsAggregation(t *testing.T) {
	world := mustWorld(t, flatConfig())
	m := world.Metrics()

	area := world.cellSize * world.cellSize
	total := float64(world.w * world.h)
	wantSand := flatConfig().Params.InitialSandDepth * total * area
	if math.Abs(m.SandVolume-wantSand) > 1e-6 {
		t.Fatalf("sand volume = %g, want %g", m.SandVolume, wantSand)
	}
	if m.SandLost != 0 {
		t.Fatalf("sand lost = %g before any transport, want 0", m.SandLost)
	}
	if m.MeanHeight <= 0 {
		t.Fatal("mean height must be positive on the default terrain")
	}
	if m.TreeCover != 0 || m.GrassCover != 0 {
		t.Fatal("flat config seeds no vegetation")
	}
}

func TestSnapshotMatchesWorld(t *testing.T) {
	world := mustWorld(t, testConfig())
	world.Step()

	snap := world.Snapshot()
	if snap.W != world.w || snap.H != world.h {
		t.Fatalf("snapshot dimensions %dx%d, want %dx%d", snap.W, snap.H, world.w, world.h)
	}
	for i := 0; i < world.w*world.h; i++ {
		if snap.Height[i] != world.totalHeight(i) {
			t.Fatalf("snapshot height[%d] = %g, want %g", i, snap.Height[i], world.totalHeight(i))
		}
		if snap.Moisture[i] != world.moisture[i] {
			t.Fatalf("snapshot moisture[%d] = %g, want %g", i, snap.Moisture[i], world.moisture[i])
		}
	}
}
