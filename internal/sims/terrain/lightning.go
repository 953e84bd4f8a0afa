package terrain

import "math"

// applyLightning rolls the curvature-gated strike probability for the cell
// and, on a hit, applies the instantaneous damage: vegetation killed at the
// cell and its immediate neighborhood, and a small volume of bedrock blasted
// into rock and sand scattered over the same cells. Lightning is the
// timescale-mismatched event the whole scheduler design exists for: it
// completes in one invocation, no integration step involved.
func (w *World) applyLightning(cell int) {
	if w.rng.Float64() >= w.lightningProbability(cell) {
		return
	}
	w.strike(cell)
}

// lightningProbability implements l(p) = kL * min(1, e^(kc*(-curv - ks))):
// exposed convex cells (ridges, lone hills) attract strikes, hollows almost
// never do.
func (w *World) lightningProbability(cell int) float64 {
	p := w.cfg.Params
	curv := w.curvature(cell)
	exp := p.LightningCurvatureScale * (-curv - p.LightningMinCurvature)
	return p.LightningMaxProbability * math.Min(1, math.Exp(exp))
}

// strike applies the damage unconditionally. Split from the probability roll
// so tests can exercise the deterministic part directly.
func (w *World) strike(cell int) {
	// Kill vegetation at the cell and its neighbors; the biomass joins the
	// dead pool and later decays into humus.
	w.killAllVegetation(cell)
	w.neighborScratch = w.neighbors(cell, w.neighborScratch)
	affected := append([]int{cell}, w.neighborScratch...)
	for _, n := range w.neighborScratch {
		w.killAllVegetation(n)
	}

	// Blast a fixed volume of bedrock and scatter it evenly over the
	// affected cells, half as rock, half as sand. Boundary cells scatter
	// over their reduced neighbor set.
	area := w.cellSize * w.cellSize
	displaced := w.removeBedrock(cell, w.cfg.Params.LightningDisplacedVolume/area)
	perCell := displaced / float64(len(affected))
	for _, n := range affected {
		w.addMaterial(n, MaterialRock, perCell/2)
		w.addMaterial(n, MaterialSand, perCell/2)
	}
}
