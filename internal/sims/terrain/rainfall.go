package terrain

import "math"

// applyRainfall wets the target cell and runs one approximate runoff trace.
// Cells are visited in scheduler order rather than as a converged wavefront,
// so the flow is a fast approximation, not a steady-state solve.
func (w *World) applyRainfall(cell int) {
	p := w.cfg.Params
	water := p.RainfallAmount
	if p.RainfallVariance > 0 {
		water += (w.rng.Float64()*2 - 1) * p.RainfallVariance
	}
	if water <= 0 {
		return
	}
	w.moisture[cell] += water
	w.runoff(cell, water)
}

// runoff walks water downslope from the rained-on cell, lifting sediment on
// steep segments and depositing it on gentle ones. The walk is hard-capped at
// RunoffMaxSteps; whatever is still suspended at the end settles where the
// walk stopped, so lifted material is always accounted for.
func (w *World) runoff(cell int, water float64) {
	p := w.cfg.Params
	var lifted [numMaterials]float64
	dissolved := 0.0 // bedrock eroded into suspended rock

	current := cell
	for hop := 0; hop < p.RunoffMaxSteps; hop++ {
		next, slope := w.pickDownslope(current)
		if next < 0 {
			break
		}

		if slope > p.RunoffLiftSlope {
			w.liftSediment(current, water, &lifted, &dissolved)
		} else {
			w.depositSediment(current, p.DepositFractionKd, &lifted)
		}
		current = next
	}

	// Settle everything still in suspension.
	for m := Material(0); m < numMaterials; m++ {
		w.addMaterial(current, m, lifted[m])
	}
	w.addMaterial(current, MaterialRock, dissolved)
}

// pickDownslope chooses a lower neighbor weighted by slope, mirroring the
// weighted steepest-descent rule of the erosion model. Returns -1 when the
// cell is a local minimum (including boundary cells with no lower neighbor).
func (w *World) pickDownslope(cell int) (int, float64) {
	w.neighborScratch = w.neighbors(cell, w.neighborScratch)
	w.slopeScratch = w.slopeScratch[:0]
	w.pickScratch = w.pickScratch[:0]
	for _, n := range w.neighborScratch {
		slope := w.slopeBetween(cell, n)
		if slope > 0 && !math.IsNaN(slope) {
			w.slopeScratch = append(w.slopeScratch, slope)
			w.pickScratch = append(w.pickScratch, n)
		}
	}
	if len(w.pickScratch) == 0 {
		return -1, 0
	}
	total := 0.0
	for _, s := range w.slopeScratch {
		total += s
	}
	pick := w.rng.Float64() * total
	for i, s := range w.slopeScratch {
		pick -= s
		if pick < 0 {
			return w.pickScratch[i], w.slopeScratch[i]
		}
	}
	last := len(w.pickScratch) - 1
	return w.pickScratch[last], w.slopeScratch[last]
}

// liftSediment erodes the current cell into suspension, bounded by the flow's
// carrying capacity. Granular material goes first, proportionally across
// layers; once the column is bare the flow dissolves a little bedrock.
func (w *World) liftSediment(cell int, water float64, lifted *[numMaterials]float64, dissolved *float64) {
	p := w.cfg.Params
	capacity := p.SedimentCapacityKc * water
	carried := lifted[MaterialRock] + lifted[MaterialSand] + lifted[MaterialHumus] + *dissolved
	remaining := capacity - carried
	if remaining <= 0 {
		return
	}

	granular := w.granularHeight(cell)
	if granular > 0 {
		take := remaining
		if take > granular {
			take = granular
		}
		for m := Material(0); m < numMaterials; m++ {
			share := w.layers[m][cell] / granular
			got := w.removeMaterial(cell, m, take*share)
			lifted[m] += got
			remaining -= got
		}
	}

	if remaining > 0 {
		// Bare column under a still-hungry flow: dissolve bedrock.
		eroded := w.removeBedrock(cell, p.BedrockDissolveKs*remaining)
		*dissolved += eroded
	}
}

// depositSediment drops a fraction of the suspended load at the current cell.
// Vegetation scales the fraction up: roots and canopy trap moving material.
// This is the same retention modifier the wind-transport handler consumes.
func (w *World) depositSediment(cell int, kd float64, lifted *[numMaterials]float64) {
	frac := clamp01(kd * (1 + w.depositRetention(cell)))
	for m := Material(0); m < numMaterials; m++ {
		amount := lifted[m] * frac
		if amount <= 0 {
			continue
		}
		w.addMaterial(cell, m, amount)
		lifted[m] -= amount
	}
}
