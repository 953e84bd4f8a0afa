package terrain

import "math"

// applyWindTransport runs the three-stage aeolian transport for one cell:
// saltation (long wind-borne hop), reptation (short splash at each impact),
// and avalanching (repose slide of the disturbed sand). Parcels that hop past
// the domain edge leave the simulation and are tallied in the sand sink so
// mass stays accounted for.
func (w *World) applyWindTransport(cell int) {
	p := w.cfg.Params
	wind, ok := w.windVector(cell)
	if !ok {
		// Stale or missing field; the step must re-synthesize before
		// transport runs. Skip rather than move sand on old wind.
		return
	}
	speed := wind.Len()
	if speed < p.SaltationThreshold {
		return
	}

	carried := w.removeMaterial(cell, MaterialSand, p.SaltationCarryHeight)
	if carried <= 0 {
		return
	}

	current := cell
	for bounce := 0; bounce < p.SaltationMaxBounces; bounce++ {
		wind, ok = w.windVector(current)
		if !ok {
			break
		}
		speed = wind.Len()
		if speed == 0 {
			break
		}

		landing, inside := w.hopTarget(current, wind)
		if !inside {
			// The parcel leaves the simulated domain.
			w.sinkSand += carried
			return
		}

		w.addMaterial(landing, MaterialSand, carried)
		w.reptate(landing, carried)
		w.applySlide(landing, MaterialSand, 0)

		if w.rng.Float64() < w.depositProbability(landing) {
			return
		}

		// Re-enter saltation from the landing cell.
		got := w.removeMaterial(landing, MaterialSand, carried)
		if got <= 0 {
			return
		}
		carried = got
		current = landing
	}

	// Bounce cap reached: force the deposit so the event terminates with the
	// parcel on the ground.
	w.addMaterial(current, MaterialSand, carried)
}

// hopTarget computes where a saltating parcel lands: a wind-proportional
// number of cells along the wind direction.
func (w *World) hopTarget(cell int, wind [2]float64) (int, bool) {
	speed := math.Hypot(wind[0], wind[1])
	distance := speed * w.cfg.Params.SaltationHopFactor
	if distance < 1 {
		distance = 1
	}
	x, y := w.coords(cell)
	nx := x + int(math.Round(wind[0]/speed*distance))
	ny := y + int(math.Round(wind[1]/speed*distance))
	if !w.inBounds(nx, ny) {
		return -1, false
	}
	return w.index(nx, ny), true
}

// depositProbability decides whether a landed parcel sticks. Sheltered cells,
// sandy beds, and vegetation all raise the odds; the vegetation term is the
// same retention modifier rainfall deposition uses.
func (w *World) depositProbability(cell int) float64 {
	p := w.cfg.Params
	bed := p.DepositBareBonus
	if w.layers[MaterialSand][cell] > 0 {
		bed = p.DepositSandBonus
	}
	return clamp01(w.windShadow[cell] + bed + w.depositRetention(cell))
}

// reptate splashes a small amount of the sand resident at an impact cell to
// its two steepest downslope neighbors, split proportionally by slope. This
// is the short-distance counterpart to saltation's long hop.
func (w *World) reptate(cell int, impactHeight float64) {
	p := w.cfg.Params
	resident := w.layers[MaterialSand][cell] - impactHeight
	if resident < 0 {
		resident = 0
	}
	splash := math.Min(p.ReptationHeight, resident)
	if splash <= 0 {
		return
	}

	first, second := -1, -1
	firstSlope, secondSlope := 0.0, 0.0
	w.neighborScratch = w.neighbors(cell, w.neighborScratch)
	for _, n := range w.neighborScratch {
		slope := w.slopeBetween(cell, n)
		if math.IsNaN(slope) || slope <= 0 {
			continue
		}
		switch {
		case slope > firstSlope:
			second, secondSlope = first, firstSlope
			first, firstSlope = n, slope
		case slope > secondSlope:
			second, secondSlope = n, slope
		}
	}
	if first < 0 {
		return
	}

	splash = w.removeMaterial(cell, MaterialSand, splash)
	if second < 0 {
		w.addMaterial(first, MaterialSand, splash)
		return
	}
	ratio := 0.5
	if firstSlope+secondSlope > 0 {
		ratio = firstSlope / (firstSlope + secondSlope)
	}
	w.addMaterial(first, MaterialSand, splash*ratio)
	w.addMaterial(second, MaterialSand, splash*(1-ratio))
}
