package terrain

// bioVolumeDepth approximates, per species, the equivalent depth of plant
// matter (m of volume per unit density over a full cell) used when killed
// vegetation joins the dead biomass pool.
var bioVolumeDepth = [numSpecies]float64{
	SpeciesTree:  0.50,
	SpeciesBush:  0.15,
	SpeciesGrass: 0.02,
}

// applyVegetation updates one species at one cell: compute vigor and stress
// from the year's monthly viabilities, then nudge density by a bounded,
// saturating amount. Density only ever changes through this derivation (and
// through the lightning kill); it is never assigned directly.
func (w *World) applyVegetation(cell int, s Species) {
	vigor, stress := w.vigorAndStress(cell, s)
	w.vegVigor[s][cell] = vigor
	w.vegStress[s][cell] = stress

	sp := w.cfg.Params.Species[s]
	drive := saturate(vigor - stress)

	density := w.vegDensity[s][cell]
	if drive >= 0 {
		// Growth is rate-limited and scaled by the headroom left under the
		// occupancy cap, so species compete for the cell.
		headroom := w.cfg.Params.OccupancyCap - w.totalVegetation(cell)
		if headroom < 0 {
			headroom = 0
		}
		grow := sp.GrowthRate * drive
		if grow > headroom {
			grow = headroom
		}
		density += grow
	} else {
		density += sp.DiebackRate * drive // drive is negative
	}
	w.vegDensity[s][cell] = clamp01(density)
}

// vigorAndStress evaluates the species response over twelve months of the
// climate forcing. Vigor is the mean viability across the growing season;
// stress is the mean of the four worst negative viabilities (zero when the
// year has none).
func (w *World) vigorAndStress(cell int, s Species) (float64, float64) {
	sp := w.cfg.Params.Species[s]

	var worst [4]float64
	nWorst := 0
	vigorSum := 0.0
	for month := 0; month < 12; month++ {
		v := w.viability(cell, sp, month)
		if w.growingSeason(month) {
			vigorSum += v
		}
		if v < 0 {
			// Keep the four most negative values.
			slot := -1
			for j := 0; j < nWorst; j++ {
				if v < worst[j] {
					slot = j
					break
				}
			}
			if nWorst < len(worst) {
				if slot < 0 {
					worst[nWorst] = v
				} else {
					copy(worst[slot+1:nWorst+1], worst[slot:nWorst])
					worst[slot] = v
				}
				nWorst++
			} else if slot >= 0 {
				copy(worst[slot+1:], worst[slot:len(worst)-1])
				worst[slot] = v
			}
		}
	}

	vigor := vigorSum / 12
	stress := 0.0
	if nWorst > 0 {
		sum := 0.0
		for j := 0; j < nWorst; j++ {
			sum += worst[j]
		}
		stress = -sum / float64(nWorst)
	}
	return vigor, stress
}

// viability is the monthly suitability of the cell for a species: the lowest
// of the temperature, moisture, and illumination responses, per Liebig's law
// of the minimum.
func (w *World) viability(cell int, sp SpeciesParams, month int) float64 {
	t := trapezoid(w.temperatureAt(cell, month),
		sp.TemperatureLimitMin, sp.TemperatureIdealMin,
		sp.TemperatureIdealMax, sp.TemperatureLimitMax)
	m := trapezoid(w.moistureFraction(cell),
		sp.MoistureLimitMin, sp.MoistureIdealMin,
		sp.MoistureIdealMax, sp.MoistureLimitMax)
	l := trapezoid(w.sunlightHours(cell, month),
		sp.LightLimitMin, sp.LightIdealMin,
		sp.LightIdealMax, sp.LightLimitMax)
	v := t
	if m < v {
		v = m
	}
	if l < v {
		v = l
	}
	return v
}

// totalVegetation is the summed species density at a cell.
func (w *World) totalVegetation(cell int) float64 {
	total := 0.0
	for s := Species(0); s < numSpecies; s++ {
		total += w.vegDensity[s][cell]
	}
	return total
}

// capOccupancy rescales densities when their sum exceeds the occupancy cap,
// preserving the species mix. Used after bulk seeding; the growth path stays
// under the cap by construction.
func (w *World) capOccupancy(cell int) {
	total := w.totalVegetation(cell)
	limit := w.cfg.Params.OccupancyCap
	if total <= limit {
		return
	}
	scale := limit / total
	for s := Species(0); s < numSpecies; s++ {
		w.vegDensity[s][cell] *= scale
	}
}

// killSpecies wipes one species at a cell, moving its biomass into the dead
// pool.
func (w *World) killSpecies(cell int, s Species) {
	density := w.vegDensity[s][cell]
	if density <= 0 {
		return
	}
	area := w.cellSize * w.cellSize
	w.deadBiomass[cell] += density * bioVolumeDepth[s] * area
	w.vegDensity[s][cell] = 0
	w.vegVigor[s][cell] = 0
	w.vegStress[s][cell] = 0
}

// killAllVegetation wipes every species at a cell.
func (w *World) killAllVegetation(cell int) {
	for s := Species(0); s < numSpecies; s++ {
		w.killSpecies(cell, s)
	}
}

// depositRetention is the shared vegetation-deposition coupling: a monotonic
// bonus in [0,1] that both runoff deposition and saltation/reptation deposit
// probability consume. One function, two call sites, no duplicated logic.
func (w *World) depositRetention(cell int) float64 {
	p := w.cfg.Params
	return clamp01(p.DepositRetentionBase + p.VegetationTrapGain*w.totalVegetation(cell))
}
