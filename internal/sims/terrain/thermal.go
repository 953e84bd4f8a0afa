package terrain

import "math"

// applyThermal runs both faces of thermal erosion on one cell: repose-angle
// creep of the topmost loose layer, and stochastic bedrock fracture driven by
// the diurnal temperature swing.
func (w *World) applyThermal(cell int) {
	w.thermalCreep(cell)
	w.thermalFracture(cell)
}

// thermalCreep compares the slope toward the steepest lower neighbor against
// the repose angle of the topmost non-empty layer and, when exceeded, moves a
// bounded fraction of the excess downhill. The moved mass is conserved: what
// leaves this cell arrives at the neighbor, nowhere else.
func (w *World) thermalCreep(cell int) {
	mat, ok := w.topMaterial(cell)
	if !ok {
		return
	}
	critical := w.reposeAngle(mat)

	w.neighborScratch = w.neighbors(cell, w.neighborScratch)
	target := -1
	steepest := 0.0
	for _, n := range w.neighborScratch {
		slope := w.slopeBetween(cell, n)
		if math.IsNaN(slope) {
			continue
		}
		if slope > steepest {
			steepest = slope
			target = n
		}
	}
	if target < 0 || slopeAngle(steepest) < critical {
		return
	}

	ideal := w.idealSlideHeight(cell, target, critical)
	excess := w.totalHeight(cell) - ideal
	if excess <= 0 {
		return
	}
	move := excess * w.cfg.Params.ThermalCreepFraction
	moved := w.removeMaterial(cell, mat, move)
	w.addMaterial(target, mat, moved)
}

// thermalFracture converts a sliver of bedrock into loose rock with a
// probability that grows with the local slope and is dampened by granular
// cover and vegetation, following the fracture model of the erosion
// literature: f(p) = k * dT * s(p) / (1 + kG*G(p) + kV*V(p)).
func (w *World) thermalFracture(cell int) {
	p := w.cfg.Params
	maxSlope := 0.0
	w.neighborScratch = w.neighbors(cell, w.neighborScratch)
	for _, n := range w.neighborScratch {
		slope := math.Abs(w.slopeBetween(cell, n))
		if slope > maxSlope {
			maxSlope = slope
		}
	}
	if maxSlope <= 0 {
		return
	}

	granular := w.layers[MaterialSand][cell] + w.layers[MaterialHumus][cell]
	veg := w.totalVegetation(cell)
	prob := p.ThermalFractureGain * p.DayNightDeltaT * maxSlope /
		(1 + p.ThermalGranularDamping*granular + p.ThermalVegetationDamping*veg)

	if w.rng.Float64() >= prob {
		return
	}
	fractured := w.removeBedrock(cell, p.ThermalFractureHeight)
	w.addMaterial(cell, MaterialRock, fractured)
}

// reposeAngle returns the configured critical angle for a material.
func (w *World) reposeAngle(m Material) float64 {
	switch m {
	case MaterialRock:
		return w.cfg.Params.ReposeAngleRock
	case MaterialSand:
		return w.cfg.Params.ReposeAngleSand
	default:
		return w.cfg.Params.ReposeAngleHumus
	}
}
