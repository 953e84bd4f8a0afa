package terrain

import "math"

// updateClimate applies the slow external forcings at the start of a step:
// moisture evaporation, dead vegetation decaying into humus, and the periodic
// sun-visibility refresh. Seasonality needs no running month counter; the
// vegetation model integrates the full monthly table on every evaluation.
func (w *World) updateClimate() {
	evap := w.cfg.Params.MoistureEvaporation
	decay := w.cfg.Params.DeadBiomassDecay
	area := w.cellSize * w.cellSize
	total := w.w * w.h
	for i := 0; i < total; i++ {
		w.moisture[i] *= evap
		if decay > 0 && w.deadBiomass[i] > 0 {
			volume := w.deadBiomass[i] * decay
			w.deadBiomass[i] -= volume
			w.addMaterial(i, MaterialHumus, volume/area)
		}
	}

	if every := w.cfg.Params.SunExposureEvery; every > 0 && w.step%every == 0 {
		w.refreshSunExposure()
	}
}

// temperatureAt returns the air temperature for a cell in the given month,
// using the seasonal table corrected by the elevation lapse rate relative to
// the configured base height.
func (w *World) temperatureAt(i, month int) float64 {
	t := w.cfg.Params.MonthlyTemperature[month%12]
	rise := w.totalHeight(i) - w.cfg.Params.BedrockBaseHeight
	return t - w.cfg.Params.TemperatureLapse*rise
}

// sunlightHours scales the cell's ray-traced sky visibility by the month's
// daylight duration.
func (w *World) sunlightHours(i, month int) float64 {
	return w.sunExposure[i] * w.cfg.Params.DaylightHours[month%12]
}

// sunRayDirections approximates the sun's daily path with three azimuths
// (morning east, noon south, evening west) at a fixed elevation angle.
var sunRayDirections = [3][2]int{
	{1, 0},
	{0, 1},
	{-1, 0},
}

const sunElevationTan = 0.7 // ~35 degrees above the horizon

// refreshSunExposure recomputes the [0,1] sky-visibility factor per cell by
// casting short horizon rays. This is the ray-traced pass the event loop
// treats as a given input signal: it runs between events, never inside a
// handler.
func (w *World) refreshSunExposure() {
	const maxReach = 16
	total := w.w * w.h
	for i := 0; i < total; i++ {
		x, y := w.coords(i)
		base := w.totalHeight(i)
		visible := 0
		for _, dir := range sunRayDirections {
			blocked := false
			for r := 1; r <= maxReach; r++ {
				nx := x + dir[0]*r
				ny := y + dir[1]*r
				if !w.inBounds(nx, ny) {
					break
				}
				rise := w.totalHeight(w.index(nx, ny)) - base
				if rise <= 0 {
					continue
				}
				if rise/(float64(r)*w.cellSize) > sunElevationTan {
					blocked = true
					break
				}
			}
			if !blocked {
				visible++
			}
		}
		w.sunExposure[i] = float64(visible) / float64(len(sunRayDirections))
	}
}

// growingSeason reports whether the month counts toward vigor. Matches the
// 5°C threshold used by the viability model.
func (w *World) growingSeason(month int) bool {
	return w.cfg.Params.MonthlyTemperature[month%12] > 5.0
}

// trapezoid evaluates the shared response curve: -1 outside the hard limits,
// 1 inside the ideal band, linear ramps in [0,1] between. Only limit
// violations produce negative viability, so stress accumulates from extremes
// rather than mild sub-optimality. Collapsed ranges act as hard edges instead
// of dividing by zero.
func trapezoid(v, limMin, idealMin, idealMax, limMax float64) float64 {
	switch {
	case v < limMin:
		return -1
	case v < idealMin:
		span := idealMin - limMin
		if span <= 0 {
			return 1
		}
		return (v - limMin) / span
	case v <= idealMax:
		return 1
	case v <= limMax:
		span := limMax - idealMax
		if span <= 0 {
			return -1
		}
		return (limMax - v) / span
	default:
		return -1
	}
}

// saturate maps the vigor-stress difference into a bounded growth multiplier.
func saturate(v float64) float64 {
	return math.Tanh(v)
}
