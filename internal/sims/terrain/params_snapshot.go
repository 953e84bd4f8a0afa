package terrain

import (
	"strconv"

	"terra-ca/internal/core"
)

// Parameters publishes the tunables a driver may inspect or adjust.
func (w *World) Parameters() core.ParameterSnapshot {
	p := w.cfg.Params
	groups := []core.ParameterGroup{
		{
			Name: "World",
			Params: []core.Parameter{
				intParam("w", "Width", w.cfg.Width),
				intParam("h", "Height", w.cfg.Height),
				floatParam("cell_size", "Cell size (m)", w.cfg.CellSize),
				int64Param("seed", "Seed", w.cfg.Seed),
				stringParam("wind_model", "Wind model", string(w.cfg.WindModel)),
			},
		},
		{
			Name: "Slides",
			Params: []core.Parameter{
				floatParam("repose_angle_rock", "Repose angle rock", p.ReposeAngleRock),
				floatParam("repose_angle_sand", "Repose angle sand", p.ReposeAngleSand),
				floatParam("repose_angle_humus", "Repose angle humus", p.ReposeAngleHumus),
				floatParam("slide_mobilization", "Slide mobilization", p.SlideMobilization),
				intParam("slide_cascade_depth", "Slide cascade depth", p.SlideCascadeDepth),
			},
		},
		{
			Name: "Rainfall",
			Params: []core.Parameter{
				floatParam("rainfall_amount", "Rainfall amount", p.RainfallAmount),
				floatParam("sediment_capacity_kc", "Sediment capacity Kc", p.SedimentCapacityKc),
				floatParam("deposit_fraction_kd", "Deposit fraction Kd", p.DepositFractionKd),
				floatParam("moisture_evaporation", "Moisture evaporation", p.MoistureEvaporation),
				intParam("runoff_max_steps", "Runoff step cap", p.RunoffMaxSteps),
			},
		},
		{
			Name: "Lightning",
			Params: []core.Parameter{
				floatParam("lightning_max_probability", "Strike probability cap", p.LightningMaxProbability),
				floatParam("lightning_displaced_volume", "Displaced volume (m3)", p.LightningDisplacedVolume),
			},
		},
		{
			Name: "Wind",
			Params: []core.Parameter{
				floatParam("warp_gain", "Warp gain", p.WarpGain),
				floatParam("saltation_threshold", "Saltation threshold", p.SaltationThreshold),
				floatParam("saltation_carry_height", "Saltation carry height", p.SaltationCarryHeight),
				intParam("saltation_max_bounces", "Saltation bounce cap", p.SaltationMaxBounces),
				floatParam("reptation_height", "Reptation height", p.ReptationHeight),
			},
		},
		{
			Name: "Vegetation",
			Params: []core.Parameter{
				floatParam("occupancy_cap", "Occupancy cap", p.OccupancyCap),
				floatParam("vegetation_trap_gain", "Deposition trap gain", p.VegetationTrapGain),
				floatParam("dead_biomass_decay", "Dead biomass decay", p.DeadBiomassDecay),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

// SetFloatParameter updates a float tunable by key, clamping to its legal
// range. Returns false for unknown keys.
func (w *World) SetFloatParameter(key string, value float64) bool {
	p := &w.cfg.Params
	switch key {
	case "rainfall_amount":
		p.RainfallAmount = clampRange(value, 0, 1)
	case "sediment_capacity_kc":
		p.SedimentCapacityKc = clampRange(value, 0, 100)
	case "deposit_fraction_kd":
		p.DepositFractionKd = clampRange(value, 0, 1)
	case "moisture_evaporation":
		p.MoistureEvaporation = clampRange(value, 0, 1)
	case "lightning_max_probability":
		p.LightningMaxProbability = clampRange(value, 0, 1)
	case "saltation_threshold":
		p.SaltationThreshold = clampRange(value, 0, 100)
	case "saltation_carry_height":
		p.SaltationCarryHeight = clampRange(value, 0, 10)
	case "reptation_height":
		p.ReptationHeight = clampRange(value, 0, 10)
	case "warp_gain":
		p.WarpGain = clampRange(value, 0, 10)
	case "slide_mobilization":
		p.SlideMobilization = clampRange(value, 0.01, 1)
	case "occupancy_cap":
		p.OccupancyCap = clampRange(value, 0.01, float64(numSpecies))
	case "vegetation_trap_gain":
		p.VegetationTrapGain = clampRange(value, 0, 10)
	case "dead_biomass_decay":
		p.DeadBiomassDecay = clampRange(value, 0, 1)
	default:
		return false
	}
	return true
}

// SetIntParameter updates an integer tunable by key. Returns false for
// unknown keys.
func (w *World) SetIntParameter(key string, value int) bool {
	p := &w.cfg.Params
	switch key {
	case "slide_cascade_depth":
		p.SlideCascadeDepth = clampInt(value, 1, 64)
	case "runoff_max_steps":
		p.RunoffMaxSteps = clampInt(value, 1, 4096)
	case "saltation_max_bounces":
		p.SaltationMaxBounces = clampInt(value, 1, 256)
	case "sun_exposure_every":
		p.SunExposureEvery = clampInt(value, 1, 4096)
	default:
		return false
	}
	return true
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func intParam(key, label string, v int) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeInt, Value: strconv.Itoa(v)}
}

func int64Param(key, label string, v int64) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeInt, Value: strconv.FormatInt(v, 10)}
}

func floatParam(key, label string, v float64) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeFloat, Value: strconv.FormatFloat(v, 'g', -1, 64)}
}

func stringParam(key, label, v string) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeString, Value: v}
}
