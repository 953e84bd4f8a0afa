package terrain

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// WindModel selects how many layers of the wind-field synthesis are active.
type WindModel string

const (
	// WindRoseOnly applies the per-step wind-rose sample uniformly.
	WindRoseOnly WindModel = "rose"
	// WindWarp adds two-scale terrain warping on top of the rose sample.
	WindWarp WindModel = "warp"
	// WindShadow adds lee-side shadowing on top of warping.
	WindShadow WindModel = "shadow"
)

// WindRoseEntry is one (direction, speed) bucket of the wind rose with its
// sampling weight.
type WindRoseEntry struct {
	DirectionDeg float64 `yaml:"direction_deg"`
	Speed        float64 `yaml:"speed"`
	Weight       float64 `yaml:"weight"`
}

// SpeciesParams holds the literature-derived response curve for one plant
// species. Each triple of ranges is a trapezoid: viability is -1 outside the
// limits, 1 inside the ideal band, and ramps linearly in between.
type SpeciesParams struct {
	Name string `yaml:"name"`

	TemperatureLimitMin float64 `yaml:"temperature_limit_min"`
	TemperatureIdealMin float64 `yaml:"temperature_ideal_min"`
	TemperatureIdealMax float64 `yaml:"temperature_ideal_max"`
	TemperatureLimitMax float64 `yaml:"temperature_limit_max"`

	MoistureLimitMin float64 `yaml:"moisture_limit_min"`
	MoistureIdealMin float64 `yaml:"moisture_ideal_min"`
	MoistureIdealMax float64 `yaml:"moisture_ideal_max"`
	MoistureLimitMax float64 `yaml:"moisture_limit_max"`

	// Daily hours of sunlight.
	LightLimitMin float64 `yaml:"light_limit_min"`
	LightIdealMin float64 `yaml:"light_ideal_min"`
	LightIdealMax float64 `yaml:"light_ideal_max"`
	LightLimitMax float64 `yaml:"light_limit_max"`

	// Maximum density change per step.
	GrowthRate  float64 `yaml:"growth_rate"`
	DiebackRate float64 `yaml:"dieback_rate"`
}

// Params holds tunable rate constants and probabilities for the terrain sim.
type Params struct {
	// Granular material behaviour.
	ReposeAngleRock  float64 `yaml:"repose_angle_rock"`
	ReposeAngleSand  float64 `yaml:"repose_angle_sand"`
	ReposeAngleHumus float64 `yaml:"repose_angle_humus"`
	// Fraction of the over-repose excess moved by one slide event.
	SlideMobilization float64 `yaml:"slide_mobilization"`
	SlideCascadeDepth int     `yaml:"slide_cascade_depth"`

	// Thermal erosion: repose creep of the topmost layer plus bedrock
	// fracture driven by day/night temperature swing.
	ThermalCreepFraction     float64 `yaml:"thermal_creep_fraction"`
	ThermalFractureGain      float64 `yaml:"thermal_fracture_gain"`
	ThermalFractureHeight    float64 `yaml:"thermal_fracture_height"`
	ThermalGranularDamping   float64 `yaml:"thermal_granular_damping"`
	ThermalVegetationDamping float64 `yaml:"thermal_vegetation_damping"`
	DayNightDeltaT           float64 `yaml:"day_night_delta_t"`

	// Rainfall and runoff.
	RainfallAmount      float64 `yaml:"rainfall_amount"`
	RainfallVariance    float64 `yaml:"rainfall_variance"`
	RunoffMaxSteps      int     `yaml:"runoff_max_steps"`
	RunoffLiftSlope     float64 `yaml:"runoff_lift_slope"`
	SedimentCapacityKc  float64 `yaml:"sediment_capacity_kc"`
	BedrockDissolveKs   float64 `yaml:"bedrock_dissolve_ks"`
	DepositFractionKd   float64 `yaml:"deposit_fraction_kd"`
	MoistureEvaporation float64 `yaml:"moisture_evaporation"`

	// Lightning.
	LightningMaxProbability  float64 `yaml:"lightning_max_probability"`
	LightningCurvatureScale  float64 `yaml:"lightning_curvature_scale"`
	LightningMinCurvature    float64 `yaml:"lightning_min_curvature"`
	LightningDisplacedVolume float64 `yaml:"lightning_displaced_volume"`

	// Vegetation.
	Species          [numSpecies]SpeciesParams `yaml:"species"`
	OccupancyCap     float64                   `yaml:"occupancy_cap"`
	DeadBiomassDecay float64                   `yaml:"dead_biomass_decay"`
	// Shared vegetation->deposition coupling.
	DepositRetentionBase float64 `yaml:"deposit_retention_base"`
	VegetationTrapGain   float64 `yaml:"vegetation_trap_gain"`

	// Wind field.
	WindRose         []WindRoseEntry `yaml:"wind_rose"`
	WarpGain         float64         `yaml:"warp_gain"`
	WarpCoarseRadius int             `yaml:"warp_coarse_radius"`
	WarpFineRadius   int             `yaml:"warp_fine_radius"`
	ShadowLength     int             `yaml:"shadow_length"`
	ShadowMinAngle   float64         `yaml:"shadow_min_angle"`
	ShadowMaxAngle   float64         `yaml:"shadow_max_angle"`

	// Sediment transport.
	SaltationThreshold   float64 `yaml:"saltation_threshold"`
	SaltationHopFactor   float64 `yaml:"saltation_hop_factor"`
	SaltationCarryHeight float64 `yaml:"saltation_carry_height"`
	SaltationMaxBounces  int     `yaml:"saltation_max_bounces"`
	ReptationHeight      float64 `yaml:"reptation_height"`
	DepositBareBonus     float64 `yaml:"deposit_bare_bonus"`
	DepositSandBonus     float64 `yaml:"deposit_sand_bonus"`

	// Climate forcing.
	MonthlyTemperature [12]float64 `yaml:"monthly_temperature"`
	DaylightHours      [12]float64 `yaml:"daylight_hours"`
	TemperatureLapse   float64     `yaml:"temperature_lapse"`
	SunExposureEvery   int         `yaml:"sun_exposure_every"`

	// Initial terrain seeding, used when no elevation samples are supplied.
	BedrockBaseHeight float64 `yaml:"bedrock_base_height"`
	BedrockNoiseAmp   float64 `yaml:"bedrock_noise_amp"`
	InitialSandDepth  float64 `yaml:"initial_sand_depth"`
	InitialHumusDepth float64 `yaml:"initial_humus_depth"`
	SeedGrassChance   float64 `yaml:"seed_grass_chance"`
	SeedBushChance    float64 `yaml:"seed_bush_chance"`
	SeedTreeChance    float64 `yaml:"seed_tree_chance"`
}

// Config controls the terrain simulation dimensions and rate constants.
type Config struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	// Physical side length of one cell in meters.
	CellSize float64 `yaml:"cell_size"`

	Seed int64 `yaml:"seed"`

	WindModel WindModel `yaml:"wind_model"`

	Params Params `yaml:"params"`
}

// DefaultConfig returns the standard configuration. Repose angles and the
// lightning/thermal constants follow the published erosion literature values;
// the rest are tuned for visually plausible dune and vegetation behaviour.
func DefaultConfig() Config {
	return Config{
		Width:     128,
		Height:    128,
		CellSize:  10.0,
		Seed:      1337,
		WindModel: WindShadow,
		Params: Params{
			ReposeAngleRock:  40.0,
			ReposeAngleSand:  34.0,
			ReposeAngleHumus: 40.0,

			SlideMobilization: 0.5,
			SlideCascadeDepth: 8,

			ThermalCreepFraction:     0.25,
			ThermalFractureGain:      0.01,
			ThermalFractureHeight:    0.05,
			ThermalGranularDamping:   0.5,
			ThermalVegetationDamping: 5.0,
			DayNightDeltaT:           10.0,

			RainfallAmount:      0.01,
			RainfallVariance:    0.005,
			RunoffMaxSteps:      64,
			RunoffLiftSlope:     0.2,
			SedimentCapacityKc:  3.0,
			BedrockDissolveKs:   0.01,
			DepositFractionKd:   0.5,
			MoistureEvaporation: 0.92,

			LightningMaxProbability:  0.002,
			LightningCurvatureScale:  1.0,
			LightningMinCurvature:    4.0,
			LightningDisplacedVolume: 4.0,

			Species: [numSpecies]SpeciesParams{
				SpeciesTree: {
					Name:                "tree",
					TemperatureLimitMin: -10, TemperatureIdealMin: 0,
					TemperatureIdealMax: 35, TemperatureLimitMax: 38,
					MoistureLimitMin: 0.10, MoistureIdealMin: 0.20,
					MoistureIdealMax: 0.40, MoistureLimitMax: 0.80,
					LightLimitMin: 4, LightIdealMin: 6,
					LightIdealMax: 8, LightLimitMax: 12,
					GrowthRate: 0.01, DiebackRate: 0.02,
				},
				SpeciesBush: {
					Name:                "bush",
					TemperatureLimitMin: -5, TemperatureIdealMin: 5,
					TemperatureIdealMax: 30, TemperatureLimitMax: 40,
					MoistureLimitMin: 0.05, MoistureIdealMin: 0.15,
					MoistureIdealMax: 0.50, MoistureLimitMax: 0.90,
					LightLimitMin: 3, LightIdealMin: 5,
					LightIdealMax: 9, LightLimitMax: 13,
					GrowthRate: 0.03, DiebackRate: 0.04,
				},
				SpeciesGrass: {
					Name:                "grass",
					TemperatureLimitMin: -15, TemperatureIdealMin: 0,
					TemperatureIdealMax: 25, TemperatureLimitMax: 45,
					MoistureLimitMin: 0.02, MoistureIdealMin: 0.10,
					MoistureIdealMax: 0.60, MoistureLimitMax: 1.00,
					LightLimitMin: 2, LightIdealMin: 4,
					LightIdealMax: 10, LightLimitMax: 14,
					GrowthRate: 0.05, DiebackRate: 0.06,
				},
			},
			OccupancyCap:         1.0,
			DeadBiomassDecay:     0.01,
			DepositRetentionBase: 0.0,
			VegetationTrapGain:   0.5,

			WindRose: []WindRoseEntry{
				{DirectionDeg: 90, Speed: 6, Weight: 4},
				{DirectionDeg: 90, Speed: 10, Weight: 2},
				{DirectionDeg: 135, Speed: 5, Weight: 2},
				{DirectionDeg: 45, Speed: 4, Weight: 1},
				{DirectionDeg: 270, Speed: 3, Weight: 1},
			},
			WarpGain:         0.6,
			WarpCoarseRadius: 8,
			WarpFineRadius:   2,
			ShadowLength:     10,
			ShadowMinAngle:   10.0,
			ShadowMaxAngle:   15.0,

			SaltationThreshold:   4.0,
			SaltationHopFactor:   0.5,
			SaltationCarryHeight: 0.1,
			SaltationMaxBounces:  10,
			ReptationHeight:      0.1,
			DepositBareBonus:     0.4,
			DepositSandBonus:     0.6,

			MonthlyTemperature: [12]float64{
				-2.5, -1.8, 2.6, 9.0, 15.1, 20.1,
				22.8, 21.8, 17.5, 10.9, 5.6, 0.4,
			},
			DaylightHours: [12]float64{
				9.0, 10.5, 12.0, 13.5, 15.0, 16.0,
				15.5, 14.0, 12.5, 11.0, 9.5, 8.5,
			},
			TemperatureLapse: 0.0065,
			SunExposureEvery: 8,

			BedrockBaseHeight: 100.0,
			BedrockNoiseAmp:   6.0,
			InitialSandDepth:  0.4,
			InitialHumusDepth: 0.2,
			SeedGrassChance:   0.10,
			SeedBushChance:    0.03,
			SeedTreeChance:    0.01,
		},
	}
}

// LoadConfig reads a YAML configuration file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("terrain config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("terrain config %s: %w", path, err)
	}
	return cfg, nil
}

// FromMap populates the config from a string map (flag-style key/value pairs).
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Height = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["cell_size"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.CellSize = parsed
		}
	}
	if v, ok := cfg["wind_model"]; ok {
		switch WindModel(v) {
		case WindRoseOnly, WindWarp, WindShadow:
			c.WindModel = WindModel(v)
		}
	}
	if v, ok := cfg["rainfall_amount"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Params.RainfallAmount = parsed
		}
	}
	if v, ok := cfg["lightning_max_probability"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 1 {
			c.Params.LightningMaxProbability = parsed
		}
	}
	if v, ok := cfg["saltation_threshold"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Params.SaltationThreshold = parsed
		}
	}
	if v, ok := cfg["occupancy_cap"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.Params.OccupancyCap = parsed
		}
	}
	return c
}

// Validate reports the first malformed option. A simulation must refuse to
// start on any error returned here.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("grid dimensions must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.CellSize <= 0 {
		return fmt.Errorf("cell size must be positive, got %g", c.CellSize)
	}
	switch c.WindModel {
	case WindRoseOnly, WindWarp, WindShadow:
	default:
		return fmt.Errorf("unknown wind model %q", c.WindModel)
	}
	p := c.Params
	for _, a := range []struct {
		name string
		val  float64
	}{
		{"repose_angle_rock", p.ReposeAngleRock},
		{"repose_angle_sand", p.ReposeAngleSand},
		{"repose_angle_humus", p.ReposeAngleHumus},
	} {
		if a.val <= 0 || a.val >= 90 {
			return fmt.Errorf("%s must be in (0, 90) degrees, got %g", a.name, a.val)
		}
	}
	if p.SlideMobilization <= 0 || p.SlideMobilization > 1 {
		return fmt.Errorf("slide_mobilization must be in (0, 1], got %g", p.SlideMobilization)
	}
	if p.SlideCascadeDepth < 1 {
		return fmt.Errorf("slide_cascade_depth must be at least 1, got %d", p.SlideCascadeDepth)
	}
	if p.RunoffMaxSteps < 1 {
		return fmt.Errorf("runoff_max_steps must be at least 1, got %d", p.RunoffMaxSteps)
	}
	if p.SaltationMaxBounces < 1 {
		return fmt.Errorf("saltation_max_bounces must be at least 1, got %d", p.SaltationMaxBounces)
	}
	if p.LightningMaxProbability < 0 || p.LightningMaxProbability > 1 {
		return fmt.Errorf("lightning_max_probability must be in [0, 1], got %g", p.LightningMaxProbability)
	}
	if p.MoistureEvaporation < 0 || p.MoistureEvaporation > 1 {
		return fmt.Errorf("moisture_evaporation must be in [0, 1], got %g", p.MoistureEvaporation)
	}
	if p.OccupancyCap <= 0 || p.OccupancyCap > float64(numSpecies) {
		return fmt.Errorf("occupancy_cap must be in (0, %d], got %g", numSpecies, p.OccupancyCap)
	}
	if len(p.WindRose) == 0 {
		return fmt.Errorf("wind_rose must have at least one entry")
	}
	totalWeight := 0.0
	for i, e := range p.WindRose {
		if e.Weight < 0 || e.Speed < 0 {
			return fmt.Errorf("wind_rose entry %d: weight and speed must be non-negative", i)
		}
		totalWeight += e.Weight
	}
	if totalWeight <= 0 {
		return fmt.Errorf("wind_rose weights must sum to a positive value")
	}
	for s := Species(0); s < numSpecies; s++ {
		sp := p.Species[s]
		if sp.TemperatureLimitMin > sp.TemperatureIdealMin ||
			sp.TemperatureIdealMin > sp.TemperatureIdealMax ||
			sp.TemperatureIdealMax > sp.TemperatureLimitMax {
			return fmt.Errorf("species %s: temperature ranges out of order", sp.Name)
		}
		if sp.MoistureLimitMin > sp.MoistureIdealMin ||
			sp.MoistureIdealMin > sp.MoistureIdealMax ||
			sp.MoistureIdealMax > sp.MoistureLimitMax {
			return fmt.Errorf("species %s: moisture ranges out of order", sp.Name)
		}
		if sp.LightLimitMin > sp.LightIdealMin ||
			sp.LightIdealMin > sp.LightIdealMax ||
			sp.LightIdealMax > sp.LightLimitMax {
			return fmt.Errorf("species %s: light ranges out of order", sp.Name)
		}
		if sp.GrowthRate < 0 || sp.GrowthRate > 1 || sp.DiebackRate < 0 || sp.DiebackRate > 1 {
			return fmt.Errorf("species %s: growth/dieback rates must be in [0, 1]", sp.Name)
		}
	}
	return nil
}
