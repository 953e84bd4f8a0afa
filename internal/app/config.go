package app

import "flag"

// Config holds the viewer's command line options.
type Config struct {
	Sim   string
	Scale int
	TPS   int
	Seed  int64
}

// NewConfig returns viewer defaults.
func NewConfig() *Config {
	return &Config{
		Sim:   "terrain",
		Scale: 4,
		TPS:   30,
	}
}

// Bind registers the config fields on the provided flag set.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Sim, "sim", c.Sim, "registered simulation to run")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixels per cell")
	fs.IntVar(&c.TPS, "tps", c.TPS, "simulation ticks per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "initial seed (0 uses the sim default)")
}
