package app

import (
	"flag"
	"testing"
)

func TestConfigBind(t *testing.T) {
	cfg := NewConfig()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.Bind(fs)

	err := fs.Parse([]string{"-sim", "terrain", "-scale", "2", "-tps", "10", "-seed", "99"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Sim != "terrain" || cfg.Scale != 2 || cfg.TPS != 10 || cfg.Seed != 99 {
		t.Fatalf("parsed config = %+v", cfg)
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := NewConfig()
	if cfg.Sim != "terrain" {
		t.Fatalf("default sim = %q, want terrain", cfg.Sim)
	}
	if cfg.Scale <= 0 || cfg.TPS <= 0 {
		t.Fatalf("defaults must be positive: %+v", cfg)
	}
}
