// Command terra-run drives the terrain simulation headless: a fixed number of
// steps (or unbounded with pacing), with optional websocket streaming, metric
// recording, and a SQLite run index.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"terra-ca/internal/core"
	"terra-ca/internal/heightmap"
	"terra-ca/internal/record"
	"terra-ca/internal/sims/terrain"
	"terra-ca/internal/stream"
)

// setFlags collects repeated -set key=value overrides.
type setFlags []string

func (s *setFlags) String() string { return strings.Join(*s, ",") }

func (s *setFlags) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func main() {
	var (
		configPath  = flag.String("config", "", "YAML config file (defaults used when empty)")
		steps       = flag.Int("steps", 500, "steps to simulate (0 runs until interrupted)")
		width       = flag.Int("w", 0, "grid width override")
		height      = flag.Int("h", 0, "grid height override")
		seed        = flag.Int64("seed", 0, "seed override (0 keeps the config seed)")
		windModel   = flag.String("wind", "", "wind model override: rose, warp, shadow")
		tps         = flag.Int("tps", 0, "pace the run at this many ticks per second (0 = flat out)")
		listen      = flag.String("listen", "", "serve snapshot frames over websocket on this address")
		streamEvery = flag.Int("stream-every", 4, "steps between streamed snapshots")
		recordPath  = flag.String("record", "", "write per-step metrics to this zstd JSONL file")
		dbPath      = flag.String("db", "", "index the run in this SQLite database")
		hmPath      = flag.String("heightmap", "", "seed bedrock from this grayscale PNG")
		hmLo        = flag.Float64("heightmap-min", 50, "elevation of black heightmap pixels")
		hmHi        = flag.Float64("heightmap-max", 250, "elevation of white heightmap pixels")
		dumpParams  = flag.Bool("dump-params", false, "print the parameter snapshot and exit")
	)
	var sets setFlags
	flag.Var(&sets, "set", "override a parameter before the run, key=value (repeatable)")
	flag.Parse()

	cfg := terrain.DefaultConfig()
	if *configPath != "" {
		loaded, err := terrain.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		cfg = loaded
	}
	if *width > 0 {
		cfg.Width = *width
	}
	if *height > 0 {
		cfg.Height = *height
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if *windModel != "" {
		cfg.WindModel = terrain.WindModel(*windModel)
	}

	world, err := buildWorld(cfg, *hmPath, *hmLo, *hmHi)
	if err != nil {
		log.Fatalf("build world: %v", err)
	}
	if err := applyOverrides(world, sets); err != nil {
		log.Fatalf("apply overrides: %v", err)
	}

	if *dumpParams {
		printParams(world)
		return
	}

	var srv *stream.Server
	if *listen != "" {
		srv = stream.NewServer(nil)
		mux := http.NewServeMux()
		mux.Handle("/ws", srv.Handler())
		go func() {
			log.Printf("streaming on ws://%s/ws", *listen)
			if err := http.ListenAndServe(*listen, mux); err != nil {
				log.Fatalf("listen: %v", err)
			}
		}()
		defer srv.Close()
	}

	var recorder *record.JSONLWriter
	if *recordPath != "" {
		recorder, err = record.NewJSONLWriter(*recordPath)
		if err != nil {
			log.Fatalf("open recorder: %v", err)
		}
		defer func() {
			if err := recorder.Close(); err != nil {
				log.Printf("close recorder: %v", err)
			}
		}()
	}

	var store *record.RunStore
	var runID int64
	if *dbPath != "" {
		store, err = record.OpenRunStore(*dbPath)
		if err != nil {
			log.Fatalf("open run store: %v", err)
		}
		defer store.Close()
		runID, err = store.BeginRun(cfg)
		if err != nil {
			log.Fatalf("begin run: %v", err)
		}
		log.Printf("recording as run %d in %s", runID, *dbPath)
	}

	var timer *core.FixedStep
	if *tps > 0 {
		timer = core.NewFixedStep(*tps)
	}

	for done := 0; *steps == 0 || done < *steps; {
		if timer != nil && !timer.ShouldStep() {
			time.Sleep(time.Millisecond)
			continue
		}
		world.Step()
		done++

		m := world.Metrics()
		if recorder != nil {
			if err := recorder.Write(m); err != nil {
				log.Fatalf("record metrics: %v", err)
			}
		}
		if store != nil {
			if err := store.RecordMetrics(runID, m); err != nil {
				log.Fatalf("store metrics: %v", err)
			}
		}
		if srv != nil && *streamEvery > 0 && world.StepCount()%*streamEvery == 0 {
			if err := srv.Broadcast(world.Snapshot()); err != nil {
				log.Printf("broadcast: %v", err)
			}
		}
	}

	final := world.Metrics()
	log.Printf("done: %d steps, mean height %.2f m, sand lost %.1f m3",
		final.Step, final.MeanHeight, final.SandLost)
}

// buildWorld returns a world that has already been reset: the heightmap
// constructor seeds bedrock from the image, and resetting again would discard
// those samples.
func buildWorld(cfg terrain.Config, hmPath string, lo, hi float64) (*terrain.World, error) {
	if hmPath == "" {
		world, err := terrain.NewWithConfig(cfg)
		if err != nil {
			return nil, err
		}
		world.Reset(cfg.Seed)
		return world, nil
	}
	m, err := heightmap.Load(hmPath)
	if err != nil {
		return nil, err
	}
	cfg.Width = m.W
	cfg.Height = m.H
	return terrain.NewFromElevation(cfg, m.Elevations(lo, hi))
}

// applyOverrides pushes -set pairs into the simulation through its parameter
// setters. Integer-looking values try the int setter first and fall through to
// the float setter, so "4" reaches int parameters and float ones alike.
func applyOverrides(sim core.Sim, pairs []string) error {
	for _, pair := range pairs {
		key, val, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("malformed -set %q, want key=value", pair)
		}
		if n, err := strconv.Atoi(val); err == nil {
			if is, ok := sim.(core.IntParameterSetter); ok && is.SetIntParameter(key, n) {
				continue
			}
		}
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("-set %s: %v", key, err)
		}
		fs, ok := sim.(core.FloatParameterSetter)
		if !ok || !fs.SetFloatParameter(key, f) {
			return fmt.Errorf("unknown parameter %q", key)
		}
	}
	return nil
}

func printParams(sim core.Sim) {
	p, ok := sim.(core.ParametersProvider)
	if !ok {
		fmt.Println("simulation exposes no parameters")
		return
	}
	for _, g := range p.Parameters().Groups {
		fmt.Fprintf(os.Stdout, "[%s]\n", g.Name)
		for _, param := range g.Params {
			fmt.Fprintf(os.Stdout, "  %-28s %s\n", param.Key, param.Value)
		}
	}
}
