package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/lao-tseu-is-alive/go-flocking-engine/pkg/flock"
	"github.com/tochemey/goakt/v3/log"
)

// runStats collects what the report prints after a headless run.
type runStats struct {
	frames       int
	dt           float64
	elapsed      time.Duration
	outOfBounds  int
	overMaxSpeed int
	minSpeed     float64
	maxSpeed     float64
}

func main() {
	var (
		configFile = flag.String("config", "", "JSON config file (defaults used when empty)")
		schemaFile = flag.String("schema", "config.schema.json", "JSON schema for config validation")
		frames     = flag.Int("frames", 600, "number of simulation steps to run")
		dt         = flag.Float64("dt", 1.0/60.0, "fixed step size in seconds")
		boids      = flag.Int("boids", 0, "override population size")
		workers    = flag.Int("workers", -1, "override force-computation workers (0 = all CPUs)")
		seed       = flag.Int64("seed", 42, "RNG seed for the initial spawn")
		toClip     = flag.Bool("clipboard", false, "copy the report to the system clipboard")
		debug      = flag.Bool("debug", false, "debug logging")
	)
	flag.Parse()

	level := log.InfoLevel
	if *debug {
		level = log.DebugLevel
	}
	logger := log.New(level, os.Stdout)

	cfg := flock.DefaultConfig()
	if *configFile != "" {
		var err error
		cfg, err = flock.LoadConfig(*configFile, *schemaFile)
		if err != nil {
			logger.Fatal(err)
		}
	}
	if *boids > 0 {
		cfg.Population = *boids
	}
	if *workers >= 0 {
		cfg.Workers = *workers
	}
	if *frames <= 0 {
		logger.Fatal("-frames must be > 0")
	}

	sim, err := flock.New(cfg,
		flock.WithLogger(logger),
		flock.WithRand(rand.New(rand.NewSource(*seed))))
	if err != nil {
		logger.Fatal(err)
	}

	stats := run(sim, *frames, *dt)
	report := buildReport(sim, stats, *seed)
	fmt.Print(report)

	if *toClip {
		if err := clipboard.WriteAll(report); err != nil {
			logger.Warnf("could not copy report to clipboard: %v", err)
		} else {
			logger.Info("report copied to clipboard")
		}
	}
}

// run steps the simulation and checks the core invariants after every
// frame: all positions inside the world, no velocity over MaxSpeed.
func run(sim *flock.Simulation, frames int, dt float64) runStats {
	cfg := sim.Config()
	stats := runStats{frames: frames, dt: dt, minSpeed: cfg.MaxSpeed}

	start := time.Now()
	for f := 0; f < frames; f++ {
		sim.Advance(dt)

		for _, b := range sim.Boids() {
			if b.Pos.X < 0 || b.Pos.X >= cfg.WorldWidth || b.Pos.Y < 0 || b.Pos.Y >= cfg.WorldHeight {
				stats.outOfBounds++
			}
			speed := b.Vel.Len()
			// Small tolerance for float rounding in the clamp.
			if speed > cfg.MaxSpeed*(1+1e-9) {
				stats.overMaxSpeed++
			}
			if speed < stats.minSpeed {
				stats.minSpeed = speed
			}
			if speed > stats.maxSpeed {
				stats.maxSpeed = speed
			}
		}
	}
	stats.elapsed = time.Since(start)
	return stats
}

func buildReport(sim *flock.Simulation, stats runStats, seed int64) string {
	cfg := sim.Config()
	var b strings.Builder

	fmt.Fprintf(&b, "=== headless flocking report ===\n")
	fmt.Fprintf(&b, "world:       %gx%g (toroidal)\n", cfg.WorldWidth, cfg.WorldHeight)
	fmt.Fprintf(&b, "boids:       %d (seed %d)\n", sim.Len(), seed)
	fmt.Fprintf(&b, "workers:     %d\n", cfg.Workers)
	fmt.Fprintf(&b, "frames:      %d @ dt=%gs\n", stats.frames, stats.dt)
	fmt.Fprintf(&b, "elapsed:     %v (%.0f steps/sec)\n",
		stats.elapsed.Round(time.Millisecond),
		float64(stats.frames)/stats.elapsed.Seconds())
	fmt.Fprintf(&b, "speed range: %.3f .. %.3f (cap %g)\n", stats.minSpeed, stats.maxSpeed, cfg.MaxSpeed)

	fmt.Fprintf(&b, "invariants:\n")
	fmt.Fprintf(&b, "  positions in bounds: %s\n", verdict(stats.outOfBounds))
	fmt.Fprintf(&b, "  speed cap held:      %s\n", verdict(stats.overMaxSpeed))
	return b.String()
}

func verdict(violations int) string {
	if violations == 0 {
		return "OK"
	}
	return fmt.Sprintf("FAILED (%d violations)", violations)
}
