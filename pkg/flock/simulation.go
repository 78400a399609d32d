package flock

import (
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/lao-tseu-is-alive/go-flocking-engine/pkg/geometry"
	"github.com/tochemey/goakt/v3/log"
)

// PointerMode selects whether the pointer attracts or repels the flock.
type PointerMode int

const (
	PointerAttract PointerMode = iota
	PointerRepel
)

// Simulation owns the flock and orchestrates one frame:
// rebuild index → compute forces → integrate → commit.
//
// State is double buffered: force computation for every agent reads only the
// previous committed frame and writes into a separate next-frame buffer,
// which is swapped in at the end of the step. The update is therefore
// simultaneous and order independent: one agent never observes another's
// already-integrated new position. That is also what makes the per-agent
// work safe to spread across workers without locks.
//
// A Simulation is not safe for concurrent use by multiple goroutines; the
// expected model is one Advance call per rendered frame from the main loop.
type Simulation struct {
	cfg    Config
	torus  geometry.Torus
	grid   *Grid
	forces forceModel

	curr []Boid // committed state, read during force computation
	next []Boid // write buffer, becomes curr at commit

	workers int
	scratch [][]int // one neighbor buffer per worker

	rng    *rand.Rand
	logger log.Logger

	pointer     geometry.Vector2D
	pointerOn   bool
	pointerMode PointerMode

	// telemetry
	stepsSinceLog int
	lastLogTime   time.Time
}

// Option configures a Simulation at construction.
type Option func(*Simulation)

// WithLogger attaches a structured logger; the engine logs construction
// details and a once-per-second benchmark line through it.
func WithLogger(logger log.Logger) Option {
	return func(s *Simulation) { s.logger = logger }
}

// WithRand fixes the random source used for spawning, for deterministic tests.
func WithRand(rng *rand.Rand) Option {
	return func(s *Simulation) { s.rng = rng }
}

// New builds a Simulation from the given tunables and spawns the population
// uniformly at random. The config is copied; the caller keeps no handle into
// live state. Degenerate configs are rejected here, never at runtime.
func New(cfg *Config, opts ...Option) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	torus, err := geometry.NewTorus(cfg.WorldWidth, cfg.WorldHeight)
	if err != nil {
		return nil, err
	}
	grid, err := NewGrid(torus, cfg.NeighborRadius())
	if err != nil {
		return nil, err
	}

	workers := cfg.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	s := &Simulation{
		cfg:         *cfg,
		torus:       torus,
		grid:        grid,
		curr:        make([]Boid, cfg.Population),
		next:        make([]Boid, cfg.Population),
		workers:     workers,
		scratch:     make([][]int, workers),
		logger:      log.DiscardLogger,
		lastLogTime: time.Now(),
	}
	s.forces = forceModel{cfg: &s.cfg, torus: torus}

	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	s.Randomise()
	s.logger.Infof("flock ready: %d boids in %gx%g world, %d worker(s)",
		cfg.Population, cfg.WorldWidth, cfg.WorldHeight, workers)
	return s, nil
}

// Advance runs exactly one simulation step of dt seconds (elapsed wall time
// since the previous frame). Out-of-range dt values are clamped to a safe
// bound first. The owned population is mutated exactly once per call.
func (s *Simulation) Advance(dt float64) {
	dt = sanitizeDt(dt, s.cfg.MaxDeltaTime)

	// The index must be fully rebuilt before any neighbor query of this
	// step; every query below then sees a consistent view of s.curr.
	s.grid.Rebuild(s.curr)

	if s.workers <= 1 {
		s.stepRange(0, len(s.curr), dt, 0)
	} else {
		s.stepParallel(dt)
	}

	// Commit: the write buffer becomes the committed frame.
	s.curr, s.next = s.next, s.curr

	s.stepsSinceLog++
	s.logBenchmarks()
}

// stepParallel fans the per-agent work out over disjoint index ranges.
// Workers read shared immutable previous state and the immutable grid, and
// write only their own output slice, so no locking is needed; the WaitGroup
// is the single synchronization point before commit.
func (s *Simulation) stepParallel(dt float64) {
	n := len(s.curr)
	chunk := (n + s.workers - 1) / s.workers
	var wg sync.WaitGroup
	for w := 0; w < s.workers; w++ {
		lo := w * chunk
		if lo >= n {
			break
		}
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		wg.Add(1)
		go func(lo, hi, worker int) {
			defer wg.Done()
			s.stepRange(lo, hi, dt, worker)
		}(lo, hi, w)
	}
	wg.Wait()
}

// stepRange computes forces and integrates agents [lo, hi), reading s.curr
// and writing s.next. The neighbor scratch buffer is per worker and reused
// across frames.
func (s *Simulation) stepRange(lo, hi int, dt float64, worker int) {
	buf := s.scratch[worker]
	radius := s.cfg.NeighborRadius()
	pointer := s.pointerOn && s.cfg.PointerWeight > 0

	for i := lo; i < hi; i++ {
		me := s.curr[i]
		buf = s.grid.Neighbors(i, me.Pos, radius, s.curr, buf)
		force := s.forces.Steering(me, s.curr, buf)
		if pointer {
			force = force.Add(s.forces.PointerForce(me, s.pointer, s.pointerMode == PointerRepel))
		}
		s.next[i] = integrate(me, force, dt, s.cfg.MaxSpeed, s.torus)
	}
	s.scratch[worker] = buf
}

func (s *Simulation) logBenchmarks() {
	if time.Since(s.lastLogTime) < time.Second {
		return
	}
	s.logger.Infof("📊 %d steps/sec | %d boids | %d worker(s)",
		s.stepsSinceLog, len(s.curr), s.workers)
	s.stepsSinceLog = 0
	s.lastLogTime = time.Now()
}

// Snapshot returns a fresh read-only copy of every boid's position and
// heading for the renderer and diagnostics. Mutating the result never
// touches simulation state, and the engine keeps no reference to it.
func (s *Simulation) Snapshot() []BoidSnapshot {
	out := make([]BoidSnapshot, len(s.curr))
	for i, b := range s.curr {
		out[i] = BoidSnapshot{Position: b.Pos, Heading: b.Heading()}
	}
	return out
}

// Boids returns a copy of the committed boid state, velocities included.
// Meant for headless diagnostics and tests; renderers want Snapshot.
func (s *Simulation) Boids() []Boid {
	out := make([]Boid, len(s.curr))
	copy(out, s.curr)
	return out
}

// Len returns the population size.
func (s *Simulation) Len() int {
	return len(s.curr)
}

// Config returns a copy of the active tunables.
func (s *Simulation) Config() Config {
	return s.cfg
}

// World returns the toroidal geometry the simulation runs on.
func (s *Simulation) World() geometry.Torus {
	return s.torus
}

// SetPointer places (or moves) the pointer attractor at a world position.
// The frontend feeds cursor positions in here; the force itself is applied
// inside Advance like any other steering rule.
func (s *Simulation) SetPointer(p geometry.Vector2D) {
	s.pointer = s.torus.Wrap(p)
	s.pointerOn = true
}

// SetPointerMode switches the pointer between attraction and repulsion.
func (s *Simulation) SetPointerMode(mode PointerMode) {
	s.pointerMode = mode
}

// ClearPointer removes the pointer force entirely.
func (s *Simulation) ClearPointer() {
	s.pointerOn = false
}
