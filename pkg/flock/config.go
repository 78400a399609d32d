package flock

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Config holds every tunable of the simulation. It is an explicit immutable
// value passed in at construction, not a set of package-level constants, so
// several differently configured simulations can coexist and tests stay
// deterministic.
type Config struct {
	// World Dimensions
	WorldWidth  float64 `json:"worldWidth"`
	WorldHeight float64 `json:"worldHeight"`

	// Population
	Population int `json:"population"`

	// Interaction Radii
	SeparationRadius float64 `json:"separationRadius"` // Personal space radius
	AlignmentRadius  float64 `json:"alignmentRadius"`  // Velocity matching radius
	CohesionRadius   float64 `json:"cohesionRadius"`   // Centroid seeking radius

	// Physics
	MaxSpeed     float64 `json:"maxSpeed"`     // Hard cap on velocity magnitude
	MaxForce     float64 `json:"maxForce"`     // Hard cap per steering component
	MaxDeltaTime float64 `json:"maxDeltaTime"` // Upper bound for a single step, seconds

	// Behavior Weights
	SeparationWeight float64 `json:"separationWeight"`
	AlignmentWeight  float64 `json:"alignmentWeight"`
	CohesionWeight   float64 `json:"cohesionWeight"`
	PointerWeight    float64 `json:"pointerWeight"` // Attract/repel toward the pointer

	// Workers is the number of goroutines computing forces.
	// 1 means sequential; 0 means one per available CPU.
	Workers int `json:"workers"`
}

// DefaultConfig returns the stock tunables. Radii and speeds are in world
// units; forces are per second so behavior is independent of frame rate.
func DefaultConfig() *Config {
	return &Config{
		WorldWidth:       800,
		WorldHeight:      800,
		Population:       1000,
		SeparationRadius: 6.0,
		AlignmentRadius:  11.5,
		CohesionRadius:   11.5,
		MaxSpeed:         2.5,
		MaxForce:         0.4,
		MaxDeltaTime:     0.1,
		SeparationWeight: 1.5,
		AlignmentWeight:  1.0,
		CohesionWeight:   1.0,
		PointerWeight:    600,
		Workers:          1,
	}
}

// NeighborRadius is the largest radius at which one boid influences another.
// The spatial grid sizes its cells on this so a query never has to look
// beyond the immediate cell rings.
func (c *Config) NeighborRadius() float64 {
	return math.Max(c.SeparationRadius, math.Max(c.AlignmentRadius, c.CohesionRadius))
}

// Validate rejects degenerate configurations at construction time rather
// than letting them produce NaNs or empty grids at runtime.
func (c *Config) Validate() error {
	if !(c.WorldWidth > 0) || !(c.WorldHeight > 0) {
		return fmt.Errorf("world dimensions must be positive, got %gx%g", c.WorldWidth, c.WorldHeight)
	}
	if c.Population <= 0 {
		return fmt.Errorf("population must be positive, got %d", c.Population)
	}
	if !(c.SeparationRadius > 0) || !(c.AlignmentRadius > 0) || !(c.CohesionRadius > 0) {
		return fmt.Errorf("interaction radii must be positive, got sep=%g ali=%g coh=%g",
			c.SeparationRadius, c.AlignmentRadius, c.CohesionRadius)
	}
	if !(c.MaxSpeed > 0) {
		return fmt.Errorf("maxSpeed must be positive, got %g", c.MaxSpeed)
	}
	if !(c.MaxForce > 0) {
		return fmt.Errorf("maxForce must be positive, got %g", c.MaxForce)
	}
	if !(c.MaxDeltaTime > 0) {
		return fmt.Errorf("maxDeltaTime must be positive, got %g", c.MaxDeltaTime)
	}
	if c.SeparationWeight < 0 || c.AlignmentWeight < 0 || c.CohesionWeight < 0 || c.PointerWeight < 0 {
		return fmt.Errorf("behavior weights must not be negative")
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	return nil
}

// LoadConfig loads configuration from a JSON file and validates it against
// the schema before unmarshalling, so a malformed file is rejected with a
// schema error instead of silently producing zero values.
func LoadConfig(configFile string, schemaFile string) (*Config, error) {
	sch, err := jsonschema.Compile(schemaFile)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	b, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("failed to decode config json: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// Unknown keys were already rejected by the schema; unmarshal over the
	// defaults so omitted keys keep their stock values.
	cfg := DefaultConfig()
	if err := json.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
