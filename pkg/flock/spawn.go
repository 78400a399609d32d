package flock

import (
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/lao-tseu-is-alive/go-flocking-engine/pkg/geometry"
)

// Spawn placement policies. Each one resets positions and velocities of the
// whole committed population; the next Advance picks up from there.

const (
	// perlin tuning for Scatter; alpha/beta are the library's smoothness
	// and harmonic scaling knobs, octaves the number of noise layers.
	perlinAlpha   = 2.0
	perlinBeta    = 2.0
	perlinOctaves = 3
	// noiseScale stretches world coordinates into noise space so clumps
	// come out a few neighborhood radii wide.
	noiseScale = 4.0
)

// Randomise scatters the flock uniformly over the world, each boid with a
// random speed up to MaxSpeed at a random heading.
func (s *Simulation) Randomise() {
	for i := range s.curr {
		s.curr[i] = Boid{
			Pos: geometry.Vector2D{
				X: s.rng.Float64() * s.torus.Width,
				Y: s.rng.Float64() * s.torus.Height,
			},
			Vel: s.randomVelocity(),
		}
	}
}

// Centralise stacks the whole flock on the world center with random
// velocities, so it bursts outward on the next steps.
func (s *Simulation) Centralise() {
	center := s.torus.Center()
	for i := range s.curr {
		s.curr[i] = Boid{Pos: center, Vel: s.randomVelocity()}
	}
}

// Zeroise stacks the whole flock on the origin with random velocities.
func (s *Simulation) Zeroise() {
	for i := range s.curr {
		s.curr[i] = Boid{Pos: geometry.Vector2D{}, Vel: s.randomVelocity()}
	}
}

// Scatter places the flock by rejection-sampling a perlin noise field, so
// the initial distribution is clumpy instead of uniform: boids land where
// the noise runs high and leave the low regions sparse.
func (s *Simulation) Scatter(seed int64) {
	noise := perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctaves, seed)
	for i := range s.curr {
		var pos geometry.Vector2D
		// Bounded attempts: a pathological seed must not spin forever, a
		// uniform fallback position is fine.
		for attempt := 0; attempt < 32; attempt++ {
			pos = geometry.Vector2D{
				X: s.rng.Float64() * s.torus.Width,
				Y: s.rng.Float64() * s.torus.Height,
			}
			n := noise.Noise2D(pos.X/s.torus.Width*noiseScale, pos.Y/s.torus.Height*noiseScale)
			// Noise2D is roughly [-1, 1]; map to an acceptance probability.
			if s.rng.Float64() < (n+1)/2 {
				break
			}
		}
		s.curr[i] = Boid{Pos: pos, Vel: s.randomVelocity()}
	}
}

func (s *Simulation) randomVelocity() geometry.Vector2D {
	speed := s.rng.Float64() * s.cfg.MaxSpeed
	angle := s.rng.Float64() * 2 * math.Pi
	return geometry.NewVectorPolar(speed, angle)
}
