package flock

import (
	"math"

	"github.com/lao-tseu-is-alive/go-flocking-engine/pkg/geometry"
)

// sanitizeDt clamps an elapsed-time sample to [0, max]. A NaN or negative
// dt (clock weirdness) becomes 0, and an implausibly large one (a stalled
// frame) is capped so a single slow frame cannot make a boid tunnel through
// the world or explode in velocity.
func sanitizeDt(dt, max float64) float64 {
	if math.IsNaN(dt) || dt < 0 {
		return 0
	}
	if dt > max {
		return max
	}
	return dt
}

// integrate advances one boid by dt seconds under the given steering force:
//
//  1. velocity gains force*dt,
//  2. velocity magnitude is clamped to maxSpeed (direction preserved),
//  3. position advances by velocity*dt,
//  4. position wraps back into the world.
//
// Every per-step quantity scales by dt, so the outcome depends only on
// elapsed time, not on how often steps are taken.
func integrate(b Boid, force geometry.Vector2D, dt, maxSpeed float64, torus geometry.Torus) Boid {
	vel := b.Vel.Add(force.Mul(dt)).ClampLen(maxSpeed)
	return Boid{
		Pos: torus.Wrap(b.Pos.Add(vel.Mul(dt))),
		Vel: vel,
	}
}
