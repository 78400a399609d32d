package flock

import "github.com/lao-tseu-is-alive/go-flocking-engine/pkg/geometry"

// Boid is one autonomous agent of the flock. Boids is an artificial life
// program, developed by Craig Reynolds in 1986, which simulates the flocking
// behaviour of birds: each agent steers only from what its neighbours do.
// https://en.wikipedia.org/wiki/Boids
//
// Boids are held in a flat contiguous slice owned by the Simulation; the
// index in that slice is the boid's stable identity. Everything else in the
// engine (the spatial grid included) refers to boids by index, never by
// pointer.
type Boid struct {
	Pos geometry.Vector2D
	Vel geometry.Vector2D
}

// Heading returns the direction of travel in radians. It is derived from
// velocity and only used by renderers; a motionless boid reports 0.
func (b Boid) Heading() float64 {
	if b.Vel.LenSqr() == 0 {
		return 0
	}
	return b.Vel.Angle()
}

// BoidSnapshot is the read-only per-frame draw record handed to renderers
// and diagnostics. It carries no reference back into simulation state.
type BoidSnapshot struct {
	Position geometry.Vector2D
	Heading  float64
}
