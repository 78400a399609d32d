package flock

import (
	"math"
	"math/rand"
	"testing"

	"github.com/lao-tseu-is-alive/go-flocking-engine/pkg/geometry"
)

func TestSanitizeDt(t *testing.T) {
	tests := []struct {
		name string
		dt   float64
		want float64
	}{
		{"normal frame", 0.016, 0.016},
		{"zero", 0, 0},
		{"negative becomes zero", -0.5, 0},
		{"NaN becomes zero", math.NaN(), 0},
		{"stalled frame is capped", 3.0, 0.1},
		{"infinity is capped", math.Inf(1), 0.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeDt(tt.dt, 0.1); got != tt.want {
				t.Errorf("sanitizeDt(%v, 0.1) = %v; want %v", tt.dt, got, tt.want)
			}
		})
	}
}

// After any step the velocity magnitude must be at or below the cap, for
// arbitrary force magnitude and dt.
func TestIntegrate_SpeedCap(t *testing.T) {
	torus := mustTorus(t, 800, 600)
	rng := rand.New(rand.NewSource(21))
	const maxSpeed = 2.5

	for trial := 0; trial < 1000; trial++ {
		b := Boid{
			Pos: geometry.Vector2D{X: rng.Float64() * 800, Y: rng.Float64() * 600},
			Vel: geometry.NewVectorPolar(rng.Float64()*maxSpeed, rng.Float64()*2*math.Pi),
		}
		force := geometry.NewVectorPolar(rng.Float64()*1e6, rng.Float64()*2*math.Pi)
		dt := rng.Float64() * 0.1

		got := integrate(b, force, dt, maxSpeed, torus)
		if speed := got.Vel.Len(); speed > maxSpeed+1e-9 {
			t.Fatalf("trial %d: speed %v exceeds cap %v (force %v, dt %v)", trial, speed, maxSpeed, force, dt)
		}
	}
}

func TestIntegrate_ClampPreservesDirection(t *testing.T) {
	torus := mustTorus(t, 800, 600)
	b := Boid{Pos: geometry.Vector2D{X: 400, Y: 300}}
	force := geometry.Vector2D{X: 100, Y: 0}

	got := integrate(b, force, 1.0, 2.5, torus)
	if got.Vel.Y != 0 || got.Vel.X <= 0 {
		t.Errorf("clamped velocity changed direction: %v", got.Vel)
	}
	if !floatsClose(got.Vel.Len(), 2.5) {
		t.Errorf("clamped speed = %v; want 2.5", got.Vel.Len())
	}
}

func TestIntegrate_PositionWraps(t *testing.T) {
	torus := mustTorus(t, 800, 600)
	b := Boid{
		Pos: geometry.Vector2D{X: 799, Y: 300},
		Vel: geometry.Vector2D{X: 2, Y: 0},
	}

	got := integrate(b, geometry.Vector2D{}, 1.0, 2.5, torus)
	if !got.Pos.Eq(geometry.Vector2D{X: 1, Y: 300}) {
		t.Errorf("position did not wrap: %v", got.Pos)
	}
}

// Velocity change scales linearly with dt, so one step of dt=1.0 must land
// on the same velocity as ten steps of dt=0.1 under a fixed force.
func TestIntegrate_VelocityDtIndependence(t *testing.T) {
	torus := mustTorus(t, 800, 600)
	force := geometry.Vector2D{X: 0.3, Y: -0.2}
	start := Boid{Pos: geometry.Vector2D{X: 400, Y: 300}, Vel: geometry.Vector2D{X: 0.5, Y: 0.5}}

	one := integrate(start, force, 1.0, 100, torus)

	many := start
	for i := 0; i < 10; i++ {
		many = integrate(many, force, 0.1, 100, torus)
	}

	if !one.Vel.Eq(many.Vel) {
		t.Errorf("velocity after 1x1.0 = %v, after 10x0.1 = %v; want equal", one.Vel, many.Vel)
	}
}

// A force-free boid moves in a straight line whose endpoint depends only on
// total elapsed time, not on how the time was sliced up.
func TestIntegrate_ForceFreePathDtIndependence(t *testing.T) {
	torus := mustTorus(t, 800, 600)
	start := Boid{Pos: geometry.Vector2D{X: 100, Y: 100}, Vel: geometry.Vector2D{X: 1.5, Y: -0.7}}

	one := integrate(start, geometry.Vector2D{}, 1.0, 2.5, torus)

	many := start
	for i := 0; i < 10; i++ {
		many = integrate(many, geometry.Vector2D{}, 0.1, 2.5, torus)
	}

	if one.Pos.Sub(many.Pos).Len() > 1e-9 {
		t.Errorf("position after 1x1.0 = %v, after 10x0.1 = %v; want equal", one.Pos, many.Pos)
	}
	if !one.Vel.Eq(many.Vel) {
		t.Errorf("velocity after 1x1.0 = %v, after 10x0.1 = %v; want equal", one.Vel, many.Vel)
	}
}

func floatsClose(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9
}
