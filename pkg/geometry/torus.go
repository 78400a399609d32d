package geometry

import (
	"fmt"
	"math"
)

// Torus is a bounded 2D world where each edge wraps to the opposite edge.
// All positions live in [0, Width) x [0, Height); all displacement and
// distance calculations take the shortest way around, so the world has no
// visible seams.
type Torus struct {
	Width  float64
	Height float64
}

// NewTorus builds a toroidal world of the given dimensions.
// Degenerate dimensions are rejected here rather than producing undefined
// behavior later in the wrap/delta math.
func NewTorus(width, height float64) (Torus, error) {
	if !(width > 0) || !(height > 0) {
		return Torus{}, fmt.Errorf("torus dimensions must be positive, got %gx%g", width, height)
	}
	return Torus{Width: width, Height: height}, nil
}

// wrapAxis normalizes v into [0, size) by modular arithmetic.
// math.Mod keeps the sign of v, so negative remainders are shifted up once.
// The final guard catches v values that round back up to exactly size.
func wrapAxis(v, size float64) float64 {
	m := math.Mod(v, size)
	if m < 0 {
		m += size
	}
	if m >= size {
		m -= size
	}
	return m
}

// Wrap normalizes any position into [0, Width) x [0, Height).
// Applying Wrap to an already wrapped position is a no-op.
func (t Torus) Wrap(p Vector2D) Vector2D {
	return Vector2D{
		X: wrapAxis(p.X, t.Width),
		Y: wrapAxis(p.Y, t.Height),
	}
}

// deltaAxis returns the displacement from a to b choosing whichever of the
// direct or around-the-seam displacement has the smaller magnitude.
// At exactly half the dimension both choices are equal; the direct one is
// kept so the tie always breaks the same way.
func deltaAxis(a, b, size float64) float64 {
	d := b - a
	if d > size/2 {
		d -= size
	} else if d < -size/2 {
		d += size
	}
	return d
}

// Delta returns the component-wise shortest displacement from a to b.
// Inputs are expected to be wrapped positions.
func (t Torus) Delta(a, b Vector2D) Vector2D {
	return Vector2D{
		X: deltaAxis(a.X, b.X, t.Width),
		Y: deltaAxis(a.Y, b.Y, t.Height),
	}
}

// Distance returns the shortest wraparound distance between a and b.
func (t Torus) Distance(a, b Vector2D) float64 {
	return t.Delta(a, b).Len()
}

// DistanceSquared returns the squared shortest wraparound distance.
// Use for comparisons to avoid the square root.
func (t Torus) DistanceSquared(a, b Vector2D) float64 {
	return t.Delta(a, b).LenSqr()
}

// Center returns the middle of the world.
func (t Torus) Center() Vector2D {
	return Vector2D{X: t.Width / 2, Y: t.Height / 2}
}
