package geometry

import (
	"errors"
	"fmt"
	"math"
)

// Epsilon is the precision used for float64 comparisons in this package.
const Epsilon = 1e-9

// Vector2D represents a 2D vector or point in cartesian space.
// Fields are public because they are fundamental data, not internal state;
// this allows clean literal initialization: v := Vector2D{1, 2}
type Vector2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewVector creates a new Vector2D.
func NewVector(x, y float64) Vector2D {
	return Vector2D{X: x, Y: y}
}

// NewVectorPolar creates a new Vector2D from polar coordinates.
// theta is in radians.
func NewVectorPolar(radius, theta float64) Vector2D {
	x := radius * math.Cos(theta)
	y := radius * math.Sin(theta)

	// Handle standard floating point precision issues near zero
	if math.Abs(x) < Epsilon {
		x = 0
	}
	if math.Abs(y) < Epsilon {
		y = 0
	}

	return Vector2D{X: x, Y: y}
}

// String implements the fmt.Stringer interface.
func (v Vector2D) String() string {
	return fmt.Sprintf("(%.2f, %.2f)", v.X, v.Y)
}

// ---------------------------------------------------------------------
// Arithmetic Operations
// These methods use value receivers and return new values.
// This ensures immutability and is efficient for small structs.
// ---------------------------------------------------------------------

// Add adds two vectors and returns the result.
func (v Vector2D) Add(other Vector2D) Vector2D {
	return Vector2D{v.X + other.X, v.Y + other.Y}
}

// Sub subtracts the other vector from the current vector.
func (v Vector2D) Sub(other Vector2D) Vector2D {
	return Vector2D{v.X - other.X, v.Y - other.Y}
}

// Mul scales the vector by a scalar value.
func (v Vector2D) Mul(scalar float64) Vector2D {
	return Vector2D{v.X * scalar, v.Y * scalar}
}

// Div scales the vector by 1/scalar.
// Returning Inf is safer than panicking for math libraries, so a zero
// scalar yields an Inf vector together with an error.
func (v Vector2D) Div(scalar float64) (Vector2D, error) {
	if scalar == 0 {
		return Vector2D{math.Inf(1), math.Inf(1)}, errors.New("vector cannot be divided by zero")
	}
	return Vector2D{v.X / scalar, v.Y / scalar}, nil
}

// Dot calculates the dot product of two vectors.
func (v Vector2D) Dot(other Vector2D) float64 {
	return v.X*other.X + v.Y*other.Y
}

// ---------------------------------------------------------------------
// Magnitude and Normalization
// ---------------------------------------------------------------------

// LenSqr calculates the squared magnitude of the vector.
// This is faster than Len() as it avoids the square root. Use for comparisons.
func (v Vector2D) LenSqr() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Len calculates the magnitude (length) of the vector.
func (v Vector2D) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Normalize returns a unit vector in the same direction.
// Returns a zero vector if the length is effectively zero.
func (v Vector2D) Normalize() Vector2D {
	l := v.Len()
	if l < Epsilon {
		return Vector2D{0, 0}
	}
	return v.Mul(1 / l)
}

// ScaleTo returns a vector in the same direction with the given magnitude.
// A zero-length vector stays zero rather than producing NaN.
func (v Vector2D) ScaleTo(magnitude float64) Vector2D {
	l := v.Len()
	if l < Epsilon {
		return Vector2D{0, 0}
	}
	return v.Mul(magnitude / l)
}

// ClampLen limits the magnitude of the vector to max, preserving direction.
// Vectors already within the limit are returned unchanged.
func (v Vector2D) ClampLen(max float64) Vector2D {
	if max <= 0 {
		return Vector2D{0, 0}
	}
	if v.LenSqr() > max*max {
		return v.ScaleTo(max)
	}
	return v
}

// ---------------------------------------------------------------------
// Geometric Utilities
// ---------------------------------------------------------------------

// DistanceTo calculates the Euclidean distance to another vector.
func (v Vector2D) DistanceTo(other Vector2D) float64 {
	return v.Sub(other).Len()
}

// DistanceSquaredTo calculates the squared Euclidean distance to another vector.
func (v Vector2D) DistanceSquaredTo(other Vector2D) float64 {
	return v.Sub(other).LenSqr()
}

// Angle returns the angle (in radians) of the vector relative to the X-axis.
// Range: [-Pi, Pi]
func (v Vector2D) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// IsFinite reports whether both components are finite numbers.
func (v Vector2D) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

// Eq checks if two vectors are approximately equal using the Epsilon constant.
// This handles floating point inaccuracies.
func (v Vector2D) Eq(other Vector2D) bool {
	return math.Abs(v.X-other.X) <= Epsilon && math.Abs(v.Y-other.Y) <= Epsilon
}
