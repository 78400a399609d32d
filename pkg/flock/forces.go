package flock

import (
	"github.com/lao-tseu-is-alive/go-flocking-engine/pkg/geometry"
)

// forceModel computes the classic Reynolds steering vectors for one boid
// given its neighbor set. All displacements go through the torus so flocks
// hold together across the world seam.
//
// Each rule produces a steering vector capped at MaxForce; the weighted sum
// is what the integrator consumes. A rule with no qualifying neighbors
// contributes a zero vector, never an error.
type forceModel struct {
	cfg   *Config
	torus geometry.Torus
}

// steer turns a desired velocity into a bounded steering force:
// force = desired - current, clamped to MaxForce.
func (f *forceModel) steer(current, desired geometry.Vector2D) geometry.Vector2D {
	return desired.Sub(current).ClampLen(f.cfg.MaxForce)
}

// Steering returns the combined weighted flocking force on self.
// neighbors holds indices into boids within NeighborRadius of self; the
// per-rule radii filter further. Positions and velocities are read from the
// previous committed frame only.
func (f *forceModel) Steering(self Boid, boids []Boid, neighbors []int) geometry.Vector2D {
	sepSq := f.cfg.SeparationRadius * f.cfg.SeparationRadius
	aliSq := f.cfg.AlignmentRadius * f.cfg.AlignmentRadius
	cohSq := f.cfg.CohesionRadius * f.cfg.CohesionRadius

	var (
		dodge    geometry.Vector2D // separation accumulator
		velSum   geometry.Vector2D // alignment accumulator
		aliCount int
		posSum   geometry.Vector2D // cohesion accumulator, wrapped displacements
		cohCount int
	)

	for _, j := range neighbors {
		other := boids[j]
		toOther := f.torus.Delta(self.Pos, other.Pos)
		distSq := toOther.LenSqr()
		if distSq <= 0 {
			// Two boids at the exact same wrapped position: no direction to
			// push along, so no contribution rather than a NaN.
			continue
		}
		if distSq < sepSq {
			// Away from the neighbor, weighted inversely by distance so
			// closer neighbors push harder.
			d := toOther.Len()
			dodge = dodge.Add(toOther.Mul(-1).ScaleTo(1 / d))
		}
		if distSq < aliSq {
			velSum = velSum.Add(other.Vel)
			aliCount++
		}
		if distSq < cohSq {
			posSum = posSum.Add(toOther)
			cohCount++
		}
	}

	var force geometry.Vector2D

	if dodge.LenSqr() > 0 {
		sep := f.steer(self.Vel, dodge.ScaleTo(f.cfg.MaxSpeed))
		force = force.Add(sep.Mul(f.cfg.SeparationWeight))
	}

	if aliCount > 0 {
		avgVel := velSum.Mul(1 / float64(aliCount))
		if avgVel.LenSqr() > 0 {
			ali := f.steer(self.Vel, avgVel.ScaleTo(f.cfg.MaxSpeed))
			force = force.Add(ali.Mul(f.cfg.AlignmentWeight))
		}
	}

	if cohCount > 0 {
		// posSum holds wrapped displacements, so the centroid is relative to
		// self already; a flock straddling the seam pulls the right way.
		toCenter := posSum.Mul(1 / float64(cohCount))
		if toCenter.LenSqr() > 0 {
			coh := f.steer(self.Vel, toCenter.ScaleTo(f.cfg.MaxSpeed))
			force = force.Add(coh.Mul(f.cfg.CohesionWeight))
		}
	}

	return force
}

// PointerForce steers toward (or, when repel is set, away from) a world
// point, weighted by PointerWeight. The displacement is wrapped like any
// other, so an attractor near an edge pulls boids across the seam.
func (f *forceModel) PointerForce(self Boid, target geometry.Vector2D, repel bool) geometry.Vector2D {
	toTarget := f.torus.Delta(self.Pos, target)
	if toTarget.LenSqr() <= 0 {
		return geometry.Vector2D{}
	}
	if repel {
		toTarget = toTarget.Mul(-1)
	}
	return f.steer(self.Vel, toTarget.ScaleTo(f.cfg.MaxSpeed)).Mul(f.cfg.PointerWeight)
}
