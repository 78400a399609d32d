package flock

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/lao-tseu-is-alive/go-flocking-engine/pkg/geometry"
)

func mustTorus(t testing.TB, w, h float64) geometry.Torus {
	t.Helper()
	torus, err := geometry.NewTorus(w, h)
	if err != nil {
		t.Fatalf("NewTorus(%v, %v): %v", w, h, err)
	}
	return torus
}

func mustGrid(t testing.TB, torus geometry.Torus, cellSize float64) *Grid {
	t.Helper()
	g, err := NewGrid(torus, cellSize)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	return g
}

// bruteForceNeighbors is the O(n²) reference the grid must agree with.
func bruteForceNeighbors(torus geometry.Torus, self int, point geometry.Vector2D, radius float64, boids []Boid) []int {
	var out []int
	p := torus.Wrap(point)
	radiusSq := radius * radius
	for i := range boids {
		if i == self {
			continue
		}
		if torus.DistanceSquared(p, boids[i].Pos) < radiusSq {
			out = append(out, i)
		}
	}
	return out
}

func TestNewGrid_RejectsDegenerateCellSize(t *testing.T) {
	torus := mustTorus(t, 100, 100)
	if _, err := NewGrid(torus, 0); err == nil {
		t.Error("NewGrid accepted a zero cell size")
	}
	if _, err := NewGrid(torus, -5); err == nil {
		t.Error("NewGrid accepted a negative cell size")
	}
}

func TestGrid_Rebuild(t *testing.T) {
	// Cell size 100 on a 1000x1000 world: 10x10 cells of exactly 100.
	torus := mustTorus(t, 1000, 1000)
	g := mustGrid(t, torus, 100)

	boids := []Boid{
		{Pos: geometry.Vector2D{X: 50, Y: 50}},   // cell 0,0
		{Pos: geometry.Vector2D{X: 150, Y: 50}},  // cell 1,0
		{Pos: geometry.Vector2D{X: 50, Y: 150}},  // cell 0,1
		{Pos: geometry.Vector2D{X: 250, Y: 250}}, // cell 2,2
	}
	g.Rebuild(boids)

	contains := func(list []int, idx int) bool {
		for _, i := range list {
			if i == idx {
				return true
			}
		}
		return false
	}

	checks := []struct {
		cx, cy int
		want   int
	}{
		{0, 0, 0},
		{1, 0, 1},
		{0, 1, 2},
		{2, 2, 3},
	}
	for _, c := range checks {
		cell := g.cells[c.cy*g.cols+c.cx]
		if !contains(cell, c.want) {
			t.Errorf("expected boid %d in cell %d,%d; got %v", c.want, c.cx, c.cy, cell)
		}
	}

	// Ensure no cross-contamination.
	if contains(g.cells[0], 1) {
		t.Error("did not expect boid 1 in cell 0,0")
	}

	// A second rebuild must not leave stale entries behind.
	g.Rebuild(boids[:1])
	total := 0
	for _, cell := range g.cells {
		total += len(cell)
	}
	if total != 1 {
		t.Errorf("after rebuild with 1 boid, grid holds %d entries", total)
	}
}

func TestGrid_Neighbors_ExcludesSelfAndFar(t *testing.T) {
	torus := mustTorus(t, 1000, 1000)
	g := mustGrid(t, torus, 100)

	boids := []Boid{
		{Pos: geometry.Vector2D{X: 500, Y: 500}}, // self
		{Pos: geometry.Vector2D{X: 530, Y: 500}}, // within 50
		{Pos: geometry.Vector2D{X: 560, Y: 500}}, // outside 50
	}
	g.Rebuild(boids)

	got := g.Neighbors(0, boids[0].Pos, 50, boids, nil)
	if len(got) != 1 || got[0] != 1 {
		t.Errorf("Neighbors = %v; want [1]", got)
	}
}

// The boid must be seen across the world seam: wraparound distance is ~20,
// not ~780.
func TestGrid_Neighbors_AcrossSeam(t *testing.T) {
	torus := mustTorus(t, 800, 600)
	g := mustGrid(t, torus, 50)

	boids := []Boid{
		{Pos: geometry.Vector2D{X: 10, Y: 300}},
		{Pos: geometry.Vector2D{X: 790, Y: 300}},
	}
	g.Rebuild(boids)

	if got := g.Neighbors(0, boids[0].Pos, 50, boids, nil); len(got) != 1 || got[0] != 1 {
		t.Errorf("boid at x=10 should see boid at x=790 across the seam; got %v", got)
	}
	if got := g.Neighbors(1, boids[1].Pos, 50, boids, nil); len(got) != 1 || got[0] != 0 {
		t.Errorf("boid at x=790 should see boid at x=10 across the seam; got %v", got)
	}
}

// The index-based query is a correctness-preserving optimization, not an
// approximation: for any population and radius its result must equal the
// brute-force reference set.
func TestGrid_Neighbors_MatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	worlds := []struct {
		name     string
		w, h     float64
		cellSize float64
		radius   float64
	}{
		{"radius equals cell size", 800, 600, 50, 50},
		{"radius above cell size", 800, 600, 30, 75},
		{"radius below cell size", 800, 600, 120, 40},
		{"tiny world, rings lap the grid", 90, 90, 30, 80},
		{"non-divisible cell size", 800, 600, 37.3, 55},
	}

	for _, w := range worlds {
		t.Run(w.name, func(t *testing.T) {
			torus := mustTorus(t, w.w, w.h)
			g := mustGrid(t, torus, w.cellSize)

			boids := make([]Boid, 200)
			for i := range boids {
				boids[i].Pos = geometry.Vector2D{
					X: rng.Float64() * w.w,
					Y: rng.Float64() * w.h,
				}
			}
			g.Rebuild(boids)

			var buf []int
			for self := range boids {
				buf = g.Neighbors(self, boids[self].Pos, w.radius, boids, buf)
				got := append([]int(nil), buf...)
				want := bruteForceNeighbors(torus, self, boids[self].Pos, w.radius, boids)

				sort.Ints(got)
				sort.Ints(want)
				if len(got) != len(want) {
					t.Fatalf("boid %d: grid found %d neighbors, brute force %d (grid %v, brute %v)",
						self, len(got), len(want), got, want)
				}
				for k := range got {
					if got[k] != want[k] {
						t.Fatalf("boid %d: neighbor sets differ: grid %v, brute %v", self, got, want)
					}
				}
			}
		})
	}
}

func TestGrid_Neighbors_ZeroRadius(t *testing.T) {
	torus := mustTorus(t, 100, 100)
	g := mustGrid(t, torus, 10)
	boids := []Boid{
		{Pos: geometry.Vector2D{X: 50, Y: 50}},
		{Pos: geometry.Vector2D{X: 51, Y: 50}},
	}
	g.Rebuild(boids)
	if got := g.Neighbors(0, boids[0].Pos, 0, boids, nil); len(got) != 0 {
		t.Errorf("zero radius returned neighbors: %v", got)
	}
}

func BenchmarkGrid_Rebuild(b *testing.B) {
	torus := mustTorus(b, 800, 800)
	g := mustGrid(b, torus, 11.5)
	rng := rand.New(rand.NewSource(1))

	boids := make([]Boid, 1000)
	for i := range boids {
		boids[i].Pos = geometry.Vector2D{X: rng.Float64() * 800, Y: rng.Float64() * 800}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g.Rebuild(boids)
	}
}

func BenchmarkGrid_Neighbors(b *testing.B) {
	torus := mustTorus(b, 800, 800)
	g := mustGrid(b, torus, 11.5)
	rng := rand.New(rand.NewSource(1))

	boids := make([]Boid, 1000)
	for i := range boids {
		boids[i].Pos = geometry.Vector2D{X: rng.Float64() * 800, Y: rng.Float64() * 800}
	}
	g.Rebuild(boids)

	var buf []int
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf = g.Neighbors(i%len(boids), boids[i%len(boids)].Pos, 11.5, boids, buf)
	}
}
