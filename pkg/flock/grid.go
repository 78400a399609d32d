package flock

import (
	"fmt"
	"math"

	"github.com/lao-tseu-is-alive/go-flocking-engine/pkg/geometry"
)

// Grid is a uniform spatial index over the torus. It turns the O(n²)
// all-pairs neighbor search into a near-O(n) amortized lookup: cells are
// sized close to the neighborhood radius so each query touches a small
// constant number of cells regardless of total population.
//
// The grid stores only integer boid indices into the Simulation's flat boid
// slice, never pointers, which keeps iteration cache friendly and makes
// parallel slicing straightforward.
type Grid struct {
	torus geometry.Torus
	cols  int
	rows  int
	cellW float64
	cellH float64
	// cells is row-major, cols*rows buckets of boid indices.
	cells [][]int
}

// NewGrid builds the index with cells at least cellSize wide and high.
// Cell dimensions are stretched so an integer number of them tiles each
// axis exactly; a partial cell at the seam would break wraparound lookups.
func NewGrid(torus geometry.Torus, cellSize float64) (*Grid, error) {
	if !(cellSize > 0) {
		return nil, fmt.Errorf("grid cell size must be positive, got %g", cellSize)
	}
	cols := int(torus.Width / cellSize)
	if cols < 1 {
		cols = 1
	}
	rows := int(torus.Height / cellSize)
	if rows < 1 {
		rows = 1
	}
	return &Grid{
		torus: torus,
		cols:  cols,
		rows:  rows,
		cellW: torus.Width / float64(cols),
		cellH: torus.Height / float64(rows),
		cells: make([][]int, cols*rows),
	}, nil
}

// cellCoords maps a wrapped position to its cell coordinate pair.
// The clamps catch positions that float rounding puts exactly on the
// upper world boundary.
func (g *Grid) cellCoords(p geometry.Vector2D) (int, int) {
	cx := int(p.X / g.cellW)
	if cx >= g.cols {
		cx = g.cols - 1
	}
	cy := int(p.Y / g.cellH)
	if cy >= g.rows {
		cy = g.rows - 1
	}
	return cx, cy
}

// Rebuild clears all buckets and reinserts every boid by its wrapped
// position. It must run once per simulation step before any query of that
// step; queries never see entries from a previous frame.
func (g *Grid) Rebuild(boids []Boid) {
	// Reset slices to length 0 but keep capacity, so the underlying arrays
	// are reused and steady-state rebuilds allocate almost nothing.
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
	for i := range boids {
		cx, cy := g.cellCoords(g.torus.Wrap(boids[i].Pos))
		idx := cy*g.cols + cx
		g.cells[idx] = append(g.cells[idx], i)
	}
}

// Neighbors appends to buf the indices of all boids strictly within radius
// of point, excluding self (pass a negative self for a free query point),
// and returns the extended buffer. Candidates come from every cell ring the
// radius can reach (wrapping past the last column or row onto the opposite
// edge) and are then filtered by the true wrapped distance. No ordering is
// guaranteed.
//
// buf is a caller-owned scratch buffer; pass the previous result to reuse
// its capacity. The result is only valid until the next Rebuild.
func (g *Grid) Neighbors(self int, point geometry.Vector2D, radius float64, boids []Boid, buf []int) []int {
	buf = buf[:0]
	if !(radius > 0) {
		return buf
	}
	p := g.torus.Wrap(point)
	radiusSq := radius * radius

	// Expand rings until the covered cell span reaches past the radius,
	// even when the radius is not a multiple of the cell size.
	rx := int(math.Ceil(radius / g.cellW))
	ry := int(math.Ceil(radius / g.cellH))
	cx, cy := g.cellCoords(p)

	// On a small grid the rings would lap themselves; cap the span at the
	// grid dimensions so no cell is visited twice.
	spanX := 2*rx + 1
	if spanX > g.cols {
		spanX = g.cols
	}
	spanY := 2*ry + 1
	if spanY > g.rows {
		spanY = g.rows
	}

	for dy := 0; dy < spanY; dy++ {
		row := wrapCell(cy-ry+dy, g.rows)
		for dx := 0; dx < spanX; dx++ {
			col := wrapCell(cx-rx+dx, g.cols)
			for _, i := range g.cells[row*g.cols+col] {
				if i == self {
					continue
				}
				if g.torus.DistanceSquared(p, boids[i].Pos) < radiusSq {
					buf = append(buf, i)
				}
			}
		}
	}
	return buf
}

// wrapCell maps any cell coordinate onto [0, n) so cells beyond the last
// column or row resolve to the opposite edge.
func wrapCell(c, n int) int {
	c %= n
	if c < 0 {
		c += n
	}
	return c
}
