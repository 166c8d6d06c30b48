package core

import "errors"

var (
	// ErrOccupiedCell is returned when placing or moving onto a non-empty cell.
	ErrOccupiedCell = errors.New("cell is occupied")
	// ErrOutOfBounds is returned for coordinates outside the grid.
	ErrOutOfBounds = errors.New("cell is out of bounds")
	// ErrNotPlaced is returned when moving an occupant that is not on the grid.
	ErrNotPlaced = errors.New("occupant is not on the grid")
)

// MooreOffsets lists the eight neighbour offsets, column-major from the top left.
var MooreOffsets = [8]Point{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// Grid is a rectangular single-occupancy lattice stored in row-major order.
// The zero value of T marks an empty cell and cannot be placed.
type Grid[T comparable] struct {
	W, H int
	// Torus makes Neighbors wrap around the edges. Bounds checks used for
	// movement ignore it.
	Torus bool

	data []T
	pos  map[T]Point
}

// NewGrid allocates a grid with the given dimensions.
func NewGrid[T comparable](w, h int, torus bool) *Grid[T] {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &Grid[T]{W: w, H: h, Torus: torus, data: make([]T, w*h), pos: make(map[T]Point)}
}

// Index returns the linear slice index for p.
func (g *Grid[T]) Index(p Point) int { return p.Y*g.W + p.X }

// InBounds reports whether p lies inside the grid.
func (g *Grid[T]) InBounds(p Point) bool {
	return p.X >= 0 && p.X < g.W && p.Y >= 0 && p.Y < g.H
}

// Wrap applies toroidal wrapping to p.
func (g *Grid[T]) Wrap(p Point) Point {
	return Point{X: (p.X%g.W + g.W) % g.W, Y: (p.Y%g.H + g.H) % g.H}
}

// IsEmpty reports whether no occupant holds p. Out-of-bounds cells are never empty.
func (g *Grid[T]) IsEmpty(p Point) bool {
	if !g.InBounds(p) {
		return false
	}
	var zero T
	return g.data[g.Index(p)] == zero
}

// ContentsAt returns the occupant of p, if any.
func (g *Grid[T]) ContentsAt(p Point) (T, bool) {
	var zero T
	if !g.InBounds(p) {
		return zero, false
	}
	v := g.data[g.Index(p)]
	return v, v != zero
}

// PositionOf returns the cell v occupies.
func (g *Grid[T]) PositionOf(v T) (Point, bool) {
	p, ok := g.pos[v]
	return p, ok
}

// Len returns the number of occupied cells.
func (g *Grid[T]) Len() int { return len(g.pos) }

// Place binds v to p.
func (g *Grid[T]) Place(v T, p Point) error {
	if !g.InBounds(p) {
		return ErrOutOfBounds
	}
	if !g.IsEmpty(p) {
		return ErrOccupiedCell
	}
	if old, ok := g.pos[v]; ok {
		var zero T
		g.data[g.Index(old)] = zero
	}
	g.data[g.Index(p)] = v
	g.pos[v] = p
	return nil
}

// Move rebinds v from its current cell to p.
func (g *Grid[T]) Move(v T, p Point) error {
	old, ok := g.pos[v]
	if !ok {
		return ErrNotPlaced
	}
	if !g.InBounds(p) {
		return ErrOutOfBounds
	}
	if !g.IsEmpty(p) {
		return ErrOccupiedCell
	}
	var zero T
	g.data[g.Index(old)] = zero
	g.data[g.Index(p)] = v
	g.pos[v] = p
	return nil
}

// Remove unbinds v from its cell. Removing an absent occupant is a no-op.
func (g *Grid[T]) Remove(v T) {
	p, ok := g.pos[v]
	if !ok {
		return
	}
	var zero T
	g.data[g.Index(p)] = zero
	delete(g.pos, v)
}

// Neighbors returns the Moore neighbourhood of p. Without Torus, cells outside
// the grid are dropped; with Torus they wrap.
func (g *Grid[T]) Neighbors(p Point) []Point {
	out := make([]Point, 0, len(MooreOffsets))
	for _, d := range MooreOffsets {
		n := p.Add(d)
		if g.Torus {
			out = append(out, g.Wrap(n))
			continue
		}
		if g.InBounds(n) {
			out = append(out, n)
		}
	}
	return out
}

// Clear removes every occupant.
func (g *Grid[T]) Clear() {
	clear(g.data)
	clear(g.pos)
}
