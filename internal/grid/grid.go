// Package grid owns the keyed cell collection for a generated world:
// lookups, neighbor and region queries, border enumeration, and flat
// snapshots for persistence.
package grid

import (
	"sort"

	"github.com/google/uuid"

	"hexworld/internal/hexmath"
	"hexworld/internal/terrain"
)

// Key is a canonical, collision-free encoding of an axial coordinate.
// The q and r components are packed as two int32 halves, so the full
// ±2^31 coordinate range is supported.
type Key uint64

// MakeKey encodes an axial coordinate.
func MakeKey(c hexmath.Coord) Key {
	return Key(uint64(uint32(int32(c.Q)))<<32 | uint64(uint32(int32(c.R))))
}

// Coord decodes the axial coordinate back out of a key.
func (k Key) Coord() hexmath.Coord {
	return hexmath.Coord{
		Q: int(int32(uint32(k >> 32))),
		R: int(int32(uint32(k))),
	}
}

// Cell is one hexagonal map unit: its coordinate, the chosen value id per
// terrain layer, and a lazily cached composite descriptor. Cells are
// created by the generator and immutable once placed, except that editing
// a layer value re-derives the composite.
type Cell struct {
	Coord  hexmath.Coord
	Layers map[string]string

	composite *terrain.Composite
}

// NewCell creates a cell with the given layer assignment.
func NewCell(coord hexmath.Coord, layers map[string]string) *Cell {
	if layers == nil {
		layers = make(map[string]string)
	}
	return &Cell{Coord: coord, Layers: layers}
}

// Layer returns the chosen value id for a layer.
func (c *Cell) Layer(name string) (string, bool) {
	id, ok := c.Layers[name]
	return id, ok
}

// SetLayer changes a layer value and invalidates the cached composite.
func (c *Cell) SetLayer(name, id string) {
	c.Layers[name] = id
	c.composite = nil
}

// Composite returns the cell's derived terrain descriptor, computing and
// caching it on first use. The cache is a projection only: the descriptor
// is always recomputable from the layer values alone.
func (c *Cell) Composite(m *terrain.Model) terrain.Composite {
	if c.composite == nil {
		comp := m.ResolveComposite(c.Layers)
		c.composite = &comp
	}
	return *c.composite
}

// Grid is the spatial index over a generated world's cells plus the grid
// geometry they were generated with.
type Grid struct {
	WorldID string
	Seed    int64
	Width   int // offset-coordinate bounds used at generation
	Height  int
	Layout  hexmath.Layout

	cells map[Key]*Cell
}

// New creates an empty grid with the given offset bounds and layout.
// Each grid gets a fresh world id.
func New(width, height int, layout hexmath.Layout, seed int64) *Grid {
	return &Grid{
		WorldID: uuid.NewString(),
		Seed:    seed,
		Width:   width,
		Height:  height,
		Layout:  layout,
		cells:   make(map[Key]*Cell, width*height),
	}
}

// Set inserts or replaces the cell at its coordinate.
func (g *Grid) Set(c *Cell) {
	g.cells[MakeKey(c.Coord)] = c
}

// Get returns the cell at a coordinate. Absence is a result, not an error.
func (g *Grid) Get(coord hexmath.Coord) (*Cell, bool) {
	c, ok := g.cells[MakeKey(coord)]
	return c, ok
}

// Has reports whether a cell exists at the coordinate.
func (g *Grid) Has(coord hexmath.Coord) bool {
	_, ok := g.cells[MakeKey(coord)]
	return ok
}

// Remove deletes the cell at the coordinate, if present.
func (g *Grid) Remove(coord hexmath.Coord) {
	delete(g.cells, MakeKey(coord))
}

// Len returns the number of cells.
func (g *Grid) Len() int {
	return len(g.cells)
}

// Each visits every cell in stable key order.
func (g *Grid) Each(fn func(*Cell)) {
	for _, c := range g.Cells() {
		fn(c)
	}
}

// Cells returns all cells sorted by key, so enumeration is deterministic.
func (g *Grid) Cells() []*Cell {
	keys := make([]Key, 0, len(g.cells))
	for k := range g.cells {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	out := make([]*Cell, len(keys))
	for i, k := range keys {
		out[i] = g.cells[k]
	}
	return out
}

// Filter returns the cells satisfying the predicate, in stable key order.
func (g *Grid) Filter(pred func(*Cell) bool) []*Cell {
	var out []*Cell
	for _, c := range g.Cells() {
		if pred(c) {
			out = append(out, c)
		}
	}
	return out
}

// Neighbors returns the existing neighbors of a coordinate in canonical
// direction order, silently omitting missing ones. A cell with fewer than
// six existing neighbors sits on the edge of the map.
func (g *Grid) Neighbors(coord hexmath.Coord) []*Cell {
	out := make([]*Cell, 0, 6)
	for _, nc := range hexmath.Neighbors(coord) {
		if c, ok := g.Get(nc); ok {
			out = append(out, c)
		}
	}
	return out
}

// WithinRadius returns the existing cells within a hex distance of center.
func (g *Grid) WithinRadius(center hexmath.Coord, radius int) []*Cell {
	var out []*Cell
	for _, coord := range hexmath.Range(center, radius) {
		if c, ok := g.Get(coord); ok {
			out = append(out, c)
		}
	}
	return out
}

// Box returns the existing cells whose axial coordinates fall inside the
// inclusive bounds, in deterministic q-then-r order. Inverted bounds yield
// no cells.
func (g *Grid) Box(qMin, qMax, rMin, rMax int) []*Cell {
	var out []*Cell
	for q := qMin; q <= qMax; q++ {
		for r := rMin; r <= rMax; r++ {
			if c, ok := g.Get(hexmath.Coord{Q: q, R: r}); ok {
				out = append(out, c)
			}
		}
	}
	return out
}

// BorderPair is an adjacent cell pair satisfying a border predicate.
// A has the lower key of the two, making the pair canonical.
type BorderPair struct {
	A *Cell
	B *Cell
}

// Borders enumerates every adjacent pair of existing cells satisfying the
// predicate, each unordered pair exactly once. Deduplication uses the
// canonical key ordering of the pair rather than direction bookkeeping, so
// discovery is independent of which side is visited first.
func (g *Grid) Borders(pred func(a, b *Cell) bool) []BorderPair {
	var out []BorderPair
	for _, a := range g.Cells() {
		ka := MakeKey(a.Coord)
		for _, b := range g.Neighbors(a.Coord) {
			if MakeKey(b.Coord) <= ka {
				continue
			}
			if pred(a, b) {
				out = append(out, BorderPair{A: a, B: b})
			}
		}
	}
	return out
}
