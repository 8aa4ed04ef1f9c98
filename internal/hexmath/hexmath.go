// Package hexmath provides pure conversions between axial hex coordinates,
// pixel space, and hex corner geometry.
// All functions are stateless and deterministic; out-of-grid inputs produce
// geometrically correct coordinates whose validity is the caller's concern.
package hexmath

import "math"

// Coord represents a position on the hex grid using axial coordinates.
// The third cube coordinate s is derived: s = -q - r.
type Coord struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// S returns the implicit third cube coordinate.
func (c Coord) S() int {
	return -c.Q - c.R
}

// Add returns the component-wise sum of two coordinates.
func (c Coord) Add(o Coord) Coord {
	return Coord{Q: c.Q + o.Q, R: c.R + o.R}
}

// Scale returns the coordinate multiplied by an integer factor.
func (c Coord) Scale(k int) Coord {
	return Coord{Q: c.Q * k, R: c.R * k}
}

// Point is a position in continuous pixel space.
type Point struct {
	X float64
	Y float64
}

// Orientation selects how hexes are rotated relative to the screen.
// It is chosen once per grid.
type Orientation uint8

const (
	PointyTop Orientation = iota // corner pointing up, rows offset horizontally
	FlatTop                      // edge facing up, columns offset vertically
)

// Layout bundles the per-grid geometry parameters: orientation and the
// center-to-corner radius of a cell in pixels.
type Layout struct {
	Orientation Orientation
	Size        float64
}

// Direction indices into Directions, in canonical clockwise order.
const (
	DirE = iota
	DirNE
	DirNW
	DirW
	DirSW
	DirSE
)

// Directions defines the six neighbor offsets in axial coordinates,
// ordered clockwise: E, NE, NW, W, SW, SE.
var Directions = [6]Coord{
	{Q: 1, R: 0},
	{Q: 1, R: -1},
	{Q: 0, R: -1},
	{Q: -1, R: 0},
	{Q: -1, R: 1},
	{Q: 0, R: 1},
}

// Neighbor returns the adjacent coordinate in the given direction index.
func Neighbor(c Coord, dir int) Coord {
	return c.Add(Directions[dir%6])
}

// Neighbors returns the six adjacent coordinates in canonical order.
func Neighbors(c Coord) [6]Coord {
	var result [6]Coord
	for i, dir := range Directions {
		result[i] = c.Add(dir)
	}
	return result
}

// Distance returns the hex distance between two coordinates.
// It is the max of the three absolute differences in cube coordinates.
func Distance(a, b Coord) int {
	dq := absInt(a.Q - b.Q)
	dr := absInt(a.R - b.R)
	ds := absInt(a.S() - b.S())
	max := dq
	if dr > max {
		max = dr
	}
	if ds > max {
		max = ds
	}
	return max
}

const sqrt3 = 1.7320508075688772

// ToPixel converts an axial coordinate to the pixel-space center of its hex.
func ToPixel(c Coord, l Layout) Point {
	q := float64(c.Q)
	r := float64(c.R)
	if l.Orientation == PointyTop {
		return Point{
			X: l.Size * (sqrt3*q + sqrt3/2*r),
			Y: l.Size * (1.5 * r),
		}
	}
	return Point{
		X: l.Size * (1.5 * q),
		Y: l.Size * (sqrt3/2*q + sqrt3*r),
	}
}

// FromPixel converts a continuous pixel position to the axial coordinate of
// the hex containing it, snapping via cube rounding.
func FromPixel(p Point, l Layout) Coord {
	var fq, fr float64
	if l.Orientation == PointyTop {
		fq = (sqrt3/3*p.X - p.Y/3) / l.Size
		fr = (2.0 / 3 * p.Y) / l.Size
	} else {
		fq = (2.0 / 3 * p.X) / l.Size
		fr = (-p.X/3 + sqrt3/3*p.Y) / l.Size
	}
	return RoundCube(fq, fr)
}

// RoundCube snaps fractional axial coordinates to the nearest integer hex.
// The component with the largest rounding error is recomputed from the
// other two so q + r + s stays zero.
func RoundCube(fq, fr float64) Coord {
	fs := -fq - fr

	q := math.Round(fq)
	r := math.Round(fr)
	s := math.Round(fs)

	dq := math.Abs(q - fq)
	dr := math.Abs(r - fr)
	ds := math.Abs(s - fs)

	switch {
	case dq > dr && dq > ds:
		q = -r - s
	case dr > ds:
		r = -q - s
	}
	return Coord{Q: int(q), R: int(r)}
}

// OffsetToAxial converts rectangular offset coordinates (col, row) to axial.
// Pointy-top grids use odd-r offsets, flat-top grids odd-q.
func OffsetToAxial(col, row int, o Orientation) Coord {
	if o == PointyTop {
		return Coord{Q: col - (row-(row&1))/2, R: row}
	}
	return Coord{Q: col, R: row - (col-(col&1))/2}
}

// AxialToOffset converts an axial coordinate back to (col, row) offsets.
// Inverse of OffsetToAxial for the same orientation.
func AxialToOffset(c Coord, o Orientation) (col, row int) {
	if o == PointyTop {
		return c.Q + (c.R-(c.R&1))/2, c.R
	}
	return c.Q, c.R + (c.Q-(c.Q&1))/2
}

// Corner returns the i-th corner (0..5) of the hex centered at center.
// Pointy-top corners start at 30 degrees, flat-top at 0.
func Corner(center Point, l Layout, i int) Point {
	deg := 60 * float64(i)
	if l.Orientation == PointyTop {
		deg -= 30
	}
	rad := deg * math.Pi / 180
	return Point{
		X: center.X + l.Size*math.Cos(rad),
		Y: center.Y + l.Size*math.Sin(rad),
	}
}

// Corners returns all six corners of the hex centered at center.
func Corners(center Point, l Layout) [6]Point {
	var pts [6]Point
	for i := range pts {
		pts[i] = Corner(center, l, i)
	}
	return pts
}

// Ring enumerates the coordinates at exactly the given hex distance from
// center. Radius 0 yields just the center.
func Ring(center Coord, radius int) []Coord {
	if radius <= 0 {
		return []Coord{center}
	}
	results := make([]Coord, 0, 6*radius)
	c := center.Add(Directions[DirSW].Scale(radius))
	for i := 0; i < 6; i++ {
		for j := 0; j < radius; j++ {
			results = append(results, c)
			c = Neighbor(c, i)
		}
	}
	return results
}

// Range enumerates all coordinates within the given hex distance of center,
// center included.
func Range(center Coord, radius int) []Coord {
	if radius < 0 {
		return nil
	}
	results := make([]Coord, 0, 3*radius*(radius+1)+1)
	for dq := -radius; dq <= radius; dq++ {
		lo := -radius
		if -dq-radius > lo {
			lo = -dq - radius
		}
		hi := radius
		if -dq+radius < hi {
			hi = -dq + radius
		}
		for dr := lo; dr <= hi; dr++ {
			results = append(results, center.Add(Coord{Q: dq, R: dr}))
		}
	}
	return results
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
