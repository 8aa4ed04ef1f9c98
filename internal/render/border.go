package render

import (
	"math"

	"hexworld/internal/grid"
	"hexworld/internal/hexmath"
	"hexworld/internal/terrain"
)

// BorderEdge is one stitched coastline segment: the two corner points the
// neighboring hexes share, plus the orientation data needed to decorate it.
type BorderEdge struct {
	A, B hexmath.Point

	// LandDir is the unit vector from the edge midpoint toward the land
	// cell's center.
	LandDir hexmath.Point

	// Flip is set when the decoration must be mirrored vertically so its
	// land side faces the land cell, determined by the sign of the dot
	// product between LandDir and the edge perpendicular.
	Flip bool
}

// Length returns the edge length.
func (e BorderEdge) Length() float64 {
	return math.Hypot(e.B.X-e.A.X, e.B.Y-e.A.Y)
}

// Midpoint returns the edge midpoint.
func (e BorderEdge) Midpoint() hexmath.Point {
	return hexmath.Point{X: (e.A.X + e.B.X) / 2, Y: (e.A.Y + e.B.Y) / 2}
}

// Angle returns the edge direction in radians.
func (e BorderEdge) Angle() float64 {
	return math.Atan2(e.B.Y-e.A.Y, e.B.X-e.A.X)
}

// cornerEpsilon is the match tolerance for shared corners, relative to the
// cell size.
const cornerEpsilonFactor = 0.05

// FindCoastBorders derives every water/land border touching the culled cell
// set, deduplicated by canonical pair ordering. Cells with missing
// neighbors (map edges) get borders against a synthesized virtual water
// neighbor at the expected offset.
func FindCoastBorders(g *grid.Grid, model *terrain.Model, visible []*grid.Cell) []BorderEdge {
	// Canonical dedup: each unordered pair handled once even when both
	// sides are in the culled set.
	seen := make(map[[2]grid.Key]bool)
	var edges []BorderEdge

	for _, cell := range visible {
		water := cell.Composite(model).Water
		k := grid.MakeKey(cell.Coord)

		for _, nc := range hexmath.Neighbors(cell.Coord) {
			neighbor, exists := g.Get(nc)
			if exists {
				nk := grid.MakeKey(nc)
				pair := [2]grid.Key{k, nk}
				if nk < k {
					pair = [2]grid.Key{nk, k}
				}
				if seen[pair] {
					continue
				}
				seen[pair] = true

				nWater := neighbor.Composite(model).Water
				if water == nWater {
					continue
				}
				landCoord := cell.Coord
				if water {
					landCoord = nc
				}
				if e, ok := stitchEdge(cell.Coord, nc, landCoord, g.Layout); ok {
					edges = append(edges, e)
				}
				continue
			}

			// Map edge: the world beyond the grid reads as water, so land
			// cells get a coastline here too. The virtual neighbor is a
			// plain hex at the expected offset.
			if water {
				continue
			}
			if e, ok := stitchEdge(cell.Coord, nc, cell.Coord, g.Layout); ok {
				edges = append(edges, e)
			}
		}
	}
	return edges
}

// stitchEdge computes the shared edge between two (possibly virtual) hexes
// by matching corner points geometrically, independent of direction
// bookkeeping. Anything but exactly two matching corner pairs means there
// is no border to draw.
func stitchEdge(a, b, land hexmath.Coord, layout hexmath.Layout) (BorderEdge, bool) {
	p1, p2, ok := SharedCorners(a, b, layout)
	if !ok {
		return BorderEdge{}, false
	}

	landCenter := hexmath.ToPixel(land, layout)
	mid := hexmath.Point{X: (p1.X + p2.X) / 2, Y: (p1.Y + p2.Y) / 2}
	landDir := normalize(hexmath.Point{X: landCenter.X - mid.X, Y: landCenter.Y - mid.Y})

	// Edge perpendicular; the decoration flips when land is on the other
	// side of it.
	perp := normalize(hexmath.Point{X: -(p2.Y - p1.Y), Y: p2.X - p1.X})
	flip := landDir.X*perp.X+landDir.Y*perp.Y < 0

	return BorderEdge{A: p1, B: p2, LandDir: landDir, Flip: flip}, true
}

// SharedCorners finds the two corner points the hexes at a and b share,
// within a small epsilon. Reports false unless exactly two pairs match.
func SharedCorners(a, b hexmath.Coord, layout hexmath.Layout) (hexmath.Point, hexmath.Point, bool) {
	eps := layout.Size * cornerEpsilonFactor
	ca := hexmath.Corners(hexmath.ToPixel(a, layout), layout)
	cb := hexmath.Corners(hexmath.ToPixel(b, layout), layout)

	var matches []hexmath.Point
	for _, pa := range ca {
		for _, pb := range cb {
			if math.Hypot(pa.X-pb.X, pa.Y-pb.Y) < eps {
				matches = append(matches, hexmath.Point{
					X: (pa.X + pb.X) / 2,
					Y: (pa.Y + pb.Y) / 2,
				})
			}
		}
	}
	if len(matches) != 2 {
		return hexmath.Point{}, hexmath.Point{}, false
	}
	return matches[0], matches[1], true
}

// TileLayout computes how a decoration image of the given natural size
// tiles along an edge: the tile count is the edge length over the natural
// width, then both dimensions rescale uniformly so the tiles fit the edge
// exactly with no partial tile.
func TileLayout(edgeLen, naturalW, naturalH float64) (count int, tileW, tileH float64) {
	if edgeLen <= 0 || naturalW <= 0 || naturalH <= 0 {
		return 0, 0, 0
	}
	count = int(math.Round(edgeLen / naturalW))
	if count < 1 {
		count = 1
	}
	tileW = edgeLen / float64(count)
	scale := tileW / naturalW
	tileH = naturalH * scale
	return count, tileW, tileH
}

// CornerJoin is a decoration placed where two or more border edges meet.
type CornerJoin struct {
	At hexmath.Point

	// Wide is set when the maximum pairwise angle between the meeting
	// edges is 100 degrees or more.
	Wide bool

	// Dir is the averaged land-ward direction of the contributing edges.
	Dir hexmath.Point
}

const narrowCornerMaxDeg = 100.0

// CornerJoins groups border edges by shared vertex and classifies each
// vertex where at least two edges meet.
func CornerJoins(edges []BorderEdge, layout hexmath.Layout) []CornerJoin {
	type vertexEdges struct {
		at    hexmath.Point
		away  []hexmath.Point // unit directions pointing away from the vertex
		land  []hexmath.Point
	}

	quant := layout.Size * cornerEpsilonFactor
	if quant <= 0 {
		quant = 1e-3
	}
	verts := make(map[[2]int64]*vertexEdges)

	register := func(at, other, land hexmath.Point) {
		key := [2]int64{
			int64(math.Round(at.X / quant)),
			int64(math.Round(at.Y / quant)),
		}
		v, ok := verts[key]
		if !ok {
			v = &vertexEdges{at: at}
			verts[key] = v
		}
		v.away = append(v.away, normalize(hexmath.Point{X: other.X - at.X, Y: other.Y - at.Y}))
		v.land = append(v.land, land)
	}

	for _, e := range edges {
		register(e.A, e.B, e.LandDir)
		register(e.B, e.A, e.LandDir)
	}

	var joins []CornerJoin
	for _, v := range verts {
		if len(v.away) < 2 {
			continue
		}
		maxAngle := 0.0
		for i := 0; i < len(v.away); i++ {
			for j := i + 1; j < len(v.away); j++ {
				dot := v.away[i].X*v.away[j].X + v.away[i].Y*v.away[j].Y
				if dot > 1 {
					dot = 1
				}
				if dot < -1 {
					dot = -1
				}
				if a := math.Acos(dot) * 180 / math.Pi; a > maxAngle {
					maxAngle = a
				}
			}
		}

		var sum hexmath.Point
		for _, d := range v.land {
			sum.X += d.X
			sum.Y += d.Y
		}

		joins = append(joins, CornerJoin{
			At:   v.at,
			Wide: maxAngle >= narrowCornerMaxDeg,
			Dir:  normalize(sum),
		})
	}
	return joins
}

func normalize(p hexmath.Point) hexmath.Point {
	l := math.Hypot(p.X, p.Y)
	if l == 0 {
		return hexmath.Point{X: 1, Y: 0}
	}
	return hexmath.Point{X: p.X / l, Y: p.Y / l}
}
