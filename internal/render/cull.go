package render

import (
	"math"

	"hexworld/internal/grid"
	"hexworld/internal/hexmath"
)

// Zoom changes below this are treated as no change for cache purposes.
const zoomEpsilon = 1e-3

// Cells this many cell-widths beyond the view rectangle are kept so panning
// does not pop cells in at the margin. The invalidation threshold is the
// same two cell-widths, so a recompute always lands before the margin is
// exhausted: false positives near the margin are fine, false negatives are
// not.
const cullMarginCells = 2.0

// CullCache maintains the subset of cells intersecting the camera view.
// It has exactly two states: valid (the memoized set is reusable) and
// stale (the next query recomputes). The renderer owns it exclusively.
type CullCache struct {
	valid bool

	lastX, lastY float64
	lastZoom     float64
	lastW, lastH float64

	visible []*grid.Cell
}

// Invalidate forces the next query to recompute, used when the grid itself
// is replaced.
func (cc *CullCache) Invalidate() {
	cc.valid = false
	cc.visible = nil
}

// Stale reports whether the cached visible set can no longer be trusted for
// the given camera and viewport. The translation threshold is roughly two
// cell-widths of world-space motion; zoom and viewport changes beyond
// epsilon also invalidate.
func (cc *CullCache) Stale(cam Camera, viewW, viewH, cellSize float64) bool {
	if !cc.valid {
		return true
	}
	if viewW != cc.lastW || viewH != cc.lastH {
		return true
	}
	if math.Abs(cam.Zoom-cc.lastZoom) > zoomEpsilon {
		return true
	}
	moved := math.Hypot(cam.X-cc.lastX, cam.Y-cc.lastY)
	return moved > cullMarginCells*cellSize
}

// VisibleCells returns the cells whose pixel-space bounds intersect the
// camera view, recomputing only when the cache is stale. The test is a
// bounding-circle inclusion against the margin-expanded view rectangle,
// not exact hex-polygon intersection.
func (cc *CullCache) VisibleCells(g *grid.Grid, cam Camera, viewW, viewH float64) []*grid.Cell {
	cellSize := g.Layout.Size
	if !cc.Stale(cam, viewW, viewH, cellSize) {
		return cc.visible
	}

	rect := cam.ViewRect(viewW, viewH).Expand(cullMarginCells*cellSize + cellSize)

	visible := cc.visible[:0]
	for _, c := range g.Cells() {
		if rect.Contains(hexmath.ToPixel(c.Coord, g.Layout)) {
			visible = append(visible, c)
		}
	}

	cc.visible = visible
	cc.valid = true
	cc.lastX, cc.lastY = cam.X, cam.Y
	cc.lastZoom = cam.Zoom
	cc.lastW, cc.lastH = viewW, viewH
	return cc.visible
}
