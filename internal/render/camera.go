// Package render draws generated hex grids: viewport culling, zoom-gated
// level-of-detail passes, coastline border stitching, and debug views.
package render

import "hexworld/internal/hexmath"

// Camera is the world-space view state: a center position, a zoom factor,
// and the allowed zoom range.
type Camera struct {
	X, Y    float64
	Zoom    float64
	MinZoom float64
	MaxZoom float64
}

// ClampZoom pins the zoom factor into [MinZoom, MaxZoom].
func (c *Camera) ClampZoom() {
	if c.MaxZoom > 0 && c.Zoom > c.MaxZoom {
		c.Zoom = c.MaxZoom
	}
	if c.MinZoom > 0 && c.Zoom < c.MinZoom {
		c.Zoom = c.MinZoom
	}
}

// ToScreen converts a world-space point to screen coordinates for a
// viewport of the given size.
func (c Camera) ToScreen(p hexmath.Point, viewW, viewH float64) hexmath.Point {
	return hexmath.Point{
		X: (p.X-c.X)*c.Zoom + viewW/2,
		Y: (p.Y-c.Y)*c.Zoom + viewH/2,
	}
}

// ToWorld converts a screen position back to world space.
func (c Camera) ToWorld(p hexmath.Point, viewW, viewH float64) hexmath.Point {
	return hexmath.Point{
		X: (p.X-viewW/2)/c.Zoom + c.X,
		Y: (p.Y-viewH/2)/c.Zoom + c.Y,
	}
}

// ViewRect returns the world-space rectangle visible through a viewport of
// the given pixel size.
func (c Camera) ViewRect(viewW, viewH float64) Rect {
	hw := viewW / (2 * c.Zoom)
	hh := viewH / (2 * c.Zoom)
	return Rect{
		MinX: c.X - hw,
		MinY: c.Y - hh,
		MaxX: c.X + hw,
		MaxY: c.Y + hh,
	}
}

// Rect is an axis-aligned rectangle in world space.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(p hexmath.Point) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

// Expand grows the rectangle by a margin on every side.
func (r Rect) Expand(margin float64) Rect {
	return Rect{
		MinX: r.MinX - margin,
		MinY: r.MinY - margin,
		MaxX: r.MaxX + margin,
		MaxY: r.MaxY + margin,
	}
}
