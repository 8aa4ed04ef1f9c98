package render

import (
	"testing"

	"hexworld/internal/grid"
	"hexworld/internal/hexmath"
)

func buildGrid(w, h int, size float64) *grid.Grid {
	layout := hexmath.Layout{Orientation: hexmath.PointyTop, Size: size}
	g := grid.New(w, h, layout, 1)
	for col := 0; col < w; col++ {
		for row := 0; row < h; row++ {
			g.Set(grid.NewCell(hexmath.OffsetToAxial(col, row, hexmath.PointyTop),
				map[string]string{"height": "lowland"}))
		}
	}
	return g
}

func TestCameraScreenRoundTrip(t *testing.T) {
	cam := Camera{X: 120, Y: -40, Zoom: 1.7}
	p := hexmath.Point{X: 300, Y: 250}
	back := cam.ToWorld(cam.ToScreen(p, 800, 600), 800, 600)
	if dx, dy := back.X-p.X, back.Y-p.Y; dx > 1e-9 || dx < -1e-9 || dy > 1e-9 || dy < -1e-9 {
		t.Fatalf("round trip drifted: %+v vs %+v", p, back)
	}
}

func TestCameraViewRect(t *testing.T) {
	cam := Camera{X: 0, Y: 0, Zoom: 2}
	r := cam.ViewRect(800, 600)
	if r.MaxX-r.MinX != 400 || r.MaxY-r.MinY != 300 {
		t.Fatalf("view rect %v should be 400x300 world units at zoom 2", r)
	}
}

func TestCameraClampZoom(t *testing.T) {
	cam := Camera{Zoom: 9, MinZoom: 0.2, MaxZoom: 4}
	cam.ClampZoom()
	if cam.Zoom != 4 {
		t.Fatalf("zoom %f, want clamped to 4", cam.Zoom)
	}
	cam.Zoom = 0.01
	cam.ClampZoom()
	if cam.Zoom != 0.2 {
		t.Fatalf("zoom %f, want clamped to 0.2", cam.Zoom)
	}
}

func TestCullCacheStaleTransitions(t *testing.T) {
	g := buildGrid(20, 20, 16)
	cam := Camera{X: 0, Y: 0, Zoom: 1}
	var cc CullCache

	if !cc.Stale(cam, 640, 480, 16) {
		t.Fatal("fresh cache must be stale")
	}
	cc.VisibleCells(g, cam, 640, 480)
	if cc.Stale(cam, 640, 480, 16) {
		t.Fatal("cache must be valid right after recompute")
	}

	// Small pan within the threshold keeps the cache valid.
	cam.X += 10
	if cc.Stale(cam, 640, 480, 16) {
		t.Fatal("pan below two cell-widths must not invalidate")
	}

	// Crossing two cell-widths invalidates.
	cam.X += 30
	if !cc.Stale(cam, 640, 480, 16) {
		t.Fatal("pan beyond two cell-widths must invalidate")
	}
	cc.VisibleCells(g, cam, 640, 480)

	// Zoom epsilon.
	cam.Zoom += zoomEpsilon / 2
	if cc.Stale(cam, 640, 480, 16) {
		t.Fatal("zoom change within epsilon must not invalidate")
	}
	cam.Zoom += 0.1
	if !cc.Stale(cam, 640, 480, 16) {
		t.Fatal("zoom change beyond epsilon must invalidate")
	}
	cc.VisibleCells(g, cam, 640, 480)

	// Viewport resize.
	if !cc.Stale(cam, 800, 480, 16) {
		t.Fatal("viewport change must invalidate")
	}

	cc.Invalidate()
	if !cc.Stale(cam, 640, 480, 16) {
		t.Fatal("explicit invalidation must mark the cache stale")
	}
}

func TestCullNoFalseNegatives(t *testing.T) {
	g := buildGrid(40, 40, 16)
	cam := Camera{X: 400, Y: 300, Zoom: 1}
	var cc CullCache

	visible := cc.VisibleCells(g, cam, 400, 300)
	inSet := make(map[grid.Key]bool, len(visible))
	for _, c := range visible {
		inSet[grid.MakeKey(c.Coord)] = true
	}

	// Any cell whose hex polygon could intersect the unexpanded view rect
	// has a corner or its center inside it; none of those may be missing.
	rect := cam.ViewRect(400, 300)
	g.Each(func(c *grid.Cell) {
		center := hexmath.ToPixel(c.Coord, g.Layout)
		touch := rect.Contains(center)
		if !touch {
			for _, p := range hexmath.Corners(center, g.Layout) {
				if rect.Contains(p) {
					touch = true
					break
				}
			}
		}
		if touch && !inSet[grid.MakeKey(c.Coord)] {
			t.Fatalf("cell %+v intersects the view but was culled", c.Coord)
		}
	})
}

func TestCullReducesLargeGridByOrderOfMagnitude(t *testing.T) {
	// 8000 cells, camera centered at zoom 1.
	g := buildGrid(100, 80, 24)
	center := hexmath.ToPixel(hexmath.OffsetToAxial(50, 40, hexmath.PointyTop), g.Layout)
	cam := Camera{X: center.X, Y: center.Y, Zoom: 1}
	var cc CullCache

	visible := cc.VisibleCells(g, cam, 800, 600)
	if len(visible) == 0 {
		t.Fatal("no visible cells at grid center")
	}
	if len(visible)*10 > g.Len() {
		t.Fatalf("culling too weak: %d visible of %d total", len(visible), g.Len())
	}
}

func TestCullMemoizesUntilInvalidated(t *testing.T) {
	g := buildGrid(10, 10, 16)
	cam := Camera{X: 0, Y: 0, Zoom: 1}
	var cc CullCache

	first := cc.VisibleCells(g, cam, 320, 240)
	second := cc.VisibleCells(g, cam, 320, 240)
	if len(first) != len(second) {
		t.Fatalf("memoized result changed: %d vs %d", len(first), len(second))
	}
	// Same backing array: recompute did not happen.
	if len(first) > 0 && &first[0] != &second[0] {
		t.Fatal("valid cache must return the memoized slice")
	}
}
