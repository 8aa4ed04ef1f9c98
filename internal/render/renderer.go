package render

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"hexworld/internal/grid"
	"hexworld/internal/hexmath"
	"hexworld/internal/terrain"
)

// LODThresholds are the zoom levels below which individual rendering
// passes are disabled.
type LODThresholds struct {
	HexBelow     float64 // below: cells are overlapping squares, not hex polygons
	OutlineBelow float64 // below: grid outlines are skipped
	TextureBelow float64 // below: decorative terrain textures are skipped
	BorderBelow  float64 // below: coastline borders are skipped
}

// DefaultLOD returns the standard zoom gates.
func DefaultLOD() LODThresholds {
	return LODThresholds{
		HexBelow:     0.25,
		OutlineBelow: 0.6,
		TextureBelow: 0.45,
		BorderBelow:  0.45,
	}
}

// Passes reports which rendering passes are enabled at a zoom level. Each
// gate is independent.
type Passes struct {
	HexShape bool
	Outline  bool
	Texture  bool
	Border   bool
}

// Passes evaluates the gates for a zoom level.
func (l LODThresholds) Passes(zoom float64) Passes {
	return Passes{
		HexShape: zoom >= l.HexBelow,
		Outline:  zoom >= l.OutlineBelow,
		Texture:  zoom >= l.TextureBelow,
		Border:   zoom >= l.BorderBelow,
	}
}

// FrameOptions carries per-frame inputs to RenderFrame.
type FrameOptions struct {
	ViewW, ViewH float64
	Hover        *hexmath.Coord // pointer target cell, if any
}

// Renderer draws a grid through the culling cache with zoom-gated LOD
// passes. It owns the cull cache exclusively; nothing else mutates it.
type Renderer struct {
	Debug DebugMode
	LOD   LODThresholds

	// Asset path roots and decoration images. Empty paths disable the
	// corresponding decoration and fall back to colors/strokes.
	SpriteDir        string
	TextureDir       string
	CoastImagePath   string
	CornerNarrowPath string
	CornerWidePath   string

	model  *terrain.Model
	assets *Registry
	cull   CullCache

	white *ebiten.Image
}

// New creates a renderer over a terrain model and an asset registry.
func New(model *terrain.Model, assets *Registry) *Renderer {
	return &Renderer{
		LOD:    DefaultLOD(),
		model:  model,
		assets: assets,
	}
}

// Invalidate discards the culled set, used when the grid is replaced.
func (r *Renderer) Invalidate() {
	r.cull.Invalidate()
}

// VisibleCells returns the culled cell set for a camera and viewport.
func (r *Renderer) VisibleCells(g *grid.Grid, cam Camera, viewW, viewH float64) []*grid.Cell {
	return r.cull.VisibleCells(g, cam, viewW, viewH)
}

// CellAt resolves a world-space position to the cell containing it.
func CellAt(g *grid.Grid, p hexmath.Point) (*grid.Cell, bool) {
	return g.Get(hexmath.FromPixel(p, g.Layout))
}

// RenderFrame draws one complete frame of the grid. Every pass consumes the
// culled cell set, never the full grid.
func (r *Renderer) RenderFrame(dst *ebiten.Image, g *grid.Grid, cam Camera, opts FrameOptions) {
	visible := r.cull.VisibleCells(g, cam, opts.ViewW, opts.ViewH)
	passes := r.LOD.Passes(cam.Zoom)

	if r.Debug != DebugNone {
		r.renderDebug(dst, g, cam, opts, visible, passes)
		return
	}

	for _, cell := range visible {
		r.renderCell(dst, g, cam, opts, cell, passes)
	}

	if passes.Outline {
		outline := color.RGBA{A: 60}
		for _, cell := range visible {
			r.strokeHex(dst, g, cam, opts, cell.Coord, 1, outline)
		}
	}

	if passes.Border {
		edges := FindCoastBorders(g, r.model, visible)
		r.drawCoastBorders(dst, g, cam, opts, edges)
	}

	if opts.Hover != nil {
		if _, ok := g.Get(*opts.Hover); ok && passes.HexShape {
			r.fillHex(dst, g, cam, opts, *opts.Hover, color.RGBA{R: 255, G: 255, B: 255, A: 60})
		}
	}
}

// renderDebug is the single-pass categorical fill used by debug views.
func (r *Renderer) renderDebug(dst *ebiten.Image, g *grid.Grid, cam Camera, opts FrameOptions, visible []*grid.Cell, passes Passes) {
	for _, cell := range visible {
		clr := DebugColor(r.Debug, cell, r.model)
		if passes.HexShape {
			r.fillHex(dst, g, cam, opts, cell.Coord, clr)
		} else {
			r.fillSquare(dst, g, cam, opts, cell.Coord, clr)
		}
	}
}

// renderCell draws the fill passes for one cell: sprite if a hierarchical
// lookup finds a loaded image, otherwise the composite color; then the
// texture overlay unless a sprite was already used.
func (r *Renderer) renderCell(dst *ebiten.Image, g *grid.Grid, cam Camera, opts FrameOptions, cell *grid.Cell, passes Passes) {
	comp := cell.Composite(r.model)

	if !passes.HexShape {
		r.fillSquare(dst, g, cam, opts, cell.Coord, comp.Color)
		return
	}

	veg := cell.Layers[terrain.LayerVegetation]
	climate := cell.Layers[terrain.LayerClimate]
	height := cell.Layers[terrain.LayerHeight]
	keys := SpriteCandidates(veg, climate, height)

	spriteUsed := false
	if sprite, ok := r.assets.GetAny(CandidatePaths(r.SpriteDir, r.spriteHint(cell), keys)); ok {
		r.drawSprite(dst, g, cam, opts, cell.Coord, sprite)
		spriteUsed = true
	} else {
		r.fillHex(dst, g, cam, opts, cell.Coord, comp.Color)
	}

	// Texture overlay is skipped when a sprite was drawn: the sprite
	// already carries the detail, and tiling on top would double-render.
	if passes.Texture && !spriteUsed {
		if tex, ok := r.assets.GetAny(CandidatePaths(r.TextureDir, r.textureHint(cell), keys)); ok {
			r.fillHexTextured(dst, g, cam, opts, cell.Coord, tex)
		}
	}
}

// spriteHint returns the config-declared sprite path for the cell's
// vegetation value, if any.
func (r *Renderer) spriteHint(cell *grid.Cell) string {
	if v, ok := r.model.Value(terrain.LayerVegetation, cell.Layers[terrain.LayerVegetation]); ok {
		return v.Sprite
	}
	return ""
}

// textureHint prefers the vegetation texture, then the height texture.
func (r *Renderer) textureHint(cell *grid.Cell) string {
	if v, ok := r.model.Value(terrain.LayerVegetation, cell.Layers[terrain.LayerVegetation]); ok && v.Texture != "" {
		return v.Texture
	}
	if v, ok := r.model.Value(terrain.LayerHeight, cell.Layers[terrain.LayerHeight]); ok {
		return v.Texture
	}
	return ""
}

// whitePixel returns a 1x1 white source for solid triangle fills.
func (r *Renderer) whitePixel() *ebiten.Image {
	if r.white == nil {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		r.white = img
	}
	return r.white
}

// screenCorners projects a cell's hex corners into screen space.
func (r *Renderer) screenCorners(g *grid.Grid, cam Camera, opts FrameOptions, coord hexmath.Coord) [6]hexmath.Point {
	center := hexmath.ToPixel(coord, g.Layout)
	corners := hexmath.Corners(center, g.Layout)
	var out [6]hexmath.Point
	for i, p := range corners {
		out[i] = cam.ToScreen(p, opts.ViewW, opts.ViewH)
	}
	return out
}

func (r *Renderer) fillSquare(dst *ebiten.Image, g *grid.Grid, cam Camera, opts FrameOptions, coord hexmath.Coord, clr color.RGBA) {
	sp := cam.ToScreen(hexmath.ToPixel(coord, g.Layout), opts.ViewW, opts.ViewH)
	// Slightly oversized so adjacent squares overlap with no seams.
	s := g.Layout.Size * cam.Zoom * 1.9
	vector.DrawFilledRect(dst, float32(sp.X-s/2), float32(sp.Y-s/2), float32(s), float32(s), clr, false)
}

func (r *Renderer) fillHex(dst *ebiten.Image, g *grid.Grid, cam Camera, opts FrameOptions, coord hexmath.Coord, clr color.RGBA) {
	corners := r.screenCorners(g, cam, opts, coord)

	var path vector.Path
	path.MoveTo(float32(corners[0].X), float32(corners[0].Y))
	for i := 1; i < 6; i++ {
		path.LineTo(float32(corners[i].X), float32(corners[i].Y))
	}
	path.Close()

	vs, is := path.AppendVerticesAndIndicesForFilling(nil, nil)
	cr := float32(clr.R) / 255
	cg := float32(clr.G) / 255
	cb := float32(clr.B) / 255
	ca := float32(clr.A) / 255
	for i := range vs {
		vs[i].SrcX = 1
		vs[i].SrcY = 1
		vs[i].ColorR = cr
		vs[i].ColorG = cg
		vs[i].ColorB = cb
		vs[i].ColorA = ca
	}
	dst.DrawTriangles(vs, is, r.whitePixel(), &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

// fillHexTextured tiles a texture across the hex, clipped to its
// silhouette, by addressing the texture in repeat mode with screen-space
// source coordinates.
func (r *Renderer) fillHexTextured(dst *ebiten.Image, g *grid.Grid, cam Camera, opts FrameOptions, coord hexmath.Coord, tex *ebiten.Image) {
	corners := r.screenCorners(g, cam, opts, coord)

	var path vector.Path
	path.MoveTo(float32(corners[0].X), float32(corners[0].Y))
	for i := 1; i < 6; i++ {
		path.LineTo(float32(corners[i].X), float32(corners[i].Y))
	}
	path.Close()

	vs, is := path.AppendVerticesAndIndicesForFilling(nil, nil)
	for i := range vs {
		vs[i].SrcX = vs[i].DstX
		vs[i].SrcY = vs[i].DstY
		vs[i].ColorR = 1
		vs[i].ColorG = 1
		vs[i].ColorB = 1
		vs[i].ColorA = 1
	}
	dst.DrawTriangles(vs, is, tex, &ebiten.DrawTrianglesOptions{Address: ebiten.AddressRepeat})
}

func (r *Renderer) strokeHex(dst *ebiten.Image, g *grid.Grid, cam Camera, opts FrameOptions, coord hexmath.Coord, width float32, clr color.RGBA) {
	corners := r.screenCorners(g, cam, opts, coord)
	for i := 0; i < 6; i++ {
		a := corners[i]
		b := corners[(i+1)%6]
		vector.StrokeLine(dst, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), width, clr, false)
	}
}

func (r *Renderer) drawSprite(dst *ebiten.Image, g *grid.Grid, cam Camera, opts FrameOptions, coord hexmath.Coord, sprite *ebiten.Image) {
	sp := cam.ToScreen(hexmath.ToPixel(coord, g.Layout), opts.ViewW, opts.ViewH)
	target := 2 * g.Layout.Size * cam.Zoom
	bounds := sprite.Bounds()

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(target/float64(bounds.Dx()), target/float64(bounds.Dy()))
	op.GeoM.Translate(sp.X-target/2, sp.Y-target/2)
	dst.DrawImage(sprite, op)
}

var coastFallbackColor = color.RGBA{R: 232, G: 216, B: 160, A: 255}

// drawCoastBorders decorates the stitched edges. With a decoration image
// loaded, tiles are laid along each edge at their natural aspect ratio and
// flipped toward land; without one, edges get a uniform rounded stroke.
func (r *Renderer) drawCoastBorders(dst *ebiten.Image, g *grid.Grid, cam Camera, opts FrameOptions, edges []BorderEdge) {
	coast, hasCoast := r.assets.Get(r.CoastImagePath)

	var tileThickness float64
	for _, e := range edges {
		a := cam.ToScreen(e.A, opts.ViewW, opts.ViewH)
		b := cam.ToScreen(e.B, opts.ViewW, opts.ViewH)

		if !hasCoast {
			w := float32(math.Max(2, g.Layout.Size*cam.Zoom*0.15))
			vector.StrokeLine(dst, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), w, coastFallbackColor, true)
			vector.DrawFilledCircle(dst, float32(a.X), float32(a.Y), w/2, coastFallbackColor, true)
			vector.DrawFilledCircle(dst, float32(b.X), float32(b.Y), w/2, coastFallbackColor, true)
			continue
		}

		bounds := coast.Bounds()
		natW := float64(bounds.Dx())
		natH := float64(bounds.Dy())
		length := math.Hypot(b.X-a.X, b.Y-a.Y)
		count, tileW, tileH := TileLayout(length, natW, natH)
		if count == 0 {
			continue
		}
		tileThickness = tileH

		angle := math.Atan2(b.Y-a.Y, b.X-a.X)
		dirX := (b.X - a.X) / length
		dirY := (b.Y - a.Y) / length

		for i := 0; i < count; i++ {
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Scale(tileW/natW, tileH/natH)
			if e.Flip {
				op.GeoM.Scale(1, -1)
				op.GeoM.Translate(0, tileH)
			}
			op.GeoM.Translate(0, -tileH/2)
			op.GeoM.Rotate(angle)
			op.GeoM.Translate(a.X+dirX*float64(i)*tileW, a.Y+dirY*float64(i)*tileW)
			dst.DrawImage(coast, op)
		}
	}

	r.drawCornerJoins(dst, g, cam, opts, edges, tileThickness)
}

// drawCornerJoins decorates vertices where two or more border edges meet,
// choosing the narrow or wide piece by the measured angle and scaling it to
// the local tile thickness.
func (r *Renderer) drawCornerJoins(dst *ebiten.Image, g *grid.Grid, cam Camera, opts FrameOptions, edges []BorderEdge, tileThickness float64) {
	joins := CornerJoins(edges, g.Layout)
	if len(joins) == 0 {
		return
	}

	if tileThickness <= 0 {
		tileThickness = math.Max(2, g.Layout.Size*cam.Zoom*0.15)
	}

	for _, j := range joins {
		sp := cam.ToScreen(j.At, opts.ViewW, opts.ViewH)

		path := r.CornerNarrowPath
		if j.Wide {
			path = r.CornerWidePath
		}
		img, ok := r.assets.Get(path)
		if !ok {
			vector.DrawFilledCircle(dst, float32(sp.X), float32(sp.Y), float32(tileThickness/2), coastFallbackColor, true)
			continue
		}

		bounds := img.Bounds()
		scale := tileThickness / float64(bounds.Dy())
		w := float64(bounds.Dx()) * scale
		h := float64(bounds.Dy()) * scale

		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(scale, scale)
		op.GeoM.Translate(-w/2, -h/2)
		op.GeoM.Rotate(math.Atan2(j.Dir.Y, j.Dir.X))
		op.GeoM.Translate(sp.X, sp.Y)
		dst.DrawImage(img, op)
	}
}
