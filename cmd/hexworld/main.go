// Command hexworld runs the procedural hex world viewer.
package main

import (
	"flag"
	"image/color"
	"log/slog"
	"math/rand"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"hexworld/internal/grid"
	"hexworld/internal/hexmath"
	"hexworld/internal/persistence"
	"hexworld/internal/render"
	"hexworld/internal/terrain"
	"hexworld/internal/worldgen"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	var (
		width      = flag.Int("width", 64, "grid width in cells")
		height     = flag.Int("height", 48, "grid height in cells")
		cellSize   = flag.Float64("cell", 24, "cell size in pixels")
		seed       = flag.Int64("seed", 0, "generation seed (0 = random)")
		island     = flag.Bool("island", false, "force map edges toward water")
		randomMode = flag.Bool("random", false, "pure weighted-random generation")
		configPath = flag.String("config", "", "terrain config YAML (empty = built-in)")
		dbPath     = flag.String("db", "", "sqlite snapshot database (empty = disabled)")
	)
	flag.Parse()

	tcfg := terrain.DefaultConfig()
	if *configPath != "" {
		var err error
		tcfg, err = terrain.LoadConfig(*configPath)
		if err != nil {
			slog.Error("terrain config", "error", err)
			os.Exit(1)
		}
	}
	model, err := terrain.NewModel(tcfg)
	if err != nil {
		slog.Error("terrain config", "error", err)
		os.Exit(1)
	}

	gcfg := worldgen.DefaultConfig()
	gcfg.Width = *width
	gcfg.Height = *height
	gcfg.CellSize = *cellSize
	gcfg.Seed = *seed
	gcfg.Island = *island
	if *randomMode {
		gcfg.Mode = worldgen.ModeRandom
	}

	var db *persistence.DB
	if *dbPath != "" {
		db, err = persistence.Open(*dbPath)
		if err != nil {
			slog.Error("open snapshot database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
	}

	g, err := newGame(model, gcfg, db)
	if err != nil {
		slog.Error("world generation", "error", err)
		os.Exit(1)
	}

	ebiten.SetWindowSize(1280, 800)
	ebiten.SetWindowTitle("hexworld")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(g); err != nil && err != ebiten.Termination {
		slog.Error("game loop", "error", err)
		os.Exit(1)
	}
}

const (
	panSpeed = 12.0 // world units per tick at zoom 1
	zoomStep = 1.1
	defaultW = 1280
	defaultH = 800
)

var backgroundColor = color.RGBA{R: 12, G: 18, B: 28, A: 255}

type game struct {
	model    *terrain.Model
	grid     *grid.Grid
	renderer *render.Renderer
	cam      render.Camera
	genCfg   worldgen.Config
	db       *persistence.DB

	hover        *hexmath.Coord
	viewW, viewH int

	dragging           bool
	dragX, dragY       int
	dragCamX, dragCamY float64
}

func newGame(model *terrain.Model, gcfg worldgen.Config, db *persistence.DB) (*game, error) {
	g := &game{
		model:    model,
		renderer: render.New(model, render.NewRegistry()),
		genCfg:   gcfg,
		db:       db,
		viewW:    defaultW,
		viewH:    defaultH,
	}
	g.renderer.SpriteDir = "assets/sprites"
	g.renderer.TextureDir = "assets/textures"
	g.renderer.CoastImagePath = "assets/borders/coast.png"
	g.renderer.CornerNarrowPath = "assets/borders/coast_corner_narrow.png"
	g.renderer.CornerWidePath = "assets/borders/coast_corner_wide.png"

	if err := g.regenerate(gcfg.Seed); err != nil {
		return nil, err
	}
	g.cam = render.Camera{Zoom: 1, MinZoom: 0.05, MaxZoom: 4}
	g.centerCamera()
	return g, nil
}

// regenerate builds a fresh grid and swaps it in as one unit: the old grid
// and its culled set are discarded together, never half-replaced.
func (g *game) regenerate(seed int64) error {
	cfg := g.genCfg
	cfg.Seed = seed
	world, err := worldgen.Generate(cfg, g.model)
	if err != nil {
		return err
	}
	g.grid = world
	g.renderer.Invalidate()

	for id, n := range worldgen.LayerCounts(world, terrain.LayerHeight) {
		slog.Info("height tier", "value", id, "cells", n)
	}
	return nil
}

func (g *game) centerCamera() {
	center := hexmath.OffsetToAxial(g.grid.Width/2, g.grid.Height/2, g.grid.Layout.Orientation)
	p := hexmath.ToPixel(center, g.grid.Layout)
	g.cam.X = p.X
	g.cam.Y = p.Y
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := g.regenerate(rand.Int63()); err != nil {
			return err
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyI) {
		g.genCfg.Island = !g.genCfg.Island
		if err := g.regenerate(rand.Int63()); err != nil {
			return err
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) && g.db != nil {
		if err := g.db.SaveGrid(g.grid); err != nil {
			slog.Error("save grid", "error", err)
		}
	}

	for key, mode := range map[ebiten.Key]render.DebugMode{
		ebiten.Key0: render.DebugNone,
		ebiten.Key1: render.DebugWaterLand,
		ebiten.Key2: render.DebugHeight,
		ebiten.Key3: render.DebugClimate,
		ebiten.Key4: render.DebugVegetation,
	} {
		if inpututil.IsKeyJustPressed(key) {
			g.renderer.Debug = mode
			slog.Info("debug view", "mode", mode.String())
		}
	}

	g.handleCamera()
	g.updateHover()
	return nil
}

func (g *game) handleCamera() {
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		g.cam.X -= panSpeed / g.cam.Zoom
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		g.cam.X += panSpeed / g.cam.Zoom
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		g.cam.Y -= panSpeed / g.cam.Zoom
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		g.cam.Y += panSpeed / g.cam.Zoom
	}

	// Drag panning.
	mx, my := ebiten.CursorPosition()
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.dragging = true
		g.dragX, g.dragY = mx, my
		g.dragCamX, g.dragCamY = g.cam.X, g.cam.Y
	}
	if g.dragging {
		if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
			g.cam.X = g.dragCamX - float64(mx-g.dragX)/g.cam.Zoom
			g.cam.Y = g.dragCamY - float64(my-g.dragY)/g.cam.Zoom
		} else {
			g.dragging = false
		}
	}

	// Zoom toward the cursor so the point under it stays put.
	if _, wheelY := ebiten.Wheel(); wheelY != 0 {
		cursor := hexmath.Point{X: float64(mx), Y: float64(my)}
		before := g.cam.ToWorld(cursor, float64(g.viewW), float64(g.viewH))

		if wheelY > 0 {
			g.cam.Zoom *= zoomStep
		} else {
			g.cam.Zoom /= zoomStep
		}
		g.cam.ClampZoom()

		after := g.cam.ToWorld(cursor, float64(g.viewW), float64(g.viewH))
		g.cam.X += before.X - after.X
		g.cam.Y += before.Y - after.Y
	}
}

func (g *game) updateHover() {
	mx, my := ebiten.CursorPosition()
	world := g.cam.ToWorld(hexmath.Point{X: float64(mx), Y: float64(my)},
		float64(g.viewW), float64(g.viewH))
	if cell, ok := render.CellAt(g.grid, world); ok {
		coord := cell.Coord
		g.hover = &coord
	} else {
		g.hover = nil
	}
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	g.renderer.RenderFrame(screen, g.grid, g.cam, render.FrameOptions{
		ViewW: float64(g.viewW),
		ViewH: float64(g.viewH),
		Hover: g.hover,
	})
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.viewW = outsideWidth
	g.viewH = outsideHeight
	return outsideWidth, outsideHeight
}
