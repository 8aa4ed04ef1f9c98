// Package worldgen generates hex world grids from layered noise fields,
// mapping samples to terrain layer values through the constraint model.
package worldgen

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"

	"hexworld/internal/grid"
	"hexworld/internal/hexmath"
	"hexworld/internal/noise"
	"hexworld/internal/terrain"
)

// Mode selects how layer values are assigned.
type Mode uint8

const (
	// ModeNoise drives assignment from coherent noise fields, producing
	// locally coherent biome bands.
	ModeNoise Mode = iota
	// ModeRandom assigns pure weighted-random values per layer, respecting
	// constraints. Cheap regeneration for testing and quick previews.
	ModeRandom
)

// Threshold maps the upper bound of a sample interval to a layer value id.
// A threshold list must be ascending and exhaustive over [0, 1].
type Threshold struct {
	Max float64
	ID  string
}

// Config holds world generation parameters.
type Config struct {
	Width       int
	Height      int
	CellSize    float64
	Orientation hexmath.Orientation
	Seed        int64 // 0 = random
	Mode        Mode

	// Island forces map edges toward water via a radial falloff on the
	// height sample.
	Island bool

	// Noise shape.
	Octaves     int
	Persistence float64
	HeightFreq  float64
	ClimateFreq float64
	MoistureFreq float64

	// LatitudeBlend mixes a distance-from-vertical-center term into the
	// climate sample (0 = pure noise, 1 = pure latitude).
	LatitudeBlend float64

	HeightThresholds  []Threshold
	ClimateThresholds []Threshold
}

// DefaultConfig returns a reasonable starting configuration.
func DefaultConfig() Config {
	return Config{
		Width:        64,
		Height:       48,
		CellSize:     24,
		Orientation:  hexmath.PointyTop,
		Mode:         ModeNoise,
		Octaves:      4,
		Persistence:  0.5,
		HeightFreq:   0.08,
		ClimateFreq:  0.05,
		MoistureFreq: 0.06,
		LatitudeBlend: 0.3,
		HeightThresholds: []Threshold{
			{Max: 0.32, ID: "deep_water"},
			{Max: 0.42, ID: "shallow_water"},
			{Max: 0.62, ID: "lowland"},
			{Max: 0.80, ID: "hills"},
			{Max: 1.00, ID: "mountains"},
		},
		ClimateThresholds: []Threshold{
			{Max: 0.33, ID: "cold"},
			{Max: 0.66, ID: "moderate"},
			{Max: 1.00, ID: "hot"},
		},
	}
}

// Validate checks the configuration against the terrain model. All problems
// here are fatal before generation starts.
func (cfg Config) Validate(model *terrain.Model) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("worldgen config: bounds %dx%d must be positive", cfg.Width, cfg.Height)
	}
	if cfg.CellSize <= 0 {
		return fmt.Errorf("worldgen config: cell size %.2f must be positive", cfg.CellSize)
	}
	if cfg.Mode == ModeNoise {
		if err := checkThresholds(model, terrain.LayerHeight, cfg.HeightThresholds); err != nil {
			return err
		}
		if err := checkThresholds(model, terrain.LayerClimate, cfg.ClimateThresholds); err != nil {
			return err
		}
	}
	return nil
}

func checkThresholds(model *terrain.Model, layer string, ts []Threshold) error {
	if len(ts) == 0 {
		return fmt.Errorf("worldgen config: no thresholds for layer %q", layer)
	}
	prev := math.Inf(-1)
	for _, t := range ts {
		if t.Max <= prev {
			return fmt.Errorf("worldgen config: layer %q thresholds must be strictly ascending", layer)
		}
		prev = t.Max
		if _, ok := model.Value(layer, t.ID); !ok {
			return fmt.Errorf("worldgen config: layer %q threshold references unknown value %q", layer, t.ID)
		}
	}
	if ts[len(ts)-1].Max < 1 {
		return fmt.Errorf("worldgen config: layer %q thresholds do not cover [0,1]", layer)
	}
	return nil
}

// Generate creates a complete grid for the configuration. The returned grid
// is fresh and fully populated: callers replace their previous grid
// wholesale, never patch it incrementally.
func Generate(cfg Config, model *terrain.Model) (*grid.Grid, error) {
	if err := cfg.Validate(model); err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}

	layout := hexmath.Layout{Orientation: cfg.Orientation, Size: cfg.CellSize}
	g := grid.New(cfg.Width, cfg.Height, layout, seed)

	switch cfg.Mode {
	case ModeRandom:
		generateRandom(cfg, model, g, seed)
	default:
		generateNoise(cfg, model, g, seed)
	}

	slog.Info("world generated",
		"world_id", g.WorldID,
		"seed", seed,
		"cells", g.Len(),
		"mode", cfg.Mode,
	)
	return g, nil
}

// generateNoise assigns layer values from three decorrelated noise channels.
func generateNoise(cfg Config, model *terrain.Model, g *grid.Grid, seed int64) {
	src := noise.NewSource(seed)
	heightField := src.Field(noise.ChannelHeight)
	climateField := src.Field(noise.ChannelClimate)
	moistureField := src.Field(noise.ChannelMoisture)

	// Extra layers beyond the three noise-driven ones fall back to
	// constrained weighted random; raster order keeps this deterministic.
	rng := rand.New(rand.NewSource(seed))

	fallbacks := 0
	for row := 0; row < cfg.Height; row++ {
		for col := 0; col < cfg.Width; col++ {
			coord := hexmath.OffsetToAxial(col, row, cfg.Orientation)
			p := hexmath.ToPixel(coord, g.Layout)
			// Sample in cell units so noise shape is independent of pixel size.
			x := p.X / cfg.CellSize
			y := p.Y / cfg.CellSize

			h := heightField.OctaveSample(x, y, cfg.Octaves, cfg.Persistence, cfg.HeightFreq)
			if cfg.Island {
				h *= radialFalloff(col, row, cfg.Width, cfg.Height)
			}

			c := climateField.OctaveSample(x, y, cfg.Octaves, cfg.Persistence, cfg.ClimateFreq)
			if cfg.LatitudeBlend > 0 {
				c = c*(1-cfg.LatitudeBlend) + equatorCloseness(row, cfg.Height)*cfg.LatitudeBlend
			}

			mo := moistureField.OctaveSample(x, y, cfg.Octaves, cfg.Persistence, cfg.MoistureFreq)

			chosen := make(map[string]string, 4)
			for _, layer := range model.Layers() {
				var id string
				switch layer {
				case terrain.LayerHeight:
					id = thresholdID(h, cfg.HeightThresholds)
				case terrain.LayerClimate:
					id = thresholdID(c, cfg.ClimateThresholds)
				case terrain.LayerVegetation:
					var fell bool
					id, fell = nearestMoistureValue(model, chosen, mo)
					if fell {
						fallbacks++
					}
				default:
					id = model.WeightedRandomValue(layer, model.ValidValuesFor(layer, chosen), rng)
				}
				chosen[layer] = id
			}

			g.Set(grid.NewCell(coord, chosen))
		}
	}

	if fallbacks > 0 {
		slog.Debug("vegetation fell back to neutral value", "cells", fallbacks)
	}
}

// nearestMoistureValue selects, among the valid vegetation candidates, the
// one whose declared moisture preference is closest to the sampled
// moisture. Ties break toward the lexically smaller value id. Reports
// whether the layer fallback had to be used.
func nearestMoistureValue(model *terrain.Model, chosen map[string]string, moisture float64) (string, bool) {
	candidates := model.ValidValuesFor(terrain.LayerVegetation, chosen)
	if len(candidates) == 0 {
		return model.FallbackFor(terrain.LayerVegetation), true
	}

	bestID := ""
	bestDist := math.Inf(1)
	for _, id := range candidates {
		v, ok := model.Value(terrain.LayerVegetation, id)
		if !ok {
			continue
		}
		d := math.Abs(v.MoisturePref - moisture)
		if d < bestDist || (d == bestDist && id < bestID) {
			bestDist = d
			bestID = id
		}
	}
	if bestID == "" {
		return model.FallbackFor(terrain.LayerVegetation), true
	}
	return bestID, false
}

// generateRandom assigns pure weighted-random values per layer in raster
// order, respecting constraints against earlier layers.
func generateRandom(cfg Config, model *terrain.Model, g *grid.Grid, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	for row := 0; row < cfg.Height; row++ {
		for col := 0; col < cfg.Width; col++ {
			coord := hexmath.OffsetToAxial(col, row, cfg.Orientation)
			chosen := make(map[string]string, 4)
			for _, layer := range model.Layers() {
				candidates := model.ValidValuesFor(layer, chosen)
				chosen[layer] = model.WeightedRandomValue(layer, candidates, rng)
			}
			g.Set(grid.NewCell(coord, chosen))
		}
	}
}

// thresholdID maps a sample in [0,1] through ascending thresholds to a
// value id. The list is exhaustive, so every sample lands in exactly one
// interval.
func thresholdID(v float64, ts []Threshold) string {
	for _, t := range ts {
		if v <= t.Max {
			return t.ID
		}
	}
	return ts[len(ts)-1].ID
}

// radialFalloff is 1 at the map center and approaches 0 at the edges,
// pushing island-mode edges toward water.
func radialFalloff(col, row, width, height int) float64 {
	cx := float64(width-1) / 2
	cy := float64(height-1) / 2
	dx := (float64(col) - cx) / (float64(width) / 2)
	dy := (float64(row) - cy) / (float64(height) / 2)
	d := math.Sqrt(dx*dx + dy*dy)
	f := 1 - math.Pow(d, 3.5)
	if f < 0 {
		return 0
	}
	return f
}

// equatorCloseness is 1 at the vertical map center and 0 at the top and
// bottom rows.
func equatorCloseness(row, height int) float64 {
	cy := float64(height-1) / 2
	if cy == 0 {
		return 1
	}
	return 1 - math.Abs(float64(row)-cy)/cy
}

// LayerCounts summarizes the distribution of a layer's values across the
// grid.
func LayerCounts(g *grid.Grid, layer string) map[string]int {
	counts := make(map[string]int)
	g.Each(func(c *grid.Cell) {
		counts[c.Layers[layer]]++
	})
	return counts
}
