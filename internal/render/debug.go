package render

import (
	"image/color"

	"hexworld/internal/grid"
	"hexworld/internal/terrain"
)

// DebugMode selects a single-pass categorical fill that bypasses the normal
// multi-pass pipeline, for verifying generator output independent of art
// assets.
type DebugMode uint8

const (
	DebugNone DebugMode = iota
	DebugWaterLand
	DebugHeight
	DebugClimate
	DebugVegetation
)

// String names the debug mode for logging and HUD display.
func (m DebugMode) String() string {
	switch m {
	case DebugNone:
		return "off"
	case DebugWaterLand:
		return "water/land"
	case DebugHeight:
		return "height"
	case DebugClimate:
		return "climate"
	case DebugVegetation:
		return "vegetation"
	default:
		return "unknown"
	}
}

var debugUnknown = color.RGBA{R: 200, G: 60, B: 200, A: 255}

var debugHeightColors = map[string]color.RGBA{
	"deep_water":    {R: 20, G: 40, B: 120, A: 255},
	"shallow_water": {R: 50, G: 90, B: 170, A: 255},
	"lowland":       {R: 90, G: 160, B: 70, A: 255},
	"hills":         {R: 170, G: 150, B: 80, A: 255},
	"mountains":     {R: 130, G: 130, B: 130, A: 255},
}

var debugClimateColors = map[string]color.RGBA{
	"cold":     {R: 190, G: 220, B: 240, A: 255},
	"moderate": {R: 120, G: 180, B: 90, A: 255},
	"hot":      {R: 230, G: 160, B: 60, A: 255},
}

var debugVegetationColors = map[string]color.RGBA{
	"barren":    {R: 150, G: 140, B: 120, A: 255},
	"grassland": {R: 120, G: 190, B: 70, A: 255},
	"forest":    {R: 40, G: 110, B: 50, A: 255},
	"jungle":    {R: 30, G: 150, B: 70, A: 255},
	"desert":    {R: 230, G: 210, B: 130, A: 255},
	"tundra":    {R: 180, G: 200, B: 190, A: 255},
	"snowcap":   {R: 240, G: 245, B: 250, A: 255},
}

// DebugColor returns the categorical color for a cell under a debug mode.
func DebugColor(mode DebugMode, cell *grid.Cell, model *terrain.Model) color.RGBA {
	switch mode {
	case DebugWaterLand:
		if cell.Composite(model).Water {
			return color.RGBA{R: 30, G: 60, B: 150, A: 255}
		}
		return color.RGBA{R: 80, G: 150, B: 60, A: 255}
	case DebugHeight:
		return paletteColor(debugHeightColors, cell.Layers[terrain.LayerHeight])
	case DebugClimate:
		return paletteColor(debugClimateColors, cell.Layers[terrain.LayerClimate])
	case DebugVegetation:
		return paletteColor(debugVegetationColors, cell.Layers[terrain.LayerVegetation])
	default:
		return cell.Composite(model).Color
	}
}

func paletteColor(palette map[string]color.RGBA, id string) color.RGBA {
	if c, ok := palette[id]; ok {
		return c
	}
	return debugUnknown
}
