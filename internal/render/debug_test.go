package render

import (
	"testing"

	"hexworld/internal/grid"
	"hexworld/internal/hexmath"
	"hexworld/internal/terrain"
)

func TestDebugColorsCategorical(t *testing.T) {
	m := testModel(t)
	water := grid.NewCell(hexmath.Coord{}, map[string]string{
		terrain.LayerHeight:     "deep_water",
		terrain.LayerClimate:    "hot",
		terrain.LayerVegetation: "barren",
	})
	land := grid.NewCell(hexmath.Coord{Q: 1}, map[string]string{
		terrain.LayerHeight:     "hills",
		terrain.LayerClimate:    "hot",
		terrain.LayerVegetation: "grassland",
	})

	if DebugColor(DebugWaterLand, water, m) == DebugColor(DebugWaterLand, land, m) {
		t.Fatal("water and land must differ in water/land view")
	}
	if DebugColor(DebugHeight, water, m) == DebugColor(DebugHeight, land, m) {
		t.Fatal("different height tiers must differ in height view")
	}
	// Same climate: identical color in climate view regardless of terrain.
	if DebugColor(DebugClimate, water, m) != DebugColor(DebugClimate, land, m) {
		t.Fatal("same climate must render the same in climate view")
	}
}

func TestDebugColorUnknownValue(t *testing.T) {
	m := testModel(t)
	c := grid.NewCell(hexmath.Coord{}, map[string]string{terrain.LayerHeight: "void"})
	if DebugColor(DebugHeight, c, m) != debugUnknown {
		t.Fatal("unknown value id must use the sentinel color")
	}
}

func TestDebugModeNames(t *testing.T) {
	modes := []DebugMode{DebugNone, DebugWaterLand, DebugHeight, DebugClimate, DebugVegetation}
	seen := make(map[string]bool)
	for _, mode := range modes {
		name := mode.String()
		if name == "" || name == "unknown" || seen[name] {
			t.Fatalf("mode %d has bad name %q", mode, name)
		}
		seen[name] = true
	}
}
