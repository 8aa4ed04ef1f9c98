// Package terrain declares the layered terrain model: named layers with
// weighted value definitions, inter-layer constraints, and resolution of a
// full layer-value tuple into a composite terrain descriptor.
package terrain

import (
	"fmt"
	"image/color"
	"os"

	"gopkg.in/yaml.v3"
)

// Well-known layer names. The model itself is layer-agnostic, but composite
// resolution and the generator give these three special meaning.
const (
	LayerHeight     = "height"
	LayerClimate    = "climate"
	LayerVegetation = "vegetation"
)

// Config is the serializable terrain configuration: an ordered list of
// layer definitions. Order is generation order — constraints may only
// reference layers declared earlier.
type Config struct {
	Layers []LayerConfig `yaml:"layers"`
}

// LayerConfig declares one layer and its value set.
type LayerConfig struct {
	Name     string        `yaml:"name"`
	Fallback string        `yaml:"fallback"`
	Values   []ValueConfig `yaml:"values"`
}

// ValueConfig declares one choosable value of a layer.
type ValueConfig struct {
	ID     string  `yaml:"id"`
	Weight float64 `yaml:"weight"`

	// Appearance. Color is "#rrggbb"; Tint is an optional climate tint
	// blended into land colors. Sprite and Texture are asset path hints.
	Color   string `yaml:"color,omitempty"`
	Tint    string `yaml:"tint,omitempty"`
	Sprite  string `yaml:"sprite,omitempty"`
	Texture string `yaml:"texture,omitempty"`

	// Gameplay attributes.
	Water         bool    `yaml:"water,omitempty"`
	Shallow       bool    `yaml:"shallow,omitempty"` // walkable water
	Walkable      *bool   `yaml:"walkable,omitempty"`
	Buildable     *bool   `yaml:"buildable,omitempty"`
	MoveCost      float64 `yaml:"move_cost,omitempty"`
	ElevationTier int     `yaml:"elevation_tier,omitempty"`

	// MoisturePref positions the value on the moisture axis for
	// nearest-preference selection during generation.
	MoisturePref float64 `yaml:"moisture_pref,omitempty"`

	// Constraints against layers declared earlier in the config.
	Require map[string][]string `yaml:"require,omitempty"`
	Exclude map[string][]string `yaml:"exclude,omitempty"`
}

// LoadConfig reads and parses a terrain configuration file. Any structural
// problem is fatal here, before generation is ever attempted.
func LoadConfig(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read terrain config: %w", err)
	}
	return ParseConfig(b)
}

// ParseConfig parses a YAML terrain configuration.
func ParseConfig(b []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse terrain config: %w", err)
	}
	return cfg, nil
}

// parseHexColor parses "#rrggbb" into an opaque RGBA color.
func parseHexColor(s string) (color.RGBA, error) {
	if len(s) != 7 || s[0] != '#' {
		return color.RGBA{}, fmt.Errorf("color %q: want #rrggbb", s)
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// DefaultConfig returns the built-in terrain configuration used when no
// config file is supplied. Three layers in generation order: height,
// climate, vegetation.
func DefaultConfig() Config {
	boolPtr := func(v bool) *bool { return &v }
	return Config{
		Layers: []LayerConfig{
			{
				Name:     LayerHeight,
				Fallback: "lowland",
				Values: []ValueConfig{
					{ID: "deep_water", Weight: 2, Color: "#1a4a7a", Water: true},
					{ID: "shallow_water", Weight: 1.5, Color: "#2d6da3", Water: true, Shallow: true},
					{ID: "lowland", Weight: 4, Color: "#7a9b5a", ElevationTier: 0},
					{ID: "hills", Weight: 2, Color: "#8a8a5a", ElevationTier: 1, Texture: "assets/textures/hills.png"},
					{ID: "mountains", Weight: 1, Color: "#7d7d7d", ElevationTier: 2, MoveCost: 1, Texture: "assets/textures/mountains.png"},
				},
			},
			{
				Name:     LayerClimate,
				Fallback: "moderate",
				Values: []ValueConfig{
					{ID: "cold", Weight: 1, Color: "#cfe3ec", Tint: "#dce9f2"},
					{ID: "moderate", Weight: 2, Color: "#9bb86a"},
					{ID: "hot", Weight: 1, Color: "#d8b35a", Tint: "#e0c070"},
				},
			},
			{
				Name:     LayerVegetation,
				Fallback: "barren",
				Values: []ValueConfig{
					{
						ID: "barren", Weight: 0.5, Color: "#9a8f78",
						MoveCost: 1, MoisturePref: 0.1,
						Buildable: boolPtr(true),
					},
					{
						ID: "grassland", Weight: 4, Color: "#86b04e",
						MoveCost: 1, MoisturePref: 0.45,
						Buildable: boolPtr(true),
						Require:   map[string][]string{LayerHeight: {"lowland", "hills"}},
						Sprite:    "assets/sprites/grassland.png",
					},
					{
						ID: "forest", Weight: 3, Color: "#3e6b34",
						MoveCost: 1.5, MoisturePref: 0.65,
						Require: map[string][]string{LayerHeight: {"lowland", "hills"}},
						Exclude: map[string][]string{LayerClimate: {"hot"}},
						Sprite:  "assets/sprites/forest.png",
						Texture: "assets/textures/forest.png",
					},
					{
						ID: "jungle", Weight: 2, Color: "#2e7a3c",
						MoveCost: 2, MoisturePref: 0.85,
						Require: map[string][]string{
							LayerHeight:  {"lowland"},
							LayerClimate: {"hot"},
						},
						Sprite: "assets/sprites/jungle.png",
					},
					{
						ID: "desert", Weight: 1.5, Color: "#d9c27e",
						MoveCost: 1.5, MoisturePref: 0.05,
						Require: map[string][]string{
							LayerHeight:  {"lowland", "hills"},
							LayerClimate: {"hot"},
						},
						Sprite: "assets/sprites/desert.png",
					},
					{
						ID: "tundra", Weight: 1, Color: "#b8c4bd",
						MoveCost: 1.5, MoisturePref: 0.3,
						Require: map[string][]string{
							LayerHeight:  {"lowland", "hills"},
							LayerClimate: {"cold"},
						},
					},
					{
						ID: "snowcap", Weight: 1, Color: "#e8eef2",
						MoveCost: 2.5, MoisturePref: 0.4,
						Require: map[string][]string{LayerHeight: {"mountains"}},
						Exclude: map[string][]string{LayerClimate: {"hot"}},
						Texture: "assets/textures/snowcap.png",
					},
				},
			},
		},
	}
}
