package terrain

import (
	"image/color"
	"math"
)

// Composite is the derived terrain descriptor for a full layer-value tuple.
// It is a pure projection of the tuple: never stored as generation state,
// always recomputable from layer values alone.
type Composite struct {
	Color     color.RGBA
	Water     bool
	Walkable  bool
	Buildable bool
	MoveCost  float64 // +Inf when impassable
}

// Movement cost of walkable shallow water.
const shallowWaterCost = 4.0

// Additive lightening per elevation tier, applied to land colors.
const tierLighten = 18

// ResolveComposite derives the composite terrain for a layer-value tuple.
// Water heights override vegetation entirely: a water cell's appearance and
// gameplay attributes come from the height value alone. Land color is the
// vegetation base blended 80/20 with the climate tint (when present), then
// lightened per elevation tier. Movement cost on land is the vegetation
// base cost plus 0.5 per elevation tier.
func (m *Model) ResolveComposite(values map[string]string) Composite {
	height := m.valueOrFallback(LayerHeight, values)

	if height != nil && height.Water {
		c := Composite{
			Color:    height.Color,
			Water:    true,
			Walkable: height.Shallow,
			MoveCost: math.Inf(1),
		}
		if height.Shallow {
			c.MoveCost = shallowWaterCost
		}
		return c
	}

	veg := m.valueOrFallback(LayerVegetation, values)
	climate := m.valueOrFallback(LayerClimate, values)

	tier := 0
	if height != nil {
		tier = height.ElevationTier
	}

	c := Composite{
		Walkable:  true,
		Buildable: false,
		MoveCost:  float64(tier) * 0.5,
	}
	if veg != nil {
		c.Color = veg.Color
		c.Walkable = veg.Walkable
		c.Buildable = veg.Buildable
		c.MoveCost += veg.MoveCost
	}
	if climate != nil && climate.HasTint {
		c.Color = blend(c.Color, climate.Tint, 0.2)
	}
	if tier > 0 {
		c.Color = lighten(c.Color, uint8(tier*tierLighten))
	}
	if !c.Walkable {
		c.MoveCost = math.Inf(1)
	}
	return c
}

// valueOrFallback resolves the chosen value for a layer, falling back to the
// layer's designated default when unset or unknown.
func (m *Model) valueOrFallback(layer string, values map[string]string) *Value {
	l, ok := m.layers[layer]
	if !ok {
		return nil
	}
	if id, ok := values[layer]; ok {
		if v, ok := l.values[id]; ok {
			return v
		}
	}
	return l.values[l.Fallback]
}

// blend mixes t of the tint color into base (t in [0,1]).
func blend(base, tint color.RGBA, t float64) color.RGBA {
	mix := func(a, b uint8) uint8 {
		return uint8(float64(a)*(1-t) + float64(b)*t)
	}
	return color.RGBA{
		R: mix(base.R, tint.R),
		G: mix(base.G, tint.G),
		B: mix(base.B, tint.B),
		A: 255,
	}
}

// lighten adds a flat amount to each channel, clamped at white.
func lighten(c color.RGBA, amount uint8) color.RGBA {
	add := func(v uint8) uint8 {
		sum := int(v) + int(amount)
		if sum > 255 {
			sum = 255
		}
		return uint8(sum)
	}
	return color.RGBA{R: add(c.R), G: add(c.G), B: add(c.B), A: 255}
}
