package terrain

import (
	"fmt"
	"image/color"
	"log/slog"
	"math/rand"
)

// Value is a validated, choosable value of a layer.
type Value struct {
	ID            string
	Weight        float64
	Color         color.RGBA
	Tint          color.RGBA
	HasTint       bool
	Sprite        string
	Texture       string
	Water         bool
	Shallow       bool
	Walkable      bool
	Buildable     bool
	MoveCost      float64
	ElevationTier int
	MoisturePref  float64

	require map[string][]string
	exclude map[string][]string
}

// Layer is a validated layer: an ordered value set plus a designated
// fallback id used when constraints empty the candidate set.
type Layer struct {
	Name     string
	Fallback string

	order  []string
	values map[string]*Value
}

// Values returns the layer's value ids in declaration order.
func (l *Layer) Values() []string {
	out := make([]string, len(l.order))
	copy(out, l.order)
	return out
}

// Model answers validity, selection, and composite-resolution queries over
// a validated terrain configuration. It is immutable after construction.
type Model struct {
	order  []string
	layers map[string]*Layer
}

// NewModel validates a configuration and builds the queryable model.
// All configuration errors are reported here, before any generation.
func NewModel(cfg Config) (*Model, error) {
	if len(cfg.Layers) == 0 {
		return nil, fmt.Errorf("terrain config: no layers defined")
	}

	m := &Model{layers: make(map[string]*Layer, len(cfg.Layers))}
	// Layers declared so far; constraints may only look backward.
	earlier := make(map[string]*Layer)

	for _, lc := range cfg.Layers {
		if lc.Name == "" {
			return nil, fmt.Errorf("terrain config: layer with empty name")
		}
		if _, dup := m.layers[lc.Name]; dup {
			return nil, fmt.Errorf("terrain config: duplicate layer %q", lc.Name)
		}
		if len(lc.Values) == 0 {
			return nil, fmt.Errorf("terrain config: layer %q has no values", lc.Name)
		}

		layer := &Layer{
			Name:     lc.Name,
			Fallback: lc.Fallback,
			values:   make(map[string]*Value, len(lc.Values)),
		}

		for _, vc := range lc.Values {
			if vc.ID == "" {
				return nil, fmt.Errorf("terrain config: layer %q has a value with empty id", lc.Name)
			}
			if _, dup := layer.values[vc.ID]; dup {
				return nil, fmt.Errorf("terrain config: layer %q: duplicate value %q", lc.Name, vc.ID)
			}
			if vc.Weight < 0 {
				return nil, fmt.Errorf("terrain config: %s/%s: negative weight %.3f", lc.Name, vc.ID, vc.Weight)
			}

			v := &Value{
				ID:            vc.ID,
				Weight:        vc.Weight,
				Sprite:        vc.Sprite,
				Texture:       vc.Texture,
				Water:         vc.Water,
				Shallow:       vc.Shallow,
				Walkable:      true,
				Buildable:     false,
				MoveCost:      vc.MoveCost,
				ElevationTier: vc.ElevationTier,
				MoisturePref:  vc.MoisturePref,
				require:       vc.Require,
				exclude:       vc.Exclude,
			}
			if vc.Walkable != nil {
				v.Walkable = *vc.Walkable
			}
			if vc.Buildable != nil {
				v.Buildable = *vc.Buildable
			}
			if vc.Color != "" {
				c, err := parseHexColor(vc.Color)
				if err != nil {
					return nil, fmt.Errorf("terrain config: %s/%s: %w", lc.Name, vc.ID, err)
				}
				v.Color = c
			}
			if vc.Tint != "" {
				c, err := parseHexColor(vc.Tint)
				if err != nil {
					return nil, fmt.Errorf("terrain config: %s/%s tint: %w", lc.Name, vc.ID, err)
				}
				v.Tint = c
				v.HasTint = true
			}

			// Constraints must reference earlier layers and existing ids.
			for cname, ids := range vc.Require {
				if err := checkConstraintRef(earlier, lc.Name, vc.ID, cname, ids); err != nil {
					return nil, err
				}
			}
			for cname, ids := range vc.Exclude {
				if err := checkConstraintRef(earlier, lc.Name, vc.ID, cname, ids); err != nil {
					return nil, err
				}
			}

			layer.values[vc.ID] = v
			layer.order = append(layer.order, vc.ID)
		}

		if _, ok := layer.values[lc.Fallback]; !ok {
			return nil, fmt.Errorf("terrain config: layer %q: fallback %q is not a declared value", lc.Name, lc.Fallback)
		}

		m.layers[lc.Name] = layer
		m.order = append(m.order, lc.Name)
		earlier[lc.Name] = layer
	}

	return m, nil
}

func checkConstraintRef(earlier map[string]*Layer, layer, value, refLayer string, ids []string) error {
	ref, ok := earlier[refLayer]
	if !ok {
		return fmt.Errorf("terrain config: %s/%s: constraint references layer %q not declared earlier", layer, value, refLayer)
	}
	for _, id := range ids {
		if _, ok := ref.values[id]; !ok {
			return fmt.Errorf("terrain config: %s/%s: constraint references unknown value %s/%s", layer, value, refLayer, id)
		}
	}
	return nil
}

// Layers returns layer names in generation order.
func (m *Model) Layers() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Layer returns the named layer, if declared.
func (m *Model) Layer(name string) (*Layer, bool) {
	l, ok := m.layers[name]
	return l, ok
}

// Value returns a layer's value definition by id.
func (m *Model) Value(layer, id string) (*Value, bool) {
	l, ok := m.layers[layer]
	if !ok {
		return nil, false
	}
	v, ok := l.values[id]
	return v, ok
}

// FallbackFor returns the designated fallback value id for a layer.
func (m *Model) FallbackFor(layer string) string {
	if l, ok := m.layers[layer]; ok {
		return l.Fallback
	}
	return ""
}

// IsValueValid reports whether a candidate value satisfies all of its
// constraints against the current partial assignment. Constraints that
// reference a layer not yet assigned are automatically satisfied:
// constraints only look backward in generation order.
func (m *Model) IsValueValid(layer, valueID string, chosen map[string]string) bool {
	l, ok := m.layers[layer]
	if !ok {
		return false
	}
	v, ok := l.values[valueID]
	if !ok {
		return false
	}

	for refLayer, allowed := range v.require {
		current, assigned := chosen[refLayer]
		if !assigned {
			continue
		}
		if !containsString(allowed, current) {
			return false
		}
	}
	for refLayer, excluded := range v.exclude {
		current, assigned := chosen[refLayer]
		if !assigned {
			continue
		}
		if containsString(excluded, current) {
			return false
		}
	}
	return true
}

// ValidValuesFor returns the layer's value ids, in declaration order, that
// are valid given the partial assignment so far.
func (m *Model) ValidValuesFor(layer string, chosen map[string]string) []string {
	l, ok := m.layers[layer]
	if !ok {
		return nil
	}
	var out []string
	for _, id := range l.order {
		if m.IsValueValid(layer, id, chosen) {
			out = append(out, id)
		}
	}
	return out
}

// WeightedRandomValue picks one candidate id with probability proportional
// to its generation weight. An empty candidate set, or one whose weights
// sum to zero, resolves to the layer's fallback — a layer is never left
// unset.
func (m *Model) WeightedRandomValue(layer string, candidates []string, rng *rand.Rand) string {
	l, ok := m.layers[layer]
	if !ok {
		return ""
	}
	total := 0.0
	for _, id := range candidates {
		if v, ok := l.values[id]; ok {
			total += v.Weight
		}
	}
	if total <= 0 {
		slog.Debug("no weighted candidates, using fallback", "layer", layer, "fallback", l.Fallback)
		return l.Fallback
	}

	pick := rng.Float64() * total
	for _, id := range candidates {
		v, ok := l.values[id]
		if !ok {
			continue
		}
		pick -= v.Weight
		if pick < 0 {
			return id
		}
	}
	// Floating point slack: land on the last weighted candidate.
	for i := len(candidates) - 1; i >= 0; i-- {
		if v, ok := l.values[candidates[i]]; ok && v.Weight > 0 {
			return candidates[i]
		}
	}
	return l.Fallback
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
