package grid

import "hexworld/internal/hexmath"

// CellRecord is the flat serialized form of a cell.
type CellRecord struct {
	Q      int               `json:"q"`
	R      int               `json:"r"`
	Layers map[string]string `json:"layers"`
}

// Meta carries the grid-level fields needed to reconstruct a grid from its
// cell records.
type Meta struct {
	WorldID     string
	Seed        int64
	Width       int
	Height      int
	Orientation hexmath.Orientation
	CellSize    float64
}

// Snapshot flattens the grid to cell records in stable key order.
func (g *Grid) Snapshot() []CellRecord {
	cells := g.Cells()
	out := make([]CellRecord, len(cells))
	for i, c := range cells {
		layers := make(map[string]string, len(c.Layers))
		for k, v := range c.Layers {
			layers[k] = v
		}
		out[i] = CellRecord{Q: c.Coord.Q, R: c.Coord.R, Layers: layers}
	}
	return out
}

// SnapshotMeta returns the grid-level reconstruction metadata.
func (g *Grid) SnapshotMeta() Meta {
	return Meta{
		WorldID:     g.WorldID,
		Seed:        g.Seed,
		Width:       g.Width,
		Height:      g.Height,
		Orientation: g.Layout.Orientation,
		CellSize:    g.Layout.Size,
	}
}

// FromSnapshot reconstructs a grid from metadata and cell records.
func FromSnapshot(meta Meta, records []CellRecord) *Grid {
	g := New(meta.Width, meta.Height, hexmath.Layout{
		Orientation: meta.Orientation,
		Size:        meta.CellSize,
	}, meta.Seed)
	if meta.WorldID != "" {
		g.WorldID = meta.WorldID
	}
	for _, rec := range records {
		layers := make(map[string]string, len(rec.Layers))
		for k, v := range rec.Layers {
			layers[k] = v
		}
		g.Set(NewCell(hexmath.Coord{Q: rec.Q, R: rec.R}, layers))
	}
	return g
}
