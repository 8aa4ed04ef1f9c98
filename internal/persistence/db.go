// Package persistence provides SQLite-based grid snapshot storage.
// Rendering never depends on it; it exists so generated worlds can be kept
// and reloaded across runs.
package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"hexworld/internal/grid"
	"hexworld/internal/hexmath"
)

// DB wraps a SQLite connection for grid snapshot persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS worlds (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		orientation INTEGER NOT NULL,
		cell_size REAL NOT NULL,
		saved_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS cells (
		world_id TEXT NOT NULL,
		q INTEGER NOT NULL,
		r INTEGER NOT NULL,
		layers_json TEXT NOT NULL,
		PRIMARY KEY (world_id, q, r)
	);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveGrid writes a full grid snapshot, replacing any previous snapshot of
// the same world.
func (db *DB) SaveGrid(g *grid.Grid) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	meta := g.SnapshotMeta()
	_, err = tx.Exec(`INSERT OR REPLACE INTO worlds
		(id, seed, width, height, orientation, cell_size, saved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		meta.WorldID, meta.Seed, meta.Width, meta.Height,
		int(meta.Orientation), meta.CellSize,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert world %s: %w", meta.WorldID, err)
	}

	if _, err := tx.Exec("DELETE FROM cells WHERE world_id = ?", meta.WorldID); err != nil {
		return err
	}

	stmt, err := tx.Preparex("INSERT INTO cells (world_id, q, r, layers_json) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, rec := range g.Snapshot() {
		layersJSON, err := json.Marshal(rec.Layers)
		if err != nil {
			return fmt.Errorf("marshal cell (%d,%d): %w", rec.Q, rec.R, err)
		}
		if _, err := stmt.Exec(meta.WorldID, rec.Q, rec.R, string(layersJSON)); err != nil {
			return fmt.Errorf("insert cell (%d,%d): %w", rec.Q, rec.R, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	slog.Info("grid saved", "world_id", meta.WorldID, "cells", g.Len())
	return nil
}

// LoadGrid reconstructs a saved grid by world id.
func (db *DB) LoadGrid(worldID string) (*grid.Grid, error) {
	var world struct {
		ID          string  `db:"id"`
		Seed        int64   `db:"seed"`
		Width       int     `db:"width"`
		Height      int     `db:"height"`
		Orientation int     `db:"orientation"`
		CellSize    float64 `db:"cell_size"`
		SavedAt     string  `db:"saved_at"`
	}
	err := db.conn.Get(&world,
		"SELECT id, seed, width, height, orientation, cell_size, saved_at FROM worlds WHERE id = ?",
		worldID,
	)
	if err != nil {
		return nil, fmt.Errorf("load world %s: %w", worldID, err)
	}

	rows, err := db.conn.Queryx("SELECT q, r, layers_json FROM cells WHERE world_id = ?", worldID)
	if err != nil {
		return nil, fmt.Errorf("load cells of %s: %w", worldID, err)
	}
	defer rows.Close()

	var records []grid.CellRecord
	for rows.Next() {
		var q, r int
		var layersJSON string
		if err := rows.Scan(&q, &r, &layersJSON); err != nil {
			return nil, err
		}
		layers := make(map[string]string)
		if err := json.Unmarshal([]byte(layersJSON), &layers); err != nil {
			return nil, fmt.Errorf("cell (%d,%d): %w", q, r, err)
		}
		records = append(records, grid.CellRecord{Q: q, R: r, Layers: layers})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	meta := grid.Meta{
		WorldID:     world.ID,
		Seed:        world.Seed,
		Width:       world.Width,
		Height:      world.Height,
		Orientation: hexmath.Orientation(world.Orientation),
		CellSize:    world.CellSize,
	}
	return grid.FromSnapshot(meta, records), nil
}

// LatestWorldID returns the most recently saved world id, or "" when the
// database holds no worlds.
func (db *DB) LatestWorldID() (string, error) {
	var id string
	err := db.conn.Get(&id, "SELECT id FROM worlds ORDER BY saved_at DESC LIMIT 1")
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("latest world: %w", err)
	}
	return id, nil
}
