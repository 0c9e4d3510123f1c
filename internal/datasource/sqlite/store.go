// ============================================================================
// CoachLCD - Panel Script Interpreter
// ============================================================================
//
// Package:     sqlite
// Description: SQLite-backed data source for persistent worlds
// Author:      Mike Stoffels
// Created:     2025-12-14
// License:     MIT
// ============================================================================

// Package sqlite keeps a world in a SQLite database. Surfaces, entities,
// properties and inventories are seeded from a world file with Import;
// rendered output and the color and font size set by scripts are written
// back to the surface rows so other processes can read them.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Coach97/SpaceEngineers-CoachLCD/internal/datasource"
	"github.com/Coach97/SpaceEngineers-CoachLCD/internal/world"
	"github.com/Coach97/SpaceEngineers-CoachLCD/pkg/core/logging"
)

// Config holds configuration for the SQLite store
type Config struct {
	Path       string
	NameSuffix string // Only surfaces whose name ends with this are listed
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		Path:       "./data/coachlcd.db",
		NameSuffix: "[LCD]",
	}
}

// Store implements datasource.DataSource using SQLite
type Store struct {
	db     *sql.DB
	suffix string
	logger *logging.Logger
	mu     sync.RWMutex
}

var _ datasource.DataSource = (*Store)(nil)
var _ datasource.Snapshotter = (*Store)(nil)

// Open opens or creates the database at cfg.Path
func Open(cfg Config) (*Store, error) {
	// Ensure directory exists
	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	// Open database with WAL mode
	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{
		db:     db,
		suffix: cfg.NameSuffix,
		logger: logging.New("sqlite-store"),
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the necessary tables
func (s *Store) initSchema() error {
	schema := `
	-- Display surfaces and their last rendered state
	CREATE TABLE IF NOT EXISTS surfaces (
		id TEXT PRIMARY KEY,
		position INTEGER NOT NULL DEFAULT 0,
		name TEXT NOT NULL DEFAULT '',
		subtype TEXT NOT NULL DEFAULT '',
		text_padding REAL NOT NULL DEFAULT 0,
		font_size REAL NOT NULL DEFAULT 1,
		color_r INTEGER NOT NULL DEFAULT 255,
		color_g INTEGER NOT NULL DEFAULT 255,
		color_b INTEGER NOT NULL DEFAULT 255,
		script TEXT NOT NULL DEFAULT '',
		output TEXT NOT NULL DEFAULT '',
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Named blocks
	CREATE TABLE IF NOT EXISTS entities (
		name TEXT PRIMARY KEY,
		position INTEGER NOT NULL DEFAULT 0,
		kind TEXT NOT NULL DEFAULT 'block',
		status TEXT NOT NULL DEFAULT 'Unknown',
		grid TEXT NOT NULL DEFAULT '',
		partner TEXT NOT NULL DEFAULT '',
		has_inventory INTEGER NOT NULL DEFAULT 0
	);

	-- Boolean terminal properties
	CREATE TABLE IF NOT EXISTS properties (
		entity TEXT NOT NULL,
		name TEXT NOT NULL,
		value INTEGER NOT NULL,
		PRIMARY KEY (entity, name),
		FOREIGN KEY (entity) REFERENCES entities(name) ON DELETE CASCADE
	);

	-- Inventory stacks
	CREATE TABLE IF NOT EXISTS inventory (
		entity TEXT NOT NULL,
		position INTEGER NOT NULL,
		category TEXT NOT NULL,
		subtype TEXT NOT NULL,
		amount REAL NOT NULL DEFAULT 0,
		FOREIGN KEY (entity) REFERENCES entities(name) ON DELETE CASCADE
	);

	-- Indices
	CREATE INDEX IF NOT EXISTS idx_entities_grid ON entities(grid);
	CREATE INDEX IF NOT EXISTS idx_inventory_entity ON inventory(entity);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Import replaces the stored world with w
func (s *Store) Import(ctx context.Context, w *world.World) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin import: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"inventory", "properties", "entities", "surfaces"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for i, sf := range w.Surfaces {
		m := sf.Metrics()
		_, err := tx.ExecContext(ctx, `
			INSERT INTO surfaces (id, position, name, subtype, text_padding, font_size, script)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, sf.ID, i, sf.Name, sf.Subtype, m.TextPaddingPercent, m.FontSize, sf.Script)
		if err != nil {
			return fmt.Errorf("failed to import surface %s: %w", sf.ID, err)
		}
	}

	for i, e := range w.Entities {
		kind := datasource.ParseKind(e.Kind)
		hasInventory := kind == datasource.KindContainer || e.Inventory != nil
		_, err := tx.ExecContext(ctx, `
			INSERT INTO entities (name, position, kind, status, grid, partner, has_inventory)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, e.Name, i, kind.String(), datasource.ParseStatus(e.Status).String(), e.Grid, e.Partner, hasInventory)
		if err != nil {
			return fmt.Errorf("failed to import entity %s: %w", e.Name, err)
		}

		for name, value := range e.Properties {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO properties (entity, name, value) VALUES (?, ?, ?)`,
				e.Name, name, value); err != nil {
				return fmt.Errorf("failed to import property %s.%s: %w", e.Name, name, err)
			}
		}

		for j, item := range e.Inventory {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO inventory (entity, position, category, subtype, amount)
				VALUES (?, ?, ?, ?, ?)
			`, e.Name, j, item.Category, item.Subtype, item.Amount); err != nil {
				return fmt.Errorf("failed to import inventory of %s: %w", e.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}

	s.logger.Info("World imported", "surfaces", len(w.Surfaces), "entities", len(w.Entities))
	return nil
}

// ListSurfaces returns the surfaces matching the name suffix
func (s *Store) ListSurfaces(ctx context.Context) ([]datasource.Surface, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT id, name, script FROM surfaces ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list surfaces: %w", err)
	}
	defer rows.Close()

	var surfaces []datasource.Surface
	for rows.Next() {
		var sf datasource.Surface
		if err := rows.Scan(&sf.ID, &sf.Name, &sf.Script); err != nil {
			return nil, fmt.Errorf("failed to scan surface: %w", err)
		}
		if s.suffix != "" && !strings.HasSuffix(sf.Name, s.suffix) {
			continue
		}
		surfaces = append(surfaces, sf)
	}
	return surfaces, rows.Err()
}

// WidthMetrics returns the current metrics of a surface
func (s *Store) WidthMetrics(surfaceID string) (datasource.WidthMetrics, error) {
	snap, err := s.Snapshot(surfaceID)
	if err != nil {
		return datasource.WidthMetrics{}, err
	}
	return snap.Metrics, nil
}

// Snapshot returns the stored state of a surface
func (s *Store) Snapshot(surfaceID string) (datasource.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT id, name, subtype, text_padding, font_size, color_r, color_g, color_b, script, output
		FROM surfaces WHERE id = ?
	`, surfaceID)

	var snap datasource.Snapshot
	var subtype string
	err := row.Scan(&snap.ID, &snap.Name, &subtype,
		&snap.Metrics.TextPaddingPercent, &snap.Metrics.FontSize,
		&snap.Color.R, &snap.Color.G, &snap.Color.B,
		&snap.Script, &snap.Output)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return datasource.Snapshot{}, fmt.Errorf("%w: %s", datasource.ErrSurfaceNotFound, surfaceID)
		}
		return datasource.Snapshot{}, fmt.Errorf("failed to get surface: %w", err)
	}
	snap.Metrics.BasePanelWidth = datasource.BasePanelWidth(subtype)
	return snap, nil
}

// Output returns the last rendered text of a surface
func (s *Store) Output(surfaceID string) (string, error) {
	snap, err := s.Snapshot(surfaceID)
	if err != nil {
		return "", err
	}
	return snap.Output, nil
}

// SetColor stores the surface color, clamped to 0..255
func (s *Store) SetColor(surfaceID string, r, g, b int) error {
	c := datasource.Color{R: r, G: g, B: b}.Clamp()
	return s.updateSurface(surfaceID, "color_r = ?, color_g = ?, color_b = ?", c.R, c.G, c.B)
}

// SetFontSize stores the surface font size
func (s *Store) SetFontSize(surfaceID string, size float64) error {
	return s.updateSurface(surfaceID, "font_size = ?", size)
}

// WriteOutput stores the rendered text of a surface
func (s *Store) WriteOutput(surfaceID, text string) error {
	return s.updateSurface(surfaceID, "output = ?", text)
}

func (s *Store) updateSurface(surfaceID, assignments string, args ...interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	args = append(args, time.Now(), surfaceID)
	result, err := s.db.Exec(`UPDATE surfaces SET `+assignments+`, updated_at = ? WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("failed to update surface: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update surface: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", datasource.ErrSurfaceNotFound, surfaceID)
	}
	return nil
}

// Statistics returns store statistics
func (s *Store) Statistics(ctx context.Context) (map[string]interface{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := make(map[string]interface{})
	for _, table := range []string{"surfaces", "entities", "properties", "inventory"} {
		var count int
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		stats[table] = count
	}
	return stats, nil
}
