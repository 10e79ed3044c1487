// Package store provides SQLite-backed persistence for the garment
// collection, with a one-time migration path from the legacy flat
// JSON snapshot.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/closetlab/wairdrobe/internal/apperr"
	"github.com/closetlab/wairdrobe/internal/garment"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS garments (
	id              TEXT PRIMARY KEY,
	image_url       TEXT NOT NULL DEFAULT '',
	name            TEXT NOT NULL DEFAULT '',
	type            TEXT NOT NULL DEFAULT '',
	category        TEXT NOT NULL DEFAULT '',
	uses            TEXT NOT NULL DEFAULT '[]',
	last_worn       TEXT NOT NULL DEFAULT '',
	is_new_purchase INTEGER NOT NULL DEFAULT 0
);
`

// DB wraps a sql.DB with wardrobe-specific operations.
type DB struct {
	conn       *sql.DB
	legacyPath string
	logger     *slog.Logger
}

// Open opens (or creates) the SQLite database and applies the schema.
// legacyPath points at the flat JSON snapshot consulted only when the
// garments table is empty; it may be empty to disable migration.
// Open failures are wrapped in apperr.ErrStorageUnavailable so callers
// can fall back to an empty in-memory collection instead of crashing.
func Open(dsn, legacyPath string, logger *slog.Logger) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("%w: open db: %v", apperr.ErrStorageUnavailable, err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: ping: %v", apperr.ErrStorageUnavailable, err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: apply schema: %v", apperr.ErrStorageUnavailable, err)
	}
	return &DB{conn: conn, legacyPath: legacyPath, logger: logger}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// LoadAll returns every stored garment. When the keyed store is empty it
// reads the legacy flat snapshot instead, without writing it back: the
// migration completes on the next save.
func (db *DB) LoadAll() ([]garment.Garment, error) {
	rows, err := db.conn.Query(`
		SELECT id, image_url, name, type, category, uses, last_worn, is_new_purchase
		FROM garments`)
	if err != nil {
		return nil, fmt.Errorf("%w: load: %v", apperr.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	var out []garment.Garment
	for rows.Next() {
		var g garment.Garment
		var usesJSON string
		if err := rows.Scan(&g.ID, &g.ImageURL, &g.Name, &g.Type, &g.Category,
			&usesJSON, &g.LastWorn, &g.NewPurchase); err != nil {
			return nil, fmt.Errorf("store: scan garment: %w", err)
		}
		if err := json.Unmarshal([]byte(usesJSON), &g.Uses); err != nil || g.Uses == nil {
			g.Uses = []string{}
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: load: %v", apperr.ErrStorageUnavailable, err)
	}

	if len(out) == 0 {
		if legacy := db.loadLegacy(); len(legacy) > 0 {
			return legacy, nil
		}
	}
	return out, nil
}

// loadLegacy reads the flat JSON snapshot used before the keyed store
// existed. Any failure is logged and treated as "no legacy data".
func (db *DB) loadLegacy() []garment.Garment {
	if db.legacyPath == "" {
		return nil
	}
	data, err := os.ReadFile(db.legacyPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			db.logger.Warn("store: legacy read failed", slog.String("error", err.Error()))
		}
		return nil
	}
	var items []garment.Garment
	if err := json.Unmarshal(data, &items); err != nil {
		db.logger.Warn("store: legacy parse failed", slog.String("error", err.Error()))
		return nil
	}
	if len(items) > 0 {
		db.logger.Info("store: migrating legacy snapshot", slog.Int("items", len(items)))
	}
	return items
}

// ReplaceAll clears the table and writes every item within one transaction,
// so deleted items are removed and a failed write leaves the previous
// collection intact.
func (db *DB) ReplaceAll(items []garment.Garment) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("%w: begin tx: %v", apperr.ErrStorageUnavailable, err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if _, err := tx.Exec(`DELETE FROM garments`); err != nil {
		return fmt.Errorf("%w: clear: %v", apperr.ErrStorageUnavailable, err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO garments (id, image_url, name, type, category, uses, last_worn, is_new_purchase)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("%w: prepare insert: %v", apperr.ErrStorageUnavailable, err)
	}
	defer stmt.Close()

	for _, g := range items {
		uses := g.Uses
		if uses == nil {
			uses = []string{}
		}
		usesJSON, _ := json.Marshal(uses)
		if _, err := stmt.Exec(g.ID, g.ImageURL, g.Name, g.Type, g.Category,
			string(usesJSON), g.LastWorn, g.NewPurchase); err != nil {
			return fmt.Errorf("%w: insert %s: %v", apperr.ErrStorageUnavailable, g.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", apperr.ErrStorageUnavailable, err)
	}
	return nil
}
