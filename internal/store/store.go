// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists runs, snapshots, diffs, artifact rows, and
// rebuild claims in SQLite.
// Implements: prd001-snapshots (R1), prd002-diff (R3), prd004-artifact-cache (R1);
//
//	docs/ARCHITECTURE § Persistence.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Nitesh802/customerintel-sub000/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "customerintel.db"
)

// Store manages the customerintel SQLite database. Snapshots are
// append-only, diffs are upserted by pair, and artifact rows accumulate
// one per (run, phase, logical type) write.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at dataDir/index/customerintel.db
// and creates the schema if it does not exist (R1.2, R1.3).
func Open(cfg types.StoreConfig) (*Store, error) {
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = ".customerintel"
	}

	dbDir := filepath.Join(dataDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			entity_id TEXT NOT NULL,
			target_entity_id TEXT,
			status TEXT NOT NULL,
			refresh_config TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS snapshots (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			entity_id TEXT NOT NULL,
			run_id TEXT NOT NULL,
			body_json TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_entity ON snapshots(entity_id, id)`,
		`CREATE TABLE IF NOT EXISTS diffs (
			from_id INTEGER NOT NULL,
			to_id INTEGER NOT NULL,
			body_json TEXT NOT NULL,
			created_at TEXT NOT NULL,
			PRIMARY KEY (from_id, to_id)
		)`,
		`CREATE TABLE IF NOT EXISTS artifacts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			phase TEXT NOT NULL,
			logical_type TEXT NOT NULL,
			body_json TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_artifacts_lookup ON artifacts(run_id, phase, logical_type, id)`,
		`CREATE TABLE IF NOT EXISTS rebuild_claims (
			run_id TEXT PRIMARY KEY,
			claimed_at TEXT NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	return nil
}

// timeLayout is the storage format for all timestamp columns.
const timeLayout = time.RFC3339Nano

// nowUTC returns the current UTC time formatted for storage.
func nowUTC() string {
	return time.Now().UTC().Format(timeLayout)
}

// parseTime converts a stored timestamp back to time.Time. Malformed
// values yield the zero time rather than an error.
func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// nullStr converts a sql.NullString to a plain string (empty if null).
func nullStr(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}
