// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// StoreConfig holds settings for the SQLite-backed artifact store.
type StoreConfig struct {
	// DataDir is the base directory for persistent state (contains
	// index/customerintel.db). Default ".customerintel".
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// SnapshotConfig holds settings for snapshot reuse decisions.
type SnapshotConfig struct {
	// MaxAge is the default freshness window for reusable-snapshot
	// lookups (default 168h).
	MaxAge time.Duration `json:"max_age" yaml:"max_age"`
}

// RebuildConfig holds settings for the rebuild coordinator.
type RebuildConfig struct {
	// ClaimTTL is how long a rebuild claim may be held before it is
	// treated as abandoned and may be reclaimed (default 15m). Prevents
	// a crashed worker from permanently blocking regeneration.
	ClaimTTL time.Duration `json:"claim_ttl" yaml:"claim_ttl"`
}

// DiffConfig holds settings for diff backfill.
type DiffConfig struct {
	// BackfillWorkers bounds concurrent diff computations during a
	// history backfill (default 4).
	BackfillWorkers int `json:"backfill_workers" yaml:"backfill_workers"`
}

// ServiceConfig groups all component configurations.
type ServiceConfig struct {
	Store    StoreConfig    `json:"store" yaml:"store"`
	Snapshot SnapshotConfig `json:"snapshot" yaml:"snapshot"`
	Rebuild  RebuildConfig  `json:"rebuild" yaml:"rebuild"`
	Diff     DiffConfig     `json:"diff" yaml:"diff"`
}
