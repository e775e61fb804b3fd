// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// SnapshotMetadata holds lightweight counters captured with a snapshot.
type SnapshotMetadata struct {
	TotalCost   float64 `json:"total_cost" yaml:"total_cost"`
	TokensUsed  int64   `json:"tokens_used,omitempty" yaml:"tokens_used,omitempty"`
	SourceCount int     `json:"source_count" yaml:"source_count"`
}

// SnapshotBody is the fixed top-level shape of the immutable JSON
// document persisted per completed run (prd001-snapshots R1.2).
type SnapshotBody struct {
	EntityID  string    `json:"entity_id" yaml:"entity_id"`
	RunID     string    `json:"run_id" yaml:"run_id"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`

	// SubtaskResults maps sub-task code to its captured output. Every
	// sub-task passed to CreateSnapshot appears here; none are dropped.
	SubtaskResults map[string]SubtaskResult `json:"subtask_results" yaml:"subtask_results"`

	// Sources is the set of approved source documents, keyed by source id.
	Sources map[string]SourceDescriptor `json:"sources,omitempty" yaml:"sources,omitempty"`

	Metadata SnapshotMetadata `json:"metadata" yaml:"metadata"`
}

// Snapshot is one persisted immutable capture. ID is the surrogate
// rowid; creation order is snapshot order (higher id = later).
type Snapshot struct {
	ID        int64        `json:"snapshot_id" yaml:"snapshot_id"`
	EntityID  string       `json:"entity_id" yaml:"entity_id"`
	RunID     string       `json:"run_id" yaml:"run_id"`
	Body      SnapshotBody `json:"body" yaml:"body"`
	CreatedAt time.Time    `json:"created_at" yaml:"created_at"`
}

// SnapshotSummary is the history-listing view of a snapshot.
type SnapshotSummary struct {
	SnapshotID   int64     `json:"snapshot_id" yaml:"snapshot_id"`
	RunID        string    `json:"run_id" yaml:"run_id"`
	EntityID     string    `json:"entity_id" yaml:"entity_id"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
	SubtaskCount int       `json:"subtask_count" yaml:"subtask_count"`
	TotalCost    float64   `json:"total_cost" yaml:"total_cost"`
}
