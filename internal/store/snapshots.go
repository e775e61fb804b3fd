// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Nitesh802/customerintel-sub000/pkg/types"
)

// InsertSnapshot appends a new snapshot row and returns its id. Rows
// are never updated: re-snapshotting a run produces a new row with a
// higher id (prd001-snapshots R2.2).
func (s *Store) InsertSnapshot(ctx context.Context, entityID, runID string, bodyJSON []byte) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO snapshots (entity_id, run_id, body_json, created_at) VALUES (?, ?, ?, ?)`,
		entityID, runID, string(bodyJSON), nowUTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting snapshot for run %s: %w", runID, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading snapshot id: %w", err)
	}
	return id, nil
}

// GetSnapshot returns the snapshot with the given id, or nil if absent.
// The stored body is parsed into the fixed snapshot shape.
func (s *Store) GetSnapshot(ctx context.Context, id int64) (*types.Snapshot, error) {
	var (
		snap      types.Snapshot
		bodyJSON  string
		createdAt string
	)

	err := s.db.QueryRowContext(ctx,
		`SELECT id, entity_id, run_id, body_json, created_at FROM snapshots WHERE id = ?`, id,
	).Scan(&snap.ID, &snap.EntityID, &snap.RunID, &bodyJSON, &createdAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying snapshot %d: %w", id, err)
	}

	if err := json.Unmarshal([]byte(bodyJSON), &snap.Body); err != nil {
		return nil, fmt.Errorf("parsing snapshot %d body: %w", id, err)
	}
	snap.CreatedAt = parseTime(createdAt)

	return &snap, nil
}

// ListSnapshots returns history summaries for an entity, newest first.
func (s *Store) ListSnapshots(ctx context.Context, entityID string) ([]types.SnapshotSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, entity_id, run_id, body_json, created_at
		 FROM snapshots WHERE entity_id = ? ORDER BY id DESC`, entityID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying history for %s: %w", entityID, err)
	}
	defer rows.Close()

	var summaries []types.SnapshotSummary
	for rows.Next() {
		var (
			sum       types.SnapshotSummary
			bodyJSON  string
			createdAt string
		)
		if err := rows.Scan(&sum.SnapshotID, &sum.EntityID, &sum.RunID, &bodyJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning snapshot row: %w", err)
		}
		sum.CreatedAt = parseTime(createdAt)

		// Counters come from the body; a body that fails to parse still
		// yields a summary row with zero counters.
		var body types.SnapshotBody
		if err := json.Unmarshal([]byte(bodyJSON), &body); err == nil {
			sum.SubtaskCount = len(body.SubtaskResults)
			sum.TotalCost = body.Metadata.TotalCost
		}

		summaries = append(summaries, sum)
	}

	return summaries, rows.Err()
}

// LatestReusable returns the newest snapshot belonging to the entity's
// most recent completed run, provided it is younger than maxAge. Returns
// nil when no such snapshot exists (prd001-snapshots R4).
func (s *Store) LatestReusable(ctx context.Context, entityID string, maxAge time.Duration) (*types.SnapshotSummary, error) {
	cutoff := time.Now().UTC().Add(-maxAge).Format(timeLayout)

	var (
		sum       types.SnapshotSummary
		bodyJSON  string
		createdAt string
	)

	err := s.db.QueryRowContext(ctx,
		`SELECT s.id, s.entity_id, s.run_id, s.body_json, s.created_at
		 FROM snapshots s
		 WHERE s.entity_id = ?
		   AND s.run_id = (
			SELECT r.id FROM runs r
			WHERE r.entity_id = ? AND r.status = ?
			ORDER BY r.created_at DESC LIMIT 1)
		   AND s.created_at >= ?
		 ORDER BY s.id DESC LIMIT 1`,
		entityID, entityID, string(types.RunCompleted), cutoff,
	).Scan(&sum.SnapshotID, &sum.EntityID, &sum.RunID, &bodyJSON, &createdAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying reusable snapshot for %s: %w", entityID, err)
	}

	sum.CreatedAt = parseTime(createdAt)
	var body types.SnapshotBody
	if err := json.Unmarshal([]byte(bodyJSON), &body); err == nil {
		sum.SubtaskCount = len(body.SubtaskResults)
		sum.TotalCost = body.Metadata.TotalCost
	}

	return &sum, nil
}
