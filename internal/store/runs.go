// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Nitesh802/customerintel-sub000/pkg/types"
)

// SaveRun upserts a run record. The refresh config is stored as JSON so
// the evaluator can re-derive the plan for any run later.
func (s *Store) SaveRun(ctx context.Context, run *types.Run) error {
	var refreshJSON sql.NullString
	if run.Refresh != nil {
		data, err := json.Marshal(run.Refresh)
		if err != nil {
			return fmt.Errorf("marshaling refresh config: %w", err)
		}
		refreshJSON = sql.NullString{String: string(data), Valid: true}
	}

	createdAt := run.CreatedAt.UTC().Format(timeLayout)
	if run.CreatedAt.IsZero() {
		createdAt = nowUTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, entity_id, target_entity_id, status, refresh_config, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			entity_id=excluded.entity_id, target_entity_id=excluded.target_entity_id,
			status=excluded.status, refresh_config=excluded.refresh_config`,
		run.ID, run.EntityID, run.TargetEntityID, string(run.Status), refreshJSON, createdAt,
	)
	if err != nil {
		return fmt.Errorf("upserting run %s: %w", run.ID, err)
	}
	return nil
}

// GetRun returns the run with the given id, or nil if it does not exist.
func (s *Store) GetRun(ctx context.Context, runID string) (*types.Run, error) {
	var (
		run         types.Run
		status      string
		target      sql.NullString
		refreshJSON sql.NullString
		createdAt   string
	)

	err := s.db.QueryRowContext(ctx,
		`SELECT id, entity_id, target_entity_id, status, refresh_config, created_at
		 FROM runs WHERE id = ?`, runID,
	).Scan(&run.ID, &run.EntityID, &target, &status, &refreshJSON, &createdAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying run %s: %w", runID, err)
	}

	run.TargetEntityID = nullStr(target)
	run.Status = types.RunStatus(status)
	run.CreatedAt = parseTime(createdAt)

	if refreshJSON.Valid {
		var cfg types.RefreshConfig
		if err := json.Unmarshal([]byte(refreshJSON.String), &cfg); err != nil {
			return nil, fmt.Errorf("parsing refresh config for run %s: %w", runID, err)
		}
		run.Refresh = &cfg
	}

	return &run, nil
}

// SetRunStatus updates only the status of a run.
func (s *Store) SetRunStatus(ctx context.Context, runID string, status types.RunStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ? WHERE id = ?`, string(status), runID)
	if err != nil {
		return fmt.Errorf("updating run status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("run %s not found", runID)
	}
	return nil
}
