// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Nitesh802/customerintel-sub000/pkg/types"
)

// SaveArtifact appends an artifact row for (run, phase, logical type).
// Several phases may hold rows for the same logical type simultaneously;
// the resolver's tier order decides which one wins a read.
func (s *Store) SaveArtifact(ctx context.Context, runID string, phase types.ArtifactPhase, typ types.LogicalArtifactType, body []byte) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO artifacts (run_id, phase, logical_type, body_json, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		runID, string(phase), string(typ), string(body), nowUTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting artifact for run %s: %w", runID, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading artifact id: %w", err)
	}
	return id, nil
}

// LatestArtifact returns the newest artifact row for
// (run, phase, logical type), or nil if the tier holds no row.
func (s *Store) LatestArtifact(ctx context.Context, runID string, phase types.ArtifactPhase, typ types.LogicalArtifactType) (*types.Artifact, error) {
	var (
		art       types.Artifact
		phaseCol  string
		typeCol   string
		bodyJSON  string
		createdAt string
	)

	err := s.db.QueryRowContext(ctx,
		`SELECT id, run_id, phase, logical_type, body_json, created_at
		 FROM artifacts
		 WHERE run_id = ? AND phase = ? AND logical_type = ?
		 ORDER BY id DESC LIMIT 1`,
		runID, string(phase), string(typ),
	).Scan(&art.ID, &art.RunID, &phaseCol, &typeCol, &bodyJSON, &createdAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying artifact for run %s: %w", runID, err)
	}

	art.Phase = types.ArtifactPhase(phaseCol)
	art.Type = types.LogicalArtifactType(typeCol)
	art.Body = []byte(bodyJSON)
	art.CreatedAt = parseTime(createdAt)

	return &art, nil
}
