// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"
	"time"
)

// TryClaim attempts to take the rebuild slot for a run. It is a single
// atomic statement: a fresh insert wins, and an existing claim older
// than ttl is taken over in the same statement (a crashed worker must
// not block regeneration forever). Returns true if the caller now holds
// the claim (prd005-rebuild R1.1, R1.3).
func (s *Store) TryClaim(ctx context.Context, runID string, ttl time.Duration) (bool, error) {
	now := time.Now().UTC()
	cutoff := now.Add(-ttl).Format(timeLayout)

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO rebuild_claims (run_id, claimed_at) VALUES (?, ?)
		 ON CONFLICT(run_id) DO UPDATE SET claimed_at=excluded.claimed_at
		 WHERE rebuild_claims.claimed_at < ?`,
		runID, now.Format(timeLayout), cutoff,
	)
	if err != nil {
		return false, fmt.Errorf("claiming rebuild for run %s: %w", runID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reading claim result: %w", err)
	}
	return n > 0, nil
}

// ReleaseClaim frees the rebuild slot for a run. Releasing an unclaimed
// run is a no-op.
func (s *Store) ReleaseClaim(ctx context.Context, runID string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM rebuild_claims WHERE run_id = ?`, runID,
	); err != nil {
		return fmt.Errorf("releasing rebuild claim for run %s: %w", runID, err)
	}
	return nil
}
