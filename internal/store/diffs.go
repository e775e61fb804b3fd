// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// UpsertDiff stores a computed diff body keyed by the (from, to) pair.
// Recomputation replaces the existing row (idempotent, prd002-diff R3.2) —
// the pair is a memoization key, never an append log.
func (s *Store) UpsertDiff(ctx context.Context, fromID, toID int64, bodyJSON []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO diffs (from_id, to_id, body_json, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(from_id, to_id) DO UPDATE SET body_json=excluded.body_json`,
		fromID, toID, string(bodyJSON), nowUTC(),
	)
	if err != nil {
		return fmt.Errorf("upserting diff (%d, %d): %w", fromID, toID, err)
	}
	return nil
}

// GetDiffBody returns the stored diff body for a pair, or nil if none
// has been computed yet.
func (s *Store) GetDiffBody(ctx context.Context, fromID, toID int64) ([]byte, error) {
	var bodyJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT body_json FROM diffs WHERE from_id = ? AND to_id = ?`, fromID, toID,
	).Scan(&bodyJSON)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying diff (%d, %d): %w", fromID, toID, err)
	}
	return []byte(bodyJSON), nil
}
