// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package version maintains the auditable research history for an
// entity: immutable snapshot capture at run completion, history reads,
// and memoized structural diffs between snapshot pairs.
// Implements: prd001-snapshots (R1-R4), prd002-diff (R3, R4);
//
//	docs/ARCHITECTURE § Version History.
package version

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Nitesh802/customerintel-sub000/internal/diff"
	"github.com/Nitesh802/customerintel-sub000/internal/logging"
	"github.com/Nitesh802/customerintel-sub000/internal/store"
	"github.com/Nitesh802/customerintel-sub000/pkg/types"
)

// Service provides snapshot and diff operations over the store.
type Service struct {
	store *store.Store
	log   *slog.Logger
}

// NewService returns a version service bound to the given store.
func NewService(s *store.Store) *Service {
	return &Service{store: s, log: logging.New("version")}
}

// CreateSnapshot assembles the fixed-shape snapshot document for a
// completed run and appends it. Every sub-task in results is captured;
// a payload that is not valid JSON is embedded verbatim as a JSON
// string so that malformed producer output never blocks snapshot
// durability (prd001-snapshots R1.4, R2.1).
func (s *Service) CreateSnapshot(ctx context.Context, run *types.Run, results map[string]types.SubtaskResult, sources map[string]types.SourceDescriptor) (int64, error) {
	body := types.SnapshotBody{
		EntityID:       run.EntityID,
		RunID:          run.ID,
		Timestamp:      time.Now().UTC(),
		SubtaskResults: make(map[string]types.SubtaskResult, len(results)),
		Sources:        sources,
	}

	for code, res := range results {
		if len(res.Payload) > 0 && !json.Valid(res.Payload) {
			s.log.Warn("captured non-JSON sub-task payload verbatim",
				"run", run.ID, "subtask", code)
			quoted, err := json.Marshal(string(res.Payload))
			if err != nil {
				return 0, fmt.Errorf("quoting payload for sub-task %s: %w", code, err)
			}
			res.Payload = quoted
		}
		body.SubtaskResults[code] = res
		body.Metadata.TotalCost += res.Cost
	}
	body.Metadata.SourceCount = len(sources)

	bodyJSON, err := json.Marshal(&body)
	if err != nil {
		return 0, fmt.Errorf("marshaling snapshot body: %w", err)
	}

	return s.store.InsertSnapshot(ctx, run.EntityID, run.ID, bodyJSON)
}

// ReusableSnapshot returns the newest snapshot of the entity's most
// recent completed run younger than maxAge, or nil. Pure read; the
// reuse/freshness policy itself lives with the caller.
func (s *Service) ReusableSnapshot(ctx context.Context, entityID string, maxAge time.Duration) (*types.SnapshotSummary, error) {
	return s.store.LatestReusable(ctx, entityID, maxAge)
}

// History returns snapshot summaries for an entity, newest first.
func (s *Service) History(ctx context.Context, entityID string) ([]types.SnapshotSummary, error) {
	return s.store.ListSnapshots(ctx, entityID)
}

// GetOrCreateDiff returns the memoized diff for a snapshot pair,
// computing and persisting it on first request. Invariant violations
// (self-diff, wrong order, entity mismatch) propagate from the diff
// engine unchanged.
func (s *Service) GetOrCreateDiff(ctx context.Context, fromID, toID int64) (*types.Diff, error) {
	stored, err := s.store.GetDiffBody(ctx, fromID, toID)
	if err != nil {
		return nil, err
	}
	if stored != nil {
		return diff.Decode(stored)
	}

	from, err := s.store.GetSnapshot(ctx, fromID)
	if err != nil {
		return nil, err
	}
	if from == nil {
		return nil, fmt.Errorf("snapshot %d not found", fromID)
	}
	to, err := s.store.GetSnapshot(ctx, toID)
	if err != nil {
		return nil, err
	}
	if to == nil {
		return nil, fmt.Errorf("snapshot %d not found", toID)
	}

	d, err := diff.Compute(from, to)
	if err != nil {
		return nil, err
	}

	body, err := diff.Encode(d)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpsertDiff(ctx, fromID, toID, body); err != nil {
		return nil, err
	}

	return d, nil
}

// DiffAgainstPrevious diffs a snapshot against its immediate predecessor
// in the entity's history. The first snapshot of an entity has no
// predecessor and errors.
func (s *Service) DiffAgainstPrevious(ctx context.Context, toID int64) (*types.Diff, error) {
	to, err := s.store.GetSnapshot(ctx, toID)
	if err != nil {
		return nil, err
	}
	if to == nil {
		return nil, fmt.Errorf("snapshot %d not found", toID)
	}

	fromID, err := s.PreviousSnapshot(ctx, to.Body.EntityID, toID)
	if err != nil {
		return nil, err
	}
	if fromID == 0 {
		return nil, fmt.Errorf("snapshot %d has no predecessor", toID)
	}

	return s.GetOrCreateDiff(ctx, fromID, toID)
}

// PreviousSnapshot returns the id of the snapshot immediately preceding
// the given one for the same entity, or 0 when it is the first.
func (s *Service) PreviousSnapshot(ctx context.Context, entityID string, snapshotID int64) (int64, error) {
	summaries, err := s.store.ListSnapshots(ctx, entityID)
	if err != nil {
		return 0, err
	}
	// Newest first: the predecessor is the first summary with a lower id.
	for _, sum := range summaries {
		if sum.SnapshotID < snapshotID {
			return sum.SnapshotID, nil
		}
	}
	return 0, nil
}
