// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package version

import (
	"context"

	"golang.org/x/sync/errgroup"
)

const defaultBackfillWorkers = 4

// BackfillDiffs computes any missing diffs between consecutive snapshot
// pairs of an entity. Diff computation is deferrable — it never blocks
// the snapshot write path — so backfill runs the pairs concurrently,
// bounded by workers. Returns the number of diffs computed.
func (s *Service) BackfillDiffs(ctx context.Context, entityID string, workers int) (int, error) {
	if workers <= 0 {
		workers = defaultBackfillWorkers
	}

	summaries, err := s.store.ListSnapshots(ctx, entityID)
	if err != nil {
		return 0, err
	}
	if len(summaries) < 2 {
		return 0, nil
	}

	// Summaries arrive newest first; pair each snapshot with its
	// predecessor. Memoization makes recomputation idempotent, so
	// concurrent workers hitting the same pair are harmless.
	type pair struct{ from, to int64 }
	var pairs []pair
	for i := 0; i+1 < len(summaries); i++ {
		pairs = append(pairs, pair{from: summaries[i+1].SnapshotID, to: summaries[i].SnapshotID})
	}

	computed := make([]bool, len(pairs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, p := range pairs {
		i, p := i, p
		g.Go(func() error {
			stored, err := s.store.GetDiffBody(gctx, p.from, p.to)
			if err != nil {
				return err
			}
			if stored != nil {
				return nil
			}
			if _, err := s.GetOrCreateDiff(gctx, p.from, p.to); err != nil {
				return err
			}
			computed[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	n := 0
	for _, c := range computed {
		if c {
			n++
		}
	}
	return n, nil
}
