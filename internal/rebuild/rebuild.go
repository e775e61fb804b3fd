// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rebuild coordinates expensive artifact regeneration:
// at most one caller holds the rebuild slot for a run at a time, and a
// losing caller is told to poll rather than duplicate the work.
// Implements: prd005-rebuild (R1, R2);
//
//	docs/ARCHITECTURE § Rebuild Coordination.
package rebuild

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Nitesh802/customerintel-sub000/internal/logging"
	"github.com/Nitesh802/customerintel-sub000/internal/store"
	"github.com/Nitesh802/customerintel-sub000/pkg/types"
)

// ErrBusy is returned by Claim when another caller holds the slot.
var ErrBusy = errors.New("rebuild already in progress")

const defaultClaimTTL = 15 * time.Minute

// Coordinator guards the per-run rebuild slot. Claims are atomic
// inserts, not long-held locks: a rebuild runs on a separate worker
// while readers keep receiving rebuild_required or stale-but-valid
// fallback data.
type Coordinator struct {
	store *store.Store
	ttl   time.Duration
	log   *slog.Logger
}

// NewCoordinator returns a coordinator with the given claim TTL.
// A stalled claim older than the TTL is treated as abandoned and may be
// reclaimed. Zero ttl uses the default (15m).
func NewCoordinator(s *store.Store, cfg types.RebuildConfig) *Coordinator {
	ttl := cfg.ClaimTTL
	if ttl <= 0 {
		ttl = defaultClaimTTL
	}
	return &Coordinator{store: s, ttl: ttl, log: logging.New("rebuild")}
}

// Claim takes the rebuild slot for a run. Returns ErrBusy when another
// caller already holds a live claim; the loser should poll for the
// winner's result instead of regenerating.
func (c *Coordinator) Claim(ctx context.Context, runID string) error {
	granted, err := c.store.TryClaim(ctx, runID, c.ttl)
	if err != nil {
		return err
	}
	if !granted {
		return ErrBusy
	}
	c.log.Info("rebuild claim granted", "run", runID)
	return nil
}

// Release frees the slot after a rebuild attempt. On success the newly
// written live artifact row is already visible to the resolver; on
// failure no cache entry was written, so the next read re-enters
// rebuild_required rather than serving a poisoned result.
func (c *Coordinator) Release(ctx context.Context, runID string, success bool) error {
	if err := c.store.ReleaseClaim(ctx, runID); err != nil {
		return err
	}
	c.log.Info("rebuild claim released", "run", runID, "success", success)
	return nil
}
