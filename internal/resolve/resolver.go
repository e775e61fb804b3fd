// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve locates the best available physical representation of
// a logical artifact through a priority-ordered fallback chain, and
// normalizes whichever schema revision it finds into the canonical
// document shape. The resolver never writes: fallback hits are
// read-time conversions only, never promoted into the live tier.
// Implements: prd004-artifact-cache (R1-R4);
//
//	docs/ARCHITECTURE § Artifact Resolution.
package resolve

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/Nitesh802/customerintel-sub000/internal/logging"
	"github.com/Nitesh802/customerintel-sub000/internal/store"
	"github.com/Nitesh802/customerintel-sub000/pkg/types"
)

// tier is one link in the fallback chain. Links are independently
// testable; adding a future schema revision means appending one link,
// never touching existing ones.
type tier struct {
	name  string
	phase types.ArtifactPhase

	// legacy tiers get a read-time field-alias conversion before the
	// shared normalization rules run.
	legacy bool
}

// tierChain is the fixed priority order. The live cache always wins
// over legacy blobs when both hold a parsable row.
var tierChain = []tier{
	{name: "live_cache", phase: types.PhaseLive},
	{name: "final_bundle", phase: types.PhaseBundle, legacy: true},
	{name: "synthesis_record", phase: types.PhaseSynthesisRecord, legacy: true},
}

// Resolver answers artifact reads against the store.
type Resolver struct {
	store *store.Store
	log   *slog.Logger
}

// NewResolver returns a resolver bound to the given store.
func NewResolver(s *store.Store) *Resolver {
	return &Resolver{store: s, log: logging.New("resolve")}
}

// Resolve walks the tier chain for (run, logical type) and returns the
// first tier whose body parses, normalized to the canonical shape. A
// tier that is absent, empty, or syntactically invalid is soft-skipped
// and recorded; if every tier fails the result is rebuild_required with
// the attempt list populated — never an error, and never a fabricated
// or partially valid document (prd004 R3.1-R3.4).
func (r *Resolver) Resolve(ctx context.Context, runID string, typ types.LogicalArtifactType) (types.ResolvedArtifact, error) {
	var attempts []types.TierAttempt

	for _, t := range tierChain {
		art, err := r.store.LatestArtifact(ctx, runID, t.phase, typ)
		if err != nil {
			// Store failures are real errors, not soft-skips.
			return types.ResolvedArtifact{}, err
		}
		if art == nil {
			attempts = append(attempts, types.TierAttempt{Tier: t.name, Reason: "no row"})
			continue
		}
		if len(art.Body) == 0 {
			attempts = append(attempts, types.TierAttempt{Tier: t.name, Reason: "empty body"})
			continue
		}

		var doc map[string]any
		if err := json.Unmarshal(art.Body, &doc); err != nil {
			r.log.Warn("skipping unparsable artifact tier",
				"run", runID, "tier", t.name, "logical_type", string(typ), "error", err)
			attempts = append(attempts, types.TierAttempt{Tier: t.name, Reason: "invalid JSON: " + err.Error()})
			continue
		}

		if t.legacy {
			doc = convertLegacy(t.name, doc)
		}
		doc = Normalize(doc)

		status := types.ResolveCacheHit
		if t.legacy {
			status = types.ResolveFallbackHit
		}
		return types.ResolvedArtifact{Status: status, Document: doc, Tier: t.name}, nil
	}

	return types.ResolvedArtifact{
		Status:   types.ResolveRebuildRequired,
		Attempts: attempts,
	}, nil
}

// legacyAliases maps old field names to canonical ones per legacy tier.
// An alias moves the old value only when the canonical field is absent,
// so revisions that already carry canonical names pass through intact.
var legacyAliases = map[string][][2]string{
	"final_bundle": {
		{"synthesis_text", "content"},
		{"refs", "citations"},
		{"quality", "scores"},
	},
	"synthesis_record": {
		{"output", "content"},
		{"citation_list", "citations"},
		{"summary_score", "score"},
	},
}

// convertLegacy applies the non-authoritative read-time field mapping
// for a legacy tier. The underlying row is never touched.
func convertLegacy(tierName string, doc map[string]any) map[string]any {
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		out[k] = v
	}

	for _, alias := range legacyAliases[tierName] {
		old, canonical := alias[0], alias[1]
		v, ok := out[old]
		if !ok {
			continue
		}
		if _, exists := out[canonical]; !exists {
			out[canonical] = v
		}
		delete(out, old)
	}

	return out
}
