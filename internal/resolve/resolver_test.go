// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nitesh802/customerintel-sub000/internal/store"
	"github.com/Nitesh802/customerintel-sub000/pkg/types"
)

// --- test helpers ---

func testResolver(t *testing.T) (*Resolver, *store.Store) {
	t.Helper()
	st, err := store.Open(types.StoreConfig{DataDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return NewResolver(st), st
}

func saveArtifact(t *testing.T, st *store.Store, runID string, phase types.ArtifactPhase, body string) {
	t.Helper()
	_, err := st.SaveArtifact(context.Background(), runID, phase, types.ArtifactSynthesis, []byte(body))
	require.NoError(t, err)
}

// --- chain tests ---

func TestResolveLiveCacheWins(t *testing.T) {
	r, st := testResolver(t)

	saveArtifact(t, st, "run-1", types.PhaseBundle, `{"synthesis_text": "old", "refs": []}`)
	saveArtifact(t, st, "run-1", types.PhaseLive, `{"content": "current"}`)

	res, err := r.Resolve(context.Background(), "run-1", types.ArtifactSynthesis)
	require.NoError(t, err)

	assert.Equal(t, types.ResolveCacheHit, res.Status)
	assert.Equal(t, "live_cache", res.Tier)
	assert.Equal(t, "current", res.Document["content"])
}

func TestResolveFallsBackOnUnparsableLiveRow(t *testing.T) {
	r, st := testResolver(t)

	saveArtifact(t, st, "run-1", types.PhaseLive, `{broken json`)
	saveArtifact(t, st, "run-1", types.PhaseBundle, `{"synthesis_text": "from bundle"}`)

	res, err := r.Resolve(context.Background(), "run-1", types.ArtifactSynthesis)
	require.NoError(t, err)

	assert.Equal(t, types.ResolveFallbackHit, res.Status)
	assert.Equal(t, "final_bundle", res.Tier)
	assert.Equal(t, "from bundle", res.Document["content"], "legacy field not mapped to canonical name")
}

func TestResolveFallbackChainOrder(t *testing.T) {
	r, st := testResolver(t)

	// Only the oldest shape exists.
	saveArtifact(t, st, "run-1", types.PhaseSynthesisRecord, `{"output": "ancient", "summary_score": 0.8}`)

	res, err := r.Resolve(context.Background(), "run-1", types.ArtifactSynthesis)
	require.NoError(t, err)

	assert.Equal(t, types.ResolveFallbackHit, res.Status)
	assert.Equal(t, "synthesis_record", res.Tier)
	assert.Equal(t, "ancient", res.Document["content"])

	// The scalar summary score became the canonical container.
	scores, ok := res.Document["quality_scores"].(map[string]any)
	require.True(t, ok, "quality_scores not synthesized: %v", res.Document)
	assert.Equal(t, 0.8, scores["overall"])
}

func TestResolveRebuildRequired(t *testing.T) {
	r, st := testResolver(t)

	// One unparsable row at every tier.
	saveArtifact(t, st, "run-1", types.PhaseLive, `{{`)
	saveArtifact(t, st, "run-1", types.PhaseBundle, ``)

	res, err := r.Resolve(context.Background(), "run-1", types.ArtifactSynthesis)
	require.NoError(t, err)

	assert.Equal(t, types.ResolveRebuildRequired, res.Status)
	assert.Nil(t, res.Document, "rebuild_required must not carry a document")

	require.Len(t, res.Attempts, 3)
	assert.Equal(t, "live_cache", res.Attempts[0].Tier)
	assert.Contains(t, res.Attempts[0].Reason, "invalid JSON")
	assert.Equal(t, "final_bundle", res.Attempts[1].Tier)
	assert.Equal(t, "empty body", res.Attempts[1].Reason)
	assert.Equal(t, "synthesis_record", res.Attempts[2].Tier)
	assert.Equal(t, "no row", res.Attempts[2].Reason)
}

func TestResolveUnknownRunIsRebuildRequired(t *testing.T) {
	r, _ := testResolver(t)

	res, err := r.Resolve(context.Background(), "no-such-run", types.ArtifactSynthesis)
	require.NoError(t, err)

	assert.Equal(t, types.ResolveRebuildRequired, res.Status)
	require.Len(t, res.Attempts, 3)
	for _, a := range res.Attempts {
		assert.Equal(t, "no row", a.Reason)
	}
}

func TestResolveMirrorsCitationsIntoSources(t *testing.T) {
	r, st := testResolver(t)

	saveArtifact(t, st, "run-1", types.PhaseBundle,
		`{"synthesis_text": "x", "refs": [{"id": "c1", "domain": "example.com"}]}`)

	res, err := r.Resolve(context.Background(), "run-1", types.ArtifactSynthesis)
	require.NoError(t, err)

	assert.Equal(t, types.ResolveFallbackHit, res.Status)
	citations, ok := res.Document["citations"].([]any)
	require.True(t, ok, "refs not aliased to citations")
	sources, ok := res.Document["sources"].([]any)
	require.True(t, ok, "sources not mirrored from citations")
	assert.Equal(t, citations, sources)
}

// --- legacy conversion tests ---

func TestConvertLegacyMovesOnlyAbsentFields(t *testing.T) {
	doc := map[string]any{
		"synthesis_text": "legacy",
		"content":        "already canonical",
	}
	out := convertLegacy("final_bundle", doc)

	// The canonical field wins; the legacy name is dropped either way.
	assert.Equal(t, "already canonical", out["content"])
	assert.NotContains(t, out, "synthesis_text")

	// Input untouched.
	assert.Equal(t, "legacy", doc["synthesis_text"])
}

func TestConvertLegacyUnknownTierIsIdentity(t *testing.T) {
	doc := map[string]any{"whatever": 1}
	assert.Equal(t, doc, convertLegacy("unknown_tier", doc))
}
