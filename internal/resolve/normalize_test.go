// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeMirrorsSourcesIntoCitations(t *testing.T) {
	doc := map[string]any{
		"sources": []any{map[string]any{"id": "s1"}},
	}
	out := Normalize(doc)

	assert.Equal(t, doc["sources"], out["citations"])

	// Input map is never mutated.
	assert.NotContains(t, doc, "citations")
}

func TestNormalizeLeavesBothPopulatedAlone(t *testing.T) {
	doc := map[string]any{
		"citations": []any{map[string]any{"id": "c1"}},
		"sources":   []any{map[string]any{"id": "s1"}},
	}
	out := Normalize(doc)

	assert.Equal(t, doc["citations"], out["citations"])
	assert.Equal(t, doc["sources"], out["sources"])
}

func TestNormalizeDerivesDomainDistribution(t *testing.T) {
	doc := map[string]any{
		"citations": []any{
			map[string]any{"id": "c1", "domain": "example.com"},
			map[string]any{"id": "c2", "domain": "example.com"},
			map[string]any{"id": "c3", "domain": "other.org"},
			map[string]any{"id": "c4"}, // no domain, skipped
		},
	}
	out := Normalize(doc)

	want := map[string]any{"example.com": float64(2), "other.org": float64(1)}
	if diff := cmp.Diff(want, out["domain_distribution"]); diff != "" {
		t.Errorf("domain distribution mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeKeepsExistingDomainDistribution(t *testing.T) {
	existing := map[string]any{"precomputed.com": float64(9)}
	doc := map[string]any{
		"citations":           []any{map[string]any{"id": "c1", "domain": "example.com"}},
		"domain_distribution": existing,
	}
	out := Normalize(doc)

	assert.Equal(t, existing, out["domain_distribution"])
}

func TestScoreProbePriority(t *testing.T) {
	tests := []struct {
		name string
		doc  map[string]any
		want map[string]any
	}{
		{
			name: "dedicated score map wins over metrics and scalar",
			doc: map[string]any{
				"scores":  map[string]any{"depth": 0.9},
				"metrics": map[string]any{"depth": 0.1},
				"score":   0.5,
			},
			want: map[string]any{"depth": 0.9},
		},
		{
			name: "metrics map wins over scalar",
			doc: map[string]any{
				"metrics": map[string]any{"coverage": 0.7},
				"score":   0.5,
			},
			want: map[string]any{"coverage": 0.7},
		},
		{
			name: "scalar score wrapped as overall",
			doc:  map[string]any{"score": 0.5},
			want: map[string]any{"overall": 0.5},
		},
		{
			name: "overall_score alias wrapped as overall",
			doc:  map[string]any{"overall_score": 0.42},
			want: map[string]any{"overall": 0.42},
		},
		{
			name: "existing canonical container untouched",
			doc: map[string]any{
				"quality_scores": map[string]any{"overall": 1.0},
				"score":          0.1,
			},
			want: map[string]any{"overall": 1.0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Normalize(tt.doc)
			if diff := cmp.Diff(tt.want, out["quality_scores"]); diff != "" {
				t.Errorf("quality_scores mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormalizeNoScoreFieldsNoContainer(t *testing.T) {
	out := Normalize(map[string]any{"content": "x"})
	assert.NotContains(t, out, "quality_scores")
	assert.NotContains(t, out, "domain_distribution")
	assert.NotContains(t, out, "citations")
}

func TestNormalizeIsAdditiveOnUnexpectedShapes(t *testing.T) {
	// Syntactically valid but unexpected shapes are accepted as-is.
	doc := map[string]any{
		"citations": "not a list",
		"scores":    []any{1, 2},
	}
	out := Normalize(doc)

	assert.Equal(t, "not a list", out["citations"])
	assert.NotContains(t, out, "sources")
	assert.NotContains(t, out, "quality_scores")
}
