// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// LogicalArtifactType names a logical unit of pipeline output,
// independent of which physical schema revision produced it.
type LogicalArtifactType string

const (
	// ArtifactSynthesis is the final synthesis bundle for a run.
	ArtifactSynthesis LogicalArtifactType = "synthesis"

	// ArtifactCitationSet is the normalized citation set for a run.
	ArtifactCitationSet LogicalArtifactType = "citation_set"
)

// ArtifactPhase tags the physical generation that wrote an artifact row.
// Multiple phases may hold rows for the same (run, logical type); the
// resolver's tier order decides which one is authoritative for a read.
type ArtifactPhase string

const (
	// PhaseLive is the current-generation artifact cache.
	PhaseLive ArtifactPhase = "live"

	// PhaseBundle is the legacy materialized "final bundle" blob.
	PhaseBundle ArtifactPhase = "bundle"

	// PhaseSynthesisRecord is the oldest "synthesis record" shape.
	PhaseSynthesisRecord ArtifactPhase = "synthesis_record"
)

// Artifact is one physical artifact row.
type Artifact struct {
	ID        int64               `json:"id" yaml:"id"`
	RunID     string              `json:"run_id" yaml:"run_id"`
	Phase     ArtifactPhase       `json:"phase" yaml:"phase"`
	Type      LogicalArtifactType `json:"logical_type" yaml:"logical_type"`
	Body      []byte              `json:"-" yaml:"-"`
	CreatedAt time.Time           `json:"created_at" yaml:"created_at"`
}

// ResolveStatus is the outcome of an artifact resolution.
type ResolveStatus string

const (
	// ResolveCacheHit means the live cache tier satisfied the read.
	ResolveCacheHit ResolveStatus = "cache_hit"

	// ResolveFallbackHit means a legacy tier satisfied the read after a
	// non-authoritative read-time shape conversion.
	ResolveFallbackHit ResolveStatus = "fallback_hit"

	// ResolveRebuildRequired means every tier was absent or unparsable;
	// the caller must regenerate the artifact.
	ResolveRebuildRequired ResolveStatus = "rebuild_required"
)

// TierAttempt records why one resolver tier failed to satisfy a read.
// Carried on rebuild_required results for diagnostics (prd004 R4.2).
type TierAttempt struct {
	Tier   string `json:"tier" yaml:"tier"`
	Reason string `json:"reason" yaml:"reason"`
}

// ResolvedArtifact is the resolver's answer for one
// (run, logical type) read.
type ResolvedArtifact struct {
	Status ResolveStatus `json:"status" yaml:"status"`

	// Document is the normalized artifact body. Nil unless Status is
	// cache_hit or fallback_hit.
	Document map[string]any `json:"document,omitempty" yaml:"document,omitempty"`

	// Tier names the chain link that satisfied the read.
	Tier string `json:"tier,omitempty" yaml:"tier,omitempty"`

	// Attempts lists the tiers tried and why each failed. Populated on
	// rebuild_required.
	Attempts []TierAttempt `json:"attempts,omitempty" yaml:"attempts,omitempty"`
}
