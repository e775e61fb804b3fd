// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// RefreshConfig carries the explicit, per-run regeneration intents.
// All flags default to false; a nil RefreshConfig means full reuse.
// Per prd003-refresh R1.1-R1.4.
type RefreshConfig struct {
	// ForceResearchRefresh forces regeneration of every sub-resource
	// (source research, target research, and therefore synthesis).
	ForceResearchRefresh bool `json:"force_research_refresh,omitempty" yaml:"force_research_refresh,omitempty"`

	// ForceSourceRefresh forces regeneration of the source-entity research.
	ForceSourceRefresh bool `json:"force_source_refresh,omitempty" yaml:"force_source_refresh,omitempty"`

	// ForceTargetRefresh forces regeneration of the target-entity research.
	ForceTargetRefresh bool `json:"force_target_refresh,omitempty" yaml:"force_target_refresh,omitempty"`

	// ForceSynthesisRefresh forces regeneration of the final synthesis
	// even when both research inputs are reused.
	ForceSynthesisRefresh bool `json:"force_synthesis_refresh,omitempty" yaml:"force_synthesis_refresh,omitempty"`
}

// IsZero reports whether no flag is set.
func (c *RefreshConfig) IsZero() bool {
	return c == nil || !(c.ForceResearchRefresh || c.ForceSourceRefresh ||
		c.ForceTargetRefresh || c.ForceSynthesisRefresh)
}

// RefreshPlan is the evaluated regeneration decision for a run.
// Invariant (prd003-refresh R2.3): RefreshSource || RefreshTarget
// implies RefreshSynthesis — synthesis is never served stale against
// regenerated inputs.
type RefreshPlan struct {
	RefreshSource    bool `json:"refresh_source" yaml:"refresh_source"`
	RefreshTarget    bool `json:"refresh_target" yaml:"refresh_target"`
	RefreshSynthesis bool `json:"refresh_synthesis" yaml:"refresh_synthesis"`
}
