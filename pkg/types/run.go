// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data model for the customerintel
// artifact lifecycle service: runs, snapshots, diffs, refresh plans,
// and resolved artifacts.
// Implements: prd001-snapshots, prd002-diff, prd003-refresh (data model);
//
//	docs/ARCHITECTURE § Data Model.
package types

import (
	"encoding/json"
	"time"
)

// RunStatus is the lifecycle state of a pipeline run.
type RunStatus string

const (
	RunPending   RunStatus = "pending"
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// Run is one pipeline execution against an entity, optionally paired
// with a target entity for comparative research.
type Run struct {
	// ID is the run identifier (UUID assigned at ingest if absent).
	ID string `json:"id" yaml:"id"`

	// EntityID is the primary research subject.
	EntityID string `json:"entity_id" yaml:"entity_id"`

	// TargetEntityID is the optional second subject for paired runs.
	TargetEntityID string `json:"target_entity_id,omitempty" yaml:"target_entity_id,omitempty"`

	Status RunStatus `json:"status" yaml:"status"`

	// Refresh carries the explicit regeneration intents for this run.
	// Nil means full reuse.
	Refresh *RefreshConfig `json:"refresh,omitempty" yaml:"refresh,omitempty"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Citation is one source reference attached to a sub-task result.
// Citations form identity-keyed sets: Identity() is the stable key used
// for diffing, never the position in the slice.
type Citation struct {
	ID      string `json:"id" yaml:"id"`
	URL     string `json:"url" yaml:"url"`
	Domain  string `json:"domain,omitempty" yaml:"domain,omitempty"`
	Title   string `json:"title,omitempty" yaml:"title,omitempty"`
	Snippet string `json:"snippet,omitempty" yaml:"snippet,omitempty"`
}

// Identity returns the stable identifier for set-membership comparisons.
// Falls back to the URL when the source id is empty.
func (c Citation) Identity() string {
	if c.ID != "" {
		return c.ID
	}
	return c.URL
}

// SubtaskResult is the output of one research sub-task within a run.
type SubtaskResult struct {
	// Payload is the raw sub-task document. It is captured verbatim:
	// a payload that is not valid JSON is still stored (as a string)
	// and only degrades diff quality, never snapshot durability.
	Payload json.RawMessage `json:"payload" yaml:"payload"`

	Citations []Citation `json:"citations,omitempty" yaml:"citations,omitempty"`

	Status string `json:"status" yaml:"status"`

	// Cost is the API spend attributed to this sub-task, in USD.
	Cost float64 `json:"cost,omitempty" yaml:"cost,omitempty"`
}

// SourceDescriptor identifies one approved source document for a run.
type SourceDescriptor struct {
	URL      string `json:"url" yaml:"url"`
	Domain   string `json:"domain,omitempty" yaml:"domain,omitempty"`
	Title    string `json:"title,omitempty" yaml:"title,omitempty"`
	Approved bool   `json:"approved" yaml:"approved"`
}
