// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ValueChange records a leaf value that differs between two snapshots.
type ValueChange struct {
	From any `json:"from" yaml:"from"`
	To   any `json:"to" yaml:"to"`
}

// CitationDiff is the identity-keyed set difference of a sub-task's
// citations. Matching identifiers are never reported as changed, even
// when incidental fields (snippet text, title) differ.
type CitationDiff struct {
	Added   []string `json:"added,omitempty" yaml:"added,omitempty"`
	Removed []string `json:"removed,omitempty" yaml:"removed,omitempty"`
}

// IsEmpty reports whether the citation sets were identical.
func (c CitationDiff) IsEmpty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0
}

// SubtaskDiff is the structural comparison of one sub-task code across
// two snapshots. Paths are dot-separated keys into the payload tree.
type SubtaskDiff struct {
	Code string `json:"code" yaml:"code"`

	// Status classifies the sub-task itself: "added" (present only in
	// the newer snapshot), "removed", or "compared".
	Status string `json:"status" yaml:"status"`

	Added     map[string]any         `json:"added,omitempty" yaml:"added,omitempty"`
	Changed   map[string]ValueChange `json:"changed,omitempty" yaml:"changed,omitempty"`
	Removed   map[string]any         `json:"removed,omitempty" yaml:"removed,omitempty"`
	Citations CitationDiff           `json:"citations" yaml:"citations"`
}

// Sub-task diff status values.
const (
	SubtaskAdded    = "added"
	SubtaskRemoved  = "removed"
	SubtaskCompared = "compared"
)

// Diff is the structural comparison between two snapshots of the same
// entity, ordered From strictly before To. Diffs are memoized pure
// functions of the (From, To) pair: recomputation is idempotent, and the
// serialized body carries no wall-clock field so repeated computation is
// byte-identical (storage records its own created_at).
type Diff struct {
	FromID   int64         `json:"from_snapshot_id" yaml:"from_snapshot_id"`
	ToID     int64         `json:"to_snapshot_id" yaml:"to_snapshot_id"`
	EntityID string        `json:"entity_id" yaml:"entity_id"`
	Subtasks []SubtaskDiff `json:"subtasks" yaml:"subtasks"`
}
