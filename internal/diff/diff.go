// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package diff computes structural comparisons between two snapshots of
// the same entity. The algorithm operates over an abstract value model:
// scalar | map[string]value | identified set (citations), walking maps
// recursively by dot path and comparing everything else as opaque units.
// Implements: prd002-diff (R1, R2);
//
//	docs/ARCHITECTURE § Version History.
package diff

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"

	"github.com/Nitesh802/customerintel-sub000/pkg/types"
)

// Invariant violations. These indicate caller bugs, not data
// availability problems, and fail loudly (prd002-diff R1.2).
var (
	ErrSelfDiff       = errors.New("cannot diff a snapshot against itself")
	ErrOutOfOrder     = errors.New("from snapshot must precede to snapshot")
	ErrEntityMismatch = errors.New("snapshots belong to different entities")
)

// Compute builds the structural diff between two snapshots. The from
// snapshot must strictly precede to by creation order and both must
// belong to the same entity. The output is deterministic: repeated
// calls on the same pair serialize byte-identically (sorted sub-task
// codes, sorted citation identifiers, map keys sorted by encoding/json).
func Compute(from, to *types.Snapshot) (*types.Diff, error) {
	if from.ID == to.ID {
		return nil, fmt.Errorf("snapshot %d: %w", from.ID, ErrSelfDiff)
	}
	if from.ID > to.ID {
		return nil, fmt.Errorf("snapshots (%d, %d): %w", from.ID, to.ID, ErrOutOfOrder)
	}
	if from.EntityID != to.EntityID {
		return nil, fmt.Errorf("snapshots (%d, %d): %w", from.ID, to.ID, ErrEntityMismatch)
	}

	d := &types.Diff{
		FromID:   from.ID,
		ToID:     to.ID,
		EntityID: from.EntityID,
	}

	for _, code := range unionCodes(from.Body.SubtaskResults, to.Body.SubtaskResults) {
		fromRes, inFrom := from.Body.SubtaskResults[code]
		toRes, inTo := to.Body.SubtaskResults[code]

		switch {
		case !inFrom:
			sd := types.SubtaskDiff{Code: code, Status: types.SubtaskAdded}
			sd.Citations.Added = citationIdentities(toRes.Citations)
			d.Subtasks = append(d.Subtasks, sd)
		case !inTo:
			sd := types.SubtaskDiff{Code: code, Status: types.SubtaskRemoved}
			sd.Citations.Removed = citationIdentities(fromRes.Citations)
			d.Subtasks = append(d.Subtasks, sd)
		default:
			d.Subtasks = append(d.Subtasks, compareSubtask(code, fromRes, toRes))
		}
	}

	return d, nil
}

// Encode serializes a diff for storage. encoding/json sorts map keys,
// which together with the sorted slices makes the encoding stable.
func Encode(d *types.Diff) ([]byte, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encoding diff (%d, %d): %w", d.FromID, d.ToID, err)
	}
	return data, nil
}

// Decode parses a stored diff body.
func Decode(data []byte) (*types.Diff, error) {
	var d types.Diff
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decoding diff: %w", err)
	}
	return &d, nil
}

func compareSubtask(code string, from, to types.SubtaskResult) types.SubtaskDiff {
	sd := types.SubtaskDiff{
		Code:    code,
		Status:  types.SubtaskCompared,
		Added:   map[string]any{},
		Changed: map[string]types.ValueChange{},
		Removed: map[string]any{},
	}

	walk("", parsePayload(from.Payload), parsePayload(to.Payload), &sd)
	sd.Citations = compareCitations(from.Citations, to.Citations)

	if len(sd.Added) == 0 {
		sd.Added = nil
	}
	if len(sd.Changed) == 0 {
		sd.Changed = nil
	}
	if len(sd.Removed) == 0 {
		sd.Removed = nil
	}
	return sd
}

// walk recursively compares two payload values. Keyed maps recurse by
// dot-separated path; lists and scalars are compared by value equality
// as a single unit (element-by-element list diffing is deliberately not
// attempted — regenerated lists rarely align by index). The empty path
// denotes the payload root.
func walk(path string, from, to any, sd *types.SubtaskDiff) {
	fromMap, fromIsMap := from.(map[string]any)
	toMap, toIsMap := to.(map[string]any)

	if !fromIsMap || !toIsMap {
		if !reflect.DeepEqual(from, to) {
			sd.Changed[path] = types.ValueChange{From: from, To: to}
		}
		return
	}

	keys := make(map[string]bool, len(fromMap)+len(toMap))
	for k := range fromMap {
		keys[k] = true
	}
	for k := range toMap {
		keys[k] = true
	}

	sorted := make([]string, 0, len(keys))
	for k := range keys {
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	for _, key := range sorted {
		childPath := key
		if path != "" {
			childPath = path + "." + key
		}

		fromVal, inFrom := fromMap[key]
		toVal, inTo := toMap[key]

		switch {
		case !inFrom:
			sd.Added[childPath] = toVal
		case !inTo:
			sd.Removed[childPath] = fromVal
		default:
			walk(childPath, fromVal, toVal, sd)
		}
	}
}

// compareCitations diffs two citation slices as identity-keyed sets.
// Reordering entries without changing the identifier set yields an
// empty diff; incidental field changes on a matching identifier are
// never reported (prd002-diff R2.4).
func compareCitations(from, to []types.Citation) types.CitationDiff {
	fromSet := make(map[string]bool, len(from))
	for _, c := range from {
		fromSet[c.Identity()] = true
	}
	toSet := make(map[string]bool, len(to))
	for _, c := range to {
		toSet[c.Identity()] = true
	}

	var cd types.CitationDiff
	for id := range toSet {
		if !fromSet[id] {
			cd.Added = append(cd.Added, id)
		}
	}
	for id := range fromSet {
		if !toSet[id] {
			cd.Removed = append(cd.Removed, id)
		}
	}

	sort.Strings(cd.Added)
	sort.Strings(cd.Removed)
	return cd
}

func citationIdentities(citations []types.Citation) []string {
	if len(citations) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(citations))
	var ids []string
	for _, c := range citations {
		id := c.Identity()
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// parsePayload interprets a raw sub-task payload for comparison. A
// payload that is not valid JSON is compared as an opaque string — it
// was captured verbatim at snapshot time and only degrades diff
// granularity, never correctness.
func parsePayload(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	return v
}

func unionCodes(from, to map[string]types.SubtaskResult) []string {
	codes := make(map[string]bool, len(from)+len(to))
	for c := range from {
		codes[c] = true
	}
	for c := range to {
		codes[c] = true
	}

	sorted := make([]string, 0, len(codes))
	for c := range codes {
		sorted = append(sorted, c)
	}
	sort.Strings(sorted)
	return sorted
}
