// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package diff

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Nitesh802/customerintel-sub000/pkg/types"
)

// --- test helpers ---

func snapshot(id int64, entityID string, results map[string]types.SubtaskResult) *types.Snapshot {
	return &types.Snapshot{
		ID:       id,
		EntityID: entityID,
		RunID:    fmt.Sprintf("run-%d", id),
		Body: types.SnapshotBody{
			EntityID:       entityID,
			RunID:          fmt.Sprintf("run-%d", id),
			SubtaskResults: results,
		},
	}
}

func subtask(payload string, citations ...types.Citation) types.SubtaskResult {
	return types.SubtaskResult{
		Payload:   json.RawMessage(payload),
		Citations: citations,
		Status:    "completed",
	}
}

func cite(id string) types.Citation {
	return types.Citation{ID: id, URL: "https://example.com/" + id, Domain: "example.com"}
}

func findSubtask(t *testing.T, d *types.Diff, code string) types.SubtaskDiff {
	t.Helper()
	for _, sd := range d.Subtasks {
		if sd.Code == code {
			return sd
		}
	}
	t.Fatalf("sub-task %s not in diff", code)
	return types.SubtaskDiff{}
}

// --- invariant tests ---

func TestComputeRejectsSelfDiff(t *testing.T) {
	s := snapshot(1, "acme", nil)
	if _, err := Compute(s, s); !errors.Is(err, ErrSelfDiff) {
		t.Fatalf("expected ErrSelfDiff, got %v", err)
	}
}

func TestComputeRejectsOutOfOrder(t *testing.T) {
	a := snapshot(2, "acme", nil)
	b := snapshot(1, "acme", nil)
	if _, err := Compute(a, b); !errors.Is(err, ErrOutOfOrder) {
		t.Fatalf("expected ErrOutOfOrder, got %v", err)
	}
}

func TestComputeRejectsEntityMismatch(t *testing.T) {
	a := snapshot(1, "acme", nil)
	b := snapshot(2, "globex", nil)
	if _, err := Compute(a, b); !errors.Is(err, ErrEntityMismatch) {
		t.Fatalf("expected ErrEntityMismatch, got %v", err)
	}
}

// --- classification tests ---

func TestSubtaskAddedAndRemoved(t *testing.T) {
	from := snapshot(1, "acme", map[string]types.SubtaskResult{
		"market": subtask(`{"size": 10}`, cite("c1")),
	})
	to := snapshot(2, "acme", map[string]types.SubtaskResult{
		"leadership": subtask(`{"ceo": "someone"}`, cite("c2"), cite("c3")),
	})

	d, err := Compute(from, to)
	if err != nil {
		t.Fatal(err)
	}

	added := findSubtask(t, d, "leadership")
	if added.Status != types.SubtaskAdded {
		t.Errorf("leadership status = %s, want added", added.Status)
	}
	if diff := cmp.Diff([]string{"c2", "c3"}, added.Citations.Added); diff != "" {
		t.Errorf("added citations mismatch (-want +got):\n%s", diff)
	}

	removed := findSubtask(t, d, "market")
	if removed.Status != types.SubtaskRemoved {
		t.Errorf("market status = %s, want removed", removed.Status)
	}
	if diff := cmp.Diff([]string{"c1"}, removed.Citations.Removed); diff != "" {
		t.Errorf("removed citations mismatch (-want +got):\n%s", diff)
	}
}

// --- tree walk tests ---

func TestWalkRecordsDotPaths(t *testing.T) {
	from := snapshot(1, "acme", map[string]types.SubtaskResult{
		"market": subtask(`{
			"size": {"value": 10, "unit": "B"},
			"region": "EMEA",
			"dropped": true
		}`),
	})
	to := snapshot(2, "acme", map[string]types.SubtaskResult{
		"market": subtask(`{
			"size": {"value": 12, "unit": "B"},
			"region": "EMEA",
			"competitors": ["a", "b"]
		}`),
	})

	d, err := Compute(from, to)
	if err != nil {
		t.Fatal(err)
	}

	sd := findSubtask(t, d, "market")
	if sd.Status != types.SubtaskCompared {
		t.Fatalf("status = %s, want compared", sd.Status)
	}

	if _, ok := sd.Added["competitors"]; !ok {
		t.Errorf("missing added path competitors: %v", sd.Added)
	}
	if _, ok := sd.Removed["dropped"]; !ok {
		t.Errorf("missing removed path dropped: %v", sd.Removed)
	}
	ch, ok := sd.Changed["size.value"]
	if !ok {
		t.Fatalf("missing changed path size.value: %v", sd.Changed)
	}
	if ch.From != float64(10) || ch.To != float64(12) {
		t.Errorf("size.value change = %v -> %v, want 10 -> 12", ch.From, ch.To)
	}
	if _, ok := sd.Changed["region"]; ok {
		t.Error("unchanged region reported as changed")
	}
}

func TestListsComparedAsUnits(t *testing.T) {
	from := snapshot(1, "acme", map[string]types.SubtaskResult{
		"market": subtask(`{"tags": ["a", "b"], "same": [1, 2]}`),
	})
	to := snapshot(2, "acme", map[string]types.SubtaskResult{
		"market": subtask(`{"tags": ["b", "a"], "same": [1, 2]}`),
	})

	d, err := Compute(from, to)
	if err != nil {
		t.Fatal(err)
	}

	sd := findSubtask(t, d, "market")
	ch, ok := sd.Changed["tags"]
	if !ok {
		t.Fatal("reordered scalar list not reported as a unit change")
	}
	if _, nested := sd.Changed["tags.0"]; nested {
		t.Error("list compared element-by-element instead of as a unit")
	}
	if diff := cmp.Diff([]any{"a", "b"}, ch.From); diff != "" {
		t.Errorf("change from mismatch (-want +got):\n%s", diff)
	}
	if _, ok := sd.Changed["same"]; ok {
		t.Error("identical list reported as changed")
	}
}

func TestNonJSONPayloadComparedVerbatim(t *testing.T) {
	from := snapshot(1, "acme", map[string]types.SubtaskResult{
		"notes": subtask(`not json at all {{{`),
	})
	to := snapshot(2, "acme", map[string]types.SubtaskResult{
		"notes": subtask(`different garbage ]]]`),
	})

	d, err := Compute(from, to)
	if err != nil {
		t.Fatal(err)
	}

	sd := findSubtask(t, d, "notes")
	if _, ok := sd.Changed[""]; !ok {
		t.Errorf("opaque payload change not recorded at root: %v", sd.Changed)
	}
}

// --- citation tests ---

func TestCitationReorderIsEmptyDiff(t *testing.T) {
	from := snapshot(1, "acme", map[string]types.SubtaskResult{
		"market": subtask(`{}`, cite("c1"), cite("c2"), cite("c3")),
	})
	// Same identifiers, different order, different snippet text.
	reordered := []types.Citation{cite("c3"), cite("c1"), cite("c2")}
	reordered[0].Snippet = "regenerated snippet"
	to := snapshot(2, "acme", map[string]types.SubtaskResult{
		"market": subtask(`{}`, reordered...),
	})

	d, err := Compute(from, to)
	if err != nil {
		t.Fatal(err)
	}

	if cd := findSubtask(t, d, "market").Citations; !cd.IsEmpty() {
		t.Errorf("reordered citations produced a diff: %+v", cd)
	}
}

func TestCitationRemovalScenario(t *testing.T) {
	// Five sub-tasks with citation sets of assorted sizes; the second
	// snapshot drops exactly one identifier from one sub-task.
	codes := []string{"market", "leadership", "products", "funding", "news"}
	sizes := []int{8, 6, 4, 3, 12}

	makeResults := func(dropID string) map[string]types.SubtaskResult {
		results := make(map[string]types.SubtaskResult, len(codes))
		for i, code := range codes {
			var citations []types.Citation
			for n := 0; n < sizes[i]; n++ {
				id := fmt.Sprintf("%s-src-%d", code, n)
				if id == dropID {
					continue
				}
				citations = append(citations, cite(id))
			}
			results[code] = subtask(`{"ok": true}`, citations...)
		}
		return results
	}

	from := snapshot(1, "acme", makeResults(""))
	if got := len(from.Body.SubtaskResults); got != 5 {
		t.Fatalf("snapshot captured %d sub-tasks, want 5", got)
	}

	to := snapshot(2, "acme", makeResults("funding-src-1"))

	d, err := Compute(from, to)
	if err != nil {
		t.Fatal(err)
	}

	for _, code := range codes {
		cd := findSubtask(t, d, code).Citations
		if code == "funding" {
			if diff := cmp.Diff([]string{"funding-src-1"}, cd.Removed); diff != "" {
				t.Errorf("funding removed citations mismatch (-want +got):\n%s", diff)
			}
			continue
		}
		if !cd.IsEmpty() {
			t.Errorf("%s: unexpected citation diff %+v", code, cd)
		}
	}
}

// --- determinism tests ---

func TestComputeIsDeterministic(t *testing.T) {
	from := snapshot(1, "acme", map[string]types.SubtaskResult{
		"market":     subtask(`{"a": 1, "b": {"c": 2, "d": 3}}`, cite("x"), cite("y")),
		"leadership": subtask(`{"ceo": "one"}`, cite("z")),
	})
	to := snapshot(2, "acme", map[string]types.SubtaskResult{
		"market":     subtask(`{"a": 2, "b": {"c": 2}}`, cite("y")),
		"leadership": subtask(`{"ceo": "two", "cfo": "new"}`, cite("z"), cite("w")),
	})

	first, err := Compute(from, to)
	if err != nil {
		t.Fatal(err)
	}
	firstBytes, err := Encode(first)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 10; i++ {
		again, err := Compute(from, to)
		if err != nil {
			t.Fatal(err)
		}
		againBytes, err := Encode(again)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(firstBytes, againBytes) {
			t.Fatalf("encoding differs on iteration %d:\n%s\nvs\n%s", i, firstBytes, againBytes)
		}
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	from := snapshot(1, "acme", map[string]types.SubtaskResult{
		"market": subtask(`{"a": 1}`, cite("c1")),
	})
	to := snapshot(2, "acme", map[string]types.SubtaskResult{
		"market": subtask(`{"a": 2}`),
	})

	d, err := Compute(from, to)
	if err != nil {
		t.Fatal(err)
	}
	data, err := Encode(d)
	if err != nil {
		t.Fatal(err)
	}
	back, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(d, back); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
