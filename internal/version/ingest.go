// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package version

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.yaml.in/yaml/v3"

	"github.com/Nitesh802/customerintel-sub000/pkg/types"
)

// RunFile is the YAML document the producing pipeline hands over for
// snapshot capture: one run plus its completed sub-task outputs and the
// approved source set.
type RunFile struct {
	Run      types.Run                         `yaml:"run"`
	Subtasks map[string]subtaskEntry           `yaml:"subtask_results"`
	Sources  map[string]types.SourceDescriptor `yaml:"sources,omitempty"`
}

// subtaskEntry mirrors SubtaskResult with a free-form payload, since
// YAML ingest carries structured payloads rather than raw JSON.
type subtaskEntry struct {
	Payload   any              `yaml:"payload"`
	Citations []types.Citation `yaml:"citations,omitempty"`
	Status    string           `yaml:"status"`
	Cost      float64          `yaml:"cost,omitempty"`
}

// LoadRunFile reads a pipeline result file. A run without an id gets a
// fresh UUID; a run without a status is assumed completed (the pipeline
// only hands over finished runs for capture).
func LoadRunFile(path string) (*RunFile, map[string]types.SubtaskResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading run file: %w", err)
	}

	var rf RunFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, nil, fmt.Errorf("parsing run file: %w", err)
	}

	if rf.Run.EntityID == "" {
		return nil, nil, fmt.Errorf("run file %s: entity_id is required", path)
	}
	if rf.Run.ID == "" {
		rf.Run.ID = uuid.NewString()
	}
	if rf.Run.Status == "" {
		rf.Run.Status = types.RunCompleted
	}

	results := make(map[string]types.SubtaskResult, len(rf.Subtasks))
	for code, entry := range rf.Subtasks {
		payload, err := json.Marshal(entry.Payload)
		if err != nil {
			return nil, nil, fmt.Errorf("encoding payload for sub-task %s: %w", code, err)
		}
		results[code] = types.SubtaskResult{
			Payload:   payload,
			Citations: entry.Citations,
			Status:    entry.Status,
			Cost:      entry.Cost,
		}
	}

	return &rf, results, nil
}
