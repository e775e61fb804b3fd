// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package version

import (
	"context"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"
)

// ExportHistoryYAML writes an entity's snapshot history to w as YAML,
// newest first. Used for audit exports alongside the CLI table view.
func (s *Service) ExportHistoryYAML(ctx context.Context, entityID string, w io.Writer) error {
	summaries, err := s.store.ListSnapshots(ctx, entityID)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(summaries)
	if err != nil {
		return fmt.Errorf("marshaling history: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing history export: %w", err)
	}
	return nil
}
