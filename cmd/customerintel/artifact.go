// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Nitesh802/customerintel-sub000/pkg/types"
)

var artifactCmd = &cobra.Command{
	Use:   "artifact",
	Short: "Record pipeline artifact rows",
}

var artifactSaveCmd = &cobra.Command{
	Use:   "save <run-id> <logical-type>",
	Short: "Save an artifact document for a run",
	Long: `Save records one physical artifact row from a JSON file. The phase tags
which generation wrote it: "live" for the current cache (what a completed
rebuild writes), "bundle" or "synthesis_record" when backfilling legacy
data. Rows accumulate; the resolver's tier order picks the winner.`,
	Args: cobra.ExactArgs(2),
	RunE: runArtifactSave,
}

func runArtifactSave(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	if file == "" {
		return fmt.Errorf("--file is required: path to the artifact JSON document")
	}
	phase, _ := cmd.Flags().GetString("phase")

	body, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("reading artifact file: %w", err)
	}

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	id, err := st.SaveArtifact(context.Background(), args[0],
		types.ArtifactPhase(phase), types.LogicalArtifactType(args[1]), body)
	if err != nil {
		return err
	}

	fmt.Printf("Artifact %d saved (run %s, phase %s)\n", id, args[0], phase)
	return nil
}

func init() {
	artifactSaveCmd.Flags().String("file", "", "path to the artifact JSON document")
	artifactSaveCmd.Flags().String("phase", "live", "artifact phase: live, bundle, or synthesis_record")

	artifactCmd.AddCommand(artifactSaveCmd)
	rootCmd.AddCommand(artifactCmd)
}
