// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	versionpkg "github.com/Nitesh802/customerintel-sub000/internal/version"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Capture and inspect immutable run snapshots",
	Long: `Snapshot captures the complete sub-task output of a completed run as an
immutable document, and lists the version history of an entity. Snapshots
are append-only: re-capturing a run creates a new snapshot, never an update.`,
}

// --- create subcommand ---

var snapshotCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Capture a snapshot from a pipeline run result file",
	Long: `Create reads a run result YAML file produced by the research pipeline,
records the run, and captures all sub-task results as one immutable
snapshot. Sub-task payloads that are not valid JSON are captured verbatim.`,
	RunE: runSnapshotCreate,
}

func runSnapshotCreate(cmd *cobra.Command, args []string) error {
	runFile, _ := cmd.Flags().GetString("run")
	if runFile == "" {
		return fmt.Errorf("--run is required: path to the pipeline run result file")
	}

	rf, results, err := versionpkg.LoadRunFile(runFile)
	if err != nil {
		return err
	}

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()
	if err := st.SaveRun(ctx, &rf.Run); err != nil {
		return err
	}

	svc := versionpkg.NewService(st)
	id, err := svc.CreateSnapshot(ctx, &rf.Run, results, rf.Sources)
	if err != nil {
		return err
	}

	fmt.Printf("Snapshot %d created for run %s (%d sub-tasks)\n", id, rf.Run.ID, len(results))
	return nil
}

// --- history subcommand ---

var snapshotHistoryCmd = &cobra.Command{
	Use:   "history <entity-id>",
	Short: "List the snapshot history of an entity",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapshotHistory,
}

func runSnapshotHistory(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	svc := versionpkg.NewService(st)
	ctx := context.Background()

	if export, _ := cmd.Flags().GetBool("export"); export {
		return svc.ExportHistoryYAML(ctx, args[0], os.Stdout)
	}

	summaries, err := svc.History(ctx, args[0])
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summaries)
	}

	if len(summaries) == 0 {
		fmt.Println("No snapshots found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-10s  %-36s  %-25s  %-8s  %s\n",
		"Snapshot", "Run", "Created", "Subtasks", "Cost")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 95))
	for _, s := range summaries {
		fmt.Fprintf(os.Stdout, "%-10d  %-36s  %-25s  %-8d  $%.2f\n",
			s.SnapshotID, s.RunID, s.CreatedAt.Format(time.RFC3339), s.SubtaskCount, s.TotalCost)
	}
	fmt.Fprintf(os.Stdout, "\n%d snapshots\n", len(summaries))
	return nil
}

// --- reusable subcommand ---

var snapshotReusableCmd = &cobra.Command{
	Use:   "reusable <entity-id>",
	Short: "Find the newest reusable snapshot for an entity",
	Long: `Reusable returns the newest snapshot of the entity's most recent
completed run, provided it is younger than --max-age. Used by the
pipeline's reuse policy to skip redundant regeneration.`,
	Args: cobra.ExactArgs(1),
	RunE: runSnapshotReusable,
}

func runSnapshotReusable(cmd *cobra.Command, args []string) error {
	maxAge, _ := cmd.Flags().GetDuration("max-age")
	if maxAge <= 0 {
		maxAge = viper.GetDuration("snapshot.max_age")
	}

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	svc := versionpkg.NewService(st)
	sum, err := svc.ReusableSnapshot(context.Background(), args[0], maxAge)
	if err != nil {
		return err
	}
	if sum == nil {
		fmt.Println("No reusable snapshot.")
		return nil
	}

	fmt.Printf("Snapshot %d (run %s, created %s)\n",
		sum.SnapshotID, sum.RunID, sum.CreatedAt.Format(time.RFC3339))
	return nil
}

func init() {
	snapshotCreateCmd.Flags().String("run", "", "path to the pipeline run result YAML file")

	snapshotHistoryCmd.Flags().Bool("json", false, "output history as JSON")
	snapshotHistoryCmd.Flags().Bool("export", false, "write history as YAML to stdout")

	snapshotReusableCmd.Flags().Duration("max-age", 0, "freshness window (default from config, 168h)")

	snapshotCmd.AddCommand(snapshotCreateCmd)
	snapshotCmd.AddCommand(snapshotHistoryCmd)
	snapshotCmd.AddCommand(snapshotReusableCmd)

	rootCmd.AddCommand(snapshotCmd)
}
