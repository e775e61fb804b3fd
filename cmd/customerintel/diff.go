// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	versionpkg "github.com/Nitesh802/customerintel-sub000/internal/version"
	"github.com/Nitesh802/customerintel-sub000/pkg/types"
)

var diffCmd = &cobra.Command{
	Use:   "diff <to-snapshot-id> [from-snapshot-id]",
	Short: "Compute or fetch the structural diff between two snapshots",
	Long: `Diff compares two snapshots of the same entity. With a single id the
snapshot is diffed against its immediate predecessor in the entity's
history. The from snapshot must precede the to snapshot by creation
order. Diffs are memoized: the first request computes and stores the
result, later requests return it as-is.

Citations are diffed as identity-keyed sets, so reordering entries between
runs never produces a spurious change.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runDiff,
}

func runDiff(cmd *cobra.Command, args []string) error {
	toID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid snapshot id %q", args[0])
	}

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	svc := versionpkg.NewService(st)
	ctx := context.Background()

	var d *types.Diff
	if len(args) == 2 {
		fromID, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid snapshot id %q", args[1])
		}
		d, err = svc.GetOrCreateDiff(ctx, fromID, toID)
		if err != nil {
			return err
		}
	} else {
		d, err = svc.DiffAgainstPrevious(ctx, toID)
		if err != nil {
			return err
		}
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	}

	printDiff(d)
	return nil
}

func printDiff(d *types.Diff) {
	fmt.Printf("Diff %d -> %d (entity %s)\n\n", d.FromID, d.ToID, d.EntityID)

	for _, sd := range d.Subtasks {
		switch sd.Status {
		case types.SubtaskAdded:
			fmt.Printf("+ %s (sub-task added, %d citations)\n", sd.Code, len(sd.Citations.Added))
		case types.SubtaskRemoved:
			fmt.Printf("- %s (sub-task removed, %d citations)\n", sd.Code, len(sd.Citations.Removed))
		default:
			if len(sd.Added)+len(sd.Changed)+len(sd.Removed) == 0 && sd.Citations.IsEmpty() {
				continue
			}
			fmt.Printf("~ %s\n", sd.Code)
			for path := range sd.Added {
				fmt.Printf("    + %s\n", path)
			}
			for path, ch := range sd.Changed {
				fmt.Printf("    ~ %s: %v -> %v\n", path, ch.From, ch.To)
			}
			for path := range sd.Removed {
				fmt.Printf("    - %s\n", path)
			}
			for _, id := range sd.Citations.Added {
				fmt.Printf("    + citation %s\n", id)
			}
			for _, id := range sd.Citations.Removed {
				fmt.Printf("    - citation %s\n", id)
			}
		}
	}
}

// --- backfill subcommand ---

var diffBackfillCmd = &cobra.Command{
	Use:   "backfill <entity-id>",
	Short: "Compute missing diffs between consecutive snapshots",
	Long: `Backfill walks the snapshot history of an entity and computes any
missing consecutive-pair diffs concurrently. Safe to re-run: existing
diffs are left untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: runDiffBackfill,
}

func runDiffBackfill(cmd *cobra.Command, args []string) error {
	workers, _ := cmd.Flags().GetInt("workers")
	if workers <= 0 {
		workers = viper.GetInt("diff.backfill_workers")
	}

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	svc := versionpkg.NewService(st)
	n, err := svc.BackfillDiffs(context.Background(), args[0], workers)
	if err != nil {
		return err
	}

	fmt.Printf("Computed %d diff(s)\n", n)
	return nil
}

func init() {
	diffCmd.Flags().Bool("json", false, "output the diff as JSON")
	diffBackfillCmd.Flags().Int("workers", 0, "concurrent diff computations (default from config)")

	diffCmd.AddCommand(diffBackfillCmd)
	rootCmd.AddCommand(diffCmd)
}
