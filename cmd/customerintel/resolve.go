// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Nitesh802/customerintel-sub000/internal/resolve"
	"github.com/Nitesh802/customerintel-sub000/pkg/types"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <run-id> <logical-type>",
	Short: "Resolve the best available representation of an artifact",
	Long: `Resolve walks the artifact fallback chain for a run: the live cache
first, then legacy physical formats in fixed priority order. The first
parsable tier wins and is normalized to the canonical document shape.
When every tier is absent or unparsable the result is rebuild_required
with the list of attempted tiers.

Logical types: synthesis, citation_set.`,
	Args: cobra.ExactArgs(2),
	RunE: runResolve,
}

func runResolve(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	r := resolve.NewResolver(st)
	res, err := r.Resolve(context.Background(), args[0], types.LogicalArtifactType(args[1]))
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	switch res.Status {
	case types.ResolveRebuildRequired:
		fmt.Println("rebuild required; tiers tried:")
		for _, a := range res.Attempts {
			fmt.Printf("  %-18s %s\n", a.Tier, a.Reason)
		}
	default:
		fmt.Printf("%s via %s\n", res.Status, res.Tier)
		doc, _ := json.MarshalIndent(res.Document, "", "  ")
		fmt.Println(string(doc))
	}
	return nil
}

func init() {
	resolveCmd.Flags().Bool("json", false, "output the full result as JSON")
	rootCmd.AddCommand(resolveCmd)
}
