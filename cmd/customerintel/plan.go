// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Nitesh802/customerintel-sub000/internal/refresh"
)

var planCmd = &cobra.Command{
	Use:   "plan <run-id>",
	Short: "Evaluate the refresh plan for a run",
	Long: `Plan evaluates the run's stored refresh configuration into the three
regeneration decisions: source research, target research, and synthesis.
Synthesis always refreshes when either research input does.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlan,
}

func runPlan(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	planner := refresh.NewPlanner(st)
	plan, err := planner.PlanForRun(context.Background(), args[0])
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(plan)
	}

	fmt.Printf("refresh_source:    %v\n", plan.RefreshSource)
	fmt.Printf("refresh_target:    %v\n", plan.RefreshTarget)
	fmt.Printf("refresh_synthesis: %v\n", plan.RefreshSynthesis)
	return nil
}

func init() {
	planCmd.Flags().Bool("json", false, "output the plan as JSON")
	rootCmd.AddCommand(planCmd)
}
