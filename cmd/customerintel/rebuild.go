// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Nitesh802/customerintel-sub000/internal/rebuild"
	"github.com/Nitesh802/customerintel-sub000/pkg/types"
)

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Claim and release rebuild slots for artifact regeneration",
	Long: `Rebuild coordinates expensive artifact regeneration: at most one
worker holds the rebuild slot for a run at a time. Claim before
regenerating; release afterwards with --success when the new artifact
was written. A claim older than the configured TTL is treated as
abandoned and may be taken over.`,
}

var rebuildClaimCmd = &cobra.Command{
	Use:   "claim <run-id>",
	Short: "Claim the rebuild slot for a run",
	Args:  cobra.ExactArgs(1),
	RunE:  runRebuildClaim,
}

func runRebuildClaim(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	coord := rebuild.NewCoordinator(st, types.RebuildConfig{
		ClaimTTL: viper.GetDuration("rebuild.claim_ttl"),
	})

	err = coord.Claim(context.Background(), args[0])
	if errors.Is(err, rebuild.ErrBusy) {
		fmt.Println("busy: another rebuild is in progress, poll for completion")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Println("granted")
	return nil
}

var rebuildReleaseCmd = &cobra.Command{
	Use:   "release <run-id>",
	Short: "Release the rebuild slot for a run",
	Args:  cobra.ExactArgs(1),
	RunE:  runRebuildRelease,
}

func runRebuildRelease(cmd *cobra.Command, args []string) error {
	success, _ := cmd.Flags().GetBool("success")

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	coord := rebuild.NewCoordinator(st, types.RebuildConfig{
		ClaimTTL: viper.GetDuration("rebuild.claim_ttl"),
	})

	if err := coord.Release(context.Background(), args[0], success); err != nil {
		return err
	}

	fmt.Println("released")
	return nil
}

func init() {
	rebuildReleaseCmd.Flags().Bool("success", false, "the rebuild wrote a new live artifact")

	rebuildCmd.AddCommand(rebuildClaimCmd)
	rebuildCmd.AddCommand(rebuildReleaseCmd)
	rootCmd.AddCommand(rebuildCmd)
}
