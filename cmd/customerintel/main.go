// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the customerintel CLI.
// Implements: prd001-snapshots, prd002-diff, prd003-refresh,
//             prd004-artifact-cache, prd005-rebuild (CLI surface).
// See docs/ARCHITECTURE § Pipeline Interface.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Nitesh802/customerintel-sub000/internal/logging"
	"github.com/Nitesh802/customerintel-sub000/internal/store"
	"github.com/Nitesh802/customerintel-sub000/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the customerintel CLI.
var rootCmd = &cobra.Command{
	Use:   "customerintel",
	Short: "Artifact lifecycle for the customer intelligence pipeline",
	Long: `customerintel manages the lifecycle of expensive LLM-derived research
artifacts: immutable snapshots of completed runs, structural diffs between
them, refresh planning, and cache resolution across schema revisions.

The producing pipeline hands over completed run results for snapshot
capture; the report layer reads artifacts back through the resolver, which
falls back across historical schema revisions before asking for a rebuild.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		format, _ := cmd.Flags().GetString("log-format")
		level := slog.LevelInfo
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			level = slog.LevelDebug
		}
		logging.Init(level, format)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./customerintel.yaml or ~/.config/customerintel/config.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "", "base directory for persistent state (default: .customerintel)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format: text or json")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("customerintel")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "customerintel"))
		}
	}

	viper.SetEnvPrefix("CUSTOMERINTEL")
	viper.AutomaticEnv()

	viper.SetDefault("store.data_dir", ".customerintel")
	viper.SetDefault("snapshot.max_age", 168*time.Hour)
	viper.SetDefault("rebuild.claim_ttl", 15*time.Minute)
	viper.SetDefault("diff.backfill_workers", 4)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// openStore opens the SQLite store using the --data-dir flag when set,
// falling back to the configured default.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dataDir, _ := cmd.Flags().GetString("data-dir")
	if dataDir == "" {
		dataDir = viper.GetString("store.data_dir")
	}
	return store.Open(types.StoreConfig{DataDir: dataDir})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
