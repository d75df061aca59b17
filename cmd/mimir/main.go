// Package main implements the mimir CLI (SPEC_FULL §A.4): a thin cobra
// front-end over internal/loader, internal/grounder, and the optional
// internal/store cache, mirroring the root-command/global-flag/PersistentPreRunE
// shape of codenerd's cmd/nerd/main.go.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mimirplan/mimir/internal/config"
	"github.com/mimirplan/mimir/internal/logging"
)

var (
	verbose           bool
	quiet             bool
	strict            bool
	actionCostDefault float64
	deadline          time.Duration
	configPath        string
	storePath         string

	logger *zap.Logger
	cfg    *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "mimir",
	Short: "mimir grounds lifted PDDL domains into ground actions, axioms, and states",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("strict") {
			loaded.Strict = strict
		}
		if cmd.Flags().Changed("quiet") {
			loaded.Quiet = quiet
		}
		if cmd.Flags().Changed("verbose") {
			loaded.Verbose = verbose
		}
		if cmd.Flags().Changed("action-cost-default") {
			loaded.ActionCostDefault = actionCostDefault
		}
		if cmd.Flags().Changed("deadline") {
			loaded.Deadline = deadline
		}
		if cmd.Flags().Changed("store") {
			loaded.StorePath = storePath
		}
		if err := loaded.Validate(); err != nil {
			return err
		}
		cfg = loaded

		l, err := logging.New(logging.Options{Verbose: cfg.Verbose, Quiet: cfg.Quiet})
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug-level logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "silence everything below error")
	rootCmd.PersistentFlags().BoolVar(&strict, "strict", false, "reject unsupported PDDL constructs instead of ignoring them")
	rootCmd.PersistentFlags().Float64Var(&actionCostDefault, "action-cost-default", 1, "cost substituted when an action's cost expression is undefined")
	rootCmd.PersistentFlags().DurationVar(&deadline, "deadline", 0, "bound a single grounding call; 0 disables the deadline")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file overlaying the built-in defaults")
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "optional sqlite cache file, opened by the successor command; no ground instances are written to it or read from it")

	groundCmd.Flags().Bool("stats", false, "print per-action-schema translation statistics")

	rootCmd.AddCommand(groundCmd, axiomsCmd, successorCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
