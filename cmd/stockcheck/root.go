package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/stockcheck/internal/cli"
	"github.com/aretw0/stockcheck/internal/config"
	"github.com/aretw0/stockcheck/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stockcheck",
	Short: "stockcheck runs inventory check-ins as a chat workflow",
	Long: `stockcheck walks an operator through the item catalog one prompt at a time,
stores each answer and finishes with a report of items that are running low.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", "", "YAML config file (STOCKCHECK_* env vars override it)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}

// loadConfig resolves the config file and env overrides, then builds the logger.
func loadConfig(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")

	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, nil, err
	}

	level := logging.ParseLevel(cfg.Log.Level)
	if debug {
		level = slog.LevelDebug
	}
	logger := logging.NewWithWriter(os.Stderr, level, cfg.Log.JSON)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

// setup loads the configuration and builds the runtime for cmd.
func setup(cmd *cobra.Command) (*cli.Runtime, *slog.Logger, error) {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	rt, err := cli.Build(cmd.Context(), cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return rt, logger, nil
}
