package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/richfrem/quoteagent/internal/cli"
	"github.com/richfrem/quoteagent/internal/config"
	"github.com/richfrem/quoteagent/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "quoteagent",
	Short: "Quote agent runs guided plumbing quote intakes",
	Long: `Quote agent walks a customer through a scripted set of intake questions,
asks generated follow-ups and produces a structured summary for review.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("catalog", "", "Path to the question catalog (defaults to CATALOG_PATH or the built-in catalog)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error (defaults to LOG_LEVEL)")
}

// loadBackend reads the environment and wires the agent. When quiet is set
// logs are discarded unless --log-level was given explicitly.
func loadBackend(ctx context.Context, cmd *cobra.Command, quiet bool) (*cli.Backend, *config.Config, *slog.Logger) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.LogLevel = config.ParseLevel(lvl)
		quiet = false
	}
	logger := logging.New(cfg.LogLevel)
	if quiet {
		logger = logging.NewNop()
	}

	catalogPath, _ := cmd.Flags().GetString("catalog")
	backend, err := cli.Build(ctx, cfg, catalogPath, logger)
	if err != nil {
		fmt.Printf("Error initializing quote agent: %v\n", err)
		os.Exit(1)
	}
	return backend, cfg, logger
}
