// Package main is the entry point for the wbreviews CLI.
package main

import (
	"fmt"
	"os"

	"github.com/mrskbj/wildberries-reviews-analysis/internal/config"
	"github.com/spf13/cobra"
)

// Version information set via ldflags during build.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wbreviews",
		Short: "Wildberries review ingestion and sentiment pipeline",
		Long:  `wbreviews loads marketplace product reviews from CSV exports into a relational store and enriches each review with a sentiment label.`,
	}

	cmd.AddCommand(loadCmd())
	cmd.AddCommand(enrichCmd())
	cmd.AddCommand(reportCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}

// loadAppConfig loads configuration from .env file and environment variables.
func loadAppConfig(envFile string) (config.AppConfig, error) {
	cfg, err := config.LoadConfig(envFile)
	if err != nil {
		return config.AppConfig{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
