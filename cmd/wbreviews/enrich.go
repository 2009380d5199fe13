package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/mrskbj/wildberries-reviews-analysis/application/service"
	"github.com/mrskbj/wildberries-reviews-analysis/infrastructure/persistence"
	"github.com/mrskbj/wildberries-reviews-analysis/internal/config"
	"github.com/mrskbj/wildberries-reviews-analysis/internal/log"
	"github.com/spf13/cobra"
)

func enrichCmd() *cobra.Command {
	var (
		envFile string
		dbURL   string
	)

	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Enrich reviews that have no sentiment label yet",
		Long: `Enrich reviews that have no sentiment label yet.

Picks up where the last run left off: every already-labelled review is
skipped, and each successful enrichment is committed immediately, so an
interrupted run loses at most the row in flight.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnrich(cmd.Context(), envFile, dbURL)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&dbURL, "db-url", "", "Database URL (overrides DB_URL)")

	return cmd
}

func runEnrich(ctx context.Context, envFile, dbURL string) error {
	cfg, err := loadAppConfig(envFile)
	if err != nil {
		return err
	}
	if dbURL != "" {
		cfg = cfg.Apply(config.WithDBURL(dbURL))
	}

	logger := log.NewLogger(cfg)
	logger.SetDefault()
	slogger := logger.Slog()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			slogger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	reviews := persistence.NewReviewStore(db)
	sentiments := persistence.NewSentimentStore(db)

	enrich, err := buildEnricher(cfg, db, reviews, sentiments, slogger)
	if err != nil {
		return err
	}

	loader := service.NewLoad(reviews, sentiments, enrich, slogger)
	enriched, err := loader.Enrich(ctx)
	if err != nil {
		if enriched > 0 {
			slogger.Warn("enrichment interrupted", slog.Int("enriched", enriched))
		}
		return err
	}

	fmt.Printf("Enriched %d reviews\n", enriched)
	return nil
}
