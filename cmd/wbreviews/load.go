package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/mrskbj/wildberries-reviews-analysis/application/service"
	"github.com/mrskbj/wildberries-reviews-analysis/infrastructure/ingest"
	"github.com/mrskbj/wildberries-reviews-analysis/infrastructure/persistence"
	"github.com/mrskbj/wildberries-reviews-analysis/internal/config"
	"github.com/mrskbj/wildberries-reviews-analysis/internal/log"
	"github.com/spf13/cobra"
)

func loadCmd() *cobra.Command {
	var (
		envFile   string
		dbURL     string
		batchSize int
	)

	cmd := &cobra.Command{
		Use:   "load <csv-file>",
		Short: "Load a CSV review export and enrich it",
		Long: `Load a CSV review export into the relational store.

The store is reset, reference tables are rebuilt from the file, reviews
are bulk inserted, and every review without a sentiment label is
enriched one row at a time.

Configuration is loaded in the following order (later sources override earlier):
  1. Default values
  2. .env file (if --env-file specified or .env exists in current directory)
  3. Environment variables
  4. Command line flags

Environment variables:
  DATA_DIR                     Data directory (default: ~/.wbreviews)
  DB_URL                       Database URL (default: sqlite:///{data_dir}/wbreviews.db)
  LOG_LEVEL                    Log level: DEBUG, INFO, WARN, ERROR (default: INFO)
  LOG_FORMAT                   Log format: pretty, json (default: pretty)
  BATCH_SIZE                   Bulk-insert chunk size (default: 1000)
  ENRICHER                     Sentiment backend: sql, openai (default: sql)

  ENRICHMENT_ENDPOINT_*        Chat-completion service for the openai enricher
    BASE_URL                   Base URL (e.g., https://api.openai.com/v1)
    MODEL                      Model identifier (e.g., gpt-4o-mini)
    API_KEY                    API key for authentication
    TIMEOUT                    Request timeout in seconds (default: 60)
    MAX_RETRIES                Retry attempts (default: 5)`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(cmd.Context(), envFile, dbURL, batchSize, args[0])
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&dbURL, "db-url", "", "Database URL (overrides DB_URL)")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "Bulk-insert chunk size (overrides BATCH_SIZE)")

	return cmd
}

func runLoad(ctx context.Context, envFile, dbURL string, batchSize int, csvPath string) error {
	cfg, err := loadAppConfig(envFile)
	if err != nil {
		return err
	}
	cfg = applyLoadOverrides(cfg, dbURL, batchSize)

	if err := cfg.EnsureDataDir(); err != nil {
		return err
	}

	logger := log.NewLogger(cfg)
	logger.SetDefault()
	slogger := logger.Slog()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slogger.Info("starting load", slog.String("version", version), slog.String("file", csvPath))

	rows, err := ingest.NewNormalizer(slogger).ReadFile(csvPath)
	if err != nil {
		return err
	}

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
	result, err := loader.Run(ctx, rows, cfg.BatchSize())
	if err != nil {
		return err
	}

	fmt.Printf("Loaded %d rows: %d reviews inserted, %d enriched\n",
		result.RowsAccepted(), result.ReviewsInserted(), result.ReviewsEnriched())
	return nil
}

// applyLoadOverrides applies command line flag overrides to the config.
func applyLoadOverrides(cfg config.AppConfig, dbURL string, batchSize int) config.AppConfig {
	var opts []config.AppConfigOption

	if dbURL != "" {
		opts = append(opts, config.WithDBURL(dbURL))
	}
	if batchSize > 0 {
		opts = append(opts, config.WithBatchSize(batchSize))
	}

	return cfg.Apply(opts...)
}
