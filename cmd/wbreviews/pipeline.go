package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mrskbj/wildberries-reviews-analysis/domain/review"
	"github.com/mrskbj/wildberries-reviews-analysis/domain/sentiment"
	"github.com/mrskbj/wildberries-reviews-analysis/infrastructure/enricher"
	"github.com/mrskbj/wildberries-reviews-analysis/infrastructure/persistence"
	"github.com/mrskbj/wildberries-reviews-analysis/internal/config"
	"github.com/mrskbj/wildberries-reviews-analysis/internal/database"
)

// openDatabase connects to the configured store and runs migrations.
func openDatabase(ctx context.Context, cfg config.AppConfig) (database.Database, error) {
	db, err := database.NewDatabase(ctx, cfg.DBURL())
	if err != nil {
		return database.Database{}, fmt.Errorf("%w: %v", review.ErrStoreUnavailable, err)
	}
	// SQLite serializes writers; a single connection keeps the bulk
	// insert from hitting database-is-locked errors.
	if db.IsSQLite() {
		if err := db.ConfigurePool(1, 1, 0); err != nil {
			_ = db.Close()
			return database.Database{}, fmt.Errorf("configure pool: %w", err)
		}
	}
	if err := persistence.AutoMigrate(db); err != nil {
		_ = db.Close()
		return database.Database{}, fmt.Errorf("migrate schema: %w", err)
	}
	return db, nil
}

// buildEnricher selects the sentiment backend from configuration.
func buildEnricher(cfg config.AppConfig, db database.Database, reviews review.Store, sentiments sentiment.Store, logger *slog.Logger) (sentiment.Enricher, error) {
	switch cfg.Enricher() {
	case config.EnricherOpenAI:
		endpoint := cfg.Endpoint()
		if endpoint == nil || !endpoint.IsConfigured() {
			return nil, fmt.Errorf("enricher %q requires ENRICHMENT_ENDPOINT_MODEL", cfg.Enricher())
		}
		return enricher.NewOpenAIEnricher(*endpoint, reviews, sentiments, logger), nil
	case config.EnricherSQL:
		return enricher.NewSQLEnricher(db, logger), nil
	default:
		return nil, fmt.Errorf("unknown enricher %q", cfg.Enricher())
	}
}
