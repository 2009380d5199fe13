// Package enricher provides sentiment enrichment backends.
package enricher

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mrskbj/wildberries-reviews-analysis/domain/sentiment"
	"github.com/mrskbj/wildberries-reviews-analysis/internal/database"
)

// SQLEnricher invokes the in-database NLP procedure for one review.
// The procedure writes the sentiment row itself; each invocation runs
// as its own statement and is committed immediately, so progress is
// durable per row.
type SQLEnricher struct {
	db  database.Database
	log *slog.Logger
}

// NewSQLEnricher creates a SQLEnricher.
func NewSQLEnricher(db database.Database, log *slog.Logger) *SQLEnricher {
	if log == nil {
		log = slog.Default()
	}
	return &SQLEnricher{db: db, log: log}
}

// EnrichReview runs the scoring procedure for exactly one review.
func (e *SQLEnricher) EnrichReview(ctx context.Context, reviewID int64) error {
	if err := e.db.Session(ctx).Exec(`SELECT process_single_review(?)`, reviewID).Error; err != nil {
		return fmt.Errorf("%w: review %d: %v", sentiment.ErrEnrichmentFailed, reviewID, err)
	}
	e.log.Debug("review enriched", "review_id", reviewID, "backend", "sql")
	return nil
}

var _ sentiment.Enricher = (*SQLEnricher)(nil)
