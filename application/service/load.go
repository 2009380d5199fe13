// Package service orchestrates the load-and-enrich pipeline over the
// domain stores.
package service

import (
	"context"
	"log/slog"

	"github.com/mrskbj/wildberries-reviews-analysis/domain/review"
	"github.com/mrskbj/wildberries-reviews-analysis/domain/sentiment"
)

// enrichLogEvery is how often the enrichment loop reports progress.
const enrichLogEvery = 100

// LoadResult summarizes one pipeline run.
type LoadResult struct {
	rowsAccepted    int
	reviewsInserted int
	reviewsEnriched int
}

// RowsAccepted returns the number of normalized rows that resolved to
// valid references.
func (r LoadResult) RowsAccepted() int { return r.rowsAccepted }

// ReviewsInserted returns the number of review rows inserted.
func (r LoadResult) ReviewsInserted() int { return r.reviewsInserted }

// ReviewsEnriched returns the number of reviews enriched in this run.
func (r LoadResult) ReviewsEnriched() int { return r.reviewsEnriched }

// Load drives the pipeline: reset, reference upsert, key resolution,
// review materialization, pending discovery, and the enrichment loop.
type Load struct {
	reviews    review.Store
	sentiments sentiment.Store
	enricher   sentiment.Enricher
	log        *slog.Logger
}

// NewLoad creates a Load service.
func NewLoad(reviews review.Store, sentiments sentiment.Store, enricher sentiment.Enricher, log *slog.Logger) *Load {
	if log == nil {
		log = slog.Default()
	}
	return &Load{
		reviews:    reviews,
		sentiments: sentiments,
		enricher:   enricher,
		log:        log,
	}
}

// Run executes the full pipeline over normalized rows. Any failure
// rolls back the current step's uncommitted work and aborts with a
// PipelineError wrapping the cause; steps already committed (including
// per-row enrichment commits) remain durable.
func (s *Load) Run(ctx context.Context, rows []review.Row, batchSize int) (LoadResult, error) {
	// Step 1: reset. Cascade removes prior enrichment state, so this
	// run re-enriches everything it loads.
	s.log.Info("clearing target tables")
	if err := s.reviews.Reset(ctx); err != nil {
		return LoadResult{}, review.NewPipelineError("reset", err)
	}

	// Step 2: reference upsert, one commit for both tables.
	productKeys := review.DistinctProductKeys(rows)
	userKeys := review.DistinctUserKeys(rows)
	s.log.Info("loading reference entities", "products", len(productKeys), "users", len(userKeys))
	if err := s.reviews.UpsertReferences(ctx, productKeys, userKeys); err != nil {
		return LoadResult{}, review.NewPipelineError("reference upsert", err)
	}

	// Step 3: key resolution.
	productIDs, err := s.reviews.ProductIDs(ctx)
	if err != nil {
		return LoadResult{}, review.NewPipelineError("key resolution", err)
	}
	userIDs, err := s.reviews.UserIDs(ctx)
	if err != nil {
		return LoadResult{}, review.NewPipelineError("key resolution", err)
	}

	// Step 4: review materialization. A row whose keys fail to resolve
	// can only mean step 2 missed an upsert; it is excluded, not
	// inserted with dangling references.
	accepted := make([]review.Review, 0, len(rows))
	for _, row := range rows {
		productID, okProduct := productIDs[row.ProductKey()]
		userID, okUser := userIDs[row.UserKey()]
		if !okProduct || !okUser {
			s.log.Warn("row references unresolved key, skipping",
				"product", row.ProductKey(), "user", row.UserKey())
			continue
		}
		accepted = append(accepted, review.NewReview(productID, userID, row))
	}

	inserted, err := s.reviews.InsertReviews(ctx, accepted, batchSize)
	if err != nil {
		return LoadResult{}, review.NewPipelineError("review insert", err)
	}
	s.log.Info("reviews loaded", "inserted", inserted)

	// Steps 5-6: pending discovery and the enrichment loop.
	enriched, err := s.Enrich(ctx)
	if err != nil {
		return LoadResult{
			rowsAccepted:    len(accepted),
			reviewsInserted: inserted,
			reviewsEnriched: enriched,
		}, err
	}

	return LoadResult{
		rowsAccepted:    len(accepted),
		reviewsInserted: inserted,
		reviewsEnriched: enriched,
	}, nil
}

// Enrich discovers reviews without an analysis and enriches each one,
// committing after every invocation. It is the re-entry point for an
// interrupted enrichment loop: already-enriched reviews are never
// re-invoked because discovery only returns rows without an analysis.
// Returns the number of reviews enriched before success or failure.
func (s *Load) Enrich(ctx context.Context) (int, error) {
	pending, err := s.sentiments.Pending(ctx)
	if err != nil {
		return 0, review.NewPipelineError("pending discovery", err)
	}
	if len(pending) == 0 {
		s.log.Info("all reviews already enriched")
		return 0, nil
	}

	s.log.Info("starting enrichment", "pending", len(pending))
	enriched := 0
	for _, reviewID := range pending {
		select {
		case <-ctx.Done():
			return enriched, review.NewPipelineError("enrichment", ctx.Err())
		default:
		}

		if err := s.enricher.EnrichReview(ctx, reviewID); err != nil {
			return enriched, review.NewPipelineError("enrichment", err)
		}
		enriched++

		if enriched%enrichLogEvery == 0 {
			s.log.Info("enrichment progress", "enriched", enriched, "pending", len(pending)-enriched)
		}
	}

	s.log.Info("enrichment complete", "enriched", enriched)
	return enriched, nil
}
