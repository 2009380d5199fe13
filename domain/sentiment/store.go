package sentiment

import "context"

// Store defines persistence operations for sentiment analyses.
type Store interface {
	// Pending returns identifiers of reviews with no analysis row, in
	// ascending review-identifier order.
	Pending(ctx context.Context) ([]int64, error)

	// Save persists an analysis for a review. Each call is its own
	// transaction so progress is durable per row.
	Save(ctx context.Context, a Analysis) (Analysis, error)

	// Exists reports whether a review already has an analysis.
	Exists(ctx context.Context, reviewID int64) (bool, error)

	// LabelCounts returns the number of analyses per label.
	LabelCounts(ctx context.Context) (map[Label]int64, error)

	// RatingCounts returns the number of enriched reviews per star rating.
	RatingCounts(ctx context.Context) (map[int]int64, error)

	// Mismatches returns reviews whose rating contradicts their label:
	// rating <= 2 with a positive label, or rating 5 with a negative one.
	Mismatches(ctx context.Context) ([]Mismatch, error)
}

// Enricher invokes the opaque sentiment scoring operation for exactly
// one review. The pipeline guarantees at-most-once invocation per review
// by construction; implementations fail with ErrEnrichmentFailed.
type Enricher interface {
	EnrichReview(ctx context.Context, reviewID int64) error
}
