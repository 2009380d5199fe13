package review

import "context"

// Store defines the persistence operations the load pipeline drives.
// Implementations commit each method as its own transaction; a failed
// method leaves no partial state behind.
type Store interface {
	// Reset truncates products, users, and reviews in one transaction,
	// restarting identity counters. Dependent sentiment rows cascade.
	Reset(ctx context.Context) error

	// UpsertReferences inserts product and reviewer natural keys,
	// ignoring keys that already exist, committing once after both
	// sets. The end state equals what sequential inserts would produce
	// regardless of batching.
	UpsertReferences(ctx context.Context, productKeys, userKeys []string) error

	// ProductIDs returns the full natural-key to surrogate-identifier
	// mapping for products.
	ProductIDs(ctx context.Context) (map[string]int64, error)

	// UserIDs returns the full natural-key to surrogate-identifier
	// mapping for reviewers.
	UserIDs(ctx context.Context) (map[string]int64, error)

	// InsertReviews bulk-inserts reviews in chunks of batchSize rows,
	// committing once after all chunks. Returns the number inserted.
	InsertReviews(ctx context.Context, reviews []Review, batchSize int) (int, error)

	// ReviewText returns the body of a single persisted review.
	ReviewText(ctx context.Context, reviewID int64) (string, error)
}
