package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrskbj/wildberries-reviews-analysis/domain/review"
	"github.com/mrskbj/wildberries-reviews-analysis/domain/sentiment"
	"github.com/mrskbj/wildberries-reviews-analysis/internal/database"
)

// seedReviews inserts one product, one user, and reviews with the given
// ratings. Review ids are assigned 1..n in order.
func seedReviews(t *testing.T, db database.Database, ratings ...int) {
	t.Helper()
	ctx := context.Background()
	store := NewReviewStore(db)

	require.NoError(t, store.UpsertProducts(ctx, []string{"widget"}))
	require.NoError(t, store.UpsertUsers(ctx, []string{"alice"}))
	productIDs, err := store.ProductIDs(ctx)
	require.NoError(t, err)
	userIDs, err := store.UserIDs(ctx)
	require.NoError(t, err)

	reviews := make([]review.Review, len(ratings))
	for i, rating := range ratings {
		reviews[i] = review.NewReview(productIDs["widget"], userIDs["alice"], mustRow(t, "widget", "alice", "review text", rating))
	}
	_, err = store.InsertReviews(ctx, reviews, 100)
	require.NoError(t, err)
}

func TestSentimentStore_Pending(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	store := NewSentimentStore(db)
	seedReviews(t, db, 5, 3, 1)

	pending, err := store.Pending(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, pending)

	// Enriched reviews leave the pending set.
	_, err = store.Save(ctx, sentiment.NewAnalysis(2, sentiment.LabelNeutral))
	require.NoError(t, err)

	pending, err = store.Pending(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, pending)
}

func TestSentimentStore_Pending_Empty(t *testing.T) {
	ctx := context.Background()
	store := NewSentimentStore(newTestDB(t))

	pending, err := store.Pending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestSentimentStore_SaveAndExists(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	store := NewSentimentStore(db)
	seedReviews(t, db, 4)

	exists, err := store.Exists(ctx, 1)
	require.NoError(t, err)
	assert.False(t, exists)

	saved, err := store.Save(ctx, sentiment.NewAnalysis(1, sentiment.LabelPositive))
	require.NoError(t, err)
	assert.Equal(t, int64(1), saved.ReviewID())
	assert.Equal(t, sentiment.LabelPositive, saved.Label())

	exists, err = store.Exists(ctx, 1)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestSentimentStore_Save_Duplicate(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	store := NewSentimentStore(db)
	seedReviews(t, db, 4)

	_, err := store.Save(ctx, sentiment.NewAnalysis(1, sentiment.LabelPositive))
	require.NoError(t, err)

	// The review_id primary key enforces one analysis per review.
	_, err = store.Save(ctx, sentiment.NewAnalysis(1, sentiment.LabelNegative))
	require.Error(t, err)
}

func TestSentimentStore_LabelCounts(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	store := NewSentimentStore(db)
	seedReviews(t, db, 5, 5, 1)

	for id, label := range map[int64]sentiment.Label{
		1: sentiment.LabelPositive,
		2: sentiment.LabelPositive,
		3: sentiment.LabelNegative,
	} {
		_, err := store.Save(ctx, sentiment.NewAnalysis(id, label))
		require.NoError(t, err)
	}

	counts, err := store.LabelCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[sentiment.LabelPositive])
	assert.Equal(t, int64(1), counts[sentiment.LabelNegative])
	assert.Zero(t, counts[sentiment.LabelNeutral])
}

func TestSentimentStore_RatingCounts_OnlyEnriched(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	store := NewSentimentStore(db)
	seedReviews(t, db, 5, 5, 3)

	_, err := store.Save(ctx, sentiment.NewAnalysis(1, sentiment.LabelPositive))
	require.NoError(t, err)
	_, err = store.Save(ctx, sentiment.NewAnalysis(3, sentiment.LabelNeutral))
	require.NoError(t, err)

	counts, err := store.RatingCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[5])
	assert.Equal(t, int64(1), counts[3])
}

func TestSentimentStore_Mismatches(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	store := NewSentimentStore(db)
	seedReviews(t, db, 1, 5, 5, 3, 2)

	for id, label := range map[int64]sentiment.Label{
		1: sentiment.LabelPositive, // low rating, positive text: anomaly
		2: sentiment.LabelNegative, // five stars, negative text: anomaly
		3: sentiment.LabelPositive, // consistent
		4: sentiment.LabelNegative, // rating 3 never qualifies
		5: sentiment.LabelNeutral,  // neutral never qualifies
	} {
		_, err := store.Save(ctx, sentiment.NewAnalysis(id, label))
		require.NoError(t, err)
	}

	mismatches, err := store.Mismatches(ctx)
	require.NoError(t, err)
	require.Len(t, mismatches, 2)

	assert.Equal(t, int64(1), mismatches[0].ReviewID())
	assert.Equal(t, sentiment.LabelPositive, mismatches[0].Label())
	assert.Equal(t, "widget", mismatches[0].ProductName())

	assert.Equal(t, int64(2), mismatches[1].ReviewID())
	assert.Equal(t, sentiment.LabelNegative, mismatches[1].Label())
}
