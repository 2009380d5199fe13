package enricher

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrskbj/wildberries-reviews-analysis/domain/review"
	"github.com/mrskbj/wildberries-reviews-analysis/domain/sentiment"
	"github.com/mrskbj/wildberries-reviews-analysis/infrastructure/persistence"
	"github.com/mrskbj/wildberries-reviews-analysis/internal/config"
	"github.com/mrskbj/wildberries-reviews-analysis/internal/database"
	"github.com/mrskbj/wildberries-reviews-analysis/internal/testdb"
)

// fakeChatServer mimics the chat-completions endpoint, answering every
// request with the given label and counting requests.
func fakeChatServer(t *testing.T, label string, counter *atomic.Int64) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		counter.Add(1)

		resp := map[string]interface{}{
			"id":     "chatcmpl-test",
			"object": "chat.completion",
			"model":  "test-model",
			"choices": []map[string]interface{}{
				{
					"index": 0,
					"message": map[string]interface{}{
						"role":    "assistant",
						"content": label,
					},
					"finish_reason": "stop",
				},
			},
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

// failingChatServer returns the given status for failCount requests,
// then succeeds.
func failingChatServer(t *testing.T, status, failCount int, counter *atomic.Int64) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := counter.Add(1)
		if n <= int64(failCount) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"message":"try later","type":"server_error"}}`))
			return
		}

		resp := map[string]interface{}{
			"id":     "chatcmpl-test",
			"object": "chat.completion",
			"model":  "test-model",
			"choices": []map[string]interface{}{
				{
					"index":         0,
					"message":       map[string]interface{}{"role": "assistant", "content": "negative"},
					"finish_reason": "stop",
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func newEnrichedDB(t *testing.T) (database.Database, persistence.ReviewStore, persistence.SentimentStore) {
	t.Helper()
	db := testdb.New(t)
	ctx := context.Background()
	reviews := persistence.NewReviewStore(db)
	sentiments := persistence.NewSentimentStore(db)

	require.NoError(t, reviews.UpsertProducts(ctx, []string{"widget"}))
	require.NoError(t, reviews.UpsertUsers(ctx, []string{"alice"}))
	productIDs, err := reviews.ProductIDs(ctx)
	require.NoError(t, err)
	userIDs, err := reviews.UserIDs(ctx)
	require.NoError(t, err)

	row, err := review.NewRow("widget", "alice", "Excellent product, love it", 5, time.Now())
	require.NoError(t, err)
	_, err = reviews.InsertReviews(ctx, []review.Review{review.NewReview(productIDs["widget"], userIDs["alice"], row)}, 10)
	require.NoError(t, err)

	return db, reviews, sentiments
}

func testEndpoint(baseURL string, maxRetries int) config.Endpoint {
	return config.NewEndpointWithOptions(
		config.WithBaseURL(baseURL),
		config.WithModel("test-model"),
		config.WithAPIKey("test-key"),
		config.WithEndpointMaxRetries(maxRetries),
	)
}

func TestOpenAIEnricher_EnrichReview(t *testing.T) {
	var counter atomic.Int64
	srv := fakeChatServer(t, "positive", &counter)
	defer srv.Close()

	_, reviews, sentiments := newEnrichedDB(t)
	e := NewOpenAIEnricher(testEndpoint(srv.URL, 0), reviews, sentiments, nil)

	require.NoError(t, e.EnrichReview(context.Background(), 1))
	require.Equal(t, int64(1), counter.Load())

	counts, err := sentiments.LabelCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[sentiment.LabelPositive])
}

func TestOpenAIEnricher_FreeFormAnswerMapsToLabel(t *testing.T) {
	var counter atomic.Int64
	srv := fakeChatServer(t, "The review is clearly Negative.", &counter)
	defer srv.Close()

	_, reviews, sentiments := newEnrichedDB(t)
	e := NewOpenAIEnricher(testEndpoint(srv.URL, 0), reviews, sentiments, nil)

	require.NoError(t, e.EnrichReview(context.Background(), 1))

	counts, err := sentiments.LabelCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[sentiment.LabelNegative])
}

func TestOpenAIEnricher_MissingReview(t *testing.T) {
	var counter atomic.Int64
	srv := fakeChatServer(t, "positive", &counter)
	defer srv.Close()

	_, reviews, sentiments := newEnrichedDB(t)
	e := NewOpenAIEnricher(testEndpoint(srv.URL, 0), reviews, sentiments, nil)

	err := e.EnrichReview(context.Background(), 999)
	require.ErrorIs(t, err, sentiment.ErrEnrichmentFailed)
	require.Equal(t, int64(0), counter.Load(), "no HTTP request for a missing review")
}

func TestOpenAIEnricher_RetriesServerErrors(t *testing.T) {
	var counter atomic.Int64
	srv := failingChatServer(t, http.StatusServiceUnavailable, 2, &counter)
	defer srv.Close()

	_, reviews, sentiments := newEnrichedDB(t)
	endpoint := config.NewEndpointWithOptions(
		config.WithBaseURL(srv.URL),
		config.WithModel("test-model"),
		config.WithAPIKey("test-key"),
		config.WithEndpointMaxRetries(3),
	)
	e := NewOpenAIEnricher(endpoint, reviews, sentiments, nil)
	e.initialWait = time.Millisecond
	e.backoff = 1

	require.NoError(t, e.EnrichReview(context.Background(), 1))
	require.Equal(t, int64(3), counter.Load())

	counts, err := sentiments.LabelCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[sentiment.LabelNegative])
}

func TestOpenAIEnricher_GivesUpAfterMaxRetries(t *testing.T) {
	var counter atomic.Int64
	srv := failingChatServer(t, http.StatusTooManyRequests, 100, &counter)
	defer srv.Close()

	_, reviews, sentiments := newEnrichedDB(t)
	e := NewOpenAIEnricher(testEndpoint(srv.URL, 2), reviews, sentiments, nil)
	e.initialWait = time.Millisecond
	e.backoff = 1

	err := e.EnrichReview(context.Background(), 1)
	require.ErrorIs(t, err, sentiment.ErrEnrichmentFailed)
	require.Equal(t, int64(3), counter.Load())

	// Nothing is persisted on failure.
	counts, err := sentiments.LabelCounts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestOpenAIEnricher_ClientErrorNotRetried(t *testing.T) {
	var counter atomic.Int64
	srv := failingChatServer(t, http.StatusUnauthorized, 100, &counter)
	defer srv.Close()

	_, reviews, sentiments := newEnrichedDB(t)
	e := NewOpenAIEnricher(testEndpoint(srv.URL, 5), reviews, sentiments, nil)
	e.initialWait = time.Millisecond

	err := e.EnrichReview(context.Background(), 1)
	require.ErrorIs(t, err, sentiment.ErrEnrichmentFailed)
	require.Equal(t, int64(1), counter.Load(), "4xx client errors are not retried")
}
