package enricher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/mrskbj/wildberries-reviews-analysis/domain/review"
	"github.com/mrskbj/wildberries-reviews-analysis/domain/sentiment"
	"github.com/mrskbj/wildberries-reviews-analysis/internal/config"
)

const classifierSystemPrompt = `You are a sentiment classifier for product reviews. ` +
	`Answer with exactly one word: positive, neutral, or negative.`

// OpenAIEnricher classifies review text through a chat-completion
// endpoint and writes the sentiment row itself. Used when no
// in-database NLP procedure exists (e.g. SQLite).
type OpenAIEnricher struct {
	client      *openai.Client
	model       string
	reviews     review.Store
	sentiments  sentiment.Store
	maxRetries  int
	initialWait time.Duration
	backoff     float64
	log         *slog.Logger
}

// NewOpenAIEnricher creates an OpenAIEnricher from endpoint config.
func NewOpenAIEnricher(endpoint config.Endpoint, reviews review.Store, sentiments sentiment.Store, log *slog.Logger) *OpenAIEnricher {
	clientCfg := openai.DefaultConfig(endpoint.APIKey())
	if endpoint.BaseURL() != "" {
		clientCfg.BaseURL = endpoint.BaseURL()
	}
	if endpoint.Timeout() > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: endpoint.Timeout()}
	}
	if log == nil {
		log = slog.Default()
	}

	return &OpenAIEnricher{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       endpoint.Model(),
		reviews:     reviews,
		sentiments:  sentiments,
		maxRetries:  endpoint.MaxRetries(),
		initialWait: endpoint.InitialWait(),
		backoff:     endpoint.Backoff(),
		log:         log,
	}
}

// EnrichReview classifies one review's text and persists the resulting
// label. The Save is a single-statement transaction, committed before
// returning, so a crash after this call never re-invokes the review.
func (e *OpenAIEnricher) EnrichReview(ctx context.Context, reviewID int64) error {
	text, err := e.reviews.ReviewText(ctx, reviewID)
	if err != nil {
		return fmt.Errorf("%w: review %d: %v", sentiment.ErrEnrichmentFailed, reviewID, err)
	}

	label, err := e.classify(ctx, text)
	if err != nil {
		return fmt.Errorf("%w: review %d: %v", sentiment.ErrEnrichmentFailed, reviewID, err)
	}

	if _, err := e.sentiments.Save(ctx, sentiment.NewAnalysis(reviewID, label)); err != nil {
		return fmt.Errorf("%w: review %d: %v", sentiment.ErrEnrichmentFailed, reviewID, err)
	}

	e.log.Debug("review enriched", "review_id", reviewID, "label", string(label), "backend", "openai")
	return nil
}

func (e *OpenAIEnricher) classify(ctx context.Context, text string) (sentiment.Label, error) {
	req := openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: classifierSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: 0,
	}

	var resp openai.ChatCompletionResponse
	err := e.withRetry(ctx, func() error {
		var callErr error
		resp, callErr = e.client.CreateChatCompletion(ctx, req)
		return callErr
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in classification response")
	}

	return sentiment.ParseLabel(resp.Choices[0].Message.Content), nil
}

func (e *OpenAIEnricher) withRetry(ctx context.Context, fn func() error) error {
	delay := e.initialWait
	var lastErr error

	for attempt := 0; attempt <= e.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !isRetryable(lastErr) {
			return lastErr
		}

		if attempt < e.maxRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay = time.Duration(float64(delay) * e.backoff)
			}
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

func isRetryable(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}

	return false
}

var _ sentiment.Enricher = (*OpenAIEnricher)(nil)
