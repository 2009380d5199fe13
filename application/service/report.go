package service

import (
	"context"
	"log/slog"

	"github.com/mrskbj/wildberries-reviews-analysis/domain/sentiment"
)

// Report summarizes the enriched data set: distribution counts and the
// reviews whose rating contradicts their text sentiment.
type Report struct {
	ratingCounts      map[int]int64
	labelCounts       map[sentiment.Label]int64
	lowRatedPositive  []sentiment.Mismatch
	highRatedNegative []sentiment.Mismatch
}

// RatingCounts returns the number of enriched reviews per star rating.
func (r Report) RatingCounts() map[int]int64 { return r.ratingCounts }

// LabelCounts returns the number of reviews per sentiment label.
func (r Report) LabelCounts() map[sentiment.Label]int64 { return r.labelCounts }

// LowRatedPositive returns reviews rated 2 or lower with positive text.
func (r Report) LowRatedPositive() []sentiment.Mismatch { return r.lowRatedPositive }

// HighRatedNegative returns reviews rated 5 with negative text.
func (r Report) HighRatedNegative() []sentiment.Mismatch { return r.highRatedNegative }

// Reporter builds the anomaly and distribution report. Read-only; it
// never mutates pipeline state.
type Reporter struct {
	sentiments sentiment.Store
	log        *slog.Logger
}

// NewReporter creates a Reporter.
func NewReporter(sentiments sentiment.Store, log *slog.Logger) *Reporter {
	if log == nil {
		log = slog.Default()
	}
	return &Reporter{sentiments: sentiments, log: log}
}

// Build queries the enriched schema and assembles the report.
func (s *Reporter) Build(ctx context.Context) (Report, error) {
	ratingCounts, err := s.sentiments.RatingCounts(ctx)
	if err != nil {
		return Report{}, err
	}

	labelCounts, err := s.sentiments.LabelCounts(ctx)
	if err != nil {
		return Report{}, err
	}

	mismatches, err := s.sentiments.Mismatches(ctx)
	if err != nil {
		return Report{}, err
	}

	var lowPositive, highNegative []sentiment.Mismatch
	for _, m := range mismatches {
		switch {
		case m.Rating() <= 2 && m.Label() == sentiment.LabelPositive:
			lowPositive = append(lowPositive, m)
		case m.Rating() == 5 && m.Label() == sentiment.LabelNegative:
			highNegative = append(highNegative, m)
		}
	}

	s.log.Info("report built",
		"low_rated_positive", len(lowPositive),
		"high_rated_negative", len(highNegative),
	)

	return Report{
		ratingCounts:      ratingCounts,
		labelCounts:       labelCounts,
		lowRatedPositive:  lowPositive,
		highRatedNegative: highNegative,
	}, nil
}
