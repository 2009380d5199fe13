package persistence

import (
	"context"
	"fmt"

	"github.com/mrskbj/wildberries-reviews-analysis/domain/sentiment"
	"github.com/mrskbj/wildberries-reviews-analysis/internal/database"
)

// SentimentStore implements sentiment.Store using GORM.
type SentimentStore struct {
	db     database.Database
	mapper SentimentMapper
}

// NewSentimentStore creates a new SentimentStore.
func NewSentimentStore(db database.Database) SentimentStore {
	return SentimentStore{db: db}
}

// Pending returns identifiers of reviews with no sentiment row, via a
// left anti-join, ordered by review identifier.
func (s SentimentStore) Pending(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := s.db.Session(ctx).
		Model(&ReviewModel{}).
		Joins("LEFT JOIN sentiment_analysis ON sentiment_analysis.review_id = reviews.review_id").
		Where("sentiment_analysis.review_id IS NULL").
		Order("reviews.review_id ASC").
		Pluck("reviews.review_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("find pending reviews: %w", err)
	}
	return ids, nil
}

// Save persists an analysis. Each call runs as its own transaction so
// enrichment progress is durable per row.
func (s SentimentStore) Save(ctx context.Context, a sentiment.Analysis) (sentiment.Analysis, error) {
	model := s.mapper.ToModel(a)
	if err := s.db.Session(ctx).Create(&model).Error; err != nil {
		return sentiment.Analysis{}, fmt.Errorf("save analysis for review %d: %w", a.ReviewID(), err)
	}
	return s.mapper.ToDomain(model), nil
}

// Exists reports whether a review already has an analysis.
func (s SentimentStore) Exists(ctx context.Context, reviewID int64) (bool, error) {
	var count int64
	err := s.db.Session(ctx).
		Model(&SentimentModel{}).
		Where("review_id = ?", reviewID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check analysis exists: %w", err)
	}
	return count > 0, nil
}

// LabelCounts returns the number of analyses per sentiment label.
func (s SentimentStore) LabelCounts(ctx context.Context) (map[sentiment.Label]int64, error) {
	var rows []struct {
		Label string
		Count int64
	}
	err := s.db.Session(ctx).
		Model(&SentimentModel{}).
		Select("sentiment_label AS label, COUNT(*) AS count").
		Group("sentiment_label").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count labels: %w", err)
	}
	counts := make(map[sentiment.Label]int64, len(rows))
	for _, row := range rows {
		counts[sentiment.Label(row.Label)] = row.Count
	}
	return counts, nil
}

// RatingCounts returns the number of enriched reviews per star rating.
func (s SentimentStore) RatingCounts(ctx context.Context) (map[int]int64, error) {
	var rows []struct {
		Rating int
		Count  int64
	}
	err := s.db.Session(ctx).
		Model(&ReviewModel{}).
		Select("reviews.rating AS rating, COUNT(*) AS count").
		Joins("JOIN sentiment_analysis ON sentiment_analysis.review_id = reviews.review_id").
		Group("reviews.rating").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count ratings: %w", err)
	}
	counts := make(map[int]int64, len(rows))
	for _, row := range rows {
		counts[row.Rating] = row.Count
	}
	return counts, nil
}

// Mismatches returns reviews whose rating contradicts their sentiment
// label: rating <= 2 with positive text, or rating 5 with negative text.
func (s SentimentStore) Mismatches(ctx context.Context) ([]sentiment.Mismatch, error) {
	var rows []struct {
		ReviewID    int64
		ProductName string
		Rating      int
		ReviewText  string
		Label       string
	}
	err := s.db.Session(ctx).
		Model(&ReviewModel{}).
		Select("reviews.review_id AS review_id, products.product_name AS product_name, reviews.rating AS rating, reviews.review_text AS review_text, sentiment_analysis.sentiment_label AS label").
		Joins("JOIN sentiment_analysis ON sentiment_analysis.review_id = reviews.review_id").
		Joins("JOIN products ON products.product_id = reviews.product_id").
		Where("(reviews.rating <= 2 AND sentiment_analysis.sentiment_label = ?) OR (reviews.rating = 5 AND sentiment_analysis.sentiment_label = ?)",
			string(sentiment.LabelPositive), string(sentiment.LabelNegative)).
		Order("reviews.review_id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("find mismatches: %w", err)
	}

	mismatches := make([]sentiment.Mismatch, len(rows))
	for i, row := range rows {
		mismatches[i] = sentiment.NewMismatch(row.ReviewID, row.ProductName, row.Rating, row.ReviewText, sentiment.Label(row.Label))
	}
	return mismatches, nil
}

var _ sentiment.Store = SentimentStore{}
