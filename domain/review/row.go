package review

import (
	"errors"
	"strings"
	"time"
)

// Row validation errors. A row failing validation is dropped by the
// normalizer, never persisted.
var (
	ErrEmptyProductKey = errors.New("empty product key")
	ErrEmptyUserKey    = errors.New("empty user key")
	ErrEmptyText       = errors.New("empty review text")
)

// Row is a normalized candidate review produced by the ingestion
// normalizer. Product and user keys are trimmed and lowercased natural
// keys; all fields are validated at construction so downstream code can
// use strict access without missing-field checks.
type Row struct {
	productKey string
	userKey    string
	text       string
	rating     int
	reviewedAt time.Time
}

// NewRow creates a validated Row. The product and user names are
// normalized into natural keys (trimmed, lowercased). reviewedAt is the
// source review date, or the ingestion time when the source carries none.
func NewRow(productName, userName, text string, rating int, reviewedAt time.Time) (Row, error) {
	productKey := NormalizeKey(productName)
	userKey := NormalizeKey(userName)
	text = strings.TrimSpace(text)

	switch {
	case productKey == "":
		return Row{}, ErrEmptyProductKey
	case userKey == "":
		return Row{}, ErrEmptyUserKey
	case text == "":
		return Row{}, ErrEmptyText
	}

	if reviewedAt.IsZero() {
		reviewedAt = time.Now()
	}

	return Row{
		productKey: productKey,
		userKey:    userKey,
		text:       text,
		rating:     rating,
		reviewedAt: reviewedAt,
	}, nil
}

// ProductKey returns the normalized product natural key.
func (r Row) ProductKey() string { return r.productKey }

// UserKey returns the normalized reviewer natural key.
func (r Row) UserKey() string { return r.userKey }

// Text returns the review body.
func (r Row) Text() string { return r.text }

// Rating returns the integer rating.
func (r Row) Rating() int { return r.rating }

// ReviewedAt returns the review timestamp.
func (r Row) ReviewedAt() time.Time { return r.reviewedAt }

// NormalizeKey turns a raw name into the natural key used for
// deduplication: whitespace-trimmed and lowercased.
func NormalizeKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// DistinctProductKeys returns the unique product keys across rows, in
// first-seen order.
func DistinctProductKeys(rows []Row) []string {
	return distinct(rows, Row.ProductKey)
}

// DistinctUserKeys returns the unique user keys across rows, in
// first-seen order.
func DistinctUserKeys(rows []Row) []string {
	return distinct(rows, Row.UserKey)
}

func distinct(rows []Row, key func(Row) string) []string {
	seen := make(map[string]struct{}, len(rows))
	keys := make([]string, 0, len(rows))
	for _, row := range rows {
		k := key(row)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	return keys
}
