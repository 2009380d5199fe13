// Package sentiment provides domain types for review sentiment
// enrichment: the categorical label attached to a review by the NLP
// step, and the contracts for discovering and enriching pending reviews.
package sentiment

import (
	"errors"
	"strings"
	"time"
)

// ErrEnrichmentFailed indicates the external enrichment operation failed
// for a review. Prior per-row commits stay durable.
var ErrEnrichmentFailed = errors.New("enrichment failed")

// Label is the categorical sentiment assigned to a review.
type Label string

// Label values.
const (
	LabelPositive Label = "positive"
	LabelNeutral  Label = "neutral"
	LabelNegative Label = "negative"
)

// ParseLabel maps free-form classifier output onto a Label. Anything
// that is not clearly positive or negative is neutral.
func ParseLabel(s string) Label {
	switch {
	case strings.Contains(strings.ToLower(s), string(LabelPositive)):
		return LabelPositive
	case strings.Contains(strings.ToLower(s), string(LabelNegative)):
		return LabelNegative
	default:
		return LabelNeutral
	}
}

// Analysis is the enrichment record for one review. At most one exists
// per review; its absence is the sole signal that enrichment is pending.
type Analysis struct {
	reviewID  int64
	label     Label
	createdAt time.Time
}

// NewAnalysis creates an Analysis that has not been persisted yet.
func NewAnalysis(reviewID int64, label Label) Analysis {
	return Analysis{reviewID: reviewID, label: label, createdAt: time.Now()}
}

// ReconstructAnalysis rebuilds an Analysis from persisted state.
func ReconstructAnalysis(reviewID int64, label Label, createdAt time.Time) Analysis {
	return Analysis{reviewID: reviewID, label: label, createdAt: createdAt}
}

// ReviewID returns the enriched review's identifier.
func (a Analysis) ReviewID() int64 { return a.reviewID }

// Label returns the sentiment label.
func (a Analysis) Label() Label { return a.label }

// CreatedAt returns when the analysis was recorded.
func (a Analysis) CreatedAt() time.Time { return a.createdAt }

// Mismatch is a review whose rating and text sentiment contradict each
// other, surfaced by the anomaly report.
type Mismatch struct {
	reviewID    int64
	productName string
	rating      int
	text        string
	label       Label
}

// NewMismatch creates a Mismatch record for reporting.
func NewMismatch(reviewID int64, productName string, rating int, text string, label Label) Mismatch {
	return Mismatch{
		reviewID:    reviewID,
		productName: productName,
		rating:      rating,
		text:        text,
		label:       label,
	}
}

// ReviewID returns the review identifier.
func (m Mismatch) ReviewID() int64 { return m.reviewID }

// ProductName returns the reviewed product's normalized name.
func (m Mismatch) ProductName() string { return m.productName }

// Rating returns the star rating.
func (m Mismatch) Rating() int { return m.rating }

// Text returns the review body.
func (m Mismatch) Text() string { return m.text }

// Label returns the sentiment label.
func (m Mismatch) Label() Label { return m.label }
