// Package ingest reads the raw CSV review export and normalizes it into
// typed candidate rows.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mrskbj/wildberries-reviews-analysis/domain/review"
)

// Source column labels are renamed to the canonical schema during
// normalization; canonical labels are accepted as-is so re-exports of
// already-prepared data load too.
var columnAliases = map[string]string{
	"name":         "product_name",
	"product_name": "product_name",
	"reviewerName": "user_name",
	"user_name":    "user_name",
	"text":         "review_text",
	"review_text":  "review_text",
	"mark":         "rating",
	"rating":       "rating",
	"reviewDate":   "review_date",
	"review_date":  "review_date",
}

// requiredColumns must all be present in the header; review_date is
// optional.
var requiredColumns = []string{"product_name", "user_name", "review_text", "rating"}

// dateLayouts are tried in order when parsing the optional review date.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02.01.2006",
}

// Normalizer turns the raw tabular export into validated review rows.
type Normalizer struct {
	log *slog.Logger
}

// NewNormalizer creates a Normalizer.
func NewNormalizer(log *slog.Logger) *Normalizer {
	if log == nil {
		log = slog.Default()
	}
	return &Normalizer{log: log}
}

// ReadFile reads a CSV export from path and returns normalized rows.
// Rows missing review text, product name, or reviewer name after
// normalization are dropped. A missing file fails with
// review.ErrSourceNotFound; any other read or parse failure fails with
// review.ErrSourceMalformed. Both are fatal: no partial result is
// returned.
func (n *Normalizer) ReadFile(path string) ([]review.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", review.ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("%w: %v", review.ErrSourceMalformed, err)
	}
	defer func() { _ = f.Close() }()

	rows, err := n.Read(f)
	if err != nil {
		return nil, err
	}
	n.log.Info("source file read", "path", path, "rows", len(rows))
	return rows, nil
}

// Read normalizes CSV content from r. See ReadFile for semantics.
func (n *Normalizer) Read(r io.Reader) ([]review.Row, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %v", review.ErrSourceMalformed, err)
	}

	columns, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}

	ingestedAt := time.Now()
	var rows []review.Row
	dropped := 0

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", review.ErrSourceMalformed, err)
		}

		row, ok := n.normalizeRecord(record, columns, ingestedAt)
		if !ok {
			dropped++
			continue
		}
		rows = append(rows, row)
	}

	if dropped > 0 {
		n.log.Debug("rows dropped during normalization", "dropped", dropped)
	}
	return rows, nil
}

// columnIndex maps canonical field names to their position in the
// header. review_date is -1 when the source carries no date column.
type columnIndex struct {
	product int
	user    int
	text    int
	rating  int
	date    int
}

func resolveColumns(header []string) (columnIndex, error) {
	positions := make(map[string]int, len(header))
	for i, label := range header {
		canonical, ok := columnAliases[strings.TrimSpace(label)]
		if !ok {
			continue
		}
		if _, dup := positions[canonical]; !dup {
			positions[canonical] = i
		}
	}

	for _, col := range requiredColumns {
		if _, ok := positions[col]; !ok {
			return columnIndex{}, fmt.Errorf("%w: missing column %q", review.ErrSourceMalformed, col)
		}
	}

	date := -1
	if i, ok := positions["review_date"]; ok {
		date = i
	}

	return columnIndex{
		product: positions["product_name"],
		user:    positions["user_name"],
		text:    positions["review_text"],
		rating:  positions["rating"],
		date:    date,
	}, nil
}

// normalizeRecord builds one validated row from a CSV record. Records
// that fail validation (empty keys or text, malformed rating) are
// dropped, not fatal.
func (n *Normalizer) normalizeRecord(record []string, columns columnIndex, ingestedAt time.Time) (review.Row, bool) {
	rating, err := strconv.Atoi(strings.TrimSpace(record[columns.rating]))
	if err != nil {
		return review.Row{}, false
	}

	reviewedAt := ingestedAt
	if columns.date >= 0 {
		if parsed, ok := parseDate(record[columns.date]); ok {
			reviewedAt = parsed
		}
	}

	row, err := review.NewRow(
		record[columns.product],
		record[columns.user],
		record[columns.text],
		rating,
		reviewedAt,
	)
	if err != nil {
		return review.Row{}, false
	}
	return row, true
}

// parseDate tries the known layouts. Unparsable dates are not an error;
// the row falls back to the ingestion time.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
