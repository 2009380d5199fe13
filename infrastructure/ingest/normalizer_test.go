package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrskbj/wildberries-reviews-analysis/domain/review"
)

func TestRead_RenamesSourceColumns(t *testing.T) {
	csv := strings.Join([]string{
		"name,reviewerName,text,mark,reviewDate",
		"Widget,Alice,Excellent quality,5,2024-03-01",
		"Gadget,Bob,Broke after a week,1,2024-03-02",
	}, "\n")

	rows, err := NewNormalizer(nil).Read(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "widget", rows[0].ProductKey())
	assert.Equal(t, "alice", rows[0].UserKey())
	assert.Equal(t, "Excellent quality", rows[0].Text())
	assert.Equal(t, 5, rows[0].Rating())
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), rows[0].ReviewedAt())

	assert.Equal(t, "gadget", rows[1].ProductKey())
	assert.Equal(t, 1, rows[1].Rating())
}

func TestRead_AcceptsCanonicalColumns(t *testing.T) {
	csv := strings.Join([]string{
		"product_name,user_name,review_text,rating,review_date",
		"Widget,Alice,Fine,4,2024-01-15",
	}, "\n")

	rows, err := NewNormalizer(nil).Read(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "widget", rows[0].ProductKey())
}

func TestRead_NormalizesKeys(t *testing.T) {
	csv := strings.Join([]string{
		"name,reviewerName,text,mark",
		"  Widget PRO ,  ALICE ,fine,3",
	}, "\n")

	rows, err := NewNormalizer(nil).Read(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "widget pro", rows[0].ProductKey())
	assert.Equal(t, "alice", rows[0].UserKey())
}

func TestRead_DropsInvalidRows(t *testing.T) {
	csv := strings.Join([]string{
		"name,reviewerName,text,mark",
		"Widget,Alice,Fine,4",
		",Bob,Missing product,3",
		"Gadget,,Missing user,3",
		"Gadget,Carol,   ,3",
		"Gadget,Dave,Unparsable rating,five",
		"Gadget,Eve,Kept,2",
	}, "\n")

	rows, err := NewNormalizer(nil).Read(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Fine", rows[0].Text())
	assert.Equal(t, "Kept", rows[1].Text())
}

func TestRead_MissingDateFallsBackToIngestionTime(t *testing.T) {
	csv := strings.Join([]string{
		"name,reviewerName,text,mark,reviewDate",
		"Widget,Alice,No date,4,",
		"Widget,Bob,Bad date,4,not-a-date",
	}, "\n")

	before := time.Now()
	rows, err := NewNormalizer(nil).Read(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.False(t, row.ReviewedAt().Before(before))
	}
}

func TestRead_DateColumnOptional(t *testing.T) {
	csv := strings.Join([]string{
		"name,reviewerName,text,mark",
		"Widget,Alice,Fine,4",
	}, "\n")

	rows, err := NewNormalizer(nil).Read(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.False(t, rows[0].ReviewedAt().IsZero())
}

func TestRead_MissingRequiredColumn(t *testing.T) {
	csv := strings.Join([]string{
		"name,reviewerName,mark",
		"Widget,Alice,4",
	}, "\n")

	_, err := NewNormalizer(nil).Read(strings.NewReader(csv))
	require.ErrorIs(t, err, review.ErrSourceMalformed)
}

func TestRead_MalformedCSV(t *testing.T) {
	csv := strings.Join([]string{
		"name,reviewerName,text,mark",
		`Widget,"Alice,broken quote,4`,
	}, "\n")

	_, err := NewNormalizer(nil).Read(strings.NewReader(csv))
	require.ErrorIs(t, err, review.ErrSourceMalformed)
}

func TestRead_EmptyInput(t *testing.T) {
	_, err := NewNormalizer(nil).Read(strings.NewReader(""))
	require.ErrorIs(t, err, review.ErrSourceMalformed)
}

func TestReadFile_MissingFile(t *testing.T) {
	_, err := NewNormalizer(nil).ReadFile(filepath.Join(t.TempDir(), "missing.csv"))
	require.ErrorIs(t, err, review.ErrSourceNotFound)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reviews.csv")
	content := "name,reviewerName,text,mark\nWidget,Alice,Fine,4\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	rows, err := NewNormalizer(nil).ReadFile(path)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "widget", rows[0].ProductKey())
}
