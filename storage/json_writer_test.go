package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creditcard-scraper/models"
)

func TestJSONWriterWritesTimestampKeyedFile(t *testing.T) {
	dir := t.TempDir()
	w, err := NewJSONWriter(dir)
	require.NoError(t, err)

	report := &models.ExtractionReport{
		URL: "https://example.com/cards",
		CreditCards: []*models.FinalCard{
			{CandidateCard: models.CandidateCard{Name: "Freedom Flex", AnnualFee: "0", RowIndex: 1}},
		},
		TotalCardsFound: 1,
		Timestamp:       time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC),
	}

	require.NoError(t, w.Write(report))
	require.NoError(t, w.Close())

	want := filepath.Join(dir, "cards_1741944413.json")
	assert.Equal(t, want, w.LastPath())

	payload, err := os.ReadFile(w.LastPath())
	require.NoError(t, err)

	var decoded models.ExtractionReport
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, report, &decoded)
}

func TestJSONWriterCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	_, err := NewJSONWriter(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
