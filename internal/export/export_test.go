package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"expenses/internal/core"
	"expenses/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() []core.Expense {
	return []core.Expense{
		{ID: "a", Title: "Coffee, large", Amount: core.Money{Cents: 450}, Category: "Food & Dining",
			Date: time.Date(2024, 1, 5, 8, 0, 0, 0, time.UTC), Notes: `said "hi"`},
		{ID: "b", Title: "Bus", Amount: core.Money{Cents: 275}, Category: "Transportation",
			Date: time.Date(2024, 1, 10, 18, 0, 0, 0, time.UTC)},
	}
}

func TestCSVExporter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCSVExporter(&buf).Export(context.Background(), sample()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, CSVHeader, rows[0])
	assert.Equal(t, []string{"a", "2024-01-05T08:00:00Z", "Coffee, large", "Food & Dining", "4.50", `said "hi"`}, rows[1])
	assert.Equal(t, []string{"b", "2024-01-10T18:00:00Z", "Bus", "Transportation", "2.75", ""}, rows[2])
}

func TestJSONExporterMatchesStoreFormat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONExporter(&buf).Export(context.Background(), sample()))

	decoded, err := store.Decode(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, decoded, 2)
	assert.Equal(t, "Coffee, large", decoded[0].Title)
	assert.Equal(t, int64(275), decoded[1].Amount.Cents)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" CSV ")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)

	ex, err := ForFormat(FormatJSON, &bytes.Buffer{})
	require.NoError(t, err)
	assert.IsType(t, &JSONExporter{}, ex)
	_, err = ForFormat("xml", &bytes.Buffer{})
	assert.Error(t, err)
}

type countingExporter struct {
	calls *atomic.Int32
	err   error
}

func (c countingExporter) Export(context.Context, []core.Expense) error {
	c.calls.Add(1)
	return c.err
}

func TestAll(t *testing.T) {
	var calls atomic.Int32
	var csvBuf, jsonBuf bytes.Buffer

	err := All(context.Background(), sample(),
		NewCSVExporter(&csvBuf), NewJSONExporter(&jsonBuf), countingExporter{calls: &calls})
	require.NoError(t, err)
	assert.NotZero(t, csvBuf.Len())
	assert.NotZero(t, jsonBuf.Len())
	assert.Equal(t, int32(1), calls.Load())

	boom := errors.New("sheet unavailable")
	err = All(context.Background(), sample(), countingExporter{calls: &calls, err: boom}, countingExporter{calls: &calls})
	assert.ErrorIs(t, err, boom)

	assert.NoError(t, All(context.Background(), sample()))
}
