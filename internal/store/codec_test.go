package store

import (
	"testing"
	"time"

	"expenses/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodecRoundTrip(t *testing.T) {
	in := []core.Expense{
		{ID: "a", Title: "Coffee", Amount: core.Money{Cents: 450}, Category: "Food & Dining",
			Date: time.Date(2024, 1, 5, 8, 15, 30, 0, time.UTC), Notes: "oat milk"},
		{ID: "b", Title: "Bus", Amount: core.Money{Cents: 275}, Category: "Transportation",
			Date: time.Date(2024, 1, 10, 18, 0, 0, 0, time.FixedZone("CET", 3600))},
	}

	data, err := Encode(in)
	require.NoError(t, err)
	out, err := Decode(data)
	require.NoError(t, err)

	require.Len(t, out, len(in))
	for i := range in {
		assert.Equal(t, in[i].ID, out[i].ID)
		assert.Equal(t, in[i].Title, out[i].Title)
		assert.Equal(t, in[i].Amount, out[i].Amount)
		assert.Equal(t, in[i].Category, out[i].Category)
		assert.True(t, in[i].Date.Equal(out[i].Date), "date %d", i)
		assert.Equal(t, in[i].Notes, out[i].Notes)
	}
}

func TestEncodeFormat(t *testing.T) {
	data, err := Encode([]core.Expense{{
		ID: "a", Title: "Coffee", Amount: core.Money{Cents: 450}, Category: "Food & Dining",
		Date: time.Date(2024, 1, 5, 8, 0, 0, 0, time.UTC),
	}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"a","title":"Coffee","amount":4.5,"category":"Food & Dining","date":"2024-01-05T08:00:00Z"}]`, string(data))
	assert.NotContains(t, string(data), "notes", "absent notes are omitted")

	empty, err := Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(empty))
}

func TestDecodeReferenceEncoding(t *testing.T) {
	// No ids, explicit null notes, float noise on amounts.
	blob := `[
		{"title":"Coffee","amount":4.5,"category":"Food & Dining","date":"2024-01-05T08:00:00Z","notes":null},
		{"title":"Lunch","amount":12.000000000000002,"category":"Food & Dining","date":"2024-02-01T12:00:00Z","notes":"team"}
	]`
	out, err := Decode([]byte(blob))
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.NotEmpty(t, out[0].ID)
	assert.NotEqual(t, out[0].ID, out[1].ID)
	assert.False(t, out[0].HasNotes())
	assert.Equal(t, int64(1200), out[1].Amount.Cents)
	assert.Equal(t, "team", out[1].Notes)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	for _, blob := range []string{``, `{`, `{"title":"x"}`} {
		out, err := Decode([]byte(blob))
		assert.Error(t, err, blob)
		assert.Nil(t, out, blob)
	}
}

func TestDecodeSkipsBadRecords(t *testing.T) {
	blob := `[
		{"id":"1","title":"Coffee","amount":4.5,"category":"Food & Dining","date":"2024-01-05T08:00:00Z"},
		{"id":"2","title":"Huge","amount":1e19,"category":"Other","date":"2024-01-05T08:00:00Z"},
		{"id":"3","title":"Typo","amount":"abc","category":"Other","date":"2024-01-05T08:00:00Z"},
		{"id":"4","title":"Bus","amount":2.75,"category":"Transportation","date":"2024-01-06T08:00:00Z"}
	]`
	out, err := Decode([]byte(blob))

	var recErr *RecordError
	require.ErrorAs(t, err, &recErr)
	assert.Equal(t, 1, recErr.Index)
	assert.ErrorIs(t, err, core.ErrInvalidAmount)

	require.Len(t, out, 2)
	assert.Equal(t, "1", out[0].ID)
	assert.Equal(t, "4", out[1].ID)
	assert.Equal(t, int64(275), out[1].Amount.Cents)
}
