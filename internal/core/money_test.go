package core

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{"1.004", 100, true},
		{" 2.50 ", 250, true},
		{".5", 50, true},
		{"-1", 0, false},
		{"+1", 0, false},
		{"0", 0, false},
		{"0.001", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"1e3", 0, false},
		{"", 0, false},
		{"99999999999999999999", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			require.NoError(t, err, tc.in)
			assert.Equal(t, tc.out, got, tc.in)
		} else {
			assert.ErrorIs(t, err, ErrInvalidAmount, tc.in)
		}
	}
}

func TestMoneyDecimalConversions(t *testing.T) {
	assert.Equal(t, "12.30", Money{Cents: 1230}.String())
	assert.Equal(t, "0.05", Money{Cents: 5}.String())
	assert.True(t, Money{Cents: 1550}.Decimal().Equal(decimal.RequireFromString("15.5")))

	assert.Equal(t, int64(1235), MoneyFromDecimal(decimal.RequireFromString("12.345")).Cents)
	assert.Equal(t, int64(1234), MoneyFromDecimal(decimal.RequireFromString("12.344")).Cents)
	assert.InDelta(t, 12.3, Money{Cents: 1230}.Float(), 1e-9)
}

func TestMoneyJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		Amount Money `json:"amount"`
	}{Money{Cents: 450}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":4.50}`, string(b))

	cases := map[string]int64{
		`12`:                 1200,
		`12.3`:               1230,
		`12.300000000000001`: 1230, // float noise from other encoders
		`"7.25"`:             725,
		`0.005`:              1,
	}
	for in, want := range cases {
		var m Money
		require.NoError(t, json.Unmarshal([]byte(in), &m), in)
		assert.Equal(t, want, m.Cents, in)
	}

	var m Money
	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &m))
}

func TestMoneyJSONRejectsOutOfRange(t *testing.T) {
	for _, in := range []string{`1e19`, `-1e19`, `92233720368547758.08`, `"1e30"`} {
		m := Money{Cents: 1}
		err := json.Unmarshal([]byte(in), &m)
		assert.ErrorIs(t, err, ErrInvalidAmount, in)
		assert.Equal(t, int64(1), m.Cents, "left untouched on %s", in)
	}

	var m Money
	require.NoError(t, json.Unmarshal([]byte(`92233720368547758.07`), &m))
	assert.Equal(t, int64(math.MaxInt64), m.Cents)
}
