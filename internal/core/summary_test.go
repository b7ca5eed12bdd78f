package core

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalOf(t *testing.T) {
	assert.Equal(t, Money{}, TotalOf(nil))
	assert.Equal(t, Money{Cents: 1550}, TotalOf([]Expense{
		{Amount: Money{Cents: 1000}},
		{Amount: Money{Cents: 550}},
	}))
	assert.Equal(t, Money{Cents: 1925}, TotalOf(scenario()))
}

func TestTotalOfIsExact(t *testing.T) {
	// 0.10 ten times is exactly 1.00, not 0.9999999999999999.
	var es []Expense
	for i := 0; i < 10; i++ {
		es = append(es, Expense{Amount: Money{Cents: 10}})
	}
	assert.Equal(t, "1.00", TotalOf(es).String())
}

func TestTotalsByCategory(t *testing.T) {
	got := TotalsByCategory(scenario())
	assert.Equal(t, map[string]Money{
		"Food & Dining":  {Cents: 1650},
		"Transportation": {Cents: 275},
	}, got)
	assert.Empty(t, TotalsByCategory(nil))
}

func TestTotalsByCategoryMatchesTotal(t *testing.T) {
	sets := [][]Expense{
		nil,
		scenario(),
		append(scenario(), exp("x", "Gift", 999, "Not Registered", day(2024, 1, 2))),
	}
	for _, es := range sets {
		var sum Money
		for _, m := range TotalsByCategory(es) {
			sum = sum.Add(m)
		}
		assert.Equal(t, TotalOf(es), sum)
	}
}

func TestBreakdown(t *testing.T) {
	es := append(scenario(),
		exp("4", "Gift", 75, "Zzz Custom", day(2024, 1, 2)),
		exp("5", "Old", 100, "Groceries", day(2024, 1, 3)),
	)
	rows := Breakdown(TotalsByCategory(es), DefaultRegistry())

	require.Len(t, rows, DefaultRegistry().Len()+2)
	assert.Equal(t, "Food & Dining", rows[0].Name)
	assert.Equal(t, int64(1650), rows[0].Amount.Cents)
	assert.Equal(t, "Shopping", rows[2].Name)
	assert.True(t, rows[2].Amount.IsZero())
	assert.True(t, rows[2].Percent.IsZero())

	assert.Equal(t, "Groceries", rows[len(rows)-2].Name, "orphans follow in name order")
	assert.Equal(t, "Zzz Custom", rows[len(rows)-1].Name)

	sum := decimal.Zero
	for _, r := range rows {
		sum = sum.Add(r.Percent)
	}
	assert.True(t, sum.Round(6).Equal(decimal.NewFromInt(100)), "shares sum to 100, got %s", sum)

	empty := Breakdown(map[string]Money{}, DefaultRegistry())
	require.Len(t, empty, DefaultRegistry().Len())
	for _, r := range empty {
		assert.True(t, r.Percent.IsZero())
	}
}

func TestSummarize(t *testing.T) {
	ov := Summarize(scenario(), day(2024, 1, 15), DefaultRegistry())
	assert.Equal(t, 2024, ov.Year)
	assert.Equal(t, 1, ov.Month)
	assert.Equal(t, Money{Cents: 725}, ov.Total)
	assert.Equal(t, 2, ov.Count)
	assert.Equal(t, []string{"1", "2"}, ids(ov.Recent))

	food := ov.ByCategory[0]
	assert.Equal(t, "Food & Dining", food.Name)
	assert.Equal(t, int64(450), food.Amount.Cents)
}

func TestSummarizeAllTime(t *testing.T) {
	// February holds only lunch; the all-time figures still see January.
	ov := Summarize(scenario(), day(2024, 2, 20), DefaultRegistry())

	assert.Equal(t, Money{Cents: 1200}, ov.Total)
	assert.Equal(t, 1, ov.Count)
	assert.Equal(t, Money{Cents: 1925}, ov.AllTimeTotal)
	assert.Equal(t, 3, ov.AllTimeCount)

	byName := func(rows []CategoryAmount, name string) CategoryAmount {
		for _, r := range rows {
			if r.Name == name {
				return r
			}
		}
		t.Fatalf("no row for %q", name)
		return CategoryAmount{}
	}
	assert.True(t, byName(ov.ByCategory, "Transportation").Amount.IsZero())
	assert.Equal(t, "100", byName(ov.ByCategory, "Food & Dining").Percent.String())

	transport := byName(ov.AllTimeByCategory, "Transportation")
	assert.Equal(t, int64(275), transport.Amount.Cents)
	food := byName(ov.AllTimeByCategory, "Food & Dining")
	assert.Equal(t, int64(1650), food.Amount.Cents)
	assert.True(t, food.Percent.GreaterThan(decimal.NewFromInt(85)))

	empty := Summarize(scenario(), day(2024, 6, 1), DefaultRegistry())
	assert.Zero(t, empty.Count)
	assert.Equal(t, Money{Cents: 1925}, empty.AllTimeTotal)
}
