package core

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name    string
	Amount  Money
	Percent decimal.Decimal // share of the overall total, 0-100
}

// MonthOverview is the dashboard view: the month containing a reference
// date next to the all-time figures.
type MonthOverview struct {
	Year       int
	Month      int // 1-12
	Total      Money
	Count      int
	ByCategory []CategoryAmount
	Recent     []Expense

	AllTimeTotal      Money
	AllTimeCount      int
	AllTimeByCategory []CategoryAmount
}

// RecentLimit is how many records a MonthOverview lists.
const RecentLimit = 5

// TotalOf sums the amounts of expenses. An empty slice totals zero.
func TotalOf(expenses []Expense) Money {
	var total Money
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// TotalsByCategory sums amounts per category name as recorded on each
// expense. Categories without expenses are absent from the result.
func TotalsByCategory(expenses []Expense) map[string]Money {
	totals := make(map[string]Money)
	for _, e := range expenses {
		totals[e.Category] = totals[e.Category].Add(e.Amount)
	}
	return totals
}

// Breakdown cross-joins totals with the registry for display. Every
// registered category appears in registry order, zero-valued when it has no
// expenses; categories unknown to the registry follow in name order.
func Breakdown(totals map[string]Money, registry *Registry) []CategoryAmount {
	var grand Money
	for _, m := range totals {
		grand = grand.Add(m)
	}

	out := make([]CategoryAmount, 0, registry.Len()+len(totals))
	for _, name := range registry.Names() {
		out = append(out, share(name, totals[name], grand))
	}

	var orphans []string
	for name := range totals {
		if registry.position(name) < 0 {
			orphans = append(orphans, name)
		}
	}
	slices.Sort(orphans)
	for _, name := range orphans {
		out = append(out, share(name, totals[name], grand))
	}
	return out
}

func share(name string, amount, total Money) CategoryAmount {
	ca := CategoryAmount{Name: name, Amount: amount, Percent: decimal.Zero}
	if total.Cents > 0 {
		ca.Percent = amount.Decimal().Div(total.Decimal()).Mul(decimal.NewFromInt(100))
	}
	return ca
}

// Summarize builds the dashboard view of the month containing ref. The
// AllTime fields cover every expense regardless of date.
func Summarize(expenses []Expense, ref time.Time, registry *Registry) MonthOverview {
	monthly := FilterByMonth(expenses, ref)
	local := ref.In(time.Local)
	return MonthOverview{
		Year:       local.Year(),
		Month:      int(local.Month()),
		Total:      TotalOf(monthly),
		Count:      len(monthly),
		ByCategory: Breakdown(TotalsByCategory(monthly), registry),
		Recent:     Recent(monthly, RecentLimit),

		AllTimeTotal:      TotalOf(expenses),
		AllTimeCount:      len(expenses),
		AllTimeByCategory: Breakdown(TotalsByCategory(expenses), registry),
	}
}
