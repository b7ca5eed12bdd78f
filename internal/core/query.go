package core

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"
)

// SortKey selects the ordering applied by SortBy.
type SortKey string

const (
	SortByDate     SortKey = "date"     // most recent first
	SortByAmount   SortKey = "amount"   // largest first
	SortByTitle    SortKey = "title"    // ascending
	SortByCategory SortKey = "category" // ascending
)

// SortKeys lists the supported keys in menu order.
func SortKeys() []SortKey {
	return []SortKey{SortByDate, SortByAmount, SortByTitle, SortByCategory}
}

// ParseSortKey accepts a key name case-insensitively. An empty string
// yields SortByDate.
func ParseSortKey(s string) (SortKey, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return SortByDate, nil
	}
	for _, k := range SortKeys() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

// FilterByMonth returns the expenses dated in the same calendar year and
// month as ref, evaluated in the process-local time zone.
func FilterByMonth(expenses []Expense, ref time.Time) []Expense {
	return FilterByMonthIn(expenses, ref, time.Local)
}

// FilterByMonthIn is FilterByMonth with an explicit calendar location.
func FilterByMonthIn(expenses []Expense, ref time.Time, loc *time.Location) []Expense {
	ry, rm, _ := ref.In(loc).Date()
	return filter(expenses, func(e Expense) bool {
		y, m, _ := e.Date.In(loc).Date()
		return y == ry && m == rm
	})
}

// FilterBySearch keeps expenses whose title or category contains text,
// ignoring case. Empty text matches everything.
func FilterBySearch(expenses []Expense, text string) []Expense {
	if text == "" {
		return slices.Clone(expenses)
	}
	needle := strings.ToLower(text)
	return filter(expenses, func(e Expense) bool {
		return strings.Contains(strings.ToLower(e.Title), needle) ||
			strings.Contains(strings.ToLower(e.Category), needle)
	})
}

// FilterByCategory keeps expenses whose category equals category exactly.
// An empty value or AllCategories matches everything.
func FilterByCategory(expenses []Expense, category string) []Expense {
	if category == "" || category == AllCategories {
		return slices.Clone(expenses)
	}
	return filter(expenses, func(e Expense) bool {
		return e.Category == category
	})
}

// SortBy returns a stably sorted copy of expenses. Equal elements keep their
// input order. Unknown keys leave the order unchanged.
func SortBy(expenses []Expense, key SortKey) []Expense {
	out := slices.Clone(expenses)
	var less func(a, b Expense) int
	switch key {
	case SortByDate:
		less = func(a, b Expense) int { return b.Date.Compare(a.Date) }
	case SortByAmount:
		less = func(a, b Expense) int { return cmp.Compare(b.Amount.Cents, a.Amount.Cents) }
	case SortByTitle:
		less = func(a, b Expense) int { return strings.Compare(a.Title, b.Title) }
	case SortByCategory:
		less = func(a, b Expense) int { return strings.Compare(a.Category, b.Category) }
	default:
		return out
	}
	slices.SortStableFunc(out, less)
	return out
}

// Query is the list-screen pipeline: search, then category, then sort.
type Query struct {
	Search   string
	Category string
	Sort     SortKey
}

// Apply runs the pipeline over expenses and returns a new slice.
func (q Query) Apply(expenses []Expense) []Expense {
	out := FilterBySearch(expenses, q.Search)
	out = FilterByCategory(out, q.Category)
	key := q.Sort
	if key == "" {
		key = SortByDate
	}
	return SortBy(out, key)
}

// Recent returns at most n expenses from the head of expenses.
func Recent(expenses []Expense, n int) []Expense {
	if n < 0 {
		n = 0
	}
	if n > len(expenses) {
		n = len(expenses)
	}
	return slices.Clone(expenses[:n])
}

// ShiftMonth moves ref by delta calendar months. The day of month is
// clamped to the length of the target month, so Jan 31 + 1 is Feb 28 (or 29).
func ShiftMonth(ref time.Time, delta int) time.Time {
	y, m, d := ref.Date()
	first := time.Date(y, m+time.Month(delta), 1, ref.Hour(), ref.Minute(), ref.Second(), ref.Nanosecond(), ref.Location())
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return first.AddDate(0, 0, d-1)
}

func filter(expenses []Expense, keep func(Expense) bool) []Expense {
	out := make([]Expense, 0, len(expenses))
	for _, e := range expenses {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}
