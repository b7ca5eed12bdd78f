package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"expenses/internal/cli"
	"expenses/internal/core"
	"expenses/internal/services"
)

const (
	dateLayout  = "2006-01-02"
	monthLayout = "2006-01"
)

func (o *rootOptions) service() (*services.ExpenseService, error) {
	if o.app == nil {
		return nil, errors.New("application is not initialized")
	}
	return o.app.Service, nil
}

// parseDate reads YYYY-MM-DD in the local zone at noon, so the calendar
// day survives small zone shifts. Empty input returns the zero time.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	d, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return d.Add(12 * time.Hour), nil
}

// parseMonth reads YYYY-MM. Empty input means the current month.
func parseMonth(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return now, nil
	}
	m, err := time.ParseInLocation(monthLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q (want YYYY-MM)", s)
	}
	return m.Add(12 * time.Hour), nil
}

// renderCategory colors name with its registry color, if registered.
func renderCategory(registry *core.Registry, name string) string {
	c, ok := registry.Lookup(name)
	if !ok {
		return name
	}
	return cli.CategoryStyle(c.Color).Render(name)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
