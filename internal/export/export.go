// Package export writes expense snapshots to external formats.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"expenses/internal/core"
	"expenses/internal/store"

	"golang.org/x/sync/errgroup"
)

// Exporter writes a snapshot somewhere.
type Exporter interface {
	Export(ctx context.Context, expenses []core.Expense) error
}

// Format names a file export format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat accepts "csv" or "json", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want csv or json)", s)
	}
}

// ForFormat returns the exporter writing format f to w.
func ForFormat(f Format, w io.Writer) (Exporter, error) {
	switch f {
	case FormatCSV:
		return NewCSVExporter(w), nil
	case FormatJSON:
		return NewJSONExporter(w), nil
	default:
		return nil, fmt.Errorf("unknown export format %q", f)
	}
}

// CSVHeader is the first row written by CSVExporter.
var CSVHeader = []string{"id", "date", "title", "category", "amount", "notes"}

// CSVExporter writes one row per expense after CSVHeader.
type CSVExporter struct {
	w io.Writer
}

func NewCSVExporter(w io.Writer) *CSVExporter {
	return &CSVExporter{w: w}
}

func (e *CSVExporter) Export(ctx context.Context, expenses []core.Expense) error {
	cw := csv.NewWriter(e.w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, x := range expenses {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := cw.Write(Row(x)); err != nil {
			return fmt.Errorf("write csv row %s: %w", x.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// Row renders x in CSVHeader column order.
func Row(x core.Expense) []string {
	return []string{
		x.ID,
		x.Date.Format(time.RFC3339),
		x.Title,
		x.Category,
		x.Amount.String(),
		x.Notes,
	}
}

// JSONExporter writes the same record format the store persists, indented.
type JSONExporter struct {
	w io.Writer
}

func NewJSONExporter(w io.Writer) *JSONExporter {
	return &JSONExporter{w: w}
}

func (e *JSONExporter) Export(ctx context.Context, expenses []core.Expense) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := store.Encode(expenses)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return fmt.Errorf("indent json: %w", err)
	}
	buf.WriteByte('\n')
	if _, err := buf.WriteTo(e.w); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

// All runs every exporter concurrently over the same snapshot and returns
// the first error. The snapshot is shared read-only.
func All(ctx context.Context, expenses []core.Expense, exporters ...Exporter) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, ex := range exporters {
		ex := ex
		g.Go(func() error {
			return ex.Export(ctx, expenses)
		})
	}
	return g.Wait()
}
