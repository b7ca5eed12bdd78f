// Package google exports expense snapshots to a Google Sheets tab.
package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"expenses/internal/core"
	"expenses/internal/export"
	"expenses/internal/log"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// DefaultSheetName is used when Config.SheetName is empty.
const DefaultSheetName = "Expenses"

// Config selects the target spreadsheet and credentials. Inline JSON wins
// over the credentials file.
type Config struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsFile string
	CredentialsJSON string
}

// valuesAPI is the part of the Sheets values service the exporter needs.
type valuesAPI interface {
	Clear(ctx context.Context, spreadsheetID, rng string) error
	Update(ctx context.Context, spreadsheetID, rng string, values [][]any) error
}

// Exporter replaces the contents of one sheet tab with a snapshot.
type Exporter struct {
	values        valuesAPI
	spreadsheetID string
	sheetName     string
	logger        *log.Logger
}

var _ export.Exporter = (*Exporter)(nil)

// New creates an exporter authenticated with service-account credentials.
func New(ctx context.Context, cfg Config, logger *log.Logger) (*Exporter, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	credentials, err := loadCredentials(cfg)
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentials),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return newExporter(serviceValues{svc: svc}, cfg, logger), nil
}

func newExporter(values valuesAPI, cfg Config, logger *log.Logger) *Exporter {
	if logger == nil {
		logger = log.Discard()
	}
	name := strings.TrimSpace(cfg.SheetName)
	if name == "" {
		name = DefaultSheetName
	}
	return &Exporter{
		values:        values,
		spreadsheetID: strings.TrimSpace(cfg.SpreadsheetID),
		sheetName:     name,
		logger:        logger.WithComponent(log.ComponentSheets),
	}
}

func loadCredentials(cfg Config) ([]byte, error) {
	if js := strings.TrimSpace(cfg.CredentialsJSON); js != "" {
		return []byte(js), nil
	}
	path := strings.TrimSpace(cfg.CredentialsFile)
	if path == "" {
		path = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if path == "" {
		return nil, errors.New("missing service account credentials (set sheets.credentials_json, sheets.credentials_file or GOOGLE_APPLICATION_CREDENTIALS)")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}
	return data, nil
}

// Export clears the tab and writes the header plus one row per expense.
func (e *Exporter) Export(ctx context.Context, expenses []core.Expense) error {
	clearRange := fmt.Sprintf("%s!A:Z", e.sheetName)
	if err := e.values.Clear(ctx, e.spreadsheetID, clearRange); err != nil {
		return fmt.Errorf("clear %s: %w", clearRange, err)
	}

	values := buildValues(expenses)
	rng := fmt.Sprintf("%s!A1:F%d", e.sheetName, len(values))
	if err := e.values.Update(ctx, e.spreadsheetID, rng, values); err != nil {
		return fmt.Errorf("update %s: %w", rng, err)
	}

	e.logger.InfoContext(ctx, "Exported expenses to sheet",
		log.FieldOperation, log.OpExport, log.FieldCount, len(expenses), "sheet", e.sheetName)
	return nil
}

// buildValues lays out the CSV columns. Amounts stay numeric so the sheet
// can sum them.
func buildValues(expenses []core.Expense) [][]any {
	header := make([]any, len(export.CSVHeader))
	for i, h := range export.CSVHeader {
		header[i] = h
	}
	values := make([][]any, 0, len(expenses)+1)
	values = append(values, header)
	for _, x := range expenses {
		row := export.Row(x)
		values = append(values, []any{row[0], row[1], row[2], row[3], x.Amount.Float(), row[5]})
	}
	return values
}

type serviceValues struct {
	svc *gsheet.Service
}

func (s serviceValues) Clear(ctx context.Context, spreadsheetID, rng string) error {
	_, err := s.svc.Spreadsheets.Values.Clear(spreadsheetID, rng, &gsheet.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

func (s serviceValues) Update(ctx context.Context, spreadsheetID, rng string, values [][]any) error {
	vr := &gsheet.ValueRange{Values: values}
	_, err := s.svc.Spreadsheets.Values.Update(spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	return err
}
