package main

import (
	"errors"
	"fmt"
	"os"

	"expenses/internal/cli"
	"expenses/internal/export"
	"expenses/internal/sheets/google"

	"github.com/spf13/cobra"
)

func exportCmd(opts *rootOptions) *cobra.Command {
	var (
		format   string
		output   string
		toSheets bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export expenses as CSV or JSON",
		Long: `Write every expense as CSV or JSON to a file or stdout. With --sheets
the same snapshot is also written to the configured Google Sheets tab.`,
		Example: `  expenses export --format csv -o expenses.csv
  expenses export --format json
  expenses export -o backup.csv --sheets`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := opts.service()
			if err != nil {
				return err
			}
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if output != "" && output != "-" {
				file, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create %s: %w", output, err)
				}
				defer file.Close()
				w = file
			}

			fileExporter, err := export.ForFormat(f, w)
			if err != nil {
				return err
			}
			exporters := []export.Exporter{fileExporter}

			if toSheets {
				cfg := opts.app.Config
				if !cfg.SheetsEnabled() {
					return errors.New("--sheets needs sheets.spreadsheet_id to be configured")
				}
				sheet, err := google.New(cmd.Context(), google.Config{
					SpreadsheetID:   cfg.SheetsSpreadsheetID,
					SheetName:       cfg.SheetsSheetName,
					CredentialsFile: cfg.SheetsCredentialsFile,
					CredentialsJSON: cfg.SheetsCredentialsJSON,
				}, opts.app.Logger)
				if err != nil {
					return fmt.Errorf("google sheets: %w", err)
				}
				exporters = append(exporters, sheet)
			}

			if err := svc.Export(cmd.Context(), exporters...); err != nil {
				return err
			}
			if output != "" && output != "-" {
				fmt.Fprintln(cmd.ErrOrStderr(), cli.SuccessStyle.Render("Exported to "+output))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(export.FormatCSV), "csv or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&toSheets, "sheets", false, "also write to Google Sheets")
	return cmd
}
