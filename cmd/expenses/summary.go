package main

import (
	"fmt"
	"io"
	"time"

	"expenses/internal/cli"
	"expenses/internal/core"

	"github.com/spf13/cobra"
)

const barWidth = 20

func summaryCmd(opts *rootOptions) *cobra.Command {
	var (
		month string
		shift int
		all   bool
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show spending for a month",
		Long: `Show the total for a month, the share of each category and the most
recent expenses, followed by the same figures over all time. --shift moves
the month, so --shift -1 is the previous one.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := opts.service()
			if err != nil {
				return err
			}
			ref, err := parseMonth(month, time.Now())
			if err != nil {
				return err
			}
			ref = core.ShiftMonth(ref, shift)

			ov := svc.MonthOverview(ref)
			writeOverview(cmd.OutOrStdout(), svc.Registry(), ov, all)
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month as YYYY-MM (default current)")
	cmd.Flags().IntVar(&shift, "shift", 0, "months to move from --month")
	cmd.Flags().BoolVar(&all, "all", false, "include categories with no spending")
	return cmd
}

func writeOverview(out io.Writer, registry *core.Registry, ov core.MonthOverview, all bool) {
	title := time.Date(ov.Year, time.Month(ov.Month), 1, 0, 0, 0, 0, time.Local).Format("January 2006")
	fmt.Fprintln(out, cli.TitleStyle.Render(title))
	fmt.Fprintf(out, "%s %s across %d expenses\n\n", cli.BoldStyle.Render("Total:"), ov.Total.String(), ov.Count)

	if ov.Count == 0 {
		fmt.Fprintln(out, cli.SubtleStyle.Render("No expenses this month."))
	} else {
		fmt.Fprintln(out, cli.HeaderStyle.Render("By category"))
		writeBreakdown(out, registry, ov.ByCategory, all)

		fmt.Fprintln(out)
		fmt.Fprintln(out, cli.HeaderStyle.Render("Recent"))
		for _, e := range ov.Recent {
			fmt.Fprintf(out, "  %s  %-30s %10s\n", e.Date.Format(dateLayout), truncate(e.Title, 30), e.Amount.String())
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, cli.TitleStyle.Render("All time"))
	fmt.Fprintf(out, "%s %s across %d expenses\n", cli.BoldStyle.Render("Total:"), ov.AllTimeTotal.String(), ov.AllTimeCount)
	if ov.AllTimeCount > 0 {
		fmt.Fprintln(out)
		writeBreakdown(out, registry, ov.AllTimeByCategory, all)
	}
}

func writeBreakdown(out io.Writer, registry *core.Registry, rows []core.CategoryAmount, all bool) {
	for _, ca := range rows {
		if ca.Amount.IsZero() && !all {
			continue
		}
		color := ""
		if c, ok := registry.Lookup(ca.Name); ok {
			color = c.Color
		}
		pct, _ := ca.Percent.Float64()
		fmt.Fprintf(out, "  %-16s %s %10s %5s%%\n",
			truncate(ca.Name, 16),
			cli.CategoryStyle(color).Render(cli.Bar(pct, barWidth)),
			ca.Amount.String(),
			ca.Percent.StringFixed(1))
	}
}
