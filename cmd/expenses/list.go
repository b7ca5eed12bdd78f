package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"expenses/internal/cli"
	"expenses/internal/core"

	"github.com/spf13/cobra"
)

func listCmd(opts *rootOptions) *cobra.Command {
	var (
		search   string
		category string
		sortKey  string
		month    string
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List expenses",
		Long: `List expenses, optionally narrowed by a search text, a category and a
month. Search matches title or category ignoring case. Sort keys: date
(newest first), amount (largest first), title, category.`,
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := opts.service()
			if err != nil {
				return err
			}
			key, err := core.ParseSortKey(sortKey)
			if err != nil {
				return err
			}

			expenses := svc.ListExpenses(core.Query{Search: search, Category: category, Sort: key})
			if month != "" {
				ref, err := parseMonth(month, time.Now())
				if err != nil {
					return err
				}
				expenses = core.FilterByMonth(expenses, ref)
			}
			total := core.TotalOf(expenses)
			shown := expenses
			if limit > 0 {
				shown = core.Recent(expenses, limit)
			}

			out := cmd.OutOrStdout()
			if len(shown) == 0 {
				fmt.Fprintln(out, cli.SubtleStyle.Render("No expenses found. Use 'expenses add' to record one."))
				return nil
			}
			return writeExpenseTable(out, svc.Registry(), shown, total, len(expenses))
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "case-insensitive text to match in title or category")
	cmd.Flags().StringVarP(&category, "category", "c", core.AllCategories, "only this category")
	cmd.Flags().StringVar(&sortKey, "sort", string(core.SortByDate), "sort key: date, amount, title, category")
	cmd.Flags().StringVar(&month, "month", "", "only this month (YYYY-MM)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most n rows (0 for all)")
	return cmd
}

func writeExpenseTable(out io.Writer, registry *core.Registry, shown []core.Expense, total core.Money, count int) error {
	var t table
	t.row(
		cli.HeaderStyle.Render("DATE"),
		cli.HeaderStyle.Render("TITLE"),
		cli.HeaderStyle.Render("CATEGORY"),
		cli.HeaderStyle.Render("AMOUNT"),
		cli.HeaderStyle.Render("ID"))
	for _, e := range shown {
		title := truncate(e.Title, 40)
		if e.HasNotes() {
			title += " " + cli.SubtleStyle.Render("["+truncate(strings.ReplaceAll(e.Notes, "\n", " "), 30)+"]")
		}
		t.row(
			e.Date.Format(dateLayout),
			title,
			renderCategory(registry, e.Category),
			e.Amount.String(),
			cli.SubtleStyle.Render(e.ID))
	}
	if err := t.write(out); err != nil {
		return err
	}

	fmt.Fprintf(out, "\n%s %s (%d expenses)\n", cli.BoldStyle.Render("Total:"), total.String(), count)
	return nil
}

func categoriesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List expense categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := opts.service()
			if err != nil {
				return err
			}

			var t table
			t.row(
				cli.HeaderStyle.Render("NAME"),
				cli.HeaderStyle.Render("ICON"),
				cli.HeaderStyle.Render("COLOR"))
			for _, c := range svc.Categories() {
				t.row(cli.CategoryStyle(c.Color).Render(c.Name), c.Icon, c.Color)
			}
			return t.write(cmd.OutOrStdout())
		},
	}
}
