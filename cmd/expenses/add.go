package main

import (
	"errors"
	"fmt"
	"strings"

	"expenses/internal/cli"
	"expenses/internal/services"
	"expenses/internal/store"

	"github.com/spf13/cobra"
)

func addCmd(opts *rootOptions) *cobra.Command {
	var (
		category string
		date     string
		notes    string
	)

	cmd := &cobra.Command{
		Use:   "add <title> <amount>",
		Short: "Record an expense",
		Long: `Record a new expense. The amount accepts a dot or comma as decimal
separator and must be positive. Without --category the expense is filed
under "Other"; without --date it is dated now.`,
		Example: `  expenses add "Lunch" 12.50 --category "Food & Dining"
  expenses add Taxi 23,40 -c Transportation --date 2024-03-02 --notes "airport"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.service()
			if err != nil {
				return err
			}
			when, err := parseDate(date)
			if err != nil {
				return err
			}

			e, err := svc.AddExpense(cmd.Context(), services.ExpenseInput{
				Title:    args[0],
				Amount:   args[1],
				Category: category,
				Date:     when,
				Notes:    notes,
			})
			var perr *store.PersistenceError
			if err != nil && !errors.As(err, &perr) {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s %s (%s) on %s\n",
				cli.SuccessStyle.Render("Added"),
				e.Title,
				cli.BoldStyle.Render(e.Amount.String()),
				renderCategory(svc.Registry(), e.Category),
				e.Date.Format(dateLayout))
			fmt.Fprintln(out, cli.SubtleStyle.Render("id "+e.ID))
			if perr != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), cli.WarningStyle.Render("Warning: not saved to disk: "+perr.Err.Error()))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "category name (see 'expenses categories')")
	cmd.Flags().StringVar(&date, "date", "", "date as YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	_ = cmd.RegisterFlagCompletionFunc("category", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		svc, err := opts.service()
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return svc.Registry().Names(), cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func deleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an expense by id",
		Long:  `Delete an expense. Deleting an id that does not exist is not an error.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.service()
			if err != nil {
				return err
			}
			id := strings.TrimSpace(args[0])
			removed, err := svc.DeleteExpense(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !removed {
				fmt.Fprintln(cmd.OutOrStdout(), cli.SubtleStyle.Render("No expense with id "+id))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.SuccessStyle.Render("Deleted "+id))
			return nil
		},
	}
}

func clearCmd(opts *rootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all expenses",
		Long:  `Remove every expense and the stored data. Requires --yes.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errors.New("refusing to delete all expenses without --yes")
			}
			svc, err := opts.service()
			if err != nil {
				return err
			}
			if err := svc.ClearAll(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.WarningStyle.Render("All expenses deleted"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion of all data")
	return cmd
}
