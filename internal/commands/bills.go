package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"nekobudget/internal/core"
)

func newBillCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bill",
		Short: "Manage recurring monthly bills",
	}
	cmd.AddCommand(
		newBillAddCommand(a),
		newBillListCommand(a),
		newBillUpdateCommand(a),
		newBillActiveCommand(a, "deactivate", "Stop counting a bill; its history is kept"),
		newBillActiveCommand(a, "reactivate", "Count a deactivated bill again"),
		newBillPayCommand(a),
		newBillUnpayCommand(a),
	)
	return cmd
}

func newBillAddCommand(a *app) *cobra.Command {
	var name, amount, category string
	var due int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a monthly bill",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := core.ParseAmount(amount)
			if err != nil {
				return err
			}
			id, err := a.svc.AddBill(cmd.Context(), core.MonthlyBill{Name: name, Amount: m, DueDay: due, Category: category})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added bill %d: %s %s\n", id, name, m)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "bill name (required)")
	cmd.Flags().StringVar(&amount, "amount", "", "monthly amount, e.g. 1200.00 (required)")
	cmd.Flags().IntVar(&due, "due-day", 0, "day of month the bill is due (1-31)")
	cmd.Flags().StringVar(&category, "category", "", "free-text category")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func newBillListCommand(a *app) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List bills by due day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			bills, err := a.svc.ListBills(ctx, !all)
			if err != nil {
				return err
			}
			tw := newTable(cmd.OutOrStdout(), "ID", "NAME", "AMOUNT", "DUE", "CATEGORY", "ACTIVE")
			var total core.Money
			for _, b := range bills {
				row(tw, b.ID, b.Name, b.Amount, dueDay(b.DueDay), orDash(b.Category), b.Active)
				if b.Active {
					total = total.Add(b.Amount)
				}
			}
			row(tw, "", "Total active", total, "", "", "")
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include deactivated bills")
	return cmd
}

func newBillUpdateCommand(a *app) *cobra.Command {
	var name, amount, category string
	var due int

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a bill's name, amount, due day or category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			b, err := a.svc.GetBill(ctx, id)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("name") {
				b.Name = name
			}
			if flags.Changed("amount") {
				if b.Amount, err = core.ParseAmount(amount); err != nil {
					return err
				}
			}
			if flags.Changed("due-day") {
				b.DueDay = due
			}
			if flags.Changed("category") {
				b.Category = category
			}
			if err := a.svc.UpdateBill(ctx, b); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated bill %d\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&amount, "amount", "", "new amount")
	cmd.Flags().IntVar(&due, "due-day", 0, "new due day, 0 to clear")
	cmd.Flags().StringVar(&category, "category", "", "new category, empty to clear")
	return cmd
}

func newBillActiveCommand(a *app, verb, short string) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if verb == "deactivate" {
				err = a.svc.DeactivateBill(cmd.Context(), id)
			} else {
				err = a.svc.ReactivateBill(cmd.Context(), id)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Bill %d %sd\n", id, verb)
			return nil
		},
	}
}

func newBillPayCommand(a *app) *cobra.Command {
	var month, date string

	cmd := &cobra.Command{
		Use:   "pay <id>",
		Short: "Mark a bill paid for a month",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ym, err := parseMonth(month, a.svc.Today())
			if err != nil {
				return err
			}
			paid, err := parseOptionalDate(date)
			if err != nil {
				return err
			}
			if err := a.svc.MarkBillPaid(cmd.Context(), id, ym, paid); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Bill %d paid for %s\n", id, ym)
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month as YYYY-MM (default current)")
	cmd.Flags().StringVar(&date, "date", "", "payment date as YYYY-MM-DD (default today)")
	return cmd
}

func newBillUnpayCommand(a *app) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "unpay <id>",
		Short: "Remove a bill's paid mark for a month",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ym, err := parseMonth(month, a.svc.Today())
			if err != nil {
				return err
			}
			if err := a.svc.MarkBillUnpaid(cmd.Context(), id, ym); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Bill %d unpaid for %s\n", id, ym)
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month as YYYY-MM (default current)")
	return cmd
}
