package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"nekobudget/internal/core"
	"nekobudget/internal/storage"
)

// monthFilter resolves --month and --all into a listing filter.
func (a *app) monthFilter(month string, all bool) (storage.EntryFilter, error) {
	if all {
		return storage.EntryFilter{}, nil
	}
	ym, err := parseMonth(month, a.svc.Today())
	if err != nil {
		return storage.EntryFilter{}, err
	}
	return storage.ForMonth(ym), nil
}

func newPaycheckCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "paycheck",
		Short: "Record income",
	}
	cmd.AddCommand(
		newPaycheckAddCommand(a),
		newPaycheckListCommand(a),
		newPaycheckUpdateCommand(a),
		newPaycheckDeleteCommand(a),
	)
	return cmd
}

func newPaycheckAddCommand(a *app) *cobra.Command {
	var amount, date, source, notes string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a paycheck",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := core.ParseAmount(amount)
			if err != nil {
				return err
			}
			d, err := parseOptionalDate(date)
			if err != nil {
				return err
			}
			if d.IsZero() {
				d = a.svc.Today()
			}
			id, err := a.svc.AddPaycheck(cmd.Context(), core.Paycheck{Amount: m, Date: d, Source: source, Notes: notes})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added paycheck %d: %s on %s\n", id, m, d)
			return nil
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "amount received (required)")
	cmd.Flags().StringVar(&date, "date", "", "date as YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&source, "source", "", "employer or other source")
	cmd.Flags().StringVar(&notes, "notes", "", "free-text notes")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func newPaycheckListCommand(a *app) *cobra.Command {
	var month string
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List paychecks, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := a.monthFilter(month, all)
			if err != nil {
				return err
			}
			paychecks, err := a.svc.ListPaychecks(cmd.Context(), f)
			if err != nil {
				return err
			}
			tw := newTable(cmd.OutOrStdout(), "ID", "DATE", "AMOUNT", "SOURCE", "NOTES")
			var total core.Money
			for _, p := range paychecks {
				row(tw, p.ID, p.Date, p.Amount, orDash(p.Source), orDash(p.Notes))
				total = total.Add(p.Amount)
			}
			row(tw, "", "Total", total, "", "")
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month as YYYY-MM (default current)")
	cmd.Flags().BoolVar(&all, "all", false, "list every month")
	return cmd
}

func newPaycheckUpdateCommand(a *app) *cobra.Command {
	var amount, date, source, notes string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a paycheck",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			p, err := a.svc.GetPaycheck(ctx, id)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("amount") {
				if p.Amount, err = core.ParseAmount(amount); err != nil {
					return err
				}
			}
			if flags.Changed("date") {
				if p.Date, err = core.ParseDate(date); err != nil {
					return err
				}
			}
			if flags.Changed("source") {
				p.Source = source
			}
			if flags.Changed("notes") {
				p.Notes = notes
			}
			if err := a.svc.UpdatePaycheck(ctx, p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated paycheck %d\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "new amount")
	cmd.Flags().StringVar(&date, "date", "", "new date as YYYY-MM-DD")
	cmd.Flags().StringVar(&source, "source", "", "new source")
	cmd.Flags().StringVar(&notes, "notes", "", "new notes")
	return cmd
}

func newPaycheckDeleteCommand(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a paycheck",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := requireConfirmation(yes, fmt.Sprintf("paycheck %d", id)); err != nil {
				return err
			}
			if err := a.svc.DeletePaycheck(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted paycheck %d\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	return cmd
}

func newPurchaseCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "purchase",
		Short: "Record one-off spending",
	}
	cmd.AddCommand(
		newPurchaseAddCommand(a),
		newPurchaseListCommand(a),
		newPurchaseUpdateCommand(a),
		newPurchaseDeleteCommand(a),
		newPurchaseCategoriesCommand(a),
	)
	return cmd
}

func newPurchaseAddCommand(a *app) *cobra.Command {
	var name, amount, date, category, receipt, notes string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a purchase",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := core.ParseAmount(amount)
			if err != nil {
				return err
			}
			d, err := parseOptionalDate(date)
			if err != nil {
				return err
			}
			if d.IsZero() {
				d = a.svc.Today()
			}
			id, err := a.svc.AddPurchase(cmd.Context(), core.Purchase{
				Name: name, Amount: m, Date: d, Category: category, ReceiptPath: receipt, Notes: notes,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added purchase %d: %s %s on %s\n", id, name, m, d)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "what was bought (required)")
	cmd.Flags().StringVar(&amount, "amount", "", "amount spent (required)")
	cmd.Flags().StringVar(&date, "date", "", "date as YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&category, "category", "", "free-text category")
	cmd.Flags().StringVar(&receipt, "receipt", "", "path to a receipt image")
	cmd.Flags().StringVar(&notes, "notes", "", "free-text notes")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func newPurchaseListCommand(a *app) *cobra.Command {
	var month string
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List purchases, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := a.monthFilter(month, all)
			if err != nil {
				return err
			}
			purchases, err := a.svc.ListPurchases(cmd.Context(), f)
			if err != nil {
				return err
			}
			tw := newTable(cmd.OutOrStdout(), "ID", "DATE", "NAME", "AMOUNT", "CATEGORY", "RECEIPT")
			var total core.Money
			for _, p := range purchases {
				row(tw, p.ID, p.Date, p.Name, p.Amount, orDash(p.Category), orDash(p.ReceiptPath))
				total = total.Add(p.Amount)
			}
			row(tw, "", "", "Total", total, "", "")
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month as YYYY-MM (default current)")
	cmd.Flags().BoolVar(&all, "all", false, "list every month")
	return cmd
}

func newPurchaseUpdateCommand(a *app) *cobra.Command {
	var name, amount, date, category, receipt, notes string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a purchase",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			p, err := a.svc.GetPurchase(ctx, id)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("name") {
				p.Name = name
			}
			if flags.Changed("amount") {
				if p.Amount, err = core.ParseAmount(amount); err != nil {
					return err
				}
			}
			if flags.Changed("date") {
				if p.Date, err = core.ParseDate(date); err != nil {
					return err
				}
			}
			if flags.Changed("category") {
				p.Category = category
			}
			if flags.Changed("receipt") {
				p.ReceiptPath = receipt
			}
			if flags.Changed("notes") {
				p.Notes = notes
			}
			if err := a.svc.UpdatePurchase(ctx, p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated purchase %d\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&amount, "amount", "", "new amount")
	cmd.Flags().StringVar(&date, "date", "", "new date as YYYY-MM-DD")
	cmd.Flags().StringVar(&category, "category", "", "new category")
	cmd.Flags().StringVar(&receipt, "receipt", "", "new receipt path, empty to clear")
	cmd.Flags().StringVar(&notes, "notes", "", "new notes")
	return cmd
}

func newPurchaseDeleteCommand(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a purchase; any receipt file is left in place",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := requireConfirmation(yes, fmt.Sprintf("purchase %d", id)); err != nil {
				return err
			}
			if err := a.svc.DeletePurchase(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted purchase %d\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	return cmd
}

func newPurchaseCategoriesCommand(a *app) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Total the month's purchases by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ym, err := parseMonth(month, a.svc.Today())
			if err != nil {
				return err
			}
			totals, err := a.svc.CategoryTotals(cmd.Context(), ym)
			if err != nil {
				return err
			}
			tw := newTable(cmd.OutOrStdout(), "CATEGORY", "COUNT", "AMOUNT")
			for _, c := range totals {
				row(tw, orDash(c.Name), c.Count, c.Amount)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month as YYYY-MM (default current)")
	return cmd
}
