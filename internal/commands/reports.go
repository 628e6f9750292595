package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"nekobudget/internal/export"
	"nekobudget/internal/log"
	"nekobudget/internal/storage"
)

func newSummaryCommand(a *app) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Income, spending and bills for a month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ym, err := parseMonth(month, a.svc.Today())
			if err != nil {
				return err
			}
			s, err := a.svc.Summary(cmd.Context(), ym)
			if err != nil {
				return err
			}
			tw := newTable(cmd.OutOrStdout(), ym.String(), "")
			row(tw, fmt.Sprintf("Income (%d)", s.PaycheckCount), s.Income)
			row(tw, fmt.Sprintf("Purchases (%d)", s.PurchaseCount), s.Purchases)
			row(tw, "Bills", s.Bills)
			row(tw, "Remaining", s.Remaining)
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month as YYYY-MM (default current)")
	return cmd
}

func newOverviewCommand(a *app) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "overview",
		Short: "Bills, savings and the bill account for a month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ym, err := parseMonth(month, a.svc.Today())
			if err != nil {
				return err
			}
			o, err := a.svc.Overview(cmd.Context(), ym)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()

			fmt.Fprintf(w, "%s  income %s  purchases %s  bills %s  remaining %s\n\n",
				ym, o.Summary.Income, o.Summary.Purchases, o.Summary.Bills, o.Summary.Remaining)

			tw := newTable(w, "BILL", "AMOUNT", "DUE", "STATUS")
			for _, b := range o.Bills {
				status := "unpaid"
				switch {
				case b.Paid:
					status = "paid " + b.PaidDate.String()
				case b.Overdue:
					status = "OVERDUE"
				}
				row(tw, b.Bill.Name, b.Bill.Amount, orDash(b.DueDate.String()), status)
			}
			row(tw, "Unpaid", o.UnpaidTotal, "", "")
			if err := tw.Flush(); err != nil {
				return err
			}

			covers := "covers"
			if !o.BillAccountCovers() {
				covers = "short by " + o.UnpaidTotal.Sub(o.BillAccount.Balance).String()
			}
			fmt.Fprintf(w, "\nBill account %s (%s unpaid bills)\n\n", o.BillAccount.Balance, covers)

			tw = newTable(w, "SAVINGS", "CURRENT", "GOAL", "PROGRESS")
			for _, p := range o.Savings {
				goal, progress := "-", "-"
				if p.HasGoal {
					goal, progress = p.Account.Goal.String(), fmt.Sprintf("%d%%", p.Percent)
				}
				row(tw, p.Account.Name, p.Account.Current, goal, progress)
			}
			row(tw, "Total", o.TotalSavings, "", "")
			if err := tw.Flush(); err != nil {
				return err
			}

			if o.Notes != "" {
				fmt.Fprintf(w, "\nNotes: %s\n", o.Notes)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month as YYYY-MM (default current)")
	return cmd
}

func newExportCommand(a *app) *cobra.Command {
	var month, out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a month to an XLSX workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			ym, err := parseMonth(month, a.svc.Today())
			if err != nil {
				return err
			}
			if out == "" {
				out = filepath.Join(a.cfg.ExportDir, export.Filename(ym))
			}

			o, err := a.svc.Overview(ctx, ym)
			if err != nil {
				return err
			}
			paychecks, err := a.svc.ListPaychecks(ctx, storage.ForMonth(ym))
			if err != nil {
				return err
			}
			purchases, err := a.svc.ListPurchases(ctx, storage.ForMonth(ym))
			if err != nil {
				return err
			}

			err = writeFile(out, func(w io.Writer) error {
				return export.WriteMonthWorkbook(w, o, paychecks, purchases)
			})
			if err != nil {
				return err
			}

			log.FromContext(ctx).WithComponent(log.ComponentExport).InfoContext(ctx, "Month exported",
				log.FieldOperation, log.OpExport, log.FieldYear, ym.Year, log.FieldMonth, ym.Month, log.FieldPath, out)
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", ym, out)
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month as YYYY-MM (default current)")
	cmd.Flags().StringVar(&out, "out", "", "output file (default EXPORT_DIR/nekobudget_YYYY-MM.xlsx)")
	return cmd
}

func newVerifyCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check every balance against its transaction history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			drift, err := a.svc.CheckLedgers(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(drift) == 0 {
				fmt.Fprintln(w, "All balances match their history")
				return nil
			}
			tw := newTable(w, "ACCOUNT", "BALANCE", "HISTORY", "DIFFERENCE")
			for _, d := range drift {
				row(tw, d.Name, d.Balance, d.LedgerSum, d.Balance.Sub(d.LedgerSum))
			}
			return tw.Flush()
		},
	}
}

// writeFile creates path and fills it with write. On any failure the partial
// file is removed.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		_ = os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("close export file: %w", err)
	}
	return nil
}
