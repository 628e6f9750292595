package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"nekobudget/internal/core"
)

func newBillAccountCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "billaccount",
		Short: "Manage the account bills are paid from",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the current balance",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				acc, err := a.svc.BillAccount(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Bill account balance: %s\n", acc.Balance)
				return nil
			},
		},
		newBillAccountTransactionCommand(a, core.Deposit),
		newBillAccountTransactionCommand(a, core.Withdraw),
		newBillAccountHistoryCommand(a),
		newBillAccountSetBalanceCommand(a),
	)
	return cmd
}

func newBillAccountTransactionCommand(a *app, kind core.TransactionKind) *cobra.Command {
	var amount, date, notes string

	cmd := &cobra.Command{
		Use:   string(kind),
		Short: fmt.Sprintf("Record a %s on the bill account", kind),
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
			ctx := cmd.Context()
			if _, err := a.svc.RecordBillAccountTransaction(ctx, core.BillAccountTransaction{
				Amount: m, Kind: kind, Date: d, Notes: notes,
			}); err != nil {
				return err
			}
			acc, err := a.svc.BillAccount(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Bill account balance: %s\n", acc.Balance)
			return nil
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "amount (required)")
	cmd.Flags().StringVar(&date, "date", "", "date as YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&notes, "notes", "", "free-text notes")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func newBillAccountHistoryCommand(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent bill account transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("limit") {
				limit = a.cfg.HistoryLimit
			}
			history, err := a.svc.BillAccountHistory(cmd.Context(), limit)
			if err != nil {
				return err
			}
			tw := newTable(cmd.OutOrStdout(), "ID", "DATE", "KIND", "AMOUNT", "NOTES")
			for _, t := range history {
				row(tw, t.ID, t.Date, t.Kind, t.Amount, orDash(t.Notes))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "maximum rows (default HISTORY_LIMIT)")
	return cmd
}

func newBillAccountSetBalanceCommand(a *app) *cobra.Command {
	var amount string
	var yes bool

	cmd := &cobra.Command{
		Use:   "set-balance",
		Short: "Overwrite the balance without recording a transaction",
		Long: "Overwrite the bill account balance directly. No transaction is recorded, " +
			"so the balance will no longer match the history. Use deposit or withdraw instead where possible.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := core.ParseBalance(amount)
			if err != nil {
				return err
			}
			if !yes {
				return errors.New("refusing to overwrite the balance without --yes")
			}
			if err := a.svc.OverrideBillAccountBalance(cmd.Context(), m); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Bill account balance set to %s\n", m)
			return nil
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "new balance (required)")
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the override")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}
