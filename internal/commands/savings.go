package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"nekobudget/internal/core"
	"nekobudget/internal/services"
)

func newSavingsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "savings",
		Short: "Manage savings goals",
	}
	cmd.AddCommand(
		newSavingsCreateCommand(a),
		newSavingsListCommand(a),
		newSavingsUpdateCommand(a),
		newSavingsTransactionCommand(a, core.Deposit),
		newSavingsTransactionCommand(a, core.Withdraw),
		newSavingsHistoryCommand(a),
		newSavingsDeleteCommand(a),
	)
	return cmd
}

func newSavingsCreateCommand(a *app) *cobra.Command {
	var name, initial, goal string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a savings account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			current, err := parseGoal(initial)
			if err != nil {
				return err
			}
			g, err := parseGoal(goal)
			if err != nil {
				return err
			}
			id, err := a.svc.CreateSavingsAccount(cmd.Context(), core.SavingsAccount{Name: name, Current: current, Goal: g})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created savings account %d: %s\n", id, name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "account name (required)")
	cmd.Flags().StringVar(&initial, "initial", "", "opening balance, recorded as a deposit")
	cmd.Flags().StringVar(&goal, "goal", "", "target amount")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newSavingsListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List savings accounts with goal progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			accounts, err := a.svc.ListSavingsAccounts(cmd.Context())
			if err != nil {
				return err
			}
			tw := newTable(cmd.OutOrStdout(), "ID", "NAME", "CURRENT", "GOAL", "PROGRESS")
			var total core.Money
			for _, acc := range accounts {
				p := services.GoalProgress(acc)
				goal, progress := "-", "-"
				if p.HasGoal {
					goal, progress = acc.Goal.String(), fmt.Sprintf("%d%%", p.Percent)
				}
				row(tw, acc.ID, acc.Name, acc.Current, goal, progress)
				total = total.Add(acc.Current)
			}
			row(tw, "", "Total", total, "", "")
			return tw.Flush()
		},
	}
}

func newSavingsUpdateCommand(a *app) *cobra.Command {
	var name, goal string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Rename an account or change its goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			acc, err := a.svc.GetSavingsAccount(ctx, id)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("name") {
				acc.Name = name
			}
			if cmd.Flags().Changed("goal") {
				if acc.Goal, err = parseGoal(goal); err != nil {
					return err
				}
			}
			if err := a.svc.UpdateSavingsAccount(ctx, id, acc.Name, acc.Goal); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated savings account %d\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&goal, "goal", "", "new goal, 0 to clear")
	return cmd
}

func newSavingsTransactionCommand(a *app, kind core.TransactionKind) *cobra.Command {
	var amount, date, notes string

	cmd := &cobra.Command{
		Use:   string(kind) + " <id>",
		Short: fmt.Sprintf("Record a %s on a savings account", kind),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			m, err := core.ParseAmount(amount)
			if err != nil {
				return err
			}
			d, err := parseOptionalDate(date)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if _, err := a.svc.RecordSavingsTransaction(ctx, core.SavingsTransaction{
				AccountID: id, Amount: m, Kind: kind, Date: d, Notes: notes,
			}); err != nil {
				return err
			}
			acc, err := a.svc.GetSavingsAccount(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: balance %s\n", acc.Name, acc.Current)
			return nil
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "amount (required)")
	cmd.Flags().StringVar(&date, "date", "", "date as YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&notes, "notes", "", "free-text notes")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func newSavingsHistoryCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "history <id>",
		Short: "Show an account's deposits and withdrawals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			history, err := a.svc.SavingsHistory(cmd.Context(), id)
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
}

func newSavingsDeleteCommand(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an account and its history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := requireConfirmation(yes, fmt.Sprintf("savings account %d and its history", id)); err != nil {
				return err
			}
			if err := a.svc.DeleteSavingsAccount(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted savings account %d\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	return cmd
}
