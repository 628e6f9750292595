package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newPageCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "page",
		Short: "Per-month notes",
	}
	cmd.AddCommand(
		newPageShowCommand(a),
		newPageNotesCommand(a),
		newPageListCommand(a),
		newPageDeleteCommand(a),
	)
	return cmd
}

func newPageShowCommand(a *app) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a month's page, creating it if needed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ym, err := parseMonth(month, a.svc.Today())
			if err != nil {
				return err
			}
			page, err := a.svc.MonthlyPage(cmd.Context(), ym)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (page %d)\n%s\n", page.Period, page.ID, orDash(page.Notes))
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month as YYYY-MM (default current)")
	return cmd
}

func newPageNotesCommand(a *app) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "notes <text>...",
		Short: "Replace a month's notes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ym, err := parseMonth(month, a.svc.Today())
			if err != nil {
				return err
			}
			page, err := a.svc.SetPageNotes(cmd.Context(), ym, strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Notes saved for %s\n", page.Period)
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month as YYYY-MM (default current)")
	return cmd
}

func newPageListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List months that have a page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pages, err := a.svc.ListPages(cmd.Context())
			if err != nil {
				return err
			}
			tw := newTable(cmd.OutOrStdout(), "MONTH", "NOTES")
			for _, p := range pages {
				row(tw, p.Period, orDash(firstLine(p.Notes)))
			}
			return tw.Flush()
		},
	}
}

func newPageDeleteCommand(a *app) *cobra.Command {
	var month string
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a month's page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ym, err := parseMonth(month, a.svc.Today())
			if err != nil {
				return err
			}
			if err := requireConfirmation(yes, "page "+ym.String()); err != nil {
				return err
			}
			if err := a.svc.DeletePage(cmd.Context(), ym); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted page %s\n", ym)
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month as YYYY-MM (required)")
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	_ = cmd.MarkFlagRequired("month")
	return cmd
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
