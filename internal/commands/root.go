// Package commands is the nekobudget command tree.
package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"nekobudget/internal/cli"
	"nekobudget/internal/config"
	"nekobudget/internal/log"
	"nekobudget/internal/services"
)

// app is the state shared by every subcommand once the root pre-run has
// opened the store.
type app struct {
	dbPath  string
	envFile string
	cfg     *config.Config
	svc     *services.BudgetService

	// set by tests
	options []services.Option
}

func (a *app) open(cmd *cobra.Command) error {
	if a.svc != nil {
		return nil
	}
	if err := cli.LoadEnvFile(a.envFiles()...); err != nil {
		return err
	}
	cfg, err := cli.LoadAndValidateConfig(cmd.Context(), func(c *config.Config) {
		if a.dbPath != "" {
			c.DBPath = a.dbPath
		}
	})
	if err != nil {
		return err
	}
	logger, err := cli.SetupLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger = logger.WithComponent(log.ComponentCLI)

	repo, err := cli.InitSQLite(logger, cfg.DBPath)
	if err != nil {
		return err
	}
	opts := append([]services.Option{services.WithFundsCheck(cfg.CheckFunds)}, a.options...)

	a.cfg = cfg
	a.svc = services.NewBudgetService(repo, logger, opts...)
	cmd.SetContext(log.WithLogger(cmd.Context(), logger))
	logger.DebugContext(cmd.Context(), "Command starting", "command", cmd.CommandPath(), log.FieldPath, cfg.DBPath)
	return nil
}

func (a *app) envFiles() []string {
	if a.envFile == "" {
		return nil
	}
	return []string{a.envFile}
}

func (a *app) close() error {
	if a.svc == nil {
		return nil
	}
	err := a.svc.Close()
	a.svc = nil
	return err
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	root, _ := newRoot()
	return root
}

// Execute runs the command tree with os.Args and closes the store afterwards.
func Execute(ctx context.Context) error {
	root, a := newRoot()
	defer a.close()
	return root.ExecuteContext(ctx)
}

func newRoot() (*cobra.Command, *app) {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "nekobudget",
		Short: "Personal monthly budget: bills, paychecks, purchases and savings",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.open(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.close()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.dbPath, "db", "", "database file (overrides NEKOBUDGET_DB_PATH)")
	rootCmd.PersistentFlags().StringVar(&a.envFile, "env-file", "", "env file to load instead of .env")

	rootCmd.AddCommand(
		newBillCommand(a),
		newPaycheckCommand(a),
		newPurchaseCommand(a),
		newSavingsCommand(a),
		newBillAccountCommand(a),
		newPageCommand(a),
		newSummaryCommand(a),
		newOverviewCommand(a),
		newExportCommand(a),
		newVerifyCommand(a),
	)

	return rootCmd, a
}

func requireConfirmation(yes bool, what string) error {
	if !yes {
		return fmt.Errorf("refusing to delete %s without --yes", what)
	}
	return nil
}
