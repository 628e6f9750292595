// Package cli holds the start-up steps shared by every nekobudget command:
// environment loading, logging, configuration and opening the store.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"nekobudget/internal/config"
	"nekobudget/internal/log"
	"nekobudget/internal/storage"
)

// LoadEnvFile loads the named env files, or .env when none are named. Only a
// missing default .env is tolerated.
func LoadEnvFile(filenames ...string) error {
	err := godotenv.Load(filenames...)
	if err == nil || (len(filenames) == 0 && os.IsNotExist(err)) {
		return nil
	}
	return fmt.Errorf("load env file: %w", err)
}

// SetupLogger builds the root logger at the configured level and makes it
// the slog default.
func SetupLogger(level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := log.DefaultConfig()
	cfg.Level = lvl
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger, nil
}

// LoadAndValidateConfig loads configuration from the environment, applies
// overrides such as command-line flags, then validates the result. The
// configured logger does not exist yet, so failures go to the context logger.
func LoadAndValidateConfig(ctx context.Context, overrides ...func(*config.Config)) (*config.Config, error) {
	cfg := config.Load()
	for _, override := range overrides {
		override(cfg)
	}
	if err := cfg.Validate(); err != nil {
		log.FromContext(ctx).WithComponent(log.ComponentConfig).ErrorContext(ctx, "Invalid configuration",
			log.FieldOperation, log.OpValidate,
			log.FieldErrorType, log.ErrorTypeConfiguration,
			log.FieldError, err)
		return nil, err
	}
	return cfg, nil
}

// InitSQLite opens the ledger store at dbPath.
func InitSQLite(logger *log.Logger, dbPath string) (*storage.SQLiteRepository, error) {
	repo, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository",
			log.FieldError, err, log.FieldPath, dbPath, log.FieldOperation, log.OpStartup)
		return nil, err
	}
	logger.Debug("SQLite repository ready", log.FieldPath, dbPath)
	return repo, nil
}

// SignalContext is cancelled on SIGINT or SIGTERM so an interrupted command
// rolls back its open transaction instead of being killed mid-write.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
