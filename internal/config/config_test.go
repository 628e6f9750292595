package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validConfig() Config {
	return Config{
		DBPath:       "./test.db",
		LogLevel:     "info",
		HistoryLimit: 50,
		ExportDir:    ".",
		CheckFunds:   true,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid config",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:        "empty database path",
			mutate:      func(c *Config) { c.DBPath = "  " },
			wantErr:     true,
			errorString: "database path cannot be empty",
		},
		{
			name:        "unknown log level",
			mutate:      func(c *Config) { c.LogLevel = "verbose" },
			wantErr:     true,
			errorString: "invalid log level 'verbose'",
		},
		{
			name:    "log level is case-insensitive",
			mutate:  func(c *Config) { c.LogLevel = "DEBUG" },
			wantErr: false,
		},
		{
			name:        "history limit too small",
			mutate:      func(c *Config) { c.HistoryLimit = 0 },
			wantErr:     true,
			errorString: "invalid history limit 0: must be at least 1",
		},
		{
			name:        "history limit too large",
			mutate:      func(c *Config) { c.HistoryLimit = 5000 },
			wantErr:     true,
			errorString: "invalid history limit 5000: must be at most 1000",
		},
		{
			name:        "empty export directory",
			mutate:      func(c *Config) { c.ExportDir = "" },
			wantErr:     true,
			errorString: "export directory cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Config.Validate() error = nil, wantErr %v", tt.wantErr)
					return
				}
				if tt.errorString != "" && !strings.Contains(err.Error(), tt.errorString) {
					t.Errorf("Config.Validate() error = %v, want error containing %v", err.Error(), tt.errorString)
				}
			} else if err != nil {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ValidateWithFiles(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "not-a-dir")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	cfg := validConfig()
	cfg.ExportDir = file
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "is not a directory") {
		t.Errorf("Config.Validate() error = %v, want export directory error", err)
	}

	cfg = validConfig()
	cfg.DBPath = tmpDir
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "is a directory") {
		t.Errorf("Config.Validate() error = %v, want database path error", err)
	}
}

func TestConfig_ValidateAggregatesErrors(t *testing.T) {
	cfg := Config{LogLevel: "loud", HistoryLimit: -1}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("Config.Validate() error = nil, want errors")
	}
	for _, want := range []string{"database path", "log level", "history limit", "export directory"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Config.Validate() error %q missing %q", err.Error(), want)
		}
	}
}

func TestLoad(t *testing.T) {
	for _, key := range []string{"NEKOBUDGET_DB_PATH", "LOG_LEVEL", "HISTORY_LIMIT", "EXPORT_DIR", "CHECK_FUNDS"} {
		t.Setenv(key, "")
	}

	t.Run("default values", func(t *testing.T) {
		cfg := Load()

		if cfg.DBPath != DefaultDBPath {
			t.Errorf("Load() DBPath = %v, want %v", cfg.DBPath, DefaultDBPath)
		}
		if cfg.LogLevel != "info" {
			t.Errorf("Load() LogLevel = %v, want info", cfg.LogLevel)
		}
		if cfg.HistoryLimit != 50 {
			t.Errorf("Load() HistoryLimit = %v, want 50", cfg.HistoryLimit)
		}
		if cfg.ExportDir != "." {
			t.Errorf("Load() ExportDir = %v, want .", cfg.ExportDir)
		}
		if !cfg.CheckFunds {
			t.Error("Load() CheckFunds = false, want true")
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("default config should validate: %v", err)
		}
	})

	t.Run("environment variables", func(t *testing.T) {
		t.Setenv("NEKOBUDGET_DB_PATH", "/tmp/budget.db")
		t.Setenv("LOG_LEVEL", "debug")
		t.Setenv("HISTORY_LIMIT", "200")
		t.Setenv("CHECK_FUNDS", "false")

		cfg := Load()

		if cfg.DBPath != "/tmp/budget.db" {
			t.Errorf("Load() DBPath = %v, want /tmp/budget.db", cfg.DBPath)
		}
		if cfg.LogLevel != "debug" {
			t.Errorf("Load() LogLevel = %v, want debug", cfg.LogLevel)
		}
		if cfg.HistoryLimit != 200 {
			t.Errorf("Load() HistoryLimit = %v, want 200", cfg.HistoryLimit)
		}
		if cfg.CheckFunds {
			t.Error("Load() CheckFunds = true, want false")
		}
	})

	t.Run("unparsable values are reported", func(t *testing.T) {
		t.Setenv("HISTORY_LIMIT", "lots")
		t.Setenv("CHECK_FUNDS", "maybe")

		cfg := Load()

		if cfg.HistoryLimit != DefaultHistoryLimit {
			t.Errorf("Load() HistoryLimit = %v, want default", cfg.HistoryLimit)
		}
		err := cfg.Validate()
		if err == nil {
			t.Fatal("Config.Validate() error = nil, want parse errors")
		}
		if !strings.Contains(err.Error(), "invalid HISTORY_LIMIT 'lots'") {
			t.Errorf("error %q missing HISTORY_LIMIT", err.Error())
		}
		if !strings.Contains(err.Error(), "invalid CHECK_FUNDS 'maybe'") {
			t.Errorf("error %q missing CHECK_FUNDS", err.Error())
		}
	})
}
