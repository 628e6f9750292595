package log

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"nekobudget/internal/core"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"trace", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLogger_StampsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Component: ComponentApp, Output: &buf})

	logger.WithComponent(ComponentBudget).Info("Bill added", FieldID, 7)
	logger.Debug("hidden")

	out := buf.String()
	if !strings.Contains(out, "component=budget") || !strings.Contains(out, "id=7") {
		t.Errorf("unexpected output %q", out)
	}
	if strings.Count(out, "component=") != 1 {
		t.Errorf("component should appear once, got %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Error("debug record written at info level")
	}
}

func TestFromContext(t *testing.T) {
	if got := FromContext(context.Background()); got.Component() != ComponentApp {
		t.Errorf("fallback component = %q, want %q", got.Component(), ComponentApp)
	}

	logger := Discard().WithComponent(ComponentCLI)
	ctx := WithLogger(context.Background(), logger)
	if got := FromContext(ctx); got != logger {
		t.Error("FromContext did not return the stored logger")
	}
}

func TestErrorType(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{core.Invalid(core.ErrEmptyName), ErrorTypeValidation},
		{core.Constraint(core.ErrInsufficientFunds), ErrorTypeConstraint},
		{fmt.Errorf("get bill 3: %w", core.ErrNotFound), ErrorTypeNotFound},
		{fmt.Errorf("commit: %w: disk full", core.ErrStorage), ErrorTypeStorage},
		{fmt.Errorf("boom"), ErrorTypeInternal},
	}

	for _, tt := range tests {
		if got := ErrorType(tt.err); got != tt.want {
			t.Errorf("ErrorType(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestStructuredLogger_LogError(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(New(Config{Level: slog.LevelDebug, Component: ComponentBudget, Output: &buf}))

	sl.LogError(context.Background(), "Invalid bill", core.Invalid(core.ErrEmptyName), OpCreate, nil)
	sl.LogError(context.Background(), "Commit failed", fmt.Errorf("x: %w", core.ErrStorage), OpRecord, NewFields().WithAmount(core.Cents(5)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "level=WARN") || !strings.Contains(lines[0], "error_type=validation_error") {
		t.Errorf("validation failure line = %q", lines[0])
	}
	if !strings.Contains(lines[1], "level=ERROR") || !strings.Contains(lines[1], "amount_cents=5") {
		t.Errorf("storage failure line = %q", lines[1])
	}
}
