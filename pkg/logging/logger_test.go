package logging

import (
	"context"
	"log/slog"
	"testing"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		name   string
		level  string
		enable slog.Level
	}{
		{"debug level", "debug", slog.LevelDebug},
		{"warn level", "warn", slog.LevelWarn},
		{"default info", "", slog.LevelInfo},
	}

	ctx := context.Background()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := New(tt.level)
			if !logger.Enabled(ctx, tt.enable) {
				t.Fatalf("expected level %s to be enabled", tt.enable)
			}
		})
	}
}

func TestForEnv(t *testing.T) {
	ctx := context.Background()

	dev := ForEnv("development", "debug")
	if !dev.Enabled(ctx, slog.LevelDebug) {
		t.Error("ForEnv(development) should honor the requested level")
	}

	prod := ForEnv("production", "info")
	if prod.Enabled(ctx, slog.LevelDebug) {
		t.Error("ForEnv(production, info) should not enable debug")
	}
}

func TestDefaultLogger(t *testing.T) {
	logger := Default()

	// Won't panic if properly initialized.
	logger.Info("test message", "key", "value")

	ctx := context.Background()
	if !logger.Enabled(ctx, slog.LevelInfo) {
		t.Error("Default() should enable info level")
	}
	if logger.Enabled(ctx, slog.LevelDebug) {
		t.Error("Default() should not enable debug level (info is higher)")
	}

	if logger.Logger == nil {
		t.Fatal("Default() returned Logger with nil slog.Logger (should be impossible)")
	}
}
