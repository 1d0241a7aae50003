package logging

import (
	"log/slog"
	"testing"

	"github.com/finleydale/gatehouse/internal/infrastructure/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"", slog.LevelInfo},
		{"nonsense", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLevel(tt.input); got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNew(t *testing.T) {
	cfg := config.LoggingConfig{Level: "debug", Format: "text", Output: "stderr"}

	logger := New(cfg, "test")
	if logger == nil || logger.Logger == nil {
		t.Fatal("New() returned a nil logger")
	}

	// With must return an independent logger carrying the extra attrs.
	child := logger.With("component", "auth")
	if child == nil || child.Logger == logger.Logger {
		t.Error("With() should return a new wrapped logger")
	}
}

func TestDefaultAndDiscard(t *testing.T) {
	if Default() == nil {
		t.Error("Default() returned nil")
	}

	// Discard must swallow output without panicking.
	Discard().Info("dropped", "key", "value")
}
