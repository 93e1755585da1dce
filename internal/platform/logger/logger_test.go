package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/phrazzld/taskboard-api/internal/config"
)

func TestSetupLevels(t *testing.T) {
	cases := []struct {
		configured string
		want       slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo}, // invalid falls back to info
	}

	for _, tc := range cases {
		t.Run(tc.configured, func(t *testing.T) {
			logger, err := Setup(config.ServerConfig{LogLevel: tc.configured})
			if err != nil {
				t.Fatalf("Setup returned error: %v", err)
			}
			if logger == nil {
				t.Fatal("Setup returned nil logger")
			}
			if !logger.Enabled(context.Background(), tc.want) {
				t.Errorf("expected level %v to be enabled for config %q", tc.want, tc.configured)
			}
			if tc.want > slog.LevelDebug && logger.Enabled(context.Background(), tc.want-4) {
				t.Errorf("expected level below %v to be disabled for config %q", tc.want, tc.configured)
			}
		})
	}
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	// Without a stored logger the default is returned.
	if got := FromContext(context.Background()); got != slog.Default() {
		t.Error("expected default logger for empty context")
	}

	var buf bytes.Buffer
	stored := slog.New(slog.NewTextHandler(&buf, nil))
	ctx := WithLogger(context.Background(), stored)

	if got := FromContext(ctx); got != stored {
		t.Error("expected stored logger to be returned")
	}
}

func TestFromContextOrDefault(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	def := slog.New(slog.NewTextHandler(&buf, nil))

	// Falls back to the provided default.
	if got := FromContextOrDefault(context.Background(), def); got != def {
		t.Error("expected provided default logger")
	}

	// Falls back to slog default when no default is given.
	if got := FromContextOrDefault(context.Background(), nil); got != slog.Default() {
		t.Error("expected slog default logger")
	}

	// Prefers the stored logger.
	stored := slog.New(slog.NewTextHandler(&buf, nil))
	ctx := WithLogger(context.Background(), stored)
	if got := FromContextOrDefault(ctx, def); got != stored {
		t.Error("expected stored logger to win over default")
	}
}
