package log

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, Level("debug"))
	assert.Equal(t, slog.LevelInfo, Level("info"))
	assert.Equal(t, slog.LevelWarn, Level("warn"))
	assert.Equal(t, slog.LevelError, Level("error"))
	assert.Equal(t, slog.LevelInfo, Level("nonsense"))
}

func TestSetup_AppliesLevel(t *testing.T) {
	previous := slog.Default()
	defer slog.SetDefault(previous)

	Setup("error", "json")

	ctx := context.Background()
	assert.False(t, slog.Default().Enabled(ctx, slog.LevelInfo))
	assert.True(t, slog.Default().Enabled(ctx, slog.LevelError))
}

func TestWithWorkflow(t *testing.T) {
	previous := slog.Default()
	defer slog.SetDefault(previous)

	Setup("info", "text")

	logger := WithWorkflow("autosave", "wf-1")
	assert.NotNil(t, logger)
	assert.True(t, logger.Enabled(context.Background(), slog.LevelInfo))
}
