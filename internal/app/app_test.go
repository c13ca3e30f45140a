package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techno-mart-ai/internal/config"
	"techno-mart-ai/internal/metrics"
)

func TestNewLoggerLevels(t *testing.T) {
	ctx := context.Background()

	assert.True(t, NewLogger(config.Config{LogLevel: "debug"}).Enabled(ctx, slog.LevelDebug))
	assert.False(t, NewLogger(config.Config{LogLevel: "info"}).Enabled(ctx, slog.LevelDebug))
	assert.False(t, NewLogger(config.Config{LogLevel: "error"}).Enabled(ctx, slog.LevelWarn))
	assert.True(t, NewLogger(config.Config{LogLevel: "error", Debug: true}).Enabled(ctx, slog.LevelDebug))
}

func TestNewAIClient(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	c, err := NewAIClient(context.Background(), config.Config{}, http.DefaultClient, logger, metrics.New())
	require.NoError(t, err)
	assert.False(t, c.Enabled())

	c, err = NewAIClient(context.Background(), config.Config{GeminiAPIKey: "test-key", RateLimit: 2, RateBurst: 1}, http.DefaultClient, logger, nil)
	require.NoError(t, err)
	assert.True(t, c.Enabled())
}
