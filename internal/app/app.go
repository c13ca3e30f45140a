package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"techno-mart-ai/internal/aicontent"
	"techno-mart-ai/internal/config"
	"techno-mart-ai/internal/gemini"
	"techno-mart-ai/internal/limiter"
	"techno-mart-ai/internal/metrics"
)

func NewLogger(cfg config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if cfg.Debug {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewAIClient builds the content client. Without a Gemini key it returns a
// disabled client rather than an error.
func NewAIClient(ctx context.Context, cfg config.Config, httpClient *http.Client, logger *slog.Logger, rec *metrics.Recorder) (*aicontent.Client, error) {
	opts := aicontent.Options{
		APIKey:       cfg.GeminiAPIKey,
		Logger:       logger,
		Metrics:      rec,
		ImageRetries: cfg.ImageRetries,
		ImageBackoff: cfg.ImageBackoff,
		BatchLimit:   cfg.MaxConcurrent,
	}

	if cfg.AIEnabled() {
		gem, err := gemini.New(ctx, gemini.Options{
			APIKey:     cfg.GeminiAPIKey,
			BaseURL:    cfg.GeminiBaseURL,
			APIVersion: cfg.GeminiAPIVersion,
			HTTPClient: httpClient,
			Logger:     logger,
			TextModel:  cfg.TextModel,
			ImageModel: cfg.ImageModel,
		})
		if err != nil {
			return nil, err
		}

		opts.Provider = limiter.New(limiter.FromConfig(cfg.RateLimit, cfg.RateBurst), gem)
		logger.Info("gemini ready", "text_model", gem.TextModel(), "image_model", gem.ImageModel(), "rate_limit", cfg.RateLimit)
	}

	return aicontent.New(opts), nil
}
