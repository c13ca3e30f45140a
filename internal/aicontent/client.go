// Package aicontent turns storefront requests into generative AI calls: product
// descriptions, grounded news search and dream gadget concept images.
//
// Description and search failures are reported inside the returned text and
// never as errors. Image generation retries transient failures with
// exponential backoff and returns an error when it finally gives up.
package aicontent

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"techno-mart-ai/internal/gemini"
	"techno-mart-ai/internal/metrics"
)

const (
	DefaultImageRetries = 2
	DefaultImageBackoff = 1000 * time.Millisecond
	DefaultBatchLimit   = 4
)

const (
	imageMIMEType = "image/jpeg"

	operationDescription = "description"
	operationSearch      = "search"
	operationImage       = "image"
)

// Provider is the generative AI backend. *gemini.Client implements it.
type Provider interface {
	GenerateText(ctx context.Context, req gemini.TextRequest) (*gemini.TextResponse, error)
	GenerateImages(ctx context.Context, req gemini.ImagesRequest) (*gemini.ImagesResponse, error)
}

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

type Options struct {
	// APIKey is only checked for presence; a blank key disables the client.
	APIKey   string
	Provider Provider

	Logger  *slog.Logger
	Metrics *metrics.Recorder

	// ImageRetries is the number of retries after the first image attempt.
	// Zero selects DefaultImageRetries; a negative value disables retries.
	ImageRetries int
	ImageBackoff time.Duration
	BatchLimit   int

	Sleep SleepFunc
}

// Client is safe for concurrent use; it holds only immutable configuration.
type Client struct {
	provider Provider
	enabled  bool

	logger  *slog.Logger
	metrics *metrics.Recorder

	retries    int
	backoff    time.Duration
	batchLimit int

	sleep SleepFunc
}

func New(opts Options) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	retries := opts.ImageRetries
	switch {
	case retries == 0:
		retries = DefaultImageRetries
	case retries < 0:
		retries = 0
	}

	backoff := opts.ImageBackoff
	if backoff <= 0 {
		backoff = DefaultImageBackoff
	}

	batchLimit := opts.BatchLimit
	if batchLimit < 1 {
		batchLimit = DefaultBatchLimit
	}

	sleep := opts.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	enabled := strings.TrimSpace(opts.APIKey) != "" && opts.Provider != nil
	if !enabled {
		logger.Warn("AI content client disabled: no API key configured")
	}

	return &Client{
		provider: opts.Provider,
		enabled:  enabled,

		logger:  logger,
		metrics: opts.Metrics,

		retries:    retries,
		backoff:    backoff,
		batchLimit: batchLimit,

		sleep: sleep,
	}
}

// Enabled reports whether the client has a provider to call.
func (c *Client) Enabled() bool {
	return c.enabled
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
