package aicontent

import (
	"context"
	"fmt"
	"time"

	"github.com/vincent-petithory/dataurl"

	"techno-mart-ai/internal/gemini"
	"techno-mart-ai/internal/metrics"
)

type ImageResult struct {
	DataURI string
}

type ImageOption func(*imageOptions)

type imageOptions struct {
	retries int
	backoff time.Duration
}

// WithRetries overrides the retry budget for one call. Zero means a single
// attempt.
func WithRetries(n int) ImageOption {
	return func(o *imageOptions) {
		if n < 0 {
			n = 0
		}
		o.retries = n
	}
}

// WithBackoff overrides the delay before the first retry. Later retries
// double it.
func WithBackoff(d time.Duration) ImageOption {
	return func(o *imageOptions) {
		if d > 0 {
			o.backoff = d
		}
	}
}

// GenerateDreamGadgetImage renders one JPEG concept image for prompt and
// returns it as a base64 data URI.
//
// Attempts that fail with a retriable error are repeated while the retry
// budget lasts, waiting the backoff delay between attempts and doubling it
// each time. Any other failure, or running out of budget, ends the call with
// an *ImageGenerationError.
func (c *Client) GenerateDreamGadgetImage(ctx context.Context, prompt string, opts ...ImageOption) (*ImageResult, error) {
	if !c.enabled {
		c.metrics.ObserveOperation(operationImage, metrics.OutcomeDisabled, 0)
		return nil, ErrServiceUnavailable
	}

	o := imageOptions{retries: c.retries, backoff: c.backoff}
	for _, opt := range opts {
		opt(&o)
	}

	start := time.Now()
	total := o.retries + 1
	retries := o.retries
	delay := o.backoff

	for attempt := 1; ; attempt++ {
		result, err := c.generateImage(ctx, prompt)
		if err == nil {
			c.metrics.ObserveImageAttempt(metrics.AttemptSuccess)
			c.metrics.ObserveOperation(operationImage, metrics.OutcomeSuccess, time.Since(start))
			return result, nil
		}

		c.logger.Error("generate image attempt failed", "attempt", attempt, "max_attempts", total, "err", err)

		if retries > 0 && IsRetriable(err) {
			c.metrics.ObserveImageAttempt(metrics.AttemptRetry)
			c.logger.Info("retrying image generation", "delay", delay, "retries_left", retries)

			if sleepErr := c.sleep(ctx, delay); sleepErr != nil {
				err = fmt.Errorf("%w (retry aborted: %w)", err, sleepErr)
				return nil, c.failImage(start, attempt, err)
			}

			retries--
			delay *= 2
			continue
		}

		return nil, c.failImage(start, attempt, err)
	}
}

func (c *Client) generateImage(ctx context.Context, prompt string) (*ImageResult, error) {
	resp, err := c.provider.GenerateImages(ctx, gemini.ImagesRequest{
		Prompt:         prompt,
		NumberOfImages: 1,
		MIMEType:       imageMIMEType,
	})
	if err != nil {
		return nil, err
	}

	if resp == nil || len(resp.Images) == 0 || len(resp.Images[0].Bytes) == 0 {
		return nil, ErrEmptyResponse
	}

	return &ImageResult{
		DataURI: dataurl.New(resp.Images[0].Bytes, imageMIMEType).String(),
	}, nil
}

func (c *Client) failImage(start time.Time, attempts int, err error) error {
	c.metrics.ObserveImageAttempt(metrics.AttemptFailed)
	c.metrics.ObserveOperation(operationImage, metrics.OutcomeFailed, time.Since(start))

	final := &ImageGenerationError{Attempts: attempts, Err: err}
	c.logger.Error(final.Error(), "err", err)
	return final
}
