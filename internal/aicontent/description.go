package aicontent

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"techno-mart-ai/internal/gemini"
	"techno-mart-ai/internal/metrics"
	"techno-mart-ai/internal/prompt"
)

const descriptionDisabledText = "AI service is not initialized. Please check API Key configuration."

type DescriptionRequest struct {
	ProductName string
	Keywords    []string
}

type DescriptionResult struct {
	Text string
}

// GenerateDescription writes a short product description. Failures come back
// as explanatory text and are logged, never returned as errors.
func (c *Client) GenerateDescription(ctx context.Context, productName string, keywords []string) DescriptionResult {
	if !c.enabled {
		c.metrics.ObserveOperation(operationDescription, metrics.OutcomeDisabled, 0)
		return DescriptionResult{Text: descriptionDisabledText}
	}

	start := time.Now()

	resp, err := c.provider.GenerateText(ctx, gemini.TextRequest{
		SystemInstruction: prompt.SystemInstruction,
		Prompt:            prompt.Description(productName, keywords),
	})
	if err != nil {
		c.logger.Error("generate product description failed", "product", productName, "err", err)
		c.metrics.ObserveOperation(operationDescription, metrics.OutcomeFailed, time.Since(start))
		return DescriptionResult{
			Text: fmt.Sprintf("Failed to generate AI description for %s. Error: %s", productName, errorMessage(err)),
		}
	}

	c.metrics.ObserveOperation(operationDescription, metrics.OutcomeSuccess, time.Since(start))

	var text string
	if resp != nil {
		text = resp.Text
	}
	return DescriptionResult{Text: text}
}

// GenerateDescriptions runs GenerateDescription for every request with bounded
// concurrency. Results keep the order of reqs.
func (c *Client) GenerateDescriptions(ctx context.Context, reqs []DescriptionRequest) []DescriptionResult {
	results := make([]DescriptionResult, len(reqs))

	var eg errgroup.Group
	eg.SetLimit(c.batchLimit)

	for i, req := range reqs {
		eg.Go(func() error {
			results[i] = c.GenerateDescription(ctx, req.ProductName, req.Keywords)
			return nil
		})
	}

	_ = eg.Wait()
	return results
}
