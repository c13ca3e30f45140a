package aicontent

import (
	"context"
	"fmt"
	"time"

	"techno-mart-ai/internal/gemini"
	"techno-mart-ai/internal/metrics"
)

const searchDisabledText = "AI service is not initialized for search."

type SourceRef struct {
	URI   string
	Title string
}

// SearchResult.Sources is never nil.
type SearchResult struct {
	Text    string
	Sources []SourceRef
}

// SearchRecentEvents answers query with the web search tool enabled and
// returns the web citations of the first candidate.
func (c *Client) SearchRecentEvents(ctx context.Context, query string) SearchResult {
	if !c.enabled {
		c.metrics.ObserveOperation(operationSearch, metrics.OutcomeDisabled, 0)
		return SearchResult{Text: searchDisabledText, Sources: []SourceRef{}}
	}

	start := time.Now()

	resp, err := c.provider.GenerateText(ctx, gemini.TextRequest{
		Prompt:       query,
		GoogleSearch: true,
	})
	if err != nil {
		c.logger.Error("search recent events failed", "query", query, "err", err)
		c.metrics.ObserveOperation(operationSearch, metrics.OutcomeFailed, time.Since(start))
		return SearchResult{
			Text:    fmt.Sprintf("Failed to search: %s", errorMessage(err)),
			Sources: []SourceRef{},
		}
	}

	c.metrics.ObserveOperation(operationSearch, metrics.OutcomeSuccess, time.Since(start))

	if resp == nil {
		return SearchResult{Sources: []SourceRef{}}
	}

	return SearchResult{
		Text:    resp.Text,
		Sources: webSources(resp),
	}
}

func webSources(resp *gemini.TextResponse) []SourceRef {
	sources := []SourceRef{}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Grounding == nil {
		return sources
	}

	for _, chunk := range resp.Candidates[0].Grounding.Chunks {
		if chunk.Web == nil {
			continue
		}
		sources = append(sources, SourceRef{URI: chunk.Web.URI, Title: chunk.Web.Title})
	}
	return sources
}
