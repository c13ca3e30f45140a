package limiter

import (
	"context"

	"golang.org/x/time/rate"

	"techno-mart-ai/internal/aicontent"
	"techno-mart-ai/internal/gemini"
)

var _ aicontent.Provider = (*limitedProvider)(nil)

type limitedProvider struct {
	limiter  *rate.Limiter
	provider aicontent.Provider
}

// New throttles every call to p through l. A nil limiter passes calls
// straight through.
func New(l *rate.Limiter, p aicontent.Provider) aicontent.Provider {
	return &limitedProvider{
		limiter:  l,
		provider: p,
	}
}

// FromConfig builds a limiter for perSecond requests with the given burst.
// It returns nil when perSecond is not positive.
func FromConfig(perSecond float64, burst int) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

func (p *limitedProvider) GenerateText(ctx context.Context, req gemini.TextRequest) (*gemini.TextResponse, error) {
	if err := p.wait(ctx); err != nil {
		return nil, err
	}
	return p.provider.GenerateText(ctx, req)
}

func (p *limitedProvider) GenerateImages(ctx context.Context, req gemini.ImagesRequest) (*gemini.ImagesResponse, error) {
	if err := p.wait(ctx); err != nil {
		return nil, err
	}
	return p.provider.GenerateImages(ctx, req)
}

func (p *limitedProvider) wait(ctx context.Context) error {
	if p.limiter == nil {
		return nil
	}
	return p.limiter.Wait(ctx)
}
