package provider

import (
	"context"

	"github.com/kbukum/searchlab/resilience"
)

// WithRetry returns a Middleware that retries failed Execute calls with
// resilience.Retry. It blocks the caller between attempts.
func WithRetry[I, O any](cfg resilience.RetryConfig) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return &retryRR[I, O]{inner: inner, cfg: cfg}
	}
}

type retryRR[I, O any] struct {
	inner RequestResponse[I, O]
	cfg   resilience.RetryConfig
}

func (r *retryRR[I, O]) Name() string                         { return r.inner.Name() }
func (r *retryRR[I, O]) IsAvailable(ctx context.Context) bool { return r.inner.IsAvailable(ctx) }

func (r *retryRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	return resilience.Retry(ctx, r.cfg, func() (O, error) {
		return r.inner.Execute(ctx, input)
	})
}
