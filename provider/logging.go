package provider

import (
	"context"
	"errors"
	"time"

	"github.com/kbukum/searchlab/logger"
)

// WithLogging returns a Middleware that logs each Execute call.
// Logs: provider name, duration, and success/error status. Cancelled calls
// are logged at debug level since cancellation is not a failure.
func WithLogging[I, O any](log *logger.Logger) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return &loggingRR[I, O]{inner: inner, log: log}
	}
}

type loggingRR[I, O any] struct {
	inner RequestResponse[I, O]
	log   *logger.Logger
}

func (l *loggingRR[I, O]) Name() string                         { return l.inner.Name() }
func (l *loggingRR[I, O]) IsAvailable(ctx context.Context) bool { return l.inner.IsAvailable(ctx) }

func (l *loggingRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	start := time.Now()
	output, err := l.inner.Execute(ctx, input)
	duration := time.Since(start)

	fields := map[string]interface{}{
		logger.FieldProvider: l.inner.Name(),
		logger.FieldDuration: duration.Milliseconds(),
	}

	switch {
	case err == nil:
		l.log.Debug("provider execute ok", fields)
	case errors.Is(err, context.Canceled):
		l.log.Debug("provider execute cancelled", fields)
	default:
		fields[logger.FieldError] = err.Error()
		l.log.Warn("provider execute failed", fields)
	}

	return output, err
}
