package pipeline

import (
	"github.com/kbukum/searchlab/logger"
	"github.com/kbukum/searchlab/observability"
	"github.com/kbukum/searchlab/strategy"
)

// Option configures a Pipeline.
type Option func(*options)

type options struct {
	cfg      Config
	strategy strategy.Strategy
	log      *logger.Logger
	metrics  *observability.PipelineMetrics
}

// WithConfig replaces the default configuration.
func WithConfig(cfg Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithStrategy sets the concurrency strategy, overriding Config.Strategy.
func WithStrategy(s strategy.Strategy) Option {
	return func(o *options) { o.strategy = s }
}

// WithLogger sets the logger. The default discards output.
func WithLogger(log *logger.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithMetrics sets the metric instruments. The default records on the
// global meter provider.
func WithMetrics(m *observability.PipelineMetrics) Option {
	return func(o *options) { o.metrics = m }
}
