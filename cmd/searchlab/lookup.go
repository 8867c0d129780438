package main

import (
	"github.com/kbukum/searchlab/catalog"
	"github.com/kbukum/searchlab/logger"
	"github.com/kbukum/searchlab/observability"
	"github.com/kbukum/searchlab/pipeline"
	"github.com/kbukum/searchlab/provider"
	"github.com/kbukum/searchlab/search"
)

// newLookup wraps the simulated catalog with logging, tracing and metrics.
// Middlewares added by the caller run outside the instrumentation, so a
// retrying wrapper produces one span and one log line per attempt.
func newLookup(cfg catalog.Config, log *logger.Logger, outer ...provider.Middleware[search.LookupRequest, search.PagedResult]) (pipeline.Lookup, error) {
	metrics, err := observability.NewMetrics(observability.Meter("github.com/kbukum/searchlab/catalog"))
	if err != nil {
		return nil, err
	}
	chain := append(outer,
		provider.WithLogging[search.LookupRequest, search.PagedResult](log.WithComponent("lookup")),
		provider.WithTracing[search.LookupRequest, search.PagedResult](serviceName),
		provider.WithMetrics[search.LookupRequest, search.PagedResult](metrics),
	)
	return provider.Chain(chain...)(catalog.NewProvider(cfg)), nil
}
