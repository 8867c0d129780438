// Package provider defines the request/response provider contract used for
// lookups, plus composable middleware.
//
// A lookup backend implements RequestResponse. Cross-cutting behavior is
// layered with Chain; the first middleware is outermost:
//
//	lookup := provider.Chain(
//	    provider.WithLogging[search.LookupRequest, search.PagedResult](log),
//	    provider.WithTracing[search.LookupRequest, search.PagedResult]("searchlab"),
//	    provider.WithMetrics[search.LookupRequest, search.PagedResult](metrics),
//	)(catalog.NewProvider(cfg))
//
// WithRetry runs every call through resilience.Retry. It blocks between
// attempts, so use it only where blocking is acceptable; the search pipeline
// retries on its scheduler instead.
package provider
