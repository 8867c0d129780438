// Package observability provides OpenTelemetry tracing and metrics for the
// search pipeline and its lookup providers.
//
// Exporters are opt-in. Until InitTracer or InitMeter runs, spans and
// instruments use the global no-op providers:
//
//	tel := observability.NewTelemetry(cfg, "searchlab", version.Short(), "development")
//	registry.Register(tel)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanLookup)
//	defer span.End()
//
// Pipeline metrics:
//
//	m, err := observability.NewPipelineMetrics(observability.Meter("searchlab"))
//	m.LookupIssued(ctx, "cancel-latest")
package observability
