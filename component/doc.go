// Package component defines the lifecycle interface shared by the
// long-lived parts of searchlab (the scheduler loop, the search pipeline,
// telemetry exporters) and a registry that starts them in order and stops
// them in reverse.
package component
