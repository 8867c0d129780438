// Package search defines the value types shared by the query source, the
// search pipeline and lookup providers: queries, catalog items, paged lookup
// results and the UI state snapshot the pipeline publishes.
//
// Everything here is a plain value. The client-side filter and pagination
// helpers are pure functions so that providers and the pipeline derive
// results the same way.
package search
