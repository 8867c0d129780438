// Package pipeline implements the search-as-you-type state machine.
//
// A Pipeline consumes query.Source changes and publishes search.State
// snapshots. Every change is normalized, gated on a minimum term length,
// debounced, deduplicated on (term, page) and issued through a
// strategy.Strategy. Each issued lookup calls the provider on its own
// goroutine, retries failures on the scheduler and recovers exhausted
// failures to an empty result with a user-facing error. The client-side
// filter is re-applied to the last fetched page whenever the filter mode
// changes.
//
// All state lives on the scheduler goroutine. Provider results are posted
// back to it, so no locks guard the pipeline:
//
//	loop := scheduler.NewLoop(64, log)
//	src := query.NewSource()
//	p, err := pipeline.New(src, lookup, loop,
//	    pipeline.WithConfig(cfg),
//	    pipeline.WithLogger(log),
//	)
//	p.Subscribe(render)
//	err = p.Start(ctx)
//	loop.Post(func() { src.SetTerm("rxjs") })
//
// Phases move Idle -> Debouncing -> Loading -> Settled, and back to Idle
// whenever the term is cleared or too short.
package pipeline
