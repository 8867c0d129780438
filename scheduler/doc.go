// Package scheduler provides the single-threaded run loop the search
// pipeline executes on.
//
// Every pipeline callback (debounce expiry, retry delay, lookup settlement)
// runs on one goroutine, one at a time, so pipeline state needs no locks.
// Work produced on other goroutines, such as a provider call returning, is
// handed back with Post. Timers created with After are cancellable; a
// stopped timer never runs its callback even if the clock already fired.
//
// Loop is the production implementation. The schedulertest package offers
// a virtual clock for deterministic tests.
package scheduler
