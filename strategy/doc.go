// Package strategy decides what happens when a new lookup is issued while
// earlier ones are still running.
//
// Four interchangeable variants share the Strategy interface:
//
//   - CancelLatest (alias "switch"): a new task cancels the running one.
//   - QueueSequential (alias "concat"): tasks run one at a time in issue order.
//   - ParallelMerge (alias "merge"): every task starts immediately.
//   - IgnoreWhileBusy (alias "exhaust"): a new task is dropped while one runs.
//
// Strategies are not goroutine-safe. They are driven from the scheduler
// goroutine that owns the search pipeline.
package strategy
