// Package resilience holds the retry policy used for lookup provider calls.
//
// Two executors share one RetryConfig:
//
//   - Retry blocks the calling goroutine between attempts. Use it for
//     one-shot lookups outside the run loop (the CLI's -query mode).
//   - Retrier schedules attempts and delays on a scheduler.Scheduler, so the
//     search pipeline can retry without blocking its loop and can cancel a
//     pending retry timer together with the lookup it belongs to.
//
// The search pipeline uses a fixed policy of three attempts 500ms apart:
//
//	cfg := resilience.FixedRetryConfig(3, 500*time.Millisecond)
package resilience
