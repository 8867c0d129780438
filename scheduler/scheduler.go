package scheduler

import (
	"context"
	"time"
)

// Timer is a pending callback created by Scheduler.After.
type Timer interface {
	// Stop prevents the callback from running. It returns false if the
	// callback already ran or the timer was already stopped.
	Stop() bool
}

// Scheduler runs callbacks serially on a single logical goroutine.
type Scheduler interface {
	// Now returns the scheduler's current time.
	Now() time.Time
	// After runs fn on the scheduler goroutine once d has elapsed.
	After(d time.Duration, fn func()) Timer
	// Post enqueues fn onto the scheduler goroutine. Safe to call from any goroutine.
	Post(fn func())
	// Call runs fn on the scheduler goroutine and waits for it to return.
	// It must not be called from the scheduler goroutine itself.
	Call(ctx context.Context, fn func()) error
}

// StopTimer stops t if it is non-nil. Convenience for optional timers.
func StopTimer(t Timer) {
	if t != nil {
		t.Stop()
	}
}
