package resilience

import (
	"github.com/kbukum/searchlab/scheduler"
)

// Attempt starts one asynchronous try. It must call report exactly once,
// on the scheduler goroutine, with the attempt's outcome.
type Attempt func(attempt int, report func(err error))

// Retrier drives an Attempt through a RetryConfig on a scheduler. All
// methods and callbacks run on the scheduler goroutine.
type Retrier struct {
	sched   scheduler.Scheduler
	cfg     RetryConfig
	try     Attempt
	settle  func(attempts int, err error)
	attempt int
	timer   scheduler.Timer
	done    bool
}

// NewRetrier prepares a retrier. settle receives the number of attempts made
// and nil on success or the last error on exhaustion.
func NewRetrier(sched scheduler.Scheduler, cfg RetryConfig, try Attempt, settle func(attempts int, err error)) *Retrier {
	return &Retrier{
		sched:  sched,
		cfg:    cfg.withDefaults(),
		try:    try,
		settle: settle,
	}
}

// Start runs the first attempt.
func (r *Retrier) Start() {
	r.next()
}

// Attempts returns how many attempts have been started.
func (r *Retrier) Attempts() int { return r.attempt }

// Waiting reports whether a retry delay is pending.
func (r *Retrier) Waiting() bool { return r.timer != nil }

// Cancel abandons the retrier: the pending delay is stopped and late
// reports are ignored. settle is not called.
func (r *Retrier) Cancel() {
	r.done = true
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

func (r *Retrier) next() {
	r.timer = nil
	r.attempt++
	n := r.attempt
	r.try(n, func(err error) {
		if r.done || n != r.attempt || r.timer != nil {
			return
		}
		r.report(err)
	})
}

func (r *Retrier) report(err error) {
	if err == nil || !r.cfg.RetryIf(err) || r.attempt >= r.cfg.MaxAttempts {
		r.done = true
		r.settle(r.attempt, err)
		return
	}

	backoff := Backoff(r.attempt, r.cfg)
	if r.cfg.OnRetry != nil {
		r.cfg.OnRetry(r.attempt, err, backoff)
	}
	r.timer = r.sched.After(backoff, r.next)
}
