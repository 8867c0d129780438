// Package schedulertest provides a virtual-clock scheduler.Scheduler for
// deterministic tests of time-driven code.
//
// Time only moves when the test calls Advance. Callbacks posted from other
// goroutines are queued and run by Flush, Advance or RunPosted on the test
// goroutine, which plays the role of the run loop.
package schedulertest

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/kbukum/searchlab/scheduler"
)

// Epoch is the virtual time a new Scheduler starts at.
var Epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// DefaultWait bounds how long RunPosted waits for other goroutines.
const DefaultWait = 2 * time.Second

// Scheduler is a manually driven scheduler.Scheduler.
type Scheduler struct {
	mu     sync.Mutex
	now    time.Time
	seq    uint64
	timers []*timer
	posted chan func()
}

var _ scheduler.Scheduler = (*Scheduler)(nil)

// New returns a scheduler positioned at Epoch.
func New() *Scheduler {
	return &Scheduler{
		now:    Epoch,
		posted: make(chan func(), 1024),
	}
}

type timer struct {
	s       *Scheduler
	due     time.Time
	seq     uint64
	fn      func()
	stopped bool
}

func (t *timer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// Now returns the virtual time.
func (s *Scheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Elapsed returns the virtual time passed since Epoch.
func (s *Scheduler) Elapsed() time.Duration {
	return s.Now().Sub(Epoch)
}

// After registers fn to run once virtual time reaches now+d.
func (s *Scheduler) After(d time.Duration, fn func()) scheduler.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &timer{s: s, due: s.now.Add(d), seq: s.seq, fn: fn}
	s.timers = append(s.timers, t)
	return t
}

// Post queues fn to run on the test goroutine.
func (s *Scheduler) Post(fn func()) {
	s.posted <- fn
}

// Call runs fn inline; the test goroutine is the loop.
func (s *Scheduler) Call(_ context.Context, fn func()) error {
	fn()
	return nil
}

// Pending returns the number of live timers.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

// Flush runs every callback already posted, including ones posted by the
// callbacks it runs. It never blocks.
func (s *Scheduler) Flush() int {
	n := 0
	for {
		select {
		case fn := <-s.posted:
			fn()
			n++
		default:
			return n
		}
	}
}

// RunPosted waits until n callbacks have been posted and runs them,
// failing the test if they do not arrive within DefaultWait.
func (s *Scheduler) RunPosted(t testing.TB, n int) {
	t.Helper()
	deadline := time.NewTimer(DefaultWait)
	defer deadline.Stop()
	for i := 0; i < n; i++ {
		select {
		case fn := <-s.posted:
			fn()
		case <-deadline.C:
			t.Fatalf("schedulertest: waited for %d posted callbacks, got %d", n, i)
		}
	}
}

// Queued returns the number of posted callbacks waiting to run.
func (s *Scheduler) Queued() int {
	return len(s.posted)
}

// WaitQueued blocks until at least n callbacks are queued without running
// them, failing the test after DefaultWait. It lets a test hold a result
// that another goroutine already delivered while it changes the input.
func (s *Scheduler) WaitQueued(t testing.TB, n int) {
	t.Helper()
	deadline := time.Now().Add(DefaultWait)
	for len(s.posted) < n {
		if time.Now().After(deadline) {
			t.Fatalf("schedulertest: waited for %d queued callbacks, have %d", n, len(s.posted))
		}
		time.Sleep(time.Millisecond)
	}
}

// Advance moves virtual time forward by d, running due timers in due order
// (ties in creation order) and flushing posted callbacks between them.
func (s *Scheduler) Advance(d time.Duration) {
	s.Flush()
	s.mu.Lock()
	target := s.now.Add(d)
	s.mu.Unlock()

	for {
		t := s.nextDue(target)
		if t == nil {
			break
		}
		t.fn()
		s.Flush()
	}

	s.mu.Lock()
	s.now = target
	s.mu.Unlock()
	s.Flush()
}

// nextDue pops the earliest live timer due at or before target and moves
// the clock to its due time.
func (s *Scheduler) nextDue(target time.Time) *timer {
	s.mu.Lock()
	defer s.mu.Unlock()

	live := s.timers[:0]
	for _, t := range s.timers {
		if !t.stopped {
			live = append(live, t)
		}
	}
	s.timers = live
	if len(s.timers) == 0 {
		return nil
	}
	sort.SliceStable(s.timers, func(i, j int) bool {
		if s.timers[i].due.Equal(s.timers[j].due) {
			return s.timers[i].seq < s.timers[j].seq
		}
		return s.timers[i].due.Before(s.timers[j].due)
	})
	next := s.timers[0]
	if next.due.After(target) {
		return nil
	}
	s.timers = s.timers[1:]
	next.stopped = true
	if next.due.After(s.now) {
		s.now = next.due
	}
	return next
}
