package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kbukum/searchlab/component"
	"github.com/kbukum/searchlab/logger"
)

// ErrLoopStopped is returned by Call once the loop has been stopped.
var ErrLoopStopped = errors.New("scheduler loop stopped")

// Loop is a Scheduler backed by a single goroutine draining a FIFO queue.
type Loop struct {
	name    string
	queue   chan func()
	done    chan struct{}
	exited  chan struct{}
	log     *logger.Logger
	started atomic.Bool
	stopped atomic.Bool
	once    sync.Once
}

// NewLoop creates a loop whose queue holds up to size pending callbacks.
// Post blocks while the queue is full.
func NewLoop(size int, log *logger.Logger) *Loop {
	if size <= 0 {
		size = 256
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Loop{
		name:   "scheduler",
		queue:  make(chan func(), size),
		done:   make(chan struct{}),
		exited: make(chan struct{}),
		log:    log.WithComponent("scheduler"),
	}
}

// Name returns the component name.
func (l *Loop) Name() string { return l.name }

// Start launches the loop goroutine.
func (l *Loop) Start(_ context.Context) error {
	if l.stopped.Load() {
		return ErrLoopStopped
	}
	if !l.started.CompareAndSwap(false, true) {
		return fmt.Errorf("%s already started", l.name)
	}
	go l.run()
	l.log.Debug("loop started")
	return nil
}

// Stop terminates the loop. Callbacks still queued are dropped, and
// timers that fire afterwards are ignored.
func (l *Loop) Stop(ctx context.Context) error {
	l.once.Do(func() {
		l.stopped.Store(true)
		close(l.done)
	})
	if !l.started.Load() {
		return nil
	}
	select {
	case <-l.exited:
		l.log.Debug("loop stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Health reports whether the loop is accepting work.
func (l *Loop) Health(_ context.Context) component.Health {
	h := component.Health{Name: l.name, Status: component.StatusHealthy}
	switch {
	case l.stopped.Load():
		h.Status = component.StatusUnhealthy
		h.Message = "stopped"
	case !l.started.Load():
		h.Status = component.StatusDegraded
		h.Message = "not started"
	}
	return h
}

func (l *Loop) run() {
	defer close(l.exited)
	for {
		select {
		case <-l.done:
			return
		case fn := <-l.queue:
			l.invoke(fn)
		}
	}
}

func (l *Loop) invoke(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Error("callback panicked", logger.Fields("panic", fmt.Sprint(r)))
		}
	}()
	fn()
}

// Now returns the wall clock.
func (l *Loop) Now() time.Time { return time.Now() }

// Post enqueues fn. It is a no-op once the loop is stopped.
func (l *Loop) Post(fn func()) {
	if l.stopped.Load() {
		return
	}
	select {
	case l.queue <- fn:
	case <-l.done:
	}
}

// Call runs fn on the loop and waits for it.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	if l.stopped.Load() {
		return ErrLoopStopped
	}
	finished := make(chan struct{})
	l.Post(func() {
		defer close(finished)
		fn()
	})
	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// After schedules fn on the loop after d.
func (l *Loop) After(d time.Duration, fn func()) Timer {
	t := &loopTimer{}
	t.timer = time.AfterFunc(d, func() {
		l.Post(func() {
			if t.stopped.CompareAndSwap(false, true) {
				fn()
			}
		})
	})
	return t
}

type loopTimer struct {
	timer   *time.Timer
	stopped atomic.Bool
}

// Stop marks the timer as done. The flag is checked on the loop right
// before the callback runs, so a timer whose clock already fired but whose
// callback is still queued is suppressed too.
func (t *loopTimer) Stop() bool {
	if !t.stopped.CompareAndSwap(false, true) {
		return false
	}
	t.timer.Stop()
	return true
}
