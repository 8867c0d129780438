package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kbukum/searchlab/component"
)

func startLoop(t *testing.T) *Loop {
	t.Helper()
	l := NewLoop(16, nil)
	if err := l.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(func() { _ = l.Stop(context.Background()) })
	return l
}

func TestLoop_PostRunsInOrder(t *testing.T) {
	l := startLoop(t)
	var got []int
	for i := range 5 {
		l.Post(func() { got = append(got, i) })
	}
	if err := l.Call(context.Background(), func() {}); err != nil {
		t.Fatal(err)
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("callbacks out of order: %v", got)
		}
	}
	if len(got) != 5 {
		t.Fatalf("expected 5 callbacks, got %d", len(got))
	}
}

func TestLoop_AfterFires(t *testing.T) {
	l := startLoop(t)
	fired := make(chan struct{})
	l.After(10*time.Millisecond, func() { close(fired) })
	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}
}

func TestLoop_StoppedTimerSuppressed(t *testing.T) {
	l := startLoop(t)
	fired := make(chan struct{}, 1)
	tm := l.After(20*time.Millisecond, func() { fired <- struct{}{} })
	if !tm.Stop() {
		t.Fatal("expected Stop to report true")
	}
	select {
	case <-fired:
		t.Fatal("stopped timer fired")
	case <-time.After(60 * time.Millisecond):
	}
}

func TestLoop_StopDropsLateWork(t *testing.T) {
	l := NewLoop(4, nil)
	if err := l.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	fired := make(chan struct{}, 1)
	l.After(20*time.Millisecond, func() { fired <- struct{}{} })
	if err := l.Stop(context.Background()); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	select {
	case <-fired:
		t.Fatal("timer fired after stop")
	case <-time.After(60 * time.Millisecond):
	}

	err := l.Call(context.Background(), func() {})
	if !errors.Is(err, ErrLoopStopped) {
		t.Errorf("expected ErrLoopStopped, got %v", err)
	}
	if err := l.Start(context.Background()); !errors.Is(err, ErrLoopStopped) {
		t.Errorf("expected restart to fail, got %v", err)
	}
}

func TestLoop_RecoversFromPanic(t *testing.T) {
	l := startLoop(t)
	l.Post(func() { panic("boom") })
	ran := false
	if err := l.Call(context.Background(), func() { ran = true }); err != nil {
		t.Fatal(err)
	}
	if !ran {
		t.Error("loop did not survive a panicking callback")
	}
}

func TestLoop_Health(t *testing.T) {
	l := NewLoop(1, nil)
	if h := l.Health(context.Background()); h.Status != component.StatusDegraded {
		t.Errorf("expected degraded before start, got %s", h.Status)
	}
	_ = l.Start(context.Background())
	if h := l.Health(context.Background()); h.Status != component.StatusHealthy {
		t.Errorf("expected healthy, got %s", h.Status)
	}
	_ = l.Stop(context.Background())
	if h := l.Health(context.Background()); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy after stop, got %s", h.Status)
	}
}

func TestLoop_DoubleStart(t *testing.T) {
	l := startLoop(t)
	if err := l.Start(context.Background()); err == nil {
		t.Error("expected error on second Start")
	}
}
