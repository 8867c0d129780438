package strategy

import (
	"fmt"
	"strings"

	"github.com/kbukum/searchlab/errors"
)

// Kind names a strategy variant.
type Kind string

const (
	KindCancelLatest    Kind = "cancel-latest"
	KindQueueSequential Kind = "queue-sequential"
	KindParallelMerge   Kind = "parallel-merge"
	KindIgnoreWhileBusy Kind = "ignore-while-busy"
)

// Default is the strategy a live search box should use.
const Default = KindCancelLatest

var aliases = map[string]Kind{
	"switch":  KindCancelLatest,
	"concat":  KindQueueSequential,
	"merge":   KindParallelMerge,
	"exhaust": KindIgnoreWhileBusy,
}

// Kinds lists every supported variant in a stable order.
func Kinds() []Kind {
	return []Kind{KindCancelLatest, KindQueueSequential, KindParallelMerge, KindIgnoreWhileBusy}
}

// ParseKind resolves a strategy name or alias. The empty string selects Default.
func ParseKind(name string) (Kind, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return Default, nil
	}
	if k, ok := aliases[n]; ok {
		return k, nil
	}
	for _, k := range Kinds() {
		if string(k) == n {
			return k, nil
		}
	}
	return "", errors.InvalidInput("strategy", fmt.Sprintf("unknown strategy %q", name))
}

func (k Kind) String() string { return string(k) }

// Task starts one unit of work. The task must call done exactly once when
// it settles, unless it is cancelled first. The returned cancel function is
// called at most once, and only while the task is running.
type Task func(done func()) (cancel func())

// Strategy is the concurrency policy for issued tasks.
type Strategy interface {
	// Name returns the variant.
	Name() Kind
	// Issue hands a task to the strategy, which may start, queue or drop it.
	Issue(task Task) *Ticket
	// Busy reports whether any task is running or waiting.
	Busy() bool
	// CancelAll cancels every running task and discards waiting ones.
	CancelAll()
}

// New returns a fresh strategy of the given kind.
func New(kind Kind) (Strategy, error) {
	switch kind {
	case KindCancelLatest, "":
		return NewCancelLatest(), nil
	case KindQueueSequential:
		return NewQueueSequential(), nil
	case KindParallelMerge:
		return NewParallelMerge(), nil
	case KindIgnoreWhileBusy:
		return NewIgnoreWhileBusy(), nil
	default:
		return nil, errors.InvalidInput("strategy", fmt.Sprintf("unknown strategy %q", kind))
	}
}
