package strategy

// CancelLatest cancels the running task whenever a new one is issued, so
// only the newest task can settle.
type CancelLatest struct{ tr tracker }

// NewCancelLatest returns the switch strategy.
func NewCancelLatest() *CancelLatest { return &CancelLatest{} }

func (s *CancelLatest) Name() Kind { return KindCancelLatest }

func (s *CancelLatest) Issue(task Task) *Ticket {
	s.tr.cancelRunning()
	t := s.tr.newTicket(task)
	s.tr.start(t)
	return t
}

func (s *CancelLatest) Busy() bool { return s.tr.busy() }

func (s *CancelLatest) CancelAll() { s.tr.cancelRunning() }

// QueueSequential runs tasks strictly one at a time in issue order.
type QueueSequential struct {
	tr    tracker
	queue []*Ticket
}

// NewQueueSequential returns the concat strategy.
func NewQueueSequential() *QueueSequential {
	s := &QueueSequential{}
	s.tr.released = s.startNext
	s.tr.unqueue = s.remove
	return s
}

func (s *QueueSequential) Name() Kind { return KindQueueSequential }

func (s *QueueSequential) Issue(task Task) *Ticket {
	t := s.tr.newTicket(task)
	s.queue = append(s.queue, t)
	s.startNext()
	return t
}

// Busy reports whether a task is running or queued.
func (s *QueueSequential) Busy() bool { return s.tr.busy() || len(s.queue) > 0 }

// Pending returns the number of queued tasks.
func (s *QueueSequential) Pending() int { return len(s.queue) }

func (s *QueueSequential) CancelAll() {
	for _, t := range s.queue {
		t.state = ticketCancelled
	}
	s.queue = nil
	s.tr.cancelRunning()
}

func (s *QueueSequential) startNext() {
	if s.tr.busy() || len(s.queue) == 0 {
		return
	}
	t := s.queue[0]
	s.queue = s.queue[1:]
	s.tr.start(t)
}

func (s *QueueSequential) remove(t *Ticket) {
	for i, q := range s.queue {
		if q == t {
			s.queue = append(s.queue[:i], s.queue[i+1:]...)
			return
		}
	}
}

// ParallelMerge starts every task immediately. Settlements arrive in
// completion order, so an older task can overwrite a newer one's result.
type ParallelMerge struct{ tr tracker }

// NewParallelMerge returns the merge strategy.
func NewParallelMerge() *ParallelMerge { return &ParallelMerge{} }

func (s *ParallelMerge) Name() Kind { return KindParallelMerge }

func (s *ParallelMerge) Issue(task Task) *Ticket {
	t := s.tr.newTicket(task)
	s.tr.start(t)
	return t
}

func (s *ParallelMerge) Busy() bool { return s.tr.busy() }

// Running returns the number of tasks in flight.
func (s *ParallelMerge) Running() int { return len(s.tr.running) }

func (s *ParallelMerge) CancelAll() { s.tr.cancelRunning() }

// IgnoreWhileBusy drops new tasks while one is running.
type IgnoreWhileBusy struct{ tr tracker }

// NewIgnoreWhileBusy returns the exhaust strategy.
func NewIgnoreWhileBusy() *IgnoreWhileBusy { return &IgnoreWhileBusy{} }

func (s *IgnoreWhileBusy) Name() Kind { return KindIgnoreWhileBusy }

func (s *IgnoreWhileBusy) Issue(task Task) *Ticket {
	t := s.tr.newTicket(task)
	if s.tr.busy() {
		t.state = ticketDropped
		return t
	}
	s.tr.start(t)
	return t
}

func (s *IgnoreWhileBusy) Busy() bool { return s.tr.busy() }

func (s *IgnoreWhileBusy) CancelAll() { s.tr.cancelRunning() }
