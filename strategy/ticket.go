package strategy

type ticketState int

const (
	ticketQueued ticketState = iota
	ticketRunning
	ticketDone
	ticketCancelled
	ticketDropped
)

// Ticket is the handle returned by Strategy.Issue.
type Ticket struct {
	id     uint64
	task   Task
	state  ticketState
	cancel func()
	owner  *tracker
}

// ID is unique per strategy instance and increases with issue order.
func (t *Ticket) ID() uint64 { return t.id }

// Dropped reports whether the strategy refused to run the task.
func (t *Ticket) Dropped() bool { return t.state == ticketDropped }

// Running reports whether the task has started and not yet settled.
func (t *Ticket) Running() bool { return t.state == ticketRunning }

// Queued reports whether the task is waiting for its turn.
func (t *Ticket) Queued() bool { return t.state == ticketQueued }

// Done reports whether the task settled by calling done.
func (t *Ticket) Done() bool { return t.state == ticketDone }

// Cancelled reports whether the task was cancelled before it settled.
func (t *Ticket) Cancelled() bool { return t.state == ticketCancelled }

// Cancel cancels a running task or removes a queued one. It is a no-op for
// tasks that already settled or were dropped.
func (t *Ticket) Cancel() {
	switch t.state {
	case ticketRunning:
		t.owner.finish(t, ticketCancelled)
	case ticketQueued:
		t.state = ticketCancelled
		if t.owner.unqueue != nil {
			t.owner.unqueue(t)
		}
	}
}

// tracker holds the bookkeeping shared by every variant.
type tracker struct {
	seq     uint64
	running []*Ticket
	// released runs after a running ticket settles or is cancelled.
	released func()
	// unqueue removes a queued ticket.
	unqueue func(*Ticket)
}

func (tr *tracker) newTicket(task Task) *Ticket {
	tr.seq++
	return &Ticket{id: tr.seq, task: task, state: ticketQueued, owner: tr}
}

func (tr *tracker) start(t *Ticket) {
	t.state = ticketRunning
	tr.running = append(tr.running, t)
	cancel := t.task(func() { tr.finish(t, ticketDone) })
	t.cancel = cancel
	// Cancelled from inside its own start: cancel now that the hook exists.
	if t.state == ticketCancelled && cancel != nil {
		cancel()
	}
}

func (tr *tracker) finish(t *Ticket, state ticketState) {
	if t.state != ticketRunning {
		return
	}
	t.state = state
	for i, r := range tr.running {
		if r == t {
			tr.running = append(tr.running[:i], tr.running[i+1:]...)
			break
		}
	}
	if state == ticketCancelled && t.cancel != nil {
		t.cancel()
	}
	if tr.released != nil {
		tr.released()
	}
}

func (tr *tracker) busy() bool { return len(tr.running) > 0 }

func (tr *tracker) cancelRunning() {
	running := append([]*Ticket(nil), tr.running...)
	for _, t := range running {
		t.Cancel()
	}
}
