package pipeline

// Phase is the coarse state of the pipeline.
type Phase int

const (
	// PhaseIdle: no usable term.
	PhaseIdle Phase = iota
	// PhaseDebouncing: a query waits for the quiet period.
	PhaseDebouncing
	// PhaseLoading: at least one lookup is in flight.
	PhaseLoading
	// PhaseSettled: the last lookup settled and nothing is pending.
	PhaseSettled
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDebouncing:
		return "debouncing"
	case PhaseLoading:
		return "loading"
	case PhaseSettled:
		return "settled"
	default:
		return "unknown"
	}
}
