package engine

// Event describes one lifecycle notification emitted while a turn runs:
// a phase attempt starting (Attempt >= 1, Err nil), a fallback being taken
// (Attempt 0, Err set), or a terminal transition (State COMPLETED/FAILED).
type Event struct {
	State   State
	Phase   string
	Attempt int
	Err     error
}

// Hook receives lifecycle events. Hooks run synchronously on the turn's
// goroutine and must be fast; they are meant for instrumentation, not flow
// control.
type Hook func(Event)

func (e *Engine) notify(state State, phaseName string, attempt int, err error) {
	if len(e.hooks) == 0 {
		return
	}
	ev := Event{State: state, Phase: phaseName, Attempt: attempt, Err: err}
	for _, hook := range e.hooks {
		hook(ev)
	}
}
