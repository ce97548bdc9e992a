package engine

// State identifies a position in the turn-processing state machine. The four
// phase states advance strictly forward into one of the two terminal states;
// there is no phase skipping and no backward transition. A phase completed
// via fallback still advances the state.
type State int

const (
	// StateAnalysis is the first phase: classify the player's action.
	StateAnalysis State = iota
	// StateJudgment resolves mechanical checks and their consequences.
	StateJudgment
	// StateNarrative generates the player-facing story text.
	StateNarrative
	// StateStateUpdate folds the turn's effects into the scene.
	StateStateUpdate
	// StateCompleted is the successful terminal state.
	StateCompleted
	// StateFailed is the terminal state for a turn no fallback could save.
	StateFailed
)

// String returns the state's name.
func (s State) String() string {
	switch s {
	case StateAnalysis:
		return "ANALYSIS"
	case StateJudgment:
		return "JUDGMENT"
	case StateNarrative:
		return "NARRATIVE"
	case StateStateUpdate:
		return "STATE_UPDATE"
	case StateCompleted:
		return "COMPLETED"
	case StateFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// Terminal reports whether s is one of the two terminal states.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}
