package core

// ActionType classifies the player's intent as determined by action analysis.
type ActionType string

// Recognized action classifications.
const (
	ActionCombat      ActionType = "combat"
	ActionExploration ActionType = "exploration"
	ActionSocial      ActionType = "social"
	ActionPuzzle      ActionType = "puzzle"
	ActionOther       ActionType = "other"
)

// Valid reports whether t is one of the recognized classifications.
func (t ActionType) Valid() bool {
	switch t {
	case ActionCombat, ActionExploration, ActionSocial, ActionPuzzle, ActionOther:
		return true
	}
	return false
}

// Mood is the emotional register the narrative phase assigns to its reply.
type Mood string

// Recognized narrative moods.
const (
	MoodTense      Mood = "tense"
	MoodCalm       Mood = "calm"
	MoodExciting   Mood = "exciting"
	MoodMysterious Mood = "mysterious"
	MoodDangerous  Mood = "dangerous"
)

// Valid reports whether m is one of the recognized moods.
func (m Mood) Valid() bool {
	switch m {
	case MoodTense, MoodCalm, MoodExciting, MoodMysterious, MoodDangerous:
		return true
	}
	return false
}

// SessionStatus is the coarse campaign-session state derived by state update.
type SessionStatus string

// Session status values.
const (
	SessionActive    SessionStatus = "active"
	SessionPaused    SessionStatus = "paused"
	SessionCompleted SessionStatus = "completed"
)

// StatusChange records status tags to add to and remove from a single target.
// Removals are applied before additions.
type StatusChange struct {
	Target string   `json:"target"`
	Add    []string `json:"add,omitempty"`
	Remove []string `json:"remove,omitempty"`
}

// TurnContext is the immutable input to one workflow run: who acted, what
// they said, and the world snapshot plus retrieved memory the phases reason
// over. It is owned by a single turn and never shared; a phase that derives
// an updated scene works on a clone.
type TurnContext struct {
	CampaignID string
	UserID     string
	Action     string
	Scene      Scene
	History    []string
	Memories   []SimilarityResult
}

// CheckResult is the outcome of a mechanical dice check.
type CheckResult struct {
	Rolls           []int `json:"rolls"`
	Total           int   `json:"total"`
	Modifier        int   `json:"modifier"`
	FinalTotal      int   `json:"final_total"`
	Success         *bool `json:"success,omitempty"`
	CriticalSuccess bool  `json:"critical_success,omitempty"`
	CriticalFailure bool  `json:"critical_failure,omitempty"`
}

// WorkflowOutcome is the single terminal artifact of a workflow run. A run
// always produces exactly one outcome; partial phase results are never
// exposed to callers.
type WorkflowOutcome struct {
	Success       bool          `json:"success"`
	Narrative     string        `json:"narrative"`
	Scene         Scene         `json:"scene"`
	Suggestions   []string      `json:"suggestions"`
	Check         *CheckResult  `json:"check,omitempty"`
	SessionStatus SessionStatus `json:"session_status"`
	Error         string        `json:"error,omitempty"`
}
