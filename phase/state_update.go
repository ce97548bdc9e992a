package phase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/questforge/questforge/core"
)

// StateUpdateResult is the typed output of the state update phase.
type StateUpdateResult struct {
	Scene         core.Scene          `json:"scene"`
	SessionStatus core.SessionStatus  `json:"session_status"`
	NewMemories   []core.MemoryRecord `json:"new_memories"`
}

// Phrases whose presence in the narrative or suggestions marks the session
// as completed. Substring matching is a best-effort signal, not a guarantee.
var completionPhrases = []string{
	"quest complete", "quest is complete", "journey ends", "story ends",
	"campaign complete", "the end",
}

// StateUpdateHandler folds the judgment's status changes into the scene,
// derives the turn's memory records and classifies the coarse session
// status. It is pure: no network, no tools.
type StateUpdateHandler struct{}

// NewStateUpdateHandler creates the state update phase handler.
func NewStateUpdateHandler() *StateUpdateHandler { return &StateUpdateHandler{} }

// Name implements Handler.
func (h *StateUpdateHandler) Name() string { return "state_update" }

// Execute implements Handler.
func (h *StateUpdateHandler) Execute(_ context.Context, tc core.TurnContext, prior *Results) (StateUpdateResult, error) {
	if prior.Analysis == nil || prior.Judgment == nil || prior.Narrative == nil {
		return StateUpdateResult{}, errors.New("state update requires all prior phase results")
	}

	scene := tc.Scene.Clone()
	for _, change := range prior.Judgment.StatusChanges {
		scene.ApplyStatus(change.Target, change.Add, change.Remove)
	}

	if prior.Analysis.ActionType == core.ActionExploration && checkSucceeded(prior.Judgment.Check) &&
		!strings.Contains(scene.Description, "(explored)") {
		scene.Description = strings.TrimSpace(scene.Description + " (explored)")
	}

	action := tc.Action
	if action == "" {
		action = "(no action)"
	}
	memories := []core.MemoryRecord{
		{
			Content:  fmt.Sprintf("Player action: %s", action),
			Category: core.CategoryEvent,
			Tags:     []string{string(prior.Analysis.ActionType)},
		},
		{
			Content:  prior.Narrative.Narrative,
			Category: core.CategoryStoryBeat,
			Tags:     []string{string(prior.Narrative.Mood)},
		},
	}

	return StateUpdateResult{
		Scene:         scene,
		SessionStatus: classifySession(*prior.Narrative),
		NewMemories:   memories,
	}, nil
}

// checkSucceeded treats "no check required" as success: an unopposed
// exploration action simply happens.
func checkSucceeded(check *core.CheckResult) bool {
	if check == nil || check.Success == nil {
		return true
	}
	return *check.Success
}

// classifySession derives the coarse session status from the generated text.
// False positives are accepted; the status is advisory.
func classifySession(narrative NarrativeResult) core.SessionStatus {
	haystack := strings.ToLower(narrative.Narrative + " " + strings.Join(narrative.Suggestions, " "))
	for _, phrase := range completionPhrases {
		if strings.Contains(haystack, phrase) {
			return core.SessionCompleted
		}
	}

	if narrative.Mood == core.MoodCalm {
		for _, suggestion := range narrative.Suggestions {
			if strings.Contains(strings.ToLower(suggestion), "rest") {
				return core.SessionPaused
			}
		}
	}

	return core.SessionActive
}

// Validate implements Handler.
func (h *StateUpdateHandler) Validate(result StateUpdateResult) error {
	switch result.SessionStatus {
	case core.SessionActive, core.SessionPaused, core.SessionCompleted:
	default:
		return fmt.Errorf("unknown session status %q", result.SessionStatus)
	}
	if result.NewMemories == nil {
		return errors.New("new memories must be a list")
	}
	return nil
}

// Fallback implements Fallbacker: scene unchanged, session active, nothing
// remembered.
func (h *StateUpdateHandler) Fallback(tc core.TurnContext, _ error) StateUpdateResult {
	return StateUpdateResult{
		Scene:         tc.Scene.Clone(),
		SessionStatus: core.SessionActive,
		NewMemories:   []core.MemoryRecord{},
	}
}
