package phase

import (
	"context"
	"errors"
	"fmt"

	"github.com/questforge/questforge/core"
	"github.com/questforge/questforge/internal/util"
	"github.com/questforge/questforge/model"
)

// NarrativeResult is the typed output of the narrative generation phase.
type NarrativeResult struct {
	Narrative   string    `json:"narrative"`
	Mood        core.Mood `json:"mood"`
	Suggestions []string  `json:"suggested_actions"`
}

// NarrativeHandler turns the mechanical outcome into player-facing story
// text via the generation provider. Its fallback guarantees the turn always
// produces narration, even under total generation failure.
type NarrativeHandler struct {
	provider model.Provider
}

// NewNarrativeHandler creates the narrative generation phase handler.
func NewNarrativeHandler(provider model.Provider) *NarrativeHandler {
	return &NarrativeHandler{provider: provider}
}

// Name implements Handler.
func (h *NarrativeHandler) Name() string { return "narrative_generation" }

// Execute implements Handler.
func (h *NarrativeHandler) Execute(ctx context.Context, tc core.TurnContext, prior *Results) (NarrativeResult, error) {
	if prior.Analysis == nil || prior.Judgment == nil {
		return NarrativeResult{}, errors.New("narrative requires analysis and judgment results")
	}

	prompt, err := renderPrompt(narrativePromptTemplate, map[string]any{
		"Action":        tc.Action,
		"ActionType":    string(prior.Analysis.ActionType),
		"Outcome":       renderCheck(prior.Judgment.Check),
		"Scene":         renderScene(tc.Scene),
		"Memories":      renderMemories(tc.Memories),
		"StatusChanges": renderStatusChanges(prior.Judgment.StatusChanges),
	})
	if err != nil {
		return NarrativeResult{}, err
	}

	resp, err := h.provider.Generate(ctx, model.Request{
		Instructions: narrativeInstructions,
		Messages:     []model.Message{{Role: "user", Text: prompt}},
	})
	if err != nil {
		return NarrativeResult{}, fmt.Errorf("narrative generation: %w", err)
	}

	var result NarrativeResult
	if err := util.DecodeStrict(resp.Text, &result); err != nil {
		return NarrativeResult{}, err
	}
	return result, nil
}

// Validate implements Handler: all three fields must be present with the
// right shapes, including the 3-4 suggestion bound.
func (h *NarrativeHandler) Validate(result NarrativeResult) error {
	if result.Narrative == "" {
		return errors.New("narrative must not be empty")
	}
	if !result.Mood.Valid() {
		return fmt.Errorf("unknown mood %q", result.Mood)
	}
	if len(result.Suggestions) < 3 || len(result.Suggestions) > 4 {
		return fmt.Errorf("expected 3-4 suggested actions, got %d", len(result.Suggestions))
	}
	return nil
}

// Fallback implements Fallbacker: a generic uncertain-outcome narration with
// four canned suggestions.
func (h *NarrativeHandler) Fallback(tc core.TurnContext, _ error) NarrativeResult {
	narrative := "You act, and the world shifts in response, though the full consequences remain unclear. " +
		"The air in " + fallbackPlace(tc.Scene) + " feels charged, as if the story is holding its breath."
	return NarrativeResult{
		Narrative: narrative,
		Mood:      core.MoodMysterious,
		Suggestions: []string{
			"Look around carefully",
			"Proceed with caution",
			"Talk to someone nearby",
			"Check your belongings",
		},
	}
}

func fallbackPlace(scene core.Scene) string {
	if scene.Location != "" {
		return scene.Location
	}
	return "this place"
}
