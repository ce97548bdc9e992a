package phase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/questforge/questforge/core"
	"github.com/questforge/questforge/internal/util"
	"github.com/questforge/questforge/model"
)

// AnalysisResult is the typed output of the action analysis phase.
type AnalysisResult struct {
	ActionType    core.ActionType `json:"action_type"`
	Targets       []string        `json:"targets"`
	RequiresCheck bool            `json:"requires_check"`
	Difficulty    int             `json:"difficulty,omitempty"`
	Intent        string          `json:"intent"`
	Consequences  string          `json:"consequences,omitempty"`
}

// Keyword sets driving the network-free analysis fallback.
var (
	combatKeywords = []string{"attack", "fight", "strike", "hit", "stab", "shoot", "swing", "kill", "punch"}
	socialKeywords = []string{"talk", "speak", "ask", "say", "tell", "persuade", "convince", "greet"}
)

// fallbackCombatDifficulty is the check difficulty the fallback assigns to
// combat actions.
const fallbackCombatDifficulty = 15

// AnalysisHandler classifies the player's free-text action using the
// generation provider, falling back to keyword matching when generation is
// unavailable.
type AnalysisHandler struct {
	provider model.Provider
}

// NewAnalysisHandler creates the action analysis phase handler.
func NewAnalysisHandler(provider model.Provider) *AnalysisHandler {
	return &AnalysisHandler{provider: provider}
}

// Name implements Handler.
func (h *AnalysisHandler) Name() string { return "action_analysis" }

// Execute implements Handler.
func (h *AnalysisHandler) Execute(ctx context.Context, tc core.TurnContext, _ *Results) (AnalysisResult, error) {
	prompt, err := renderPrompt(analysisPromptTemplate, map[string]any{
		"Action": tc.Action,
		"Scene":  renderScene(tc.Scene),
	})
	if err != nil {
		return AnalysisResult{}, err
	}

	resp, err := h.provider.Generate(ctx, model.Request{
		Instructions: analysisInstructions,
		Messages:     []model.Message{{Role: "user", Text: prompt}},
	})
	if err != nil {
		return AnalysisResult{}, fmt.Errorf("analysis generation: %w", err)
	}

	var result AnalysisResult
	if err := util.DecodeStrict(resp.Text, &result); err != nil {
		return AnalysisResult{}, err
	}
	return result, nil
}

// Validate implements Handler: the classification must be a known type, the
// intent must be non-empty and the target list must be present (possibly
// empty, never absent).
func (h *AnalysisHandler) Validate(result AnalysisResult) error {
	if !result.ActionType.Valid() {
		return fmt.Errorf("unknown action type %q", result.ActionType)
	}
	if result.Intent == "" {
		return errors.New("intent must not be empty")
	}
	if result.Targets == nil {
		return errors.New("targets must be a list")
	}
	return nil
}

// Fallback implements Fallbacker with deterministic keyword matching:
// combat verbs classify as combat with a standard difficulty, conversational
// verbs as social, anything else as exploration. Targets default to the
// hostile NPCs in the scene for combat, all NPCs for social.
func (h *AnalysisHandler) Fallback(tc core.TurnContext, _ error) AnalysisResult {
	lower := strings.ToLower(tc.Action)

	switch {
	case containsAnyWord(lower, combatKeywords):
		return AnalysisResult{
			ActionType:    core.ActionCombat,
			Targets:       npcTargets(tc.Scene, "hostile"),
			RequiresCheck: true,
			Difficulty:    fallbackCombatDifficulty,
			Intent:        "engage in combat",
			Consequences:  "the fight's outcome depends on the check",
		}
	case containsAnyWord(lower, socialKeywords):
		return AnalysisResult{
			ActionType:   core.ActionSocial,
			Targets:      npcTargets(tc.Scene, ""),
			Intent:       "interact with someone in the scene",
			Consequences: "the conversation may reveal information or shift attitudes",
		}
	default:
		return AnalysisResult{
			ActionType:   core.ActionExploration,
			Targets:      []string{},
			Intent:       "explore the surroundings",
			Consequences: "something about the area may be discovered",
		}
	}
}

func containsAnyWord(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// npcTargets collects NPC names matching role; an empty role matches all.
func npcTargets(scene core.Scene, role string) []string {
	targets := []string{}
	for _, npc := range scene.NPCs {
		if role == "" || npc.Role == role {
			targets = append(targets, npc.Name)
		}
	}
	return targets
}
