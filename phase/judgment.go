package phase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/questforge/questforge/core"
	"github.com/questforge/questforge/logging"
	"github.com/questforge/questforge/tool"
)

// JudgmentResult is the typed output of the judgment execution phase.
type JudgmentResult struct {
	Check         *core.CheckResult   `json:"check,omitempty"`
	ExecutedTools []string            `json:"executed_tools"`
	StatusChanges []core.StatusChange `json:"status_changes"`
	Summary       string              `json:"summary"`
}

// JudgmentHandler resolves the mechanical side of a turn: it rolls the dice
// when analysis asked for a check, applies status tags for critical
// outcomes, and records one knowledge entry describing what happened.
type JudgmentHandler struct {
	invoker *tool.Invoker
	memory  core.MemoryStore
	logger  logging.Logger
}

// NewJudgmentHandler creates the judgment execution phase handler.
func NewJudgmentHandler(invoker *tool.Invoker, memory core.MemoryStore, logger logging.Logger) *JudgmentHandler {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &JudgmentHandler{invoker: invoker, memory: memory, logger: logger}
}

// Name implements Handler.
func (h *JudgmentHandler) Name() string { return "judgment_execution" }

// defaultCheckDifficulty is used when analysis requested a check without
// supplying a difficulty.
const defaultCheckDifficulty = 10

// Execute implements Handler.
func (h *JudgmentHandler) Execute(ctx context.Context, tc core.TurnContext, prior *Results) (JudgmentResult, error) {
	if prior.Analysis == nil {
		return JudgmentResult{}, errors.New("judgment requires an analysis result")
	}
	analysis := *prior.Analysis

	toolCtx := core.NewToolContext(ctx, tc.CampaignID, tc.UserID, uuid.NewString(), h.memory, h.logger)
	result := JudgmentResult{
		ExecutedTools: []string{},
		StatusChanges: []core.StatusChange{},
	}

	if analysis.RequiresCheck {
		difficulty := analysis.Difficulty
		if difficulty <= 0 {
			difficulty = defaultCheckDifficulty
		}
		raw, err := h.invoker.Invoke(toolCtx, tool.RollDiceName, map[string]any{
			"dice_expression": "1d20",
			"difficulty":      difficulty,
		})
		if err != nil {
			return JudgmentResult{}, fmt.Errorf("dice check: %w", err)
		}
		check, ok := raw.(*core.CheckResult)
		if !ok {
			return JudgmentResult{}, fmt.Errorf("dice tool returned unexpected type %T", raw)
		}
		result.Check = check
		result.ExecutedTools = append(result.ExecutedTools, tool.RollDiceName)
	}

	if change, tags := criticalConsequences(analysis, result.Check); len(tags) > 0 {
		if _, err := h.invoker.Invoke(toolCtx, tool.UpdateStatusTagsName, map[string]any{
			"entity_id": change.Target,
			"tags":      tags,
		}); err != nil {
			return JudgmentResult{}, fmt.Errorf("status tags: %w", err)
		}
		result.StatusChanges = append(result.StatusChanges, change)
		result.ExecutedTools = append(result.ExecutedTools, tool.UpdateStatusTagsName)
	}

	result.Summary = summarize(tc.Action, analysis, result.Check)
	if _, err := h.invoker.Invoke(toolCtx, tool.StoreKnowledgeName, map[string]any{
		"content":  result.Summary,
		"category": string(core.CategoryEvent),
		"tags":     []any{string(analysis.ActionType)},
	}); err != nil {
		return JudgmentResult{}, fmt.Errorf("record outcome: %w", err)
	}
	result.ExecutedTools = append(result.ExecutedTools, tool.StoreKnowledgeName)

	return result, nil
}

// criticalConsequences maps a combat check's critical outcomes to status tag
// mutations for the player: a critical success grants empowered and
// confident and clears frightened; a critical failure inflicts shaken and
// vulnerable and clears confident.
func criticalConsequences(analysis AnalysisResult, check *core.CheckResult) (core.StatusChange, []any) {
	if analysis.ActionType != core.ActionCombat || check == nil {
		return core.StatusChange{}, nil
	}

	switch {
	case check.CriticalSuccess:
		return core.StatusChange{
				Target: core.PlayerTarget,
				Add:    []string{"empowered", "confident"},
				Remove: []string{"frightened"},
			}, []any{
				tagArg("empowered", "Surging with momentum from a perfect strike", tool.TagBuff, tool.TagAdd),
				tagArg("confident", "Riding high on success", tool.TagBuff, tool.TagAdd),
				tagArg("frightened", "", tool.TagDebuff, tool.TagRemove),
			}
	case check.CriticalFailure:
		return core.StatusChange{
				Target: core.PlayerTarget,
				Add:    []string{"shaken", "vulnerable"},
				Remove: []string{"confident"},
			}, []any{
				tagArg("shaken", "Rattled by a disastrous blunder", tool.TagDebuff, tool.TagAdd),
				tagArg("vulnerable", "Off balance and exposed", tool.TagDebuff, tool.TagAdd),
				tagArg("confident", "", tool.TagBuff, tool.TagRemove),
			}
	}

	return core.StatusChange{}, nil
}

func tagArg(name, description string, tagType tool.TagType, action tool.TagAction) map[string]any {
	arg := map[string]any{
		"name":   name,
		"type":   string(tagType),
		"action": string(action),
	}
	if description != "" {
		arg["description"] = description
	}
	return arg
}

func summarize(action string, analysis AnalysisResult, check *core.CheckResult) string {
	if action == "" {
		action = "(no action)"
	}
	return fmt.Sprintf("Player action (%s): %s. Outcome: %s.", analysis.ActionType, action, renderCheck(check))
}

// Validate implements Handler: the executed-tools and status-changes fields
// must be lists, possibly empty.
func (h *JudgmentHandler) Validate(result JudgmentResult) error {
	if result.ExecutedTools == nil {
		return errors.New("executed tools must be a list")
	}
	if result.StatusChanges == nil {
		return errors.New("status changes must be a list")
	}
	return nil
}

// Fallback implements Fallbacker: no mechanical consequences rather than a
// failed turn.
func (h *JudgmentHandler) Fallback(core.TurnContext, error) JudgmentResult {
	return JudgmentResult{
		ExecutedTools: []string{},
		StatusChanges: []core.StatusChange{},
		Summary:       "The action's mechanical outcome could not be resolved.",
	}
}
