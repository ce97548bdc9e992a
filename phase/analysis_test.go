package phase

import (
	"context"
	"errors"
	"testing"

	"github.com/questforge/questforge/core"
	"github.com/questforge/questforge/internal/testutil"
	"github.com/questforge/questforge/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tavernContext(action string) core.TurnContext {
	return core.TurnContext{
		CampaignID: "campaign-1",
		UserID:     "user-1",
		Action:     action,
		Scene:      testutil.TavernScene(),
	}
}

func TestAnalysisHandler_Execute(t *testing.T) {
	provider := model.NewMockProvider("test-gm")
	provider.AddResponse("swing my sword", `{
		"action_type": "combat",
		"targets": ["Goblin Warrior"],
		"requires_check": true,
		"difficulty": 12,
		"intent": "strike the goblin before it reacts",
		"consequences": "the goblin may retaliate"
	}`)

	handler := NewAnalysisHandler(provider)
	result, err := handler.Execute(context.Background(), tavernContext("I swing my sword at the goblin"), &Results{})
	require.NoError(t, err)

	assert.Equal(t, core.ActionCombat, result.ActionType)
	assert.Equal(t, []string{"Goblin Warrior"}, result.Targets)
	assert.True(t, result.RequiresCheck)
	assert.Equal(t, 12, result.Difficulty)
	require.NoError(t, handler.Validate(result))
}

func TestAnalysisHandler_ExecuteStripsSurroundingProse(t *testing.T) {
	provider := model.NewMockProvider("test-gm")
	provider.AddResponse("look around", "Here is my analysis:\n"+
		`{"action_type": "exploration", "targets": [], "requires_check": false, "intent": "survey the room"}`+
		"\nLet me know if you need more.")

	handler := NewAnalysisHandler(provider)
	result, err := handler.Execute(context.Background(), tavernContext("I look around"), &Results{})
	require.NoError(t, err)
	assert.Equal(t, core.ActionExploration, result.ActionType)
}

func TestAnalysisHandler_ExecuteRejectsUnknownFields(t *testing.T) {
	provider := model.NewMockProvider("test-gm")
	provider.AddResponse("look", `{"action_type": "exploration", "targets": [], "intent": "look", "mana_cost": 3}`)

	handler := NewAnalysisHandler(provider)
	_, err := handler.Execute(context.Background(), tavernContext("I look"), &Results{})
	assert.Error(t, err)
}

func TestAnalysisHandler_ExecuteProviderFailure(t *testing.T) {
	provider := model.NewMockProvider("test-gm")
	provider.FailWith(errors.New("model unavailable"))

	handler := NewAnalysisHandler(provider)
	_, err := handler.Execute(context.Background(), tavernContext("I attack"), &Results{})
	assert.Error(t, err)
}

func TestAnalysisHandler_Validate(t *testing.T) {
	handler := NewAnalysisHandler(model.NewMockProvider("test-gm"))

	valid := AnalysisResult{ActionType: core.ActionSocial, Targets: []string{}, Intent: "chat"}
	assert.NoError(t, handler.Validate(valid))

	tests := []struct {
		name   string
		mutate func(*AnalysisResult)
	}{
		{"unknown action type", func(r *AnalysisResult) { r.ActionType = "dance" }},
		{"empty intent", func(r *AnalysisResult) { r.Intent = "" }},
		{"nil targets", func(r *AnalysisResult) { r.Targets = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.mutate(&r)
			assert.Error(t, handler.Validate(r))
		})
	}
}

func TestAnalysisHandler_FallbackCombat(t *testing.T) {
	handler := NewAnalysisHandler(model.NewMockProvider("test-gm"))

	result := handler.Fallback(tavernContext("I attack the goblin!"), errors.New("generation failed"))

	assert.Equal(t, core.ActionCombat, result.ActionType)
	assert.True(t, result.RequiresCheck)
	assert.Equal(t, 15, result.Difficulty)
	assert.Equal(t, []string{"Goblin Warrior"}, result.Targets) // only hostiles
	require.NoError(t, handler.Validate(result))
}

func TestAnalysisHandler_FallbackSocial(t *testing.T) {
	handler := NewAnalysisHandler(model.NewMockProvider("test-gm"))

	result := handler.Fallback(tavernContext("I talk to the bartender"), errors.New("generation failed"))

	assert.Equal(t, core.ActionSocial, result.ActionType)
	assert.False(t, result.RequiresCheck)
	assert.ElementsMatch(t, []string{"Goblin Warrior", "Old Bartender"}, result.Targets)
	require.NoError(t, handler.Validate(result))
}

func TestAnalysisHandler_FallbackExploration(t *testing.T) {
	handler := NewAnalysisHandler(model.NewMockProvider("test-gm"))

	result := handler.Fallback(tavernContext("I examine the strange carvings"), errors.New("generation failed"))

	assert.Equal(t, core.ActionExploration, result.ActionType)
	assert.False(t, result.RequiresCheck)
	assert.Empty(t, result.Targets)
	assert.NotNil(t, result.Targets)
	require.NoError(t, handler.Validate(result))
}
