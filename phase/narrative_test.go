package phase

import (
	"context"
	"errors"
	"testing"

	"github.com/questforge/questforge/core"
	"github.com/questforge/questforge/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func narrativePrior() *Results {
	return &Results{
		Analysis: &AnalysisResult{
			ActionType: core.ActionCombat,
			Targets:    []string{"Goblin Warrior"},
			Intent:     "strike the goblin",
		},
		Judgment: &JudgmentResult{
			ExecutedTools: []string{},
			StatusChanges: []core.StatusChange{},
			Summary:       "the blow lands",
		},
	}
}

func TestNarrativeHandler_Execute(t *testing.T) {
	provider := model.NewMockProvider("test-gm")
	provider.AddResponse("attack the goblin", `{
		"narrative": "Your blade bites deep and the goblin staggers back with a shriek.",
		"mood": "exciting",
		"suggested_actions": ["Press the attack", "Demand surrender", "Grab its weapon"]
	}`)

	handler := NewNarrativeHandler(provider)
	result, err := handler.Execute(context.Background(), tavernContext("I attack the goblin"), narrativePrior())
	require.NoError(t, err)

	assert.Contains(t, result.Narrative, "goblin")
	assert.Equal(t, core.MoodExciting, result.Mood)
	assert.Len(t, result.Suggestions, 3)
	require.NoError(t, handler.Validate(result))
}

func TestNarrativeHandler_RequiresPriorPhases(t *testing.T) {
	handler := NewNarrativeHandler(model.NewMockProvider("test-gm"))

	_, err := handler.Execute(context.Background(), tavernContext("x"), &Results{})
	assert.Error(t, err)

	_, err = handler.Execute(context.Background(), tavernContext("x"), &Results{Analysis: &AnalysisResult{}})
	assert.Error(t, err)
}

func TestNarrativeHandler_ProviderFailure(t *testing.T) {
	provider := model.NewMockProvider("test-gm")
	provider.FailWith(errors.New("model unavailable"))

	handler := NewNarrativeHandler(provider)
	_, err := handler.Execute(context.Background(), tavernContext("I attack"), narrativePrior())
	assert.Error(t, err)
}

func TestNarrativeHandler_Validate(t *testing.T) {
	handler := NewNarrativeHandler(model.NewMockProvider("test-gm"))

	valid := NarrativeResult{
		Narrative:   "Something happens.",
		Mood:        core.MoodCalm,
		Suggestions: []string{"a", "b", "c"},
	}
	assert.NoError(t, handler.Validate(valid))

	tests := []struct {
		name   string
		mutate func(*NarrativeResult)
	}{
		{"empty narrative", func(r *NarrativeResult) { r.Narrative = "" }},
		{"unknown mood", func(r *NarrativeResult) { r.Mood = "sleepy" }},
		{"too few suggestions", func(r *NarrativeResult) { r.Suggestions = []string{"a", "b"} }},
		{"too many suggestions", func(r *NarrativeResult) { r.Suggestions = []string{"a", "b", "c", "d", "e"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.mutate(&r)
			assert.Error(t, handler.Validate(r))
		})
	}

	valid.Suggestions = []string{"a", "b", "c", "d"}
	assert.NoError(t, handler.Validate(valid))
}

func TestNarrativeHandler_Fallback(t *testing.T) {
	handler := NewNarrativeHandler(model.NewMockProvider("test-gm"))

	result := handler.Fallback(tavernContext("I attack"), assert.AnError)

	assert.NotEmpty(t, result.Narrative)
	assert.Contains(t, result.Narrative, "The Rusty Flagon")
	assert.Equal(t, core.MoodMysterious, result.Mood)
	assert.Len(t, result.Suggestions, 4)
	require.NoError(t, handler.Validate(result))
}
