package tool

import (
	"context"
	"testing"

	"github.com/questforge/questforge/core"
	"github.com/questforge/questforge/embedding"
	"github.com/questforge/questforge/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryToolContext(store core.MemoryStore) *core.ToolContext {
	return core.NewToolContext(context.Background(), "campaign-1", "user-1", "call-1", store, nil)
}

func TestStoreKnowledgeTool_CreatesScopedEntry(t *testing.T) {
	store := memory.NewInMemoryStore(embedding.NewMockProvider(0))
	toolCtx := memoryToolContext(store)

	got, err := NewStoreKnowledgeTool().Call(toolCtx, map[string]any{
		"content":  "The innkeeper owes the player a favor.",
		"category": "character",
		"tags":     []any{"innkeeper"},
	})
	require.NoError(t, err)

	entry, ok := got.(*core.MemoryEntry)
	require.True(t, ok)
	assert.Equal(t, "campaign-1", entry.CampaignID)
	assert.Equal(t, "user-1", entry.UserID)
	assert.Equal(t, core.CategoryCharacter, entry.Category)
	assert.Equal(t, []string{"innkeeper"}, entry.Tags)

	stored, err := store.Get(context.Background(), entry.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.Content, stored.Content)
}

func TestSearchKnowledgeTool_FindsStoredFact(t *testing.T) {
	store := memory.NewInMemoryStore(embedding.NewMockProvider(0))
	toolCtx := memoryToolContext(store)

	_, err := NewStoreKnowledgeTool().Call(toolCtx, map[string]any{
		"content": "The dragon sleeps beneath the northern mountain.",
	})
	require.NoError(t, err)

	got, err := NewSearchKnowledgeTool().Call(toolCtx, map[string]any{
		"query": "dragon sleeps beneath the northern mountain",
	})
	require.NoError(t, err)

	results, ok := got.([]core.SimilarityResult)
	require.True(t, ok)
	require.NotEmpty(t, results)
	assert.Contains(t, results[0].Entry.Content, "dragon")
}

func TestKnowledgeTools_RequireMemoryStore(t *testing.T) {
	toolCtx := memoryToolContext(nil)

	_, err := NewStoreKnowledgeTool().Call(toolCtx, map[string]any{"content": "x"})
	require.Error(t, err)
	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "UNAVAILABLE", toolErr.Code)

	_, err = NewSearchKnowledgeTool().Call(toolCtx, map[string]any{"query": "x"})
	require.Error(t, err)
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "UNAVAILABLE", toolErr.Code)
}
