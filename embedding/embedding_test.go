package embedding

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockProvider_Deterministic(t *testing.T) {
	provider := NewMockProvider(0)
	ctx := context.Background()

	a, err := provider.Embed(ctx, "the goblin guards the bridge")
	require.NoError(t, err)
	b, err := provider.Embed(ctx, "the goblin guards the bridge")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, provider.Dimension())
}

func TestMockProvider_UnitVectors(t *testing.T) {
	provider := NewMockProvider(32)

	vec, err := provider.Embed(context.Background(), "some arbitrary text")
	require.NoError(t, err)
	require.Len(t, vec, 32)

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-9)
}

func TestMockProvider_EmptyTextIsZeroVector(t *testing.T) {
	provider := NewMockProvider(0)

	vec, err := provider.Embed(context.Background(), "")
	require.NoError(t, err)
	for _, v := range vec {
		assert.Zero(t, v)
	}
}

func TestMockProvider_CaseInsensitive(t *testing.T) {
	provider := NewMockProvider(0)
	ctx := context.Background()

	a, err := provider.Embed(ctx, "Goblin Warrior")
	require.NoError(t, err)
	b, err := provider.Embed(ctx, "goblin warrior")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
