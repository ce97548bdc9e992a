package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSchema(t *testing.T) {
	type input struct {
		Query     string   `json:"query" description:"free text"`
		Limit     int      `json:"limit,omitempty"`
		Threshold *float64 `json:"threshold,omitempty"`
		Tags      []string `json:"tags,omitempty"`
		hidden    string
	}

	schema := CreateSchema(input{})

	assert.Equal(t, "object", schema["type"])

	properties, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	query, ok := properties["query"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "string", query["type"])
	assert.Equal(t, "free text", query["description"])
	assert.Contains(t, properties, "limit")
	assert.Contains(t, properties, "tags")
	assert.NotContains(t, properties, "hidden")

	required, ok := schema["required"].([]string)
	require.True(t, ok)
	assert.Equal(t, []string{"query"}, required)
}

func TestValidateParameters(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name":  map[string]any{"type": "string"},
			"count": map[string]any{"type": "integer"},
		},
		"required": []string{"name"},
	}

	assert.NoError(t, ValidateParameters(map[string]any{"name": "goblin"}, schema))
	assert.NoError(t, ValidateParameters(map[string]any{"name": "goblin", "count": 3}, schema))

	// Extra fields pass through untouched.
	assert.NoError(t, ValidateParameters(map[string]any{"name": "goblin", "note": "extra"}, schema))

	err := ValidateParameters(map[string]any{"count": 3}, schema)
	require.Error(t, err)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "name", vErr.Field)

	err = ValidateParameters(map[string]any{"name": 42}, schema)
	require.Error(t, err)
}

func TestValidateParameters_RequiredAsAnySlice(t *testing.T) {
	// Schemas decoded from JSON carry required as []any.
	schema := map[string]any{
		"type":       "object",
		"properties": map[string]any{"name": map[string]any{"type": "string"}},
		"required":   []any{"name"},
	}

	assert.Error(t, ValidateParameters(map[string]any{}, schema))
	assert.NoError(t, ValidateParameters(map[string]any{"name": "x"}, schema))
}
