package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/questforge/questforge/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTool struct {
	name   string
	result any
	err    error
	calls  int
}

func (t *stubTool) Name() string        { return t.name }
func (t *stubTool) Description() string { return "stub" }

func (t *stubTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"input": map[string]any{"type": "string"},
		},
		"required": []string{"input"},
	}
}

func (t *stubTool) Call(_ *core.ToolContext, _ map[string]any) (any, error) {
	t.calls++
	return t.result, t.err
}

func testToolContext() *core.ToolContext {
	return core.NewToolContext(context.Background(), "campaign-1", "user-1", "call-1", nil, nil)
}

func TestInvoker_RegisterAndInvoke(t *testing.T) {
	inv := NewInvoker()
	stub := &stubTool{name: "echo", result: "ok"}
	inv.Register(stub)

	got, err := inv.Invoke(testToolContext(), "echo", map[string]any{"input": "hello"})
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 1, stub.calls)
}

func TestInvoker_UnknownTool(t *testing.T) {
	inv := NewInvoker()

	_, err := inv.Invoke(testToolContext(), "missing", map[string]any{})
	require.Error(t, err)

	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "UNKNOWN_TOOL", toolErr.Code)
	assert.Equal(t, "missing", toolErr.Tool)
}

func TestInvoker_ValidationFailure(t *testing.T) {
	inv := NewInvoker()
	stub := &stubTool{name: "echo"}
	inv.Register(stub)

	// Missing required "input" must be rejected before Call runs.
	_, err := inv.Invoke(testToolContext(), "echo", map[string]any{})
	require.Error(t, err)

	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "VALIDATION_ERROR", toolErr.Code)
	assert.Equal(t, 0, stub.calls)
}

func TestInvoker_WrapsPlainErrors(t *testing.T) {
	inv := NewInvoker()
	inv.Register(&stubTool{name: "boom", err: errors.New("it broke")})

	_, err := inv.Invoke(testToolContext(), "boom", map[string]any{"input": "x"})
	require.Error(t, err)

	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "EXECUTION_ERROR", toolErr.Code)
	assert.Contains(t, toolErr.Message, "it broke")
}

func TestInvoker_PassesToolErrorsThrough(t *testing.T) {
	inv := NewInvoker()
	custom := NewToolError("boom", "typed failure", "CUSTOM")
	inv.Register(&stubTool{name: "boom", err: custom})

	_, err := inv.Invoke(testToolContext(), "boom", map[string]any{"input": "x"})
	require.Error(t, err)

	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "CUSTOM", toolErr.Code)
}

func TestInvoker_Names(t *testing.T) {
	inv := NewInvoker()
	inv.Register(&stubTool{name: "a"})
	inv.Register(&stubTool{name: "b"})

	assert.ElementsMatch(t, []string{"a", "b"}, inv.Names())
}

func TestInvoker_LaterRegistrationWins(t *testing.T) {
	inv := NewInvoker()
	inv.Register(&stubTool{name: "echo", result: "first"})
	inv.Register(&stubTool{name: "echo", result: "second"})

	got, err := inv.Invoke(testToolContext(), "echo", map[string]any{"input": "x"})
	require.NoError(t, err)
	assert.Equal(t, "second", got)
}
