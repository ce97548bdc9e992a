package model

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockProvider_SubstringResponses(t *testing.T) {
	provider := NewMockProvider("test")
	provider.AddResponse("weather", "It is raining.")
	provider.AddResponse("name", "I am the narrator.")

	resp, err := provider.Generate(context.Background(), Request{
		Messages: []Message{{Role: "user", Text: "What is the weather like?"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "It is raining.", resp.Text)

	// Selection keys off the last user message.
	resp, err = provider.Generate(context.Background(), Request{
		Messages: []Message{
			{Role: "user", Text: "What is the weather like?"},
			{Role: "assistant", Text: "It is raining."},
			{Role: "user", Text: "What is your name?"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "I am the narrator.", resp.Text)
}

func TestMockProvider_DefaultResponse(t *testing.T) {
	provider := NewMockProvider("test")

	resp, err := provider.Generate(context.Background(), Request{
		Messages: []Message{{Role: "user", Text: "anything"}},
	})
	require.NoError(t, err)
	assert.Contains(t, resp.Text, "anything")
}

func TestMockProvider_FailWith(t *testing.T) {
	provider := NewMockProvider("test")
	boom := errors.New("offline")
	provider.FailWith(boom)

	_, err := provider.Generate(context.Background(), Request{
		Messages: []Message{{Role: "user", Text: "hello"}},
	})
	assert.ErrorIs(t, err, boom)

	provider.FailWith(nil)
	_, err = provider.Generate(context.Background(), Request{
		Messages: []Message{{Role: "user", Text: "hello"}},
	})
	assert.NoError(t, err)

	assert.Equal(t, 2, provider.Calls())
}

func TestMockProvider_HonorsContext(t *testing.T) {
	provider := NewMockProvider("test")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := provider.Generate(ctx, Request{
		Messages: []Message{{Role: "user", Text: "hello"}},
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMockProvider_Info(t *testing.T) {
	provider := NewMockProvider("mock-gm")
	info := provider.Info()
	assert.Equal(t, "mock-gm", info.Name)
	assert.Equal(t, "mock", info.Provider)
}
