package model

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Message is a single conversational message sent to a provider.
type Message struct {
	Role string `json:"role"` // "user" or "assistant"
	Text string `json:"text"`
}

// Request captures the normalized provider input produced by phase handlers.
type Request struct {
	Instructions string    `json:"instructions"` // system prompt
	Messages     []Message `json:"messages"`
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the complete text returned by a provider for one request.
type Response struct {
	Text  string      `json:"text"`
	Usage *TokenUsage `json:"usage,omitempty"`
}

// Info contains metadata about a provider implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock", ...
}

// Provider is the minimal interface phase handlers use to drive generation.
// Generate must honor ctx cancellation; the workflow engine races every call
// against a phase timeout.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// Info returns information about the provider implementation.
	Info() Info
}

// MockProvider is a lightweight in-memory Provider useful for tests and
// examples. Responses are selected by substring match against the last user
// message, in registration order.
type MockProvider struct {
	mu        sync.Mutex
	info      Info
	keys      []string
	responses map[string]string
	err       error
	calls     int
}

// NewMockProvider constructs a MockProvider.
func NewMockProvider(name string) *MockProvider {
	return &MockProvider{
		info:      Info{Name: name, Provider: "mock"},
		responses: make(map[string]string),
	}
}

// AddResponse registers a canned completion returned whenever the last user
// message contains substr.
func (m *MockProvider) AddResponse(substr, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.responses[substr]; !ok {
		m.keys = append(m.keys, substr)
	}
	m.responses[substr] = response
}

// FailWith makes every subsequent Generate call return err. Passing nil
// restores normal behavior.
func (m *MockProvider) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Generate has been invoked.
func (m *MockProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Generate implements Provider.
func (m *MockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	if m.err != nil {
		return nil, m.err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var input string
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == "user" {
			input = req.Messages[i].Text
			break
		}
	}

	for _, key := range m.keys {
		if strings.Contains(input, key) {
			return &Response{Text: m.responses[key]}, nil
		}
	}

	return &Response{Text: fmt.Sprintf("Mock response to: %s", input)}, nil
}

// Info implements Provider.
func (m *MockProvider) Info() Info { return m.info }
