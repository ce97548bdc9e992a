package tool

import (
	"fmt"
	"sync"
	"time"

	"github.com/questforge/questforge/core"
	"github.com/questforge/questforge/internal/util"
)

// Invoker is a thread-safe registry of tools. Arguments are validated
// against the tool's schema before Call runs, so malformed input is rejected
// synchronously and never reaches tool logic.
type Invoker struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewInvoker creates an empty Invoker.
func NewInvoker() *Invoker {
	return &Invoker{tools: make(map[string]Tool)}
}

// Register adds a tool; a later registration with the same name wins.
func (inv *Invoker) Register(t Tool) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.tools[t.Name()] = t
}

// Lookup returns the registered tool with the given name.
func (inv *Invoker) Lookup(name string) (Tool, bool) {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	t, ok := inv.tools[name]
	return t, ok
}

// Names returns the names of all registered tools.
func (inv *Invoker) Names() []string {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	names := make([]string, 0, len(inv.tools))
	for name := range inv.tools {
		names = append(names, name)
	}
	return names
}

// Invoke validates args against the named tool's schema and executes it.
// Unknown tools and schema mismatches surface as *ToolError, as do errors
// returned by the tool itself (custom ToolErrors are passed through).
func (inv *Invoker) Invoke(toolCtx *core.ToolContext, name string, args map[string]any) (any, error) {
	t, ok := inv.Lookup(name)
	if !ok {
		return nil, NewToolError(name, fmt.Sprintf("unknown tool %q", name), "UNKNOWN_TOOL")
	}

	if err := util.ValidateParameters(args, t.Parameters()); err != nil {
		return nil, &ToolError{Tool: name, Message: err.Error(), Code: "VALIDATION_ERROR", Details: err}
	}

	start := time.Now()
	result, err := t.Call(toolCtx, args)
	duration := time.Since(start)
	toolCtx.Logger().Debug("tool call finished", "tool", name, "duration", duration, "success", err == nil)
	if err != nil {
		if toolErr, ok := err.(*ToolError); ok {
			return nil, toolErr
		}
		return nil, &ToolError{Tool: name, Message: err.Error(), Code: "EXECUTION_ERROR"}
	}

	return result, nil
}
