package core

import (
	"context"

	"github.com/questforge/questforge/logging"
)

// ToolContext is the constrained execution surface handed to tool
// implementations. It scopes a tool call to one turn (campaign, user, call
// id) and exposes the memory store so knowledge tools can read and write
// facts without reaching into the orchestrator.
type ToolContext struct {
	ctx        context.Context
	campaignID string
	userID     string
	callID     string
	memory     MemoryStore
	logger     logging.Logger
}

// NewToolContext constructs a tool context bound to one turn. A nil logger
// is replaced with the no-op logger.
func NewToolContext(ctx context.Context, campaignID, userID, callID string, memory MemoryStore, logger logging.Logger) *ToolContext {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &ToolContext{
		ctx:        ctx,
		campaignID: campaignID,
		userID:     userID,
		callID:     callID,
		memory:     memory,
		logger:     logger,
	}
}

// Context returns the context associated with the tool invocation.
func (tc *ToolContext) Context() context.Context { return tc.ctx }

// CampaignID returns the campaign the tool call is scoped to.
func (tc *ToolContext) CampaignID() string { return tc.campaignID }

// UserID returns the acting user, if known.
func (tc *ToolContext) UserID() string { return tc.userID }

// CallID returns the unique identifier of this tool call.
func (tc *ToolContext) CallID() string { return tc.callID }

// Memory returns the memory store scoped services may use, or nil when the
// invoker was built without one.
func (tc *ToolContext) Memory() MemoryStore { return tc.memory }

// Logger returns the logger associated with the tool invocation.
func (tc *ToolContext) Logger() logging.Logger { return tc.logger }
