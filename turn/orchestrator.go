// Package turn glues the two subsystems together: the orchestrator retrieves
// memory context before the workflow engine runs and writes new memories
// after it completes. It is the only component that touches both.
package turn

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/questforge/questforge/core"
	"github.com/questforge/questforge/engine"
	"github.com/questforge/questforge/logging"
)

// Request describes one player action to process.
type Request struct {
	CampaignID string
	UserID     string
	Action     string
	Scene      core.Scene
	History    []string
}

// Options configures an Orchestrator.
type Options struct {
	// MemoryLimit bounds how many retrieved memories enter the TurnContext.
	MemoryLimit int

	// MemoryThreshold is the minimum cosine similarity a memory needs to be
	// considered relevant context.
	MemoryThreshold float64

	// Logger used for turn-level events. Defaults to the no-op logger.
	Logger logging.Logger
}

// Orchestrator runs the before/after memory coupling around the workflow
// engine. It is safe for concurrent use; every turn owns its own context.
type Orchestrator struct {
	memory core.MemoryStore
	engine *engine.Engine
	opts   Options
}

// New creates an Orchestrator.
func New(memory core.MemoryStore, eng *engine.Engine, optFns ...func(o *Options)) *Orchestrator {
	opts := Options{
		MemoryLimit:     5,
		MemoryThreshold: 0.3,
		Logger:          logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MemoryLimit <= 0 {
		opts.MemoryLimit = 5
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &Orchestrator{memory: memory, engine: eng, opts: opts}
}

// ProcessAction processes one player action end to end: retrieve memory
// context, run the workflow, persist what the turn learned, return the
// outcome. It never returns a bare error for pipeline failures; the outcome
// itself carries success or failure.
func (o *Orchestrator) ProcessAction(ctx context.Context, req Request) core.WorkflowOutcome {
	turnID := uuid.NewString()
	logger := o.opts.Logger

	tc := core.TurnContext{
		CampaignID: req.CampaignID,
		UserID:     req.UserID,
		Action:     req.Action,
		Scene:      req.Scene,
		History:    append([]string(nil), req.History...),
		Memories:   o.retrieveContext(ctx, req, logger),
	}

	outcome, records := o.engine.Run(ctx, tc)

	o.persistTurn(ctx, req, outcome, records, logger, turnID)

	return outcome
}

// retrieveContext searches campaign memory with the raw action text. A
// search failure degrades to an empty context rather than failing the turn.
func (o *Orchestrator) retrieveContext(ctx context.Context, req Request, logger logging.Logger) []core.SimilarityResult {
	if req.Action == "" {
		return nil
	}
	memories, err := o.memory.Search(ctx, core.SearchMemoryInput{
		CampaignID: req.CampaignID,
		Query:      req.Action,
		Limit:      o.opts.MemoryLimit,
		Threshold:  o.opts.MemoryThreshold,
	})
	if err != nil {
		logger.Warn("memory search failed, continuing without context", "campaign_id", req.CampaignID, "error", err)
		return nil
	}
	return memories
}

// persistTurn writes the turn summary and the records derived by the state
// update phase. Failures are logged and swallowed: a memory write must never
// fail a turn the player already saw.
func (o *Orchestrator) persistTurn(
	ctx context.Context,
	req Request,
	outcome core.WorkflowOutcome,
	records []core.MemoryRecord,
	logger logging.Logger,
	turnID string,
) {
	summary := turnSummary(req.Action, outcome)
	all := append([]core.MemoryRecord{summary}, records...)

	for _, record := range all {
		_, err := o.memory.Create(ctx, core.CreateMemoryInput{
			CampaignID: req.CampaignID,
			UserID:     req.UserID,
			Content:    record.Content,
			Category:   record.Category,
			Importance: record.Importance,
			Tags:       record.Tags,
		})
		if err != nil {
			logger.Warn("memory write failed",
				"campaign_id", req.CampaignID, "turn_id", turnID,
				"category", string(record.Category), "error", err)
		}
	}
}

func turnSummary(action string, outcome core.WorkflowOutcome) core.MemoryRecord {
	if action == "" {
		action = "(no action)"
	}
	result := "succeeded"
	if !outcome.Success {
		result = "failed"
	}
	return core.MemoryRecord{
		Content:  fmt.Sprintf("Turn %s: %s. %s", result, action, outcome.Narrative),
		Category: core.CategoryEvent,
		Tags:     []string{"turn-summary"},
	}
}
