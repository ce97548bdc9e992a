// Package questforge provides a high-level façade over the turn-processing
// core: a workflow engine that converts one free-text player action into a
// mechanical judgment, a narrative reply and an updated scene, coupled to a
// semantic memory store that supplies long-term context and records new
// facts. Most applications interact with this package by:
//  1. Creating a QuestForge via New() (optionally overriding the default
//     in-memory services and mock providers)
//  2. Calling ProcessAction for each player turn
//
// The façade wires the phase handlers, tool invoker and orchestrator once at
// construction time; there are no process-wide singletons. All defaults are
// safe for local development and testing; production deployments supply real
// generation/embedding providers and a durable memory store.
package questforge

import (
	"context"

	"github.com/questforge/questforge/core"
	"github.com/questforge/questforge/embedding"
	"github.com/questforge/questforge/engine"
	"github.com/questforge/questforge/logging"
	"github.com/questforge/questforge/memory"
	"github.com/questforge/questforge/model"
	"github.com/questforge/questforge/phase"
	"github.com/questforge/questforge/tool"
	"github.com/questforge/questforge/turn"
)

// Options configures the QuestForge instance.
type Options struct {
	// Generation produces the analysis and narrative text. Defaults to a
	// mock provider, which exercises the deterministic fallbacks.
	Generation model.Provider

	// Embedding maps text to vectors for the memory store. Defaults to the
	// deterministic mock embedder.
	Embedding embedding.Provider

	// MemoryStore persists campaign memory. Defaults to the in-memory store
	// built on the configured embedding provider.
	MemoryStore core.MemoryStore

	// Invoker is the tool registry. Defaults to one carrying the dice,
	// status-tag and knowledge tools.
	Invoker *tool.Invoker

	// EngineConfig tunes per-phase timeout, retries and backoff.
	EngineConfig engine.Config

	// MemoryLimit bounds the retrieved-memory context per turn.
	MemoryLimit int

	// MemoryThreshold is the minimum similarity for retrieved context.
	MemoryThreshold float64

	// Logger (defaults to NoOp logger if nil).
	Logger logging.Logger
}

// QuestForge is the high-level façade aggregating the engine, orchestrator
// and services.
type QuestForge struct {
	opts         Options
	orchestrator *turn.Orchestrator
	memoryStore  core.MemoryStore
}

// New creates a QuestForge instance with optional overrides. Any unset
// service is initialized with an in-memory or mock implementation.
func New(optFns ...func(o *Options)) *QuestForge {
	opts := Options{
		Generation:      model.NewMockProvider("mock-gm"),
		Embedding:       embedding.NewMockProvider(0),
		EngineConfig:    engine.DefaultConfig,
		MemoryLimit:     5,
		MemoryThreshold: 0.3,
		Logger:          logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.MemoryStore == nil {
		opts.MemoryStore = memory.NewInMemoryStore(opts.Embedding)
	}
	if opts.Invoker == nil {
		opts.Invoker = tool.NewInvoker()
		opts.Invoker.Register(tool.NewDiceTool())
		opts.Invoker.Register(tool.NewStatusTool())
		opts.Invoker.Register(tool.NewStoreKnowledgeTool())
		opts.Invoker.Register(tool.NewSearchKnowledgeTool())
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	eng := engine.New(
		phase.NewAnalysisHandler(opts.Generation),
		phase.NewJudgmentHandler(opts.Invoker, opts.MemoryStore, opts.Logger),
		phase.NewNarrativeHandler(opts.Generation),
		phase.NewStateUpdateHandler(),
		func(o *engine.Options) {
			o.Config = opts.EngineConfig
			o.Logger = opts.Logger
		},
	)

	orchestrator := turn.New(opts.MemoryStore, eng, func(o *turn.Options) {
		o.MemoryLimit = opts.MemoryLimit
		o.MemoryThreshold = opts.MemoryThreshold
		o.Logger = opts.Logger
	})

	return &QuestForge{opts: opts, orchestrator: orchestrator, memoryStore: opts.MemoryStore}
}

// ProcessAction processes one player action end to end and always returns a
// well-formed outcome; pipeline failures surface inside the outcome, never
// as an error.
func (q *QuestForge) ProcessAction(ctx context.Context, req turn.Request) core.WorkflowOutcome {
	return q.orchestrator.ProcessAction(ctx, req)
}

// Memory exposes the underlying memory store for direct use (stats, cleanup,
// seeding campaign facts).
func (q *QuestForge) Memory() core.MemoryStore { return q.memoryStore }
