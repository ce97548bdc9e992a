// Package phase implements the four fixed turn-processing phases: action
// analysis, judgment execution, narrative generation and state update. Each
// handler satisfies the same three-operation contract (execute, validate,
// optional fallback) over its own typed result; the engine package sequences
// them.
package phase

import (
	"context"

	"github.com/questforge/questforge/core"
)

// Results accumulates the typed outputs of completed phases. Later phases
// read the outputs of earlier ones; a nil field means that phase has not run
// yet. Results is owned by a single workflow run and never shared.
type Results struct {
	Analysis    *AnalysisResult
	Judgment    *JudgmentResult
	Narrative   *NarrativeResult
	StateUpdate *StateUpdateResult
}

// Handler is the contract every phase satisfies. Execute produces a typed
// result from the turn context plus prior phase outputs; Validate checks the
// result's shape. A validation failure is treated exactly like an execution
// error by the engine.
type Handler[T any] interface {
	// Name returns the phase identifier used in logs and errors.
	Name() string

	// Execute runs the phase. It must honor ctx cancellation: the engine
	// races every call against a timeout.
	Execute(ctx context.Context, tc core.TurnContext, prior *Results) (T, error)

	// Validate checks an execution result; returning an error sends the
	// engine back through the retry loop.
	Validate(result T) error
}

// Fallbacker is implemented by handlers that can produce a deterministic,
// network-free substitute result once retries are exhausted. Fallback output
// bypasses Validate; it is trusted by construction.
type Fallbacker[T any] interface {
	Fallback(tc core.TurnContext, cause error) T
}
