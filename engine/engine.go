package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/questforge/questforge/core"
	"github.com/questforge/questforge/logging"
	"github.com/questforge/questforge/phase"
)

// Config defines tuning parameters for phase execution.
type Config struct {
	// MaxRetries bounds the number of execution attempts per phase before
	// the fallback (if any) is consulted.
	MaxRetries int

	// PhaseTimeout is how long a single execution attempt may run. A timeout
	// follows the same failure path as an execution error.
	PhaseTimeout time.Duration

	// RetryBackoff is the delay before the second attempt, doubling for each
	// further attempt. Zero retries immediately, which is the contract
	// default; a positive value is a safe strengthening against sustained
	// provider outages.
	RetryBackoff time.Duration
}

// DefaultConfig provides the default execution parameters.
var DefaultConfig = Config{
	MaxRetries:   3,
	PhaseTimeout: 30 * time.Second,
	RetryBackoff: 0,
}

// Options configures an Engine instance.
type Options struct {
	Config Config
	Logger logging.Logger

	// Hooks receive phase lifecycle notifications. Optional.
	Hooks []Hook
}

// Engine sequences the four phases over a TurnContext. It holds no mutable
// state of its own, so a single Engine serves concurrent turns.
type Engine struct {
	analysis    phase.Handler[phase.AnalysisResult]
	judgment    phase.Handler[phase.JudgmentResult]
	narrative   phase.Handler[phase.NarrativeResult]
	stateUpdate phase.Handler[phase.StateUpdateResult]

	cfg    Config
	logger logging.Logger
	hooks  []Hook
}

// New creates an Engine from the four phase handlers.
func New(
	analysis phase.Handler[phase.AnalysisResult],
	judgment phase.Handler[phase.JudgmentResult],
	narrative phase.Handler[phase.NarrativeResult],
	stateUpdate phase.Handler[phase.StateUpdateResult],
	optFns ...func(o *Options),
) *Engine {
	opts := Options{
		Config: DefaultConfig,
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Config.MaxRetries < 1 {
		opts.Config.MaxRetries = 1
	}
	if opts.Config.PhaseTimeout <= 0 {
		opts.Config.PhaseTimeout = DefaultConfig.PhaseTimeout
	}

	return &Engine{
		analysis:    analysis,
		judgment:    judgment,
		narrative:   narrative,
		stateUpdate: stateUpdate,
		cfg:         opts.Config,
		logger:      opts.Logger,
		hooks:       opts.Hooks,
	}
}

// Run executes the four phases in order and returns exactly one
// WorkflowOutcome plus the memory records the turn derived for persistence.
// Run never returns an error: every failure mode, including caller
// cancellation, is folded into a well-formed outcome.
func (e *Engine) Run(ctx context.Context, tc core.TurnContext) (core.WorkflowOutcome, []core.MemoryRecord) {
	results := &phase.Results{}

	analysis, err := runPhase(ctx, e, StateAnalysis, e.analysis, tc, results)
	if err != nil {
		return e.failureOutcome(tc, StateAnalysis, err), nil
	}
	results.Analysis = &analysis

	judgment, err := runPhase(ctx, e, StateJudgment, e.judgment, tc, results)
	if err != nil {
		return e.failureOutcome(tc, StateJudgment, err), nil
	}
	results.Judgment = &judgment

	narrative, err := runPhase(ctx, e, StateNarrative, e.narrative, tc, results)
	if err != nil {
		return e.failureOutcome(tc, StateNarrative, err), nil
	}
	results.Narrative = &narrative

	stateUpdate, err := runPhase(ctx, e, StateStateUpdate, e.stateUpdate, tc, results)
	if err != nil {
		return e.failureOutcome(tc, StateStateUpdate, err), nil
	}
	results.StateUpdate = &stateUpdate

	e.notify(StateCompleted, "", 0, nil)

	return core.WorkflowOutcome{
		Success:       true,
		Narrative:     narrative.Narrative,
		Scene:         stateUpdate.Scene,
		Suggestions:   narrative.Suggestions,
		Check:         judgment.Check,
		SessionStatus: stateUpdate.SessionStatus,
	}, stateUpdate.NewMemories
}

// failureOutcome builds the terminal failure artifact: a generic narrative,
// the unmodified incoming scene and two generic suggestions.
func (e *Engine) failureOutcome(tc core.TurnContext, state State, err error) core.WorkflowOutcome {
	e.logger.Error("turn failed", "state", state.String(), "error", err)
	e.notify(StateFailed, "", 0, err)

	return core.WorkflowOutcome{
		Success:       false,
		Narrative:     "Something went wrong in the weave of the story, and the moment passes without a clear outcome.",
		Scene:         tc.Scene,
		Suggestions:   []string{"Wait a moment and try again", "Try a different approach"},
		SessionStatus: core.SessionActive,
		Error:         err.Error(),
	}
}

// runPhase drives one phase through the execute/validate/retry/fallback
// contract. It is a function rather than a method so each phase's typed
// result survives the shared machinery.
func runPhase[T any](
	ctx context.Context,
	e *Engine,
	state State,
	h phase.Handler[T],
	tc core.TurnContext,
	prior *phase.Results,
) (T, error) {
	var zero T
	var lastErr error
	start := time.Now()

	for attempt := 1; attempt <= e.cfg.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			lastErr = err
			break
		}
		if attempt > 1 && e.cfg.RetryBackoff > 0 {
			delay := e.cfg.RetryBackoff << (attempt - 2)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				lastErr = ctx.Err()
			}
			if lastErr != nil {
				break
			}
		}

		e.notify(state, h.Name(), attempt, nil)
		result, err := executeWithTimeout(ctx, e.cfg.PhaseTimeout, h, tc, prior)
		if err == nil {
			err = h.Validate(result)
		}
		if err == nil {
			e.logger.Debug("phase completed", "phase", h.Name(), "attempts", attempt, "duration", time.Since(start))
			return result, nil
		}

		lastErr = err
		e.logger.Warn("phase attempt failed", "phase", h.Name(), "attempt", attempt, "error", err)
	}

	// Caller cancellation stops the turn outright. Fallbacks cover provider
	// failures, not a caller that no longer wants the result.
	if err := ctx.Err(); err != nil {
		return zero, fmt.Errorf("phase %s: %w", h.Name(), err)
	}

	if fb, ok := h.(phase.Fallbacker[T]); ok {
		e.logger.Info("phase fell back", "phase", h.Name(), "error", lastErr)
		e.notify(state, h.Name(), 0, lastErr)
		return fb.Fallback(tc, lastErr), nil
	}

	return zero, fmt.Errorf("phase %s exhausted retries: %w", h.Name(), lastErr)
}

// executeWithTimeout races a single execution attempt against the phase
// timeout. The result crosses a buffered channel so a late completion from a
// timed-out attempt is dropped on the floor and can never mutate state the
// engine has already moved past.
func executeWithTimeout[T any](
	ctx context.Context,
	timeout time.Duration,
	h phase.Handler[T],
	tc core.TurnContext,
	prior *phase.Results,
) (T, error) {
	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type attempt struct {
		result T
		err    error
	}
	ch := make(chan attempt, 1)

	go func() {
		result, err := h.Execute(execCtx, tc, prior)
		ch <- attempt{result: result, err: err}
	}()

	select {
	case out := <-ch:
		return out.result, out.err
	case <-execCtx.Done():
		var zero T
		return zero, fmt.Errorf("phase %s: %w", h.Name(), execCtx.Err())
	}
}
