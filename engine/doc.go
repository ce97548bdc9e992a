// Package engine implements the workflow engine at the center of turn
// processing: it sequences the four fixed phases (action analysis, judgment
// execution, narrative generation, state update), races each execution
// against a timeout, retries bounded, falls back when retries are exhausted
// and assembles the single terminal WorkflowOutcome.
//
// The engine is deliberately not a generic orchestration framework. The
// phases and their data dependencies are fixed and domain specific; the only
// genericity is the runPhase helper, which preserves each phase's typed
// result through the shared retry/timeout/fallback machinery.
package engine
