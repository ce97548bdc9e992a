// Package core provides the foundational domain types and contracts shared by
// the QuestForge turn-processing pipeline. It defines:
//
//   - Scene / NPC (the snapshot of the game world a turn operates on)
//   - TurnContext (immutable input to a workflow run)
//   - WorkflowOutcome (the single terminal artifact of a turn)
//   - MemoryEntry and the MemoryStore contract (semantic long-term memory)
//   - ToolContext (scoped execution surface handed to tools)
//
// The package intentionally keeps implementation concerns (providers, store
// backends, the workflow engine itself) out of scope, exposing small
// interfaces so backends can be swapped without touching phase logic.
package core
