// Package logging provides a tiny abstraction over slog so downstream code
// can depend on a minimal interface (Logger) while allowing users to plug any
// structured logger. It also offers a richer TurnLogger with contextual
// helpers (campaign, turn, component) and domain specific helpers for tool
// calls, model calls, phase runs and memory writes.
package logging
