// Package model defines the Generation Provider contract used by the phase
// handlers: given instructions and prior messages, return free-form text that
// is expected to contain a JSON payload. Concrete adapters live in the
// openai and anthropic subpackages; which one a deployment uses is decided
// once at construction time, never per call.
package model
