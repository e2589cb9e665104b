// Package events defines the generation related events emitted on the event
// bus.
//
// Available event types:
//   - StageEvent: pipeline stage transition for one generation
//   - SolveEvent: solver run summary
//   - FallbackEvent: refinement rejected, deterministic fallback applied
package events
