// Package scheduler orchestrates daily schedule generation: it assembles the
// constraint model from user input and the computed sleep window, runs the
// solver, optionally sends the skeleton through the refinement service,
// validates the refined plan and falls back to a deterministic formatter when
// refinement cannot be trusted.
package scheduler
