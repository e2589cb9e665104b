// Package refine defines the contract for the external refinement service
// that turns a solver skeleton into a polished day plan. Refinement is
// best-effort: any failure is recoverable and callers fall back to the
// deterministic formatter.
package refine

import (
	"context"

	"github.com/google/uuid"

	"github.com/aurelh/chronoplan/core/model"
)

// Context is everything the refinement service may use besides the skeleton
// itself. WearableHints and History are free-form signals forwarded verbatim
// when present.
type Context struct {
	UserID        uuid.UUID             `json:"user_id"`
	Date          string                `json:"date"`
	Fixed         []model.FixedInterval `json:"fixed_events"`
	Sleep         model.SleepWindow     `json:"sleep"`
	Energy        model.EnergyCurve     `json:"energy"`
	TaskNames     map[uuid.UUID]string  `json:"task_names"`
	WearableHints map[string]any        `json:"wearable_hints,omitempty"`
	History       []map[string]any      `json:"history,omitempty"`
}

// Service refines a solver skeleton into final schedule blocks.
type Service interface {
	Refine(ctx context.Context, skeleton []model.PlacedTask, rc Context) ([]model.Block, error)
}

// Mock returns canned blocks or a fixed error, for tests and offline runs.
type Mock struct {
	Blocks []model.Block
	Err    error
}

// Refine returns the configured blocks or error, ignoring its input.
func (m Mock) Refine(context.Context, []model.PlacedTask, Context) ([]model.Block, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	cp := make([]model.Block, len(m.Blocks))
	copy(cp, m.Blocks)
	return cp, nil
}
