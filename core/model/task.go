package model

import (
	"fmt"

	"github.com/google/uuid"
)

// Energy requirement levels for tasks. The solver matches these against the
// user's hourly energy curve.
const (
	EnergyLow    = 1
	EnergyMedium = 2
	EnergyHigh   = 3
)

// ScheduleTask is a task the solver may place. EarliestStartMin and
// LatestEndMin are optional window bounds; DependsOn lists tasks that must
// finish before this one starts.
type ScheduleTask struct {
	ID               uuid.UUID   `json:"id"`
	Name             string      `json:"name,omitempty"`
	DurationMin      int         `json:"duration_min"`
	Priority         int         `json:"priority"`
	Energy           int         `json:"energy"`
	EarliestStartMin *int        `json:"earliest_start_min,omitempty"`
	LatestEndMin     *int        `json:"latest_end_min,omitempty"`
	DependsOn        []uuid.UUID `json:"depends_on,omitempty"`
}

// Validate checks duration, priority/energy ranges and window feasibility.
func (t ScheduleTask) Validate() error {
	if t.DurationMin <= 0 {
		return fmt.Errorf("task %s: duration must be positive, got %d", t.ID, t.DurationMin)
	}
	if t.Priority < 1 || t.Priority > 5 {
		return fmt.Errorf("task %s: priority %d out of range [1,5]", t.ID, t.Priority)
	}
	if t.Energy < EnergyLow || t.Energy > EnergyHigh {
		return fmt.Errorf("task %s: energy %d out of range [1,3]", t.ID, t.Energy)
	}
	if t.EarliestStartMin != nil && t.LatestEndMin != nil {
		if *t.LatestEndMin-*t.EarliestStartMin < t.DurationMin {
			return fmt.Errorf("task %s: window [%d,%d] smaller than duration %d",
				t.ID, *t.EarliestStartMin, *t.LatestEndMin, t.DurationMin)
		}
	}
	return nil
}

// PlacedTask is the solver's output record for one scheduled task. Instances
// are derived from a solution and treated as read-only.
type PlacedTask struct {
	TaskID   uuid.UUID `json:"task_id"`
	StartMin int       `json:"start_min"`
	EndMin   int       `json:"end_min"`
	Date     string    `json:"date"`
}
