package solver

import (
	"fmt"

	"github.com/aurelh/chronoplan/core/model"
)

// Request is the fully assembled constraint model handed to the solver:
// the day bounds, the tasks to place, the busy intervals nothing may overlap
// and the hourly energy curve used for objective scoring.
type Request struct {
	Date        string                `json:"date"`
	DayStartMin int                   `json:"day_start_min"`
	DayEndMin   int                   `json:"day_end_min"`
	Tasks       []model.ScheduleTask  `json:"tasks"`
	Fixed       []model.FixedInterval `json:"fixed"`
	Energy      model.EnergyCurve     `json:"energy"`
}

// Validate checks the day bounds and every task and interval.
func (r Request) Validate() error {
	if r.DayStartMin < 0 || r.DayEndMin > model.MinutesPerDay || r.DayStartMin >= r.DayEndMin {
		return fmt.Errorf("invalid day bounds [%d,%d)", r.DayStartMin, r.DayEndMin)
	}
	for _, t := range r.Tasks {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	for _, f := range r.Fixed {
		if err := f.Validate(); err != nil {
			return fmt.Errorf("fixed interval %s: %w", f.Label(), err)
		}
	}
	return nil
}

// clippedFixed returns the fixed intervals clipped to the day bounds,
// dropping any that fall entirely outside.
func (r Request) clippedFixed() []model.FixedInterval {
	out := make([]model.FixedInterval, 0, len(r.Fixed))
	for _, f := range r.Fixed {
		start, end := f.StartMin, f.EndMin
		if start < r.DayStartMin {
			start = r.DayStartMin
		}
		if end > r.DayEndMin {
			end = r.DayEndMin
		}
		if start >= end {
			continue
		}
		f.StartMin, f.EndMin = start, end
		out = append(out, f)
	}
	return out
}
