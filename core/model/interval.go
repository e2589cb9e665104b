package model

import (
	"fmt"
	"strings"
)

// FixedInterval represents an immovable time block in the schedule: a
// meeting, a commute, a routine, a meal or a sleep window. The solver must
// place tasks around fixed intervals, never over them.
type FixedInterval struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	StartMin int    `json:"start_min"`
	EndMin   int    `json:"end_min"`
}

// Validate checks that the interval is a well-formed same-day block.
func (f FixedInterval) Validate() error {
	if f.StartMin < 0 || f.StartMin > MinutesPerDay-1 {
		return fmt.Errorf("interval %s: start %d out of range [0,1439]", f.ID, f.StartMin)
	}
	if f.EndMin <= 0 || f.EndMin > MinutesPerDay {
		return fmt.Errorf("interval %s: end %d out of range (0,1440]", f.ID, f.EndMin)
	}
	if f.EndMin <= f.StartMin {
		return fmt.Errorf("interval %s: end %d must be after start %d", f.ID, f.EndMin, f.StartMin)
	}
	return nil
}

// Duration returns the interval length in minutes.
func (f FixedInterval) Duration() int { return f.EndMin - f.StartMin }

// Overlaps reports whether the two intervals share any minute.
func (f FixedInterval) Overlaps(o FixedInterval) bool {
	return max(f.StartMin, o.StartMin) < min(f.EndMin, o.EndMin)
}

// OverlapMinutes returns how many minutes the two intervals share.
func (f FixedInterval) OverlapMinutes(o FixedInterval) int {
	ov := min(f.EndMin, o.EndMin) - max(f.StartMin, o.StartMin)
	if ov < 0 {
		return 0
	}
	return ov
}

// Label returns the display name, falling back to the ID.
func (f FixedInterval) Label() string {
	if f.Name != "" {
		return f.Name
	}
	return f.ID
}

// IsMarker reports whether the interval is one the scheduler itself adds
// (routines, sleep) rather than a real commitment. Marker intervals are
// excluded when deriving wake and bed times from commitments.
func (f FixedInterval) IsMarker() bool {
	id := strings.ToLower(f.ID)
	for _, kw := range []string{"morning_routine", "evening_routine", "sleep"} {
		if strings.Contains(id, kw) {
			return true
		}
	}
	return false
}
