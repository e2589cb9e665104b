package model

import "time"

// SleepWindow describes a computed sleep recommendation for one night.
// BedMin and WakeMin are minutes since midnight; a bedtime after midnight
// yields BedMin < WakeMin.
type SleepWindow struct {
	BedMin   int           `json:"bed_min"`
	WakeMin  int           `json:"wake_min"`
	Duration time.Duration `json:"duration"`
}

// LateBedtime reports whether the bedtime falls after midnight, in which
// case the whole sleep block fits inside a single calendar day.
func (w SleepWindow) LateBedtime() bool {
	return w.BedMin < w.WakeMin
}

// ActualSleep returns the time actually spent asleep given the window
// endpoints, accounting for a bedtime before or after midnight.
func (w SleepWindow) ActualSleep() time.Duration {
	var min int
	if w.LateBedtime() {
		min = w.WakeMin - w.BedMin
	} else {
		min = (MinutesPerDay - w.BedMin) + w.WakeMin
	}
	return time.Duration(min) * time.Minute
}

// Intervals expands the window into fixed intervals on the day grid. A
// bedtime before midnight produces two blocks, one at each end of the day.
func (w SleepWindow) Intervals() []FixedInterval {
	if w.LateBedtime() {
		return []FixedInterval{{ID: "sleep", Name: "Sleep", StartMin: w.BedMin, EndMin: w.WakeMin}}
	}
	return []FixedInterval{
		{ID: "sleep", Name: "Sleep", StartMin: 0, EndMin: w.WakeMin},
		{ID: "sleep", Name: "Sleep", StartMin: w.BedMin, EndMin: MinutesPerDay},
	}
}
