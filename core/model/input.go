package model

import "github.com/google/uuid"

// Preferences holds per-user routine settings. Zero durations are replaced
// by defaults at normalization time. PreferredWakeClock, when set, overrides
// the chronotype default wake time ("HH:MM").
type Preferences struct {
	PreferredWakeClock string `json:"preferred_wake_clock,omitempty" koanf:"preferred_wake_clock"`
	MorningRoutineMin  int    `json:"morning_routine_min" koanf:"morning_routine_min"`
	EveningRoutineMin  int    `json:"evening_routine_min" koanf:"evening_routine_min"`
	LunchDurationMin   int    `json:"lunch_duration_min" koanf:"lunch_duration_min"`
}

// DefaultPreferences returns the routine durations applied when the user
// supplied none.
func DefaultPreferences() Preferences {
	return Preferences{
		MorningRoutineMin: 30,
		EveningRoutineMin: 45,
		LunchDurationMin:  30,
	}
}

// Normalize fills zero fields from the defaults.
func (p Preferences) Normalize() Preferences {
	d := DefaultPreferences()
	if p.MorningRoutineMin <= 0 {
		p.MorningRoutineMin = d.MorningRoutineMin
	}
	if p.EveningRoutineMin <= 0 {
		p.EveningRoutineMin = d.EveningRoutineMin
	}
	if p.LunchDurationMin <= 0 {
		p.LunchDurationMin = d.LunchDurationMin
	}
	return p
}

// Profile carries the user attributes driving sleep and energy modelling.
// MEQScore is the morningness questionnaire total (16-86); SleepNeed is the
// 0-100 self-assessed need scale.
type Profile struct {
	Age       int `json:"age" koanf:"age"`
	MEQScore  int `json:"meq_score" koanf:"meq_score"`
	SleepNeed int `json:"sleep_need" koanf:"sleep_need"`
}

// Normalize applies the default adult age when none was given.
func (p Profile) Normalize() Profile {
	if p.Age <= 0 {
		p.Age = 30
	}
	return p
}

// ScheduleInput is everything the generator needs to build one day.
type ScheduleInput struct {
	UserID      uuid.UUID       `json:"user_id"`
	Date        string          `json:"date"`
	Tasks       []ScheduleTask  `json:"tasks"`
	FixedEvents []FixedInterval `json:"fixed_events"`
	Preferences Preferences     `json:"preferences"`
	Profile     Profile         `json:"profile"`
}

// ScheduleMetrics summarizes a generated day for observability sinks.
type ScheduleMetrics struct {
	UtilizationRatio float64 `json:"utilization_ratio"`
	ScheduledMin     int     `json:"scheduled_min"`
	AvgBlockMin      float64 `json:"avg_block_min"`
	TaskCoverage     float64 `json:"task_coverage"`
}

// GeneratedSchedule is the final ordered day plan together with the
// diagnostics accumulated while building it. Err is set only for structured
// domain failures such as an infeasible day; Fallback marks schedules built
// by the deterministic formatter instead of the refinement service.
type GeneratedSchedule struct {
	UserID     uuid.UUID       `json:"user_id"`
	Date       string          `json:"date"`
	ScheduleID uuid.UUID       `json:"schedule_id"`
	Blocks     []Block         `json:"blocks"`
	Metrics    ScheduleMetrics `json:"metrics"`
	Warnings   []string        `json:"warnings,omitempty"`
	Sleep      *SleepWindow    `json:"sleep,omitempty"`
	Fallback   bool            `json:"fallback"`
	Err        string          `json:"error,omitempty"`
}
