// Package sleep computes nightly sleep windows. The ideal window derives
// purely from chronotype, age and sleep need; the adaptive window starts
// from the ideal and bends it around the day's fixed commitments the way a
// person plans backwards from their first meeting.
package sleep

import (
	"time"

	"github.com/aurelh/chronoplan/core/chronotype"
	"github.com/aurelh/chronoplan/core/model"
)

// OnsetMinutes is the buffer between going to bed and falling asleep. It is
// always part of the bedtime calculation so the window positions actual
// sleep, not time in bed.
const OnsetMinutes = 15

// NoWakeOverride marks the absence of an explicit user wake-time preference;
// the chronotype default applies.
const NoWakeOverride = -1

// Calculator produces sleep windows for one user and night. wakeOverride is
// the user's explicit preferred wake time in minutes from midnight, or
// NoWakeOverride to fall back to the chronotype default.
type Calculator interface {
	// Ideal returns the preference-only window, ignoring commitments.
	Ideal(ct chronotype.Chronotype, age int, needHours float64, wakeOverride int) model.SleepWindow
	// Adaptive bends the window around the day's fixed commitments and
	// returns the warnings produced along the way.
	Adaptive(fixed []model.FixedInterval, ct chronotype.Chronotype, needHours float64, morningMin, eveningMin, wakeOverride int) (model.SleepWindow, []string)
}

// NeedHours maps the 0-100 self-assessed sleep need scale to hours.
func NeedHours(scale int) float64 {
	switch {
	case scale < 40:
		return 6
	case scale <= 60:
		return 7.5
	default:
		return 9
	}
}

// preferredWakeMin resolves the wake preference: a valid explicit override
// wins over the chronotype default.
func preferredWakeMin(ct chronotype.Chronotype, override int) int {
	if override >= 0 && override < model.MinutesPerDay {
		return override
	}
	return DefaultWakeMin(ct)
}

// DefaultWakeMin returns the chronotype's preferred wake time in minutes
// from midnight.
func DefaultWakeMin(ct chronotype.Chronotype) int {
	switch ct {
	case chronotype.EarlyBird:
		return 6 * 60
	case chronotype.NightOwl:
		return 9 * 60
	default:
		return 7*60 + 30
	}
}

// ageShiftMin returns the wake-time shift in minutes for the age band and
// chronotype. Teens drift later, especially night owls; seniors drift
// earlier.
func ageShiftMin(age int, ct chronotype.Chronotype) int {
	switch {
	case age < 18:
		if ct == chronotype.NightOwl {
			return 90
		}
	case age >= 65:
		if ct == chronotype.EarlyBird {
			return -90
		}
	default:
		if ct == chronotype.NightOwl {
			return 60
		}
	}
	return 0
}

func durationFor(needHours float64) time.Duration {
	return time.Duration(int(needHours*60)) * time.Minute
}

func windowFor(wakeMin int, needHours float64) model.SleepWindow {
	bed := wakeMin - int(needHours*60) - OnsetMinutes
	if bed < 0 {
		bed += model.MinutesPerDay
	}
	return model.SleepWindow{
		BedMin:   bed,
		WakeMin:  wakeMin,
		Duration: durationFor(needHours),
	}
}
