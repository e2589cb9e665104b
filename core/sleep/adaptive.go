package sleep

import (
	"fmt"

	"github.com/aurelh/chronoplan/core/chronotype"
	"github.com/aurelh/chronoplan/core/logger"
	"github.com/aurelh/chronoplan/core/model"
)

// WindowCalculator is the default Calculator.
type WindowCalculator struct {
	logger logger.Logger
}

// NewWindowCalculator returns a Calculator logging its decisions through log.
func NewWindowCalculator(log logger.Logger) *WindowCalculator {
	return &WindowCalculator{logger: log}
}

// Ideal returns the preference-only window: the chronotype's default wake
// time shifted by age band, with bedtime worked backwards from it. An
// explicit wake override replaces both the default and the age shift.
func (c *WindowCalculator) Ideal(ct chronotype.Chronotype, age int, needHours float64, wakeOverride int) model.SleepWindow {
	wake := wakeOverride
	if wake < 0 || wake >= model.MinutesPerDay {
		wake = DefaultWakeMin(ct) + ageShiftMin(age, ct)
	}
	if wake < 0 {
		wake = 0
	}
	if wake >= model.MinutesPerDay {
		wake -= model.MinutesPerDay
	}
	return windowFor(wake, needHours)
}

// Adaptive computes the sleep window around the day's real commitments:
// wake late enough to enjoy the chronotype preference but early enough for
// the morning routine before the first commitment, bedtime after the evening
// routine that follows the last one. Routine and sleep marker intervals are
// ignored when scanning commitments.
func (c *WindowCalculator) Adaptive(fixed []model.FixedInterval, ct chronotype.Chronotype, needHours float64, morningMin, eveningMin, wakeOverride int) (model.SleepWindow, []string) {
	var warnings []string

	earliest, latest, found := commitmentBounds(fixed)
	if !found {
		w := windowFor(preferredWakeMin(ct, wakeOverride), needHours)
		c.debugf("free day, preference-only window: bed=%s wake=%s",
			model.FormatClock(w.BedMin), model.FormatClock(w.WakeMin))
		return w, warnings
	}

	requiredWake := earliest - morningMin
	if requiredWake < 0 {
		requiredWake = 0
		warnings = append(warnings, "required wake time before midnight, clamped to 00:00")
	}
	preferredWake := preferredWakeMin(ct, wakeOverride)
	wake := chooseWake(requiredWake, preferredWake, ct)

	bed, bedWarnings := c.bedtime(latest, eveningMin, wake, needHours)
	warnings = append(warnings, bedWarnings...)

	bed, pushWarnings := c.pushPastPrime(bed, wake, ct, needHours)
	warnings = append(warnings, pushWarnings...)

	if w := deficitWarning(wake, bed, needHours); w != "" {
		warnings = append(warnings, w)
	}

	win := model.SleepWindow{BedMin: bed, WakeMin: wake, Duration: durationFor(needHours)}
	c.debugf("adaptive window: earliest=%s latest=%s bed=%s wake=%s",
		model.FormatClock(earliest), model.FormatClock(latest),
		model.FormatClock(bed), model.FormatClock(wake))
	return win, warnings
}

// commitmentBounds returns the earliest start and latest end among real
// commitments, skipping routine and sleep markers.
func commitmentBounds(fixed []model.FixedInterval) (earliest, latest int, found bool) {
	for _, f := range fixed {
		if f.IsMarker() {
			continue
		}
		if !found || f.StartMin < earliest {
			earliest = f.StartMin
		}
		if !found || f.EndMin > latest {
			latest = f.EndMin
		}
		found = true
	}
	return earliest, latest, found
}

// chooseWake picks between the earliest-commitment wake and the chronotype
// preference. Waking earlier than preferred is mandatory; sleeping in past
// the required time is allowed only when the margin is comfortable, with a
// lower bar for early birds.
func chooseWake(required, preferred int, ct chronotype.Chronotype) int {
	if required <= preferred {
		return required
	}
	margin := required - preferred
	if ct == chronotype.EarlyBird && margin >= 30 {
		return preferred
	}
	if margin >= 60 {
		return preferred
	}
	return required
}

// bedtime works backwards from the wake time, then pushes forward past the
// evening routine that follows the last commitment when the two conflict. An
// ideal bedtime already past midnight (gap above 12h) wins over the routine
// constraint.
func (c *WindowCalculator) bedtime(latest, eveningMin, wake int, needHours float64) (int, []string) {
	var warnings []string

	ideal := wake - int(needHours*60) - OnsetMinutes
	if ideal < 0 {
		ideal += model.MinutesPerDay
	}

	earliestPossible := latest + eveningMin
	if earliestPossible >= model.MinutesPerDay {
		earliestPossible -= model.MinutesPerDay
	}

	if ideal < earliestPossible {
		if earliestPossible-ideal > 720 {
			return ideal, warnings
		}
		warnings = append(warnings, fmt.Sprintf(
			"bedtime pushed from %s to %s to fit evening routine after last commitment",
			model.FormatClock(ideal), model.FormatClock(earliestPossible)))
		return earliestPossible, warnings
	}
	return ideal, warnings
}

// pushPastPrime keeps the 17:00-22:00 prime window free for night owls by
// moving a bedtime that would land inside it to 22:15, unless doing so would
// cut sleep beyond the tolerable deficit for the need level.
func (c *WindowCalculator) pushPastPrime(bed, wake int, ct chronotype.Chronotype, needHours float64) (int, []string) {
	if ct != chronotype.NightOwl {
		return bed, nil
	}
	const primeEnd = 22 * 60
	if bed >= primeEnd {
		return bed, nil
	}
	if bed < 300 {
		// already after midnight
		return bed, nil
	}

	adjusted := primeEnd + 15
	var actual int
	if adjusted > wake {
		actual = wake + model.MinutesPerDay - adjusted - OnsetMinutes
	} else {
		actual = wake - adjusted - OnsetMinutes
	}
	deficit := int(needHours*60) - actual

	var tolerable int
	switch {
	case needHours >= 8.5:
		tolerable = 0
	case needHours >= 7.0:
		tolerable = 15
	default:
		tolerable = 30
	}

	if deficit <= tolerable {
		c.debugf("night owl bedtime pushed to %s to free the evening prime window",
			model.FormatClock(adjusted))
		return adjusted, nil
	}
	return bed, []string{fmt.Sprintf(
		"keeping bedtime %s: pushing past the prime window would cost %dmin of sleep",
		model.FormatClock(bed), deficit)}
}

// deficitWarning reports when the realized window delivers less actual sleep
// than needed, onset excluded.
func deficitWarning(wake, bed int, needHours float64) string {
	var inBed int
	if bed > wake {
		inBed = wake + model.MinutesPerDay - bed
	} else {
		inBed = wake - bed
	}
	actual := inBed - OnsetMinutes
	needMin := int(needHours * 60)
	if actual < needMin {
		return fmt.Sprintf("sleep deficit: %dmin actual sleep vs %dmin needed", actual, needMin)
	}
	return ""
}

func (c *WindowCalculator) debugf(format string, args ...any) {
	if c.logger != nil {
		c.logger.Debugf(format, args...)
	}
}
