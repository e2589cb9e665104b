package scheduler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aurelh/chronoplan/core/logger"
	"github.com/aurelh/chronoplan/core/model"
	"github.com/aurelh/chronoplan/core/solver"
)

// minRoutineMin is the shortest morning routine worth keeping once truncated
// by an early commitment.
const minRoutineMin = 5

// Assembler builds the solver request from user input and the computed sleep
// window. Assembly is pure given its inputs: identical inputs produce
// identical requests.
type Assembler struct {
	logger logger.Logger
}

// NewAssembler returns an Assembler logging through log.
func NewAssembler(log logger.Logger) *Assembler {
	return &Assembler{logger: log}
}

// Assemble converts the input into a solver.Request: tasks with defaulted
// energy levels, fixed events normalized to the day grid, sleep blocks,
// routines anchored to the sleep window and a lunch interval. Invalid tasks
// are skipped with a warning rather than failing the whole day.
func (a *Assembler) Assemble(input model.ScheduleInput, sleep model.SleepWindow, curve model.EnergyCurve) (solver.Request, []string) {
	var warnings []string
	prefs := input.Preferences.Normalize()

	tasks := make([]model.ScheduleTask, 0, len(input.Tasks))
	for _, t := range input.Tasks {
		if t.Energy == 0 {
			t.Energy = energyFromPriority(t.Priority)
		}
		if err := t.Validate(); err != nil {
			warnings = append(warnings, fmt.Sprintf("task %s skipped: %v", t.ID, err))
			continue
		}
		tasks = append(tasks, t)
	}

	fixed := make([]model.FixedInterval, 0, len(input.FixedEvents)+5)
	earliest := -1
	for _, f := range input.FixedEvents {
		f = normalizeFixed(f)
		if err := f.Validate(); err != nil {
			warnings = append(warnings, fmt.Sprintf("fixed event %s skipped: %v", f.Label(), err))
			continue
		}
		if !f.IsMarker() && (earliest < 0 || f.StartMin < earliest) {
			earliest = f.StartMin
		}
		fixed = append(fixed, f)
	}

	fixed = append(fixed, sleep.Intervals()...)

	if morning, ok, warn := morningRoutine(sleep.WakeMin, prefs.MorningRoutineMin, earliest); ok {
		fixed = append(fixed, morning)
	} else if warn != "" {
		warnings = append(warnings, warn)
	}

	fixed = append(fixed, eveningRoutine(sleep.BedMin, prefs.EveningRoutineMin)...)

	lunch := a.placeLunch(fixed, prefs.LunchDurationMin, sleep.WakeMin)
	fixed = append(fixed, lunch)

	sort.SliceStable(fixed, func(i, j int) bool { return fixed[i].StartMin < fixed[j].StartMin })
	warnings = append(warnings, a.reportOverlaps(fixed)...)

	return solver.Request{
		Date:        input.Date,
		DayStartMin: 0,
		DayEndMin:   model.MinutesPerDay,
		Tasks:       tasks,
		Fixed:       fixed,
		Energy:      curve,
	}, warnings
}

// energyFromPriority is the default when a task carries no explicit energy
// level: important tasks are assumed demanding.
func energyFromPriority(priority int) int {
	switch {
	case priority >= 4:
		return model.EnergyHigh
	case priority == 3:
		return model.EnergyMedium
	default:
		return model.EnergyLow
	}
}

// normalizeFixed maps a midnight end (00:00) to the end of the day grid and
// bumps degenerate zero or negative length events to one minute.
func normalizeFixed(f model.FixedInterval) model.FixedInterval {
	if f.EndMin == 0 {
		f.EndMin = model.MinutesPerDay
	}
	if f.EndMin <= f.StartMin {
		f.EndMin = f.StartMin + 1
	}
	return f
}

// morningRoutine anchors the routine at wake time, truncating at the
// earliest commitment. Under minRoutineMin of room means no routine.
func morningRoutine(wakeMin, durationMin, earliestCommitment int) (model.FixedInterval, bool, string) {
	end := wakeMin + durationMin
	if earliestCommitment >= 0 && earliestCommitment < end {
		end = earliestCommitment
	}
	if end-wakeMin < minRoutineMin {
		return model.FixedInterval{}, false, fmt.Sprintf(
			"morning routine omitted: only %d min between wake and first commitment", end-wakeMin)
	}
	return model.FixedInterval{
		ID: "morning_routine", Name: "Morning routine",
		StartMin: wakeMin, EndMin: end,
	}, true, ""
}

// eveningRoutine ends exactly at bedtime and splits across midnight when the
// bedtime is early enough in the day that the routine starts the evening
// before.
func eveningRoutine(bedMin, durationMin int) []model.FixedInterval {
	start := bedMin - durationMin
	if start >= 0 {
		return []model.FixedInterval{{
			ID: "evening_routine", Name: "Evening routine",
			StartMin: start, EndMin: bedMin,
		}}
	}
	return []model.FixedInterval{
		{ID: "evening_routine", Name: "Evening routine", StartMin: start + model.MinutesPerDay, EndMin: model.MinutesPerDay},
		{ID: "evening_routine", Name: "Evening routine", StartMin: 0, EndMin: bedMin},
	}
}

// reportOverlaps logs every conflicting pair. Assembly continues: an
// infeasible model is the solver's to report.
func (a *Assembler) reportOverlaps(fixed []model.FixedInterval) []string {
	var warnings []string
	for i := 0; i < len(fixed); i++ {
		for j := i + 1; j < len(fixed); j++ {
			if !fixed[i].Overlaps(fixed[j]) {
				continue
			}
			msg := fmt.Sprintf("fixed intervals overlap: %s [%s,%s) and %s [%s,%s), %d min",
				fixed[i].Label(), model.FormatClock(fixed[i].StartMin), model.FormatClock(fixed[i].EndMin),
				fixed[j].Label(), model.FormatClock(fixed[j].StartMin), model.FormatClock(fixed[j].EndMin),
				fixed[i].OverlapMinutes(fixed[j]))
			if a.logger != nil {
				a.logger.Warnf("%s", msg)
			}
			warnings = append(warnings, msg)
		}
	}
	return warnings
}

// placeLunch runs a 3-tier cascade. Tier one sits lunch right before a short
// pre-work gap, tier two takes the first free gap in the wake-adjusted ideal
// window, tier three the free gap whose midpoint is nearest noon. Lunch is
// never omitted.
func (a *Assembler) placeLunch(fixed []model.FixedInterval, durationMin, wakeMin int) model.FixedInterval {
	start, tier := a.lunchStart(fixed, durationMin, wakeMin)
	if a.logger != nil {
		a.logger.Debugf("lunch placed at %s (tier %d)", model.FormatClock(start), tier)
	}
	return model.FixedInterval{
		ID: "lunch", Name: "Lunch",
		StartMin: start, EndMin: start + durationMin,
	}
}

func (a *Assembler) lunchStart(fixed []model.FixedInterval, durationMin, wakeMin int) (int, int) {
	if start, ok := preWorkLunch(fixed, durationMin); ok {
		return start, 1
	}

	windowStart, windowEnd := idealLunchWindow(wakeMin)
	if start, ok := firstGapIn(fixed, windowStart, windowEnd, durationMin); ok {
		return start, 2
	}

	if start, ok := gapNearestNoon(fixed, durationMin); ok {
		return start, 3
	}
	return windowStart, 3
}

// preWorkLunch places lunch immediately before the earliest work or commute
// block when the free gap leading into it is short (at most two hours) and
// the lunch start lands within 12:00-18:00.
func preWorkLunch(fixed []model.FixedInterval, durationMin int) (int, bool) {
	workStart := -1
	for _, f := range fixed {
		name := strings.ToLower(f.Label())
		if !strings.Contains(name, "work") && !strings.Contains(name, "commute") {
			continue
		}
		if workStart < 0 || f.StartMin < workStart {
			workStart = f.StartMin
		}
	}
	if workStart < 0 {
		return 0, false
	}

	gapStart := 0
	for _, f := range fixed {
		if f.EndMin <= workStart && f.EndMin > gapStart {
			gapStart = f.EndMin
		}
	}
	gapLen := workStart - gapStart
	if gapLen < durationMin || gapLen > 120 {
		return 0, false
	}
	start := workStart - durationMin
	if start < 720 || start > 1080 {
		return 0, false
	}
	if !slotFree(fixed, start, workStart) {
		return 0, false
	}
	return start, true
}

// idealLunchWindow shifts the biological lunch window with the wake time:
// very early risers eat earlier, very late risers later.
func idealLunchWindow(wakeMin int) (int, int) {
	switch {
	case wakeMin < 6*60+30:
		return 11*60 + 30, 14*60 + 30
	case wakeMin > 10*60:
		return 12*60 + 30, 15*60 + 30
	default:
		return 12 * 60, 15 * 60
	}
}

// firstGapIn returns the start of the first free gap within the window that
// can hold durationMin.
func firstGapIn(fixed []model.FixedInterval, windowStart, windowEnd, durationMin int) (int, bool) {
	for _, g := range gapsIn(fixed, windowStart, windowEnd) {
		if g.end-g.start >= durationMin {
			return g.start, true
		}
	}
	return 0, false
}

// gapNearestNoon picks, among the free gaps between 06:00 and 22:00 that can
// hold lunch, the one whose midpoint is closest to noon.
func gapNearestNoon(fixed []model.FixedInterval, durationMin int) (int, bool) {
	const noon = 12 * 60
	best, bestDist := -1, 0
	for _, g := range gapsIn(fixed, 6*60, 22*60) {
		if g.end-g.start < durationMin {
			continue
		}
		mid := (g.start + g.end) / 2
		dist := mid - noon
		if dist < 0 {
			dist = -dist
		}
		if best < 0 || dist < bestDist {
			best, bestDist = g.start, dist
		}
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}

type span struct {
	start, end int
}

// gapsIn returns the free spans of [rangeStart,rangeEnd) left between the
// fixed intervals, in chronological order.
func gapsIn(fixed []model.FixedInterval, rangeStart, rangeEnd int) []span {
	overlapping := make([]model.FixedInterval, 0, len(fixed))
	for _, f := range fixed {
		if f.StartMin < rangeEnd && f.EndMin > rangeStart {
			overlapping = append(overlapping, f)
		}
	}
	sort.Slice(overlapping, func(i, j int) bool { return overlapping[i].StartMin < overlapping[j].StartMin })

	var gaps []span
	cursor := rangeStart
	for _, f := range overlapping {
		if f.StartMin > cursor {
			gaps = append(gaps, span{start: cursor, end: f.StartMin})
		}
		if f.EndMin > cursor {
			cursor = f.EndMin
		}
	}
	if cursor < rangeEnd {
		gaps = append(gaps, span{start: cursor, end: rangeEnd})
	}
	return gaps
}

func slotFree(fixed []model.FixedInterval, start, end int) bool {
	for _, f := range fixed {
		if start < f.EndMin && f.StartMin < end {
			return false
		}
	}
	return true
}
