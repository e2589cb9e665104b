package sleep

import (
	"strings"
	"testing"

	"github.com/aurelh/chronoplan/core/chronotype"
	"github.com/aurelh/chronoplan/core/model"
)

func TestNeedHours(t *testing.T) {
	cases := []struct {
		scale int
		want  float64
	}{
		{0, 6},
		{39, 6},
		{40, 7.5},
		{60, 7.5},
		{61, 9},
		{100, 9},
	}
	for _, c := range cases {
		if got := NeedHours(c.scale); got != c.want {
			t.Fatalf("NeedHours(%d) = %v, want %v", c.scale, got, c.want)
		}
	}
}

func TestIdealEarlyBirdLowNeed(t *testing.T) {
	calc := NewWindowCalculator(nil)
	w := calc.Ideal(chronotype.EarlyBird, 30, 6, NoWakeOverride)
	// wake 06:00, bed 06:00 - 6h - 15min = 23:45 previous day
	if w.WakeMin != 360 {
		t.Fatalf("wake = %s", model.FormatClock(w.WakeMin))
	}
	if w.BedMin != 1425 {
		t.Fatalf("bed = %s", model.FormatClock(w.BedMin))
	}
	if w.LateBedtime() {
		t.Fatal("23:45 bedtime must not count as late")
	}
}

func TestIdealAgeShifts(t *testing.T) {
	calc := NewWindowCalculator(nil)
	cases := []struct {
		age      int
		ct       chronotype.Chronotype
		wantWake int
	}{
		{16, chronotype.NightOwl, 540 + 90},
		{30, chronotype.NightOwl, 540 + 60},
		{70, chronotype.EarlyBird, 360 - 90},
		{30, chronotype.Intermediate, 450},
	}
	for _, c := range cases {
		w := calc.Ideal(c.ct, c.age, 7.5, NoWakeOverride)
		if w.WakeMin != c.wantWake {
			t.Fatalf("Ideal(age=%d,%s) wake = %d, want %d", c.age, c.ct, w.WakeMin, c.wantWake)
		}
	}
}

func TestIdealPreferredWakeOverride(t *testing.T) {
	calc := NewWindowCalculator(nil)
	// An explicit 07:00 preference replaces both the early bird default and
	// the senior age shift.
	w := calc.Ideal(chronotype.EarlyBird, 70, 7.5, 420)
	if w.WakeMin != 420 {
		t.Fatalf("wake = %s, want 07:00", model.FormatClock(w.WakeMin))
	}
	// bed 07:00 - 7.5h - 15min = 23:15
	if w.BedMin != 1395 {
		t.Fatalf("bed = %s, want 23:15", model.FormatClock(w.BedMin))
	}
}

func TestAdaptivePreferredWakeOverride(t *testing.T) {
	// Early bird with a 07:00 preference and a 09:00 commitment: the
	// required wake of 08:30 leaves a 90min margin, so the explicit
	// preference wins over both the requirement and the 06:00 default.
	fixed := []model.FixedInterval{{ID: "work", Name: "Work", StartMin: 540, EndMin: 1020}}
	calc := NewWindowCalculator(nil)
	w, _ := calc.Adaptive(fixed, chronotype.EarlyBird, 7.5, 30, 45, 420)
	if w.WakeMin != 420 {
		t.Fatalf("wake = %s, want 07:00", model.FormatClock(w.WakeMin))
	}
}

func TestAdaptiveFreeDay(t *testing.T) {
	calc := NewWindowCalculator(nil)
	w, warnings := calc.Adaptive(nil, chronotype.EarlyBird, 6, 30, 45, NoWakeOverride)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if w.WakeMin != 360 || w.BedMin != 1425 {
		t.Fatalf("free day window = %s-%s", model.FormatClock(w.BedMin), model.FormatClock(w.WakeMin))
	}
}

func TestAdaptiveWorkday(t *testing.T) {
	// One 09:00-17:00 commitment, 30min morning routine, 45min evening
	// routine, 7.5h need, early bird: the required wake of 08:30 leaves a
	// 150min margin over the preferred 06:00, so the preference wins.
	fixed := []model.FixedInterval{{ID: "work", Name: "Work", StartMin: 540, EndMin: 1020}}
	calc := NewWindowCalculator(nil)
	w, _ := calc.Adaptive(fixed, chronotype.EarlyBird, 7.5, 30, 45, NoWakeOverride)
	if w.WakeMin != 360 {
		t.Fatalf("wake = %s, want 06:00", model.FormatClock(w.WakeMin))
	}
	// ideal bedtime 06:00 - 7.5h - 15min = 22:15; last commitment ends 17:00
	// + 45min routine = 17:45, no conflict.
	if w.BedMin != 1335 {
		t.Fatalf("bed = %s, want 22:15", model.FormatClock(w.BedMin))
	}
}

func TestAdaptiveEarlyCommitmentForcesWake(t *testing.T) {
	// 07:00 meeting with a 30min routine forces a 06:30 wake on a night owl
	// whose preference is 09:00: required < preferred, required wins.
	fixed := []model.FixedInterval{{ID: "standup", Name: "Standup", StartMin: 420, EndMin: 480}}
	calc := NewWindowCalculator(nil)
	w, _ := calc.Adaptive(fixed, chronotype.NightOwl, 7.5, 30, 45, NoWakeOverride)
	if w.WakeMin != 390 {
		t.Fatalf("wake = %s, want 06:30", model.FormatClock(w.WakeMin))
	}
}

func TestAdaptiveLateWorkPushesBedtime(t *testing.T) {
	// Work until 22:30 with a 45min evening routine forces bedtime to 23:15
	// even though the early bird's ideal bedtime is 22:15.
	fixed := []model.FixedInterval{{ID: "shift", Name: "Shift", StartMin: 840, EndMin: 1350}}
	calc := NewWindowCalculator(nil)
	w, warnings := calc.Adaptive(fixed, chronotype.EarlyBird, 7.5, 30, 45, NoWakeOverride)
	if w.BedMin != 1395 {
		t.Fatalf("bed = %s, want 23:15", model.FormatClock(w.BedMin))
	}
	found := false
	for _, warn := range warnings {
		if strings.Contains(warn, "bedtime pushed") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected bedtime conflict warning, got %v", warnings)
	}
}

func TestAdaptiveNightOwlPrimePush(t *testing.T) {
	// Night owl, low need (6h), 09:00 commitment: the required 08:30 wake is
	// earlier than the 09:00 preference and wins. The ideal bedtime then
	// lands after midnight, below the 05:00 cutoff, so the prime-window push
	// leaves it alone.
	fixed := []model.FixedInterval{{ID: "work", Name: "Work", StartMin: 540, EndMin: 1020}}
	calc := NewWindowCalculator(nil)
	w, _ := calc.Adaptive(fixed, chronotype.NightOwl, 6, 30, 45, NoWakeOverride)
	if w.WakeMin != 510 {
		t.Fatalf("wake = %s, want 08:30", model.FormatClock(w.WakeMin))
	}
	// ideal bed 08:30 - 6h - 15min = 02:15
	if w.BedMin != 135 {
		t.Fatalf("bed = %s, want 02:15", model.FormatClock(w.BedMin))
	}
	if !w.LateBedtime() {
		t.Fatal("02:15 bedtime should be flagged late")
	}
}

func TestAdaptiveNightOwlHighNeedKeepsBedtime(t *testing.T) {
	// High need (9h) with a 06:00 wake: ideal bedtime 20:45 sits in the
	// prime window, but pushing to 22:15 would cost 90min of sleep, far past
	// the zero tolerance for 9h sleepers. Bedtime stays, with a warning.
	fixed := []model.FixedInterval{{ID: "early", Name: "Early call", StartMin: 390, EndMin: 450}}
	calc := NewWindowCalculator(nil)
	w, warnings := calc.Adaptive(fixed, chronotype.NightOwl, 9, 30, 45, NoWakeOverride)
	if w.WakeMin != 360 {
		t.Fatalf("wake = %s, want 06:00", model.FormatClock(w.WakeMin))
	}
	if w.BedMin != 1245 {
		t.Fatalf("bed = %s, want 20:45", model.FormatClock(w.BedMin))
	}
	found := false
	for _, warn := range warnings {
		if strings.Contains(warn, "prime window") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected prime-window warning, got %v", warnings)
	}
}

func TestAdaptiveIgnoresMarkers(t *testing.T) {
	fixed := []model.FixedInterval{
		{ID: "morning_routine", Name: "Morning routine", StartMin: 360, EndMin: 390},
		{ID: "sleep", Name: "Sleep", StartMin: 0, EndMin: 360},
	}
	calc := NewWindowCalculator(nil)
	w, _ := calc.Adaptive(fixed, chronotype.EarlyBird, 6, 30, 45, NoWakeOverride)
	// Only markers present: treated as a free day.
	if w.WakeMin != 360 || w.BedMin != 1425 {
		t.Fatalf("marker-only day window = %s-%s", model.FormatClock(w.BedMin), model.FormatClock(w.WakeMin))
	}
}

func TestDeficitWarning(t *testing.T) {
	// Commitment until 23:00 squeezes the window below the 7.5h need.
	fixed := []model.FixedInterval{{ID: "gig", Name: "Gig", StartMin: 1200, EndMin: 1380}}
	calc := NewWindowCalculator(nil)
	_, warnings := calc.Adaptive(fixed, chronotype.EarlyBird, 7.5, 30, 45, NoWakeOverride)
	found := false
	for _, w := range warnings {
		if strings.Contains(w, "sleep deficit") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected deficit warning, got %v", warnings)
	}
}
