package energy

import (
	"math"
	"testing"

	"github.com/aurelh/chronoplan/core/chronotype"
	"github.com/aurelh/chronoplan/core/model"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCurveSleepHoursAreZero(t *testing.T) {
	p := NewCurveProvider(nil)
	sleep := model.SleepWindow{BedMin: 23 * 60, WakeMin: 7 * 60}
	c := p.Curve(chronotype.Intermediate, sleep)
	for _, h := range []int{23, 0, 1, 2, 3, 4, 5, 6} {
		if c[h] != 0 {
			t.Fatalf("hour %d during sleep has energy %f", h, c[h])
		}
	}
	if c[7] == 0 {
		t.Fatal("wake hour should have energy")
	}
}

func TestCurvePrimePeaksMidWindow(t *testing.T) {
	p := NewCurveProvider(nil)
	sleep := model.SleepWindow{BedMin: 23 * 60, WakeMin: 6 * 60}
	c := p.Curve(chronotype.EarlyBird, sleep)
	// Prime window 07:00-11:00, middle at 09:00.
	if c[9] != 1.0 {
		t.Fatalf("mid-prime energy = %f, want 1.0", c[9])
	}
	for _, h := range []int{7, 8, 10} {
		if c[h] < 0.9 {
			t.Fatalf("prime hour %d below 0.9: %f", h, c[h])
		}
	}
}

func TestCurveShoulderRamps(t *testing.T) {
	p := NewCurveProvider(nil)
	sleep := model.SleepWindow{BedMin: 1 * 60, WakeMin: 9 * 60}
	c := p.Curve(chronotype.NightOwl, sleep)
	// Prime 17:00-22:00: shoulders at 15-16 ramp up, 22-23 ramp down. The
	// night owl boost scales every level by 1.1.
	if !approx(c[16], 0.66) {
		t.Fatalf("pre-prime shoulder = %f, want 0.66", c[16])
	}
	if !approx(c[15], 0.55) {
		t.Fatalf("outer pre-prime shoulder = %f, want 0.55", c[15])
	}
	if !approx(c[22], 0.88) {
		t.Fatalf("post-prime shoulder = %f, want 0.88", c[22])
	}
}

func TestCurveOffPeakByChronotype(t *testing.T) {
	p := NewCurveProvider(nil)
	sleep := model.SleepWindow{BedMin: 2 * 60, WakeMin: 5 * 60}
	early := p.Curve(chronotype.EarlyBird, sleep)
	if !approx(early[21], 0.33) {
		t.Fatalf("early bird late evening = %f, want 0.33", early[21])
	}
	owl := p.Curve(chronotype.NightOwl, sleep)
	if !approx(owl[6], 0.33) {
		t.Fatalf("night owl early morning = %f, want 0.33", owl[6])
	}
}

func TestCurveBoostsPronouncedChronotypes(t *testing.T) {
	p := NewCurveProvider(nil)
	sleep := model.SleepWindow{BedMin: 23 * 60, WakeMin: 6 * 60}
	c := p.Curve(chronotype.EarlyBird, sleep)
	// Mid-afternoon off-peak sits at 0.5 before the boost.
	if !approx(c[14], 0.55) {
		t.Fatalf("boosted off-peak = %f, want 0.55", c[14])
	}
	// Sleep hours stay at zero and prime hours clamp at 1.
	if c[2] != 0 {
		t.Fatalf("sleep hour boosted to %f", c[2])
	}
	if c[9] != 1.0 {
		t.Fatalf("mid-prime = %f, want clamp at 1.0", c[9])
	}
	// The intermediate baseline is left alone.
	mid := p.Curve(chronotype.Intermediate, sleep)
	if mid[19] != 0.4 {
		t.Fatalf("intermediate off-peak = %f, want 0.4", mid[19])
	}
}
