// Package energy derives 24-hour energy curves from a user's chronotype and
// sleep window. The solver uses the curve to place demanding tasks during
// hours of peak cognitive performance.
package energy

import (
	"math"

	"github.com/aurelh/chronoplan/core/chronotype"
	"github.com/aurelh/chronoplan/core/logger"
	"github.com/aurelh/chronoplan/core/model"
)

// Provider builds the hourly energy curve for one user and night.
type Provider interface {
	Curve(ct chronotype.Chronotype, sleep model.SleepWindow) model.EnergyCurve
}

// CurveProvider is the default Provider implementation.
type CurveProvider struct {
	logger logger.Logger
}

// NewCurveProvider returns a Provider that logs each generated curve.
func NewCurveProvider(log logger.Logger) *CurveProvider {
	return &CurveProvider{logger: log}
}

// boostFactor linearly amplifies the curve for pronounced chronotypes so
// their waking hours stand out more against the intermediate baseline.
const boostFactor = 1.1

// Curve builds the curve hour by hour: zero during sleep, near-peak inside
// the prime window, a two-hour ramp on either side, and chronotype-specific
// off-peak levels elsewhere. Early birds and night owls get the whole curve
// boosted, clamped back into [0,1].
func (p *CurveProvider) Curve(ct chronotype.Chronotype, sleep model.SleepWindow) model.EnergyCurve {
	prime := chronotype.Prime(ct)
	bedHour := sleep.BedMin / 60
	wakeHour := sleep.WakeMin / 60

	var curve model.EnergyCurve
	for hour := 0; hour < 24; hour++ {
		curve[hour] = hourEnergy(hour, prime, bedHour, wakeHour, ct)
	}
	if ct == chronotype.EarlyBird || ct == chronotype.NightOwl {
		curve = curve.Boost(boostFactor)
	}

	if p.logger != nil {
		peak := 0
		for _, v := range curve {
			if v >= 0.9 {
				peak++
			}
		}
		p.logger.Debugf("energy curve built: chronotype=%s prime=[%02d:00,%02d:00) peak_hours=%d",
			ct, prime.StartHour, prime.EndHour, peak)
	}
	return curve
}

func hourEnergy(hour int, prime chronotype.PrimeWindow, bedHour, wakeHour int, ct chronotype.Chronotype) float64 {
	if isSleepHour(hour, bedHour, wakeHour) {
		return 0
	}
	if prime.Contains(hour) {
		return primeEnergy(hour, prime)
	}
	if isShoulderHour(hour, prime) {
		return shoulderEnergy(hour, prime, ct)
	}
	return offPeakEnergy(hour, ct)
}

// isSleepHour handles the midnight crossing: bedtime 23h with wake 7h marks
// hours 23 and 0-6 as sleep.
func isSleepHour(hour, bedHour, wakeHour int) bool {
	if bedHour > wakeHour {
		return hour >= bedHour || hour < wakeHour
	}
	return hour >= bedHour && hour < wakeHour
}

func isShoulderHour(hour int, prime chronotype.PrimeWindow) bool {
	if hour >= prime.StartHour-2 && hour < prime.StartHour {
		return true
	}
	return hour >= prime.EndHour && hour < prime.EndHour+2
}

// primeEnergy peaks in the middle of the window and tapers slightly toward
// the edges, never dropping below 0.9.
func primeEnergy(hour int, prime chronotype.PrimeWindow) float64 {
	middle := float64(prime.StartHour+prime.EndHour) / 2
	maxDist := float64(prime.EndHour-prime.StartHour) / 2
	if maxDist <= 0 {
		return 1.0
	}
	e := 1.0 - math.Abs(float64(hour)-middle)/maxDist*0.1
	return math.Max(0.9, e)
}

// shoulderEnergy ramps toward the prime window. Early birds climb steeply in
// the morning and fade slowly at night; night owls do the opposite.
func shoulderEnergy(hour int, prime chronotype.PrimeWindow, ct chronotype.Chronotype) float64 {
	if hour < prime.StartHour {
		d := float64(prime.StartHour-hour) - 1
		switch ct {
		case chronotype.EarlyBird:
			return 0.8 - d*0.15
		case chronotype.NightOwl:
			return 0.6 - d*0.1
		default:
			return 0.7 - d*0.1
		}
	}
	d := float64(hour - prime.EndHour)
	switch ct {
	case chronotype.EarlyBird:
		return 0.8 - d*0.1
	case chronotype.NightOwl:
		return 0.8 - d*0.15
	default:
		return 0.7 - d*0.1
	}
}

func offPeakEnergy(hour int, ct chronotype.Chronotype) float64 {
	switch ct {
	case chronotype.EarlyBird:
		switch {
		case hour >= 20:
			return 0.3
		case hour <= 6:
			return 0.4
		default:
			return 0.5
		}
	case chronotype.NightOwl:
		switch {
		case hour <= 9:
			return 0.3
		case hour >= 22:
			return 0.5
		default:
			return 0.4
		}
	default:
		return 0.4
	}
}
