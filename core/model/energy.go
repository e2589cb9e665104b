package model

import "gonum.org/v1/gonum/floats"

// EnergyCurve maps each hour of the day to a preference score in [0,1].
// Higher values mean the user performs better during that hour.
type EnergyCurve [24]float64

// FlatCurve returns a neutral curve used when no chronotype data is
// available.
func FlatCurve() EnergyCurve {
	var c EnergyCurve
	for h := range c {
		c[h] = 0.5
	}
	return c
}

// At returns the level for the given hour, defaulting to 0.5 when the hour
// is out of range.
func (c EnergyCurve) At(hour int) float64 {
	if hour < 0 || hour > 23 {
		return 0.5
	}
	return c[hour]
}

// Boost scales the whole curve by factor, clamping every hour back into
// [0,1]. Used to linearly amplify curves for pronounced chronotypes.
func (c EnergyCurve) Boost(factor float64) EnergyCurve {
	out := c
	floats.Scale(factor, out[:])
	for h, v := range out {
		if v > 1 {
			out[h] = 1
		}
		if v < 0 {
			out[h] = 0
		}
	}
	return out
}
