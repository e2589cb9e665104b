// Package chronotype classifies users from their morningness questionnaire
// score and exposes the productivity windows associated with each type.
package chronotype

import "github.com/aurelh/chronoplan/core/model"

// Chronotype is the circadian preference bucket a user falls into.
type Chronotype string

const (
	EarlyBird    Chronotype = "early_bird"
	Intermediate Chronotype = "intermediate"
	NightOwl     Chronotype = "night_owl"
	Unknown      Chronotype = "unknown"
)

func (c Chronotype) String() string { return string(c) }

// PrimeWindow is the hour span during which a chronotype is at its most
// productive. EndHour is exclusive.
type PrimeWindow struct {
	StartHour int
	EndHour   int
}

// Contains reports whether the given hour falls inside the window.
func (w PrimeWindow) Contains(hour int) bool {
	return hour >= w.StartHour && hour < w.EndHour
}

// Classifier turns a questionnaire score into a chronotype.
type Classifier interface {
	Classify(meqScore int) Chronotype
}

// Analyzer classifies a user profile into a chronotype and its prime
// productivity window. Pure function of the score.
type Analyzer interface {
	Classify(profile model.Profile) (Chronotype, PrimeWindow)
}

// MEQAnalyzer is the default Analyzer, backed by the MEQ score bands.
type MEQAnalyzer struct {
	classifier MEQClassifier
}

// Classify returns the chronotype and prime window for the profile's MEQ
// score. Out-of-range scores classify as Unknown, never an error.
func (a MEQAnalyzer) Classify(profile model.Profile) (Chronotype, PrimeWindow) {
	ct := a.classifier.Classify(profile.MEQScore)
	return ct, Prime(ct)
}

// MEQClassifier applies the standard Horne-Ostberg score bands.
type MEQClassifier struct{}

// Classify maps an MEQ total to a chronotype. Scores outside the valid
// 16-86 range return Unknown.
func (MEQClassifier) Classify(meqScore int) Chronotype {
	switch {
	case meqScore >= 59 && meqScore <= 86:
		return EarlyBird
	case meqScore >= 42 && meqScore <= 58:
		return Intermediate
	case meqScore >= 16 && meqScore <= 41:
		return NightOwl
	default:
		return Unknown
	}
}

// Prime returns the productivity window for a chronotype.
func Prime(c Chronotype) PrimeWindow {
	switch c {
	case EarlyBird:
		return PrimeWindow{StartHour: 7, EndHour: 11}
	case Intermediate:
		return PrimeWindow{StartHour: 10, EndHour: 16}
	case NightOwl:
		return PrimeWindow{StartHour: 17, EndHour: 22}
	default:
		return PrimeWindow{StartHour: 10, EndHour: 14}
	}
}
