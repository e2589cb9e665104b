package model

import (
	"fmt"
	"strconv"
	"strings"
)

// MinutesPerDay is the length of the scheduling horizon. All times in the
// core are expressed as minutes since midnight in the range [0, 1440].
const MinutesPerDay = 1440

// FormatClock renders minutes-since-midnight as "HH:MM". 1440 renders as
// "24:00" so fixed intervals ending at midnight stay unambiguous.
func FormatClock(min int) string {
	if min >= MinutesPerDay {
		return "24:00"
	}
	if min < 0 {
		min = 0
	}
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}

// ParseClock parses "HH:MM" into minutes since midnight. "24:00" maps to
// 1440.
func ParseClock(s string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	if h == 24 && m == 0 {
		return MinutesPerDay, nil
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock time %q out of range", s)
	}
	return h*60 + m, nil
}

// WrapMinute normalizes a possibly negative or overflowed minute value into
// [0, 1440).
func WrapMinute(min int) int {
	min %= MinutesPerDay
	if min < 0 {
		min += MinutesPerDay
	}
	return min
}
