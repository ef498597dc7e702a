package utils

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
)

var ErrInvalidDuration = errors.New("invalid duration")

var durationUnits = map[string]time.Duration{
	"s":       time.Second,
	"sec":     time.Second,
	"secs":    time.Second,
	"second":  time.Second,
	"seconds": time.Second,
	"m":       time.Minute,
	"min":     time.Minute,
	"mins":    time.Minute,
	"minute":  time.Minute,
	"minutes": time.Minute,
	"h":       time.Hour,
	"hr":      time.Hour,
	"hrs":     time.Hour,
	"hour":    time.Hour,
	"hours":   time.Hour,
	"d":       24 * time.Hour,
	"day":     24 * time.Hour,
	"days":    24 * time.Hour,
	"w":       7 * 24 * time.Hour,
	"week":    7 * 24 * time.Hour,
	"weeks":   7 * 24 * time.Hour,
}

// ParseDuration extends time.ParseDuration with days and weeks and accepts
// compound human input such as "1d12h", "2 days" or "90". A bare number is
// read as seconds. Units are truncated to whole seconds.
func ParseDuration(input string) (time.Duration, error) {
	value := strings.ToLower(strings.TrimSpace(input))
	if value == "" {
		return 0, ErrInvalidDuration
	}
	if seconds, err := strconv.ParseFloat(value, 64); err == nil {
		if math.IsInf(seconds, 0) || math.IsNaN(seconds) {
			return 0, ErrInvalidDuration
		}
		return (time.Duration(seconds * float64(time.Second))).Truncate(time.Second), nil
	}

	var total time.Duration
	rest := strings.ReplaceAll(value, " ", "")
	for rest != "" {
		numEnd := strings.IndexFunc(rest, func(r rune) bool { return !unicode.IsDigit(r) && r != '.' && r != '-' })
		if numEnd <= 0 {
			return 0, ErrInvalidDuration
		}
		number, err := strconv.ParseFloat(rest[:numEnd], 64)
		if err != nil {
			return 0, ErrInvalidDuration
		}
		rest = rest[numEnd:]
		unitEnd := strings.IndexFunc(rest, func(r rune) bool { return unicode.IsDigit(r) || r == '.' || r == '-' })
		if unitEnd < 0 {
			unitEnd = len(rest)
		}
		unit, ok := durationUnits[rest[:unitEnd]]
		if !ok {
			return 0, ErrInvalidDuration
		}
		rest = rest[unitEnd:]
		total += time.Duration(number * float64(unit))
	}
	return total.Truncate(time.Second), nil
}
