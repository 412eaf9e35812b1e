package jira

import (
	"strconv"
	"strings"
	"time"
)

// Hours per unit in tracker durations. A working day is 8 hours.
var durationUnits = map[byte]float64{
	'd': 8,
	'h': 1,
	'm': 1.0 / 60.0,
}

// timestampLayouts are tried in order. The first is the tracker's native format.
var timestampLayouts = []string{
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02T15:04:05-0700",
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02T15:04:05-07",
	"2006-01-02T15:04:05.000-07",
}

// ParseTimestamp parses an ISO-8601 timestamp carrying an explicit offset.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, &MalformedTimestampError{Input: s}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &MalformedTimestampError{Input: s}
}

// parseOptionalTime treats an empty or unparsable value as absent.
func parseOptionalTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := ParseTimestamp(s)
	if err != nil {
		return nil
	}
	return &t
}

// ParseDuration converts a tracker duration such as "1d 4h 30m" to hours.
func ParseDuration(s string) (float64, error) {
	var total float64
	for _, token := range strings.Fields(s) {
		if len(token) < 2 {
			return 0, &MalformedDurationError{Input: s, Token: token}
		}
		unit := token[len(token)-1]
		factor, ok := durationUnits[unit]
		if !ok {
			return 0, &MalformedDurationError{Input: s, Token: token}
		}
		value, err := strconv.ParseFloat(token[:len(token)-1], 64)
		if err != nil || value < 0 {
			return 0, &MalformedDurationError{Input: s, Token: token}
		}
		total += value * factor
	}
	return total, nil
}
