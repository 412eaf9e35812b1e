package stats

import (
	"time"

	"sprint-metrics/internal/jira"
)

// SprintWindow is the closed interval during which worklog hours count toward a sprint.
// Cutoff is the sprint end instant itself, used for status replay.
type SprintWindow struct {
	Start    time.Time      `json:"start"`
	End      time.Time      `json:"end"`
	Cutoff   time.Time      `json:"cutoff"`
	Location *time.Location `json:"-"`
}

// NewSprintWindow localises the sprint bounds to loc. The start is kept to the
// second; the end is extended to 23:59:59 of its calendar day. Cutoff keeps the
// unextended end.
func NewSprintWindow(start, end time.Time, loc *time.Location) SprintWindow {
	if loc == nil {
		loc = time.UTC
	}
	return SprintWindow{
		Start:    start.In(loc).Truncate(time.Second),
		End:      SnapToEnd(end.In(loc)),
		Cutoff:   end.In(loc),
		Location: loc,
	}
}

// WindowForSprint builds the window for a sprint's start and end dates.
func WindowForSprint(s jira.Sprint, loc *time.Location) SprintWindow {
	return NewSprintWindow(s.Start, s.End, loc)
}

// SnapToStart normalizes a timestamp to the beginning of its day (0:00:00).
func SnapToStart(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SnapToEnd normalizes a timestamp to the last second of its day (23:59:59).
func SnapToEnd(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

// Contains reports whether t, viewed in the window's timezone, lies inside [Start, End].
func (w SprintWindow) Contains(t time.Time) bool {
	local := t.In(w.Location)
	return !local.Before(w.Start) && !local.After(w.End)
}

// FilterWorklogs keeps the worklogs whose start instant falls inside the window, preserving order.
func (w SprintWindow) FilterWorklogs(worklogs []jira.Worklog) []jira.Worklog {
	filtered := make([]jira.Worklog, 0, len(worklogs))
	for _, wl := range worklogs {
		if w.Contains(wl.Started) {
			filtered = append(filtered, wl)
		}
	}
	return filtered
}

// Days returns the calendar days of the window, inclusive, as local midnights.
func (w SprintWindow) Days() []time.Time {
	if w.Start.IsZero() || w.End.IsZero() {
		return nil
	}
	var days []time.Time
	last := SnapToStart(w.End)
	for d := SnapToStart(w.Start); !d.After(last); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// DayKey formats a day the way burndown series are keyed.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// FormatDay is DayKey for set instants and empty for the zero time.
func FormatDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return DayKey(t)
}
