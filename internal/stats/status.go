package stats

import (
	"strings"
	"time"

	"sprint-metrics/internal/jira"
)

const statusField = "status"

// StatusAt replays an issue's change history and returns the status it held at cutoff.
//
// The latest status reached at or before cutoff wins. When nothing changed by then,
// the earliest recorded "from" status is the issue's state at cutoff. Without any
// status history the current status is returned.
func StatusAt(history []jira.HistoryEntry, cutoff time.Time, current string) string {
	if len(history) == 0 {
		return current
	}

	var (
		earliestFrom string
		seenFrom     bool
		latestTo     string
		reached      bool
	)
	for _, entry := range sortedHistory(history) {
		change, ok := lastStatusChange(entry)
		if !ok {
			continue
		}
		if !seenFrom {
			earliestFrom = change.From
			seenFrom = true
		}
		if !entry.Created.After(cutoff) {
			latestTo = change.To
			reached = true
		}
	}

	switch {
	case reached:
		return latestTo
	case seenFrom && earliestFrom != "":
		return earliestFrom
	default:
		return current
	}
}

// lastStatusChange returns the last status item of an entry in iteration order.
func lastStatusChange(entry jira.HistoryEntry) (jira.ChangeItem, bool) {
	var (
		found jira.ChangeItem
		ok    bool
	)
	for _, item := range entry.Items {
		if strings.EqualFold(item.Field, statusField) {
			found = item
			ok = true
		}
	}
	return found, ok
}
