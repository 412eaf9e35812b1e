package stats

import (
	"slices"
	"strings"

	"sprint-metrics/internal/jira"
)

const sprintField = "sprint"

// CalculateScopeChanges finds issues whose sprint membership changed while the sprint
// was running. Only the last membership change inside the window counts per issue.
func CalculateScopeChanges(issues []SprintIssue, sprintName string, window SprintWindow) ScopeChanges {
	changes := ScopeChanges{Added: make([]string, 0), Removed: make([]string, 0)}
	if sprintName == "" || window.Start.IsZero() {
		return changes
	}

	for _, issue := range issues {
		var last string
		for _, entry := range sortedHistory(issue.History) {
			if entry.Created.Before(window.Start) || entry.Created.After(window.End) {
				continue
			}
			for _, item := range entry.Items {
				if !strings.EqualFold(item.Field, sprintField) {
					continue
				}
				was, is := inSprintList(item.From, sprintName), inSprintList(item.To, sprintName)
				switch {
				case is && !was:
					last = "added"
				case was && !is:
					last = "removed"
				}
			}
		}
		switch last {
		case "added":
			changes.Added = append(changes.Added, issue.Key)
		case "removed":
			changes.Removed = append(changes.Removed, issue.Key)
		}
	}
	slices.Sort(changes.Added)
	slices.Sort(changes.Removed)
	return changes
}

// inSprintList reports whether a comma separated sprint list names sprint.
func inSprintList(list, sprint string) bool {
	for _, name := range strings.Split(list, ",") {
		if strings.TrimSpace(name) == sprint {
			return true
		}
	}
	return false
}

// sortedHistory returns history ordered by instant without touching the input.
func sortedHistory(history []jira.HistoryEntry) []jira.HistoryEntry {
	sorted := slices.Clone(history)
	slices.SortStableFunc(sorted, func(a, b jira.HistoryEntry) int {
		return a.Created.Compare(b.Created)
	})
	return sorted
}
