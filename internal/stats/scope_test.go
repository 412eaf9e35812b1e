package stats

import (
	"testing"

	"sprint-metrics/internal/jira"
)

func sprintEntry(d int, from, to string) jira.HistoryEntry {
	return jira.HistoryEntry{
		Created: day(d),
		Items:   []jira.ChangeItem{{Field: "Sprint", From: from, To: to}},
	}
}

func TestCalculateScopeChanges(t *testing.T) {
	w := NewSprintWindow(day(2), day(14), utcMinus3)

	planned := sprintIssue("A-1", "Story", "", "", 0, 0)
	planned.History = []jira.HistoryEntry{sprintEntry(1, "", "Sprint 7")}

	added := sprintIssue("A-2", "Story", "", "", 0, 0)
	added.History = []jira.HistoryEntry{sprintEntry(5, "Sprint 6", "Sprint 6, Sprint 7")}

	removed := sprintIssue("A-3", "Story", "", "", 0, 0)
	removed.History = []jira.HistoryEntry{sprintEntry(1, "", "Sprint 7"), sprintEntry(8, "Sprint 7", "Sprint 8")}

	bounced := sprintIssue("A-4", "Story", "", "", 0, 0)
	bounced.History = []jira.HistoryEntry{sprintEntry(9, "Sprint 7", ""), sprintEntry(4, "", "Sprint 7")}

	similar := sprintIssue("A-5", "Story", "", "", 0, 0)
	similar.History = []jira.HistoryEntry{sprintEntry(5, "", "Sprint 70")}

	got := CalculateScopeChanges([]SprintIssue{planned, added, removed, bounced, similar}, "Sprint 7", w)

	if len(got.Added) != 1 || got.Added[0] != "A-2" {
		t.Errorf("added = %v, want [A-2]", got.Added)
	}
	if len(got.Removed) != 2 || got.Removed[0] != "A-3" || got.Removed[1] != "A-4" {
		t.Errorf("removed = %v, want [A-3 A-4]", got.Removed)
	}
}
