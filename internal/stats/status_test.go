package stats

import (
	"testing"
	"time"

	"sprint-metrics/internal/jira"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 12, 0, 0, 0, utcMinus3)
}

func statusEntry(d int, from, to string) jira.HistoryEntry {
	return jira.HistoryEntry{
		Created: day(d),
		Items:   []jira.ChangeItem{{Field: "status", From: from, To: to}},
	}
}

func TestStatusAt(t *testing.T) {
	cutoff := time.Date(2024, 1, 14, 23, 59, 59, 0, utcMinus3)

	tests := []struct {
		name     string
		history  []jira.HistoryEntry
		current  string
		expected string
	}{
		{
			name: "IgnoresChangesAfterCutoff",
			history: []jira.HistoryEntry{
				statusEntry(5, "To Do", "In Progress"),
				{Created: day(20), Items: []jira.ChangeItem{{Field: "status", To: "Done"}}},
			},
			current:  "Done",
			expected: "In Progress",
		},
		{
			name: "UnorderedInput",
			history: []jira.HistoryEntry{
				statusEntry(10, "In Progress", "Done"),
				statusEntry(3, "To Do", "In Progress"),
			},
			current:  "Done",
			expected: "Done",
		},
		{
			name: "NoChangeBeforeCutoffUsesEarliestFrom",
			history: []jira.HistoryEntry{
				statusEntry(18, "To Do", "In Progress"),
				statusEntry(20, "In Progress", "Done"),
			},
			current:  "Done",
			expected: "To Do",
		},
		{
			name:     "NoHistoryUsesCurrent",
			history:  nil,
			current:  "In Progress",
			expected: "In Progress",
		},
		{
			name: "OnlyNonStatusFieldsUsesCurrent",
			history: []jira.HistoryEntry{
				{Created: day(2), Items: []jira.ChangeItem{{Field: "assignee", From: "", To: "Ana"}}},
			},
			current:  "Blocked",
			expected: "Blocked",
		},
		{
			name: "LastStatusItemInEntryWins",
			history: []jira.HistoryEntry{
				{Created: day(4), Items: []jira.ChangeItem{
					{Field: "status", From: "To Do", To: "In Progress"},
					{Field: "resolution", To: "Fixed"},
					{Field: "Status", From: "In Progress", To: "CODE REVIEW"},
				}},
			},
			current:  "Done",
			expected: "CODE REVIEW",
		},
		{
			name: "ChangeExactlyAtCutoffCounts",
			history: []jira.HistoryEntry{
				{Created: cutoff, Items: []jira.ChangeItem{{Field: "status", From: "In Progress", To: "Done"}}},
			},
			current:  "Done",
			expected: "Done",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusAt(tt.history, cutoff, tt.current); got != tt.expected {
				t.Errorf("StatusAt() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestStatusAt_IdempotentAndNonMutating(t *testing.T) {
	history := []jira.HistoryEntry{
		statusEntry(9, "In Progress", "Done"),
		statusEntry(2, "To Do", "In Progress"),
	}
	cutoff := day(5)

	first := StatusAt(history, cutoff, "Done")
	second := StatusAt(history, cutoff, "Done")
	if first != second || first != "In Progress" {
		t.Errorf("expected stable In Progress, got %q then %q", first, second)
	}
	if !history[0].Created.Equal(day(9)) {
		t.Error("input history was reordered")
	}
}
