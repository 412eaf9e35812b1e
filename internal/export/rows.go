package export

import (
	"slices"
	"strconv"

	"sprint-metrics/internal/stats"
)

var sprintAnalysisHeaders = []string{
	"Issue Type", "Issue Key", "Summary", "Assignee", "Status",
	"Time Spent", "Story Points", "Story Points vs Time", "Parent Summary",
}

var comparisonHeaders = []string{
	"Sprint", "Start", "End", "Committed Points", "Completed Points", "Say/Do %",
	"Total Hours", "Bug Ratio %", "Support Ratio %", "Estimation Accuracy %", "Avg Completion Days",
}

func (e *Exporter) sprintAnalysisHeaders() []string {
	if e.extraLabel == "" {
		return sprintAnalysisHeaders
	}
	return append(slices.Clone(sprintAnalysisHeaders), e.extraLabel)
}

func (e *Exporter) sprintAnalysisRows(m *stats.SprintMetrics) [][]any {
	rows := make([][]any, 0, len(m.DetailedIssues))
	for _, d := range m.DetailedIssues {
		assignee := d.Assignee
		if assignee == "" {
			assignee = "Unassigned"
		}
		row := []any{
			d.IssueType, d.Key, d.Summary, assignee, d.Status,
			d.HoursSpent, pointsCell(d.StoryPoints), d.Classification, d.ParentSummary,
		}
		if e.extraLabel != "" {
			row = append(row, d.ExtraField)
		}
		rows = append(rows, row)
	}
	return rows
}

// pointsCell leaves unestimated issues blank.
func pointsCell(points float64) string {
	if points <= 0 {
		return ""
	}
	return strconv.FormatFloat(points, 'f', 1, 64)
}

func comparisonRow(s stats.SprintComparison) []any {
	return []any{
		s.Name, s.Start, s.End, s.CommittedPoints, s.CompletedPoints, s.SayDoRatio,
		s.TotalHours, s.BugRatio, s.SupportRatio, s.EstimationAccuracy, s.AvgCompletionDays,
	}
}
