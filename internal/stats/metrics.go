package stats

import (
	"time"

	"sprint-metrics/internal/jira"
)

// PrepareIssues narrows each issue's worklogs to the window, replays its status at
// the sprint end instant and sums the remaining hours. The input slice is not modified.
func PrepareIssues(issues []jira.Issue, window SprintWindow) []SprintIssue {
	prepared := make([]SprintIssue, 0, len(issues))
	for _, issue := range issues {
		issue.Worklogs = window.FilterWorklogs(issue.Worklogs)

		var hours float64
		for _, wl := range issue.Worklogs {
			hours += wl.HoursSpent
		}
		prepared = append(prepared, SprintIssue{
			Issue:       issue,
			StatusAtEnd: StatusAt(issue.History, window.Cutoff, issue.Status),
			HoursSpent:  Round2(hours),
		})
	}
	return prepared
}

// ComputeSprintMetrics runs every aggregator over one sprint's prepared issues.
func ComputeSprintMetrics(sprint jira.Sprint, issues []SprintIssue, window SprintWindow, now time.Time) SprintMetrics {
	dist := CalculateIssueTypeDistribution(issues)

	var total float64
	for _, issue := range issues {
		total += issue.HoursSpent
	}

	return SprintMetrics{
		SprintID:              sprint.ID,
		Name:                  sprint.Name,
		State:                 sprint.State,
		Start:                 window.Start,
		End:                   window.End,
		Velocity:              CalculateVelocity(issues),
		TotalHours:            Round2(total),
		TimeDistribution:      CalculateTimeDistribution(issues),
		AvgCompletionDays:     CalculateAverageCompletionDays(issues),
		TeamPerformance:       CalculateTeamPerformance(issues),
		Burndown:              CalculateBurndown(issues, window, now),
		Estimation:            CalculateEstimation(issues),
		IssueTypeDistribution: dist,
		BugRatio:              TypeRatio(dist, TypeBug),
		SupportRatio:          TypeRatio(dist, TypeSupport),
		Bugs:                  CalculateTypeSummary(issues, TypeBug, window),
		Support:               CalculateTypeSummary(issues, TypeSupport, window),
		ScopeChanges:          CalculateScopeChanges(issues, sprint.Name, window),
		DetailedIssues:        DetailIssues(issues),
	}
}

// DetailIssues flattens prepared issues into report rows.
func DetailIssues(issues []SprintIssue) []IssueDetail {
	rows := make([]IssueDetail, 0, len(issues))
	for _, issue := range issues {
		var class string
		if EstimationStatuses.Contains(issue.Status) {
			class = ClassifyEstimate(issue.StoryPoints, issue.HoursSpent)
		}
		rows = append(rows, IssueDetail{
			Key:            issue.Key,
			Summary:        issue.Summary,
			IssueType:      issue.IssueType,
			Assignee:       issue.Assignee,
			Status:         issue.Status,
			StatusAtEnd:    issue.StatusAtEnd,
			StoryPoints:    issue.StoryPoints,
			HoursSpent:     issue.HoursSpent,
			ParentSummary:  issue.ParentSummary,
			Classification: class,
		})
	}
	return rows
}
