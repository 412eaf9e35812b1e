package stats

import "sprint-metrics/internal/jira"

// CalculateTimeDistribution sums worklog hours per phase of each issue's current status.
// Phases without hours are omitted.
func CalculateTimeDistribution(issues []SprintIssue) map[string]float64 {
	dist := make(map[string]float64)
	for _, issue := range issues {
		if issue.HoursSpent == 0 {
			continue
		}
		dist[PhaseOf(issue.Status)] += issue.HoursSpent
	}
	for phase, hours := range dist {
		if hours == 0 {
			delete(dist, phase)
			continue
		}
		dist[phase] = Round2(hours)
	}
	return dist
}

// CalculateAverageCompletionDays averages whole days from creation to resolution
// over finished issues. Negative spans are data anomalies and are skipped.
func CalculateAverageCompletionDays(issues []SprintIssue) float64 {
	var spans []float64
	for _, issue := range issues {
		if !CompletionTimeStatuses.Contains(issue.Status) {
			continue
		}
		if days, ok := resolutionDays(issue.Issue); ok {
			spans = append(spans, float64(days))
		}
	}
	return Round1(Mean(spans))
}

// resolutionDays returns whole days between creation and resolution.
func resolutionDays(issue jira.Issue) (int, bool) {
	if issue.ResolutionDate == nil || issue.Created.IsZero() {
		return 0, false
	}
	delta := issue.ResolutionDate.Sub(issue.Created)
	if delta < 0 {
		return 0, false
	}
	return int(delta.Hours() / 24), true
}

// CalculateIssueTypeDistribution counts issues per type.
func CalculateIssueTypeDistribution(issues []SprintIssue) map[string]int {
	dist := make(map[string]int)
	for _, issue := range issues {
		dist[issue.IssueType]++
	}
	return dist
}

// TypeRatio returns the share of issueType relative to Story+Task, as a percentage.
func TypeRatio(dist map[string]int, issueType string) float64 {
	return Round1(Percentage(float64(dist[issueType]), float64(dist[TypeStory]+dist[TypeTask])))
}

// CalculateTaskSummary returns count and hours per issue type.
func CalculateTaskSummary(issues []SprintIssue) map[string]TaskSummary {
	summary := make(map[string]TaskSummary)
	for _, issue := range issues {
		s := summary[issue.IssueType]
		s.Count++
		s.TotalHours = Round2(s.TotalHours + issue.HoursSpent)
		summary[issue.IssueType] = s
	}
	return summary
}

// CalculateTypeSummary reports how many issues of a type were created and resolved
// inside the window, and their average resolution time in days.
func CalculateTypeSummary(issues []SprintIssue, issueType string, window SprintWindow) TypeSummary {
	var (
		summary TypeSummary
		spans   []float64
	)
	for _, issue := range issues {
		if issue.IssueType != issueType {
			continue
		}
		if !issue.Created.IsZero() && window.Contains(issue.Created) {
			summary.Created++
		}
		if issue.ResolutionDate == nil || !window.Contains(*issue.ResolutionDate) || !ResolvedStatuses.Contains(issue.Status) {
			continue
		}
		summary.Resolved++
		if days, ok := resolutionDays(issue.Issue); ok {
			spans = append(spans, float64(days))
		}
	}
	summary.AvgResolutionDays = Round1(Mean(spans))
	return summary
}
