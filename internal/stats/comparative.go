package stats

import (
	"fmt"
	"slices"
	"strings"
)

// MaxComparedSprints bounds a comparative request.
const MaxComparedSprints = 10

// Insight thresholds, in percent.
const (
	lowVelocityRatio   = 0.8
	highVelocityRatio  = 1.2
	bugHeavyRatio      = 25.0
	supportHeavyRatio  = 30.0
	lowAccuracyPercent = 70.0
)

// Insight kinds.
const (
	InsightAlert   = "alert"
	InsightSuccess = "success"
)

// SprintAnalysis pairs a sprint's metrics with the prepared issues behind them.
type SprintAnalysis struct {
	Metrics SprintMetrics
	Issues  []SprintIssue
}

// SprintComparison is one row of the cross-sprint table.
type SprintComparison struct {
	SprintID           int     `json:"id"`
	Name               string  `json:"name"`
	Start              string  `json:"start"`
	End                string  `json:"end"`
	CommittedPoints    float64 `json:"committed_points"`
	CompletedPoints    float64 `json:"completed_points"`
	SayDoRatio         float64 `json:"say_do_ratio"`
	TotalHours         float64 `json:"total_hours"`
	BugRatio           float64 `json:"bug_ratio"`
	SupportRatio       float64 `json:"support_ratio"`
	EstimationAccuracy float64 `json:"estimation_accuracy"`
	AvgCompletionDays  float64 `json:"avg_completion_days"`
}

// DeveloperSummary aggregates one person across all compared sprints.
type DeveloperSummary struct {
	Name            string  `json:"name"`
	CompletedPoints float64 `json:"completed_points"`
	Hours           float64 `json:"total_hours"`
	CompletedTasks  int     `json:"completed_tasks"`
	Sprints         int     `json:"sprints"`
}

// Insight is a threshold-triggered observation.
type Insight struct {
	Kind        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ComparativeReport is the cross-sprint analysis.
type ComparativeReport struct {
	Sprints         []SprintComparison `json:"sprints"`
	Developers      []DeveloperSummary `json:"developers"`
	AverageVelocity float64            `json:"average_velocity"`
	AverageAccuracy float64            `json:"average_estimation_accuracy"`
	Insights        []Insight          `json:"insights"`
	Recommendations []string           `json:"recommendations"`
}

// ValidateSprintSelection rejects empty or oversized comparative requests.
func ValidateSprintSelection(ids []int) error {
	switch {
	case len(ids) == 0:
		return &ValidationError{Field: "sprint_ids", Message: "select at least one sprint"}
	case len(ids) > MaxComparedSprints:
		return &ValidationError{
			Field:   "sprint_ids",
			Message: fmt.Sprintf("at most %d sprints can be compared, got %d", MaxComparedSprints, len(ids)),
		}
	}
	return nil
}

// CompareSprints builds the comparative report. Sprints are ordered by start date;
// the last one is treated as the latest.
func CompareSprints(analyses []SprintAnalysis) ComparativeReport {
	ordered := slices.Clone(analyses)
	slices.SortStableFunc(ordered, func(a, b SprintAnalysis) int {
		return a.Metrics.Start.Compare(b.Metrics.Start)
	})

	report := ComparativeReport{
		Sprints:         make([]SprintComparison, 0, len(ordered)),
		Insights:        make([]Insight, 0),
		Recommendations: make([]string, 0),
	}

	var velocities, accuracies []float64
	for _, a := range ordered {
		m := a.Metrics
		report.Sprints = append(report.Sprints, SprintComparison{
			SprintID:           m.SprintID,
			Name:               m.Name,
			Start:              FormatDay(m.Start),
			End:                FormatDay(m.End),
			CommittedPoints:    m.Velocity.CommittedPoints,
			CompletedPoints:    m.Velocity.CompletedPoints,
			SayDoRatio:         m.Velocity.SayDoRatio,
			TotalHours:         m.TotalHours,
			BugRatio:           m.BugRatio,
			SupportRatio:       m.SupportRatio,
			EstimationAccuracy: m.Estimation.AccuracyPercent,
			AvgCompletionDays:  m.AvgCompletionDays,
		})
		velocities = append(velocities, m.Velocity.CompletedPoints)
		accuracies = append(accuracies, m.Estimation.AccuracyPercent)
	}
	report.AverageVelocity = Round1(Mean(velocities))
	report.AverageAccuracy = Round1(Mean(accuracies))
	report.Developers = rollUpDevelopers(ordered)

	if len(ordered) == 0 {
		return report
	}
	latest := ordered[len(ordered)-1].Metrics

	avg := Mean(velocities)
	if len(ordered) > 1 && avg > 0 {
		current := latest.Velocity.CompletedPoints
		switch {
		case current < avg*lowVelocityRatio:
			report.Insights = append(report.Insights, Insight{
				Kind:        InsightAlert,
				Title:       "Velocity below average",
				Description: fmt.Sprintf("%s delivered %.1f points against an average of %.1f.", latest.Name, current, avg),
			})
			report.Recommendations = append(report.Recommendations,
				"Review capacity planning: the latest sprint delivered well below the team's average velocity.")
		case current > avg*highVelocityRatio:
			report.Insights = append(report.Insights, Insight{
				Kind:        InsightSuccess,
				Title:       "Velocity above average",
				Description: fmt.Sprintf("%s delivered %.1f points against an average of %.1f.", latest.Name, current, avg),
			})
		}
	}

	if latest.BugRatio > bugHeavyRatio {
		report.Insights = append(report.Insights, Insight{
			Kind:        InsightAlert,
			Title:       "High bug ratio",
			Description: fmt.Sprintf("Bugs are %.1f%% of stories and tasks in %s.", latest.BugRatio, latest.Name),
		})
	}
	if latest.SupportRatio > supportHeavyRatio {
		report.Insights = append(report.Insights, Insight{
			Kind:        InsightAlert,
			Title:       "High support load",
			Description: fmt.Sprintf("Support requests are %.1f%% of stories and tasks in %s.", latest.SupportRatio, latest.Name),
		})
	}
	if len(accuracies) > 0 && report.AverageAccuracy < lowAccuracyPercent {
		report.Insights = append(report.Insights, Insight{
			Kind:        InsightAlert,
			Title:       "Low estimation accuracy",
			Description: fmt.Sprintf("Only %.1f%% of classified issues matched their estimate.", report.AverageAccuracy),
		})
		report.Recommendations = append(report.Recommendations,
			"Revisit the estimation process: calibrate story points against recent hours spent.")
	}
	return report
}

// rollUpDevelopers sums in-window hours and completed work per assignee.
func rollUpDevelopers(analyses []SprintAnalysis) []DeveloperSummary {
	byName := make(map[string]*DeveloperSummary)
	get := func(name string) *DeveloperSummary {
		d, ok := byName[name]
		if !ok {
			d = &DeveloperSummary{Name: name}
			byName[name] = d
		}
		return d
	}

	for _, a := range analyses {
		seen := make(map[string]bool)
		for _, issue := range a.Issues {
			if issue.Assignee == "" {
				continue
			}
			seen[issue.Assignee] = true
			d := get(issue.Assignee)
			d.Hours += issue.HoursSpent
			if DeveloperDoneStatuses.Contains(issue.StatusAtEnd) {
				d.CompletedPoints += issue.StoryPoints
				d.CompletedTasks++
			}
		}
		for name := range seen {
			byName[name].Sprints++
		}
	}

	devs := make([]DeveloperSummary, 0, len(byName))
	for _, d := range byName {
		d.CompletedPoints = Round1(d.CompletedPoints)
		d.Hours = Round2(d.Hours)
		devs = append(devs, *d)
	}
	slices.SortFunc(devs, func(a, b DeveloperSummary) int {
		if a.CompletedPoints != b.CompletedPoints {
			if a.CompletedPoints > b.CompletedPoints {
				return -1
			}
			return 1
		}
		return strings.Compare(a.Name, b.Name)
	})
	return devs
}
