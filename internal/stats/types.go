package stats

import (
	"time"

	"sprint-metrics/internal/jira"
)

// SprintIssue is an issue enriched for one sprint: its worklogs already filtered to
// the sprint window, its status replayed at sprint close and its hours summed.
type SprintIssue struct {
	jira.Issue
	StatusAtEnd string  `json:"statusAtSprintEnd"`
	HoursSpent  float64 `json:"timeSpentHours"`
}

// VelocityIssue is the per-issue detail behind a velocity figure.
type VelocityIssue struct {
	Key         string  `json:"key"`
	IssueType   string  `json:"issueType"`
	StoryPoints float64 `json:"storyPoints"`
	StatusAtEnd string  `json:"statusAtSprintEnd"`
	Completed   bool    `json:"completed"`
}

// Velocity summarises committed versus completed story points.
type Velocity struct {
	CommittedPoints     float64         `json:"committed_points"`
	CompletedPoints     float64         `json:"completed_points"`
	StoryCount          int             `json:"story_count"`
	CompletedStoryCount int             `json:"completed_story_count"`
	SayDoRatio          float64         `json:"say_do_ratio"`
	Issues              []VelocityIssue `json:"issues"`
}

// DeveloperLoad is the worklog footprint of one author.
type DeveloperLoad struct {
	Hours           float64 `json:"total_hours"`
	Tasks           int     `json:"tasks"`
	AvgHoursPerTask float64 `json:"avg_hours_per_task"`
}

// BurndownPoint is one date-keyed value of a burndown series.
type BurndownPoint struct {
	Date   string  `json:"date"`
	Points float64 `json:"points"`
}

// BurndownSeries holds the ideal and actual remaining-points curves.
type BurndownSeries struct {
	TotalPoints     float64         `json:"total_points"`
	RemainingPoints float64         `json:"remaining_points"`
	CompletedPoints float64         `json:"completed_points"`
	Ideal           []BurndownPoint `json:"ideal"`
	Actual          []BurndownPoint `json:"actual"`
}

// EstimationEntry classifies one finished issue.
type EstimationEntry struct {
	Key            string  `json:"key"`
	IssueType      string  `json:"issueType"`
	Status         string  `json:"status"`
	StoryPoints    float64 `json:"story_points"`
	HoursSpent     float64 `json:"time_spent"`
	Classification string  `json:"analysis"`
}

// EstimationReport aggregates the classifications of a sprint.
type EstimationReport struct {
	Entries         []EstimationEntry `json:"entries"`
	Correct         int               `json:"correct"`
	OverEstimated   int               `json:"over_estimated"`
	UnderEstimated  int               `json:"under_estimated"`
	Classified      int               `json:"classified"`
	AccuracyPercent float64           `json:"accuracy_percent"`
}

// TypeSummary tracks the flow of one issue type (Bug, Support) through a sprint.
type TypeSummary struct {
	Created           int     `json:"created"`
	Resolved          int     `json:"resolved"`
	AvgResolutionDays float64 `json:"avg_resolution_days"`
}

// TaskSummary is the count and logged hours of one issue type.
type TaskSummary struct {
	Count      int     `json:"count"`
	TotalHours float64 `json:"total_hours"`
}

// ScopeChanges lists issues moved into or out of a sprint after it started.
type ScopeChanges struct {
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
}

// IssueDetail is the flat per-issue row used by dashboards and exports.
type IssueDetail struct {
	Key            string  `json:"key"`
	Summary        string  `json:"summary"`
	IssueType      string  `json:"issue_type"`
	Assignee       string  `json:"assignee"`
	Status         string  `json:"status"`
	StatusAtEnd    string  `json:"status_at_sprint_end"`
	StoryPoints    float64 `json:"story_points"`
	HoursSpent     float64 `json:"time_spent"`
	ParentSummary  string  `json:"parent_summary"`
	Classification string  `json:"analysis"`
	ExtraField     string  `json:"extra_field,omitempty"`
}

// SprintMetrics is the full derived record for one sprint.
type SprintMetrics struct {
	SprintID              int                      `json:"id"`
	Name                  string                   `json:"name"`
	State                 string                   `json:"state"`
	Start                 time.Time                `json:"start"`
	End                   time.Time                `json:"end"`
	Velocity              Velocity                 `json:"velocity"`
	TotalHours            float64                  `json:"total_hours"`
	TimeDistribution      map[string]float64       `json:"time_distribution"`
	AvgCompletionDays     float64                  `json:"avg_completion_days"`
	TeamPerformance       map[string]DeveloperLoad `json:"team_performance"`
	Burndown              BurndownSeries           `json:"burndown"`
	Estimation            EstimationReport         `json:"estimation_analysis"`
	IssueTypeDistribution map[string]int           `json:"issue_type_distribution"`
	BugRatio              float64                  `json:"bug_ratio"`
	SupportRatio          float64                  `json:"support_ratio"`
	Bugs                  TypeSummary              `json:"bugs"`
	Support               TypeSummary              `json:"support"`
	ScopeChanges          ScopeChanges             `json:"scope_changes"`
	DetailedIssues        []IssueDetail            `json:"detailed_issues"`
}
