package report

import (
	"context"
	"fmt"
	"time"

	"sprint-metrics/internal/jira"
	"sprint-metrics/internal/stats"
)

// ActiveSprintReport is the live view of a board's running sprint.
type ActiveSprintReport struct {
	Sprint          jira.Sprint          `json:"sprint"`
	Burndown        stats.BurndownSeries `json:"burndown"`
	ByType          map[string]int       `json:"by_type"`
	ByStatus        map[string]int       `json:"by_status"`
	TotalIssues     int                  `json:"total_issues"`
	ProgressPercent float64              `json:"progress_percent"`
	DaysRemaining   int                  `json:"days_remaining"`
}

// ActiveSprint locates the board's active sprint and computes its burndown.
func (s *Service) ActiveSprint(ctx context.Context, boardID int) (*ActiveSprintReport, error) {
	sprints, err := s.client.FetchSprintsForBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	var active *jira.Sprint
	for i := range sprints {
		if sprints[i].State == jira.SprintActive {
			active = &sprints[i]
			break
		}
	}
	if active == nil {
		return nil, fmt.Errorf("board %d: %w", boardID, ErrNoActiveSprint)
	}

	loaded, err := s.loadSprint(ctx, active.ID, false)
	if err != nil {
		return nil, err
	}
	now := s.now()

	report := &ActiveSprintReport{
		Sprint:      loaded.sprint,
		Burndown:    stats.CalculateBurndown(loaded.issues, loaded.window, now),
		ByType:      stats.CalculateIssueTypeDistribution(loaded.issues),
		ByStatus:    make(map[string]int),
		TotalIssues: len(loaded.issues),
	}
	for _, issue := range loaded.issues {
		report.ByStatus[issue.Status]++
	}
	report.ProgressPercent, report.DaysRemaining = progress(loaded.window, now)
	return report, nil
}

// progress returns elapsed time as a capped percentage of the sprint, and the
// whole days left until its end.
func progress(w stats.SprintWindow, now time.Time) (float64, int) {
	if w.Start.IsZero() || w.End.IsZero() {
		return 0, 0
	}
	total := w.End.Sub(w.Start)
	elapsed := now.Sub(w.Start)
	pct := 0.0
	if total > 0 && elapsed > 0 {
		pct = min(stats.Percentage(elapsed.Hours(), total.Hours()), 100)
	}
	remaining := 0
	if left := w.End.Sub(now); left > 0 {
		remaining = int(left.Hours() / 24)
	}
	return stats.Round1(pct), remaining
}
