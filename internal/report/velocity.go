package report

import (
	"context"
	"slices"

	"sprint-metrics/internal/jira"
	"sprint-metrics/internal/stats"

	"golang.org/x/sync/errgroup"
)

// VelocityPoint is one closed sprint in a velocity trend.
type VelocityPoint struct {
	SprintID        int     `json:"id"`
	Name            string  `json:"name"`
	Start           string  `json:"start"`
	End             string  `json:"end"`
	CommittedPoints float64 `json:"committed_points"`
	CompletedPoints float64 `json:"completed_points"`
	SayDoRatio      float64 `json:"say_do_ratio"`
}

// VelocityTrend is the velocity series of a board's most recent closed sprints.
type VelocityTrend struct {
	BoardID         int             `json:"board_id"`
	Sprints         []VelocityPoint `json:"sprints"`
	AverageVelocity float64         `json:"average_velocity"`
	AverageSayDo    float64         `json:"average_say_do_ratio"`
}

// VelocityTrend computes committed and completed points for the last lastN closed
// sprints of a board, oldest first. lastN <= 0 uses the configured window.
func (s *Service) VelocityTrend(ctx context.Context, boardID, lastN int) (*VelocityTrend, error) {
	sprints, err := s.recentClosedSprints(ctx, boardID, lastN)
	if err != nil {
		return nil, err
	}

	points := make([]VelocityPoint, len(sprints))
	var g errgroup.Group
	g.SetLimit(s.settings.WorklogConcurrency)
	for i, sprint := range sprints {
		g.Go(func() error {
			loaded, err := s.loadSprint(ctx, sprint.ID, false)
			if err != nil {
				return err
			}
			v := stats.CalculateVelocity(loaded.issues)
			points[i] = VelocityPoint{
				SprintID:        sprint.ID,
				Name:            sprint.Name,
				Start:           stats.FormatDay(loaded.window.Start),
				End:             stats.FormatDay(loaded.window.End),
				CommittedPoints: v.CommittedPoints,
				CompletedPoints: v.CompletedPoints,
				SayDoRatio:      v.SayDoRatio,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	trend := &VelocityTrend{BoardID: boardID, Sprints: points}
	var completed, sayDo []float64
	for _, p := range points {
		completed = append(completed, p.CompletedPoints)
		sayDo = append(sayDo, p.SayDoRatio)
	}
	trend.AverageVelocity = stats.Round1(stats.Mean(completed))
	trend.AverageSayDo = stats.Round1(stats.Mean(sayDo))
	return trend, nil
}

// recentClosedSprints returns up to lastN closed sprints ordered by start date.
func (s *Service) recentClosedSprints(ctx context.Context, boardID, lastN int) ([]jira.Sprint, error) {
	if lastN <= 0 {
		lastN = s.settings.VelocityWindow
	}
	all, err := s.client.FetchSprintsForBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	closed := make([]jira.Sprint, 0, len(all))
	for _, sprint := range all {
		if sprint.State == jira.SprintClosed {
			closed = append(closed, sprint)
		}
	}
	slices.SortStableFunc(closed, func(a, b jira.Sprint) int {
		return a.Start.Compare(b.Start)
	})
	if len(closed) > lastN {
		closed = closed[len(closed)-lastN:]
	}
	return closed, nil
}
