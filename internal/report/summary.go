package report

import (
	"context"

	"sprint-metrics/internal/stats"

	"golang.org/x/sync/errgroup"
)

// SprintSummary is one closed sprint of a board summary.
type SprintSummary struct {
	SprintID        int               `json:"id"`
	Name            string            `json:"name"`
	Start           string            `json:"start"`
	End             string            `json:"end"`
	CommittedPoints float64           `json:"committed_points"`
	CompletedPoints float64           `json:"completed_points"`
	SayDoRatio      float64           `json:"say_do_ratio"`
	Bugs            stats.TypeSummary `json:"bugs"`
	Support         stats.TypeSummary `json:"support"`
}

// BoardSummary aggregates delivery and bug/support flow over recent sprints.
type BoardSummary struct {
	BoardID int             `json:"board_id"`
	Sprints []SprintSummary `json:"sprints"`
}

// BoardSummary summarises the last lastN closed sprints of a board.
func (s *Service) BoardSummary(ctx context.Context, boardID, lastN int) (*BoardSummary, error) {
	sprints, err := s.recentClosedSprints(ctx, boardID, lastN)
	if err != nil {
		return nil, err
	}

	rows := make([]SprintSummary, len(sprints))
	var g errgroup.Group
	g.SetLimit(s.settings.WorklogConcurrency)
	for i, sprint := range sprints {
		g.Go(func() error {
			loaded, err := s.loadSprint(ctx, sprint.ID, false)
			if err != nil {
				return err
			}
			v := stats.CalculateVelocity(loaded.issues)
			rows[i] = SprintSummary{
				SprintID:        sprint.ID,
				Name:            sprint.Name,
				Start:           stats.FormatDay(loaded.window.Start),
				End:             stats.FormatDay(loaded.window.End),
				CommittedPoints: v.CommittedPoints,
				CompletedPoints: v.CompletedPoints,
				SayDoRatio:      v.SayDoRatio,
				Bugs:            stats.CalculateTypeSummary(loaded.issues, stats.TypeBug, loaded.window),
				Support:         stats.CalculateTypeSummary(loaded.issues, stats.TypeSupport, loaded.window),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &BoardSummary{BoardID: boardID, Sprints: rows}, nil
}
