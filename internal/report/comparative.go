package report

import (
	"context"

	"sprint-metrics/internal/stats"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// ComparativeReport computes full metrics for each selected sprint and compares them.
// The selection must name between one and ten sprints.
func (s *Service) ComparativeReport(ctx context.Context, sprintIDs []int) (*stats.ComparativeReport, error) {
	if err := stats.ValidateSprintSelection(sprintIDs); err != nil {
		return nil, err
	}

	analyses := make([]stats.SprintAnalysis, len(sprintIDs))
	var g errgroup.Group
	for i, id := range sprintIDs {
		g.Go(func() error {
			a, err := s.analyzeSprint(ctx, id)
			if err != nil {
				return err
			}
			analyses[i] = a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := stats.CompareSprints(analyses)
	log.Info().
		Ints("sprints", sprintIDs).
		Int("insights", len(report.Insights)).
		Msg("Comparative report generated")
	return &report, nil
}
