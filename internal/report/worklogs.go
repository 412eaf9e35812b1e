package report

import (
	"context"
	"time"

	"sprint-metrics/internal/jira"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// attachWorklogs fetches the worklogs of every issue with one task per issue,
// bounded by the configured concurrency. Each task writes only its own slot; the
// results are merged after all tasks finish. Any failure fails the whole call.
func (s *Service) attachWorklogs(ctx context.Context, issues []jira.Issue) error {
	if len(issues) == 0 {
		return nil
	}
	start := time.Now()

	results := make([][]jira.Worklog, len(issues))
	var g errgroup.Group
	g.SetLimit(s.settings.WorklogConcurrency)
	for i := range issues {
		id := issues[i].ID
		g.Go(func() error {
			worklogs, err := s.client.FetchWorklogs(ctx, id)
			if err != nil {
				return err
			}
			results[i] = worklogs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i := range issues {
		issues[i].Worklogs = results[i]
	}

	log.Debug().
		Int("issues", len(issues)).
		Dur("elapsed", time.Since(start)).
		Msg("Worklogs fetched")
	return nil
}
