package report

import (
	"context"
	"errors"
	"time"

	"sprint-metrics/internal/jira"
	"sprint-metrics/internal/stats"

	"github.com/rs/zerolog/log"
)

// ErrNoActiveSprint is returned when a board has no sprint in the active state.
var ErrNoActiveSprint = errors.New("no active sprint found")

// Settings tunes the report pipeline.
type Settings struct {
	Location           *time.Location
	WorklogConcurrency int
	VelocityWindow     int
	// ExtraField is an issue field id copied into each detailed issue row.
	ExtraField string
}

// Service turns tracking-service data into sprint analytics.
type Service struct {
	client   jira.Client
	settings Settings
	now      func() time.Time
}

// NewService creates a report service. Zero settings fall back to UTC, eight
// concurrent worklog fetches and a six-sprint velocity window.
func NewService(client jira.Client, settings Settings) *Service {
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	if settings.WorklogConcurrency <= 0 {
		settings.WorklogConcurrency = 8
	}
	if settings.VelocityWindow <= 0 {
		settings.VelocityWindow = 6
	}
	return &Service{client: client, settings: settings, now: time.Now}
}

// Location returns the timezone sprint bounds are evaluated in.
func (s *Service) Location() *time.Location {
	return s.settings.Location
}

// Projects lists the projects visible to the configured account.
func (s *Service) Projects(ctx context.Context) ([]jira.Project, error) {
	return s.client.FetchProjects(ctx)
}

// Boards lists the agile boards of a project.
func (s *Service) Boards(ctx context.Context, projectID string) ([]jira.Board, error) {
	return s.client.FetchBoards(ctx, projectID)
}

// Sprints lists the sprints of a board.
func (s *Service) Sprints(ctx context.Context, boardID int) ([]jira.Sprint, error) {
	return s.client.FetchSprintsForBoard(ctx, boardID)
}

// SprintDetails holds a sprint with its window-filtered issues.
type SprintDetails struct {
	Sprint      jira.Sprint                  `json:"sprint"`
	Window      stats.SprintWindow           `json:"window"`
	Issues      []stats.SprintIssue          `json:"issues"`
	TaskSummary map[string]stats.TaskSummary `json:"task_summary"`
}

// SprintDetails loads a sprint with its issues and in-window worklogs.
func (s *Service) SprintDetails(ctx context.Context, sprintID int) (*SprintDetails, error) {
	loaded, err := s.loadSprint(ctx, sprintID, true)
	if err != nil {
		return nil, err
	}
	return &SprintDetails{
		Sprint:      loaded.sprint,
		Window:      loaded.window,
		Issues:      loaded.issues,
		TaskSummary: stats.CalculateTaskSummary(loaded.issues),
	}, nil
}

// SprintMetrics computes the full metrics record of one sprint.
func (s *Service) SprintMetrics(ctx context.Context, sprintID int) (*stats.SprintMetrics, error) {
	a, err := s.analyzeSprint(ctx, sprintID)
	if err != nil {
		return nil, err
	}
	return &a.Metrics, nil
}

func (s *Service) analyzeSprint(ctx context.Context, sprintID int) (stats.SprintAnalysis, error) {
	loaded, err := s.loadSprint(ctx, sprintID, true)
	if err != nil {
		return stats.SprintAnalysis{}, err
	}
	metrics := stats.ComputeSprintMetrics(loaded.sprint, loaded.issues, loaded.window, s.now())
	if s.settings.ExtraField != "" {
		for i := range metrics.DetailedIssues {
			metrics.DetailedIssues[i].ExtraField = jira.FieldString(loaded.issues[i].Fields, s.settings.ExtraField)
		}
	}

	log.Debug().
		Int("sprintId", sprintID).
		Int("issues", len(loaded.issues)).
		Float64("committed", metrics.Velocity.CommittedPoints).
		Float64("completed", metrics.Velocity.CompletedPoints).
		Msg("Sprint metrics computed")

	return stats.SprintAnalysis{Metrics: metrics, Issues: loaded.issues}, nil
}

type loadedSprint struct {
	sprint jira.Sprint
	window stats.SprintWindow
	issues []stats.SprintIssue
}

// loadSprint fetches sprint metadata and issues, optionally with worklogs, and
// prepares them against the sprint window.
func (s *Service) loadSprint(ctx context.Context, sprintID int, withWorklogs bool) (loadedSprint, error) {
	sprint, err := s.client.FetchSprintDetails(ctx, sprintID)
	if err != nil {
		return loadedSprint{}, err
	}
	issues, err := s.client.FetchIssuesForSprint(ctx, sprintID)
	if err != nil {
		return loadedSprint{}, err
	}
	if withWorklogs {
		if err := s.attachWorklogs(ctx, issues); err != nil {
			return loadedSprint{}, err
		}
	}

	window := stats.WindowForSprint(sprint, s.settings.Location)
	return loadedSprint{
		sprint: sprint,
		window: window,
		issues: stats.PrepareIssues(issues, window),
	}, nil
}
