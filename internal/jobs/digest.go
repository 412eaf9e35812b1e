package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sprint-metrics/internal/export"
	"sprint-metrics/internal/report"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

type activeSprints interface {
	ActiveSprint(ctx context.Context, boardID int) (*report.ActiveSprintReport, error)
}

// Digest periodically snapshots the active sprint of each configured board into
// the export directory as JSON.
type Digest struct {
	svc       activeSprints
	boards    []int
	exportDir string
	log       zerolog.Logger
	now       func() time.Time
	c         *cron.Cron
}

// DigestRecord is the file written for one board on one run.
type DigestRecord struct {
	RunID       string                     `json:"run_id"`
	BoardID     int                        `json:"board_id"`
	GeneratedAt time.Time                  `json:"generated_at"`
	Active      *report.ActiveSprintReport `json:"active_sprint"`
}

// NewDigest schedules the digest with a five-field cron spec evaluated in loc.
func NewDigest(spec string, loc *time.Location, svc activeSprints, boards []int, exportDir string, log zerolog.Logger) (*Digest, error) {
	if len(boards) == 0 {
		return nil, errors.New("digest needs at least one board")
	}
	d := &Digest{svc: svc, boards: boards, exportDir: exportDir, log: log, now: time.Now}
	d.c = cron.New(
		cron.WithLocation(loc),
		cron.WithParser(cron.NewParser(cron.Minute|cron.Hour|cron.Dom|cron.Month|cron.Dow)),
	)
	if _, err := d.c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if _, err := d.RunOnce(ctx); err != nil {
			d.log.Error().Err(err).Msg("cron: digest failed")
		}
	}); err != nil {
		return nil, fmt.Errorf("invalid DIGEST_CRON %q: %w", spec, err)
	}
	return d, nil
}

// Start begins the schedule in the background.
func (d *Digest) Start() {
	d.log.Info().Ints("boards", d.boards).Msg("cron: digest scheduled")
	d.c.Start()
}

// Stop halts the schedule and waits for a running digest to finish.
func (d *Digest) Stop() {
	<-d.c.Stop().Done()
}

// RunOnce writes one digest file per board. Boards without an active sprint are skipped.
func (d *Digest) RunOnce(ctx context.Context) ([]string, error) {
	runID := uuid.NewString()
	now := d.now()
	var (
		paths []string
		errs  []error
	)
	for _, board := range d.boards {
		active, err := d.svc.ActiveSprint(ctx, board)
		if errors.Is(err, report.ErrNoActiveSprint) {
			d.log.Info().Int("boardId", board).Msg("cron: no active sprint, skipping")
			continue
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("board %d: %w", board, err))
			continue
		}

		name := fmt.Sprintf("digest_board_%d_%s.json", board, now.Format("20060102_1504"))
		path, err := export.SaveJSON(d.exportDir, name, DigestRecord{
			RunID:       runID,
			BoardID:     board,
			GeneratedAt: now,
			Active:      active,
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("board %d: %w", board, err))
			continue
		}
		d.log.Info().Str("runId", runID).Int("boardId", board).Str("path", path).Msg("cron: digest written")
		paths = append(paths, path)
	}
	return paths, errors.Join(errs...)
}
