package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"sprint-metrics/internal/jira"
	"sprint-metrics/internal/report"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type fakeActive map[int]*report.ActiveSprintReport

func (f fakeActive) ActiveSprint(_ context.Context, boardID int) (*report.ActiveSprintReport, error) {
	if boardID == 99 {
		return nil, errors.New("upstream down")
	}
	a, ok := f[boardID]
	if !ok {
		return nil, fmt.Errorf("board %d: %w", boardID, report.ErrNoActiveSprint)
	}
	return a, nil
}

func TestDigest_RunOnce(t *testing.T) {
	dir := t.TempDir()
	svc := fakeActive{7: {Sprint: jira.Sprint{ID: 103, Name: "Sprint 3"}, TotalIssues: 4}}

	d, err := NewDigest("0 8 * * 1-5", time.UTC, svc, []int{7, 8}, dir, zerolog.Nop())
	require.NoError(t, err)
	d.now = func() time.Time { return time.Date(2024, 1, 31, 8, 0, 0, 0, time.UTC) }

	paths, err := d.RunOnce(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "digest_board_7_20240131_0800.json")}, paths)

	raw, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	var rec DigestRecord
	require.NoError(t, json.Unmarshal(raw, &rec))
	require.Equal(t, 7, rec.BoardID)
	require.Equal(t, 103, rec.Active.Sprint.ID)
	require.NotEmpty(t, rec.RunID)
}

func TestDigest_ReportsFailures(t *testing.T) {
	d, err := NewDigest("*/5 * * * *", time.UTC, fakeActive{}, []int{99}, t.TempDir(), zerolog.Nop())
	require.NoError(t, err)

	paths, err := d.RunOnce(context.Background())
	require.Error(t, err)
	require.Empty(t, paths)
}

func TestNewDigest_Validation(t *testing.T) {
	_, err := NewDigest("0 8 * * *", time.UTC, fakeActive{}, nil, t.TempDir(), zerolog.Nop())
	require.Error(t, err)

	_, err = NewDigest("@daily", time.UTC, fakeActive{}, []int{1}, t.TempDir(), zerolog.Nop())
	require.Error(t, err, "descriptors are not accepted by the five-field parser")

	_, err = NewDigest("not a cron", time.UTC, fakeActive{}, []int{1}, t.TempDir(), zerolog.Nop())
	require.Error(t, err)
}
