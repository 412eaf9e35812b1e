package report

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"sprint-metrics/internal/jira"
	"sprint-metrics/internal/stats"

	"github.com/stretchr/testify/require"
)

var utcMinus3 = time.FixedZone("UTC-3", -3*3600)

func at(month time.Month, d, h int) time.Time {
	return time.Date(2024, month, d, h, 0, 0, 0, utcMinus3)
}

func ptr(t time.Time) *time.Time { return &t }

func transition(when time.Time, from, to string) jira.HistoryEntry {
	return jira.HistoryEntry{Created: when, Items: []jira.ChangeItem{{Field: "status", From: from, To: to}}}
}

func worklog(id, author string, started time.Time, hours float64) jira.Worklog {
	return jira.Worklog{ID: id, Author: author, Started: started, HoursSpent: hours}
}

func testDataset() jira.Dataset {
	return jira.Dataset{
		Projects: []jira.Project{{ID: "10000", Key: "ACME", Name: "Acme"}},
		Boards:   map[string][]jira.Board{"10000": {{ID: 7, Name: "ACME board", Type: "scrum"}}},
		Sprints: map[int][]jira.Sprint{
			7: {
				{ID: 103, Name: "Sprint 3", State: jira.SprintActive, Start: at(1, 29, 0), End: at(2, 11, 0)},
				{ID: 101, Name: "Sprint 1", State: jira.SprintClosed, Start: at(1, 1, 0), End: at(1, 14, 0)},
				{ID: 102, Name: "Sprint 2", State: jira.SprintClosed, Start: at(1, 15, 0), End: at(1, 28, 0)},
			},
			8: {
				{ID: 201, Name: "Old", State: jira.SprintClosed, Start: at(1, 1, 0), End: at(1, 14, 0)},
			},
		},
		Issues: map[int][]jira.DatasetIssue{
			101: {
				{
					Issue: jira.Issue{
						ID: "1001", Key: "ACME-1", IssueType: "Story", Status: "Done", Assignee: "Ana",
						StoryPoints: 5, Created: at(1, 1, 9), ResolutionDate: ptr(at(1, 10, 9)),
					},
					History: []jira.HistoryEntry{
						transition(at(1, 10, 9), "In Progress", "Done"),
						transition(at(1, 3, 9), "To Do", "In Progress"),
					},
				},
				{
					Issue: jira.Issue{
						ID: "1002", Key: "ACME-2", IssueType: "Task", Status: "Done", Assignee: "Bruno",
						StoryPoints: 3, Created: at(1, 1, 9), ResolutionDate: ptr(at(1, 20, 9)),
					},
					History: []jira.HistoryEntry{
						transition(at(1, 5, 9), "To Do", "In Progress"),
						transition(at(1, 20, 9), "In Progress", "Done"),
					},
				},
				{
					Issue: jira.Issue{ID: "1003", Key: "ACME-3", IssueType: "Bug", Status: "In Progress", Created: at(1, 2, 9)},
				},
			},
			102: {
				{
					Issue: jira.Issue{
						ID: "1004", Key: "ACME-4", IssueType: "Story", Status: "Done", Assignee: "Ana",
						StoryPoints: 8, Created: at(1, 15, 9), ResolutionDate: ptr(at(1, 20, 9)),
					},
					History: []jira.HistoryEntry{transition(at(1, 20, 9), "To Do", "Done")},
				},
			},
			103: {
				{
					Issue: jira.Issue{
						ID: "1005", Key: "ACME-5", IssueType: "Story", Status: "Done",
						StoryPoints: 3, Created: at(1, 29, 9), ResolutionDate: ptr(at(1, 30, 9)),
					},
				},
				{
					Issue: jira.Issue{ID: "1006", Key: "ACME-6", IssueType: "Task", Status: "To Do", StoryPoints: 2, Created: at(1, 29, 9)},
				},
			},
			201: {},
		},
		Worklogs: map[string][]jira.Worklog{
			"1001": {
				worklog("w1", "Ana", at(12, 30, 10).AddDate(-1, 0, 0), 2),
				worklog("w2", "Ana", at(1, 4, 10), 6),
			},
			"1002": {worklog("w3", "Bruno", at(1, 6, 10), 3)},
			"1004": {worklog("w4", "Ana", at(1, 16, 10), 20)},
		},
	}
}

func newTestService(client jira.Client) *Service {
	svc := NewService(client, Settings{Location: utcMinus3, WorklogConcurrency: 2, VelocityWindow: 6})
	svc.now = func() time.Time { return at(1, 31, 12) }
	return svc
}

type failingWorklogs struct {
	jira.Client
}

func (failingWorklogs) FetchWorklogs(_ context.Context, issueID string) ([]jira.Worklog, error) {
	return nil, &jira.UpstreamFetchError{Op: "fetch worklogs for " + issueID, StatusCode: 503, Err: errors.New("unavailable")}
}

func TestService_SprintMetrics(t *testing.T) {
	svc := newTestService(jira.NewDatasetClient(testDataset()))

	m, err := svc.SprintMetrics(context.Background(), 101)
	require.NoError(t, err)

	require.Equal(t, 8.0, m.Velocity.CommittedPoints)
	require.Equal(t, 5.0, m.Velocity.CompletedPoints)
	require.Equal(t, 62.5, m.Velocity.SayDoRatio)
	require.Equal(t, 9.0, m.TotalHours)
	require.Equal(t, 6.0, m.TeamPerformance["Ana"].Hours)
	require.Equal(t, 3.0, m.TeamPerformance["Bruno"].Hours)
	require.Equal(t, 50.0, m.BugRatio)
	require.Len(t, m.DetailedIssues, 3)
}

func TestService_SprintMetrics_ExtraField(t *testing.T) {
	data := testDataset()
	data.Issues[101][0].Fields = map[string]json.RawMessage{"customfield_10162": json.RawMessage(`"CC-42"`)}
	svc := NewService(jira.NewDatasetClient(data), Settings{Location: utcMinus3, ExtraField: "customfield_10162"})

	m, err := svc.SprintMetrics(context.Background(), 101)
	require.NoError(t, err)

	require.Equal(t, "ACME-1", m.DetailedIssues[0].Key)
	require.Equal(t, "CC-42", m.DetailedIssues[0].ExtraField)
	require.Empty(t, m.DetailedIssues[1].ExtraField)
}

func TestService_SprintDetails(t *testing.T) {
	svc := newTestService(jira.NewDatasetClient(testDataset()))

	details, err := svc.SprintDetails(context.Background(), 101)
	require.NoError(t, err)

	require.Equal(t, "Sprint 1", details.Sprint.Name)
	require.Len(t, details.Issues, 3)
	require.Len(t, details.Issues[0].Worklogs, 1, "worklog before the sprint start must be dropped")
	require.Equal(t, "w2", details.Issues[0].Worklogs[0].ID)
	require.Equal(t, "Done", details.Issues[0].StatusAtEnd)
	require.Equal(t, "In Progress", details.Issues[1].StatusAtEnd)
	require.Equal(t, stats.TaskSummary{Count: 1, TotalHours: 6}, details.TaskSummary["Story"])
}

func TestService_WorklogFailureAbortsRequest(t *testing.T) {
	svc := newTestService(failingWorklogs{Client: jira.NewDatasetClient(testDataset())})

	_, err := svc.SprintMetrics(context.Background(), 101)
	require.Error(t, err)

	var upstream *jira.UpstreamFetchError
	require.ErrorAs(t, err, &upstream)
	require.Equal(t, 503, upstream.StatusCode)
}

func TestService_UnknownSprint(t *testing.T) {
	svc := newTestService(jira.NewDatasetClient(testDataset()))

	_, err := svc.SprintMetrics(context.Background(), 999)

	var upstream *jira.UpstreamFetchError
	require.ErrorAs(t, err, &upstream)
	require.Equal(t, 404, upstream.StatusCode)
}

func TestService_ActiveSprint(t *testing.T) {
	svc := newTestService(jira.NewDatasetClient(testDataset()))

	report, err := svc.ActiveSprint(context.Background(), 7)
	require.NoError(t, err)

	require.Equal(t, 103, report.Sprint.ID)
	require.Equal(t, 5.0, report.Burndown.TotalPoints)
	require.Equal(t, 2.0, report.Burndown.RemainingPoints)
	require.Len(t, report.Burndown.Ideal, 14)
	require.Len(t, report.Burndown.Actual, 3)
	require.Equal(t, map[string]int{"Done": 1, "To Do": 1}, report.ByStatus)
	require.Equal(t, map[string]int{"Story": 1, "Task": 1}, report.ByType)
	require.Equal(t, 17.9, report.ProgressPercent)
	require.Equal(t, 11, report.DaysRemaining)
}

func TestService_ActiveSprint_None(t *testing.T) {
	svc := newTestService(jira.NewDatasetClient(testDataset()))

	_, err := svc.ActiveSprint(context.Background(), 8)
	require.ErrorIs(t, err, ErrNoActiveSprint)
}

func TestService_VelocityTrend(t *testing.T) {
	svc := newTestService(jira.NewDatasetClient(testDataset()))

	trend, err := svc.VelocityTrend(context.Background(), 7, 0)
	require.NoError(t, err)
	require.Len(t, trend.Sprints, 2)
	require.Equal(t, 101, trend.Sprints[0].SprintID)
	require.Equal(t, 102, trend.Sprints[1].SprintID)
	require.Equal(t, 6.5, trend.AverageVelocity)
	require.Equal(t, "2024-01-01", trend.Sprints[0].Start)

	latest, err := svc.VelocityTrend(context.Background(), 7, 1)
	require.NoError(t, err)
	require.Len(t, latest.Sprints, 1)
	require.Equal(t, 102, latest.Sprints[0].SprintID)
}

func TestService_BoardSummary(t *testing.T) {
	svc := newTestService(jira.NewDatasetClient(testDataset()))

	summary, err := svc.BoardSummary(context.Background(), 7, 5)
	require.NoError(t, err)
	require.Len(t, summary.Sprints, 2)

	first := summary.Sprints[0]
	require.Equal(t, 1, first.Bugs.Created)
	require.Equal(t, 0, first.Bugs.Resolved)
	require.Equal(t, 100.0, summary.Sprints[1].SayDoRatio)
}

func TestService_ComparativeReport(t *testing.T) {
	svc := newTestService(jira.NewDatasetClient(testDataset()))

	_, err := svc.ComparativeReport(context.Background(), nil)
	var vErr *stats.ValidationError
	require.ErrorAs(t, err, &vErr)

	report, err := svc.ComparativeReport(context.Background(), []int{102, 101})
	require.NoError(t, err)
	require.Len(t, report.Sprints, 2)
	require.Equal(t, 101, report.Sprints[0].SprintID)

	require.NotEmpty(t, report.Developers)
	ana := report.Developers[0]
	require.Equal(t, "Ana", ana.Name)
	require.Equal(t, 13.0, ana.CompletedPoints)
	require.Equal(t, 26.0, ana.Hours)
	require.Equal(t, 2, ana.Sprints)
}
