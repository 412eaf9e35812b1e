package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"sprint-metrics/internal/export"
	"sprint-metrics/internal/jira"
	"sprint-metrics/internal/report"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	loc := time.FixedZone("UTC-3", -3*3600)
	day := func(d int) time.Time { return time.Date(2024, 1, d, 9, 0, 0, 0, loc) }
	resolved := day(5)

	client := jira.NewDatasetClient(jira.Dataset{
		Projects: []jira.Project{{ID: "10000", Key: "ACME", Name: "Acme"}},
		Boards:   map[string][]jira.Board{"10000": {{ID: 7, Name: "ACME board", Type: "scrum"}}},
		Sprints: map[int][]jira.Sprint{
			7: {{ID: 101, Name: "Sprint 1", State: jira.SprintClosed, Start: day(1), End: day(14)}},
		},
		Issues: map[int][]jira.DatasetIssue{
			101: {{Issue: jira.Issue{
				ID: "1001", Key: "ACME-1", IssueType: "Story", Status: "Done", Assignee: "Ana",
				StoryPoints: 3, Created: day(1), ResolutionDate: &resolved,
			}}},
		},
		Worklogs: map[string][]jira.Worklog{
			"1001": {{ID: "w1", Author: "Ana", Started: day(2), HoursSpent: 5}},
		},
	})

	svc := report.NewService(client, report.Settings{Location: loc})
	router, err := NewRouter(svc, export.New(nil), zerolog.Nop(), false)
	require.NoError(t, err)
	return router
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_SprintMetrics(t *testing.T) {
	rec := do(t, testRouter(t), http.MethodGet, "/api/sprints/101/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get(requestIDHeader))

	var body struct {
		Velocity struct {
			Committed float64 `json:"committed_points"`
			Completed float64 `json:"completed_points"`
		} `json:"velocity"`
		TotalHours float64 `json:"total_hours"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 3.0, body.Velocity.Committed)
	require.Equal(t, 3.0, body.Velocity.Completed)
	require.Equal(t, 5.0, body.TotalHours)
}

func TestRouter_ErrorMapping(t *testing.T) {
	router := testRouter(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"BadSprintID", http.MethodGet, "/api/sprints/abc/metrics", "", http.StatusBadRequest},
		{"UnknownSprint", http.MethodGet, "/api/sprints/999/metrics", "", http.StatusNotFound},
		{"NoActiveSprint", http.MethodGet, "/api/boards/7/active-sprint", "", http.StatusNotFound},
		{"EmptyComparison", http.MethodPost, "/api/metrics/comparative", `{"sprint_ids":[]}`, http.StatusBadRequest},
		{"TooManySprints", http.MethodPost, "/api/metrics/comparative", `{"sprint_ids":[1,2,3,4,5,6,7,8,9,10,11]}`, http.StatusBadRequest},
		{"BadBody", http.MethodPost, "/api/metrics/comparative", `{`, http.StatusBadRequest},
		{"UnknownExport", http.MethodGet, "/api/sprints/101/export/pdf", "", http.StatusNotFound},
		{"BadLast", http.MethodGet, "/api/boards/7/velocity?last=x", "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, tt.method, tt.path, tt.body)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestRouter_Comparative(t *testing.T) {
	rec := do(t, testRouter(t), http.MethodPost, "/api/metrics/comparative", `{"sprint_ids":[101]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"developers"`)
}

func TestRouter_Downloads(t *testing.T) {
	router := testRouter(t)

	rec := do(t, router, http.MethodGet, "/api/sprints/101/export/worklogs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Header().Get("Content-Disposition"), "sprint_101_worklogs.xlsx")
	require.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")), "xlsx is a zip archive")

	rec = do(t, router, http.MethodGet, "/api/sprints/101/export/analysis-csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, strings.HasPrefix(rec.Body.String(), "Issue Type,Issue Key"))

	rec = do(t, router, http.MethodPost, "/api/metrics/comparative/export?format=csv", `{"sprint_ids":[101]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Sprint 1")
}

func TestRouter_Dashboard(t *testing.T) {
	router := testRouter(t)

	rec := do(t, router, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "/static/dashboard.js")

	rec = do(t, router, http.MethodGet, "/static/dashboard.js", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotContains(t, rec.Body.String(), "\n  ", "script should be minified")
	require.Less(t, rec.Body.Len(), len(dashboardSource))
}

func TestRouter_RequestIDPropagates(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	testRouter(t).ServeHTTP(rec, req)
	require.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}
