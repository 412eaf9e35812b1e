package jira

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.Handler) *cloudClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewCloudClient(Config{
		BaseURL:          srv.URL + "/",
		User:             "bot@example.com",
		APIToken:         "secret",
		StoryPointFields: []string{"customfield_10016"},
		Location:         time.UTC,
	}).(*cloudClient)
	c.sleep = func(time.Duration) {}
	return c
}

func TestCloudClient_BasicAuth(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "bot@example.com" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		fmt.Fprint(w, `[{"id": "1", "key": "OLD", "name": "Old"}, {"id": "12", "key": "NEW", "name": "New"}]`)
	}))

	projects, err := c.FetchProjects(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(projects) != 2 || projects[0].Key != "NEW" {
		t.Errorf("expected newest project first, got %+v", projects)
	}
}

func TestCloudClient_BearerTokenPreferred(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer pat" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		fmt.Fprint(w, `[]`)
	}))
	c.cfg.Token = "pat"

	if _, err := c.FetchProjects(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCloudClient_RetriesThenWrapsUpstreamError(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	_, err := c.FetchSprintDetails(context.Background(), 3)
	var upstream *UpstreamFetchError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamFetchError, got %v", err)
	}
	if upstream.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("StatusCode = %d, want 503", upstream.StatusCode)
	}
	if calls.Load() != int32(defaultMaxRetries) {
		t.Errorf("calls = %d, want %d", calls.Load(), defaultMaxRetries)
	}
}

func TestCloudClient_NoRetryOnNotFound(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))

	if _, err := c.FetchWorklogs(context.Background(), "10001"); err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestCloudClient_PaginatesSprintIssues(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/agile/1.0/sprint/5/issue" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.URL.Query().Get("expand") != "changelog" {
			t.Errorf("expected changelog expansion")
		}
		startAt, _ := strconv.Atoi(r.URL.Query().Get("startAt"))
		fmt.Fprintf(w, `{"startAt": %d, "total": 2, "issues": [{"id": "%d", "key": "P-%d", "fields": {"issuetype": {"name": "Task"}, "status": {"name": "Done"}, "customfield_10016": "2"}}]}`,
			startAt, startAt+1, startAt+1)
	}))

	issues, err := c.FetchIssuesForSprint(context.Background(), 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(issues) != 2 {
		t.Fatalf("expected 2 issues across pages, got %d", len(issues))
	}
	if issues[1].Key != "P-2" || issues[1].StoryPoints != 2 {
		t.Errorf("unexpected second issue %+v", issues[1])
	}
}

func TestCloudClient_SprintsAndWorklogs(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/agile/1.0/board/9/sprint", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"isLast": true, "values": [
			{"id": 1, "name": "S1", "state": "closed", "startDate": "2024-01-01T03:00:00.000Z", "endDate": "2024-01-14T03:00:00.000Z", "completeDate": "2024-01-14T20:00:00.000Z"},
			{"id": 2, "name": "S2", "state": "future"}
		]}`)
	})
	mux.HandleFunc("/rest/api/3/issue/10001/worklog", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"total": 1, "worklogs": [{"id": "77", "author": {"displayName": "Bo"}, "started": "2024-01-03T10:00:00.000-0300", "timeSpent": "2h"}]}`)
	})
	c := newTestClient(t, mux)

	sprints, err := c.FetchSprintsForBoard(context.Background(), 9)
	if err != nil {
		t.Fatal(err)
	}
	if len(sprints) != 2 || sprints[0].CompleteDate == nil || sprints[1].HasWindow() {
		t.Errorf("unexpected sprints %+v", sprints)
	}

	worklogs, err := c.FetchWorklogs(context.Background(), "10001")
	if err != nil {
		t.Fatal(err)
	}
	if len(worklogs) != 1 || worklogs[0].HoursSpent != 2 || worklogs[0].IssueID != "10001" {
		t.Errorf("unexpected worklogs %+v", worklogs)
	}
}
