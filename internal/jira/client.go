package jira

import (
	"context"
	"encoding/json"
	"time"
)

// Project is a tracking-service project.
type Project struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

// Board is an agile board attached to a project.
type Board struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Sprint states as reported by the agile API.
const (
	SprintActive = "active"
	SprintClosed = "closed"
	SprintFuture = "future"
)

// Sprint holds sprint metadata with instants localised to the configured timezone.
type Sprint struct {
	ID           int        `json:"id"`
	Name         string     `json:"name"`
	State        string     `json:"state"`
	Goal         string     `json:"goal,omitempty"`
	Start        time.Time  `json:"startDate"`
	End          time.Time  `json:"endDate"`
	CompleteDate *time.Time `json:"completeDate,omitempty"`
}

// HasWindow reports whether both sprint bounds are known.
func (s Sprint) HasWindow() bool {
	return !s.Start.IsZero() && !s.End.IsZero()
}

// ChangeItem is a single field-level change inside a history entry.
type ChangeItem struct {
	Field string `json:"field"`
	From  string `json:"from"`
	To    string `json:"to"`
}

// HistoryEntry is one changelog record: an instant plus the fields it touched.
type HistoryEntry struct {
	Created time.Time    `json:"created"`
	Items   []ChangeItem `json:"items"`
}

// Worklog is a single time entry logged against an issue.
type Worklog struct {
	ID         string    `json:"id"`
	IssueID    string    `json:"issueId"`
	Author     string    `json:"author"`
	Started    time.Time `json:"started"`
	TimeSpent  string    `json:"timeSpent"`
	HoursSpent float64   `json:"timeSpentHours"`
}

// Issue is the normalised view of a tracked issue. Worklogs is populated by the
// report pipeline after window filtering.
type Issue struct {
	ID             string                     `json:"id"`
	Key            string                     `json:"key"`
	Summary        string                     `json:"summary"`
	IssueType      string                     `json:"issueType"`
	Status         string                     `json:"status"`
	Assignee       string                     `json:"assignee,omitempty"`
	Created        time.Time                  `json:"created"`
	ResolutionDate *time.Time                 `json:"resolutionDate,omitempty"`
	ParentSummary  string                     `json:"parentSummary,omitempty"`
	StoryPoints    float64                    `json:"storyPoints"`
	History        []HistoryEntry             `json:"-"`
	Worklogs       []Worklog                  `json:"worklogs"`
	Fields         map[string]json.RawMessage `json:"-"`
}

// Client is the interface for interacting with the tracking service.
type Client interface {
	FetchProjects(ctx context.Context) ([]Project, error)
	FetchBoards(ctx context.Context, projectID string) ([]Board, error)
	FetchSprintsForBoard(ctx context.Context, boardID int) ([]Sprint, error)
	FetchSprintDetails(ctx context.Context, sprintID int) (Sprint, error)
	FetchIssuesForSprint(ctx context.Context, sprintID int) ([]Issue, error)
	FetchWorklogs(ctx context.Context, issueID string) ([]Worklog, error)
}

// Config holds the authentication and connection settings for the tracking service.
type Config struct {
	BaseURL string

	// Cloud basic auth (user + API token)
	User     string
	APIToken string

	// Personal Access Token, preferred when set
	Token string

	Timeout    time.Duration
	MaxRetries int

	// Story point custom fields in order of preference
	StoryPointFields []string

	// Location sprint bounds are localised to
	Location *time.Location
}

// BrowseURL returns the human-facing link for an issue key.
func (c Config) BrowseURL(key string) string {
	return trimSlash(c.BaseURL) + "/browse/" + key
}

// NewClient creates a new tracking-service client based on the provided configuration.
func NewClient(cfg Config) Client {
	return NewCloudClient(cfg)
}
