package jira

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"slices"
)

var errNotFound = errors.New("not found")

// DatasetIssue is an Issue as stored in a dataset file, change history included.
type DatasetIssue struct {
	Issue
	History []HistoryEntry `json:"history,omitempty"`
}

// Dataset is an offline snapshot of a tracking-service site.
type Dataset struct {
	Projects []Project              `json:"projects"`
	Boards   map[string][]Board     `json:"boards"`
	Sprints  map[int][]Sprint       `json:"sprints"`
	Issues   map[int][]DatasetIssue `json:"issues"`
	Worklogs map[string][]Worklog   `json:"worklogs"`
}

// DatasetClient serves a Dataset through the Client interface. It is used for
// offline demos and as the test double of the report pipeline.
type DatasetClient struct {
	data Dataset
}

// NewDatasetClient wraps an in-memory dataset.
func NewDatasetClient(data Dataset) *DatasetClient {
	return &DatasetClient{data: data}
}

// LoadDataset reads a dataset file written by the mock generator.
func LoadDataset(path string) (*DatasetClient, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	var data Dataset
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode dataset %s: %w", path, err)
	}
	return NewDatasetClient(data), nil
}

// SaveDataset writes a dataset as indented JSON.
func SaveDataset(path string, data Dataset) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

func notFound(op string) error {
	return &UpstreamFetchError{Op: op, StatusCode: http.StatusNotFound, Err: errNotFound}
}

func (c *DatasetClient) FetchProjects(_ context.Context) ([]Project, error) {
	return slices.Clone(c.data.Projects), nil
}

func (c *DatasetClient) FetchBoards(_ context.Context, projectID string) ([]Board, error) {
	return slices.Clone(c.data.Boards[projectID]), nil
}

func (c *DatasetClient) FetchSprintsForBoard(_ context.Context, boardID int) ([]Sprint, error) {
	sprints, ok := c.data.Sprints[boardID]
	if !ok {
		return nil, notFound(fmt.Sprintf("fetch sprints for board %d", boardID))
	}
	return slices.Clone(sprints), nil
}

func (c *DatasetClient) FetchSprintDetails(_ context.Context, sprintID int) (Sprint, error) {
	for _, sprints := range c.data.Sprints {
		for _, s := range sprints {
			if s.ID == sprintID {
				return s, nil
			}
		}
	}
	return Sprint{}, notFound(fmt.Sprintf("fetch sprint %d", sprintID))
}

func (c *DatasetClient) FetchIssuesForSprint(_ context.Context, sprintID int) ([]Issue, error) {
	stored, ok := c.data.Issues[sprintID]
	if !ok {
		return nil, notFound(fmt.Sprintf("fetch issues for sprint %d", sprintID))
	}
	issues := make([]Issue, 0, len(stored))
	for _, s := range stored {
		issue := s.Issue
		issue.History = slices.Clone(s.History)
		issue.Worklogs = nil
		issues = append(issues, issue)
	}
	return issues, nil
}

func (c *DatasetClient) FetchWorklogs(_ context.Context, issueID string) ([]Worklog, error) {
	return slices.Clone(c.data.Worklogs[issueID]), nil
}
