package jira

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	pageSize          = 100
	issuePageSize     = 500
	defaultTimeout    = 60 * time.Second
	defaultMaxRetries = 3
	retryBackoff      = 500 * time.Millisecond
)

var errRetryable = errors.New("retryable upstream status")

type cloudClient struct {
	cfg        Config
	httpClient *http.Client
	sleep      func(time.Duration)
}

// NewCloudClient builds a REST client for the platform and agile APIs.
func NewCloudClient(cfg Config) Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	cfg.BaseURL = trimSlash(cfg.BaseURL)
	return &cloudClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		sleep: time.Sleep,
	}
}

func trimSlash(s string) string {
	return strings.TrimRight(s, "/")
}

func (c *cloudClient) authenticateRequest(req *http.Request) {
	// 1. Prioritize Personal Access Token (PAT)
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
		return
	}
	// 2. Fallback to basic auth with the account API token
	if c.cfg.User != "" {
		req.SetBasicAuth(c.cfg.User, c.cfg.APIToken)
	}
}

// getJSON performs a GET with retries on 429/5xx and decodes the body into out.
func (c *cloudClient) getJSON(ctx context.Context, op, path string, params url.Values, out any) error {
	reqURL := c.cfg.BaseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	var lastErr error
	for attempt := 0; attempt < c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			wait := retryBackoff * time.Duration(1<<(attempt-1))
			log.Debug().Str("op", op).Int("attempt", attempt+1).Dur("wait", wait).Msg("Retrying upstream request")
			c.sleep(wait)
		}

		status, err := c.doGet(ctx, reqURL, out)
		if err == nil {
			return nil
		}
		lastErr = &UpstreamFetchError{Op: op, StatusCode: status, Err: err}
		if !errors.Is(err, errRetryable) {
			return lastErr
		}
	}
	return lastErr
}

func (c *cloudClient) doGet(ctx context.Context, reqURL string, out any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")
	c.authenticateRequest(req)

	log.Debug().Str("url", reqURL).Msg("Requesting tracker data")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", errRetryable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		switch {
		case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
			return resp.StatusCode, fmt.Errorf("authentication failed, check JIRA_USER/JIRA_API_TOKEN or JIRA_TOKEN")
		case resp.StatusCode == http.StatusNotFound:
			return resp.StatusCode, fmt.Errorf("resource not found")
		case resp.StatusCode == http.StatusTooManyRequests:
			if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
				return resp.StatusCode, fmt.Errorf("%w: rate limit exceeded, retry after %s seconds", errRetryable, retryAfter)
			}
			return resp.StatusCode, fmt.Errorf("%w: rate limit exceeded", errRetryable)
		case resp.StatusCode >= 500:
			return resp.StatusCode, fmt.Errorf("%w: %s", errRetryable, strings.TrimSpace(string(body)))
		default:
			return resp.StatusCode, fmt.Errorf("unexpected response: %s", strings.TrimSpace(string(body)))
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
	}
	return resp.StatusCode, nil
}

func (c *cloudClient) FetchProjects(ctx context.Context) ([]Project, error) {
	var dtos []ProjectDTO
	if err := c.getJSON(ctx, "fetch projects", "/rest/api/3/project", nil, &dtos); err != nil {
		return nil, err
	}

	projects := make([]Project, 0, len(dtos))
	for _, p := range dtos {
		projects = append(projects, Project(p))
	}
	// Newest first
	slices.SortFunc(projects, func(a, b Project) int {
		ai, _ := strconv.Atoi(a.ID)
		bi, _ := strconv.Atoi(b.ID)
		return bi - ai
	})
	return projects, nil
}

func (c *cloudClient) FetchBoards(ctx context.Context, projectID string) ([]Board, error) {
	var boards []Board
	for startAt := 0; ; {
		params := url.Values{}
		params.Set("projectKeyOrId", projectID)
		params.Set("startAt", strconv.Itoa(startAt))
		params.Set("maxResults", strconv.Itoa(pageSize))

		var page boardPage
		if err := c.getJSON(ctx, "fetch boards", "/rest/agile/1.0/board", params, &page); err != nil {
			return nil, err
		}
		for _, b := range page.Values {
			boards = append(boards, Board(b))
		}
		if page.IsLast || len(page.Values) == 0 {
			break
		}
		startAt += len(page.Values)
	}
	return boards, nil
}

func (c *cloudClient) FetchSprintsForBoard(ctx context.Context, boardID int) ([]Sprint, error) {
	var sprints []Sprint
	path := fmt.Sprintf("/rest/agile/1.0/board/%d/sprint", boardID)
	for startAt := 0; ; {
		params := url.Values{}
		params.Set("startAt", strconv.Itoa(startAt))
		params.Set("maxResults", strconv.Itoa(pageSize))

		var page sprintPage
		if err := c.getJSON(ctx, "fetch sprints", path, params, &page); err != nil {
			return nil, err
		}
		for _, dto := range page.Values {
			s, err := MapSprint(dto, c.cfg.Location)
			if err != nil {
				return nil, fmt.Errorf("fetch sprints: %w", err)
			}
			sprints = append(sprints, s)
		}
		if page.IsLast || len(page.Values) == 0 {
			break
		}
		startAt += len(page.Values)
	}
	return sprints, nil
}

func (c *cloudClient) FetchSprintDetails(ctx context.Context, sprintID int) (Sprint, error) {
	var dto SprintDTO
	path := fmt.Sprintf("/rest/agile/1.0/sprint/%d", sprintID)
	if err := c.getJSON(ctx, "fetch sprint", path, nil, &dto); err != nil {
		return Sprint{}, err
	}
	return MapSprint(dto, c.cfg.Location)
}

func (c *cloudClient) FetchIssuesForSprint(ctx context.Context, sprintID int) ([]Issue, error) {
	var issues []Issue
	path := fmt.Sprintf("/rest/agile/1.0/sprint/%d/issue", sprintID)
	for startAt := 0; ; {
		params := url.Values{}
		params.Set("startAt", strconv.Itoa(startAt))
		params.Set("maxResults", strconv.Itoa(issuePageSize))
		params.Set("expand", "changelog")

		var page issuePage
		if err := c.getJSON(ctx, "fetch sprint issues", path, params, &page); err != nil {
			return nil, err
		}
		for _, dto := range page.Issues {
			issues = append(issues, MapIssue(dto, c.cfg.StoryPointFields))
		}
		startAt += len(page.Issues)
		if len(page.Issues) == 0 || startAt >= page.Total {
			break
		}
	}
	log.Debug().Int("sprintId", sprintID).Int("issues", len(issues)).Msg("Fetched sprint issues")
	return issues, nil
}

func (c *cloudClient) FetchWorklogs(ctx context.Context, issueID string) ([]Worklog, error) {
	var worklogs []Worklog
	path := "/rest/api/3/issue/" + url.PathEscape(issueID) + "/worklog"
	for startAt := 0; ; {
		params := url.Values{}
		params.Set("startAt", strconv.Itoa(startAt))
		params.Set("maxResults", strconv.Itoa(issuePageSize))

		var page worklogPage
		if err := c.getJSON(ctx, "fetch worklogs", path, params, &page); err != nil {
			return nil, err
		}
		for _, dto := range page.Worklogs {
			w, err := MapWorklog(dto)
			if err != nil {
				return nil, fmt.Errorf("fetch worklogs for %s: %w", issueID, err)
			}
			if w.IssueID == "" {
				w.IssueID = issueID
			}
			worklogs = append(worklogs, w)
		}
		startAt += len(page.Worklogs)
		if len(page.Worklogs) == 0 || startAt >= page.Total {
			break
		}
	}
	return worklogs, nil
}
