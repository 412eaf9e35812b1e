package jira

import "encoding/json"

// pagedResponse covers the agile API's offset paging envelopes.
type pagedResponse struct {
	StartAt    int  `json:"startAt"`
	MaxResults int  `json:"maxResults"`
	Total      int  `json:"total"`
	IsLast     bool `json:"isLast"`
}

// ProjectDTO is a project as returned by the platform API.
type ProjectDTO struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

// BoardDTO is a board as returned by the agile API.
type BoardDTO struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

type boardPage struct {
	pagedResponse
	Values []BoardDTO `json:"values"`
}

// SprintDTO is a sprint as returned by the agile API.
type SprintDTO struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	State        string `json:"state"`
	Goal         string `json:"goal"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	CompleteDate string `json:"completeDate"`
}

type sprintPage struct {
	pagedResponse
	Values []SprintDTO `json:"values"`
}

// IssueDTO represents a single issue in a sprint issue listing.
type IssueDTO struct {
	ID        string        `json:"id"`
	Key       string        `json:"key"`
	Fields    FieldsDTO     `json:"fields"`
	Changelog *ChangelogDTO `json:"changelog,omitempty"`
}

type issuePage struct {
	pagedResponse
	Issues []IssueDTO `json:"issues"`
}

// FieldsDTO contains the typed fields we read plus the raw map for custom fields.
type FieldsDTO struct {
	Summary   string `json:"summary"`
	IssueType struct {
		Name string `json:"name"`
	} `json:"issuetype"`
	Status struct {
		Name string `json:"name"`
	} `json:"status"`
	Assignee *struct {
		DisplayName string `json:"displayName"`
	} `json:"assignee"`
	Parent *struct {
		Key    string `json:"key"`
		Fields struct {
			Summary string `json:"summary"`
		} `json:"fields"`
	} `json:"parent"`
	Created        string `json:"created"`
	ResolutionDate string `json:"resolutiondate"`

	Raw map[string]json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the typed subset and keeps every field raw for custom lookups.
func (f *FieldsDTO) UnmarshalJSON(data []byte) error {
	type plain FieldsDTO
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*f = FieldsDTO(p)
	f.Raw = raw
	return nil
}

// ChangelogDTO contains historical transitions.
type ChangelogDTO struct {
	Histories []HistoryDTO `json:"histories"`
}

// HistoryDTO is a single entry in the changelog.
type HistoryDTO struct {
	Created string    `json:"created"`
	Items   []ItemDTO `json:"items"`
}

// ItemDTO is a single field change within a history entry.
type ItemDTO struct {
	Field      string `json:"field"`
	FromString string `json:"fromString"`
	ToString   string `json:"toString"`
}

// WorklogDTO is a worklog entry.
type WorklogDTO struct {
	ID      string `json:"id"`
	IssueID string `json:"issueId"`
	Author  struct {
		DisplayName string `json:"displayName"`
	} `json:"author"`
	Started          string `json:"started"`
	TimeSpent        string `json:"timeSpent"`
	TimeSpentSeconds int    `json:"timeSpentSeconds"`
}

type worklogPage struct {
	pagedResponse
	Worklogs []WorklogDTO `json:"worklogs"`
}
