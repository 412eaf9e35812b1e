package jira

import (
	"fmt"
	"time"
)

// MapSprint transforms a sprint DTO, localising its bounds to loc.
// Start and end are required; the completion date is optional.
func MapSprint(item SprintDTO, loc *time.Location) (Sprint, error) {
	if loc == nil {
		loc = time.UTC
	}
	sprint := Sprint{
		ID:    item.ID,
		Name:  item.Name,
		State: item.State,
		Goal:  item.Goal,
	}

	// Future sprints have no dates yet.
	if item.StartDate != "" {
		t, err := ParseTimestamp(item.StartDate)
		if err != nil {
			return Sprint{}, fmt.Errorf("sprint %d start: %w", item.ID, err)
		}
		sprint.Start = t.In(loc)
	}
	if item.EndDate != "" {
		t, err := ParseTimestamp(item.EndDate)
		if err != nil {
			return Sprint{}, fmt.Errorf("sprint %d end: %w", item.ID, err)
		}
		sprint.End = t.In(loc)
	}
	if t := parseOptionalTime(item.CompleteDate); t != nil {
		local := t.In(loc)
		sprint.CompleteDate = &local
	}
	return sprint, nil
}

// MapIssue transforms an issue DTO into a domain Issue. Story points are
// resolved from the preferred custom fields; optional timestamps that fail to
// parse are dropped.
func MapIssue(item IssueDTO, storyPointFields []string) Issue {
	issue := Issue{
		ID:        item.ID,
		Key:       item.Key,
		Summary:   item.Fields.Summary,
		IssueType: item.Fields.IssueType.Name,
		Status:    item.Fields.Status.Name,
		Fields:    item.Fields.Raw,
	}

	if item.Fields.Assignee != nil {
		issue.Assignee = item.Fields.Assignee.DisplayName
	}
	if item.Fields.Parent != nil {
		issue.ParentSummary = item.Fields.Parent.Fields.Summary
	}
	if t, err := ParseTimestamp(item.Fields.Created); err == nil {
		issue.Created = t
	}
	issue.ResolutionDate = parseOptionalTime(item.Fields.ResolutionDate)
	issue.StoryPoints = ExtractStoryPoints(item.Fields.Raw, storyPointFields)

	if item.Changelog != nil {
		issue.History = MapHistory(item.Changelog)
	}
	return issue
}

// MapHistory converts changelog entries, skipping those without a usable instant.
// Input order is preserved; consumers sort as needed.
func MapHistory(changelog *ChangelogDTO) []HistoryEntry {
	history := make([]HistoryEntry, 0, len(changelog.Histories))
	for _, h := range changelog.Histories {
		created, err := ParseTimestamp(h.Created)
		if err != nil {
			continue
		}
		entry := HistoryEntry{Created: created, Items: make([]ChangeItem, 0, len(h.Items))}
		for _, itm := range h.Items {
			entry.Items = append(entry.Items, ChangeItem{
				Field: itm.Field,
				From:  itm.FromString,
				To:    itm.ToString,
			})
		}
		history = append(history, entry)
	}
	return history
}

// MapWorklog converts a worklog DTO and derives its hours. The textual duration
// wins; the seconds counter is used only when no text is present.
func MapWorklog(item WorklogDTO) (Worklog, error) {
	started, err := ParseTimestamp(item.Started)
	if err != nil {
		return Worklog{}, fmt.Errorf("worklog %s started: %w", item.ID, err)
	}

	w := Worklog{
		ID:        item.ID,
		IssueID:   item.IssueID,
		Author:    item.Author.DisplayName,
		Started:   started,
		TimeSpent: item.TimeSpent,
	}

	if item.TimeSpent != "" {
		hours, err := ParseDuration(item.TimeSpent)
		if err != nil {
			return Worklog{}, fmt.Errorf("worklog %s: %w", item.ID, err)
		}
		w.HoursSpent = hours
	} else {
		w.HoursSpent = float64(item.TimeSpentSeconds) / 3600.0
	}
	return w, nil
}
