package export

import (
	"fmt"
	"io"

	"sprint-metrics/internal/report"
	"sprint-metrics/internal/stats"

	"github.com/xuri/excelize/v2"
)

// Sheet names.
const (
	SheetWorklogs       = "Worklogs"
	SheetIssues         = "Issues"
	SheetSprintAnalysis = "Sprint Analysis"
	SheetSprints        = "Sprints"
	SheetDevelopers     = "Developers"
	SheetInsights       = "Insights"
)

// Exporter renders derived records as spreadsheets and CSV files.
type Exporter struct {
	browse     func(key string) string
	extraLabel string
}

// New creates an exporter. browse turns an issue key into its web link.
func New(browse func(key string) string) *Exporter {
	if browse == nil {
		browse = func(string) string { return "" }
	}
	return &Exporter{browse: browse}
}

// WithExtraColumn appends a column headed label to the sprint analysis exports,
// filled from IssueDetail.ExtraField. An empty label disables it.
func (e *Exporter) WithExtraColumn(label string) *Exporter {
	e.extraLabel = label
	return e
}

// WorklogsWorkbook writes one row per in-window worklog of the sprint.
func (e *Exporter) WorklogsWorkbook(w io.Writer, details *report.SprintDetails) error {
	loc := details.Window.Location
	rows := make([][]any, 0)
	for _, issue := range details.Issues {
		for _, wl := range issue.Worklogs {
			started := wl.Started
			if loc != nil {
				started = started.In(loc)
			}
			rows = append(rows, []any{
				issue.Key, issue.Summary, issue.IssueType, wl.Author,
				stats.Round2(wl.HoursSpent), e.browse(issue.Key), started.Format("2006-01-02 15:04"),
			})
		}
	}
	return writeWorkbook(w, []sheet{{
		name:    SheetWorklogs,
		headers: []string{"Task Key", "Summary", "Type", "User", "Time Spent (hours)", "Link", "Started"},
		rows:    rows,
		linkCol: 6,
	}})
}

// IssuesWorkbook writes the sprint's issues with their story points.
func (e *Exporter) IssuesWorkbook(w io.Writer, details *report.SprintDetails) error {
	rows := make([][]any, 0, len(details.Issues))
	for _, issue := range details.Issues {
		rows = append(rows, []any{issue.Key, issue.Summary, issue.Status, issue.StoryPoints})
	}
	return writeWorkbook(w, []sheet{{
		name:    SheetIssues,
		headers: []string{"Task Key", "Summary", "Status", "Story Points"},
		rows:    rows,
	}})
}

// SprintAnalysisWorkbook writes the per-issue analysis of a sprint.
func (e *Exporter) SprintAnalysisWorkbook(w io.Writer, m *stats.SprintMetrics) error {
	return writeWorkbook(w, []sheet{{
		name:    SheetSprintAnalysis,
		headers: e.sprintAnalysisHeaders(),
		rows:    e.sprintAnalysisRows(m),
	}})
}

// ComparativeWorkbook writes the cross-sprint table, the developer roll-up and the insights.
func (e *Exporter) ComparativeWorkbook(w io.Writer, r *stats.ComparativeReport) error {
	sprints := make([][]any, 0, len(r.Sprints))
	for _, s := range r.Sprints {
		sprints = append(sprints, comparisonRow(s))
	}
	devs := make([][]any, 0, len(r.Developers))
	for _, d := range r.Developers {
		devs = append(devs, []any{d.Name, d.CompletedPoints, d.Hours, d.CompletedTasks, d.Sprints})
	}
	insights := make([][]any, 0, len(r.Insights)+len(r.Recommendations))
	for _, in := range r.Insights {
		insights = append(insights, []any{in.Kind, in.Title, in.Description})
	}
	for _, rec := range r.Recommendations {
		insights = append(insights, []any{"recommendation", "", rec})
	}

	return writeWorkbook(w, []sheet{
		{name: SheetSprints, headers: comparisonHeaders, rows: sprints},
		{
			name:    SheetDevelopers,
			headers: []string{"Developer", "Completed Points", "Hours", "Completed Tasks", "Sprints"},
			rows:    devs,
		},
		{name: SheetInsights, headers: []string{"Type", "Title", "Description"}, rows: insights},
	})
}

type sheet struct {
	name    string
	headers []string
	rows    [][]any
	// linkCol is the 1-based column holding URLs, 0 for none.
	linkCol int
}

func writeWorkbook(w io.Writer, sheets []sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return err
		}
		if err := writeSheet(f, s, bold); err != nil {
			return fmt.Errorf("sheet %s: %w", s.name, err)
		}
	}
	return f.Write(w)
}

func writeSheet(f *excelize.File, s sheet, headerStyle int) error {
	header := make([]any, len(s.headers))
	for i, h := range s.headers {
		header[i] = h
	}
	if err := f.SetSheetRow(s.name, "A1", &header); err != nil {
		return err
	}
	lastCol, err := excelize.ColumnNumberToName(len(s.headers))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(s.name, "A1", lastCol+"1", headerStyle); err != nil {
		return err
	}
	if err := f.SetColWidth(s.name, "A", lastCol, 18); err != nil {
		return err
	}

	for i, row := range s.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(s.name, cell, &row); err != nil {
			return err
		}
		if s.linkCol == 0 {
			continue
		}
		link, _ := row[s.linkCol-1].(string)
		if link == "" {
			continue
		}
		linkCell, err := excelize.CoordinatesToCellName(s.linkCol, i+2)
		if err != nil {
			return err
		}
		if err := f.SetCellHyperLink(s.name, linkCell, link, "External"); err != nil {
			return err
		}
	}
	return nil
}
