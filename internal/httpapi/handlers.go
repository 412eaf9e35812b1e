package httpapi

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"sprint-metrics/internal/jira"
	"sprint-metrics/internal/report"
	"sprint-metrics/internal/stats"

	"github.com/gin-gonic/gin"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	csvContentType  = "text/csv; charset=utf-8"
)

// ComparativeRequest is the body of the comparative endpoints.
type ComparativeRequest struct {
	SprintIDs []int `json:"sprint_ids"`
}

// Projects lists the projects visible to the configured account.
func (h *Handlers) Projects(c *gin.Context) {
	projects, err := h.svc.Projects(c.Request.Context())
	h.respond(c, projects, err)
}

// Boards lists the agile boards of the :id project.
func (h *Handlers) Boards(c *gin.Context) {
	boards, err := h.svc.Boards(c.Request.Context(), c.Param("id"))
	h.respond(c, boards, err)
}

// Sprints lists every sprint of the :id board.
func (h *Handlers) Sprints(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	sprints, err := h.svc.Sprints(c.Request.Context(), id)
	h.respond(c, sprints, err)
}

// ActiveSprint returns burndown and progress for the :id board's active sprint.
func (h *Handlers) ActiveSprint(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	active, err := h.svc.ActiveSprint(c.Request.Context(), id)
	h.respond(c, active, err)
}

// Velocity returns the velocity trend over the board's last closed sprints (?last=N).
func (h *Handlers) Velocity(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	lastN, ok := intQuery(c, "last")
	if !ok {
		return
	}
	trend, err := h.svc.VelocityTrend(c.Request.Context(), id, lastN)
	h.respond(c, trend, err)
}

// Summary returns the per-sprint board summary (?last=N).
func (h *Handlers) Summary(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	lastN, ok := intQuery(c, "last")
	if !ok {
		return
	}
	summary, err := h.svc.BoardSummary(c.Request.Context(), id, lastN)
	h.respond(c, summary, err)
}

// SprintDetails returns the sprint with its issues, in-window worklogs and task summary.
func (h *Handlers) SprintDetails(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	details, err := h.svc.SprintDetails(c.Request.Context(), id)
	h.respond(c, details, err)
}

// SprintMetrics returns the full metrics record of the :id sprint.
func (h *Handlers) SprintMetrics(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	metrics, err := h.svc.SprintMetrics(c.Request.Context(), id)
	h.respond(c, metrics, err)
}

// Comparative compares the sprints listed in the request body.
func (h *Handlers) Comparative(c *gin.Context) {
	var req ComparativeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	cmp, err := h.svc.ComparativeReport(c.Request.Context(), req.SprintIDs)
	h.respond(c, cmp, err)
}

// ExportSprint streams a sprint workbook or CSV. kind is one of worklogs, issues,
// analysis or analysis-csv.
func (h *Handlers) ExportSprint(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var (
		buf         bytes.Buffer
		err         error
		filename    string
		contentType = xlsxContentType
	)
	switch kind := c.Param("kind"); kind {
	case "worklogs", "issues":
		var details *report.SprintDetails
		if details, err = h.svc.SprintDetails(ctx, id); err != nil {
			break
		}
		if kind == "worklogs" {
			err = h.exporter.WorklogsWorkbook(&buf, details)
		} else {
			err = h.exporter.IssuesWorkbook(&buf, details)
		}
		filename = fmt.Sprintf("sprint_%d_%s.xlsx", id, kind)
	case "analysis", "analysis-csv":
		var metrics *stats.SprintMetrics
		if metrics, err = h.svc.SprintMetrics(ctx, id); err != nil {
			break
		}
		if kind == "analysis" {
			err = h.exporter.SprintAnalysisWorkbook(&buf, metrics)
			filename = fmt.Sprintf("sprint_%d_analysis.xlsx", id)
		} else {
			err = h.exporter.SprintAnalysisCSV(&buf, metrics)
			filename = fmt.Sprintf("sprint_%d_analysis.csv", id)
			contentType = csvContentType
		}
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown export " + kind})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	attach(c, filename, contentType, buf.Bytes())
}

// ExportComparative streams the comparative report as xlsx, or CSV with ?format=csv.
func (h *Handlers) ExportComparative(c *gin.Context) {
	var req ComparativeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	cmp, err := h.svc.ComparativeReport(c.Request.Context(), req.SprintIDs)
	if err != nil {
		h.fail(c, err)
		return
	}

	var buf bytes.Buffer
	if c.Query("format") == "csv" {
		err = h.exporter.ComparativeCSV(&buf, cmp)
		if err == nil {
			attach(c, "comparative_report.csv", csvContentType, buf.Bytes())
			return
		}
	} else {
		err = h.exporter.ComparativeWorkbook(&buf, cmp)
		if err == nil {
			attach(c, "comparative_report.xlsx", xlsxContentType, buf.Bytes())
			return
		}
	}
	h.fail(c, err)
}

func attach(c *gin.Context, filename, contentType string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}

func (h *Handlers) respond(c *gin.Context, body any, err error) {
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, body)
}

func (h *Handlers) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("Request failed")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	var (
		validation *stats.ValidationError
		upstream   *jira.UpstreamFetchError
	)
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.Is(err, report.ErrNoActiveSprint):
		return http.StatusNotFound
	case errors.As(err, &upstream):
		if upstream.StatusCode == http.StatusNotFound {
			return http.StatusNotFound
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func intParam(c *gin.Context, name string) (int, bool) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid %s %q", name, c.Param(name))})
		return 0, false
	}
	return n, true
}

// intQuery reads an optional integer query value; absent means 0.
func intQuery(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid %s %q", name, raw)})
		return 0, false
	}
	return n, true
}
