package httpapi

import (
	"net/http"
	"time"

	"sprint-metrics/internal/export"
	"sprint-metrics/internal/report"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const requestIDHeader = "X-Request-ID"

// Handlers serves the REST surface over a report service.
type Handlers struct {
	svc      *report.Service
	exporter *export.Exporter
	log      zerolog.Logger
}

// NewRouter builds the gin engine with the JSON API, download routes and dashboard.
func NewRouter(svc *report.Service, exporter *export.Exporter, log zerolog.Logger, debug bool) (*gin.Engine, error) {
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}
	dashboard, err := minifiedDashboard()
	if err != nil {
		return nil, err
	}

	h := &Handlers{svc: svc, exporter: exporter, log: log}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(log))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	r.GET("/", func(c *gin.Context) { c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML) })
	r.GET("/static/dashboard.js", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/javascript; charset=utf-8", dashboard)
	})

	api := r.Group("/api")
	api.GET("/projects", h.Projects)
	api.GET("/projects/:id/boards", h.Boards)
	api.GET("/boards/:id/sprints", h.Sprints)
	api.GET("/boards/:id/active-sprint", h.ActiveSprint)
	api.GET("/boards/:id/velocity", h.Velocity)
	api.GET("/boards/:id/summary", h.Summary)
	api.GET("/sprints/:id/details", h.SprintDetails)
	api.GET("/sprints/:id/metrics", h.SprintMetrics)
	api.GET("/sprints/:id/export/:kind", h.ExportSprint)
	api.POST("/metrics/comparative", h.Comparative)
	api.POST("/metrics/comparative/export", h.ExportComparative)

	return r, nil
}

// requestLogger tags each request with an id and logs one line when it completes.
func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("requestId", id)
		c.Header(requestIDHeader, id)

		start := time.Now()
		c.Next()

		evt := log.Info()
		if c.Writer.Status() >= http.StatusInternalServerError {
			evt = log.Error()
		}
		evt.Str("requestId", id).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("http")
	}
}
