package mcp

import (
	"context"

	"sprint-metrics/internal/report"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

// Server exposes the report service as Model Context Protocol tools.
type Server struct {
	svc          *report.Service
	enableCharts bool
	server       *mcp.Server
}

// NewServer creates the MCP server and registers every tool.
func NewServer(svc *report.Service, version string, enableCharts bool) *Server {
	s := &Server{
		svc:          svc,
		enableCharts: enableCharts,
		server:       mcp.NewServer(&mcp.Implementation{Name: "sprint-metrics", Version: version}, nil),
	}
	s.registerTools()
	return s
}

// Run serves MCP over stdio until the client disconnects or ctx is done.
func (s *Server) Run(ctx context.Context) error {
	log.Info().Bool("charts", s.enableCharts).Msg("MCP Server starting Stdio loop")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Connect attaches the server to an arbitrary transport.
func (s *Server) Connect(ctx context.Context, t mcp.Transport) (*mcp.ServerSession, error) {
	return s.server.Connect(ctx, t, nil)
}
