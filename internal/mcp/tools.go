package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"sprint-metrics/internal/visuals"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

type noInput struct{}

type projectInput struct {
	ProjectID string `json:"project_id" jsonschema:"numeric id or key of the project"`
}

type boardInput struct {
	BoardID int `json:"board_id" jsonschema:"id of the agile board"`
}

type sprintInput struct {
	SprintID int `json:"sprint_id" jsonschema:"id of the sprint"`
}

type trendInput struct {
	BoardID int `json:"board_id" jsonschema:"id of the agile board"`
	LastN   int `json:"last_n,omitempty" jsonschema:"number of most recent closed sprints, defaults to the configured window"`
}

type comparativeInput struct {
	SprintIDs []int `json:"sprint_ids" jsonschema:"between 1 and 10 sprint ids to compare"`
}

type roadmapInput struct {
	Goal string `json:"goal" jsonschema:"one of sprint_review, delivery_trend, team_health"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_projects",
		Description: "List the projects visible to the configured account.",
	}, s.listProjects)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_boards",
		Description: "List the agile boards of a project.",
	}, s.listBoards)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_sprints",
		Description: "List the sprints of a board with their state and dates.",
	}, s.listSprints)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "sprint_metrics",
		Description: "Compute velocity, time distribution, team performance, burndown and estimation accuracy for one sprint. Only worklogs started inside the sprint window count.",
	}, s.sprintMetrics)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "active_sprint_burndown",
		Description: "Burndown, status breakdown and progress of a board's active sprint.",
	}, s.activeSprint)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "velocity_trend",
		Description: "Committed vs completed story points over a board's most recent closed sprints.",
	}, s.velocityTrend)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "board_summary",
		Description: "Say/do ratio plus bug and support flow over a board's most recent closed sprints.",
	}, s.boardSummary)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "comparative_report",
		Description: "Compare up to 10 sprints: per-sprint metrics, per-developer roll-up, insights and recommendations.",
	}, s.comparativeReport)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "guide_sprint_analysis",
		Description: "Suggest the sequence of tools to call for a given analysis goal.",
	}, s.guide)
}

func (s *Server) listProjects(ctx context.Context, _ *mcp.CallToolRequest, _ noInput) (*mcp.CallToolResult, any, error) {
	projects, err := s.svc.Projects(ctx)
	if err != nil {
		return nil, nil, err
	}
	return textResult(map[string]any{"projects": projects})
}

func (s *Server) listBoards(ctx context.Context, _ *mcp.CallToolRequest, in projectInput) (*mcp.CallToolResult, any, error) {
	if in.ProjectID == "" {
		return nil, nil, fmt.Errorf("project_id is required")
	}
	boards, err := s.svc.Boards(ctx, in.ProjectID)
	if err != nil {
		return nil, nil, err
	}
	return textResult(map[string]any{"boards": boards})
}

func (s *Server) listSprints(ctx context.Context, _ *mcp.CallToolRequest, in boardInput) (*mcp.CallToolResult, any, error) {
	sprints, err := s.svc.Sprints(ctx, in.BoardID)
	if err != nil {
		return nil, nil, err
	}
	return textResult(map[string]any{
		"sprints": sprints,
		"_guidance": []string{
			"Use 'sprint_metrics' with a sprint id for a single sprint, or 'comparative_report' with up to 10 ids.",
		},
	})
}

func (s *Server) sprintMetrics(ctx context.Context, _ *mcp.CallToolRequest, in sprintInput) (*mcp.CallToolResult, any, error) {
	m, err := s.svc.SprintMetrics(ctx, in.SprintID)
	if err != nil {
		return nil, nil, err
	}
	res := map[string]any{
		"metrics": m,
		"_guidance": []string{
			"Velocity counts Story/Task issues by their status at sprint close, not their current status.",
			"Estimation 'analysis' compares story points with hours logged inside the sprint window.",
		},
	}
	if s.enableCharts {
		res["visual_burndown"] = visuals.GenerateBurndownChart(m.Burndown)
		res["visual_time_distribution"] = visuals.GenerateTimeDistributionPie(m.TimeDistribution)
		res["visual_team_performance"] = visuals.GenerateTeamChart(m.TeamPerformance)
	}
	return textResult(res)
}

func (s *Server) activeSprint(ctx context.Context, _ *mcp.CallToolRequest, in boardInput) (*mcp.CallToolResult, any, error) {
	active, err := s.svc.ActiveSprint(ctx, in.BoardID)
	if err != nil {
		return nil, nil, err
	}
	res := map[string]any{"active_sprint": active}
	if s.enableCharts {
		res["visual_burndown"] = visuals.GenerateBurndownChart(active.Burndown)
	}
	return textResult(res)
}

func (s *Server) velocityTrend(ctx context.Context, _ *mcp.CallToolRequest, in trendInput) (*mcp.CallToolResult, any, error) {
	trend, err := s.svc.VelocityTrend(ctx, in.BoardID, in.LastN)
	if err != nil {
		return nil, nil, err
	}
	res := map[string]any{"velocity": trend}
	if s.enableCharts {
		res["visual_velocity"] = visuals.GenerateVelocityChart(trend.Sprints)
	}
	return textResult(res)
}

func (s *Server) boardSummary(ctx context.Context, _ *mcp.CallToolRequest, in trendInput) (*mcp.CallToolResult, any, error) {
	summary, err := s.svc.BoardSummary(ctx, in.BoardID, in.LastN)
	if err != nil {
		return nil, nil, err
	}
	return textResult(map[string]any{"summary": summary})
}

func (s *Server) comparativeReport(ctx context.Context, _ *mcp.CallToolRequest, in comparativeInput) (*mcp.CallToolResult, any, error) {
	cmp, err := s.svc.ComparativeReport(ctx, in.SprintIDs)
	if err != nil {
		return nil, nil, err
	}
	res := map[string]any{"comparative": cmp}
	if s.enableCharts {
		res["visual_say_do"] = visuals.GenerateSayDoChart(cmp.Sprints)
	}
	return textResult(res)
}

var roadmaps = map[string]map[string]any{
	"sprint_review": {
		"title": "Sprint Review",
		"steps": []string{
			"list_sprints: pick the sprint to review",
			"sprint_metrics: velocity, hours by phase and estimation accuracy",
			"comparative_report: place the sprint next to the previous ones",
		},
	},
	"delivery_trend": {
		"title": "Delivery Trend",
		"steps": []string{
			"velocity_trend: committed vs completed over recent sprints",
			"board_summary: say/do ratio and bug/support flow",
		},
	},
	"team_health": {
		"title": "Team Health",
		"steps": []string{
			"active_sprint_burndown: is the running sprint on track",
			"comparative_report: developer roll-up and threshold insights",
		},
	},
}

func (s *Server) guide(_ context.Context, _ *mcp.CallToolRequest, in roadmapInput) (*mcp.CallToolResult, any, error) {
	roadmap, ok := roadmaps[in.Goal]
	if !ok {
		return nil, nil, fmt.Errorf("unknown goal: %s. Available goals: sprint_review, delivery_trend, team_health", in.Goal)
	}
	return textResult(roadmap)
}

func textResult(v any) (*mcp.CallToolResult, any, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode tool result")
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(out)}},
	}, nil, nil
}
