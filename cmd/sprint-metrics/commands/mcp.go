package commands

import (
	"sprint-metrics/internal/mcp"

	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP server on stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		return mcp.NewServer(service, Version, cfg.EnableMermaidCharts).Run(cmd.Context())
	},
}
