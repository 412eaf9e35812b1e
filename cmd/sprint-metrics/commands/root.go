package commands

import (
	"fmt"

	"sprint-metrics/internal/config"
	"sprint-metrics/internal/export"
	"sprint-metrics/internal/jira"
	"sprint-metrics/internal/logging"
	"sprint-metrics/internal/mcp"
	"sprint-metrics/internal/report"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig

	service  *report.Service
	exporter *export.Exporter
)

var rootCmd = &cobra.Command{
	Use:   "sprint-metrics",
	Short: "Sprint analytics for Jira boards",
	Long: `Computes velocity, burndown, estimation accuracy, team performance and
cross-sprint comparisons from Jira sprints, issues and worklogs.

Without a subcommand it runs the MCP server on stdio.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}
		if err := logging.Init(verbose, cfg.LogDir); err != nil {
			return err
		}

		client, err := newJiraClient(cfg)
		if err != nil {
			return err
		}
		service = report.NewService(client, report.Settings{
			Location:           cfg.Location,
			WorklogConcurrency: cfg.WorklogConcurrency,
			VelocityWindow:     cfg.VelocityWindow,
			ExtraField:         cfg.ExportExtraField,
		})
		exporter = export.New(cfg.Jira.BrowseURL)
		if cfg.ExportExtraField != "" {
			exporter.WithExtraColumn(cfg.ExportExtraLabel)
		}

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Str("timezone", cfg.Location.String()).
			Bool("offline", cfg.DatasetPath != "").
			Msg("sprint-metrics starting")
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return mcp.NewServer(service, Version, cfg.EnableMermaidCharts).Run(cmd.Context())
	},
}

func newJiraClient(cfg *config.AppConfig) (jira.Client, error) {
	if cfg.DatasetPath != "" {
		log.Warn().Str("path", cfg.DatasetPath).Msg("Using offline dataset instead of the live Jira API")
		return jira.LoadDataset(cfg.DatasetPath)
	}
	return jira.NewClient(cfg.Jira), nil
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.AddCommand(mcpCmd, serveCmd, reportCmd)
}
