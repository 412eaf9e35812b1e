package commands

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"

	"sprint-metrics/internal/export"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	reportFormat string
	reportOut    string
	reportLastN  int
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print a single report and exit",
}

var reportSprintCmd = &cobra.Command{
	Use:   "sprint <sprint-id>",
	Short: "Metrics for one sprint",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}
		m, err := service.SprintMetrics(cmd.Context(), ids[0])
		if err != nil {
			return err
		}
		return writeReport(m, func(w io.Writer) error {
			switch reportFormat {
			case "xlsx":
				return exporter.SprintAnalysisWorkbook(w, m)
			case "csv":
				return exporter.SprintAnalysisCSV(w, m)
			}
			return export.WriteJSON(w, m)
		})
	},
}

var reportActiveCmd = &cobra.Command{
	Use:   "active <board-id>",
	Short: "Burndown and progress of the board's active sprint",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}
		r, err := service.ActiveSprint(cmd.Context(), ids[0])
		if err != nil {
			return err
		}
		return writeReport(r, nil)
	},
}

var reportVelocityCmd = &cobra.Command{
	Use:   "velocity <board-id>",
	Short: "Velocity trend over the board's recent closed sprints",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}
		t, err := service.VelocityTrend(cmd.Context(), ids[0], reportLastN)
		if err != nil {
			return err
		}
		return writeReport(t, nil)
	},
}

var reportSummaryCmd = &cobra.Command{
	Use:   "summary <board-id>",
	Short: "Per-sprint summary of the board",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}
		s, err := service.BoardSummary(cmd.Context(), ids[0], reportLastN)
		if err != nil {
			return err
		}
		return writeReport(s, nil)
	},
}

var reportCompareCmd = &cobra.Command{
	Use:   "compare <sprint-id>...",
	Short: "Comparative analysis across sprints",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}
		r, err := service.ComparativeReport(cmd.Context(), ids)
		if err != nil {
			return err
		}
		return writeReport(r, func(w io.Writer) error {
			switch reportFormat {
			case "xlsx":
				return exporter.ComparativeWorkbook(w, r)
			case "csv":
				return exporter.ComparativeCSV(w, r)
			}
			return export.WriteJSON(w, r)
		})
	},
}

func parseIDs(args []string) ([]int, error) {
	ids := make([]int, 0, len(args))
	for _, a := range args {
		id, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", a, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// writeReport renders v with render (JSON when render is nil) to --out or stdout.
func writeReport(v any, render func(io.Writer) error) error {
	if render == nil {
		if reportFormat != "json" {
			return fmt.Errorf("format %q is not supported for this report", reportFormat)
		}
		render = func(w io.Writer) error { return export.WriteJSON(w, v) }
	}
	if reportFormat == "xlsx" && reportOut == "" {
		return fmt.Errorf("--out is required for xlsx output")
	}

	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return err
	}
	if reportOut == "" {
		_, err := os.Stdout.Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(reportOut, buf.Bytes(), 0644); err != nil {
		return err
	}
	log.Info().Str("path", reportOut).Str("format", reportFormat).Msg("Report written")
	return nil
}

func init() {
	reportCmd.PersistentFlags().StringVarP(&reportFormat, "format", "f", "json", "output format: json, csv or xlsx")
	reportCmd.PersistentFlags().StringVarP(&reportOut, "out", "o", "", "write to file instead of stdout")
	reportVelocityCmd.Flags().IntVar(&reportLastN, "last", 0, "number of closed sprints (0 uses VELOCITY_WINDOW)")
	reportSummaryCmd.Flags().IntVar(&reportLastN, "last", 0, "number of closed sprints (0 uses VELOCITY_WINDOW)")

	reportCmd.AddCommand(reportSprintCmd, reportActiveCmd, reportVelocityCmd, reportSummaryCmd, reportCompareCmd)
}
