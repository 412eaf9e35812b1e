package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"sprint-metrics/internal/stats"
)

// SprintAnalysisCSV writes the per-issue analysis of a sprint as CSV.
func (e *Exporter) SprintAnalysisCSV(w io.Writer, m *stats.SprintMetrics) error {
	return writeCSV(w, e.sprintAnalysisHeaders(), e.sprintAnalysisRows(m))
}

// ComparativeCSV writes the cross-sprint table as CSV.
func (e *Exporter) ComparativeCSV(w io.Writer, r *stats.ComparativeReport) error {
	rows := make([][]any, 0, len(r.Sprints))
	for _, s := range r.Sprints {
		rows = append(rows, comparisonRow(s))
	}
	return writeCSV(w, comparisonHeaders, rows)
}

func writeCSV(w io.Writer, headers []string, rows [][]any) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return err
	}
	record := make([]string, len(headers))
	for _, row := range rows {
		for i, v := range row {
			record[i] = formatCell(v)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatCell(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return fmt.Sprintf("%.2f", t)
	default:
		return fmt.Sprint(t)
	}
}
