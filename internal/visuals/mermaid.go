package visuals

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"sprint-metrics/internal/report"
	"sprint-metrics/internal/stats"
)

// maxPoints keeps xychart labels readable; wider series are subsampled.
const maxPoints = 60

// GenerateBurndownChart creates a Mermaid xychart-beta with the ideal and actual burndown lines.
func GenerateBurndownChart(series stats.BurndownSeries) string {
	if len(series.Ideal) == 0 {
		return ""
	}

	step := 1
	if len(series.Ideal) > maxPoints {
		step = int(math.Ceil(float64(len(series.Ideal)) / maxPoints))
	}

	var labels, ideal, actual []string
	for i, p := range series.Ideal {
		if i%step != 0 && i != len(series.Ideal)-1 {
			continue
		}
		labels = append(labels, quote(p.Date[5:]))
		ideal = append(ideal, fmt.Sprintf("%.1f", p.Points))
		if i < len(series.Actual) {
			actual = append(actual, fmt.Sprintf("%.1f", series.Actual[i].Points))
		}
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Sprint Burndown\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Story Points\" 0 --> %d\n", ceilWithHeadroom(series.TotalPoints)))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(ideal, ", ")))
	if len(actual) > 0 {
		sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(actual, ", ")))
	}
	sb.WriteString("```")
	return sb.String()
}

// GenerateVelocityChart creates a Mermaid bar chart of committed vs completed points per sprint.
func GenerateVelocityChart(points []report.VelocityPoint) string {
	if len(points) == 0 {
		return ""
	}

	var labels, committed, completed []string
	maxVal := 0.0
	for _, p := range points {
		labels = append(labels, quote(p.Name))
		committed = append(committed, fmt.Sprintf("%.1f", p.CommittedPoints))
		completed = append(completed, fmt.Sprintf("%.1f", p.CompletedPoints))
		maxVal = max(maxVal, p.CommittedPoints, p.CompletedPoints)
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Velocity (Committed vs Completed)\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Story Points\" 0 --> %d\n", ceilWithHeadroom(maxVal)))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(committed, ", ")))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(completed, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateTimeDistributionPie creates a Mermaid pie chart of hours per workflow phase.
func GenerateTimeDistributionPie(dist map[string]float64) string {
	if len(dist) == 0 {
		return ""
	}

	phases := make([]string, 0, len(dist))
	for phase := range dist {
		phases = append(phases, phase)
	}
	slices.Sort(phases)

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("pie title Time Distribution (Hours)\n")
	for _, phase := range phases {
		sb.WriteString(fmt.Sprintf("    %s : %.1f\n", quote(phase), dist[phase]))
	}
	sb.WriteString("```")
	return sb.String()
}

// GenerateTeamChart creates a Mermaid bar chart of logged hours per developer.
func GenerateTeamChart(team map[string]stats.DeveloperLoad) string {
	if len(team) == 0 {
		return ""
	}

	names := make([]string, 0, len(team))
	for name := range team {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		if team[a].Hours != team[b].Hours {
			if team[a].Hours > team[b].Hours {
				return -1
			}
			return 1
		}
		return strings.Compare(a, b)
	})

	var labels, values []string
	maxVal := 0.0
	for _, name := range names {
		labels = append(labels, quote(name))
		values = append(values, fmt.Sprintf("%.1f", team[name].Hours))
		maxVal = max(maxVal, team[name].Hours)
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Team Performance (Hours Logged)\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Hours\" 0 --> %d\n", ceilWithHeadroom(maxVal)))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateSayDoChart creates a Mermaid line chart of say/do ratios across compared sprints.
func GenerateSayDoChart(rows []stats.SprintComparison) string {
	if len(rows) == 0 {
		return ""
	}

	var labels, values []string
	for _, r := range rows {
		labels = append(labels, quote(r.Name))
		values = append(values, fmt.Sprintf("%.1f", r.SayDoRatio))
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Say/Do Ratio\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString("    y-axis \"Percent\" 0 --> 100\n")
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// quote wraps a label in double quotes, dropping any it already contains.
func quote(s string) string {
	return "\"" + strings.ReplaceAll(s, "\"", "") + "\""
}

func ceilWithHeadroom(v float64) int {
	return max(1, int(math.Ceil(v*1.1)))
}
