package visuals

import (
	"strings"
	"testing"

	"sprint-metrics/internal/report"
	"sprint-metrics/internal/stats"
)

func TestGenerateBurndownChart(t *testing.T) {
	series := stats.BurndownSeries{
		TotalPoints: 10,
		Ideal: []stats.BurndownPoint{
			{Date: "2024-01-01", Points: 10}, {Date: "2024-01-02", Points: 5}, {Date: "2024-01-03", Points: 0},
		},
		Actual: []stats.BurndownPoint{{Date: "2024-01-01", Points: 10}, {Date: "2024-01-02", Points: 7}},
	}

	chart := GenerateBurndownChart(series)

	for _, want := range []string{
		"xychart-beta",
		`x-axis ["01-01", "01-02", "01-03"]`,
		`y-axis "Story Points" 0 --> 11`,
		"line [10.0, 5.0, 0.0]",
		"line [10.0, 7.0]",
	} {
		if !strings.Contains(chart, want) {
			t.Errorf("chart missing %q:\n%s", want, chart)
		}
	}
}

func TestGenerateBurndownChart_Empty(t *testing.T) {
	if chart := GenerateBurndownChart(stats.BurndownSeries{}); chart != "" {
		t.Errorf("expected empty chart, got %q", chart)
	}
}

func TestGenerateVelocityChart(t *testing.T) {
	chart := GenerateVelocityChart([]report.VelocityPoint{
		{Name: "Sprint 1", CommittedPoints: 20, CompletedPoints: 15},
		{Name: `Sprint "2"`, CommittedPoints: 18, CompletedPoints: 18},
	})

	if !strings.Contains(chart, `x-axis ["Sprint 1", "Sprint 2"]`) {
		t.Errorf("labels not sanitised:\n%s", chart)
	}
	if !strings.Contains(chart, "bar [20.0, 18.0]") || !strings.Contains(chart, "line [15.0, 18.0]") {
		t.Errorf("unexpected series:\n%s", chart)
	}
}

func TestGenerateTimeDistributionPie(t *testing.T) {
	chart := GenerateTimeDistributionPie(map[string]float64{"review": 2, "development": 6.5})

	dev := strings.Index(chart, `"development" : 6.5`)
	review := strings.Index(chart, `"review" : 2.0`)
	if dev < 0 || review < 0 || dev > review {
		t.Errorf("phases missing or unsorted:\n%s", chart)
	}
}

func TestGenerateTeamChart_SortsByHours(t *testing.T) {
	chart := GenerateTeamChart(map[string]stats.DeveloperLoad{
		"Bruno": {Hours: 3},
		"Ana":   {Hours: 6},
	})

	if !strings.Contains(chart, `x-axis ["Ana", "Bruno"]`) {
		t.Errorf("unexpected order:\n%s", chart)
	}
}
