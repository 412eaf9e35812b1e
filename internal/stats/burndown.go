package stats

import "time"

// CalculateBurndown builds the ideal and actual remaining-points series for a sprint.
//
// The ideal curve burns the total linearly to zero over the sprint's calendar days.
// The actual curve starts at the total and, for each day up to min(now, end),
// subtracts the points of issues resolved that day in a done state.
func CalculateBurndown(issues []SprintIssue, window SprintWindow, now time.Time) BurndownSeries {
	series := BurndownSeries{
		Ideal:  make([]BurndownPoint, 0),
		Actual: make([]BurndownPoint, 0),
	}

	resolvedOn := make(map[string]float64)
	for _, issue := range issues {
		series.TotalPoints += issue.StoryPoints
		if issue.ResolutionDate == nil || !BurndownDoneStatuses.Contains(issue.Status) {
			continue
		}
		resolvedOn[DayKey(issue.ResolutionDate.In(window.Location))] += issue.StoryPoints
	}

	days := window.Days()
	if len(days) == 0 {
		series.RemainingPoints = Round1(series.TotalPoints)
		series.TotalPoints = Round1(series.TotalPoints)
		return series
	}

	step := 0.0
	if len(days) > 1 {
		step = series.TotalPoints / float64(len(days)-1)
	}
	for i, d := range days {
		remaining := series.TotalPoints - step*float64(i)
		if i == len(days)-1 {
			remaining = 0
		}
		series.Ideal = append(series.Ideal, BurndownPoint{Date: DayKey(d), Points: Round1(remaining)})
	}

	cutoff := SnapToStart(now.In(window.Location))
	remaining := series.TotalPoints
	for _, d := range days {
		if d.After(cutoff) {
			break
		}
		key := DayKey(d)
		remaining -= resolvedOn[key]
		series.Actual = append(series.Actual, BurndownPoint{Date: key, Points: Round1(remaining)})
	}

	series.RemainingPoints = Round1(remaining)
	series.CompletedPoints = Round1(series.TotalPoints - remaining)
	series.TotalPoints = Round1(series.TotalPoints)
	return series
}
