package stats

// Estimation classifications. An empty string means the issue could not be classified.
const (
	EstimateCorrect = "correct"
	EstimateOver    = "over-estimated"
	EstimateUnder   = "under-estimated"
)

type hourRange struct {
	low, high float64
}

// expectedHours is the accepted hour range per story-point value.
var expectedHours = map[float64]hourRange{
	1: {0, 2},
	2: {2, 4},
	3: {4, 8},
	5: {8, 16},
	8: {16, 24},
}

// ClassifyEstimate compares story points against hours spent. Ranges are inclusive.
func ClassifyEstimate(points, hours float64) string {
	if points <= 0 {
		return ""
	}
	r, ok := expectedHours[points]
	if !ok {
		return ""
	}
	switch {
	case hours < r.low:
		return EstimateOver
	case hours > r.high:
		return EstimateUnder
	default:
		return EstimateCorrect
	}
}

// CalculateEstimation classifies every finished issue of the sprint.
func CalculateEstimation(issues []SprintIssue) EstimationReport {
	report := EstimationReport{Entries: make([]EstimationEntry, 0)}
	for _, issue := range issues {
		if !EstimationStatuses.Contains(issue.Status) {
			continue
		}
		class := ClassifyEstimate(issue.StoryPoints, issue.HoursSpent)
		report.Entries = append(report.Entries, EstimationEntry{
			Key:            issue.Key,
			IssueType:      issue.IssueType,
			Status:         issue.Status,
			StoryPoints:    issue.StoryPoints,
			HoursSpent:     Round2(issue.HoursSpent),
			Classification: class,
		})
		switch class {
		case EstimateCorrect:
			report.Correct++
		case EstimateOver:
			report.OverEstimated++
		case EstimateUnder:
			report.UnderEstimated++
		default:
			continue
		}
		report.Classified++
	}
	report.AccuracyPercent = Round1(Percentage(float64(report.Correct), float64(report.Classified)))
	return report
}
