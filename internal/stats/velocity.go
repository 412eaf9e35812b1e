package stats

// CalculateVelocity partitions issues into committed (Story/Task with points) and
// completed (committed and finished at sprint close).
func CalculateVelocity(issues []SprintIssue) Velocity {
	v := Velocity{Issues: make([]VelocityIssue, 0)}
	for _, issue := range issues {
		if !estimableTypes.Contains(issue.IssueType) || issue.StoryPoints <= 0 {
			continue
		}
		completed := VelocityDoneStatuses.Contains(issue.StatusAtEnd)

		v.CommittedPoints += issue.StoryPoints
		v.StoryCount++
		if completed {
			v.CompletedPoints += issue.StoryPoints
			v.CompletedStoryCount++
		}
		v.Issues = append(v.Issues, VelocityIssue{
			Key:         issue.Key,
			IssueType:   issue.IssueType,
			StoryPoints: issue.StoryPoints,
			StatusAtEnd: issue.StatusAtEnd,
			Completed:   completed,
		})
	}
	v.SayDoRatio = Round1(Percentage(v.CompletedPoints, v.CommittedPoints))
	return v
}
