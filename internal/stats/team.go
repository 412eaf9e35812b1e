package stats

// CalculateTeamPerformance groups the sprint's worklogs by author.
func CalculateTeamPerformance(issues []SprintIssue) map[string]DeveloperLoad {
	team := make(map[string]DeveloperLoad)
	for _, issue := range issues {
		for _, wl := range issue.Worklogs {
			load := team[wl.Author]
			load.Hours += wl.HoursSpent
			load.Tasks++
			team[wl.Author] = load
		}
	}
	for author, load := range team {
		load.Hours = Round2(load.Hours)
		if load.Tasks > 0 {
			load.AvgHoursPerTask = Round2(load.Hours / float64(load.Tasks))
		}
		team[author] = load
	}
	return team
}
