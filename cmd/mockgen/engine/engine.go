package engine

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"time"

	"sprint-metrics/internal/jira"
)

const (
	sprintDays = 14
	projectKey = "MOCK"
	boardID    = 1
)

var developers = []string{"Ana Souza", "Bruno Lima", "Carla Dias", "Diego Rocha"}

var storyPoints = []float64{1, 2, 3, 5, 8}

// hoursPerPoint is the midpoint of the accepted hour range for each point value.
var hoursPerPoint = map[float64]float64{1: 1, 2: 3, 3: 6, 5: 12, 8: 20}

type GeneratorConfig struct {
	Scenario        string // "mild", "chaos" or "drift"
	Distribution    string // "uniform" or "weibull"
	Sprints         int
	IssuesPerSprint int
	Now             time.Time
	Seed            int64
}

type generator struct {
	cfg       GeneratorConfig
	rng       *rand.Rand
	data      jira.Dataset
	nextIssue int
	nextLog   int
}

// Generate builds a dataset with one project, one board and cfg.Sprints sprints.
// The last sprint is active and contains cfg.Now; the others are closed.
func Generate(cfg GeneratorConfig) jira.Dataset {
	if cfg.Now.IsZero() {
		cfg.Now = time.Now()
	}
	if cfg.Sprints <= 0 {
		cfg.Sprints = 6
	}
	if cfg.IssuesPerSprint <= 0 {
		cfg.IssuesPerSprint = 20
	}

	g := &generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
		data: jira.Dataset{
			Projects: []jira.Project{{ID: "10000", Key: projectKey, Name: "Mock Project"}},
			Boards:   map[string][]jira.Board{"10000": {{ID: boardID, Name: "MOCK board", Type: "scrum"}}},
			Sprints:  map[int][]jira.Sprint{},
			Issues:   map[int][]jira.DatasetIssue{},
			Worklogs: map[string][]jira.Worklog{},
		},
	}

	// The active sprint starts half a sprint before now.
	today := time.Date(cfg.Now.Year(), cfg.Now.Month(), cfg.Now.Day(), 9, 0, 0, 0, cfg.Now.Location())
	firstStart := today.AddDate(0, 0, -sprintDays/2-(cfg.Sprints-1)*sprintDays)

	for i := 0; i < cfg.Sprints; i++ {
		start := firstStart.AddDate(0, 0, i*sprintDays)
		end := start.AddDate(0, 0, sprintDays).Add(-time.Minute)
		sprint := jira.Sprint{
			ID:    100 + i + 1,
			Name:  fmt.Sprintf("%s Sprint %d", projectKey, i+1),
			State: jira.SprintClosed,
			Start: start,
			End:   end,
		}
		if i == cfg.Sprints-1 {
			sprint.State = jira.SprintActive
		} else {
			complete := end
			sprint.CompleteDate = &complete
		}
		g.data.Sprints[boardID] = append(g.data.Sprints[boardID], sprint)

		progress := float64(i) / float64(max(cfg.Sprints-1, 1))
		for n := 0; n < cfg.IssuesPerSprint; n++ {
			g.addIssue(sprint, progress)
		}
	}
	return g.data
}

func (g *generator) addIssue(sprint jira.Sprint, progress float64) {
	g.nextIssue++
	id := strconv.Itoa(20000 + g.nextIssue)
	key := fmt.Sprintf("%s-%d", projectKey, g.nextIssue)
	issueType := g.issueType()
	assignee := developers[g.rng.Intn(len(developers))]

	var points float64
	if issueType == "Story" || issueType == "Task" {
		points = storyPoints[g.rng.Intn(len(storyPoints))]
	}

	created := sprint.Start.AddDate(0, 0, -g.rng.Intn(10))
	started := sprint.Start.Add(time.Duration(g.rng.Intn(4*24)) * time.Hour)

	issue := jira.DatasetIssue{
		Issue: jira.Issue{
			ID:          id,
			Key:         key,
			Summary:     fmt.Sprintf("%s %d", issueType, g.nextIssue),
			IssueType:   issueType,
			Status:      "To Do",
			Assignee:    assignee,
			Created:     created,
			StoryPoints: points,
		},
	}

	// Issues added after sprint start show up as scope changes.
	if g.cfg.Scenario == "chaos" && g.rng.Float64() < 0.2 {
		added := sprint.Start.AddDate(0, 0, 2+g.rng.Intn(5))
		issue.History = append(issue.History, jira.HistoryEntry{
			Created: added,
			Items:   []jira.ChangeItem{{Field: "Sprint", To: sprint.Name}},
		})
		if added.After(started) {
			started = added
		}
	}

	cutoff := sprint.End
	if g.cfg.Now.Before(cutoff) {
		cutoff = g.cfg.Now
	}
	if !started.Before(cutoff) {
		g.data.Issues[sprint.ID] = append(g.data.Issues[sprint.ID], issue)
		return
	}

	issue.Status = "In Progress"
	issue.History = append(issue.History, statusChange(started, "To Do", "In Progress"))

	done := started.Add(time.Duration(g.cycleDays(progress) * 24 * float64(time.Hour)))
	switch {
	case done.Before(cutoff):
		review := started.Add(done.Sub(started) * 3 / 4)
		issue.History = append(issue.History,
			statusChange(review, "In Progress", "CODE REVIEW"),
			statusChange(done, "CODE REVIEW", "Done"),
		)
		issue.Status = "Done"
		resolved := done
		issue.ResolutionDate = &resolved
	case g.rng.Float64() < 0.3:
		review := started.Add(cutoff.Sub(started) / 2)
		issue.History = append(issue.History, statusChange(review, "In Progress", "CODE REVIEW"))
		issue.Status = "CODE REVIEW"
		done = cutoff
	default:
		done = cutoff
	}

	g.data.Worklogs[id] = g.worklogs(id, assignee, points, progress, started, done)
	g.data.Issues[sprint.ID] = append(g.data.Issues[sprint.ID], issue)
}

func (g *generator) issueType() string {
	r := g.rng.Float64()
	switch {
	case r < 0.5:
		return "Story"
	case r < 0.75:
		return "Task"
	case r < 0.9:
		return "Bug"
	default:
		return "Support"
	}
}

// cycleDays samples the time from start of work to resolution.
func (g *generator) cycleDays(progress float64) float64 {
	k, lambda := 2.5, 5.0
	switch g.cfg.Scenario {
	case "chaos":
		k = 0.8
		if g.cfg.Distribution == "weibull" {
			lambda = 7.0
		}
	case "drift":
		k = 2.5 - 1.7*progress
		lambda = 5.0 + 3.0*progress
	}

	if g.cfg.Distribution == "weibull" {
		return weibullSample(g.rng, k, lambda)
	}
	d := 2.0 + g.rng.Float64()*6.0
	if g.cfg.Scenario == "chaos" && g.rng.Float64() < 0.2 {
		d += 5 + g.rng.Float64()*10
	}
	if g.cfg.Scenario == "drift" {
		d *= 1 + progress
	}
	return d
}

// worklogs spreads the effort for an issue over one to three entries between
// from and to. Drift inflates effort in later sprints.
func (g *generator) worklogs(issueID, author string, points, progress float64, from, to time.Time) []jira.Worklog {
	base, ok := hoursPerPoint[points]
	if !ok {
		base = 2 + g.rng.Float64()*6
	}
	noise := 0.6 + g.rng.Float64()*0.8
	if g.cfg.Scenario == "drift" {
		noise *= 1 + progress
	}
	total := math.Max(0.5, math.Round(base*noise*2)/2)

	n := 1 + g.rng.Intn(3)
	span := to.Sub(from)
	logs := make([]jira.Worklog, 0, n)
	remaining := total
	for i := 0; i < n; i++ {
		hours := remaining
		if i < n-1 {
			hours = math.Round(total/float64(n)*2) / 2
		}
		if hours <= 0 {
			break
		}
		remaining -= hours
		g.nextLog++
		logs = append(logs, jira.Worklog{
			ID:         strconv.Itoa(g.nextLog),
			IssueID:    issueID,
			Author:     author,
			Started:    from.Add(span * time.Duration(i) / time.Duration(n)),
			TimeSpent:  formatHours(hours),
			HoursSpent: hours,
		})
	}
	return logs
}

func statusChange(at time.Time, from, to string) jira.HistoryEntry {
	return jira.HistoryEntry{
		Created: at,
		Items:   []jira.ChangeItem{{Field: "status", From: from, To: to}},
	}
}

func formatHours(h float64) string {
	whole := int(h)
	minutes := int(math.Round((h - float64(whole)) * 60))
	switch {
	case whole == 0:
		return fmt.Sprintf("%dm", minutes)
	case minutes == 0:
		return fmt.Sprintf("%dh", whole)
	}
	return fmt.Sprintf("%dh %dm", whole, minutes)
}

func weibullSample(rng *rand.Rand, k, lambda float64) float64 {
	u := rng.Float64()
	if u == 0 {
		u = 0.0001
	}
	// X = lambda * (-ln(1-u))^(1/k)
	return lambda * math.Pow(-math.Log(1.0-u), 1.0/k)
}
